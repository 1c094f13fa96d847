package loader_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xpivx-reader/RISC-V-CPU-SIM/loader"
	"github.com/xpivx-reader/RISC-V-CPU-SIM/pipeline"
)

var _ = Describe("Loader", func() {
	Describe("FromBytes", func() {
		It("parses little-endian 32-bit words", func() {
			data := []byte{0xEF, 0xBE, 0xAD, 0xDE, 0x01, 0x00, 0x00, 0x00}
			prog, err := loader.FromBytes(data)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint32{0xDEADBEEF, 0x00000001}))
		})

		It("rejects an image whose length is not a multiple of 4", func() {
			_, err := loader.FromBytes([]byte{0x01, 0x02, 0x03})
			Expect(err).To(MatchError(pipeline.ErrUnalignedFetch))
		})

		It("returns an empty program for an empty image", func() {
			prog, err := loader.FromBytes(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(BeEmpty())
		})
	})

	Describe("Load", func() {
		It("reads a program image from disk", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "prog.bin")
			Expect(os.WriteFile(path, []byte{0x93, 0x00, 0x50, 0x00}, 0o644)).To(Succeed())

			prog, err := loader.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint32{0x00500093}))
		})

		It("returns an error for a missing file", func() {
			_, err := loader.Load("/nonexistent/path/prog.bin")
			Expect(err).To(HaveOccurred())
		})
	})
})
