// Package loader reads a program image into the instruction words the
// pipeline simulator executes.
package loader

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/xpivx-reader/RISC-V-CPU-SIM/pipeline"
)

// Program is a loaded instruction stream, ready to hand to
// pipeline.NewSimulator. Entry PC is always 0, per the image contract.
type Program struct {
	Words []uint32
}

// Load reads path as a sequence of little-endian 32-bit instruction words
// and returns the decoded Program. The file's length must be a multiple of
// 4 bytes; a trailing partial word is reported as ErrUnalignedFetch.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program image: %w", err)
	}
	return FromBytes(data)
}

// FromBytes parses a raw byte slice the same way Load does, without
// touching the filesystem. Useful for embedding a program image or
// constructing one in a test.
func FromBytes(data []byte) (*Program, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: image length %d is not a multiple of 4 bytes", pipeline.ErrUnalignedFetch, len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4 : i*4+4])
	}

	return &Program{Words: words}, nil
}
