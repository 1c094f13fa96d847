package cpu

// IMem is the instruction memory. It is fixed at load time and read-only
// during simulation: the pipeline never writes back to it.
type IMem struct {
	words []uint32
}

// NewIMem creates an instruction memory preloaded with the given program
// image, one 32-bit instruction word per entry.
func NewIMem(program []uint32) *IMem {
	words := make([]uint32, len(program))
	copy(words, program)
	return &IMem{words: words}
}

// Fetch returns the instruction word at byte address pc, and false once pc
// is past the end of the program. Alignment is not checked: the low two
// bits of pc are dropped when it is turned into a word index.
func (m *IMem) Fetch(pc uint32) (uint32, bool) {
	idx := pc / 4
	if idx >= uint32(len(m.words)) {
		return 0, false
	}
	return m.words[idx], true
}

// Size returns the number of instruction words held in memory.
func (m *IMem) Size() int {
	return len(m.words)
}

// DMem is the byte-addressable, little-endian data memory. Storage is
// sparse: a byte that was never written reads back as zero without
// allocating an entry, matching a flat zero-initialized address space
// while only paying for addresses the program actually touches.
type DMem struct {
	bytes map[uint32]byte
}

// NewDMem creates an empty data memory, zero-initialized everywhere.
func NewDMem() *DMem {
	return &DMem{bytes: make(map[uint32]byte)}
}

// ReadByte reads a single unsigned byte from address addr.
func (m *DMem) ReadByte(addr uint32) uint8 {
	return m.bytes[addr]
}

// WriteByte writes a single byte to address addr.
func (m *DMem) WriteByte(addr uint32, value uint8) {
	m.bytes[addr] = value
}

// ReadHalf reads a little-endian 16-bit unsigned value starting at addr.
func (m *DMem) ReadHalf(addr uint32) uint16 {
	lo := uint16(m.ReadByte(addr))
	hi := uint16(m.ReadByte(addr + 1))
	return lo | hi<<8
}

// WriteHalf writes a little-endian 16-bit value starting at addr.
func (m *DMem) WriteHalf(addr uint32, value uint16) {
	m.WriteByte(addr, uint8(value))
	m.WriteByte(addr+1, uint8(value>>8))
}

// ReadWord reads a little-endian 32-bit value starting at addr.
func (m *DMem) ReadWord(addr uint32) uint32 {
	lo := uint32(m.ReadHalf(addr))
	hi := uint32(m.ReadHalf(addr + 2))
	return lo | hi<<16
}

// WriteWord writes a little-endian 32-bit value starting at addr.
func (m *DMem) WriteWord(addr uint32, value uint32) {
	m.WriteHalf(addr, uint16(value))
	m.WriteHalf(addr+2, uint16(value>>16))
}
