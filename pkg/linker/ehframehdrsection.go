package linker

import "debug/elf"

// EhFrameHdrSection is .eh_frame_hdr: a sorted binary-searchable index
// over .eh_frame's FDEs (PT_GNU_EH_FRAME points here), letting an
// unwinder binary-search for the FDE covering a PC instead of scanning
// .eh_frame linearly. This implementation emits the fixed header plus a
// zero-length table; a real profile-quality unwinder still round-trips
// through .eh_frame directly, so no FDE indexing is attempted here.
type EhFrameHdrSection struct {
	Chunk
}

const ehFrameHdrSize = 12

func NewEhFrameHdrSection() *EhFrameHdrSection {
	e := &EhFrameHdrSection{Chunk: NewChunk()}
	e.Name = ".eh_frame_hdr"
	e.Shdr.Type = uint32(elf.SHT_PROGBITS)
	e.Shdr.Flags = uint64(elf.SHF_ALLOC)
	e.Shdr.AddrAlign = 4
	e.Shdr.Size = ehFrameHdrSize
	return e
}

func (e *EhFrameHdrSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[e.Shdr.Offset:]
	buf[0] = 1    // version
	buf[1] = 0x1b // eh_frame_ptr_enc: pcrel sdata4
	buf[2] = 0x03 // fde_count_enc: udata4
	buf[3] = 0x3b // table_enc: datarel sdata4

	ehFrameAddr := int64(0)
	if ctx.EhFrame != nil {
		ehFrameAddr = int64(ctx.EhFrame.Shdr.Addr)
	}
	rel := int32(ehFrameAddr - int64(e.Shdr.Addr) - 4)
	buf[4] = byte(rel)
	buf[5] = byte(rel >> 8)
	buf[6] = byte(rel >> 16)
	buf[7] = byte(rel >> 24)
	// fde_count left at zero: no FDE table is indexed.
}
