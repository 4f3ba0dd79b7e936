package linker

import (
	"debug/elf"
	"sort"
)

// ClearPadding scrubs every inter-chunk gap SetOsecOffsets' alignment
// left in ctx.Buf, plus any tail after the last chunk. mmapbuffer.go
// opens the output file with O_TRUNC and then extends it, so a freshly
// mapped buffer already reads as zeros; this pass writes the zeros
// explicitly rather than relying on that.
func ClearPadding(ctx *Context) {
	chunks := append([]Chunker(nil), ctx.Chunks...)
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].GetShdr().Offset < chunks[j].GetShdr().Offset
	})

	zero := func(lo, hi uint64) {
		if hi <= lo || hi > uint64(len(ctx.Buf)) {
			return
		}
		gap := ctx.Buf[lo:hi]
		for i := range gap {
			gap[i] = 0
		}
	}

	end := uint64(0)
	for _, c := range chunks {
		shdr := c.GetShdr()
		if shdr.Type == uint32(elf.SHT_NOBITS) {
			continue
		}
		zero(end, shdr.Offset)
		if newEnd := shdr.Offset + shdr.Size; newEnd > end {
			end = newEnd
		}
	}
	zero(end, uint64(len(ctx.Buf)))
}
