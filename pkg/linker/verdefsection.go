package linker

import (
	"debug/elf"

	"github.com/goldlink/goldlink/pkg/utils"
)

// VerdefSection is .gnu.version_d: one Verdef/Verdaux record per version
// name a version script defined for this output (§6, ApplyVersionScript
// assigns the Ndx values consumed here), in Ndx order starting at
// VER_NDX_LAST_RESERVED+1. No base definition (index 1, VER_FLG_BASE)
// naming the soname or output file is emitted.
type VerdefSection struct {
	Chunk
	Names []string // indexed by Ndx - (VER_NDX_LAST_RESERVED+1)
}

func NewVerdefSection() *VerdefSection {
	v := &VerdefSection{Chunk: NewChunk()}
	v.Name = ".gnu.version_d"
	v.Shdr.Type = uint32(0x6ffffffd) // SHT_GNU_verdef
	v.Shdr.Flags = uint64(elf.SHF_ALLOC)
	v.Shdr.AddrAlign = 8
	v.Shdr.Info = 0
	return v
}

func (v *VerdefSection) NumDefs() int {
	return len(v.Names)
}

func (v *VerdefSection) UpdateShdr(ctx *Context) {
	if len(v.Names) == 0 {
		v.Shdr.Size = 0
		return
	}
	v.Shdr.Info = uint32(len(v.Names))
	v.Shdr.Link = uint32(ctx.Dynstr.Shndx)
	v.Shdr.Size = uint64(len(v.Names)) * 28 // Verdef(20) + one Verdaux(8)
}

func (v *VerdefSection) CopyBuf(ctx *Context) {
	if len(v.Names) == 0 {
		return
	}
	buf := ctx.Buf[v.Shdr.Offset:]
	off := 0
	for i, name := range v.Names {
		ndx := VER_NDX_LAST_RESERVED + 1 + uint16(i)
		entrySize := 20
		vd := Verdef{
			Version: 1,
			Flags:   0,
			Ndx:     ndx,
			Cnt:     1,
			Hash:    elfHash(name),
			Aux:     20,
			Next:    0,
		}
		if i < len(v.Names)-1 {
			vd.Next = uint32(entrySize + 8)
		}
		utils.Write[Verdef](buf[off:], vd)
		aux := Verdaux{Name: ctx.Dynstr.Add(name), Next: 0}
		utils.Write[Verdaux](buf[off+20:], aux)
		off += entrySize + 8
	}
}
