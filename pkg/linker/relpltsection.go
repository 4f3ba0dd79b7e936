package linker

import (
	"debug/elf"

	"github.com/goldlink/goldlink/pkg/utils"
)

// RelPltSection is .rela.plt: one R_X86_64_JUMP_SLOT relocation per
// lazily-bound PLT entry, indexed by DynsymIdx so ld.so's resolver stub
// can find the symbol it is being asked to bind.
type RelPltSection struct {
	Chunk
	Syms []*Symbol
}

func NewRelPltSection() *RelPltSection {
	r := &RelPltSection{Chunk: NewChunk()}
	r.Name = ".rela.plt"
	r.Shdr.Type = uint32(elf.SHT_RELA)
	r.Shdr.Flags = uint64(elf.SHF_ALLOC)
	r.Shdr.EntSize = 24
	r.Shdr.AddrAlign = 8
	return r
}

func (r *RelPltSection) Add(sym *Symbol) {
	r.Syms = append(r.Syms, sym)
}

func (r *RelPltSection) UpdateShdr(ctx *Context) {
	r.Shdr.Size = uint64(len(r.Syms)) * 24
	r.Shdr.Link = uint32(ctx.Dynsym.Shndx)
	r.Shdr.Info = uint32(ctx.Plt.Shndx)
}

func (r *RelPltSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[r.Shdr.Offset:]
	for i, sym := range r.Syms {
		idx := ctx.GotPlt.idxOf(sym)
		rel := Rela{
			Offset: ctx.GotPlt.EntryAddr(int64(idx)),
			Type:   uint32(elf.R_X86_64_JMP_SLOT),
			Sym:    uint32(sym.DynsymIdx),
		}
		utils.Write[Rela](buf[i*24:], rel)
	}
}
