package linker

import (
	"debug/elf"

	"github.com/goldlink/goldlink/pkg/utils"
)

// DynsymSection is .dynsym: the subset of the symbol table the dynamic
// linker needs at load time, i.e. every imported and every exported
// symbol. Index 0 is always the null symbol, per gABI convention.
type DynsymSection struct {
	Chunk
	Syms []*Symbol
}

func NewDynsymSection() *DynsymSection {
	d := &DynsymSection{Chunk: NewChunk()}
	d.Name = ".dynsym"
	d.Shdr.Type = uint32(elf.SHT_DYNSYM)
	d.Shdr.Flags = uint64(elf.SHF_ALLOC)
	d.Shdr.EntSize = 24
	d.Shdr.AddrAlign = 8
	d.Syms = []*Symbol{nil}
	return d
}

func (d *DynsymSection) Add(ctx *Context, sym *Symbol) {
	if sym.DynsymIdx != -1 {
		return
	}
	sym.DynsymIdx = int32(len(d.Syms))
	d.Syms = append(d.Syms, sym)
	ctx.Dynstr.Add(sym.Name)
}

func (d *DynsymSection) UpdateShdr(ctx *Context) {
	d.Shdr.Size = uint64(len(d.Syms)) * 24
	d.Shdr.Link = uint32(ctx.Dynstr.Shndx)
	d.Shdr.Info = 1
}

func (d *DynsymSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[d.Shdr.Offset:]

	for i, sym := range d.Syms {
		if sym == nil {
			continue
		}
		esym := Sym{
			Name: ctx.Dynstr.Add(sym.Name),
			Val:  sym.GetAddr(ctx),
		}
		if sym.IsImported {
			esym.Shndx = uint16(elf.SHN_UNDEF)
			esym.Info = uint8(elf.STT_NOTYPE)
		} else {
			esym.Shndx = 1
			esym.Info = uint8(elf.STB_GLOBAL)<<4 | uint8(elf.STT_OBJECT)&0xf
		}
		esym.SetVisibility(sym.Visibility)
		utils.Write[Sym](buf[i*24:], esym)
	}
}
