package linker

import (
	"debug/elf"

	"github.com/goldlink/goldlink/pkg/utils"
)

// SymtabSection is .symtab: the full, non-stripped symbol table carried
// for debuggers and profilers. It is populated in one pass over every
// live object file's locals followed by the globals it won resolution
// for, mirroring the layout gABI requires (locals first, sh_info holds
// the index of the first global).
type SymtabSection struct {
	Chunk
	locals  []symtabEnt
	globals []symtabEnt
}

type symtabEnt struct {
	name string
	sym  *Symbol
	esym Sym
}

func NewSymtabSection() *SymtabSection {
	s := &SymtabSection{Chunk: NewChunk()}
	s.Name = ".symtab"
	s.Shdr.Type = uint32(elf.SHT_SYMTAB)
	s.Shdr.EntSize = 24
	s.Shdr.AddrAlign = 8
	return s
}

// Populate walks every live object file, recording each local symbol
// verbatim and each global symbol this file actually won resolution
// for (so a global defined in one TU and merely referenced in another
// is emitted only once).
func (s *SymtabSection) Populate(ctx *Context) {
	for _, obj := range ctx.Objs {
		if !obj.IsAlive.Load() {
			continue
		}
		for i := int64(1); i < obj.FirstGlobal; i++ {
			sym := obj.Symbols[i]
			if sym.Name == "" {
				continue
			}
			s.locals = append(s.locals, symtabEnt{name: sym.Name, sym: sym, esym: obj.ElfSyms[i]})
		}
		for i := obj.FirstGlobal; i < int64(len(obj.ElfSyms)); i++ {
			sym := obj.Symbols[i]
			if sym.File != obj || sym.Name == "" {
				continue
			}
			s.globals = append(s.globals, symtabEnt{name: sym.Name, sym: sym, esym: obj.ElfSyms[i]})
		}
	}
}

func (s *SymtabSection) UpdateShdr(ctx *Context) {
	s.Shdr.Size = uint64(1+len(s.locals)+len(s.globals)) * 24
	s.Shdr.Link = uint32(ctx.Strtab.Shndx)
	s.Shdr.Info = uint32(1 + len(s.locals))
}

func (s *SymtabSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[s.Shdr.Offset:]
	utils.Write[Sym](buf, Sym{})
	off := 24

	write := func(ent symtabEnt) {
		esym := Sym{
			Name:  ctx.Strtab.Add(ent.name),
			Info:  ent.esym.Info,
			Other: ent.esym.Other,
			Size:  ent.esym.Size,
			Val:   ent.sym.GetAddr(ctx),
		}
		if ent.sym.InputSection != nil && ent.sym.InputSection.IsAlive {
			esym.Shndx = uint16(ent.sym.InputSection.OutputSection.Shndx)
		} else if ent.sym.HasCopyRel {
			esym.Shndx = uint16(ctx.Dynbss.Shndx)
		} else {
			esym.Shndx = uint16(elf.SHN_ABS)
		}
		utils.Write[Sym](buf[off:], esym)
		off += 24
	}

	for _, ent := range s.locals {
		write(ent)
	}
	for _, ent := range s.globals {
		write(ent)
	}
}
