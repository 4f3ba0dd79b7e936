package linker

import "debug/elf"

// DynbssSection backs copy relocations: a writable .bss-like allocation
// in the executable that mirrors a DSO's exported data symbol, patched
// at load time by an R_X86_64_COPY relocation instead of every access
// going through the GOT. ScanRels places every copied symbol here,
// including ones whose DSO definition is read-only: no separate
// RELRO-protected copy section is created.
type DynbssSection struct {
	Chunk
	Syms []*Symbol
}

func NewDynbssSection() *DynbssSection {
	d := &DynbssSection{Chunk: NewChunk()}
	d.Name = ".dynbss"
	d.Shdr.Type = uint32(elf.SHT_NOBITS)
	d.Shdr.Flags = uint64(elf.SHF_ALLOC | elf.SHF_WRITE)
	d.Shdr.AddrAlign = 32
	return d
}

func (d *DynbssSection) Add(ctx *Context, sym *Symbol, size, align uint64) {
	if align == 0 {
		align = 1
	}
	if d.Shdr.AddrAlign < align {
		d.Shdr.AddrAlign = align
	}
	d.Shdr.Size = alignUp(d.Shdr.Size, align)
	sym.SetCopyrelIdx(ctx, int32(d.Shdr.Size))
	sym.HasCopyRel = true
	sym.Value = d.Shdr.Size
	sym.SetOutputSection(d)
	d.Shdr.Size += size
	d.Syms = append(d.Syms, sym)
}

func (d *DynbssSection) GetAddr() uint64 {
	return d.Shdr.Addr
}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
