package linker

import "debug/elf"

// DynstrSection is .dynstr: the string table backing every name field in
// .dynsym, .dynamic (DT_SONAME/DT_NEEDED), and the version tables. Byte
// offset 0 is always the empty string, matching the ordinary ELF strtab
// convention.
type DynstrSection struct {
	Chunk
	strs   []string
	offset map[string]uint32
	size   uint32
}

func NewDynstrSection() *DynstrSection {
	d := &DynstrSection{Chunk: NewChunk(), offset: map[string]uint32{"": 0}, size: 1}
	d.Name = ".dynstr"
	d.Shdr.Type = uint32(elf.SHT_STRTAB)
	d.Shdr.Flags = uint64(elf.SHF_ALLOC)
	d.Shdr.AddrAlign = 1
	return d
}

// Add interns s and returns its byte offset within .dynstr.
func (d *DynstrSection) Add(s string) uint32 {
	if off, ok := d.offset[s]; ok {
		return off
	}
	off := d.size
	d.offset[s] = off
	d.strs = append(d.strs, s)
	d.size += uint32(len(s)) + 1
	return off
}

func (d *DynstrSection) UpdateShdr(ctx *Context) {
	d.Shdr.Size = uint64(d.size)
}

func (d *DynstrSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[d.Shdr.Offset:]
	buf[0] = 0
	pos := uint32(1)
	for _, s := range d.strs {
		copy(buf[pos:], s)
		buf[pos+uint32(len(s))] = 0
		pos += uint32(len(s)) + 1
	}
}
