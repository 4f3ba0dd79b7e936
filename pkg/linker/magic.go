package linker

import "debug/elf"

// CheckMagic reports whether contents begins with the four-byte ELF
// magic number (0x7f 'E' 'L' 'F') every relocatable object and shared
// object this linker reads must start with. GetFileType calls this
// before trying to interpret anything as an Ehdr; NewInputFile calls
// it again as a hard precondition since a non-ELF file reaching that
// point would otherwise misparse arbitrary bytes as section/symbol
// tables.
func CheckMagic(contents []byte) bool {
	return len(contents) >= 4 &&
		contents[0] == '\x7f' && contents[1] == 'E' && contents[2] == 'L' && contents[3] == 'F'
}

// WriteMagic fills an output Ehdr's e_ident field: the magic number,
// ELFCLASS64, little-endian data encoding, EV_CURRENT, and
// ELFOSABI_SYSV, leaving the remaining padding bytes zero.
func WriteMagic(ident []byte) {
	ident[0] = '\x7f'
	ident[1] = 'E'
	ident[2] = 'L'
	ident[3] = 'F'
	ident[4] = byte(elf.ELFCLASS64)
	ident[5] = byte(elf.ELFDATA2LSB)
	ident[6] = byte(elf.EV_CURRENT)
	ident[7] = byte(elf.ELFOSABI_NONE)
}
