package linker

import "debug/elf"

// GotEntry describes one eight-byte slot to be written into .got (or
// .got.plt). A Type of R_X86_64_NONE means the value is a plain
// link-time constant; any other type means the slot instead needs a
// dynamic relocation recorded in .rela.dyn, applied by the dynamic
// linker at load time.
type GotEntry struct {
	Idx  int64
	Val  uint64
	Type int64
}

func NewGotEntry(idx int64, val uint64, typ int64) GotEntry {
	return GotEntry{Idx: idx, Val: val, Type: typ}
}

func (e *GotEntry) IsRel() bool {
	return e.Type != int64(elf.R_X86_64_NONE)
}
