package linker

import (
	"debug/elf"
	"testing"
)

func TestGetRankOrdering(t *testing.T) {
	strong := &ObjectFile{InputFile: InputFile{Priority: 5}}
	weakBind := uint8(elf.STB_WEAK) << 4
	weakSym := &Sym{Info: weakBind, Shndx: 1}
	strongSym := &Sym{Info: 0, Shndx: 1}
	commonSym := &Sym{Info: 0, Shndx: uint16(elf.SHN_COMMON)}

	strongDefined := GetRank(strong, strongSym, false)
	weakDefined := GetRank(strong, weakSym, false)
	strongLazy := GetRank(strong, strongSym, true)
	weakLazy := GetRank(strong, weakSym, true)
	common := GetRank(strong, commonSym, false)
	commonLazy := GetRank(strong, commonSym, true)

	// A strong definition from an already-live file always outranks
	// (sorts lower than) a weak one, and any archive-lazy candidate
	// always outranks a tentative (common) one.
	if !(strongDefined < weakDefined && weakDefined < strongLazy &&
		strongLazy < weakLazy && weakLazy < common && common < commonLazy) {
		t.Errorf("unexpected rank ordering: strongDefined=%d weakDefined=%d strongLazy=%d weakLazy=%d common=%d commonLazy=%d",
			strongDefined, weakDefined, strongLazy, weakLazy, common, commonLazy)
	}
}

func TestGetRankPriorityBreaksTies(t *testing.T) {
	lo := &ObjectFile{InputFile: InputFile{Priority: 1}}
	hi := &ObjectFile{InputFile: InputFile{Priority: 2}}
	sym := &Sym{Info: 0, Shndx: 1}

	if GetRank(lo, sym, false) >= GetRank(hi, sym, false) {
		t.Errorf("lower Priority should rank ahead (lower value) of higher Priority within the same band")
	}
}

func TestGetDsoRank(t *testing.T) {
	f := &SharedFile{InputFile: InputFile{Priority: 3}}
	if GetDsoRank(f, false) >= GetDsoRank(f, true) {
		t.Errorf("a strong DSO export should outrank a weak one")
	}
}
