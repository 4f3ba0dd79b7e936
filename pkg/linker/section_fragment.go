package linker

import (
	"math"
)

// SectionFragment is one deduplicated piece of a mergeable section
// (SHF_MERGE|SHF_STRINGS string-literal pools, SHF_MERGE constant
// pools): every input section contributing an identical piece points
// at the same fragment, so a string like a shared library's own soname
// literal or a PLT stub's format string only occupies space once in
// the linked output. Offset starts at an out-of-range sentinel so a
// fragment that never gets registered by AssignOffsets is easy to spot.
type SectionFragment struct {
	OutputSection *MergedSection
	Offset        uint32
	P2Align       uint32
	IsAlive       bool
}

func NewSectionFragment(m *MergedSection) *SectionFragment {
	return &SectionFragment{OutputSection: m, Offset: math.MaxUint32}
}

// GetAddr returns the fragment's final virtual address, valid only
// after SetOsecOffsets has assigned OutputSection's own address —
// symbol.go's Symbol.GetAddr calls this for any symbol resolved into a
// merged section (e.g. a copy-relocation's source string constant).
func (f *SectionFragment) GetAddr() uint64 {
	return f.OutputSection.Shdr.Addr + uint64(f.Offset)
}
