package linker

import (
	"debug/elf"
	"strings"
)

// outputSectionPrefixes lists every numbered input-section family that
// collapses into one output section, the same grouping GNU ld applies
// regardless of target architecture. ".data.rel.ro."/".bss.rel.ro."
// (RELRO data that carries a load-time relocation) and ".tbss."/
// ".tdata." (TLS blocks) matter more here than they did for the
// teacher's static linker, since a DSO-linked binary is far more
// likely to carry both.
var outputSectionPrefixes = []string{
	".text.", ".data.rel.ro.", ".data.", ".rodata.", ".bss.rel.ro.", ".bss.",
	".init_array.", ".fini_array.", ".tbss.", ".tdata.", ".gcc_except_table.",
	".ctors.", ".dtors.",
}

// GetOutputName maps an input section name to the output section it
// merges into, e.g. ".text.foo" and ".text.bar" both fold into
// ".text". Mergeable .rodata gets split further by SHF_STRINGS so
// string-literal pools and constant pools land in separate output
// sections.
func GetOutputName(name string, flags uint64) string {
	if (name == ".rodata" || strings.HasPrefix(name, ".rodata.")) &&
		flags&uint64(elf.SHF_MERGE) != 0 {
		if flags&uint64(elf.SHF_STRINGS) != 0 {
			return ".rodata.str"
		} else {
			return ".rodata.cst"
		}
	}

	for _, prefix := range outputSectionPrefixes {
		stem := prefix[:len(prefix)-1]
		if name == stem || strings.HasPrefix(name, prefix) {
			return stem
		}
	}
	return name
}

// CanonicalizeType upgrades a plain SHT_PROGBITS section to
// SHT_INIT_ARRAY/SHT_FINI_ARRAY by name when an older assembler or
// hand-written object omitted the proper section type; AddSyntheticSymbols
// depends on the corrected type to find the boundaries of the
// constructor/destructor tables it binds __init_array_start/end to.
func CanonicalizeType(name string, typ uint64) uint64 {
	if typ == uint64(elf.SHT_PROGBITS) {
		if name == ".init_array" || strings.HasPrefix(name, ".init_array.") {
			return uint64(elf.SHT_INIT_ARRAY)
		}
		if name == ".fini_array" || strings.HasPrefix(name, ".fini_array.") {
			return uint64(elf.SHT_FINI_ARRAY)
		}
	}
	return typ
}
