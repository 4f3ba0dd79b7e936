package linker

import (
	"debug/elf"
	"testing"
)

func TestGetOutputName(t *testing.T) {
	cases := []struct {
		name  string
		flags uint64
		want  string
	}{
		{".text.foo", 0, ".text"},
		{".text", 0, ".text"},
		{".data.rel.ro.local", 0, ".data.rel.ro"},
		{".tbss.x", 0, ".tbss"},
		{".rodata.str1.1", uint64(elf.SHF_MERGE | elf.SHF_STRINGS), ".rodata.str"},
		{".rodata.cst8", uint64(elf.SHF_MERGE), ".rodata.cst"},
		{".comment", 0, ".comment"},
	}
	for _, c := range cases {
		if got := GetOutputName(c.name, c.flags); got != c.want {
			t.Errorf("GetOutputName(%q, %#x) = %q, want %q", c.name, c.flags, got, c.want)
		}
	}
}

func TestCanonicalizeType(t *testing.T) {
	if got := CanonicalizeType(".init_array.00100", uint64(elf.SHT_PROGBITS)); got != uint64(elf.SHT_INIT_ARRAY) {
		t.Errorf("CanonicalizeType(.init_array.00100) = %v, want SHT_INIT_ARRAY", got)
	}
	if got := CanonicalizeType(".fini_array", uint64(elf.SHT_PROGBITS)); got != uint64(elf.SHT_FINI_ARRAY) {
		t.Errorf("CanonicalizeType(.fini_array) = %v, want SHT_FINI_ARRAY", got)
	}
	if got := CanonicalizeType(".text", uint64(elf.SHT_PROGBITS)); got != uint64(elf.SHT_PROGBITS) {
		t.Errorf("CanonicalizeType(.text) = %v, want unchanged SHT_PROGBITS", got)
	}
}
