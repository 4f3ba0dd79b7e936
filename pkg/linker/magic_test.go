package linker

import "testing"

func TestCheckMagic(t *testing.T) {
	if !CheckMagic([]byte{0x7f, 'E', 'L', 'F', 1, 2}) {
		t.Error("expected valid ELF magic to be recognized")
	}
	if CheckMagic([]byte("!<arch>\n")) {
		t.Error("archive magic must not be recognized as ELF magic")
	}
	if CheckMagic([]byte{0x7f, 'E'}) {
		t.Error("truncated magic must not be recognized")
	}
}

func TestWriteMagic(t *testing.T) {
	ident := make([]byte, 16)
	WriteMagic(ident)
	if !CheckMagic(ident) {
		t.Error("WriteMagic must produce bytes CheckMagic accepts")
	}
	if ident[4] != 2 { // ELFCLASS64
		t.Errorf("ident[EI_CLASS] = %d, want 2 (ELFCLASS64)", ident[4])
	}
	if ident[5] != 1 { // ELFDATA2LSB
		t.Errorf("ident[EI_DATA] = %d, want 1 (ELFDATA2LSB)", ident[5])
	}
}
