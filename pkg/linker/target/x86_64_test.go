package target

import (
	"encoding/binary"
	"testing"
)

func TestWritePltHeaderFillsGotPltDisplacements(t *testing.T) {
	buf := make([]byte, 16)
	const pltAddr = 0x1000
	const gotPltAddr = 0x4000

	X8664{}.WritePltHeader(buf, pltAddr, gotPltAddr)

	push := binary.LittleEndian.Uint32(buf[2:6])
	if got, want := int32(push), int32(gotPltAddr+8-(pltAddr+6)); got != want {
		t.Errorf("push displacement = %#x, want %#x", got, want)
	}
	jmp := binary.LittleEndian.Uint32(buf[8:12])
	if got, want := int32(jmp), int32(gotPltAddr+16-(pltAddr+12)); got != want {
		t.Errorf("jmp displacement = %#x, want %#x", got, want)
	}
}

func TestWritePltEntryFillsDisplacementsAndIndex(t *testing.T) {
	buf := make([]byte, 16)
	const pltHeaderSize = 16
	const pltEntrySize = 16
	const pltIdx = int64(3)
	const pltBaseAddr = 0x1000
	pltAddr := uint64(pltBaseAddr + pltHeaderSize + pltIdx*pltEntrySize)
	const gotPltEntryAddr = 0x5000

	X8664{}.WritePltEntry(buf, pltAddr, gotPltEntryAddr, pltIdx)

	jmpGot := binary.LittleEndian.Uint32(buf[2:6])
	if got, want := int32(jmpGot), int32(gotPltEntryAddr-(pltAddr+6)); got != want {
		t.Errorf("jmp *gotplt displacement = %#x, want %#x", got, want)
	}

	idx := binary.LittleEndian.Uint32(buf[7:11])
	if idx != uint32(pltIdx) {
		t.Errorf("push index = %d, want %d", idx, pltIdx)
	}

	jmpHdr := binary.LittleEndian.Uint32(buf[12:16])
	if got, want := int32(jmpHdr), int32(int64(pltBaseAddr)-int64(pltAddr+16)); got != want {
		t.Errorf("jmp PLT[0] displacement = %#x, want %#x", got, want)
	}
}

func TestWritePltGotEntryFillsDisplacement(t *testing.T) {
	buf := make([]byte, 16)
	const addr = 0x2000
	const gotEntryAddr = 0x6000

	X8664{}.WritePltGotEntry(buf, addr, gotEntryAddr)

	jmp := binary.LittleEndian.Uint32(buf[2:6])
	if got, want := int32(jmp), int32(gotEntryAddr-(addr+6)); got != want {
		t.Errorf("jmp *got_entry displacement = %#x, want %#x", got, want)
	}
}
