package target

import (
	"debug/elf"
	"encoding/binary"
)

// X8664 is the only Target instantiation this repository requires; the
// specification's Non-goal excludes every other architecture, but the
// interface above keeps this file the only place x86-64-specific
// encoding lives.
type X8664 struct{}

var _ Target = X8664{}

func (X8664) Name() string        { return "x86_64" }
func (X8664) Machine() elf.Machine { return elf.EM_X86_64 }

func (X8664) GotEntrySize() int64    { return 8 }
func (X8664) PltEntrySize() int64    { return 16 }
func (X8664) PltHeaderSize() int64   { return 16 }
func (X8664) PltGotEntrySize() int64 { return 8 }

// x86-64 relocation types relevant to the classification policy below.
const (
	rGOTPCREL       = uint32(elf.R_X86_64_GOTPCREL)
	rGOTPCRELX      = uint32(elf.R_X86_64_GOTPCRELX)
	rREXGOTPCRELX   = uint32(elf.R_X86_64_REX_GOTPCRELX)
	rPLT32          = uint32(elf.R_X86_64_PLT32)
	rTLSGD          = uint32(elf.R_X86_64_TLSGD)
	rTLSLD          = uint32(elf.R_X86_64_TLSLD)
	rGOTTPOFF       = uint32(elf.R_X86_64_GOTTPOFF)
	rGOTPC32TLSDESC = uint32(elf.R_X86_64_GOTPC32_TLSDESC)
	rTLSDESCCALL    = uint32(elf.R_X86_64_TLSDESC_CALL)
	r64             = uint32(elf.R_X86_64_64)
	r32             = uint32(elf.R_X86_64_32)
	r32S            = uint32(elf.R_X86_64_32S)
	rPC32           = uint32(elf.R_X86_64_PC32)
)

func (X8664) ScanReloc(q RelocQuery) RelocClass {
	var mask RelocClass

	switch q.Type {
	case rGOTPCREL, rGOTPCRELX, rREXGOTPCRELX:
		mask |= NeedsGot
	case rPLT32:
		if q.SymIsPreemptible {
			mask |= NeedsPlt
		}
	case rTLSGD:
		mask |= NeedsTlsgd
	case rTLSLD:
		mask |= NeedsTlsld
	case rGOTTPOFF:
		mask |= NeedsGotTpoff
	case rGOTPC32TLSDESC, rTLSDESCCALL:
		mask |= NeedsTlsdesc
	case r64, r32, r32S:
		if q.SymIsDso && !q.SymIsTls {
			mask |= NeedsCopyrel
		} else if q.SymIsPreemptible {
			mask |= NeedsDynrel
		}
	case rPC32:
		if q.SymIsPreemptible && !q.Shared {
			mask |= NeedsPlt
		}
	}

	// Dynsym membership itself is not decided here: scan_rels ORs
	// NEEDS_DYNSYM into every imported/exported symbol separately, per
	// §4.12 step 3.
	return mask
}

func (X8664) IsCopyrelEligible(shared bool) bool {
	// A shared object never copies a sister DSO's data into its own
	// BSS: only the final executable does, per the copyrel definition
	// in the glossary ("a strategy for referring to writable data in a
	// DSO from an executable").
	return !shared
}

// rip32 computes the 32-bit displacement a PC-relative operand needs to
// reach target, given the address of the byte immediately following the
// 4-byte displacement field itself: both a RIP-relative memory operand
// and a near jmp/call rel32 measure their displacement from the address
// of the next instruction, so callers pass insnAddr+len(insn) either way.
func rip32(target, nextInsnAddr uint64) uint32 {
	return uint32(int64(target) - int64(nextInsnAddr))
}

// WritePltHeader writes the standard lazy-PLT trampoline at addr:
//
//	push   *(gotplt+8)(%rip)
//	jmp    *(gotplt+16)(%rip)
//	nopl   0(%rax)
func (X8664) WritePltHeader(buf []byte, addr, gotPltAddr uint64) {
	code := []byte{
		0xff, 0x35, 0, 0, 0, 0, // push *GOTPLT+8(%rip)
		0xff, 0x25, 0, 0, 0, 0, // jmp *GOTPLT+16(%rip)
		0x0f, 0x1f, 0x40, 0x00, // nopl 0(%rax)
	}
	copy(buf, code)
	binary.LittleEndian.PutUint32(buf[2:], rip32(gotPltAddr+8, addr+6))
	binary.LittleEndian.PutUint32(buf[8:], rip32(gotPltAddr+16, addr+12))
}

// WritePltEntry writes the lazy-binding stub for one PLT slot at pltAddr:
//
//	jmp    *gotplt_slot(%rip)
//	push   $index
//	jmp    PLT[0]
//
// PLT[0] always sits at the start of the section this entry belongs to,
// PltHeaderSize bytes before the first entry, which in turn lies
// pltIdx*PltEntrySize bytes before this one, so its address is recovered
// from pltAddr and pltIdx rather than threaded through as its own
// parameter.
func (t X8664) WritePltEntry(buf []byte, pltAddr, gotPltAddr uint64, pltIdx int64) {
	code := []byte{
		0xff, 0x25, 0, 0, 0, 0, // jmp *GOTPLT(slot)(%rip)
		0x68, 0, 0, 0, 0, // push $reloc_index
		0xe9, 0, 0, 0, 0, // jmp PLT[0]
	}
	copy(buf, code)
	binary.LittleEndian.PutUint32(buf[2:], rip32(gotPltAddr, pltAddr+6))
	binary.LittleEndian.PutUint32(buf[7:], uint32(pltIdx))
	pltHeaderAddr := pltAddr - uint64(t.PltHeaderSize()) - uint64(pltIdx)*uint64(t.PltEntrySize())
	binary.LittleEndian.PutUint32(buf[12:], rip32(pltHeaderAddr, pltAddr+16))
}

// WritePltGotEntry writes the non-lazy "pltgot" combined form used when a
// symbol needs both a GOT and a PLT entry: an indirect jump at addr
// straight through the already-resolved GOT slot at gotEntryAddr,
// skipping the resolver stub.
func (X8664) WritePltGotEntry(buf []byte, addr, gotEntryAddr uint64) {
	code := []byte{
		0xff, 0x25, 0, 0, 0, 0, // jmp *got_entry(%rip)
		0x66, 0x90, // xchg %ax,%ax (padding)
		0x66, 0x90,
		0x66, 0x90,
		0x66, 0x90,
		0x66, 0x90,
	}
	copy(buf, code)
	binary.LittleEndian.PutUint32(buf[2:], rip32(gotEntryAddr, addr+6))
}
