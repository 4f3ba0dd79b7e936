package linker

import (
	"bytes"
	"debug/elf"
)

const SHF_EXCLUDE uint32 = 0x80000000
const SHT_LLVM_ADDRSIG uint32 = 0x6fff4c03

// Version indices, per §6 of the specification.
const (
	VER_NDX_LOCAL         uint16 = 0
	VER_NDX_GLOBAL        uint16 = 1
	VER_NDX_LAST_RESERVED uint16 = 1
	VERSYM_HIDDEN         uint16 = 0x8000
)

const PageSize = 4096
const ImageBase uint64 = 0x200000

// Dyn is one entry of the .dynamic table (§3, DynamicSection).
type Dyn struct {
	Tag int64
	Val uint64
}

// Dynamic table tags this linker emits. debug/elf already names these
// (elf.DT_*); the int64 constants below are used at call sites that
// build a []Dyn directly so DynamicSection stays free of an elf.DynTag
// conversion at every append.
const (
	DT_NULL     = int64(elf.DT_NULL)
	DT_NEEDED   = int64(elf.DT_NEEDED)
	DT_HASH     = int64(elf.DT_HASH)
	DT_STRTAB   = int64(elf.DT_STRTAB)
	DT_SYMTAB   = int64(elf.DT_SYMTAB)
	DT_STRSZ    = int64(elf.DT_STRSZ)
	DT_SYMENT   = int64(elf.DT_SYMENT)
	DT_SONAME   = int64(elf.DT_SONAME)
	DT_RELA     = int64(elf.DT_RELA)
	DT_RELASZ   = int64(elf.DT_RELASZ)
	DT_RELAENT  = int64(elf.DT_RELAENT)
	DT_PLTGOT   = int64(elf.DT_PLTGOT)
	DT_PLTRELSZ = int64(elf.DT_PLTRELSZ)
	DT_PLTREL   = int64(elf.DT_PLTREL)
	DT_JMPREL   = int64(elf.DT_JMPREL)
	DT_BIND_NOW = int64(elf.DT_BIND_NOW)
	DT_FLAGS    = int64(elf.DT_FLAGS)
	DT_GNU_HASH = int64(0x6ffffef5)
	DT_VERDEF   = int64(0x6ffffffc)
	DT_VERDEFNUM = int64(0x6ffffffd)
	DT_VERNEED  = int64(0x6ffffffe)
	DT_VERNEEDNUM = int64(0x6fffffff)
	DT_VERSYM   = int64(0x6ffffff0)
)

// Verdef/Verdaux/Verneed/Vernaux mirror the ELF gABI structures used by
// .gnu.version_d and .gnu.version_r (§4.15, §6).
type Verdef struct {
	Version uint16
	Flags   uint16
	Ndx     uint16
	Cnt     uint16
	Hash    uint32
	Aux     uint32
	Next    uint32
}

type Verdaux struct {
	Name uint32
	Next uint32
}

type Verneed struct {
	Version uint16
	Cnt     uint16
	File    uint32
	Aux     uint32
	Next    uint32
}

type Vernaux struct {
	Hash  uint32
	Flags uint16
	Other uint16
	Name  uint32
	Next  uint32
}

type Ehdr struct {
	Ident     [16]uint8
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	PhOff     uint64
	ShOff     uint64
	Flags     uint32
	EhSize    uint16
	PhEntSize uint16
	PhNum     uint16
	ShEntSize uint16
	ShNum     uint16
	ShStrndx  uint16
}

type Shdr struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

type Phdr struct {
	Type     uint32
	Flags    uint32
	Offset   uint64
	VAddr    uint64
	PAddr    uint64
	FileSize uint64
	MemSize  uint64
	Align    uint64
}

type Sym struct {
	Name  uint32
	Info  uint8
	Other uint8
	Shndx uint16
	Val   uint64
	Size  uint64
}

func (s *Sym) IsUndef() bool {
	return s.Shndx == uint16(elf.SHN_UNDEF)
}

func (s *Sym) IsDefined() bool {
	return !s.IsUndef()
}

func (s *Sym) IsCommon() bool {
	return s.Shndx == uint16(elf.SHN_COMMON)
}

func (s *Sym) IsAbs() bool {
	return s.Shndx == uint16(elf.SHN_ABS)
}

func (s *Sym) IsWeak() bool {
	return s.Bind() == uint8(elf.STB_WEAK)
}

func (s *Sym) IsUndefWeak() bool {
	return s.IsUndef() && s.IsWeak()
}

func (s *Sym) Type() uint8 {
	return s.Info & 0xf
}

func (s *Sym) SetType(typ uint8) {
	s.Info = (s.Info & 0xf0) | (typ & 0xf)
}

func (s *Sym) Bind() uint8 {
	return s.Info >> 4
}
func (s *Sym) SetBind(bind uint8) {
	s.Info = (s.Info & 0xf) | (bind & 0xf0)
}

func (s *Sym) StVisibility() uint8 {
	return s.Other & 0b11
}

func (s *Sym) SetVisibility(v uint8) {
	s.Other = (s.Other & 0b11111100) | (v & 0b11)
}

type Rela struct {
	Offset uint64
	Type   uint32
	Sym    uint32
	Addend int64
}

type Chdr struct {
	Type      uint32
	Reserved  uint32
	Size      uint64
	AddrAlign uint64
}

func getName(strTab []byte, offset uint32) string {
	length := bytes.Index(strTab[offset:], []byte{0})
	return string(strTab[offset : offset+uint32(length)])
}

func writeString(buf []byte, str string) int64 {
	copy(buf, str)
	buf[len(str)] = 0
	return int64(len(str)) + 1
}
