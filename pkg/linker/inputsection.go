package linker

import (
	"debug/elf"
	"math"
	"unsafe"

	"github.com/goldlink/goldlink/pkg/diag"
	"github.com/goldlink/goldlink/pkg/linker/target"
	"github.com/goldlink/goldlink/pkg/utils"
)

type InputSection struct {
	File          *ObjectFile
	OutputSection *OutputSection
	Contents      []byte
	Deltas        []int32
	Offset        uint32
	Shndx         uint32
	RelsecIdx     uint32
	ShSize        uint32
	IsAlive       bool
	P2Align       uint8
	Rels          []Rela
}

func NewInputSection(
	ctx *Context, file *ObjectFile, name string, shndx int64,
) *InputSection {
	s := &InputSection{
		Offset:    math.MaxUint32,
		Shndx:     math.MaxUint32,
		RelsecIdx: math.MaxUint32,
		ShSize:    math.MaxUint32,
		IsAlive:   true,
	}
	s.File = file
	s.Shndx = uint32(shndx)

	shdr := s.Shdr()
	if shndx < int64(len(file.ElfSections)) {
		s.Contents = file.File.Contents[shdr.Offset : shdr.Offset+shdr.Size]
	}

	toP2Align := func(alignment uint64) int64 {
		if alignment == 0 {
			return 0
		}
		return int64(utils.CountrZero[uint64](alignment))
	}

	if shdr.Flags&uint64(elf.SHF_COMPRESSED) != 0 {
		chdr := s.Chdr()
		s.ShSize = uint32(chdr.Size)
		s.P2Align = uint8(toP2Align(chdr.AddrAlign))
	} else {
		s.ShSize = uint32(shdr.Size)
		s.P2Align = uint8(toP2Align(shdr.AddrAlign))
	}

	s.OutputSection =
		GetOutputSectionInstance(ctx, name, uint64(shdr.Type), shdr.Flags)

	return s
}

// NewSyntheticInputSection builds an InputSection with no backing ELF
// section header, used for a common-symbol allocation promoted into
// .bss by ConvertCommonSymbols.
func NewSyntheticInputSection(ctx *Context, file *ObjectFile, name string, size uint32, p2align uint8) *InputSection {
	s := &InputSection{
		Offset:    math.MaxUint32,
		Shndx:     math.MaxUint32,
		RelsecIdx: math.MaxUint32,
		ShSize:    size,
		IsAlive:   true,
		P2Align:   p2align,
		File:      file,
	}
	s.OutputSection = GetOutputSectionInstance(ctx, name, uint64(elf.SHT_NOBITS),
		uint64(elf.SHF_ALLOC|elf.SHF_WRITE))
	return s
}

func (s *InputSection) Shdr() *Shdr {
	if s.Shndx < uint32(len(s.File.ElfSections)) {
		return &s.File.ElfSections[s.Shndx]
	}

	return &Shdr{Type: uint32(elf.SHT_NOBITS), Flags: uint64(elf.SHF_ALLOC | elf.SHF_WRITE)}
}

func (s *InputSection) Chdr() Chdr {
	return utils.Read[Chdr](s.Contents)
}

func (s *InputSection) GetAddr() uint64 {
	return s.OutputSection.Shdr.Addr + uint64(s.Offset)
}

func (s *InputSection) Name() string {
	if uint32(len(s.File.ElfSections)) <= s.Shndx {
		return ".common"
	}
	return getName(s.File.ShStrtab, s.File.ElfSections[s.Shndx].Name)
}

func (s *InputSection) GetRels() []Rela {
	if s.RelsecIdx == math.MaxUint32 || s.Rels != nil {
		return s.Rels
	}

	bs := s.File.GetBytesFromShdr(&s.File.InputFile.ElfSections[s.RelsecIdx])
	nums := len(bs) / int(unsafe.Sizeof(Rela{}))
	s.Rels = make([]Rela, 0)
	for nums > 0 {
		s.Rels = append(s.Rels, utils.Read[Rela](bs))
		bs = bs[unsafe.Sizeof(Rela{}):]
		nums--
	}

	return s.Rels
}

// ScanRelocations classifies every relocation against this section,
// delegating the architecture-specific policy to ctx.Target and
// recording the outcome in each referenced symbol's Flags for scan_rels
// to later materialize into GOT/PLT/TLS synthetic-section slots.
func (s *InputSection) ScanRelocations(ctx *Context) {
	utils.Assert(s.Shdr().Flags&uint64(elf.SHF_ALLOC) != 0)

	rels := s.GetRels()
	for i := 0; i < len(rels); i++ {
		rel := &rels[i]
		if rel.Type == uint32(elf.R_X86_64_NONE) {
			continue
		}

		sym := s.File.Symbols[rel.Sym]
		if sym.File == nil && sym.DsoFile == nil {
			ctx.Diag.Add(diag.UndefinedSymbol, s.File.File.Name,
				"undefined symbol: %s", sym.Name)
			continue
		}

		preemptible := sym.IsPreemptible(ctx)
		q := target.RelocQuery{
			Type:              rel.Type,
			SymIsDso:          sym.DsoFile != nil,
			SymIsUndef:        sym.File == nil && sym.DsoFile == nil,
			SymIsWeak:         sym.IsWeak,
			SymIsPreemptible:  preemptible,
			SymIsTls:          s.Shdr().Flags&uint64(elf.SHF_TLS) != 0,
			SymIsAbs:          sym.SectionFragment == nil && sym.InputSection == nil && sym.File != nil,
			Shared:            ctx.Arg.Shared,
		}

		class := ctx.Target.ScanReloc(q)
		if class == target.NeedsNone {
			continue
		}

		sym.Mu.Lock()
		if class&target.NeedsGot != 0 {
			sym.Flags |= NEEDS_GOT
		}
		if class&target.NeedsPlt != 0 {
			sym.Flags |= NEEDS_PLT
		}
		if class&target.NeedsGotTpoff != 0 {
			sym.Flags |= NEEDS_GOTTP
		}
		if class&target.NeedsTlsgd != 0 {
			sym.Flags |= NEEDS_TLSGD
		}
		if class&target.NeedsTlsdesc != 0 {
			sym.Flags |= NEEDS_TLSDESC
		}
		if class&target.NeedsTlsld != 0 {
			sym.Flags |= NEEDS_TLSLD
		}
		if class&target.NeedsCopyrel != 0 && ctx.Target.IsCopyrelEligible(ctx.Arg.Shared) {
			sym.Flags |= NEEDS_COPYREL
		}
		if class&target.NeedsDynrel != 0 {
			sym.Flags |= NEEDS_DYNREL
		}
		if preemptible {
			sym.Flags |= NEEDS_DYNSYM
		}
		sym.Mu.Unlock()
	}
}

func (s *InputSection) GetPriority() int64 {
	return (int64(s.File.Priority) << 32) | int64(s.Shndx)
}

func (s *InputSection) WriteTo(ctx *Context, buf []byte) {
	if s.Shdr().Type == uint32(elf.SHT_NOBITS) || s.ShSize == 0 {
		return
	}

	s.CopyContents(ctx, buf)

	if s.Shdr().Flags&uint64(elf.SHF_ALLOC) != 0 {
		s.ApplyRelocAlloc(ctx, buf)
	}
}

func (s *InputSection) CopyContents(ctx *Context, buf []byte) {
	copy(buf, s.Contents)
}

// ApplyRelocAlloc patches every relocation against this section's
// output-image copy. x86-64 relocations are all byte- or
// doubleword-aligned little-endian patches, unlike a RISC ISA's
// bitfield-packed immediates, so there is a single write per class
// rather than a family of {i,s,b,u,j}type encoders.
func (s *InputSection) ApplyRelocAlloc(ctx *Context, base []byte) {
	rels := s.GetRels()

	for i := 0; i < len(rels); i++ {
		rel := rels[i]
		if rel.Type == uint32(elf.R_X86_64_NONE) {
			continue
		}

		sym := s.File.Symbols[rel.Sym]
		loc := base[rel.Offset:]

		S := sym.GetAddr(ctx)
		A := uint64(rel.Addend)
		P := s.GetAddr() + rel.Offset

		switch elf.R_X86_64(rel.Type) {
		case elf.R_X86_64_64:
			utils.Write[uint64](loc, S+A)
		case elf.R_X86_64_32:
			utils.Write[uint32](loc, uint32(S+A))
		case elf.R_X86_64_32S:
			utils.Write[uint32](loc, uint32(int32(S+A)))
		case elf.R_X86_64_PC32, elf.R_X86_64_PLT32:
			addr := S
			if idx := sym.GetPltIdx(ctx); idx != -1 && rel.Type == uint32(elf.R_X86_64_PLT32) {
				addr = sym.GetPltAddr(ctx)
			}
			utils.Write[uint32](loc, uint32(addr+A-P))
		case elf.R_X86_64_GOTPCREL, elf.R_X86_64_GOTPCRELX, elf.R_X86_64_REX_GOTPCRELX:
			utils.Write[uint32](loc, uint32(sym.GetGotAddr(ctx)+A-P))
		case elf.R_X86_64_GOTTPOFF:
			utils.Write[uint32](loc, uint32(sym.GetGotTpAddr(ctx)+A-P))
		case elf.R_X86_64_TPOFF32:
			utils.Write[uint32](loc, uint32(S+A-ctx.TpAddr))
		case elf.R_X86_64_TLSGD:
			utils.Write[uint32](loc, uint32(sym.GetTlsgdAddr(ctx)+A-P))
		case elf.R_X86_64_TLSLD:
			utils.Write[uint32](loc, uint32(ctx.Got.Shdr.Addr+uint64(ctx.Got.TlsldIdx)*8+A-P))
		case elf.R_X86_64_DTPOFF32:
			utils.Write[uint32](loc, uint32(S+A-ctx.TpAddr))
		case elf.R_X86_64_16:
			utils.Write[uint16](loc, uint16(S+A))
		case elf.R_X86_64_8:
			loc[0] = byte(S + A)
		default:
			ctx.Diag.Add(diag.Warning, s.File.File.Name,
				"unhandled relocation type %d against %s", rel.Type, sym.Name)
		}
	}
}

func (s *InputSection) GetFragment(rel *Rela) (*SectionFragment, uint32) {
	esym := &s.File.ElfSyms[rel.Sym]
	if esym.Type() == uint8(elf.STT_SECTION) {
		m := s.File.MergeableSections[s.File.GetShndx(esym, int64(rel.Sym))]
		return m.GetFragment(uint32(esym.Val) + uint32(rel.Addend))
	}
	return nil, 0
}
