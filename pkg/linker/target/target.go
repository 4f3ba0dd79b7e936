// Package target describes the architecture-specific policy the linker
// core is parametric over, per §9 of the specification ("Template
// parameterization on target"). The teacher hard-codes RISC-V64
// throughout pkg/linker; goldlink instead threads a Target through
// Context so pkg/linker's passes are written once. Only the x86-64
// instantiation is required (the Non-goal excludes other architectures),
// but every pass that needs architecture policy goes through this
// interface rather than a type switch, so a second Target could be added
// without touching the pipeline.
package target

import "debug/elf"

// RelocClass is the auxiliary-resource classification scan_rels (§4.12)
// derives from a single relocation. A relocation can request more than
// one resource (e.g. a GOT-relative TLS access also needs a GOT slot),
// so ScanReloc reports a bitmask of these rather than a single value.
type RelocClass uint32

const (
	NeedsNone RelocClass = 0
	NeedsGot  RelocClass = 1 << iota
	NeedsPlt
	NeedsGotTpoff
	NeedsTlsgd
	NeedsTlsdesc
	NeedsTlsld
	NeedsCopyrel
	NeedsDynrel // needs a R_*_RELATIVE/absolute dynamic relocation, no symbol-level slot
)

// RelocQuery is the input ScanReloc needs to classify one relocation.
type RelocQuery struct {
	Type            uint32
	SymIsDso        bool // symbol's current definer is a SharedFile
	SymIsUndef      bool
	SymIsWeak       bool
	SymIsPreemptible bool // DSO-defined, or exported from a shared output with default visibility
	SymIsTls        bool
	SymIsAbs        bool
	Shared          bool // producing a shared object
}

// Target is the architecture descriptor. An implementation is stateless
// and safe for concurrent use from every worker in the relocation-scan
// worker pool.
type Target interface {
	Name() string
	Machine() elf.Machine

	// Sizes, in bytes, of one slot/entry in each synthetic table.
	GotEntrySize() int64
	PltEntrySize() int64
	PltHeaderSize() int64
	PltGotEntrySize() int64

	// ScanReloc classifies a single relocation against the symbol it
	// targets. It must not mutate shared state; callers OR the returned
	// mask into the symbol's Flags themselves, holding that symbol's
	// own mutex while they do.
	ScanReloc(q RelocQuery) RelocClass

	// IsCopyrelEligible reports whether a direct (non-GOT, non-PLT)
	// absolute relocation against a DSO-provided data symbol should be
	// satisfied with a copy relocation rather than a dynamic relocation.
	// x86-64 always prefers copyrel for such symbols when producing an
	// executable (SHT_PROGBITS objects can't apply a load-time
	// relocation to themselves before the loader has run).
	IsCopyrelEligible(shared bool) bool

	// WritePltEntry encodes the lazy-binding PLT stub for slot pltIdx at
	// pltAddr, whose corresponding .got.plt slot lives at gotPltAddr.
	WritePltEntry(buf []byte, pltAddr, gotPltAddr uint64, pltIdx int64)

	// WritePltGotEntry encodes the non-lazy (BIND_NOW-style) PLT stub
	// used for the "pltgot" combined form (§4.12 step 5: "if GOT was
	// also requested, use the combined pltgot form"), placed at addr and
	// indirecting through the already-resolved GOT slot at gotEntryAddr.
	WritePltGotEntry(buf []byte, addr, gotEntryAddr uint64)

	// WritePltHeader encodes PLT[0] at addr, the shared trampoline into
	// the dynamic linker's resolver, whose two RIP-relative operands
	// reach into .got.plt starting at gotPltAddr.
	WritePltHeader(buf []byte, addr, gotPltAddr uint64)
}
