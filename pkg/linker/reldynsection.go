package linker

import (
	"debug/elf"
	"sort"
	"sync"

	"github.com/goldlink/goldlink/pkg/utils"
)

// RelDynSection is .rela.dyn: dynamic relocations the loader applies at
// load time, distinct from .rela.plt's lazily-bound function stubs.
// Entries come from GOT slots the loader must fill at load time
// (GLOB_DAT and the TLS kinds, plus one R_X86_64_RELATIVE per GOT slot
// a shared object needs rebased at its load address), and
// one R_X86_64_COPY per copy-relocated symbol. A symbol flagged only
// NEEDS_DYNREL gets no entry here.
type RelDynSection struct {
	Chunk
	mu    sync.Mutex
	Relas []Rela
}

func NewRelDynSection() *RelDynSection {
	r := &RelDynSection{Chunk: NewChunk()}
	r.Name = ".rela.dyn"
	r.Shdr.Type = uint32(elf.SHT_RELA)
	r.Shdr.Flags = uint64(elf.SHF_ALLOC)
	r.Shdr.EntSize = 24
	r.Shdr.AddrAlign = 8
	return r
}

func (r *RelDynSection) Add(rel Rela) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Relas = append(r.Relas, rel)
}

func (r *RelDynSection) UpdateShdr(ctx *Context) {
	sort.SliceStable(r.Relas, func(i, j int) bool { return r.Relas[i].Offset < r.Relas[j].Offset })
	r.Shdr.Size = uint64(len(r.Relas)) * 24
	r.Shdr.Link = uint32(ctx.Dynsym.Shndx)
}

func (r *RelDynSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[r.Shdr.Offset:]
	for i, rel := range r.Relas {
		utils.Write[Rela](buf[i*24:], rel)
	}
}
