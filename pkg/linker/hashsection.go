package linker

import (
	"debug/elf"

	"github.com/goldlink/goldlink/pkg/utils"
)

// HashSection is the classic SysV .hash table (DT_HASH): a bucket array
// keyed by elfHash(name) mod nbucket, chained through a parallel array
// indexed by .dynsym position. Emitted only when --hash-style requests
// sysv (or both).
type HashSection struct {
	Chunk
}

func NewHashSection() *HashSection {
	h := &HashSection{Chunk: NewChunk()}
	h.Name = ".hash"
	h.Shdr.Type = uint32(elf.SHT_HASH)
	h.Shdr.Flags = uint64(elf.SHF_ALLOC)
	h.Shdr.EntSize = 4
	h.Shdr.AddrAlign = 4
	return h
}

func (h *HashSection) UpdateShdr(ctx *Context) {
	nsyms := uint32(len(ctx.Dynsym.Syms))
	nbucket := nsyms
	if nbucket == 0 {
		nbucket = 1
	}
	h.Shdr.Size = uint64(2+nbucket+nsyms) * 4
	h.Shdr.Link = uint32(ctx.Dynsym.Shndx)
}

func (h *HashSection) CopyBuf(ctx *Context) {
	nsyms := uint32(len(ctx.Dynsym.Syms))
	nbucket := nsyms
	if nbucket == 0 {
		nbucket = 1
	}

	buf := ctx.Buf[h.Shdr.Offset:]
	utils.Write[uint32](buf[0:], nbucket)
	utils.Write[uint32](buf[4:], nsyms)

	buckets := buf[8:]
	chains := buf[8+nbucket*4:]

	for i, sym := range ctx.Dynsym.Syms {
		if sym == nil {
			continue
		}
		bucket := elfHash(sym.Name) % nbucket
		utils.Write[uint32](chains[uint32(i)*4:], utils.Read[uint32](buckets[bucket*4:]))
		utils.Write[uint32](buckets[bucket*4:], uint32(i))
	}
}
