package linker

import (
	"crypto/sha256"
	"debug/elf"
)

// BuildIdSection is .note.gnu.build-id: a content hash the loader,
// debugger, and crash-dump tooling use to match a binary against its
// separate debug info. The id is computed from the final image in
// ClearPadding's pass ordering, after every other section has its
// bytes finalized, since it must hash the actual output.
type BuildIdSection struct {
	Chunk
	id [sha256.Size]byte
}

const noteNameSize = 4 // "GNU\0"

func NewBuildIdSection() *BuildIdSection {
	b := &BuildIdSection{Chunk: NewChunk()}
	b.Name = ".note.gnu.build-id"
	b.Shdr.Type = uint32(elf.SHT_NOTE)
	b.Shdr.Flags = uint64(elf.SHF_ALLOC)
	b.Shdr.AddrAlign = 4
	b.Shdr.Size = uint64(12 + noteNameSize + sha256.Size)
	return b
}

func (b *BuildIdSection) CopyBuf(ctx *Context) {
	buf := ctx.Buf[b.Shdr.Offset:]
	writeLE32 := func(off int, v uint32) {
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}
	writeLE32(0, noteNameSize)
	writeLE32(4, sha256.Size)
	writeLE32(8, 3) // NT_GNU_BUILD_ID
	copy(buf[12:], "GNU\x00")
}

// FinalizeBuildId hashes the fully populated output image and writes the
// digest into the reserved note payload; it must run after every other
// chunk's CopyBuf.
func (b *BuildIdSection) FinalizeBuildId(ctx *Context) {
	sum := sha256.Sum256(ctx.Buf)
	copy(ctx.Buf[b.Shdr.Offset+12+noteNameSize:], sum[:])
}
