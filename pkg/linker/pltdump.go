package linker

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WritePltDump renders .plt for --dump-plt. Every entry ctx.Target emits
// comes from a fixed 16-byte template (target.WritePltEntry), so the
// dump annotates each templated field directly from the section's own
// symbol table instead of running the bytes through a general-purpose
// x86-64 disassembler.
func WritePltDump(ctx *Context, w io.Writer) error {
	if ctx.Plt.Shdr.Size == 0 {
		return nil
	}

	fmt.Fprintf(w, "%-8s %-34s %s\n", "offset", "instruction", "target")

	header := ctx.Buf[ctx.Plt.Shdr.Offset : ctx.Plt.Shdr.Offset+uint64(ctx.Target.PltHeaderSize())]
	fmt.Fprintf(w, "%08x push   *%#x(%%rip)        ; .got.plt[1] (link_map)\n",
		ctx.Plt.Shdr.Addr, binary.LittleEndian.Uint32(header[2:6]))
	fmt.Fprintf(w, "%08x jmp    *%#x(%%rip)        ; .got.plt[2] (ld.so resolver)\n",
		ctx.Plt.Shdr.Addr+6, binary.LittleEndian.Uint32(header[8:12]))
	fmt.Fprintf(w, "%08x nopl   0(%%rax)\n", ctx.Plt.Shdr.Addr+12)

	entSize := uint64(ctx.Target.PltEntrySize())
	base := ctx.Plt.Shdr.Addr + uint64(ctx.Target.PltHeaderSize())
	for i, sym := range ctx.Plt.Syms {
		off := base + uint64(i)*entSize
		entry := ctx.Buf[ctx.Plt.Shdr.Offset+uint64(ctx.Target.PltHeaderSize())+uint64(i)*entSize:]
		gotOff := binary.LittleEndian.Uint32(entry[2:6])
		idx := binary.LittleEndian.Uint32(entry[7:11])

		fmt.Fprintf(w, "%08x jmp    *%#x(%%rip)        ; %s@got.plt\n", off, gotOff, sym.Name)
		fmt.Fprintf(w, "%08x push   $%d\n", off+6, idx)
		fmt.Fprintf(w, "%08x jmp    %#x               ; .plt[0]\n", off+11, ctx.Plt.Shdr.Addr)
	}
	return nil
}
