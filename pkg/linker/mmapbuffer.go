package linker

import (
	"os"

	"golang.org/x/sys/unix"
)

// OutputBuffer wraps the mmap'd output file: every CopyBuf call across
// every chunk writes directly into the mapping, avoiding the copy a
// make([]byte, size) buffer followed by a single bulk os.WriteFile
// would otherwise require for a multi-hundred-megabyte executable.
type OutputBuffer struct {
	file *os.File
	data []byte
}

// CreateOutputBuffer creates (or truncates) path, sizes it to size
// bytes, and maps it PROT_READ|PROT_WRITE/MAP_SHARED so every synthetic
// section's CopyBuf writes land directly on disk.
func CreateOutputBuffer(path string, size uint64, mode os.FileMode) (*OutputBuffer, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return nil, err
	}

	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}

	data := []byte{}
	if size > 0 {
		data, err = unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			f.Close()
			return nil, err
		}
	}

	return &OutputBuffer{file: f, data: data}, nil
}

func (b *OutputBuffer) Bytes() []byte {
	return b.data
}

// Close flushes the mapping back to disk and releases it. A linker
// process that crashes mid-CopyBuf leaves a partially written but
// still valid-length file, matching what an mmap-backed writer gives
// you for free over a buffered in-memory approach.
func (b *OutputBuffer) Close() error {
	if len(b.data) > 0 {
		if err := unix.Msync(b.data, unix.MS_SYNC); err != nil {
			return err
		}
		if err := unix.Munmap(b.data); err != nil {
			return err
		}
	}
	return b.file.Close()
}
