package engine

import (
	"bytes"
	"io"
)

// memFile is an in-memory File backed by a byte slice, used across engine
// tests so they don't depend on the real filesystem.
type memFile struct {
	data   []byte
	pos    int64
	closed bool
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.pos >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.pos
	case io.SeekEnd:
		base = int64(len(f.data))
	}
	f.pos = base + offset
	return f.pos, nil
}

func (f *memFile) Close() error {
	f.closed = true
	return nil
}

func (f *memFile) StreamPosition() (int64, error) {
	return f.pos, nil
}

// memFS is an in-memory FileSystem: every path maps to the same shared byte
// buffer registered via put, and Clone duplicates the cursor independently.
type memFS struct {
	files map[string][]byte
}

func newMemFS() *memFS {
	return &memFS{files: map[string][]byte{}}
}

func (m *memFS) put(path string, data []byte) {
	m.files[path] = data
}

func (m *memFS) Open(path string) (File, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, ErrDataNotFound
	}
	return &memFile{data: data}, nil
}

func (m *memFS) Clone(f File) (File, error) {
	src, ok := f.(*memFile)
	if !ok {
		return nil, ErrBadFormat
	}
	return &memFile{data: src.data, pos: src.pos}, nil
}

// makePCM builds a headerless little-endian 16-bit mono PCM buffer of n
// samples, each sample equal to its own index (useful for asserting exactly
// where a reader ended up).
func makePCM(n int) []byte {
	buf := &bytes.Buffer{}
	for i := 0; i < n; i++ {
		lo := byte(i & 0xff)
		hi := byte((i >> 8) & 0xff)
		buf.WriteByte(lo)
		buf.WriteByte(hi)
	}
	return buf.Bytes()
}
