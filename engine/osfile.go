package engine

import (
	"fmt"
	"os"
)

// OSFileSystem is the hosted (desktop) implementation of FileSystem: plain
// files on a local filesystem. The embedded target implements the same
// interface against its SD/FAT block driver; the core never cares which.
type OSFileSystem struct{}

// osFile remembers its path so Clone can reopen an independent descriptor
// positioned at the same offset, rather than dup()ing the fd (which would
// share the OS-level file offset instead of giving an independent cursor).
type osFile struct {
	path string
	f    *os.File
}

func (f *osFile) Read(p []byte) (int, error) {
	return f.f.Read(p)
}

func (f *osFile) Seek(offset int64, whence int) (int64, error) {
	return f.f.Seek(offset, whence)
}

func (f *osFile) Close() error {
	return f.f.Close()
}

func (f *osFile) StreamPosition() (int64, error) {
	return f.f.Seek(0, os.SEEK_CUR)
}

func (OSFileSystem) Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &osFile{path: path, f: f}, nil
}

func (OSFileSystem) Clone(file File) (File, error) {
	src, ok := file.(*osFile)
	if !ok {
		return nil, fmt.Errorf("engine: OSFileSystem.Clone: not an os-backed file")
	}
	pos, err := src.StreamPosition()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(src.path)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(pos, os.SEEK_SET); err != nil {
		f.Close()
		return nil, err
	}
	return &osFile{path: src.path, f: f}, nil
}
