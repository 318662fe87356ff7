// Package shm implements the name-addressed shared-memory objects the
// flexsdr dataplane is built on: mmap'd segments, single-producer
// single-consumer rings of packet references, and packet buffer pools.
//
// Every object lives in its own file under the runtime directory (a
// hugepage mount or tmpfs). The primary process creates the files; any
// number of secondaries attach by name. All cross-process coordination
// happens through atomics inside the mapped region, so a ring has exactly
// one producer and one consumer at a time while a pool may be allocated
// from and freed to by different processes.
package shm

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const segmentVersion = uint32(1)

var (
	// ErrNotFound is returned when attaching to an object whose backing
	// file does not exist. The primary has not created it (yet).
	ErrNotFound = errors.New("shm: object not found")

	// ErrBadMagic is returned when a backing file exists but does not
	// carry the expected object signature. Attaching fails; the mapped
	// data is never interpreted.
	ErrBadMagic = errors.New("shm: bad magic")

	// ErrVersionMismatch is returned when the object was created by an
	// incompatible flexsdr version.
	ErrVersionMismatch = errors.New("shm: version mismatch")
)

// Segment is one mmap'd shared-memory file.
type Segment struct {
	Path string
	Mem  []byte

	file  *os.File
	owner bool // created by this process; Unlink removes the file
}

// createSegment creates and maps a new segment of the given size. It fails
// if the file already exists.
func createSegment(path string, size int) (*Segment, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create segment %s: %w", path, err)
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("resize segment %s: %w", path, err)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("mmap segment %s: %w", path, err)
	}
	return &Segment{Path: path, Mem: mem, file: f, owner: true}, nil
}

// attachSegment maps an existing segment file.
func attachSegment(path string) (*Segment, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open segment %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat segment %s: %w", path, err)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap segment %s: %w", path, err)
	}
	return &Segment{Path: path, Mem: mem, file: f}, nil
}

// segmentExists reports whether the backing file is present.
func segmentExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Close unmaps the segment. The backing file stays; object lifetime is the
// shared-memory segment itself, torn down by the primary's Unlink.
func (s *Segment) Close() error {
	var errs []error
	if s.Mem != nil {
		if err := unix.Munmap(s.Mem); err != nil {
			errs = append(errs, err)
		}
		s.Mem = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			errs = append(errs, err)
		}
		s.file = nil
	}
	return errors.Join(errs...)
}

// Unlink removes the backing file. Only meaningful on the creating side.
func (s *Segment) Unlink() error {
	if !s.owner {
		return nil
	}
	return os.Remove(s.Path)
}
