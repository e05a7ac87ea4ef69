package fetch

import (
	"github.com/firefly-engineering/stampwall/internal/system"
)

// DiskStore keeps verifier inputs in a temporary directory.
type DiskStore struct {
	fs  system.FileSystem
	dir string
}

// NewDiskStore creates a DiskStore writing to dir, or to the OS temporary
// directory when dir is empty.
func NewDiskStore(fs system.FileSystem, dir string) *DiskStore {
	return &DiskStore{fs: fs, dir: dir}
}

func (s *DiskStore) Put(name string, data []byte) (string, error) {
	return s.fs.WriteTemp(s.dir, "stampwall-"+name+"-", data)
}

func (s *DiskStore) Release(path string) error {
	return s.fs.Remove(path)
}
