package sshbridge

// FSStat is a capacity/usage summary of the filesystem holding a remote
// path, as reported by the statvfs-style query.
type FSStat struct {
	BlockSize       uint64 // preferred transfer block size
	FragmentSize    uint64 // fundamental filesystem block size
	Blocks          uint64 // total data blocks, in fragment units
	BlocksFree      uint64 // free blocks
	BlocksAvailable uint64 // free blocks for unprivileged users
	Files           uint64 // total inodes
	FilesFree       uint64 // free inodes
	NameMax         uint64 // maximum filename length
}

// TotalSpace returns the size of the filesystem in bytes.
func (s *FSStat) TotalSpace() uint64 {
	return s.FragmentSize * s.Blocks
}

// FreeSpace returns the number of free bytes available to unprivileged
// users.
func (s *FSStat) FreeSpace() uint64 {
	return s.FragmentSize * s.BlocksAvailable
}
