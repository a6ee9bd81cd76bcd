package sshbridge

import (
	"context"
	"io"
)

// selfOrParent reports whether name is one of the well-known
// current-directory or parent-directory markers, which are filtered out
// at the listing boundary and never yielded to callers.
func selfOrParent(name string) bool {
	return name == "." || name == ".."
}

// dirStream is a lazy, finite, forward-only sequence of directory entries
// over one open RawDir handle. Each next call is one invoker-wrapped
// blocking operation; the stream is restartable only by reopening.
type dirStream struct {
	ctx context.Context
	d   RawDir
	iv  *invoker
}

// next returns the next entry, skipping self/parent markers. It returns
// (nil, nil) at end of sequence; end is not an error.
func (s *dirStream) next() (*DirEntry, error) {
	for {
		ent, err := invoke(s.ctx, s.iv, s.d.Next)
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, err
		}
		if ent == nil {
			return nil, nil
		}
		if selfOrParent(ent.Name) {
			continue
		}
		return ent, nil
	}
}
