package localfs

import (
	"os/user"
)

// lookup resolves numeric ids through the OS user database, falling back
// to the numeric form when the id is unknown.
type lookup struct{}

// LookupUserName returns the OS username for the given uid.
func (lookup) LookupUserName(uid string) string {
	u, err := user.LookupId(uid)
	if err != nil {
		return uid
	}

	return u.Username
}

// LookupGroupName returns the OS group name for the given gid.
func (lookup) LookupGroupName(gid string) string {
	g, err := user.LookupGroupId(gid)
	if err != nil {
		return gid
	}

	return g.Name
}
