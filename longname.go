package sshbridge

import (
	"fmt"
	"time"
)

// NameLookup resolves numeric owner and group identifiers to display names
// in a portable manner.
type NameLookup interface {
	LookupUserName(uid string) string
	LookupGroupName(gid string) string
}

// FormatLongname renders attributes in `ls -l` style, close enough to
// openssh's longname field for typical display use.
//
// example:
// crw-rw-rw-    1 root     wheel           0 Jul 31 20:52 ttyvd
func FormatLongname(name string, attrs FileAttributes, idLookup NameLookup) string {
	symPerms := attrs.Mode.String()

	uid := fmt.Sprint(attrs.UID)
	gid := fmt.Sprint(attrs.GID)
	if idLookup != nil {
		uid, gid = idLookup.LookupUserName(uid), idLookup.LookupGroupName(gid)
	}

	mtime := attrs.Mtime
	month := mtime.Format("Jan")
	day := mtime.Format("2")

	var yearOrTime string
	if mtime.Before(time.Now().AddDate(0, -6, 0)) {
		yearOrTime = mtime.Format("2006")
	} else {
		yearOrTime = mtime.Format("15:04")
	}

	return fmt.Sprintf("%s %4s %-8s %-8s %8d %s % 2s %5s %s", symPerms, "1", uid, gid, attrs.Size, month, day, yearOrTime, name)
}
