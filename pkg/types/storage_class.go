package types

import "fmt"

// StorageClass is the dynamic SQLite type of a cell value. The integer tags
// are part of the public contract and must not be renumbered.
type StorageClass int

// Storage-class tags.
const (
	StorageUnknown StorageClass = -1
	StorageNull    StorageClass = 0
	StorageInteger StorageClass = 1
	StorageFloat   StorageClass = 2
	StorageString  StorageClass = 3
	StorageBlob    StorageClass = 4
)

var storageClassNames = map[StorageClass]string{
	StorageUnknown: "UNKNOWN",
	StorageNull:    "NULL",
	StorageInteger: "INTEGER",
	StorageFloat:   "FLOAT",
	StorageString:  "STRING",
	StorageBlob:    "BLOB",
}

// String returns the upper-case name of the storage class.
func (s StorageClass) String() string {
	if name, ok := storageClassNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StorageClass(%d)", int(s))
}
