package probe

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// StorageState is the availability of the external files directory.
type StorageState string

// Storage states reported by an AppContext.
const (
	StateMounted         StorageState = "mounted"
	StateMountedReadOnly StorageState = "mounted_ro"
	StateUnmounted       StorageState = "unmounted"
)

// Available reports whether the external files directory can be listed.
func (s StorageState) Available() bool {
	return s == StateMounted || s == StateMountedReadOnly
}

// AppContext is the host view of an application's storage.
type AppContext interface {
	// DatabaseList names the databases registered in the app's standard
	// databases directory, journals included.
	DatabaseList() []string
	// DatabasePath resolves a registered name to an absolute path.
	DatabasePath(name string) string
	// FilesDir is the app's private internal files directory. Empty means
	// none.
	FilesDir() string
	// ExternalFilesDir is the external files directory. Empty means none.
	ExternalFilesDir() string
	ExternalStorageState() StorageState
}

// DirContext is an AppContext over plain directories on an afero.Fs.
// Registered databases are the regular files in DatabasesDir.
type DirContext struct {
	Fs           afero.Fs
	DatabasesDir string
	Files        string
	External     string
}

var _ AppContext = (*DirContext)(nil)

// NewDirContext creates a DirContext. Empty directories disable the
// corresponding source.
func NewDirContext(fs afero.Fs, databasesDir, filesDir, externalDir string) *DirContext {
	return &DirContext{
		Fs:           fs,
		DatabasesDir: databasesDir,
		Files:        filesDir,
		External:     externalDir,
	}
}

// DatabaseList returns the sorted names of regular files in DatabasesDir.
// An unreadable or missing directory yields no names.
func (c *DirContext) DatabaseList() []string {
	if c.DatabasesDir == "" {
		return nil
	}
	entries, err := afero.ReadDir(c.Fs, c.DatabasesDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.Mode().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// DatabasePath joins name onto DatabasesDir.
func (c *DirContext) DatabasePath(name string) string {
	return filepath.Join(c.DatabasesDir, name)
}

// FilesDir implements AppContext.
func (c *DirContext) FilesDir() string { return c.Files }

// ExternalFilesDir implements AppContext.
func (c *DirContext) ExternalFilesDir() string { return c.External }

// ExternalStorageState reports mounted when the external directory exists
// and is writable, mounted_ro when it exists but is read-only (by permission
// bits or a read-only filesystem), and unmounted otherwise.
func (c *DirContext) ExternalStorageState() StorageState {
	if c.External == "" {
		return StateUnmounted
	}
	info, err := c.Fs.Stat(c.External)
	if err != nil || !info.IsDir() {
		return StateUnmounted
	}
	if _, ro := c.Fs.(*afero.ReadOnlyFs); ro || !writable(info) {
		return StateMountedReadOnly
	}
	return StateMounted
}

func writable(info os.FileInfo) bool {
	return info.Mode().Perm()&0o222 != 0
}
