// Package probe locates candidate SQLite files in an application's storage.
// Implements: filesystem probe (registered databases, external files
// directory, recursive internal files walk).
package probe

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// journalSuffix marks rollback sidecars in the registered databases list.
const journalSuffix = "-journal"

// Extensions lists the file name suffixes that qualify a file as a database.
var Extensions = []string{".sql", ".sqlite", ".sqlite3", ".db", ".cblite", ".cblite2"}

// Options tune Discover.
type Options struct {
	// MaxDepth bounds the internal files walk. The root is depth 0. Zero
	// uses types.DefaultMaxDepth.
	MaxDepth int
	// Log receives skip traces at debug level. Nil uses the logrus
	// standard logger.
	Log *logrus.Entry
}

// Discover returns the database files visible through app, de-duplicated by
// canonical path and sorted. Unreadable files and directories are skipped.
//
// Registered databases are added as resolved, without the extension filter.
// The external files directory is listed non-recursively when available.
// The internal files directory is walked depth-first.
func Discover(fs afero.Fs, app AppContext, opts Options) []types.DatabaseFile {
	p := newProber(fs, opts)

	for _, name := range app.DatabaseList() {
		if strings.HasSuffix(name, journalSuffix) {
			continue
		}
		p.add(app.DatabasePath(name))
	}

	if ext := app.ExternalFilesDir(); ext != "" && app.ExternalStorageState().Available() {
		p.listFlat(ext)
	}

	if dir := app.FilesDir(); dir != "" {
		p.walk(dir)
	}

	return p.result()
}

// HasDatabaseExtension reports whether name ends in one of Extensions.
func HasDatabaseExtension(name string) bool {
	for _, ext := range Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

type prober struct {
	fs       afero.Fs
	log      *logrus.Entry
	maxDepth int
	found    map[string]struct{}
	visited  map[string]struct{}
}

func newProber(fs afero.Fs, opts Options) *prober {
	p := &prober{
		fs:       fs,
		log:      opts.Log,
		maxDepth: opts.MaxDepth,
		found:    make(map[string]struct{}),
		visited:  make(map[string]struct{}),
	}
	if p.log == nil {
		p.log = logrus.NewEntry(logrus.StandardLogger())
	}
	if p.maxDepth <= 0 {
		p.maxDepth = types.DefaultMaxDepth
	}
	return p
}

func (p *prober) add(path string) {
	p.found[p.canonical(path)] = struct{}{}
}

func (p *prober) result() []types.DatabaseFile {
	out := make([]types.DatabaseFile, 0, len(p.found))
	for path := range p.found {
		out = append(out, types.DatabaseFile(path))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// canonical resolves symlinks on the OS filesystem and cleans the path
// everywhere else. Paths that cannot be resolved are only cleaned.
func (p *prober) canonical(path string) string {
	abs := path
	if a, err := filepath.Abs(path); err == nil {
		abs = a
	}
	if _, ok := p.fs.(*afero.OsFs); ok {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			return resolved
		}
	}
	return filepath.Clean(abs)
}

// listFlat adds the qualifying files directly inside dir.
func (p *prober) listFlat(dir string) {
	entries, err := afero.ReadDir(p.fs, dir)
	if err != nil {
		p.log.WithError(err).WithField("dir", dir).Debug("skip unreadable directory")
		return
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		info, ok := p.follow(path, e)
		if ok && p.qualifies(path, info) {
			p.add(path)
		}
	}
}

type pending struct {
	dir   string
	depth int
}

// walk visits dir and its subdirectories with an explicit stack. A directory
// is entered at most once per canonical path, which breaks symlink cycles;
// MaxDepth bounds the rest.
func (p *prober) walk(root string) {
	stack := []pending{{dir: root}}
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key := p.canonical(next.dir)
		if _, seen := p.visited[key]; seen {
			p.log.WithField("dir", next.dir).Debug("skip visited directory")
			continue
		}
		p.visited[key] = struct{}{}

		entries, err := afero.ReadDir(p.fs, next.dir)
		if err != nil {
			p.log.WithError(err).WithField("dir", next.dir).Debug("skip unreadable directory")
			continue
		}

		// Push in reverse so entries are visited in name order.
		for i := len(entries) - 1; i >= 0; i-- {
			path := filepath.Join(next.dir, entries[i].Name())
			info, ok := p.follow(path, entries[i])
			if !ok {
				continue
			}
			if info.IsDir() {
				if next.depth+1 > p.maxDepth {
					p.log.WithField("dir", path).Debug("skip directory beyond max depth")
					continue
				}
				stack = append(stack, pending{dir: path, depth: next.depth + 1})
				continue
			}
			if p.qualifies(path, info) {
				p.add(path)
			}
		}
	}
}

// follow returns the target info for symlinks and the entry itself otherwise.
func (p *prober) follow(path string, entry os.FileInfo) (os.FileInfo, bool) {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry, true
	}
	info, err := p.fs.Stat(path)
	if err != nil {
		p.log.WithError(err).WithField("path", path).Debug("skip dangling symlink")
		return nil, false
	}
	return info, true
}

// qualifies applies the extension filter to a regular, readable file.
func (p *prober) qualifies(path string, info os.FileInfo) bool {
	if !info.Mode().IsRegular() || !HasDatabaseExtension(info.Name()) {
		return false
	}
	f, err := p.fs.Open(path)
	if err != nil {
		p.log.WithError(err).WithField("path", path).Debug("skip unreadable file")
		return false
	}
	f.Close()
	return true
}
