package probe

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/dbinspector/pkg/types"
)

// writeFiles creates empty files (and their parents) on fs.
func writeFiles(t *testing.T, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fs, p, nil, 0o644))
	}
}

func debugLogger() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger), hook
}

func files(paths ...string) []types.DatabaseFile {
	out := make([]types.DatabaseFile, len(paths))
	for i, p := range paths {
		out[i] = types.DatabaseFile(p)
	}
	return out
}

func TestDiscover_RegisteredAndInternal(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs,
		"/app/databases/main.db",
		"/app/databases/main.db-journal",
		"/app/files/app.db",
		"/app/files/cache.txt",
		"/app/files/notes.cblite2/db.sqlite3",
	)
	app := NewDirContext(fs, "/app/databases", "/app/files", "")

	got := Discover(fs, app, Options{})

	assert.Equal(t, files(
		"/app/databases/main.db",
		"/app/files/app.db",
		"/app/files/notes.cblite2/db.sqlite3",
	), got)
}

func TestDiscover_JournalsExcluded(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs,
		"/app/databases/a.db",
		"/app/databases/a.db-journal",
		"/app/databases/b-journal",
	)
	app := NewDirContext(fs, "/app/databases", "", "")

	got := Discover(fs, app, Options{})

	assert.Equal(t, files("/app/databases/a.db"), got)
	for _, f := range got {
		assert.NotContains(t, f.Path(), journalSuffix)
	}
}

func TestDiscover_RegisteredSkipsExtensionFilter(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/app/databases/settings")
	app := NewDirContext(fs, "/app/databases", "", "")

	assert.Equal(t, files("/app/databases/settings"), Discover(fs, app, Options{}))
}

func TestDiscover_Deduplicates(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/app/files/databases/main.db")
	app := NewDirContext(fs, "/app/files/databases", "/app/files", "/app/files/databases/")

	got := Discover(fs, app, Options{})

	assert.Equal(t, files("/app/files/databases/main.db"), got)
}

func TestDiscover_External(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, fs afero.Fs) afero.Fs
		want  []types.DatabaseFile
	}{
		{
			name: "mounted lists top level only",
			setup: func(t *testing.T, fs afero.Fs) afero.Fs {
				return fs
			},
			want: files("/sdcard/a.sqlite"),
		},
		{
			name: "read-only by permission is still listed",
			setup: func(t *testing.T, fs afero.Fs) afero.Fs {
				require.NoError(t, fs.Chmod("/sdcard", os.ModeDir|0o555))
				return fs
			},
			want: files("/sdcard/a.sqlite"),
		},
		{
			name: "read-only filesystem is still listed",
			setup: func(t *testing.T, fs afero.Fs) afero.Fs {
				return afero.NewReadOnlyFs(fs)
			},
			want: files("/sdcard/a.sqlite"),
		},
		{
			name: "missing directory is unmounted",
			setup: func(t *testing.T, fs afero.Fs) afero.Fs {
				require.NoError(t, fs.RemoveAll("/sdcard"))
				return fs
			},
			want: files(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := afero.NewMemMapFs()
			writeFiles(t, base, "/sdcard/a.sqlite", "/sdcard/notes.txt", "/sdcard/sub/b.db")
			fs := tt.setup(t, base)
			app := NewDirContext(fs, "", "", "/sdcard")

			assert.Equal(t, tt.want, Discover(fs, app, Options{}))
		})
	}
}

func TestDirContext_ExternalStorageState(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/sdcard", 0o755))
	writeFiles(t, fs, "/plain.txt")

	assert.Equal(t, StateMounted, NewDirContext(fs, "", "", "/sdcard").ExternalStorageState())
	assert.Equal(t, StateMountedReadOnly, NewDirContext(afero.NewReadOnlyFs(fs), "", "", "/sdcard").ExternalStorageState())
	assert.Equal(t, StateUnmounted, NewDirContext(fs, "", "", "/missing").ExternalStorageState())
	assert.Equal(t, StateUnmounted, NewDirContext(fs, "", "", "/plain.txt").ExternalStorageState())
	assert.Equal(t, StateUnmounted, NewDirContext(fs, "", "", "").ExternalStorageState())

	assert.True(t, StateMounted.Available())
	assert.True(t, StateMountedReadOnly.Available())
	assert.False(t, StateUnmounted.Available())
}

func TestDirContext_DatabaseList(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/db/b.db", "/db/a.db", "/db/nested/c.db")
	app := NewDirContext(fs, "/db", "", "")

	assert.Equal(t, []string{"a.db", "b.db"}, app.DatabaseList())
	assert.Equal(t, "/db/a.db", app.DatabasePath("a.db"))
	assert.Nil(t, NewDirContext(fs, "/missing", "", "").DatabaseList())
}

func TestDiscover_MaxDepth(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs,
		"/f/top.db",
		"/f/one/one.db",
		"/f/one/two/two.db",
	)
	app := NewDirContext(fs, "", "/f", "")
	log, hook := debugLogger()

	got := Discover(fs, app, Options{MaxDepth: 1, Log: log})

	assert.Equal(t, files("/f/one/one.db", "/f/top.db"), got)
	assert.NotEmpty(t, hook.AllEntries())
}

func TestDiscover_EmptyContext(t *testing.T) {
	fs := afero.NewMemMapFs()
	got := Discover(fs, NewDirContext(fs, "", "", ""), Options{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHasDatabaseExtension(t *testing.T) {
	for _, name := range []string{"a.sql", "a.sqlite", "a.sqlite3", "a.db", "a.cblite", "a.cblite2"} {
		assert.True(t, HasDatabaseExtension(name), name)
	}
	for _, name := range []string{"a.txt", "a.db-journal", "a.db-wal", "db", "a.DB"} {
		assert.False(t, HasDatabaseExtension(name), name)
	}
}

func TestDiscover_SymlinkCycle(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	filesDir := filepath.Join(root, "files")
	require.NoError(t, os.MkdirAll(filepath.Join(filesDir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(filesDir, "sub", "a.db"), nil, 0o644))
	require.NoError(t, os.Symlink(filesDir, filepath.Join(filesDir, "sub", "loop")))
	require.NoError(t, os.Symlink(filepath.Join(filesDir, "sub", "a.db"), filepath.Join(filesDir, "alias.db")))
	require.NoError(t, os.Symlink(filepath.Join(root, "nowhere"), filepath.Join(filesDir, "dangling.db")))

	fs := afero.NewOsFs()
	log, hook := debugLogger()

	got := Discover(fs, NewDirContext(fs, "", filesDir, ""), Options{Log: log})

	assert.Equal(t, files(filepath.Join(filesDir, "sub", "a.db")), got)

	var skippedVisited bool
	for _, e := range hook.AllEntries() {
		if e.Message == "skip visited directory" {
			skippedVisited = true
		}
	}
	assert.True(t, skippedVisited, "the loop symlink should be cut at the visited check")
}
