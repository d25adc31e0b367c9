package scanner_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/unitstat/internal/adapters/scanner"
	"go.trai.ch/unitstat/internal/core/domain"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte{0xCA, 0xFE, 0xBA, 0xBE}, domain.PrivateFilePerm))
}

func writeArchive(t *testing.T, path string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	w := zip.NewWriter(f)
	for _, name := range names {
		entry, err := w.Create(name)
		require.NoError(t, err)
		if strings.HasSuffix(name, "/") {
			// Directory entries carry no content.
			continue
		}
		_, err = entry.Write([]byte{0xCA, 0xFE})
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

type collected struct {
	entries []domain.PathEntry
	errs    []error
}

func collect(ctx context.Context, s *scanner.Scanner, roots ...string) collected {
	var c collected
	for entry, err := range s.Scan(ctx, roots) {
		if err != nil {
			c.errs = append(c.errs, err)
			continue
		}
		c.entries = append(c.entries, entry)
	}
	return c
}

func names(entries []domain.PathEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestScanner_ArchiveAndLooseUnit(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(root, "lib", "util.jar")
	writeArchive(t, archive, "org/acme/util/Strings.class", "org/acme/util/Lists.class")
	writeFile(t, filepath.Join(root, "com", "example", "Main.class"))

	got := collect(t.Context(), scanner.New(nil, nil), root)

	require.Empty(t, got.errs)
	require.Len(t, got.entries, 3)
	assert.ElementsMatch(t, []string{
		"org.acme.util.Strings",
		"org.acme.util.Lists",
		"com.example.Main",
	}, names(got.entries))

	for _, e := range got.entries {
		if e.Name == "com.example.Main" {
			assert.Equal(t, domain.KindLoose, e.Kind)
			assert.Equal(t, root, e.Source.String())
			continue
		}
		assert.Equal(t, domain.KindPackaged, e.Kind)
		assert.Equal(t, archive, e.Source.String())
	}
}

func TestScanner_ArchiveRoot(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "app.zip")
	writeArchive(t, archive,
		"META-INF/MANIFEST.MF",
		"META-INF/versions/9/a/Hidden.class",
		"a/",
		"a/B.class",
		"a/readme.txt",
	)

	got := collect(t.Context(), scanner.New(nil, nil), archive)

	require.Empty(t, got.errs)
	assert.Equal(t, []string{"a.B"}, names(got.entries))
}

func TestScanner_SkipsVCSAndOtherFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "objects", "X.class"))
	writeFile(t, filepath.Join(root, ".jj", "Y.class"))
	writeFile(t, filepath.Join(root, "a", "Z.class"))
	writeFile(t, filepath.Join(root, "a", "notes.txt"))
	writeFile(t, filepath.Join(root, "a", "Upper.CLASS"))

	got := collect(t.Context(), scanner.New(nil, nil), root)

	require.Empty(t, got.errs)
	assert.ElementsMatch(t, []string{"a.Z", "a.Upper"}, names(got.entries))
}

func TestScanner_CustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "mod", "Unit.pyc"))
	writeArchive(t, filepath.Join(root, "bundle.whl"), "dep/Core.pyc")
	writeArchive(t, filepath.Join(root, "ignored.jar"), "x/Y.pyc")

	got := collect(t.Context(), scanner.New([]string{".pyc"}, []string{".whl"}), root)

	require.Empty(t, got.errs)
	assert.ElementsMatch(t, []string{"pkg.mod.Unit", "dep.Core"}, names(got.entries))
}

func TestScanner_BadRootsAreReportedAndSkipped(t *testing.T) {
	good := t.TempDir()
	writeFile(t, filepath.Join(good, "a", "B.class"))

	missing := filepath.Join(t.TempDir(), "missing")
	plain := filepath.Join(t.TempDir(), "notes.txt")
	writeFile(t, plain)
	corrupt := filepath.Join(t.TempDir(), "broken.jar")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip"), domain.PrivateFilePerm))

	got := collect(t.Context(), scanner.New(nil, nil), missing, plain, corrupt, good)

	require.Len(t, got.errs, 3)
	require.ErrorIs(t, got.errs[0], domain.ErrScanFailed)
	require.ErrorIs(t, got.errs[0], os.ErrNotExist)
	require.ErrorIs(t, got.errs[1], domain.ErrUnsupportedRoot)
	require.ErrorIs(t, got.errs[2], domain.ErrArchiveOpenFailed)
	assert.Equal(t, []string{"a.B"}, names(got.entries))
}

func TestScanner_Restartable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "B.class"))
	s := scanner.New(nil, nil)

	first := collect(t.Context(), s, root)
	writeFile(t, filepath.Join(root, "a", "C.class"))
	second := collect(t.Context(), s, root)

	assert.Len(t, first.entries, 1)
	assert.Len(t, second.entries, 2)
}

func TestScanner_EarlyBreak(t *testing.T) {
	root := t.TempDir()
	writeArchive(t, filepath.Join(root, "a.jar"), "a/A.class", "a/B.class")
	writeFile(t, filepath.Join(root, "x", "Y.class"))

	count := 0
	for _, err := range scanner.New(nil, nil).Scan(t.Context(), []string{root, root}) {
		require.NoError(t, err)
		count++
		if count == 1 {
			break
		}
	}
	assert.Equal(t, 1, count)
}

func TestScanner_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "B.class"))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	got := collect(ctx, scanner.New(nil, nil), root)
	require.Len(t, got.errs, 1)
	require.ErrorIs(t, got.errs[0], context.Canceled)
	assert.Empty(t, got.entries)
}
