package generator

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"

	"github.com/nk2028/rime-dict-builder/internal/converter"
	"github.com/nk2028/rime-dict-builder/internal/domain"
	"github.com/nk2028/rime-dict-builder/internal/phonology"
	"github.com/nk2028/rime-dict-builder/pkg/ctxutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeSources(t *testing.T, chars, words, extra string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		CharsTable:      chars,
		WordsTable:      words,
		ExtraWordsTable: extra,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func stubScheme(name string, overrides converter.Overrides) Scheme {
	return Scheme{
		Name: name,
		Deriver: phonology.NewTableDeriver(map[string]string{
			"ka1":  "ka",
			"zin2": "zin",
			"jan4": "jan",
		}),
		Overrides: overrides,
	}
}

// readArtifact splits a written dictionary into its header and data lines.
func readArtifact(t *testing.T, path string) (string, []string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	header, body, ok := strings.Cut(string(data), "...\n\n")
	require.True(t, ok, "no header terminator in %s", path)

	var lines []string
	if body != "" {
		require.True(t, strings.HasSuffix(body, "\n"), "data must be newline-terminated")
		lines = strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	}
	return header + "...\n", lines
}

func TestGenerate_EndToEnd(t *testing.T) {
	t.Parallel()

	src := writeSources(t, "家\tka1\n", "家人\tka1 zin2\n", "")
	dst := t.TempDir()
	gen := New(testLogger(), Options{SourceDir: src, DestDir: dst, Version: "2026-10-19"})

	report, err := gen.Generate(context.Background(), stubScheme("tupa", nil))
	require.NoError(t, err)

	header, lines := readArtifact(t, filepath.Join(dst, "tupa.dict.yaml"))
	assert.Equal(t, []string{"家\tka", "家人\tka zin"}, lines)
	assert.Contains(t, header, "name: tupa\n")
	assert.Contains(t, header, `version: "2026-10-19"`)
	assert.Contains(t, header, "import_tables:")
	assert.Contains(t, header, "tupa.words")
	assert.Contains(t, header, "use_preset_vocabulary: true")

	header, lines = readArtifact(t, filepath.Join(dst, "tupa.words.dict.yaml"))
	assert.Empty(t, lines)
	assert.Contains(t, header, "name: tupa.words\n")
	assert.NotContains(t, header, "import_tables")

	header, lines = readArtifact(t, filepath.Join(dst, "tupa_unspaced.dict.yaml"))
	assert.Equal(t, []string{"家\tka", "家人\tka=zin"}, lines)
	assert.Contains(t, header, "name: tupa_unspaced\n")
	assert.NotContains(t, header, "import_tables")

	assert.Equal(t, "tupa", report.Scheme)
	require.Len(t, report.Tables, 3)
	assert.Equal(t, []string{CharsTable, WordsTable, ExtraWordsTable},
		[]string{report.Tables[0].Name, report.Tables[1].Name, report.Tables[2].Name})
	require.Len(t, report.Artifacts, 3)
	assert.Equal(t, 2, report.Artifacts[0].Lines)
	assert.Equal(t, 0, report.Artifacts[1].Lines)
	assert.Equal(t, 2, report.Artifacts[2].Lines)
	assert.Equal(t, 2, report.Converter.Derivations)
	assert.Equal(t, 1, report.Converter.CacheHits)
}

func TestGenerate_WordsArtifactAndMerge(t *testing.T) {
	t.Parallel()

	src := writeSources(t,
		"家\tka1\n人\tzin2\n",
		"家人\tka1 zin2\n家\tka1\n",
		"人家\tzin2 ka1\t10\n家人\tka1 zin2\n",
	)
	dst := t.TempDir()
	gen := New(testLogger(), Options{SourceDir: src, DestDir: dst, Version: "v"})

	report, err := gen.Generate(context.Background(), stubScheme("tupa", nil))
	require.NoError(t, err)

	_, primary := readArtifact(t, filepath.Join(dst, "tupa.dict.yaml"))
	assert.Equal(t, []string{"人\tzin", "家\tka", "家人\tka zin"}, primary)

	_, words := readArtifact(t, filepath.Join(dst, "tupa.words.dict.yaml"))
	assert.Equal(t, []string{"人家\tzin ka\t10", "家人\tka zin"}, words)

	_, unspaced := readArtifact(t, filepath.Join(dst, "tupa_unspaced.dict.yaml"))
	assert.Equal(t, []string{"人\tzin", "家\tka", "人家\tzin=ka\t10", "家人\tka=zin"}, unspaced)

	assert.Equal(t, 1, report.Artifacts[0].Duplicates)
	assert.Equal(t, 2, report.Artifacts[2].Duplicates)
}

func TestGenerate_Overrides(t *testing.T) {
	t.Parallel()

	src := writeSources(t, "甲\t!sub\n乙\t!re\n", "", "")
	dst := t.TempDir()
	gen := New(testLogger(), Options{SourceDir: src, DestDir: dst, Version: "v"})

	_, err := gen.Generate(context.Background(), stubScheme("tupa", converter.Overrides{
		"sub": ">X",
		"re":  "=jan4",
	}))
	require.NoError(t, err)

	_, lines := readArtifact(t, filepath.Join(dst, "tupa.dict.yaml"))
	assert.Equal(t, []string{"乙\tjan", "甲\tX"}, lines)
}

func TestGenerate_OverwritesExisting(t *testing.T) {
	t.Parallel()

	src := writeSources(t, "家\tka1\n", "", "")
	dst := t.TempDir()
	stale := filepath.Join(dst, "tupa.dict.yaml")
	require.NoError(t, os.WriteFile(stale, []byte(strings.Repeat("stale\n", 100)), 0o644))

	gen := New(testLogger(), Options{SourceDir: src, DestDir: dst, Version: "v"})
	_, err := gen.Generate(context.Background(), stubScheme("tupa", nil))
	require.NoError(t, err)

	_, lines := readArtifact(t, stale)
	assert.Equal(t, []string{"家\tka"}, lines)
}

func TestGenerate_CreatesDestination(t *testing.T) {
	t.Parallel()

	src := writeSources(t, "家\tka1\n", "", "")
	dst := filepath.Join(t.TempDir(), "nested", "out")

	gen := New(testLogger(), Options{SourceDir: src, DestDir: dst, Version: "v"})
	_, err := gen.Generate(context.Background(), stubScheme("tupa", nil))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dst, "tupa_unspaced.dict.yaml"))
}

func TestGenerate_DigestMatchesFile(t *testing.T) {
	t.Parallel()

	src := writeSources(t, "家\tka1\n", "家人\tka1 zin2\n", "")
	dst := t.TempDir()
	gen := New(testLogger(), Options{SourceDir: src, DestDir: dst, Version: "v"})

	report, err := gen.Generate(context.Background(), stubScheme("tupa", nil))
	require.NoError(t, err)

	for _, a := range report.Artifacts {
		data, err := os.ReadFile(a.Path)
		require.NoError(t, err)
		assert.Equal(t, xxh3.Hash(data), a.Digest, a.Name)
		assert.Equal(t, int64(len(data)), a.Bytes, a.Name)
	}
}

func TestGenerate_LoadErrorsWriteNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr error
	}{
		{
			name: "missing source file",
			setup: func(t *testing.T) string {
				src := writeSources(t, "家\tka1\n", "", "")
				require.NoError(t, os.Remove(filepath.Join(src, ExtraWordsTable)))
				return src
			},
			wantErr: os.ErrNotExist,
		},
		{
			name:    "unhandled special",
			setup:   func(t *testing.T) string { return writeSources(t, "家\tka1\n", "甲\t!nope\n", "") },
			wantErr: domain.ErrUnhandledSpecial,
		},
		{
			name:    "derivation failure",
			setup:   func(t *testing.T) string { return writeSources(t, "家\tngo5\n", "", "") },
			wantErr: domain.ErrDerivation,
		},
		{
			name:    "malformed row",
			setup:   func(t *testing.T) string { return writeSources(t, "家\n", "", "") },
			wantErr: domain.ErrMalformedRow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dst := t.TempDir()
			gen := New(testLogger(), Options{SourceDir: tt.setup(t), DestDir: dst, Version: "v"})

			_, err := gen.Generate(context.Background(), stubScheme("tupa", nil))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			entries, err := os.ReadDir(dst)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestGenerate_CanceledContext(t *testing.T) {
	t.Parallel()

	src := writeSources(t, "家\tka1\n", "", "")
	gen := New(testLogger(), Options{SourceDir: src, DestDir: t.TempDir(), Version: "v"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, stubScheme("tupa", nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_FreshConverterPerCall(t *testing.T) {
	t.Parallel()

	src := writeSources(t, "家\tka1\n", "", "")
	gen := New(testLogger(), Options{SourceDir: src, DestDir: t.TempDir(), Version: "v"})
	ctx := ctxutil.WithRunID(context.Background(), uuid.New())

	first, err := gen.Generate(ctx, stubScheme("tupa", nil))
	require.NoError(t, err)
	second, err := gen.Generate(ctx, stubScheme("tupa", nil))
	require.NoError(t, err)

	assert.Equal(t, 1, first.Converter.Derivations)
	assert.Equal(t, 1, second.Converter.Derivations, "cache must not leak between runs")
}
