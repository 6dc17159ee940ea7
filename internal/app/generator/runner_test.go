package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nk2028/rime-dict-builder/internal/converter"
	"github.com/nk2028/rime-dict-builder/internal/domain"
)

func newTestRunner(t *testing.T, src, dst string, schemes ...Scheme) *Runner {
	t.Helper()
	reg, err := NewRegistry(schemes...)
	require.NoError(t, err)
	gen := New(testLogger(), Options{SourceDir: src, DestDir: dst, Version: "v"})
	return NewRunner(testLogger(), gen, reg)
}

func TestRunner_SchemesAreIndependent(t *testing.T) {
	t.Parallel()

	src := writeSources(t, "甲\t!K\n家\tka1\n", "", "")
	dst := t.TempDir()
	runner := newTestRunner(t, src, dst,
		stubScheme("alpha", converter.Overrides{"K": ">A"}),
		stubScheme("beta", converter.Overrides{"K": ">B"}),
	)

	require.NoError(t, runner.Run(context.Background(), []string{"alpha", "beta"}))
	assert.False(t, runner.HasErrors())

	_, alpha := readArtifact(t, filepath.Join(dst, "alpha.dict.yaml"))
	assert.Equal(t, []string{"家\tka", "甲\tA"}, alpha)

	_, beta := readArtifact(t, filepath.Join(dst, "beta.dict.yaml"))
	assert.Equal(t, []string{"家\tka", "甲\tB"}, beta)

	results := runner.Results()
	require.Len(t, results, 2)
	assert.Len(t, results["alpha"].Report.Artifacts, 3)
	assert.Len(t, results["beta"].Report.Artifacts, 3)
}

func TestRunner_FailureDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	src := writeSources(t, "甲\t!K\n", "", "")
	dst := t.TempDir()
	runner := newTestRunner(t, src, dst,
		stubScheme("good", converter.Overrides{"K": ">G"}),
		stubScheme("bad", nil),
	)

	err := runner.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnhandledSpecial)
	assert.Contains(t, err.Error(), "scheme bad")
	assert.True(t, runner.HasErrors())

	_, lines := readArtifact(t, filepath.Join(dst, "good_unspaced.dict.yaml"))
	assert.Equal(t, []string{"甲\tG"}, lines)
	assert.NoFileExists(t, filepath.Join(dst, "bad.dict.yaml"))

	results := runner.Results()
	assert.NoError(t, results["good"].Err)
	assert.ErrorIs(t, results["bad"].Err, domain.ErrUnhandledSpecial)
}

func TestRunner_UnknownSchemeWritesNothing(t *testing.T) {
	t.Parallel()

	src := writeSources(t, "家\tka1\n", "", "")
	dst := t.TempDir()
	runner := newTestRunner(t, src, dst, stubScheme("tupa", nil))

	err := runner.Run(context.Background(), []string{"tupa", "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownScheme)

	var schemeErr *domain.SchemeError
	require.ErrorAs(t, err, &schemeErr)
	assert.Equal(t, "nope", schemeErr.Name)

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, runner.Results())
	assert.False(t, runner.HasErrors())
}

func TestRunner_AllSchemesByDefault(t *testing.T) {
	t.Parallel()

	src := writeSources(t, "家\tka1\n", "", "")
	dst := t.TempDir()
	runner := newTestRunner(t, src, dst, stubScheme("alpha", nil), stubScheme("beta", nil))

	require.NoError(t, runner.Run(context.Background(), nil))

	for _, name := range []string{"alpha", "beta"} {
		for _, file := range []string{name + ".dict.yaml", name + ".words.dict.yaml", name + "_unspaced.dict.yaml"} {
			assert.FileExists(t, filepath.Join(dst, file))
		}
	}
}

func TestRunner_EmptyRegistry(t *testing.T) {
	t.Parallel()

	runner := newTestRunner(t, t.TempDir(), t.TempDir())
	err := runner.Run(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnknownScheme)
}
