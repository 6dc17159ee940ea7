// Package generator builds the Rime dictionary files of a scheme: it loads
// the source tables through a fresh converter, aggregates the rows and writes
// the primary, words-only and unspaced artifacts.
package generator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/nk2028/rime-dict-builder/internal/converter"
	"github.com/nk2028/rime-dict-builder/internal/dictionary"
	"github.com/nk2028/rime-dict-builder/internal/table"
	"github.com/nk2028/rime-dict-builder/pkg/ctxutil"
)

// Source tables, in load order.
const (
	CharsTable      = "chars.tsv"
	WordsTable      = "words.tsv"
	ExtraWordsTable = "extra_words.tsv"
)

// Options holds the directories and header version of a build.
type Options struct {
	SourceDir string
	DestDir   string
	Version   string
}

// TableReport holds load statistics for one source table.
type TableReport struct {
	Name  string
	Stats table.Stats
}

// ArtifactReport describes one written dictionary file.
type ArtifactReport struct {
	Name       string
	Path       string
	Lines      int
	Duplicates int
	Bytes      int64
	Digest     uint64 // xxh3-64 of the file contents
}

// Report holds the outcome of generating one scheme.
type Report struct {
	Scheme    string
	Tables    []TableReport
	Artifacts []ArtifactReport
	Converter converter.Stats
	Duration  time.Duration
}

// Generator writes the artifacts of one scheme at a time. It keeps no state
// between Generate calls, so a single Generator may serve several schemes
// concurrently.
type Generator struct {
	log  *slog.Logger
	opts Options
}

// New creates a Generator.
func New(log *slog.Logger, opts Options) *Generator {
	return &Generator{log: log, opts: opts}
}

// artifact pairs an output dictionary with its header and rows.
type artifact struct {
	name     string
	header   dictionary.Header
	rows     *dictionary.Collection
	unspaced bool
}

// Generate builds all three artifacts of s. Any load error aborts the scheme
// before anything is written; a write error leaves earlier artifacts and a
// partial file in place.
func (g *Generator) Generate(ctx context.Context, s Scheme) (Report, error) {
	start := time.Now()
	log := g.logger(ctx, s.Name)
	report := Report{Scheme: s.Name}

	// Step 1: Headers.
	primaryHeader := dictionary.PrimaryHeader(s.Name, g.opts.Version)
	wordsHeader := dictionary.WordsHeader(s.Name, g.opts.Version)
	unspacedHeader := primaryHeader.Unspaced()

	// Step 2: Load source tables through a converter scoped to this run.
	conv := converter.New(s.Parser, s.Deriver, s.Overrides)

	primary := dictionary.NewCollection()
	for _, name := range []string{CharsTable, WordsTable} {
		tr, err := g.load(ctx, name, conv, primary)
		if err != nil {
			return report, err
		}
		report.Tables = append(report.Tables, tr)
	}

	words := dictionary.NewCollection()
	tr, err := g.load(ctx, ExtraWordsTable, conv, words)
	if err != nil {
		return report, err
	}
	report.Tables = append(report.Tables, tr)

	report.Converter = conv.Stats()
	log.Info("tables loaded",
		slog.Int("primary_rows", primary.Len()),
		slog.Int("words_rows", words.Len()),
		slog.Int("derivations", report.Converter.Derivations),
		slog.Int("cache_hits", report.Converter.CacheHits),
	)

	// Step 3: Write artifacts.
	if err := os.MkdirAll(g.opts.DestDir, 0o755); err != nil {
		return report, fmt.Errorf("create destination: %w", err)
	}

	artifacts := []artifact{
		{name: dictionary.PrimaryName(s.Name), header: primaryHeader, rows: primary},
		{name: dictionary.WordsName(s.Name), header: wordsHeader, rows: words},
		{name: dictionary.UnspacedName(s.Name), header: unspacedHeader, rows: dictionary.Concat(primary, words), unspaced: true},
	}
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		ar, err := g.write(a)
		if err != nil {
			return report, err
		}
		report.Artifacts = append(report.Artifacts, ar)

		log.Info("artifact written",
			slog.String("path", ar.Path),
			slog.Int("lines", ar.Lines),
			slog.Int("duplicates", ar.Duplicates),
			slog.String("xxh3", fmt.Sprintf("%016x", ar.Digest)),
		)
	}

	report.Duration = time.Since(start)
	return report, nil
}

func (g *Generator) load(ctx context.Context, name string, conv *converter.Converter, dst table.Sink) (TableReport, error) {
	if err := ctx.Err(); err != nil {
		return TableReport{}, err
	}

	stats, err := table.LoadInto(filepath.Join(g.opts.SourceDir, name), conv, dst)
	if err != nil {
		return TableReport{}, fmt.Errorf("load %s: %w", name, err)
	}
	return TableReport{Name: name, Stats: stats}, nil
}

// write streams an artifact to its file, truncating any existing file.
func (g *Generator) write(a artifact) (ArtifactReport, error) {
	header, err := a.header.Render()
	if err != nil {
		return ArtifactReport{}, err
	}

	path := filepath.Join(g.opts.DestDir, dictionary.FileName(a.name))
	f, err := os.Create(path)
	if err != nil {
		return ArtifactReport{}, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	hasher := xxh3.New()
	lines := dictionary.Lines(a.rows.Rows(), header, a.unspaced)

	n, err := lines.WriteTo(io.MultiWriter(bw, hasher))
	if err != nil {
		return ArtifactReport{}, fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return ArtifactReport{}, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return ArtifactReport{}, fmt.Errorf("close %s: %w", path, err)
	}

	return ArtifactReport{
		Name:       a.name,
		Path:       path,
		Lines:      lines.Emitted(),
		Duplicates: lines.Suppressed(),
		Bytes:      n,
		Digest:     hasher.Sum64(),
	}, nil
}

func (g *Generator) logger(ctx context.Context, scheme string) *slog.Logger {
	log := g.log.With(slog.String("scheme", scheme))
	if id, ok := ctxutil.RunIDFromCtx(ctx); ok {
		log = log.With(slog.String("run_id", id.String()))
	}
	return log
}
