// Command rime-dict-builder generates Rime dictionary files for one or more
// phonetic schemes from the shared chars, words and extra_words tables.
//
// Flags:
//
//	-config   path to YAML config file (default: CONFIG_PATH or ./rime-dict-builder.yaml)
//	-scheme   comma-separated list of schemes to build (default: all configured)
//	-src      directory holding the source tables
//	-dst      directory receiving the dictionary files
//	-version  version written into dictionary headers (default: today's date)
//
// Exit codes: 0 = success, 1 = generation error, 2 = configuration or unknown scheme.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nk2028/rime-dict-builder/internal/app"
	"github.com/nk2028/rime-dict-builder/internal/app/generator"
	"github.com/nk2028/rime-dict-builder/internal/config"
	"github.com/nk2028/rime-dict-builder/internal/domain"
	"github.com/nk2028/rime-dict-builder/pkg/ctxutil"
)

const (
	exitError  = 1
	exitConfig = 2
)

func main() {
	configFlag := flag.String("config", "", "path to YAML config file")
	schemeFlag := flag.String("scheme", "", "comma-separated schemes to build (default: all)")
	srcFlag := flag.String("src", "", "source table directory")
	dstFlag := flag.String("dst", "", "output directory")
	versionFlag := flag.String("version", "", "dictionary version (default: today's date)")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Printf("load config: %v", err)
		os.Exit(exitConfig)
	}

	// CLI flags override config.
	if *srcFlag != "" {
		cfg.Build.SourceDir = *srcFlag
	}
	if *dstFlag != "" {
		cfg.Build.DestDir = *dstFlag
	}
	if *versionFlag != "" {
		cfg.Build.Version = *versionFlag
	}

	logger := app.NewLogger(cfg.Log, nil)
	logger.Info("starting rime-dict-builder", slog.String("version", app.BuildVersion()))

	registry, err := generator.LoadRegistry(cfg.Schemes)
	if err != nil {
		logger.Error("load schemes", slog.String("error", err.Error()))
		os.Exit(exitConfig)
	}

	var schemes []string
	if *schemeFlag != "" {
		for _, s := range strings.Split(*schemeFlag, ",") {
			if s = strings.TrimSpace(s); s != "" {
				schemes = append(schemes, s)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = ctxutil.WithRunID(ctx, uuid.New())

	gen := generator.New(logger, generator.Options{
		SourceDir: cfg.Build.SourceDir,
		DestDir:   cfg.Build.DestDir,
		Version:   app.DictionaryVersion(cfg.Build.Version, time.Now()),
	})
	runner := generator.NewRunner(logger, gen, registry)

	if err := runner.Run(ctx, schemes); err != nil {
		logger.Error("build failed", slog.String("error", err.Error()))
		code := exitError
		if errors.Is(err, domain.ErrUnknownScheme) {
			code = exitConfig
		}
		stop()
		os.Exit(code)
	}

	logger.Info("build completed successfully")
}
