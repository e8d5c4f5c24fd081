// Command nerstat analyses named entities in Japanese text corpora.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/nerstat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/config/overlay"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/extractor"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/loader/filesystem"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/report"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/report/markdown"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/nerstat/internal/adapters/driving/cli"
	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
	"github.com/custodia-labs/nerstat/internal/core/services"
	"github.com/custodia-labs/nerstat/internal/logger"
	"github.com/custodia-labs/nerstat/internal/postprocessors"
	"github.com/custodia-labs/nerstat/internal/postprocessors/clamp"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	cleanup, err := wire()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	cli.SetVersion(version)
	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// wire builds the adapters and hands them to the CLI.
func wire() (func(), error) {
	dir, err := file.DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config directory: %w", err)
	}

	base, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	v := overlay.NewViper()
	if err := cli.BindFlags(v); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	settingsService := services.NewSettingsService(overlay.New(base, v), extractor.NewConfigValidator())

	store, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	runStore := store.RunStore()

	settings, err := settingsService.Get()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}

	logDir := settings.Log.Dir
	if logDir != "" && !filepath.IsAbs(logDir) {
		logDir = filepath.Join(dir, logDir)
	}
	if err := logger.Configure(logger.FileConfig{
		Dir:        logDir,
		MaxSizeMB:  settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
	}); err != nil {
		logger.Warn("file logging disabled: %v", err)
	}

	vocab := domain.DefaultEntityVocabulary()
	if settings.VocabularyPath != "" {
		loaded, err := file.LoadVocabulary(settings.VocabularyPath)
		if err != nil {
			logger.Warn("using built-in entity vocabulary: %v", err)
		} else {
			vocab = loaded
		}
	}

	cli.Configure(cli.Services{
		Settings:   settingsService,
		History:    services.NewHistoryService(runStore),
		Analysis:   analysisFactory(settingsService, runStore, vocab),
		Renderer:   markdown.New(vocab).Render,
		Watch:      watchInput,
		Vocabulary: vocab,
	})

	return func() {
		if err := store.Close(); err != nil {
			logger.Warn("close run history: %v", err)
		}
		_ = logger.Close()
	}, nil
}

// analysisFactory defers extractor construction until a command needs it,
// after flag overrides have been parsed.
func analysisFactory(
	settingsService driving.SettingsService,
	runStore driven.RunStore,
	vocab *domain.EntityVocabulary,
) cli.AnalysisFactory {
	return func() (driving.AnalysisService, error) {
		settings, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}

		prompts, err := file.NewPromptStore("")
		if err != nil {
			return nil, err
		}
		ext, err := extractor.Create(*settings, extractor.Options{
			Prompts:    prompts,
			Vocabulary: vocab,
		})
		if err != nil {
			return nil, err
		}

		writers, err := report.NewWriters(domain.AllReportFormats(), vocab)
		if err != nil {
			return nil, err
		}

		return services.NewAnalysisService(
			filesystem.New(),
			ext,
			postprocessors.NewPipeline(clamp.New()),
			writers,
			report.DirLocker{},
			runStore,
			services.AnalysisConfig{
				Analysis: settings.Analysis,
				Output:   settings.Output,
			},
		), nil
	}
}

// watchInput reports debounced change counts for path until ctx ends.
func watchInput(ctx context.Context, path string) (<-chan int, error) {
	w, err := filesystem.NewWatcher(path, filesystem.DefaultDebounce)
	if err != nil {
		return nil, err
	}

	out := make(chan int)
	go func() {
		defer close(out)
		for change := range w.Watch(ctx) {
			logger.Debug("%s %s", change.Type, change.Path)
			select {
			case out <- change.Count:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
