// Command sdsd processes a directory of SDS text files: every document is
// extracted, stored in the register, logged in the extraction history,
// and optionally exported to XLSX.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/chemtrack/sds-extractor/constants"
	"github.com/chemtrack/sds-extractor/internal/config"
	"github.com/chemtrack/sds-extractor/internal/consolidate"
	"github.com/chemtrack/sds-extractor/internal/export"
	"github.com/chemtrack/sds-extractor/internal/extract"
	"github.com/chemtrack/sds-extractor/internal/llm"
	"github.com/chemtrack/sds-extractor/internal/pipeline/extractfields"
	"github.com/chemtrack/sds-extractor/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("sdsd", pflag.ContinueOnError)
	config.BindFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: sdsd [flags] <directory>")
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.DBPath, log)
	if err != nil {
		return err
	}
	defer db.Close()

	register := repository.NewRegisterRepository(db, log)
	history := repository.NewHistoryRepository(db, log)

	strategy, _ := constants.ParseStrategy(cfg.Strategy)

	orch := extract.New(log)
	var consolidator *consolidate.Consolidator
	if !strategy.IsLocal() {
		completer, cerr := llm.NewCompleter(llm.Config{
			OpenAIKey:      cfg.OpenAIKey,
			OpenAIModel:    cfg.OpenAIModel,
			AnthropicKey:   cfg.AnthropicKey,
			AnthropicModel: cfg.AnthropicModel,
			Temperature:    cfg.Temperature,
		}, log)
		if cerr != nil {
			log.Warn("no model provider; using local extraction", "error", cerr)
		} else {
			policy := llm.DefaultBackoff
			policy.MaxAttempts = cfg.MaxAttempts
			consolidator = consolidate.New(llm.NewExtractor(completer, log).WithPolicy(policy), log)
		}
	}

	pipe := extractfields.New(orch, consolidator, register, history, log)

	dir := fs.Arg(0)
	files, err := listTextFiles(dir)
	if err != nil {
		return err
	}
	log.Info("batch.start", "dir", dir, "files", len(files), "strategy", string(strategy))

	// Documents run sequentially: the providers throttle hard enough that
	// parallel calls only trade progress for retries.
	processed := 0
	for _, path := range files {
		if ctx.Err() != nil {
			log.Warn("batch.interrupted", "processed", processed, "remaining", len(files)-processed)
			break
		}
		text, rerr := os.ReadFile(path)
		if rerr != nil {
			log.Error("batch.read_failed", "path", path, "error", rerr)
			continue
		}
		out, perr := pipe.ProcessText(ctx, string(text), filepath.Base(path), extractfields.Options{
			Strategy:  strategy,
			LightMode: cfg.LightMode,
			Persist:   true,
		})
		if perr != nil {
			log.Error("batch.persist_failed", "path", path, "error", perr)
			continue
		}
		processed++
		log.Info("batch.file_done",
			"path", path,
			"method", out.Method,
			"degraded", out.Degraded,
			"register_id", out.RegisterID,
		)
	}
	log.Info("batch.done", "processed", processed, "total", len(files))

	if cfg.ExportPath != "" {
		svc := export.NewService(register, log)
		data, xerr := svc.ExportRegisterXLSX(ctx)
		if xerr != nil {
			return fmt.Errorf("export register: %w", xerr)
		}
		if werr := os.WriteFile(cfg.ExportPath, data, 0o644); werr != nil {
			return fmt.Errorf("write export: %w", werr)
		}
		log.Info("batch.exported", "path", cfg.ExportPath)
	}
	return nil
}

// listTextFiles returns the .txt files directly under dir, sorted for
// deterministic processing order.
func listTextFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
