// Command sds-extract extracts the canonical field set from a single SDS
// text file and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/chemtrack/sds-extractor/constants"
	"github.com/chemtrack/sds-extractor/internal/config"
	"github.com/chemtrack/sds-extractor/internal/consolidate"
	"github.com/chemtrack/sds-extractor/internal/extract"
	"github.com/chemtrack/sds-extractor/internal/llm"
	"github.com/chemtrack/sds-extractor/internal/pipeline/extractfields"
)

func main() {
	fs := pflag.NewFlagSet("sds-extract", pflag.ContinueOnError)
	config.BindFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sds-extract [flags] <sds-text-file>")
		os.Exit(2)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := fs.Arg(0)
	text, err := os.ReadFile(path)
	if err != nil {
		log.Error("read input", "path", path, "error", err)
		os.Exit(1)
	}

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

	pipe := extractfields.New(orch, consolidator, nil, nil, log)
	out, err := pipe.ProcessText(ctx, string(text), filepath.Base(path), extractfields.Options{
		Strategy:  strategy,
		LightMode: cfg.LightMode,
	})
	if err != nil {
		log.Error("extraction failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out.Record); err != nil {
		log.Error("encode output", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
