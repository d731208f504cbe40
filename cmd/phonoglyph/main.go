// Command phonoglyph converts text into phoneme transcriptions, either as a
// one-shot CLI call or as a long-running HTTP/WebSocket service.
//
// One-shot:
//
//	echo "It's $5.25 at 2:30." | phonoglyph -voice am_michael
//	phonoglyph -text "How are you?" -voice bf_emma
//
// Service:
//
//	phonoglyph -serve -config config.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrWong99/phonoglyph/internal/config"
	"github.com/MrWong99/phonoglyph/internal/health"
	"github.com/MrWong99/phonoglyph/internal/observe"
	"github.com/MrWong99/phonoglyph/internal/server"
	"github.com/MrWong99/phonoglyph/pkg/g2p"
	goruutbackend "github.com/MrWong99/phonoglyph/pkg/g2p/goruut"
	"github.com/MrWong99/phonoglyph/pkg/g2p/lexicon"
	"github.com/MrWong99/phonoglyph/pkg/g2p/remote"
	"github.com/MrWong99/phonoglyph/pkg/phoneme"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (optional for one-shot use)")
	text := flag.String("text", "", "text to phonemize; reads stdin when empty")
	voiceID := flag.String("voice", "", "voice selector like am_michael (overrides config)")
	noNormalize := flag.Bool("no-normalize", false, "skip the text normalization stage")
	serve := flag.Bool("serve", false, "run the HTTP/WebSocket phonemization service")
	flag.Parse()

	// .env is optional; environment variables referenced from the config file
	// or by deployment tooling may live there.
	_ = godotenv.Load()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg := &config.Config{}
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "phonoglyph: config file %q not found\n", *configPath)
			} else {
				fmt.Fprintf(os.Stderr, "phonoglyph: %v\n", err)
			}
			return 1
		}
	} else if *serve {
		fmt.Fprintln(os.Stderr, "phonoglyph: -serve requires -config")
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	// ── Backend ───────────────────────────────────────────────────────────────
	backend, err := buildBackend(cfg.Backend)
	if err != nil {
		slog.Error("failed to build backend", "err", err)
		return 1
	}

	if *serve {
		// Instrument conversions in serve mode; the global meter provider is
		// installed later in runServer, the instruments bind lazily.
		backend = observe.WrapBackend(backend, observe.DefaultMetrics())
	}

	var opts []phoneme.Option
	if cfg.Pipeline.Concurrency > 0 {
		opts = append(opts, phoneme.WithConcurrency(cfg.Pipeline.Concurrency))
	}
	phonemizer := phoneme.New(backend, opts...)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *serve {
		return runServer(ctx, cfg, phonemizer, backend)
	}
	return runOnce(ctx, cfg, phonemizer, *text, *voiceID, *noNormalize)
}

// runOnce phonemizes a single input and prints the result to stdout.
func runOnce(ctx context.Context, cfg *config.Config, p *phoneme.Phonemizer, text, voiceID string, noNormalize bool) int {
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			slog.Error("read stdin", "err", err)
			return 1
		}
		text = string(data)
	}
	if voiceID == "" {
		voiceID = cfg.Pipeline.DefaultVoice
	}

	out, err := p.Phonemize(ctx, phoneme.Request{
		Text:          text,
		Dialect:       g2p.DialectForVoice(voiceID),
		SkipNormalize: noNormalize,
	})
	if err != nil {
		slog.Error("phonemize failed", "err", err)
		return 1
	}
	fmt.Println(out)
	return 0
}

// runServer starts the metrics provider and the HTTP/WebSocket service and
// blocks until shutdown.
func runServer(ctx context.Context, cfg *config.Config, p *phoneme.Phonemizer, backend g2p.Backend) int {
	if cfg.Server.ListenAddr == "" {
		slog.Error("server.listen_addr is required in serve mode")
		return 1
	}

	shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise metrics provider", "err", err)
		return 1
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			slog.Warn("metrics shutdown error", "err", err)
		}
	}()

	srv := server.New(server.Config{
		ListenAddr:   cfg.Server.ListenAddr,
		DefaultVoice: cfg.Pipeline.DefaultVoice,
		Checkers: []health.Checker{
			health.BackendChecker("backend", backend),
		},
	}, p, observe.DefaultMetrics())

	slog.Info("phonoglyph starting",
		"listen_addr", cfg.Server.ListenAddr,
		"backend", backendName(cfg.Backend),
		"default_voice", cfg.Pipeline.DefaultVoice,
	)

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// buildBackend instantiates the configured grapheme-to-phoneme backend.
// An empty name selects the in-process goruut backend.
func buildBackend(cfg config.BackendConfig) (g2p.Backend, error) {
	switch backendName(cfg) {
	case config.BackendGoruut:
		return goruutbackend.New(), nil
	case config.BackendEspeak:
		var opts []remote.Option
		if cfg.Timeout > 0 {
			opts = append(opts, remote.WithTimeout(cfg.Timeout.Std()))
		}
		return remote.New(cfg.BaseURL, opts...)
	case config.BackendLexicon:
		var opts []lexicon.Option
		if cfg.SkipUnknown {
			opts = append(opts, lexicon.WithSkipUnknown())
		}
		return lexicon.FromFile(cfg.LexiconPath, opts...)
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Name)
}

// backendName resolves the configured backend name, defaulting to goruut.
func backendName(cfg config.BackendConfig) config.BackendName {
	if cfg.Name == "" {
		return config.BackendGoruut
	}
	return cfg.Name
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
