package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/thereceipt/qr-engine/internal/command"
	"github.com/thereceipt/qr-engine/internal/config"
	"github.com/thereceipt/qr-engine/internal/export"
	"github.com/thereceipt/qr-engine/internal/logging"
	"github.com/thereceipt/qr-engine/internal/prompt"
	"github.com/thereceipt/qr-engine/internal/renderer"
	"github.com/thereceipt/qr-engine/internal/session"
	"github.com/thereceipt/qr-engine/internal/tui"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
	"go.uber.org/zap"
)

// Version is set during build via ldflags
var Version = "dev"

func main() {
	var (
		configPath string
		usePrompt  bool
		kindName   string
		outDir     string
		formatName string
		showVer    bool
	)
	flag.StringVar(&configPath, "config", "", "Config file (env "+config.EnvPath+" takes precedence)")
	flag.BoolVar(&usePrompt, "prompt", false, "Fill the form with interactive prompts instead of the TUI")
	flag.StringVar(&kindName, "kind", "", "QR type to start with (url, phone, whatsapp, email, text, wifi, sms, multiurl, contact, upi)")
	flag.StringVar(&outDir, "out", "", "Export directory (overrides export.dir)")
	flag.StringVar(&formatName, "format", "", "Export format, png or svg (overrides export.format)")
	flag.BoolVar(&showVer, "version", false, "Print version and exit")
	flag.Usage = printUsage
	flag.Parse()

	if showVer {
		fmt.Println("qr-engine", Version)
		return
	}

	cfg, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	if outDir != "" {
		cfg.Export.Dir = outDir
	}
	if formatName != "" {
		cfg.Export.Format = formatName
	}
	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		fatalf("%v", err)
	}

	kind := qrformat.KindURL
	if kindName != "" {
		if kind, err = qrformat.ParseKind(kindName); err != nil {
			fatalf("%v", err)
		}
	}

	backend, err := renderer.NewBackend(cfg.Backend)
	if err != nil {
		fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Batch mode: every argument is one command line
	if flag.NArg() > 0 {
		logger := mustLogger(cfg.LogLevel, os.Stderr)
		s := newSession(cfg, backend, kind, format, logger)
		code := runCommands(ctx, command.NewExecutor(s, format), flag.Args(), os.Stdout)
		s.Close()
		stop()
		os.Exit(code)
	}

	if usePrompt {
		logger := mustLogger(cfg.LogLevel, os.Stderr)
		s := newSession(cfg, backend, kind, format, logger)
		err := runPrompt(ctx, s, prompt.New(nil), kindName != "", format)
		s.Close()
		if errors.Is(err, prompt.ErrAborted) {
			os.Exit(130)
		}
		if err != nil {
			fatalf("%v", err)
		}
		return
	}

	console := tui.NewLogConsole(200)
	logger := mustLogger(cfg.LogLevel, console)
	defer logger.Sync()

	s := newSession(cfg, backend, kind, format, logger)
	app := tui.NewApp(s, backend, format, console)

	logger.Info("🔳 QR Engine starting...",
		zap.String("version", Version),
		zap.String("backend", backend.Name()),
		zap.String("export_dir", cfg.Export.Dir))

	if err := app.Run(); err != nil {
		fatalf("TUI error: %v", err)
	}
}

func newSession(cfg config.Config, backend renderer.Backend, kind qrformat.Kind, format export.Format, logger *zap.Logger) *session.Session {
	return session.New(session.Options{
		Composer:    renderer.New(backend),
		Files:       export.NewFileSink(cfg.Export.Dir),
		Clipboard:   export.NewClipboardSink(),
		PreviewSize: cfg.PreviewSize,
		Resolution:  cfg.Export.Resolution,
		Debounce:    cfg.Debounce,
		Kind:        kind,
		Style:       cfg.Style,
		Logger:      logger,
	})
}

// runPrompt fills one form with survey prompts and exports the result
func runPrompt(ctx context.Context, s *session.Session, form *prompt.Form, kindGiven bool, format export.Format) error {
	kind := s.Kind()
	if !kindGiven {
		var err error
		if kind, err = form.ChooseKind(ctx); err != nil {
			return err
		}
	}
	if err := s.SetKind(kind); err != nil {
		return err
	}

	values, payload, err := form.Fill(ctx, kind)
	if err != nil {
		return err
	}
	for id, v := range values {
		if err := s.Set(id, v); err != nil {
			return err
		}
	}
	if _, err := s.Build(); err != nil {
		return err
	}
	fmt.Printf("\nPayload:\n%s\n\n", payload)

	saved, err := s.Export(ctx, format)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Saved %s\n", saved.Path)

	copyIt, err := form.Confirm(ctx, "Copy the image to the clipboard?")
	if err != nil || !copyIt {
		return err
	}
	if err := s.Copy(ctx); err != nil {
		return err
	}
	fmt.Println("📋 Copied to clipboard")
	return nil
}

// runCommands executes each argument as a command line and returns the exit code
func runCommands(ctx context.Context, e *command.Executor, lines []string, w io.Writer) int {
	for _, line := range lines {
		res := e.Execute(ctx, line)
		if !res.Success {
			fmt.Fprintf(w, "✗ %s: %s\n", line, res.Error)
			return 1
		}
		if res.Message != "" {
			fmt.Fprintln(w, res.Message)
		}
	}
	return 0
}

func mustLogger(level string, w io.Writer) *zap.Logger {
	logger, err := logging.New(level, w)
	if err != nil {
		fatalf("%v", err)
	}
	return logger
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `QR Engine

Usage:
  qr-engine [flags]                 Start the terminal UI
  qr-engine -prompt [flags]         Fill one form with prompts and export it
  qr-engine [flags] <command>...    Run commands and exit

Flags:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Commands (same as the ':' command line in the UI):
  kind, fields, set, payload, style, logo, export, copy, reset, help

Examples:
  qr-engine -kind wifi
  qr-engine -prompt -kind upi -format svg
  qr-engine -kind wifi "set value_ssid 'Home Network'" "set value_password hunter2" "export png"
`)
}
