package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"github.com/vietddude/stylelog"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/auth"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/config"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/errlog"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/messages"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/store"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/tui"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/web"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "phuongpt0301",
		Repository: "jupay-demo",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/phuongpt0301/jupay-demo/releases")
	} else if pflag.Lookup("update").Changed {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

// logs bundles the three diagnostic logs over one store.
type logs struct {
	app, boundary, loading *errlog.Log
}

func openLogs(s store.Store) logs {
	return logs{
		app:      errlog.NewApp(s),
		boundary: errlog.NewBoundary(s),
		loading:  errlog.NewLoading(s),
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: jupay [options]\n\n")
		fmt.Fprintf(os.Stderr, "jupay is a terminal demo of the JuPay wallet.\n")
		fmt.Fprintf(os.Stderr, "Every screen change shows a loading state first, and rendering failures\n")
		fmt.Fprintf(os.Stderr, "are contained by error boundaries that log, retry and fall back.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  jupay               # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  jupay --web         # Serve the navigation API on :8080\n")
		fmt.Fprintf(os.Stderr, "  jupay --report      # Print the recorded errors\n")
		fmt.Fprintf(os.Stderr, "  jupay -r -o r.txt   # Save the error report to a file\n")
		fmt.Fprintf(os.Stderr, "  jupay --json        # Dump the error logs as JSON\n")
	}

	jsonFlag := pflag.BoolP("json", "j", false, "Dump the error logs as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Print a report of the recorded errors (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include stacks and component traces in the report")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode (port from config, default 8080)")
	configFlag := pflag.StringP("config", "c", "config.yaml", "Path to the YAML config file")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("jupay version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	level := parseLevel(cfg.Logging.Level)
	tuiMode := !*webFlag && !*reportFlag && !*jsonFlag

	// The TUI owns the terminal, so its logs go to a file.
	if tuiMode {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file %s: %v\n", cfg.Logging.File, err)
			os.Exit(1)
		}
		defer f.Close()
		slog.SetDefault(slog.New(tint.NewHandler(f, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})))
	} else {
		stylelog.InitDefault(&tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
		})
	}

	s, err := store.Open(cfg.Store)
	if err != nil {
		slog.Error("Failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer s.Close()
	l := openLogs(s)

	switch {
	case *webFlag:
		err = runWebMode(cfg, l)
	case *reportFlag:
		err = runReportMode(l, *outputFlag, *verboseFlag)
	case *jsonFlag:
		err = runJSONMode(l)
	default:
		err = runTuiMode(cfg, s, l)
	}
	if err != nil {
		slog.Error("jupay failed", "error", err)
		s.Close()
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func runReportMode(l logs, outputFile string, verbose bool) error {
	snap, err := errlog.Collect(context.Background(), l.app, l.boundary, l.loading)
	if err != nil {
		return err
	}
	report := errlog.GenerateReport(snap, verbose)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(report), 0o644); err != nil {
			return fmt.Errorf("write report to %s: %w", outputFile, err)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
		return nil
	}
	fmt.Println(report)
	return nil
}

func runJSONMode(l logs) error {
	snap, err := errlog.Collect(context.Background(), l.app, l.boundary, l.loading)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func runWebMode(cfg *config.AppConfig, l logs) error {
	srv := web.NewServer(web.Options{
		Port:        cfg.Server.Port,
		Delay:       cfg.Navigation.Delay,
		DefaultPath: cfg.Navigation.DefaultPath,
		Logs: map[string]*errlog.Log{
			"app":      l.app,
			"boundary": l.boundary,
			"loading":  l.loading,
		},
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	fmt.Printf("Go to http://localhost:%d/api/help in your browser.\n", cfg.Server.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runTuiMode(cfg *config.AppConfig, s store.Store, l logs) error {
	svc, err := auth.NewService(context.Background(), s)
	if err != nil {
		return err
	}

	m := tui.InitialModel(tui.Deps{
		Auth:        svc,
		AppLog:      l.app,
		BoundaryLog: l.boundary,
		LoadingLog:  l.loading,
		Catalog:     messages.New(cfg.Language),
		Logger:      slog.Default(),
		Delay:       cfg.Navigation.Delay,
		DefaultPath: cfg.Navigation.DefaultPath,
	})

	p := tea.NewProgram(&m, tea.WithAltScreen())
	m.Attach(p)
	final, err := p.Run()

	// Stop timers owned by whichever screen was mounted last.
	switch fm := final.(type) {
	case tui.AppModel:
		fm.Close()
	case *tui.AppModel:
		fm.Close()
	default:
		m.Close()
	}
	if err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
