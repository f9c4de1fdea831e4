// Command ls-galaxy requests generated spiral galaxies from a galaxy
// server and plots every star system as a single pixel.
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
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-galaxy/internal/canvas"
	"github.com/litescript/ls-galaxy/internal/config"
	"github.com/litescript/ls-galaxy/internal/galaxy"
	"github.com/litescript/ls-galaxy/internal/logging"
	"github.com/litescript/ls-galaxy/internal/state"
	"github.com/litescript/ls-galaxy/internal/ui"
	"github.com/litescript/ls-galaxy/internal/viewer"
)

// CLI flags for headless mode
var (
	pngPath      string
	snapshotPath string
	seed         uint64
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Flags default to the resolved config so anything given wins
	flag.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Galaxy server base URL")
	flag.StringVar(&cfg.N, "n", cfg.N, "Number of star systems")
	flag.StringVar(&cfg.D, "d", cfg.D, "Galaxy diameter")
	flag.StringVar(&cfg.Phi, "phi", cfg.Phi, "Spiral arm angle")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Viewport width in pixels")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Viewport height in pixels")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Request timeout (0 waits forever)")
	flag.BoolVar(&cfg.LoadingLabel, "loading", cfg.LoadingLabel, "Show a loading label while a request is pending")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Append logs to this file")
	flag.StringVar(&pngPath, "png", "", "Render one galaxy to a PNG file (use - for stdout)")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.Uint64Var(&seed, "seed", 0, "Seed for point colors (0 picks randomly)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	headless := pngPath != "" || snapshotPath != ""

	// Set up logging. The TUI owns the terminal, so it only logs to a file.
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			os.Exit(2)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else if !headless {
		logger.SetOutput(io.Discard)
	}

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := galaxy.NewClient(
		galaxy.WithBaseURL(cfg.ServerURL),
		galaxy.WithTimeout(cfg.Timeout),
	)
	stateMgr := state.NewManager(state.DefaultConfig())

	var colors viewer.ColorSource
	if seed != 0 {
		colors = viewer.SeededColors(seed)
	}

	logger.Debug("server %s, viewport %dx%d", client.BaseURL(), cfg.Width, cfg.Height)

	if headless {
		if err := runHeadless(ctx, cfg, client, stateMgr, colors, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintf(os.Stderr, "Error: %v (use -png or -snapshot-path)\n", ui.ErrNotReady)
		os.Exit(2)
	}

	model, err := ui.New(ctx, client, ui.Options{
		Width:        cfg.Width,
		Height:       cfg.Height,
		N:            cfg.N,
		D:            cfg.D,
		Phi:          cfg.Phi,
		LoadingLabel: cfg.LoadingLabel,
		Colors:       colors,
		Logger:       logger,
		Stats:        stateMgr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// textValue is a fixed input value.
type textValue string

func (v textValue) Value() string { return string(v) }

// stderrAlerter reports viewer failures on stderr and remembers the last one.
type stderrAlerter struct {
	last string
}

func (a *stderrAlerter) Alert(message string) {
	a.last = message
	fmt.Fprintf(os.Stderr, "alert: %s\n", message)
}

// keepLast wraps a source and holds on to the most recent result so the
// snapshot export sees exactly what was drawn.
type keepLast struct {
	src  viewer.Source
	last galaxy.FetchResult
}

func (k *keepLast) Fetch(ctx context.Context, p galaxy.Params) galaxy.FetchResult {
	k.last = k.src.Fetch(ctx, p)
	return k.last
}

// runHeadless performs one activation against an image canvas and writes
// the requested outputs without starting the TUI.
func runHeadless(ctx context.Context, cfg config.Config, client *galaxy.Client, stateMgr *state.Manager, colors viewer.ColorSource, logger *logging.Logger) error {
	if pngPath == "-" && term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("refusing to write PNG to a terminal")
	}
	if pngPath == "-" && snapshotPath == "-" {
		return errors.New("-png and -snapshot-path cannot both use stdout")
	}

	img := canvas.NewImage(cfg.Width, cfg.Height)
	alerter := &stderrAlerter{}
	src := &keepLast{src: client}

	opts := []viewer.Option{
		viewer.WithLogger(logger),
		viewer.WithStats(stateMgr),
	}
	if colors != nil {
		opts = append(opts, viewer.WithColors(colors))
	}

	params := galaxy.Params{N: cfg.N, D: cfg.D, Phi: cfg.Phi}
	v, err := viewer.New(viewer.Elements{
		Viewport: img,
		N:        textValue(params.N),
		D:        textValue(params.D),
		Phi:      textValue(params.Phi),
		Alerter:  alerter,
	}, src, opts...)
	if err != nil {
		return err
	}

	out := v.Activate(ctx)
	if out.Status != viewer.StatusRendered {
		return fmt.Errorf("generate galaxy: %s", alerter.last)
	}

	if pngPath != "" {
		if err := writeTo(pngPath, img.WritePNG); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
	}

	fetchedAt := src.last.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	export := galaxy.ExportSnapshot(params, src.last.Systems, fetchedAt)

	if snapshotPath != "" {
		if err := writeTo(snapshotPath, export.WriteJSON); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}

	// Summary goes wherever stdout is not already carrying data
	summary := io.Writer(os.Stdout)
	if pngPath == "-" || snapshotPath == "-" {
		summary = os.Stderr
	}
	export.WriteSummary(summary)

	snap := stateMgr.Snapshot()
	logger.Info("request %s: %d systems in %v", src.last.RequestID, snap.LastPoints, snap.LastDuration.Round(time.Millisecond))
	return nil
}

// writeTo opens path (or stdout for "-") and hands it to write.
func writeTo(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
