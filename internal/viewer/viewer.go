// Package viewer binds a single user action to a fetch-then-render cycle:
// read the generation inputs, request a galaxy, and plot every returned
// star system as one pixel on the viewport.
//
// The viewer never looks anything up globally. Its viewport, inputs and
// alert channel are handed to New, and the host decides what "clicking
// activate" means (a key press, a flag, a test).
//
// Overlapping activations are allowed. Each one gets a generation number
// and only the response to the newest generation is drawn; older
// responses are dropped without touching the viewport or alerting.
package viewer

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"time"

	"github.com/litescript/ls-galaxy/internal/galaxy"
	"github.com/litescript/ls-galaxy/internal/logging"
	"github.com/litescript/ls-galaxy/internal/state"
)

// LoadingText is painted while a request is pending.
const LoadingText = "Loading..."

// Canvas is a drawable pixel surface with a top-left origin.
type Canvas interface {
	Size() (width, height int)
	Clear()
	FillRect(x, y, w, h float64, c color.Color)
}

// TextCanvas is a Canvas that can also draw a text label.
type TextCanvas interface {
	Canvas
	FillText(text string, x, y float64, c color.Color)
}

// Field is a text input read at activation time.
type Field interface {
	Value() string
}

// Alerter shows a failure message to the user.
type Alerter interface {
	Alert(message string)
}

// Source performs the galaxy request. *galaxy.Client implements it.
type Source interface {
	Fetch(ctx context.Context, p galaxy.Params) galaxy.FetchResult
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, p galaxy.Params) galaxy.FetchResult

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context, p galaxy.Params) galaxy.FetchResult {
	return f(ctx, p)
}

// Elements are the host surfaces the viewer works against.
type Elements struct {
	Viewport Canvas
	N        Field
	D        Field
	Phi      Field
	Alerter  Alerter
}

func (e Elements) validate() error {
	switch {
	case e.Viewport == nil:
		return errors.New("viewer: nil viewport")
	case e.N == nil || e.D == nil || e.Phi == nil:
		return errors.New("viewer: missing input field")
	case e.Alerter == nil:
		return errors.New("viewer: nil alerter")
	}
	return nil
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithColors sets the point color source.
func WithColors(cs ColorSource) Option {
	return func(v *Viewer) {
		v.colors = cs
	}
}

// WithLoadingLabel paints LoadingText when a request starts, if the
// viewport can draw text.
func WithLoadingLabel(enabled bool) Option {
	return func(v *Viewer) {
		v.loading = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(v *Viewer) {
		v.logger = l.With("viewer")
	}
}

// WithStats records every activation in m.
func WithStats(m *state.Manager) Option {
	return func(v *Viewer) {
		v.stats = m
	}
}

// Viewer is the galaxy viewer controller.
type Viewer struct {
	els     Elements
	source  Source
	colors  ColorSource
	loading bool
	logger  *logging.Logger
	stats   *state.Manager

	mu      sync.Mutex // guards the viewport and the fields below
	latest  uint64
	pending int
}

// New creates a viewer over the given elements.
func New(els Elements, source Source, opts ...Option) (*Viewer, error) {
	if err := els.validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("viewer: nil source")
	}

	v := &Viewer{
		els:    els,
		source: source,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.colors == nil {
		v.colors = RandomColors(nil)
	}
	return v, nil
}

// Request is an issued activation waiting for its response.
type Request struct {
	Generation uint64
	Params     galaxy.Params
	Started    time.Time
}

// Result is the typed outcome of the network step: either Systems or Err.
type Result struct {
	Generation uint64
	Params     galaxy.Params
	Systems    []galaxy.StarSystem
	RequestID  string
	Duration   time.Duration
	Err        error
}

// Status says what Complete did with a result.
type Status int

const (
	// StatusRendered means the viewport was cleared and repainted.
	StatusRendered Status = iota
	// StatusFailed means the error was alerted and the viewport left as is.
	StatusFailed
	// StatusDiscarded means a newer request superseded this one.
	StatusDiscarded
)

func (s Status) String() string {
	switch s {
	case StatusRendered:
		return "rendered"
	case StatusFailed:
		return "failed"
	case StatusDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Outcome reports the effect of a completed activation.
type Outcome struct {
	Status     Status
	Generation uint64
	Points     int
	Err        error
}

// Begin starts an activation: it reads the inputs, issues a new
// generation and paints the loading label.
func (v *Viewer) Begin() Request {
	v.mu.Lock()
	v.latest++
	v.pending++
	req := Request{
		Generation: v.latest,
		Params: galaxy.Params{
			N:   v.els.N.Value(),
			D:   v.els.D.Value(),
			Phi: v.els.Phi.Value(),
		},
		Started: time.Now(),
	}
	if v.loading {
		if tc, ok := v.els.Viewport.(TextCanvas); ok {
			w, h := tc.Size()
			tc.FillText(LoadingText, float64(w)/2-20, float64(h)/2, White)
		}
	}
	v.mu.Unlock()

	if v.stats != nil {
		v.stats.Begin(req.Generation)
	}
	v.logger.Debug("gen=%d begin %s", req.Generation, req.Params.Query())
	return req
}

// Fetch performs the request. It is the only blocking step and is safe
// to run off the UI goroutine.
func (v *Viewer) Fetch(ctx context.Context, req Request) Result {
	fr := v.source.Fetch(ctx, req.Params)
	return Result{
		Generation: req.Generation,
		Params:     req.Params,
		Systems:    fr.Systems,
		RequestID:  fr.RequestID,
		Duration:   time.Since(req.Started),
		Err:        fr.Error,
	}
}

// Complete applies a result: stale results are dropped, failures are
// alerted, and successes clear the viewport and paint one pixel per
// system at its coordinates offset by half the viewport size.
func (v *Viewer) Complete(res Result) Outcome {
	v.mu.Lock()
	if v.pending > 0 {
		v.pending--
	}

	if res.Generation != v.latest {
		latest := v.latest
		v.mu.Unlock()
		v.logger.Debug("gen=%d discarded, latest is %d", res.Generation, latest)
		v.record(state.EventDiscarded, res, 0, nil)
		return Outcome{Status: StatusDiscarded, Generation: res.Generation}
	}

	if res.Err != nil {
		v.mu.Unlock()
		v.logger.Warn("gen=%d request %s failed: %v", res.Generation, res.RequestID, res.Err)
		v.record(state.EventFailed, res, 0, res.Err)
		v.els.Alerter.Alert(res.Err.Error())
		return Outcome{Status: StatusFailed, Generation: res.Generation, Err: res.Err}
	}

	points := v.paint(res.Systems)
	v.mu.Unlock()

	v.logger.Info("gen=%d rendered %d systems in %v", res.Generation, points, res.Duration.Round(time.Millisecond))
	v.record(state.EventRendered, res, points, nil)
	return Outcome{Status: StatusRendered, Generation: res.Generation, Points: points}
}

// paint clears the viewport and draws systems. Caller holds v.mu.
func (v *Viewer) paint(systems []galaxy.StarSystem) int {
	canvas := v.els.Viewport
	w, h := canvas.Size()
	halfW, halfH := float64(w)/2, float64(h)/2

	canvas.Clear()
	for _, sys := range systems {
		canvas.FillRect(sys.X()+halfW, sys.Y()+halfH, 1, 1, v.colors())
	}
	return len(systems)
}

func (v *Viewer) record(t state.EventType, res Result, points int, err error) {
	if v.stats == nil {
		return
	}
	v.stats.Finish(state.Event{
		Type:       t,
		Generation: res.Generation,
		RequestID:  res.RequestID,
		Points:     points,
		Duration:   res.Duration,
	}, err)
}

// Activate runs a whole cycle synchronously: Begin, Fetch, Complete.
func (v *Viewer) Activate(ctx context.Context) Outcome {
	return v.Complete(v.Fetch(ctx, v.Begin()))
}

// Pending reports whether any request is in flight.
func (v *Viewer) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending > 0
}

// Latest returns the newest issued generation, zero before the first
// activation.
func (v *Viewer) Latest() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.latest
}
