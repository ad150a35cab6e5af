// Package coordinator runs one analysis attempt end to end: the busy guard,
// input validation, the analysis call and the hand-off to the renderer or the
// error slot.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blastview/blastview/client"
	"github.com/blastview/blastview/internal/metrics"
	"github.com/blastview/blastview/internal/models"
	"github.com/blastview/blastview/internal/render"
)

// Analyzer is the analysis service boundary. *client.Client implements it.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalysisResult, error)
}

// Publisher receives view lifecycle events. *ws.Hub implements it.
type Publisher interface {
	Publish(eventType string, data any)
}

// Event types handed to the Publisher.
const (
	EventViewReplaced   = "view.replaced"
	EventAnalysisFailed = "analysis.failed"
)

// FailureKind classifies why an attempt ended without a rendering.
type FailureKind string

// Failure kinds.
const (
	FailureValidation FailureKind = "validation"
	FailureRequest    FailureKind = "request"
	FailureTransport  FailureKind = "transport"
	FailureBusy       FailureKind = "busy"
)

// Failure is returned by Trigger for every unsuccessful attempt. Error
// returns the message shown in the error slot.
type Failure struct {
	Kind FailureKind
	Err  error
}

// Error implements the error interface.
func (f *Failure) Error() string { return f.Err.Error() }

// Unwrap returns the underlying error.
func (f *Failure) Unwrap() error { return f.Err }

// KindOf returns the FailureKind of err, or "" if err is not a *Failure.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// Status is a snapshot of the coordinator's user-visible state.
type Status struct {
	Busy  bool   `json:"busy"`
	Error string `json:"error,omitempty"`
}

// Coordinator owns the trigger control flow. At most one attempt is in flight;
// a trigger that arrives while busy is rejected with FailureBusy and leaves
// the in-flight attempt, the error slot and the view alone.
type Coordinator struct {
	analyzer  Analyzer
	view      *render.View
	publisher Publisher
	log       *logrus.Logger

	busy atomic.Bool

	mu     sync.Mutex
	errMsg string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPublisher sets the event sink for view changes and failures.
func WithPublisher(p Publisher) Option {
	return func(c *Coordinator) { c.publisher = p }
}

// New creates a Coordinator that renders into view.
func New(analyzer Analyzer, view *render.View, log *logrus.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		analyzer: analyzer,
		view:     view,
		log:      log,
	}
	for _, o := range opts {
		o(c)
	}

	return c
}

// Trigger runs one analysis for codebasePath and changeIntent. On success the
// view is replaced with the new rendering, which is also returned. On failure
// the view keeps its previous rendering and the error slot shows the
// failure's message. A trigger that arrives while another attempt is in
// flight is rejected before its input is looked at. The busy flag is released
// on every return path, including a panic, and always before the outcome
// event is published.
func (c *Coordinator) Trigger(ctx context.Context, codebasePath, changeIntent string) (r *render.Rendering, err error) {
	if !c.busy.CompareAndSwap(false, true) {
		metrics.AnalysesTotal.WithLabelValues(string(FailureBusy)).Inc()
		c.log.Warn("analysis rejected: another analysis is in progress")

		return nil, &Failure{Kind: FailureBusy, Err: models.ErrBusy}
	}

	var announce func()
	defer func() {
		if p := recover(); p != nil {
			r = nil
			err, announce = c.fail(&Failure{Kind: FailureTransport, Err: fmt.Errorf("analysis aborted: %v", p)})
		}

		c.busy.Store(false)

		if announce != nil {
			announce()
		}
	}()

	r, announce, err = c.run(ctx, codebasePath, changeIntent)

	return r, err
}

// run performs one attempt while the busy flag is held. It returns the event
// to publish once the flag is released.
func (c *Coordinator) run(ctx context.Context, codebasePath, changeIntent string) (*render.Rendering, func(), error) {
	req := models.AnalyzeRequest{
		CodebasePath: strings.TrimSpace(codebasePath),
		ChangeIntent: strings.TrimSpace(changeIntent),
	}

	if req.CodebasePath == "" || req.ChangeIntent == "" {
		f, announce := c.fail(&Failure{Kind: FailureValidation, Err: models.ErrMissingInput})
		return nil, announce, f
	}

	c.setError("")

	start := time.Now()
	res, err := c.analyzer.Analyze(ctx, req)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		kind := FailureTransport
		if client.IsAPIError(err) {
			kind = FailureRequest
		}

		f, announce := c.fail(&Failure{Kind: kind, Err: err})
		return nil, announce, f
	}

	renderStart := time.Now()
	r := render.Render(res)
	metrics.RenderDuration.Observe(time.Since(renderStart).Seconds())

	version := c.view.Replace(r)
	metrics.RenderedElements.Set(float64(len(r.Elements)))
	metrics.AnalysesTotal.WithLabelValues("success").Inc()

	c.log.WithFields(logrus.Fields{
		"version":  version,
		"elements": len(r.Elements),
		"total":    r.Stats.Total,
		"direct":   r.Stats.Direct,
		"indirect": r.Stats.Indirect,
		"duration": time.Since(start).String(),
	}).Info("analysis rendered")

	evt := viewReplacedEvent{Version: version, Stats: r.Stats, Elements: len(r.Elements)}

	return r, func() { c.publish(EventViewReplaced, evt) }, nil
}

// Status returns the current busy flag and error slot.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{Busy: c.busy.Load(), Error: c.errMsg}
}

// View returns the view the coordinator renders into.
func (c *Coordinator) View() *render.View {
	return c.view
}

type viewReplacedEvent struct {
	Version  uint64       `json:"version"`
	Stats    render.Stats `json:"stats"`
	Elements int          `json:"elements"`
}

type analysisFailedEvent struct {
	Kind  FailureKind `json:"kind"`
	Error string      `json:"error"`
}

// fail records f in the error slot and returns it with the event that
// announces it.
func (c *Coordinator) fail(f *Failure) (*Failure, func()) {
	c.setError(f.Error())
	metrics.AnalysesTotal.WithLabelValues(string(f.Kind)).Inc()

	entry := c.log.WithField("kind", f.Kind)
	if status := client.StatusCode(f.Err); status != 0 {
		entry = entry.WithField("status", status)
	}
	entry.WithError(f.Err).Warn("analysis failed")

	evt := analysisFailedEvent{Kind: f.Kind, Error: f.Error()}

	return f, func() { c.publish(EventAnalysisFailed, evt) }
}

func (c *Coordinator) setError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

func (c *Coordinator) publish(eventType string, data any) {
	if c.publisher != nil {
		c.publisher.Publish(eventType, data)
	}
}
