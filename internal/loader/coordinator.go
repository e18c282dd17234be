package loader

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/refview/internal/log"
)

// SlotType names a category of loadable data.
type SlotType int

const (
	SlotBranches SlotType = iota
	SlotTags
	SlotRemotes
	SlotCommits
	SlotDiff
	SlotCommitBody
)

// String returns the slot type name used in logs and trace attributes.
func (t SlotType) String() string {
	switch t {
	case SlotBranches:
		return "branches"
	case SlotTags:
		return "tags"
	case SlotRemotes:
		return "remotes"
	case SlotCommits:
		return "commits"
	case SlotDiff:
		return "diff"
	case SlotCommitBody:
		return "commit-body"
	default:
		return "unknown"
	}
}

// SlotKey identifies one loadable slot. Ref scopes per-ref slots like
// commit lists (branch name) and diffs (commit hash); it is empty for
// repo-wide slots.
type SlotKey struct {
	Type SlotType
	Ref  string
}

func (k SlotKey) String() string {
	if k.Ref == "" {
		return k.Type.String()
	}
	return fmt.Sprintf("%s:%s", k.Type, k.Ref)
}

// Status is the lifecycle state of a slot.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

// ResultMsg carries a completed fetch back into the update loop. Gen is
// the generation captured when the fetch was issued; the coordinator
// discards the message when a newer request for the same slot has been
// issued since.
type ResultMsg struct {
	Slot     SlotKey
	Gen      uint64
	Payload  any
	Err      error
	Duration time.Duration
}

// Fetch produces the payload for a slot. It runs off the update loop.
type Fetch func(ctx context.Context) (any, error)

// Coordinator tracks one generation counter and status per slot. It is
// not safe for concurrent use; all methods are called from the update
// loop, and only the issued tea.Cmd closures run concurrently.
type Coordinator struct {
	gens     map[SlotKey]uint64
	statuses map[SlotKey]Status
	errs     map[SlotKey]error
	inflight map[SlotKey]bool
	pending  map[SlotKey]Fetch
	tracer   trace.Tracer
	timeout  time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTracer records a span per fetch on the given tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Coordinator) {
		c.tracer = tracer
	}
}

// WithTimeout bounds each fetch. Zero means no deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = timeout
	}
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		gens:     make(map[SlotKey]uint64),
		statuses: make(map[SlotKey]Status),
		errs:     make(map[SlotKey]error),
		inflight: make(map[SlotKey]bool),
		pending:  make(map[SlotKey]Fetch),
		tracer:   noop.NewTracerProvider().Tracer("loader"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request bumps the slot's generation, marks it loading, and returns a
// command that runs fetch and delivers a ResultMsg stamped with the
// captured generation. At most one fetch per slot runs at a time: while
// one is in flight the new fetch is queued and Request returns nil, and
// Resume dispatches it once the in-flight result lands (stale, so Apply
// discards it).
func (c *Coordinator) Request(slot SlotKey, fetch Fetch) tea.Cmd {
	c.gens[slot]++
	gen := c.gens[slot]
	c.statuses[slot] = StatusLoading
	delete(c.errs, slot)

	if c.inflight[slot] {
		c.pending[slot] = fetch
		log.Debug(log.CatLoader, "fetch queued behind in-flight", "slot", slot.String(), "gen", gen)
		return nil
	}
	c.inflight[slot] = true

	log.Debug(log.CatLoader, "fetch requested", "slot", slot.String(), "gen", gen)
	return c.dispatch(slot, gen, fetch)
}

func (c *Coordinator) dispatch(slot SlotKey, gen uint64, fetch Fetch) tea.Cmd {
	timeout := c.timeout
	tracer := c.tracer
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		ctx, span := tracer.Start(ctx, "loader.fetch", trace.WithAttributes(
			attribute.String("slot", slot.String()),
			attribute.Int64("gen", int64(gen)),
		))
		defer span.End()

		start := time.Now()
		payload, err := fetch(ctx)
		elapsed := time.Since(start)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return ResultMsg{
			Slot:     slot,
			Gen:      gen,
			Payload:  payload,
			Err:      err,
			Duration: elapsed,
		}
	}
}

// Apply decides whether a result is current. Stale results (a newer
// request was issued for the slot) return false and leave all slot
// state untouched; callers must drop the payload. Current results
// update the slot status and are safe to store.
func (c *Coordinator) Apply(msg ResultMsg) bool {
	delete(c.inflight, msg.Slot)

	if msg.Gen != c.gens[msg.Slot] {
		log.Debug(log.CatLoader, "stale result discarded",
			"slot", msg.Slot.String(), "gen", msg.Gen, "current", c.gens[msg.Slot])
		return false
	}

	if msg.Err != nil {
		c.statuses[msg.Slot] = StatusFailed
		c.errs[msg.Slot] = msg.Err
		log.ErrorErr(log.CatLoader, "fetch failed", msg.Err, "slot", msg.Slot.String())
		return true
	}

	c.statuses[msg.Slot] = StatusLoaded
	log.Debug(log.CatLoader, "fetch applied",
		"slot", msg.Slot.String(), "gen", msg.Gen, "duration", msg.Duration.String())
	return true
}

// Resume dispatches the fetch queued behind an in-flight one, stamped
// with the slot's current generation. Callers invoke it right after
// Apply; it returns nil when nothing is queued.
func (c *Coordinator) Resume(slot SlotKey) tea.Cmd {
	fetch, ok := c.pending[slot]
	if !ok {
		return nil
	}
	delete(c.pending, slot)
	c.inflight[slot] = true

	gen := c.gens[slot]
	log.Debug(log.CatLoader, "queued fetch dispatched", "slot", slot.String(), "gen", gen)
	return c.dispatch(slot, gen, fetch)
}

// Status returns the slot's lifecycle state. Unknown slots are idle.
func (c *Coordinator) Status(slot SlotKey) Status {
	return c.statuses[slot]
}

// Err returns the last failure for a slot, nil unless StatusFailed.
func (c *Coordinator) Err(slot SlotKey) error {
	return c.errs[slot]
}

// Loading reports whether any slot is currently loading. Drives the
// spinner in the status line.
func (c *Coordinator) Loading() bool {
	for _, st := range c.statuses {
		if st == StatusLoading {
			return true
		}
	}
	return false
}

// Invalidate resets a slot to idle and bumps its generation so any
// in-flight fetch lands stale. Used when the repo changes on disk.
func (c *Coordinator) Invalidate(slot SlotKey) {
	c.gens[slot]++
	c.statuses[slot] = StatusIdle
	delete(c.errs, slot)
	delete(c.pending, slot)
}

// InvalidateAll resets every known slot.
func (c *Coordinator) InvalidateAll() {
	for slot := range c.gens {
		c.Invalidate(slot)
	}
}
