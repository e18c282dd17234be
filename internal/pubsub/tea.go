package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Tail couples one broker subscription to the Bubble Tea update loop.
type Tail[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewTail subscribes to the stream. Cancelling ctx ends the tail.
func NewTail[T any](ctx context.Context, stream Stream[T]) *Tail[T] {
	return &Tail[T]{ctx: ctx, ch: stream.Subscribe(ctx)}
}

// Next returns a command that delivers the next event as a tea.Msg.
// The update loop re-arms it after handling each event; it returns nil
// once the stream closes or the context ends.
func (t *Tail[T]) Next() tea.Cmd {
	ctx, ch := t.ctx, t.ch
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			return ev
		}
	}
}
