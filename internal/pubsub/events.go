// Package pubsub fans events from background producers out to the
// update loop. The logger publishes every entry through a Broker so the
// in-app log overlay can tail the stream without re-reading the file.
package pubsub

import (
	"context"
	"time"
)

// Kind tags what a published event represents.
type Kind string

const (
	// KindAppended marks a payload added to a stream, such as a log
	// entry.
	KindAppended Kind = "appended"
	// KindInvalidated marks a payload whose previously delivered form
	// is no longer current.
	KindInvalidated Kind = "invalidated"
)

// Event is one published payload stamped with its kind and time.
type Event[T any] struct {
	Kind    Kind
	Payload T
	At      time.Time
}

// Stream is the subscribing half of a Broker.
type Stream[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Sink is the publishing half of a Broker.
type Sink[T any] interface {
	Publish(kind Kind, payload T)
}
