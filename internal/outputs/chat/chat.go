// Package chat defines the delivery envelope for watch notifications posted
// to a chat webhook.
package chat

import "context"

// Message is one notification post; Text carries the newline-joined keys.
type Message struct {
	Text string
}

type Sender interface {
	Send(ctx context.Context, message Message) error
}
