// Package email defines the delivery envelope for watch notifications sent
// by mail. The notifier renders the aggregated key list into Body; transport
// details (SMTP host, TLS negotiation) live behind Sender.
package email

import "context"

// Message is one notification email. An empty From falls back to whatever
// identity the sender is configured with.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, message Message) error
}
