package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/bakkerme/pagewatch/internal/config"
	"github.com/bakkerme/pagewatch/internal/outputs/chat"
)

// ChatNotifier posts one chat message per run, newline-joining the added keys.
type ChatNotifier struct {
	name   string
	config config.ChatNotify
	sender chat.Sender
}

func NewChatNotifier(cfg *config.ChatNotify, sender chat.Sender) (*ChatNotifier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("chat notify config is required")
	}
	if sender == nil {
		return nil, fmt.Errorf("chat sender is required")
	}
	return &ChatNotifier{
		name:   "chat",
		config: *cfg,
		sender: sender,
	}, nil
}

func (n *ChatNotifier) Name() string {
	return n.name
}

func (n *ChatNotifier) Notify(ctx context.Context, added []string) error {
	text := strings.Join(added, "\n")
	if n.config.Header != "" {
		text = n.config.Header + "\n" + text
	}
	return n.sender.Send(ctx, chat.Message{Text: text})
}
