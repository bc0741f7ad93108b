package mock

import (
	"context"

	"github.com/bakkerme/pagewatch/internal/outputs/chat"
)

type Sender struct {
	Messages []chat.Message
	Err      error
}

func (s *Sender) Send(ctx context.Context, message chat.Message) error {
	_ = ctx
	if s.Err != nil {
		return s.Err
	}
	s.Messages = append(s.Messages, message)
	return nil
}
