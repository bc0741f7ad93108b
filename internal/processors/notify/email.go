package notify

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bakkerme/pagewatch/internal/config"
	"github.com/bakkerme/pagewatch/internal/outputs/email"
)

// defaultEmailTemplate lists the added keys as a markdown bullet list.
const defaultEmailTemplate = `{{range .Keys}}- {{.}}
{{end}}`

// EmailNotifier sends one email per run whose body aggregates all newly
// added keys. The body template is markdown, rendered to HTML for delivery.
type EmailNotifier struct {
	name      string
	config    config.EmailNotify
	sender    email.Sender
	template  *template.Template
	converter goldmark.Markdown
}

func NewEmailNotifier(cfg *config.EmailNotify, sender email.Sender) (*EmailNotifier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("email notify config is required")
	}
	if cfg.To == "" || cfg.Subject == "" {
		return nil, fmt.Errorf("email notify to and subject are required")
	}
	if sender == nil {
		return nil, fmt.Errorf("email sender is required")
	}
	text := cfg.Template
	if text == "" {
		text = defaultEmailTemplate
	}
	tmpl, err := template.New("email").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse email template: %w", err)
	}
	return &EmailNotifier{
		name:      "email",
		config:    *cfg,
		sender:    sender,
		template:  tmpl,
		converter: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

func (n *EmailNotifier) Name() string {
	return n.name
}

func (n *EmailNotifier) Notify(ctx context.Context, added []string) error {
	var markdown strings.Builder
	data := struct {
		Keys  []string
		Count int
	}{
		Keys:  added,
		Count: len(added),
	}
	if err := n.template.Execute(&markdown, data); err != nil {
		return fmt.Errorf("execute email template: %w", err)
	}

	var body bytes.Buffer
	if err := n.converter.Convert([]byte(markdown.String()), &body); err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	return n.sender.Send(ctx, email.Message{
		From:    n.config.From,
		To:      n.config.To,
		Subject: n.config.Subject,
		Body:    body.String(),
	})
}
