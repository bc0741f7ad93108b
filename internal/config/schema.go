package config

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"time"
)

// WatchDocument represents the top-level structure of a pagewatch.yaml file.
type WatchDocument struct {
	Watches []WatchConfig `yaml:"watches"`
}

// WatchConfig wires one watch: when it runs, what it polls, how the snapshot
// is narrowed and where new keys are announced.
type WatchConfig struct {
	Name    string         `yaml:"name"`
	Trigger TriggerConfig  `yaml:"trigger"`
	Source  SourceConfig   `yaml:"source"`
	Filters []FilterConfig `yaml:"filters,omitempty"`
	Notify  NotifyConfig   `yaml:"notify"`
}

// TriggerConfig wraps different trigger types.
type TriggerConfig struct {
	Cron *CronTrigger `yaml:"cron,omitempty"`
}

// CronTrigger defines a scheduled trigger.
type CronTrigger struct {
	Schedule string `yaml:"schedule"`
	Timezone string `yaml:"timezone,omitempty"`
}

// SourceConfig wraps different snapshot source types.
type SourceConfig struct {
	Page *PageSource `yaml:"page,omitempty"`
	Feed *FeedSource `yaml:"feed,omitempty"`
}

// PageSource scrapes a web page and extracts link keys matching a pattern.
type PageSource struct {
	URL       string `yaml:"url"`
	Pattern   string `yaml:"pattern,omitempty"`
	UserAgent string `yaml:"user_agent,omitempty"`
}

// FeedSource polls an RSS/Atom feed; keys are entry GUIDs (falling back to
// the entry link).
type FeedSource struct {
	URL       string `yaml:"url"`
	Limit     int    `yaml:"limit,omitempty"`
	UserAgent string `yaml:"user_agent,omitempty"`
}

// FilterConfig wraps different key filter types.
type FilterConfig struct {
	Rule *KeyRule `yaml:"rule,omitempty"`
}

// KeyRule defines an expression-based key filter.
type KeyRule struct {
	Name   string `yaml:"name"`
	Rule   string `yaml:"rule"`
	Result string `yaml:"result"` // "keep" or "drop"
}

// NotifyConfig wraps the supported notification sinks.
type NotifyConfig struct {
	Email *EmailNotify `yaml:"email,omitempty"`
	Chat  *ChatNotify  `yaml:"chat,omitempty"`
}

// EmailNotify defines email delivery configuration. SMTP fields left empty
// fall back to the environment defaults.
type EmailNotify struct {
	To           string `yaml:"to"`
	From         string `yaml:"from,omitempty"`
	Subject      string `yaml:"subject"`
	Template     string `yaml:"template,omitempty"`
	SMTPHost     string `yaml:"smtp_host,omitempty"`
	SMTPPort     int    `yaml:"smtp_port,omitempty"`
	SMTPUser     string `yaml:"smtp_user,omitempty"`
	SMTPPassword string `yaml:"smtp_password,omitempty"`
	TLSMode      string `yaml:"tls_mode,omitempty"`
}

// ChatNotify defines chat webhook delivery configuration. An empty webhook
// URL falls back to the environment default.
type ChatNotify struct {
	WebhookURL string `yaml:"webhook_url,omitempty"`
	Header     string `yaml:"header,omitempty"`
}

// Validate performs validation on the watch document.
func (d *WatchDocument) Validate() error {
	if len(d.Watches) == 0 {
		return fmt.Errorf("at least one watch is required")
	}

	names := map[string]bool{}
	for i := range d.Watches {
		watch := &d.Watches[i]
		if watch.Name == "" {
			return fmt.Errorf("watch %d: name is required", i)
		}
		if names[watch.Name] {
			return fmt.Errorf("watch %q: duplicate name", watch.Name)
		}
		names[watch.Name] = true

		if err := watch.validate(); err != nil {
			return fmt.Errorf("watch %q: %w", watch.Name, err)
		}
	}
	return nil
}

func (w *WatchConfig) validate() error {
	if w.Trigger.Cron == nil || w.Trigger.Cron.Schedule == "" {
		return fmt.Errorf("trigger cron schedule is required")
	}
	if w.Trigger.Cron.Timezone != "" {
		if _, err := time.LoadLocation(w.Trigger.Cron.Timezone); err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}
	}

	switch {
	case w.Source.Page != nil && w.Source.Feed != nil:
		return fmt.Errorf("exactly one source is required, got both page and feed")
	case w.Source.Page != nil:
		if err := w.Source.Page.validate(); err != nil {
			return err
		}
	case w.Source.Feed != nil:
		if err := w.Source.Feed.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("a page or feed source is required")
	}

	for _, filter := range w.Filters {
		if filter.Rule == nil {
			return fmt.Errorf("filter requires a rule")
		}
		if filter.Rule.Name == "" || filter.Rule.Rule == "" {
			return fmt.Errorf("filter rule name and expression are required")
		}
		switch filter.Rule.Result {
		case "keep", "drop":
		default:
			return fmt.Errorf("filter rule %q: result must be keep or drop", filter.Rule.Name)
		}
	}

	switch {
	case w.Notify.Email != nil && w.Notify.Chat != nil:
		return fmt.Errorf("exactly one notify sink is required, got both email and chat")
	case w.Notify.Email != nil:
		if w.Notify.Email.To == "" || w.Notify.Email.Subject == "" {
			return fmt.Errorf("notify email: to and subject are required")
		}
		if _, err := mail.ParseAddress(w.Notify.Email.To); err != nil {
			return fmt.Errorf("notify email: invalid to address")
		}
	case w.Notify.Chat != nil:
		if w.Notify.Chat.WebhookURL != "" {
			if _, err := url.ParseRequestURI(w.Notify.Chat.WebhookURL); err != nil {
				return fmt.Errorf("notify chat: invalid webhook url")
			}
		}
	default:
		return fmt.Errorf("an email or chat notify sink is required")
	}

	return nil
}

func (s *PageSource) validate() error {
	if s.URL == "" {
		return fmt.Errorf("page source url is required")
	}
	if s.Pattern != "" {
		if _, err := regexp.Compile(s.Pattern); err != nil {
			return fmt.Errorf("page source pattern: %w", err)
		}
	}
	return nil
}

func (s *FeedSource) validate() error {
	if s.URL == "" {
		return fmt.Errorf("feed source url is required")
	}
	if s.Limit < 0 {
		return fmt.Errorf("feed source limit must be >= 0")
	}
	return nil
}
