package factory

import (
	"fmt"
	"log/slog"

	"github.com/bakkerme/pagewatch/internal/config"
	"github.com/bakkerme/pagewatch/internal/core"
	"github.com/bakkerme/pagewatch/internal/detect"
	"github.com/bakkerme/pagewatch/internal/outputs/chat"
	chatwebhook "github.com/bakkerme/pagewatch/internal/outputs/chat/webhook"
	"github.com/bakkerme/pagewatch/internal/outputs/email"
	emailsmtp "github.com/bakkerme/pagewatch/internal/outputs/email/smtp"
	"github.com/bakkerme/pagewatch/internal/processors/filter"
	"github.com/bakkerme/pagewatch/internal/processors/notify"
	"github.com/bakkerme/pagewatch/internal/processors/source"
	"github.com/bakkerme/pagewatch/internal/processors/trigger"
	"github.com/bakkerme/pagewatch/internal/runner"
	"github.com/bakkerme/pagewatch/internal/seen"
	"github.com/bakkerme/pagewatch/internal/sources/feed"
	feedimpl "github.com/bakkerme/pagewatch/internal/sources/feed/impl"
	"github.com/bakkerme/pagewatch/internal/sources/page"
	pageimpl "github.com/bakkerme/pagewatch/internal/sources/page/impl"
)

// Factory builds runnable watches from a parsed watch document. Fetchers and
// senders can be swapped out (tests inject mocks); nil senders are built
// per watch from the merged YAML + env configuration.
type Factory struct {
	Logger       *slog.Logger
	PageFetcher  page.Fetcher
	FeedFetcher  feed.Fetcher
	EmailSender  email.Sender
	ChatSender   chat.Sender
	SMTPDefaults config.SMTPEnvConfig
	ChatDefaults config.ChatEnvConfig
	SeenDB       *seen.SQLiteDB
}

func NewFromEnvConfig(logger *slog.Logger, env config.EnvConfig) (*Factory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	seenDB, err := seen.Open(env.State.DSN)
	if err != nil {
		return nil, fmt.Errorf("open seen store: %w", err)
	}
	return &Factory{
		Logger:       logger,
		PageFetcher:  pageimpl.NewFetcher(env.Page.HTTPTimeout, env.Page.UserAgent),
		FeedFetcher:  feedimpl.NewFetcher(env.Feed.HTTPTimeout, env.Feed.UserAgent),
		SMTPDefaults: env.SMTP,
		ChatDefaults: env.Chat,
		SeenDB:       seenDB,
	}, nil
}

func (f *Factory) Close() error {
	if f.SeenDB == nil {
		return nil
	}
	return f.SeenDB.Close()
}

// Build constructs one runnable watch per document entry.
func (f *Factory) Build(doc *config.WatchDocument) ([]*runner.Watch, error) {
	if doc == nil {
		return nil, fmt.Errorf("watch document is required")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	watches := make([]*runner.Watch, 0, len(doc.Watches))
	for i := range doc.Watches {
		cfg := &doc.Watches[i]
		watch, err := f.buildWatch(cfg)
		if err != nil {
			return nil, fmt.Errorf("watch %q: %w", cfg.Name, err)
		}
		watches = append(watches, watch)
	}
	return watches, nil
}

func (f *Factory) buildWatch(cfg *config.WatchConfig) (*runner.Watch, error) {
	snapshotter, err := f.buildSource(cfg)
	if err != nil {
		return nil, err
	}

	filters := make([]core.KeyFilter, 0, len(cfg.Filters))
	for _, filterCfg := range cfg.Filters {
		ruleFilter, err := filter.NewRuleFilter(filterCfg.Rule)
		if err != nil {
			return nil, err
		}
		filters = append(filters, ruleFilter)
	}

	notifier, err := f.buildNotifier(cfg)
	if err != nil {
		return nil, err
	}

	detector, err := detect.New(cfg.Name, snapshotter, filters, notifier, f.SeenDB.Watch(cfg.Name))
	if err != nil {
		return nil, err
	}

	return &runner.Watch{
		Name:     cfg.Name,
		Trigger:  trigger.NewCronProcessor(cfg.Trigger.Cron.Schedule, cfg.Trigger.Cron.Timezone),
		Detector: detector,
	}, nil
}

func (f *Factory) buildSource(cfg *config.WatchConfig) (core.Snapshotter, error) {
	switch {
	case cfg.Source.Page != nil:
		return source.NewPageSource(cfg.Source.Page, f.PageFetcher)
	case cfg.Source.Feed != nil:
		return source.NewFeedSource(cfg.Source.Feed, f.FeedFetcher)
	default:
		return nil, fmt.Errorf("a page or feed source is required")
	}
}

func (f *Factory) buildNotifier(cfg *config.WatchConfig) (core.Notifier, error) {
	switch {
	case cfg.Notify.Email != nil:
		merged := f.mergeEmailConfig(cfg.Notify.Email)
		sender := f.EmailSender
		if sender == nil {
			if err := emailsmtp.ValidateConfig(merged.SMTPHost, merged.SMTPPort); err != nil {
				return nil, err
			}
			sender = emailsmtp.NewSender(merged.SMTPHost, merged.SMTPPort, merged.SMTPUser, merged.SMTPPassword, merged.TLSMode)
		}
		return notify.NewEmailNotifier(merged, sender)
	case cfg.Notify.Chat != nil:
		merged := f.mergeChatConfig(cfg.Notify.Chat)
		sender := f.ChatSender
		if sender == nil {
			if merged.WebhookURL == "" {
				return nil, fmt.Errorf("chat webhook url is required (set CHAT_WEBHOOK_URL or notify.chat.webhook_url)")
			}
			sender = chatwebhook.NewSender(merged.WebhookURL, f.ChatDefaults.HTTPTimeout)
		}
		return notify.NewChatNotifier(merged, sender)
	default:
		return nil, fmt.Errorf("an email or chat notify sink is required")
	}
}

func (f *Factory) mergeEmailConfig(cfg *config.EmailNotify) *config.EmailNotify {
	merged := *cfg
	if merged.SMTPHost == "" {
		merged.SMTPHost = f.SMTPDefaults.Host
	}
	if merged.SMTPPort == 0 {
		merged.SMTPPort = f.SMTPDefaults.Port
	}
	if merged.SMTPUser == "" {
		merged.SMTPUser = f.SMTPDefaults.User
	}
	if merged.SMTPPassword == "" {
		merged.SMTPPassword = f.SMTPDefaults.Password
	}
	if merged.TLSMode == "" {
		merged.TLSMode = f.SMTPDefaults.TLSMode
	}
	return &merged
}

func (f *Factory) mergeChatConfig(cfg *config.ChatNotify) *config.ChatNotify {
	merged := *cfg
	if merged.WebhookURL == "" {
		merged.WebhookURL = f.ChatDefaults.WebhookURL
	}
	return &merged
}
