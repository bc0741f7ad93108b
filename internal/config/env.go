package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type EnvConfig struct {
	ConfigPath string
	RunOnce    bool
	Serve      bool
	ListenAddr string
	PagePath   string
	Page       PageEnvConfig
	Feed       FeedEnvConfig
	State      StateEnvConfig
	SMTP       SMTPEnvConfig
	Chat       ChatEnvConfig
	OTel       OTelEnvConfig
}

type PageEnvConfig struct {
	HTTPTimeout time.Duration
	UserAgent   string
}

type FeedEnvConfig struct {
	HTTPTimeout time.Duration
	UserAgent   string
}

type StateEnvConfig struct {
	DSN string
}

type SMTPEnvConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	TLSMode  string
}

type ChatEnvConfig struct {
	WebhookURL  string
	HTTPTimeout time.Duration
}

type OTelEnvConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	Protocol    string // "grpc" or "http/protobuf"
	Headers     map[string]string
	Insecure    bool
	SampleRatio float64
}

func LoadEnv() EnvConfig {
	otlpEndpoint := strings.TrimSpace(envString("OTEL_EXPORTER_OTLP_ENDPOINT", ""))

	return EnvConfig{
		ConfigPath: envString("PAGEWATCH_CONFIG", "pagewatch.yaml"),
		RunOnce:    envBool("RUN_ONCE", false),
		Serve:      envBool("PAGEWATCH_SERVE", false),
		ListenAddr: envString("PAGEWATCH_LISTEN_ADDR", ":8080"),
		PagePath:   envString("PAGEWATCH_PAGE_PATH", "/watches"),
		Page: PageEnvConfig{
			HTTPTimeout: envDuration("PAGE_HTTP_TIMEOUT", 15*time.Second),
			UserAgent:   envString("PAGE_USER_AGENT", "pagewatch/0.1"),
		},
		Feed: FeedEnvConfig{
			HTTPTimeout: envDuration("FEED_HTTP_TIMEOUT", 10*time.Second),
			UserAgent:   envString("FEED_USER_AGENT", "pagewatch/0.1"),
		},
		State: StateEnvConfig{
			DSN: envString("PAGEWATCH_STATE_DSN", "pagewatch.db"),
		},
		SMTP: SMTPEnvConfig{
			Host:     envString("SMTP_HOST", ""),
			Port:     envInt("SMTP_PORT", 587),
			User:     envString("SMTP_USER", ""),
			Password: envString("SMTP_PASSWORD", ""),
			TLSMode:  envString("SMTP_TLS_MODE", ""),
		},
		Chat: ChatEnvConfig{
			WebhookURL:  envString("CHAT_WEBHOOK_URL", ""),
			HTTPTimeout: envDuration("CHAT_HTTP_TIMEOUT", 10*time.Second),
		},
		OTel: OTelEnvConfig{
			Enabled:     envBool("OTEL_ENABLED", false),
			ServiceName: strings.TrimSpace(envString("OTEL_SERVICE_NAME", "pagewatch")),
			Endpoint:    otlpEndpoint,
			Protocol:    strings.ToLower(strings.TrimSpace(envString("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
			Headers:     parseHeaders(envString("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envBool("OTEL_EXPORTER_OTLP_INSECURE", defaultInsecure(otlpEndpoint)),
			SampleRatio: clamp01(envFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0)),
		},
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := parseDurationExtended(v)
	if err != nil {
		return fallback
	}
	return d
}

// parseHeaders parses "k1=v1,k2=v2" into a map, as used by the OTLP headers env var.
func parseHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	headers := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		headers[key] = value
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}

func defaultInsecure(endpoint string) bool {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return true
	}
	return !strings.HasPrefix(endpoint, "https://")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
