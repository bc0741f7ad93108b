package config

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const sampleDocument = `
watches:
  - name: github-links
    trigger:
      cron:
        schedule: "0 9 * * *"
        timezone: UTC
    source:
      page:
        url: https://example.com/projects
        pattern: 'https://github\.com/[\w.-]+/[\w.-]+'
    filters:
      - rule:
          name: skip-forks
          rule: 'key.value contains "/fork-"'
          result: drop
    notify:
      email:
        to: alerts@example.com
        subject: New GitHub links
  - name: releases
    trigger:
      cron:
        schedule: "*/30 * * * *"
    source:
      feed:
        url: https://example.com/releases.atom
        limit: 1
    notify:
      chat:
        header: "New release:"
`

func parseDocument(t *testing.T, text string) *WatchDocument {
	t.Helper()
	var doc WatchDocument
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return &doc
}

func TestValidateSampleDocument(t *testing.T) {
	doc := parseDocument(t, sampleDocument)
	if err := doc.Validate(); err != nil {
		t.Fatalf("expected document to validate, got: %v", err)
	}
	if len(doc.Watches) != 2 {
		t.Fatalf("expected 2 watches, got %d", len(doc.Watches))
	}
	if doc.Watches[0].Source.Page == nil {
		t.Fatal("expected first watch to have a page source")
	}
	if doc.Watches[1].Source.Feed == nil || doc.Watches[1].Source.Feed.Limit != 1 {
		t.Fatal("expected second watch to have a feed source with limit 1")
	}
}

func TestValidateRejectsMissingTrigger(t *testing.T) {
	doc := parseDocument(t, `
watches:
  - name: broken
    source:
      feed:
        url: https://example.com/releases.atom
    notify:
      chat: {}
`)
	err := doc.Validate()
	if err == nil || !strings.Contains(err.Error(), "schedule") {
		t.Fatalf("expected schedule error, got: %v", err)
	}
}

func TestValidateRejectsTwoSources(t *testing.T) {
	doc := parseDocument(t, `
watches:
  - name: broken
    trigger:
      cron:
        schedule: "@daily"
    source:
      page:
        url: https://example.com
      feed:
        url: https://example.com/releases.atom
    notify:
      chat: {}
`)
	err := doc.Validate()
	if err == nil || !strings.Contains(err.Error(), "exactly one source") {
		t.Fatalf("expected source error, got: %v", err)
	}
}

func TestValidateRejectsBadEmailAddress(t *testing.T) {
	doc := parseDocument(t, `
watches:
  - name: broken
    trigger:
      cron:
        schedule: "@daily"
    source:
      feed:
        url: https://example.com/releases.atom
    notify:
      email:
        to: not-an-address
        subject: hi
`)
	err := doc.Validate()
	if err == nil || !strings.Contains(err.Error(), "invalid to address") {
		t.Fatalf("expected address error, got: %v", err)
	}
}

func TestValidateRejectsBadPattern(t *testing.T) {
	doc := parseDocument(t, `
watches:
  - name: broken
    trigger:
      cron:
        schedule: "@daily"
    source:
      page:
        url: https://example.com
        pattern: "(["
    notify:
      chat: {}
`)
	if err := doc.Validate(); err == nil {
		t.Fatal("expected pattern error")
	}
}

func TestValidateRejectsDuplicateNames(t *testing.T) {
	doc := parseDocument(t, `
watches:
  - name: same
    trigger:
      cron:
        schedule: "@daily"
    source:
      feed:
        url: https://example.com/a.atom
    notify:
      chat: {}
  - name: same
    trigger:
      cron:
        schedule: "@daily"
    source:
      feed:
        url: https://example.com/b.atom
    notify:
      chat: {}
`)
	err := doc.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate name error, got: %v", err)
	}
}
