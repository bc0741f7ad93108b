package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dayWeekUnitPattern = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)([dw])`)

// parseDurationExtended parses Go-style duration strings and adds support for:
// - d (days) where 1d = 24h
// - w (weeks) where 1w = 7d
//
// Examples: "168h", "7d", "1w2d", "1.5d", "-2w".
func parseDurationExtended(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("duration is required")
	}
	if !strings.ContainsAny(raw, "dw") {
		return time.ParseDuration(raw)
	}

	expanded := dayWeekUnitPattern.ReplaceAllStringFunc(raw, func(match string) string {
		parts := dayWeekUnitPattern.FindStringSubmatch(match)
		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return match
		}
		hours := value * 24
		if parts[2] == "w" {
			hours *= 7
		}
		return strconv.FormatFloat(hours, 'f', -1, 64) + "h"
	})
	if strings.ContainsAny(expanded, "dw") {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return time.ParseDuration(expanded)
}
