package page

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks returns the href values of anchors in content that match
// pattern, in document order. When no anchors match, the pattern is applied
// to the raw text as a fallback, so link-shaped strings outside of markup are
// still picked up. A nil pattern matches every anchor. Zero matches is not an
// error; the caller treats it as an empty snapshot.
func ExtractLinks(content string, pattern *regexp.Regexp) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	links := []string{}
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			return
		}
		if pattern == nil || pattern.MatchString(href) {
			links = append(links, href)
		}
	})

	if len(links) == 0 && pattern != nil {
		links = append(links, pattern.FindAllString(content, -1)...)
	}
	return links, nil
}
