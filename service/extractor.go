package service

import (
	"regexp"
	"strings"
)

// urlMarker separates the answer body from its link section.
const urlMarker = "Relevant URLs:"

var anchorHrefPattern = regexp.MustCompile(`<a href=["']([^"']+)["']`)

// ExtractURLs pulls href targets from the anchor tags that follow the
// first urlMarker occurrence in an answer. URLs are deduplicated in
// first-seen order and are not validated. No marker means no URLs.
func ExtractURLs(responseText string) []string {
	_, after, found := strings.Cut(responseText, urlMarker)
	if !found {
		return nil
	}

	matches := anchorHrefPattern.FindAllStringSubmatch(after, -1)
	seen := make(map[string]bool, len(matches))
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		urls = append(urls, m[1])
	}
	return urls
}
