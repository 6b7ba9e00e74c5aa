package models

import (
	"fmt"
	"strings"
)

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// NewLink trims both fields and prefixes bare URLs with https://.
func NewLink(label, url string) (Link, error) {
	label = strings.TrimSpace(label)
	url = strings.TrimSpace(url)
	if label == "" {
		return Link{}, fmt.Errorf("link label cannot be empty")
	}
	if url == "" {
		return Link{}, fmt.Errorf("link url cannot be empty")
	}
	return Link{Label: label, URL: NormalizeURL(url)}, nil
}

func NormalizeURL(url string) string {
	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return url
	}
	return "https://" + url
}

func cloneLinks(links []Link) []Link {
	if links == nil {
		return nil
	}
	out := make([]Link, len(links))
	copy(out, links)
	return out
}
