// Package challenge detects CAPTCHA-like interruptions on the current page.
// It only reports them; resolving a challenge is always left to a human.
package challenge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ErrChallengeDetected means the page is showing a challenge that needs a human.
var ErrChallengeDetected = errors.New("challenge detected")

// Finding describes the markup that identified a challenge.
type Finding struct {
	// Marker names the rule that matched, e.g. "iframe[src*=recaptcha]"
	Marker string

	// Tag is the matching element's tag name
	Tag string
}

func (f *Finding) String() string {
	return fmt.Sprintf("%s (<%s>)", f.Marker, f.Tag)
}

// ContentSource provides the current page HTML.
type ContentSource interface {
	Content(ctx context.Context) (string, error)
}

// Check reads the page and returns an error wrapping ErrChallengeDetected
// when a challenge is present. The Finding is returned alongside so callers
// can hand it to an operator.
func Check(ctx context.Context, src ContentSource) (*Finding, error) {
	content, err := src.Content(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read page for challenge check: %w", err)
	}

	finding, err := Detect(content)
	if err != nil {
		return nil, err
	}
	if finding != nil {
		return finding, fmt.Errorf("%w: %s", ErrChallengeDetected, finding)
	}
	return nil, nil
}

// Detect parses rawHTML and returns the first challenge marker found, or nil.
func Detect(rawHTML string) (*Finding, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return findMarker(doc), nil
}

// findMarker walks the tree depth-first, returning the first match.
func findMarker(n *html.Node) *Finding {
	if n.Type == html.ElementNode {
		if marker := matchElement(n); marker != "" {
			return &Finding{Marker: marker, Tag: n.Data}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findMarker(c); f != nil {
			return f
		}
	}
	return nil
}

func matchElement(n *html.Node) string {
	tag := strings.ToLower(n.Data)

	if tag == "iframe" {
		src := strings.ToLower(attr(n, "src"))
		switch {
		case strings.Contains(src, "recaptcha"):
			return "iframe[src*=recaptcha]"
		case strings.Contains(src, "hcaptcha"):
			return "iframe[src*=hcaptcha]"
		}

		title := strings.ToLower(attr(n, "title"))
		switch {
		case strings.Contains(title, "captcha"):
			return "iframe[title*=captcha]"
		case strings.Contains(title, "challenge"):
			return "iframe[title*=challenge]"
		}
	}

	if attr(n, "id") == "recaptcha" {
		return "#recaptcha"
	}

	for _, class := range strings.Fields(attr(n, "class")) {
		switch class {
		case "g-recaptcha":
			return ".g-recaptcha"
		case "h-captcha":
			return ".h-captcha"
		case "captcha":
			return ".captcha"
		}
	}

	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
