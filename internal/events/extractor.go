package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sony/gobreaker"
	"golang.org/x/net/html"

	"github.com/i474232898/daily-adventure/internal/llm"
)

// maxPageChars caps the page text handed to the model.
const maxPageChars = 20000

// maxPageBytes caps how much of a response body is read.
const maxPageBytes = 2 << 20

var (
	errUnexpectedStatus  = errors.New("unexpected status code")
	errUnsupportedSchema = errors.New("unsupported extraction schema")
)

// PageExtractor implements Scraper by downloading a page, reducing it to
// text with links preserved, and asking a model to extract events from it.
type PageExtractor struct {
	client    *http.Client
	generator llm.Generator
	circuit   *gobreaker.CircuitBreaker
	userAgent string
}

// NewPageExtractor creates a PageExtractor.
func NewPageExtractor(client *http.Client, generator llm.Generator) *PageExtractor {
	return &PageExtractor{
		client:    client,
		generator: generator,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "event-scraper",
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
		userAgent: "daily-adventure/1.0 (+events)",
	}
}

func (e *PageExtractor) Scrape(ctx context.Context, src Source) (Extraction, error) {
	if src.Schema != nil && src.Schema != EventsShape {
		return Extraction{}, fmt.Errorf("%w for %s: replies decode as events only", errUnsupportedSchema, src.URL)
	}

	pageURL, err := url.Parse(src.URL)
	if err != nil {
		return Extraction{}, fmt.Errorf("invalid source url: %w", err)
	}

	body, err := e.fetch(ctx, src.URL)
	if err != nil {
		return Extraction{}, err
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return Extraction{}, fmt.Errorf("parsing %s: %w", src.URL, err)
	}
	text := PageText(doc, pageURL)
	if text == "" {
		return Extraction{}, fmt.Errorf("page %s has no text content", src.URL)
	}

	messages := []llm.Message{
		{
			Role: llm.RoleSystem,
			Content: "You extract structured data from web pages. Only report events that appear in the page content. " +
				"Links must be absolute URLs taken from the page. Return an empty events list when nothing matches.",
		},
		{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("%s\n\nPage URL: %s\n\nPage content:\n%s", src.Prompt, src.URL, text),
		},
	}

	var out Extraction
	if err := e.generator.Generate(ctx, messages, EventsShape, &out); err != nil {
		return Extraction{}, fmt.Errorf("extracting events from %s: %w", src.URL, err)
	}
	return out, nil
}

func (e *PageExtractor) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html")

	result, err := e.circuit.Execute(func() (interface{}, error) {
		resp, err := e.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
		if err != nil {
			return nil, err
		}
		return string(data), nil
	})
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	return result.(string), nil
}

// PageText flattens an HTML document to whitespace-normalized text. Anchor
// text is followed by its resolved href in brackets so links survive.
func PageText(doc *html.Node, base *url.URL) string {
	var b strings.Builder

	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "svg", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				b.WriteString(t)
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a":
				if href := attr(n, "href"); href != "" {
					b.WriteString("[" + resolve(base, href) + "] ")
				}
			case "p", "div", "li", "tr", "br", "h1", "h2", "h3", "h4", "article", "section":
				b.WriteByte('\n')
			}
		}
	}
	traverse(doc)

	lines := strings.Split(b.String(), "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	text := strings.Join(kept, "\n")
	if len(text) > maxPageChars {
		text = text[:maxPageChars]
		// Drop a multi-byte rune split by the cut.
		for !utf8.ValidString(text) {
			text = text[:len(text)-1]
		}
	}
	return text
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
