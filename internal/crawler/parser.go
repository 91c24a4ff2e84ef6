package crawler

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type Parser struct {
	UserAgent string
	Client    *http.Client
}

// NewParser returns a Parser that identifies itself with userAgent. A zero timeout
// keeps the transport defaults.
func NewParser(userAgent string, timeout time.Duration) *Parser {
	return &Parser{
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: timeout},
	}
}

// Parse fetches targetURL and returns a queryable document.
func (p *Parser) Parse(ctx context.Context, targetURL string) (*goquery.Document, error) {
	body, _, err := p.Fetch(ctx, targetURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return p.Extract(body, targetURL)
}

// Fetch issues a GET and returns the open body. Anything outside 2xx is a *FetchError.
func (p *Parser) Fetch(ctx context.Context, targetURL string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, 0, &FetchError{URL: targetURL, Err: err}
	}

	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, 0, &FetchError{URL: targetURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, resp.StatusCode, &FetchError{URL: targetURL, StatusCode: resp.StatusCode}
	}

	return resp.Body, resp.StatusCode, nil
}

// Extract builds the node tree for a page body.
func (p *Parser) Extract(r io.Reader, pageURL string) (*goquery.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}

	doc := goquery.NewDocumentFromNode(root)
	if u, err := url.Parse(pageURL); err == nil {
		doc.Url = u
	}
	return doc, nil
}

// resolveURL turns href into an absolute URL against base, without the fragment.
func resolveURL(base, href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	abs := baseURL.ResolveReference(u)
	abs.Fragment = ""
	return abs.String()
}

// text returns the visible text of a selection with whitespace collapsed.
func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
