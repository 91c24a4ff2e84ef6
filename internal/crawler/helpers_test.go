package crawler

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeSite serves fixed HTML keyed by path plus query string.
type fakeSite struct {
	mu         sync.Mutex
	pages      map[string]string
	hits       map[string]int
	userAgents []string
}

func newFakeSite(t *testing.T, pages map[string]string) (*fakeSite, *httptest.Server) {
	t.Helper()
	site := &fakeSite{pages: pages, hits: make(map[string]int)}
	srv := httptest.NewServer(http.HandlerFunc(site.serve))
	t.Cleanup(srv.Close)
	return site, srv
}

func (s *fakeSite) serve(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}

	s.mu.Lock()
	s.hits[key]++
	s.userAgents = append(s.userAgents, r.UserAgent())
	body, ok := s.pages[key]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func (s *fakeSite) hitCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

func testRules(baseURL string) SiteRules {
	return SiteRules{
		BaseURL:        baseURL,
		CategoryMarker: "/shop/category/",
		ProductPrefix:  "/shop/",
		PriceClass:     "oe_currency_value",
	}
}

func newTestParser() *Parser {
	return NewParser("TestCrawler/1.0", 0)
}

func listing(hrefs ...string) string {
	body := "<html><body><div class=\"products\">"
	for _, h := range hrefs {
		body += "<a href=\"" + h + "\">item</a>"
	}
	return body + "</div></body></html>"
}

