package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-crawler/internal/crawler"
	"catalog-crawler/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type captureSink struct {
	name  string
	err   error
	saved []*models.ResultSet
}

func (s *captureSink) Name() string { return s.name }

func (s *captureSink) Save(_ context.Context, result *models.ResultSet) error {
	s.saved = append(s.saved, result)
	return s.err
}

type stubDiscoverer struct {
	step crawler.Step[[]models.Category]
}

func (d stubDiscoverer) Discover(context.Context) crawler.Step[[]models.Category] { return d.step }

type stubCollector map[string][]string

func (c stubCollector) Collect(_ context.Context, categoryURL string) []string { return c[categoryURL] }

type stubExtractor struct {
	calls []string
	fail  map[string]bool
	after func()
}

func (e *stubExtractor) Extract(_ context.Context, productURL, category string) crawler.Step[models.ProductRecord] {
	e.calls = append(e.calls, category+" "+productURL)
	if e.after != nil {
		defer e.after()
	}
	if e.fail[productURL] {
		return crawler.Skipped[models.ProductRecord](errors.New("boom"))
	}
	return crawler.Succeeded(models.ProductRecord{Category: category, Title: "T " + productURL, URL: productURL})
}

func TestEngine_SkipsFailedProductsAndKeepsGoing(t *testing.T) {
	categories := []models.Category{{Name: "A", URL: "urlA"}, {Name: "B", URL: "urlB"}}
	extractor := &stubExtractor{fail: map[string]bool{"p2": true}}
	sink := &captureSink{name: "capture"}

	e := NewEngine(
		stubDiscoverer{step: crawler.Succeeded(categories)},
		stubCollector{"urlA": {"p1", "p2"}, "urlB": {"p3"}},
		extractor,
		zaptest.NewLogger(t),
		sink,
	)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"A p1", "A p2", "B p3"}, extractor.calls)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "p1", result.Records[0].URL)
	assert.Equal(t, "p3", result.Records[1].URL)
	require.Len(t, sink.saved, 1)
	assert.Same(t, result, sink.saved[0])
	assert.False(t, result.FinishedAt.Before(result.StartedAt))
}

func TestEngine_DiscoveryFailureIsFatal(t *testing.T) {
	cause := &crawler.FetchError{URL: "root", StatusCode: http.StatusBadGateway}
	sink := &captureSink{name: "capture"}
	extractor := &stubExtractor{}

	e := NewEngine(
		stubDiscoverer{step: crawler.Fatal[[]models.Category](cause)},
		stubCollector{},
		extractor,
		zaptest.NewLogger(t),
		sink,
	)

	result, err := e.Run(context.Background())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrDiscovery)
	var fetchErr *crawler.FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Empty(t, sink.saved)
	assert.Empty(t, extractor.calls)
}

func TestEngine_SinkFailureDoesNotStopOtherSinks(t *testing.T) {
	broken := &captureSink{name: "broken", err: errors.New("disk full")}
	healthy := &captureSink{name: "healthy"}

	e := NewEngine(
		stubDiscoverer{step: crawler.Succeeded([]models.Category{{Name: "A", URL: "urlA"}})},
		stubCollector{"urlA": {"p1"}},
		&stubExtractor{},
		zaptest.NewLogger(t),
		broken, healthy,
	)

	result, err := e.Run(context.Background())

	require.NotNil(t, result)
	assert.ErrorContains(t, err, "broken: disk full")
	assert.Len(t, healthy.saved, 1)
}

func TestEngine_CancelledPassIsNotExported(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &captureSink{name: "capture"}

	e := NewEngine(
		stubDiscoverer{step: crawler.Succeeded([]models.Category{{Name: "A", URL: "urlA"}})},
		stubCollector{"urlA": {"p1"}},
		&stubExtractor{},
		zaptest.NewLogger(t),
		sink,
	)

	_, err := e.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.saved)
}

func TestEngine_StopsExtractingWhenCancelledMidCategory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	extractor := &stubExtractor{after: cancel}
	sink := &captureSink{name: "capture"}

	e := NewEngine(
		stubDiscoverer{step: crawler.Succeeded([]models.Category{{Name: "A", URL: "urlA"}, {Name: "B", URL: "urlB"}})},
		stubCollector{"urlA": {"p1", "p2", "p3"}, "urlB": {"p4"}},
		extractor,
		zaptest.NewLogger(t),
		sink,
	)

	_, err := e.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"A p1"}, extractor.calls)
	assert.Empty(t, sink.saved)
}

func TestEngine_EndToEnd(t *testing.T) {
	pages := map[string]string{
		"/shop": `<html><body>
			<a href="/shop/category/a">Alpha</a>
			<a href="/shop/category/b">Beta</a>
			<a href="/shop/category/c">Gamma</a>
		</body></html>`,
		"/shop/category/a?page=1": `<a href="/shop/p1">p1</a><a href="/shop/p2">p2</a><a href="/shop/category/b">Beta</a>`,
		"/shop/category/a?page=2": `<p>no more</p>`,
		"/shop/category/b?page=1": `<a href="/shop/p1">p1</a>`,
		"/shop/category/b?page=2": `<a href="/shop/p1">p1 again</a>`,
		"/shop/category/c?page=1": `<p>empty</p>`,
		"/shop/p1":                `<h1>Phone One</h1><span class="oe_currency_value">12,500</span>`,
		"/shop/p2":                `<h1>Phone Two</h1><span class="oe_currency_value">on request</span>`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		body, ok := pages[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	logger := zaptest.NewLogger(t)
	rules := crawler.SiteRules{
		BaseURL:        srv.URL,
		CategoryMarker: "/shop/category/",
		ProductPrefix:  "/shop/",
		PriceClass:     "oe_currency_value",
	}
	parser := crawler.NewParser("TestCrawler/1.0", 0)
	sink := &captureSink{name: "capture"}

	e := NewEngine(
		crawler.NewCategoryDiscoverer(parser, rules, srv.URL+"/shop", logger),
		crawler.NewLinkCollector(parser, rules, logger),
		crawler.NewProductExtractor(parser, rules, logger),
		logger,
		sink,
	)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	price := 12500
	assert.Equal(t, []models.ProductRecord{
		{Category: "Alpha", Title: "Phone One", Price: &price, URL: srv.URL + "/shop/p1"},
		{Category: "Alpha", Title: "Phone Two", URL: srv.URL + "/shop/p2"},
		{Category: "Beta", Title: "Phone One", Price: &price, URL: srv.URL + "/shop/p1"},
	}, result.Records)
	require.Len(t, sink.saved, 1)
}
