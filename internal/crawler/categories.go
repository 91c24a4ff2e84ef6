package crawler

import (
	"context"
	"fmt"

	"catalog-crawler/pkg/models"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// CategoryDiscoverer reads the catalog root page and lists its categories.
type CategoryDiscoverer struct {
	parser     *Parser
	rules      SiteRules
	catalogURL string
	logger     *zap.Logger
}

func NewCategoryDiscoverer(parser *Parser, rules SiteRules, catalogURL string, logger *zap.Logger) *CategoryDiscoverer {
	return &CategoryDiscoverer{
		parser:     parser,
		rules:      rules,
		catalogURL: catalogURL,
		logger:     logger.With(zap.String("component", "discoverer")),
	}
}

// Discover returns the categories in document order. Anchors repeating an already
// seen name and URL are dropped; the same name under another URL is kept. A root page
// that cannot be fetched is fatal to the pass.
func (d *CategoryDiscoverer) Discover(ctx context.Context) Step[[]models.Category] {
	d.logger.Info("Fetching categories", zap.String("url", d.catalogURL))

	doc, err := d.parser.Parse(ctx, d.catalogURL)
	if err != nil {
		return Fatal[[]models.Category](fmt.Errorf("discover categories: %w", err))
	}

	categories := d.categoriesFrom(doc)
	d.logger.Info("Found categories", zap.Int("count", len(categories)))
	return Succeeded(categories)
}

func (d *CategoryDiscoverer) categoriesFrom(doc *goquery.Document) []models.Category {
	filter := d.rules.Categories()
	seen := make(map[models.Category]struct{})
	var categories []models.Category

	doc.Find(d.rules.CategorySelector()).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		name := text(a)
		if !filter.Filter(href) || name == "" {
			return
		}

		c := models.Category{Name: name, URL: d.rules.Absolute(href)}
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	})

	return categories
}
