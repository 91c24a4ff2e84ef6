package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"catalog-crawler/internal"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// LinkCollector walks the numbered listing pages of a category.
type LinkCollector struct {
	parser *Parser
	rules  SiteRules
	logger *zap.Logger
}

func NewLinkCollector(parser *Parser, rules SiteRules, logger *zap.Logger) *LinkCollector {
	return &LinkCollector{
		parser: parser,
		rules:  rules,
		logger: logger.With(zap.String("component", "collector")),
	}
}

// Collect returns the distinct product URLs of one category. Paging stops at the
// first page that adds no new link. A page that fails to load also stops paging and
// whatever was gathered so far is returned.
func (c *LinkCollector) Collect(ctx context.Context, categoryURL string) []string {
	links := internal.NewURLSet()
	filter := c.rules.Products()

	for page := 1; ; page++ {
		if ctx.Err() != nil {
			break
		}

		target, err := pageURL(categoryURL, page)
		if err != nil {
			c.logger.Error("Invalid category URL", zap.String("url", categoryURL), zap.Error(err))
			break
		}

		c.logger.Info("Fetching listing page", zap.Int("page", page), zap.String("url", target))
		doc, err := c.parser.Parse(ctx, target)
		if err != nil {
			c.logger.Warn("Listing page failed, stopping category",
				zap.Int("page", page),
				zap.String("category_url", categoryURL),
				zap.Error(err))
			break
		}

		added := 0
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if !filter.Filter(href) {
				return
			}
			if abs := c.rules.Absolute(href); abs != "" && links.Add(abs) {
				added++
			}
		})

		if added == 0 {
			c.logger.Info("No more products", zap.Int("page", page))
			break
		}
	}

	c.logger.Info("Collected product links", zap.String("category_url", categoryURL), zap.Int("count", links.Len()))
	return links.Items()
}

// pageURL sets the page query parameter on a category URL.
func pageURL(categoryURL string, page int) (string, error) {
	u, err := url.Parse(categoryURL)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", categoryURL, err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
