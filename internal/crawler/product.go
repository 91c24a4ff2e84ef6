package crawler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"catalog-crawler/pkg/models"

	"go.uber.org/zap"
)

// ProductExtractor turns a product page into a record.
type ProductExtractor struct {
	parser *Parser
	rules  SiteRules
	logger *zap.Logger
}

func NewProductExtractor(parser *Parser, rules SiteRules, logger *zap.Logger) *ProductExtractor {
	return &ProductExtractor{
		parser: parser,
		rules:  rules,
		logger: logger.With(zap.String("component", "extractor")),
	}
}

// Extract never fails on missing fields: an absent heading yields models.NoTitle and
// an absent or non-numeric price yields nil. Only an unreachable page is skipped.
func (e *ProductExtractor) Extract(ctx context.Context, productURL, category string) Step[models.ProductRecord] {
	doc, err := e.parser.Parse(ctx, productURL)
	if err != nil {
		e.logger.Warn("Skipping product", zap.String("url", productURL), zap.Error(err))
		return Skipped[models.ProductRecord](fmt.Errorf("extract product: %w", err))
	}

	record := models.ProductRecord{
		Category: category,
		Title:    models.NoTitle,
		URL:      productURL,
	}

	if title := text(doc.Find("h1").First()); title != "" {
		record.Title = title
	}

	if priceTag := doc.Find(e.rules.PriceSelector()).First(); priceTag.Length() > 0 {
		price, err := ParsePrice(text(priceTag))
		if err != nil {
			e.logger.Debug("Price not numeric", zap.String("url", productURL), zap.Error(err))
		}
		record.Price = price
	}

	e.logger.Info("Product",
		zap.String("title", record.Title),
		zap.Intp("price", record.Price),
		zap.String("url", productURL))
	return Succeeded(record)
}

// ParsePrice strips thousands separators and parses the rest as an integer.
// Text that is not a number returns a nil price and a *ConversionError.
func ParsePrice(text string) (*int, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	v, err := strconv.Atoi(cleaned)
	if err != nil {
		return nil, &ConversionError{Text: text, Err: err}
	}
	return &v, nil
}
