package crawler

import (
	"fmt"
	"strings"
)

type URLFilter interface {
	Filter(href string) bool
}

// CategoryFilter accepts hrefs that start with the category-path marker.
type CategoryFilter struct {
	Marker string
}

func (filter CategoryFilter) Filter(href string) bool {
	return filter.Marker != "" && strings.HasPrefix(href, filter.Marker)
}

// ProductFilter accepts hrefs under the product prefix that do not point back to a
// category page.
type ProductFilter struct {
	Prefix         string
	CategoryMarker string
}

func (filter ProductFilter) Filter(href string) bool {
	if !strings.HasPrefix(href, filter.Prefix) {
		return false
	}
	return filter.CategoryMarker == "" || !strings.Contains(href, filter.CategoryMarker)
}

// SiteRules describes where categories, products and prices live on the target site.
type SiteRules struct {
	BaseURL        string
	CategoryMarker string
	ProductPrefix  string
	PriceClass     string
}

func (r SiteRules) Categories() URLFilter {
	return CategoryFilter{Marker: r.CategoryMarker}
}

func (r SiteRules) Products() URLFilter {
	return ProductFilter{Prefix: r.ProductPrefix, CategoryMarker: r.CategoryMarker}
}

// CategorySelector matches every anchor whose href contains the category marker.
func (r SiteRules) CategorySelector() string {
	return fmt.Sprintf("a[href*=%q]", r.CategoryMarker)
}

func (r SiteRules) PriceSelector() string {
	return "." + r.PriceClass
}

// Absolute resolves href against the site origin.
func (r SiteRules) Absolute(href string) string {
	return resolveURL(r.BaseURL, href)
}
