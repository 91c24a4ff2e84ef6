package models

import (
	"time"

	"github.com/google/uuid"
)

// Columns is the header row of every exported product table.
var Columns = []string{"Category", "Product", "Price (UGX)", "URL"}

// NoTitle is used when a product page has no heading.
const NoTitle = "No title"

// Category is a catalog section discovered on the root page. Name is only a label.
type Category struct {
	Name string
	URL  string
}

// ProductRecord is one extracted product row. Price is nil when the page had no
// parsable integer price.
type ProductRecord struct {
	Category string
	Title    string
	Price    *int
	URL      string
}

// Row returns the record in Columns order. A missing price is nil.
func (p ProductRecord) Row() []interface{} {
	var price interface{}
	if p.Price != nil {
		price = *p.Price
	}
	return []interface{}{p.Category, p.Title, price, p.URL}
}

type recordKey struct {
	category string
	title    string
	hasPrice bool
	price    int
	url      string
}

func (p ProductRecord) key() recordKey {
	k := recordKey{category: p.Category, title: p.Title, url: p.URL}
	if p.Price != nil {
		k.hasPrice = true
		k.price = *p.Price
	}
	return k
}

// Dedup drops rows equal on every column, keeping the first occurrence.
func Dedup(records []ProductRecord) []ProductRecord {
	seen := make(map[recordKey]struct{}, len(records))
	out := make([]ProductRecord, 0, len(records))
	for _, r := range records {
		k := r.key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// ResultSet is the output of one crawl pass.
type ResultSet struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []ProductRecord
}

func NewResultSet(startedAt time.Time) *ResultSet {
	return &ResultSet{RunID: uuid.New(), StartedAt: startedAt}
}

func (r *ResultSet) Append(records ...ProductRecord) {
	r.Records = append(r.Records, records...)
}

// Dedup removes full-row duplicates in place and returns how many were dropped.
func (r *ResultSet) Dedup() int {
	before := len(r.Records)
	r.Records = Dedup(r.Records)
	return before - len(r.Records)
}

func (r *ResultSet) Len() int {
	return len(r.Records)
}
