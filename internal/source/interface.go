package source

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/pradumnakadam07/manta-scraper/internal/model"
)

// Adapter holds every site-specific matcher. Field lookups are best effort:
// a missing element yields "" and never an error.
type Adapter interface {
	Name() string
	StartURL(s Search) string
	PageURL(s Search, page int) string

	Listings(doc *goquery.Document) *goquery.Selection
	ListingName(listing *goquery.Selection) string
	DetailURL(listing *goquery.Selection) string
	Address(listing *goquery.Selection) string
	Phone(listing *goquery.Selection) string
	Website(listing *goquery.Selection) string

	// Email reads a detail page.
	Email(detail *goquery.Document) string
}

// ExtractListings runs the adapter over one results page. A page without
// listing blocks yields an empty slice.
func ExtractListings(a Adapter, doc *goquery.Document) []model.Record {
	var records []model.Record
	a.Listings(doc).Each(func(_ int, l *goquery.Selection) {
		records = append(records, model.Record{
			Name:      a.ListingName(l),
			Address:   a.Address(l),
			Phone:     a.Phone(l),
			Website:   a.Website(l),
			DetailURL: a.DetailURL(l),
		})
	})
	return records
}
