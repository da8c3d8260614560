package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one business listing. Name is the dedup key.
type Record struct {
	Name      string
	Address   string
	Phone     string
	Website   string
	Email     string
	DetailURL string // Absolute link to the listing's detail page, not exported
}

// HasEmail reports whether the record carries a non-blank email.
func (r Record) HasEmail() bool {
	return strings.TrimSpace(r.Email) != ""
}

// ResultSet is the ordered collection of records gathered in one run.
// Order is scrape order: page order, then listing order within a page.
type ResultSet []Record

func (rs *ResultSet) Append(r Record) {
	*rs = append(*rs, r)
}

func (rs ResultSet) Len() int { return len(rs) }

// Dedup keeps the first record for each distinct Name and drops later ones.
// Names compare exactly, so records with an empty name collapse into one.
func (rs ResultSet) Dedup() ResultSet {
	seen := make(map[string]bool, len(rs))
	out := make(ResultSet, 0, len(rs))
	for _, r := range rs {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		out = append(out, r)
	}
	return out
}

type Split struct {
	WithEmail    ResultSet
	WithoutEmail ResultSet
}

// Split partitions the set by email presence, keeping relative order.
// It does not dedup; call Dedup first.
func (rs ResultSet) Split() Split {
	s := Split{WithEmail: ResultSet{}, WithoutEmail: ResultSet{}}
	for _, r := range rs {
		if r.HasEmail() {
			s.WithEmail = append(s.WithEmail, r)
		} else {
			s.WithoutEmail = append(s.WithoutEmail, r)
		}
	}
	return s
}

func (s Split) Total() int {
	return len(s.WithEmail) + len(s.WithoutEmail)
}

// Run describes one scrape invocation as kept by the run store.
type Run struct {
	ID        uuid.UUID
	StartedAt time.Time
	City      string
	State     string
	Query     string
	Pages     int
}

func NewRun(city, state, query string, pages int) Run {
	return Run{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
		City:      city,
		State:     state,
		Query:     query,
		Pages:     pages,
	}
}
