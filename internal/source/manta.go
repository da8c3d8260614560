package source

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const DefaultMantaURL = "https://www.manta.com"

// Manta markup is Tailwind utility classes, so blocks are recognised by
// class signatures rather than stable ids.
var (
	listingClass = regexp.MustCompile(`flex.*w-full.*text-gray-800`)
	nameClass    = regexp.MustCompile(`cursor-pointer`)
	addressClass = regexp.MustCompile(`hidden.*md:block`)
	phoneClass   = regexp.MustCompile(`fa-phone`)
	websiteText  = regexp.MustCompile(`(?i)Visit Website`)
)

const (
	redirectParam = "redirect="
	mailtoPrefix  = "mailto:"
)

type Manta struct {
	base *url.URL
}

func NewManta(baseURL string) (*Manta, error) {
	if baseURL == "" {
		baseURL = DefaultMantaURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &Manta{base: u}, nil
}

func (m *Manta) Name() string { return "Manta" }

func (m *Manta) StartURL(s Search) string {
	return fmt.Sprintf("%s/search?search_source=business&search=%s&city=%s&state=%s",
		strings.TrimRight(m.base.String(), "/"), quote(s.Query), quote(s.City), quote(s.State))
}

// PageURL is 1-indexed.
func (m *Manta) PageURL(s Search, page int) string {
	return m.StartURL(s) + "&pg=" + strconv.Itoa(page)
}

func (m *Manta) Listings(doc *goquery.Document) *goquery.Selection {
	return classMatching(doc.Find("div"), listingClass)
}

func (m *Manta) ListingName(l *goquery.Selection) string {
	return strippedText(firstWithClass(l, "a", nameClass))
}

func (m *Manta) DetailURL(l *goquery.Selection) string {
	href, ok := firstWithClass(l, "a", nameClass).Attr("href")
	if !ok || href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return m.base.ResolveReference(ref).String()
}

func (m *Manta) Address(l *goquery.Selection) string {
	return strippedText(firstWithClass(l, "div", addressClass))
}

// Phone reads the first div after the phone icon. Manta puts the number in a
// sibling block, not inside the icon's parent.
func (m *Manta) Phone(l *goquery.Selection) string {
	icon := firstWithClass(l, "i", phoneClass)
	if icon.Length() == 0 {
		return ""
	}
	next := findNext(icon.Get(0), "div")
	if next == nil {
		return ""
	}
	return strippedText(goquery.NewDocumentFromNode(next).Selection)
}

func (m *Manta) Website(l *goquery.Selection) string {
	var href string
	l.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text, ok := soleString(a.Get(0))
		if !ok || !websiteText.MatchString(text) {
			return true
		}
		href = a.AttrOr("href", "")
		return false
	})
	return unwrapRedirect(href)
}

// unwrapRedirect returns the decoded redirect= target of a tracking link,
// or href unchanged when there is none.
func unwrapRedirect(href string) string {
	_, after, found := strings.Cut(href, redirectParam)
	if !found {
		return href
	}
	target, _, _ := strings.Cut(after, redirectParam)
	target, _, _ = strings.Cut(target, "&")
	return unescape(target)
}

// unescape decodes every valid %XX sequence in s and leaves malformed ones
// as written. '+' is not treated as a space.
func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (m *Manta) Email(doc *goquery.Document) string {
	var email string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := a.AttrOr("href", "")
		if !strings.HasPrefix(href, mailtoPrefix) {
			return true
		}
		email = strings.TrimSpace(strings.ReplaceAll(href, mailtoPrefix, ""))
		return false
	})
	return email
}
