package source_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradumnakadam07/manta-scraper/internal/model"
	"github.com/pradumnakadam07/manta-scraper/internal/source"
)

// resultsHTML mirrors a Manta results page: three listing blocks, the second
// missing every optional field, plus page chrome that must be ignored.
const resultsHTML = `<!DOCTYPE html>
<html>
<body>
  <div class="flex header">Header</div>
  <div class="flex flex-col w-full p-4 text-gray-800">
    <a class="text-xl cursor-pointer" href="/c/mm1/acme-plumbing">  Acme <b>Plumbing</b> </a>
    <div class="hidden md:block text-sm">
      123 Main St
      <span>Dallas, TX</span>
    </div>
    <div class="flex">
      <i class="fa fa-phone"></i>
      <div> (214) 555-0100 </div>
    </div>
    <a class="btn" href="https://www.manta.com/redirect?redirect=https%3A%2F%2Facme.example%2Fhome%3Fa%3D1&amp;t=abc"><span>Visit Website</span></a>
  </div>
  <div class="flex w-full text-gray-800">
    <span>Nothing useful here</span>
  </div>
  <div class="flex items-start w-full gap-2 text-gray-800">
    <a class="cursor-pointer" href="https://other.example/c/bravo">Bravo Drains</a>
    <a href="https://bravo.example/">visit website</a>
  </div>
  <footer><a href="mailto:footer@manta.com">Contact</a></footer>
</body>
</html>`

func newManta(t *testing.T) *source.Manta {
	t.Helper()
	m, err := source.NewManta("")
	require.NoError(t, err)
	return m
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractListings(t *testing.T) {
	t.Parallel()

	records := source.ExtractListings(newManta(t), parse(t, resultsHTML))
	require.Len(t, records, 3)

	assert.Equal(t, model.Record{
		Name:      "AcmePlumbing",
		Address:   "123 Main StDallas, TX",
		Phone:     "(214) 555-0100",
		Website:   "https://acme.example/home?a=1",
		DetailURL: "https://www.manta.com/c/mm1/acme-plumbing",
	}, records[0])

	assert.Equal(t, model.Record{}, records[1], "a listing without sub-elements yields empty fields")

	assert.Equal(t, "Bravo Drains", records[2].Name)
	assert.Equal(t, "https://other.example/c/bravo", records[2].DetailURL)
	assert.Equal(t, "https://bravo.example/", records[2].Website)
	assert.Empty(t, records[2].Phone)
	assert.Empty(t, records[2].Address)
}

func TestExtractListings_MultilineClass(t *testing.T) {
	t.Parallel()

	html := "<html><body><div class=\"flex flex-col\n  w-full p-4\n  text-gray-800\">" +
		"<a class=\"text-xl\n cursor-pointer\" href=\"/c/mm2/wrapped\">Wrapped Co</a>" +
		"<div class=\"hidden\n md:block\">9 Elm St</div>" +
		"</div></body></html>"

	records := source.ExtractListings(newManta(t), parse(t, html))
	require.Len(t, records, 1)
	assert.Equal(t, "Wrapped Co", records[0].Name)
	assert.Equal(t, "9 Elm St", records[0].Address)
	assert.Equal(t, "https://www.manta.com/c/mm2/wrapped", records[0].DetailURL)
}

func TestExtractListings_NoListings(t *testing.T) {
	t.Parallel()

	records := source.ExtractListings(newManta(t), parse(t, `<html><body><div class="flex">x</div></body></html>`))
	assert.Empty(t, records)
}

func TestPhone_FollowsIconAcrossParents(t *testing.T) {
	t.Parallel()

	const html = `<div class="flex w-full text-gray-800">
	  <span><i class="fa-solid fa-phone"></i></span>
	  <div>555-0199</div>
	</div>`

	records := source.ExtractListings(newManta(t), parse(t, html))
	require.Len(t, records, 1)
	assert.Equal(t, "555-0199", records[0].Phone)
}

func TestPhone_IconWithoutFollowingDiv(t *testing.T) {
	t.Parallel()

	const html = `<div class="flex w-full text-gray-800"><i class="fa-phone"></i><span>555</span></div>`

	m := newManta(t)
	doc := parse(t, html)
	listing := m.Listings(doc).First()
	assert.Empty(t, m.Phone(listing))
}

func TestDetailURL_EmptyHref(t *testing.T) {
	t.Parallel()

	const html = `<div class="flex w-full text-gray-800"><a class="cursor-pointer" href="">Nameless Link</a></div>`

	records := source.ExtractListings(newManta(t), parse(t, html))
	require.Len(t, records, 1)
	assert.Equal(t, "Nameless Link", records[0].Name)
	assert.Empty(t, records[0].DetailURL)
}

func TestWebsite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		anchor string
		want   string
	}{
		{
			name:   "redirect parameter decoded up to next ampersand",
			anchor: `<a href="redirect=http%3A%2F%2Fa.com&x=1">Visit Website</a>`,
			want:   "http://a.com",
		},
		{
			name:   "encoded ampersand survives",
			anchor: `<a href="https://www.manta.com/redirect?redirect=https%3A%2F%2Fexample.com%26foo%3D1&other=x">Visit Website</a>`,
			want:   "https://example.com&foo=1",
		},
		{
			name:   "plain href verbatim",
			anchor: `<a href="http://plain.example/path?q=1">VISIT WEBSITE</a>`,
			want:   "http://plain.example/path?q=1",
		},
		{
			name:   "bad escape keeps raw value",
			anchor: `<a href="redirect=http%ZZa.com">Visit Website</a>`,
			want:   "http%ZZa.com",
		},
		{
			name:   "trailing percent kept, earlier escapes decoded",
			anchor: `<a href="redirect=http%3A%2F%2Fa.com%2F100%">Visit Website</a>`,
			want:   "http://a.com/100%",
		},
		{
			name:   "bad escape between good ones",
			anchor: `<a href="redirect=http%3A%2F%2Fa.com%2F%ZZ%41">Visit Website</a>`,
			want:   "http://a.com/%ZZA",
		},
		{
			name:   "mixed content is not a match",
			anchor: `<a href="http://x.example"><i></i> Visit Website</a>`,
			want:   "",
		},
		{
			name:   "anchor without href",
			anchor: `<a>Visit Website</a>`,
			want:   "",
		},
		{
			name:   "no anchor",
			anchor: `<span>Visit Website</span>`,
			want:   "",
		},
	}

	m := newManta(t)
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := parse(t, `<div class="flex w-full text-gray-800">`+tc.anchor+`</div>`)
			assert.Equal(t, tc.want, m.Website(m.Listings(doc).First()))
		})
	}
}

func TestEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"prefix and whitespace stripped", `<a href="mailto:Jane@Example.com ">Email</a>`, "Jane@Example.com"},
		{"first mailto wins", `<a href="/about">About</a><a href="mailto:a@x.com">a</a><a href="mailto:b@x.com">b</a>`, "a@x.com"},
		{"prefix is case sensitive", `<a href="MAILTO:up@x.com">x</a>`, ""},
		{"none", `<a href="/contact">Contact</a>`, ""},
	}

	m := newManta(t)
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, m.Email(parse(t, "<html><body>"+tc.html+"</body></html>")))
		})
	}
}

func TestSearchURLs(t *testing.T) {
	t.Parallel()

	m := newManta(t)
	s := source.Search{City: "Fort Worth", State: "TX", Query: "Plumber & Heating", Pages: 2}

	start := m.StartURL(s)
	assert.Equal(t,
		"https://www.manta.com/search?search_source=business&search=Plumber%20%26%20Heating&city=Fort%20Worth&state=TX",
		start)
	assert.Equal(t, start+"&pg=1", m.PageURL(s, 1))
	assert.Equal(t, start+"&pg=2", m.PageURL(s, 2))
}

func TestNewManta_CustomBase(t *testing.T) {
	t.Parallel()

	m, err := source.NewManta("http://127.0.0.1:8080/")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(m.StartURL(source.Search{}), "http://127.0.0.1:8080/search?"))

	_, err = source.NewManta("not a url")
	assert.Error(t, err)
}
