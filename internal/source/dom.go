package source

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// classMatching filters a selection to elements whose class attribute
// matches re anywhere in the class list, joined by single spaces.
func classMatching(sel *goquery.Selection, re *regexp.Regexp) *goquery.Selection {
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		return ok && re.MatchString(strings.Join(strings.Fields(class), " "))
	})
}

// firstWithClass returns the first tag descendant of root whose class matches re.
func firstWithClass(root *goquery.Selection, tag string, re *regexp.Regexp) *goquery.Selection {
	return classMatching(root.Find(tag), re).First()
}

// strippedText trims every text fragment under sel's first node and joins
// them with no separator. Script and style bodies are skipped.
func strippedText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(strings.TrimSpace(n.Data))
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(sel.Get(0))
	return b.String()
}

// soleString returns the text of n when n holds exactly one child chain
// ending in a text node, e.g. <a><span>Visit Website</span></a>.
func soleString(n *html.Node) (string, bool) {
	for {
		c := n.FirstChild
		if c == nil || c.NextSibling != nil {
			return "", false
		}
		if c.Type == html.TextNode {
			return c.Data, true
		}
		if c.Type != html.ElementNode {
			return "", false
		}
		n = c
	}
}

// nextInDocument returns the node after n in document order, descending
// into n's children first.
func nextInDocument(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// findNext returns the first tag element after n in document order.
// The search is not limited to n's parent.
func findNext(n *html.Node, tag string) *html.Node {
	for c := nextInDocument(n); c != nil; c = nextInDocument(c) {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}
