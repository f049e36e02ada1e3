package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Norm collapses runs of whitespace to a single space and trims the ends.
// Every extracted text field passes through it.
func Norm(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// BlockText flattens an HTML fragment into newline-separated text blocks,
// rendering list items as bullet lines and dropping consecutive duplicate
// blocks (nested containers repeat the same text).
func BlockText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Norm(html)
	}

	var pieces []string
	doc.Find("ul, ol, p, div, section").Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "ul" || goquery.NodeName(sel) == "ol" {
			sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				if t := Norm(li.Text()); t != "" {
					pieces = append(pieces, "• "+t)
				}
			})
			return
		}
		if t := Norm(sel.Text()); t != "" {
			pieces = append(pieces, t)
		}
	})

	var out []string
	for _, p := range pieces {
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
