package forager

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

// FetchResult is the text pulled from one source document.
type FetchResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Extract parses an HTML document and returns the text of its first h1 and
// first p element. Missing elements yield empty strings.
func Extract(r io.Reader) (FetchResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return FetchResult{
		Title:   doc.Find("h1").First().Text(),
		Content: doc.Find("p").First().Text(),
	}, nil
}
