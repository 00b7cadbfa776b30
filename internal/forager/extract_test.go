package forager

import (
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		html string
		want FetchResult
	}{
		{
			name: "heading and paragraph",
			html: `<html><body><h1>Foo</h1><p>Bar</p></body></html>`,
			want: FetchResult{Title: "Foo", Content: "Bar"},
		},
		{
			name: "neither element",
			html: `<html><body><h2>Sub</h2><div>text</div></body></html>`,
			want: FetchResult{},
		},
		{
			name: "only paragraph",
			html: `<p>Lead</p>`,
			want: FetchResult{Content: "Lead"},
		},
		{
			name: "first of many in document order",
			html: `<section><p>one</p></section><h1>A</h1><h1>B</h1><p>two</p>`,
			want: FetchResult{Title: "A", Content: "one"},
		},
		{
			name: "nested text is concatenated untrimmed",
			html: `<h1> Hello <em>World</em></h1><p>a <a href="#">link</a>.</p>`,
			want: FetchResult{Title: " Hello World", Content: "a link."},
		},
		{
			name: "empty document",
			html: ``,
			want: FetchResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
