package render

import (
	"fmt"
	"testing"

	"github.com/dshills/inkwell/internal/cursor"
	"github.com/dshills/inkwell/internal/document"
)

// generateDocument builds n root paragraphs of wrapping text, lists,
// checklist items and code.
func generateDocument(n int) *document.Document {
	paragraphs := make([]*document.Paragraph, 0, n)
	for i := range n {
		switch i % 5 {
		case 1:
			paragraphs = append(paragraphs, document.NewList(document.TypeOrderedList,
				document.NewTextParagraph("first entry of an ordered list"),
				document.NewTextParagraph("second entry"),
			))
		case 2:
			paragraphs = append(paragraphs, document.NewChecklistItem("a task to finish", i%2 == 0))
		case 4:
			paragraphs = append(paragraphs, document.NewContentParagraph(document.TypeCodeBlock,
				document.NewText("func main() {\n\tfmt.Println(\"hi\")\n}")))
		default:
			paragraphs = append(paragraphs, document.NewContentParagraph(document.TypeText,
				document.NewText("the quick brown fox jumps over the lazy dog and keeps running "),
				document.NewStyled(document.StyleBold, "well past"),
				document.NewText(" the edge of an eighty column terminal"),
			))
		}
	}
	return document.New(paragraphs...)
}

var benchOptions = Options{WrapWidth: 80, LeftPadding: 2, TrackPositions: true}

func BenchmarkRenderColdCache(b *testing.B) {
	for _, n := range []int{100, 1000} {
		doc := generateDocument(n)
		x := segmentIndex(doc, false)
		r := New(WithCache(nil))
		b.Run(fmt.Sprintf("paragraphs=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = r.Render(doc, x, benchOptions)
			}
		})
	}
}

func BenchmarkRenderWarmCache(b *testing.B) {
	for _, n := range []int{100, 1000} {
		doc := generateDocument(n)
		x := segmentIndex(doc, false)
		r := New()
		r.Render(doc, x, benchOptions)
		b.Run(fmt.Sprintf("paragraphs=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = r.Render(doc, x, benchOptions)
			}
		})
	}
}

// BenchmarkRenderWarmCacheWithCursor re-lays out only the cursor's root.
func BenchmarkRenderWarmCacheWithCursor(b *testing.B) {
	doc := generateDocument(1000)
	x := segmentIndex(doc, false)
	start, _ := x.RootRange(500)
	opts := benchOptions
	opts.Cursor = &cursor.Position{Segment: start}
	r := New()
	r.Render(doc, x, opts)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = r.Render(doc, x, opts)
	}
}
