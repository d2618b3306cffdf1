// Package document provides the structural model of a rich-text document.
//
// A Document is an ordered sequence of root paragraphs. Each Paragraph is one
// of a closed set of types:
//
//   - Text, Heading1-3 and CodeBlock own inline content only
//   - Quote owns nested child paragraphs
//   - OrderedList and UnorderedList own entries, each entry a short run of paragraphs
//   - ChecklistItem owns inline content, a checked flag and nested items
//
// Inline content is a tree of Spans. A leaf span carries text, a composite span
// carries children. Every span carries its own Style set, and the effective
// style of a leaf is the union of the sets on the way down. Overlapping styles
// are therefore always properly nested.
//
// Addressing:
//
// Paragraphs and spans are addressed by ParagraphPath and SpanPath, which are
// plain index sequences. Comparing two paths never touches the tree, and the
// comparison order equals document pre-order. A list step consumes two indices
// (entry, paragraph within the entry); a quote or checklist step consumes one.
//
// Identity:
//
// Every paragraph carries an ID assigned from a monotonic counter. IDs stay
// stable while other paragraphs are inserted or removed, which makes them
// usable as render cache keys. Hash computes a structural content hash that
// changes whenever anything visible about the paragraph changes.
//
// All text offsets in this package are counted in runes.
package document
