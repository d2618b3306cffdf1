package document

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Structure markers mixed into the hash so that differently shaped trees
// with the same text do not collide.
const (
	markParagraph byte = 0xA0 + iota
	markSpan
	markLeaf
	markEnd
	markChildren
	markEntry
)

// Hash returns a structural content hash of the paragraph and everything
// below it: type, checked flag, span tree shape, text, styles, link targets,
// children and entries. The paragraph ID is not included.
func (p *Paragraph) Hash() uint64 {
	d := xxhash.New()
	hashParagraph(d, p)
	return d.Sum64()
}

func hashParagraph(d *xxhash.Digest, p *Paragraph) {
	checked := byte(0)
	if p.Checked {
		checked = 1
	}
	_, _ = d.Write([]byte{markParagraph, byte(p.Type), checked})
	for _, s := range p.Content {
		hashSpan(d, s)
	}
	if len(p.Children) > 0 {
		_, _ = d.Write([]byte{markChildren})
		for _, c := range p.Children {
			hashParagraph(d, c)
		}
	}
	for _, entry := range p.Entries {
		_, _ = d.Write([]byte{markEntry})
		for _, c := range entry {
			hashParagraph(d, c)
		}
	}
	_, _ = d.Write([]byte{markEnd})
}

func hashSpan(d *xxhash.Digest, s *Span) {
	var hdr [3]byte
	hdr[0] = markSpan
	binary.LittleEndian.PutUint16(hdr[1:], uint16(s.Style))
	_, _ = d.Write(hdr[:])
	writeString(d, s.Link)
	if s.IsLeaf() {
		_, _ = d.Write([]byte{markLeaf})
		writeString(d, s.Text)
	} else {
		for _, c := range s.Children {
			hashSpan(d, c)
		}
	}
	_, _ = d.Write([]byte{markEnd})
}

func writeString(d *xxhash.Digest, s string) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
	_, _ = d.Write(n[:])
	_, _ = d.WriteString(s)
}
