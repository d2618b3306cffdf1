// Package format reads and writes documents.
//
// FTML, a small HTML subset, is the native format and round-trips every
// construct of the document model. Markdown is read with goldmark (GitHub
// flavored, task lists become checklist items) and written by hand; styles
// Markdown lacks are written as inline HTML and read back. DOCX can only be
// imported: headings, paragraphs and bold/italic runs survive.
//
// All parsed text is normalized to NFC and every parsed paragraph gets a
// fresh ID.
package format

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/inkwell/internal/document"
)

// Format identifies a file format.
type Format uint8

// Supported formats.
const (
	FTML Format = iota
	Markdown
	DOCX
)

// String returns the short name of the format.
func (f Format) String() string {
	switch f {
	case FTML:
		return "ftml"
	case Markdown:
		return "markdown"
	case DOCX:
		return "docx"
	default:
		return "unknown"
	}
}

// Writable reports whether documents can be saved in the format.
func (f Format) Writable() bool {
	return f == FTML || f == Markdown
}

// ParseName maps a format name as given on the command line.
func ParseName(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "ftml", "html":
		return FTML, nil
	case "md", "markdown":
		return Markdown, nil
	case "docx":
		return DOCX, nil
	default:
		return FTML, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Detect picks the format from the file extension. Anything unrecognized is
// treated as FTML.
func Detect(path string) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "md", "markdown", "mkd", "mdown", "mdtxt":
		return Markdown
	case "docx":
		return DOCX
	default:
		return FTML
	}
}

// Parse reads a document in format f.
func Parse(f Format, r io.Reader) (*document.Document, error) {
	switch f {
	case FTML:
		return ParseFTML(r)
	case Markdown:
		return ParseMarkdown(r)
	case DOCX:
		return ParseDOCX(r)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
}

// Write serializes doc in format f.
func Write(f Format, w io.Writer, doc *document.Document) error {
	switch f {
	case FTML:
		return WriteFTML(w, doc)
	case Markdown:
		return WriteMarkdown(w, doc)
	case DOCX:
		return fmt.Errorf("%w: %s", ErrWriteUnsupported, f)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}
}

// ReadFile opens and parses path in format f.
func ReadFile(path string, f Format) (*document.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &PathError{Op: "read", Path: path, Err: err}
	}
	defer file.Close()

	doc, err := Parse(f, file)
	if err != nil {
		return nil, &PathError{Op: "parse", Path: path, Err: err}
	}
	return doc, nil
}

// WriteFile saves doc to path. The file is written next to its target and
// renamed into place so a failed save leaves the old file intact.
func WriteFile(path string, f Format, doc *document.Document) error {
	var buf bytes.Buffer
	if err := Write(f, &buf, doc); err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &PathError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &PathError{Op: "write", Path: path, Err: err}
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmpPath, info.Mode().Perm())
	} else {
		_ = os.Chmod(tmpPath, 0o644)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &PathError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// nfc normalizes parsed text.
func nfc(s string) string {
	return norm.NFC.String(s)
}

// finish gives the parsed paragraphs canonical spans and ensures every
// container is well formed.
func finish(paragraphs []*document.Paragraph) *document.Document {
	doc := document.New(paragraphs...)
	doc.Walk(func(_ document.ParagraphPath, p *document.Paragraph) bool {
		if p.Type.HasContent() {
			p.Content = document.Normalize(p.Content)
		} else {
			p.Content = nil
		}
		if p.Type == document.TypeQuote && len(p.Children) == 0 {
			p.Children = []*document.Paragraph{document.NewParagraph(document.TypeText)}
		}
		if p.Type.IsList() {
			if len(p.Entries) == 0 {
				p.Entries = [][]*document.Paragraph{nil}
			}
			for i, entry := range p.Entries {
				if len(entry) == 0 {
					p.Entries[i] = []*document.Paragraph{document.NewParagraph(document.TypeText)}
				}
			}
		}
		return true
	})
	return doc
}
