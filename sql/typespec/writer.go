package typespec

import (
	"strings"
)

// Frame is a list opened by Writer.StartList.
type Frame struct {
	Open  string
	Close string
	depth int
}

// Writer receives the tokens of unparsed SQL text.
type Writer interface {
	// Keyword writes a keyword, such as a type name.
	Keyword(string)
	// Identifier writes an identifier. It is quoted if the writer is
	// configured to, or if it would not read back as the same identifier.
	Identifier(string)
	// Literal writes a literal verbatim.
	Literal(string)
	// StartList writes the open delimiter of a list, with no whitespace
	// before it.
	StartList(open, close string) Frame
	// EndList writes the close delimiter of the given list.
	EndList(Frame)
	// Sep writes a separator between two list items.
	Sep(string)
	// SetNeedWhitespace sets whether the next token must be preceded by a
	// space.
	SetNeedWhitespace(bool)
	// String returns the text written so far.
	String() string
}

// WriterOptions configure the Writer returned by NewWriter.
type WriterOptions struct {
	// QuoteIdentifiers makes every identifier quoted. Otherwise only
	// reserved words and names that are not plain identifiers are.
	QuoteIdentifiers bool
	// Quote is the quote used for identifiers, `"` if empty.
	Quote string
	// LowerCaseKeywords writes keywords in lower case instead of upper
	// case.
	LowerCaseKeywords bool
}

type sqlWriter struct {
	opts           WriterOptions
	buf            strings.Builder
	needWhitespace bool
	frames         []Frame
}

// NewWriter returns a Writer producing SQL text.
func NewWriter(opts WriterOptions) Writer {
	if opts.Quote == "" {
		opts.Quote = `"`
	}
	return &sqlWriter{opts: opts}
}

func (w *sqlWriter) space() {
	if w.needWhitespace {
		w.buf.WriteByte(' ')
	}
}

func (w *sqlWriter) Keyword(s string) {
	w.space()
	if w.opts.LowerCaseKeywords {
		w.buf.WriteString(strings.ToLower(s))
	} else {
		w.buf.WriteString(strings.ToUpper(s))
	}
	w.needWhitespace = true
}

func (w *sqlWriter) Identifier(s string) {
	w.space()
	if w.opts.QuoteIdentifiers || needsQuotes(s) {
		q := w.opts.Quote
		w.buf.WriteString(q)
		w.buf.WriteString(strings.Replace(s, q, q+q, -1))
		w.buf.WriteString(q)
	} else {
		w.buf.WriteString(s)
	}
	w.needWhitespace = true
}

// ReservedWords are the keywords of type specifications. They are matched
// case-insensitively and cannot be used as bare identifiers.
var ReservedWords = []string{"ARRAY", "MAP", "ROW", "NOT", "NULL"}

// needsQuotes reports whether s must be quoted to be read back as an
// identifier.
func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return true
		}
	}
	for _, kw := range ReservedWords {
		if strings.EqualFold(s, kw) {
			return true
		}
	}
	return false
}

func (w *sqlWriter) Literal(s string) {
	w.space()
	w.buf.WriteString(s)
	w.needWhitespace = true
}

func (w *sqlWriter) StartList(open, close string) Frame {
	w.buf.WriteString(open)
	w.needWhitespace = false
	f := Frame{Open: open, Close: close, depth: len(w.frames)}
	w.frames = append(w.frames, f)
	return f
}

func (w *sqlWriter) EndList(f Frame) {
	if len(w.frames) == 0 || w.frames[len(w.frames)-1] != f {
		panic("typespec: list closed out of order")
	}
	w.frames = w.frames[:len(w.frames)-1]
	w.buf.WriteString(f.Close)
	w.needWhitespace = true
}

func (w *sqlWriter) Sep(s string) {
	w.buf.WriteString(s)
	w.needWhitespace = true
}

func (w *sqlWriter) SetNeedWhitespace(b bool) { w.needWhitespace = b }

func (w *sqlWriter) String() string { return w.buf.String() }
