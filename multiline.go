package huml

import (
	"bytes"
	"strings"
)

// multilineDelim names the two multiline string openers, per §4.1: "```"
// preserves interior whitespace verbatim (beyond the block's base indent);
// `"""` additionally strips the common leading indentation shared by every
// body line, and drops leading/trailing blank lines.
const (
	delimPreserve = "```"
	delimStrip    = `"""`
)

// parseMultilineString consumes the lines following a multiline string
// opener up to and including its closing delimiter, and returns the decoded
// String value. baseIndentCols is the column at which both the opening key
// line and the closing delimiter line must sit; openerOffset anchors errors
// that have no better position (e.g. a missing closer).
func (p *parser) parseMultilineString(strip bool, baseIndentCols, openerOffset int) (Value, *Error) {
	delim := delimPreserve
	if strip {
		delim = delimStrip
	}

	var body []string
	for {
		if p.pos >= p.n {
			return Value{}, newError(p.data, openerOffset, UnterminatedString, "multiline string has no closing %s", delim)
		}
		rec := p.lines[p.pos]
		raw := rec.text

		if i := bytes.IndexByte(raw, '\t'); i >= 0 {
			return Value{}, newError(p.data, rec.start+i, InvalidIndent, "tabs are not permitted")
		}

		if isCloser(raw, baseIndentCols, delim) {
			p.pos++
			return buildMultilineValue(strip, body), nil
		}

		if strings.TrimSpace(string(raw)) == "" {
			body = append(body, "")
			p.pos++
			continue
		}

		n := 0
		for n < len(raw) && raw[n] == ' ' {
			n++
		}
		if n < baseIndentCols {
			return Value{}, newError(p.data, rec.start, InvalidIndent,
				"multiline string body must be indented at least to column %d", baseIndentCols)
		}
		body = append(body, string(raw[baseIndentCols:]))
		p.pos++
	}
}

func isCloser(raw []byte, baseIndentCols int, delim string) bool {
	if len(raw) != baseIndentCols+len(delim) {
		return false
	}
	for i := 0; i < baseIndentCols; i++ {
		if raw[i] != ' ' {
			return false
		}
	}
	return string(raw[baseIndentCols:]) == delim
}

// buildMultilineValue applies the whitespace-preserving or
// whitespace-stripping algorithm (§4.3) to body, whose lines have already
// had the block's base indent removed.
func buildMultilineValue(strip bool, body []string) Value {
	if !strip {
		return String(strings.Join(body, "\n"))
	}

	minIndent := -1
	for _, l := range body {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := 0
		for n < len(l) && l[n] == ' ' {
			n++
		}
		if minIndent == -1 || n < minIndent {
			minIndent = n
		}
	}
	if minIndent == -1 {
		minIndent = 0
	}

	stripped := make([]string, len(body))
	for i, l := range body {
		if strings.TrimSpace(l) == "" {
			stripped[i] = ""
			continue
		}
		if minIndent > len(l) {
			stripped[i] = ""
			continue
		}
		stripped[i] = l[minIndent:]
	}

	start := 0
	for start < len(stripped) && stripped[start] == "" {
		start++
	}
	end := len(stripped)
	for end > start && stripped[end-1] == "" {
		end--
	}
	return String(strings.Join(stripped[start:end], "\n"))
}
