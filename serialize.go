package huml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// inlineListBudget bounds how wide a scalar list's comma-joined rendering
// may be before the serializer falls back to one-item-per-line form.
const inlineListBudget = 80

// Marshal renders doc in the canonical form described by §4.5: two-space
// indentation, decimal integers, shortest-round-trip floats, and quoted
// strings (a dict-entry or list-item string containing a newline uses the
// whitespace-preserving multiline form when [multilineSafe] allows it).
// Dicts are always written one entry per line; all-scalar lists that fit
// within [inlineListBudget] use the inline comma form, otherwise one item
// per line. Empty collections are written as "{}" / "[]".
// parse(Marshal(doc)) is structurally equal to doc (§3's round-trip
// invariant); integer source-base metadata is not written.
func Marshal(doc Document) ([]byte, error) {
	var sb strings.Builder
	if doc.HasVersion {
		fmt.Fprintf(&sb, "%%HUML v%s\n", doc.Version)
	}
	if err := serializeRoot(&sb, doc.Root); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func serializeRoot(sb *strings.Builder, v Value) error {
	switch v.Kind() {
	case KindDict:
		d := v.DictVal()
		if d.Len() == 0 {
			sb.WriteString("{}\n")
			return nil
		}
		return serializeDictEntries(sb, d, 0)
	case KindList:
		items := v.ListVal()
		if len(items) == 0 {
			sb.WriteString("[]\n")
			return nil
		}
		if len(items) > 1 {
			if inline, ok := renderInlineList(items); ok && len(inline) <= inlineListBudget {
				sb.WriteString(inline)
				sb.WriteByte('\n')
				return nil
			}
		}
		return serializeListItems(sb, items, 0)
	default:
		lit, err := scalarLiteral(v)
		if err != nil {
			return err
		}
		sb.WriteString(lit)
		sb.WriteByte('\n')
		return nil
	}
}

func serializeDictEntries(sb *strings.Builder, d *Dict, level int) error {
	for k, val := range d.Iter() {
		writeIndent(sb, level)
		writeKey(sb, k)
		if err := serializeEntryValue(sb, val, level); err != nil {
			return err
		}
	}
	return nil
}

func serializeEntryValue(sb *strings.Builder, val Value, level int) error {
	switch val.Kind() {
	case KindDict:
		d := val.DictVal()
		if d.Len() == 0 {
			sb.WriteString(":: {}\n")
			return nil
		}
		sb.WriteString("::\n")
		return serializeDictEntries(sb, d, level+1)
	case KindList:
		items := val.ListVal()
		if len(items) == 0 {
			sb.WriteString(":: []\n")
			return nil
		}
		if inline, ok := renderInlineList(items); ok && len(inline) <= inlineListBudget {
			sb.WriteString(":: ")
			sb.WriteString(inline)
			sb.WriteByte('\n')
			return nil
		}
		sb.WriteString("::\n")
		return serializeListItems(sb, items, level+1)
	case KindString:
		s := val.StringVal()
		if !multilineSafe(s) {
			sb.WriteString(": ")
			sb.WriteString(quoteString(s))
			sb.WriteByte('\n')
			return nil
		}
		sb.WriteString(":: ")
		sb.WriteString(delimPreserve)
		sb.WriteByte('\n')
		writeMultilineBody(sb, s, level)
		writeIndent(sb, level)
		sb.WriteString(delimPreserve)
		sb.WriteByte('\n')
		return nil
	default:
		lit, err := scalarLiteral(val)
		if err != nil {
			return err
		}
		sb.WriteString(": ")
		sb.WriteString(lit)
		sb.WriteByte('\n')
		return nil
	}
}

// renderInlineList renders items as a comma-joined inline list body,
// succeeding only when every element is a scalar.
func renderInlineList(items []Value) (string, bool) {
	parts := make([]string, len(items))
	for i, v := range items {
		switch v.Kind() {
		case KindList, KindDict:
			return "", false
		}
		lit, err := scalarLiteral(v)
		if err != nil {
			return "", false
		}
		parts[i] = lit
	}
	return strings.Join(parts, ", "), true
}

// multilineSafe reports whether s contains a newline and reads back unchanged
// from a ``` block: no tab or carriage return, no whitespace-only line, and
// no line equal to the closing delimiter.
func multilineSafe(s string) bool {
	if !strings.Contains(s, "\n") || strings.ContainsAny(s, "\t\r") {
		return false
	}
	for _, l := range strings.Split(s, "\n") {
		if l == delimPreserve || (l != "" && strings.TrimSpace(l) == "") {
			return false
		}
	}
	return true
}

// writeMultilineBody writes s's lines as a ``` block's body, each indented
// to level (matching the opening key's own indent); blank lines are written
// with no indentation so they round-trip as zero-length lines.
func writeMultilineBody(sb *strings.Builder, s string, level int) {
	for _, l := range strings.Split(s, "\n") {
		if l == "" {
			sb.WriteByte('\n')
			continue
		}
		writeIndent(sb, level)
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
}

func serializeListItems(sb *strings.Builder, items []Value, level int) error {
	for _, v := range items {
		writeIndent(sb, level)
		sb.WriteString("- ")
		switch v.Kind() {
		case KindDict:
			d := v.DictVal()
			if d.Len() == 0 {
				sb.WriteString(":: {}\n")
				continue
			}
			sb.WriteString("::\n")
			if err := serializeDictEntries(sb, d, level+1); err != nil {
				return err
			}
		case KindList:
			nested := v.ListVal()
			if len(nested) == 0 {
				sb.WriteString(":: []\n")
				continue
			}
			if inline, ok := renderInlineList(nested); ok && len(inline) <= inlineListBudget {
				sb.WriteString(":: ")
				sb.WriteString(inline)
				sb.WriteByte('\n')
				continue
			}
			sb.WriteString("::\n")
			if err := serializeListItems(sb, nested, level+1); err != nil {
				return err
			}
		case KindString:
			s := v.StringVal()
			if !multilineSafe(s) {
				lit, err := scalarLiteral(v)
				if err != nil {
					return err
				}
				sb.WriteString(lit)
				sb.WriteByte('\n')
				continue
			}
			sb.WriteString(":: ")
			sb.WriteString(delimPreserve)
			sb.WriteByte('\n')
			writeMultilineBody(sb, s, level)
			writeIndent(sb, level)
			sb.WriteString(delimPreserve)
			sb.WriteByte('\n')
		default:
			lit, err := scalarLiteral(v)
			if err != nil {
				return err
			}
			sb.WriteString(lit)
			sb.WriteByte('\n')
		}
	}
	return nil
}

func writeIndent(sb *strings.Builder, level int) {
	sb.WriteString(strings.Repeat("  ", level))
}

func writeKey(sb *strings.Builder, k string) {
	if isBareKey(k) {
		sb.WriteString(k)
		return
	}
	sb.WriteString(quoteString(k))
}

func isBareKey(k string) bool {
	return k != "" && scanBareKey([]byte(k)) == len(k)
}

func scalarLiteral(v Value) (string, error) {
	switch v.Kind() {
	case KindNull:
		return "null", nil
	case KindBool:
		if v.BoolVal() {
			return "true", nil
		}
		return "false", nil
	case KindInt:
		return strconv.FormatInt(v.IntVal(), 10), nil
	case KindFloat:
		return formatFloat(v.FloatVal()), nil
	case KindString:
		return quoteString(v.StringVal()), nil
	default:
		return "", fmt.Errorf("huml: cannot serialize a %s as a scalar", v.Kind())
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// quoteString renders s as a HUML quoted string, escaping the characters
// the lexer's \-escape grammar requires.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
