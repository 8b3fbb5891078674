package huml

import "bytes"

// scanKey reads a bare or quoted key from the start of rest, returning its
// decoded text and the number of source bytes it consumed (0 if rest does
// not begin with a valid key).
func scanKey(data []byte, offset int, rest []byte) (key string, consumed int, quoted bool, err *Error) {
	if len(rest) == 0 {
		return "", 0, false, nil
	}
	if rest[0] == '"' {
		n, decoded, serr := scanQuotedString(data, offset, rest)
		if serr != nil {
			return "", 0, true, serr
		}
		return decoded, n, true, nil
	}
	n := scanBareKey(rest)
	if n == 0 {
		return "", 0, false, nil
	}
	return string(rest[:n]), n, false, nil
}

// keyPrefixLen is scanKey without surfacing decode errors, used only to
// decide whether an inline element looks like "key: value" versus a bare
// scalar; a malformed quoted key is reported later, on commit.
func keyPrefixLen(data []byte, offset int, e []byte) int {
	if len(e) == 0 {
		return 0
	}
	if e[0] == '"' {
		n, _, err := scanQuotedString(data, offset, e)
		if err != nil {
			return 0
		}
		return n
	}
	return scanBareKey(e)
}

// looksLikeKeyValue reports whether e begins with a key immediately
// followed by a single ':' (not '::').
func looksLikeKeyValue(data []byte, offset int, e []byte) bool {
	n := keyPrefixLen(data, offset, e)
	if n == 0 || n >= len(e) {
		return false
	}
	rest := e[n:]
	if rest[0] != ':' {
		return false
	}
	if len(rest) >= 2 && rest[1] == ':' {
		return false
	}
	return true
}

// parseInlineScalar parses text as exactly one scalar token: a quoted
// string or a literal (null/bool/number/nan/inf).
func parseInlineScalar(data []byte, offset int, text []byte) (Value, *Error) {
	if len(text) == 0 {
		return Value{}, newError(data, offset, UnexpectedToken, "expected a value")
	}
	if text[0] == '"' {
		consumed, decoded, err := scanQuotedString(data, offset, text)
		if err != nil {
			return Value{}, err
		}
		if consumed != len(text) {
			return Value{}, newError(data, offset+consumed, UnexpectedToken, "unexpected trailing content after string")
		}
		return String(decoded), nil
	}
	return parseScalarLiteral(data, offset, string(text))
}

// parseInlineKV parses one "key: value" inline-dict element.
func parseInlineKV(data []byte, offset int, e []byte) (string, Value, *Error) {
	keyText, keyLen, _, kerr := scanKey(data, offset, e)
	if kerr != nil {
		return "", Value{}, kerr
	}
	if keyLen == 0 {
		return "", Value{}, newError(data, offset, UnexpectedToken, "expected a key in inline dict element")
	}
	rest := e[keyLen:]
	restStart := offset + keyLen
	if len(rest) == 0 || rest[0] != ':' {
		return "", Value{}, newError(data, restStart, UnexpectedToken, "expected ':' after key %q", keyText)
	}
	if len(rest) >= 2 && rest[1] == ':' {
		return "", Value{}, newError(data, restStart, UnexpectedToken, "inline dict entries use a single ':'")
	}
	if len(rest) < 2 || rest[1] != ' ' {
		return "", Value{}, newError(data, restStart+1, UnexpectedToken, "expected a single space after ':'")
	}
	if len(rest) > 2 && rest[2] == ' ' {
		return "", Value{}, newError(data, restStart+2, UnexpectedToken, "expected exactly one space after ':'")
	}
	valText := rest[2:]
	valStart := restStart + 2
	val, verr := parseInlineScalar(data, valStart, valText)
	if verr != nil {
		return "", Value{}, verr
	}
	return keyText, val, nil
}

// splitInlineElements splits text on top-level ", " separators (quote
// aware), enforcing that a comma is never preceded by a space and is always
// followed by exactly one.
func splitInlineElements(data []byte, start int, text []byte) ([][]byte, []int, *Error) {
	var elems [][]byte
	var offsets []int
	inStr := false
	segStart := 0
	i := 0
	for i < len(text) {
		c := text[i]
		if inStr {
			if c == '\\' {
				i += 2
				continue
			}
			if c == '"' {
				inStr = false
			}
			i++
			continue
		}
		switch {
		case c == '"':
			inStr = true
			i++
		case c == ',':
			if i == 0 || text[i-1] == ' ' {
				return nil, nil, newError(data, start+i, UnexpectedToken, "unexpected space before ','")
			}
			if i+1 >= len(text) || text[i+1] != ' ' {
				return nil, nil, newError(data, start+i, UnexpectedToken, "expected a single space after ','")
			}
			if i+2 < len(text) && text[i+2] == ' ' {
				return nil, nil, newError(data, start+i+1, UnexpectedToken, "expected exactly one space after ','")
			}
			elems = append(elems, text[segStart:i])
			offsets = append(offsets, start+segStart)
			i += 2
			segStart = i
		default:
			i++
		}
	}
	if inStr {
		return nil, nil, newError(data, start+segStart, UnterminatedString, "unterminated string in inline collection")
	}
	elems = append(elems, text[segStart:])
	offsets = append(offsets, start+segStart)
	for idx, e := range elems {
		if len(e) == 0 {
			return nil, nil, newError(data, offsets[idx], UnexpectedToken, "empty element in inline collection")
		}
	}
	return elems, offsets, nil
}

// parseInlineCollection parses the comma-separated body of an inline list
// or inline dict, auto-detecting which from the shape of its first element,
// and enforcing that every element shares that shape.
func parseInlineCollection(data []byte, start int, text []byte) (Value, *Error) {
	elems, offsets, err := splitInlineElements(data, start, text)
	if err != nil {
		return Value{}, err
	}
	if len(elems) == 0 {
		return Value{}, newError(data, start, UnexpectedToken, "empty inline collection")
	}

	asDict := looksLikeKeyValue(data, offsets[0], elems[0])
	if asDict {
		d := NewDict()
		for i, e := range elems {
			if !looksLikeKeyValue(data, offsets[i], e) {
				return Value{}, newError(data, offsets[i], MixedCollectionForm, "inline dict elements must all have \"key: value\" shape")
			}
			k, v, perr := parseInlineKV(data, offsets[i], e)
			if perr != nil {
				return Value{}, perr
			}
			if _, exists := d.Get(k); exists {
				return Value{}, newError(data, offsets[i], DuplicateKey, "duplicate key %q", k)
			}
			_ = d.Append(k, v)
		}
		return DictValue(d), nil
	}

	list := make([]Value, len(elems))
	for i, e := range elems {
		if looksLikeKeyValue(data, offsets[i], e) {
			return Value{}, newError(data, offsets[i], MixedCollectionForm, "inline list elements must all be scalars")
		}
		v, perr := parseInlineScalar(data, offsets[i], e)
		if perr != nil {
			return Value{}, perr
		}
		list[i] = v
	}
	return NewList(list), nil
}

// parseVectorPayload parses whatever follows a "::" marker (for both dict
// entries and list items): nothing at all (an indented block follows),
// "[]"/"{}" (an empty collection), a multiline string opener, or an inline
// collection. remainder is the raw text after "::", not yet validated for
// spacing. indentLvl is the level of the key/item line itself; a nested
// block sits at indentLvl+1. baseIndentCols is that same line's column
// count, used as the multiline string's base indent.
func (p *parser) parseVectorPayload(remainder []byte, remainderStart, openerOffset, indentLvl, baseIndentCols int) (Value, *Error) {
	if len(remainder) == 0 {
		return p.parseBlock(indentLvl+1, openerOffset)
	}
	if remainder[0] != ' ' {
		return Value{}, newError(p.data, remainderStart, UnexpectedToken, "expected a single space after '::'")
	}
	if len(remainder) > 1 && remainder[1] == ' ' {
		return Value{}, newError(p.data, remainderStart+1, UnexpectedToken, "expected exactly one space after '::'")
	}
	content := remainder[1:]
	contentStart := remainderStart + 1
	if len(content) == 0 {
		return Value{}, newError(p.data, contentStart, UnexpectedToken, "expected inline content after '::'")
	}

	value, _, _, err := extractValueAndComment(p.data, contentStart, content)
	if err != nil {
		return Value{}, err
	}
	if len(value) == 0 {
		return Value{}, newError(p.data, contentStart, UnexpectedToken, "expected inline content after '::'")
	}

	switch string(value) {
	case delimPreserve:
		return p.parseMultilineString(false, baseIndentCols, openerOffset)
	case delimStrip:
		return p.parseMultilineString(true, baseIndentCols, openerOffset)
	case "[]":
		return NewList(nil), nil
	case "{}":
		return DictValue(NewDict()), nil
	default:
		return parseInlineCollection(p.data, contentStart, value)
	}
}

// parseRootSingleLine parses the document's entire content when it is
// exactly one significant line.
//
// A leading "key::" is always treated as a single dict entry whose value is
// a vector or multiline string (mirroring normal dict-entry grammar) — this
// is what lets a one-entry dict with a collection value round-trip. A
// leading "key:" whose remainder is a clean scalar is likewise a one-entry
// dict. Anything else (including "key: v1, k2: v2" style text, where the
// remainder after "key: " is not a clean scalar) falls back to the root-only
// convenience grammar: a bare comma-separated inline list or dict, a bare
// scalar, or an empty-collection marker, written without any leading "::".
func (p *parser) parseRootSingleLine(offset int, text []byte) (Value, *Error) {
	data := p.data
	keyText, keyLen, _, kerr := scanKey(data, offset, text)
	if kerr == nil && keyLen > 0 && keyLen < len(text) {
		after := text[keyLen:]
		afterStart := offset + keyLen
		if after[0] == ':' && len(after) >= 2 && after[1] == ':' {
			val, verr := p.parseVectorPayload(after[2:], afterStart+2, offset, 0, 0)
			if verr != nil {
				return Value{}, verr
			}
			return wrapSingleEntry(keyText, val), nil
		}
		if after[0] == ':' {
			if val, scalarErr := tryParseScalarEntry(data, afterStart+1, after[1:]); scalarErr == nil {
				return wrapSingleEntry(keyText, val), nil
			}
		}
	}

	value, _, _, err := extractValueAndComment(data, offset, text)
	if err != nil {
		return Value{}, err
	}
	if len(value) == 0 {
		return Value{}, newError(data, offset, UnexpectedToken, "empty root value")
	}
	switch string(value) {
	case "[]":
		return NewList(nil), nil
	case "{}":
		return DictValue(NewDict()), nil
	}
	if value[0] == '"' {
		consumed, decoded, serr := scanQuotedString(data, offset, value)
		if serr != nil {
			return Value{}, serr
		}
		if consumed == len(value) {
			return String(decoded), nil
		}
	}
	if !bytes.ContainsAny(value, ",") {
		if lit, perr := parseScalarLiteral(data, offset, string(value)); perr == nil {
			return lit, nil
		}
	}
	return parseInlineCollection(data, offset, value)
}

func wrapSingleEntry(key string, val Value) Value {
	d := NewDict()
	_ = d.Append(key, val)
	return DictValue(d)
}

// tryParseScalarEntry attempts the strict "single space then one clean
// scalar, nothing else" shape; any deviation is reported as an error so the
// caller can fall back to the comma-list grammar instead.
func tryParseScalarEntry(data []byte, offset int, remainder []byte) (Value, *Error) {
	if len(remainder) == 0 || remainder[0] != ' ' {
		return Value{}, newError(data, offset, UnexpectedToken, "expected a single space")
	}
	if len(remainder) > 1 && remainder[1] == ' ' {
		return Value{}, newError(data, offset+1, UnexpectedToken, "expected exactly one space")
	}
	content := remainder[1:]
	contentStart := offset + 1
	if len(content) == 0 {
		return Value{}, newError(data, contentStart, UnexpectedToken, "expected a value")
	}
	return parseInlineScalar(data, contentStart, content)
}
