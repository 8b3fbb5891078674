package huml

import "bytes"

// maxNestingDepth bounds how deeply dicts and lists may nest, guarding the
// recursive descent against runaway stack growth on adversarial input.
const maxNestingDepth = 256

// parser walks a normalized source buffer line by line, building a
// [Document] by recursive descent over nesting level.
type parser struct {
	data  []byte
	lines []lineRec
	n     int
	pos   int
}

// Parse parses a HUML document, per §6. The returned error, if non-nil, is
// always a [*Error].
func Parse(src []byte) (Document, error) {
	data := normalizeSource(src)
	lines := splitLines(data)
	p := &parser{data: data, lines: lines, n: len(lines)}

	var doc Document

	cl, ok, err := p.nextContentLine()
	if err != nil {
		return Document{}, err
	}
	if ok && bytes.HasPrefix(cl.rest, []byte("%HUML")) {
		ver, verr := p.parseVersionHeader(cl)
		if verr != nil {
			return Document{}, verr
		}
		doc.HasVersion = true
		doc.Version = ver
		p.pos++
		cl, ok, err = p.nextContentLine()
		if err != nil {
			return Document{}, err
		}
	}

	if !ok {
		doc.Root = Null()
		return doc, nil
	}

	if cl.indentLvl != 0 {
		return Document{}, newError(data, cl.restStart, InvalidIndent, "document root must not be indented")
	}

	// A dash line is never ambiguous with the bare-scalar/comma-list
	// convenience grammar below ("- " always means a list item), so it
	// always takes the normal parseListAt path even when it is the
	// document's only content line.
	if cl.kind != lnDash {
		singleLine, err := p.isLastContentLine()
		if err != nil {
			return Document{}, err
		}
		if singleLine {
			p.pos++
			root, rerr := p.parseRootSingleLine(cl.restStart, cl.rest)
			if rerr != nil {
				return Document{}, rerr
			}
			doc.Root = root
			return doc, nil
		}
	}

	switch cl.kind {
	case lnDash:
		items, lerr := p.parseListAt(0, 0)
		if lerr != nil {
			return Document{}, lerr
		}
		doc.Root = NewList(items)
	case lnKey:
		d, derr := p.parseDictAt(0, 0)
		if derr != nil {
			return Document{}, derr
		}
		doc.Root = DictValue(d)
	default:
		return Document{}, newError(data, cl.restStart, UnexpectedToken, "unexpected content at document root")
	}

	if _, ok3, err3 := p.nextContentLine(); err3 != nil {
		return Document{}, err3
	} else if ok3 {
		return Document{}, newError(data, p.lines[p.pos].start, UnexpectedToken, "unexpected trailing content after document root")
	}

	return doc, nil
}

// nextContentLine scans forward from p.pos, skipping (and validating) blank
// and comment-only lines, and returns the next lnDash/lnKey line without
// consuming it. ok is false at end of input.
func (p *parser) nextContentLine() (classifiedLine, bool, *Error) {
	for p.pos < p.n {
		cl, err := classifyLine(p.data, p.lines[p.pos])
		if err != nil {
			return classifiedLine{}, false, err
		}
		if cl.kind == lnBlank {
			p.pos++
			continue
		}
		if cl.kind == lnComment {
			if verr := validateStandaloneComment(p.data, cl.restStart, cl.rest); verr != nil {
				return classifiedLine{}, false, verr
			}
			p.pos++
			continue
		}
		return cl, true, nil
	}
	return classifiedLine{}, false, nil
}

// isLastContentLine reports whether the content line currently at p.pos (the
// one just returned by nextContentLine) is the only remaining content line
// in the document. It does not change p.pos.
func (p *parser) isLastContentLine() (bool, *Error) {
	saved := p.pos
	p.pos++
	_, ok, err := p.nextContentLine()
	p.pos = saved
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// parseBlock parses the indented block that follows a bare "::" opener:
// a multiline dict or multiline list at childLvl, chosen by the shape of
// its first line.
func (p *parser) parseBlock(childLvl, openerOffset int) (Value, *Error) {
	if childLvl > maxNestingDepth {
		return Value{}, newError(p.data, openerOffset, InternalInvariant, "maximum nesting depth of %d exceeded", maxNestingDepth)
	}
	cl, ok, err := p.nextContentLine()
	if err != nil {
		return Value{}, err
	}
	if !ok || cl.indentLvl < childLvl {
		return Value{}, newError(p.data, openerOffset, UnexpectedToken, "expected an indented block after '::'")
	}
	if cl.indentLvl > childLvl {
		return Value{}, newError(p.data, cl.restStart, InvalidIndent,
			"block content must be indented exactly one level (expected %d spaces)", childLvl*2)
	}
	switch cl.kind {
	case lnDash:
		items, lerr := p.parseListAt(childLvl, openerOffset)
		if lerr != nil {
			return Value{}, lerr
		}
		return NewList(items), nil
	case lnKey:
		d, derr := p.parseDictAt(childLvl, openerOffset)
		if derr != nil {
			return Value{}, derr
		}
		return DictValue(d), nil
	default:
		return Value{}, newError(p.data, cl.restStart, UnexpectedToken, "expected a dict or list entry")
	}
}

// parseDictAt consumes consecutive lnKey lines at indentLvl, building a
// Dict, until a line of a different indent appears or input ends.
func (p *parser) parseDictAt(indentLvl, openerOffset int) (*Dict, *Error) {
	d := NewDict()
	for {
		cl, ok, err := p.nextContentLine()
		if err != nil {
			return nil, err
		}
		if !ok || cl.indentLvl < indentLvl {
			break
		}
		if cl.indentLvl > indentLvl {
			return nil, newError(p.data, cl.restStart, InvalidIndent, "unexpected indentation, expected level %d", indentLvl)
		}
		if cl.kind != lnKey {
			return nil, newError(p.data, cl.restStart, MixedCollectionForm, "expected a dict key, found a list item")
		}
		p.pos++
		key, val, perr := p.parseDictEntry(cl)
		if perr != nil {
			return nil, perr
		}
		if _, exists := d.Get(key); exists {
			return nil, newError(p.data, cl.restStart, DuplicateKey, "duplicate key %q", key)
		}
		_ = d.Append(key, val)
	}
	if d.Len() == 0 {
		return nil, newError(p.data, openerOffset, UnexpectedToken, "expected at least one dict entry")
	}
	return d, nil
}

// parseListAt consumes consecutive lnDash lines at indentLvl, building a
// list, until a line of a different indent appears or input ends.
func (p *parser) parseListAt(indentLvl, openerOffset int) ([]Value, *Error) {
	var items []Value
	for {
		cl, ok, err := p.nextContentLine()
		if err != nil {
			return nil, err
		}
		if !ok || cl.indentLvl < indentLvl {
			break
		}
		if cl.indentLvl > indentLvl {
			return nil, newError(p.data, cl.restStart, InvalidIndent, "unexpected indentation, expected level %d", indentLvl)
		}
		if cl.kind != lnDash {
			return nil, newError(p.data, cl.restStart, MixedCollectionForm, "expected a list item, found a dict key")
		}
		p.pos++
		val, perr := p.parseListItem(cl)
		if perr != nil {
			return nil, perr
		}
		items = append(items, val)
	}
	if len(items) == 0 {
		return nil, newError(p.data, openerOffset, UnexpectedToken, "expected at least one list item")
	}
	return items, nil
}

// parseDictEntry parses one "key: value" or "key:: ..." line.
func (p *parser) parseDictEntry(cl classifiedLine) (string, Value, *Error) {
	data := p.data
	rest := cl.rest
	restStart := cl.restStart

	keyText, keyLen, _, kerr := scanKey(data, restStart, rest)
	if kerr != nil {
		return "", Value{}, kerr
	}
	if keyLen == 0 {
		return "", Value{}, newError(data, restStart, UnexpectedToken, "expected a key")
	}
	after := rest[keyLen:]
	afterStart := restStart + keyLen
	if len(after) == 0 {
		return "", Value{}, newError(data, afterStart, UnexpectedToken, "expected ':' after key")
	}

	switch {
	case len(after) >= 2 && after[0] == ':' && after[1] == ':':
		remainder := after[2:]
		remainderStart := afterStart + 2
		val, err := p.parseVectorPayload(remainder, remainderStart, restStart, cl.indentLvl, cl.indentCols)
		if err != nil {
			return "", Value{}, err
		}
		return keyText, val, nil
	case after[0] == ':':
		remainder := after[1:]
		remainderStart := afterStart + 1
		if len(remainder) == 0 {
			return "", Value{}, newError(data, remainderStart, UnexpectedToken, "expected a value after ':'")
		}
		if remainder[0] != ' ' {
			return "", Value{}, newError(data, remainderStart, UnexpectedToken, "expected a single space after ':'")
		}
		if len(remainder) > 1 && remainder[1] == ' ' {
			return "", Value{}, newError(data, remainderStart+1, UnexpectedToken, "expected exactly one space after ':'")
		}
		content := remainder[1:]
		contentStart := remainderStart + 1
		if len(content) == 0 {
			return "", Value{}, newError(data, contentStart, UnexpectedToken, "expected a value after ':'")
		}
		val, err := parseScalarOrQuoted(data, contentStart, content)
		if err != nil {
			return "", Value{}, err
		}
		return keyText, val, nil
	default:
		return "", Value{}, newError(data, afterStart, UnexpectedToken, "expected ':' or '::' after key %q", keyText)
	}
}

// parseListItem parses one "- value" or "- :: ..." line.
func (p *parser) parseListItem(cl classifiedLine) (Value, *Error) {
	payload := cl.rest[2:]
	payloadStart := cl.restStart + 2
	if bytes.HasPrefix(payload, []byte("::")) {
		remainder := payload[2:]
		remainderStart := payloadStart + 2
		return p.parseVectorPayload(remainder, remainderStart, cl.restStart, cl.indentLvl, cl.indentCols)
	}
	return parseScalarOrQuoted(p.data, payloadStart, payload)
}

// parseScalarOrQuoted parses content (which may carry a trailing comment)
// as a single scalar: a quoted string or a bare literal.
func parseScalarOrQuoted(data []byte, contentStart int, content []byte) (Value, *Error) {
	value, _, _, err := extractValueAndComment(data, contentStart, content)
	if err != nil {
		return Value{}, err
	}
	if len(value) == 0 {
		return Value{}, newError(data, contentStart, UnexpectedToken, "missing value")
	}
	if value[0] == '"' {
		consumed, decoded, serr := scanQuotedString(data, contentStart, value)
		if serr != nil {
			return Value{}, serr
		}
		if consumed != len(value) {
			return Value{}, newError(data, contentStart+consumed, UnexpectedToken, "unexpected trailing content after string")
		}
		return String(decoded), nil
	}
	return parseScalarLiteral(data, contentStart, string(value))
}

// parseVersionHeader parses a "%HUML v<major>.<minor>.<patch>" header line.
func (p *parser) parseVersionHeader(cl classifiedLine) (string, *Error) {
	data := p.data
	text := cl.rest
	if findTopLevelHash(text) >= 0 {
		return "", newError(data, cl.restStart, VersionFormat, "version header may not carry a comment")
	}
	rest := text[len("%HUML"):]
	if len(rest) == 0 || rest[0] != ' ' {
		return "", newError(data, cl.restStart, VersionFormat, "expected a space after %%HUML")
	}
	trimmed := bytes.TrimLeft(rest, " ")
	if len(trimmed) == 0 || trimmed[0] != 'v' {
		return "", newError(data, cl.restStart, VersionFormat, "version literal must start with 'v'")
	}
	ver := trimmed[1:]
	parts := bytes.Split(ver, []byte("."))
	if len(parts) != 3 {
		return "", newError(data, cl.restStart, VersionFormat, "version must have the form v<major>.<minor>.<patch>")
	}
	for _, part := range parts {
		if len(part) == 0 || !digitRunValid(string(part), "0123456789") {
			return "", newError(data, cl.restStart, VersionFormat, "version components must be decimal digits")
		}
	}
	return string(ver), nil
}
