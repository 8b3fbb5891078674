package huml

import "bytes"

// findTopLevelHash returns the index of the first '#' in s that is not
// inside a quoted string, or -1 if there is none.
func findTopLevelHash(s []byte) int {
	inStr := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			if c == '\\' {
				i++
				continue
			}
			if c == '"' {
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '#':
			return i
		}
	}
	return -1
}

// extractValueAndComment splits text into a value portion and an optional
// trailing comment, per the rule that a comment must be preceded by at least
// one space and, unless it is the last byte on the line, followed by one.
// The returned value has those preceding spaces removed.
// text has no leading/trailing line whitespace (classifyLine already
// enforced that); offset is text's byte offset into the source.
func extractValueAndComment(data []byte, offset int, text []byte) (value, comment []byte, hasComment bool, err *Error) {
	idx := findTopLevelHash(text)
	if idx < 0 {
		return text, nil, false, nil
	}
	before := text[:idx]
	if idx == 0 || before[len(before)-1] != ' ' {
		return nil, nil, false, newErrorContext(data, offset+idx, BadCommentPlacement, "comment", "comment must be preceded by a single space")
	}
	after := text[idx+1:]
	if len(after) > 0 && after[0] != ' ' {
		return nil, nil, false, newErrorContext(data, offset+idx, BadCommentPlacement, "comment", "comment text must start with a space after '#'")
	}
	return bytes.TrimRight(before, " "), after, true, nil
}

// validateStandaloneComment checks a comment-only line's "#" spacing rule:
// the text after '#' must start with a space, unless '#' is the line's last
// byte. rest is the whole line content starting at '#'.
func validateStandaloneComment(data []byte, restStart int, rest []byte) *Error {
	if len(rest) > 1 && rest[1] != ' ' {
		return newErrorContext(data, restStart, BadCommentPlacement, "comment", "comment text must start with a space after '#'")
	}
	return nil
}
