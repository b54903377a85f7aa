package querysql

import "fmt"

// CountPlaceholders returns the number of positional "?" placeholders in a
// SQL fragment.
//
// The fragment is not parsed. The scanner only skips regions where a "?" is
// not a placeholder:
//   - 'single quoted' string literals ('' is an escaped quote)
//   - "double quoted", `backquoted` and [bracketed] identifiers
//   - -- line comments and /* block comments */
//
// A numbered placeholder such as ?3 counts once, like a bare ?. Use
// CheckFilter to reject them.
func CountPlaceholders(text string) int {
	n, _ := scanPlaceholders(text)
	return n
}

// CheckFilter reports whether a filter fragment can be bound positionally
// after other parameters: its placeholder count must equal params and it
// must not use numbered placeholders. A numbered ?N is resolved by SQLite
// against the whole statement, so inside a compiled UPDATE it would bind a
// SET value instead of the filter's own parameter.
func CheckFilter(text string, params int) error {
	n, numbered := scanPlaceholders(text)
	if numbered != "" {
		return &CompileError{
			Code:    ErrCodeMalformedFilter,
			Message: fmt.Sprintf("numbered placeholder %s is not supported, use ?", numbered),
		}
	}
	if n != params {
		return NewMalformedFilterError(n, params)
	}
	return nil
}

// scanPlaceholders counts placeholders and returns the first numbered one
// it sees, or "".
func scanPlaceholders(text string) (int, string) {
	count := 0
	numbered := ""
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '?':
			count++
			start := i
			for i+1 < len(text) && isDigit(text[i+1]) {
				i++
			}
			if i > start && numbered == "" {
				numbered = text[start : i+1]
			}
		case '\'', '"', '`':
			i = skipQuoted(text, i, c)
		case '[':
			i = skipUntil(text, i+1, ']')
		case '-':
			if i+1 < len(text) && text[i+1] == '-' {
				i = skipUntil(text, i+2, '\n')
			}
		case '/':
			if i+1 < len(text) && text[i+1] == '*' {
				i = skipBlockComment(text, i+2)
			}
		}
	}
	return count, numbered
}

// skipQuoted returns the index of the closing quote of the region opened at
// start. A doubled quote character is an escape, not a terminator.
// Unterminated regions run to the end of text.
func skipQuoted(text string, start int, quote byte) int {
	for i := start + 1; i < len(text); i++ {
		if text[i] != quote {
			continue
		}
		if i+1 < len(text) && text[i+1] == quote {
			i++
			continue
		}
		return i
	}
	return len(text)
}

// skipUntil returns the index of the first end byte at or after from.
func skipUntil(text string, from int, end byte) int {
	for i := from; i < len(text); i++ {
		if text[i] == end {
			return i
		}
	}
	return len(text)
}

// skipBlockComment returns the index of the "/" closing a block comment.
func skipBlockComment(text string, from int) int {
	for i := from; i+1 < len(text); i++ {
		if text[i] == '*' && text[i+1] == '/' {
			return i + 1
		}
	}
	return len(text)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
