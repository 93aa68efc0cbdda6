package router

import (
	"errors"
	"strings"
	"unicode"
)

// ErrUnterminatedQuote is returned by Tokenize for an odd number of quotes.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Tokenize splits line on whitespace. Double quotes group words into one
// token and a backslash escapes a quote inside them. "" yields an empty token.
func Tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		inToken bool
		quoted  bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case quoted && c == '\\' && i+1 < len(runes) && runes[i+1] == '"':
			current.WriteRune('"')
			i++
		case c == '"':
			quoted = !quoted
			inToken = true
		case !quoted && unicode.IsSpace(c):
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(c)
			inToken = true
		}
	}

	if quoted {
		return nil, ErrUnterminatedQuote
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
