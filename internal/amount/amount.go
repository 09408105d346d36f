// Package amount parses money amounts written with "." as thousands separator
// and "," as decimal separator, optionally carrying a currency glyph.
package amount

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseError reports text that is not a number in the fixed separator convention.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing amount %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errEmpty = errors.New("empty amount")

// currencyGlyphs are removed before parsing.
const currencyGlyphs = "€$£"

// shape matches what the source prints for amounts: "1.234,56", "-3,00 €",
// "+12", "0,50". Zero-padded codes such as "0012345" are not amounts.
var shape = regexp.MustCompile(`^[+-]?(0|[1-9]\d{0,2}(\.?\d{3})*)(,\d+)?$`)

// Parse converts "1.234,56 €" into 1234.56.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := clean(s)
	if cleaned == "" {
		return decimal.Zero, &ParseError{Input: s, Err: errEmpty}
	}

	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &ParseError{Input: s, Err: err}
	}
	return d, nil
}

// Looks reports whether s is written like an amount. Table cells use it to
// decide whether to normalize a cell.
func Looks(s string) bool {
	return shape.MatchString(clean(s))
}

func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune(currencyGlyphs, r) {
			return -1
		}
		return r
	}, s)
}
