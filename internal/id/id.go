// Package id formats and parses the short keys that select an entity of a
// position on the command line: "2" is the second account, "2.a" its first card.
package id

import (
	"fmt"
	"strconv"
	"strings"
)

// NoCard is the card index ParseKey returns for account keys.
const NoCard = -1

// FormatAccountKey returns the key of the account at zero-based index i: "1" for 0.
func FormatAccountKey(i int) string {
	return strconv.Itoa(i + 1)
}

// FormatCardKey returns the key of card j of account i, like "1.a" (card
// 0='a', 1='b', ..., 26='aa').
func FormatCardKey(i, j int) string {
	return FormatAccountKey(i) + "." + letters(j)
}

// ParseKey parses "1" or "1.a" into zero-based account and card indices.
// card is NoCard for account keys.
func ParseKey(key string) (account, card int, err error) {
	acct, suffix, hasCard := strings.Cut(key, ".")

	n, err := strconv.Atoi(acct)
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("invalid account in key %q", key)
	}
	if !hasCard {
		return n - 1, NoCard, nil
	}

	card, ok := fromLetters(suffix)
	if !ok {
		return 0, 0, fmt.Errorf("invalid card in key %q", key)
	}
	return n - 1, card, nil
}

func letters(j int) string {
	var b []byte
	for j >= 0 {
		b = append([]byte{byte('a' + j%26)}, b...)
		j = j/26 - 1
	}
	return string(b)
}

func fromLetters(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return 0, false
		}
		n = n*26 + int(s[i]-'a') + 1
	}
	return n - 1, true
}
