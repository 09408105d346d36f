package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAccountKey(t *testing.T) {
	assert.Equal(t, "1", FormatAccountKey(0))
	assert.Equal(t, "12", FormatAccountKey(11))
}

func TestFormatCardKey(t *testing.T) {
	tests := []struct {
		account, card int
		want          string
	}{
		{0, 0, "1.a"},
		{0, 1, "1.b"},
		{2, 25, "3.z"},
		{0, 26, "1.aa"},
		{0, 27, "1.ab"},
	}
	for _, tt := range tests {
		got := FormatCardKey(tt.account, tt.card)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		input       string
		wantAccount int
		wantCard    int
	}{
		{"1", 0, NoCard},
		{"12", 11, NoCard},
		{"1.a", 0, 0},
		{"3.z", 2, 25},
		{"1.aa", 0, 26},
	}
	for _, tt := range tests {
		account, card, err := ParseKey(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.wantAccount, account)
		assert.Equal(t, tt.wantCard, card)
	}
}

func TestParseKey_RoundTrip(t *testing.T) {
	for j := 0; j < 60; j++ {
		account, card, err := ParseKey(FormatCardKey(4, j))
		require.NoError(t, err)
		assert.Equal(t, 4, account)
		assert.Equal(t, j, card)
	}
}

func TestParseKey_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"0",
		"a",
		"1.",
		"1.A",
		"1.1",
		"-1.a",
	}
	for _, input := range badInputs {
		_, _, err := ParseKey(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}
