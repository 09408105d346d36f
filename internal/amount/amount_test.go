package amount

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"},
		{"1.234,56 €", "1234.56"},
		{"1.234,56 €", "1234.56"},
		{"-3,00€", "-3"},
		{"12", "12"},
		{"0,5", "0.5"},
		{"1.000.000", "1000000"},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, "Parse(%q)", tt.in)
		assert.Equal(t, tt.want, got.String(), "Parse(%q)", tt.in)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "  ", "€", "abc", "1,2,3", "12a"} {
		_, err := Parse(in)
		require.Error(t, err, "Parse(%q)", in)

		var pe *ParseError
		require.True(t, errors.As(err, &pe), "Parse(%q) should return *ParseError", in)
		assert.Equal(t, in, pe.Input)
	}
}

func TestLooks(t *testing.T) {
	assert.True(t, Looks("1.234,56"))
	assert.True(t, Looks("-45,10 €"))
	assert.True(t, Looks("7"))
	assert.False(t, Looks("05/01/2024"))
	assert.False(t, Looks("Bizum 12"))
	assert.False(t, Looks(""))
	assert.False(t, Looks("1e5"))
	assert.True(t, Looks("0,50"))
	assert.True(t, Looks("-0,00 €"))
	assert.False(t, Looks("0012345"))
	assert.False(t, Looks("01.234,00"))
}
