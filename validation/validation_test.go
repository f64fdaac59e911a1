package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchTerm_Normalizes(t *testing.T) {
	got, err := SearchTerm("name", "  Gymnázium BRNO ")
	require.NoError(t, err)
	assert.Equal(t, "gymnázium brno", got)
}

func TestSearchTerm_Empty(t *testing.T) {
	for _, term := range []string{"", "   ", "\t\n"} {
		_, err := SearchTerm("name", term)
		require.Error(t, err)

		var verr *Error
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "name", verr.Field)
	}
}

func TestSearchTerm_TooLong(t *testing.T) {
	_, err := SearchTerm("municipality", strings.Repeat("á", MaxTermLength+1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longer than")
}

func TestSearchTerm_ControlCharacters(t *testing.T) {
	_, err := SearchTerm("field", "praha\x00")
	require.Error(t, err)

	got, err := SearchTerm("field", "a\tb")
	require.NoError(t, err)
	assert.Equal(t, "a\tb", got)
}

func TestIdentifier_KeepsCase(t *testing.T) {
	got, err := Identifier("ico", " 00ABc ")
	require.NoError(t, err)
	assert.Equal(t, "00ABc", got)

	_, err = Identifier("ico", "")
	assert.Error(t, err)
}

func TestError_Codes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"empty term", func() error { _, err := SearchTerm("name", " "); return err }(), CodeEmpty},
		{"long term", func() error { _, err := SearchTerm("name", strings.Repeat("x", MaxTermLength+1)); return err }(), CodeTooLong},
		{"control term", func() error { _, err := SearchTerm("name", "a\x07"); return err }(), CodeControl},
		{"empty identifier", func() error { _, err := Identifier("ico", ""); return err }(), CodeEmpty},
		{"long identifier", func() error { _, err := Identifier("ico", strings.Repeat("1", MaxTermLength+1)); return err }(), CodeTooLong},
		{"control identifier", func() error { _, err := Identifier("ico", "1\x00"); return err }(), CodeControl},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *Error
			require.True(t, errors.As(tt.err, &verr))
			assert.Equal(t, tt.want, verr.Code)
		})
	}
}
