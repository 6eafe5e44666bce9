package util

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	t.Run("replaces unsafe characters", func(t *testing.T) {
		actual, err := SanitizeFilename(` merchant "report"; 2026?.csv `)
		require.NoError(t, err)
		require.Equal(t, "merchant_report_2026_.csv", actual)
	})

	t.Run("rejects empty filenames", func(t *testing.T) {
		_, err := SanitizeFilename("   ")
		require.Error(t, err)
	})

	t.Run("trims leading dots", func(t *testing.T) {
		actual, err := SanitizeFilename("..env")
		require.NoError(t, err)
		require.Equal(t, "env", actual)
	})

	t.Run("rejects windows reserved names", func(t *testing.T) {
		_, err := SanitizeFilename("COM3.csv")
		require.Error(t, err)
	})

	t.Run("strips zero-width characters", func(t *testing.T) {
		actual, err := SanitizeFilename("trans\u200Bactions\uFEFF.csv")
		require.NoError(t, err)
		require.Equal(t, "transactions.csv", actual)
	})

	t.Run("rune-safe truncation preserves multi-byte characters", func(t *testing.T) {
		runes := make([]rune, 260)
		for i := range runes {
			runes[i] = 'é'
		}

		actual, err := SanitizeFilename(string(runes) + ".csv")
		require.NoError(t, err)
		require.Len(t, []rune(actual), maxFilenameRunes)
		require.True(t, utf8.ValidString(actual))
	})
}
