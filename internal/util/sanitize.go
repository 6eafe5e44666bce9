package util

import (
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"paygate-console/pkg/apierror"
)

const maxFilenameRunes = 200

// Characters that are unsafe in a filename or inside a quoted
// Content-Disposition parameter.
var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*;,\s]+`)

var reservedNames = func() map[string]struct{} {
	names := map[string]struct{}{"CON": {}, "PRN": {}, "AUX": {}, "NUL": {}}
	for i := '1'; i <= '9'; i++ {
		names["COM"+string(i)] = struct{}{}
		names["LPT"+string(i)] = struct{}{}
	}
	return names
}()

// SanitizeFilename makes name safe for a download header on any client OS.
func SanitizeFilename(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.ContainsRune(trimmed, 0) {
		return "", invalidFilename("filename cannot be empty")
	}

	var builder strings.Builder
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if unicode.IsControl(char) || unicode.Is(unicode.Cf, char) || char > unicode.MaxASCII && !unicode.IsPrint(char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := invalidFilenameChars.ReplaceAllString(builder.String(), "_")
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		return "", invalidFilename("filename is invalid after sanitization")
	}

	// Truncate by runes (not bytes) to avoid splitting multi-byte characters.
	if runes := []rune(cleaned); len(runes) > maxFilenameRunes {
		cleaned = string(runes[:maxFilenameRunes])
	}

	stem, _, _ := strings.Cut(cleaned, ".")
	if _, reserved := reservedNames[strings.ToUpper(stem)]; reserved {
		return "", invalidFilename("reserved filename is not allowed")
	}

	return cleaned, nil
}

func invalidFilename(message string) error {
	return apierror.New("INVALID_FILENAME", message, nil, http.StatusBadRequest)
}
