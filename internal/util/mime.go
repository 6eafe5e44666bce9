package util

import (
	"fmt"
	"strings"
	"time"

	"paygate-console/internal/model"
)

const (
	MIMECSV   = "text/csv"
	MIMEExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportFormat is a download format the console offers.
type ExportFormat struct {
	Name        string
	ContentType string
	Extension   string
	Upstream    string
}

var exportFormats = map[string]ExportFormat{
	"csv":   {Name: "csv", ContentType: MIMECSV, Extension: "csv", Upstream: "CSV"},
	"excel": {Name: "excel", ContentType: MIMEExcel, Extension: "xlsx", Upstream: "EXCEL"},
}

func LookupExportFormat(name string) (ExportFormat, error) {
	format, ok := exportFormats[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ExportFormat{}, fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, name)
	}
	return format, nil
}

// ExportFilename builds "<resource>_export_YYYYMMDD_HHMMSS.<ext>".
func ExportFilename(resource string, format ExportFormat, at time.Time) (string, error) {
	name := fmt.Sprintf("%s_export_%s.%s", resource, at.UTC().Format("20060102_150405"), format.Extension)
	return SanitizeFilename(name)
}

// ContentDisposition renders an attachment header for an already sanitized name.
func ContentDisposition(filename string) string {
	return `attachment; filename="` + filename + `"`
}
