package exchange

import (
	"path/filepath"
	"strings"
)

// Format is a file encoding understood by the transcoders
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks the format from the file extension
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fileError("UNSUPPORTED_FORMAT", "unsupported file extension %q, use .csv, .json, .yaml or .yml", ext)
	}
}
