package constants

import "strings"

// Format is the canonical source-document format for the format field in Document.
type Format string

// Stable values (these exact strings appear on the wire).
const (
	PDF   Format = "pdf"
	DOCX  Format = "docx"
	DOC   Format = "doc"
	XLSX  Format = "xlsx"
	TXT   Format = "txt"
	IMAGE Format = "image" // pre-OCR'd text; decoded as TXT
)

// Formats holds the allowed document formats for ingestion.
var Formats = []Format{PDF, DOCX, DOC, XLSX, TXT, IMAGE}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to a Format. Unknown extensions
// return the empty Format.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "docx":
		return DOCX
	case "doc":
		return DOC
	case "xlsx", "xlsm":
		return XLSX
	case "txt", "text", "md":
		return TXT
	case "jpg", "jpeg", "png", "tif", "tiff":
		return IMAGE
	}
	return ""
}

// IsValidFormat reports whether f is one of the supported formats.
func IsValidFormat(f Format) bool {
	for _, v := range Formats {
		if v == f {
			return true
		}
	}
	return false
}
