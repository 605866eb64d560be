// Package filetype enumerates the document formats an export can produce.
package filetype

import (
	"fmt"
	"strings"
)

// FileType identifies the format of a produced file.
type FileType string

const (
	CSV  FileType = "csv"
	XLSX FileType = "xlsx"
	JSON FileType = "json"
	XML  FileType = "xml"
	HTML FileType = "html"
	// Zip is the archive format used when an export spans several books.
	Zip FileType = "zip"
)

var contentTypes = map[FileType]string{
	CSV:  "text/csv",
	XLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	JSON: "application/json",
	XML:  "application/xml",
	HTML: "text/html",
	Zip:  "application/zip",
}

// Parse converts a name such as "xlsx" or ".CSV" into a FileType.
func Parse(s string) (FileType, error) {
	t := FileType(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if _, ok := contentTypes[t]; !ok {
		return "", fmt.Errorf("unsupported file type %q", s)
	}
	return t, nil
}

// Extension returns the file extension including the leading dot.
func (t FileType) Extension() string {
	return "." + string(t)
}

// ContentType returns the MIME type served for the format.
func (t FileType) ContentType() string {
	if ct, ok := contentTypes[t]; ok {
		return ct
	}
	return "application/octet-stream"
}

// IsArchive reports whether t packages other files.
func (t FileType) IsArchive() bool {
	return t == Zip
}

func (t FileType) String() string {
	return string(t)
}
