package sheetbook

import (
	"strings"
	"unicode/utf8"

	"github.com/go-data-exporter/bookexport/exporterr"
)

const (
	// MaxSheetNameLength is the worksheet name limit, in characters.
	MaxSheetNameLength = 31
	// MaxSheets is the highest sheet index a book will create.
	MaxSheets = 9999999
	// MaxSheetNamePrefixLength leaves room for any index up to MaxSheets.
	MaxSheetNamePrefixLength = MaxSheetNameLength - 7

	forbiddenSheetNameChars = `[]:*?/\`
)

// ValidateSheetNamePrefix reports whether prefix followed by any sheet index
// up to MaxSheets is a valid worksheet name.
func ValidateSheetNamePrefix(prefix string) error {
	if n := utf8.RuneCountInString(prefix); n > MaxSheetNamePrefixLength {
		return exporterr.Newf(component, "ValidateSheetNamePrefix", "prefix", exporterr.ErrInvalidArgument,
			"%d characters, limit %d", n, MaxSheetNamePrefixLength)
	}
	if strings.ContainsAny(prefix, forbiddenSheetNameChars) {
		return exporterr.Newf(component, "ValidateSheetNamePrefix", "prefix", exporterr.ErrInvalidArgument,
			"%q contains one of %s", prefix, forbiddenSheetNameChars)
	}
	if strings.HasPrefix(prefix, "'") {
		return exporterr.Newf(component, "ValidateSheetNamePrefix", "prefix", exporterr.ErrInvalidArgument,
			"%q starts with an apostrophe", prefix)
	}
	return nil
}
