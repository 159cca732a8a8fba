package spreadsheet

import (
	"fmt"
	"strings"
)

// ColumnLetter converts a zero-based column index to A1 letters: 0→A, 25→Z, 26→AA, 27→AB.
// Negative indexes return "".
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	var b []byte
	n := index + 1
	for n > 0 {
		r := (n - 1) % 26
		b = append([]byte{byte('A' + r)}, b...)
		n = (n - 1) / 26
	}
	return string(b)
}

// ColumnIndex is the inverse of ColumnLetter. It is case-insensitive.
func ColumnIndex(letters string) (int, bool) {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" {
		return 0, false
	}
	n := 0
	for _, ch := range letters {
		if ch < 'A' || ch > 'Z' {
			return 0, false
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n - 1, true
}

// QuoteSheet quotes a sheet name for A1 notation when it holds anything but letters, digits or underscore.
func QuoteSheet(sheet string) string {
	for _, ch := range sheet {
		isWord := ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
		if !isWord {
			return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
		}
	}
	return sheet
}

// CellRef builds the A1 reference of one cell. row is the 1-based sheet row, col is zero-based.
func CellRef(sheet string, row, col int) string {
	return fmt.Sprintf("%s!%s%d", QuoteSheet(sheet), ColumnLetter(col), row)
}

// OpenRange builds an A1 range from the first cell down to the last column with no row bound,
// e.g. OpenRange("Sheet2", "ZZ") == "Sheet2!A1:ZZ".
func OpenRange(sheet, lastColumn string) string {
	return fmt.Sprintf("%s!A1:%s", QuoteSheet(sheet), lastColumn)
}
