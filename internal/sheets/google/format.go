package google

import (
	"fmt"
	"strconv"
	"strings"

	ports "condo/internal/sheets"
)

// columnLetter turns a 1-based column index into its A1 letters.
func columnLetter(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// quoteSheet quotes a sheet name for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// a1Range covers rows [row, row+height) and columns A..width.
func a1Range(sheet string, row, width, height int) string {
	return fmt.Sprintf("%s!A%d:%s%d", quoteSheet(sheet), row, columnLetter(width), row+height-1)
}

func tableValues(t ports.Table) [][]any {
	out := make([][]any, 0, len(t.Rows)+1)
	out = append(out, toAny(t.Header))
	for _, r := range t.Rows {
		out = append(out, toAny(r))
	}
	return out
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// yearPrefixedName returns "<year> <base>" unless base already starts with
// a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
