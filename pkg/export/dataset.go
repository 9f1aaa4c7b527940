// Package export renders tabular survey data as CSV, XLSX or PDF.
package export

import (
	"fmt"
	"strconv"
	"time"
)

// Dataset defines tabular export content. Row values are keyed by header;
// a missing key renders as an empty cell.
type Dataset struct {
	Headers []string
	Rows    []map[string]interface{}
}

// Empty reports whether the dataset carries no rows.
func (d Dataset) Empty() bool {
	return len(d.Rows) == 0
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
