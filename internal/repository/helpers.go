package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts follow psql's default DateStyle (ISO, MDY)
const (
	dateLayout        = "2006-01-02"
	timestampLayout   = "2006-01-02 15:04:05.999999"
	timestamptzLayout = "2006-01-02 15:04:05.999999-07"
)

// formatValue renders a driver value the way psql prints it.
// typeName is the column's DatabaseTypeName (DATE, TIMESTAMPTZ, ...).
func formatValue(v any, typeName string) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case bool:
		if val {
			return "t"
		}
		return "f"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return formatTime(val, typeName)
	default:
		return fmt.Sprint(val)
	}
}

func formatTime(t time.Time, typeName string) string {
	switch strings.ToUpper(typeName) {
	case "DATE":
		return t.Format(dateLayout)
	case "TIMESTAMP":
		return t.Format(timestampLayout)
	default:
		return t.Format(timestamptzLayout)
	}
}
