package hierarchy

import (
	"fmt"
	"time"
)

var commentTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05-0700",
}

// ParseTimestamp accepts tracker comment dates with or without fractional seconds.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range commentTimestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format %q", value)
}
