package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

var jsTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// JSTime accepts the date shapes browsers send: an ISO-8601 string, a date-only
// string or a number of milliseconds since the Unix epoch. JSON null decodes to the
// epoch. Strings without an offset are read as UTC.
type JSTime struct {
	time.Time
}

// Epoch is the value used when a patch carries no date.
func Epoch() JSTime {
	return JSTime{Time: time.UnixMilli(0).UTC()}
}

func (t *JSTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = Epoch()
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		for _, layout := range jsTimeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return fmt.Errorf("invalid date %q", s)
	}

	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("invalid date %s", b)
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

func (t JSTime) MarshalJSON() ([]byte, error) {
	return t.Time.MarshalJSON()
}
