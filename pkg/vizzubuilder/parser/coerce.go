package parser

import (
	"strings"
	"time"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

// TimeLayout is the canonical text form of coerced time values.
const TimeLayout = "2006-01-02 15:04:05"

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	TimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"02 Jan 2006",
	"Jan 2, 2006",
	time.RFC1123,
	time.RFC1123Z,
	"Mon Jan 02 15:04:05 MST 2006",
}

// ParseTime parses a date/time in any known layout. Timezones are dropped: the wall clock
// reading is kept and expressed in UTC.
func ParseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), true
		}
	}
	return time.Time{}, false
}

// CoerceTimes returns a copy of the dataset in which every text column whose
// non-empty cells all parse as dates becomes a KindTime column, its cell text
// rewritten to models.TimeText. Columns that fail to parse keep their original
// kind; the failure is not reported.
func CoerceTimes(ds *models.Dataset) *models.Dataset {
	out := ds.Clone()
	if out == nil {
		return nil
	}
	for i := range out.Columns {
		col := &out.Columns[i]
		if col.Kind != models.KindString {
			continue
		}
		if times, ok := coerceColumn(col.Strings); ok {
			col.Kind = models.KindTime
			col.Times = times
			for r, t := range times {
				if !t.IsZero() {
					col.Strings[r] = models.TimeText(t)
				}
			}
		}
	}
	return out
}

func coerceColumn(cells []string) ([]time.Time, bool) {
	times := make([]time.Time, len(cells))
	parsed := 0
	for i, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		t, ok := ParseTime(cell)
		if !ok {
			return nil, false
		}
		times[i] = t
		parsed++
	}
	return times, parsed > 0
}
