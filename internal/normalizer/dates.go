package normalizer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Epoch seconds outside this range do not fit a nanosecond timestamp.
const (
	minEpochSeconds = -9223372036
	maxEpochSeconds = 9223372036
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	time.DateOnly,
	"2006/01/02",
	"01/02/2006",
}

type nullTime struct {
	t     time.Time
	valid bool
}

func epochToTime(sec float64) (time.Time, bool) {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec < minEpochSeconds || sec > maxEpochSeconds {
		return time.Time{}, false
	}
	whole := math.Floor(sec)
	nsec := math.Round((sec - whole) * 1e9)
	return time.Unix(int64(whole), int64(nsec)).UTC(), true
}

// parseEpoch reads r as epoch seconds. ok is false when r holds something
// that is neither null nor a number.
func parseEpoch(r gjson.Result) (nt nullTime, ok bool) {
	switch r.Type {
	case gjson.Null:
		return nullTime{}, true
	case gjson.Number:
		t, valid := epochToTime(r.Num)
		return nullTime{t: t, valid: valid}, valid
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return nullTime{}, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nullTime{}, false
		}
		t, valid := epochToTime(f)
		return nullTime{t: t, valid: valid}, valid
	}
	return nullTime{}, false
}

// parseAny accepts epoch seconds or any known date layout. Zoned values are
// converted to UTC. Anything else is null.
func parseAny(r gjson.Result) nullTime {
	if nt, ok := parseEpoch(r); ok {
		return nt
	}
	if r.Type != gjson.String {
		return nullTime{}
	}
	s := strings.TrimSpace(r.Str)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return nullTime{t: t.UTC(), valid: true}
		}
	}
	return nullTime{}
}

// dateColumn builds the date column from field. The column is first read as
// epoch seconds; if any entry fails, every entry is re-read with parseAny.
func dateColumn(rows []gjson.Result, field string) []nullTime {
	out := make([]nullTime, len(rows))
	for i, row := range rows {
		nt, ok := parseEpoch(row.Get(field))
		if !ok {
			for j, r := range rows {
				out[j] = parseAny(r.Get(field))
			}
			return out
		}
		out[i] = nt
	}
	return out
}

// timestampColumn reads field as epoch seconds, nulling failures.
func timestampColumn(rows []gjson.Result, field string) []nullTime {
	out := make([]nullTime, len(rows))
	for i, row := range rows {
		if nt, ok := parseEpoch(row.Get(field)); ok {
			out[i] = nt
		}
	}
	return out
}
