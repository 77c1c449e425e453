package meals

import (
	"errors"
	"time"
)

const dayFormat = "2006-01-02"

// parseMealDate normalizes the date field of a meal request to UTC and
// enforces the accepted window of [now, now + 5 years]. An empty value
// defaults to the creation instant.
func parseMealDate(raw string, now time.Time) (time.Time, error) {
	now = now.UTC()
	if raw == "" {
		return now, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse(dayFormat, raw)
		if err != nil {
			return time.Time{}, errors.New("date must be RFC 3339 or YYYY-MM-DD")
		}
	}
	t = t.UTC()

	if t.Before(now) {
		return time.Time{}, errors.New("date must not be in the past")
	}
	if t.After(now.AddDate(5, 0, 0)) {
		return time.Time{}, errors.New("date must not be more than five years ahead")
	}
	return t, nil
}
