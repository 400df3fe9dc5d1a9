// Package timezone resolves the reference time of a parse request.
//
// Relative expressions such as "tomorrow" are grounded in the reference's
// location, so the zone a client names decides which calendar day they get.
package timezone

import (
	"fmt"
	"time"
	// Containers often ship without a zoneinfo database.
	_ "time/tzdata"
)

// UTC is the zone used when a request names none.
var UTC = time.UTC

// ParseTimezone parses an IANA timezone identifier (e.g., "Europe/Berlin").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	_, err := ParseTimezone(tz)
	return err == nil
}

// Reference builds the reference time of a request.
//
// ref is RFC 3339; when empty, now is used. When tz is set the result is
// moved into that zone, keeping the instant. Without tz the offset of ref
// (or the location of now) is kept as is.
func Reference(ref, tz string, now time.Time) (time.Time, error) {
	t := now
	if ref != "" {
		parsed, err := time.Parse(time.RFC3339, ref)
		if err != nil {
			return time.Time{}, fmt.Errorf("reference %q is not RFC 3339: %w", ref, err)
		}
		t = parsed
	}
	if tz == "" {
		return t, nil
	}
	loc, err := ParseTimezone(tz)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}
