package sqlite

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// placeholder returns a placeholder for SQLite (uses ?)
func placeholder(int) string {
	return "?"
}

// placeholders returns n placeholders for SQLite
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// References are stored as RFC 3339 text so the offset survives a round trip.
func formatReference(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseReference(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid reference %q", s)
	}
	return t, nil
}
