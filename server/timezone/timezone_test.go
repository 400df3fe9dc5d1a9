package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		want    string
		wantErr bool
	}{
		{name: "UTC", tz: "UTC", want: "UTC"},
		{name: "empty string defaults to UTC", tz: "", want: "UTC"},
		{name: "Europe/Berlin", tz: "Europe/Berlin", want: "Europe/Berlin"},
		{name: "America/New_York", tz: "America/New_York", want: "America/New_York"},
		{name: "invalid", tz: "Mars/Olympus", want: "UTC", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseTimezone(tt.tz)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			require.NotNil(t, loc)
			assert.Equal(t, tt.want, loc.String())
			assert.Equal(t, !tt.wantErr, IsValidTimezone(tt.tz))
		})
	}
}

func TestReference(t *testing.T) {
	now := time.Date(2022, 3, 10, 23, 30, 0, 0, time.UTC)

	got, err := Reference("", "", now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	// Half past eleven UTC is already the next day in Berlin.
	got, err = Reference("", "Europe/Berlin", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(now))
	assert.Equal(t, 11, got.Day())
	assert.Equal(t, "Europe/Berlin", got.Location().String())

	got, err = Reference("2022-03-10T10:00:00+05:00", "", now)
	require.NoError(t, err)
	_, offset := got.Zone()
	assert.Equal(t, 5*3600, offset)
	assert.Equal(t, 10, got.Hour())

	got, err = Reference("2022-03-10T10:00:00Z", "America/New_York", now)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Hour())

	_, err = Reference("10.03.2022", "", now)
	assert.ErrorContains(t, err, "RFC 3339")

	_, err = Reference("", "Mars/Olympus", now)
	assert.ErrorContains(t, err, "invalid timezone")
}
