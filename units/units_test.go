package units

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "hh:mm:ss", input: "00:01:30", want: 90 * time.Second},
		{name: "hh:mm:ss hours", input: "02:00:00", want: 2 * time.Hour},
		{name: "go style", input: "1h30m", want: 90 * time.Minute},
		{name: "go style seconds", input: "20s", want: 20 * time.Second},
		{name: "plain number is seconds", input: "30", want: 30 * time.Second},
		{name: "plain fractional", input: "2.5", want: 2500 * time.Millisecond},
		{name: "whitespace trimmed", input: "  45  ", want: 45 * time.Second},
		{name: "uppercase go style", input: "5M", want: 5 * time.Minute},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "negative go style", input: "-5s", wantErr: true},
		{name: "negative plain", input: "-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00:20", FormatDuration(20*time.Second))
	assert.Equal(t, "01:30:05", FormatDuration(time.Hour+30*time.Minute+5*time.Second))
	assert.Equal(t, "00:02:00", FormatDuration(2*time.Minute+500*time.Millisecond))
}
