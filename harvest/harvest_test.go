package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanRecords(t *testing.T) {
	found := newSet()

	n := scanRecords([]string{
		"https://cdn.example/master.m3u8",
		"https://cdn.example/ad.js",
		"https://cdn.example/index.m3u8",
	}, found)
	assert.Equal(t, 2, n)

	// Repeats never re-enter; new records append in arrival order.
	n = scanRecords([]string{
		"https://cdn.example/master.m3u8",
		"https://cdn.example/v2/index.m3u8",
	}, found)
	assert.Equal(t, 1, n)

	assert.Equal(t, []string{
		"https://cdn.example/master.m3u8",
		"https://cdn.example/index.m3u8",
		"https://cdn.example/v2/index.m3u8",
	}, found.order)
}

func TestScanRecordsIgnoresNonStream(t *testing.T) {
	found := newSet()
	n := scanRecords([]string{
		"https://cdn.example/seg-001.ts",
		"https://cdn.example/player.html",
	}, found)
	assert.Equal(t, 0, n)
	assert.Empty(t, found.order)
}

func TestPrioritize(t *testing.T) {
	tests := []struct {
		name  string
		links []string
		want  string
		ok    bool
	}{
		{
			name: "index beats everything",
			links: []string{
				"https://a/master.m3u8",
				"https://a/chunk.m3u8",
				"https://a/index.m3u8",
			},
			want: "https://a/index.m3u8",
			ok:   true,
		},
		{
			name: "index containing master does not count",
			links: []string{
				"https://a/master-index.m3u8",
				"https://a/chunk.m3u8",
			},
			want: "https://a/chunk.m3u8",
			ok:   true,
		},
		{
			name: "first non-master otherwise",
			links: []string{
				"https://a/master.m3u8",
				"https://a/low.m3u8",
				"https://a/high.m3u8",
			},
			want: "https://a/low.m3u8",
			ok:   true,
		},
		{
			name:  "all masters fall back to first",
			links: []string{"https://a/master.m3u8", "https://b/master.m3u8"},
			want:  "https://a/master.m3u8",
			ok:    true,
		},
		{
			name:  "case insensitive",
			links: []string{"https://a/MASTER.m3u8", "https://a/INDEX.m3u8"},
			want:  "https://a/INDEX.m3u8",
			ok:    true,
		},
		{
			name:  "empty",
			links: nil,
			want:  "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Prioritize(tt.links)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
