package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTrackingID_Format(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := GenerateTrackingID()
		require.Len(t, id, TrackingIDLength)
		for _, r := range id {
			assert.True(t, strings.ContainsRune(trackingAlphabet, r), "unexpected character %q in %q", r, id)
		}
	}
}

func TestGenerateTrackingID_Dispersion(t *testing.T) {
	const draws = 10000

	seen := make(map[string]struct{}, draws)
	for i := 0; i < draws; i++ {
		seen[GenerateTrackingID()] = struct{}{}
	}

	// The space is 36^8; for 10k draws even a single collision is already
	// far beyond what chance predicts, so allow at most one.
	assert.GreaterOrEqual(t, len(seen), draws-1)
}

func TestValidTrackingID(t *testing.T) {
	cases := []struct {
		name string
		id   string
		want bool
	}{
		{name: "canonical", id: "A1B2C3D4", want: true},
		{name: "all letters", id: "ABCDEFGH", want: true},
		{name: "all digits", id: "01234567", want: true},
		{name: "lowercase", id: "a1b2c3d4", want: false},
		{name: "too short", id: "A1B2C3D", want: false},
		{name: "too long", id: "A1B2C3D45", want: false},
		{name: "empty", id: "", want: false},
		{name: "punctuation", id: "A1B2-3D4", want: false},
		{name: "whitespace", id: "A1B2 3D4", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidTrackingID(tc.id))
		})
	}
}

func TestGenerateTrackingID_IsValid(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.True(t, ValidTrackingID(GenerateTrackingID()))
	}
}
