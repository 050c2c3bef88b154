package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLines(t *testing.T) {
	profile := []int{100, 80, 80, 100, 90}

	tests := []struct {
		z    int
		want []int
	}{
		{z: 25, want: nil},
		{z: 10, want: []int{0}},
		{z: 5, want: []int{0, 3}},
		{z: 0, want: []int{0, 3}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLines(profile, tt.z), "z=%d", tt.z)
	}
}

func TestDetectLinesOnlyFiresOnDrops(t *testing.T) {
	rising := []int{10, 50, 90, 130}
	assert.Empty(t, DetectLines(rising, 0))
}

func TestDetectLinesReturnsFreshSlices(t *testing.T) {
	profile := []int{100, 50, 100, 50}
	a := DetectLines(profile, 10)
	b := DetectLines(profile, 10)
	a[0] = -1
	assert.Equal(t, []int{0, 2}, b)
}

func TestDetectLinesShortProfiles(t *testing.T) {
	assert.Empty(t, DetectLines(nil, 2))
	assert.Empty(t, DetectLines([]int{255}, 2))
}
