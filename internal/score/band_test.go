package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandFor(t *testing.T) {
	cases := map[int]string{
		15: "优秀",
		14: "优秀",
		13: "优秀",
		12: "良好",
		10: "良好",
		9:  "及格",
		8:  "及格",
		7:  "及格",
		6:  "不及格",
		4:  "不及格",
		3:  "需努力",
		2:  "需努力",
		0:  "需努力",
		-1: "需努力",
	}
	for score, want := range cases {
		assert.Equal(t, want, BandFor(score).Label, "score %d", score)
	}
}

func TestBandsHaveDistinctColors(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range Bands {
		assert.False(t, seen[string(b.Color)], "duplicate colour for %s", b.Label)
		seen[string(b.Color)] = true
	}
}
