package kaze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStrictMax3x3(t *testing.T) {
	im := NewImage(3, 3)
	for i := range im.Pix {
		im.Pix[i] = 1
	}
	im.Set(1, 1, 5)
	assert.True(t, isStrictMax3x3(im, 1, 1, 5))

	im.Set(0, 0, 5)
	assert.False(t, isStrictMax3x3(im, 1, 1, 5))
}

func TestMergeDuplicatesKeepsHigherResponse(t *testing.T) {
	cands := []candidate{
		{x: 10, y: 10, response: 0.5, size: 4, sigmaSize: 4, level: 2},
		{x: 11, y: 10, response: 0.9, size: 4, sigmaSize: 4, level: 3},
	}
	merged := mergeDuplicates(cands)
	assert.Len(t, merged, 1)
	assert.Equal(t, float32(0.9), merged[0].response)
}

func TestMergeDuplicatesKeepsDistantCandidates(t *testing.T) {
	cands := []candidate{
		{x: 0, y: 0, response: 0.5, size: 2, level: 2},
		{x: 50, y: 50, response: 0.9, size: 2, level: 2},
	}
	merged := mergeDuplicates(cands)
	assert.Len(t, merged, 2)
}

func TestSuppressByDistanceZeroRadiusIsNoop(t *testing.T) {
	kpts := []Keypoint{{X: 0, Y: 0, Response: 1}, {X: 0.1, Y: 0.1, Response: 2}}
	out := suppressByDistance(kpts, 0)
	assert.Len(t, out, 2)
}

func TestSuppressByDistanceRemovesCloserLowerResponse(t *testing.T) {
	kpts := []Keypoint{{X: 0, Y: 0, Response: 1}, {X: 1, Y: 0, Response: 2}}
	out := suppressByDistance(kpts, 5)
	assert.Len(t, out, 1)
	assert.Equal(t, float32(2), out[0].Response)
}
