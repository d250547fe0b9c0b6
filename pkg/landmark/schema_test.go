package landmark

import (
	"errors"
	"testing"

	"ProjectPoseForm/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexedSequence(n int) []entity.Landmark {
	seq := make([]entity.Landmark, n)
	for i := range seq {
		seq[i] = entity.Landmark{X: float64(i) / 100, Y: float64(i) / 50}
	}
	return seq
}

func TestFromSequence(t *testing.T) {
	points, err := FromSequence(indexedSequence(PoseLandmarkCount))
	require.NoError(t, err)

	named := map[string]struct {
		got   float64
		index int
	}{
		"nose":          {points.Nose.X, Nose},
		"leftShoulder":  {points.LeftShoulder.X, LeftShoulder},
		"rightShoulder": {points.RightShoulder.X, RightShoulder},
		"leftElbow":     {points.LeftElbow.X, LeftElbow},
		"rightElbow":    {points.RightElbow.X, RightElbow},
		"leftWrist":     {points.LeftWrist.X, LeftWrist},
		"rightWrist":    {points.RightWrist.X, RightWrist},
		"leftHip":       {points.LeftHip.X, LeftHip},
		"rightHip":      {points.RightHip.X, RightHip},
		"leftKnee":      {points.LeftKnee.X, LeftKnee},
		"rightKnee":     {points.RightKnee.X, RightKnee},
		"leftAnkle":     {points.LeftAnkle.X, LeftAnkle},
		"rightAnkle":    {points.RightAnkle.X, RightAnkle},
	}

	for name, tc := range named {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, float64(tc.index)/100, tc.got)
		})
	}

	assert.Equal(t, float64(RightAnkle)/50, points.RightAnkle.Y)
}

func TestFromSequence_MinimumLength(t *testing.T) {
	_, err := FromSequence(indexedSequence(RequiredLength))
	assert.NoError(t, err)

	_, err = FromSequence(indexedSequence(RequiredLength - 1))
	assert.Error(t, err)
}

func TestFromSequence_Malformed(t *testing.T) {
	_, err := FromSequence(indexedSequence(10))
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrMalformedInput))

	var malformed *MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 10, malformed.Got)
	assert.Equal(t, 29, malformed.Want)
	assert.False(t, malformed.World)
}

func TestFromWorldSequence(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		points, err := FromWorldSequence(nil)
		assert.NoError(t, err)
		assert.Nil(t, points)
	})

	t.Run("present", func(t *testing.T) {
		points, err := FromWorldSequence(indexedSequence(PoseLandmarkCount))
		require.NoError(t, err)
		require.NotNil(t, points)
		assert.Equal(t, float64(LeftKnee)/100, points.LeftKnee.X)
	})

	t.Run("too short", func(t *testing.T) {
		points, err := FromWorldSequence(indexedSequence(5))
		assert.Nil(t, points)

		var malformed *MalformedInputError
		require.True(t, errors.As(err, &malformed))
		assert.True(t, malformed.World)
		assert.Contains(t, err.Error(), "world landmarks")
	})
}
