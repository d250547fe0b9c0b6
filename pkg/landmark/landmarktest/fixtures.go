// Package landmarktest builds pose fixtures for tests. The neutral pose
// triggers no rule: level shoulders and hips, trunk and head centred, wrists
// at 1.5x shoulder width, straight legs in world space.
package landmarktest

import (
	"ProjectPoseForm/internal/entity"
	"ProjectPoseForm/pkg/landmark"
)

func NeutralPose() []entity.Landmark {
	seq := make([]entity.Landmark, landmark.PoseLandmarkCount)
	for i := range seq {
		seq[i] = entity.Landmark{X: 0.5, Y: 0.5}
	}

	seq[landmark.Nose] = entity.Landmark{X: 0.5, Y: 0.15}
	seq[landmark.LeftShoulder] = entity.Landmark{X: 0.4, Y: 0.3}
	seq[landmark.RightShoulder] = entity.Landmark{X: 0.6, Y: 0.3}
	seq[landmark.LeftElbow] = entity.Landmark{X: 0.375, Y: 0.4}
	seq[landmark.RightElbow] = entity.Landmark{X: 0.625, Y: 0.4}
	seq[landmark.LeftWrist] = entity.Landmark{X: 0.35, Y: 0.5}
	seq[landmark.RightWrist] = entity.Landmark{X: 0.65, Y: 0.5}
	seq[landmark.LeftHip] = entity.Landmark{X: 0.45, Y: 0.6}
	seq[landmark.RightHip] = entity.Landmark{X: 0.55, Y: 0.6}
	seq[landmark.LeftKnee] = entity.Landmark{X: 0.45, Y: 0.8}
	seq[landmark.RightKnee] = entity.Landmark{X: 0.55, Y: 0.8}
	seq[landmark.LeftAnkle] = entity.Landmark{X: 0.45, Y: 0.95}
	seq[landmark.RightAnkle] = entity.Landmark{X: 0.55, Y: 0.95}

	return seq
}

func NeutralWorld() []entity.WorldLandmark {
	seq := make([]entity.WorldLandmark, landmark.PoseLandmarkCount)

	seq[landmark.LeftHip] = entity.WorldLandmark{X: -0.1, Y: 0}
	seq[landmark.RightHip] = entity.WorldLandmark{X: 0.1, Y: 0}
	seq[landmark.LeftKnee] = entity.WorldLandmark{X: -0.1, Y: 0.45}
	seq[landmark.RightKnee] = entity.WorldLandmark{X: 0.1, Y: 0.45}
	seq[landmark.LeftAnkle] = entity.WorldLandmark{X: -0.1, Y: 0.9}
	seq[landmark.RightAnkle] = entity.WorldLandmark{X: 0.1, Y: 0.9}

	return seq
}

// MustNamed maps seq through the schema and panics on malformed input.
func MustNamed(seq []entity.Landmark) landmark.NamedPointSet {
	points, err := landmark.FromSequence(seq)
	if err != nil {
		panic(err)
	}
	return points
}

func MustNamedWorld(seq []entity.WorldLandmark) *landmark.NamedPointSet {
	points, err := landmark.FromWorldSequence(seq)
	if err != nil {
		panic(err)
	}
	return points
}
