package landmark

import (
	"errors"

	"ProjectPoseForm/internal/entity"
	"ProjectPoseForm/pkg/geometry"
)

// PoseLandmarkCount is the number of landmarks the pose model emits per frame.
const PoseLandmarkCount = 33

const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28
)

// RequiredLength is the shortest sequence that covers every named index.
const RequiredLength = RightAnkle + 1

// NamedPointSet is the subset of a pose observation the rules look at.
type NamedPointSet struct {
	Nose          geometry.Point
	LeftShoulder  geometry.Point
	RightShoulder geometry.Point
	LeftElbow     geometry.Point
	RightElbow    geometry.Point
	LeftWrist     geometry.Point
	RightWrist    geometry.Point
	LeftHip       geometry.Point
	RightHip      geometry.Point
	LeftKnee      geometry.Point
	RightKnee     geometry.Point
	LeftAnkle     geometry.Point
	RightAnkle    geometry.Point
}

// FromSequence maps an indexed landmark sequence onto named points.
func FromSequence(seq []entity.Landmark) (NamedPointSet, error) {
	if len(seq) < RequiredLength {
		return NamedPointSet{}, &MalformedInputError{Got: len(seq), Want: RequiredLength}
	}

	at := func(i int) geometry.Point {
		return geometry.Point{X: seq[i].X, Y: seq[i].Y}
	}

	return NamedPointSet{
		Nose:          at(Nose),
		LeftShoulder:  at(LeftShoulder),
		RightShoulder: at(RightShoulder),
		LeftElbow:     at(LeftElbow),
		RightElbow:    at(RightElbow),
		LeftWrist:     at(LeftWrist),
		RightWrist:    at(RightWrist),
		LeftHip:       at(LeftHip),
		RightHip:      at(RightHip),
		LeftKnee:      at(LeftKnee),
		RightKnee:     at(RightKnee),
		LeftAnkle:     at(LeftAnkle),
		RightAnkle:    at(RightAnkle),
	}, nil
}

// FromWorldSequence is FromSequence for world-space landmarks. A nil or empty
// sequence means the frame carried no world data and yields (nil, nil).
func FromWorldSequence(seq []entity.WorldLandmark) (*NamedPointSet, error) {
	if len(seq) == 0 {
		return nil, nil
	}

	points, err := FromSequence(seq)
	if err != nil {
		var malformed *MalformedInputError
		if errors.As(err, &malformed) {
			malformed.World = true
		}
		return nil, err
	}

	return &points, nil
}
