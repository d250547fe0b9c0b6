package evaluator

import (
	"ProjectPoseForm/pkg/geometry"
	"ProjectPoseForm/pkg/landmark"
	"math"
)

// Measurements holds every geometric quantity the rule table reads. It is
// computed once per evaluation so each rule stays a plain predicate.
type Measurements struct {
	ShoulderTilt  float64
	HipTilt       float64
	TrunkOffset   float64
	HeadOffset    float64
	ShoulderWidth float64
	WristWidth    float64

	HasWorld       bool
	LeftKneeAngle  float64
	RightKneeAngle float64
	KneeAngleDiff  float64
}

func Measure(points landmark.NamedPointSet, world *landmark.NamedPointSet) Measurements {
	midShoulder := geometry.Midpoint(points.LeftShoulder, points.RightShoulder)
	midHip := geometry.Midpoint(points.LeftHip, points.RightHip)

	m := Measurements{
		ShoulderTilt:  math.Abs(points.LeftShoulder.Y - points.RightShoulder.Y),
		HipTilt:       math.Abs(points.LeftHip.Y - points.RightHip.Y),
		TrunkOffset:   math.Abs(midShoulder.X - midHip.X),
		HeadOffset:    math.Abs(points.Nose.X - midShoulder.X),
		ShoulderWidth: geometry.Distance(points.LeftShoulder, points.RightShoulder),
		WristWidth:    geometry.Distance(points.LeftWrist, points.RightWrist),
	}

	if world != nil {
		m.HasWorld = true
		m.LeftKneeAngle = geometry.AngleAt(world.LeftHip, world.LeftKnee, world.LeftAnkle)
		m.RightKneeAngle = geometry.AngleAt(world.RightHip, world.RightKnee, world.RightAnkle)
		m.KneeAngleDiff = math.Abs(m.LeftKneeAngle - m.RightKneeAngle)
	}

	return m
}
