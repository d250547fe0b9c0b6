package entity

// Landmark is a single pose point in normalized frame coordinates.
// X and Y are in [0,1] with the origin at the top-left of the frame.
type Landmark struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z,omitempty"`
	Visibility *float64 `json:"visibility,omitempty"`
}

// WorldLandmark has the same shape as Landmark but is expressed in meters
// relative to the hip center.
type WorldLandmark = Landmark
