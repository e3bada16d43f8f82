package stroke

import "errors"

// ErrInvalidStart is returned when a contour begins with a cubic control
// point instead of an on-curve point.
var ErrInvalidStart = errors.New("stroke: contour starts with a cubic control point")

// ErrMalformedCubic is returned when a CubicControl tag is not followed
// by a second CubicControl tag and then an OnPoint tag.
var ErrMalformedCubic = errors.New("stroke: malformed cubic segment")
