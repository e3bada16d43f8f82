package outline

import "errors"

var (
	errEmptyOutlineHasContourlessPoints = errors.New("outline: points present with no contour boundary")
	errContoursNotIncreasing            = errors.New("outline: contour end indices must be strictly increasing")
	errEmptyContour                     = errors.New("outline: contour has zero points")
	errContourStartsWithControl         = errors.New("outline: contour begins with a cubic control point")
	errMalformedCubic                   = errors.New("outline: cubic control tag not followed by control+on-point")
)
