package canvas

import "math"

// Rotate rotates the point (x, y) about the origin by an angle in degrees.
// The sign convention matches CSS rotate(): with y increasing downward,
// positive angles turn clockwise on screen. Angles outside [0, 360) are
// fine; the trig handles them directly without normalization.
func Rotate(x, y, angleDeg float64) (float64, float64) {
	rad := angleDeg * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return x*cos - y*sin, x*sin + y*cos
}

// InverseRotate undoes Rotate for the same angle.
func InverseRotate(x, y, angleDeg float64) (float64, float64) {
	return Rotate(x, y, -angleDeg)
}

// RotatedBounds returns the width and height of the axis-aligned bounding
// box of a width×height rectangle rotated by angleDeg. Used to offset a
// dragged node's ghost so its unrotated footprint stays under the cursor.
func RotatedBounds(width, height, angleDeg float64) (float64, float64) {
	rad := angleDeg * math.Pi / 180
	cos := math.Abs(math.Cos(rad))
	sin := math.Abs(math.Sin(rad))
	return width*cos + height*sin, width*sin + height*cos
}
