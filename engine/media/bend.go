package media

import (
	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/chewxy/math32"
)

// CompactBendFactor attenuates the bend on compact viewports.
const CompactBendFactor = 0.3

// Bend places x on a circular arc through (-halfWidth, 0), (0, -bend) and (halfWidth, 0).
// Positive bend curves the belt downward at the edges (y = -arc); negative bend curves it upward.
// Points beyond halfWidth keep the arc height and tilt reached at the edge.
//
// Parameters:
//   - x: the horizontal position in world units
//   - bend: the signed bend magnitude, 0 for a flat belt
//   - halfWidth: half the visible viewport width in world units
//
// Returns:
//   - y: the vertical displacement
//   - rotZ: the rotation around Z in radians that keeps the plane tangent to the arc
func Bend(x, bend, halfWidth float32) (y, rotZ float32) {
	if bend == 0 || halfWidth <= 0 {
		return 0, 0
	}
	b := math32.Abs(bend)
	r := (halfWidth*halfWidth + b*b) / (2 * b)
	effX := math32.Min(math32.Abs(x), halfWidth)
	arc := r - math32.Sqrt(r*r-effX*effX)
	angle := math32.Asin(effX / r)

	if bend > 0 {
		return -arc, -common.Sign(x) * angle
	}
	return arc, common.Sign(x) * angle
}

// CoverRatio is the uv scale that crops an image of size (iw, ih) to cover a plane of size (pw, ph)
// without distortion. Non-positive sizes give the identity (1, 1).
//
// Parameters:
//   - pw, ph: the plane size
//   - iw, ih: the image size
//
// Returns:
//   - [2]float32: the uv scale applied around the uv center
func CoverRatio(pw, ph, iw, ih float32) [2]float32 {
	if pw <= 0 || ph <= 0 || iw <= 0 || ih <= 0 {
		return [2]float32{1, 1}
	}
	return [2]float32{
		math32.Min((pw/ph)/(iw/ih), 1),
		math32.Min((ph/pw)/(ih/iw), 1),
	}
}
