package glass

import "math"

// Height-field shape constants. These are empirically tuned "look"
// constants, not physical quantities; changing them changes how steep
// and how glassy the dome reads.
const (
	// slopeGain amplifies the height gradient into a surface slope
	// before normalization. Larger values read as a steeper dome.
	slopeGain = 50.0

	// heightEps keeps the squircle base strictly positive at the
	// silhouette so the quarter power stays defined.
	heightEps = 1e-6

	// slopeClamp bounds the height derivative where the base
	// approaches zero, exactly at the silhouette.
	slopeClamp = 0.08
)

// Surface is the per-pixel output of the height-field estimator: the
// parametrized dome coordinate, the height, its pixel-space gradient and
// the unit surface normal. Values are recomputed fresh for every pixel
// and never stored across frames.
type Surface struct {
	// T is the combined dome parameter in [0, 1]: 1 at the panel
	// center, 0 at and beyond the silhouette.
	T float64

	// Height is the squircle height profile in [0, 1]: flat near the
	// center, dropping steeply at the silhouette.
	Height float64

	// Grad is the height gradient in pixel space, pointing downslope.
	Grad Vec2

	// Normal is the unit surface normal. Z is always positive: the
	// surface faces the viewer everywhere.
	Normal Vec3
}

// DomeAt computes the smooth convex dome surface at panel-local point p.
//
// The height field is a product of two per-axis parabola falloffs pushed
// through a quarter-power squircle profile. The product form is
// analytically smooth with no ridge discontinuities, unlike min/max
// medial-axis constructions, and deliberately does not touch the
// rounded-rectangle SDF: SDF-gradient normals go pyramidal at the
// corners.
func DomeAt(p Vec2, panel Panel) Surface {
	hs := panel.Half()

	// Per-axis normalized distance from center, saturated at the edge.
	qx := math.Min(math.Abs(p.X)/hs.X, 1)
	qy := math.Min(math.Abs(p.Y)/hs.Y, 1)

	// Parabola falloff per axis, then the smooth product parameter.
	ax := math.Max(1-qx*qx, 0)
	ay := math.Max(1-qy*qy, 0)
	t := ax * ay

	// Squircle profile: ht = (1 - (1-t)^4)^(1/4).
	om := 1 - t
	om2 := om * om
	base := math.Max(1-om2*om2, heightEps)
	ht := math.Sqrt(math.Sqrt(base))

	// d(ht)/d(t) = (1-t)^3 / base^(3/4), clamped where base -> eps so
	// the derivative saturates at the silhouette instead of diverging.
	hp := om * om2 / math.Max(ht*ht*ht, slopeClamp)

	// Chain rule back through the per-axis parabolas. The signs make
	// the gradient point outward, downslope.
	grad := Vec2{
		X: hp * (-2 * p.X / (hs.X * hs.X)) * ay,
		Y: hp * (-2 * p.Y / (hs.Y * hs.Y)) * ax,
	}

	n := Vec3{X: -grad.X * slopeGain, Y: -grad.Y * slopeGain, Z: 1}.Normalize()

	return Surface{T: t, Height: ht, Grad: grad, Normal: n}
}
