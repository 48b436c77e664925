package glass

import "math"

// Lighting design constants. The key light is fixed at upper-left-front;
// it is part of the look, not user state.
var (
	// keyLight is the normalized key light direction.
	keyLight = Vec3{X: -0.4, Y: 0.6, Z: 1.0}.Normalize()

	// halfVector is the precomputed Blinn half-vector between the key
	// light and the orthographic view direction (0, 0, 1).
	halfVector = keyLight.Add(Vec3{Z: 1}).Normalize()
)

const (
	// specularExponent shapes the highlight into a very tight lobe.
	specularExponent = 80.0

	// specularIntensity scales the highlight contribution.
	specularIntensity = 0.45

	// dispersionScale converts the chromatic aberration slider into a
	// per-channel refraction index spread.
	dispersionScale = 12.0

	// minChannelIOR keeps the dispersed blue-channel index above 1 so
	// its eta stays well defined.
	minChannelIOR = 1.001

	// caThreshold is the slider value below which per-channel
	// dispersion is skipped entirely.
	caThreshold = 0.001
)

// refract bends incident direction i at a surface with unit normal n and
// relative index eta (outside over inside). The second return value is
// false on total internal reflection, where the refracted direction is
// undefined.
func refract(i, n Vec3, eta float64) (Vec3, bool) {
	cosi := n.Dot(i)
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return Vec3{}, false
	}
	return i.Mul(eta).Sub(n.Mul(eta*cosi + math.Sqrt(k))), true
}

// fresnelTerm is the cubic rim falloff: zero at normal incidence,
// growing as the normal tilts away from the viewer.
func fresnelTerm(n Vec3, strength float64) float64 {
	f := 1 - math.Max(n.Z, 0)
	return f * f * f * strength
}

// specularTerm is the Blinn highlight against the fixed key light,
// raised to a tight 80th-power lobe.
func specularTerm(n Vec3) float64 {
	d := math.Max(n.Dot(halfVector), 0)
	return math.Pow(d, specularExponent) * specularIntensity
}
