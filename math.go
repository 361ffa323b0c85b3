package cosmic

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	deg2rad = math.Pi / 180
)

// unit returns the unit vector of a given vector, or the zero vector when the
// input has no direction.
func unit(v mgl64.Vec3) mgl64.Vec3 {
	n := v.Len()
	if n < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / n)
}

// finite returns whether every component of the vector is a real number.
func finite(v mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}

// finiteScalar returns whether the value is a real number.
func finiteScalar(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// integrateOrientation advances an orientation quaternion by the body angular
// velocity over dt using the quaternion derivative q' = q + 0.5*ω_quat*q*dt,
// and renormalizes to counter drift.
func integrateOrientation(q mgl64.Quat, ω mgl64.Vec3, dt float64) mgl64.Quat {
	ωq := mgl64.Quat{W: 0, V: ω}
	q = q.Add(ωq.Mul(q).Scale(0.5 * dt))
	return normalizeQuat(q)
}

// normalizeQuat returns the unit quaternion, resetting to identity when the
// magnitude has collapsed below numerical usefulness.
func normalizeQuat(q mgl64.Quat) mgl64.Quat {
	if q.Len() < 1e-12 {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}

// Deg2rad converts degrees to radians, and enforces only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforces only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}
