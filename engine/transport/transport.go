// Package transport computes radiative transport coefficients between reflector patches
// and from patches to probe positions, and reduces them into the group and per-patch
// neighbor tables the radiosity iterator consumes.
package transport

import (
	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/chewxy/math32"
)

const (
	// DefaultAttenuation is the k constant of the patch-to-patch soft inverse square falloff.
	DefaultAttenuation float32 = 2.0

	// LegacyAttenuation is the k constant of the older single bounce variant.
	LegacyAttenuation float32 = 5.0

	// DefaultSignificance is the transport at or below which a pair is discarded.
	DefaultSignificance float32 = 0.001

	// DefaultSurfaceOffset lifts visibility ray endpoints off their source surface.
	DefaultSurfaceOffset float32 = 0.01

	// DefaultMaxNeighbors caps the neighbor groups kept per group.
	DefaultMaxNeighbors = 16

	// DefaultMaxProbeGroups caps the groups kept per probe.
	DefaultMaxProbeGroups = 32
)

// DiscDisc returns the transport from disc A to disc B:
//
//	k * cosA * cosB / (pi * d^2 + k)
//
// It is exactly 0 when either disc faces away from the other or the discs coincide.
//
// Parameters:
//   - aPos, aN: position and unit normal of the emitting disc
//   - bPos, bN: position and unit normal of the receiving disc
//   - k: the attenuation constant
//
// Returns:
//   - float32: the non-negative transport coefficient
func DiscDisc(aPos, aN, bPos, bN [3]float32, k float32) float32 {
	d := common.Sub3(bPos, aPos)
	dir := common.Normalize3(d)

	cosA := common.Dot3(aN, dir)
	if cosA <= 0 {
		return 0
	}
	cosB := -common.Dot3(bN, dir)
	if cosB <= 0 {
		return 0
	}
	return k * cosA * cosB / (math32.Pi*common.LengthSquared3(d) + k)
}

// DiscPos returns the transport from disc A to point p. It is DiscDisc without the
// receiver's cosine term.
func DiscPos(aPos, aN, p [3]float32, k float32) float32 {
	d := common.Sub3(p, aPos)
	cosA := common.Dot3(aN, common.Normalize3(d))
	if cosA <= 0 {
		return 0
	}
	return k * cosA / (math32.Pi*common.LengthSquared3(d) + k)
}
