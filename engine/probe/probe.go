// Package probe holds light probes: fixed sample points that store band 0 and band 1
// spherical harmonic lighting projected from the surrounding groups.
package probe

import (
	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/Carmen-Shannon/oxy-gi/engine/cluster"
)

// Zonal harmonic normalization constants for bands 0 and 1.
const (
	SHBand0 float32 = 0.282095
	SHBand1 float32 = 0.488603
)

// GroupInfluence is one entry of a probe's group table.
type GroupInfluence struct {
	Group     int
	Influence float32
}

// Probe is a sample point with four SH coefficients per color channel, ordered
// (band 0, band 1 x, band 1 y, band 1 z).
type Probe struct {
	Position [3]float32
	SH       [4][3]float32

	// Groups are the groups that light this probe, strongest first.
	Groups []GroupInfluence
}

// NumGroups returns the number of groups in the probe's table.
func (p *Probe) NumGroups() int {
	return len(p.Groups)
}

// Reset clears the SH coefficients.
func (p *Probe) Reset() {
	p.SH = [4][3]float32{}
}

// Accumulate projects light arriving from direction dir onto the SH basis.
//
// Parameters:
//   - light: the color to project
//   - dir: unit direction from the probe towards the light
func (p *Probe) Accumulate(light, dir [3]float32) {
	p.SH[0] = common.Add3(p.SH[0], common.Scale3(light, SHBand0))
	p.SH[1] = common.Add3(p.SH[1], common.Scale3(light, SHBand1*dir[0]))
	p.SH[2] = common.Add3(p.SH[2], common.Scale3(light, SHBand1*dir[1]))
	p.SH[3] = common.Add3(p.SH[3], common.Scale3(light, SHBand1*dir[2]))
}

// Evaluate reconstructs the stored signal along direction n, clamped at zero per channel.
//
// Parameters:
//   - n: unit direction to evaluate
//
// Returns:
//   - [3]float32: the reconstructed color
func (p *Probe) Evaluate(n [3]float32) [3]float32 {
	c := common.Scale3(p.SH[0], SHBand0)
	c = common.Add3(c, common.Scale3(p.SH[1], SHBand1*n[0]))
	c = common.Add3(c, common.Scale3(p.SH[2], SHBand1*n[1]))
	c = common.Add3(c, common.Scale3(p.SH[3], SHBand1*n[2]))
	for i := range c {
		c[i] = max(c[i], 0)
	}
	return c
}

// Project rebuilds every probe's SH coefficients from the TotalLight of the groups in
// its table, weighted by the stored influence.
//
// Parameters:
//   - probes: the probes to update
//   - groups: the group table after the radiosity pass
func Project(probes []Probe, groups []cluster.Group) {
	for pi := range probes {
		p := &probes[pi]
		p.Reset()
		for _, gi := range p.Groups {
			g := &groups[gi.Group]
			dir := common.Normalize3(common.Sub3(g.Center, p.Position))
			p.Accumulate(common.Scale3(g.TotalLight, gi.Influence), dir)
		}
	}
}

// Grid returns probes on a regular lattice spanning [lo, hi] with counts[i] samples along
// axis i. An axis with a count of 1 is sampled at its midpoint; counts below 1 are treated as 1.
//
// Parameters:
//   - lo: the lattice minimum corner
//   - hi: the lattice maximum corner
//   - counts: samples per axis
//
// Returns:
//   - []Probe: the probes in x-major, then y, then z order
func Grid(lo, hi [3]float32, counts [3]int) []Probe {
	for i := range counts {
		counts[i] = max(counts[i], 1)
	}
	coord := func(axis, i int) float32 {
		if counts[axis] == 1 {
			return (lo[axis] + hi[axis]) / 2
		}
		t := float32(i) / float32(counts[axis]-1)
		return lo[axis] + (hi[axis]-lo[axis])*t
	}

	probes := make([]Probe, 0, counts[0]*counts[1]*counts[2])
	for x := range counts[0] {
		for y := range counts[1] {
			for z := range counts[2] {
				probes = append(probes, Probe{Position: [3]float32{coord(0, x), coord(1, y), coord(2, z)}})
			}
		}
	}
	return probes
}
