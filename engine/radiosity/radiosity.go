// Package radiosity runs the per-frame light solve: it seeds every patch with its direct
// light and then propagates light between groups for a fixed number of Jacobi-style
// bounces, accumulating TotalLight on patches and groups.
package radiosity

import (
	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/Carmen-Shannon/oxy-gi/engine/cluster"
	"github.com/Carmen-Shannon/oxy-gi/engine/compute"
	"github.com/Carmen-Shannon/oxy-gi/engine/reflector"
)

// DefaultBounces is the number of propagation sweeps per frame.
const DefaultBounces = 2

// Iterator runs the per-frame radiosity solve over tables produced by the transport solver.
type Iterator interface {
	// Iterate recomputes CurrentLight and TotalLight of every reflector and group.
	//
	// Parameters:
	//   - reflectors: the patch table
	//   - groups: the group table with neighbor tables filled
	//   - direct: the lighting policy, nil is treated as NoLight
	Iterate(reflectors []reflector.Reflector, groups []cluster.Group, direct DirectLight)

	// Bounces returns the number of propagation sweeps per Iterate call.
	//
	// Returns:
	//   - int: the bounce count
	Bounces() int

	// Mode returns the propagation mode.
	//
	// Returns:
	//   - Mode: the active mode
	Mode() Mode

	// SetMode switches the propagation mode for subsequent Iterate calls.
	//
	// Parameters:
	//   - mode: the new mode
	SetMode(mode Mode)
}

type iteratorImpl struct {
	bounces    int
	mode       Mode
	dispatcher compute.Dispatcher
}

var _ Iterator = &iteratorImpl{}

func (it *iteratorImpl) Bounces() int {
	return it.bounces
}

func (it *iteratorImpl) Mode() Mode {
	return it.mode
}

func (it *iteratorImpl) SetMode(mode Mode) {
	it.mode = mode
}

func (it *iteratorImpl) Iterate(reflectors []reflector.Reflector, groups []cluster.Group, direct DirectLight) {
	if direct == nil {
		direct = NoLight
	}

	for gi := range groups {
		groups[gi].CurrentLight = [3]float32{}
		groups[gi].TotalLight = [3]float32{}
	}

	it.dispatcher.For(len(reflectors), func(lo, hi int) {
		for ri := lo; ri < hi; ri++ {
			r := &reflectors[ri]
			r.CurrentLight = common.Mul3(r.Diffuse, direct.Direct(r.Position, r.Normal))
			r.TotalLight = r.CurrentLight
		}
	})

	for range it.bounces {
		// Group light must be complete before any group reads a neighbor's CurrentLight;
		// each For call returns only after all its chunks finish.
		it.dispatcher.For(len(groups), func(lo, hi int) {
			for gi := lo; gi < hi; gi++ {
				gatherGroup(reflectors, &groups[gi])
			}
		})

		mode := it.mode
		it.dispatcher.For(len(groups), func(lo, hi int) {
			for gi := lo; gi < hi; gi++ {
				if mode == ModeSeparate {
					propagateSeparate(reflectors, groups, gi)
				} else {
					propagateAggregate(reflectors, groups, gi)
				}
			}
		})
	}
}

// gatherGroup sets the group's CurrentLight to the unweighted member mean and adds it
// to the group's TotalLight.
func gatherGroup(reflectors []reflector.Reflector, g *cluster.Group) {
	if len(g.Reflectors) == 0 {
		g.CurrentLight = [3]float32{}
		return
	}
	var sum [3]float32
	for _, ri := range g.Reflectors {
		sum = common.Add3(sum, reflectors[ri].CurrentLight)
	}
	n := float32(len(g.Reflectors))
	g.CurrentLight = [3]float32{sum[0] / n, sum[1] / n, sum[2] / n}
	g.TotalLight = common.Add3(g.TotalLight, g.CurrentLight)
}

// propagateAggregate gives every member of group gi the influence-weighted sum of its
// neighbor groups' light.
func propagateAggregate(reflectors []reflector.Reflector, groups []cluster.Group, gi int) {
	g := &groups[gi]
	var in [3]float32
	for slot, nb := range g.Neighbors {
		in = common.Add3(in, common.Scale3(groups[nb].CurrentLight, g.NeighborsInfluence[slot]))
	}
	for _, ri := range g.Reflectors {
		receive(&reflectors[ri], in)
	}
}

// propagateSeparate weights each neighbor group's light by the member's own contribution.
func propagateSeparate(reflectors []reflector.Reflector, groups []cluster.Group, gi int) {
	g := &groups[gi]
	for _, ri := range g.Reflectors {
		r := &reflectors[ri]
		var in [3]float32
		for slot, nb := range g.Neighbors {
			if slot >= len(r.NeighborContribution) {
				break
			}
			in = common.Add3(in, common.Scale3(groups[nb].CurrentLight, r.NeighborContribution[slot]))
		}
		receive(r, in)
	}
}

// receive replaces the patch's CurrentLight with the reflected part of in and
// accumulates it into TotalLight.
func receive(r *reflector.Reflector, in [3]float32) {
	r.CurrentLight = common.Mul3(r.Diffuse, in)
	r.TotalLight = common.Add3(r.TotalLight, r.CurrentLight)
}
