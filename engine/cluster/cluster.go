// Package cluster partitions reflector patches into spatially coherent, co-planar groups
// so that per-frame light propagation runs between groups instead of between every pair
// of patches.
package cluster

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gi/common"
	"github.com/Carmen-Shannon/oxy-gi/engine/reflector"
)

// ErrNotPartition is returned by Validate when group membership does not cover every
// reflector exactly once.
var ErrNotPartition = errors.New("groups do not partition the reflectors")

const (
	// DefaultPlaneDistance is the largest perpendicular distance from the group plane a
	// candidate may lie at.
	DefaultPlaneDistance float32 = 0.1

	// DefaultNormalAlignment is the smallest dot product between a candidate's normal and
	// the group normal.
	DefaultNormalAlignment float32 = 0.95

	// DefaultRadius bounds the distance from the group seed to any member.
	DefaultRadius float32 = 3.0

	// DefaultMaxGrowIterations caps how many members are added to a group after its seed.
	DefaultMaxGrowIterations = 128
)

// Group is a cluster of co-planar reflectors. Membership and geometry are fixed after
// Build; neighbor tables are filled by the transport solver; light fields are rewritten
// every frame.
type Group struct {
	// Reflectors are the member patch indices in the order they were added.
	Reflectors []int

	// Normal is the seed patch normal, shared by all members within tolerance.
	Normal [3]float32

	// Center is the mean position of the members.
	Center [3]float32

	// Plane is the seed plane (Normal, dot(seed.Position, Normal)).
	Plane common.Plane

	// Neighbors are the indices of the groups with the strongest transport into this
	// one, strongest first, at most the configured cap.
	Neighbors []int

	// NeighborsInfluence is, per neighbor slot, the average over members of the summed
	// patch-level contribution from that neighbor.
	NeighborsInfluence []float32

	// CurrentLight is the mean member CurrentLight of the current bounce.
	CurrentLight [3]float32

	// TotalLight accumulates CurrentLight over all bounces of the frame.
	TotalLight [3]float32
}

// NumNeighbors returns the number of selected neighbor groups.
func (g *Group) NumNeighbors() int {
	return len(g.Neighbors)
}

// NeighborSlot returns the slot of group gi in this group's neighbor table.
//
// Returns:
//   - int: the slot index, or -1 when gi is not a neighbor
func (g *Group) NeighborSlot(gi int) int {
	for slot, n := range g.Neighbors {
		if n == gi {
			return slot
		}
	}
	return -1
}

// Options holds the clustering thresholds.
type Options struct {
	PlaneDistance     float32
	NormalAlignment   float32
	Radius            float32
	MaxGrowIterations int
}

// DefaultOptions returns the thresholds tuned for room-scale scenes in world units.
func DefaultOptions() Options {
	return Options{
		PlaneDistance:     DefaultPlaneDistance,
		NormalAlignment:   DefaultNormalAlignment,
		Radius:            DefaultRadius,
		MaxGrowIterations: DefaultMaxGrowIterations,
	}
}

// Build greedily partitions reflectors into groups and assigns each reflector's Group.
// The result depends only on the input order: the first ungrouped reflector seeds each
// group, which then repeatedly absorbs the closest qualifying ungrouped reflector
// (closest to the seed, lowest index on ties) until none qualifies or the iteration cap
// is reached.
//
// Reflectors that are already grouped are reset before clustering.
//
// Parameters:
//   - reflectors: the patch table, updated in place
//   - opts: the clustering thresholds
//
// Returns:
//   - []Group: the groups, indexed by the GroupID stored on each member
func Build(reflectors []reflector.Reflector, opts Options) []Group {
	for i := range reflectors {
		reflectors[i].Group = reflector.Unassigned()
	}

	var groups []Group
	radiusSq := opts.Radius * opts.Radius
	next := 0

	for grouped := 0; grouped < len(reflectors); {
		for reflectors[next].Group.Valid() {
			next++
		}
		seed := &reflectors[next]
		gi := len(groups)

		g := Group{
			Reflectors: []int{next},
			Normal:     seed.Normal,
			Plane:      common.NewPlaneFromPoint(seed.Normal, seed.Position),
		}
		seed.Group = reflector.Assigned(gi)
		grouped++

		for range opts.MaxGrowIterations {
			closest := -1
			closestDist := radiusSq
			for i := range reflectors {
				r := &reflectors[i]
				if r.Group.Valid() {
					continue
				}
				if g.Plane.DistanceTo(r.Position) > opts.PlaneDistance {
					continue
				}
				if common.Dot3(r.Normal, g.Normal) < opts.NormalAlignment {
					continue
				}
				if d := common.LengthSquared3(common.Sub3(seed.Position, r.Position)); d < closestDist {
					closest = i
					closestDist = d
				}
			}
			if closest < 0 {
				break
			}
			reflectors[closest].Group = reflector.Assigned(gi)
			g.Reflectors = append(g.Reflectors, closest)
			grouped++
		}

		groups = append(groups, g)
	}

	for gi := range groups {
		g := &groups[gi]
		var sum [3]float32
		for _, ri := range g.Reflectors {
			sum = common.Add3(sum, reflectors[ri].Position)
		}
		g.Center = common.Scale3(sum, 1/float32(len(g.Reflectors)))
	}

	common.Logger().Debug("cluster: grouped reflectors", "reflectors", len(reflectors), "groups", len(groups))

	return groups
}

// Validate checks that groups partition n reflectors and that every reflector's
// GroupID agrees with the group that lists it.
//
// Parameters:
//   - reflectors: the patch table
//   - groups: the groups produced by Build
//
// Returns:
//   - error: a wrapped ErrNotPartition describing the first violation, or nil
func Validate(reflectors []reflector.Reflector, groups []Group) error {
	seen := make([]bool, len(reflectors))
	for gi := range groups {
		for _, ri := range groups[gi].Reflectors {
			if ri < 0 || ri >= len(reflectors) {
				return fmt.Errorf("group %d lists reflector %d out of range: %w", gi, ri, ErrNotPartition)
			}
			if seen[ri] {
				return fmt.Errorf("reflector %d listed twice: %w", ri, ErrNotPartition)
			}
			seen[ri] = true
			if got, ok := reflectors[ri].Group.Get(); !ok || got != gi {
				return fmt.Errorf("reflector %d in group %d records group %v: %w", ri, gi, reflectors[ri].Group, ErrNotPartition)
			}
		}
	}
	for ri, ok := range seen {
		if !ok {
			return fmt.Errorf("reflector %d is in no group: %w", ri, ErrNotPartition)
		}
	}
	return nil
}
