package radiosity

// DirectLight is the per-frame lighting policy that seeds the solve.
type DirectLight interface {
	// Direct returns the light arriving at a patch before any bounce.
	//
	// Parameters:
	//   - position: the patch center
	//   - normal: the patch normal
	//
	// Returns:
	//   - [3]float32: the incident color
	Direct(position, normal [3]float32) [3]float32
}

// DirectLightFunc adapts a plain function to the DirectLight interface.
type DirectLightFunc func(position, normal [3]float32) [3]float32

func (f DirectLightFunc) Direct(position, normal [3]float32) [3]float32 {
	return f(position, normal)
}

// NoLight is a DirectLight that is zero everywhere.
var NoLight DirectLight = DirectLightFunc(func(_, _ [3]float32) [3]float32 {
	return [3]float32{}
})
