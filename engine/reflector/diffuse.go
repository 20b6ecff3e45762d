package reflector

// DefaultDiffuse is the reflectance applied to every patch when no rule is configured.
var DefaultDiffuse = [3]float32{0.7, 0.7, 0.7}

// DiffuseRule derives a patch's reflectance from its geometry.
type DiffuseRule func(position, normal [3]float32) [3]float32

// ConstantDiffuse returns a rule that assigns the same color to every patch.
//
// Parameters:
//   - color: the reflectance color
//
// Returns:
//   - DiffuseRule: the constant rule
func ConstantDiffuse(color [3]float32) DiffuseRule {
	return func(_, _ [3]float32) [3]float32 {
		return color
	}
}

// WallTintDiffuse tints walls facing +X red and walls facing -X green, leaving every
// other surface white, all scaled by 0.7. This is the classic Cornell-box palette.
func WallTintDiffuse(_, normal [3]float32) [3]float32 {
	switch {
	case normal[0] > 0.9:
		return [3]float32{0.7, 0, 0}
	case normal[0] < -0.9:
		return [3]float32{0, 0.7, 0}
	default:
		return DefaultDiffuse
	}
}
