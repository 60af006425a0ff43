package geometry

// Transform is a translation, rotation and scale applied in TRS order
type Transform struct {
	Position Vector3
	Rotation Quaternion
	Scale    Vector3
}

// IdentityTransform returns the transform that leaves points unchanged
func IdentityTransform() Transform {
	return Transform{Rotation: IdentityQuaternion(), Scale: Vector3{X: 1, Y: 1, Z: 1}}
}

// Apply maps a point from the local frame into the parent frame
func (t Transform) Apply(p Vector3) Vector3 {
	return p.Multiply(t.Scale).ApplyQuaternion(t.Rotation).Add(t.Position)
}

// ApplyInverse maps a point from the parent frame into the local frame
func (t Transform) ApplyInverse(p Vector3) Vector3 {
	return p.Sub(t.Position).ApplyQuaternion(t.Rotation.Inverse()).Divide(t.Scale)
}

// Compose returns the transform of child expressed in the parent frame of t.
// Non-uniform scale on t combined with a rotated child cannot be represented
// exactly and is approximated by scaling the child position only.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Position: t.Apply(child.Position),
		Rotation: t.Rotation.Mul(child.Rotation).Normalize(),
		Scale:    t.Scale.Multiply(child.Scale),
	}
}

// Relative returns the transform that, composed with t, yields world
func (t Transform) Relative(world Transform) Transform {
	inv := t.Rotation.Inverse()
	return Transform{
		Position: t.ApplyInverse(world.Position),
		Rotation: inv.Mul(world.Rotation).Normalize(),
		Scale:    world.Scale.Divide(t.Scale),
	}
}
