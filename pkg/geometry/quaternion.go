package geometry

import "math"

// Quaternion represents a rotation
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// IdentityQuaternion returns the rotation that does nothing
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// QuaternionFromAxisAngle creates a rotation of angle radians around axis
func QuaternionFromAxisAngle(axis Vector3, angle float64) Quaternion {
	a := axis.Normalize()
	s := math.Sin(angle / 2)
	return Quaternion{X: a.X * s, Y: a.Y * s, Z: a.Z * s, W: math.Cos(angle / 2)}
}

// QuaternionFromEuler creates a rotation from XYZ-ordered euler angles
func QuaternionFromEuler(e Vector3) Quaternion {
	c1, s1 := math.Cos(e.X/2), math.Sin(e.X/2)
	c2, s2 := math.Cos(e.Y/2), math.Sin(e.Y/2)
	c3, s3 := math.Cos(e.Z/2), math.Sin(e.Z/2)
	return Quaternion{
		X: s1*c2*c3 + c1*s2*s3,
		Y: c1*s2*c3 - s1*c2*s3,
		Z: c1*c2*s3 + s1*s2*c3,
		W: c1*c2*c3 - s1*s2*s3,
	}
}

// QuaternionFromUnitVectors returns the shortest rotation taking from onto to
func QuaternionFromUnitVectors(from, to Vector3) Quaternion {
	r := from.Dot(to) + 1
	var q Quaternion
	if r < 1e-9 {
		// Opposite vectors, rotate around any orthogonal axis
		if math.Abs(from.X) > math.Abs(from.Z) {
			q = Quaternion{X: -from.Y, Y: from.X, Z: 0, W: 0}
		} else {
			q = Quaternion{X: 0, Y: -from.Z, Z: from.Y, W: 0}
		}
	} else {
		c := from.Cross(to)
		q = Quaternion{X: c.X, Y: c.Y, Z: c.Z, W: r}
	}
	return q.Normalize()
}

// Mul returns q * other, which applies other first and then q
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.X*other.W + q.W*other.X + q.Y*other.Z - q.Z*other.Y,
		Y: q.Y*other.W + q.W*other.Y + q.Z*other.X - q.X*other.Z,
		Z: q.Z*other.W + q.W*other.Z + q.X*other.Y - q.Y*other.X,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Inverse returns the conjugate of a unit quaternion
func (q Quaternion) Inverse() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Length returns the norm of the quaternion
func (q Quaternion) Length() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns the unit quaternion
func (q Quaternion) Normalize() Quaternion {
	l := q.Length()
	if l == 0 {
		return IdentityQuaternion()
	}
	return Quaternion{X: q.X / l, Y: q.Y / l, Z: q.Z / l, W: q.W / l}
}

// ToEuler converts the rotation to XYZ-ordered euler angles
func (q Quaternion) ToEuler() Vector3 {
	q = q.Normalize()
	// Rotation matrix elements needed for XYZ decomposition
	m11 := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	m12 := 2 * (q.X*q.Y - q.Z*q.W)
	m13 := 2 * (q.X*q.Z + q.Y*q.W)
	m22 := 1 - 2*(q.X*q.X+q.Z*q.Z)
	m23 := 2 * (q.Y*q.Z - q.X*q.W)
	m32 := 2 * (q.Y*q.Z + q.X*q.W)
	m33 := 1 - 2*(q.X*q.X+q.Y*q.Y)

	var e Vector3
	e.Y = math.Asin(math.Max(-1, math.Min(1, m13)))
	if math.Abs(m13) < 0.9999999 {
		e.X = math.Atan2(-m23, m33)
		e.Z = math.Atan2(-m12, m11)
	} else {
		e.X = math.Atan2(m32, m22)
		e.Z = 0
	}
	return e
}

// Slerp interpolates spherically between q (t=0) and other (t=1)
func (q Quaternion) Slerp(other Quaternion, t float64) Quaternion {
	cosHalf := q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
	if cosHalf < 0 {
		other = Quaternion{X: -other.X, Y: -other.Y, Z: -other.Z, W: -other.W}
		cosHalf = -cosHalf
	}
	if cosHalf >= 1-1e-9 {
		return q
	}
	half := math.Acos(cosHalf)
	sinHalf := math.Sqrt(1 - cosHalf*cosHalf)
	a := math.Sin((1-t)*half) / sinHalf
	b := math.Sin(t*half) / sinHalf
	return Quaternion{
		X: q.X*a + other.X*b,
		Y: q.Y*a + other.Y*b,
		Z: q.Z*a + other.Z*b,
		W: q.W*a + other.W*b,
	}.Normalize()
}

// Equals reports whether both quaternions describe the same rotation within eps
func (q Quaternion) Equals(other Quaternion, eps float64) bool {
	d := math.Abs(q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W)
	return 1-d <= eps
}
