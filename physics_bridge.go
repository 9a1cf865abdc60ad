package scenekit

import (
	"unsafe"

	"github.com/g3n/engine/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Physics bodies keep their state in math32 types while the renderer and the
// rest of the engine use mgl32. The helpers below cross that boundary.
//
// math32.Vector3 and mgl32.Vec3 are both three packed float32s, so vectors can
// be viewed in place. The array lengths below underflow and stop the build if
// either type changes layout.
var (
	_ [unsafe.Sizeof(math32.Vector3{}) - unsafe.Sizeof(mgl32.Vec3{})]struct{}
	_ [unsafe.Sizeof(mgl32.Vec3{}) - unsafe.Sizeof(math32.Vector3{})]struct{}
	_ [unsafe.Alignof(math32.Vector3{}) - unsafe.Alignof(mgl32.Vec3{})]struct{}
	_ [unsafe.Alignof(mgl32.Vec3{}) - unsafe.Alignof(math32.Vector3{})]struct{}
	_ [unsafe.Offsetof(math32.Vector3{}.X) - 0]struct{}
	_ [0 - unsafe.Offsetof(math32.Vector3{}.X)]struct{}
	_ [unsafe.Offsetof(math32.Vector3{}.Y) - 4]struct{}
	_ [4 - unsafe.Offsetof(math32.Vector3{}.Y)]struct{}
	_ [unsafe.Offsetof(math32.Vector3{}.Z) - 8]struct{}
	_ [8 - unsafe.Offsetof(math32.Vector3{}.Z)]struct{}
)

// mgl32.Quat stores W first and math32.Quaternion stores it last, so
// quaternions are always copied.

// VecView returns v as an mgl32.Vec3 sharing the same memory. Writes through
// either pointer are visible through the other. The caller must not mutate
// through both concurrently.
func VecView(v *math32.Vector3) *mgl32.Vec3 {
	return (*mgl32.Vec3)(unsafe.Pointer(v))
}

// PhysicsVecView is the mirror of VecView.
func PhysicsVecView(v *mgl32.Vec3) *math32.Vector3 {
	return (*math32.Vector3)(unsafe.Pointer(v))
}

// VecSliceView reinterprets a slice of physics vectors without copying.
func VecSliceView(vs []math32.Vector3) []mgl32.Vec3 {
	if len(vs) == 0 {
		return nil
	}
	return unsafe.Slice((*mgl32.Vec3)(unsafe.Pointer(unsafe.SliceData(vs))), len(vs))
}

func PhysicsVecSliceView(vs []mgl32.Vec3) []math32.Vector3 {
	if len(vs) == 0 {
		return nil
	}
	return unsafe.Slice((*math32.Vector3)(unsafe.Pointer(unsafe.SliceData(vs))), len(vs))
}

func VecFromPhysics(v math32.Vector3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func VecToPhysics(v mgl32.Vec3) math32.Vector3 {
	return math32.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func QuatFromPhysics(q math32.Quaternion) mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

func QuatToPhysics(q mgl32.Quat) math32.Quaternion {
	return math32.Quaternion{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

// CopyQuatsFromPhysics converts min(len(dst), len(src)) quaternions and
// returns the number converted.
func CopyQuatsFromPhysics(dst []mgl32.Quat, src []math32.Quaternion) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = QuatFromPhysics(src[i])
	}
	return n
}

func CopyQuatsToPhysics(dst []math32.Quaternion, src []mgl32.Quat) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = QuatToPhysics(src[i])
	}
	return n
}
