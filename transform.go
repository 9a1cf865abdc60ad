package scenekit

import (
	"github.com/g3n/engine/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Dirty    bool
}

func NewTransform() *Transform {
	return &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Dirty:    true,
	}
}

// SyncFromPhysics copies a physics body pose into the transform, called once
// per body per frame. Nil arguments leave that part of the pose untouched.
// Returns true and marks the transform dirty if anything changed.
func (t *Transform) SyncFromPhysics(pos *math32.Vector3, rot *math32.Quaternion) bool {
	changed := false
	if pos != nil {
		if p := *VecView(pos); p != t.Position {
			t.Position = p
			changed = true
		}
	}
	if rot != nil {
		if q := QuatFromPhysics(*rot); q != t.Rotation {
			t.Rotation = q
			changed = true
		}
	}
	if changed {
		t.Dirty = true
	}
	return changed
}

// WriteToPhysics pushes the transform pose back into a physics body, e.g. after
// an editor move.
func (t *Transform) WriteToPhysics(pos *math32.Vector3, rot *math32.Quaternion) {
	if pos != nil {
		*VecView(pos) = t.Position
	}
	if rot != nil {
		*rot = QuatToPhysics(t.Rotation)
	}
}
