package scenekit

import (
	"testing"

	"github.com/g3n/engine/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransform_SyncFromPhysics(t *testing.T) {
	tr := NewTransform()
	tr.Dirty = false

	pos := math32.Vector3{X: 1, Y: 2, Z: 3}
	rot := math32.Quaternion{X: 0, Y: 0.7071068, Z: 0, W: 0.7071068}

	if !tr.SyncFromPhysics(&pos, &rot) {
		t.Fatalf("First sync should report a change")
	}
	assert.True(t, tr.Dirty)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, tr.Position)
	assert.Equal(t, mgl32.Quat{W: 0.7071068, V: mgl32.Vec3{0, 0.7071068, 0}}, tr.Rotation)

	tr.Dirty = false
	if tr.SyncFromPhysics(&pos, &rot) {
		t.Errorf("Unchanged pose should not report a change")
	}
	assert.False(t, tr.Dirty)

	pos.X = 5
	assert.True(t, tr.SyncFromPhysics(&pos, nil))
	assert.Equal(t, float32(5), tr.Position.X())

	assert.False(t, tr.SyncFromPhysics(nil, nil))
}

func TestTransform_WriteToPhysics(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{4, 5, 6}
	tr.Rotation = mgl32.Quat{W: 0.5, V: mgl32.Vec3{0.5, -0.5, 0.5}}

	var pos math32.Vector3
	var rot math32.Quaternion
	tr.WriteToPhysics(&pos, &rot)

	assert.Equal(t, math32.Vector3{X: 4, Y: 5, Z: 6}, pos)
	assert.Equal(t, math32.Quaternion{X: 0.5, Y: -0.5, Z: 0.5, W: 0.5}, rot)

	other := NewTransform()
	other.Dirty = false
	other.SyncFromPhysics(&pos, &rot)
	assert.Equal(t, tr.Position, other.Position)
	assert.Equal(t, tr.Rotation, other.Rotation)
}
