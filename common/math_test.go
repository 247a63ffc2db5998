package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func viewProjection(eye [3]float32) [16]float32 {
	var view, proj, vp [16]float32
	LookAt(view[:], eye[0], eye[1], eye[2], 0, 0, 0, 0, 1, 0)
	Perspective(proj[:], math32.Pi/4, 1, 0.1, 100)
	Mul4(vp[:], proj[:], view[:])
	return vp
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	Translation(m[:], 1, 2, 3)
	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)
}

func TestTranslation(t *testing.T) {
	var m [16]float32
	Translation(m[:], 4, 5, 6)
	assert.Equal(t, [3]float32{4, 5, 6}, [3]float32{m[12], m[13], m[14]})
	assert.Equal(t, float32(1), m[15])
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 0, 0, 5, 0, 0, 0, 0, 1, 0)
	assert.InDelta(t, 0, view[12], 1e-6)
	assert.InDelta(t, 0, view[13], 1e-6)
	assert.InDelta(t, -5, view[14], 1e-6)
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))
	assert.Len(t, SliceToBytes([]float32{1, 2, 3, 4}), 16)
}

func TestFrustumContainsSphere(t *testing.T) {
	vp := viewProjection([3]float32{0, 0, 5})
	f := ExtractFrustumFromMatrix(vp[:])

	tests := []struct {
		name   string
		center [3]float32
		radius float32
		want   bool
	}{
		{"origin", [3]float32{0, 0, 0}, 1, true},
		{"behind the camera", [3]float32{0, 0, 20}, 1, false},
		{"far to the side", [3]float32{50, 0, 0}, 1, false},
		{"straddling the edge", [3]float32{2.5, 0, 0}, 1, true},
		{"beyond the far plane", [3]float32{0, 0, -200}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ContainsSphere(tt.center, tt.radius))
		})
	}
}
