package lessons

import "github.com/go-gl/mathgl/mgl32"

// Flatten packs positions into a float slice, three components each.
func Flatten(positions []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(positions)*3)
	for _, p := range positions {
		out = append(out, p[:]...)
	}
	return out
}

// Interleave packs positions and colours as x y z r g b per vertex.
// It panics if the slices differ in length.
func Interleave(positions, colours []mgl32.Vec3) []float32 {
	if len(positions) != len(colours) {
		panic("lessons: Interleave length mismatch")
	}
	out := make([]float32, 0, len(positions)*6)
	for i := range positions {
		out = append(out, positions[i][:]...)
		out = append(out, colours[i][:]...)
	}
	return out
}

var (
	triangle = []mgl32.Vec3{
		{-0.5, -0.5, 0},
		{0.5, -0.5, 0},
		{0, 0.5, 0},
	}

	// quad corners: top right, bottom right, bottom left, top left
	quad = []mgl32.Vec3{
		{0.5, 0.5, 0},
		{0.5, -0.5, 0},
		{-0.5, -0.5, 0},
		{-0.5, 0.5, 0},
	}
	quadIndices = []uint32{
		0, 1, 3,
		1, 2, 3,
	}

	red   = mgl32.Vec3{1, 0, 0}
	green = mgl32.Vec3{0, 1, 0}
	blue  = mgl32.Vec3{0, 0, 1}
	white = mgl32.Vec3{1, 1, 1}

	positionOnly = []Attribute{{Location: 0, Size: 3}}

	positionColour = []Attribute{
		{Location: 0, Size: 3},
		{Location: 1, Size: 3},
	}
)
