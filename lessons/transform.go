package lessons

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stewi1014/gltutorial/shader"
)

func init() {
	Register(Lesson{
		Name:       "transform",
		Title:      "Transformations",
		Order:      5,
		Vertex:     source(shader.Vertex, "transform.vert"),
		Fragment:   source(shader.Fragment, "vertex_color.frag"),
		Vertices:   Interleave(quad, []mgl32.Vec3{red, green, blue, white}),
		Indices:    quadIndices,
		Attributes: positionColour,
		Animate:    spin,
	})
}

// spin shrinks the quad to half size, moves it to the bottom right corner and
// rotates it one radian per second around z.
func spin(u *Uniforms, t float64) {
	u.Transform = mgl32.Translate3D(0.5, -0.5, 0).
		Mul4(mgl32.HomogRotate3DZ(float32(t))).
		Mul4(mgl32.Scale3D(0.5, 0.5, 0.5))
	u.Time = float32(t)
}
