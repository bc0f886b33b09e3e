package lessons

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/stewi1014/gltutorial/shader"
)

func init() {
	Register(Lesson{
		Name:       "uniform",
		Title:      "Uniform Colour",
		Order:      3,
		Vertex:     source(shader.Vertex, "position.vert"),
		Fragment:   source(shader.Fragment, "uniform_color.frag"),
		Vertices:   Flatten(triangle),
		Attributes: positionOnly,
		Animate:    pulseGreen,
	})
}

// pulseGreen fades the green channel between 0 and 1 over time.
func pulseGreen(u *Uniforms, t float64) {
	g := float32(math.Sin(t)/2 + 0.5)
	u.Color = mgl32.Vec4{0, g, 0, 1}
}
