package lessons

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stewi1014/gltutorial/shader"
)

func init() {
	Register(Lesson{
		Name:       "colors",
		Title:      "Vertex Colours",
		Order:      4,
		Vertex:     source(shader.Vertex, "vertex_color.vert"),
		Fragment:   source(shader.Fragment, "vertex_color.frag"),
		Vertices:   Interleave(triangle, []mgl32.Vec3{red, green, blue}),
		Attributes: positionColour,
	})
}
