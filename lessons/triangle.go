package lessons

import "github.com/stewi1014/gltutorial/shader"

func init() {
	Register(Lesson{
		Name:       "triangle",
		Title:      "Hello Triangle",
		Order:      1,
		Vertex:     source(shader.Vertex, "position.vert"),
		Fragment:   source(shader.Fragment, "orange.frag"),
		Vertices:   Flatten(triangle),
		Attributes: positionOnly,
	})
}
