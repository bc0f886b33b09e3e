package lessons

import "github.com/stewi1014/gltutorial/shader"

// rectangle draws two triangles sharing an edge through an element buffer.
func init() {
	Register(Lesson{
		Name:       "rectangle",
		Title:      "Hello Rectangle",
		Order:      2,
		Vertex:     source(shader.Vertex, "position.vert"),
		Fragment:   source(shader.Fragment, "orange.frag"),
		Vertices:   Flatten(quad),
		Indices:    quadIndices,
		Attributes: positionOnly,
	})
}
