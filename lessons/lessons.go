// Package lessons holds the tutorial variants: each one a shader pair, a small
// vertex buffer and an optional index buffer, registered under a short name.
package lessons

import (
	"embed"
	"errors"
	"fmt"
	"sort"

	"github.com/stewi1014/gltutorial/shader"
)

var ErrUnknownLesson = errors.New("unknown lesson")

//go:embed shaders
var shaderFiles embed.FS

func source(stage shader.Stage, file string) *shader.Source {
	text, err := shaderFiles.ReadFile("shaders/" + file)
	if err != nil {
		panic(fmt.Sprintf("lessons: embedded shader %v: %v", file, err))
	}
	return &shader.Source{Stage: stage, Name: file, Text: string(text)}
}

// Attribute is one vertex attribute: its layout location and float component count.
type Attribute struct {
	Location uint32
	Size     int32
}

type AnimateFunc func(u *Uniforms, t float64)

type Lesson struct {
	Name  string
	Title string
	// Order sorts lessons the way the tutorial introduces them.
	Order int

	// Vertex and Fragment are nil for lessons that only clear the screen.
	Vertex   *shader.Source
	Fragment *shader.Source

	Vertices   []float32
	Indices    []uint32
	Attributes []Attribute

	// Animate updates uniforms before each frame; t is seconds since start.
	Animate AnimateFunc
}

// HasProgram reports whether the lesson draws anything.
func (l Lesson) HasProgram() bool {
	return l.Vertex != nil && l.Fragment != nil
}

// VertexCount is the number of vertices drawn without an index buffer.
func (l Lesson) VertexCount() int32 {
	stride, _ := Layout(l.Attributes)
	if stride == 0 {
		return 0
	}
	return int32(len(l.Vertices)*4) / stride
}

var lessons = map[string]Lesson{}

// Register adds a lesson. Registering the same name twice panics.
func Register(l Lesson) {
	if _, ok := lessons[l.Name]; ok {
		panic(fmt.Sprintf("lessons: %q registered twice", l.Name))
	}
	lessons[l.Name] = l
}

func Get(name string) (Lesson, error) {
	l, ok := lessons[name]
	if !ok {
		return Lesson{}, fmt.Errorf("%w %q", ErrUnknownLesson, name)
	}
	return l, nil
}

// All returns every lesson in tutorial order.
func All() []Lesson {
	all := make([]Lesson, 0, len(lessons))
	for _, l := range lessons {
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Order < all[j].Order })
	return all
}

func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, l := range all {
		names[i] = l.Name
	}
	return names
}

// Layout returns the byte stride of one interleaved vertex and the byte offset of each attribute.
func Layout(attrs []Attribute) (stride int32, offsets []uintptr) {
	offsets = make([]uintptr, len(attrs))
	for i, a := range attrs {
		offsets[i] = uintptr(stride)
		stride += a.Size * 4
	}
	return stride, offsets
}
