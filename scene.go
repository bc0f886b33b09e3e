package main

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stewi1014/gltutorial/capture"
	"github.com/stewi1014/gltutorial/lessons"
	"github.com/stewi1014/gltutorial/shader"
)

// Scene owns the GL objects of one lesson. All methods must be called with
// the lesson's context current.
type Scene struct {
	lesson  lessons.Lesson
	builder *shader.Builder
	logger  *slog.Logger

	vao, vbo, ebo    uint32
	program          *shader.Program
	uniformLocations map[string]int32
	uniforms         lessons.Uniforms
	wireframe        bool
}

// NewScene uploads the lesson's geometry and builds its program.
// An error is only returned when the builder is strict and the program failed.
func NewScene(builder *shader.Builder, lesson lessons.Lesson, logger *slog.Logger) (*Scene, error) {
	s := &Scene{
		lesson:  lesson,
		builder: builder,
		logger:  logger.With("lesson", lesson.Name),
	}
	s.uniforms.DefaultValues()

	if !lesson.HasProgram() {
		return s, nil
	}

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(lesson.Vertices)*4, gl.Ptr(lesson.Vertices), gl.STATIC_DRAW)

	if len(lesson.Indices) > 0 {
		gl.GenBuffers(1, &s.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, s.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(lesson.Indices)*4, gl.Ptr(lesson.Indices), gl.STATIC_DRAW)
	}

	stride, offsets := lessons.Layout(lesson.Attributes)
	for i, a := range lesson.Attributes {
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, stride, offsets[i])
		gl.EnableVertexAttribArray(a.Location)
	}

	// the element buffer binding is part of the VAO, so unbind the VAO first
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := s.Load(lesson); err != nil {
		s.Delete()
		return nil, err
	}

	s.logger.Info("scene ready",
		"vertices", lesson.VertexCount(),
		"indices", len(lesson.Indices),
		"usable", s.program.Usable(),
	)
	return s, nil
}

// Load builds the lesson's shaders and replaces the current program.
// Geometry is not re-uploaded, so only the sources of lesson are used.
// Under a strict builder a failed build keeps the previous program.
func (s *Scene) Load(lesson lessons.Lesson) error {
	if !lesson.HasProgram() {
		return nil
	}

	p, err := s.builder.Build(*lesson.Vertex, *lesson.Fragment)
	if err != nil {
		return fmt.Errorf("lesson %v: %w", lesson.Name, err)
	}

	s.builder.Delete(s.program)
	s.program = p
	s.lesson.Vertex, s.lesson.Fragment = lesson.Vertex, lesson.Fragment

	s.uniformLocations = make(map[string]int32)
	for _, name := range lessons.UniformNames() {
		loc := int32(-1)
		if p.Linked {
			loc = gl.GetUniformLocation(p.Handle, gl.Str(name+"\x00"))
		}
		s.uniformLocations[name] = loc
	}
	return nil
}

// Err returns the build errors of the current program, if any.
func (s *Scene) Err() error {
	if s.program == nil {
		return nil
	}
	return s.program.Err()
}

func (s *Scene) Wireframe() bool {
	return s.wireframe
}

func (s *Scene) SetWireframe(on bool) {
	s.wireframe = on
}

// Draw renders one frame; t is seconds since the host started.
// A program that failed to link draws nothing.
func (s *Scene) Draw(t float64) {
	if s.program == nil || !s.program.Linked {
		return
	}

	if s.lesson.Animate != nil {
		s.lesson.Animate(&s.uniforms, t)
	}

	if s.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	gl.UseProgram(s.program.Handle)
	s.loadUniforms()

	gl.BindVertexArray(s.vao)
	if n := len(s.lesson.Indices); n > 0 {
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(n), gl.UNSIGNED_INT, 0)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, s.lesson.VertexCount())
	}
	gl.BindVertexArray(0)
}

func (s *Scene) loadUniforms() {
	v := reflect.ValueOf(&s.uniforms).Elem()
	for i := 0; i < v.NumField(); i++ {
		loc, ok := s.uniformLocations[v.Type().Field(i).Tag.Get("uniform")]
		if !ok || loc < 0 {
			continue
		}

		f := v.Field(i)
		ptr := f.Addr().UnsafePointer()

		switch f.Type() {
		case reflect.TypeOf(mgl32.Vec2{}):
			gl.Uniform2fv(loc, 1, (*float32)(ptr))
		case reflect.TypeOf(mgl32.Vec3{}):
			gl.Uniform3fv(loc, 1, (*float32)(ptr))
		case reflect.TypeOf(mgl32.Vec4{}):
			gl.Uniform4fv(loc, 1, (*float32)(ptr))
		case reflect.TypeOf(mgl32.Mat4{}):
			gl.UniformMatrix4fv(loc, 1, false, (*float32)(ptr))
		case reflect.TypeOf(float32(0)):
			gl.Uniform1fv(loc, 1, (*float32)(ptr))
		case reflect.TypeOf(int32(0)):
			gl.Uniform1iv(loc, 1, (*int32)(ptr))
		default:
			s.logger.Warn("unsupported uniform type", "type", f.Type())
		}
	}
}

// Screenshot reads the current viewport back and writes it as a PNG into dir.
func (s *Scene) Screenshot(dir string) (string, error) {
	var viewport [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &viewport[0])

	fb := capture.NewFramebuffer(int(viewport[2]), int(viewport[3]))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(viewport[0], viewport[1], viewport[2], viewport[3], gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(fb.Pix))

	path := capture.FileName(dir, s.lesson.Name, time.Now())
	if err := capture.Save(path, fb); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}

// Delete releases every GL object the scene created.
func (s *Scene) Delete() {
	s.builder.Delete(s.program)
	s.program = nil

	if s.ebo != 0 {
		gl.DeleteBuffers(1, &s.ebo)
		s.ebo = 0
	}
	if s.vbo != 0 {
		gl.DeleteBuffers(1, &s.vbo)
		s.vbo = 0
	}
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		s.vao = 0
	}
}

func (s *Scene) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v (%v)", s.lesson.Name, s.lesson.Title)
	if s.program != nil && !s.program.Usable() {
		b.WriteString(" [broken program]")
	}
	return b.String()
}
