// Package gldriver implements shader.Driver on top of OpenGL 3.3 core.
//
// gl.Init must have been called on the current thread with a current context
// before any method is used.
package gldriver

import (
	"runtime"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/stewi1014/gltutorial/shader"
)

var _ shader.Driver = GL{}

var stages = map[shader.Stage]uint32{
	shader.Vertex:   gl.VERTEX_SHADER,
	shader.Fragment: gl.FRAGMENT_SHADER,
}

// GL is the OpenGL shader driver. It holds no state; the context does.
type GL struct{}

func New() GL {
	return GL{}
}

func (GL) CreateShader(stage shader.Stage) uint32 {
	return gl.CreateShader(stages[stage])
}

func (GL) ShaderSource(handle uint32, source string) {
	source += "\x00"
	defer runtime.KeepAlive(source)

	csources, free := gl.Strs(source)
	defer free()
	gl.ShaderSource(handle, 1, csources, nil)
}

func (GL) CompileShader(handle uint32) {
	gl.CompileShader(handle)
}

func (GL) CompileStatus(handle uint32) bool {
	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (GL) ShaderInfoLog(handle uint32) string {
	var l int32
	gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &l)
	if l == 0 {
		return ""
	}

	log := strings.Repeat("\x00", int(l+1))
	gl.GetShaderInfoLog(handle, l, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (GL) DeleteShader(handle uint32) {
	gl.DeleteShader(handle)
}

func (GL) IsShader(handle uint32) bool {
	return gl.IsShader(handle)
}

func (GL) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (GL) AttachShader(program, handle uint32) {
	gl.AttachShader(program, handle)
}

func (GL) DetachShader(program, handle uint32) {
	gl.DetachShader(program, handle)
}

func (GL) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (GL) LinkStatus(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (GL) ProgramInfoLog(program uint32) string {
	var l int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &l)
	if l == 0 {
		return ""
	}

	log := strings.Repeat("\x00", int(l+1))
	gl.GetProgramInfoLog(program, l, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (GL) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (GL) IsProgram(program uint32) bool {
	return gl.IsProgram(program)
}

// Version returns the GL_VERSION and GL_SHADING_LANGUAGE_VERSION strings of the current context.
func Version() (glVersion, glslVersion string) {
	return gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))
}
