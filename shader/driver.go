package shader

// Driver is the subset of the graphics API the builder needs.
// Implementations are not safe for concurrent use; all calls must come
// from the thread that owns the graphics context.
type Driver interface {
	CreateShader(stage Stage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	CompileStatus(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	IsShader(shader uint32) bool

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	LinkStatus(program uint32) bool
	ProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	IsProgram(program uint32) bool
}
