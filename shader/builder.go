package shader

import (
	"io"
	"log/slog"
	"os"
)

// Policy decides what Build does with a program that failed to compile or link.
type Policy int

const (
	// Lenient hands back unusable programs so a render loop keeps running.
	Lenient Policy = iota
	// Strict deletes unusable programs and returns their error.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

type Option func(*Builder)

func WithPolicy(p Policy) Option {
	return func(b *Builder) { b.policy = p }
}

// WithDiagnostics sets where human-readable failure reports are written.
// Defaults to os.Stdout.
func WithDiagnostics(w io.Writer) Option {
	return func(b *Builder) { b.diagnostics = newReporter(w) }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// Builder turns shader sources into programs through a Driver.
type Builder struct {
	driver      Driver
	policy      Policy
	diagnostics *reporter
	logger      *slog.Logger
}

func NewBuilder(driver Driver, opts ...Option) *Builder {
	b := &Builder{
		driver:      driver,
		diagnostics: newReporter(os.Stdout),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Policy() Policy {
	return b.policy
}

// Compile creates a shader object for src and compiles it.
// A failed compile is reported and the shader is still returned;
// its Compiled field is false and Log holds the driver's message.
func (b *Builder) Compile(src Source) *Shader {
	handle := b.driver.CreateShader(src.Stage)
	b.driver.ShaderSource(handle, src.Text)
	b.driver.CompileShader(handle)

	s := &Shader{
		Handle:   handle,
		Stage:    src.Stage,
		Name:     src.Name,
		Compiled: b.driver.CompileStatus(handle),
	}
	if !s.Compiled {
		s.Log = b.driver.ShaderInfoLog(handle)
		b.diagnostics.compileFailed(s)
		b.logger.Error("shader compilation failed", "stage", s.Stage, "name", s.Name, "handle", handle)
		return s
	}

	b.logger.Debug("shader compiled", "stage", s.Stage, "name", s.Name, "handle", handle)
	return s
}

// Link attaches vs and fs to a new program and links it.
// Both shader objects are detached and deleted afterwards whatever the outcome,
// so their handles are no longer valid once Link returns.
func (b *Builder) Link(vs, fs *Shader) *Program {
	handle := b.driver.CreateProgram()
	b.driver.AttachShader(handle, vs.Handle)
	b.driver.AttachShader(handle, fs.Handle)
	b.driver.LinkProgram(handle)

	p := &Program{
		Handle: handle,
		Linked: b.driver.LinkStatus(handle),
	}
	for _, s := range []*Shader{vs, fs} {
		if err := s.err(); err != nil {
			p.compileErrs = append(p.compileErrs, err)
		}
	}
	if !p.Linked {
		p.Log = b.driver.ProgramInfoLog(handle)
		b.diagnostics.linkFailed(p)
		b.logger.Error("program link failed", "handle", handle, "vertex", vs.Name, "fragment", fs.Name)
	} else {
		b.logger.Debug("program linked", "handle", handle, "vertex", vs.Name, "fragment", fs.Name)
	}

	b.release(handle, vs)
	b.release(handle, fs)

	return p
}

func (b *Builder) release(program uint32, s *Shader) {
	b.driver.DetachShader(program, s.Handle)
	b.driver.DeleteShader(s.Handle)
	s.released = true
}

// Build compiles both stages and links them, then applies the builder's policy.
// Under Lenient the program is returned even when it is not usable.
// Under Strict an unusable program is deleted and its error returned.
func (b *Builder) Build(vs, fs Source) (*Program, error) {
	p := b.Link(b.Compile(vs), b.Compile(fs))

	err := p.Err()
	if err == nil {
		return p, nil
	}

	if b.policy == Strict {
		b.Delete(p)
		return nil, err
	}

	b.logger.Warn("continuing with unusable program", "handle", p.Handle)
	return p, nil
}

// Delete releases a program object. Nil programs are ignored.
func (b *Builder) Delete(p *Program) {
	if p == nil || p.Handle == 0 {
		return
	}
	b.driver.DeleteProgram(p.Handle)
	p.Handle = 0
}
