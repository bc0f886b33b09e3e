// Package shadertest provides an in-memory shader.Driver.
//
// The driver follows GL object semantics closely enough to test code built on the
// shader package without a graphics context: shader and program names share one
// namespace, a deleted shader that is still attached stays alive until it is
// detached, and failures come with Mesa-style info logs.
//
// Compilation is a syntax sanity check, not a GLSL front end. A source compiles when
// it starts with a #version directive and its brackets balance outside comments.
// Linking fails when an attached shader did not compile, when a stage has no main
// function, or when a fragment input has no matching vertex output.
package shadertest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/stewi1014/gltutorial/shader"
)

var _ shader.Driver = (*Driver)(nil)

type shaderObject struct {
	stage    shader.Stage
	source   string
	compiled bool
	log      string
	deleted  bool
	attached map[uint32]struct{}
}

type programObject struct {
	shaders map[uint32]struct{}
	linked  bool
	log     string
}

// Driver is a fake shader.Driver. The zero value is not usable; use New.
type Driver struct {
	next     uint32
	shaders  map[uint32]*shaderObject
	programs map[uint32]*programObject

	// Calls records every driver entry point in call order.
	Calls []string
}

func New() *Driver {
	return &Driver{
		shaders:  make(map[uint32]*shaderObject),
		programs: make(map[uint32]*programObject),
	}
}

func (d *Driver) record(format string, args ...interface{}) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Driver) name() uint32 {
	d.next++
	return d.next
}

func (d *Driver) CreateShader(stage shader.Stage) uint32 {
	h := d.name()
	d.record("CreateShader(%v) = %d", stage, h)
	d.shaders[h] = &shaderObject{
		stage:    stage,
		attached: make(map[uint32]struct{}),
	}
	return h
}

func (d *Driver) ShaderSource(h uint32, source string) {
	d.record("ShaderSource(%d)", h)
	if s, ok := d.shaders[h]; ok {
		s.source = source
	}
}

func (d *Driver) CompileShader(h uint32) {
	d.record("CompileShader(%d)", h)
	s, ok := d.shaders[h]
	if !ok {
		return
	}
	s.log = check(s.source)
	s.compiled = s.log == ""
}

func (d *Driver) CompileStatus(h uint32) bool {
	s, ok := d.shaders[h]
	return ok && s.compiled
}

func (d *Driver) ShaderInfoLog(h uint32) string {
	if s, ok := d.shaders[h]; ok {
		return s.log
	}
	return ""
}

func (d *Driver) DeleteShader(h uint32) {
	d.record("DeleteShader(%d)", h)
	s, ok := d.shaders[h]
	if !ok {
		return
	}
	s.deleted = true
	if len(s.attached) == 0 {
		delete(d.shaders, h)
	}
}

func (d *Driver) IsShader(h uint32) bool {
	_, ok := d.shaders[h]
	return ok
}

func (d *Driver) CreateProgram() uint32 {
	h := d.name()
	d.record("CreateProgram() = %d", h)
	d.programs[h] = &programObject{shaders: make(map[uint32]struct{})}
	return h
}

func (d *Driver) AttachShader(program, h uint32) {
	d.record("AttachShader(%d, %d)", program, h)
	p, ok := d.programs[program]
	if !ok {
		return
	}
	s, ok := d.shaders[h]
	if !ok {
		return
	}
	p.shaders[h] = struct{}{}
	s.attached[program] = struct{}{}
}

func (d *Driver) DetachShader(program, h uint32) {
	d.record("DetachShader(%d, %d)", program, h)
	if p, ok := d.programs[program]; ok {
		delete(p.shaders, h)
	}
	s, ok := d.shaders[h]
	if !ok {
		return
	}
	delete(s.attached, program)
	if s.deleted && len(s.attached) == 0 {
		delete(d.shaders, h)
	}
}

func (d *Driver) LinkProgram(program uint32) {
	d.record("LinkProgram(%d)", program)
	p, ok := d.programs[program]
	if !ok {
		return
	}
	p.log = d.link(p)
	p.linked = p.log == ""
}

func (d *Driver) LinkStatus(program uint32) bool {
	p, ok := d.programs[program]
	return ok && p.linked
}

func (d *Driver) ProgramInfoLog(program uint32) string {
	if p, ok := d.programs[program]; ok {
		return p.log
	}
	return ""
}

func (d *Driver) DeleteProgram(program uint32) {
	d.record("DeleteProgram(%d)", program)
	p, ok := d.programs[program]
	if !ok {
		return
	}
	for h := range p.shaders {
		d.DetachShader(program, h)
	}
	delete(d.programs, program)
}

func (d *Driver) IsProgram(program uint32) bool {
	_, ok := d.programs[program]
	return ok
}

// LiveShaders returns the number of shader objects the driver still holds.
func (d *Driver) LiveShaders() int {
	return len(d.shaders)
}

// LivePrograms returns the number of program objects the driver still holds.
func (d *Driver) LivePrograms() int {
	return len(d.programs)
}

var (
	ioDecl   = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(?:flat\s+|smooth\s+|noperspective\s+)?(in|out)\s+\w+\s+(\w+)\s*;`)
	mainDecl = regexp.MustCompile(`\bvoid\s+main\s*\(`)
)

func (d *Driver) link(p *programObject) string {
	var stages [2]*shaderObject

	handles := make([]uint32, 0, len(p.shaders))
	for h := range p.shaders {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	for _, h := range handles {
		s := d.shaders[h]
		if !s.compiled {
			return "error: linking with uncompiled/unspecialized shader\n"
		}
		if int(s.stage) < len(stages) {
			stages[s.stage] = s
		}
	}

	var log strings.Builder
	for _, s := range stages {
		if s != nil && !mainDecl.MatchString(stripComments(s.source)) {
			fmt.Fprintf(&log, "error: %v shader lacks `main'\n", s.stage)
		}
	}
	if log.Len() > 0 {
		return log.String()
	}

	vs, fs := stages[shader.Vertex], stages[shader.Fragment]
	if vs == nil || fs == nil {
		return ""
	}

	outputs := declarations(vs.source, "out")
	for _, name := range sortedKeys(declarations(fs.source, "in")) {
		if _, ok := outputs[name]; !ok {
			fmt.Fprintf(&log, "error: fragment shader input `%s' has no matching output in the previous stage\n", name)
		}
	}
	return log.String()
}

func declarations(source, qualifier string) map[string]struct{} {
	names := make(map[string]struct{})
	for _, m := range ioDecl.FindAllStringSubmatch(stripComments(source), -1) {
		if m[1] == qualifier {
			names[m[2]] = struct{}{}
		}
	}
	return names
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
