// Package shader compiles and links vertex/fragment shader pairs into GPU programs,
// reporting driver diagnostics without aborting the caller.
package shader

import (
	"errors"
	"fmt"
)

// Stage is the pipeline stage a shader runs in.
type Stage uint8

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

// Source is shading language text for one stage.
// Name is only used in diagnostics, usually the file the text came from.
type Source struct {
	Stage Stage
	Name  string
	Text  string
}

// Shader is a compiled (or failed) shader object.
type Shader struct {
	Handle   uint32
	Stage    Stage
	Name     string
	Compiled bool
	// Log holds the driver's info log when compilation failed.
	Log string

	released bool
}

// Released reports whether the shader object has been handed back to the driver.
func (s *Shader) Released() bool {
	return s.released
}

func (s *Shader) err() error {
	if s.Compiled {
		return nil
	}
	return &CompileError{Stage: s.Stage, Name: s.Name, Log: s.Log}
}

// Program is a linked (or failed) program object.
type Program struct {
	Handle uint32
	Linked bool
	// Log holds the driver's info log when linking failed.
	Log string

	compileErrs []error
}

// Usable reports whether both stages compiled and the program linked.
func (p *Program) Usable() bool {
	return p.Linked && len(p.compileErrs) == 0
}

// Err returns nil for a usable program, otherwise every compile and link failure joined.
func (p *Program) Err() error {
	errs := append([]error(nil), p.compileErrs...)
	if !p.Linked {
		errs = append(errs, &LinkError{Log: p.Log})
	}
	return errors.Join(errs...)
}

// CompileError is a driver-reported compile failure.
type CompileError struct {
	Stage Stage
	Name  string
	Log   string
}

func (e *CompileError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%v shader failed to compile: %v", e.Stage, e.Log)
	}
	return fmt.Sprintf("%v shader %v failed to compile: %v", e.Stage, e.Name, e.Log)
}

// LinkError is a driver-reported link failure.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %v", e.Log)
}
