package shader_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stewi1014/gltutorial/shader"
	"github.com/stewi1014/gltutorial/shader/shadertest"
)

const (
	constantVertex = "#version 330 core\nvoid main(){ gl_Position = vec4(0,0,0,0); }"

	constantFragment = `#version 330 core
out vec4 FragColor;
void main()
{
    FragColor = vec4(1.0, 0.5, 0.2, 1.0);
}
`

	// missing the closing brace of main
	brokenFragment = `#version 330 core
out vec4 FragColor;
void main()
{
    FragColor = vec4(1.0, 0.5, 0.2, 1.0);
`
)

func newBuilder(t *testing.T, opts ...shader.Option) (*shader.Builder, *shadertest.Driver, *bytes.Buffer) {
	t.Helper()
	driver := shadertest.New()
	diag := &bytes.Buffer{}
	opts = append([]shader.Option{
		shader.WithDiagnostics(diag),
		shader.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return shader.NewBuilder(driver, opts...), driver, diag
}

func TestBuildConstantColour(t *testing.T) {
	b, driver, diag := newBuilder(t)

	p, err := b.Build(
		shader.Source{Stage: shader.Vertex, Name: "constant.vert", Text: constantVertex},
		shader.Source{Stage: shader.Fragment, Name: "constant.frag", Text: constantFragment},
	)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.True(t, p.Linked)
	assert.True(t, p.Usable())
	assert.Empty(t, p.Log)
	assert.NoError(t, p.Err())
	assert.True(t, driver.IsProgram(p.Handle))
	assert.Zero(t, diag.Len(), "no diagnostics expected, got %q", diag.String())
}

func TestCompileSyntaxError(t *testing.T) {
	b, _, diag := newBuilder(t)

	s := b.Compile(shader.Source{Stage: shader.Fragment, Name: "broken.frag", Text: brokenFragment})

	assert.False(t, s.Compiled)
	assert.NotEmpty(t, s.Log)
	assert.Contains(t, s.Log, "syntax error")
	assert.Contains(t, diag.String(), "fragment shader broken.frag failed to compile")
	assert.Contains(t, diag.String(), "syntax error")
}

func TestLinkProceedsAfterCompileFailure(t *testing.T) {
	b, driver, diag := newBuilder(t)

	vs := b.Compile(shader.Source{Stage: shader.Vertex, Text: constantVertex})
	fs := b.Compile(shader.Source{Stage: shader.Fragment, Text: brokenFragment})
	require.True(t, vs.Compiled)
	require.False(t, fs.Compiled)

	p := b.Link(vs, fs)
	assert.NotZero(t, p.Handle)
	assert.False(t, p.Linked)
	assert.NotEmpty(t, p.Log)
	assert.False(t, p.Usable())
	assert.True(t, driver.IsProgram(p.Handle))
	assert.Contains(t, diag.String(), "failed to link")

	var compileErr *shader.CompileError
	require.ErrorAs(t, p.Err(), &compileErr)
	assert.Equal(t, shader.Fragment, compileErr.Stage)

	var linkErr *shader.LinkError
	require.ErrorAs(t, p.Err(), &linkErr)
	assert.Equal(t, p.Log, linkErr.Log)
}

func TestLinkReleasesShaders(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		linked   bool
	}{
		{"success", constantFragment, true},
		{"failure", brokenFragment, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, driver, _ := newBuilder(t)

			vs := b.Compile(shader.Source{Stage: shader.Vertex, Text: constantVertex})
			fs := b.Compile(shader.Source{Stage: shader.Fragment, Text: tt.fragment})
			require.True(t, driver.IsShader(vs.Handle))
			require.True(t, driver.IsShader(fs.Handle))

			p := b.Link(vs, fs)
			assert.Equal(t, tt.linked, p.Linked)

			assert.False(t, driver.IsShader(vs.Handle))
			assert.False(t, driver.IsShader(fs.Handle))
			assert.True(t, vs.Released())
			assert.True(t, fs.Released())
			assert.Zero(t, driver.LiveShaders())
		})
	}
}

func TestLinkCallOrder(t *testing.T) {
	b, driver, _ := newBuilder(t)

	vs := b.Compile(shader.Source{Stage: shader.Vertex, Text: constantVertex})
	fs := b.Compile(shader.Source{Stage: shader.Fragment, Text: constantFragment})
	p := b.Link(vs, fs)

	assert.Equal(t, []string{
		"CreateShader(vertex) = 1",
		"ShaderSource(1)",
		"CompileShader(1)",
		"CreateShader(fragment) = 2",
		"ShaderSource(2)",
		"CompileShader(2)",
		"CreateProgram() = 3",
		"AttachShader(3, 1)",
		"AttachShader(3, 2)",
		"LinkProgram(3)",
		"DetachShader(3, 1)",
		"DeleteShader(1)",
		"DetachShader(3, 2)",
		"DeleteShader(2)",
	}, driver.Calls)
	assert.Equal(t, uint32(3), p.Handle)
}

func TestLinkMismatchedInterface(t *testing.T) {
	b, _, _ := newBuilder(t)

	fragment := `#version 330 core
in vec3 ourColor;
out vec4 FragColor;
void main() { FragColor = vec4(ourColor, 1.0); }
`
	p, err := b.Build(
		shader.Source{Stage: shader.Vertex, Text: constantVertex},
		shader.Source{Stage: shader.Fragment, Text: fragment},
	)
	require.NoError(t, err)
	assert.False(t, p.Linked)
	assert.Contains(t, p.Log, "ourColor")

	var compileErr *shader.CompileError
	assert.False(t, errors.As(p.Err(), &compileErr))
}

func TestBuildPolicy(t *testing.T) {
	vs := shader.Source{Stage: shader.Vertex, Text: constantVertex}
	fs := shader.Source{Stage: shader.Fragment, Text: brokenFragment}

	t.Run("lenient", func(t *testing.T) {
		b, driver, diag := newBuilder(t)
		assert.Equal(t, shader.Lenient, b.Policy())

		p, err := b.Build(vs, fs)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.False(t, p.Usable())
		assert.True(t, driver.IsProgram(p.Handle))
		assert.NotEmpty(t, diag.String())
	})

	t.Run("strict", func(t *testing.T) {
		b, driver, _ := newBuilder(t, shader.WithPolicy(shader.Strict))

		p, err := b.Build(vs, fs)
		require.Error(t, err)
		assert.Nil(t, p)
		assert.Zero(t, driver.LivePrograms())
		assert.Zero(t, driver.LiveShaders())

		var compileErr *shader.CompileError
		require.ErrorAs(t, err, &compileErr)
		assert.Contains(t, compileErr.Error(), "fragment shader failed to compile")
	})
}

func TestDelete(t *testing.T) {
	b, driver, _ := newBuilder(t)

	p, err := b.Build(
		shader.Source{Stage: shader.Vertex, Text: constantVertex},
		shader.Source{Stage: shader.Fragment, Text: constantFragment},
	)
	require.NoError(t, err)

	handle := p.Handle
	b.Delete(p)
	assert.False(t, driver.IsProgram(handle))
	assert.Zero(t, p.Handle)

	// deleting twice, or nil, is harmless
	b.Delete(p)
	b.Delete(nil)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "vertex", shader.Vertex.String())
	assert.Equal(t, "fragment", shader.Fragment.String())
	assert.Equal(t, "Stage(7)", shader.Stage(7).String())
}
