package lessons_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stewi1014/gltutorial/lessons"
	"github.com/stewi1014/gltutorial/shader"
	"github.com/stewi1014/gltutorial/shader/shadertest"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRegistryOrder(t *testing.T) {
	assert.Equal(t, []string{
		"clear",
		"triangle",
		"rectangle",
		"uniform",
		"colors",
		"transform",
	}, lessons.Names())
}

func TestGet(t *testing.T) {
	l, err := lessons.Get("rectangle")
	require.NoError(t, err)
	assert.Equal(t, "Hello Rectangle", l.Title)
	assert.Equal(t, []uint32{0, 1, 3, 1, 2, 3}, l.Indices)

	_, err = lessons.Get("teapot")
	assert.ErrorIs(t, err, lessons.ErrUnknownLesson)
}

func TestRegisterTwicePanics(t *testing.T) {
	assert.Panics(t, func() {
		lessons.Register(lessons.Lesson{Name: "triangle"})
	})
}

func TestEveryLessonBuilds(t *testing.T) {
	for _, l := range lessons.All() {
		t.Run(l.Name, func(t *testing.T) {
			if !l.HasProgram() {
				assert.Empty(t, l.Vertices)
				return
			}

			driver := shadertest.New()
			diag := &bytes.Buffer{}
			b := shader.NewBuilder(driver,
				shader.WithPolicy(shader.Strict),
				shader.WithDiagnostics(diag),
				shader.WithLogger(discard),
			)

			p, err := b.Build(*l.Vertex, *l.Fragment)
			require.NoError(t, err, diag.String())
			assert.True(t, p.Usable())
			assert.Zero(t, driver.LiveShaders())

			assert.Equal(t, shader.Vertex, l.Vertex.Stage)
			assert.Equal(t, shader.Fragment, l.Fragment.Stage)
			assert.NotZero(t, l.VertexCount())
		})
	}
}

func TestVertexCount(t *testing.T) {
	triangle, err := lessons.Get("triangle")
	require.NoError(t, err)
	assert.Equal(t, int32(3), triangle.VertexCount())

	colours, err := lessons.Get("colors")
	require.NoError(t, err)
	assert.Equal(t, int32(3), colours.VertexCount())
	assert.Len(t, colours.Vertices, 18)

	clearOnly, err := lessons.Get("clear")
	require.NoError(t, err)
	assert.Zero(t, clearOnly.VertexCount())
}

func TestLayout(t *testing.T) {
	stride, offsets := lessons.Layout([]lessons.Attribute{
		{Location: 0, Size: 3},
		{Location: 1, Size: 3},
		{Location: 2, Size: 2},
	})
	assert.Equal(t, int32(32), stride)
	assert.Equal(t, []uintptr{0, 12, 24}, offsets)

	stride, offsets = lessons.Layout(nil)
	assert.Zero(t, stride)
	assert.Empty(t, offsets)
}

func TestInterleave(t *testing.T) {
	got := lessons.Interleave(
		[]mgl32.Vec3{{1, 2, 3}, {4, 5, 6}},
		[]mgl32.Vec3{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}},
	)
	assert.Equal(t, []float32{1, 2, 3, 0.1, 0.2, 0.3, 4, 5, 6, 0.4, 0.5, 0.6}, got)

	assert.Panics(t, func() {
		lessons.Interleave([]mgl32.Vec3{{}}, nil)
	})
}

func TestAnimate(t *testing.T) {
	uniform, err := lessons.Get("uniform")
	require.NoError(t, err)

	var u lessons.Uniforms
	u.DefaultValues()

	uniform.Animate(&u, 0)
	assert.InDelta(t, 0.5, u.Color[1], 1e-6)
	assert.Equal(t, float32(0), u.Color[0])
	assert.Equal(t, float32(1), u.Color[3])

	uniform.Animate(&u, 3.14159265/2)
	assert.InDelta(t, 1, u.Color[1], 1e-6)

	transform, err := lessons.Get("transform")
	require.NoError(t, err)
	transform.Animate(&u, 0)

	// at t=0 the quad's top right corner lands at (0.75, -0.25)
	corner := u.Transform.Mul4x1(mgl32.Vec4{0.5, 0.5, 0, 1})
	assert.InDelta(t, 0.75, corner[0], 1e-6)
	assert.InDelta(t, -0.25, corner[1], 1e-6)
}

func TestUniformNames(t *testing.T) {
	assert.Equal(t, []string{"ourColor", "transform", "time"}, lessons.UniformNames())
}

func TestOverride(t *testing.T) {
	l, err := lessons.Get("triangle")
	require.NoError(t, err)
	embedded := l.Fragment.Text

	fsys := fstest.MapFS{
		"triangle.frag": {Data: []byte("#version 330 core\nout vec4 FragColor;\nvoid main() { FragColor = vec4(1.0); }\n")},
	}

	o, err := l.Override(fsys)
	require.NoError(t, err)
	assert.Equal(t, "triangle.frag", o.Fragment.Name)
	assert.Contains(t, o.Fragment.Text, "vec4(1.0)")
	assert.Equal(t, shader.Fragment, o.Fragment.Stage)

	// the vertex shader has no override file and keeps its embedded source
	assert.Equal(t, l.Vertex, o.Vertex)

	// the registered lesson is not modified
	again, err := lessons.Get("triangle")
	require.NoError(t, err)
	assert.Equal(t, embedded, again.Fragment.Text)
}

func TestOverrideWithoutProgram(t *testing.T) {
	l, err := lessons.Get("clear")
	require.NoError(t, err)

	o, err := l.Override(fstest.MapFS{"clear.vert": {Data: []byte("anything")}})
	require.NoError(t, err)
	assert.False(t, o.HasProgram())
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reload, err := lessons.Watch(ctx, dir, "triangle", discard)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case <-reload:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "triangle.frag"), []byte("x"), 0o644))
	select {
	case <-reload:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after writing triangle.frag")
	}
}

func TestWatchMissingDir(t *testing.T) {
	_, err := lessons.Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), "triangle", discard)
	assert.Error(t, err)
}
