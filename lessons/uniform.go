package lessons

import (
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
)

// Uniforms are the values a lesson can feed its program each frame.
// Each field's uniform tag names the GLSL uniform it is uploaded to;
// programs that don't declare one simply ignore it.
type Uniforms struct {
	Color     mgl32.Vec4 `uniform:"ourColor"`
	Transform mgl32.Mat4 `uniform:"transform"`
	Time      float32    `uniform:"time"`
}

func (u *Uniforms) DefaultValues() {
	*u = Uniforms{
		Color:     mgl32.Vec4{1, 1, 1, 1},
		Transform: mgl32.Ident4(),
	}
}

// UniformNames returns the GLSL names of the Uniforms fields, in field order.
func UniformNames() []string {
	t := reflect.TypeOf(Uniforms{})
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := t.Field(i).Tag.Get("uniform"); name != "" {
			names = append(names, name)
		}
	}
	return names
}
