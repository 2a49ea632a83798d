package renderer

import "github.com/go-gl/mathgl/mgl32"

// Uniform and attribute names shared by the default program and every
// backend.
const (
	AttributePosition = "a_position"
	AttributeUV       = "a_uv"

	UniformModel      = "u_model"
	UniformView       = "u_view"
	UniformProjection = "u_projection"
	UniformTexture    = "u_textureId"
	UniformUseTexture = "u_useTexture"
	UniformColour     = "u_colour"
)

// Attribute locations bound before linking.
const (
	PositionLocation uint32 = 0
	UVLocation       uint32 = 1
)

type RendererType uint8

const (
	RendererTypeOpenGL RendererType = iota
	RendererTypeTerminal
)

func (t RendererType) String() string {
	switch t {
	case RendererTypeOpenGL:
		return "window"
	case RendererTypeTerminal:
		return "terminal"
	}
	return "unknown"
}

// ParseRendererType maps a configuration value to a renderer type.
func ParseRendererType(s string) (RendererType, bool) {
	switch s {
	case "window", "opengl", "gl", "":
		return RendererTypeOpenGL, true
	case "terminal", "tty", "tcell":
		return RendererTypeTerminal, true
	}
	return RendererTypeOpenGL, false
}

// SetCameraUniforms uploads model, view and projection for the current program.
func SetCameraUniforms(b Backend, model, view, projection mgl32.Mat4) {
	b.SetUniformMat4(UniformModel, model)
	b.SetUniformMat4(UniformView, view)
	b.SetUniformMat4(UniformProjection, projection)
}

// BindTextureUnit binds texture to unit 0 and points the sampler at it. A
// zero texture turns sampling off.
func BindTextureUnit(b Backend, texture Texture) {
	if texture == 0 {
		b.SetUniformInt(UniformUseTexture, 0)
		return
	}
	b.BindTexture(0, texture)
	b.SetUniformInt(UniformTexture, 0)
	b.SetUniformInt(UniformUseTexture, 1)
}
