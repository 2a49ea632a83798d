package renderer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Buffer, Texture and Program are opaque backend handles. Zero means none;
// the zero Program selects the backend's default program.
type (
	Buffer  uint32
	Texture uint32
	Program uint32
)

const DefaultProgram Program = 0

type BufferUsage uint8

const (
	// Written once and drawn many times.
	StaticDraw BufferUsage = iota
	// Patched or replaced between frames.
	DynamicDraw
)

type Primitive uint8

const (
	Triangles Primitive = iota
	Lines
	LineStrip
	Points
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	case LineStrip:
		return "line_strip"
	case Points:
		return "points"
	}
	return "unknown"
}

// DrawCommand describes one draw call. Positions hold three floats per
// vertex, UVs two. With an index buffer First and Count address indices,
// otherwise vertices.
type DrawCommand struct {
	Primitive Primitive
	Positions Buffer
	UVs       Buffer
	Indices   Buffer
	First     int
	Count     int
}

// Viewport is the drawable size in pixels (or cells for text hosts).
type Viewport struct {
	Width  int
	Height int
}

func (v Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Backend is the graphics API the scene draws through. Allocation failures
// are reported as core.ResourceError; uniform setters silently ignore names
// the current program does not declare.
type Backend interface {
	BeginFrame(viewport Viewport) error
	EndFrame() error

	CreateVertexBuffer(data []float32, usage BufferUsage) (Buffer, error)
	CreateIndexBuffer(data []uint16) (Buffer, error)
	// UpdateVertexBuffer writes data starting at offset, counted in floats.
	UpdateVertexBuffer(buffer Buffer, offset int, data []float32) error
	// ReplaceVertexBuffer reallocates the buffer with new contents.
	ReplaceVertexBuffer(buffer Buffer, data []float32) error
	DestroyBuffer(buffer Buffer)

	CreateTexture(img *image.RGBA) (Texture, error)
	DestroyTexture(texture Texture)
	BindTexture(unit int, texture Texture)

	UseProgram(program Program) error
	SetUniformMat4(name string, value mgl32.Mat4)
	SetUniformVec2(name string, value mgl32.Vec2)
	SetUniformVec3(name string, value mgl32.Vec3)
	SetUniformVec4(name string, value mgl32.Vec4)
	SetUniformFloat(name string, value float32)
	SetUniformInt(name string, value int32)

	Draw(cmd DrawCommand) error
}
