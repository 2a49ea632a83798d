// Package recorder provides a renderer.Backend that keeps every call in
// memory. It backs headless runs and tests.
package recorder

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/renderer"
)

var ErrInjected = errors.New("injected failure")

const (
	OpBeginFrame     = "begin_frame"
	OpEndFrame       = "end_frame"
	OpCreateVertex   = "create_vertex"
	OpCreateIndex    = "create_index"
	OpUpdateVertex   = "update_vertex"
	OpReplaceVertex  = "replace_vertex"
	OpDestroyBuffer  = "destroy_buffer"
	OpCreateTexture  = "create_texture"
	OpDestroyTexture = "destroy_texture"
	OpBindTexture    = "bind_texture"
	OpUseProgram     = "use_program"
	OpUniform        = "uniform"
	OpDraw           = "draw"
)

type Call struct {
	Op      string
	Buffer  renderer.Buffer
	Offset  int
	Length  int
	Name    string
	Program renderer.Program
	Texture renderer.Texture
	Command renderer.DrawCommand
}

type Backend struct {
	Calls    []Call
	Vertices map[renderer.Buffer][]float32
	Indices  map[renderer.Buffer][]uint16
	Uniforms map[string]interface{}
	Program  renderer.Program
	Viewport renderer.Viewport
	Frames   int

	// FailAllocations makes every buffer and texture allocation fail.
	FailAllocations bool
	// DrawError is returned from every Draw when set.
	DrawError error

	next uint32
}

func New() *Backend {
	b := &Backend{}
	b.Reset()
	return b
}

// Reset forgets recorded calls and uniforms but keeps allocated buffers.
func (b *Backend) Reset() {
	b.Calls = nil
	b.Uniforms = make(map[string]interface{})
	if b.Vertices == nil {
		b.Vertices = make(map[renderer.Buffer][]float32)
	}
	if b.Indices == nil {
		b.Indices = make(map[renderer.Buffer][]uint16)
	}
}

func (b *Backend) record(c Call) {
	b.Calls = append(b.Calls, c)
}

// Ops returns the recorded calls with the given op.
func (b *Backend) Ops(op string) []Call {
	var out []Call
	for _, c := range b.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Draws returns every recorded draw command in order.
func (b *Backend) Draws() []renderer.DrawCommand {
	var out []renderer.DrawCommand
	for _, c := range b.Ops(OpDraw) {
		out = append(out, c.Command)
	}
	return out
}

func (b *Backend) Mat4(name string) (mgl32.Mat4, bool) {
	v, ok := b.Uniforms[name].(mgl32.Mat4)
	return v, ok
}

func (b *Backend) BeginFrame(viewport renderer.Viewport) error {
	b.Viewport = viewport
	b.record(Call{Op: OpBeginFrame})
	return nil
}

func (b *Backend) EndFrame() error {
	b.Frames++
	b.record(Call{Op: OpEndFrame})
	return nil
}

func (b *Backend) allocate(kind string) (renderer.Buffer, error) {
	if b.FailAllocations {
		return 0, core.NewResourceError(kind, ErrInjected)
	}
	b.next++
	return renderer.Buffer(b.next), nil
}

func (b *Backend) CreateVertexBuffer(data []float32, usage renderer.BufferUsage) (renderer.Buffer, error) {
	buf, err := b.allocate("vertex buffer")
	if err != nil {
		return 0, err
	}
	b.Vertices[buf] = append([]float32(nil), data...)
	b.record(Call{Op: OpCreateVertex, Buffer: buf, Length: len(data)})
	return buf, nil
}

func (b *Backend) CreateIndexBuffer(data []uint16) (renderer.Buffer, error) {
	buf, err := b.allocate("index buffer")
	if err != nil {
		return 0, err
	}
	b.Indices[buf] = append([]uint16(nil), data...)
	b.record(Call{Op: OpCreateIndex, Buffer: buf, Length: len(data)})
	return buf, nil
}

func (b *Backend) UpdateVertexBuffer(buffer renderer.Buffer, offset int, data []float32) error {
	dst, ok := b.Vertices[buffer]
	if !ok {
		return fmt.Errorf("update of unknown buffer %d", buffer)
	}
	if offset < 0 || offset+len(data) > len(dst) {
		return fmt.Errorf("update [%d,%d) outside buffer %d of %d floats", offset, offset+len(data), buffer, len(dst))
	}
	copy(dst[offset:], data)
	b.record(Call{Op: OpUpdateVertex, Buffer: buffer, Offset: offset, Length: len(data)})
	return nil
}

func (b *Backend) ReplaceVertexBuffer(buffer renderer.Buffer, data []float32) error {
	if _, ok := b.Vertices[buffer]; !ok {
		return fmt.Errorf("replace of unknown buffer %d", buffer)
	}
	b.Vertices[buffer] = append([]float32(nil), data...)
	b.record(Call{Op: OpReplaceVertex, Buffer: buffer, Length: len(data)})
	return nil
}

func (b *Backend) DestroyBuffer(buffer renderer.Buffer) {
	delete(b.Vertices, buffer)
	delete(b.Indices, buffer)
	b.record(Call{Op: OpDestroyBuffer, Buffer: buffer})
}

func (b *Backend) CreateTexture(img *image.RGBA) (renderer.Texture, error) {
	if b.FailAllocations {
		return 0, core.NewResourceError("texture", ErrInjected)
	}
	b.next++
	tex := renderer.Texture(b.next)
	b.record(Call{Op: OpCreateTexture, Texture: tex, Length: len(img.Pix)})
	return tex, nil
}

func (b *Backend) DestroyTexture(texture renderer.Texture) {
	b.record(Call{Op: OpDestroyTexture, Texture: texture})
}

func (b *Backend) BindTexture(unit int, texture renderer.Texture) {
	b.record(Call{Op: OpBindTexture, Offset: unit, Texture: texture})
}

func (b *Backend) UseProgram(program renderer.Program) error {
	b.Program = program
	b.record(Call{Op: OpUseProgram, Program: program})
	return nil
}

func (b *Backend) uniform(name string, value interface{}) {
	b.Uniforms[name] = value
	b.record(Call{Op: OpUniform, Name: name, Program: b.Program})
}

func (b *Backend) SetUniformMat4(name string, value mgl32.Mat4) { b.uniform(name, value) }
func (b *Backend) SetUniformVec2(name string, value mgl32.Vec2) { b.uniform(name, value) }
func (b *Backend) SetUniformVec3(name string, value mgl32.Vec3) { b.uniform(name, value) }
func (b *Backend) SetUniformVec4(name string, value mgl32.Vec4) { b.uniform(name, value) }
func (b *Backend) SetUniformFloat(name string, value float32)   { b.uniform(name, value) }
func (b *Backend) SetUniformInt(name string, value int32)       { b.uniform(name, value) }

func (b *Backend) Draw(cmd renderer.DrawCommand) error {
	b.record(Call{Op: OpDraw, Command: cmd, Program: b.Program})
	return b.DrawError
}
