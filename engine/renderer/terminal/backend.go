// Package terminal renders the scene as coloured wireframes in a text
// terminal. Buffers live in memory; every draw projects vertices on the CPU
// and rasterizes edges into screen cells.
package terminal

import (
	"fmt"
	"image"
	m "math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/renderer"
)

type cpuBuffer struct {
	floats  []float32
	indices []uint16
}

type Backend struct {
	screen tcell.Screen

	buffers  map[renderer.Buffer]*cpuBuffer
	textures map[renderer.Texture]mgl32.Vec4
	next     uint32

	program  renderer.Program
	uniforms map[string]interface{}
	bound    renderer.Texture

	width  int
	height int
	depth  []float32
	status string
}

func NewBackend(screen tcell.Screen) *Backend {
	return &Backend{
		screen:   screen,
		buffers:  make(map[renderer.Buffer]*cpuBuffer),
		textures: make(map[renderer.Texture]mgl32.Vec4),
		uniforms: make(map[string]interface{}),
	}
}

// SetStatus sets the text drawn on the bottom row at the end of each frame.
func (b *Backend) SetStatus(s string) {
	b.status = s
}

func (b *Backend) BeginFrame(viewport renderer.Viewport) error {
	b.screen.Clear()
	b.width, b.height = b.screen.Size()
	n := b.width * b.height
	if cap(b.depth) < n {
		b.depth = make([]float32, n)
	}
	b.depth = b.depth[:n]
	for i := range b.depth {
		b.depth[i] = m.MaxFloat32
	}
	return nil
}

func (b *Backend) EndFrame() error {
	if b.status != "" && b.height > 0 {
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
		col := 0
		for _, r := range b.status {
			if col >= b.width {
				break
			}
			b.screen.SetContent(col, b.height-1, r, nil, style)
			col++
		}
	}
	b.screen.Show()
	return nil
}

func (b *Backend) allocate(buf *cpuBuffer) renderer.Buffer {
	b.next++
	handle := renderer.Buffer(b.next)
	b.buffers[handle] = buf
	return handle
}

func (b *Backend) CreateVertexBuffer(data []float32, usage renderer.BufferUsage) (renderer.Buffer, error) {
	return b.allocate(&cpuBuffer{floats: append([]float32(nil), data...)}), nil
}

func (b *Backend) CreateIndexBuffer(data []uint16) (renderer.Buffer, error) {
	return b.allocate(&cpuBuffer{indices: append([]uint16(nil), data...)}), nil
}

func (b *Backend) UpdateVertexBuffer(handle renderer.Buffer, offset int, data []float32) error {
	buf, ok := b.buffers[handle]
	if !ok {
		return core.NewNotFoundError("buffer", fmt.Sprint(handle))
	}
	if offset < 0 || offset+len(data) > len(buf.floats) {
		return core.NewConfigurationError("buffer", "write of %d floats at %d exceeds length %d", len(data), offset, len(buf.floats))
	}
	copy(buf.floats[offset:], data)
	return nil
}

func (b *Backend) ReplaceVertexBuffer(handle renderer.Buffer, data []float32) error {
	buf, ok := b.buffers[handle]
	if !ok {
		return core.NewNotFoundError("buffer", fmt.Sprint(handle))
	}
	buf.floats = append(buf.floats[:0], data...)
	return nil
}

func (b *Backend) DestroyBuffer(handle renderer.Buffer) {
	delete(b.buffers, handle)
}

// CreateTexture keeps only the image's mean colour; cells are too coarse for
// anything more.
func (b *Backend) CreateTexture(img *image.RGBA) (renderer.Texture, error) {
	if img == nil || img.Rect.Empty() {
		return 0, core.NewConfigurationError("texture", "image is empty")
	}
	b.next++
	handle := renderer.Texture(b.next)
	b.textures[handle] = meanColour(img)
	return handle, nil
}

func (b *Backend) DestroyTexture(handle renderer.Texture) {
	delete(b.textures, handle)
}

func (b *Backend) BindTexture(unit int, handle renderer.Texture) {
	if unit == 0 {
		b.bound = handle
	}
}

// UseProgram accepts any handle. Custom programs are drawn like the default
// one since there is no shader stage here.
func (b *Backend) UseProgram(program renderer.Program) error {
	b.program = program
	return nil
}

func (b *Backend) SetUniformMat4(name string, value mgl32.Mat4) { b.uniforms[name] = value }
func (b *Backend) SetUniformVec2(name string, value mgl32.Vec2) { b.uniforms[name] = value }
func (b *Backend) SetUniformVec3(name string, value mgl32.Vec3) { b.uniforms[name] = value }
func (b *Backend) SetUniformVec4(name string, value mgl32.Vec4) { b.uniforms[name] = value }
func (b *Backend) SetUniformFloat(name string, value float32)   { b.uniforms[name] = value }
func (b *Backend) SetUniformInt(name string, value int32)       { b.uniforms[name] = value }

func (b *Backend) mat4(name string) mgl32.Mat4 {
	if v, ok := b.uniforms[name].(mgl32.Mat4); ok {
		return v
	}
	return mgl32.Ident4()
}

func (b *Backend) colour() mgl32.Vec4 {
	c, ok := b.uniforms[renderer.UniformColour].(mgl32.Vec4)
	if !ok {
		c = mgl32.Vec4{1, 1, 1, 1}
	}
	if use, _ := b.uniforms[renderer.UniformUseTexture].(int32); use != 0 {
		if t, ok := b.textures[b.bound]; ok {
			c = mgl32.Vec4{c[0] * t[0], c[1] * t[1], c[2] * t[2], c[3] * t[3]}
		}
	}
	return c
}

func (b *Backend) Draw(cmd renderer.DrawCommand) error {
	if cmd.Count <= 0 {
		return nil
	}
	pos, ok := b.buffers[cmd.Positions]
	if !ok {
		return core.NewNotFoundError("buffer", fmt.Sprint(cmd.Positions))
	}
	var indices []uint16
	if cmd.Indices != 0 {
		ib, ok := b.buffers[cmd.Indices]
		if !ok {
			return core.NewNotFoundError("buffer", fmt.Sprint(cmd.Indices))
		}
		indices = ib.indices
	}

	mvp := b.mat4(renderer.UniformProjection).Mul4(b.mat4(renderer.UniformView)).Mul4(b.mat4(renderer.UniformModel))
	style := tcell.StyleDefault.Foreground(toColour(b.colour()))

	vertex := func(i int) (cell, bool) {
		idx := cmd.First + i
		if indices != nil {
			if idx >= len(indices) {
				return cell{}, false
			}
			idx = int(indices[idx])
		}
		if 3*idx+2 >= len(pos.floats) {
			return cell{}, false
		}
		p := mgl32.Vec3{pos.floats[3*idx], pos.floats[3*idx+1], pos.floats[3*idx+2]}
		return project(mvp, p, b.width, b.height)
	}

	switch cmd.Primitive {
	case renderer.Points:
		for i := 0; i < cmd.Count; i++ {
			if c, ok := vertex(i); ok {
				b.plot(c, '*', style)
			}
		}
	case renderer.Lines:
		for i := 0; i+1 < cmd.Count; i += 2 {
			b.edge(vertex, i, i+1, '.', style)
		}
	case renderer.LineStrip:
		for i := 0; i+1 < cmd.Count; i++ {
			b.edge(vertex, i, i+1, '.', style)
		}
	case renderer.Triangles:
		for i := 0; i+2 < cmd.Count; i += 3 {
			b.edge(vertex, i, i+1, '#', style)
			b.edge(vertex, i+1, i+2, '#', style)
			b.edge(vertex, i+2, i, '#', style)
		}
	default:
		return core.NewConfigurationError("draw", "unsupported primitive %s", cmd.Primitive)
	}
	return nil
}

func (b *Backend) edge(vertex func(int) (cell, bool), i, j int, r rune, style tcell.Style) {
	a, ok := vertex(i)
	if !ok {
		return
	}
	c, ok := vertex(j)
	if !ok {
		return
	}
	for _, p := range line(a, c) {
		b.plot(p, r, style)
	}
}

// plot writes a cell unless something nearer is already there.
func (b *Backend) plot(c cell, r rune, style tcell.Style) {
	if c.x < 0 || c.y < 0 || c.x >= b.width || c.y >= b.height {
		return
	}
	i := c.y*b.width + c.x
	if c.depth > b.depth[i] {
		return
	}
	b.depth[i] = c.depth
	b.screen.SetContent(c.x, c.y, r, nil, style)
}

func toColour(c mgl32.Vec4) tcell.Color {
	ch := func(v float32) int32 {
		return int32(mgl32.Clamp(v, 0, 1) * 255)
	}
	return tcell.NewRGBColor(ch(c[0]), ch(c[1]), ch(c[2]))
}

func meanColour(img *image.RGBA) mgl32.Vec4 {
	var sum [4]float64
	n := 0
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			c := img.RGBAAt(x, y)
			sum[0] += float64(c.R)
			sum[1] += float64(c.G)
			sum[2] += float64(c.B)
			sum[3] += float64(c.A)
			n++
		}
	}
	scale := 1 / (255 * float64(n))
	return mgl32.Vec4{float32(sum[0] * scale), float32(sum[1] * scale), float32(sum[2] * scale), float32(sum[3] * scale)}
}
