// Package opengl implements renderer.Backend on an OpenGL 4.1 core context.
// Every call must happen on the goroutine that owns the context.
package opengl

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/renderer"
)

type buffer struct {
	target uint32
	usage  uint32
	// length in elements: floats for vertex buffers, indices otherwise
	length int
}

type Backend struct {
	vao      uint32
	buffers  map[renderer.Buffer]*buffer
	textures map[renderer.Texture]struct{}
	programs map[renderer.Program]*program

	defaultProgram *program
	current        *program
	clearColour    mgl32.Vec4
}

// New initializes the GL function pointers and builds the default program.
// The context must be current.
func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, core.NewResourceError("opengl", err)
	}
	core.LogInfo("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	b := &Backend{
		buffers:     make(map[renderer.Buffer]*buffer),
		textures:    make(map[renderer.Texture]struct{}),
		programs:    make(map[renderer.Program]*program),
		clearColour: mgl32.Vec4{0, 0, 0, 1},
	}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	p, err := linkProgram(DefaultVertexShader, DefaultFragmentShader)
	if err != nil {
		return nil, core.NewResourceError("default program", err)
	}
	b.defaultProgram = p

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return b, nil
}

// NewProgram compiles and links a shader pair. Attribute locations follow
// renderer.PositionLocation and renderer.UVLocation.
func (b *Backend) NewProgram(vertexSource, fragmentSource string) (renderer.Program, error) {
	p, err := linkProgram(vertexSource, fragmentSource)
	if err != nil {
		return 0, core.NewResourceError("program", err)
	}
	handle := renderer.Program(p.id)
	b.programs[handle] = p
	return handle, nil
}

func (b *Backend) DestroyProgram(handle renderer.Program) {
	p, ok := b.programs[handle]
	if !ok {
		return
	}
	if b.current == p {
		b.current = nil
	}
	gl.DeleteProgram(p.id)
	delete(b.programs, handle)
}

func (b *Backend) SetClearColour(c mgl32.Vec4) {
	b.clearColour = c
}

func (b *Backend) BeginFrame(viewport renderer.Viewport) error {
	gl.Viewport(0, 0, int32(viewport.Width), int32(viewport.Height))
	gl.ClearColor(b.clearColour[0], b.clearColour[1], b.clearColour[2], b.clearColour[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func (b *Backend) EndFrame() error {
	return glError("end frame")
}

func (b *Backend) CreateVertexBuffer(data []float32, usage renderer.BufferUsage) (renderer.Buffer, error) {
	return b.createBuffer(gl.ARRAY_BUFFER, glUsage(usage), len(data), 4, ptr(data))
}

func (b *Backend) CreateIndexBuffer(data []uint16) (renderer.Buffer, error) {
	var p unsafe.Pointer
	if len(data) > 0 {
		p = gl.Ptr(data)
	}
	return b.createBuffer(gl.ELEMENT_ARRAY_BUFFER, gl.STATIC_DRAW, len(data), 2, p)
}

func (b *Backend) createBuffer(target, usage uint32, length, stride int, data unsafe.Pointer) (renderer.Buffer, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, core.NewResourceError("buffer", errors.New("glGenBuffers returned no name"))
	}
	gl.BindBuffer(target, id)
	gl.BufferData(target, length*stride, data, usage)
	if err := glError("buffer upload"); err != nil {
		gl.DeleteBuffers(1, &id)
		return 0, core.NewResourceError("buffer", err)
	}
	handle := renderer.Buffer(id)
	b.buffers[handle] = &buffer{target: target, usage: usage, length: length}
	return handle, nil
}

func (b *Backend) UpdateVertexBuffer(handle renderer.Buffer, offset int, data []float32) error {
	buf, ok := b.buffers[handle]
	if !ok {
		return core.NewNotFoundError("buffer", fmt.Sprint(handle))
	}
	if len(data) == 0 {
		return nil
	}
	if offset < 0 || offset+len(data) > buf.length {
		return core.NewConfigurationError("buffer", "write of %d floats at %d exceeds length %d", len(data), offset, buf.length)
	}
	gl.BindBuffer(buf.target, uint32(handle))
	gl.BufferSubData(buf.target, offset*4, len(data)*4, gl.Ptr(data))
	return glError("buffer update")
}

func (b *Backend) ReplaceVertexBuffer(handle renderer.Buffer, data []float32) error {
	buf, ok := b.buffers[handle]
	if !ok {
		return core.NewNotFoundError("buffer", fmt.Sprint(handle))
	}
	gl.BindBuffer(buf.target, uint32(handle))
	gl.BufferData(buf.target, len(data)*4, ptr(data), buf.usage)
	buf.length = len(data)
	return glError("buffer replace")
}

func (b *Backend) DestroyBuffer(handle renderer.Buffer) {
	if _, ok := b.buffers[handle]; !ok {
		return
	}
	id := uint32(handle)
	gl.DeleteBuffers(1, &id)
	delete(b.buffers, handle)
}

func (b *Backend) CreateTexture(img *image.RGBA) (renderer.Texture, error) {
	if img == nil || img.Rect.Empty() {
		return 0, core.NewConfigurationError("texture", "image is empty")
	}
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return 0, core.NewResourceError("texture", errors.New("glGenTextures returned no name"))
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Rect.Dx()), int32(img.Rect.Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	if err := glError("texture upload"); err != nil {
		gl.DeleteTextures(1, &id)
		return 0, core.NewResourceError("texture", err)
	}
	handle := renderer.Texture(id)
	b.textures[handle] = struct{}{}
	return handle, nil
}

func (b *Backend) DestroyTexture(handle renderer.Texture) {
	if _, ok := b.textures[handle]; !ok {
		return
	}
	id := uint32(handle)
	gl.DeleteTextures(1, &id)
	delete(b.textures, handle)
}

func (b *Backend) BindTexture(unit int, handle renderer.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(handle))
}

func (b *Backend) UseProgram(handle renderer.Program) error {
	p := b.defaultProgram
	if handle != renderer.DefaultProgram {
		var ok bool
		if p, ok = b.programs[handle]; !ok {
			return core.NewNotFoundError("program", fmt.Sprint(handle))
		}
	}
	gl.UseProgram(p.id)
	b.current = p
	return nil
}

func (b *Backend) uniform(name string) (int32, bool) {
	if b.current == nil {
		return -1, false
	}
	loc := b.current.location(name)
	return loc, loc >= 0
}

func (b *Backend) SetUniformMat4(name string, value mgl32.Mat4) {
	if loc, ok := b.uniform(name); ok {
		gl.UniformMatrix4fv(loc, 1, false, &value[0])
	}
}

func (b *Backend) SetUniformVec2(name string, value mgl32.Vec2) {
	if loc, ok := b.uniform(name); ok {
		gl.Uniform2f(loc, value[0], value[1])
	}
}

func (b *Backend) SetUniformVec3(name string, value mgl32.Vec3) {
	if loc, ok := b.uniform(name); ok {
		gl.Uniform3f(loc, value[0], value[1], value[2])
	}
}

func (b *Backend) SetUniformVec4(name string, value mgl32.Vec4) {
	if loc, ok := b.uniform(name); ok {
		gl.Uniform4f(loc, value[0], value[1], value[2], value[3])
	}
}

func (b *Backend) SetUniformFloat(name string, value float32) {
	if loc, ok := b.uniform(name); ok {
		gl.Uniform1f(loc, value)
	}
}

func (b *Backend) SetUniformInt(name string, value int32) {
	if loc, ok := b.uniform(name); ok {
		gl.Uniform1i(loc, value)
	}
}

func (b *Backend) Draw(cmd renderer.DrawCommand) error {
	if cmd.Count <= 0 {
		return nil
	}
	if _, ok := b.buffers[cmd.Positions]; !ok {
		return core.NewNotFoundError("buffer", fmt.Sprint(cmd.Positions))
	}
	gl.BindVertexArray(b.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(cmd.Positions))
	gl.EnableVertexAttribArray(renderer.PositionLocation)
	gl.VertexAttribPointerWithOffset(renderer.PositionLocation, 3, gl.FLOAT, false, 0, 0)

	if cmd.UVs != 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, uint32(cmd.UVs))
		gl.EnableVertexAttribArray(renderer.UVLocation)
		gl.VertexAttribPointerWithOffset(renderer.UVLocation, 2, gl.FLOAT, false, 0, 0)
	} else {
		gl.DisableVertexAttribArray(renderer.UVLocation)
		gl.VertexAttrib2f(renderer.UVLocation, 0, 0)
	}

	mode := glPrimitive(cmd.Primitive)
	if cmd.Indices != 0 {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(cmd.Indices))
		gl.DrawElementsWithOffset(mode, int32(cmd.Count), gl.UNSIGNED_SHORT, uintptr(cmd.First*2))
	} else {
		gl.DrawArrays(mode, int32(cmd.First), int32(cmd.Count))
	}
	return glError("draw " + cmd.Primitive.String())
}

// Close releases every GL object the backend still owns.
func (b *Backend) Close() {
	for handle := range b.buffers {
		b.DestroyBuffer(handle)
	}
	for handle := range b.textures {
		b.DestroyTexture(handle)
	}
	for handle := range b.programs {
		b.DestroyProgram(handle)
	}
	if b.defaultProgram != nil {
		gl.DeleteProgram(b.defaultProgram.id)
		b.defaultProgram = nil
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}

func glUsage(u renderer.BufferUsage) uint32 {
	if u == renderer.DynamicDraw {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

func glPrimitive(p renderer.Primitive) uint32 {
	switch p {
	case renderer.Lines:
		return gl.LINES
	case renderer.LineStrip:
		return gl.LINE_STRIP
	case renderer.Points:
		return gl.POINTS
	}
	return gl.TRIANGLES
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", op, code)
	}
	return nil
}

// ptr returns nil for empty slices; gl.Ptr panics on them.
func ptr(data []float32) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}
