package scene

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/solaris/engine/core"
	"github.com/spaghettifunk/solaris/engine/renderer"
)

// geometry is the CPU copy of a variant's vertex data plus the backend
// buffers it was uploaded to.
type geometry struct {
	primitive renderer.Primitive
	usage     renderer.BufferUsage
	positions []float32
	uvs       []float32
	indices   []uint16
	// count is the number of vertices (or indices) to draw
	count int

	positionBuffer renderer.Buffer
	uvBuffer       renderer.Buffer
	indexBuffer    renderer.Buffer
	uploaded       bool
}

func newGeometry(primitive renderer.Primitive, usage renderer.BufferUsage, positions, uvs []float32, indices []uint16) *geometry {
	g := &geometry{
		primitive: primitive,
		usage:     usage,
		positions: positions,
		uvs:       uvs,
		indices:   indices,
	}
	if len(indices) > 0 {
		g.count = len(indices)
	} else {
		g.count = len(positions) / 3
	}
	return g
}

func (g *geometry) vertexCount() int {
	return len(g.positions) / 3
}

// upload allocates every buffer once. On failure the buffers created so far
// are released and the geometry stays not uploaded.
func (g *geometry) upload(b renderer.Backend) error {
	if g.uploaded {
		return nil
	}
	var err error
	if g.positionBuffer, err = b.CreateVertexBuffer(g.positions, g.usage); err != nil {
		return asResourceError("position buffer", err)
	}
	if len(g.uvs) > 0 {
		if g.uvBuffer, err = b.CreateVertexBuffer(g.uvs, renderer.StaticDraw); err != nil {
			g.release(b)
			return asResourceError("uv buffer", err)
		}
	}
	if len(g.indices) > 0 {
		if g.indexBuffer, err = b.CreateIndexBuffer(g.indices); err != nil {
			g.release(b)
			return asResourceError("index buffer", err)
		}
	}
	g.uploaded = true
	return nil
}

func (g *geometry) release(b renderer.Backend) {
	for _, buf := range []*renderer.Buffer{&g.positionBuffer, &g.uvBuffer, &g.indexBuffer} {
		if *buf != 0 {
			b.DestroyBuffer(*buf)
			*buf = 0
		}
	}
	g.uploaded = false
}

func (g *geometry) command() renderer.DrawCommand {
	return renderer.DrawCommand{
		Primitive: g.primitive,
		Positions: g.positionBuffer,
		UVs:       g.uvBuffer,
		Indices:   g.indexBuffer,
		Count:     g.count,
	}
}

func asResourceError(resource string, err error) error {
	if errors.Is(err, core.ErrResource) {
		return fmt.Errorf("%s: %w", resource, err)
	}
	return core.NewResourceError(resource, err)
}
