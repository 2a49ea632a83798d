package terminal

import "github.com/go-gl/mathgl/mgl32"

type cell struct {
	x, y  int
	depth float32
}

// project maps a model-space point to a screen cell. Points behind the
// camera are rejected; points off screen are kept so edges still clip.
func project(mvp mgl32.Mat4, p mgl32.Vec3, width, height int) (cell, bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	if clip[3] <= 1e-6 {
		return cell{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	x := (ndc[0] + 1) / 2 * float32(width)
	y := (1 - ndc[1]) / 2 * float32(height)
	return cell{x: floor(x), y: floor(y), depth: ndc[2]}, true
}

func floor(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}

// maxSpan bounds rasterization of edges that project far off screen.
const maxSpan = 4096

// line returns the cells of a Bresenham line from a to b, interpolating
// depth.
func line(a, b cell) []cell {
	dx := abs(b.x - a.x)
	dy := -abs(b.y - a.y)
	if dx > maxSpan || -dy > maxSpan {
		return nil
	}
	sx, sy := 1, 1
	if a.x > b.x {
		sx = -1
	}
	if a.y > b.y {
		sy = -1
	}
	steps := dx
	if -dy > steps {
		steps = -dy
	}

	out := make([]cell, 0, steps+1)
	err := dx + dy
	x, y := a.x, a.y
	for i := 0; ; i++ {
		t := float32(0)
		if steps > 0 {
			t = float32(i) / float32(steps)
		}
		out = append(out, cell{x: x, y: y, depth: a.depth + (b.depth-a.depth)*t})
		if x == b.x && y == b.y {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
