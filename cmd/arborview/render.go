package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/arbor"
)

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

var (
	boneColor = color.RGBA{R: 120, G: 200, B: 255, A: 255}
	rootColor = color.RGBA{R: 255, G: 170, B: 60, A: 255}
	nodeColor = color.RGBA{R: 235, G: 235, B: 235, A: 255}
)

const (
	boneWidth = 2.0
	nodeSize  = 3.0
)

// lineBatch accumulates untextured quads and submits them in a single
// DrawTriangles32 call. Buffers are reused across frames.
type lineBatch struct {
	verts []ebiten.Vertex
	inds  []uint32
}

func (b *lineBatch) reset() {
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
}

func (b *lineBatch) quad(x0, y0, x1, y1, x2, y2, x3, y3 float64, clr color.RGBA) {
	base := uint32(len(b.verts))
	r := float32(clr.R) / 255
	g := float32(clr.G) / 255
	bl := float32(clr.B) / 255
	a := float32(clr.A) / 255
	for _, p := range [4][2]float64{{x0, y0}, {x1, y1}, {x2, y2}, {x3, y3}} {
		b.verts = append(b.verts, ebiten.Vertex{
			DstX: float32(p[0]), DstY: float32(p[1]),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: r, ColorG: g, ColorB: bl, ColorA: a,
		})
	}
	b.inds = append(b.inds, base, base+1, base+2, base, base+2, base+3)
}

// line adds a segment of the given pixel width.
func (b *lineBatch) line(ax, ay, bx, by, width float64, clr color.RGBA) {
	px, py := perpendicular(ax, ay, bx, by)
	hw := width / 2
	px *= hw
	py *= hw
	b.quad(ax+px, ay+py, bx+px, by+py, bx-px, by-py, ax-px, ay-py, clr)
}

// point adds a square centered on (x, y).
func (b *lineBatch) point(x, y, size float64, clr color.RGBA) {
	h := size / 2
	b.quad(x-h, y-h, x+h, y-h, x+h, y+h, x-h, y+h, clr)
}

func (b *lineBatch) flush(dst *ebiten.Image) {
	if len(b.inds) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.AntiAlias = true
	dst.DrawTriangles32(b.verts, b.inds, ensureWhitePixel(), &op)
}

// perpendicular returns the unit left-perpendicular of the segment from a to b.
func perpendicular(ax, ay, bx, by float64) (float64, float64) {
	dx := bx - ax
	dy := by - ay
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}

// drawGraph adds the bones and joints of g as seen through cam.
func drawGraph(b *lineBatch, cam *camera, g *arbor.SceneGraph) {
	for n := 0; n < g.NumNodes(); n++ {
		pos := g.WorldPosition(n)
		sx, sy := cam.WorldToScreen(float64(pos[0]), float64(pos[1]))
		p := g.Parent(n)
		if p == arbor.NoParent {
			b.point(sx, sy, nodeSize*2, rootColor)
			continue
		}
		pp := g.WorldPosition(p)
		px, py := cam.WorldToScreen(float64(pp[0]), float64(pp[1]))
		b.line(px, py, sx, sy, boneWidth, boneColor)
		b.point(sx, sy, nodeSize, nodeColor)
	}
}
