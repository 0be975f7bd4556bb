// Package renderer draws the composited field and brush overlays with raylib.
package renderer

import (
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slime/camera"
)

// ViewportRenderer uploads the compositor's viewport image to a texture and
// draws the visible part of it through the camera.
type ViewportRenderer struct {
	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA

	initialized bool
}

// NewViewportRenderer creates a viewport renderer. The texture is created lazily
// on the first upload, after the raylib window exists.
func NewViewportRenderer() *ViewportRenderer {
	return &ViewportRenderer{}
}

// init (re)creates the texture at the given size.
func (r *ViewportRenderer) init(w, h int) {
	if r.initialized {
		rl.UnloadTexture(r.tex)
	}
	r.texW = w
	r.texH = h
	r.pixels = make([]color.RGBA, w*h)

	img := rl.GenImageColor(w, h, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	// Cells stay crisp when zoomed in.
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.SetTextureWrap(r.tex, rl.WrapClamp)
	rl.UnloadImage(img)

	r.initialized = true
}

// Upload copies a rendered frame to the GPU texture, resizing it if the field changed.
func (r *ViewportRenderer) Upload(frame *image.RGBA) {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if !r.initialized || w != r.texW || h != r.texH {
		r.init(w, h)
	}

	for y := 0; y < h; y++ {
		row := frame.Pix[y*frame.Stride : y*frame.Stride+w*4]
		out := r.pixels[y*w : (y+1)*w]
		for x := range out {
			p := row[x*4 : x*4+4 : x*4+4]
			out[x] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	}

	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the visible part of the field into the camera viewport.
func (r *ViewportRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}

	minX, minY, maxX, maxY := cam.VisibleFieldBounds()
	srcRect := rl.Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}

	sx0, sy0 := cam.FieldToScreen(minX, minY)
	sx1, sy1 := cam.FieldToScreen(maxX, maxY)
	dstRect := rl.Rectangle{X: sx0, Y: sy0, Width: sx1 - sx0, Height: sy1 - sy0}

	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)

	// Field border
	rl.DrawRectangleLinesEx(dstRect, 1, rl.Color{R: 60, G: 60, B: 70, A: 255})
}

// DrawBrush outlines the brush disk at a field position.
func (r *ViewportRenderer) DrawBrush(cam *camera.Camera, fx, fy, radius float32, c color.RGBA) {
	sx, sy := cam.FieldToScreen(fx, fy)
	rl.DrawCircleLines(int32(sx), int32(sy), cam.ScreenRadius(radius), c)
}

// DrawFoodMarkers marks each food source with a small ring, so exhausted
// sources remain visible on the field.
func (r *ViewportRenderer) DrawFoodMarkers(cam *camera.Camera, xs, ys []float32, c color.RGBA) {
	for i := range xs {
		sx, sy := cam.FieldToScreen(xs[i], ys[i])
		if !cam.InViewport(sx, sy) {
			continue
		}
		rl.DrawCircleLines(int32(sx), int32(sy), max(cam.ScreenRadius(0.5), 2), c)
	}
}

// Unload releases GPU resources.
func (r *ViewportRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.tex)
		r.initialized = false
	}
}
