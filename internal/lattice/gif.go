package lattice

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"
)

var (
	spinPalette = color.Palette{color.White, color.Black, color.Gray{Y: 0x80}}

	particlePalette = color.Palette{
		color.White,
		color.Black,
		color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
		color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	}
)

func delay(fps int) int {
	if fps <= 0 {
		fps = 5
	}
	return max(1, 100/fps)
}

// EncodeFramesGIF animates spin frames: -1 white, +1 black, anything else
// grey. Each spin is drawn as a scale x scale block.
func EncodeFramesGIF(w io.Writer, frames []*Frame, scale, fps int) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if scale <= 0 {
		scale = 1
	}

	anim := &gif.GIF{}
	for _, f := range frames {
		n := f.Size()
		img := image.NewPaletted(image.Rect(0, 0, n*scale, n*scale), spinPalette)
		for i, row := range f.Spins {
			for j, s := range row {
				idx := uint8(2)
				switch s {
				case -1:
					idx = 0
				case 1:
					idx = 1
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						img.SetColorIndex(j*scale+dx, i*scale+dy, idx)
					}
				}
			}
		}
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delay(fps))
	}
	return gif.EncodeAll(w, anim)
}

// Scene describes the circular container drawn behind particle snapshots.
type Scene struct {
	ContainerRadius float64
	ObstacleRadius  float64
	ParticleRadius  float64

	// Pixels is the image side.
	Pixels int
	FPS    int
}

func (s Scene) withDefaults() Scene {
	if s.ContainerRadius <= 0 {
		s.ContainerRadius = 0.05
	}
	if s.ObstacleRadius < 0 {
		s.ObstacleRadius = 0
	}
	if s.ParticleRadius <= 0 {
		s.ParticleRadius = s.ContainerRadius / 100
	}
	if s.Pixels <= 0 {
		s.Pixels = 400
	}
	return s
}

// EncodeSnapshotsGIF animates particles inside a circular container
// centred on the origin with a fixed obstacle.
func EncodeSnapshotsGIF(w io.Writer, snaps []Snapshot, scene Scene) error {
	if len(snaps) == 0 {
		return ErrNoFrames
	}
	scene = scene.withDefaults()

	// 10% margin around the container
	px := float64(scene.Pixels) / (2.4 * scene.ContainerRadius)
	c := float64(scene.Pixels) / 2
	toPix := func(x, y float64) (float64, float64) {
		return c + x*px, c - y*px
	}

	anim := &gif.GIF{}
	for _, s := range snaps {
		img := image.NewPaletted(image.Rect(0, 0, scene.Pixels, scene.Pixels), particlePalette)
		ring(img, c, c, scene.ContainerRadius*px, 1)
		disc(img, c, c, scene.ObstacleRadius*px, 2)
		for _, p := range s.Particles {
			x, y := toPix(p.X, p.Y)
			disc(img, x, y, math.Max(1, scene.ParticleRadius*px), 3)
		}
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delay(scene.FPS))
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encode %d snapshots: %w", len(snaps), err)
	}
	return nil
}

func disc(img *image.Paletted, cx, cy, r float64, idx uint8) {
	b := img.Bounds()
	for y := int(cy - r); y <= int(cy+r); y++ {
		for x := int(cx - r); x <= int(cx+r); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r*r && image.Pt(x, y).In(b) {
				img.SetColorIndex(x, y, idx)
			}
		}
	}
}

func ring(img *image.Paletted, cx, cy, r float64, idx uint8) {
	steps := int(2*math.Pi*r) * 2
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x, y := int(cx+r*math.Cos(a)), int(cy+r*math.Sin(a))
		if image.Pt(x, y).In(img.Bounds()) {
			img.SetColorIndex(x, y, idx)
		}
	}
}
