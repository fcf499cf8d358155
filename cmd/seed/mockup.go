package main

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// renderMockup draws a wireframe landing page: header bar, hero block,
// call to action and a three column feature grid
func renderMockup(width, height int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	fill := func(x0, y0, x1, y1 int, c color.RGBA) {
		draw.Draw(img, image.Rect(x0, y0, x1, y1), &image.Uniform{c}, image.Point{}, draw.Src)
	}

	background := color.RGBA{0xf7, 0xf7, 0xfa, 0xff}
	header := color.RGBA{0x1f, 0x29, 0x37, 0xff}
	hero := color.RGBA{0xc7, 0xd2, 0xfe, 0xff}
	cta := color.RGBA{0x4f, 0x46, 0xe5, 0xff}
	card := color.RGBA{0xe5, 0xe7, 0xeb, 0xff}

	fill(0, 0, width, height, background)
	fill(0, 0, width, height/10, header)
	fill(width/10, height/6, width*9/10, height/2, hero)
	fill(width*2/5, height*2/5, width*3/5, height*23/50, cta)

	colWidth := width * 8 / 30
	gap := width / 30
	for i := 0; i < 3; i++ {
		x0 := width/10 + i*(colWidth+gap)
		fill(x0, height*11/20, x0+colWidth, height*17/20, card)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
