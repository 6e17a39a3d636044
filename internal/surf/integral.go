package surf

import "fmt"

// layout describes a padded 2-D buffer: an image of width x height cells
// surrounded on every side by border cells.
type layout struct {
	width  int
	height int
	border int
	stride int
}

func newLayout(width, height, border int) layout {
	return layout{
		width:  width,
		height: height,
		border: border,
		stride: width + 2*border,
	}
}

// index maps image coordinates, which may lie inside the border, to a
// buffer offset.
func (l layout) index(x, y int) int {
	return (y+l.border)*l.stride + x + l.border
}

func (l layout) cells() int {
	return l.stride * (l.height + 2*l.border)
}

// integralImage is a padded summed-area table. Cell (x, y) holds the sum of
// all pixels at columns <= x and rows <= y. Above and left of the image the
// table is 0; right of the image each row repeats its last sum and below the
// image the last row is repeated, so box sums that overhang the frame see the
// image as clamped.
type integralImage struct {
	layout
	data []int
}

func newIntegralImage(width, height, border int) *integralImage {
	l := newLayout(width, height, border)
	return &integralImage{
		layout: l,
		data:   make([]int, l.cells()),
	}
}

// build fills the table from a frame in the given pixel format. The frame
// length must already have been validated by the caller.
func (ii *integralImage) build(pix []byte, format PixelFormat) {
	bpp := format.BytesPerPixel()
	if bpp == 0 {
		panic(fmt.Sprintf("surf: integral image for unsupported %v", format))
	}

	w, h, border, stride := ii.width, ii.height, ii.border, ii.stride

	// Top border.
	for i := 0; i < border*stride; i++ {
		ii.data[i] = 0
	}

	src := 0
	for y := 0; y < h; y++ {
		row := ii.index(-border, y)
		for x := 0; x < border; x++ {
			ii.data[row+x] = 0
		}

		rs := 0
		for x := 0; x < w; x++ {
			if bpp == 1 {
				rs += int(pix[src])
			} else {
				rs += (int(pix[src]) + int(pix[src+1]) + int(pix[src+2])) / 3
			}
			src += bpp

			at := row + border + x
			if y == 0 {
				ii.data[at] = rs
			} else {
				ii.data[at] = rs + ii.data[at-stride]
			}
		}

		last := ii.data[row+border+w-1]
		for x := 0; x < border; x++ {
			ii.data[row+border+w+x] = last
		}
	}

	// Bottom border repeats the last image row.
	lastRow := ii.index(-border, h-1)
	for y := 0; y < border; y++ {
		copy(ii.data[lastRow+(y+1)*stride:lastRow+(y+2)*stride], ii.data[lastRow:lastRow+stride])
	}
}

// at returns the table value at image coordinates (x, y).
func (ii *integralImage) at(x, y int) int {
	return ii.data[ii.index(x, y)]
}

// Sum returns the sum of the xsize x ysize box whose top-left pixel is
// (sx, sy). The box may overhang the image by up to the border width.
func (ii *integralImage) Sum(sx, sy, xsize, ysize int) int {
	a := ii.at(sx-1, sy-1)
	b := ii.at(sx+xsize-1, sy-1)
	c := ii.at(sx-1, sy+ysize-1)
	d := ii.at(sx+xsize-1, sy+ysize-1)
	return a - b - c + d
}

// haarX is the horizontal Haar wavelet response of size s centred on
// (column, row): right half minus left half.
func (ii *integralImage) haarX(row, column, s int) int {
	return ii.Sum(column, row-s/2, s/2, s) - ii.Sum(column-s/2, row-s/2, s/2, s)
}

// haarY is the vertical Haar wavelet response: bottom half minus top half.
func (ii *integralImage) haarY(row, column, s int) int {
	return ii.Sum(column-s/2, row, s, s/2) - ii.Sum(column-s/2, row-s/2, s, s/2)
}
