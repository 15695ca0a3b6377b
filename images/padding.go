package images

import "fmt"

// AddPadding returns a new buffer enlarged by zero-valued (black) borders
// of the given per-side thicknesses. The source buffer is never mutated,
// and the result is always a distinct allocation, even when all four
// values are zero.
//
// The output shape is (H+top+bottom, W+left+right) for grayscale inputs
// and (H+top+bottom, W+left+right, C) for color inputs; the source is
// reproduced exactly in the region [top : H+top, left : W+left].
//
// Arguments:
// - src: The buffer to pad.
// - left, top, right, bottom: Border thickness in pixels on each side.
//
// Returns:
// - *PixelBuffer: The padded buffer, owned by the caller.
// - error: ErrShapeMismatch-kinded error if any thickness is negative.
//
// @example
// padded, err := images.AddPadding(buf, 10, 10, 10, 10)
func AddPadding(src *PixelBuffer, left, top, right, bottom int) (*PixelBuffer, error) {
	return AddPaddingColor(src, left, top, right, bottom, nil)
}

// AddPaddingColor is AddPadding with an explicit border fill. The border
// value must carry one sample per channel of the source buffer (one sample
// for grayscale); a nil border means zero fill. Geometry behaves exactly
// as in AddPadding.
func AddPaddingColor(src *PixelBuffer, left, top, right, bottom int, border []uint8) (*PixelBuffer, error) {
	if left < 0 || top < 0 || right < 0 || bottom < 0 {
		return nil, fmt.Errorf("%w: negative padding (left=%d, top=%d, right=%d, bottom=%d)",
			ErrShapeMismatch, left, top, right, bottom)
	}

	ps := src.pixelSize()
	if border != nil && len(border) != ps {
		return nil, fmt.Errorf("%w: border has %d samples, buffer pixels have %d",
			ErrShapeMismatch, len(border), ps)
	}

	newHeight := src.height + top + bottom
	newWidth := src.width + left + right

	var dst *PixelBuffer
	var err error
	if src.layout == LayoutGrayscale {
		dst, err = NewGrayscale(newHeight, newWidth)
	} else {
		dst, err = NewColor(newHeight, newWidth, src.channels)
	}
	if err != nil {
		return nil, err
	}

	if border != nil && !allZero(border) {
		fillBorder(dst, border)
	}

	// Row-wise copy of the source into the interior region
	// [top : newHeight-bottom, left : newWidth-right].
	srcRow := src.rowSize()
	dstRow := dst.rowSize()
	for y := 0; y < src.height; y++ {
		srcOff := y * srcRow
		dstOff := (top+y)*dstRow + left*ps
		copy(dst.data[dstOff:dstOff+srcRow], src.data[srcOff:srcOff+srcRow])
	}
	return dst, nil
}

// fillBorder floods the whole destination with the border pixel before the
// interior copy overwrites the middle.
func fillBorder(dst *PixelBuffer, border []uint8) {
	ps := dst.pixelSize()
	if ps == 1 {
		for i := range dst.data {
			dst.data[i] = border[0]
		}
		return
	}
	for i := 0; i < len(dst.data); i += ps {
		copy(dst.data[i:i+ps], border)
	}
}

func allZero(s []uint8) bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}
