package images

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradientColor builds an H×W×C buffer with a deterministic, non-repeating
// sample pattern so copy mistakes show up as value mismatches.
func gradientColor(t *testing.T, h, w, c int) *PixelBuffer {
	t.Helper()
	data := make([]uint8, h*w*c)
	for i := range data {
		data[i] = uint8((i*7 + 13) % 251)
	}
	buf, err := NewColorFrom(h, w, c, data)
	require.NoError(t, err)
	return buf
}

func gradientGray(t *testing.T, h, w int) *PixelBuffer {
	t.Helper()
	data := make([]uint8, h*w)
	for i := range data {
		data[i] = uint8((i*11 + 3) % 251)
	}
	buf, err := NewGrayscaleFrom(h, w, data)
	require.NoError(t, err)
	return buf
}

func TestAddPadding_Geometry(t *testing.T) {
	tests := []struct {
		name                     string
		src                      func(t *testing.T) *PixelBuffer
		left, top, right, bottom int
	}{
		{
			name: "Color uniform padding",
			src:  func(t *testing.T) *PixelBuffer { return gradientColor(t, 4, 6, 3) },
			left: 2, top: 2, right: 2, bottom: 2,
		},
		{
			name: "Color asymmetric padding",
			src:  func(t *testing.T) *PixelBuffer { return gradientColor(t, 5, 3, 3) },
			left: 1, top: 4, right: 0, bottom: 7,
		},
		{
			name: "Grayscale padding",
			src:  func(t *testing.T) *PixelBuffer { return gradientGray(t, 8, 8) },
			left: 3, top: 1, right: 2, bottom: 5,
		},
		{
			name: "Four channel padding",
			src:  func(t *testing.T) *PixelBuffer { return gradientColor(t, 2, 2, 4) },
			left: 1, top: 1, right: 1, bottom: 1,
		},
		{
			name: "Single pixel source",
			src:  func(t *testing.T) *PixelBuffer { return gradientColor(t, 1, 1, 3) },
			left: 0, top: 0, right: 9, bottom: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.src(t)
			before := src.Clone()

			padded, err := AddPadding(src, tt.left, tt.top, tt.right, tt.bottom)
			require.NoError(t, err)

			// Output shape is a deterministic function of input shape and
			// the four padding values.
			assert.Equal(t, src.Height()+tt.top+tt.bottom, padded.Height())
			assert.Equal(t, src.Width()+tt.left+tt.right, padded.Width())
			assert.Equal(t, src.Layout(), padded.Layout())
			assert.Equal(t, src.Channels(), padded.Channels())

			// The interior region reproduces the source exactly; every
			// sample outside it is zero.
			for y := 0; y < padded.Height(); y++ {
				for x := 0; x < padded.Width(); x++ {
					inside := y >= tt.top && y < tt.top+src.Height() &&
						x >= tt.left && x < tt.left+src.Width()
					px := padded.At(y, x)
					if inside {
						assert.Equal(t, src.At(y-tt.top, x-tt.left), px,
							"interior pixel (%d,%d)", y, x)
					} else {
						for _, s := range px {
							assert.Zero(t, s, "border pixel (%d,%d)", y, x)
						}
					}
				}
			}

			// Source must come back untouched.
			assert.True(t, src.Equal(before), "source mutated by AddPadding")
		})
	}
}

func TestAddPadding_NoOpReturnsDistinctEqualBuffer(t *testing.T) {
	src := gradientColor(t, 3, 5, 3)

	padded, err := AddPadding(src, 0, 0, 0, 0)
	require.NoError(t, err)

	assert.True(t, padded.Equal(src))
	require.NotSame(t, src, padded)

	// Mutating the copy must not leak into the original.
	padded.Data()[0] ^= 0xff
	assert.False(t, padded.Equal(src))
}

func TestAddPadding_NegativePaddingFails(t *testing.T) {
	src := gradientColor(t, 4, 4, 3)

	tests := []struct {
		name                     string
		left, top, right, bottom int
	}{
		{"Negative left", -1, 0, 0, 0},
		{"Negative top", 0, -3, 0, 0},
		{"Negative right", 0, 0, -1, 0},
		{"Negative bottom", 0, 0, 0, -2},
		{"All negative", -1, -1, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			padded, err := AddPadding(src, tt.left, tt.top, tt.right, tt.bottom)
			assert.Nil(t, padded)
			assert.True(t, errors.Is(err, ErrShapeMismatch), "got %v", err)
		})
	}
}

func TestAddPadding_ChannelPreservation(t *testing.T) {
	gray := gradientGray(t, 4, 4)
	paddedGray, err := AddPadding(gray, 1, 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, LayoutGrayscale, paddedGray.Layout())
	assert.Equal(t, []int{6, 6}, paddedGray.Shape())

	for _, c := range []int{1, 3, 4} {
		col := gradientColor(t, 4, 4, c)
		padded, err := AddPadding(col, 1, 1, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, LayoutColor, padded.Layout())
		assert.Equal(t, []int{6, 6, c}, padded.Shape())
	}
}

func TestAddPaddingColor_BorderFill(t *testing.T) {
	src := gradientColor(t, 2, 2, 3)
	border := []uint8{10, 20, 30}

	padded, err := AddPaddingColor(src, 1, 1, 1, 1, border)
	require.NoError(t, err)

	assert.Equal(t, border, padded.At(0, 0))
	assert.Equal(t, border, padded.At(3, 3))
	assert.Equal(t, border, padded.At(0, 2))
	assert.Equal(t, src.At(0, 0), padded.At(1, 1))
	assert.Equal(t, src.At(1, 1), padded.At(2, 2))
}

func TestAddPaddingColor_BorderLengthMustMatchChannels(t *testing.T) {
	src := gradientColor(t, 2, 2, 3)
	_, err := AddPaddingColor(src, 1, 1, 1, 1, []uint8{0})
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	gray := gradientGray(t, 2, 2)
	_, err = AddPaddingColor(gray, 1, 1, 1, 1, []uint8{1, 2, 3})
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}
