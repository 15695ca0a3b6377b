// Package images - standalone image processing utilities: a dense pixel
// buffer with zero-border padding, and a quality-tunable JPEG recompressor
// driven through a pluggable codec.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
	"gorgonia.org/tensor"
)

// Layout tags a PixelBuffer as grayscale (no channel axis) or color
// (trailing channel axis). It is determined once at construction by the
// buffer's dimensionality and never changes afterwards.
type Layout int

const (
	// LayoutGrayscale is a single-channel H×W buffer.
	LayoutGrayscale Layout = iota
	// LayoutColor is a multi-channel H×W×C buffer.
	LayoutColor
)

// PixelBuffer is a dense, rectangular, row-major array of 8-bit samples.
// Grayscale buffers hold one sample per pixel; color buffers hold C
// interleaved samples per pixel. The backing slice is owned by the buffer.
type PixelBuffer struct {
	// The layout tag, fixed at construction.
	layout Layout
	// Height and width in pixels.
	height, width int
	// Samples per pixel; 0 for grayscale buffers, which have no channel axis.
	channels int
	// Row-major backing storage, height*width*max(channels,1) samples.
	data []uint8
}

// NewGrayscale allocates a zero-filled single-channel buffer.
func NewGrayscale(height, width int) (*PixelBuffer, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: invalid grayscale dimensions %dx%d", ErrShapeMismatch, height, width)
	}
	return &PixelBuffer{
		layout: LayoutGrayscale,
		height: height,
		width:  width,
		data:   make([]uint8, height*width),
	}, nil
}

// NewColor allocates a zero-filled multi-channel buffer.
func NewColor(height, width, channels int) (*PixelBuffer, error) {
	if height <= 0 || width <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: invalid color dimensions %dx%dx%d", ErrShapeMismatch, height, width, channels)
	}
	return &PixelBuffer{
		layout:   LayoutColor,
		height:   height,
		width:    width,
		channels: channels,
		data:     make([]uint8, height*width*channels),
	}, nil
}

// NewGrayscaleFrom wraps an existing row-major sample slice as a grayscale
// buffer. The slice is adopted, not copied; len(data) must equal
// height*width.
func NewGrayscaleFrom(height, width int, data []uint8) (*PixelBuffer, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: invalid grayscale dimensions %dx%d", ErrShapeMismatch, height, width)
	}
	if len(data) != height*width {
		return nil, fmt.Errorf("%w: %d samples for %dx%d grayscale buffer", ErrShapeMismatch, len(data), height, width)
	}
	return &PixelBuffer{layout: LayoutGrayscale, height: height, width: width, data: data}, nil
}

// NewColorFrom wraps an existing row-major interleaved sample slice as a
// color buffer. The slice is adopted, not copied; len(data) must equal
// height*width*channels.
func NewColorFrom(height, width, channels int, data []uint8) (*PixelBuffer, error) {
	if height <= 0 || width <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: invalid color dimensions %dx%dx%d", ErrShapeMismatch, height, width, channels)
	}
	if len(data) != height*width*channels {
		return nil, fmt.Errorf("%w: %d samples for %dx%dx%d color buffer", ErrShapeMismatch, len(data), height, width, channels)
	}
	return &PixelBuffer{layout: LayoutColor, height: height, width: width, channels: channels, data: data}, nil
}

// Layout returns the grayscale/color tag.
func (b *PixelBuffer) Layout() Layout { return b.layout }

// Height returns the number of pixel rows.
func (b *PixelBuffer) Height() int { return b.height }

// Width returns the number of pixel columns.
func (b *PixelBuffer) Width() int { return b.width }

// Channels returns the samples per pixel, or 0 for grayscale buffers
// (which have no channel axis at all).
func (b *PixelBuffer) Channels() int { return b.channels }

// Shape returns [H, W] for grayscale buffers and [H, W, C] for color ones.
func (b *PixelBuffer) Shape() []int {
	if b.layout == LayoutGrayscale {
		return []int{b.height, b.width}
	}
	return []int{b.height, b.width, b.channels}
}

// pixelSize is the number of samples a single pixel occupies.
func (b *PixelBuffer) pixelSize() int {
	if b.layout == LayoutGrayscale {
		return 1
	}
	return b.channels
}

// rowSize is the number of samples a single row occupies.
func (b *PixelBuffer) rowSize() int { return b.width * b.pixelSize() }

// Data exposes the backing sample slice. Mutating it mutates the buffer.
func (b *PixelBuffer) Data() []uint8 { return b.data }

// At returns the sample(s) of the pixel at (y, x) as a sub-slice of the
// backing storage: one sample for grayscale, C samples for color.
func (b *PixelBuffer) At(y, x int) []uint8 {
	ps := b.pixelSize()
	off := (y*b.width + x) * ps
	return b.data[off : off+ps]
}

// Clone returns a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	out := *b
	out.data = make([]uint8, len(b.data))
	copy(out.data, b.data)
	return &out
}

// Equal reports whether two buffers have the same layout, shape, and
// sample content.
func (b *PixelBuffer) Equal(o *PixelBuffer) bool {
	if o == nil {
		return false
	}
	return b.layout == o.layout &&
		b.height == o.height && b.width == o.width && b.channels == o.channels &&
		bytes.Equal(b.data, o.data)
}

// ToTensor converts the buffer into a dense uint8 tensor shaped [H, W] or
// [H, W, C], suitable for ML preprocessing pipelines. The tensor receives
// its own copy of the samples.
func (b *PixelBuffer) ToTensor() *tensor.Dense {
	backing := make([]uint8, len(b.data))
	copy(backing, b.data)
	return tensor.New(tensor.WithShape(b.Shape()...), tensor.WithBacking(backing))
}

// FromTensor builds a PixelBuffer from a dense uint8 tensor. A 2-D tensor
// yields a grayscale buffer, a 3-D tensor a color buffer; any other rank
// or dtype is rejected.
//
// Arguments:
// - t: A contiguous uint8 tensor shaped [H, W] or [H, W, C].
//
// Returns:
// - *PixelBuffer: A buffer with its own copy of the tensor's samples.
// - error: ErrShapeMismatch-kinded error for unsupported rank or dtype.
func FromTensor(t *tensor.Dense) (*PixelBuffer, error) {
	raw, ok := t.Data().([]uint8)
	if !ok {
		return nil, fmt.Errorf("%w: tensor dtype %v, want uint8", ErrShapeMismatch, t.Dtype())
	}
	data := make([]uint8, len(raw))
	copy(data, raw)

	shape := t.Shape()
	switch len(shape) {
	case 2:
		return NewGrayscaleFrom(shape[0], shape[1], data)
	case 3:
		return NewColorFrom(shape[0], shape[1], shape[2], data)
	default:
		return nil, fmt.Errorf("%w: tensor rank %d, want 2 or 3", ErrShapeMismatch, len(shape))
	}
}

// ToMat converts the buffer into an OpenCV Mat (CV_8UC1/3/4). The caller
// owns the returned Mat and must Close it. Channel order is preserved
// as-is; buffers decoded by the OpenCV codec are BGR.
func (b *PixelBuffer) ToMat() (gocv.Mat, error) {
	var mt gocv.MatType
	switch b.pixelSize() {
	case 1:
		mt = gocv.MatTypeCV8UC1
	case 3:
		mt = gocv.MatTypeCV8UC3
	case 4:
		mt = gocv.MatTypeCV8UC4
	default:
		return gocv.NewMat(), fmt.Errorf("%w: no Mat type for %d channels", ErrShapeMismatch, b.channels)
	}
	return gocv.NewMatFromBytes(b.height, b.width, mt, b.data)
}

// FromMat copies an 8-bit OpenCV Mat into a new PixelBuffer. Single-channel
// Mats become grayscale buffers; everything else becomes a color buffer
// with the Mat's channel count (and the Mat's channel order, i.e. BGR for
// images read by OpenCV).
func FromMat(m gocv.Mat) (*PixelBuffer, error) {
	if m.Empty() {
		return nil, fmt.Errorf("%w: empty Mat", ErrShapeMismatch)
	}
	if int(m.ElemSize()) != m.Channels() {
		return nil, fmt.Errorf("%w: Mat depth is not 8-bit", ErrShapeMismatch)
	}
	data := m.ToBytes()
	if m.Channels() == 1 {
		return NewGrayscaleFrom(m.Rows(), m.Cols(), data)
	}
	return NewColorFrom(m.Rows(), m.Cols(), m.Channels(), data)
}

// FromImage converts a stdlib image into a PixelBuffer. *image.Gray inputs
// yield a grayscale buffer; every other color model is flattened to a
// 3-channel RGB buffer.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	h, w := bounds.Dy(), bounds.Dx()

	if gray, ok := img.(*image.Gray); ok {
		data := make([]uint8, h*w)
		for y := 0; y < h; y++ {
			src := gray.Pix[y*gray.Stride : y*gray.Stride+w]
			copy(data[y*w:(y+1)*w], src)
		}
		buf, _ := NewGrayscaleFrom(h, w, data)
		return buf
	}

	data := make([]uint8, h*w*3)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			data[i] = uint8(r >> 8)
			data[i+1] = uint8(g >> 8)
			data[i+2] = uint8(b >> 8)
			i += 3
		}
	}
	buf, _ := NewColorFrom(h, w, 3, data)
	return buf
}

// ToImage converts the buffer into a stdlib image. Grayscale and
// single-channel color buffers become *image.Gray; 3-channel buffers are
// treated as RGB and 4-channel as RGBA. Other channel counts are rejected.
func (b *PixelBuffer) ToImage() (image.Image, error) {
	switch b.pixelSize() {
	case 1:
		img := image.NewGray(image.Rect(0, 0, b.width, b.height))
		for y := 0; y < b.height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+b.width], b.data[y*b.width:(y+1)*b.width])
		}
		return img, nil
	case 3:
		img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
		for y := 0; y < b.height; y++ {
			for x := 0; x < b.width; x++ {
				px := b.At(y, x)
				img.SetRGBA(x, y, color.RGBA{R: px[0], G: px[1], B: px[2], A: 0xff})
			}
		}
		return img, nil
	case 4:
		img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
		for y := 0; y < b.height; y++ {
			for x := 0; x < b.width; x++ {
				px := b.At(y, x)
				img.SetRGBA(x, y, color.RGBA{R: px[0], G: px[1], B: px[2], A: px[3]})
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: cannot render %d-channel buffer", ErrShapeMismatch, b.channels)
	}
}
