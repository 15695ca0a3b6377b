package images

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	// Decode registration for the native codec's allow-listed formats.
	_ "image/png"

	_ "github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Codec decodes image files into pixel buffers and encodes pixel buffers
// back out as JPEG under the five tunable write options.
type Codec interface {
	// Decode reads the file at path into a new PixelBuffer.
	Decode(path string) (*PixelBuffer, error)
	// EncodeJPEG writes the buffer to path as JPEG under opts.
	EncodeJPEG(path string, buf *PixelBuffer, opts JPEGOptions) error
}

// DefaultCodec returns the codec used when callers do not supply one:
// the OpenCV-backed implementation, which honors all five JPEG tunables.
func DefaultCodec() Codec { return OpenCVCodec{} }

// OpenCVCodec implements Codec on top of OpenCV's imread/imwrite. Decoded
// color buffers use OpenCV's BGR channel order.
type OpenCVCodec struct{}

// Decode reads the file at path with cv::imread. The image is loaded
// unchanged, so grayscale files come back as grayscale buffers.
func (OpenCVCodec) Decode(path string) (*PixelBuffer, error) {
	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	if mat.Empty() {
		return nil, errors.Errorf("opencv could not decode %s", path)
	}
	defer mat.Close()
	return FromMat(mat)
}

// EncodeJPEG writes the buffer with cv::imwrite, assembling the JPEG
// parameter list as (flag, value) pairs. The optimize and progressive
// booleans are translated to the integer flags 1 and 0; the three quality
// values are passed through exactly as given, with no clamping.
func (OpenCVCodec) EncodeJPEG(path string, buf *PixelBuffer, opts JPEGOptions) error {
	mat, err := buf.ToMat()
	if err != nil {
		return errors.Wrap(err, "buffer not representable as Mat")
	}
	defer mat.Close()

	params := []int{
		int(gocv.IMWriteJpegQuality), opts.Quality,
		int(gocv.IMWriteJpegOptimize), flagInt(opts.Optimize),
		int(gocv.IMWriteJpegProgressive), flagInt(opts.Progressive),
		int(gocv.IMWriteJpegChromaQuality), opts.ChromaQuality,
		int(gocv.IMWriteJpegLumaQuality), opts.LumaQuality,
	}
	if ok := gocv.IMWriteWithParams(path, mat, params); !ok {
		return errors.Errorf("opencv could not write %s", path)
	}
	return nil
}

// flagInt translates a boolean codec toggle into the 1/0 integer form the
// underlying writer expects.
func flagInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NativeCodec implements Codec without cgo, using the stdlib image
// registry extended with BMP, TIFF, and WebP decoders. Decoded color
// buffers use RGB channel order. The stdlib JPEG encoder only exposes a
// single quality knob, so Optimize, Progressive, ChromaQuality, and
// LumaQuality are accepted but ignored on encode.
type NativeCodec struct{}

// Decode reads the file at path through image.Decode.
func (NativeCodec) Decode(path string) (*PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return FromImage(img), nil
}

// EncodeJPEG writes the buffer with the stdlib JPEG encoder at
// opts.Quality.
func (NativeCodec) EncodeJPEG(path string, buf *PixelBuffer, opts JPEGOptions) error {
	img, err := buf.ToImage()
	if err != nil {
		return errors.Wrap(err, "buffer not renderable")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
