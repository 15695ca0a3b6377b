package images

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// supportedExtensions is the decode allow-list: the raster formats the
// underlying OpenCV build is expected to read.
var supportedExtensions = []string{
	".jpg", ".jpeg", ".png", ".bmp", ".dib",
	".jpe", ".jp2", ".webp", ".pbm", ".pgm",
	".ppm", ".pxm", ".pnm", ".sr", ".ras",
	".tiff", ".tif", ".exr", ".hdr", ".pic",
}

// jpegExtensions are the output-name suffixes accepted as already being
// JPEG-family; any other output name gets ".jpg" appended.
var jpegExtensions = []string{".jpg", ".jpeg", ".jpe"}

// JPEGOptions are the tunable write options for JPEG re-encoding. The
// zero value is not useful; start from DefaultJPEGOptions.
type JPEGOptions struct {
	// Quality is the overall output quality, nominally 0-100. Values are
	// handed to the codec without clamping.
	Quality int
	// Optimize enables the encoder's Huffman-table optimization pass.
	Optimize bool
	// Progressive selects progressive (multi-scan) encoding.
	Progressive bool
	// ChromaQuality is the color-channel quality, nominally 0-100.
	ChromaQuality int
	// LumaQuality is the brightness-channel quality, nominally 0-100.
	LumaQuality int
	// MaxWidth and MaxHeight, when positive, downscale the image to fit
	// within the given bounds (aspect preserved) before encoding. Zero
	// disables resizing.
	MaxWidth, MaxHeight int
}

// DefaultJPEGOptions returns the balanced quality/size defaults:
// quality 90, optimize and progressive on, chroma and luma quality 75,
// no downscaling.
func DefaultJPEGOptions() JPEGOptions {
	return JPEGOptions{
		Quality:       90,
		Optimize:      true,
		Progressive:   true,
		ChromaQuality: 75,
		LumaQuality:   75,
	}
}

// CompressResult reports the outcome of a recompression. Encode-stage
// failures are captured here rather than returned as errors, so OK must
// be checked.
type CompressResult struct {
	// OutputPath is the derived destination path.
	OutputPath string
	// OK is true when the output file was written.
	OK bool
	// Message is the human-readable status line that was also logged.
	Message string
}

// CompressJPEG re-encodes the image at srcPath as a JPEG named outputName
// in the same directory, using the default (OpenCV) codec.
//
// Precondition failures — a missing source file or an extension outside
// the decode allow-list — return a nil result and an error matching
// ErrNotFound or ErrUnsupportedExtension; nothing is written. Once
// decoding has succeeded, an encode failure is reported through the
// returned CompressResult (OK=false) and a log line, not through the
// error value.
//
// Arguments:
// - srcPath: Path to an existing image file with an allow-listed extension.
// - outputName: Output file name; ".jpg" is appended unless the name
//   already ends in .jpg, .jpeg, or .jpe.
// - opts: JPEG write options; see DefaultJPEGOptions.
//
// Returns:
// - *CompressResult: The derived output path plus success/failure status.
// - error: Precondition or decode failure only.
//
// @example
// res, err := images.CompressJPEG("photos/cat.png", "cat_small", images.DefaultJPEGOptions())
func CompressJPEG(srcPath, outputName string, opts JPEGOptions) (*CompressResult, error) {
	return CompressJPEGWith(DefaultCodec(), srcPath, outputName, opts)
}

// CompressJPEGWith is CompressJPEG with an explicit codec.
func CompressJPEGWith(codec Codec, srcPath, outputName string, opts JPEGOptions) (*CompressResult, error) {
	if _, err := os.Stat(srcPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, srcPath)
		}
		return nil, errors.Wrapf(err, "stat %s", srcPath)
	}

	ext := strings.ToLower(filepath.Ext(srcPath))
	if !extensionSupported(ext) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}

	buf, err := codec.Decode(srcPath)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", srcPath)
	}

	if opts.MaxWidth > 0 || opts.MaxHeight > 0 {
		buf = downscale(buf, opts.MaxWidth, opts.MaxHeight)
	}

	outPath := DeriveOutputPath(srcPath, outputName)
	if err := codec.EncodeJPEG(outPath, buf, opts); err != nil {
		msg := fmt.Sprintf("an error occurred while compressing %s: %v", srcPath, err)
		log.Print(msg)
		return &CompressResult{OutputPath: outPath, OK: false, Message: msg}, nil
	}

	msg := fmt.Sprintf("image compressed successfully: %s", outPath)
	log.Print(msg)
	return &CompressResult{OutputPath: outPath, OK: true, Message: msg}, nil
}

// DeriveOutputPath replaces the final segment of srcPath with outputName,
// preserving the directory verbatim. outputName keeps its extension when
// it is already JPEG-family; otherwise ".jpg" is appended.
func DeriveOutputPath(srcPath, outputName string) string {
	name := outputName
	lower := strings.ToLower(name)
	family := false
	for _, ext := range jpegExtensions {
		if strings.HasSuffix(lower, ext) {
			family = true
			break
		}
	}
	if !family {
		name += ".jpg"
	}
	return filepath.Join(filepath.Dir(srcPath), name)
}

// extensionSupported reports whether ext (lower-case, dot included) is on
// the decode allow-list.
func extensionSupported(ext string) bool {
	for _, supported := range supportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// downscale fits the buffer within maxW×maxH (zero means unbounded on
// that axis) using Lanczos3 resampling. Buffers already within bounds are
// returned unchanged.
func downscale(buf *PixelBuffer, maxW, maxH int) *PixelBuffer {
	w, h := buf.Width(), buf.Height()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return buf
	}

	img, err := buf.ToImage()
	if err != nil {
		// Unrenderable channel counts pass through unresized.
		return buf
	}

	bw, bh := uint(maxW), uint(maxH)
	if maxW <= 0 {
		bw = uint(w)
	}
	if maxH <= 0 {
		bh = uint(h)
	}
	return FromImage(resize.Thumbnail(bw, bh, img, resize.Lanczos3))
}
