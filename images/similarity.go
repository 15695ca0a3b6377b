package images

import (
	"fmt"

	"github.com/chewxy/math32"
)

// MeanAbsoluteDifference returns the average per-sample absolute
// difference between two buffers of identical layout and shape. 0 means
// the buffers are identical; 255 is the theoretical maximum.
func MeanAbsoluteDifference(a, b *PixelBuffer) (float32, error) {
	if err := sameGeometry(a, b); err != nil {
		return 0, err
	}
	var sum float32
	for i := range a.data {
		sum += math32.Abs(float32(a.data[i]) - float32(b.data[i]))
	}
	return sum / float32(len(a.data)), nil
}

// PSNR returns the peak signal-to-noise ratio between two buffers of
// identical layout and shape, in decibels. Identical buffers yield +Inf.
// Values above ~35 dB are typically indistinguishable to the eye.
func PSNR(a, b *PixelBuffer) (float32, error) {
	if err := sameGeometry(a, b); err != nil {
		return 0, err
	}
	var sum float32
	for i := range a.data {
		d := float32(a.data[i]) - float32(b.data[i])
		sum += d * d
	}
	mse := sum / float32(len(a.data))
	if mse == 0 {
		return math32.Inf(1), nil
	}
	return 20*math32.Log10(255) - 10*math32.Log10(mse), nil
}

func sameGeometry(a, b *PixelBuffer) error {
	if a.layout != b.layout || a.height != b.height || a.width != b.width || a.channels != b.channels {
		return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, a.Shape(), b.Shape())
	}
	return nil
}
