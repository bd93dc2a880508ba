// Package quality computes objective image quality metrics between a
// reference image and its re-encoded counterpart. Both metrics operate on
// the luma channel, which is how the usual tooling reports them.
package quality

import (
	"errors"
	"image"
	"math"
)

var ErrDimensionMismatch = errors.New("quality: images have different dimensions")

// Metrics holds the per-file quality measurements.
type Metrics struct {
	PSNR float64 // dB; +Inf for identical images
	SSIM float64 // 1.0 for identical images
}

// Compare computes PSNR and SSIM of distorted against reference. The images
// must have identical dimensions.
func Compare(reference, distorted image.Image) (Metrics, error) {
	rb, db := reference.Bounds(), distorted.Bounds()
	if rb.Dx() != db.Dx() || rb.Dy() != db.Dy() {
		return Metrics{}, ErrDimensionMismatch
	}

	ref := lumaPlane(reference)
	dst := lumaPlane(distorted)
	w, h := rb.Dx(), rb.Dy()

	return Metrics{
		PSNR: psnr(ref, dst),
		SSIM: ssim(ref, dst, w, h),
	}, nil
}

// lumaPlane extracts 8-bit luma values in row-major order.
func lumaPlane(img image.Image) []float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	plane := make([]float64, 0, w*h)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// BT.601 luma on 16-bit channel values, scaled back to 8 bits.
			luma := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
			plane = append(plane, luma)
		}
	}
	return plane
}

func psnr(ref, dst []float64) float64 {
	var mse float64
	for i := range ref {
		d := ref[i] - dst[i]
		mse += d * d
	}
	mse /= float64(len(ref))

	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255.0*255.0/mse)
}

// ssim is the mean SSIM over 8x8 windows with the standard stabilizing
// constants C1=(0.01*255)^2 and C2=(0.03*255)^2.
func ssim(ref, dst []float64, w, h int) float64 {
	const window = 8
	const c1 = 6.5025
	const c2 = 58.5225

	var sum float64
	var count int

	for wy := 0; wy+window <= h || (wy == 0 && h < window); wy += window {
		for wx := 0; wx+window <= w || (wx == 0 && w < window); wx += window {
			bw := min(window, w-wx)
			bh := min(window, h-wy)
			n := float64(bw * bh)

			var muX, muY float64
			for y := wy; y < wy+bh; y++ {
				for x := wx; x < wx+bw; x++ {
					muX += ref[y*w+x]
					muY += dst[y*w+x]
				}
			}
			muX /= n
			muY /= n

			var varX, varY, covXY float64
			for y := wy; y < wy+bh; y++ {
				for x := wx; x < wx+bw; x++ {
					dx := ref[y*w+x] - muX
					dy := dst[y*w+x] - muY
					varX += dx * dx
					varY += dy * dy
					covXY += dx * dy
				}
			}
			varX /= n
			varY /= n
			covXY /= n

			num := (2*muX*muY + c1) * (2*covXY + c2)
			den := (muX*muX + muY*muY + c1) * (varX + varY + c2)
			sum += num / den
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
