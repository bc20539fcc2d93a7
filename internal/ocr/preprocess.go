package ocr

import (
	"image"

	"gocv.io/x/gocv"

	apperr "screen-translator/internal/errors"
	"screen-translator/internal/imageio"
)

// MinPreprocessWidth is the width narrower images are upscaled to.
const MinPreprocessWidth = 800

// Preprocessor writes a cleaned-up copy of src to dst.
type Preprocessor func(src, dst string) error

// Preprocess writes a higher-contrast, denoised, binarized grayscale copy
// of src to dst as PNG. Images narrower than MinPreprocessWidth are
// upscaled with cubic interpolation first.
func Preprocess(src, dst string) error {
	img, err := loadMat(src)
	if err != nil {
		return err
	}

	if w := img.Cols(); w < MinPreprocessWidth {
		scale := float64(MinPreprocessWidth) / float64(w)
		size := image.Pt(MinPreprocessWidth, int(float64(img.Rows())*scale))
		scaled := gocv.NewMat()
		gocv.Resize(img, &scaled, size, 0, 0, gocv.InterpolationCubic)
		img.Close()
		img = scaled
	}

	gray := gocv.NewMat()
	if img.Channels() == 1 {
		img.CopyTo(&gray)
	} else {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	}
	img.Close()

	// CLAHE (Contrast Limited Adaptive Histogram Equalization)
	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{8, 8})
	defer clahe.Close()

	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	denoised := gocv.NewMat()
	gocv.MedianBlur(enhanced, &denoised, 3)
	enhanced.Close()

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(denoised, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	denoised.Close()

	if !gocv.IMWrite(dst, binary) {
		return apperr.Newf(apperr.KindDecode, "failed to write preprocessed image %s", dst)
	}
	return nil
}

// loadMat reads src with OpenCV, falling back to the Go decoders for
// formats OpenCV was built without (GIF, some TIFF variants).
func loadMat(src string) (gocv.Mat, error) {
	img := gocv.IMRead(src, gocv.IMReadColor)
	if !img.Empty() {
		return img, nil
	}
	img.Close()

	decoded, err := imageio.Open(src)
	if err != nil {
		return gocv.Mat{}, apperr.Wrap(err, apperr.KindDecode, "cannot load image for preprocessing")
	}
	mat, err := gocv.ImageToMatRGB(decoded)
	if err != nil {
		return gocv.Mat{}, apperr.Wrap(err, apperr.KindDecode, "cannot convert image for preprocessing")
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, apperr.Newf(apperr.KindDecode, "image %s is empty", src)
	}
	return mat, nil
}
