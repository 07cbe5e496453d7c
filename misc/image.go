package misc

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/juju/errors"
)

func LerpFloat64(v1 float64, v2 float64, fraction float64) float64 {
	return v1 + (v2-v1)*fraction
}

func LerpUint8(v1 uint8, v2 uint8, fraction float64) uint8 {
	v1f := float64(v1)
	v2f := float64(v2)
	return uint8(LerpFloat64(v1f, v2f, fraction))
}

func LinearInterpolationRGB(color1 color.RGBA, color2 color.RGBA, fraction float64) color.RGBA {
	var finalColor color.RGBA
	finalColor.R = LerpUint8(color1.R, color2.R, fraction)
	finalColor.G = LerpUint8(color1.G, color2.G, fraction)
	finalColor.B = LerpUint8(color1.B, color2.B, fraction)
	finalColor.A = 255
	return finalColor
}

func EaseOutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func EaseInExpo(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return math.Pow(2, 10*t-10)
}

// EncodeImage encodes img as "png" or "jpeg"
func EncodeImage(img image.Image, format string) ([]byte, error) {
	var buffer bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buffer, img)
	case "jpeg", "jpg":
		err = jpeg.Encode(&buffer, img, &jpeg.Options{Quality: 95})
	default:
		return nil, errors.Errorf("unknown image format %q", format)
	}
	if err != nil {
		return nil, errors.Annotatef(err, "encoding %s", format)
	}
	return buffer.Bytes(), nil
}
