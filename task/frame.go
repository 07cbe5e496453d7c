package task

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/juju/errors"
)

// Frame is an Image encoded as PNG so it can cross an rpc boundary
type Frame struct {
	Parameters    Parameters
	MaxIterations int
	Pass          int
	Final         bool
	PNG           []byte
}

func NewFrame(img Image) (Frame, error) {
	if img.Pixels == nil {
		return Frame{}, errors.New("image has no pixels")
	}
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img.Pixels); err != nil {
		return Frame{}, errors.Annotate(err, "encoding frame")
	}
	return Frame{
		Parameters:    img.Parameters,
		MaxIterations: img.MaxIterations,
		Pass:          img.Pass,
		Final:         img.Final,
		PNG:           buffer.Bytes(),
	}, nil
}

// Decode turns the PNG payload back into pixels
func (f *Frame) Decode() (image.Image, error) {
	if len(f.PNG) == 0 {
		return nil, errors.New("frame is empty")
	}
	img, err := png.Decode(bytes.NewReader(f.PNG))
	if err != nil {
		return nil, errors.Annotate(err, "decoding frame")
	}
	return img, nil
}

// Image decodes the frame back into an Image that can be handed to a sink
func (f *Frame) Image() (Image, error) {
	decoded, err := f.Decode()
	if err != nil {
		return Image{}, err
	}
	pixels, ok := decoded.(*image.RGBA)
	if !ok {
		pixels = image.NewRGBA(decoded.Bounds())
		draw.Draw(pixels, pixels.Bounds(), decoded, decoded.Bounds().Min, draw.Src)
	}
	return Image{
		Parameters:      f.Parameters,
		Pixels:          pixels,
		ScaleFactorUsed: f.Parameters.ScaleFactor,
		MaxIterations:   f.MaxIterations,
		Pass:            f.Pass,
		Final:           f.Final,
	}, nil
}
