package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Format is an output image format.
type Format string

const FormatJPEG Format = "jpeg"

// Extension returns the file extension used in storage keys.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// Codec re-renders encoded images. Both operations are deterministic
// given identical inputs.
type Codec interface {
	// Resize stretches the image to exactly width x height. Aspect ratio
	// is not preserved.
	Resize(src []byte, width, height int) ([]byte, error)
	// Reencode converts the image to the given lossy format at the given
	// quality.
	Reencode(src []byte, format Format, quality int) ([]byte, error)
}

// ImagingCodec implements Codec on top of the imaging library.
type ImagingCodec struct{}

func NewImagingCodec() *ImagingCodec {
	return &ImagingCodec{}
}

// Resize decodes, stretches to the exact target box and re-encodes
// losslessly as PNG so quality is only paid once, at the final Reencode.
func (c *ImagingCodec) Resize(src []byte, width, height int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Resize(img, width, height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}

// Reencode converts the image to the requested lossy format.
func (c *ImagingCodec) Reencode(src []byte, format Format, quality int) ([]byte, error) {
	if format != FormatJPEG {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
