package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/colornames"
)

// Synthesizer produces a reference image themed by a set of color
// keywords. The pipeline treats the pixel content as opaque; only the
// colors matter.
type Synthesizer interface {
	Synthesize(colorKeywords []string) ([]byte, error)
}

// StripeSynthesizer renders vertical stripes, one per keyword, as a PNG
// reference image.
type StripeSynthesizer struct {
	width  int
	height int
}

func NewStripeSynthesizer(width, height int) *StripeSynthesizer {
	return &StripeSynthesizer{width: width, height: height}
}

func (s *StripeSynthesizer) Synthesize(colorKeywords []string) ([]byte, error) {
	if len(colorKeywords) == 0 {
		return nil, fmt.Errorf("no color keywords given")
	}

	img := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	stripeWidth := s.width / len(colorKeywords)
	if stripeWidth == 0 {
		stripeWidth = 1
	}

	for x := 0; x < s.width; x++ {
		keywordIndex := x / stripeWidth
		if keywordIndex >= len(colorKeywords) {
			keywordIndex = len(colorKeywords) - 1
		}
		c, ok := colornames.Map[colorKeywords[keywordIndex]]
		if !ok {
			return nil, fmt.Errorf("unknown color keyword: %q", colorKeywords[keywordIndex])
		}
		for y := 0; y < s.height; y++ {
			img.SetNRGBA(x, y, toNRGBA(c))
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode reference image: %w", err)
	}
	return buf.Bytes(), nil
}

// Named colors are fully opaque, so the premultiplied and straight
// representations coincide.
func toNRGBA(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
