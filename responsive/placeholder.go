package responsive

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// PlaceholderOptions configures BlurUpThumb.
type PlaceholderOptions struct {
	Width   int     // thumbnail width in pixels; defaults to 20
	Sigma   float64 // gaussian blur sigma; defaults to 1.5, negative disables
	Quality int     // JPEG quality; defaults to 60
}

func (o PlaceholderOptions) withDefaults() PlaceholderOptions {
	if o.Width <= 0 {
		o.Width = 20
	}
	if o.Sigma == 0 {
		o.Sigma = 1.5
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = 60
	}
	return o
}

// BlurUpThumb decodes an image and returns a tiny blurred JPEG of it as a
// data URI, suitable for Image.Base64.
func BlurUpThumb(r io.Reader, opts PlaceholderOptions) (string, error) {
	opts = opts.withDefaults()

	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("responsive: decode image: %w", err)
	}

	thumb := imaging.Resize(src, opts.Width, 0, imaging.Lanczos)
	if opts.Sigma > 0 {
		thumb = imaging.Blur(thumb, opts.Sigma)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(opts.Quality)); err != nil {
		return "", fmt.Errorf("responsive: encode thumbnail: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
