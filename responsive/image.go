// Package responsive renders DatoCMS responsive images through any
// dast.Adapter.
package responsive

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Image is the payload of a responsiveImage GraphQL query.
type Image struct {
	AspectRatio float64 `json:"aspectRatio" validate:"gt=0"`
	Base64      string  `json:"base64,omitempty" validate:"omitempty,datauri"`
	Height      float64 `json:"height,omitempty" validate:"gte=0"`
	Width       float64 `json:"width" validate:"gt=0"`
	Sizes       string  `json:"sizes,omitempty"`
	Src         string  `json:"src,omitempty"`
	SrcSet      string  `json:"srcSet,omitempty"`
	WebpSrcSet  string  `json:"webpSrcSet,omitempty"`
	BgColor     string  `json:"bgColor,omitempty" validate:"omitempty,iscolor"`
	Alt         string  `json:"alt,omitempty"`
	Title       string  `json:"title,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the fields the renderers depend on.
func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("responsive: nil image")
	}
	if err := validate.Struct(img); err != nil {
		return fmt.Errorf("responsive: invalid image: %w", err)
	}
	return nil
}

// height returns the explicit height, or the one implied by the aspect
// ratio.
func (img *Image) height() float64 {
	if img.Height > 0 {
		return img.Height
	}
	if img.AspectRatio > 0 {
		return img.Width / img.AspectRatio
	}
	return 0
}

// roundedHeight is height rounded to the nearest pixel.
func (img *Image) roundedHeight() float64 {
	if img.Height > 0 {
		return img.Height
	}
	return math.Round(img.height())
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func px(f float64) string {
	return formatNumber(f) + "px"
}
