package responsive

import (
	"fmt"

	"github.com/derickschaefer/dast"
	"github.com/derickschaefer/dast/cssstyle"
)

// NakedImageOptions configures RenderNakedImage.
type NakedImageOptions struct {
	// DisablePlaceholder turns off the blurred or colored background shown
	// until the image loads.
	DisablePlaceholder bool `json:"disablePlaceholder,omitempty"`
	// Sizes overrides Image.Sizes.
	Sizes string `json:"sizes,omitempty"`
	// Priority marks the image as high priority: it is fetched eagerly with
	// fetchpriority="high" instead of loading="lazy".
	Priority bool `json:"priority,omitempty"`
	// SrcSetCandidates are the width multipliers used when the image has no
	// SrcSet. Defaults to DefaultSrcSetCandidates.
	SrcSetCandidates []float64      `json:"srcSetCandidates,omitempty" validate:"dive,gt=0"`
	PictureClass     string         `json:"pictureClass,omitempty"`
	PictureStyle     cssstyle.Style `json:"pictureStyle,omitempty"`
	ImgClass         string         `json:"imgClass,omitempty"`
	ImgStyle         cssstyle.Style `json:"imgStyle,omitempty"`
}

// RenderNakedImage renders a bare picture element with no wrapper and no
// JavaScript requirements. loaded reports whether the image has finished
// loading; the placeholder style is dropped once it has.
func RenderNakedImage[T any](a dast.Adapter[T], img *Image, opts NakedImageOptions, loaded bool) (T, error) {
	var zero T
	if err := img.Validate(); err != nil {
		return zero, err
	}
	if err := validate.Struct(opts); err != nil {
		return zero, fmt.Errorf("responsive: invalid options: %w", err)
	}

	sizes := opts.Sizes
	if sizes == "" {
		sizes = img.Sizes
	}
	srcSet := img.SrcSet
	if srcSet == "" {
		candidates := opts.SrcSetCandidates
		if candidates == nil {
			candidates = DefaultSrcSetCandidates
		}
		srcSet = BuildSrcSet(img.Src, img.Width, candidates)
	}

	children := sources(a, img.WebpSrcSet, srcSet, sizes)

	if img.Src != "" {
		sizing := cssstyle.Style{
			"aspectRatio": formatNumber(img.Width) + " / " + formatNumber(img.roundedHeight()),
			"width":       "100%",
			"maxWidth":    px(img.Width),
			"height":      "auto",
		}
		style := cssstyle.Merge(placeholderStyle(img, opts, loaded), sizing, opts.ImgStyle)

		fetchPriority, loading := "", "lazy"
		if opts.Priority {
			fetchPriority, loading = "high", ""
		}
		children = append(children, a.RenderNode("img", attrs(
			"src", img.Src,
			"alt", img.Alt,
			"title", img.Title,
			"fetchpriority", fetchPriority,
			"loading", loading,
			"style", style.CSS(),
			"class", opts.ImgClass,
		), nil))
	}

	return a.RenderNode("picture", attrs(
		"style", opts.PictureStyle.CSS(),
		"class", opts.PictureClass,
	), children), nil
}

func placeholderStyle(img *Image, opts NakedImageOptions, loaded bool) cssstyle.Style {
	if opts.DisablePlaceholder || loaded {
		return nil
	}
	switch {
	case img.Base64 != "":
		return cssstyle.Style{
			"backgroundImage":    `url("` + img.Base64 + `")`,
			"backgroundSize":     "cover",
			"backgroundRepeat":   "no-repeat",
			"backgroundPosition": "50% 50%",
			"color":              "transparent",
		}
	case img.BgColor != "":
		return cssstyle.Style{
			"backgroundColor": img.BgColor,
			"color":           "transparent",
		}
	}
	return nil
}
