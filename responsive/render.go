package responsive

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/net/html"

	"github.com/derickschaefer/dast"
	"github.com/derickschaefer/dast/cssstyle"
	"github.com/derickschaefer/dast/htmlrender"
)

// Layout controls how an image reacts to viewport changes.
type Layout string

const (
	// LayoutResponsive scales the image down and up with the viewport.
	LayoutResponsive Layout = "responsive"
	// LayoutIntrinsic scales down but never past the original size.
	LayoutIntrinsic Layout = "intrinsic"
	// LayoutFixed keeps the original dimensions.
	LayoutFixed Layout = "fixed"
	// LayoutFill stretches to the parent, which must be positioned.
	LayoutFill Layout = "fill"
)

// DefaultFadeInDuration is the fade-in transition length in milliseconds.
const DefaultFadeInDuration = 500

// ImageOptions configures RenderImage.
type ImageOptions struct {
	PictureClass string         `json:"pictureClass,omitempty"`
	PictureStyle cssstyle.Style `json:"pictureStyle,omitempty"`
	RootStyle    cssstyle.Style `json:"rootStyle,omitempty"`
	// FadeInDuration in milliseconds. Nil means DefaultFadeInDuration; zero
	// disables the transition.
	FadeInDuration *int   `json:"fadeInDuration,omitempty"`
	ExplicitWidth  bool   `json:"explicitWidth,omitempty"`
	Layout         Layout `json:"layout,omitempty" validate:"omitempty,oneof=responsive intrinsic fixed fill"`
	ObjectFit      string `json:"objectFit,omitempty"`
	ObjectPosition string `json:"objectPosition,omitempty"`
}

func absolutePositioning() cssstyle.Style {
	return cssstyle.Style{
		"position": "absolute",
		"left":     "0px",
		"top":      "0px",
		"width":    "100%",
		"height":   "100%",
	}
}

func (o ImageOptions) transition() string {
	d := DefaultFadeInDuration
	if o.FadeInDuration != nil {
		d = *o.FadeInDuration
	}
	if d <= 0 {
		return ""
	}
	return fmt.Sprintf("opacity %dms %dms", d, d)
}

func (o ImageOptions) rootLayout(width float64) cssstyle.Style {
	switch o.Layout {
	case LayoutFill:
		return absolutePositioning()
	case LayoutIntrinsic:
		return cssstyle.Style{"position": "relative", "width": "100%", "maxWidth": px(width)}
	case LayoutFixed:
		return cssstyle.Style{"position": "relative", "width": px(width)}
	}
	return cssstyle.Style{"position": "relative"}
}

// RenderImage renders the full image component: a wrapper sized by an
// invisible SVG, a blurred or colored placeholder, the picture element once
// ShouldAdd allows it, and a noscript fallback.
func RenderImage[T any](a dast.Adapter[T], img *Image, opts ImageOptions, state State, env Env) (T, error) {
	var zero T
	if err := img.Validate(); err != nil {
		return zero, err
	}
	if err := validate.Struct(opts); err != nil {
		return zero, fmt.Errorf("responsive: invalid options: %w", err)
	}

	show := ShouldShow(state, env)
	transition := opts.transition()

	opacity := "1"
	if show {
		opacity = "0"
	}
	placeholderStyle := cssstyle.Merge(cssstyle.Style{
		"backgroundColor": img.BgColor,
		"backgroundSize":  "cover",
		"opacity":         opacity,
		"objectFit":       opts.ObjectFit,
		"objectPosition":  opts.ObjectPosition,
		"transition":      transition,
	}, absolutePositioning())
	if img.Base64 != "" {
		placeholderStyle["backgroundImage"] = "url(" + img.Base64 + ")"
	}

	var children []T
	if opts.Layout != LayoutFill {
		children = append(children, sizer(a, img.Width, img.height(), opts.PictureClass, opts.PictureStyle))
	}
	children = append(children, a.RenderNode("div", styleAttrs(placeholderStyle), nil))

	if ShouldAdd(state, env) {
		var picture []T
		picture = append(picture, sources(a, img.WebpSrcSet, img.SrcSet, img.Sizes)...)
		if img.Src != "" {
			imgOpacity := "0"
			if show {
				imgOpacity = "1"
			}
			style := cssstyle.Merge(absolutePositioning(), opts.PictureStyle, cssstyle.Style{
				"opacity":        imgOpacity,
				"transition":     transition,
				"objectFit":      opts.ObjectFit,
				"objectPosition": opts.ObjectPosition,
			})
			picture = append(picture, a.RenderNode("img", attrs(
				"src", img.Src,
				"alt", img.Alt,
				"title", img.Title,
				"class", opts.PictureClass,
				"style", style.CSS(),
			), nil))
		}
		children = append(children, a.RenderNode("picture", nil, picture))
	}

	fallback, err := noscript(img, opts)
	if err != nil {
		return zero, err
	}
	children = append(children, a.RenderNode("noscript", nil, []T{a.RenderText(fallback, "noscript")}))

	display := "block"
	if opts.ExplicitWidth {
		display = "inline-block"
	}
	rootStyle := cssstyle.Merge(
		cssstyle.Style{"display": display, "overflow": "hidden"},
		opts.rootLayout(img.Width),
		opts.RootStyle,
	)
	return a.RenderNode("div", styleAttrs(rootStyle), children), nil
}

// sizer is a transparent image with the intrinsic size of the real one. It
// reserves the layout space before the picture loads.
func sizer[T any](a dast.Adapter[T], width, height float64, class string, style cssstyle.Style) T {
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s"></svg>`,
		formatNumber(width), formatNumber(height))
	return a.RenderNode("img", attrs(
		"class", class,
		"style", cssstyle.Merge(cssstyle.Style{"display": "block", "width": "100%"}, style).CSS(),
		"src", "data:image/svg+xml;base64,"+base64.StdEncoding.EncodeToString([]byte(svg)),
		"aria-hidden", "true",
	), nil)
}

func sources[T any](a dast.Adapter[T], webpSrcSet, srcSet, sizes string) []T {
	var out []T
	if webpSrcSet != "" {
		out = append(out, a.RenderNode("source", attrs("srcset", webpSrcSet, "sizes", sizes, "type", "image/webp"), nil))
	}
	if srcSet != "" {
		out = append(out, a.RenderNode("source", attrs("srcset", srcSet, "sizes", sizes), nil))
	}
	return out
}

// noscript serializes the eager fallback picture for clients without
// scripting.
func noscript(img *Image, opts ImageOptions) (string, error) {
	var a dast.Adapter[*html.Node] = htmlrender.Adapter{}
	picture := sources(a, img.WebpSrcSet, img.SrcSet, img.Sizes)
	picture = append(picture, a.RenderNode("img", attrs(
		"src", img.Src,
		"alt", img.Alt,
		"title", img.Title,
		"class", opts.PictureClass,
		"style", cssstyle.Merge(opts.PictureStyle, absolutePositioning()).CSS(),
		"loading", "lazy",
	), nil))
	return htmlrender.String(a.RenderNode("picture", nil, picture))
}

// attrs builds attributes from name/value pairs, skipping empty values.
func attrs(pairs ...string) dast.Attrs {
	out := make(dast.Attrs, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			out[pairs[i]] = pairs[i+1]
		}
	}
	return out
}

func styleAttrs(s cssstyle.Style) dast.Attrs {
	return attrs("style", s.CSS())
}
