// Package video renders DatoCMS video fields as mux-player custom elements.
package video

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/derickschaefer/dast"
	"github.com/derickschaefer/dast/cssstyle"
)

// Video is the payload of a video GraphQL query. Fields that are not listed
// have no effect on the player.
type Video struct {
	Title         string  `json:"title,omitempty"`
	Alt           string  `json:"alt,omitempty"`
	Width         float64 `json:"width,omitempty" validate:"gte=0"`
	Height        float64 `json:"height,omitempty" validate:"gte=0"`
	MuxPlaybackID string  `json:"muxPlaybackId,omitempty"`
	PlaybackID    string  `json:"playbackId,omitempty"`
	BlurUpThumb   string  `json:"blurUpThumb,omitempty" validate:"omitempty,datauri"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks v. A video without any playback id is rejected: the player
// would have nothing to stream.
func (v *Video) Validate() error {
	if v == nil {
		return fmt.Errorf("video: nil video")
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("video: invalid video: %w", err)
	}
	if v.playbackID() == "" {
		return fmt.Errorf("video: missing playback id")
	}
	return nil
}

func (v *Video) playbackID() string {
	if v.MuxPlaybackID != "" {
		return v.MuxPlaybackID
	}
	return v.PlaybackID
}

// Props are player properties keyed by their camelCase name. Values may be
// strings, booleans, numbers, slices or a cssstyle.Style.
type Props map[string]any

// PlayerAttrs derives the player properties carried by the video itself.
// A nil video yields no properties.
func PlayerAttrs(v *Video) Props {
	p := Props{}
	if v == nil {
		return p
	}
	if v.Title != "" {
		p["title"] = v.Title
	}
	if id := v.playbackID(); id != "" {
		p["playbackId"] = id
	}
	if v.Width > 0 && v.Height > 0 {
		p["style"] = cssstyle.Style{
			"aspectRatio": formatNumber(v.Width) + " / " + formatNumber(v.Height),
		}
	}
	if v.BlurUpThumb != "" {
		p["placeholder"] = v.BlurUpThumb
	}
	return p
}

var attrNames = map[string]string{
	"crossOrigin":   "crossorigin",
	"viewBox":       "viewBox",
	"playsInline":   "playsinline",
	"autoPlay":      "autoplay",
	"playbackRate":  "playbackrate",
	"playbackRates": "playbackrates",
}

// AttrName maps a property name to its HTML attribute name. The second
// result is false when the property must be dropped.
func AttrName(prop string, value any) (string, bool) {
	if b, ok := value.(bool); ok && !b {
		return "", false
	}
	if value == nil {
		return "", false
	}
	if name, ok := attrNames[prop]; ok {
		return name, true
	}
	return kebab(prop), true
}

func kebab(s string) string {
	if strings.IndexFunc(s, isUpper) < 0 {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if isUpper(r) {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// AttrValue serializes a property value. The second result is false when
// the value has no attribute form.
func AttrValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		if !v {
			return "", false
		}
		return "", true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return formatNumber(v), true
	case float32:
		return formatNumber(float64(v)), true
	case []string:
		return strings.Join(v, " "), true
	case []float64:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = formatNumber(f)
		}
		return strings.Join(parts, " "), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := AttrValue(e); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " "), true
	case cssstyle.Style:
		css := v.CSS()
		return css, css != ""
	case map[string]string:
		css := cssstyle.Style(v).CSS()
		return css, css != ""
	case fmt.Stringer:
		return v.String(), true
	}
	return fmt.Sprint(value), true
}

// ToHTMLAttrs converts player properties to element attributes. False
// booleans are stripped and true ones become empty attributes.
func ToHTMLAttrs(p Props) dast.Attrs {
	attrs := dast.Attrs{}
	for _, prop := range sortedKeys(p) {
		value := p[prop]
		name, ok := AttrName(prop, value)
		if !ok {
			continue
		}
		s, ok := AttrValue(value)
		if !ok {
			continue
		}
		attrs[name] = s
	}
	return attrs
}

func sortedKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
