package video

import (
	"github.com/derickschaefer/dast"
)

// Element is the custom element the player renders as.
const Element = "mux-player"

// DefaultPreload is the preload hint used when Player.Preload is empty.
const DefaultPreload = "metadata"

// Player holds the mux-player properties most hosts set. Extra carries any
// other property by its camelCase name and wins over the typed fields.
type Player struct {
	AccentColor    string `json:"accentColor,omitempty"`
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`

	AutoPlay    bool `json:"autoPlay,omitempty"`
	Muted       bool `json:"muted,omitempty"`
	Loop        bool `json:"loop,omitempty"`
	PlaysInline bool `json:"playsInline,omitempty"`
	Audio       bool `json:"audio,omitempty"`
	Debug       bool `json:"debug,omitempty"`

	// DisableCookies and DisableTracking default to true when nil.
	DisableCookies          *bool `json:"disableCookies,omitempty"`
	DisableTracking         *bool `json:"disableTracking,omitempty"`
	DisablePictureInPicture bool  `json:"disablePictureInPicture,omitempty"`

	Preload       string    `json:"preload,omitempty"`
	StreamType    string    `json:"streamType,omitempty"`
	Poster        string    `json:"poster,omitempty"`
	CrossOrigin   string    `json:"crossOrigin,omitempty"`
	CustomDomain  string    `json:"customDomain,omitempty"`
	EnvKey        string    `json:"envKey,omitempty"`
	StartTime     float64   `json:"startTime,omitempty"`
	ThumbnailTime float64   `json:"thumbnailTime,omitempty"`
	PlaybackRates []float64 `json:"playbackRates,omitempty"`

	MetadataVideoID      string `json:"metadataVideoId,omitempty"`
	MetadataVideoTitle   string `json:"metadataVideoTitle,omitempty"`
	MetadataViewerUserID string `json:"metadataViewerUserId,omitempty"`

	Extra Props `json:"extra,omitempty"`
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// props returns the player properties with zero values left out.
func (p Player) props() Props {
	out := Props{
		"disableCookies":  boolOr(p.DisableCookies, true),
		"disableTracking": boolOr(p.DisableTracking, true),
		"preload":         DefaultPreload,
	}
	if p.Preload != "" {
		out["preload"] = p.Preload
	}
	set := func(name string, v any) {
		switch x := v.(type) {
		case string:
			if x == "" {
				return
			}
		case bool:
			if !x {
				return
			}
		case float64:
			if x == 0 {
				return
			}
		case []float64:
			if len(x) == 0 {
				return
			}
		}
		out[name] = v
	}
	set("accentColor", p.AccentColor)
	set("primaryColor", p.PrimaryColor)
	set("secondaryColor", p.SecondaryColor)
	set("autoPlay", p.AutoPlay)
	set("muted", p.Muted)
	set("loop", p.Loop)
	set("playsInline", p.PlaysInline)
	set("audio", p.Audio)
	set("debug", p.Debug)
	set("disablePictureInPicture", p.DisablePictureInPicture)
	set("streamType", p.StreamType)
	set("poster", p.Poster)
	set("crossOrigin", p.CrossOrigin)
	set("customDomain", p.CustomDomain)
	set("envKey", p.EnvKey)
	set("startTime", p.StartTime)
	set("thumbnailTime", p.ThumbnailTime)
	set("playbackRates", p.PlaybackRates)
	set("metadataVideoId", p.MetadataVideoID)
	set("metadataVideoTitle", p.MetadataVideoTitle)
	set("metadataViewerUserId", p.MetadataViewerUserID)
	return out
}

// Attrs returns the complete attribute set of the player element: the
// on-demand stream type, then the properties derived from v, then the
// player settings and finally Extra, each layer overriding the previous.
func Attrs(v *Video, p Player) dast.Attrs {
	attrs := dast.Attrs{"stream-type": "on-demand"}
	for _, layer := range []Props{PlayerAttrs(v), p.props(), p.Extra} {
		for k, val := range ToHTMLAttrs(layer) {
			attrs[k] = val
		}
	}
	return attrs
}

// Render renders v as a mux-player element through the adapter.
func Render[T any](a dast.Adapter[T], v *Video, p Player) T {
	return a.RenderNode(Element, Attrs(v, p), nil)
}
