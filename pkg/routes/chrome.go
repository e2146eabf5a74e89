package routes

import "github.com/aretw0/navstack/pkg/theme"

// HeaderProfile selects the tint and text colour pairing of a screen header.
type HeaderProfile string

const (
	// ProfileDefault leaves the header to the host.
	ProfileDefault HeaderProfile = "default"
	// ProfileMain uses the main background, as chat screens do.
	ProfileMain                HeaderProfile = "main"
	ProfileBackground          HeaderProfile = "background"
	ProfileSecondaryBackground HeaderProfile = "secondary-background"
	ProfileAltBackground       HeaderProfile = "alt-background"
)

// Presentation is how the screen enters the stack.
type Presentation string

const (
	PresentationCard                      Presentation = "card"
	PresentationFormSheet                 Presentation = "formSheet"
	PresentationContainedTransparentModal Presentation = "containedTransparentModal"
)

// Custom title style.
const (
	TitleFontFamily   = "Open Sans"
	TitleFontWeight   = "700"
	TitleFontSize     = 25
	HeaderRightIconPx = 35
	HeaderRightPack   = "custom"
)

// Chrome is the static per-route header configuration.
type Chrome struct {
	Profile    HeaderProfile `yaml:"profile" json:"profile"`
	HideHeader bool          `yaml:"hide_header,omitempty" json:"hide_header,omitempty"`
	// Title is a translation key or a literal; nil lets the host show the route name.
	Title           *string      `yaml:"title,omitempty" json:"title,omitempty"`
	LargeTitle      bool         `yaml:"large_title,omitempty" json:"large_title,omitempty"`
	HeaderRightIcon string       `yaml:"header_right_icon,omitempty" json:"header_right_icon,omitempty"`
	Presentation    Presentation `yaml:"presentation,omitempty" json:"presentation,omitempty"`
	Animation       string       `yaml:"animation,omitempty" json:"animation,omitempty"`
}

// Translator resolves a translation key. Unknown keys come back unchanged.
type Translator func(key string) string

// Identity returns keys as-is.
func Identity(key string) string { return key }

// ResolvedChrome is Chrome with theme colours and titles substituted.
type ResolvedChrome struct {
	HeaderShown       bool         `json:"header_shown"`
	Title             *string      `json:"title,omitempty"`
	HeaderBackground  string       `json:"header_background,omitempty"`
	HeaderTint        string       `json:"header_tint,omitempty"`
	BackTitleVisible  bool         `json:"back_title_visible"`
	ShadowVisible     bool         `json:"shadow_visible"`
	TitleFontFamily   string       `json:"title_font_family,omitempty"`
	TitleFontWeight   string       `json:"title_font_weight,omitempty"`
	TitleFontSize     float64      `json:"title_font_size,omitempty"`
	HeaderRightIcon   string       `json:"header_right_icon,omitempty"`
	HeaderRightPack   string       `json:"header_right_pack,omitempty"`
	HeaderRightSize   float64      `json:"header_right_size,omitempty"`
	HeaderRightFill   string       `json:"header_right_fill,omitempty"`
	Presentation      Presentation `json:"presentation"`
	Animation         string       `json:"animation,omitempty"`
	HostDefaultHeader bool         `json:"host_default_header"`
}

func profileColors(p HeaderProfile) (background, tint string, ok bool) {
	switch p {
	case ProfileMain:
		return theme.MainBackground, theme.MainText, true
	case ProfileBackground:
		return theme.BackgroundHeader, theme.RevertedMainText, true
	case ProfileSecondaryBackground:
		return theme.SecondaryBackgroundHeader, theme.RevertedMainText, true
	case ProfileAltBackground:
		return theme.AltSecondaryBackgroundHeader, theme.RevertedMainText, true
	}
	return "", "", false
}

// Resolve substitutes palette colours, the translated title and the UI scale.
func (c Chrome) Resolve(palette theme.Palette, translate Translator, scale float64) ResolvedChrome {
	if translate == nil {
		translate = Identity
	}
	if scale <= 0 {
		scale = 1
	}

	out := ResolvedChrome{
		HeaderShown:  !c.HideHeader,
		Presentation: c.Presentation,
		Animation:    c.Animation,
	}
	if out.Presentation == "" {
		out.Presentation = PresentationCard
	}

	if bg, tint, ok := profileColors(c.Profile); ok {
		out.HeaderBackground = palette.Color(bg)
		out.HeaderTint = palette.Color(tint)
	} else {
		out.HostDefaultHeader = true
		out.ShadowVisible = true
		out.BackTitleVisible = true
	}

	if c.Title != nil {
		title := *c.Title
		if title != "" {
			title = translate(title)
		}
		out.Title = &title
	}

	if c.LargeTitle {
		out.TitleFontFamily = TitleFontFamily
		out.TitleFontWeight = TitleFontWeight
		out.TitleFontSize = TitleFontSize * scale
	}

	if c.HeaderRightIcon != "" {
		out.HeaderRightIcon = c.HeaderRightIcon
		out.HeaderRightPack = HeaderRightPack
		out.HeaderRightSize = HeaderRightIconPx * scale
		out.HeaderRightFill = palette.Color(theme.RevertedMainText)
	}

	return out
}
