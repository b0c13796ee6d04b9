package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/jmylchreest/widgetd/internal/widget"
)

// Tier is a size bucket chosen from the measured container height.
type Tier string

// Tiers, smallest first.
const (
	TierSmall  Tier = "small"
	TierMedium Tier = "medium"
	TierLarge  Tier = "large"
)

// Tier boundaries in CSS pixels.
const (
	MediumMinHeight = 400
	LargeMinHeight  = 600
)

// Tiers lists every tier, smallest first.
func Tiers() []Tier {
	return []Tier{TierSmall, TierMedium, TierLarge}
}

// TierFor buckets a container height: < 400 small, 400..599 medium,
// >= 600 large.
func TierFor(height float64) Tier {
	switch {
	case height >= LargeMinHeight:
		return TierLarge
	case height >= MediumMinHeight:
		return TierMedium
	default:
		return TierSmall
	}
}

// FontSteps are the text size classes used by widget bodies.
var FontSteps = []string{"xs", "sm", "base", "lg", "xl", "2xl", "3xl", "4xl", "5xl", "6xl"}

// Scale is the spacing and type scale of one tier, in pixels.
type Scale struct {
	Tier    Tier
	Padding int
	Fonts   map[string]int
}

var scales = map[Tier]Scale{
	TierSmall: {
		Tier:    TierSmall,
		Padding: 16,
		Fonts: map[string]int{
			"xs": 10, "sm": 12, "base": 14, "lg": 16, "xl": 18,
			"2xl": 20, "3xl": 24, "4xl": 28, "5xl": 32, "6xl": 36,
		},
	},
	TierMedium: {
		Tier:    TierMedium,
		Padding: 24,
		Fonts: map[string]int{
			"xs": 12, "sm": 14, "base": 16, "lg": 18, "xl": 20,
			"2xl": 24, "3xl": 30, "4xl": 36, "5xl": 48, "6xl": 60,
		},
	},
	TierLarge: {
		Tier:    TierLarge,
		Padding: 32,
		Fonts: map[string]int{
			"xs": 14, "sm": 16, "base": 18, "lg": 20, "xl": 24,
			"2xl": 30, "3xl": 36, "4xl": 48, "5xl": 60, "6xl": 72,
		},
	},
}

// ScaleFor returns the scale of t. Unknown tiers get the medium scale.
func ScaleFor(t Tier) Scale {
	if s, ok := scales[t]; ok {
		return s
	}
	return scales[TierMedium]
}

// ScaleCSS renders one rule per tier keyed on the data-scale attribute the
// page script sets after measuring.
func ScaleCSS() template.CSS {
	var b strings.Builder
	for _, t := range Tiers() {
		s := ScaleFor(t)
		fmt.Fprintf(&b, "[data-scale=%q] {\n", string(t))
		fmt.Fprintf(&b, "  --scale-padding: %dpx;\n", s.Padding)
		for _, step := range FontSteps {
			fmt.Fprintf(&b, "  --text-%s: %dpx;\n", step, s.Fonts[step])
		}
		b.WriteString("}\n")
	}
	return template.CSS(b.String())
}

// Sizing is the container policy for a widget page.
type Sizing struct {
	Embedded bool
	// Width and Height are the standalone pixel size.
	Width  int
	Height int
	// Ratio is the embed grid ratio in CSS form, e.g. "6 / 3".
	Ratio string
}

// SizingFor picks the policy: embedded widgets fill their frame and keep
// the grid aspect ratio; standalone widgets use the default pixel size
// capped at the viewport.
func SizingFor(d widget.Descriptor, embedded bool) Sizing {
	return Sizing{
		Embedded: embedded,
		Width:    d.DefaultSize.Width,
		Height:   d.DefaultSize.Height,
		Ratio:    d.EmbedSize.CSSRatio(),
	}
}

// Style renders the container's inline style.
func (s Sizing) Style() template.CSS {
	if s.Embedded {
		return template.CSS(fmt.Sprintf(
			"width: 100%%; height: 100%%; max-width: 100%%; max-height: 100%%; aspect-ratio: %s;", s.Ratio))
	}
	return template.CSS(fmt.Sprintf(
		"width: min(%dpx, 100vw); height: min(%dpx, 100vh);", s.Width, s.Height))
}

// Mode is "embedded" or "standalone".
func (s Sizing) Mode() string {
	if s.Embedded {
		return "embedded"
	}
	return "standalone"
}
