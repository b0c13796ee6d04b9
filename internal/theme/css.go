package theme

import (
	"fmt"
	"strings"
)

// Flat themes still set every style property so widget CSS never depends on
// whether a variable is defined.
const (
	flatRadius = "12px"
	flatShadow = "none"
)

// CSS renders the theme as a block of custom properties scoped to selector.
// An empty selector means ":root".
func CSS(t Theme, selector string) string {
	if selector == "" {
		selector = ":root"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", selector)
	prop := func(name, value string) {
		fmt.Fprintf(&b, "  --widget-%s: %s;\n", name, value)
	}

	prop("background", t.Colors.Background)
	prop("foreground", t.Colors.Foreground)
	prop("primary", t.Colors.Primary)
	prop("secondary", t.Colors.Secondary)
	prop("accent", t.Colors.Accent)
	prop("muted", t.Colors.Muted)
	prop("border", t.Colors.Border)

	prop("font-family", t.Typography.FontFamily)
	prop("font-xs", t.Typography.FontSize.XS)
	prop("font-sm", t.Typography.FontSize.SM)
	prop("font-base", t.Typography.FontSize.Base)
	prop("font-lg", t.Typography.FontSize.LG)
	prop("font-xl", t.Typography.FontSize.XL)

	switch v := t.Variant.(type) {
	case Decorated:
		prop("box-shadow", orDefault(v.Style.BoxShadow, flatShadow))
		prop("border-radius", orDefault(v.Style.BorderRadius, flatRadius))
		prop("backdrop-filter", orDefault(v.Style.BackdropFilter, "none"))
		prop("page-background", orDefault(v.Style.BackgroundImage, "none"))
	default:
		prop("box-shadow", flatShadow)
		prop("border-radius", flatRadius)
		prop("backdrop-filter", "none")
		prop("page-background", "none")
	}

	b.WriteString("}\n")
	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
