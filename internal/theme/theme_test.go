package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	r, err := Builtin()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"monochrome", "dark", "minimal",
		"neumorphismLight", "neumorphismDark",
		"glassmorphismLight", "glassmorphismDark",
	}, r.IDs())
	assert.Equal(t, DefaultID, r.Default().ID)
}

func TestWithDefault(t *testing.T) {
	r, err := MustBuiltin().WithDefault("minimal")
	require.NoError(t, err)
	assert.Equal(t, "minimal", r.Default().ID)
	assert.Equal(t, "minimal", r.Lookup("nope").ID)
	assert.Equal(t, DefaultID, MustBuiltin().Default().ID, "receiver unchanged")

	_, err = MustBuiltin().WithDefault("sparkly")
	assert.ErrorIs(t, err, ErrInvalidRegistry)
}

func TestLookup_FallbackTotality(t *testing.T) {
	r := MustBuiltin()

	inputs := []string{
		"", " ", "unknown", "MONOCHROME", "dark ", "../dark", "%00", "dark?x=1",
		"<script>", "🎨", strings.Repeat("a", 4096),
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			th := r.Lookup(in)
			assert.Equal(t, DefaultID, th.ID)
			assert.NotEmpty(t, th.Colors.Background)
		})
	}

	for _, id := range r.IDs() {
		assert.Equal(t, id, r.Lookup(id).ID)
	}
}

func TestBuiltin_EveryThemeComplete(t *testing.T) {
	for _, th := range MustBuiltin().List() {
		t.Run(th.ID, func(t *testing.T) {
			for _, c := range []string{
				th.Colors.Background, th.Colors.Foreground, th.Colors.Primary,
				th.Colors.Secondary, th.Colors.Accent, th.Colors.Muted, th.Colors.Border,
			} {
				assert.NotEmpty(t, c)
			}
			fs := th.Typography.FontSize
			for _, s := range []string{fs.XS, fs.SM, fs.Base, fs.LG, fs.XL} {
				assert.NotEmpty(t, s)
			}
			require.NotNil(t, th.Variant)
		})
	}
}

func TestVariants(t *testing.T) {
	r := MustBuiltin()

	tests := []struct {
		id   string
		kind string
	}{
		{"monochrome", "flat"},
		{"dark", "flat"},
		{"minimal", "flat"},
		{"neumorphismLight", "decorated"},
		{"glassmorphismLight", "decorated"},
		{"glassmorphismDark", "decorated"},
	}
	for _, tt := range tests {
		th, ok := r.Get(tt.id)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.kind, th.Variant.Kind(), tt.id)
	}

	th, _ := r.Get("glassmorphismLight")
	d, ok := th.Variant.(Decorated)
	require.True(t, ok)
	assert.Equal(t, "linear-gradient(135deg, #667eea 0%, #764ba2 100%)", d.Style.BackgroundImage)
	assert.Equal(t, "blur(10px)", d.Style.BackdropFilter)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing color",
			yaml: `
themes:
  - id: monochrome
    name: Mono
    colors: {background: "#fff", foreground: "#000", primary: "#000", secondary: "#666", accent: "#333", muted: "#eee"}
    typography: {font_family: sans, font_size: {xs: a, sm: b, base: c, lg: d, xl: e}}
`,
			want: "border",
		},
		{
			name: "missing font size",
			yaml: `
themes:
  - id: monochrome
    name: Mono
    colors: {background: "#fff", foreground: "#000", primary: "#000", secondary: "#666", accent: "#333", muted: "#eee", border: "#ddd"}
    typography: {font_family: sans, font_size: {xs: a, sm: b, base: c, lg: d}}
`,
			want: "xl",
		},
		{
			name: "duplicate id",
			yaml: `
themes:
  - id: monochrome
    name: Mono
    colors: {background: "#fff", foreground: "#000", primary: "#000", secondary: "#666", accent: "#333", muted: "#eee", border: "#ddd"}
    typography: {font_family: sans, font_size: {xs: a, sm: b, base: c, lg: d, xl: e}}
  - id: monochrome
    name: Mono 2
    colors: {background: "#fff", foreground: "#000", primary: "#000", secondary: "#666", accent: "#333", muted: "#eee", border: "#ddd"}
    typography: {font_family: sans, font_size: {xs: a, sm: b, base: c, lg: d, xl: e}}
`,
			want: "unique",
		},
		{
			name: "unsafe id",
			yaml: `
themes:
  - id: "mono chrome"
    name: Mono
    colors: {background: "#fff", foreground: "#000", primary: "#000", secondary: "#666", accent: "#333", muted: "#eee", border: "#ddd"}
    typography: {font_family: sans, font_size: {xs: a, sm: b, base: c, lg: d, xl: e}}
`,
			want: "theme_id",
		},
		{
			name: "no default",
			yaml: `
themes:
  - id: other
    name: Other
    colors: {background: "#fff", foreground: "#000", primary: "#000", secondary: "#666", accent: "#333", muted: "#eee", border: "#ddd"}
    typography: {font_family: sans, font_size: {xs: a, sm: b, base: c, lg: d, xl: e}}
`,
			want: "default theme",
		},
		{
			name: "empty style",
			yaml: `
themes:
  - id: monochrome
    name: Mono
    colors: {background: "#fff", foreground: "#000", primary: "#000", secondary: "#666", accent: "#333", muted: "#eee", border: "#ddd"}
    typography: {font_family: sans, font_size: {xs: a, sm: b, base: c, lg: d, xl: e}}
    style: {}
`,
			want: "empty style",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRegistry)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestForScheme(t *testing.T) {
	r := MustBuiltin()

	assert.Equal(t, "minimal", r.ForScheme("minimal", true).ID)
	assert.Equal(t, "dark", r.ForScheme("", true).ID)
	assert.Equal(t, DefaultID, r.ForScheme("", false).ID)
	assert.Equal(t, DefaultID, r.ForScheme("bogus", true).ID)
}

func TestIsDark(t *testing.T) {
	r := MustBuiltin()

	assert.False(t, r.Lookup("monochrome").IsDark())
	assert.True(t, r.Lookup("dark").IsDark())
	assert.True(t, r.Lookup("neumorphismDark").IsDark())
	assert.False(t, r.Lookup("glassmorphismLight").IsDark())
	assert.True(t, r.Lookup("glassmorphismDark").IsDark())
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("#fff")
	require.True(t, ok)
	assert.Equal(t, "#ffffff", c.Hex())

	c, ok = ParseColor("rgba(17, 25, 40, 0.75)")
	require.True(t, ok)
	assert.Equal(t, "#111928", c.Hex())

	_, ok = ParseColor("hotpink")
	assert.False(t, ok)
}

func TestCSS(t *testing.T) {
	r := MustBuiltin()

	css := CSS(r.Lookup("monochrome"), "")
	assert.True(t, strings.HasPrefix(css, ":root {"))
	assert.Contains(t, css, "--widget-background: #ffffff;")
	assert.Contains(t, css, "--widget-font-xl: 1.25rem;")
	assert.Contains(t, css, "--widget-box-shadow: none;")

	css = CSS(r.Lookup("glassmorphismLight"), ".widget")
	assert.True(t, strings.HasPrefix(css, ".widget {"))
	assert.Contains(t, css, "--widget-backdrop-filter: blur(10px);")
	assert.Contains(t, css, "--widget-page-background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);")
}
