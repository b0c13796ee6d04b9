// Package theme holds the fixed registry of widget themes.
//
// Themes are defined once in the embedded themes.yaml, validated at load and
// never mutated afterwards. Lookups never fail: unknown ids resolve to the
// default theme.
package theme

import (
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/widgetd/internal/assets"
)

// DefaultID is the theme used whenever a requested id is not recognized.
const DefaultID = "monochrome"

// ErrInvalidRegistry is returned when the theme definitions fail validation.
var ErrInvalidRegistry = errors.New("invalid theme registry")

// Colors is the fixed set of semantic colors every theme supplies.
type Colors struct {
	Background string `yaml:"background" json:"background" validate:"required"`
	Foreground string `yaml:"foreground" json:"foreground" validate:"required"`
	Primary    string `yaml:"primary" json:"primary" validate:"required"`
	Secondary  string `yaml:"secondary" json:"secondary" validate:"required"`
	Accent     string `yaml:"accent" json:"accent" validate:"required"`
	Muted      string `yaml:"muted" json:"muted" validate:"required"`
	Border     string `yaml:"border" json:"border" validate:"required"`
}

// FontSizes is the five-step font-size scale.
type FontSizes struct {
	XS   string `yaml:"xs" json:"xs" validate:"required"`
	SM   string `yaml:"sm" json:"sm" validate:"required"`
	Base string `yaml:"base" json:"base" validate:"required"`
	LG   string `yaml:"lg" json:"lg" validate:"required"`
	XL   string `yaml:"xl" json:"xl" validate:"required"`
}

// Typography describes the font family and size scale.
type Typography struct {
	FontFamily string    `yaml:"font_family" json:"font_family" validate:"required"`
	FontSize   FontSizes `yaml:"font_size" json:"font_size"`
}

// Style is the decorative bundle carried by decorated themes.
type Style struct {
	BoxShadow       string `yaml:"box_shadow" json:"box_shadow,omitempty"`
	BorderRadius    string `yaml:"border_radius" json:"border_radius,omitempty"`
	BackdropFilter  string `yaml:"backdrop_filter" json:"backdrop_filter,omitempty"`
	BackgroundImage string `yaml:"background_image" json:"background_image,omitempty"`
}

func (s Style) empty() bool {
	return s == Style{}
}

// Variant is either Flat or Decorated. Consumers switch on the concrete type.
type Variant interface {
	Kind() string
	variant()
}

// Flat is a theme with colors and typography only.
type Flat struct{}

// Kind implements Variant.
func (Flat) Kind() string { return "flat" }
func (Flat) variant()     {}

// Decorated is a theme that also carries a Style bundle.
type Decorated struct {
	Style Style
}

// Kind implements Variant.
func (Decorated) Kind() string { return "decorated" }
func (Decorated) variant()     {}

// Theme is a named bundle of colors, typography and a variant.
type Theme struct {
	ID         string
	Name       string
	Colors     Colors
	Typography Typography
	Variant    Variant
}

// IsDark reports whether the theme background is dark. Translucent
// backgrounds are judged on their RGB channels alone.
func (t Theme) IsDark() bool {
	c, ok := ParseColor(t.Colors.Background)
	if !ok {
		return false
	}
	l, _, _ := c.Lab()
	return l < 0.5
}

// definition is the on-disk form of a theme.
type definition struct {
	ID         string     `yaml:"id" validate:"required,theme_id"`
	Name       string     `yaml:"name" validate:"required"`
	Colors     Colors     `yaml:"colors"`
	Typography Typography `yaml:"typography"`
	Style      *Style     `yaml:"style"`
}

type document struct {
	Themes []definition `yaml:"themes" validate:"min=1,unique=ID,dive"`
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	themeIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("theme_id", func(fl validator.FieldLevel) bool {
			return themeIDPattern.MatchString(fl.Field().String())
		})
		validateInst = v
	})
	return validateInst
}

// Registry is an ordered, immutable set of themes.
type Registry struct {
	themes []Theme
	index  map[string]int
	def    int
}

// Load decodes and validates a theme registry from YAML. The default theme
// must be present.
func Load(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding themes: %w", err)
	}

	if err := validatorInstance().Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRegistry, describe(err))
	}

	r := &Registry{
		themes: make([]Theme, 0, len(doc.Themes)),
		index:  make(map[string]int, len(doc.Themes)),
		def:    -1,
	}
	for i, d := range doc.Themes {
		var v Variant = Flat{}
		if d.Style != nil {
			if d.Style.empty() {
				return nil, fmt.Errorf("%w: theme %q declares an empty style", ErrInvalidRegistry, d.ID)
			}
			v = Decorated{Style: *d.Style}
		}
		r.themes = append(r.themes, Theme{
			ID:         d.ID,
			Name:       d.Name,
			Colors:     d.Colors,
			Typography: d.Typography,
			Variant:    v,
		})
		r.index[d.ID] = i
		if d.ID == DefaultID {
			r.def = i
		}
	}
	if r.def < 0 {
		return nil, fmt.Errorf("%w: default theme %q missing", ErrInvalidRegistry, DefaultID)
	}

	return r, nil
}

func describe(err error) string {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return fmt.Sprintf("%s failed validation for tag '%s'", strings.ToLower(fe.Namespace()), fe.Tag())
	}
	return err.Error()
}

// Lookup returns the named theme, or the default theme for any id that is
// not registered (including the empty string).
func (r *Registry) Lookup(id string) Theme {
	if t, ok := r.Get(id); ok {
		return t
	}
	return r.themes[r.def]
}

// WithDefault returns a copy of r whose fallback theme is id.
func (r *Registry) WithDefault(id string) (*Registry, error) {
	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown default theme %q", ErrInvalidRegistry, id)
	}
	cp := *r
	cp.def = i
	return &cp, nil
}

// Get returns the named theme and whether it was recognized.
func (r *Registry) Get(id string) (Theme, bool) {
	i, ok := r.index[id]
	if !ok {
		return Theme{}, false
	}
	return r.themes[i], true
}

// Default returns the default theme.
func (r *Registry) Default() Theme {
	return r.themes[r.def]
}

// List returns all themes in registry order.
func (r *Registry) List() []Theme {
	out := make([]Theme, len(r.themes))
	copy(out, r.themes)
	return out
}

// IDs returns all theme ids in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.themes))
	for i, t := range r.themes {
		ids[i] = t.ID
	}
	return ids
}

// ForScheme resolves a theme the way widget pages do: an explicit recognized
// id wins; with no id, a dark color-scheme preference selects "dark"; anything
// else gets the default.
func (r *Registry) ForScheme(id string, dark bool) Theme {
	if t, ok := r.Get(id); ok {
		return t
	}
	if id == "" && dark {
		if t, ok := r.Get("dark"); ok {
			return t
		}
	}
	return r.Default()
}

var builtin = sync.OnceValues(func() (*Registry, error) {
	data, err := assets.ThemesYAML()
	if err != nil {
		return nil, err
	}
	return Load(data)
})

// Builtin returns the registry decoded from the embedded themes.yaml.
func Builtin() (*Registry, error) {
	return builtin()
}

// MustBuiltin is Builtin for callers that cannot proceed without themes.
func MustBuiltin() *Registry {
	r, err := builtin()
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup resolves id against the builtin registry.
func Lookup(id string) Theme {
	return MustBuiltin().Lookup(id)
}

// Known reports whether id names a builtin theme.
func Known(id string) bool {
	_, ok := MustBuiltin().Get(id)
	return ok
}

// ParseColor parses the CSS color forms used in themes.yaml: #rgb, #rrggbb
// and rgb()/rgba(). Alpha is dropped.
func ParseColor(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		if len(s) == 4 {
			s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, false
		}
		return c, true
	}

	var r, g, b uint8
	var a float64
	switch {
	case strings.HasPrefix(s, "rgba("):
		if _, err := fmt.Sscanf(s, "rgba(%d, %d, %d, %g)", &r, &g, &b, &a); err != nil {
			return colorful.Color{}, false
		}
	case strings.HasPrefix(s, "rgb("):
		if _, err := fmt.Sscanf(s, "rgb(%d, %d, %d)", &r, &g, &b); err != nil {
			return colorful.Color{}, false
		}
	default:
		return colorful.Color{}, false
	}
	c, _ := colorful.MakeColor(color.RGBA{R: r, G: g, B: b, A: 0xff})
	return c, true
}
