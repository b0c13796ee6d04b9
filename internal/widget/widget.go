// Package widget holds the static, ordered registry of widget descriptors.
package widget

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidDescriptor is returned when a descriptor breaks a registry invariant.
var ErrInvalidDescriptor = errors.New("invalid widget descriptor")

// Kind names the engine and template that render a widget.
type Kind string

// Widget kinds.
const (
	KindClock        Kind = "clock"
	KindCalendar     Kind = "calendar"
	KindWeather      Kind = "weather"
	KindYearProgress Kind = "year-progress"
	KindQuote        Kind = "quote"
	KindCountdown    Kind = "countdown"
	KindPomodoro     Kind = "pomodoro"
)

// Category groups widgets in the gallery.
type Category string

// Categories.
const (
	CategoryTime         Category = "Time"
	CategoryInformation  Category = "Information"
	CategoryMotivation   Category = "Motivation"
	CategoryProductivity Category = "Productivity"
)

// Key returns the translation key for the category label.
func (c Category) Key() string {
	return "category." + strings.ToLower(string(c))
}

// Size is a width/height pair. DefaultSize is in pixels; EmbedSize is in
// abstract grid units and only its ratio matters.
type Size struct {
	Width  int `json:"width" validate:"gt=0"`
	Height int `json:"height" validate:"gt=0"`
}

// AspectRatio returns width/height.
func (s Size) AspectRatio() float64 {
	if s.Height == 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// CSSRatio renders the size as a CSS aspect-ratio value ("6 / 3").
func (s Size) CSSRatio() string {
	return fmt.Sprintf("%d / %d", s.Width, s.Height)
}

// Descriptor describes one widget. It never changes at runtime.
type Descriptor struct {
	ID          string   `validate:"required,widget_id"`
	Name        string   `validate:"required"`
	Description string   `validate:"required"`
	Category    Category `validate:"required"`
	Icon        string   `validate:"required"`
	DefaultSize Size
	EmbedSize   Size
	Kind        Kind   `validate:"required"`
	NameKey     string `validate:"required"`
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	widgetIDPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("widget_id", func(fl validator.FieldLevel) bool {
			return widgetIDPattern.MatchString(fl.Field().String())
		})
		validateInst = v
	})
	return validateInst
}

// Registry is an ordered, immutable list of descriptors.
type Registry struct {
	widgets []Descriptor
	index   map[string]int
}

// New builds a registry, keeping the given order. Ids must be unique and
// URL-safe, and both sizes must be positive.
func New(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{
		widgets: make([]Descriptor, 0, len(descriptors)),
		index:   make(map[string]int, len(descriptors)),
	}
	v := validatorInstance()
	for _, d := range descriptors {
		if err := v.Struct(d); err != nil {
			return nil, fmt.Errorf("%w: %q: %s", ErrInvalidDescriptor, d.ID, describe(err))
		}
		if _, dup := r.index[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidDescriptor, d.ID)
		}
		r.index[d.ID] = len(r.widgets)
		r.widgets = append(r.widgets, d)
	}
	return r, nil
}

func describe(err error) string {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return fmt.Sprintf("%s failed '%s'", ves[0].StructNamespace(), ves[0].Tag())
	}
	return err.Error()
}

// List returns the descriptors in insertion order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.widgets))
	copy(out, r.widgets)
	return out
}

// Find returns the descriptor with the given id.
func (r *Registry) Find(id string) (Descriptor, bool) {
	i, ok := r.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.widgets[i], true
}

// IDs returns the widget ids in order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.widgets))
	for i, w := range r.widgets {
		ids[i] = w.ID
	}
	return ids
}

// CategoryCount is a category with the number of widgets in it.
type CategoryCount struct {
	Category Category
	Count    int
}

// Categories returns each category in order of first appearance with its count.
func (r *Registry) Categories() []CategoryCount {
	var out []CategoryCount
	pos := map[Category]int{}
	for _, w := range r.widgets {
		i, ok := pos[w.Category]
		if !ok {
			pos[w.Category] = len(out)
			out = append(out, CategoryCount{Category: w.Category})
			i = len(out) - 1
		}
		out[i].Count++
	}
	return out
}

// InCategory returns the widgets in category c, in order. An empty category
// returns every widget.
func (r *Registry) InCategory(c Category) []Descriptor {
	if c == "" {
		return r.List()
	}
	var out []Descriptor
	for _, w := range r.widgets {
		if w.Category == c {
			out = append(out, w)
		}
	}
	return out
}
