package widget

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_Order(t *testing.T) {
	assert.Equal(t, []string{
		"clock", "calendar", "weather", "year-progress", "quote", "countdown", "pomodoro",
	}, Builtin().IDs())
}

func TestBuiltin_Sizes(t *testing.T) {
	tests := []struct {
		id      string
		def     Size
		embed   Size
		kind    Kind
		nameKey string
	}{
		{"clock", Size{600, 300}, Size{6, 3}, KindClock, "widget.clock"},
		{"calendar", Size{500, 550}, Size{5, 6}, KindCalendar, "widget.calendar"},
		{"weather", Size{400, 350}, Size{4, 4}, KindWeather, "widget.weather"},
		{"year-progress", Size{700, 350}, Size{7, 4}, KindYearProgress, "widget.yearProgress"},
		{"quote", Size{800, 300}, Size{8, 3}, KindQuote, "widget.quote"},
		{"countdown", Size{700, 300}, Size{7, 3}, KindCountdown, "widget.countdown"},
		{"pomodoro", Size{400, 400}, Size{4, 4}, KindPomodoro, "widget.pomodoro"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			d, ok := Find(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.def, d.DefaultSize)
			assert.Equal(t, tt.embed, d.EmbedSize)
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.nameKey, d.NameKey)
		})
	}
}

func TestBuiltin_URLSafeIDs(t *testing.T) {
	for _, id := range Builtin().IDs() {
		assert.Equal(t, id, url.PathEscape(id))
	}
}

func TestFind_Unknown(t *testing.T) {
	for _, id := range []string{"", "Clock", "nope", "clock/", "../clock"} {
		_, ok := Find(id)
		assert.False(t, ok, id)
	}
}

func TestNew_Invariants(t *testing.T) {
	valid := builtinDescriptors[0]

	tests := []struct {
		name   string
		mutate func(d *Descriptor)
	}{
		{"empty id", func(d *Descriptor) { d.ID = "" }},
		{"unsafe id", func(d *Descriptor) { d.ID = "my clock" }},
		{"uppercase id", func(d *Descriptor) { d.ID = "Clock" }},
		{"zero width", func(d *Descriptor) { d.DefaultSize.Width = 0 }},
		{"negative embed height", func(d *Descriptor) { d.EmbedSize.Height = -1 }},
		{"missing kind", func(d *Descriptor) { d.Kind = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			_, err := New(d)
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}

	_, err := New(valid, valid)
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []CategoryCount{
		{CategoryTime, 4},
		{CategoryInformation, 1},
		{CategoryMotivation, 1},
		{CategoryProductivity, 1},
	}, Builtin().Categories())

	assert.Len(t, Builtin().InCategory(CategoryTime), 4)
	assert.Len(t, Builtin().InCategory(""), 7)
	assert.Empty(t, Builtin().InCategory("Other"))
	assert.Equal(t, "category.productivity", CategoryProductivity.Key())
}

func TestSize(t *testing.T) {
	assert.InDelta(t, 2.0, Size{6, 3}.AspectRatio(), 1e-9)
	assert.InDelta(t, 5.0/6.0, Size{5, 6}.AspectRatio(), 1e-9)
	assert.Zero(t, Size{1, 0}.AspectRatio())
	assert.Equal(t, "7 / 4", Size{7, 4}.CSSRatio())
}
