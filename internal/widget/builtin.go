package widget

import "sync"

var builtinDescriptors = []Descriptor{
	{
		ID:          "clock",
		Name:        "Clock",
		Description: "A minimalist digital clock widget",
		Category:    CategoryTime,
		Icon:        "🕐",
		DefaultSize: Size{Width: 600, Height: 300},
		EmbedSize:   Size{Width: 6, Height: 3},
		Kind:        KindClock,
		NameKey:     "widget.clock",
	},
	{
		ID:          "calendar",
		Name:        "Calendar",
		Description: "A clean monthly calendar view",
		Category:    CategoryTime,
		Icon:        "📅",
		DefaultSize: Size{Width: 500, Height: 550},
		EmbedSize:   Size{Width: 5, Height: 6},
		Kind:        KindCalendar,
		NameKey:     "widget.calendar",
	},
	{
		ID:          "weather",
		Name:        "Weather",
		Description: "Simple weather display widget",
		Category:    CategoryInformation,
		Icon:        "🌤️",
		DefaultSize: Size{Width: 400, Height: 350},
		EmbedSize:   Size{Width: 4, Height: 4},
		Kind:        KindWeather,
		NameKey:     "widget.weather",
	},
	{
		ID:          "year-progress",
		Name:        "Year Progress",
		Description: "Track the progress of year, month, and day",
		Category:    CategoryTime,
		Icon:        "📊",
		DefaultSize: Size{Width: 700, Height: 350},
		EmbedSize:   Size{Width: 7, Height: 4},
		Kind:        KindYearProgress,
		NameKey:     "widget.yearProgress",
	},
	{
		ID:          "quote",
		Name:        "Daily Quote",
		Description: "Inspirational quotes that change periodically",
		Category:    CategoryMotivation,
		Icon:        "💬",
		DefaultSize: Size{Width: 800, Height: 300},
		EmbedSize:   Size{Width: 8, Height: 3},
		Kind:        KindQuote,
		NameKey:     "widget.quote",
	},
	{
		ID:          "countdown",
		Name:        "Countdown Timer",
		Description: "Countdown to New Year 2025",
		Category:    CategoryTime,
		Icon:        "⏳",
		DefaultSize: Size{Width: 700, Height: 300},
		EmbedSize:   Size{Width: 7, Height: 3},
		Kind:        KindCountdown,
		NameKey:     "widget.countdown",
	},
	{
		ID:          "pomodoro",
		Name:        "Pomodoro Timer",
		Description: "Focus timer with work and break intervals",
		Category:    CategoryProductivity,
		Icon:        "🍅",
		DefaultSize: Size{Width: 400, Height: 400},
		EmbedSize:   Size{Width: 4, Height: 4},
		Kind:        KindPomodoro,
		NameKey:     "widget.pomodoro",
	},
}

var builtin = sync.OnceValue(func() *Registry {
	r, err := New(builtinDescriptors...)
	if err != nil {
		panic(err)
	}
	return r
})

// Builtin returns the registry of bundled widgets.
func Builtin() *Registry {
	return builtin()
}

// Find looks id up in the builtin registry.
func Find(id string) (Descriptor, bool) {
	return builtin().Find(id)
}
