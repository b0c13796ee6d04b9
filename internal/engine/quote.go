package engine

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultQuoteSpec rotates the quote every ten seconds.
const DefaultQuoteSpec = "*/10 * * * * *"

// QuoteEntry is one quote with its author.
type QuoteEntry struct {
	Text   string `json:"text" yaml:"text"`
	Author string `json:"author" yaml:"author"`
}

// QuoteState is the quote shown until NextChange.
type QuoteState struct {
	QuoteEntry
	Index      int       `json:"index"`
	NextChange time.Time `json:"next_change"`
}

var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule parses a rotation spec. Both five-field and six-field
// (leading seconds) forms are accepted, as are descriptors like "@hourly".
func ParseSchedule(spec string) (cron.Schedule, error) {
	s, err := scheduleParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing quote schedule %q: %w", spec, err)
	}
	return s, nil
}

// MustParseSchedule is ParseSchedule for known-good specs.
func MustParseSchedule(spec string) cron.Schedule {
	s, err := ParseSchedule(spec)
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultQuotes returns the bundled quote list.
func DefaultQuotes() []QuoteEntry {
	return []QuoteEntry{
		{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs"},
		{Text: "Innovation distinguishes between a leader and a follower.", Author: "Steve Jobs"},
		{Text: "Stay hungry, stay foolish.", Author: "Steve Jobs"},
		{Text: "The future belongs to those who believe in the beauty of their dreams.", Author: "Eleanor Roosevelt"},
		{Text: "It is during our darkest moments that we must focus to see the light.", Author: "Aristotle"},
	}
}

// Quote selects the quote for the slot containing now. The slot is
// identified by the schedule's next activation, so every caller in the same
// slot gets the same quote. quotes must not be empty.
func Quote(now time.Time, schedule cron.Schedule, quotes []QuoteEntry) QuoteState {
	next := schedule.Next(now)

	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%d", next.Unix())
	i := int(h.Sum32() % uint32(len(quotes)))

	return QuoteState{QuoteEntry: quotes[i], Index: i, NextChange: next}
}
