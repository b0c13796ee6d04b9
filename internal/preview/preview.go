// Package preview draws static PNG snapshots of widgets for link unfurls
// and the terminal listing.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jmylchreest/widgetd/internal/engine"
	"github.com/jmylchreest/widgetd/internal/i18n"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/widget"
)

// Scale is the upscaling factor applied to the low-resolution canvas the
// bitmap font is drawn on.
const Scale = 2

const (
	lineGap   = 6
	barHeight = 6
	margin    = 12
)

// Snapshot is what a preview shows: a title, body lines and an optional
// progress bar in percent.
type Snapshot struct {
	Title    string
	Lines    []string
	Progress *float64
}

// Summarize turns a display state into preview text. A nil state yields
// the widget's loading label.
func Summarize(d widget.Descriptor, tr i18n.Translator, state *engine.DisplayState) Snapshot {
	s := Snapshot{Title: tr.T(d.NameKey)}
	if state == nil {
		s.Lines = []string{loadingKey(tr, d.Kind)}
		return s
	}

	switch {
	case state.Clock != nil:
		s.Lines = []string{state.Clock.String()}
	case state.Calendar != nil:
		c := state.Calendar
		s.Lines = []string{
			fmt.Sprintf("%s %d", tr.T(c.MonthKey), c.Year),
			fmt.Sprintf("%s %d", tr.T("calendar.today"), c.Today),
		}
	case state.Countdown != nil:
		c := state.Countdown
		if c.Expired {
			s.Lines = []string{tr.T("countdown.ended")}
			break
		}
		p := c.Padded()
		s.Lines = []string{
			tr.T("countdown.newYear"),
			fmt.Sprintf("%sd %s:%s:%s", p[0], p[1], p[2], p[3]),
		}
	case state.YearProgress != nil:
		y := state.YearProgress
		pct := y.Percent
		s.Lines = []string{fmt.Sprintf("%d  %d%%", y.Year, y.YearFloor)}
		s.Progress = &pct
	case state.Quote != nil:
		s.Lines = append(wrap(state.Quote.Text, 36), "- "+state.Quote.Author)
	case state.Pomodoro != nil:
		p := state.Pomodoro
		pct := p.Progress
		s.Lines = []string{tr.T(p.Mode.Key()), p.Display}
		s.Progress = &pct
	default:
		s.Lines = []string{loadingKey(tr, d.Kind)}
	}
	return s
}

func loadingKey(tr i18n.Translator, k widget.Kind) string {
	switch k {
	case widget.KindWeather:
		return tr.T("weather.loading")
	case widget.KindQuote:
		return tr.T("quote.loading")
	case widget.KindCountdown:
		return tr.T("countdown.loading")
	default:
		return tr.T("clock.loading")
	}
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, w := range strings.Fields(text) {
		if cur.Len() > 0 && len([]rune(cur.String()))+1+len([]rune(w)) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// palette is the theme resolved to drawable colors.
type palette struct {
	bg, fg, muted, primary, track color.Color
}

func paletteFor(t theme.Theme) palette {
	parse := func(s string, fallback colorful.Color) colorful.Color {
		if c, ok := theme.ParseColor(s); ok {
			return c
		}
		return fallback
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	black := colorful.Color{}

	bg := parse(t.Colors.Background, white)
	fg := parse(t.Colors.Foreground, black)
	primary := parse(t.Colors.Primary, fg)

	return palette{
		bg:      bg,
		fg:      fg,
		muted:   parse(t.Colors.Muted, fg.BlendLab(bg, 0.5)),
		primary: primary,
		track:   bg.BlendLab(primary, 0.2).Clamped(),
	}
}

// Image draws the snapshot at the descriptor's default size.
func Image(d widget.Descriptor, t theme.Theme, s Snapshot) *image.RGBA {
	w, h := d.DefaultSize.Width/Scale, d.DefaultSize.Height/Scale
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	p := paletteFor(t)

	xdraw.Draw(small, small.Bounds(), image.NewUniform(p.bg), image.Point{}, xdraw.Src)

	face := basicfont.Face7x13
	lineH := face.Metrics().Height.Ceil() + lineGap

	blockH := lineH * (1 + len(s.Lines))
	if s.Progress != nil {
		blockH += barHeight + lineGap
	}
	y := max((h-blockH)/2, margin) + face.Metrics().Ascent.Ceil()

	drawCentered(small, face, p.muted, s.Title, y)
	y += lineH
	for _, line := range s.Lines {
		drawCentered(small, face, p.fg, line, y)
		y += lineH
	}

	if s.Progress != nil {
		left, right := margin, w-margin
		top := y - face.Metrics().Ascent.Ceil() + lineGap/2
		track := image.Rect(left, top, right, top+barHeight)
		xdraw.Draw(small, track, image.NewUniform(p.track), image.Point{}, xdraw.Src)

		pct := min(max(*s.Progress, 0), 100)
		fill := track
		fill.Max.X = left + int(float64(right-left)*pct/100)
		xdraw.Draw(small, fill, image.NewUniform(p.primary), image.Point{}, xdraw.Src)
	}

	out := image.NewRGBA(image.Rect(0, 0, w*Scale, h*Scale))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), xdraw.Src, nil)
	return out
}

func drawCentered(dst *image.RGBA, face font.Face, c color.Color, text string, baseline int) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	width := d.MeasureString(text).Ceil()
	x := max((dst.Bounds().Dx()-width)/2, 0)
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}

// Render encodes the preview as PNG.
func Render(w io.Writer, d widget.Descriptor, t theme.Theme, tr i18n.Translator, state *engine.DisplayState) error {
	img := Image(d, t, Summarize(d, tr, state))
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding preview: %w", err)
	}
	return nil
}
