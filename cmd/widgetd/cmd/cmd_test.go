package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/widgetd/internal/theme"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		urlTheme, urlLang, urlBase, urlCopy = "", "", "", false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestURLBuild(t *testing.T) {
	out, err := execute(t, "url", "build", "clock", "--theme", "dark", "--lang", "ko", "--base", "https://w.example/")
	require.NoError(t, err)
	assert.Equal(t, "https://w.example/widget/clock?theme=dark&lang=ko\n", out)
}

func TestURLBuild_Fallbacks(t *testing.T) {
	out, err := execute(t, "url", "build", "quote", "--theme", "sparkly", "--lang", "xx", "--base", "https://w.example")
	require.NoError(t, err)
	assert.Equal(t, "https://w.example/widget/quote?theme=monochrome&lang=en\n", out)

	_, err = execute(t, "url", "build", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown widget")
}

func TestURL_ConfiguredDefaultTheme(t *testing.T) {
	viper.Set("widgets.default_theme", "minimal")
	t.Cleanup(func() { viper.Set("widgets.default_theme", theme.DefaultID) })

	out, err := execute(t, "url", "build", "clock", "--theme", "sparkly", "--base", "https://w.example")
	require.NoError(t, err)
	assert.Equal(t, "https://w.example/widget/clock?theme=minimal&lang=en\n", out)

	out, err = execute(t, "url", "parse", "https://w.example/widget/clock?theme=sparkly")
	require.NoError(t, err)
	assert.Contains(t, out, "theme:  minimal (default)")
}

func TestURLParse(t *testing.T) {
	out, err := execute(t, "url", "parse", "https://w.example/widget/weather?theme=minimal&lang=zz")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "widget: weather", lines[0])
	assert.Equal(t, "theme:  minimal", lines[1])
	assert.Equal(t, "lang:   en (default)", lines[2])

	_, err = execute(t, "url", "parse", "https://w.example/gallery")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "widgetd "))
}

func TestSystemLanguage(t *testing.T) {
	assert.Equal(t, "ko-KR", systemLanguage("ko_KR.UTF-8"))
	assert.Equal(t, "C", systemLanguage("C"))
	assert.Empty(t, systemLanguage(""))
}
