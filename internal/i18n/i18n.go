// Package i18n resolves the display locale and translates widget strings.
package i18n

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/widgetd/internal/assets"
)

// Locale is one of the supported display-language codes.
type Locale string

// Supported locales.
const (
	EN Locale = "en"
	KO Locale = "ko"
	JA Locale = "ja"
	ZH Locale = "zh"
	ES Locale = "es"
	FR Locale = "fr"
	DE Locale = "de"
)

// Default is the fallback locale.
const Default = EN

var locales = []Locale{EN, KO, JA, ZH, ES, FR, DE}

var names = map[Locale]string{
	EN: "English",
	KO: "한국어",
	JA: "日本語",
	ZH: "中文",
	ES: "Español",
	FR: "Français",
	DE: "Deutsch",
}

// Locales returns the supported locales in display order.
func Locales() []Locale {
	out := make([]Locale, len(locales))
	copy(out, locales)
	return out
}

// Supported reports whether code is an exact supported locale code.
func Supported(code string) bool {
	_, ok := names[Locale(code)]
	return ok
}

// Name returns the native display name of the locale.
func (l Locale) Name() string {
	if n, ok := names[l]; ok {
		return n
	}
	return string(l)
}

// String implements fmt.Stringer.
func (l Locale) String() string {
	return string(l)
}

// ResolveLocale picks the display locale. urlLang wins when it is an exact
// supported code. Otherwise browserLanguage, either a single navigator
// language ("de-DE") or a full Accept-Language header, is searched in
// preference order for an entry whose base language is supported. The
// default locale is returned when nothing matches.
func ResolveLocale(urlLang, browserLanguage string) Locale {
	if Supported(urlLang) {
		return Locale(urlLang)
	}

	if l, ok := FromBrowser(browserLanguage); ok {
		return l
	}

	return Default
}

// FromBrowser returns the first supported base language of a navigator
// language or Accept-Language header, in preference order.
func FromBrowser(header string) (Locale, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		tags = parseLenient(header)
	}

	for _, tag := range tags {
		base, conf := tag.Base()
		if conf == language.No {
			continue
		}
		if Supported(base.String()) {
			return Locale(base.String()), true
		}
	}
	return "", false
}

// parseLenient parses an Accept-Language header entry by entry, dropping the
// entries x/text rejects instead of failing the whole header.
func parseLenient(header string) []language.Tag {
	type weighted struct {
		tag language.Tag
		q   float32
	}
	var entries []weighted
	for _, entry := range strings.Split(header, ",") {
		tags, qs, err := language.ParseAcceptLanguage(strings.TrimSpace(entry))
		if err != nil {
			continue
		}
		for i := range tags {
			entries = append(entries, weighted{tags[i], qs[i]})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].q > entries[j].q })

	tags := make([]language.Tag, len(entries))
	for i, e := range entries {
		tags[i] = e.tag
	}
	return tags
}

// Catalog holds the translation tables for every supported locale.
type Catalog struct {
	tables map[Locale]map[string]string
}

// LoadCatalog decodes one YAML table per supported locale using read.
func LoadCatalog(read func(code string) ([]byte, error)) (*Catalog, error) {
	c := &Catalog{tables: make(map[Locale]map[string]string, len(locales))}
	for _, l := range locales {
		data, err := read(string(l))
		if err != nil {
			return nil, err
		}
		table := map[string]string{}
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("decoding catalog %q: %w", l, err)
		}
		c.tables[l] = table
	}
	if len(c.tables[Default]) == 0 {
		return nil, fmt.Errorf("catalog %q is empty", Default)
	}
	return c, nil
}

// T translates key for locale, falling back to English and then to the key.
func (c *Catalog) T(l Locale, key string) string {
	if s, ok := c.tables[l][key]; ok && s != "" {
		return s
	}
	if s, ok := c.tables[Default][key]; ok && s != "" {
		return s
	}
	return key
}

// Keys returns every key of the locale's table.
func (c *Catalog) Keys(l Locale) []string {
	keys := make([]string, 0, len(c.tables[l]))
	for k := range c.tables[l] {
		keys = append(keys, k)
	}
	return keys
}

// Translator binds a catalog to one locale, for templates.
type Translator struct {
	catalog *Catalog
	locale  Locale
}

// For returns a Translator for l.
func (c *Catalog) For(l Locale) Translator {
	return Translator{catalog: c, locale: l}
}

// T translates key.
func (t Translator) T(key string) string {
	return t.catalog.T(t.locale, key)
}

// Locale returns the bound locale.
func (t Translator) Locale() Locale {
	return t.locale
}

var builtin = sync.OnceValues(func() (*Catalog, error) {
	return LoadCatalog(assets.LocaleYAML)
})

// Builtin returns the catalog decoded from the embedded locale files.
func Builtin() (*Catalog, error) {
	return builtin()
}

// T translates key with the builtin catalog. Missing catalogs degrade to the key.
func T(l Locale, key string) string {
	c, err := builtin()
	if err != nil {
		return key
	}
	return c.T(l, key)
}
