// Package i18n holds the bot message catalog for the supported languages.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const DefaultLanguage = "en"

var tags = map[string]language.Tag{
	"en": language.English,
	"ru": language.Russian,
	"zh": language.Chinese,
}

// Languages lists the supported codes in the order the language picker shows them.
var Languages = []string{"en", "ru", "zh"}

var cat = mustBuildCatalog()

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, byLang := range messages {
		en, ok := byLang["en"]
		if !ok {
			panic(fmt.Sprintf("i18n: message %q has no English text", key))
		}
		for code, tag := range tags {
			text, ok := byLang[code]
			if !ok {
				text = en
			}
			if err := b.SetString(tag, key, text); err != nil {
				panic(fmt.Sprintf("i18n: message %q: %v", key, err))
			}
		}
	}
	return b
}

// Normalize maps a client language code such as "ru-RU" to a supported code.
// "ch" is accepted for Chinese because older language buttons sent it.
func Normalize(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	switch code {
	case "":
		return "", false
	case "ch":
		return "zh", true
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	if _, ok := tags[base.String()]; ok {
		return base.String(), true
	}
	return "", false
}

// Printer renders catalog messages in one language.
type Printer struct {
	lang string
	p    *message.Printer
}

// For returns a Printer for lang, falling back to English for unsupported codes.
func For(lang string) *Printer {
	code, ok := Normalize(lang)
	if !ok {
		code = DefaultLanguage
	}
	return &Printer{lang: code, p: message.NewPrinter(tags[code], message.Catalog(cat))}
}

func (p *Printer) Lang() string {
	return p.lang
}

// T formats the message stored under key with args.
func (p *Printer) T(key string, args ...interface{}) string {
	return p.p.Sprintf(key, args...)
}
