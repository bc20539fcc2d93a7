package translate

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Auto asks the translation service to detect the source language.
const Auto = "auto"

// Language is a selectable language with its display name.
type Language struct {
	Code string
	Name string
}

// SourceLanguages are offered as OCR/translation sources.
var SourceLanguages = []Language{
	{Auto, "Auto"},
	{"en", "English"},
	{"ru", "Русский"},
	{"uk", "Українська"},
	{"ja", "日本語"},
	{"ko", "한국어"},
}

// TargetLanguages are offered as translation targets.
var TargetLanguages = []Language{
	{"ru", "Русский"},
	{"en", "English"},
	{"uk", "Українська"},
	{"ja", "日本語"},
	{"ko", "한국어"},
	{"de", "Deutsch"},
	{"fr", "Français"},
	{"es", "Español"},
}

// ParseLanguage normalizes a language code. "auto" and the empty string
// both yield Auto; anything else must be a valid BCP 47 tag and is
// returned in canonical form ("EN" -> "en", "zh-cn" -> "zh-CN").
func ParseLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, Auto) {
		return Auto, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return tag.String(), nil
}

// IsAuto reports whether code requests source-language detection.
func IsAuto(code string) bool {
	code = strings.TrimSpace(code)
	return code == "" || strings.EqualFold(code, Auto)
}

// LanguageName returns the display name for code, or code itself.
func LanguageName(code string) string {
	for _, list := range [][]Language{SourceLanguages, TargetLanguages} {
		for _, l := range list {
			if l.Code == code {
				return l.Name
			}
		}
	}
	return code
}

// Names returns the display names of langs in order.
func Names(langs []Language) []string {
	out := make([]string, len(langs))
	for i, l := range langs {
		out[i] = l.Name
	}
	return out
}

// CodeForName returns the code whose display name is name.
func CodeForName(langs []Language, name string) (string, bool) {
	for _, l := range langs {
		if l.Name == name {
			return l.Code, true
		}
	}
	return "", false
}
