// Package i18n localizes autopo's own terminal messages.
//
// A tool that fills translation catalogs for a living should speak the
// user's language itself. Catalogs are embedded in the binary under
// locales/{lang}/LC_MESSAGES/autopo.po and loaded through gotext.
//
// Usage:
//
//	i18n.Init("") // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	fmt.Println(i18n.T("Done"))
//	fmt.Println(i18n.N("%d catalog", "%d catalogs", n))
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name for autopo's own catalog.
const domain = "autopo"

var locale *gotext.Locale

// Init loads the embedded catalog for lang, auto-detecting the language
// from the environment when lang is empty. Call once at startup.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	locale = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	locale.AddDomain(domain)
	locale.SetDomain(domain)
}

// T translates a string, falling back to the original when no translation
// exists (standard gettext passthrough).
func T(msgid string) string {
	if locale == nil {
		return msgid
	}
	return locale.Get(msgid)
}

// N translates with plural forms.
func N(singular, plural string, n int) string {
	if locale == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return locale.GetN(singular, plural, n)
}

// detectLanguage reads the locale environment variables in GNU gettext
// priority order: LANGUAGE > LC_ALL > LC_MESSAGES > LANG.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE can be a colon-separated list; take the first
		if env == "LANGUAGE" {
			val = strings.SplitN(val, ":", 2)[0]
		}
		// Strip encoding suffix (e.g. "ru_RU.UTF-8" -> "ru_RU")
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
