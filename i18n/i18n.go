// Package i18n localizes ddock's own terminal messages.
//
// Catalogs are gettext .po files embedded from locales/{lang}/LC_MESSAGES/
// and read with gotext. Strings without a translation pass through
// unchanged, so English needs no catalog.
package i18n

import (
	"embed"
	"io/fs"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

//go:embed all:locales
var catalogs embed.FS

const domain = "ddock"

var (
	po     *gotext.Locale
	active = "en"
)

// Init selects the catalog closest to lang. An empty lang is read from the
// environment the way gettext does (LANGUAGE, LC_ALL, LC_MESSAGES, LANG).
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	active = match(lang)
	if active == "en" {
		po = nil
		return
	}
	po = gotext.NewLocaleFSWithPath(active, catalogs, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// Language returns the catalog in use.
func Language() string { return active }

// Available lists the embedded catalogs plus English.
func Available() []string {
	out := []string{"en"}
	entries, err := fs.ReadDir(catalogs, "locales")
	if err != nil {
		return out
	}
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out
}

// match maps a POSIX or BCP 47 locale name to one of the embedded catalogs.
func match(lang string) string {
	avail := Available()
	tags := make([]language.Tag, len(avail))
	for i, a := range avail {
		tags[i] = language.Make(a)
	}
	want, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return "en"
	}
	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		return "en"
	}
	return avail[idx]
}

// T translates msgid.
func T(msgid string, vars ...any) string {
	if po == nil {
		if len(vars) == 0 {
			return msgid
		}
		return gotext.Printf(msgid, vars...)
	}
	return po.Get(msgid, vars...)
}

// N translates a message with plural forms.
func N(singular, plural string, n int, vars ...any) string {
	if po == nil {
		s := plural
		if n == 1 {
			s = singular
		}
		if len(vars) == 0 {
			return s
		}
		return gotext.Printf(s, vars...)
	}
	return po.GetN(singular, plural, n, vars...)
}

func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE is a colon-separated preference list.
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// ko_KR.UTF-8 -> ko_KR
		if i := strings.IndexByte(val, '.'); i >= 0 {
			val = val[:i]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
