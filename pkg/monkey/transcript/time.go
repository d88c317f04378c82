package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// ParseSince interprets a --since argument. Durations such as "90m" or
// "36h" count back from now; anything else goes through dateparse in the
// local time zone.
func ParseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			d = -d
		}
		return now.Add(-d), nil
	}
	t, err := dateparse.ParseLocal(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since value %q: %w", s, err)
	}
	return t, nil
}

const timeLayout = "Mon 2 Jan 2006 15:04:05"

// supportedLocales lists the monday locales timestamps can use. The first
// entry is the fallback.
var supportedLocales = []monday.Locale{
	monday.LocaleEnUS,
	monday.LocaleEnGB,
	monday.LocaleDeDE,
	monday.LocaleFrFR,
	monday.LocaleFrCA,
	monday.LocaleEsES,
	monday.LocaleItIT,
	monday.LocalePtPT,
	monday.LocalePtBR,
	monday.LocaleNlNL,
	monday.LocaleRuRU,
	monday.LocalePlPL,
	monday.LocaleSvSE,
	monday.LocaleJaJP,
	monday.LocaleZhCN,
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(supportedLocales))
	for i, loc := range supportedLocales {
		tags[i] = language.Make(string(loc))
	}
	return language.NewMatcher(tags)
}()

// lookupLocale picks the closest supported locale for a BCP 47 or POSIX
// style name such as "fr-CA", "fr_FR" or "fr".
func lookupLocale(locale string) monday.Locale {
	tag := language.Make(strings.ReplaceAll(locale, "_", "-"))
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return supportedLocales[0]
	}
	return supportedLocales[idx]
}

// FormatTime renders t with localized day and month names.
func FormatTime(t time.Time, locale string) string {
	return monday.Format(t, timeLayout, lookupLocale(locale))
}
