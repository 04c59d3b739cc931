// eval_locale.go - Locale-aware formatting builtins for the Iqra evaluator
//
// Maps the runtime's locale string onto monday locales for written dates
// and onto x/text language tags for number formatting. The "ar" locale
// renders numbers with Arabic-Indic digits and Arabic grouping, closing
// the bilingual loop on the output side.
package evaluator

import (
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// getMondayLocale maps a locale string to a monday.Locale for date
// formatting. monday carries no Arabic locale, so "ar" (and anything
// unknown) falls back to English month and day names.
func getMondayLocale(locale string) monday.Locale {
	locale = strings.ToLower(strings.ReplaceAll(locale, "-", "_"))

	localeMap := map[string]monday.Locale{
		"en":    monday.LocaleEnUS,
		"en_us": monday.LocaleEnUS,
		"en_gb": monday.LocaleEnGB,
		"fr":    monday.LocaleFrFR,
		"fr_fr": monday.LocaleFrFR,
		"de":    monday.LocaleDeDE,
		"de_de": monday.LocaleDeDE,
		"es":    monday.LocaleEsES,
		"es_es": monday.LocaleEsES,
		"tr":    monday.LocaleTrTR,
		"tr_tr": monday.LocaleTrTR,
		"id":    monday.LocaleIdID,
		"id_id": monday.LocaleIdID,
	}

	if mondayLocale, ok := localeMap[locale]; ok {
		return mondayLocale
	}
	return monday.LocaleEnUS
}

// getLanguageTag maps the runtime locale onto an x/text language tag.
func getLanguageTag(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

// builtinFormatDate renders a YYYY-MM-DD date as a written date in the
// runtime locale, e.g. "Monday, 2 March 2026".
func builtinFormatDate(env *Environment, args []Object) Object {
	str, errObj := argStr("format_date", args[0])
	if errObj != nil {
		return errObj
	}
	t, err := time.Parse(isoDate, str.Value)
	if err != nil {
		return newError("FMT-0001", map[string]any{"Value": str.Value})
	}
	formatted := monday.Format(t, "Monday, 2 January 2006", getMondayLocale(env.Locale()))
	return &Str{Value: formatted}
}

// builtinFormatNumber renders a number with the grouping separators and
// digit script of the runtime locale.
func builtinFormatNumber(env *Environment, args []Object) Object {
	num, errObj := argNumber("format_number", args[0])
	if errObj != nil {
		return errObj
	}
	p := message.NewPrinter(getLanguageTag(env.Locale()))
	return &Str{Value: p.Sprint(number.Decimal(num.Value))}
}
