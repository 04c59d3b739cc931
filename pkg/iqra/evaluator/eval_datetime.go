// eval_datetime.go - Date builtins for the Iqra evaluator
package evaluator

import (
	"time"

	"github.com/araddon/dateparse"
)

// isoDate is the canonical date form the language exchanges: YYYY-MM-DD.
const isoDate = "2006-01-02"

// builtinToday returns today's date as YYYY-MM-DD, cached for the
// lifetime of the run so a script straddling midnight stays consistent.
func builtinToday(env *Environment, args []Object) Object {
	root := env.root()
	if root.todayCache == "" {
		root.todayCache = time.Now().Format(isoDate)
	}
	return &Str{Value: root.todayCache}
}

// builtinParseDate accepts dates in a wide range of written forms
// ("March 5, 2026", "05/03/2026", "2026-03-05T10:00:00Z") and normalizes
// them to YYYY-MM-DD.
func builtinParseDate(env *Environment, args []Object) Object {
	str, errObj := argStr("parse_date", args[0])
	if errObj != nil {
		return errObj
	}
	t, err := dateparse.ParseAny(str.Value)
	if err != nil {
		return newError("FMT-0001", map[string]any{"Value": str.Value})
	}
	return &Str{Value: t.Format(isoDate)}
}
