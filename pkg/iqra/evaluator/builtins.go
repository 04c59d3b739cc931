package evaluator

import (
	"os"
	"runtime"
	"strings"
)

// BuiltinDef is one entry of the builtin registry. Names carries every
// accepted spelling, English first; Arity is the exact argument count, or
// -1 for variadic. The arity contract is checked by the call machinery
// before Fn runs, so no builtin observes a wrong-sized argument list.
type BuiltinDef struct {
	Name  string // canonical English name
	Names []string
	Arity int
	Fn    func(env *Environment, args []Object) Object
}

var builtinRegistry []*BuiltinDef
var builtinsByName map[string]*BuiltinDef

func init() {
	builtinRegistry = []*BuiltinDef{
		// Output
		{Name: "print", Names: []string{"print", "اطبع"}, Arity: -1, Fn: builtinPrint},

		// Lists
		{Name: "list", Names: []string{"list", "قائمة"}, Arity: -1, Fn: builtinList},
		{Name: "list_len", Names: []string{"list_len", "طول_القائمة"}, Arity: 1, Fn: builtinListLen},
		{Name: "get", Names: []string{"get", "عنصر"}, Arity: 2, Fn: builtinGet},
		{Name: "append", Names: []string{"append", "أضف"}, Arity: 2, Fn: builtinAppend},
		{Name: "remove", Names: []string{"remove", "احذف"}, Arity: 2, Fn: builtinRemove},
		{Name: "contains", Names: []string{"contains", "يحتوي"}, Arity: 2, Fn: builtinContains},

		// Maps
		{Name: "map", Names: []string{"map", "قاموس"}, Arity: -1, Fn: builtinMap},
		{Name: "map_get", Names: []string{"map_get", "جلب_عنصر", "قاموس_قيمة"}, Arity: 2, Fn: builtinMapGet},
		{Name: "map_set", Names: []string{"map_set", "تعيين_عنصر"}, Arity: 3, Fn: builtinMapSet},
		{Name: "map_remove", Names: []string{"map_remove", "حذف_عنصر"}, Arity: 2, Fn: builtinMapRemove},
		{Name: "keys", Names: []string{"keys", "مفاتيح"}, Arity: 1, Fn: builtinKeys},

		// Types and conversion
		{Name: "type", Names: []string{"type", "نوع"}, Arity: 1, Fn: builtinType},
		{Name: "to_number", Names: []string{"to_number", "إلى_رقم"}, Arity: 1, Fn: builtinToNumber},
		{Name: "to_string", Names: []string{"to_string", "إلى_نص"}, Arity: 1, Fn: builtinToString},
		{Name: "is_number", Names: []string{"is_number", "رقم؟"}, Arity: 1, Fn: builtinIsNumber},
		{Name: "is_string", Names: []string{"is_string", "نص؟"}, Arity: 1, Fn: builtinIsString},

		// Strings and aggregates
		{Name: "len", Names: []string{"len", "طول"}, Arity: 1, Fn: builtinLen},
		{Name: "sum", Names: []string{"sum", "جمع"}, Arity: 1, Fn: builtinSum},
		{Name: "average", Names: []string{"average", "متوسط"}, Arity: 1, Fn: builtinAverage},
		{Name: "max", Names: []string{"max", "أكبر"}, Arity: 1, Fn: builtinMax},
		{Name: "min", Names: []string{"min", "أصغر"}, Arity: 1, Fn: builtinMin},
		{Name: "word_count", Names: []string{"word_count", "عدد_الكلمات"}, Arity: 1, Fn: builtinWordCount},
		{Name: "reverse", Names: []string{"reverse", "عكس"}, Arity: 1, Fn: builtinReverse},

		// Dates and locale formatting
		{Name: "today", Names: []string{"today", "تاريخ_اليوم"}, Arity: 0, Fn: builtinToday},
		{Name: "parse_date", Names: []string{"parse_date", "حلل_تاريخ"}, Arity: 1, Fn: builtinParseDate},
		{Name: "format_date", Names: []string{"format_date", "نسق_تاريخ"}, Arity: 1, Fn: builtinFormatDate},
		{Name: "format_number", Names: []string{"format_number", "نسق_رقم"}, Arity: 1, Fn: builtinFormatNumber},

		// System boundary
		{Name: "system", Names: []string{"system", "نفذ_أمر"}, Arity: 1, Fn: builtinSystem},
		{Name: "system_with_io", Names: []string{"system_with_io", "نفذ_أمر_بمدخل"}, Arity: 2, Fn: builtinSystemWithIO},
		{Name: "read_file", Names: []string{"read_file", "اقرأ_ملف"}, Arity: 1, Fn: builtinReadFile},
		{Name: "write_file", Names: []string{"write_file", "اكتب_ملف"}, Arity: 2, Fn: builtinWriteFile},
		{Name: "list_files", Names: []string{"list_files", "قائمة_ملفات"}, Arity: 1, Fn: builtinListFiles},
		{Name: "env_var", Names: []string{"env_var", "متغير_بيئة"}, Arity: 1, Fn: builtinEnvVar},
		{Name: "system_info", Names: []string{"system_info", "معلومات_النظام"}, Arity: 0, Fn: builtinSystemInfo},
	}

	builtinsByName = map[string]*BuiltinDef{}
	for _, def := range builtinRegistry {
		for _, name := range def.Names {
			builtinsByName[name] = def
		}
	}
}

// LookupBuiltin returns the registry entry for any accepted spelling, or
// nil.
func LookupBuiltin(name string) *BuiltinDef {
	return builtinsByName[name]
}

// BuiltinNames returns every accepted builtin spelling, for suggestions
// and REPL completion.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinsByName))
	for name := range builtinsByName {
		names = append(names, name)
	}
	return names
}

// --- argument contract helpers ---

func typeError(function, expected, expectedAr string, got Object) *Error {
	return newError("TYPE-0001", map[string]any{
		"Function":   function,
		"Expected":   expected,
		"ExpectedAr": expectedAr,
		"Got":        strings.ToLower(string(got.Type())),
		"GotAr":      TypeNameAr(got),
	})
}

func argList(function string, arg Object) (*List, *Error) {
	list, ok := arg.(*List)
	if !ok {
		return nil, typeError(function, "a list", "قائمة", arg)
	}
	return list, nil
}

func argDict(function string, arg Object) (*Dict, *Error) {
	dict, ok := arg.(*Dict)
	if !ok {
		return nil, typeError(function, "a map", "قاموساً", arg)
	}
	return dict, nil
}

func argStr(function string, arg Object) (*Str, *Error) {
	str, ok := arg.(*Str)
	if !ok {
		return nil, typeError(function, "a string", "نصاً", arg)
	}
	return str, nil
}

func argNumber(function string, arg Object) (*Number, *Error) {
	num, ok := arg.(*Number)
	if !ok {
		return nil, typeError(function, "a number", "رقماً", arg)
	}
	return num, nil
}

// --- implementations ---

func builtinPrint(env *Environment, args []Object) Object {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, arg.Inspect())
	}
	env.Logger().Log(strings.Join(parts, " "))
	return NULL
}

func builtinList(env *Environment, args []Object) Object {
	elements := make([]Object, len(args))
	copy(elements, args)
	return &List{Elements: elements}
}

func builtinListLen(env *Environment, args []Object) Object {
	list, errObj := argList("list_len", args[0])
	if errObj != nil {
		return errObj
	}
	return &Number{Value: float64(len(list.Elements))}
}

func builtinGet(env *Environment, args []Object) Object {
	list, errObj := argList("get", args[0])
	if errObj != nil {
		return errObj
	}
	idx, errObj := argNumber("get", args[1])
	if errObj != nil {
		return errObj
	}
	i := int(idx.Value)
	if i < 0 || i >= len(list.Elements) {
		return newError("INDEX-0001", map[string]any{"Index": idx.Inspect()})
	}
	return list.Elements[i]
}

func builtinAppend(env *Environment, args []Object) Object {
	list, errObj := argList("append", args[0])
	if errObj != nil {
		return errObj
	}
	// In-place: every binding of this list sees the new element
	list.Elements = append(list.Elements, args[1])
	return list
}

func builtinRemove(env *Environment, args []Object) Object {
	list, errObj := argList("remove", args[0])
	if errObj != nil {
		return errObj
	}
	idx, errObj := argNumber("remove", args[1])
	if errObj != nil {
		return errObj
	}
	i := int(idx.Value)
	if i < 0 || i >= len(list.Elements) {
		return newError("INDEX-0001", map[string]any{"Index": idx.Inspect()})
	}
	list.Elements = append(list.Elements[:i], list.Elements[i+1:]...)
	return list
}

func builtinContains(env *Environment, args []Object) Object {
	list, errObj := argList("contains", args[0])
	if errObj != nil {
		return errObj
	}
	for _, element := range list.Elements {
		if objectsEqual(element, args[1]) {
			return TRUE
		}
	}
	return FALSE
}

func builtinMap(env *Environment, args []Object) Object {
	if len(args)%2 != 0 {
		return newError("ARITY-0002", map[string]any{"Function": "map"})
	}
	dict := NewDict()
	for i := 0; i < len(args); i += 2 {
		key, errObj := argStr("map", args[i])
		if errObj != nil {
			return newError("TYPE-0004", nil)
		}
		dict.Set(key.Value, args[i+1])
	}
	return dict
}

func builtinMapGet(env *Environment, args []Object) Object {
	dict, errObj := argDict("map_get", args[0])
	if errObj != nil {
		return errObj
	}
	key, errObj := argStr("map_get", args[1])
	if errObj != nil {
		return errObj
	}
	// Lenient lookup: a missing key is فارغ, unlike m[key] which raises
	if value, ok := dict.Get(key.Value); ok {
		return value
	}
	return NULL
}

func builtinMapSet(env *Environment, args []Object) Object {
	dict, errObj := argDict("map_set", args[0])
	if errObj != nil {
		return errObj
	}
	key, errObj := argStr("map_set", args[1])
	if errObj != nil {
		return errObj
	}
	dict.Set(key.Value, args[2])
	return dict
}

func builtinMapRemove(env *Environment, args []Object) Object {
	dict, errObj := argDict("map_remove", args[0])
	if errObj != nil {
		return errObj
	}
	key, errObj := argStr("map_remove", args[1])
	if errObj != nil {
		return errObj
	}
	dict.Delete(key.Value)
	return dict
}

func builtinKeys(env *Environment, args []Object) Object {
	dict, errObj := argDict("keys", args[0])
	if errObj != nil {
		return errObj
	}
	elements := make([]Object, 0, dict.Len())
	for _, key := range dict.Keys() {
		elements = append(elements, &Str{Value: key})
	}
	return &List{Elements: elements}
}

func builtinType(env *Environment, args []Object) Object {
	return &Str{Value: TypeNameAr(args[0])}
}

func builtinToNumber(env *Environment, args []Object) Object {
	value, errObj := toNumber(args[0])
	if errObj != nil {
		return errObj
	}
	return &Number{Value: value}
}

func builtinToString(env *Environment, args []Object) Object {
	return &Str{Value: args[0].Inspect()}
}

func builtinIsNumber(env *Environment, args []Object) Object {
	return nativeBoolToBooleanObject(args[0].Type() == NUMBER_OBJ)
}

func builtinIsString(env *Environment, args []Object) Object {
	return nativeBoolToBooleanObject(args[0].Type() == STRING_OBJ)
}

func builtinLen(env *Environment, args []Object) Object {
	switch arg := args[0].(type) {
	case *Str:
		return &Number{Value: float64(len([]rune(arg.Value)))}
	case *List:
		return &Number{Value: float64(len(arg.Elements))}
	case *Dict:
		return &Number{Value: float64(arg.Len())}
	default:
		return typeError("len", "a string, list, or map", "نصاً أو قائمة أو قاموساً", args[0])
	}
}

// sumElements coerces every element of a list and adds them up.
func sumElements(list *List) (float64, *Error) {
	var total float64
	for _, element := range list.Elements {
		value, errObj := toNumber(element)
		if errObj != nil {
			return 0, errObj
		}
		total += value
	}
	return total, nil
}

func builtinSum(env *Environment, args []Object) Object {
	list, errObj := argList("sum", args[0])
	if errObj != nil {
		return errObj
	}
	total, errObj := sumElements(list)
	if errObj != nil {
		return errObj
	}
	return &Number{Value: total}
}

func builtinAverage(env *Environment, args []Object) Object {
	list, errObj := argList("average", args[0])
	if errObj != nil {
		return errObj
	}
	if len(list.Elements) == 0 {
		return newError("OP-0002", nil)
	}
	total, errObj := sumElements(list)
	if errObj != nil {
		return errObj
	}
	return &Number{Value: total / float64(len(list.Elements))}
}

func builtinMax(env *Environment, args []Object) Object {
	return extremum("max", args[0], func(candidate, best float64) bool { return candidate > best })
}

func builtinMin(env *Environment, args []Object) Object {
	return extremum("min", args[0], func(candidate, best float64) bool { return candidate < best })
}

func extremum(function string, arg Object, better func(candidate, best float64) bool) Object {
	list, errObj := argList(function, arg)
	if errObj != nil {
		return errObj
	}
	if len(list.Elements) == 0 {
		return NULL
	}
	best, errObj := toNumber(list.Elements[0])
	if errObj != nil {
		return errObj
	}
	for _, element := range list.Elements[1:] {
		value, errObj := toNumber(element)
		if errObj != nil {
			return errObj
		}
		if better(value, best) {
			best = value
		}
	}
	return &Number{Value: best}
}

func builtinWordCount(env *Environment, args []Object) Object {
	str, errObj := argStr("word_count", args[0])
	if errObj != nil {
		return errObj
	}
	return &Number{Value: float64(len(strings.Fields(str.Value)))}
}

func builtinReverse(env *Environment, args []Object) Object {
	switch arg := args[0].(type) {
	case *Str:
		runes := []rune(arg.Value)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return &Str{Value: string(runes)}
	case *List:
		// Reversal returns a fresh list; the original is untouched
		elements := make([]Object, len(arg.Elements))
		for i, element := range arg.Elements {
			elements[len(elements)-1-i] = element
		}
		return &List{Elements: elements}
	default:
		return typeError("reverse", "a string or list", "نصاً أو قائمة", args[0])
	}
}

func builtinReadFile(env *Environment, args []Object) Object {
	path, errObj := argStr("read_file", args[0])
	if errObj != nil {
		return errObj
	}
	data, err := os.ReadFile(path.Value)
	if err != nil {
		return newError("IO-0001", map[string]any{"GoError": err.Error()})
	}
	return &Str{Value: string(data)}
}

func builtinWriteFile(env *Environment, args []Object) Object {
	path, errObj := argStr("write_file", args[0])
	if errObj != nil {
		return errObj
	}
	content, errObj := argStr("write_file", args[1])
	if errObj != nil {
		return errObj
	}
	if err := os.WriteFile(path.Value, []byte(content.Value), 0o644); err != nil {
		return newError("IO-0002", map[string]any{"GoError": err.Error()})
	}
	return NULL
}

func builtinListFiles(env *Environment, args []Object) Object {
	path, errObj := argStr("list_files", args[0])
	if errObj != nil {
		return errObj
	}
	entries, err := os.ReadDir(path.Value)
	if err != nil {
		return newError("IO-0003", map[string]any{"GoError": err.Error()})
	}
	elements := make([]Object, 0, len(entries))
	for _, entry := range entries {
		elements = append(elements, &Str{Value: entry.Name()})
	}
	return &List{Elements: elements}
}

func builtinEnvVar(env *Environment, args []Object) Object {
	name, errObj := argStr("env_var", args[0])
	if errObj != nil {
		return errObj
	}
	value, ok := os.LookupEnv(name.Value)
	if !ok {
		return NULL
	}
	return &Str{Value: value}
}

func builtinSystemInfo(env *Environment, args []Object) Object {
	root := env.root()
	if root.sysInfoCache != nil {
		return root.sysInfoCache
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = ""
	}
	info := NewDict()
	info.Set("os", &Str{Value: runtime.GOOS})
	info.Set("arch", &Str{Value: runtime.GOARCH})
	info.Set("cpus", &Number{Value: float64(runtime.NumCPU())})
	info.Set("hostname", &Str{Value: hostname})

	root.sysInfoCache = info
	return info
}

func builtinSystem(env *Environment, args []Object) Object {
	command, errObj := argStr("system", args[0])
	if errObj != nil {
		return errObj
	}
	exec := env.Exec()
	if exec == nil {
		return newError("SYS-0004", nil)
	}
	output, err := exec.Execute(command.Value)
	if err != nil {
		return systemError(command.Value, err)
	}
	return &Str{Value: strings.TrimSpace(output)}
}

func builtinSystemWithIO(env *Environment, args []Object) Object {
	command, errObj := argStr("system_with_io", args[0])
	if errObj != nil {
		return errObj
	}
	input, errObj := argStr("system_with_io", args[1])
	if errObj != nil {
		return errObj
	}
	exec := env.Exec()
	if exec == nil {
		return newError("SYS-0004", nil)
	}
	output, err := exec.ExecuteWithInput(command.Value, input.Value)
	if err != nil {
		return systemError(command.Value, err)
	}
	return &Str{Value: strings.TrimSpace(output)}
}
