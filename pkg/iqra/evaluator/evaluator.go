// Package evaluator walks the AST and produces values.
//
// Control flow is threaded through the return value of Eval: a
// *ReturnValue carries a pending return up to the enclosing function
// call, and an *Error carries a raised error up to the nearest try/catch
// or the top-level caller. Every other result is a plain value. There is
// no other signalling channel, so evaluation order and propagation are
// auditable in one place.
package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/iqra-lang/iqra/pkg/iqra/ast"
	"github.com/iqra-lang/iqra/pkg/iqra/errors"
	"github.com/iqra-lang/iqra/pkg/iqra/lexer"
)

// Eval evaluates an AST node in the given environment
func Eval(node ast.Node, env *Environment) Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return evalProgram(node, env)
	case *ast.ExpressionStatement:
		return Eval(node.Expression, env)
	case *ast.AssignStatement:
		return evalAssignStatement(node, env)
	case *ast.BlockStatement:
		// Blocks share the enclosing scope; only calls and catch
		// clauses open new ones.
		return evalBlockStatement(node, env)
	case *ast.IfStatement:
		return evalIfStatement(node, env)
	case *ast.WhileStatement:
		return evalWhileStatement(node, env)
	case *ast.FunctionStatement:
		fn := &Function{Name: node.Name.Value, Params: node.Params, Body: node.Body, Env: env}
		env.Set(node.Name.Value, fn)
		return NULL
	case *ast.ReturnStatement:
		return evalReturnStatement(node, env)
	case *ast.TryCatchStatement:
		return evalTryCatchStatement(node, env)

	// Expressions
	case *ast.NumberLiteral:
		return &Number{Value: node.Value}
	case *ast.StringLiteral:
		return &Str{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.NilLiteral:
		return NULL
	case *ast.Identifier:
		return evalIdentifier(node, env)
	case *ast.ListLiteral:
		elements := evalExpressions(node.Elements, env)
		if len(elements) == 1 && isError(elements[0]) {
			return elements[0]
		}
		return &List{Elements: elements}
	case *ast.MapLiteral:
		return evalMapLiteral(node, env)
	case *ast.PrefixExpression:
		right := Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalPrefixExpression(node, right)
	case *ast.InfixExpression:
		return evalInfixExpression(node, env)
	case *ast.CallExpression:
		return evalCallExpression(node, env)
	case *ast.IndexExpression:
		return evalIndexExpression(node, env)
	}

	return NULL
}

func evalProgram(program *ast.Program, env *Environment) Object {
	var result Object = NULL

	for _, statement := range program.Statements {
		result = Eval(statement, env)

		switch result := result.(type) {
		case *ReturnValue:
			// A top-level return yields the program result
			return result.Value
		case *Error:
			return result
		}
	}

	return result
}

func evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	var result Object = NULL

	for _, statement := range block.Statements {
		result = Eval(statement, env)

		if result != nil {
			rt := result.Type()
			// Leave ReturnValue and Error wrapped so they keep
			// unwinding through enclosing blocks
			if rt == RETURN_OBJ || rt == ERROR_OBJ {
				return result
			}
		}
	}

	return result
}

func evalAssignStatement(node *ast.AssignStatement, env *Environment) Object {
	val := Eval(node.Value, env)
	if isError(val) {
		return val
	}
	env.Update(node.Name.Value, val)
	return NULL
}

func evalIfStatement(node *ast.IfStatement, env *Environment) Object {
	condition := Eval(node.Condition, env)
	if isError(condition) {
		return condition
	}

	if isTruthy(condition) {
		return Eval(node.Consequence, env)
	}
	if node.Alternative != nil {
		return Eval(node.Alternative, env)
	}
	return NULL
}

func evalWhileStatement(node *ast.WhileStatement, env *Environment) Object {
	for {
		condition := Eval(node.Condition, env)
		if isError(condition) {
			return condition
		}
		if !isTruthy(condition) {
			return NULL
		}

		result := Eval(node.Body, env)
		if result != nil {
			rt := result.Type()
			if rt == RETURN_OBJ || rt == ERROR_OBJ {
				return result
			}
		}
	}
}

func evalReturnStatement(node *ast.ReturnStatement, env *Environment) Object {
	if node.ReturnValue == nil {
		return &ReturnValue{Value: NULL}
	}
	val := Eval(node.ReturnValue, env)
	if isError(val) {
		return val
	}
	return &ReturnValue{Value: val}
}

func evalTryCatchStatement(node *ast.TryCatchStatement, env *Environment) Object {
	result := Eval(node.Try, env)

	if errObj, ok := result.(*Error); ok {
		// The catch clause runs in a child scope; the error binds as
		// its bilingual display text. Bindings made inside the failed
		// try body are not rolled back.
		catchEnv := NewEnclosedEnvironment(env)
		catchEnv.Set(node.ErrName.Value, &Str{Value: errObj.Err.String()})
		return Eval(node.Catch, catchEnv)
	}

	return result
}

func evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	if def := LookupBuiltin(node.Value); def != nil {
		return &Builtin{Def: def}
	}

	candidates := append(env.Names(), BuiltinNames()...)
	return &Error{Err: errors.NewUndefinedVariable(node.Value, candidates).
		WithPosition(node.Token.Line, node.Token.Column)}
}

func evalExpressions(exps []ast.Expression, env *Environment) []Object {
	var result []Object

	for _, e := range exps {
		evaluated := Eval(e, env)
		if isError(evaluated) {
			return []Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

func evalMapLiteral(node *ast.MapLiteral, env *Environment) Object {
	dict := NewDict()

	for i, keyExpr := range node.Keys {
		key := Eval(keyExpr, env)
		if isError(key) {
			return key
		}
		keyStr, ok := key.(*Str)
		if !ok {
			return &Error{Err: errors.NewWithPosition("TYPE-0004",
				node.Token.Line, node.Token.Column, nil)}
		}

		value := Eval(node.Values[i], env)
		if isError(value) {
			return value
		}
		dict.Set(keyStr.Value, value)
	}

	return dict
}

func evalPrefixExpression(node *ast.PrefixExpression, right Object) Object {
	switch node.Operator {
	case "not":
		return nativeBoolToBooleanObject(!isTruthy(right))
	case "-":
		value, err := toNumber(right)
		if err != nil {
			return err
		}
		return &Number{Value: -value}
	default:
		return newError("OP-0001", map[string]any{"Operator": node.Operator})
	}
}

func evalInfixExpression(node *ast.InfixExpression, env *Environment) Object {
	left := Eval(node.Left, env)
	if isError(left) {
		return left
	}
	// and/or evaluate both operands; there is no short-circuiting
	right := Eval(node.Right, env)
	if isError(right) {
		return right
	}

	result := applyInfix(node.Operator, left, right)
	if errObj, ok := result.(*Error); ok && errObj.Err.Line == 0 {
		errObj.Err = errObj.Err.WithPosition(node.Token.Line, node.Token.Column)
	}
	return result
}

func applyInfix(operator string, left, right Object) Object {
	switch operator {
	case "and":
		return nativeBoolToBooleanObject(isTruthy(left) && isTruthy(right))
	case "or":
		return nativeBoolToBooleanObject(isTruthy(left) || isTruthy(right))
	case "==":
		return nativeBoolToBooleanObject(objectsEqual(left, right))
	case "!=":
		return nativeBoolToBooleanObject(!objectsEqual(left, right))
	}

	// + concatenates when both sides are strings
	if operator == "+" && left.Type() == STRING_OBJ && right.Type() == STRING_OBJ {
		return &Str{Value: left.(*Str).Value + right.(*Str).Value}
	}

	// < and > order strings lexicographically
	if left.Type() == STRING_OBJ && right.Type() == STRING_OBJ {
		l, r := left.(*Str).Value, right.(*Str).Value
		switch operator {
		case "<":
			return nativeBoolToBooleanObject(l < r)
		case "<=":
			return nativeBoolToBooleanObject(l <= r)
		case ">":
			return nativeBoolToBooleanObject(l > r)
		case ">=":
			return nativeBoolToBooleanObject(l >= r)
		}
	}

	// Everything else is numeric, with to-number coercion on both sides.
	// Containers and functions never coerce.
	if !coercible(left) || !coercible(right) {
		return newError("TYPE-0002", map[string]any{"Operator": operator})
	}
	l, errObj := toNumber(left)
	if errObj != nil {
		return errObj
	}
	r, errObj := toNumber(right)
	if errObj != nil {
		return errObj
	}

	switch operator {
	case "+":
		return &Number{Value: l + r}
	case "-":
		return &Number{Value: l - r}
	case "*":
		return &Number{Value: l * r}
	case "/":
		if r == 0 {
			return newError("OP-0002", nil)
		}
		return &Number{Value: l / r}
	case "%":
		if r == 0 {
			return newError("OP-0003", nil)
		}
		return &Number{Value: math.Mod(l, r)}
	case "<":
		return nativeBoolToBooleanObject(l < r)
	case "<=":
		return nativeBoolToBooleanObject(l <= r)
	case ">":
		return nativeBoolToBooleanObject(l > r)
	case ">=":
		return nativeBoolToBooleanObject(l >= r)
	default:
		return newError("OP-0001", map[string]any{"Operator": operator})
	}
}

// objectsEqual implements ==. Scalars compare by value; lists and maps
// compare by identity, matching their shared-by-reference semantics.
func objectsEqual(left, right Object) bool {
	switch l := left.(type) {
	case *Number:
		r, ok := right.(*Number)
		return ok && l.Value == r.Value
	case *Str:
		r, ok := right.(*Str)
		return ok && l.Value == r.Value
	case *Boolean:
		r, ok := right.(*Boolean)
		return ok && l.Value == r.Value
	case *Null:
		_, ok := right.(*Null)
		return ok
	default:
		return left == right
	}
}

func evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	callee := evalCallee(node, env)
	if isError(callee) {
		return callee
	}

	args := evalExpressions(node.Arguments, env)
	if len(args) == 1 && isError(args[0]) {
		return args[0]
	}

	result := applyFunction(callee, args, env)
	if errObj, ok := result.(*Error); ok && errObj.Err.Line == 0 {
		errObj.Err = errObj.Err.WithPosition(node.Token.Line, node.Token.Column)
	}
	return result
}

// evalCallee resolves the called expression, preferring the bilingual
// builtin registry for bare names not bound in scope. An unbound bare
// name becomes an undefined-function error with builtin suggestions.
func evalCallee(node *ast.CallExpression, env *Environment) Object {
	ident, ok := node.Function.(*ast.Identifier)
	if !ok {
		return Eval(node.Function, env)
	}

	if val, found := env.Get(ident.Value); found {
		return val
	}
	if def := LookupBuiltin(ident.Value); def != nil {
		return &Builtin{Def: def}
	}

	candidates := append(env.Names(), BuiltinNames()...)
	return &Error{Err: errors.NewUndefinedFunction(ident.Value, candidates).
		WithPosition(ident.Token.Line, ident.Token.Column)}
}

func applyFunction(fn Object, args []Object, env *Environment) Object {
	switch fn := fn.(type) {
	case *Function:
		// Arity first, before the body can observe anything
		if len(args) != len(fn.Params) {
			return newError("ARITY-0001", map[string]any{
				"Function": fn.Name, "Want": len(fn.Params), "Got": len(args)})
		}
		callEnv := NewEnclosedEnvironment(fn.Env)
		for i, param := range fn.Params {
			callEnv.Set(param.Value, args[i])
		}
		result := Eval(fn.Body, callEnv)
		return unwrapReturnValue(result)

	case *Builtin:
		if fn.Def.Arity >= 0 && len(args) != fn.Def.Arity {
			return newError("ARITY-0001", map[string]any{
				"Function": fn.Def.Name, "Want": fn.Def.Arity, "Got": len(args)})
		}
		return fn.Def.Fn(env, args)

	default:
		return newError("TYPE-0003", map[string]any{
			"Got": string(fn.Type()), "GotAr": TypeNameAr(fn)})
	}
}

func unwrapReturnValue(obj Object) Object {
	if returnValue, ok := obj.(*ReturnValue); ok {
		return returnValue.Value
	}
	return obj
}

func evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	left := Eval(node.Left, env)
	if isError(left) {
		return left
	}
	index := Eval(node.Index, env)
	if isError(index) {
		return index
	}

	result := applyIndex(left, index)
	if errObj, ok := result.(*Error); ok && errObj.Err.Line == 0 {
		errObj.Err = errObj.Err.WithPosition(node.Token.Line, node.Token.Column)
	}
	return result
}

func applyIndex(left, index Object) Object {
	switch left := left.(type) {
	case *List:
		idx, ok := index.(*Number)
		if !ok {
			return newError("INDEX-0003", nil)
		}
		i := int(idx.Value)
		if i < 0 || i >= len(left.Elements) {
			return newError("INDEX-0001", map[string]any{"Index": idx.Inspect()})
		}
		return left.Elements[i]

	case *Dict:
		key, ok := index.(*Str)
		if !ok {
			return newError("INDEX-0003", nil)
		}
		value, found := left.Get(key.Value)
		if !found {
			return newError("INDEX-0002", map[string]any{"Key": key.Value})
		}
		return value

	case *Str:
		idx, ok := index.(*Number)
		if !ok {
			return newError("INDEX-0003", nil)
		}
		runes := []rune(left.Value)
		i := int(idx.Value)
		if i < 0 || i >= len(runes) {
			return newError("INDEX-0001", map[string]any{"Index": idx.Inspect()})
		}
		return &Str{Value: string(runes[i])}

	default:
		return newError("INDEX-0003", nil)
	}
}

// isTruthy: false, nil, 0, the empty string, the empty list, and the
// empty map are falsy; everything else is truthy.
func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Boolean:
		return obj.Value
	case *Null:
		return false
	case *Number:
		return obj.Value != 0
	case *Str:
		return obj.Value != ""
	case *List:
		return len(obj.Elements) > 0
	case *Dict:
		return obj.Len() > 0
	default:
		return true
	}
}

// toNumber is the single coercion rule shared by arithmetic and the
// to_number builtin. Strings accept either digit script.
func toNumber(obj Object) (float64, *Error) {
	switch obj := obj.(type) {
	case *Number:
		return obj.Value, nil
	case *Boolean:
		if obj.Value {
			return 1, nil
		}
		return 0, nil
	case *Str:
		normalized := strings.TrimSpace(lexer.NormalizeDigits(obj.Value))
		value, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return 0, newError("CONV-0001", map[string]any{"Value": obj.Value})
		}
		return value, nil
	default:
		return 0, newError("CONV-0001", map[string]any{"Value": obj.Inspect()})
	}
}

func coercible(obj Object) bool {
	switch obj.Type() {
	case NUMBER_OBJ, STRING_OBJ, BOOLEAN_OBJ:
		return true
	default:
		return false
	}
}
