// ----------------------------------------------------------------------------
// FILE: evaluator/evaluator.go
// ----------------------------------------------------------------------------
// PACKAGE: evaluator
// PURPOSE: The tree-walking interpreter. Eval recurses over the AST against
//          a Scope, enforcing declared types, import rules, watch
//          notifications, method dispatch, and the three control-flow
//          signals (return/break/continue) — modeled as distinct Value
//          kinds kept separate from genuine *object.Error failures so a
//          loop/function boundary never mistakes one for the other.
// ----------------------------------------------------------------------------

package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"lcore/ast"
	"lcore/object"
)

// IO bundles the output sink (program output + WATCH lines) and the input
// sink (one line per ask() call) that the core's entry point threads
// through every Eval call.
type IO struct {
	Out io.Writer
	In  *bufio.Reader

	// WatchTrace gates WATCH line emission. Defaults on via NewIO; the CLI's
	// --watch-trace flag can turn it off without touching Watch()'s own
	// bookkeeping, which still runs either way.
	WatchTrace bool
}

// NewIO wraps a writer/reader pair as the interpreter's sinks.
func NewIO(out io.Writer, in io.Reader) *IO {
	return &IO{Out: out, In: bufio.NewReader(in), WatchTrace: true}
}

func isError(v object.Value) bool {
	_, ok := v.(*object.Error)
	return ok
}

// Eval evaluates a single AST node against scope, threading io through any
// say/ask/wait calls and WATCH emissions reached along the way.
func Eval(node ast.Node, scope *object.Scope, io *IO) object.Value {
	switch n := node.(type) {
	case *ast.Program:
		return evalStatements(n.Statements, scope, io)
	case *ast.BlockStatement:
		return evalStatements(n.Statements, scope, io)
	case *ast.ExpressionStatement:
		return Eval(n.Expr, scope, io)

	case *ast.AssignStatement:
		return evalAssign(n, scope, io)
	case *ast.IfStatement:
		return evalIf(n, scope, io)
	case *ast.WhileStatement:
		return evalWhile(n, scope, io)
	case *ast.ForStatement:
		return evalFor(n, scope, io)
	case *ast.ForeachStatement:
		return evalForeach(n, scope, io)
	case *ast.FuncDefStatement:
		fn := n.Function
		scope.DefineFunction(fn.Name, &object.Function{
			Name: fn.Name, Params: fn.Params, ReturnType: fn.ReturnType,
			Body: fn.Body, InlineExpr: fn.InlineExpr, Inline: fn.Inline, Defn: scope,
		})
		return &object.Void{}
	case *ast.ReturnStatement:
		return evalReturn(n, scope, io)
	case *ast.BreakStatement:
		if !scope.InLoop() {
			return object.NewError("break outside loop")
		}
		return &object.BreakSignal{}
	case *ast.ContinueStatement:
		if !scope.InLoop() {
			return object.NewError("continue outside loop")
		}
		return &object.ContinueSignal{}
	case *ast.UseStatement:
		return evalUse(n, scope)
	case *ast.WatchStatement:
		return evalWatch(n, scope)

	case *ast.IntLiteral:
		return &object.Int{Value: n.Value}
	case *ast.FloatLiteral:
		return &object.Float{Value: n.Value}
	case *ast.BoolLiteral:
		return &object.Bool{Value: n.Value}
	case *ast.StrLiteral:
		return &object.Str{Value: resolveEscapes(n.Value)}
	case *ast.StringInterp:
		return evalStringInterp(n, scope, io)
	case *ast.Identifier:
		v, ok := scope.Lookup(n.Name)
		if !ok {
			return object.NewError("%s is undefined", n.Name)
		}
		return v
	case *ast.ListLiteral:
		return evalListLiteral(n, scope, io)
	case *ast.HashLiteral:
		return evalHashLiteral(n, scope, io)
	case *ast.BinaryExpr:
		return evalBinary(n, scope, io)
	case *ast.UnaryExpr:
		return evalUnary(n, scope, io)
	case *ast.IndexExpr:
		return evalIndex(n, scope, io)
	case *ast.MethodCall:
		return evalMethodCall(n, scope, io)
	case *ast.FunctionCall:
		return evalFunctionCall(n, scope, io)
	case *ast.FunctionLiteral:
		return &object.Function{
			Name: n.Name, Params: n.Params, ReturnType: n.ReturnType,
			Body: n.Body, InlineExpr: n.InlineExpr, Inline: n.Inline, Defn: scope,
		}
	default:
		return object.NewError("unsupported syntax node %T", node)
	}
}

// evalStatements runs a sequence of statements, short-circuiting on the
// first Error, ReturnSignal, BreakSignal, or ContinueSignal.
func evalStatements(stmts []ast.Statement, scope *object.Scope, io *IO) object.Value {
	var result object.Value = &object.Void{}
	for _, s := range stmts {
		result = Eval(s, scope, io)
		switch result.(type) {
		case *object.Error, *object.ReturnSignal, *object.BreakSignal, *object.ContinueSignal:
			return result
		}
	}
	return result
}

// ----------------------------------------------------------------------------
// assign / use / watch / return
// ----------------------------------------------------------------------------

func evalAssign(n *ast.AssignStatement, scope *object.Scope, io *IO) object.Value {
	value := Eval(n.Value, scope, io)
	if isError(value) {
		return value
	}

	var err error
	if n.DeclaredType != "" {
		err = scope.Define(n.Name, value, n.DeclaredType)
	} else {
		err = scope.Assign(n.Name, value)
	}
	if err != nil {
		return object.NewError("%s", err)
	}

	if io.WatchTrace && scope.IsWatched(n.Name) {
		fmt.Fprintf(io.Out, "WATCH: %s changed to %s (in %s)\n", n.Name, value.Inspect(), scope.FunctionName())
	}
	return &object.Void{}
}

func evalUse(n *ast.UseStatement, scope *object.Scope) object.Value {
	if !scope.InFunction() {
		return object.NewError("use statement outside a function")
	}
	for _, name := range n.Names {
		if err := scope.Import(name, n.Mutable); err != nil {
			return object.NewError("%s", err)
		}
	}
	return &object.Void{}
}

func evalWatch(n *ast.WatchStatement, scope *object.Scope) object.Value {
	for _, name := range n.Names {
		if err := scope.Watch(name); err != nil {
			return object.NewError("%s", err)
		}
	}
	return &object.Void{}
}

func evalReturn(n *ast.ReturnStatement, scope *object.Scope, io *IO) object.Value {
	if !scope.InFunction() {
		return object.NewError("return outside function")
	}
	var val object.Value = &object.Void{}
	if n.Value != nil {
		val = Eval(n.Value, scope, io)
		if isError(val) {
			return val
		}
	}
	return &object.ReturnSignal{Value: val}
}

// ----------------------------------------------------------------------------
// control flow
// ----------------------------------------------------------------------------

type loopOutcome int

const (
	loopContinue loopOutcome = iota
	loopBreak
	loopReturn
	loopError
)

func runLoopBody(body *ast.BlockStatement, scope *object.Scope, io *IO) (loopOutcome, object.Value) {
	result := Eval(body, scope, io)
	switch v := result.(type) {
	case *object.Error:
		return loopError, v
	case *object.BreakSignal:
		return loopBreak, nil
	case *object.ContinueSignal:
		return loopContinue, nil
	case *object.ReturnSignal:
		return loopReturn, v
	default:
		return loopContinue, nil
	}
}

func evalIf(n *ast.IfStatement, scope *object.Scope, io *IO) object.Value {
	cond := Eval(n.Condition, scope, io)
	if isError(cond) {
		return cond
	}
	if object.IsTruthy(cond) {
		return Eval(n.Body, scope.NewChildBlock(false), io)
	}
	if n.Else != nil {
		return Eval(n.Else, scope.NewChildBlock(false), io)
	}
	return &object.Void{}
}

func evalWhile(n *ast.WhileStatement, scope *object.Scope, io *IO) object.Value {
	for {
		cond := Eval(n.Condition, scope, io)
		if isError(cond) {
			return cond
		}
		if !object.IsTruthy(cond) {
			return &object.Void{}
		}
		outcome, val := runLoopBody(n.Body, scope.NewChildBlock(true), io)
		switch outcome {
		case loopError, loopReturn:
			return val
		case loopBreak:
			return &object.Void{}
		}
	}
}

func evalFor(n *ast.ForStatement, scope *object.Scope, io *IO) object.Value {
	startV := Eval(n.Start, scope, io)
	if isError(startV) {
		return startV
	}
	endV := Eval(n.End, scope, io)
	if isError(endV) {
		return endV
	}
	var stepV object.Value = &object.Int{Value: 1}
	if n.Step != nil {
		stepV = Eval(n.Step, scope, io)
		if isError(stepV) {
			return stepV
		}
	}

	start, ok := asInt(startV)
	if !ok {
		return object.NewError("for loop start must be numeric")
	}
	end, ok := asInt(endV)
	if !ok {
		return object.NewError("for loop end must be numeric")
	}
	step, ok := asInt(stepV)
	if !ok {
		return object.NewError("for loop step must be numeric")
	}
	if step == 0 {
		return object.NewError("for loop step cannot be zero")
	}

	cur := start
	for {
		if step > 0 {
			if n.Inclusive && cur > end {
				break
			}
			if !n.Inclusive && cur >= end {
				break
			}
		} else {
			if n.Inclusive && cur < end {
				break
			}
			if !n.Inclusive && cur <= end {
				break
			}
		}

		iterScope := scope.NewChildBlock(true)
		iterScope.Define(n.VarName, &object.Int{Value: cur}, "int")
		outcome, val := runLoopBody(n.Body, iterScope, io)
		switch outcome {
		case loopError, loopReturn:
			return val
		case loopBreak:
			return &object.Void{}
		}
		cur += step
	}
	return &object.Void{}
}

func evalForeach(n *ast.ForeachStatement, scope *object.Scope, io *IO) object.Value {
	iterable := Eval(n.Iterable, scope, io)
	if isError(iterable) {
		return iterable
	}

	var elements []object.Value
	switch it := iterable.(type) {
	case *object.List:
		elements = it.Elements
	case *object.Hash:
		elements = make([]object.Value, len(it.Keys))
		for i, k := range it.Keys {
			elements[i] = &object.Str{Value: k}
		}
	case *object.Str:
		runes := []rune(it.Value)
		elements = make([]object.Value, len(runes))
		for i, r := range runes {
			elements[i] = &object.Str{Value: string(r)}
		}
	default:
		return object.NewError("foreach requires a list, hash, or str")
	}

	for _, elem := range elements {
		if n.VarType != "" && n.VarType != "dynamic" && object.TypeName(elem) != n.VarType {
			return object.NewError("foreach variable %s expects %s, got %s", n.VarName, n.VarType, object.TypeName(elem))
		}
		iterScope := scope.NewChildBlock(true)
		iterScope.Define(n.VarName, elem, n.VarType)
		outcome, val := runLoopBody(n.Body, iterScope, io)
		switch outcome {
		case loopError, loopReturn:
			return val
		case loopBreak:
			return &object.Void{}
		}
	}
	return &object.Void{}
}

// ----------------------------------------------------------------------------
// expressions
// ----------------------------------------------------------------------------

func evalListLiteral(n *ast.ListLiteral, scope *object.Scope, io *IO) object.Value {
	elems := make([]object.Value, len(n.Elements))
	for i, e := range n.Elements {
		v := Eval(e, scope, io)
		if isError(v) {
			return v
		}
		elems[i] = v
	}
	return &object.List{Elements: elems}
}

func evalHashLiteral(n *ast.HashLiteral, scope *object.Scope, io *IO) object.Value {
	h := object.NewHash()
	for _, entry := range n.Entries {
		v := Eval(entry.Value, scope, io)
		if isError(v) {
			return v
		}
		h.Set(entry.Key, v)
	}
	return h
}

func evalStringInterp(n *ast.StringInterp, scope *object.Scope, io *IO) object.Value {
	var out strings.Builder
	for _, part := range n.Parts {
		if !part.IsIdent {
			out.WriteString(resolveEscapes(part.Text))
			continue
		}
		v, ok := scope.Lookup(part.Text)
		if !ok {
			return object.NewError("%s is undefined", part.Text)
		}
		out.WriteString(stringify(v))
	}
	return &object.Str{Value: out.String()}
}

func evalUnary(n *ast.UnaryExpr, scope *object.Scope, io *IO) object.Value {
	operand := Eval(n.Operand, scope, io)
	if isError(operand) {
		return operand
	}
	switch n.Operator {
	case "!":
		return &object.Bool{Value: !object.IsTruthy(operand)}
	case "-":
		switch v := operand.(type) {
		case *object.Int:
			return &object.Int{Value: -v.Value}
		case *object.Float:
			return &object.Float{Value: -v.Value}
		default:
			return object.NewError("unary - requires a numeric operand, got %s", object.TypeName(operand))
		}
	default:
		return object.NewError("unknown unary operator %s", n.Operator)
	}
}

func evalIndex(n *ast.IndexExpr, scope *object.Scope, io *IO) object.Value {
	target := Eval(n.Target, scope, io)
	if isError(target) {
		return target
	}
	idx := Eval(n.Index, scope, io)
	if isError(idx) {
		return idx
	}

	switch t := target.(type) {
	case *object.List:
		i, ok := idx.(*object.Int)
		if !ok {
			return object.NewError("list index must be int")
		}
		if i.Value < 0 || int(i.Value) >= len(t.Elements) {
			return object.NewError("list index out of range: %d", i.Value)
		}
		return t.Elements[i.Value]
	case *object.Hash:
		key, ok := idx.(*object.Str)
		if !ok {
			return object.NewError("hash key must be str")
		}
		v, ok := t.Values[key.Value]
		if !ok {
			return object.NewError("hash key not found: %s", key.Value)
		}
		return v
	case *object.Str:
		i, ok := idx.(*object.Int)
		if !ok {
			return object.NewError("string index must be int")
		}
		runes := []rune(t.Value)
		if i.Value < 0 || int(i.Value) >= len(runes) {
			return object.NewError("string index out of range: %d", i.Value)
		}
		return &object.Str{Value: string(runes[i.Value])}
	default:
		return object.NewError("cannot index type %s", object.TypeName(target))
	}
}

func evalFunctionCall(n *ast.FunctionCall, scope *object.Scope, io *IO) object.Value {
	fn, ok := scope.LookupFunction(n.Callee)
	if !ok {
		return object.NewError("function %s is not defined", n.Callee)
	}

	args := make([]object.Value, len(n.Args))
	for i, a := range n.Args {
		v := Eval(a, scope, io)
		if isError(v) {
			return v
		}
		args[i] = v
	}
	if len(args) != len(fn.Params) {
		return object.NewError("function %s expects %d argument(s), got %d", n.Callee, len(fn.Params), len(args))
	}
	for i, p := range fn.Params {
		if p.Type != "dynamic" && object.TypeName(args[i]) != p.Type {
			return object.NewError("function %s: parameter %s expects %s, got %s", n.Callee, p.Name, p.Type, object.TypeName(args[i]))
		}
	}

	callScope := object.NewFunctionScope(fn.Defn, fn.Name)
	for i, p := range fn.Params {
		callScope.Define(p.Name, args[i], p.Type)
	}

	var result object.Value
	if fn.Inline {
		result = Eval(fn.InlineExpr, callScope, io)
		if isError(result) {
			return result
		}
	} else {
		blockResult := Eval(fn.Body, callScope, io)
		if isError(blockResult) {
			return blockResult
		}
		if ret, ok := blockResult.(*object.ReturnSignal); ok {
			result = ret.Value
		} else if fn.ReturnType == "void" {
			result = &object.Void{}
		} else {
			return object.NewError("function %s fell through without returning a value", n.Callee)
		}
	}

	if fn.ReturnType == "void" {
		if _, isVoid := result.(*object.Void); !isVoid {
			return object.NewError("void function %s cannot return a value", n.Callee)
		}
	} else if fn.ReturnType != "dynamic" && object.TypeName(result) != fn.ReturnType {
		return object.NewError("function %s must return %s, got %s", n.Callee, fn.ReturnType, object.TypeName(result))
	}
	return result
}

// ----------------------------------------------------------------------------
// shared value helpers
// ----------------------------------------------------------------------------

func stringify(v object.Value) string {
	if s, ok := v.(*object.Str); ok {
		return s.Value
	}
	return v.Inspect()
}

func asInt(v object.Value) (int64, bool) {
	switch t := v.(type) {
	case *object.Int:
		return t.Value, true
	case *object.Float:
		return int64(t.Value), true
	default:
		return 0, false
	}
}

// resolveEscapes resolves \n \t \r \" \\ in raw lexed string text. This
// happens here, at value-construction time, rather than in the lexer.
func resolveEscapes(raw string) string {
	var b strings.Builder
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\\' && i+1 < len(runes) {
			switch runes[i+1] {
			case 'n':
				b.WriteRune('\n')
				i++
				continue
			case 't':
				b.WriteRune('\t')
				i++
				continue
			case 'r':
				b.WriteRune('\r')
				i++
				continue
			case '"':
				b.WriteRune('"')
				i++
				continue
			case '\\':
				b.WriteRune('\\')
				i++
				continue
			}
		}
		b.WriteRune(c)
	}
	return b.String()
}
