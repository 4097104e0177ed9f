// ----------------------------------------------------------------------------
// FILE: evaluator/methods.go
// ----------------------------------------------------------------------------
// PACKAGE: evaluator
// PURPOSE: Binary-operator evaluation and the reserved-method behavior
//          switch. object.MethodTable supplies the single lookup (arity,
//          receiver kind, mutability); applyMethod is the small switch that
//          follows it, per the method-dispatch design note.
// ----------------------------------------------------------------------------

package evaluator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"lcore/ast"
	"lcore/object"
)

// ----------------------------------------------------------------------------
// binary operators
// ----------------------------------------------------------------------------

func evalBinary(n *ast.BinaryExpr, scope *object.Scope, io *IO) object.Value {
	left := Eval(n.Left, scope, io)
	if isError(left) {
		return left
	}

	if n.Operator == "&&" {
		if !object.IsTruthy(left) {
			return &object.Bool{Value: false}
		}
		right := Eval(n.Right, scope, io)
		if isError(right) {
			return right
		}
		return &object.Bool{Value: object.IsTruthy(right)}
	}
	if n.Operator == "||" {
		if object.IsTruthy(left) {
			return &object.Bool{Value: true}
		}
		right := Eval(n.Right, scope, io)
		if isError(right) {
			return right
		}
		return &object.Bool{Value: object.IsTruthy(right)}
	}

	right := Eval(n.Right, scope, io)
	if isError(right) {
		return right
	}

	switch n.Operator {
	case "==":
		return &object.Bool{Value: valuesEqual(left, right)}
	case "!=":
		return &object.Bool{Value: !valuesEqual(left, right)}
	case "+":
		return evalPlus(left, right)
	case "-", "*", "/", "%":
		return evalArith(n.Operator, left, right)
	case "<", ">", "<=", ">=":
		return evalCompare(n.Operator, left, right)
	default:
		return object.NewError("unknown operator %s", n.Operator)
	}
}

func valuesEqual(a, b object.Value) bool {
	switch av := a.(type) {
	case *object.Int:
		switch bv := b.(type) {
		case *object.Int:
			return av.Value == bv.Value
		case *object.Float:
			return float64(av.Value) == bv.Value
		}
		return false
	case *object.Float:
		switch bv := b.(type) {
		case *object.Int:
			return av.Value == float64(bv.Value)
		case *object.Float:
			return av.Value == bv.Value
		}
		return false
	case *object.Bool:
		bv, ok := b.(*object.Bool)
		return ok && av.Value == bv.Value
	case *object.Str:
		bv, ok := b.(*object.Str)
		return ok && av.Value == bv.Value
	case *object.List:
		bv, ok := b.(*object.List)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !valuesEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *object.Hash:
		bv, ok := b.(*object.Hash)
		if !ok || len(av.Keys) != len(bv.Keys) {
			return false
		}
		for _, k := range av.Keys {
			other, ok := bv.Values[k]
			if !ok || !valuesEqual(av.Values[k], other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isNumeric(v object.Value) bool {
	switch v.(type) {
	case *object.Int, *object.Float:
		return true
	default:
		return false
	}
}

func asFloat64(v object.Value) float64 {
	switch t := v.(type) {
	case *object.Int:
		return float64(t.Value)
	case *object.Float:
		return t.Value
	default:
		return 0
	}
}

func evalPlus(left, right object.Value) object.Value {
	if ls, ok := left.(*object.Str); ok {
		if rs, ok2 := right.(*object.Str); ok2 {
			return &object.Str{Value: ls.Value + rs.Value}
		}
		return object.NewError("cannot add %s and %s", object.TypeName(left), object.TypeName(right))
	}
	if ll, ok := left.(*object.List); ok {
		if rl, ok2 := right.(*object.List); ok2 {
			out := make([]object.Value, 0, len(ll.Elements)+len(rl.Elements))
			out = append(out, ll.Elements...)
			out = append(out, rl.Elements...)
			return &object.List{Elements: out}
		}
		return object.NewError("cannot add %s and %s", object.TypeName(left), object.TypeName(right))
	}
	if isNumeric(left) && isNumeric(right) {
		return numericResult(left, right, asFloat64(left)+asFloat64(right))
	}
	return object.NewError("cannot add %s and %s", object.TypeName(left), object.TypeName(right))
}

// numericResult returns an Int when both operands were Int, else a Float.
func numericResult(left, right object.Value, f float64) object.Value {
	_, li := left.(*object.Int)
	_, ri := right.(*object.Int)
	if li && ri {
		return &object.Int{Value: int64(f)}
	}
	return &object.Float{Value: f}
}

func evalArith(op string, left, right object.Value) object.Value {
	if !isNumeric(left) || !isNumeric(right) {
		return object.NewError("operator %s requires numeric operands, got %s and %s", op, object.TypeName(left), object.TypeName(right))
	}
	li, lIsInt := left.(*object.Int)
	ri, rIsInt := right.(*object.Int)

	switch op {
	case "-":
		if lIsInt && rIsInt {
			return &object.Int{Value: li.Value - ri.Value}
		}
		return &object.Float{Value: asFloat64(left) - asFloat64(right)}
	case "*":
		if lIsInt && rIsInt {
			return &object.Int{Value: li.Value * ri.Value}
		}
		return &object.Float{Value: asFloat64(left) * asFloat64(right)}
	case "/":
		if asFloat64(right) == 0 {
			return object.NewError("division by zero")
		}
		if lIsInt && rIsInt {
			return &object.Int{Value: li.Value / ri.Value}
		}
		return &object.Float{Value: asFloat64(left) / asFloat64(right)}
	case "%":
		if lIsInt && rIsInt {
			if ri.Value == 0 {
				return object.NewError("division by zero")
			}
			return &object.Int{Value: li.Value % ri.Value}
		}
		return object.NewError("%% requires int operands, got %s and %s", object.TypeName(left), object.TypeName(right))
	default:
		return object.NewError("unknown arithmetic operator %s", op)
	}
}

func evalCompare(op string, left, right object.Value) object.Value {
	if !isNumeric(left) || !isNumeric(right) {
		return object.NewError("operator %s requires numeric operands, got %s and %s", op, object.TypeName(left), object.TypeName(right))
	}
	l, r := asFloat64(left), asFloat64(right)
	var result bool
	switch op {
	case "<":
		result = l < r
	case ">":
		result = l > r
	case "<=":
		result = l <= r
	case ">=":
		result = l >= r
	}
	return &object.Bool{Value: result}
}

// ----------------------------------------------------------------------------
// method calls
// ----------------------------------------------------------------------------

func evalMethodCall(n *ast.MethodCall, scope *object.Scope, io *IO) object.Value {
	desc, ok := object.MethodTable[n.Method]
	if !ok {
		return object.NewError("unknown method %s", n.Method)
	}

	// Free-standing operations (say/ask/wait) never take a receiver.
	if len(desc.Receivers) == 0 {
		if n.Target != nil {
			return object.NewError("%s does not take a receiver", n.Method)
		}
		args := make([]object.Value, len(n.Args))
		for i, a := range n.Args {
			v := Eval(a, scope, io)
			if isError(v) {
				return v
			}
			args[i] = v
		}
		if !desc.AcceptsArgc(len(args)) {
			return object.NewError("%s: wrong number of arguments", n.Method)
		}
		return applyFreeMethod(n.Method, args, io)
	}

	// Receiver-bearing: either n.Target.method(args...) or the free-call form
	// method(receiverExpr, args...) where the first argument supplies the
	// receiver value.
	var receiver object.Value
	var receiverName string
	var argExprs []ast.Expression

	if n.Target != nil {
		receiver = Eval(n.Target, scope, io)
		if isError(receiver) {
			return receiver
		}
		if id, ok := n.Target.(*ast.Identifier); ok {
			receiverName = id.Name
		}
		argExprs = n.Args
	} else {
		if len(n.Args) == 0 {
			return object.NewError("%s requires a receiver", n.Method)
		}
		receiver = Eval(n.Args[0], scope, io)
		if isError(receiver) {
			return receiver
		}
		if id, ok := n.Args[0].(*ast.Identifier); ok {
			receiverName = id.Name
		}
		argExprs = n.Args[1:]
	}

	if !desc.AcceptsReceiver(receiver.Kind()) {
		return object.NewError("%s cannot be called on %s", n.Method, object.TypeName(receiver))
	}
	if !desc.AcceptsArgc(len(argExprs)) {
		return object.NewError("%s: wrong number of arguments", n.Method)
	}

	args := make([]object.Value, len(argExprs))
	for i, a := range argExprs {
		v := Eval(a, scope, io)
		if isError(v) {
			return v
		}
		args[i] = v
	}

	if desc.Mutates && receiverName != "" {
		if !scope.MutationAllowed(receiverName) {
			return object.NewError("cannot mutate '%s' through an immutable import", receiverName)
		}
	}

	result := applyMethod(n.Method, receiver, args)
	if isError(result) {
		return result
	}

	if desc.Mutates && receiverName != "" && io.WatchTrace && scope.IsWatched(receiverName) {
		fmt.Fprintf(io.Out, "WATCH: %s modified by %s() to %s (in %s)\n", receiverName, n.Method, receiver.Inspect(), scope.FunctionName())
	}
	return result
}

func applyFreeMethod(name string, args []object.Value, io *IO) object.Value {
	switch name {
	case "say":
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = stringify(a)
		}
		fmt.Fprintln(io.Out, strings.Join(parts, " "))
		return &object.Void{}
	case "ask":
		fmt.Fprint(io.Out, stringify(args[0]))
		line, _ := io.In.ReadString('\n')
		return &object.Str{Value: strings.TrimRight(line, "\r\n")}
	case "wait":
		if !isNumeric(args[0]) {
			return object.NewError("wait: duration must be numeric")
		}
		seconds := asFloat64(args[0])
		time.Sleep(time.Duration(seconds * float64(time.Second)))
		return &object.Void{}
	default:
		return object.NewError("unknown free-standing operation %s", name)
	}
}

// applyMethod implements every entry of object.MethodTable. desc has already
// validated arity and receiver kind; this function performs the behavior.
func applyMethod(name string, receiver object.Value, args []object.Value) object.Value {
	switch name {
	case "asInt":
		return toInt(receiver)
	case "asFloat":
		return toFloat(receiver)
	case "asBool":
		return &object.Bool{Value: object.IsTruthy(receiver)}
	case "asString":
		return &object.Str{Value: stringify(receiver)}
	case "type":
		return &object.Str{Value: object.TypeName(receiver)}
	case "default":
		if object.IsTruthy(receiver) {
			return receiver
		}
		return args[0]

	case "trim":
		s := receiver.(*object.Str)
		return &object.Str{Value: strings.TrimSpace(s.Value)}
	case "upperCase":
		s := receiver.(*object.Str)
		return &object.Str{Value: strings.ToUpper(s.Value)}
	case "lowerCase":
		s := receiver.(*object.Str)
		return &object.Str{Value: strings.ToLower(s.Value)}

	case "length":
		switch r := receiver.(type) {
		case *object.Str:
			return &object.Int{Value: int64(len([]rune(r.Value)))}
		case *object.List:
			return &object.Int{Value: int64(len(r.Elements))}
		case *object.Hash:
			return &object.Int{Value: int64(len(r.Keys))}
		}
	case "reverse":
		switch r := receiver.(type) {
		case *object.Str:
			runes := []rune(r.Value)
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			return &object.Str{Value: string(runes)}
		case *object.List:
			out := make([]object.Value, len(r.Elements))
			for i, e := range r.Elements {
				out[len(r.Elements)-1-i] = e
			}
			return &object.List{Elements: out}
		}
	case "clone":
		return object.DeepCopy(receiver)

	case "countOf":
		list := receiver.(*object.List)
		count := int64(0)
		for _, e := range list.Elements {
			if valuesEqual(e, args[0]) {
				count++
			}
		}
		return &object.Int{Value: count}
	case "find":
		list := receiver.(*object.List)
		for i, e := range list.Elements {
			if valuesEqual(e, args[0]) {
				return &object.Int{Value: int64(i)}
			}
		}
		return &object.Int{Value: -1}

	case "push":
		list := receiver.(*object.List)
		list.Elements = append(list.Elements, args[0])
		return list
	case "empty":
		list := receiver.(*object.List)
		list.Elements = nil
		return list
	case "insertAt":
		list := receiver.(*object.List)
		idxV, ok := args[0].(*object.Int)
		if !ok {
			return object.NewError("insertAt index must be int")
		}
		idx := int(idxV.Value)
		if idx < 0 || idx > len(list.Elements) {
			return object.NewError("insertAt index out of range: %d", idx)
		}
		list.Elements = append(list.Elements[:idx:idx], append([]object.Value{args[1]}, list.Elements[idx:]...)...)
		return list
	case "pull":
		list := receiver.(*object.List)
		if len(list.Elements) == 0 {
			return object.NewError("pull on empty list")
		}
		idx := len(list.Elements) - 1
		if len(args) == 1 {
			idxV, ok := args[0].(*object.Int)
			if !ok {
				return object.NewError("pull index must be int")
			}
			idx = int(idxV.Value)
			if idx < 0 || idx >= len(list.Elements) {
				return object.NewError("pull index out of range: %d", idx)
			}
		}
		pulled := list.Elements[idx]
		list.Elements = append(list.Elements[:idx], list.Elements[idx+1:]...)
		return pulled
	case "removeValue":
		list := receiver.(*object.List)
		for i, e := range list.Elements {
			if valuesEqual(e, args[0]) {
				list.Elements = append(list.Elements[:i], list.Elements[i+1:]...)
				return list
			}
		}
		return object.NewError("removeValue: value not found")
	case "order":
		list := receiver.(*object.List)
		sorted, err := sortElements(list.Elements)
		if err != nil {
			return object.NewError("%s", err)
		}
		list.Elements = sorted
		return list
	case "merge":
		switch r := receiver.(type) {
		case *object.List:
			other, ok := args[0].(*object.List)
			if !ok {
				return object.NewError("merge: argument must be a list")
			}
			r.Elements = append(r.Elements, other.Elements...)
			return r
		case *object.Hash:
			other, ok := args[0].(*object.Hash)
			if !ok {
				return object.NewError("merge: argument must be a hash")
			}
			for _, k := range other.Keys {
				r.Set(k, other.Values[k])
			}
			return r
		}

	case "keys":
		h := receiver.(*object.Hash)
		out := make([]object.Value, len(h.Keys))
		for i, k := range h.Keys {
			out[i] = &object.Str{Value: k}
		}
		return &object.List{Elements: out}
	case "values":
		h := receiver.(*object.Hash)
		out := make([]object.Value, len(h.Keys))
		for i, k := range h.Keys {
			out[i] = h.Values[k]
		}
		return &object.List{Elements: out}
	case "pairs":
		h := receiver.(*object.Hash)
		out := make([]object.Value, len(h.Keys))
		for i, k := range h.Keys {
			pair := object.NewHash()
			pair.Set("key", &object.Str{Value: k})
			pair.Set("value", h.Values[k])
			out[i] = pair
		}
		return &object.List{Elements: out}

	case "wipe":
		h := receiver.(*object.Hash)
		h.Keys = nil
		h.Values = make(map[string]object.Value)
		return h
	case "take":
		h := receiver.(*object.Hash)
		key, ok := args[0].(*object.Str)
		if !ok {
			return object.NewError("take key must be str")
		}
		v, ok := h.Values[key.Value]
		if !ok {
			return object.NewError("take: key not found: %s", key.Value)
		}
		h.Delete(key.Value)
		return v
	case "take_last":
		h := receiver.(*object.Hash)
		if len(h.Keys) == 0 {
			return object.NewError("take_last on empty hash")
		}
		last := h.Keys[len(h.Keys)-1]
		v := h.Values[last]
		h.Delete(last)
		return v
	case "ensure":
		h := receiver.(*object.Hash)
		key, ok := args[0].(*object.Str)
		if !ok {
			return object.NewError("ensure key must be str")
		}
		if _, exists := h.Values[key.Value]; !exists {
			h.Set(key.Value, args[1])
		}
		return h
	}
	return object.NewError("method %s is not implemented for %s", name, object.TypeName(receiver))
}

func toInt(v object.Value) object.Value {
	switch t := v.(type) {
	case *object.Int:
		return t
	case *object.Float:
		return &object.Int{Value: int64(t.Value)}
	case *object.Bool:
		if t.Value {
			return &object.Int{Value: 1}
		}
		return &object.Int{Value: 0}
	case *object.Str:
		i, err := strconv.ParseInt(strings.TrimSpace(t.Value), 10, 64)
		if err != nil {
			return object.NewError("cannot convert %q to int", t.Value)
		}
		return &object.Int{Value: i}
	case *object.List:
		return &object.Int{Value: int64(len(t.Elements))}
	case *object.Hash:
		return &object.Int{Value: int64(len(t.Keys))}
	default:
		return object.NewError("cannot convert %s to int", object.TypeName(v))
	}
}

func toFloat(v object.Value) object.Value {
	switch t := v.(type) {
	case *object.Int:
		return &object.Float{Value: float64(t.Value)}
	case *object.Float:
		return t
	case *object.Str:
		f, err := strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
		if err != nil {
			return object.NewError("cannot convert %q to float", t.Value)
		}
		return &object.Float{Value: f}
	default:
		return object.NewError("cannot convert %s to float", object.TypeName(v))
	}
}

// sortElements orders a homogeneous list of Int, Float, or Str values
// ascending; mixed or unorderable element kinds are a runtime error.
func sortElements(elements []object.Value) ([]object.Value, error) {
	if len(elements) == 0 {
		return elements, nil
	}
	out := make([]object.Value, len(elements))
	copy(out, elements)

	switch out[0].(type) {
	case *object.Int, *object.Float:
		for _, e := range out {
			if !isNumeric(e) {
				return nil, fmt.Errorf("order: list elements are not orderable")
			}
		}
		sort.Slice(out, func(i, j int) bool {
			return asFloat64(out[i]) < asFloat64(out[j])
		})
	case *object.Str:
		for _, e := range out {
			if _, ok := e.(*object.Str); !ok {
				return nil, fmt.Errorf("order: list elements are not orderable")
			}
		}
		sort.Slice(out, func(i, j int) bool {
			return out[i].(*object.Str).Value < out[j].(*object.Str).Value
		})
	default:
		return nil, fmt.Errorf("order: list elements are not orderable")
	}
	return out, nil
}
