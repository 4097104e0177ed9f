// ----------------------------------------------------------------------------
// FILE: wasm/wasm_main.go
// BUILD: GOOS=js GOARCH=wasm go build -o main.wasm wasm/wasm_main.go
// ----------------------------------------------------------------------------
// PACKAGE: main
// PURPOSE: Exposes runL(source) to the browser: lexes, parses, and
//          evaluates one L program against a fresh scope per call, with
//          say()/WATCH output captured into a buffer instead of going to
//          stdout, and ask() replaced with a fixed placeholder since the
//          browser call cannot block on synchronous terminal input.
// ----------------------------------------------------------------------------

package main

import (
	"fmt"
	"strings"
	"syscall/js"

	"lcore/evaluator"
	"lcore/lexer"
	"lcore/object"
	"lcore/parser"
)

func main() {
	c := make(chan struct{}, 0)
	js.Global().Set("runL", js.FuncOf(runCode))
	fmt.Println("L WASM engine loaded.")
	<-c
}

// runCode is the bridge between JS and Go: p[0] is the source text.
func runCode(this js.Value, p []js.Value) interface{} {
	source := p[0].String()

	var out strings.Builder
	in := strings.NewReader("") // browser calls cannot block for ask() input

	l := lexer.New(source)
	prs := parser.New(l)
	program := prs.ParseProgram()

	if errs := prs.Errors(); len(errs) > 0 {
		var jsErrs []interface{}
		for _, msg := range errs {
			jsErrs = append(jsErrs, "PARSE ERROR: "+msg)
		}
		return map[string]interface{}{"error": jsErrs}
	}

	scope := object.NewGlobalScope()
	result := evaluator.Eval(program, scope, evaluator.NewIO(&out, in))

	if errObj, ok := result.(*object.Error); ok {
		return map[string]interface{}{"error": []interface{}{errObj.Inspect()}}
	}

	finalResult := ""
	if _, isVoid := result.(*object.Void); !isVoid && result != nil {
		finalResult = result.Inspect()
	}

	return map[string]interface{}{
		"logs":   out.String(),
		"result": finalResult,
	}
}
