package evaluator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcore/lexer"
	"lcore/object"
	"lcore/parser"
)

func eval(t *testing.T, input string) (object.Value, string) {
	t.Helper()
	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "parse errors: %v", p.Errors())

	var out strings.Builder
	scope := object.NewGlobalScope()
	result := Eval(program, scope, NewIO(&out, strings.NewReader("")))
	return result, out.String()
}

// The literal end-to-end scenarios.
func TestEval_EndToEndScenarios(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		output string
	}{
		{"say prints argument plus newline", `x: int = 5; say(x + 1);`, "6\n"},
		{"string concatenation", `say("a" + "b");`, "ab\n"},
		{"truthiness of zero", `if 0 { say("yes"); } else { say("no"); }`, "no\n"},
		{"list length", `say([1, 2, 3].length());`, "3\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, out := eval(t, c.input)
			assert.Equal(t, c.output, out)
		})
	}
}

func TestEval_DivisionSemantics(t *testing.T) {
	intResult, _ := eval(t, `7 / 2;`)
	assert.Equal(t, &object.Int{Value: 3}, intResult)

	floatResult, _ := eval(t, `7.0 / 2;`)
	assert.Equal(t, &object.Float{Value: 3.5}, floatResult)
}

func TestEval_CountOfCountsOccurrences(t *testing.T) {
	result, _ := eval(t, `[1, 2, 2, 3, 2].countOf(2);`)
	assert.Equal(t, &object.Int{Value: 3}, result)
}

func TestEval_DefaultFallsBackWhenFalsy(t *testing.T) {
	result, _ := eval(t, `0.default(42);`)
	assert.Equal(t, &object.Int{Value: 42}, result)

	result2, _ := eval(t, `5.default(42);`)
	assert.Equal(t, &object.Int{Value: 5}, result2)
}

func TestEval_BreakExitsOnlyInnermostLoop(t *testing.T) {
	input := `
	total: int = 0;
	for i in 0...3 {
		for j in 0...3 {
			if j == 1 {
				break;
			}
			total = total + 1;
		}
	}
	total;
	`
	result, _ := eval(t, input)
	assert.Equal(t, &object.Int{Value: 3}, result)
}

func TestEval_ContinueSkipsRestOfIteration(t *testing.T) {
	input := `
	total: int = 0;
	for i in 0...5 {
		if i == 2 {
			continue;
		}
		total = total + i;
	}
	total;
	`
	result, _ := eval(t, input)
	assert.Equal(t, &object.Int{Value: 8}, result) // 0+1+3+4
}

func TestEval_ReturnOutsideFunctionIsError(t *testing.T) {
	result, _ := eval(t, `return 5;`)
	_, ok := result.(*object.Error)
	assert.True(t, ok)
}

func TestEval_BreakOutsideLoopIsError(t *testing.T) {
	result, _ := eval(t, `break;`)
	_, ok := result.(*object.Error)
	assert.True(t, ok)
}

func TestEval_FunctionArgTypeMismatchIsError(t *testing.T) {
	input := `
	fn takesInt(x: int) -> int { return x; }
	takesInt("oops");
	`
	result, _ := eval(t, input)
	_, ok := result.(*object.Error)
	assert.True(t, ok)
}

func TestEval_VoidFunctionCannotReturnValue(t *testing.T) {
	input := `
	fn oops() -> void { return 5; }
	oops();
	`
	result, _ := eval(t, input)
	_, ok := result.(*object.Error)
	assert.True(t, ok)
}

func TestEval_WatchOnMethodMutation(t *testing.T) {
	input := `
	items: list = [1];
	watch items;
	items.push(2);
	`
	_, out := eval(t, input)
	assert.Contains(t, out, "WATCH: items modified by push()")
}

func TestEval_WaitSleepsForGivenSeconds(t *testing.T) {
	start := time.Now()
	result, _ := eval(t, `wait(0.01);`)
	elapsed := time.Since(start)
	assert.Equal(t, &object.Void{}, result)
	assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
}

func TestEval_WaitRejectsNonNumericDuration(t *testing.T) {
	result, _ := eval(t, `wait("oops");`)
	_, ok := result.(*object.Error)
	assert.True(t, ok)
}

func TestEval_HashLiteralAndIndex(t *testing.T) {
	result, _ := eval(t, `h: hash = {"a": 1, "b": 2}; h["b"];`)
	assert.Equal(t, &object.Int{Value: 2}, result)
}

func TestEval_StringInterpolation(t *testing.T) {
	result, _ := eval(t, `name: str = "world"; "hello ${name}!";`)
	assert.Equal(t, &object.Str{Value: "hello world!"}, result)
}

func TestEval_EscapesResolveAtEvaluationTime(t *testing.T) {
	result, _ := eval(t, `"a\nb";`)
	assert.Equal(t, "a\nb", result.(*object.Str).Value)
}

func TestEval_ListPlusListConcatenates(t *testing.T) {
	result, _ := eval(t, `[1, 2] + [3];`)
	list := result.(*object.List)
	require.Len(t, list.Elements, 3)
}

func TestEval_IndexOutOfRangeIsError(t *testing.T) {
	result, _ := eval(t, `[1, 2][5];`)
	_, ok := result.(*object.Error)
	assert.True(t, ok)
}
