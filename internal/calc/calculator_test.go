package calc

import (
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/integralcalc/internal/calcerr"
	"github.com/njchilds90/integralcalc/internal/history"
	"github.com/njchilds90/integralcalc/internal/translate"
	"github.com/njchilds90/integralcalc/symbolic"
)

func newCalculator(t *testing.T, opts ...Option) (*Calculator, *history.Store) {
	t.Helper()
	store := history.NewStore(filepath.Join(t.TempDir(), "history.txt"))
	return New(store, opts...), store
}

func TestComputeDefinitePolynomial(t *testing.T) {
	var statuses []string
	c, store := newCalculator(t, WithStatus(func(msg string) { statuses = append(statuses, msg) }))

	res, err := c.ComputeDefinite("x**2", "0", "2")
	require.NoError(t, err)
	assert.Equal(t, "x**3/3", res.Indefinite.String())
	assert.InDelta(t, 8.0/3, res.Value, 1e-12)
	require.NotNil(t, res.Definite)
	assert.True(t, res.Definite.Equal(symbolic.F(8, 3)))

	st := c.State()
	assert.Equal(t, "≈ 2.666667", st.Definite)
	assert.Equal(t, "∫ f(x) dx = x**3/3 + C", st.IndefiniteText)
	assert.True(t, strings.HasPrefix(st.Indefinite, `\int f(x)\,dx = `))
	assert.Equal(t, Placeholder, st.Derivative)
	assert.Same(t, res, st.Last)
	assert.Equal(t, "Calculation complete.", st.Status)
	assert.Equal(t, []string{"Calculating...", "Calculation complete."}, statuses)

	recs := store.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "x**2", recs[0].Function)
	assert.Equal(t, "0", recs[0].Lower)
	assert.Equal(t, "2", recs[0].Upper)
	assert.Equal(t, "x**3/3", recs[0].Indefinite)
	assert.Equal(t, "2.66666666666667", recs[0].Definite)
	assert.Equal(t, res.Record.ID, recs[0].ID)
}

func TestComputeDefiniteInfiniteLimits(t *testing.T) {
	c, store := newCalculator(t)

	res, err := c.ComputeDefinite("exp(-x)", "0", "oo")
	require.NoError(t, err)
	assert.InDelta(t, 1, res.Value, 1e-9)

	res, err = c.ComputeDefinite("1/(1 + x**2)", "-oo", "∞")
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, res.Value, 1e-9)

	recs := store.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "oo", recs[0].Upper)
	assert.Equal(t, "-oo", recs[1].Lower)
	assert.Equal(t, "oo", recs[1].Upper)
}

func TestComputeDefiniteFailures(t *testing.T) {
	tests := []struct {
		name    string
		f, a, b string
		kind    calcerr.Kind
	}{
		{"empty function", "", "0", "1", calcerr.Validation},
		{"blank function", "   ", "0", "1", calcerr.Validation},
		{"empty lower", "x", "", "1", calcerr.Validation},
		{"empty upper", "x", "0", " ", calcerr.Validation},
		{"unbalanced", "(x + 1", "0", "1", calcerr.Parse},
		{"bad limit", "x", "0", "1)", calcerr.Parse},
		{"interior singularity", "1/x", "-1", "1", calcerr.Computation},
		{"divergent", "1/x", "0", "1", calcerr.Computation},
		{"symbolic limit", "x", "0", "a", calcerr.Computation},
		{"zero over zero", "0/0", "0", "1", calcerr.Computation},
		{"division by zero", "x/0", "0", "1", calcerr.Computation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store := newCalculator(t)
			_, err := c.ComputeDefinite(tt.f, tt.a, tt.b)
			require.Error(t, err)
			assert.Equal(t, tt.kind, calcerr.KindOf(err), "%v", err)
			assert.Zero(t, store.Len())
			assert.Contains(t, c.State().Status, calcerr.Title(err))
		})
	}
}

func TestComputeDefiniteDivisionByZeroMessage(t *testing.T) {
	c, _ := newCalculator(t)
	_, err := c.ComputeDefinite("x/0", "0", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, symbolic.ErrSingular)
	assert.Contains(t, calcerr.Message(err), "division by zero")
}

func TestComputeDefiniteMultiLineFunctionSurvivesReload(t *testing.T) {
	c, store := newCalculator(t)
	res, err := c.ComputeDefinite("x +\n1", "0", "1")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, res.Value, 1e-12)
	assert.Equal(t, "x + 1", res.Record.Function)
	require.NoError(t, store.Save())

	reloaded := history.NewStore(store.Path())
	report, err := reloaded.Load()
	require.NoError(t, err)
	assert.Equal(t, history.LoadReport{Loaded: 1}, report)
	require.Len(t, reloaded.Records(), 1)
	assert.Equal(t, "x + 1", reloaded.Records()[0].Function)
}

func TestParseErrorKeepsText(t *testing.T) {
	c, _ := newCalculator(t)
	_, err := c.ComputeDefinite("sin(x", "0", "1")
	var ce *calcerr.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "sin(x", ce.Text)
	assert.Equal(t, "compute_definite", ce.Op)
}

func TestComputeDerivative(t *testing.T) {
	c, store := newCalculator(t)
	d, err := c.ComputeDerivative("x**3")
	require.NoError(t, err)
	assert.Equal(t, "3*x**2", d.String())
	assert.True(t, strings.HasPrefix(c.State().Derivative, "f'(x) = "))
	assert.Zero(t, store.Len())

	_, err = c.ComputeDerivative("")
	assert.True(t, calcerr.Is(calcerr.Validation, err))
}

func TestDerivativeOfIntegralRoundTrip(t *testing.T) {
	c, _ := newCalculator(t)
	for _, f := range []string{"x**2", "3*x**2 + 2*x", "sin(x)", "cos(x)", "exp(x)"} {
		t.Run(f, func(t *testing.T) {
			F, err := c.Integrate(f)
			require.NoError(t, err)
			d, err := c.ComputeDerivative(F.String())
			require.NoError(t, err)
			want, err := translate.Parse(f)
			require.NoError(t, err)
			assert.True(t, symbolic.DeepSimplify(want).Equal(d), "d/dx(%s) = %s, want %s", F, d, want)
		})
	}
}

func TestIntegrateNoClosedForm(t *testing.T) {
	c, _ := newCalculator(t)
	_, err := c.Integrate("sin(x**2)")
	require.Error(t, err)
	assert.True(t, calcerr.Is(calcerr.Computation, err))
	assert.ErrorIs(t, err, symbolic.ErrNoClosedForm)
}

func TestSimplify(t *testing.T) {
	c, store := newCalculator(t)
	out, err := c.Simplify("sin(x)**2 + cos(x)**2")
	require.NoError(t, err)
	assert.Equal(t, "1", out)
	assert.Equal(t, "1", c.State().Function)
	assert.Zero(t, store.Len())

	_, err = c.Simplify("  ")
	assert.True(t, calcerr.Is(calcerr.Validation, err))
}

func TestKernelPanicIsComputationError(t *testing.T) {
	table := translate.DefaultTable()
	table["boom"] = translate.Entry{Func: func(symbolic.Expr) symbolic.Expr { panic("division by zero") }}
	c, store := newCalculator(t, WithTranslator(translate.New(table)))

	_, err := c.ComputeDefinite("boom(x)", "0", "1")
	require.Error(t, err)
	assert.True(t, calcerr.Is(calcerr.Computation, err))
	assert.Contains(t, err.Error(), "division by zero")
	assert.Zero(t, store.Len())
	assert.Contains(t, c.State().Status, "Calculation failed")
}

func TestReset(t *testing.T) {
	c, store := newCalculator(t)
	_, err := c.ComputeDefinite("x", "0", "1")
	require.NoError(t, err)

	c.Reset()
	st := c.State()
	assert.Equal(t, Placeholder, st.Definite)
	assert.Empty(t, st.Function)
	assert.Nil(t, st.Last)
	assert.Equal(t, "Inputs cleared.", st.Status)
	assert.Equal(t, 1, store.Len())
}

func TestNilStore(t *testing.T) {
	c := New(nil)
	res, err := c.ComputeDefinite("x", "0", "1")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Value, 1e-12)
	assert.Empty(t, res.Record.ID)
}

// ============================================================
// Tool dispatcher
// ============================================================

func TestHandleToolCall(t *testing.T) {
	c, _ := newCalculator(t)

	resp := c.HandleToolCall(ToolRequest{Tool: "integrate", Params: map[string]interface{}{"expr": "x**2"}})
	require.Empty(t, resp.Error)
	assert.Equal(t, "x**3/3", resp.String)

	resp = c.HandleToolCall(ToolRequest{Tool: "definite_integrate", Params: map[string]interface{}{"expr": "x", "a": "0", "b": "2"}})
	require.Empty(t, resp.Error)
	assert.Equal(t, "≈ 2.000000", resp.String)
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, "2", result["exact"])

	resp = c.HandleToolCall(ToolRequest{Tool: "history"})
	require.Empty(t, resp.Error)
	assert.Len(t, resp.Result, 1)

	resp = c.HandleToolCall(ToolRequest{Tool: "derivative", Params: map[string]interface{}{"expr": "x**2"}})
	assert.Equal(t, "2*x", resp.String)

	resp = c.HandleToolCall(ToolRequest{Tool: "simplify", Params: map[string]interface{}{"expr": "x + x"}})
	assert.Equal(t, "2*x", resp.String)

	resp = c.HandleToolCall(ToolRequest{Tool: "latex", Params: map[string]interface{}{"expr": "sin(x)"}})
	assert.Equal(t, `\sin\left(x\right)`, resp.LaTeX)
}

func TestHandleToolCallErrors(t *testing.T) {
	c, _ := newCalculator(t)

	resp := c.HandleToolCall(ToolRequest{Tool: "nope"})
	assert.Equal(t, "unknown tool: nope", resp.Error)

	resp = c.HandleToolCall(ToolRequest{Tool: "integrate", Params: map[string]interface{}{}})
	assert.Contains(t, resp.Error, "missing param: expr")
	assert.Equal(t, calcerr.Validation.String(), resp.Kind)

	resp = c.HandleToolCall(ToolRequest{Tool: "integrate", Params: map[string]interface{}{"expr": 3.0}})
	assert.Contains(t, resp.Error, "must be a string")

	resp = c.HandleToolCall(ToolRequest{Tool: "definite_integrate", Params: map[string]interface{}{"expr": "1/x", "a": "-1", "b": "1"}})
	assert.Equal(t, calcerr.Computation.String(), resp.Kind)
}

func TestToolSpecIsJSON(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(ToolSpec()), &spec))
	names := make([]string, len(spec.Tools))
	for i, tool := range spec.Tools {
		names[i] = tool.Name
	}
	assert.Equal(t, []string{"integrate", "definite_integrate", "derivative", "simplify", "latex", "history", "schema"}, names)
}
