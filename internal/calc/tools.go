package calc

import (
	"encoding/json"
	"fmt"

	"github.com/njchilds90/integralcalc/internal/calcerr"
	"github.com/njchilds90/integralcalc/symbolic"
)

// ============================================================
// JSON tool interface
// ============================================================

// ToolRequest names a tool and its parameters. Expressions are passed as
// text, exactly as a user would type them.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	Kind   string      `json:"kind,omitempty"`
}

// HandleToolCall dispatches one request. Failures are reported in the
// response, never returned.
func (c *Calculator) HandleToolCall(req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", calcerr.Validationf(req.Tool, "missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", calcerr.Validationf(req.Tool, "param %s must be a string", key)
		}
		return s, nil
	}
	fail := func(err error) ToolResponse {
		return ToolResponse{Error: err.Error(), Kind: calcerr.KindOf(err).String()}
	}
	respond := func(e symbolic.Expr) ToolResponse {
		return ToolResponse{Result: symbolic.ToMap(e), LaTeX: e.LaTeX(), String: e.String()}
	}

	switch req.Tool {
	case "integrate":
		f, err := getString("expr")
		if err != nil {
			return fail(err)
		}
		F, err := c.Integrate(f)
		if err != nil {
			return fail(err)
		}
		return respond(F)

	case "definite_integrate":
		var args [3]string
		for i, key := range []string{"expr", "a", "b"} {
			s, err := getString(key)
			if err != nil {
				return fail(err)
			}
			args[i] = s
		}
		res, err := c.ComputeDefinite(args[0], args[1], args[2])
		if err != nil {
			return fail(err)
		}
		out := map[string]interface{}{
			"value":      res.Value,
			"indefinite": res.Indefinite.String(),
			"id":         res.Record.ID,
		}
		if res.Definite != nil {
			out["exact"] = res.Definite.String()
		}
		return ToolResponse{
			Result: out,
			LaTeX:  IndefiniteDisplay(res.Indefinite),
			String: DefiniteDisplay(res.Value),
		}

	case "derivative":
		f, err := getString("expr")
		if err != nil {
			return fail(err)
		}
		d, err := c.ComputeDerivative(f)
		if err != nil {
			return fail(err)
		}
		return respond(d)

	case "simplify":
		f, err := getString("expr")
		if err != nil {
			return fail(err)
		}
		s, err := c.Simplify(f)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: s, String: s}

	case "latex":
		f, err := getString("expr")
		if err != nil {
			return fail(err)
		}
		l, err := c.Latex(f)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: l, LaTeX: l}

	case "history":
		if c.store == nil {
			return ToolResponse{Result: []interface{}{}}
		}
		records := c.store.Records()
		out := make([]map[string]interface{}, len(records))
		for i, r := range records {
			out[i] = map[string]interface{}{
				"id":         r.ID,
				"function":   r.Function,
				"lower":      r.Lower,
				"upper":      r.Upper,
				"indefinite": r.Indefinite,
				"definite":   r.Definite,
			}
		}
		return ToolResponse{Result: out, String: fmt.Sprintf("%d records", len(out))}

	case "schema":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool), Kind: calcerr.Validation.String()}
}

// ToolSpec describes every tool as JSON, for client registration.
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("integrate", "Indefinite integral of f(x) with respect to x", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("definite_integrate", "Definite integral of f(x) from a to b; limits may be oo, -oo or pi. Recorded in history", []string{"expr", "a", "b"}, map[string]string{"expr": "string", "a": "string", "b": "string"}),
		ts("derivative", "First derivative d/dx", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("simplify", "Simplify f(x), including sin²+cos²=1", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("latex", "Render f(x) as LaTeX", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("history", "List recorded calculations in order", []string{}, map[string]string{}),
		ts("schema", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
