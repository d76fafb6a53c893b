// Package selectfields picks named values out of a raw API response with JSONPath.
package selectfields

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	jsoniter "github.com/json-iterator/go"

	"github.com/alignedworks/cvx/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Rule binds a field name to a JSONPath expression.
type Rule struct {
	Name string
	Expr string
}

// ParseRule parses "name=$.expr". A bare expression names the field after itself.
func ParseRule(s string) (Rule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rule{}, &domain.OpError{Op: "select.parse", Kind: domain.KindInvalidConfig, Err: fmt.Errorf("%w: empty selector", domain.ErrInvalidRequest)}
	}
	name, expr, found := strings.Cut(s, "=")
	if !found {
		return Rule{Name: s, Expr: s}, nil
	}
	name, expr = strings.TrimSpace(name), strings.TrimSpace(expr)
	if name == "" || expr == "" {
		return Rule{}, &domain.OpError{Op: "select.parse", Kind: domain.KindInvalidConfig, Err: fmt.Errorf("%w: selector %q needs name=expr", domain.ErrInvalidRequest, s)}
	}
	return Rule{Name: name, Expr: expr}, nil
}

// Field is the outcome of one rule.
type Field struct {
	Name    string `json:"name"`
	Expr    string `json:"expr"`
	Value   string `json:"value,omitempty"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Apply evaluates rules in order against body.
//
// A body that is not JSON fails every rule. A failing rule does not stop the rest.
func Apply(body []byte, rules []Rule) []Field {
	out := make([]Field, 0, len(rules))
	if len(rules) == 0 {
		return out
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		for _, r := range rules {
			out = append(out, Field{Name: r.Name, Expr: r.Expr, Message: "response body is not valid JSON"})
		}
		return out
	}

	for _, r := range rules {
		f := Field{Name: r.Name, Expr: r.Expr}
		val, err := jsonpath.Get(r.Expr, doc)
		switch {
		case err != nil:
			f.Message = fmt.Sprintf("jsonpath error: %v", err)
		case isEmpty(val):
			f.Message = "no value found"
		default:
			s, convErr := toString(val)
			if convErr != nil {
				f.Message = fmt.Sprintf("cannot render value: %v", convErr)
				break
			}
			f.Value, f.OK = s, true
		}
		out = append(out, f)
	}
	return out
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) (string, error) {
	// Wildcard paths return a slice; a single hit reads like a scalar.
	if arr, ok := v.([]any); ok && len(arr) == 1 {
		return toString(arr[0])
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return fmt.Sprint(t), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
