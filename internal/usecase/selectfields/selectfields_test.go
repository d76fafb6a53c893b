package selectfields

import (
	"testing"

	"github.com/alignedworks/cvx/internal/domain"
)

func TestParseRule(t *testing.T) {
	r, err := ParseRule("name=$.data.name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name != "name" || r.Expr != "$.data.name" {
		t.Fatalf("unexpected rule: %+v", r)
	}

	r, err = ParseRule(" $.id ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name != "$.id" || r.Expr != "$.id" {
		t.Fatalf("bare expression should name itself, got %+v", r)
	}

	for _, bad := range []string{"", "  ", "=$.x", "name="} {
		if _, err := ParseRule(bad); !domain.IsKind(err, domain.KindInvalidConfig) {
			t.Fatalf("ParseRule(%q): expected invalid_config, got %v", bad, err)
		}
	}
}

func TestApply_EmptyRules(t *testing.T) {
	if got := Apply([]byte(`{"a":1}`), nil); len(got) != 0 {
		t.Fatalf("expected no fields, got %v", got)
	}
}

func TestApply_KeepsRuleOrder(t *testing.T) {
	body := []byte(`{"name":"Makers","tokensCreated":1000000,"members":[{"email":"a@x.io"}],"active":true}`)
	rules := []Rule{
		{Name: "tokens", Expr: "$.tokensCreated"},
		{Name: "name", Expr: "$.name"},
		{Name: "first", Expr: "$.members[0].email"},
		{Name: "active", Expr: "$.active"},
	}

	got := Apply(body, rules)
	want := []string{"1000000", "Makers", "a@x.io", "true"}
	if len(got) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(got))
	}
	for i, f := range got {
		if !f.OK {
			t.Fatalf("field %q failed: %s", f.Name, f.Message)
		}
		if f.Name != rules[i].Name || f.Value != want[i] {
			t.Fatalf("field %d: expected %s=%s, got %s=%s", i, rules[i].Name, want[i], f.Name, f.Value)
		}
	}
}

func TestApply_NonJSONBodyFailsAll(t *testing.T) {
	got := Apply([]byte("<html>"), []Rule{{Name: "a", Expr: "$.a"}, {Name: "b", Expr: "$.b"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(got))
	}
	for _, f := range got {
		if f.OK || f.Message == "" {
			t.Fatalf("expected failure with message, got %+v", f)
		}
	}
}

func TestApply_MissingAndEmptyValues(t *testing.T) {
	body := []byte(`{"name":"","tags":[],"id":"c1"}`)
	got := Apply(body, []Rule{
		{Name: "missing", Expr: "$.nope"},
		{Name: "name", Expr: "$.name"},
		{Name: "tags", Expr: "$.tags"},
		{Name: "id", Expr: "$.id"},
	})
	for _, f := range got[:3] {
		if f.OK {
			t.Fatalf("expected %q to fail, got %+v", f.Name, f)
		}
	}
	if !got[3].OK || got[3].Value != "c1" {
		t.Fatalf("expected id=c1, got %+v", got[3])
	}
}

func TestApply_ObjectRendersAsJSON(t *testing.T) {
	got := Apply([]byte(`{"user":{"id":7}}`), []Rule{{Name: "user", Expr: "$.user"}})
	if !got[0].OK || got[0].Value != `{"id":7}` {
		t.Fatalf("unexpected field: %+v", got[0])
	}
}
