package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comalice/calculatorx/internal/core"
	"github.com/comalice/calculatorx/internal/production"
)

func newTestTools(t *testing.T) *calcTools {
	t.Helper()
	rt := core.NewRuntime("mcp", core.WithVisualizer(&production.DefaultVisualizer{}))
	if err := rt.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { rt.Stop() })
	return &calcTools{rt: rt}
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestPressTool(t *testing.T) {
	tools := newTestTools(t)
	ctx := context.Background()

	tests := []struct {
		keys string
		want string
	}{
		{"12+3=", "15"},
		{"Escape 5 n", "-5"},
		{"c 9/0 Enter", "Error"},
		{"7", "7"},
		{"c 100/3=", "33.33333333"},
	}
	for _, tt := range tests {
		res, err := tools.press(ctx, call(map[string]any{"keys": tt.keys}))
		if err != nil {
			t.Fatal(err)
		}
		if res.IsError {
			t.Fatalf("press %q: %s", tt.keys, resultText(t, res))
		}
		if got := resultText(t, res); got != tt.want {
			t.Errorf("press %q = %q, want %q", tt.keys, got, tt.want)
		}
	}
}

func TestPressToolRejectsEmpty(t *testing.T) {
	tools := newTestTools(t)
	for _, args := range []map[string]any{{}, {"keys": "  "}, {"keys": "xyz?"}, {"keys": 12}} {
		res, err := tools.press(context.Background(), call(args))
		if err != nil {
			t.Fatal(err)
		}
		if !res.IsError {
			t.Errorf("expected tool error for %v", args)
		}
	}
}

func TestControlTool(t *testing.T) {
	tools := newTestTools(t)
	ctx := context.Background()
	for _, name := range []string{"digit-4", "multiply", "digit-2", "equals"} {
		res, err := tools.control(ctx, call(map[string]any{"name": name}))
		if err != nil || res.IsError {
			t.Fatalf("control %s: %v %v", name, err, res)
		}
	}
	res, _ := tools.control(ctx, call(map[string]any{"name": "negate"}))
	if got := resultText(t, res); got != "-8" {
		t.Errorf("got %q, want -8", got)
	}

	res, _ = tools.control(ctx, call(map[string]any{"name": "sqrt"}))
	if !res.IsError {
		t.Error("expected error for unknown control")
	}
}

func TestStateTool(t *testing.T) {
	tools := newTestTools(t)
	ctx := context.Background()
	if _, err := tools.press(ctx, call(map[string]any{"keys": "1234567890+"})); err != nil {
		t.Fatal(err)
	}
	res, err := tools.state(ctx, call(nil))
	if err != nil {
		t.Fatal(err)
	}
	var view stateView
	if err := json.Unmarshal([]byte(resultText(t, res)), &view); err != nil {
		t.Fatal(err)
	}
	if view.Session != "mcp" || view.Display != "1234567890" || !view.Compact {
		t.Errorf("unexpected view %+v", view)
	}
	if view.State.Previous != "1234567890" || view.State.Operator.String() != "add" {
		t.Errorf("unexpected state %+v", view.State)
	}
}

func TestChartTool(t *testing.T) {
	tools := newTestTools(t)
	res, err := tools.chart(context.Background(), call(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := resultText(t, res); !strings.Contains(got, "digraph Calculator") {
		t.Errorf("unexpected chart:\n%s", got)
	}
}

func TestNewMCPServer(t *testing.T) {
	tools := newTestTools(t)
	if s := newMCPServer(tools.rt, version); s == nil {
		t.Fatal("nil server")
	}
}
