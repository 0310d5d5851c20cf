package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/comalice/calculatorx"
	"github.com/comalice/calculatorx/internal/core"
	"github.com/comalice/calculatorx/internal/extensibility"
)

// calcTools exposes one calculator session as MCP tools.
type calcTools struct {
	rt *core.Runtime
}

// stateView is the JSON shape returned by the state tool.
type stateView struct {
	Session string            `json:"session"`
	Display string            `json:"display"`
	Compact bool              `json:"compact"`
	State   calculatorx.State `json:"state"`
}

func newMCPServer(rt *core.Runtime, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"calc-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
	)
	t := &calcTools{rt: rt}

	s.AddTool(mcp.NewTool("press",
		mcp.WithDescription("Press calculator keys in order and return the display. Keys are whitespace-separated tokens; "+
			"single-character keys may be run together (\"12+3=\"). Named keys: Enter, Escape, Backspace, and n for sign toggle."),
		mcp.WithString("keys",
			mcp.Required(),
			mcp.Description("Key sequence, e.g. \"12+3=\" or \"5 n Enter\""),
		),
	), t.press)

	s.AddTool(mcp.NewTool("control",
		mcp.WithDescription("Activate one on-screen control and return the display"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("digit-0..digit-9, decimal, add, subtract, multiply, divide, equals, clear, delete, negate or percent"),
		),
	), t.control)

	s.AddTool(mcp.NewTool("state",
		mcp.WithDescription("Return the calculator state as JSON"),
	), t.state)

	s.AddTool(mcp.NewTool("chart",
		mcp.WithDescription("Return the Normal/Error chart as Graphviz DOT with the current phase highlighted"),
	), t.chart)

	return s
}

func (t *calcTools) press(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	keys, ok := args["keys"].(string)
	if !ok || strings.TrimSpace(keys) == "" {
		return mcp.NewToolResultError("keys is required"), nil
	}

	var events []calculatorx.Event
	for _, token := range strings.Fields(keys) {
		events = append(events, extensibility.ParseTokens(token)...)
	}
	if len(events) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no recognized keys in %q", keys)), nil
	}

	st := t.rt.State()
	for _, ev := range events {
		var err error
		if st, err = t.rt.Do(ctx, ev); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", ev, err)), nil
		}
	}
	text, _ := st.Display()
	return mcp.NewToolResultText(text), nil
}

func (t *calcTools) control(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	name, ok := args["name"].(string)
	if !ok {
		return mcp.NewToolResultError("name is required"), nil
	}
	ev, ok := calculatorx.ParseControl(strings.TrimSpace(name))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown control %q", name)), nil
	}
	st, err := t.rt.Do(ctx, ev)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, _ := st.Display()
	return mcp.NewToolResultText(text), nil
}

func (t *calcTools) state(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := t.rt.State()
	text, compact := st.Display()
	data, err := json.MarshalIndent(stateView{
		Session: t.rt.SessionID(),
		Display: text,
		Compact: compact,
		State:   st,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal state: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (t *calcTools) chart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(t.rt.Visualize()), nil
}
