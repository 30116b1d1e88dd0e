// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toolReq builds a CallToolRequest with the given argument map.
func toolReq(args map[string]any) mcplib.CallToolRequest {
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// ─── New / options ────────────────────────────────────────────────────────────

func TestNew_noOptions(t *testing.T) {
	srv := New()
	require.NotNil(t, srv)
	assert.NotNil(t, srv.mcp)
	assert.Nil(t, srv.client) // no client by default
	assert.NotNil(t, srv.logger)
}

func TestNew_nilLogger(t *testing.T) {
	// A nil logger must not panic and must fall back to slog.Default().
	assert.NotPanics(t, func() {
		srv := New(WithLogger(nil))
		assert.NotNil(t, srv.logger)
	})
}

func TestNew_toolCount(t *testing.T) {
	srv := New()
	// the CRM table plus search
	assert.Len(t, srv.tools(), len(crmTools)+1)
}

func TestAddTool(t *testing.T) {
	srv := New()
	extra := mcpsrv.ServerTool{
		Tool: mcplib.NewTool("extra_tool", mcplib.WithDescription("extra")),
		Handler: func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
			return resultText("ok"), nil
		},
	}
	assert.NotPanics(t, func() {
		srv.AddTool(extra)
	})
}

func TestInstructions(t *testing.T) {
	got := instructions()
	assert.Contains(t, got, "HubSpot")
	assert.Contains(t, got, "contacts")
	assert.Contains(t, got, "deals")
}

// ─── result helpers ───────────────────────────────────────────────────────────

func TestResultText(t *testing.T) {
	r := resultText("hello")
	require.NotNil(t, r)
	assert.False(t, r.IsError)
	require.Len(t, r.Content, 1)
	txt, ok := r.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	assert.Equal(t, "hello", txt.Text)
}

func TestResultErr(t *testing.T) {
	r := resultErr(assert.AnError)
	require.NotNil(t, r)
	assert.True(t, r.IsError)
	require.Len(t, r.Content, 1)
	txt, ok := r.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	assert.Equal(t, assert.AnError.Error(), txt.Text)
}

func TestResultRaw(t *testing.T) {
	r := resultRaw(json.RawMessage(`{"id":"42"}`))
	require.NotNil(t, r)
	assert.False(t, r.IsError)
	require.Len(t, r.Content, 1)
	txt, ok := r.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	assert.Equal(t, `{"id":"42"}`, txt.Text, "raw JSON must be passed through unchanged")
}

func TestResultJSON(t *testing.T) {
	type payload struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	r, err := resultJSON(payload{ID: "101", Name: "Initech"})
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.False(t, r.IsError)
	require.Len(t, r.Content, 1)
	txt, ok := r.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	assert.Contains(t, txt.Text, "101")
	assert.Contains(t, txt.Text, "Initech")
}

// ─── argument helpers ─────────────────────────────────────────────────────────

func TestStringArg(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		argName string
		wantVal string
		wantOK  bool
	}{
		{
			name:    "present string",
			args:    map[string]any{"key": "value"},
			argName: "key",
			wantVal: "value",
			wantOK:  true,
		},
		{
			name:    "missing key",
			args:    map[string]any{},
			argName: "key",
			wantVal: "",
			wantOK:  false,
		},
		{
			name:    "wrong type",
			args:    map[string]any{"key": 42},
			argName: "key",
			wantVal: "",
			wantOK:  false,
		},
		{
			name:    "nil args",
			args:    nil,
			argName: "key",
			wantVal: "",
			wantOK:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := toolReq(tt.args)
			got, ok := stringArg(req, tt.argName)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantVal, got)
		})
	}
}

func TestIntArg(t *testing.T) {
	tests := []struct {
		name       string
		args       map[string]any
		argName    string
		defaultVal int
		want       int
	}{
		{
			name:       "float64 value",
			args:       map[string]any{"n": float64(42)},
			argName:    "n",
			defaultVal: 0,
			want:       42,
		},
		{
			name:       "int value",
			args:       map[string]any{"n": 7},
			argName:    "n",
			defaultVal: 0,
			want:       7,
		},
		{
			name:       "missing key uses default",
			args:       map[string]any{},
			argName:    "n",
			defaultVal: 99,
			want:       99,
		},
		{
			name:       "nil args uses default",
			args:       nil,
			argName:    "n",
			defaultVal: 5,
			want:       5,
		},
		{
			name:       "wrong type uses default",
			args:       map[string]any{"n": "not-a-number"},
			argName:    "n",
			defaultVal: 3,
			want:       3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := toolReq(tt.args)
			got := intArg(req, tt.argName, tt.defaultVal)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringSliceArg(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		argName string
		want    []string
	}{
		{
			name:    "string array",
			args:    map[string]any{"props": []any{"email", "firstname"}},
			argName: "props",
			want:    []string{"email", "firstname"},
		},
		{
			name:    "non-string elements skipped",
			args:    map[string]any{"props": []any{"email", 42, "lastname"}},
			argName: "props",
			want:    []string{"email", "lastname"},
		},
		{
			name:    "missing key",
			args:    map[string]any{},
			argName: "props",
			want:    nil,
		},
		{
			name:    "wrong type",
			args:    map[string]any{"props": "email"},
			argName: "props",
			want:    nil,
		},
		{
			name:    "nil args",
			args:    nil,
			argName: "props",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := toolReq(tt.args)
			assert.Equal(t, tt.want, stringSliceArg(req, tt.argName))
		})
	}
}

func TestObjectArg(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		argName string
		want    map[string]any
	}{
		{
			name:    "present object",
			args:    map[string]any{"properties": map[string]any{"email": "a@b.c"}},
			argName: "properties",
			want:    map[string]any{"email": "a@b.c"},
		},
		{
			name:    "missing key",
			args:    map[string]any{},
			argName: "properties",
			want:    nil,
		},
		{
			name:    "wrong type",
			args:    map[string]any{"properties": "email"},
			argName: "properties",
			want:    nil,
		},
		{
			name:    "nil args",
			args:    nil,
			argName: "properties",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := toolReq(tt.args)
			assert.Equal(t, tt.want, objectArg(req, tt.argName))
		})
	}
}

func TestArgPresent(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		argName string
		want    bool
	}{
		{"non-empty string", map[string]any{"id": "1"}, "id", true},
		{"empty string", map[string]any{"id": ""}, "id", false},
		{"object", map[string]any{"properties": map[string]any{}}, "properties", true},
		{"nil value", map[string]any{"id": nil}, "id", false},
		{"missing key", map[string]any{}, "id", false},
		{"nil args", nil, "id", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := toolReq(tt.args)
			assert.Equal(t, tt.want, argPresent(req, tt.argName))
		})
	}
}
