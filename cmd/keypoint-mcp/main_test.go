package main

import (
	"bytes"
	"strings"
	"testing"
)

func envFrom(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		input   string
		wantErr string
		wantOut string
	}{
		{
			name:    "ping",
			env:     map[string]string{"KEYPOINT_MCP_MAX_HANDLES": "2"},
			input:   `{"jsonrpc":"2.0","id":7,"method":"ping"}` + "\n",
			wantOut: `"id":7`,
		},
		{
			name:  "empty input",
			env:   nil,
			input: "",
		},
		{
			name:    "bad configuration",
			env:     map[string]string{"KEYPOINT_MCP_THREADS": "many"},
			input:   `{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n",
			wantErr: "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(envFrom(tt.env), strings.NewReader(tt.input), &out)

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error: got %v, want %q", err, tt.wantErr)
				}
				if out.Len() != 0 {
					t.Errorf("output on configuration error: %q", out.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output %q missing %q", out.String(), tt.wantOut)
			}
		})
	}
}
