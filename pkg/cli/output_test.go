package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
)

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name string
		data interface{}
		want string
	}{
		{
			name: "string",
			data: "test message",
			want: "test message\n",
		},
		{
			name: "lines",
			data: []string{"1. /var/statistics/achistory/history_2 (date) (ok)", "2. /var/statistics/achistory/history_1 (date) (failed)"},
			want: "1. /var/statistics/achistory/history_2 (date) (ok)\n2. /var/statistics/achistory/history_1 (date) (failed)\n",
		},
		{
			name: "no lines",
			data: []string{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{}

			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if string(output) != tt.want {
				t.Errorf("Format() = %q, want %q", string(output), tt.want)
			}

			buf := &bytes.Buffer{}
			if err := formatter.FormatTo(buf, tt.data); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("FormatTo() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   interface{}
		indent bool
	}{
		{
			name:   "simple string",
			data:   "test",
			indent: false,
		},
		{
			name: "map with indent",
			data: map[string]string{
				"key": "value",
			},
			indent: true,
		},
		{
			name: "struct",
			data: struct {
				Name    string `json:"name"`
				Success bool   `json:"success"`
			}{
				Name:    "history_1_via_api",
				Success: true,
			},
			indent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}
			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			var result interface{}
			if err := json.Unmarshal(output, &result); err != nil {
				t.Errorf("Format() produced invalid JSON: %v", err)
			}
		})
	}
}

func TestJSONFormatterWriter(t *testing.T) {
	formatter := &JSONFormatter{Indent: true}
	data := map[string]string{"test": "value"}
	buf := &bytes.Buffer{}

	if err := formatter.FormatTo(buf, data); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var result map[string]string
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Errorf("FormatTo() produced invalid JSON: %v", err)
	}
	if result["test"] != "value" {
		t.Errorf("FormatTo() = %v, want %v", result, data)
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
		want   string
	}{
		{name: "text formatter", format: FormatText, want: "*cli.TextFormatter"},
		{name: "json formatter", format: FormatJSON, want: "*cli.JSONFormatter"},
		{name: "default to text", format: "unknown", want: "*cli.TextFormatter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fmt.Sprintf("%T", NewFormatter(tt.format))
			if got != tt.want {
				t.Errorf("NewFormatter(%q) type = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input     string
		want      OutputFormat
		wantError bool
	}{
		{input: "", want: FormatText},
		{input: "text", want: FormatText},
		{input: "JSON", want: FormatJSON},
		{input: "csv", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			if (err != nil) != tt.wantError {
				t.Fatalf("ParseOutputFormat(%q) error = %v, wantError %v", tt.input, err, tt.wantError)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
