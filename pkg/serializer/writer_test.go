// Copyright (c) 2025, Red Hat, Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type testResponse struct {
	Rule    string            `json:"rule" yaml:"rule"`
	Key     string            `json:"key" yaml:"key"`
	Details map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}

type testResponses []testResponse

func (r testResponses) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(r))
	for _, resp := range r {
		rows = append(rows, []string{resp.Rule, resp.Key})
	}
	return []string{"RULE", "KEY"}, rows
}

var testData = []testResponse{
	{Rule: "cpu_vulnerable", Key: "CPU_VULNERABLE"},
	{Rule: "soft_lockup", Key: "SOFT_LOCKUP", Details: map[string]string{"count": "3"}},
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	if err := writer.Serialize(context.Background(), testData); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testResponse
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(result))
	}
	if result[1].Details["count"] != "3" {
		t.Errorf("Unexpected data: %+v", result[1])
	}
	if !strings.Contains(buf.String(), "\n  {") {
		t.Error("Expected indented JSON")
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	if err := writer.Serialize(context.Background(), testData); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testResponse
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}
	if len(result) != 2 || result[0].Rule != "cpu_vulnerable" {
		t.Errorf("Unexpected data: %+v", result)
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), testData); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	output := buf.String()
	if !strings.HasPrefix(output, "FIELD") || !strings.Contains(output, "VALUE") {
		t.Errorf("Expected table header, got %q", output)
	}
	if !strings.Contains(output, "[0].Rule") || !strings.Contains(output, "[1].Details.count") {
		t.Errorf("Expected flattened keys, got %q", output)
	}
}

func TestWriter_SerializeTable_Tabler(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), testResponses(testData)); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "RULE") || !strings.HasPrefix(lines[1], "----") {
		t.Errorf("Unexpected header: %q", lines[:2])
	}
	if !strings.HasPrefix(lines[3], "soft_lockup") || !strings.HasSuffix(lines[3], "SOFT_LOCKUP") {
		t.Errorf("Unexpected row: %q", lines[3])
	}
}

func TestWriter_SerializeTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), map[string]string{}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "<empty>" {
		t.Errorf("Expected <empty>, got %q", buf.String())
	}
}

func TestWriter_SerializeTable_NilValues(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	var missing *testResponse
	data := map[string]any{"missing": missing, "scalar": 42}
	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "missing") || !strings.Contains(output, "<nil>") {
		t.Errorf("Expected nil entry, got %q", output)
	}
	if !strings.Contains(output, "42") {
		t.Errorf("Expected scalar entry, got %q", output)
	}
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter("invalid", &buf)

	if err := writer.Serialize(context.Background(), testData[0]); err != nil {
		t.Fatalf("Serialize should fall back to JSON: %v", err)
	}

	var result testResponse
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal as JSON: %v", err)
	}
	if result.Key != "CPU_VULNERABLE" {
		t.Errorf("Unexpected data: %+v", result)
	}
}

func TestFormat_IsUnknown(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{"xml", true},
		{"", true},
	}
	for _, tt := range tests {
		if got := tt.format.IsUnknown(); got != tt.want {
			t.Errorf("Format(%q).IsUnknown() = %v, want %v", tt.format, got, tt.want)
		}
	}
	if len(SupportedFormats()) != 3 {
		t.Errorf("SupportedFormats() = %v", SupportedFormats())
	}
}

func TestNewFileWriterOrStdout(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		for _, path := range []string{"", "  ", "\t"} {
			writer := NewFileWriterOrStdout(FormatJSON, path)
			if writer.output != os.Stdout {
				t.Errorf("Expected stdout for path %q", path)
			}
			if err := writer.Close(); err != nil {
				t.Errorf("Close failed: %v", err)
			}
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.yaml")
		writer := NewFileWriterOrStdout(FormatYAML, path)
		if err := writer.Serialize(context.Background(), testData); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read output file: %v", err)
		}
		if !strings.Contains(string(content), "rule: soft_lockup") {
			t.Errorf("Unexpected file content: %s", content)
		}
	})

	t.Run("invalid path falls back to stdout", func(t *testing.T) {
		writer := NewFileWriterOrStdout(FormatJSON, "/nonexistent/path/report.json")
		if writer.output != os.Stdout {
			t.Error("Expected stdout fallback")
		}
	})
}
