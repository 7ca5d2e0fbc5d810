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

package rules

// ResponseType classifies a rule response.
type ResponseType string

const (
	// TypeFail reports a detected problem.
	TypeFail ResponseType = "rule"
	// TypePass reports that the checked problem is absent.
	TypePass ResponseType = "pass"
	// TypeInfo reports information without a verdict.
	TypeInfo ResponseType = "info"
)

// ParseResponseType maps "fail", "pass" and "info" (or the type values
// themselves) to a ResponseType.
func ParseResponseType(s string) (ResponseType, bool) {
	switch s {
	case "fail", string(TypeFail):
		return TypeFail, true
	case string(TypePass):
		return TypePass, true
	case string(TypeInfo):
		return TypeInfo, true
	}
	return "", false
}

// Response is the outcome of a rule.
type Response struct {
	Type    ResponseType   `json:"type" yaml:"type"`
	Key     string         `json:"error_key" yaml:"error_key"`
	Rule    string         `json:"rule_id" yaml:"rule_id"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// MakeFail reports a problem identified by key.
func MakeFail(key string, details map[string]any) *Response {
	return &Response{Type: TypeFail, Key: key, Details: details}
}

// MakePass reports that the problem identified by key is absent.
func MakePass(key string, details map[string]any) *Response {
	return &Response{Type: TypePass, Key: key, Details: details}
}

// MakeInfo reports information under key.
func MakeInfo(key string, details map[string]any) *Response {
	return &Response{Type: TypeInfo, Key: key, Details: details}
}
