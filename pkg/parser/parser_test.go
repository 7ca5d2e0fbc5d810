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

package parser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

var (
	singleSpec = datasource.SimpleFile("parser_test_single", "/etc/single")
	multiSpec  = datasource.Glob("parser_test_multi", []string{"/etc/multi/*"})

	upper = New("parser_test_upper", singleSpec, func(c *datasource.Content) (string, error) {
		return strings.ToUpper(c.Text()), nil
	})

	firstWord = New("parser_test_first_word", multiSpec, func(c *datasource.Content) (string, error) {
		if strings.HasPrefix(c.Text(), "skip") {
			return "", cerrors.Skip("skipped")
		}
		return strings.Fields(c.Text())[0], nil
	})
)

func archive(t *testing.T, files map[string]string) datasource.Context {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return datasource.NewArchiveContext(root)
}

func run(t *testing.T, dc datasource.Context, targets ...*dr.Component) *dr.Broker {
	t.Helper()
	b := dr.NewBroker()
	b.Set(datasource.ContextComponent, dc)
	require.NoError(t, dr.Run(context.Background(), b, targets))
	return b
}

func TestNew_Single(t *testing.T) {
	dc := archive(t, map[string]string{"etc/single": "hello\n"})
	b := run(t, dc, upper.Component())

	v, ok := upper.Value(b)
	require.True(t, ok)
	assert.Equal(t, "HELLO", v)
	assert.Equal(t, "parsers.parser_test_upper", upper.Component().Name)
	assert.Equal(t, dr.KindParser, upper.Component().Kind)
}

func TestNew_MissingSpecIsMissing(t *testing.T) {
	b := run(t, archive(t, nil), upper.Component())
	assert.Equal(t, dr.StatusMissing, b.Status(upper.Component()))
	assert.Equal(t, dr.StatusSkip, b.Status(singleSpec.Component()))
}

func TestNew_Multi(t *testing.T) {
	dc := archive(t, map[string]string{
		"etc/multi/a": "alpha one\n",
		"etc/multi/b": "skip me\n",
		"etc/multi/c": "gamma three\n",
	})
	b := run(t, dc, firstWord.Component())

	v, ok := firstWord.Values(b)
	require.True(t, ok)
	assert.Equal(t, []string{"alpha", "gamma"}, v)
}

func TestNew_MultiAllSkipped(t *testing.T) {
	dc := archive(t, map[string]string{"etc/multi/a": "skip\n"})
	b := run(t, dc, firstWord.Component())
	assert.Equal(t, dr.StatusSkip, b.Status(firstWord.Component()))
}

func TestParseText(t *testing.T) {
	v, err := upper.ParseText("abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", v)
}

func TestParseKeyValue(t *testing.T) {
	lines := []string{
		"# comment",
		`NAME="Red Hat Enterprise Linux"`,
		"",
		"VERSION_ID = 9.2",
		"FLAG",
		"EMPTY=",
	}

	got := ParseKeyValue(lines, WithVTrimChars(`"`))
	assert.Equal(t, map[string]string{
		"NAME":       "Red Hat Enterprise Linux",
		"VERSION_ID": "9.2",
		"FLAG":       "",
		"EMPTY":      "",
	}, got)

	got = ParseKeyValue(lines, WithSkipEmptyValues(true))
	assert.NotContains(t, got, "FLAG")
	assert.NotContains(t, got, "EMPTY")

	got = ParseKeyValue([]string{"a: 1", "b"}, WithKVDelimiter(":"), WithVDefault("true"))
	assert.Equal(t, map[string]string{"a": "1", "b": "true"}, got)
}

func TestCleanLines(t *testing.T) {
	lines := []string{"  a  ", "", "# c", "; d", "e"}
	assert.Equal(t, []string{"a", "; d", "e"}, CleanLines(lines))
	assert.Equal(t, []string{"a", "e"}, CleanLines(lines, WithCommentChars("#;")))
	assert.Equal(t, []string{"a", "# c", "; d", "e"}, CleanLines(lines, WithSkipComments(false)))
}

func TestParseTable(t *testing.T) {
	rows, err := ParseTable([]string{
		"ID        STATUS    NAME",
		"baseos    enabled   BaseOS",
		"appstream enabled   Red Hat AppStream (RPMs)",
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "baseos", rows[0]["ID"])
	assert.Equal(t, "enabled", rows[0]["STATUS"])
	assert.Equal(t, "Red Hat AppStream (RPMs)", rows[1]["NAME"])

	_, err = ParseTable(nil)
	assert.True(t, cerrors.IsSkip(err))

	_, err = ParseTable([]string{"A B C", "only"})
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeParse))
}

func TestSplitFieldsN(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c  d"}, SplitFieldsN("  a b\tc  d ", 3))
	assert.Equal(t, []string{"a"}, SplitFieldsN("a", 3))
	assert.Nil(t, SplitFieldsN("a", 0))
}

func TestValidate(t *testing.T) {
	assert.True(t, cerrors.IsSkip(Validate([]string{"", "  "})))
	assert.True(t, cerrors.Is(Validate([]string{"bash: grubby: command not found"}), cerrors.ErrCodeContent))
	assert.True(t, cerrors.Is(CommandErrors([]string{"/usr/bin/ls: cannot access '/x': No such file or directory"}), cerrors.ErrCodeContent))
	assert.NoError(t, Validate([]string{"index=0"}))
}
