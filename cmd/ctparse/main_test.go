package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRef = "2022-03-10T10:00:00Z"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, "", args...)
}

func runWithInput(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(in))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "parse", "--data", t.TempDir(), "--ref", testRef, "tomorrow", "at", "5pm")
	require.NoError(t, err)
	assert.Contains(t, out, "2022-03-11 17:00 (X/X)")
	assert.Contains(t, out, `"tomorrow at 5pm"`)
	assert.Contains(t, out, "[2022-03-11 17:00, 2022-03-11 18:00)")
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(out), "\n")+1)

	out, err = run(t, "parse", "--data", t.TempDir(), "--ref", testRef, "--all", "tomorrow", "at", "5pm")
	require.NoError(t, err)
	assert.Greater(t, strings.Count(strings.TrimSpace(out), "\n")+1, 1)

	out, err = run(t, "parse", "--data", t.TempDir(), "--ref", testRef, "--tz", "Pacific/Kiritimati", "tomorrow")
	require.NoError(t, err)
	assert.Contains(t, out, "2022-03-12 X:X (X/X)")

	out, err = run(t, "parse", "--data", t.TempDir(), "--ref", testRef, "xyzzy")
	require.NoError(t, err)
	assert.Equal(t, "no parse\n", out)
}

func TestParseCommand_Stdin(t *testing.T) {
	out, err := runWithInput(t, "tomorrow at 5pm\n\nxyzzy\n  next Monday  \n",
		"parse", "--data", t.TempDir(), "--ref", testRef, "--stdin", "--concurrency", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], `"tomorrow at 5pm"`))
	assert.Contains(t, lines[0], "2022-03-11 17:00 (X/X)")
	assert.True(t, strings.HasPrefix(lines[1], `"xyzzy"`))
	assert.Contains(t, lines[1], "no parse")
	assert.True(t, strings.HasPrefix(lines[2], `"next Monday"`))
	assert.Contains(t, lines[2], "2022-03-14 X:X (X/X)")

	_, err = runWithInput(t, "tomorrow\n", "parse", "--data", t.TempDir(), "--stdin", "tomorrow")
	assert.Error(t, err)
}

func TestParseCommand_BadInput(t *testing.T) {
	_, err := run(t, "parse", "--data", t.TempDir(), "--ref", "yesterday", "tomorrow")
	assert.ErrorContains(t, err, "RFC 3339")

	_, err = run(t, "parse", "--data", t.TempDir(), "--lang", "fr", "tomorrow")
	assert.Error(t, err)

	_, err = run(t, "parse", "--data", t.TempDir(), "--driver", "mysql", "tomorrow")
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestCorpusCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "corpus", "add", "--data", dir, "--ref", testRef, "--expected", "2022-03-11 17:00 (X/X)", "--entry-lang", "en", "tomorrow at 5pm")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Added entry: "))
	uid := strings.TrimSpace(strings.TrimPrefix(out, "Added entry: "))

	_, err = run(t, "corpus", "add", "--data", dir, "--ref", testRef, "tomorrow")
	assert.Error(t, err, "expected is required")

	out, err = run(t, "corpus", "list", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, uid)
	assert.Contains(t, out, `"tomorrow at 5pm"`)

	out, err = run(t, "corpus", "list", "--data", dir, "--entry-lang", "de")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = run(t, "corpus", "delete", "--data", dir, uid)
	require.NoError(t, err)
	out, err = run(t, "corpus", "list", "--data", dir)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTrainAndEval(t *testing.T) {
	dir := t.TempDir()
	jsonl := filepath.Join(dir, "corpus.jsonl")
	require.NoError(t, os.WriteFile(jsonl, []byte(strings.Join([]string{
		`{"text":"tomorrow at 5pm","reference":"2022-03-10T10:00:00Z","expected":"2022-03-11 17:00 (X/X)"}`,
		`{"text":"next Monday","reference":"2022-03-10T10:00:00Z","expected":"2022-03-14 X:X (X/X)"}`,
		``,
		`{"text":"morgen um 17 Uhr","reference":"2022-03-10T10:00:00Z","expected":"2022-03-11 17:00 (X/X)","lang":"de"}`,
	}, "\n")), 0o600))

	out, err := run(t, "corpus", "import", "--data", dir, jsonl)
	require.NoError(t, err)
	assert.Equal(t, "Imported 3 entries\n", out)

	model := filepath.Join(dir, "model.gz")
	out, err = run(t, "train", "--data", dir, "--out", model, "--concurrency", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+model)
	assert.FileExists(t, model)

	out, err = run(t, "train", "--data", dir, "--out", model, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "  ruleTomorrow\n")

	out, err = run(t, "eval", "--data", dir, "--model", model, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "accuracy")
	assert.Contains(t, out, "/3)")

	out, err = run(t, "parse", "--data", dir, "--model", model, "--ref", testRef, "tomorrow", "at", "5pm")
	require.NoError(t, err)
	assert.Contains(t, out, "2022-03-11 17:00 (X/X)")
}

func TestEval_EmptyCorpus(t *testing.T) {
	_, err := run(t, "eval", "--data", t.TempDir())
	assert.ErrorContains(t, err, "corpus is empty")
}

func TestLoadScorer_MissingModel(t *testing.T) {
	_, err := run(t, "parse", "--data", t.TempDir(), "--model", filepath.Join(t.TempDir(), "nope.gz"), "tomorrow")
	assert.ErrorContains(t, err, "failed to load scorer model")
}
