package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleText = "It was the best of times, it was the worst of times,\n" +
	"it was the age of wisdom, it was the age of foolishness,\n" +
	"it was the epoch of belief, it was the epoch of incredulity\n"

func runCmd(t *testing.T, stdin []byte, args ...string) (stdout []byte, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, bytes.NewReader(stdin), &out, &errOut)
	return out.Bytes(), errOut.String(), code
}

func TestRun_RoundTrip(t *testing.T) {
	for _, tokens := range []string{"chars", "words"} {
		t.Run(tokens, func(t *testing.T) {
			compressed, stderr, code := runCmd(t, []byte(sampleText), "-tokens", tokens, "-workers", "2")
			require.Equal(t, 0, code, stderr)
			require.True(t, bytes.HasPrefix(compressed, []byte("HUF2")))

			plain, stderr, code := runCmd(t, compressed, "-mode", "decompress", "-tokens", tokens)
			require.Equal(t, 0, code, stderr)
			require.Equal(t, sampleText, string(plain))
		})
	}
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	packed := filepath.Join(dir, "in.huf")
	out := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(in, []byte(sampleText), 0o644))

	_, stderr, code := runCmd(t, nil, "-in", in, "-out", packed, "-stats")
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stderr, "compression ratio:")
	require.Contains(t, stderr, "bytes in")

	_, stderr, code = runCmd(t, nil, "-mode", "decompress", "-in", packed, "-out", out)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, sampleText, string(data))
}

func TestRun_Verbose(t *testing.T) {
	_, stderr, code := runCmd(t, []byte("abracadabra\n"), "-v")
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stderr, "kind=tree-built")
	require.Contains(t, stderr, "kind=table-generated")
	require.Contains(t, stderr, "kind=encoded")
}

func TestRun_Errors(t *testing.T) {
	type testRow struct {
		name  string
		stdin string
		args  []string
		log   string
	}

	testData := [...]testRow{
		{"bad-mode", "", []string{"-mode", "squash"}, "invalid flags"},
		{"bad-tokens", "", []string{"-tokens", "bytes"}, "invalid flags"},
		{"bad-workers", "", []string{"-workers", "0"}, "invalid flags"},
		{"extra-args", "", []string{"file.txt"}, "invalid flags"},
		{"empty-input", "", nil, "empty frequency table"},
		{"not-a-payload", "hello", []string{"-mode", "decompress"}, "bad magic"},
		{"missing-file", "", []string{"-in", filepath.Join(t.TempDir(), "nope")}, "huffpress failed"},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			_, stderr, code := runCmd(t, []byte(row.stdin), row.args...)
			require.Equal(t, 1, code)
			require.True(t, strings.Contains(stderr, row.log), "stderr: %s", stderr)
		})
	}
}

func TestRun_Help(t *testing.T) {
	_, stderr, code := runCmd(t, nil, "-h")
	require.Equal(t, 0, code)
	require.Contains(t, stderr, "-tokens")
}

func TestRun_NonASCII(t *testing.T) {
	type testRow struct {
		name   string
		input  string
		tokens string
		fail   bool
	}

	testData := [...]testRow{
		{"chars-multibyte", "café ☃ 日本語\nnaïve\n", "chars", false},
		{"chars-replacement", "literal � stays\n", "chars", false},
		{"chars-invalid", "caf\xe9 latin1\n", "chars", true},
		{"words-multibyte", "café ☃ 日本語\nnaïve\n", "words", false},
		{"words-replacement", "literal � stays\n", "words", false},
		{"words-invalid", "caf\xe9 latin1\n\xff\xfe raw\n", "words", false},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			compressed, stderr, code := runCmd(t, []byte(row.input), "-tokens", row.tokens)
			if row.fail {
				require.Equal(t, 1, code)
				require.Contains(t, stderr, "invalid UTF-8")
				require.Contains(t, stderr, "line 1")
				require.Empty(t, compressed)
				return
			}
			require.Equal(t, 0, code, stderr)

			plain, stderr, code := runCmd(t, compressed, "-mode", "decompress", "-tokens", row.tokens)
			require.Equal(t, 0, code, stderr)
			require.Equal(t, []byte(row.input), plain)
		})
	}
}

func TestRun_SameInputAndOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text")
	require.NoError(t, os.WriteFile(path, []byte(sampleText), 0o644))

	_, stderr, code := runCmd(t, nil, "-in", path, "-out", path)
	require.Equal(t, 0, code, stderr)

	_, stderr, code = runCmd(t, nil, "-mode", "decompress", "-in", path, "-out", path)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, sampleText, string(data))
}

func TestRun_FailureLeavesOutputAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o644))

	_, _, code := runCmd(t, []byte("caf\xe9\n"), "-out", path)
	require.Equal(t, 1, code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "keep", string(data))
}
