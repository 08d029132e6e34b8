package movecli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunner records invocations and plays back a canned result.
type mockRunner struct {
	name   string
	args   []string
	result Result
	err    error
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) (Result, error) {
	m.name = name
	m.args = args
	return m.result, m.err
}

func testCompiler(runner Runner) *Compiler {
	return NewCompiler("contract",
		WithRunner(runner),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestNamedAddress(t *testing.T) {
	assert.Equal(t, "cora_insurance=0xABC", NamedAddress("cora_insurance", "0xABC"))
}

func TestCompile_Arguments(t *testing.T) {
	runner := &mockRunner{result: Result{Stdout: "BUILDING cora\n"}}
	c := testCompiler(runner)

	result, err := c.Compile(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "BUILDING cora\n", result.Stdout)

	assert.Equal(t, DefaultBinary, runner.name)
	assert.Equal(t, []string{
		"move", "compile",
		"--package-dir", "contract",
		"--named-addresses", "cora_insurance=0xabc",
	}, runner.args)
}

func TestPublish_Arguments(t *testing.T) {
	runner := &mockRunner{}
	c := testCompiler(runner)

	_, err := c.Publish(context.Background(), "0xabc", "0xkey", "https://fullnode.testnet.aptoslabs.com/v1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"move", "publish",
		"--package-dir", "contract",
		"--named-addresses", "cora_insurance=0xabc",
		"--private-key", "0xkey",
		"--url", "https://fullnode.testnet.aptoslabs.com/v1",
		"--assume-yes",
	}, runner.args)
}

func TestCompile_NonZeroExit(t *testing.T) {
	runner := &mockRunner{result: Result{
		ExitCode: 1,
		Stderr:   "error[E01001]: unbound module\n",
	}}
	c := testCompiler(runner)

	_, err := c.Compile(context.Background(), "0xabc")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.ExitCode)
	assert.Contains(t, exitErr.Error(), "exited with status 1")
	assert.Contains(t, exitErr.Error(), "unbound module")
}

func TestCompile_RunnerFailure(t *testing.T) {
	runner := &mockRunner{err: errors.New("exec: \"aptos\": executable file not found in $PATH")}
	c := testCompiler(runner)

	_, err := c.Compile(context.Background(), "0xabc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestWithModuleName(t *testing.T) {
	runner := &mockRunner{}
	c := NewCompiler("contract",
		WithRunner(runner),
		WithModuleName("policy_registry"),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	_, err := c.Compile(context.Background(), "0xdef")
	require.NoError(t, err)
	assert.Contains(t, runner.args, "policy_registry=0xdef")
}

func TestExecRunner_CapturesExitCode(t *testing.T) {
	result, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "out\n", result.Stdout)
	assert.Equal(t, "err\n", result.Stderr)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "definitely-not-a-real-binary-xyz")
	require.Error(t, err)
}
