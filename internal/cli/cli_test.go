package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const flipper = `# flips every bit, then halts on the blank
q0 10
qH
q0 1 q0 0 right
q0 0 q0 1 right
q0 _ qH _ stay
`

func writeConf(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machine.tms")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func testOptions(t *testing.T, text string) (Options, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return Options{ConfPath: writeConf(t, text), Stdout: &stdout, Stderr: &stderr}, &stdout, &stderr
}

func TestRun_Batch(t *testing.T) {
	opts, stdout, stderr := testOptions(t, flipper)

	err := Run(RunOptions{Options: opts, MaxSteps: 100})
	require.NoError(t, err)
	assert.Equal(t, "10\n00\n01_\n01_\n", stdout.String())
	assert.Contains(t, stderr.String(), `Halted in state "qH" after 3 steps.`)
}

func TestRun_ImplicitHalt(t *testing.T) {
	opts, stdout, stderr := testOptions(t, "q0 1\nqH\nq0 1 q1 0 right\n")

	err := Run(RunOptions{Options: opts, MaxSteps: 100})
	require.NoError(t, err, "no matching instruction ends the run successfully")
	assert.Equal(t, "1\n0_\n", stdout.String())
	assert.Contains(t, stderr.String(), `No instruction for state "q1" and symbol "_"`)
}

func TestRun_FatalErrors(t *testing.T) {
	opts, _, _ := testOptions(t, "q0 1\nqH\nq0 1 q0 1 left\n")
	err := Run(RunOptions{Options: opts, MaxSteps: 100})
	assert.ErrorIs(t, err, domain.ErrTapeUnderflow)

	opts, _, _ = testOptions(t, "q0 _\nqH\nq0 _ q0 _ right\n")
	err = Run(RunOptions{Options: opts, MaxSteps: 10})
	assert.ErrorIs(t, err, domain.ErrStepLimit)

	opts, _, _ = testOptions(t, "q0 1 q1\n")
	err = Run(RunOptions{Options: opts})
	assert.ErrorIs(t, err, domain.ErrMalformedLine)

	opts.ConfPath = filepath.Join(t.TempDir(), "missing.tms")
	err = Run(RunOptions{Options: opts})
	assert.ErrorIs(t, err, domain.ErrIo)
}

func TestRun_InteractiveNeedsTerminal(t *testing.T) {
	opts, _, _ := testOptions(t, flipper)
	err := Run(RunOptions{Options: opts, Interactive: true})
	assert.ErrorContains(t, err, "terminal")
}

func TestRun_CustomBlank(t *testing.T) {
	opts, stdout, _ := testOptions(t, "q0 1\nqH\nq0 1 q0 1 right\nq0 . qH 1 stay\n")
	opts.Blank = "."
	opts.Indexed = true

	require.NoError(t, Run(RunOptions{Options: opts, Quiet: true}))
	assert.Equal(t, "1\n1.\n11\n", stdout.String())

	opts.Blank = "ab"
	assert.ErrorContains(t, Run(RunOptions{Options: opts}), "single character")
}

func TestInfo_Formats(t *testing.T) {
	opts, stdout, _ := testOptions(t, flipper)

	require.NoError(t, Info(opts, FormatText))
	assert.Contains(t, stdout.String(), "## Instructions (3)")

	stdout.Reset()
	require.NoError(t, Info(opts, FormatYAML))
	var snap domain.Snapshot
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &snap))
	assert.Equal(t, "10", snap.Tape)
	assert.Equal(t, "qH", snap.HaltState)
	assert.Len(t, snap.Instructions, 3)
	assert.Empty(t, snap.Config)

	stdout.Reset()
	require.NoError(t, Info(opts, FormatJSON))
	assert.Contains(t, stdout.String(), `"halt_state": "qH"`)

	assert.ErrorContains(t, Info(opts, "xml"), "unknown format")
}

func TestGraph(t *testing.T) {
	opts, stdout, _ := testOptions(t, flipper)
	require.NoError(t, Graph(opts))

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "graph LR\n"))
	assert.Contains(t, out, `s0 -- "1/0,R" --> s0`)
	assert.Contains(t, out, "class s0 current;")
}

func TestValidate(t *testing.T) {
	opts, stdout, _ := testOptions(t, flipper)
	require.NoError(t, Validate(opts, FormatText))
	assert.Contains(t, stdout.String(), "is valid (3 instructions, 0 warnings)")

	opts, stdout, _ = testOptions(t, "q0 1\nq0 1 q1 1 right\n")
	err := Validate(opts, FormatText)
	require.Error(t, err)
	assert.Contains(t, stdout.String(), "missing halt state")

	stdout.Reset()
	_ = Validate(opts, FormatJSON)
	assert.Contains(t, stdout.String(), `"severity": "error"`)
}

func TestCreateLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tms.log")

	logger, closeLog, err := createLogger(false, path)
	require.NoError(t, err)
	logger.Info("hello", "error", "boom")
	logger.Debug("hidden")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")
	assert.Contains(t, string(data), "err=boom")
	assert.NotContains(t, string(data), "hidden")

	_, _, err = createLogger(false, filepath.Join(t.TempDir(), "missing", "tms.log"))
	assert.Error(t, err)
}

func TestNewHost_Stores(t *testing.T) {
	ctx := context.Background()
	conf := writeConf(t, flipper)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cases := map[string]HostOptions{
		"memory": {},
		"file":   {StoreDir: t.TempDir()},
		"redis":  {RedisURL: "redis://" + mr.Addr()},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			opts.ConfPath = conf
			h, err := newHost(opts)
			require.NoError(t, err)
			defer h.close()

			require.NoError(t, h.preload(ctx, opts.Options))
			snap, err := h.manager.Load(ctx, "default")
			require.NoError(t, err)
			assert.Equal(t, conf, snap.Source)
			assert.Equal(t, "10", snap.Tape)
		})
	}
}
