package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTraceCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{})
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTraceLinear(t *testing.T) {
	out, err := runTraceCommand(t,
		"--from", "0", "--to", "5",
		"--easing", "linear", "--force", "1", "--precision", "1",
	)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "trace_linear", []byte(out))
}

func TestTraceEaseOut(t *testing.T) {
	out, err := runTraceCommand(t, "--from", "0", "--to", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "t=0.0 start 0.00", lines[0])
	assert.Equal(t, "t=0.0 step 0.00", lines[1])
	assert.True(t, strings.HasSuffix(lines[len(lines)-2], "stop 1.00"))
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "value=1.00 converged=true"))
}

func TestTraceFrameLimit(t *testing.T) {
	out, err := runTraceCommand(t,
		"--from", "0", "--to", "100",
		"--easing", "linear", "--force", "1", "--precision", "1",
		"--frames", "3",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "frames=3 value=3 converged=false")
	assert.NotContains(t, out, "stop")
}

func TestTraceErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown easing", []string{"--easing", "bounce"}, "easing"},
		{"force out of range", []string{"--force", "2"}, "force"},
		{"bad interval", []string{"--interval", "0"}, "interval"},
		{"bad frames", []string{"--frames", "0"}, "frames"},
		{"extra args", []string{"now"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runTraceCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPrecisionDecimals(t *testing.T) {
	assert.Equal(t, 0, precisionDecimals(1))
	assert.Equal(t, 0, precisionDecimals(10))
	assert.Equal(t, 2, precisionDecimals(0.01))
	assert.Equal(t, 3, precisionDecimals(0.001))
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	names := []string{}
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"run", "trace"}, names)

	env := cmd.PersistentFlags().Lookup("env")
	require.NotNil(t, env)
	assert.Equal(t, ".env", env.DefValue)
}
