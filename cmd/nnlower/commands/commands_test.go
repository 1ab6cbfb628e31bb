package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/nnlower/cmd/nnlower/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const activationGraph = `name: act
inputs: [x]
outputs: [y]
tensors:
  - {name: x, shape: [1, 3]}
  - {name: a, shape: [1, 3]}
  - {name: y, shape: [1, 3]}
nodes:
  - {name: relu, type: Relu, inputs: [x], outputs: [a]}
  - {name: hs, type: HardSwish, inputs: [a], outputs: [y]}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cli := commands.New()
	cli.SetOutput(&stdout, &stderr)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, commands.Version+"\n", out)
}

func TestOps(t *testing.T) {
	out, _, err := execute(t, "ops")
	require.NoError(t, err)
	assert.Contains(t, out, "operators: Sigmoid, Relu, Relu6, Tanh, HardSwish, HardSigmoid, Range\n")
	assert.Contains(t, out, "profile ascend: hardswish=clip fuse_code=false\n")
	assert.Contains(t, out, "profile nnadapter: hardswish=relu6 fuse_code=true\n")
}

func TestLowerText(t *testing.T) {
	path := writeFile(t, "act.yaml", activationGraph)

	out, _, err := execute(t, "lower", path)
	require.NoError(t, err)
	assert.Contains(t, out, `Relu6 "y/relu6"`)
	assert.Contains(t, out, `Div "y"`)
	assert.Contains(t, out, "fingerprint: ")
	assert.Contains(t, out, "rebuild: true\n")

	out, _, err = execute(t, "lower", "--target", "ascend", path)
	require.NoError(t, err)
	assert.Contains(t, out, `ClipByValue "y/clip"`)
	assert.NotContains(t, out, "Relu6")
}

func TestLowerYAML(t *testing.T) {
	path := writeFile(t, "act.yaml", activationGraph)

	out, _, err := execute(t, "lower", "--format", "yaml", "--shape", "x=2,3", path)
	require.NoError(t, err)

	var doc struct {
		Operands []struct {
			Name  string `yaml:"name"`
			Shape []int  `yaml:"shape"`
		} `yaml:"operands"`
		Operators []struct {
			Kind string `yaml:"kind"`
		} `yaml:"operators"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.NotEmpty(t, doc.Operands)
	assert.Equal(t, "x", doc.Operands[0].Name)
	assert.Equal(t, []int{2, 3}, doc.Operands[0].Shape)
	assert.Equal(t, "Relu", doc.Operators[0].Kind)
}

func TestLowerConfigFile(t *testing.T) {
	path := writeFile(t, "act.yaml", activationGraph)
	cfg := writeFile(t, "nnlower.yaml", "target: ascend\nfuse_code: true\nlog_level: 3\n")

	out, logs, err := execute(t, "-c", cfg, "lower", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ClipByValue")
	assert.Contains(t, logs, "converting")
	assert.NotContains(t, logs, "materialized operand", "V(5) is above the configured level")
}

func TestLowerErrors(t *testing.T) {
	path := writeFile(t, "act.yaml", activationGraph)
	unsupported := writeFile(t, "bad.yaml", `name: bad
inputs: [x]
outputs: [y]
tensors:
  - {name: x, shape: [2]}
  - {name: y, shape: [2]}
nodes:
  - {name: sm, type: Softmax, inputs: [x], outputs: [y]}
`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"lower", filepath.Join(t.TempDir(), "none.yaml")}, "failed to read graph"},
		{"unknown target", []string{"lower", "--target", "tpu", path}, "unknown target profile"},
		{"unknown strategy", []string{"lower", "--hardswish", "gelu", path}, "unknown decomposition strategy"},
		{"bad format", []string{"lower", "--format", "json", path}, "unknown format"},
		{"bad shape", []string{"lower", "--shape", "x=1,zero", path}, "bad dimension"},
		{"unsupported operator", []string{"lower", unsupported}, "unsupported operator"},
		{"no args", []string{"lower"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEval(t *testing.T) {
	path := writeFile(t, "relu.yaml", `name: relu
inputs: [x]
outputs: [y]
tensors:
  - {name: x, shape: [1, 3]}
  - {name: y, shape: [1, 3]}
nodes:
  - {name: relu, type: Relu, inputs: [x], outputs: [y]}
`)

	out, _, err := execute(t, "eval", "--feed", "x=-1,2,-3", path)
	require.NoError(t, err)
	assert.Equal(t, "y [1,3] = [0 2 0]\n", out)

	out, _, err = execute(t, "eval", "--shape", "x=1,4", "--feed", "x=5", path)
	require.NoError(t, err)
	assert.Equal(t, "y [1,4] = [5 5 5 5]\n", out)

	_, _, err = execute(t, "eval", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing feed")

	_, _, err = execute(t, "eval", "--feed", "x", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid assignment")
}
