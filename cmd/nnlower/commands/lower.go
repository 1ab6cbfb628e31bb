package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/nnlower/internal/config"
	"github.com/born-ml/nnlower/internal/lower"
	"github.com/born-ml/nnlower/internal/target"
	"github.com/born-ml/nnlower/internal/tensor"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (c *CLI) newLowerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lower <graph.yaml|model.onnx>",
		Short: "Lower a graph and print the target graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shapes, err := cmd.Flags().GetStringArray("shape")
			if err != nil {
				return err
			}
			res, err := c.lower(cmd, args[0], shapes)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.cfg.Format == config.FormatYAML {
				return target.Encode(out, res.Target)
			}
			fmt.Fprint(out, res.Target)
			fmt.Fprintf(out, "fingerprint: %016x\n", res.Target.Fingerprint())
			fmt.Fprintf(out, "rebuild: %t\n", res.Rebuild)
			return nil
		},
	}
	cmd.Flags().String("format", config.FormatText, "Output format (text, yaml)")
	cmd.Flags().StringArray("shape", nil, "Override a tensor shape, e.g. x=1,3,224,224")
	return cmd
}

// lower loads path, applies shape overrides and lowers it.
func (c *CLI) lower(cmd *cobra.Command, path string, shapeFlags []string) (*lower.Result, error) {
	g, err := loadGraph(path)
	if err != nil {
		return nil, err
	}
	if len(shapeFlags) > 0 {
		shapes, err := parseShapes(shapeFlags)
		if err != nil {
			return nil, err
		}
		if g, err = g.WithShapes(shapes); err != nil {
			return nil, err
		}
	}
	opts, err := c.options()
	if err != nil {
		return nil, err
	}
	return lower.LowerContext(cmd.Context(), g, opts...)
}

// parseShapes parses name=d0,d1,... overrides.
func parseShapes(flags []string) (map[string]tensor.Shape, error) {
	shapes := make(map[string]tensor.Shape, len(flags))
	for _, f := range flags {
		name, dims, err := splitAssignment(f)
		if err != nil {
			return nil, err
		}
		shape := make(tensor.Shape, len(dims))
		for i, d := range dims {
			if shape[i], err = strconv.Atoi(d); err != nil {
				return nil, errors.Errorf("shape %q: bad dimension %q", f, d)
			}
		}
		if err := shape.Validate(); err != nil {
			return nil, errors.WithMessagef(err, "shape %q", f)
		}
		shapes[name] = shape
	}
	return shapes, nil
}

// splitAssignment splits "name=a,b,c".
func splitAssignment(s string) (string, []string, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, errors.Errorf("invalid assignment %q (want name=v1,v2,...)", s)
	}
	return name, strings.Split(list, ","), nil
}
