package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/nnlower/internal/eval"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (c *CLI) newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <graph.yaml|model.onnx>",
		Short: "Lower a graph and run it on the reference evaluator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			shapes, err := flags.GetStringArray("shape")
			if err != nil {
				return err
			}
			feedFlags, err := flags.GetStringArray("feed")
			if err != nil {
				return err
			}
			feeds, err := parseFeeds(feedFlags)
			if err != nil {
				return err
			}

			res, err := c.lower(cmd, args[0], shapes)
			if err != nil {
				return err
			}
			for _, in := range res.Inputs {
				if v := feeds[in.Name()]; len(v) == 1 {
					feeds[in.Name()] = fill(v[0], in.Spec.Shape.NumElements())
				}
			}
			vals, err := eval.Run(res.Target, feeds)
			if err != nil {
				return errors.WithMessage(err, "evaluate")
			}

			out := cmd.OutOrStdout()
			for _, o := range res.Outputs {
				fmt.Fprintf(out, "%s %s = %s\n", o.Name(), o.Spec.Shape, formatValues(vals[o.Name()]))
			}
			return nil
		},
	}
	cmd.Flags().StringArray("feed", nil, "Input values, e.g. x=1,2,3 (a single value fills the tensor)")
	cmd.Flags().StringArray("shape", nil, "Override a tensor shape, e.g. x=1,4")
	return cmd
}

// parseFeeds parses name=v0,v1,... input values.
func parseFeeds(flags []string) (map[string][]float32, error) {
	feeds := make(map[string][]float32, len(flags))
	for _, f := range flags {
		name, list, err := splitAssignment(f)
		if err != nil {
			return nil, err
		}
		vals := make([]float32, len(list))
		for i, s := range list {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
			if err != nil {
				return nil, errors.Errorf("feed %q: bad value %q", f, s)
			}
			vals[i] = float32(v)
		}
		feeds[name] = vals
	}
	return feeds, nil
}

func fill(v float32, n int) []float32 {
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = v
	}
	return vals
}

func formatValues(vals []float32) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(float64(v), 'g', 6, 32)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
