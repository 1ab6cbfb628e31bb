package commands

import (
	"fmt"
	"strings"

	"github.com/born-ml/nnlower/internal/lower"
	"github.com/born-ml/nnlower/internal/onnx"
	"github.com/spf13/cobra"
)

func (c *CLI) newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List supported operators and target profiles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()

			kinds := lower.NewTable().Kinds()
			names := make([]string, len(kinds))
			for i, k := range kinds {
				names[i] = k.String()
			}
			fmt.Fprintf(out, "operators: %s\n", strings.Join(names, ", "))
			fmt.Fprintf(out, "onnx: %s\n", strings.Join(onnx.SupportedOps(), ", "))

			for _, name := range lower.ProfileNames() {
				p, _ := lower.LookupProfile(name)
				fmt.Fprintf(out, "profile %s: hardswish=%s fuse_code=%t\n", p.Name, p.Strategy, p.FuseCode)
			}
		},
	}
}
