// Package lower translates source operator graphs into target graphs.
//
// The engine is built from four parts:
//
//   - Cache maps source tensor names to the target operands representing them.
//   - Synthesizer creates operands for uncached tensors and for the constants
//     a decomposition needs.
//   - Table dispatches each source kind to a direct mapping or a fixed
//     decomposition into target primitives.
//   - Session drives one operator at a time: it resolves inputs through the
//     cache, runs the table entry and caches the produced outputs.
//
// Lower runs a session over a whole graph in topological order, and Program
// relowers a graph from scratch when its input shapes change.
//
// Basic usage:
//
//	res, err := lower.Lower(g, lower.WithProfile(lower.ProfileAscend))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Target)
//
// Composite activations follow the strategy of the selected Profile. The
// nnadapter profile expands HardSwish into Add, Relu6, Mul and Div with a
// trailing fuse-code operand on the binary operators; the ascend profile uses
// Scale, ClipByValue, Mul and Div.
package lower
