package target

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the graph's structure: operand specs and literals,
// operator kinds and names, and slot wiring, all in creation order. Two
// lowerings of the same source graph with the same shapes have equal
// fingerprints.
func (g *Graph) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		_, _ = d.Write(buf[:])
	}
	writeString := func(s string) {
		writeInt(len(s))
		_, _ = d.WriteString(s)
	}

	writeInt(len(g.operands))
	for _, o := range g.operands {
		writeString(o.Spec.Name)
		writeInt(int(o.Spec.DataType))
		writeInt(len(o.Spec.Shape))
		for _, dim := range o.Spec.Shape {
			writeInt(dim)
		}
		writeInt(int(math.Float32bits(o.Spec.Quant.Scale)))
		writeInt(int(o.Spec.Quant.ZeroPoint))
		if o.Literal != nil {
			lit := o.Literal.Bytes()
			writeInt(len(lit))
			_, _ = d.Write(lit)
		} else {
			writeInt(-1)
		}
	}

	writeInt(len(g.operators))
	for _, op := range g.operators {
		writeInt(int(op.Kind))
		writeString(op.Name)
		writeInt(len(op.Inputs))
		for _, in := range op.Inputs {
			writeInt(operandID(in))
		}
		writeInt(len(op.Outputs))
		for _, out := range op.Outputs {
			writeInt(operandID(out))
		}
	}
	return d.Sum64()
}

func operandID(o *Operand) int {
	if o == nil {
		return -1
	}
	return o.ID
}

// String renders the graph one operand or operator per line:
//
//	%0 x = input float32[1,3]
//	%1 = const float32[1,1] {3}
//	#0 Add "y/shift" (%0, %1) -> (%2)
func (g *Graph) String() string {
	var sb strings.Builder
	for _, o := range g.operands {
		if o.Producer != nil {
			continue
		}
		fmt.Fprintf(&sb, "%%%d", o.ID)
		if o.Spec.Name != "" {
			fmt.Fprintf(&sb, " %s", o.Spec.Name)
		}
		if o.IsConstant() {
			fmt.Fprintf(&sb, " = const %s %s\n", o.Spec, literalSummary(o))
		} else {
			fmt.Fprintf(&sb, " = input %s\n", o.Spec)
		}
	}
	for _, op := range g.operators {
		fmt.Fprintf(&sb, "#%d %s %q (%s) -> (%s)", op.ID, op.Kind, op.Name,
			operandList(op.Inputs), operandList(op.Outputs))
		for _, out := range op.Outputs {
			if out != nil {
				fmt.Fprintf(&sb, " %s", out.Spec)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func operandList(ops []*Operand) string {
	parts := make([]string, len(ops))
	for i, o := range ops {
		if o == nil {
			parts[i] = "_"
			continue
		}
		parts[i] = fmt.Sprintf("%%%d", o.ID)
	}
	return strings.Join(parts, ", ")
}

func literalSummary(o *Operand) string {
	const maxShown = 4
	vals := o.Literal.Reals(o.Spec.Quant)
	parts := make([]string, 0, maxShown+1)
	for i, v := range vals {
		if i == maxShown {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("%g", v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
