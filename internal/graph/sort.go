package graph

import "github.com/pkg/errors"

// Sort returns the graph's operators in execution order: every operator comes
// after the producers of its inputs. Ties keep declaration order.
func (g *Graph) Sort() ([]*Operator, error) {
	// Build output-to-node map
	outputToNode := make(map[string]int)
	for i := range g.Nodes {
		for _, output := range g.Nodes[i].Outputs {
			outputToNode[output] = i
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(g.Nodes))
	result := make([]*Operator, 0, len(g.Nodes))

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return errors.Errorf("cycle detected at node %s", g.Nodes[i].Name)
		}
		state[i] = visiting

		// Visit dependencies first
		for _, input := range g.Nodes[i].Inputs {
			if depIdx, ok := outputToNode[input]; ok {
				if err := visit(depIdx); err != nil {
					return err
				}
			}
		}

		state[i] = done
		result = append(result, g.Operator(i))
		return nil
	}

	for i := range g.Nodes {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return result, nil
}
