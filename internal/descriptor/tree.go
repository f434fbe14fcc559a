package descriptor

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// ToTree renders a diagnostic breakdown of the descriptor's parameters, one
// branch per parameter in declaration order labeled with its scope, and
// their helper methods, for `jamhbench describe`.
// Grounded on types.BT_Node.ToTree in the teacher repo.
func (d *BenchmarkDescriptor) ToTree() treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(d.FullName())

	byScope := tree.AddBranch("parameters")
	for _, p := range d.Parameters {
		branch := byScope.AddBranch(fmt.Sprintf("%s (%s)", p.StateType, p.Scope))
		for _, h := range d.HelpersFor(p.StateType) {
			branch.AddNode(fmt.Sprintf("%s %s -> %s", h.Kind, h.Level, h.Name))
		}
	}

	types := tree.AddBranch("benchmark_types")
	for _, bt := range d.BenchmarkTypes {
		types.AddNode(bt.String())
	}

	return tree
}

// String returns the rendered tree.
func (d *BenchmarkDescriptor) String() string {
	return d.ToTree().String()
}
