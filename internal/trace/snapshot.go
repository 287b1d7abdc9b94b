package trace

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ScalarDecl is one declared scalar type and its immediate supersets,
// the unit DumpNamespace/LoadNamespace exchange (spec.md §7: "a
// namespace's scalar lattice must be inspectable and restorable without
// re-running axiom registration code").
type ScalarDecl struct {
	Name       string   `yaml:"name"`
	Supersets  []string `yaml:"supersets,omitempty"`
}

// Snapshot is the on-disk YAML shape of a namespace's declared scalar
// types (spec.md §7). Axioms are not snapshotted: they are Go-level
// *expr.Expression values with no stable textual form yet (spec.md §1
// keeps the surface syntax out of scope), so only the lattice — which is
// just names and edges — round-trips through YAML today.
type Snapshot struct {
	Name    string       `yaml:"name"`
	Scalars []ScalarDecl `yaml:"scalars"`
}

// DumpNamespace writes snap to path as YAML (gopkg.in/yaml.v3, matching
// the teacher's internal/evaluator/builtins_yaml.go encode/decode
// style).
func DumpNamespace(path string, snap Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadNamespace reads a Snapshot previously written by DumpNamespace.
func LoadNamespace(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
