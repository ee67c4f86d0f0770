// Package prefix maintains a set of identifiers supporting prefix lookup.
// Uses go-radix for a compressed prefix tree (radix tree), so lookup cost
// depends on the prefix length, not the number of identifiers.
//
// Not safe for concurrent use; callers guard it with their own lock.
package prefix

import (
	"github.com/armon/go-radix"
)

// Index is a set of string identifiers with prefix queries.
type Index struct {
	tree *radix.Tree
}

// New creates an empty index.
func New() *Index {
	return &Index{
		tree: radix.New(),
	}
}

// Insert adds an identifier. Inserting an existing identifier is a no-op.
func (ix *Index) Insert(id string) {
	ix.tree.Insert(id, struct{}{})
}

// Remove deletes an identifier and reports whether it was present.
func (ix *Index) Remove(id string) bool {
	_, deleted := ix.tree.Delete(id)
	return deleted
}

// Contains reports whether the exact identifier is present.
func (ix *Index) Contains(id string) bool {
	_, found := ix.tree.Get(id)
	return found
}

// Matches returns every identifier starting with partial, in the tree's
// lexicographic walk order. An empty partial matches everything.
func (ix *Index) Matches(partial string) []string {
	var matches []string
	ix.tree.WalkPrefix(partial, func(id string, _ interface{}) bool {
		matches = append(matches, id)
		return false // continue walking
	})
	return matches
}

// Len returns the number of identifiers in the index.
func (ix *Index) Len() int {
	return ix.tree.Len()
}
