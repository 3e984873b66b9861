package sigtree

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// SkipSubtree can be returned by a WalkFunc to skip the children of the
// current Branch or Nested node.
var SkipSubtree = errors.New("skip subtree")

// WalkFunc is called for each node in pre-order. depth is 0 for the root.
type WalkFunc func(node Topology, depth int) error

// Walk visits t depth-first, left before right, descending into Nested trees.
func Walk(t Topology, fn WalkFunc) error {
	err := walk(t, 0, fn)
	if err == SkipSubtree {
		return nil
	}
	return err
}

func walk(t Topology, depth int, fn WalkFunc) error {
	if t == nil {
		return nil
	}
	if err := fn(t, depth); err != nil {
		return err
	}

	switch n := t.(type) {
	case *Branch:
		if err := walkChild(n.Left, depth+1, fn); err != nil {
			return err
		}
		return walkChild(n.Right, depth+1, fn)
	case *Nested:
		return walkChild(n.Tree, depth+1, fn)
	}
	return nil
}

func walkChild(t Topology, depth int, fn WalkFunc) error {
	err := walk(t, depth, fn)
	if err == SkipSubtree {
		return nil
	}
	return err
}

// Leaves returns every non-Branch, non-Nested node in encounter order.
func Leaves(t Topology) []Topology {
	var out []Topology
	_ = Walk(t, func(n Topology, _ int) error {
		switch n.(type) {
		case *Branch, *Nested:
		default:
			out = append(out, n)
		}
		return nil
	})
	return out
}

// TreeStats summarises a decoded tree for previews.
type TreeStats struct {
	Addresses         int              `json:"addresses" yaml:"addresses"`
	Signatures        int              `json:"signatures" yaml:"signatures"`
	DynamicSignatures int              `json:"dynamicSignatures" yaml:"dynamicSignatures"`
	NodeHashes        int              `json:"nodeHashes" yaml:"nodeHashes"`
	Branches          int              `json:"branches" yaml:"branches"`
	Nested            int              `json:"nested" yaml:"nested"`
	Subdigests        int              `json:"subdigests" yaml:"subdigests"`
	MaxDepth          int              `json:"maxDepth" yaml:"maxDepth"`
	Signers           []common.Address `json:"signers" yaml:"signers"` // Address and DynamicSignature leaves
}

// Stats counts the nodes of t by kind.
func Stats(t Topology) TreeStats {
	var s TreeStats
	_ = Walk(t, func(n Topology, depth int) error {
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		switch n := n.(type) {
		case *AddressLeaf:
			s.Addresses++
			s.Signers = append(s.Signers, n.Address)
		case *SignatureLeaf:
			s.Signatures++
		case *DynamicSignatureLeaf:
			s.DynamicSignatures++
			s.Signers = append(s.Signers, n.Address)
		case *NodeHash:
			s.NodeHashes++
		case *Branch:
			s.Branches++
		case *Nested:
			s.Nested++
		case *Subdigest:
			s.Subdigests++
		}
		return nil
	})
	return s
}
