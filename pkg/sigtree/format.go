package sigtree

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// JSON and YAML views. Each node carries a "type" discriminator; byte
// fields are lowercase 0x hex via their TextMarshaler.

type addressView struct {
	Type    Tag            `json:"type" yaml:"type"`
	Weight  uint64         `json:"weight" yaml:"weight"`
	Address common.Address `json:"address" yaml:"address"`
}

type signatureView struct {
	Type      Tag             `json:"type" yaml:"type"`
	Weight    uint64          `json:"weight" yaml:"weight"`
	Address   *common.Address `json:"address,omitempty" yaml:"address,omitempty"`
	Signature hexutil.Bytes   `json:"signature" yaml:"signature"`
}

type hashView struct {
	Type Tag         `json:"type" yaml:"type"`
	Hash common.Hash `json:"hash" yaml:"hash"`
}

type branchView struct {
	Type  Tag      `json:"type" yaml:"type"`
	Left  Topology `json:"left" yaml:"left"`
	Right Topology `json:"right" yaml:"right"`
}

type nestedView struct {
	Type      Tag      `json:"type" yaml:"type"`
	Weight    uint64   `json:"weight" yaml:"weight"`
	Threshold uint64   `json:"threshold" yaml:"threshold"`
	Tree      Topology `json:"tree" yaml:"tree"`
}

func (n *AddressLeaf) view() any {
	return addressView{Type: TagAddress, Weight: n.Weight, Address: n.Address}
}

func (n *SignatureLeaf) view() any {
	return signatureView{Type: TagSignature, Weight: n.Weight, Signature: n.Signature}
}

func (n *DynamicSignatureLeaf) view() any {
	addr := n.Address
	return signatureView{Type: TagDynamicSignature, Weight: n.Weight, Address: &addr, Signature: n.Signature}
}

func (n *NodeHash) view() any  { return hashView{Type: TagNode, Hash: n.Hash} }
func (n *Subdigest) view() any { return hashView{Type: TagSubdigest, Hash: n.Hash} }

func (n *Branch) view() any {
	return branchView{Type: TagBranch, Left: n.Left, Right: n.Right}
}

func (n *Nested) view() any {
	return nestedView{Type: TagNested, Weight: n.Weight, Threshold: n.Threshold, Tree: n.Tree}
}

func (n *AddressLeaf) MarshalJSON() ([]byte, error)          { return json.Marshal(n.view()) }
func (n *SignatureLeaf) MarshalJSON() ([]byte, error)        { return json.Marshal(n.view()) }
func (n *DynamicSignatureLeaf) MarshalJSON() ([]byte, error) { return json.Marshal(n.view()) }
func (n *NodeHash) MarshalJSON() ([]byte, error)             { return json.Marshal(n.view()) }
func (n *Branch) MarshalJSON() ([]byte, error)               { return json.Marshal(n.view()) }
func (n *Nested) MarshalJSON() ([]byte, error)               { return json.Marshal(n.view()) }
func (n *Subdigest) MarshalJSON() ([]byte, error)            { return json.Marshal(n.view()) }

// MarshalYAML implements yaml.Marshaler.
func (n *AddressLeaf) MarshalYAML() (any, error)          { return n.view(), nil }
func (n *SignatureLeaf) MarshalYAML() (any, error)        { return n.view(), nil }
func (n *DynamicSignatureLeaf) MarshalYAML() (any, error) { return n.view(), nil }
func (n *NodeHash) MarshalYAML() (any, error)             { return n.view(), nil }
func (n *Branch) MarshalYAML() (any, error)               { return n.view(), nil }
func (n *Nested) MarshalYAML() (any, error)               { return n.view(), nil }
func (n *Subdigest) MarshalYAML() (any, error)            { return n.view(), nil }

// Format renders t as an indented outline, one node per line:
//
//	branch
//	  address weight=1 0x0000000000000000000000000000000000000001
//	  signature weight=2 0x...
func Format(t Topology) string {
	var b strings.Builder
	_ = Walk(t, func(n Topology, depth int) error {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(describe(n))
		b.WriteByte('\n')
		return nil
	})
	return b.String()
}

// String renders the envelope header followed by the tree outline.
func (e *Envelope) String() string {
	if e == nil || e.Body == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s threshold=%d checkpoint=%d\n%s", e.Type, e.Body.Threshold, e.Body.Checkpoint, Format(e.Body.Tree))
}

func describe(n Topology) string {
	switch n := n.(type) {
	case *AddressLeaf:
		return fmt.Sprintf("address weight=%d %s", n.Weight, hexutil.Encode(n.Address[:]))
	case *SignatureLeaf:
		return fmt.Sprintf("signature weight=%d %s", n.Weight, n.Signature)
	case *DynamicSignatureLeaf:
		return fmt.Sprintf("dynamic-signature weight=%d %s %s", n.Weight, hexutil.Encode(n.Address[:]), n.Signature)
	case *NodeHash:
		return fmt.Sprintf("node %s", n.Hash.Hex())
	case *Branch:
		return "branch"
	case *Nested:
		return fmt.Sprintf("nested weight=%d threshold=%d", n.Weight, n.Threshold)
	case *Subdigest:
		return fmt.Sprintf("subdigest %s", n.Hash.Hex())
	default:
		return fmt.Sprintf("%T", n)
	}
}
