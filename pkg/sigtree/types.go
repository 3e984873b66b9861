// Package sigtree decodes the multi-signature wallet signature format.
//
// A wallet signature is a single type byte followed by a body:
//
//	Signature format: type (u8) || threshold (u16be) || checkpoint (u32be) || tree
//
// The tree is a flat sequence of tagged records. Records are folded left to
// right into a left-leaning binary tree, and Branch and Nested records carry a
// u24be size prefix that delimits a recursively decoded sub-tree. All
// multi-byte integers are big-endian to match the on-chain parser of the
// wallet contract.
//
// References:
//   - Wallet contract signature parser (SequenceBaseSig, recoverBranch)
//   - ERC-1271 for dynamic (contract) signatures
package sigtree

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SignatureType is the leading byte of an encoded signature.
type SignatureType uint8

const (
	TypeLegacy           SignatureType = 0 // Legacy body, chain id bound
	TypeDynamic          SignatureType = 1 // Dynamic body, chain id bound
	TypeNoChainIdDynamic SignatureType = 2 // Dynamic body, replayable across chains
	TypeChained          SignatureType = 3 // Chain of configuration updates (not implemented)
)

func (t SignatureType) String() string {
	switch t {
	case TypeLegacy:
		return "legacy"
	case TypeDynamic:
		return "dynamic"
	case TypeNoChainIdDynamic:
		return "no-chain-id-dynamic"
	case TypeChained:
		return "chained"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// MarshalText renders the type by name.
func (t SignatureType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Tag is the discriminator byte of a record inside a signature tree.
type Tag uint8

const (
	TagAddress          Tag = 0 // weight (u8) || address (20)
	TagSignature        Tag = 1 // weight (u8) || signature (66)
	TagDynamicSignature Tag = 2 // weight (u8) || address (20) || size (u24be) || signature (size)
	TagNode             Tag = 3 // hash (32)
	TagBranch           Tag = 4 // size (u24be) || tree (size)
	TagNested           Tag = 5 // weight (u8) || threshold (u16be) || size (u24be) || tree (size)
	TagSubdigest        Tag = 6 // hash (32)
)

// Fixed field widths of the wire format.
const (
	AddressLen         = common.AddressLength
	HashLen            = common.HashLength
	StaticSignatureLen = 66
	BodyHeaderLen      = 6
)

func (t Tag) String() string {
	switch t {
	case TagAddress:
		return "address"
	case TagSignature:
		return "signature"
	case TagDynamicSignature:
		return "dynamic-signature"
	case TagNode:
		return "node"
	case TagBranch:
		return "branch"
	case TagNested:
		return "nested"
	case TagSubdigest:
		return "subdigest"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// MarshalText renders the tag by name.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Envelope is a decoded top-level signature.
type Envelope struct {
	Type SignatureType `json:"type" yaml:"type"`
	Body *Body         `json:"body" yaml:"body"`
}

// Body is the threshold, checkpoint and signer tree of a signature.
//
// Threshold and Checkpoint are read as u16be and u32be and widened so that
// callers can add weights against them without overflow.
type Body struct {
	Threshold  uint64   `json:"threshold" yaml:"threshold"`
	Checkpoint uint64   `json:"checkpoint" yaml:"checkpoint"`
	Tree       Topology `json:"tree" yaml:"tree"`
}

// Topology is a node of a decoded signature tree.
//
// The set of implementations is closed: *AddressLeaf, *SignatureLeaf,
// *DynamicSignatureLeaf, *NodeHash, *Branch, *Nested and *Subdigest.
type Topology interface {
	Kind() Tag
	isTopology()
}

// AddressLeaf is a signer that did not sign.
type AddressLeaf struct {
	Weight  uint64
	Address common.Address
}

// SignatureLeaf is a signer that signed with a static 66 byte ECDSA signature.
// The signer address is recovered from the signature, so it is not encoded.
type SignatureLeaf struct {
	Weight    uint64
	Signature hexutil.Bytes
}

// DynamicSignatureLeaf is a signer using a variable length signature that is
// validated by the signer contract (ERC-1271).
type DynamicSignatureLeaf struct {
	Weight    uint64
	Address   common.Address
	Signature hexutil.Bytes
}

// NodeHash is a pruned subtree summarised by its hash.
type NodeHash struct {
	Hash common.Hash
}

// Branch joins two subtrees. It is produced by folding consecutive records,
// never read directly from the wire.
type Branch struct {
	Left  Topology
	Right Topology
}

// Nested is a sub-configuration with its own internal threshold that counts
// as a single signer of the given weight in the parent tree.
type Nested struct {
	Weight    uint64
	Threshold uint64
	Tree      Topology
}

// Subdigest is a pre-approved digest that short-circuits signing.
type Subdigest struct {
	Hash common.Hash
}

func (*AddressLeaf) Kind() Tag          { return TagAddress }
func (*SignatureLeaf) Kind() Tag        { return TagSignature }
func (*DynamicSignatureLeaf) Kind() Tag { return TagDynamicSignature }
func (*NodeHash) Kind() Tag             { return TagNode }
func (*Branch) Kind() Tag               { return TagBranch }
func (*Nested) Kind() Tag               { return TagNested }
func (*Subdigest) Kind() Tag            { return TagSubdigest }

func (*AddressLeaf) isTopology()          {}
func (*SignatureLeaf) isTopology()        {}
func (*DynamicSignatureLeaf) isTopology() {}
func (*NodeHash) isTopology()             {}
func (*Branch) isTopology()               {}
func (*Nested) isTopology()               {}
func (*Subdigest) isTopology()            {}
