package sigtree

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DefaultMaxDepth bounds Branch and Nested recursion when no option is given.
const DefaultMaxDepth = 64

// Decoder decodes signatures. It holds configuration only and is safe for
// concurrent use.
type Decoder struct {
	maxDepth int
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxDepth sets how many levels of Branch/Nested records may be nested.
// Values <= 0 select DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(d *Decoder) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		d.maxDepth = n
	}
}

// NewDecoder creates a decoder with the given options applied.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MaxDepth returns the configured nesting bound.
func (d *Decoder) MaxDepth() int {
	return d.maxDepth
}

// DecodeSignature decodes a full signature with a default decoder.
func DecodeSignature(data []byte, opts ...Option) (*Envelope, error) {
	return NewDecoder(opts...).DecodeSignature(data)
}

// DecodeSignatureBody decodes a signature body (no type byte).
func DecodeSignatureBody(data []byte, opts ...Option) (*Body, error) {
	return NewDecoder(opts...).DecodeSignatureBody(data)
}

// DecodeSignatureTree decodes a bare signature tree.
func DecodeSignatureTree(data []byte, opts ...Option) (Topology, error) {
	return NewDecoder(opts...).DecodeSignatureTree(data)
}

// DecodeSignature reads the type byte and dispatches on it.
//
// Legacy, Dynamic and NoChainIdDynamic share the same body layout. Chained
// signatures are recognised but rejected with CodeUnimplemented so callers
// can tell them apart from corrupt input.
func (d *Decoder) DecodeSignature(data []byte) (*Envelope, error) {
	if len(data) == 0 {
		return nil, decodeErr(CodeNoTypeByte, 0, "no type byte")
	}

	sigType := SignatureType(data[0])
	switch sigType {
	case TypeLegacy, TypeDynamic, TypeNoChainIdDynamic:
		body, err := d.decodeBody(data[1:], 1)
		if err != nil {
			return nil, err
		}
		return &Envelope{Type: sigType, Body: body}, nil

	case TypeChained:
		return nil, decodeErr(CodeUnimplemented, 0, "chained signatures are not implemented")

	default:
		return nil, decodeErr(CodeUnsupportedType, 0, "unsupported signature type: %d", uint8(sigType))
	}
}

// DecodeSignatureBody decodes threshold (u16be), checkpoint (u32be) and the
// tree occupying the rest of data.
func (d *Decoder) DecodeSignatureBody(data []byte) (*Body, error) {
	return d.decodeBody(data, 0)
}

// DecodeSignatureTree decodes data as one tree. Every byte must belong to a
// record.
func (d *Decoder) DecodeSignatureTree(data []byte) (Topology, error) {
	return d.decodeTree(data, 0, 0)
}

func (d *Decoder) decodeBody(data []byte, base int) (*Body, error) {
	r := &reader{buf: data, base: base}
	if err := r.need(BodyHeaderLen, "signature body header"); err != nil {
		return nil, err
	}

	threshold, err := r.readU16("threshold")
	if err != nil {
		return nil, err
	}
	checkpoint, err := r.readU32("checkpoint")
	if err != nil {
		return nil, err
	}

	tree, err := d.decodeTree(data[r.off:], r.pos(), 0)
	if err != nil {
		return nil, err
	}

	return &Body{
		Threshold:  uint64(threshold),
		Checkpoint: uint64(checkpoint),
		Tree:       tree,
	}, nil
}

func (d *Decoder) decodeTree(data []byte, base, depth int) (Topology, error) {
	if depth > d.maxDepth {
		return nil, decodeErr(CodeDepthExceeded, base, "signature tree nested deeper than %d", d.maxDepth)
	}

	r := &reader{buf: data, base: base}
	var acc accumulator
	for r.remaining() > 0 {
		node, err := d.decodeRecord(r, depth)
		if err != nil {
			return nil, err
		}
		acc = acc.push(node)
	}

	tree, ok := acc.result()
	if !ok {
		return nil, decodeErr(CodeEmptyTree, base, "empty signature tree")
	}
	return tree, nil
}

// decodeRecord reads one tagged record. r must have at least one byte left.
func (d *Decoder) decodeRecord(r *reader, depth int) (Topology, error) {
	start := r.pos()
	b, err := r.readU8("record tag")
	if err != nil {
		return nil, err
	}

	switch tag := Tag(b); tag {
	case TagAddress:
		weight, err := r.readU8("address weight")
		if err != nil {
			return nil, err
		}
		addr, err := r.readBytes(AddressLen, "address")
		if err != nil {
			return nil, err
		}
		return &AddressLeaf{Weight: uint64(weight), Address: common.BytesToAddress(addr)}, nil

	case TagSignature:
		weight, err := r.readU8("signature weight")
		if err != nil {
			return nil, err
		}
		sig, err := r.readBytes(StaticSignatureLen, "signature")
		if err != nil {
			return nil, err
		}
		return &SignatureLeaf{Weight: uint64(weight), Signature: cloneBytes(sig)}, nil

	case TagDynamicSignature:
		weight, err := r.readU8("dynamic signature weight")
		if err != nil {
			return nil, err
		}
		addr, err := r.readBytes(AddressLen, "dynamic signature address")
		if err != nil {
			return nil, err
		}
		size, err := r.readU24("dynamic signature size")
		if err != nil {
			return nil, err
		}
		sig, err := r.readBytes(size, "dynamic signature")
		if err != nil {
			return nil, err
		}
		return &DynamicSignatureLeaf{
			Weight:    uint64(weight),
			Address:   common.BytesToAddress(addr),
			Signature: cloneBytes(sig),
		}, nil

	case TagNode:
		h, err := r.readBytes(HashLen, "node hash")
		if err != nil {
			return nil, err
		}
		return &NodeHash{Hash: common.BytesToHash(h)}, nil

	case TagBranch:
		size, err := r.readU24("branch size")
		if err != nil {
			return nil, err
		}
		subBase := r.pos()
		sub, err := r.readBytes(size, "branch")
		if err != nil {
			return nil, err
		}
		return d.decodeTree(sub, subBase, depth+1)

	case TagNested:
		weight, err := r.readU8("nested weight")
		if err != nil {
			return nil, err
		}
		threshold, err := r.readU16("nested threshold")
		if err != nil {
			return nil, err
		}
		size, err := r.readU24("nested size")
		if err != nil {
			return nil, err
		}
		subBase := r.pos()
		sub, err := r.readBytes(size, "nested tree")
		if err != nil {
			return nil, err
		}
		tree, err := d.decodeTree(sub, subBase, depth+1)
		if err != nil {
			return nil, err
		}
		return &Nested{Weight: uint64(weight), Threshold: uint64(threshold), Tree: tree}, nil

	case TagSubdigest:
		h, err := r.readBytes(HashLen, "subdigest")
		if err != nil {
			return nil, err
		}
		return &Subdigest{Hash: common.BytesToHash(h)}, nil

	default:
		return nil, decodeErr(CodeUnsupportedTag, start, "unsupported signature tree tag: %d", b)
	}
}

// accumulator folds records into a left-leaning tree in encounter order.
//
//	a        -> {a, _}
//	a b      -> {a, b}
//	a b c    -> {{a, b}, c}
//	a b c d  -> {{{a, b}, c}, d}
type accumulator struct {
	left  Topology
	right Topology
}

func (a accumulator) push(n Topology) accumulator {
	switch {
	case a.left == nil:
		return accumulator{left: n}
	case a.right == nil:
		return accumulator{left: a.left, right: n}
	default:
		return accumulator{left: &Branch{Left: a.left, Right: a.right}, right: n}
	}
}

// result returns the folded tree; a lone record is returned bare.
func (a accumulator) result() (Topology, bool) {
	switch {
	case a.left == nil:
		return nil, false
	case a.right == nil:
		return a.left, true
	default:
		return &Branch{Left: a.left, Right: a.right}, true
	}
}

func cloneBytes(b []byte) hexutil.Bytes {
	return hexutil.Bytes(bytes.Clone(b))
}
