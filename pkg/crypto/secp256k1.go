// Package crypto gives a structural view of the static signatures carried in
// signature tree leaves.
//
// A static signature is 66 bytes:
//
//	r (32) || s (32) || v (1) || signature type (1)
//
// r and s are secp256k1 scalars; v is the recovery id (27/28 by convention);
// the trailing type byte selects how the signed digest was prepared.
// Nothing here recovers or verifies a signer.
package crypto

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// StaticSignatureLen is the encoded length of a static signature.
const StaticSignatureLen = 66

// SignatureKind is the trailing type byte of a static signature.
type SignatureKind uint8

const (
	KindEIP712        SignatureKind = 1 // Digest signed as EIP-712 typed data
	KindEthSign       SignatureKind = 2 // Digest signed with the eth_sign prefix
	KindWalletBytes32 SignatureKind = 3 // Reserved for wallet bytes32 validation
)

func (k SignatureKind) String() string {
	switch k {
	case KindEIP712:
		return "eip712"
	case KindEthSign:
		return "eth_sign"
	case KindWalletBytes32:
		return "wallet_bytes32"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Known reports whether k is one of the defined signature kinds.
func (k SignatureKind) Known() bool {
	return k >= KindEIP712 && k <= KindWalletBytes32
}

var (
	ErrSignatureLength = errors.New("static signature must be 66 bytes")
	ErrScalarOverflow  = errors.New("signature scalar not less than the curve order")
	ErrScalarZero      = errors.New("signature scalar is zero")
)

// StaticSignature is a parsed static signature.
type StaticSignature struct {
	R    secp256k1.ModNScalar
	S    secp256k1.ModNScalar
	V    byte
	Kind SignatureKind
}

// ParseStaticSignature splits sig into its components.
//
// r and s must each be in [1, N-1]; an out of range scalar can never come
// from a signer, so it is treated as malformed input.
func ParseStaticSignature(sig []byte) (*StaticSignature, error) {
	if len(sig) != StaticSignatureLen {
		return nil, fmt.Errorf("%w, got %d", ErrSignatureLength, len(sig))
	}

	var out StaticSignature
	if err := setScalar(&out.R, sig[0:32], "r"); err != nil {
		return nil, err
	}
	if err := setScalar(&out.S, sig[32:64], "s"); err != nil {
		return nil, err
	}
	out.V = sig[64]
	out.Kind = SignatureKind(sig[65])

	return &out, nil
}

func setScalar(s *secp256k1.ModNScalar, b []byte, name string) error {
	if overflow := s.SetByteSlice(b); overflow {
		return fmt.Errorf("%s: %w", name, ErrScalarOverflow)
	}
	if s.IsZero() {
		return fmt.Errorf("%s: %w", name, ErrScalarZero)
	}
	return nil
}

// RBytes returns r as 32 big-endian bytes.
func (s *StaticSignature) RBytes() [32]byte {
	return s.R.Bytes()
}

// SBytes returns s as 32 big-endian bytes.
func (s *StaticSignature) SBytes() [32]byte {
	return s.S.Bytes()
}

// HighS reports whether s is in the upper half of the curve order. Contracts
// that enforce malleability protection reject such signatures.
func (s *StaticSignature) HighS() bool {
	return s.S.IsOverHalfOrder()
}
