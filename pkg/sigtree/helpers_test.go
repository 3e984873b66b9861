package sigtree

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// Record builders assemble wire bytes by hand for tests.

func u16(n uint16) []byte { return []byte{byte(n >> 8), byte(n)} }

func u24(n int) []byte { return []byte{byte(n >> 16), byte(n >> 8), byte(n)} }

func u32(n uint32) []byte {
	return []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func addressRecord(weight byte, addr common.Address) []byte {
	return concat([]byte{byte(TagAddress), weight}, addr[:])
}

func signatureRecord(weight byte, sig []byte) []byte {
	return concat([]byte{byte(TagSignature), weight}, sig)
}

func dynamicRecord(weight byte, addr common.Address, sig []byte) []byte {
	return concat([]byte{byte(TagDynamicSignature), weight}, addr[:], u24(len(sig)), sig)
}

func nodeRecord(h common.Hash) []byte {
	return concat([]byte{byte(TagNode)}, h[:])
}

func subdigestRecord(h common.Hash) []byte {
	return concat([]byte{byte(TagSubdigest)}, h[:])
}

func branchRecord(inner ...[]byte) []byte {
	tree := concat(inner...)
	return concat([]byte{byte(TagBranch)}, u24(len(tree)), tree)
}

func nestedRecord(weight byte, threshold uint16, inner ...[]byte) []byte {
	tree := concat(inner...)
	return concat([]byte{byte(TagNested), weight}, u16(threshold), u24(len(tree)), tree)
}

func bodyBytes(threshold uint16, checkpoint uint32, records ...[]byte) []byte {
	return concat(u16(threshold), u32(checkpoint), concat(records...))
}

func signatureBytes(sigType SignatureType, threshold uint16, checkpoint uint32, records ...[]byte) []byte {
	return concat([]byte{byte(sigType)}, bodyBytes(threshold, checkpoint, records...))
}

func staticSig(fill byte) []byte {
	return bytes.Repeat([]byte{fill}, StaticSignatureLen)
}

func testAddr(last byte) common.Address {
	var a common.Address
	a[AddressLen-1] = last
	return a
}

func testHash(fill byte) common.Hash {
	var h common.Hash
	for i := range h {
		h[i] = fill
	}
	return h
}
