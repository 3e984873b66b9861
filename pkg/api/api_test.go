package api

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/sigtree/pkg/crypto"
	"github.com/suffix-labs/sigtree/pkg/sigtree"
)

// legacyAddressHex is a legacy signature, threshold 3, checkpoint 1, with a
// single zero address of weight 1.
const legacyAddressHex = "0x" + "00" + "0003" + "00000001" + "00" + "01" +
	"0000000000000000000000000000000000000000"

func staticSigHex(v, kind byte) string {
	return strings.Repeat("11", 32) + strings.Repeat("22", 32) + hexutil.Encode([]byte{v, kind})[2:]
}

func TestParseHex(t *testing.T) {
	b, err := ParseHex("0x00ff")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, b)

	b, err = ParseHex("  00FF\n")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, b)

	b, err = ParseHex("0X01")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, b)

	for _, bad := range []string{"", "   ", "0x0", "0xzz"} {
		_, err := ParseHex(bad)
		var ie *InputError
		assert.ErrorAs(t, err, &ie, "input %q", bad)
	}
}

func TestDecodeSignatureHex(t *testing.T) {
	env, err := DecodeSignatureHex(legacyAddressHex)
	require.NoError(t, err)

	assert.Equal(t, sigtree.TypeLegacy, env.Type)
	assert.Equal(t, uint64(3), env.Body.Threshold)
	assert.Equal(t, uint64(1), env.Body.Checkpoint)
	assert.Equal(t, &sigtree.AddressLeaf{Weight: 1, Address: common.Address{}}, env.Body.Tree)
}

func TestDecodeSignatureHexErrors(t *testing.T) {
	_, err := DecodeSignatureHex("0x")
	assert.ErrorIs(t, err, sigtree.ErrNoTypeByte)

	_, err = DecodeSignatureHex("0xff")
	assert.ErrorIs(t, err, sigtree.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "unsupported signature type: 255")

	_, err = DecodeSignatureHex("0x03")
	assert.ErrorIs(t, err, sigtree.ErrUnimplemented)

	_, err = DecodeSignatureHex("nothex")
	var ie *InputError
	assert.ErrorAs(t, err, &ie)
}

func TestDecodeSignatureHexOptions(t *testing.T) {
	// Branch(Branch(address)).
	inner := "00" + "01" + strings.Repeat("00", 20)
	once := "04" + "000016" + inner
	twice := "04" + "00001a" + once
	sig := "0x01" + "0001" + "00000000" + twice

	_, err := DecodeSignatureHex(sig)
	require.NoError(t, err)

	_, err = DecodeSignatureHex(sig, sigtree.WithMaxDepth(1))
	assert.ErrorIs(t, err, sigtree.ErrDepthExceeded)
}

func TestInspect(t *testing.T) {
	dynAddr := "00000000000000000000000000000000000000aa"
	sig := "0x01" + "0002" + "0000000a" +
		"01" + "01" + staticSigHex(27, byte(crypto.KindEIP712)) + // static signature
		"02" + "01" + dynAddr + "000003" + "abcdef" + // dynamic signature
		"00" + "01" + strings.Repeat("00", 19) + "bb" // address

	report, err := Inspect(sig)
	require.NoError(t, err)

	assert.Equal(t, "dynamic", report.Type)
	assert.Equal(t, 1+6+68+28+22, report.Size)
	assert.Equal(t, uint64(2), report.Threshold)
	assert.Equal(t, uint64(10), report.Checkpoint)
	assert.Equal(t, 1, report.Stats.Signatures)
	assert.Equal(t, 1, report.Stats.DynamicSignatures)
	assert.Equal(t, 1, report.Stats.Addresses)
	assert.Equal(t, 2, report.Stats.Branches)

	require.Len(t, report.Signatures, 2)

	static := report.Signatures[0]
	assert.Equal(t, "L.L", static.Path)
	assert.Equal(t, "static", static.Kind)
	assert.Equal(t, 66, static.Length)
	assert.Equal(t, "0x"+strings.Repeat("11", 32), static.R)
	assert.Equal(t, "0x"+strings.Repeat("22", 32), static.S)
	assert.Equal(t, uint8(27), static.V)
	assert.Equal(t, "eip712", static.SignatureType)
	assert.Empty(t, static.ParseError)

	dyn := report.Signatures[1]
	assert.Equal(t, "L.R", dyn.Path)
	assert.Equal(t, "dynamic", dyn.Kind)
	assert.Equal(t, 3, dyn.Length)
	require.NotNil(t, dyn.Address)
	assert.Equal(t, common.HexToAddress(dynAddr), *dyn.Address)
}

func TestInspectBadStaticSignatureIsReported(t *testing.T) {
	sig := "0x00" + "0001" + "00000001" + "01" + "01" + strings.Repeat("00", 66)

	report, err := Inspect(sig)
	require.NoError(t, err)
	require.Len(t, report.Signatures, 1)
	assert.Equal(t, "root", report.Signatures[0].Path)
	assert.Contains(t, report.Signatures[0].ParseError, "zero")
	assert.Empty(t, report.Signatures[0].R)
}

func TestInspectNestedPath(t *testing.T) {
	nested := "05" + "01" + "0001" + "000039" + "02" + "01" + strings.Repeat("00", 20) + "000020" + strings.Repeat("ee", 32)
	sig := "0x00" + "0001" + "00000001" + nested

	report, err := Inspect(sig)
	require.NoError(t, err)
	require.Len(t, report.Signatures, 1)
	assert.Equal(t, "N", report.Signatures[0].Path)
	assert.Equal(t, 32, report.Signatures[0].Length)
}

func TestReportJSON(t *testing.T) {
	report, err := Inspect(legacyAddressHex)
	require.NoError(t, err)

	out, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "legacy", decoded["type"])
	tree, ok := decoded["tree"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "address", tree["type"])
	assert.Equal(t, "0x0000000000000000000000000000000000000000", tree["address"])
}

func TestInputErrorFormatting(t *testing.T) {
	e := &InputError{Message: "empty input"}
	assert.Equal(t, "input error: empty input", e.Error())
}
