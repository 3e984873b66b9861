// Package api provides the high-level entry points for previewing wallet
// signatures.
//
// This is the main entry point for applications that receive signatures as
// 0x-prefixed hex from chain data or an RPC and want to show who signed:
//
//  1. DecodeSignatureHex - Decodes a hex signature into a sigtree.Envelope
//  2. Inspect - Decodes and summarises a signature into a Report
//
// The binary format itself lives in package sigtree.
package api

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/suffix-labs/sigtree/pkg/crypto"
	"github.com/suffix-labs/sigtree/pkg/sigtree"
)

// InputError is returned when the hex input cannot be turned into bytes.
type InputError struct {
	Message string // Human-readable error message
	Cause   error  // Underlying hex decode error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("input error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("input error: %s", e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// ParseHex decodes a signature given as hex. The 0x prefix is optional and
// surrounding whitespace is ignored.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, &InputError{Message: "empty input"}
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}

	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, &InputError{Message: "invalid hex signature", Cause: err}
	}
	return b, nil
}

// ============================================================================
// API Function 1: DecodeSignatureHex
// ============================================================================

// DecodeSignatureHex decodes a hex encoded signature.
//
// Hex problems are reported as *InputError; format problems are the
// *sigtree.DecodeError returned by the decoder, wrapped.
func DecodeSignatureHex(s string, opts ...sigtree.Option) (*sigtree.Envelope, error) {
	data, err := ParseHex(s)
	if err != nil {
		return nil, err
	}

	env, err := sigtree.DecodeSignature(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}
	return env, nil
}

// ============================================================================
// API Function 2: Inspect
// ============================================================================

// Report is a preview of a decoded signature, shaped for rendering.
type Report struct {
	Type       string             `json:"type" yaml:"type"`
	Size       int                `json:"size" yaml:"size"`
	Threshold  uint64             `json:"threshold" yaml:"threshold"`
	Checkpoint uint64             `json:"checkpoint" yaml:"checkpoint"`
	Stats      sigtree.TreeStats  `json:"stats" yaml:"stats"`
	Signatures []SignatureSummary `json:"signatures" yaml:"signatures"`
	Tree       sigtree.Topology   `json:"tree" yaml:"tree"`
}

// SignatureSummary describes one signature-bearing leaf.
type SignatureSummary struct {
	Path    string          `json:"path" yaml:"path"` // e.g. "L.R" from the root
	Kind    string          `json:"kind" yaml:"kind"` // "static" or "dynamic"
	Weight  uint64          `json:"weight" yaml:"weight"`
	Address *common.Address `json:"address,omitempty" yaml:"address,omitempty"`
	Length  int             `json:"length" yaml:"length"`

	// Static signatures only.
	R             string `json:"r,omitempty" yaml:"r,omitempty"`
	S             string `json:"s,omitempty" yaml:"s,omitempty"`
	V             uint8  `json:"v,omitempty" yaml:"v,omitempty"`
	SignatureType string `json:"signatureType,omitempty" yaml:"signatureType,omitempty"`
	HighS         bool   `json:"highS,omitempty" yaml:"highS,omitempty"`
	ParseError    string `json:"parseError,omitempty" yaml:"parseError,omitempty"`
}

// Inspect decodes a hex signature and builds a Report.
//
// A static signature whose r/s are out of range does not fail the report;
// the problem is recorded in SignatureSummary.ParseError.
func Inspect(s string, opts ...sigtree.Option) (*Report, error) {
	data, err := ParseHex(s)
	if err != nil {
		return nil, err
	}

	env, err := sigtree.DecodeSignature(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}

	report := &Report{
		Type:       env.Type.String(),
		Size:       len(data),
		Threshold:  env.Body.Threshold,
		Checkpoint: env.Body.Checkpoint,
		Stats:      sigtree.Stats(env.Body.Tree),
		Signatures: summarize(env.Body.Tree, ""),
		Tree:       env.Body.Tree,
	}
	return report, nil
}

// summarize collects signature leaves in encounter order. Paths record the
// left/right turns taken from the root; a Nested tree adds "N".
func summarize(t sigtree.Topology, path string) []SignatureSummary {
	switch n := t.(type) {
	case *sigtree.Branch:
		out := summarize(n.Left, joinPath(path, "L"))
		return append(out, summarize(n.Right, joinPath(path, "R"))...)

	case *sigtree.Nested:
		return summarize(n.Tree, joinPath(path, "N"))

	case *sigtree.SignatureLeaf:
		return []SignatureSummary{staticSummary(n, path)}

	case *sigtree.DynamicSignatureLeaf:
		addr := n.Address
		return []SignatureSummary{{
			Path:    displayPath(path),
			Kind:    "dynamic",
			Weight:  n.Weight,
			Address: &addr,
			Length:  len(n.Signature),
		}}
	}
	return nil
}

func staticSummary(n *sigtree.SignatureLeaf, path string) SignatureSummary {
	sum := SignatureSummary{
		Path:   displayPath(path),
		Kind:   "static",
		Weight: n.Weight,
		Length: len(n.Signature),
	}

	sig, err := crypto.ParseStaticSignature(n.Signature)
	if err != nil {
		sum.ParseError = err.Error()
		return sum
	}

	r, s := sig.RBytes(), sig.SBytes()
	sum.R = hexutil.Encode(r[:])
	sum.S = hexutil.Encode(s[:])
	sum.V = sig.V
	sum.SignatureType = sig.Kind.String()
	sum.HighS = sig.HighS()
	return sum
}

func joinPath(path, step string) string {
	if path == "" {
		return step
	}
	return path + "." + step
}

func displayPath(path string) string {
	if path == "" {
		return "root"
	}
	return path
}
