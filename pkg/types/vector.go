// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records and configuration shared between stages.
package types

// UnknownLen marks a vector whose block carried no Len line.
const UnknownLen = -1

// Vector is one Len/Msg/MD block from a CAVP response file.
type Vector struct {
	// Index is the zero-based position of the block in file order. It names
	// the output files (messages/msg<Index>, hashes/hash<Index>).
	Index int `json:"index" yaml:"index"`

	// LenBits is the value of the most recent Len line, or UnknownLen.
	// It is recorded as given and never checked against Message.
	LenBits int `json:"len_bits" yaml:"len_bits"`

	// Message holds the bytes decoded from the Msg line.
	Message []byte `json:"-" yaml:"-"`

	// MessageHex is the Msg token exactly as it appeared in the file.
	MessageHex string `json:"msg" yaml:"msg"`

	// Digest is the third token of the line after Msg, kept verbatim.
	Digest string `json:"md" yaml:"md"`

	// DigestLen is the byte length from the enclosing [L = n] header, 0 if none.
	DigestLen int `json:"digest_len,omitempty" yaml:"digest_len,omitempty"`

	// Line is the 1-based line number of the Msg line.
	Line int `json:"line" yaml:"line"`
}
