// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rsp parses NIST CAVP response (.rsp) files into test vectors.
//
// A response file is line oriented: "key = value" pairs grouped into blocks
// by blank lines, with bracketed headers such as "[L = 32]". Only Msg lines
// start a vector. The line after a Msg line supplies the digest.
package rsp

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/vecprep/pkg/types"
)

const (
	// minDataLine is the shortest stripped line that can carry data.
	// Anything shorter is a separator.
	minDataLine = 6

	msgKey = "Msg"
	lenKey = "Len"

	// valueToken is the index of the value in "key = value".
	valueToken = 2

	// maxLineBytes bounds a single line. LongMsg vectors reach ~100 KiB of hex.
	maxLineBytes = 4 << 20
)

var (
	// ErrTruncatedBlock reports a Msg line with no line after it.
	ErrTruncatedBlock = errors.New("truncated block")

	// ErrMalformedLine reports a Msg or digest line without a value token.
	ErrMalformedLine = errors.New("malformed line")

	// ErrInvalidHex reports a Msg value that does not decode as hex.
	ErrInvalidHex = errors.New("invalid hex message")
)

// VisitFunc receives each vector in file order. Returning an error stops the walk.
type VisitFunc func(v types.Vector) error

// ReadLines reads r and returns its lines with surrounding whitespace removed.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}

// Walk scans stripped lines and calls fn for every Msg/digest pair.
//
// The cursor skips lines shorter than six characters and lines whose first
// token is not Msg. A Msg line consumes itself and the following line. The
// vector index counts Msg blocks only, so Len lines, headers, and blank
// lines never shift it. A vector is passed to fn only after both of its
// lines parsed and its message decoded.
func Walk(lines []string, fn VisitFunc) error {
	lenBits := types.UnknownLen
	digestLen := 0
	index := 0

	for i := 0; i < len(lines); {
		line := lines[i]
		if len(line) < minDataLine {
			i++
			continue
		}

		if l, ok := parseHeader(line); ok {
			digestLen = l
			i++
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case lenKey:
			lenBits = parseLen(fields)
			i++
			continue
		case msgKey:
		default:
			i++
			continue
		}

		v, err := parseBlock(lines, i)
		if err != nil {
			return err
		}
		v.Index = index
		v.LenBits = lenBits
		v.DigestLen = digestLen

		if err := fn(v); err != nil {
			return err
		}

		index++
		lenBits = types.UnknownLen
		i += 2
	}
	return nil
}

// ParseLines returns every vector in lines.
func ParseLines(lines []string) ([]types.Vector, error) {
	var vectors []types.Vector
	err := Walk(lines, func(v types.Vector) error {
		vectors = append(vectors, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

// Parse reads a whole response file from r and returns its vectors.
func Parse(r io.Reader) ([]types.Vector, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return ParseLines(lines)
}

// ParseFile opens path and parses it.
func ParseFile(path string) ([]types.Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening response file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// parseBlock builds the vector whose Msg line sits at lines[i].
func parseBlock(lines []string, i int) (types.Vector, error) {
	lineNo := i + 1

	msgFields := strings.Fields(lines[i])
	if len(msgFields) <= valueToken {
		return types.Vector{}, fmt.Errorf("line %d: %w: %q", lineNo, ErrMalformedLine, lines[i])
	}
	if i+1 >= len(lines) {
		return types.Vector{}, fmt.Errorf("line %d: %w: no digest line after Msg", lineNo, ErrTruncatedBlock)
	}
	mdFields := strings.Fields(lines[i+1])
	if len(mdFields) <= valueToken {
		return types.Vector{}, fmt.Errorf("line %d: %w: %q", lineNo+1, ErrMalformedLine, lines[i+1])
	}

	msgHex := msgFields[valueToken]
	msg, err := hex.DecodeString(msgHex)
	if err != nil {
		return types.Vector{}, fmt.Errorf("line %d: %w: %w", lineNo, ErrInvalidHex, err)
	}

	return types.Vector{
		Message:    msg,
		MessageHex: msgHex,
		Digest:     mdFields[valueToken],
		Line:       lineNo,
	}, nil
}

// parseLen reads "Len = n". Unparseable values are treated as absent.
func parseLen(fields []string) int {
	if len(fields) <= valueToken {
		return types.UnknownLen
	}
	n, err := strconv.Atoi(fields[valueToken])
	if err != nil || n < 0 {
		return types.UnknownLen
	}
	return n
}

// parseHeader recognizes "[L = n]" and returns n.
func parseHeader(line string) (int, bool) {
	if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
		return 0, false
	}
	key, value, ok := strings.Cut(strings.Trim(line, "[]"), "=")
	if !ok || strings.TrimSpace(key) != "L" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}
	return n, true
}
