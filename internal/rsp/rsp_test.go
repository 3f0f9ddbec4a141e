// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rsp

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vecprep/pkg/types"
)

const twoBlocks = `Len = 8
Msg = ab
MD = 1234abcd

Len = 0
Msg = 00
MD = deadbeef
`

const withHeader = `#  CAVS 11.0
#  "SHA-256 LongMsg" information
#  Generated on Tue Mar 15 08:23:49 2011

[L = 32]

Len = 1304
Msg = 451101250ec6f26652249d59dc974b7361d571a8101cdfd36aba3b5854d3ae086b5fdd4597721b66e3c0dc5d8c606d9657d0e323283a5217d1f53f2f284f57b85c8a61ac8924711f895c5ed90ef17745ed2d728abd22a5f7a13479a462d71b56c19a74a40b655c58edfe0a188ad2cf46cbf30524f65d423c837dd1ff2bf462ac4198007345bb44dbb7b1c861298cdf61982a833afc728fae1eda2f87aa2c9480858bec
MD = 3c593aa539fdcdae516cdf2f15000f6634185c88f505b39775fb9ab137a10aa2
`

func lines(s string) []string {
	out, err := ReadLines(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return out
}

func TestParseLines(t *testing.T) {
	got, err := ParseLines(lines(twoBlocks))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, []byte{0xab}, got[0].Message)
	assert.Equal(t, "ab", got[0].MessageHex)
	assert.Equal(t, "1234abcd", got[0].Digest)
	assert.Equal(t, 8, got[0].LenBits)
	assert.Equal(t, 2, got[0].Line)

	assert.Equal(t, 1, got[1].Index)
	assert.Equal(t, []byte{0x00}, got[1].Message)
	assert.Equal(t, "deadbeef", got[1].Digest)
	assert.Equal(t, 0, got[1].LenBits)
	assert.Equal(t, 6, got[1].Line)
}

func TestParseLinesHeaderAndComments(t *testing.T) {
	got, err := ParseLines(lines(withHeader))
	require.NoError(t, err)
	require.Len(t, got, 1)

	v := got[0]
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, 1304, v.LenBits)
	assert.Equal(t, 32, v.DigestLen)
	assert.Len(t, v.Message, 1304/8)
	assert.Equal(t, "3c593aa539fdcdae516cdf2f15000f6634185c88f505b39775fb9ab137a10aa2", v.Digest)
}

func TestParseLinesSkipsNonData(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty input", input: "", want: 0},
		{name: "only separators", input: "\n\n   \n\t\n", want: 0},
		{name: "len lines only", input: "Len = 8\nLen = 16\n", want: 0},
		{name: "short lines skipped", input: "a = b\nMsg\nx\n", want: 0},
		{name: "md without msg", input: "MD = 1234abcd\n", want: 0},
		{name: "blank lines between blocks", input: "\n\nMsg = ab\nMD = 01\n\n\n\nMsg = cd\nMD = 02\n", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLines(lines(tt.input))
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
			for i, v := range got {
				assert.Equal(t, i, v.Index, "indices must be contiguous")
			}
		})
	}
}

func TestParseLinesErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "odd length hex", input: "Msg = abc\nMD = 00\n", wantErr: ErrInvalidHex},
		{name: "non hex digit", input: "Msg = zz\nMD = 00\n", wantErr: ErrInvalidHex},
		{name: "msg is last line", input: "Len = 8\nMsg = ab", wantErr: ErrTruncatedBlock},
		{name: "msg is last line with newline", input: "Len = 8\nMsg = ab\n", wantErr: ErrTruncatedBlock},
		{name: "msg without value", input: "Msg =ab\nMD = 00\n", wantErr: ErrMalformedLine},
		{name: "blank line after msg", input: "Msg = ab\n\nMD = 00\n", wantErr: ErrMalformedLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLines(lines(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestParseLinesErrorLineNumber(t *testing.T) {
	_, err := ParseLines(lines("Len = 8\nMsg = ab\nMD = 00\n\nMsg = abc\nMD = 01\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 5:")
}

func TestWalkStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	var seen []int
	err := Walk(lines(twoBlocks), func(v types.Vector) error {
		seen = append(seen, v.Index)
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []int{0}, seen)
}

func TestWalkDeliversEarlierBlocksBeforeError(t *testing.T) {
	var seen []string
	err := Walk(lines("Msg = ab\nMD = 01\nMsg = ff\n"), func(v types.Vector) error {
		seen = append(seen, v.Digest)
		return nil
	})
	assert.ErrorIs(t, err, ErrTruncatedBlock)
	assert.Equal(t, []string{"01"}, seen)
}

func TestLenResetsBetweenBlocks(t *testing.T) {
	got, err := ParseLines(lines("Len = 8\nMsg = ab\nMD = 01\n\nMsg = cd\nMD = 02\n"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 8, got[0].LenBits)
	assert.Equal(t, types.UnknownLen, got[1].LenBits)
}

func TestReadLinesStripsCRLF(t *testing.T) {
	got := lines("Msg = ab \r\n  MD = 01\r\n")
	assert.Equal(t, []string{"Msg = ab", "MD = 01"}, got)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SHA256LongMsg.rsp")
	require.NoError(t, os.WriteFile(path, []byte(twoBlocks), 0o644))

	got, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.rsp"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		line   string
		want   int
		wantOK bool
	}{
		{"[L = 32]", 32, true},
		{"[L=20]", 20, true},
		{"[Foo = 1]", 0, false},
		{"[L = x]", 0, false},
		{"Len = 8", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseHeader(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
