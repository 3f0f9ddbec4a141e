// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vecprep/internal/extract"
	"github.com/pdiddy/vecprep/pkg/types"
)

const (
	sumAB    = "087d80f7f182dd44f184aa86ca34488853ebcc04f0c60d5294919a466b463831"
	sumZero  = "6e340b9cffb37a989ca544e6bb780a2c78901d3fb33738768511a30617afa01d"
	sumEmpty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

func setupOut(t *testing.T) string {
	t.Helper()
	out := t.TempDir()
	for _, d := range []string{types.DefaultMessagesDir, types.DefaultHashesDir} {
		require.NoError(t, os.Mkdir(filepath.Join(out, d), 0o755))
	}
	return out
}

func writePair(t *testing.T, out string, i int, msg []byte, digest string) {
	t.Helper()
	require.NoError(t, extract.WriteVector(out, types.Vector{Index: i, Message: msg, Digest: digest}))
}

func TestSum(t *testing.T) {
	assert.Equal(t, sumEmpty, Sum(nil))
	assert.Equal(t, sumAB, Sum([]byte{0xab}))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Sum([]byte("abc")))
}

func TestVerify(t *testing.T) {
	out := setupOut(t)
	writePair(t, out, 0, []byte{0xab}, sumAB)
	writePair(t, out, 1, []byte{0x00}, sumZero)
	writePair(t, out, 2, []byte{}, sumEmpty)

	var log bytes.Buffer
	summary, err := Verify(context.Background(), types.VerifyConfig{OutDir: out}, &log)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.OK)
	assert.Equal(t, 3, summary.Total())
	assert.False(t, summary.HasFailures())
	assert.Contains(t, log.String(), "Verify summary: 3 ok")
}

func TestVerifyUppercaseDigest(t *testing.T) {
	out := setupOut(t)
	writePair(t, out, 0, []byte{0xab}, "087D80F7F182DD44F184AA86CA34488853EBCC04F0C60D5294919A466B463831")

	summary, err := Verify(context.Background(), types.VerifyConfig{OutDir: out}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OK)
}

func TestVerifyMismatchAndMissingHash(t *testing.T) {
	out := setupOut(t)
	writePair(t, out, 0, []byte{0xab}, "1234abcd")
	require.NoError(t, os.WriteFile(extract.MessagePath(out, 1), []byte{0x00}, 0o644))

	var log bytes.Buffer
	summary, err := Verify(context.Background(), types.VerifyConfig{OutDir: out}, &log)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Mismatched)
	assert.Equal(t, 1, summary.MissingHash)
	assert.True(t, summary.HasFailures())
	require.Len(t, summary.Results, 2)
	assert.Equal(t, StatusMismatch, summary.Results[0].Status)
	assert.Equal(t, sumAB, summary.Results[0].Got)
	assert.Equal(t, StatusMissingHash, summary.Results[1].Status)
	assert.Contains(t, log.String(), "mismatch: msg0")
	assert.Contains(t, log.String(), "missing:  hash1")
}

func TestVerifyLimit(t *testing.T) {
	out := setupOut(t)
	writePair(t, out, 0, []byte{0xab}, sumAB)
	writePair(t, out, 1, []byte{0x00}, "wrong")

	summary, err := Verify(context.Background(), types.VerifyConfig{OutDir: out, Limit: 1}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total())
	assert.False(t, summary.HasFailures())
}

func TestVerifyGap(t *testing.T) {
	out := setupOut(t)
	writePair(t, out, 0, []byte{0xab}, sumAB)
	writePair(t, out, 2, []byte{0x00}, sumZero)

	summary, err := Verify(context.Background(), types.VerifyConfig{OutDir: out}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrGap)
	assert.Equal(t, 1, summary.OK)
}

func TestVerifyEmptyDir(t *testing.T) {
	summary, err := Verify(context.Background(), types.VerifyConfig{OutDir: t.TempDir()}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total())
}

func TestVerifyCancelled(t *testing.T) {
	out := setupOut(t)
	writePair(t, out, 0, []byte{0xab}, sumAB)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Verify(ctx, types.VerifyConfig{OutDir: out}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
