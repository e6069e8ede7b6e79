// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

func shiftJIS(t *testing.T, s string) []byte {
	t.Helper()

	out, _, err := transform.String(japanese.ShiftJIS.NewEncoder(), s)
	require.NoError(t, err)

	return []byte(out)
}

func TestDecodeUTF8(t *testing.T) {
	text, err := Decode([]byte("住所,名前\n東京都千代田区,丸の内ビル\n"), "UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "住所,名前\n東京都千代田区,丸の内ビル\n", text)
}

func TestDecodeUTF8StripsBOM(t *testing.T) {
	data := append([]byte{0xef, 0xbb, 0xbf}, []byte("a,b\n")...)

	text, err := Decode(data, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", text)
}

func TestDecodeUTF8InvalidBytes(t *testing.T) {
	_, err := Decode([]byte{0xff, 0xfe, 0xfd}, "UTF-8")
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, EncodingUTF8, decodeErr.Encoding)
}

func TestDecodeShiftJIS(t *testing.T) {
	original := "住所\n東京都千代田区丸の内1丁目\n"

	text, err := Decode(shiftJIS(t, original), "Shift_JIS")
	require.NoError(t, err)
	assert.Equal(t, original, text)
}

func TestDecodeShiftJISAliases(t *testing.T) {
	for _, alias := range []string{"Shift_JIS", "shift-jis", "sjis", "SHIFT_JIS"} {
		_, err := Decode(shiftJIS(t, "テスト"), alias)
		assert.NoError(t, err, "alias %q", alias)
	}
}

func TestDecodeShiftJISInvalidBytes(t *testing.T) {
	// 0x80 is undefined in Shift_JIS.
	_, err := Decode([]byte{0x61, 0x80, 0x62}, "Shift_JIS")
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestDecodeUnsupportedEncoding(t *testing.T) {
	_, err := Decode([]byte("a,b\n"), "EUC-JP")
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "EUC-JP", decodeErr.Encoding)
}

func TestDecodeIsIdempotent(t *testing.T) {
	data := shiftJIS(t, "住所\n大阪市北区\n")

	first, err := Decode(data, "Shift_JIS")
	require.NoError(t, err)

	second, err := Decode(data, "Shift_JIS")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
