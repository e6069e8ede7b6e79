// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Canonical encoding names accepted from callers.
const (
	EncodingUTF8     = "UTF-8"
	EncodingShiftJIS = "Shift_JIS"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// DecodeError signals an unsupported encoding name or a byte sequence that
// is not valid for the chosen encoding.
type DecodeError struct {
	Encoding string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding as %s: %v", e.Encoding, e.Err)
	}

	return fmt.Sprintf("unsupported encoding: %s", e.Encoding)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encodings lists the supported encoding names.
func Encodings() []string {
	return []string{EncodingUTF8, EncodingShiftJIS}
}

// canonicalEncoding folds user input ("utf-8", "sjis", ...) to a canonical
// encoding name, or returns false for unknown names.
func canonicalEncoding(name string) (string, bool) {
	folded := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))

	switch folded {
	case "utf8":
		return EncodingUTF8, true
	case "shiftjis", "sjis":
		return EncodingShiftJIS, true
	default:
		return "", false
	}
}

// Decode converts raw file bytes to text using the named encoding. It is a
// pure transform: calling it again with a different encoding re-derives the
// text from the same bytes.
func Decode(data []byte, encodingName string) (string, error) {
	name, ok := canonicalEncoding(encodingName)
	if !ok {
		return "", &DecodeError{Encoding: encodingName}
	}

	switch name {
	case EncodingUTF8:
		data = bytes.TrimPrefix(data, utf8BOM)

		if !utf8.Valid(data) {
			return "", &DecodeError{Encoding: name, Err: fmt.Errorf("invalid byte sequence")}
		}

		return string(data), nil
	default: // Shift_JIS
		text, _, err := transform.String(japanese.ShiftJIS.NewDecoder(), string(data))
		if err != nil {
			return "", &DecodeError{Encoding: name, Err: err}
		}

		// The decoder substitutes U+FFFD for undecodable bytes instead of
		// failing; valid Shift_JIS input can never produce it.
		if strings.ContainsRune(text, utf8.RuneError) {
			return "", &DecodeError{Encoding: name, Err: fmt.Errorf("invalid byte sequence")}
		}

		return text, nil
	}
}
