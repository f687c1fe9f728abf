package rdata

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// base32HexEncoding is the base32 variant used by NSEC3 owner-hash labels
// (RFC 5155), no padding.
var base32HexEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

func encodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("rdata: invalid hex: %w", err)
	}
	return b, nil
}

func encodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func decodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("rdata: invalid base64: %w", err)
	}
	return b, nil
}

func encodeBase32Hex(b []byte) string {
	return base32HexEncoding.EncodeToString(b)
}

func decodeBase32Hex(s string) ([]byte, error) {
	b, err := base32HexEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("rdata: invalid base32: %w", err)
	}
	return b, nil
}
