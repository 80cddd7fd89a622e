// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package hashext

import (
	"crypto"
	_ "crypto/md5"
	_ "crypto/sha256"
	"testing"
)

func TestHexDigest(t *testing.T) {
	tests := []struct {
		name  string
		algo  crypto.Hash
		input string
		want  string
	}{
		{
			name:  "md5 empty",
			algo:  crypto.MD5,
			input: "",
			want:  "d41d8cd98f00b204e9800998ecf8427e",
		},
		{
			name:  "md5 basic",
			algo:  crypto.MD5,
			input: "hello world",
			want:  "5eb63bbbe01eeed093cb22bb8f5acdc3",
		},
		{
			name:  "sha256 empty",
			algo:  crypto.SHA256,
			input: "",
			want:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewTypedHash(tc.algo)
			if _, err := h.Write([]byte(tc.input)); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if got := h.HexDigest(); got != tc.want {
				t.Errorf("HexDigest() = %q, want %q", got, tc.want)
			}
			if h.Algorithm != tc.algo {
				t.Errorf("Algorithm = %v, want %v", h.Algorithm, tc.algo)
			}
		})
	}
}
