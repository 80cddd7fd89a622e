// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package form

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type publishForm struct {
	Publisher  string   `form:"publisher,required"`
	Repository string   `form:"repository,required"`
	Labels     []string `form:"labels"`
	Count      int      `form:"count"`
}

func TestMarshalRoundTrip(t *testing.T) {
	in := publishForm{
		Publisher:  "default",
		Repository: "pypi-mirror",
		Labels:     []string{"a", "b"},
		Count:      3,
	}
	values, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out publishForm
	if err := Unmarshal(values, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalMissingRequired(t *testing.T) {
	var out publishForm
	err := Unmarshal(url.Values{"publisher": []string{"default"}}, &out)
	if err != ErrMissingRequired {
		t.Errorf("Unmarshal() error = %v, want %v", err, ErrMissingRequired)
	}
}

func TestMarshalNonStruct(t *testing.T) {
	if _, err := Marshal("nope"); err != ErrInvalidType {
		t.Errorf("Marshal() error = %v, want %v", err, ErrInvalidType)
	}
}

func TestMarshalOmitsZeroValues(t *testing.T) {
	values, err := Marshal(publishForm{Publisher: "default", Repository: "r"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if _, ok := values["labels"]; ok {
		t.Errorf("Marshal() included zero-valued labels: %v", values)
	}
	if _, ok := values["count"]; ok {
		t.Errorf("Marshal() included zero-valued count: %v", values)
	}
}
