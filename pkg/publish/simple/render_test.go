// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package simple

import (
	"strings"
	"testing"
)

func TestRenderIndex(t *testing.T) {
	got := RenderIndex([]Project{
		{Name: "Foo.Bar", Canonical: "foo-bar"},
		{Name: "requests", Canonical: "requests"},
	})
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<meta name="api-version" value="2" />`,
		`<a href="foo-bar">Foo.Bar</a>`,
		`<a href="requests">requests</a>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderIndex() missing %q in:\n%s", want, got)
		}
	}
	if strings.Index(got, "foo-bar") > strings.Index(got, "requests") {
		t.Errorf("RenderIndex() did not preserve input order:\n%s", got)
	}
}

func TestRenderIndexEmpty(t *testing.T) {
	got := RenderIndex(nil)
	if !strings.Contains(got, "<title>Simple Index</title>") {
		t.Errorf("RenderIndex(nil) missing title:\n%s", got)
	}
	if strings.Contains(got, "<a ") {
		t.Errorf("RenderIndex(nil) contains links:\n%s", got)
	}
}

func TestRenderIndexEscapes(t *testing.T) {
	got := RenderIndex([]Project{{Name: `<script>"x"&y`, Canonical: "x-y"}})
	if strings.Contains(got, "<script>") {
		t.Errorf("RenderIndex() did not escape name:\n%s", got)
	}
	if !strings.Contains(got, "&lt;script&gt;&#34;x&#34;&amp;y") {
		t.Errorf("RenderIndex() unexpected escaping:\n%s", got)
	}
}

func TestRenderDetail(t *testing.T) {
	got := RenderDetail("Foo.Bar", []PackageLink{
		{
			Filename: "foo.bar-1.0.tar.gz",
			Href:     "../../foo.bar-1.0.tar.gz",
			MD5:      "d41d8cd98f00b204e9800998ecf8427e",
		},
	})
	for _, want := range []string{
		"<title>Links for Foo.Bar</title>",
		"<h1>Links for Foo.Bar</h1>",
		`<meta name="api-version" value="2" />`,
		`<a href="../../foo.bar-1.0.tar.gz#md5=d41d8cd98f00b204e9800998ecf8427e" rel="internal">foo.bar-1.0.tar.gz</a><br/>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderDetail() missing %q in:\n%s", want, got)
		}
	}
}

func TestRenderDetailOrder(t *testing.T) {
	got := RenderDetail("pkg", []PackageLink{
		{Filename: "pkg-1.0.tar.gz", Href: "../../pkg-1.0.tar.gz", MD5: "aa"},
		{Filename: "pkg-1.0-py3-none-any.whl", Href: "../../pkg-1.0-py3-none-any.whl", MD5: "bb"},
	})
	first := strings.Index(got, "pkg-1.0.tar.gz#md5=aa")
	second := strings.Index(got, "pkg-1.0-py3-none-any.whl#md5=bb")
	if first < 0 || second < 0 || first > second {
		t.Errorf("RenderDetail() did not preserve link order:\n%s", got)
	}
}

func TestRenderDetailEscapes(t *testing.T) {
	got := RenderDetail(`a<b>&"c"`, []PackageLink{
		{Filename: `f<i>le.tar.gz`, Href: `../../f<i>le.tar.gz`, MD5: "aa"},
	})
	if strings.Contains(got, "<b>") || strings.Contains(got, "<i>") {
		t.Errorf("RenderDetail() did not escape interpolated values:\n%s", got)
	}
}
