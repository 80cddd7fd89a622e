// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package simple

import (
	"html"
	"strings"
)

// Project is one entry in the root index page.
type Project struct {
	// Name is the raw project name used as the link text.
	Name string
	// Canonical is the sanitized name used as the link href.
	Canonical string
}

// PackageLink is one entry in a per-project detail page.
type PackageLink struct {
	Filename string
	// Href is the document-relative path back to the artifact at the
	// publication root, e.g. "../../foo-1.0.tar.gz".
	Href string
	// MD5 is the artifact checksum appended as a URL fragment so that
	// installation clients can verify the download.
	MD5 string
}

// RenderIndex renders the root project index over the given projects.
//
// Output order follows input order; callers must pre-sort. All interpolated
// values are HTML-escaped.
func RenderIndex(projects []Project) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html>\n")
	b.WriteString("  <head>\n")
	b.WriteString("    <title>Simple Index</title>\n")
	b.WriteString("    <meta name=\"api-version\" value=\"2\" />\n")
	b.WriteString("  </head>\n")
	b.WriteString("  <body>\n")
	for _, p := range projects {
		b.WriteString("    <a href=\"")
		b.WriteString(html.EscapeString(p.Canonical))
		b.WriteString("\">")
		b.WriteString(html.EscapeString(p.Name))
		b.WriteString("</a>\n")
	}
	b.WriteString("  </body>\n")
	b.WriteString("</html>\n")
	return b.String()
}

// RenderDetail renders the package listing page for a single project.
//
// Each link carries rel="internal" to mark packages hosted in-repo as
// opposed to externally hosted ones, and to keep crawlers off them.
func RenderDetail(projectName string, links []PackageLink) string {
	name := html.EscapeString(projectName)
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html>\n")
	b.WriteString("<head>\n")
	b.WriteString("  <title>Links for ")
	b.WriteString(name)
	b.WriteString("</title>\n")
	b.WriteString("  <meta name=\"api-version\" value=\"2\" />\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString("    <h1>Links for ")
	b.WriteString(name)
	b.WriteString("</h1>\n")
	for _, l := range links {
		b.WriteString("    <a href=\"")
		b.WriteString(html.EscapeString(l.Href))
		b.WriteString("#md5=")
		b.WriteString(html.EscapeString(l.MD5))
		b.WriteString("\" rel=\"internal\">")
		b.WriteString(html.EscapeString(l.Filename))
		b.WriteString("</a><br/>\n")
	}
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")
	return b.String()
}
