// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

func TestFSHandler(t *testing.T) {
	fs := memfs.New()
	for path, content := range map[string]string{
		"simple/index.html":         "<html>root</html>",
		"simple/foo-bar/index.html": "<html>foo-bar</html>",
		"foo.bar-1.0.tar.gz":        "blob",
	} {
		if err := util.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	srv := httptest.NewServer(FSHandler(fs))
	defer srv.Close()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "file", path: "/simple/index.html", wantStatus: http.StatusOK, wantBody: "<html>root</html>"},
		{name: "directory serves index", path: "/simple/foo-bar", wantStatus: http.StatusOK, wantBody: "<html>foo-bar</html>"},
		{name: "artifact", path: "/foo.bar-1.0.tar.gz", wantStatus: http.StatusOK, wantBody: "blob"},
		{name: "missing", path: "/nope", wantStatus: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.path)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("Get(%s) status = %d, want %d", tc.path, resp.StatusCode, tc.wantStatus)
			}
			if tc.wantBody == "" {
				return
			}
			b, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(b) != tc.wantBody {
				t.Errorf("Get(%s) body = %q, want %q", tc.path, b, tc.wantBody)
			}
		})
	}
}
