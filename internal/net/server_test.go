package net

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/input"
	"LocalSketch/internal/library"
	"LocalSketch/internal/session"
	"LocalSketch/web"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// newTestServer serves a library with animals/{cat,dog}.png, animals/sub/owl.png
// and an empty plants/ folder.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "animals", "cat.png"), 40, 30)
	writePNG(t, filepath.Join(root, "animals", "dog.png"), 20, 10)
	writePNG(t, filepath.Join(root, "animals", "sub", "owl.png"), 8, 8)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "plants"), 0o755))

	lib, err := library.New(root)
	require.NoError(t, err)
	srv := NewServer(lib, Options{
		Defaults: SessionDefaults{Brush: input.DefaultBrush(), Mode: session.ModeReference},
		Static:   web.Static(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Peers().CloseAll()
		ts.Close()
	})
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestServer_Folders(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/api/folders")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `["animals","plants"]`, string(body))

	_, body = get(t, ts.URL+"/api/folders?tree=1")
	var tree []library.Folder
	require.NoError(t, json.Unmarshal(body, &tree))
	require.Len(t, tree, 2)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "animals/sub", tree[0].Children[0].Path)
}

func TestServer_Images(t *testing.T) {
	ts := newTestServer(t)

	_, body := get(t, ts.URL+"/api/images?folders=animals,plants,missing")
	var images []string
	require.NoError(t, json.Unmarshal(body, &images))
	assert.ElementsMatch(t, []string{"animals/cat.png", "animals/dog.png", "animals/sub/owl.png"}, images)

	_, body = get(t, ts.URL+"/api/images")
	assert.JSONEq(t, `[]`, string(body))

	resp, body := get(t, ts.URL+"/api/images?folders=../etc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `"error"`)
}

func TestServer_ImageInfo(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/api/images/info?path=animals/cat.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info library.ImageInfo
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, library.ImageInfo{Width: 40, Height: 30, Format: "png"}, info)

	resp, _ = get(t, ts.URL+"/api/images/info?path=animals/nope.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/images/info?path=notes.txt")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ImageFile(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/images/animals/sub/owl.png")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	cfg, err := png.DecodeConfig(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)

	resp, _ = get(t, ts.URL+"/images/animals/missing.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_StaticAndHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "drawingCanvas")

	resp, _ = get(t, ts.URL+"/static/app.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	lib, err := library.New(t.TempDir())
	require.NoError(t, err)
	srv := NewServer(lib, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-errc)
}

func TestSplitFolders(t *testing.T) {
	assert.Equal(t, []string{"a", "b/c"}, splitFolders(" a,,b/c ,"))
	assert.Nil(t, splitFolders(""))
}
