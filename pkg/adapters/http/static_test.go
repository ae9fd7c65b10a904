package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestIsAsset(t *testing.T) {
	assert.True(t, IsAsset("/coverage/application.css"))
	assert.True(t, IsAsset("/coverage/application.js"))
	assert.True(t, IsAsset("/coverage/loading.gif"))
	assert.True(t, IsAsset("/coverage/images/bar.PNG"))
	assert.False(t, IsAsset("/coverage/application.exe"))
	assert.False(t, IsAsset("/coverage/data.json"))
	assert.False(t, IsAsset("/coverage/"))
}

func TestStaticHandler_DefaultAssets(t *testing.T) {
	h := staticHandler{fsys: DefaultAssets()}

	tests := []struct {
		path        string
		contentType string
	}{
		{"/coverage/application.css", "css"},
		{"/coverage/application.js", "javascript"},
		{"/a/b/loading.gif", "image/gif"},
		{"/coverage/images/bar.png", "image/png"},
		{"/application.css", "css"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			assert.NotZero(t, w.Body.Len())
		})
	}
}

func TestStaticHandler_Missing(t *testing.T) {
	h := staticHandler{fsys: DefaultAssets()}

	for _, p := range []string{"/coverage/missing.css", "/coverage/images/", "/../../etc/passwd.png"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.URL.Path = p
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, p)
	}
}

func TestStaticHandler_OnlyAllowListedFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"secret.txt": {Data: []byte("nope")},
		"app.css":    {Data: []byte("body{}")},
	}
	h := staticHandler{fsys: fsys}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/coverage/secret.txt", nil)
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/coverage/app.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())
}
