package server

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/arcanaland/bbcards/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{0, 0, 255, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, fields map[string]string, icon []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if icon != nil {
		part, err := mw.CreateFormFile("iconfile", "logo.png")
		require.NoError(t, err)
		_, err = part.Write(icon)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/cards", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	New(Options{}).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCardsURLEncoded(t *testing.T) {
	form := url.Values{
		"whitecards": {"A lifetime of sadness.\nBees?"},
		"blackcards": {"Why can't I sleep at night? ___"},
		"cardsize":   {"LR"},
	}
	req := httptest.NewRequest(http.MethodPost, "/cards", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	New(Options{}).Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestCardsEmptyForm(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/cards", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	New(Options{}).Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestCardsWithUploadedIcon(t *testing.T) {
	req := multipartRequest(t, map[string]string{
		"whitecards": "Vigorous jazz hands.",
		"icon":       "custom",
		"pagelayout": "oneperpage",
	}, pngBytes(t, 64, 32))

	rec := httptest.NewRecorder()
	New(Options{}).Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestCardsRejectsBadIcon(t *testing.T) {
	req := multipartRequest(t, map[string]string{
		"whitecards": "Vigorous jazz hands.",
		"icon":       "custom",
	}, []byte("definitely not an image"))

	rec := httptest.NewRecorder()
	New(Options{}).Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCardsIgnoresUploadForDefaultIcon(t *testing.T) {
	req := multipartRequest(t, map[string]string{
		"whitecards": "Vigorous jazz hands.",
		"icon":       "default",
	}, []byte("definitely not an image"))

	rec := httptest.NewRecorder()
	New(Options{DefaultIcon: "/nonexistent/default.png"}).Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCardsMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	New(Options{}).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cards", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestFormGeometry(t *testing.T) {
	tests := []struct {
		size, layout string
		want         geometry.Geometry
	}{
		{"S", "", geometry.Compute(2.0, 2.0, false, false)},
		{"", "", geometry.Compute(2.5, 3.5, false, false)},
		{"X", "", geometry.Compute(2.5, 3.5, false, false)},
		{"L", "", geometry.Compute(2.5, 3.5, false, false)},
		{"LR", "", geometry.Compute(2.5, 3.5, true, false)},
		{"L", "oneperpage", geometry.Compute(2.5, 3.5, false, true)},
	}

	for _, tt := range tests {
		t.Run(tt.size+"/"+tt.layout, func(t *testing.T) {
			assert.Equal(t, tt.want, FormGeometry(tt.size, tt.layout, geometry.Letter))
		})
	}
}
