package server

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/ascii-mosaic/config"
	"github.com/lixenwraith/ascii-mosaic/imageio"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	return buf.Bytes()
}

// uploadRequest builds a multipart POST with an optional image and fields
func uploadRequest(t *testing.T, path string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if data != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		fw.Write(data)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// TestUploadPage verifies the form is served with defaults selected
func TestUploadPage(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`<form action="/convert"`, `value="medium" selected`, `value="100"`, `name="image"`} {
		if !strings.Contains(body, want) {
			t.Errorf("Upload page missing %q", want)
		}
	}
}

// TestRouting verifies unknown paths and wrong methods are rejected
func TestRouting(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"Post root", http.MethodPost, "/", http.StatusMethodNotAllowed},
		{"Get convert", http.MethodGet, "/convert", http.StatusMethodNotAllowed},
		{"Get preview", http.MethodGet, "/preview", http.StatusMethodNotAllowed},
		{"Unknown path", http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

// TestConvertText verifies a monochrome download
func TestConvertText(t *testing.T) {
	s := newTestServer(t, nil)

	req := uploadRequest(t, "/convert", pngBytes(t, 100, 100, color.Black), map[string]string{
		"width": "50",
	})
	rec := serve(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="ascii-art.txt"` {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Unexpected Content-Type %q", ct)
	}

	want := strings.Repeat(strings.Repeat("@", 50)+"\n", 25)
	if rec.Body.String() != want {
		t.Errorf("Unexpected body:\n%s", rec.Body.String())
	}
}

// TestConvertColorHTML verifies colorized uploads download as HTML
func TestConvertColorHTML(t *testing.T) {
	s := newTestServer(t, nil)

	req := uploadRequest(t, "/convert", pngBytes(t, 60, 60, color.RGBA{255, 0, 0, 255}), map[string]string{
		"color":  "on",
		"detail": "detailed",
		"width":  "50",
	})
	rec := serve(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="ascii-art.html"` {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Colorful ASCII Art</title>") {
		t.Error("Expected document shell")
	}
	if !strings.Contains(body, `<span style="color:rgb(255,0,0)">*</span>`) {
		t.Error("Expected red color spans")
	}
}

// TestConvertExplicitFormat verifies the format field overrides auto
func TestConvertExplicitFormat(t *testing.T) {
	s := newTestServer(t, nil)

	req := uploadRequest(t, "/convert", pngBytes(t, 60, 60, color.White), map[string]string{
		"color":  "true",
		"format": "text",
	})
	rec := serve(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "ascii-art.txt") {
		t.Errorf("Expected text download, got %q", cd)
	}
}

// TestConvertErrors verifies status codes for rejected uploads
func TestConvertErrors(t *testing.T) {
	s := newTestServer(t, nil)
	valid := pngBytes(t, 20, 20, color.White)

	tests := []struct {
		name    string
		image   []byte
		fields  map[string]string
		want    int
		wantMsg string
	}{
		{"Missing image", nil, nil, http.StatusBadRequest, "missing image"},
		{"Garbage image", []byte("not an image"), nil, http.StatusBadRequest, imageio.UserMessage},
		{"Bad width", valid, map[string]string{"width": "wide"}, http.StatusBadRequest, "invalid width"},
		{"Zero width", valid, map[string]string{"width": "0"}, http.StatusUnprocessableEntity, "invalid dimensions"},
		{"Bad detail", valid, map[string]string{"detail": "ultra"}, http.StatusBadRequest, "unknown detail level"},
		{"Bad resample", valid, map[string]string{"resample": "sinc"}, http.StatusBadRequest, "unknown resample mode"},
		{"Bad format", valid, map[string]string{"format": "pdf"}, http.StatusBadRequest, "unknown output format"},
		{"Bad color flag", valid, map[string]string{"color": "maybe"}, http.StatusBadRequest, "invalid color flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, uploadRequest(t, "/convert", tt.image, tt.fields))
			if rec.Code != tt.want {
				t.Fatalf("Expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Errorf("Expected body containing %q, got %q", tt.wantMsg, rec.Body.String())
			}
		})
	}
}

// TestConvertTooLarge verifies the upload limit
func TestConvertTooLarge(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Server.MaxUploadBytes = 1024
	})

	rec := serve(s, uploadRequest(t, "/convert", bytes.Repeat([]byte{0xff}, 4096), nil))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", rec.Code)
	}
}

// TestConvertDimensionLimits verifies small files with extreme dimensions are refused
func TestConvertDimensionLimits(t *testing.T) {
	s := newTestServer(t, nil)

	var strip bytes.Buffer
	if err := png.Encode(&strip, image.NewGray(image.Rect(0, 0, 1, 200000))); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}

	tests := []struct {
		name    string
		data    []byte
		wantMsg string
	}{
		{"Tall strip", strip.Bytes(), "image too large to convert"},
		{"Huge header", hugePNGHeader(), "upload too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, uploadRequest(t, "/convert", tt.data, map[string]string{"width": "200"}))
			if rec.Code != http.StatusRequestEntityTooLarge {
				t.Fatalf("Expected 413, got %d: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Errorf("Expected body containing %q, got %q", tt.wantMsg, rec.Body.String())
			}
		})
	}
}

// hugePNGHeader declares a 100000x100000 grayscale PNG without pixel data
func hugePNGHeader() []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	chunk := []byte("IHDR")
	chunk = binary.BigEndian.AppendUint32(chunk, 100000)
	chunk = binary.BigEndian.AppendUint32(chunk, 100000)
	chunk = append(chunk, 8, 0, 0, 0, 0)

	binary.Write(&buf, binary.BigEndian, uint32(13))
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

// TestPreview verifies JSON previews for both color modes
func TestPreview(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("Text", func(t *testing.T) {
		rec := serve(s, uploadRequest(t, "/preview", pngBytes(t, 100, 40, color.White), map[string]string{"width": "60"}))
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		var resp previewResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if resp.Cols != 60 || resp.Rows != 12 {
			t.Errorf("Expected 60x12, got %dx%d", resp.Cols, resp.Rows)
		}
		if resp.HTML != "" {
			t.Error("Monochrome preview should not carry html")
		}
		if strings.Count(resp.Text, "\n") != 12 {
			t.Errorf("Expected 12 lines, got %q", resp.Text)
		}
	})

	t.Run("HTML", func(t *testing.T) {
		rec := serve(s, uploadRequest(t, "/preview", pngBytes(t, 100, 40, color.White), map[string]string{"color": "1"}))
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		var resp previewResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if resp.Text != "" || !strings.Contains(resp.HTML, "<span") {
			t.Errorf("Expected html preview, got %+v", resp)
		}
	})
}

// TestNewInvalidTimeout verifies a malformed timeout fails server construction
func TestNewInvalidTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Server.ReadTimeout = "soon"
	if _, err := New(cfg); err == nil {
		t.Error("Expected error for invalid timeout")
	}
}

// TestListenAndServeShutdown verifies graceful stop on context cancel
func TestListenAndServeShutdown(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Server.Addr = "127.0.0.1:0"
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not shut down")
	}
}
