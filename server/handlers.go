package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/lixenwraith/ascii-mosaic/config"
	"github.com/lixenwraith/ascii-mosaic/export"
	"github.com/lixenwraith/ascii-mosaic/imageio"
	"github.com/lixenwraith/ascii-mosaic/raster"
)

// formMemory is the in-memory portion of a multipart upload
const formMemory = 8 << 20

// request is a parsed conversion request
type request struct {
	img    image.Image
	name   string
	raster raster.Config
	format export.Format
}

// httpError carries a status code with a client-facing message
type httpError struct {
	status int
	msg    string
	err    error
}

func (e *httpError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%d %s: %v", e.status, e.msg, e.err)
	}
	return fmt.Sprintf("%d %s", e.status, e.msg)
}

func badRequest(msg string, err error) *httpError {
	return &httpError{status: http.StatusBadRequest, msg: msg, err: err}
}

type previewResponse struct {
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
	Text string `json:"text,omitempty"`
	HTML string `json:"html,omitempty"`
}

func (s *Server) uploadPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := uploadTemplate.Execute(w, newFormData(s.cfg)); err != nil {
		log.Printf("upload page: %v", err)
	}
}

func (s *Server) convertHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	req, grid, herr := s.process(w, r)
	if herr != nil {
		s.fail(w, r, herr)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, grid, req.format, s.cfg.TerminalColorMode()); err != nil {
		s.fail(w, r, &httpError{status: http.StatusInternalServerError, msg: "export failed", err: err})
		return
	}

	w.Header().Set("Content-Type", req.format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(req.format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("convert %s: write response: %v", req.name, err)
		return
	}

	log.Printf("convert %s: %dx%d %s %s", req.name, grid.Cols, grid.Rows, req.raster.Detail, req.format)
}

func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	req, grid, herr := s.process(w, r)
	if herr != nil {
		s.fail(w, r, herr)
		return
	}

	resp := previewResponse{Cols: grid.Cols, Rows: grid.Rows}
	if grid.Colorized {
		resp.HTML = export.Markup(grid)
	} else {
		resp.Text = grid.String()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("preview %s: write response: %v", req.name, err)
		return
	}

	log.Printf("preview %s: %dx%d %s", req.name, grid.Cols, grid.Rows, req.raster.Detail)
}

// fail writes an error response and logs it
func (s *Server) fail(w http.ResponseWriter, r *http.Request, e *httpError) {
	log.Printf("%s %s: %v", r.Method, r.URL.Path, e)
	http.Error(w, e.msg, e.status)
}

// process parses, decodes and converts an upload
func (s *Server) process(w http.ResponseWriter, r *http.Request) (*request, *raster.Grid, *httpError) {
	req, herr := s.parse(w, r)
	if herr != nil {
		return nil, nil, herr
	}

	grid, err := raster.Convert(req.img, req.raster)
	if err != nil {
		if errors.Is(err, raster.ErrGridTooLarge) {
			return nil, nil, &httpError{status: http.StatusRequestEntityTooLarge, msg: "image too large to convert", err: err}
		}
		if errors.Is(err, raster.ErrInvalidDimensions) {
			return nil, nil, &httpError{status: http.StatusUnprocessableEntity, msg: err.Error(), err: err}
		}
		return nil, nil, &httpError{status: http.StatusInternalServerError, msg: "conversion failed", err: err}
	}
	return req, grid, nil
}

func (s *Server) parse(w http.ResponseWriter, r *http.Request) (*request, *httpError) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+formOverhead)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, &httpError{status: http.StatusRequestEntityTooLarge, msg: "upload too large", err: err}
		}
		return nil, badRequest("invalid form", err)
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, badRequest("missing image", err)
	}
	defer file.Close()

	img, _, err := imageio.DecodeLimited(file, s.maxUpload, header.Filename)
	if err != nil {
		if errors.Is(err, imageio.ErrTooLarge) {
			return nil, &httpError{status: http.StatusRequestEntityTooLarge, msg: "upload too large", err: err}
		}
		return nil, badRequest(imageio.UserMessage, err)
	}

	rc, herr := s.rasterConfig(r)
	if herr != nil {
		return nil, herr
	}

	format, err := export.ParseFormat(formValue(r, "format", s.cfg.Format), rc.Colorize)
	if err != nil {
		return nil, badRequest(err.Error(), err)
	}

	return &request{img: img, name: header.Filename, raster: rc, format: format}, nil
}

// rasterConfig overlays form fields on the server defaults
func (s *Server) rasterConfig(r *http.Request) (raster.Config, *httpError) {
	rc := s.cfg.Raster()

	if v := r.FormValue("detail"); v != "" {
		d, err := raster.ParseDetailLevel(v)
		if err != nil {
			return rc, badRequest(err.Error(), err)
		}
		rc.Detail = d
	}

	if v := r.FormValue("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return rc, badRequest("invalid width", err)
		}
		// Non-positive widths reach the rasterizer and are rejected there
		if n > 0 {
			n = config.ClampWidth(n)
		}
		rc.OutputWidth = n
	}

	if v := r.FormValue("resample"); v != "" {
		m, err := raster.ParseResampleMode(v)
		if err != nil {
			return rc, badRequest(err.Error(), err)
		}
		rc.Resample = m
	}

	var err error
	if rc.Colorize, err = formBool(r, "color", rc.Colorize); err != nil {
		return rc, badRequest("invalid color flag", err)
	}
	if rc.Invert, err = formBool(r, "invert", rc.Invert); err != nil {
		return rc, badRequest("invalid invert flag", err)
	}

	return rc, nil
}

func formValue(r *http.Request, key, def string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return def
}

// formBool accepts strconv booleans plus the HTML checkbox value "on"
func formBool(r *http.Request, key string, def bool) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(r.FormValue(key)))
	switch v {
	case "":
		return def, nil
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(v)
}
