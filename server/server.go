// Package server exposes conversion over HTTP: an upload form, a download
// endpoint returning the exported artifact, and a JSON preview endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/lixenwraith/ascii-mosaic/config"
)

const shutdownTimeout = 5 * time.Second

// formOverhead allows multipart framing and text fields on top of the image
const formOverhead = 1 << 20

// Server serves the conversion endpoints. Request defaults come from the
// configuration it was built with.
type Server struct {
	cfg          *config.Config
	maxUpload    int64
	readTimeout  time.Duration
	writeTimeout time.Duration
	mux          *http.ServeMux
}

// New builds a server from a validated configuration
func New(cfg *config.Config) (*Server, error) {
	readTimeout, err := time.ParseDuration(cfg.Server.ReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("read timeout: %w", err)
	}
	writeTimeout, err := time.ParseDuration(cfg.Server.WriteTimeout)
	if err != nil {
		return nil, fmt.Errorf("write timeout: %w", err)
	}

	s := &Server{
		cfg:          cfg,
		maxUpload:    cfg.Server.MaxUploadBytes,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		mux:          http.NewServeMux(),
	}

	s.mux.HandleFunc("/", s.uploadPage)
	s.mux.HandleFunc("/convert", s.convertHandler)
	s.mux.HandleFunc("/preview", s.previewHandler)

	return s, nil
}

// Handler returns the request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.mux,
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readTimeout,
		WriteTimeout:      s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server started on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Printf("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
