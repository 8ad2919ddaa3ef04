package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/arcanaland/bbcards/internal/deck"
	"github.com/arcanaland/bbcards/internal/fonts"
	"github.com/arcanaland/bbcards/internal/geometry"
	"github.com/arcanaland/bbcards/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	// MaxIconBytes caps the uploaded icon image.
	MaxIconBytes = 1 << 20
	// maxRequestBytes caps the whole form, card text included.
	maxRequestBytes = 8 << 20
)

// Card size codes accepted in the cardsize form field
const (
	SizeSmall        = "S"
	SizeLarge        = "L"
	SizeLargeRounded = "LR"
)

// Options configures the web front end
type Options struct {
	Paper       geometry.Paper
	DefaultIcon string
	Fonts       []fonts.Family
	Logger      *zap.Logger
	Now         func() time.Time
}

// Server renders card decks submitted through an HTML form
type Server struct {
	opts   Options
	logger *zap.Logger
}

// New creates a server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Paper.Width == 0 {
		opts.Paper = geometry.DefaultPaper
	}
	return &Server{opts: opts, logger: logger}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/cards", s.handleCards)

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("Shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down: %w", err)
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("Request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseMultipartForm(MaxIconBytes); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
	}

	g := FormGeometry(r.FormValue("cardsize"), r.FormValue("pagelayout"), s.opts.Paper)

	icon, err := s.formIcon(r)
	if err != nil {
		s.logger.Debug("Rejected icon", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d := deck.FromStrings(r.FormValue("whitecards"), r.FormValue("blackcards"), g)

	var buf bytes.Buffer
	err = render.WriteDeck(&buf, d, render.Options{
		Geometry: g,
		Title:    render.Producer,
		Icon:     icon,
		Fonts:    s.opts.Fonts,
		Now:      s.opts.Now,
	})
	if err != nil {
		s.logger.Error("Failed to render cards", zap.Error(err))
		http.Error(w, "failed to render cards", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="cards.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// formIcon returns the uploaded icon, or the default icon when the form
// asks for it or carries no upload.
func (s *Server) formIcon(r *http.Request) (*render.Icon, error) {
	if r.FormValue("icon") != "default" && r.MultipartForm != nil {
		file, header, err := r.FormFile("iconfile")
		if err == nil {
			defer file.Close()
			if header.Size > MaxIconBytes {
				return nil, fmt.Errorf("icon larger than %d bytes", MaxIconBytes)
			}
			icon, err := render.DecodeIcon(file, header.Filename)
			if err != nil {
				return nil, fmt.Errorf("unreadable icon: %w", err)
			}
			return icon, nil
		}
	}

	if s.opts.DefaultIcon == "" {
		return nil, nil
	}
	if _, err := os.Stat(s.opts.DefaultIcon); err != nil {
		return nil, nil
	}
	icon, err := render.LoadIcon(s.opts.DefaultIcon)
	if err != nil {
		s.logger.Warn("Ignoring default icon", zap.String("icon", s.opts.DefaultIcon), zap.Error(err))
		return nil, nil
	}
	return icon, nil
}

// FormGeometry maps the form's card size code and page layout to a
// geometry. Any code other than S means large cards.
func FormGeometry(size, layout string, paper geometry.Paper) geometry.Geometry {
	w, h, rounded := 2.5, 3.5, false
	switch size {
	case SizeSmall:
		w, h = 2.0, 2.0
	case SizeLargeRounded:
		rounded = true
	}
	return geometry.ComputeOnPaper(w, h, rounded, layout == "oneperpage", paper)
}
