package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/internal/secure"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assistant and document-extraction HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(ctx, e),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background()) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the HTTP surface. baseCtx outlives individual requests
// and drives the asynchronous extraction runs.
func newRouter(baseCtx context.Context, e *env) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Actor-ID", "X-Actor-Capabilities"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/assistant/chat", func(w http.ResponseWriter, req *http.Request) {
		var aiReq model.AIRequest
		if err := json.NewDecoder(req.Body).Decode(&aiReq); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if aiReq.Message == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
			return
		}

		resp, err := e.Dispatcher.Handle(req.Context(), aiReq, actorFromHeaders(req))
		if err != nil {
			zap.L().Error("dispatch failed", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "assistant unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Post("/documents/extract", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			DocumentID string `json:"document_id"`
			MimeType   string `json:"mime_type"`
			Path       string `json:"path"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if body.DocumentID == "" || body.Path == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document_id and path are required"})
			return
		}
		if body.MimeType == "" {
			body.MimeType = mimeFromPath(body.Path)
		}

		extReq := model.ExtractionRequest{
			DocumentID: body.DocumentID,
			MimeType:   body.MimeType,
			BlobPath:   body.Path,
		}
		if err := e.Store.CreateExtraction(req.Context(), extReq); err != nil {
			zap.L().Error("queue extraction", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not queue document"})
			return
		}

		// Extraction runs asynchronously; the caller polls the status
		// endpoint. Failures are persisted on the document row.
		go func() {
			if _, err := e.Pipeline.Process(baseCtx, extReq); err != nil {
				zap.L().Error("async extraction failed",
					zap.String("document", extReq.DocumentID),
					zap.Error(err))
			}
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":      "accepted",
			"document_id": body.DocumentID,
		})
	})

	r.Get("/reports/expiring", func(w http.ResponseWriter, req *http.Request) {
		days := 90
		if raw := req.URL.Query().Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be a positive integer"})
				return
			}
			days = parsed
		}

		path := filepath.Join(os.TempDir(), fmt.Sprintf("expiring-%d.xlsx", time.Now().UnixNano()))
		defer os.Remove(path) //nolint:errcheck
		if _, err := e.Exporter.ExportExpiring(req.Context(), path, days, 1000); err != nil {
			zap.L().Error("expiry report", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "report failed"})
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="expiring.xlsx"`)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		http.ServeFile(w, req, path)
	})

	r.Get("/documents/extract/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		res, err := e.Store.GetExtraction(req.Context(), id)
		if err != nil {
			zap.L().Error("get extraction", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
			return
		}
		if res == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown document"})
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	return r
}

// actorFromHeaders builds the acting principal from request headers. The
// platform frontend terminates authentication; an absent actor id means no
// valid session, which the mutation layer refuses.
func actorFromHeaders(req *http.Request) secure.Actor {
	id := req.Header.Get("X-Actor-ID")
	var caps []string
	if raw := req.Header.Get("X-Actor-Capabilities"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				caps = append(caps, c)
			}
		}
	}
	return secure.Actor{
		ID:           id,
		SessionValid: id != "",
		Capabilities: caps,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func mimeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	return "application/octet-stream"
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
