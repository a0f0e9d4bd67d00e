package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/logsense/internal/cim"
	"github.com/sells-group/logsense/internal/extract"
	"github.com/sells-group/logsense/internal/model"
	"github.com/sells-group/logsense/internal/oracle"
	"github.com/sells-group/logsense/internal/pii"
	"github.com/sells-group/logsense/internal/store"
)

var servePort int

// apiSource marks analyses recorded by the HTTP handlers, where the input
// arrives in the request body rather than from a source locator.
const apiSource = "api"

// serverEnv bundles the long-lived dependencies of the HTTP API. The
// detector list and configured patterns are kept so requests carrying their
// own custom patterns can get a per-request scanner.
type serverEnv struct {
	detector  *extract.Detector
	scanner   *pii.Scanner
	detectors []string
	patterns  []model.CustomPattern
	mapper    *cim.Mapper
	store     store.Store
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Serves the analysis API used by the browser UI: field extraction, PII scanning, CIM mapping, and saved-run listing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		patterns, err := loadPatterns("")
		if err != nil {
			return err
		}

		client := initOracle()
		detectors := cfg.PII.DetectorList()
		env := &serverEnv{
			detector:  extract.NewDetector(client),
			scanner:   pii.NewScanner(detectors, patterns),
			detectors: detectors,
			patterns:  patterns,
			mapper:    cim.NewMapper(client),
			store:     st,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background()) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func buildRouter(env *serverEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/detect", env.handleDetect)
	r.Post("/api/pii", env.handlePII)
	r.Post("/api/cim", env.handleCIM)
	r.Get("/api/runs", env.handleRuns)

	return r
}

func (env *serverEnv) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req model.DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	proposal, err := env.detector.Detect(r.Context(), req)
	if err != nil {
		if errors.Is(err, extract.ErrEmptySample) {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}
		zap.L().Error("detect failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "detection failed")
		return
	}
	env.record(r.Context(), model.AnalysisKindExtraction, req.Text, proposal)
	writeJSON(w, http.StatusOK, proposal)
}

func (env *serverEnv) handlePII(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text           string                `json:"text"`
		CustomPatterns []model.CustomPattern `json:"custom_patterns"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	scanner := env.scanner
	if len(req.CustomPatterns) > 0 {
		patterns := append(append([]model.CustomPattern{}, env.patterns...), req.CustomPatterns...)
		scanner = pii.NewScanner(env.detectors, patterns)
	}
	scan := scanner.Scan(req.Text)
	env.record(r.Context(), model.AnalysisKindPII, req.Text, scan)
	writeJSON(w, http.StatusOK, scan)
}

func (env *serverEnv) handleCIM(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model  string                 `json:"cimModel"`
		Fields []model.ExtractedField `json:"extractedFields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Model == "" || len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, "extractedFields and cimModel are required")
		return
	}

	mappings, err := env.mapper.Map(r.Context(), req.Model, req.Fields)
	if err != nil {
		switch {
		case errors.Is(err, cim.ErrInvalidModel):
			writeError(w, http.StatusBadRequest, "invalid CIM model")
		case errors.Is(err, oracle.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "AI service is not configured")
		default:
			zap.L().Error("cim mapping failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "mapping failed")
		}
		return
	}
	env.record(r.Context(), model.AnalysisKindCIM, cimInputKey(req.Model, req.Fields), mappings)
	writeJSON(w, http.StatusOK, mappings)
}

// record persists an analysis run so it shows up in /api/runs. Store
// failures are logged and never fail the request.
func (env *serverEnv) record(ctx context.Context, kind, sample string, result any) {
	if _, err := saveAnalysis(ctx, env.store, kind, sample, apiSource, result); err != nil {
		zap.L().Warn("record analysis failed", zap.String("kind", kind), zap.Error(err))
	}
}

func (env *serverEnv) handleRuns(w http.ResponseWriter, r *http.Request) {
	analyses, err := env.store.ListAnalyses(r.Context(), store.AnalysisFilter{
		Kind: r.URL.Query().Get("kind"),
	})
	if err != nil {
		zap.L().Error("list analyses failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	if analyses == nil {
		analyses = []model.Analysis{}
	}
	writeJSON(w, http.StatusOK, analyses)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
