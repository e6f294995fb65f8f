package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/guideline/internal/chunker"
	"github.com/sells-group/guideline/internal/model"
	"github.com/sells-group/guideline/internal/store"
)

// apiServer exposes the Q&A service over HTTP.
type apiServer struct {
	env *serviceEnv
}

func newRouter(env *serviceEnv, allowedOrigins []string) *chi.Mux {
	s := &apiServer{env: env}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/health", s.health)
	r.Post("/ingest", s.ingest)
	r.Get("/docs", s.listDocs)
	r.Post("/chat/ask", s.askPolicy)
	r.Get("/review", s.listReview)
	r.Post("/review/{id}/resolve", s.resolveReview)
	r.Get("/schedule", s.getSchedule)
	r.Post("/schedule", s.setSchedule)
	r.Post("/schedule/ask", s.askSchedule)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *apiServer) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type ingestRequest struct {
	Title         string   `json:"title"`
	PolicyKey     string   `json:"policyKey"`
	EffectiveDate string   `json:"effectiveDate"`
	Access        string   `json:"access"`
	Tags          []string `json:"tags"`
	Content       string   `json:"content"`
}

type ingestResponse struct {
	DocID         string `json:"docId"`
	ChunksCreated int    `json:"chunksCreated"`
}

func (s *apiServer) ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.PolicyKey == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "title, policyKey and content are required")
		return
	}

	access := model.AccessLevel(req.Access)
	if req.Access == "" {
		access = model.AccessInternal
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	doc := model.Document{
		ID:            uuid.New().String(),
		Title:         req.Title,
		PolicyKey:     req.PolicyKey,
		EffectiveDate: req.EffectiveDate,
		Access:        access,
		Tags:          req.Tags,
		CreatedAt:     time.Now().UTC(),
	}
	doc.Chunks = chunker.Split(doc.ID, req.Content, access, req.EffectiveDate)

	if err := s.env.Store.CreateDocument(r.Context(), doc); err != nil {
		zap.L().Error("ingest document", zap.String("policyKey", req.PolicyKey), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store document")
		return
	}

	zap.L().Info("document ingested",
		zap.String("docId", doc.ID),
		zap.String("policyKey", doc.PolicyKey),
		zap.Int("chunks", len(doc.Chunks)),
	)
	writeJSON(w, http.StatusOK, ingestResponse{DocID: doc.ID, ChunksCreated: len(doc.Chunks)})
}

func (s *apiServer) listDocs(w http.ResponseWriter, r *http.Request) {
	docs, err := s.env.Store.ListDocuments(r.Context(), store.DocumentFilter{WithChunks: true})
	if err != nil {
		zap.L().Error("list documents", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []model.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

type chatRequest struct {
	Question string `json:"question"`
	Role     string `json:"role"`
}

func (s *apiServer) askPolicy(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := s.env.Pipeline.Ask(r.Context(), req.Question, req.Role)
	if err != nil {
		zap.L().Error("answer question", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to answer question")
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *apiServer) listReview(w http.ResponseWriter, r *http.Request) {
	filter := store.ReviewFilter{Status: model.ReviewStatus(r.URL.Query().Get("status"))}

	items, err := s.env.Store.ListReviewItems(r.Context(), filter)
	if err != nil {
		zap.L().Error("list review items", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list review items")
		return
	}
	if items == nil {
		items = []model.ReviewItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

type resolveReviewRequest struct {
	FinalAnswer  string `json:"finalAnswer"`
	PromoteToFaq bool   `json:"promoteToFaq"`
}

func (s *apiServer) resolveReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req resolveReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FinalAnswer == "" {
		writeError(w, http.StatusBadRequest, "finalAnswer is required")
		return
	}

	if err := s.env.Store.ResolveReviewItem(r.Context(), id, req.FinalAnswer); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "review item not found")
			return
		}
		zap.L().Error("resolve review item", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to resolve review item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true, "promoteToFaq": req.PromoteToFaq})
}

func (s *apiServer) getSchedule(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.env.Store.GetSchedule(r.Context())
	if err != nil {
		zap.L().Error("get schedule", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load schedule")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *apiServer) setSchedule(w http.ResponseWriter, r *http.Request) {
	var cfg model.ScheduleConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.env.Store.SetSchedule(r.Context(), cfg); err != nil {
		zap.L().Error("set schedule", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store schedule")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type scheduleAskRequest struct {
	Question string `json:"question"`
}

func (s *apiServer) askSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleAskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, err := s.env.Store.GetSchedule(r.Context())
	if err != nil {
		zap.L().Error("get schedule", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load schedule")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": s.env.Schedule.Answer(cfg, req.Question)})
}
