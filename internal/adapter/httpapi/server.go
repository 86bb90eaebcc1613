// Package httpapi exposes the portal agent over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"satellite-agent/internal/application/port/input"
	"satellite-agent/internal/application/port/output"
	"satellite-agent/internal/domain/entity"
)

// Server maps the agent's two operations onto JSON endpoints. Failures keep
// the agent contract: search errors answer with an empty list, download
// errors with an error object, both as 502 because the portal is upstream.
type Server struct {
	agent  input.PortalAgent
	log    output.LoggerPort
	router chi.Router
}

func NewServer(agent input.PortalAgent, log output.LoggerPort) *Server {
	requestLog := httplog.NewLogger("satellite-agent", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(requestLog))
	r.Use(middleware.Recoverer)

	s := &Server{agent: agent, log: log, router: r}
	r.Post("/api/search", s.handleSearch)
	r.Post("/api/download", s.handleDownload)
	r.Get("/healthz", s.handleHealth)
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

type searchRequest struct {
	Location   string `json:"location"`
	TimePeriod string `json:"timePeriod"`
	ImageType  string `json:"imageType"`
}

type downloadRequest struct {
	ProductID string `json:"productId"`
	Dir       string `json:"dir"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	imageType, err := entity.ParseImageType(req.ImageType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	records, err := s.agent.Search(r.Context(), entity.SearchQuery{
		Location:   req.Location,
		TimePeriod: req.TimePeriod,
		ImageType:  imageType,
	})
	if err != nil {
		s.log.Error("search failed", "location", req.Location, "error", err)
		writeJSON(w, http.StatusBadGateway, []entity.ProductRecord{})
		return
	}

	if records == nil {
		records = []entity.ProductRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "productId is required"})
		return
	}

	path, err := s.agent.Download(r.Context(), req.ProductID, req.Dir)
	if err != nil {
		s.log.Error("download failed", "product_id", req.ProductID, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, entity.DownloadResult{ProductID: req.ProductID, Path: path})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
