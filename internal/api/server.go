package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"hepflow/internal/config"
	"hepflow/internal/files"
	"hepflow/internal/holdingpen"
	"hepflow/internal/models"
	"hepflow/internal/storage"
	"hepflow/internal/util"
	"hepflow/internal/workflows"

	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
	"go.uber.org/zap"
)

type Server struct {
	cfg      config.Config
	objects  *storage.ObjectRepo
	journals *storage.JournalRepo
	records  *storage.RecordRepo
	files    *files.Store
	temporal tclient.Client
	log      *zap.SugaredLogger
}

func NewServer(cfg config.Config, db *storage.DB, store *files.Store, tc tclient.Client, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{
		cfg:      cfg,
		objects:  storage.NewObjectRepo(db),
		journals: storage.NewJournalRepo(db),
		records:  storage.NewRecordRepo(db),
		files:    store,
		temporal: tc,
		log:      log,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/holdingpen", s.handleHoldingpen)
	mux.HandleFunc("/holdingpen/", s.handleHoldingpenScoped)
	mux.HandleFunc("/api/files/", s.handleFiles)
	mux.HandleFunc("/api/journals/", s.handleJournals)
	mux.HandleFunc("/api/records/", s.handleRecords)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleHoldingpen(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		status := strings.TrimSpace(r.URL.Query().Get("status"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		objects, err := s.objects.List(r.Context(), status, limit)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"objects": objects})
	case http.MethodPost:
		s.handleCreateObject(w, r)
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleCreateObject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data          models.HEPRecord     `json:"data"`
		Formdata      *holdingpen.Formdata `json:"formdata"`
		SubmissionPDF string               `json:"submission_pdf"`
		UserID        *int64               `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if len(req.Data.Titles) == 0 && len(req.Data.DocumentType) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("record data is required"))
		return
	}

	obj := holdingpen.Object{
		Status: holdingpen.StatusRunning,
		Data:   req.Data,
		Extra: holdingpen.ExtraData{
			Formdata:      req.Formdata,
			SubmissionPDF: strings.TrimSpace(req.SubmissionPDF),
		},
		UserID: req.UserID,
	}
	id, err := s.objects.Create(r.Context(), obj)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	obj.ID = id
	obj.WorkflowID = fmt.Sprintf("article-%d", id)
	if err := s.objects.Save(r.Context(), obj); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                                       obj.WorkflowID,
		TaskQueue:                                s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflows.ArticleWorkflow, workflows.ArticleInput{ObjectID: id})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	s.log.Infow("holdingpen object created", "object_id", id, "workflow_id", we.GetID())
	writeJSON(w, http.StatusAccepted, map[string]any{
		"object_id":   id,
		"workflow_id": we.GetID(),
		"run_id":      we.GetRunID(),
	})
}

func (s *Server) handleHoldingpenScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/holdingpen/"), "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		obj, err := s.objects.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, util.ErrNotFound) {
				writeErr(w, http.StatusNotFound, err)
				return
			}
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, obj)
		return
	}

	if len(parts) == 2 && parts[1] == "status" {
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		var prog workflows.ArticleProgress
		resp, err := s.temporal.QueryWorkflow(r.Context(), fmt.Sprintf("article-%d", id), "", workflows.QueryGetArticleStatus)
		if err != nil {
			// Fallback to the stored object when no live workflow can answer.
			obj, oErr := s.objects.Get(r.Context(), id)
			if oErr != nil {
				writeErr(w, http.StatusNotFound, oErr)
				return
			}
			writeJSON(w, http.StatusOK, workflows.ArticleProgress{
				ObjectID: id,
				Status:   string(obj.Status),
			})
			return
		}
		if err := resp.Get(&prog); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, prog)
		return
	}

	if len(parts) == 2 && parts[1] == "resolve" {
		if r.Method != http.MethodPost {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		s.handleResolve(w, r, id)
		return
	}

	writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request, id int64) {
	var res workflows.Resolution
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}

	obj, err := s.objects.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if obj.Status != holdingpen.StatusHalted {
		writeErr(w, http.StatusConflict, fmt.Errorf("object is not halted"))
		return
	}
	if obj.WorkflowID == "" {
		writeErr(w, http.StatusConflict, fmt.Errorf("object has no workflow"))
		return
	}

	if err := s.temporal.SignalWorkflow(r.Context(), obj.WorkflowID, "", workflows.SignalResolution, res); err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	s.log.Infow("curator resolution signaled", "object_id", id, "approved", res.Approved)
	writeJSON(w, http.StatusAccepted, map[string]any{"object_id": id, "approved": res.Approved})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/files/"), "/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	path, err := s.files.Path(parts[0], parts[1])
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleJournals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/journals/"), "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	j, err := s.journals.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/records/"), "/")
	controlNumber, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || controlNumber <= 0 {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	rec, err := s.records.Get(r.Context(), controlNumber)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string
	Message string
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "HF-API-4000"
	raw := ""
	if err != nil {
		raw = strings.ToLower(err.Error())
	}

	switch {
	case status >= 500:
		switch {
		case strings.Contains(raw, "relation") && strings.Contains(raw, "does not exist"):
			return apiError{
				Code:    "HF-DB-5001",
				Message: "Database schema is not initialized. Run migrations and retry.",
			}
		case strings.Contains(raw, "connect"), strings.Contains(raw, "dial tcp"), strings.Contains(raw, "connection refused"):
			return apiError{
				Code:    "HF-DB-5002",
				Message: "Database connection is unavailable. Check local services and retry.",
			}
		default:
			return apiError{
				Code:    "HF-API-5000",
				Message: "Internal server error. Please retry or check service logs.",
			}
		}
	case status == http.StatusBadRequest:
		code = "HF-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusNotFound:
		code = "HF-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusConflict:
		code = "HF-API-4009"
		msg = "Operation conflicts with current state. Retry after checking status."
	case status == http.StatusMethodNotAllowed:
		code = "HF-API-4005"
		msg = "This endpoint does not support the requested method."
	}

	// For 4xx, keep user-safe validation context only.
	if status >= 400 && status < 500 && err != nil {
		low := strings.ToLower(err.Error())
		switch {
		case strings.Contains(low, "record data is required"):
			msg = "Record data is required."
		case strings.Contains(low, "object is not halted"):
			msg = "Object is not waiting for a curator decision."
		case strings.Contains(low, "invalid json"):
			msg = "Malformed JSON request body."
		}
	}

	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
