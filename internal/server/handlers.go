package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-betterform/pkg/deps"
	"github.com/goliatone/go-betterform/pkg/planner"
	"github.com/goliatone/go-betterform/pkg/registry"
	"github.com/goliatone/go-betterform/pkg/store"
)

// GenerateRequest is the body of POST /registry/generate.
type GenerateRequest struct {
	FormName       string            `json:"formName"`
	FilePlan       *planner.FilePlan `json:"filePlan"`
	DependencyPlan *deps.Plan        `json:"dependencyPlan"`
	UniqueID       string            `json:"uniqueId,omitempty"`
}

// GenerateResponse is returned by POST /registry/generate.
type GenerateResponse struct {
	URL        string `json:"url"`
	RegistryID string `json:"registryId"`
	ExpiresIn  int    `json:"expiresIn"`
}

// StoreRequest is the body of POST /r/store.
type StoreRequest struct {
	RegistryID   string         `json:"registryId"`
	RegistryItem *registry.Item `json:"registryItem"`
}

// StoreResponse is returned by POST /r/store.
type StoreResponse struct {
	Success    bool   `json:"success"`
	URL        string `json:"url"`
	RegistryID string `json:"registryId"`
	ExpiresIn  int    `json:"expiresIn"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("Request body is required")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &StatusError{Code: http.StatusRequestEntityTooLarge, Message: "Request body too large", Err: err}
		}
		return &StatusError{Code: http.StatusBadRequest, Message: "Invalid JSON body", Detail: err.Error(), Err: ErrBadRequest}
	}
	return nil
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) error {
	ctx, span := s.tracer.Start(r.Context(), "registry.generate")
	defer span.End()

	var req GenerateRequest
	if err := decodeBody(w, r, &req); err != nil {
		return traceError(span, err)
	}
	if strings.TrimSpace(req.FormName) == "" || req.FilePlan == nil || req.DependencyPlan == nil {
		return traceError(span, badRequest("Missing required fields"))
	}

	uniqueID := strings.TrimSpace(req.UniqueID)
	if uniqueID == "" {
		uniqueID = s.newID()
	}
	registryID, err := registry.ID(req.FormName, uniqueID)
	if err != nil {
		return traceError(span, badRequest(err.Error()))
	}
	span.SetAttributes(
		attribute.String("betterform.form_name", req.FormName),
		attribute.String("betterform.registry_id", registryID),
	)

	item := registry.Build(req.FormName, *req.FilePlan, *req.DependencyPlan)
	receipt, err := s.store.Put(ctx, registryID, item)
	if err != nil {
		return traceError(span, withRegistryID(err, registryID))
	}

	writeJSON(w, http.StatusCreated, GenerateResponse{
		URL:        s.absoluteURL(r, receipt.URL),
		RegistryID: registryID,
		ExpiresIn:  receipt.ExpiresIn,
	})
	return nil
}

func (s *Server) storeItem(w http.ResponseWriter, r *http.Request) error {
	ctx, span := s.tracer.Start(r.Context(), "registry.store")
	defer span.End()

	var req StoreRequest
	if err := decodeBody(w, r, &req); err != nil {
		return traceError(span, err)
	}
	if strings.TrimSpace(req.RegistryID) == "" || req.RegistryItem == nil {
		return traceError(span, badRequest("Missing registryId or registryItem"))
	}
	span.SetAttributes(attribute.String("betterform.registry_id", req.RegistryID))

	receipt, err := s.store.Put(ctx, req.RegistryID, *req.RegistryItem)
	if err != nil {
		return traceError(span, withRegistryID(err, req.RegistryID))
	}

	writeJSON(w, http.StatusOK, StoreResponse{
		Success:    true,
		URL:        s.absoluteURL(r, receipt.URL),
		RegistryID: receipt.RegistryID,
		ExpiresIn:  receipt.ExpiresIn,
	})
	return nil
}

func (s *Server) fetchItem(w http.ResponseWriter, r *http.Request) error {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		return badRequest("Missing registry ID")
	}
	item, err := s.lookup(r, id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, item)
	return nil
}

// fetchFile serves /r/<id>.json. Any miss, expired or not, is a 404 with a
// descriptive body since installers only care whether the bundle exists.
func (s *Server) fetchFile(w http.ResponseWriter, r *http.Request) error {
	id := strings.TrimSuffix(chi.URLParam(r, "filename"), ".json")
	item, err := s.lookup(r, id)
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrExpired), errors.Is(err, store.ErrInvalidID):
		return &StatusError{
			Code:       http.StatusNotFound,
			Message:    "Registry not found",
			Detail:     "This registry hasn't been generated or has expired.",
			RegistryID: id,
			Err:        err,
		}
	case err != nil:
		return err
	}
	writeJSON(w, http.StatusOK, item)
	return nil
}

func (s *Server) lookup(r *http.Request, id string) (registry.Item, error) {
	ctx, span := s.tracer.Start(r.Context(), "registry.fetch",
		trace.WithAttributes(attribute.String("betterform.registry_id", id)))
	defer span.End()

	rec, err := s.store.Fetch(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrExpired), errors.Is(err, store.ErrInvalidID):
			span.SetAttributes(attribute.String("betterform.fetch_result", fetchResult(err)))
			return registry.Item{}, err
		default:
			return registry.Item{}, traceError(span, withRegistryID(err, id))
		}
	}
	span.SetAttributes(attribute.String("betterform.fetch_result", "hit"))
	return rec.Item, nil
}

func fetchResult(err error) string {
	switch {
	case errors.Is(err, store.ErrExpired):
		return "expired"
	case errors.Is(err, store.ErrInvalidID):
		return "invalid"
	default:
		return "miss"
	}
}

// withRegistryID tags internal failures so they are logged with the id.
func withRegistryID(err error, id string) error {
	if errors.Is(err, store.ErrInvalidID) {
		return err
	}
	return &registryError{id: id, err: err}
}

type registryError struct {
	id  string
	err error
}

func (e *registryError) Error() string { return fmt.Sprintf("registry %s: %v", e.id, e.err) }
func (e *registryError) Unwrap() error { return e.err }

func traceError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
