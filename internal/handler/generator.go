package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkpass/mkpass-go/internal/crypto"
	"github.com/mkpass/mkpass-go/internal/model"
	"github.com/mkpass/mkpass-go/internal/service"
)

// GeneratorHandler handles HTTP requests for password generation.
type GeneratorHandler struct {
	service *service.GeneratorService
}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler(svc *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{service: svc}
}

// HandleGenerate handles POST /api/v1/generate requests.
func (h *GeneratorHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Generate(req)
	if err != nil {
		writeGenerateError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleValidate handles POST /api/v1/validate requests.
func (h *GeneratorHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.service.Validate(req))
}

// HandleSamples handles GET /api/v1/samples requests.
func (h *GeneratorHandler) HandleSamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Samples())
}

// HandleSample handles GET /api/v1/samples/{kind} requests.
func (h *GeneratorHandler) HandleSample(w http.ResponseWriter, r *http.Request) {
	set, err := h.service.Sample(chi.URLParam(r, "kind"))
	if err != nil {
		if errors.Is(err, crypto.ErrUnknownKind) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// writeGenerateError maps generation failures shared by the generate and
// profile endpoints.
func writeGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrCountOutOfRange):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, crypto.ErrPoolExhausted):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse(err.Error()))
	default:
		internalError(w, r, err)
	}
}
