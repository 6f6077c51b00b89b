package mailer

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

// Handler exposes the dispatch pipeline and template store over HTTP.
//
//	POST   /send              dispatch one email
//	GET    /templates         list templates
//	GET    /templates/{name}  fetch one template
//	PUT    /templates/{name}  create or replace a custom template
//	DELETE /templates/{name}  delete a custom template
func Handler(client *Client) http.Handler {
	h := &httpHandler{client: client, logger: client.logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/send", h.send)
	r.Get("/templates", h.listTemplates)
	r.Get("/templates/{name}", h.getTemplate)
	r.Put("/templates/{name}", h.putTemplate)
	r.Delete("/templates/{name}", h.deleteTemplate)

	return r
}

type httpHandler struct {
	client *Client
	logger *slog.Logger
}

type sentResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *httpHandler) send(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := h.logger.With(slog.String("request_id", requestID))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Validation error",
			Message: "failed to read request body",
		})
		return
	}

	result := h.client.DispatchRaw(r.Context(), body)
	logger.Info("dispatch completed",
		slog.String("outcome", result.Outcome.String()),
		slog.Int("attempts", result.Attempts))

	switch result.Outcome {
	case OutcomeSent:
		writeJSON(w, http.StatusOK, sentResponse{
			Message:   "Email sent successfully",
			MessageID: result.MessageID,
		})
	case OutcomeValidationFailed:
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Validation error",
			Message: result.Detail,
		})
	case OutcomeTemplateNotFound:
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Template not found",
			Message: result.Detail,
		})
	case OutcomeRateLimited:
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Rate limit exceeded",
			Message: result.Detail,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Email sending failed",
			Message: result.Detail,
		})
	}
}

func (h *httpHandler) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.client.templates.List(r.Context())
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *httpHandler) getTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.client.templates.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

func (h *httpHandler) putTemplate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid template",
			Message: "failed to read request body",
		})
		return
	}

	var tmpl Template
	if err := json.Unmarshal(body, &tmpl); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid template",
			Message: "request body is not valid JSON",
		})
		return
	}
	tmpl.Name = chi.URLParam(r, "name")

	if err := h.client.templates.Put(r.Context(), &tmpl); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

func (h *httpHandler) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.client.templates.Delete(r.Context(), name); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Template deleted", "name": name})
}

func (h *httpHandler) writeStoreError(w http.ResponseWriter, err error) {
	var storeErr *core.StoreError
	if errors.As(err, &storeErr) {
		switch storeErr.Kind {
		case core.StoreNotFound:
			writeJSON(w, http.StatusNotFound, errorResponse{
				Error:   "Template not found",
				Message: err.Error(),
			})
			return
		case core.StoreNameReserved:
			writeJSON(w, http.StatusConflict, errorResponse{
				Error:   "Template name reserved",
				Message: err.Error(),
			})
			return
		case core.StoreInvalidTemplate:
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:   "Invalid template",
				Message: err.Error(),
			})
			return
		}
	}

	h.logger.Error("template store failure", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:   "Template store unavailable",
		Message: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
