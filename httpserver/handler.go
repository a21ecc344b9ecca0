package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openrsvp/rsvp-registry/api"
	"github.com/openrsvp/rsvp-registry/interfaces"
	"github.com/openrsvp/rsvp-registry/metrics"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// RequestError carries an HTTP status and reason code alongside the
// underlying error.
type RequestError struct {
	StatusCode int
	Code       string
	Err        error
}

// Error returns the message from the underlying error.
func (e *RequestError) Error() string {
	return e.Err.Error()
}

// Handler processes HTTP requests for the registry API. It owns no state:
// every request is parsed into a typed call against the EventRegistry and
// the resulting record or structured rejection is written back as JSON.
type Handler struct {
	registry interfaces.EventRegistry
	log      *slog.Logger
}

// NewHandler creates an HTTP handler around the given registry.
func NewHandler(registry interfaces.EventRegistry, log *slog.Logger) *Handler {
	return &Handler{registry: registry, log: log}
}

// HandleCreateEvent processes event creation requests. The caller identity
// from the X-Caller-Address header becomes the event owner.
func (h *Handler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	caller, reqErr := callerFromRequest(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	var req api.CreateEventRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, api.CodeInvalidRequest, err})
		return
	}

	name, err := interfaces.NewEventName(req.Name)
	if err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, api.CodeInvalidRequest, err})
		return
	}

	call := interfaces.CallContext{Caller: caller}
	ev, err := h.registry.CreateEvent(r.Context(), call, req.MaxCapacity, req.Deposit.ToInt(), name)
	if err != nil {
		h.writeError(w, requestErrorFor(err))
		return
	}

	metrics.EventsCreated.Inc()
	h.writeEvent(w, http.StatusCreated, ev)
}

// HandleRegister processes registration requests. The payment described in
// the body is treated as attached to the call and forwarded in full to the
// event owner on success.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	caller, reqErr := callerFromRequest(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	eventID, reqErr := eventIDFromRequest(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	var req api.RegisterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.writeError(w, &RequestError{http.StatusBadRequest, api.CodeInvalidRequest, err})
		return
	}

	call := interfaces.CallContext{
		Caller: caller,
		Payment: interfaces.Payment{
			Amount: req.Amount.ToInt(),
			Asset:  interfaces.Asset(req.Asset),
		},
	}

	ev, err := h.registry.Register(r.Context(), call, eventID)
	if err != nil {
		reqErr := requestErrorFor(err)
		metrics.RejectedRegistrations.WithLabelValues(reqErr.Code).Inc()
		h.writeError(w, reqErr)
		return
	}

	metrics.Registrations.Inc()
	h.writeEvent(w, http.StatusOK, ev)
}

// HandleGetEvent serves the read path: the stored record, unchanged.
func (h *Handler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, reqErr := eventIDFromRequest(r)
	if reqErr != nil {
		h.writeError(w, reqErr)
		return
	}

	ev, err := h.registry.RegistrationCount(r.Context(), eventID)
	if err != nil {
		h.writeError(w, requestErrorFor(err))
		return
	}

	h.writeEvent(w, http.StatusOK, ev)
}

func callerFromRequest(r *http.Request) (interfaces.Identity, *RequestError) {
	raw := r.Header.Get(api.CallerAddressHeader)
	if raw == "" {
		return interfaces.Identity{}, &RequestError{
			http.StatusBadRequest, api.CodeInvalidRequest,
			errors.New("missing " + api.CallerAddressHeader + " header"),
		}
	}
	caller, err := interfaces.NewIdentityFromHex(raw)
	if err != nil {
		return interfaces.Identity{}, &RequestError{http.StatusBadRequest, api.CodeInvalidRequest, err}
	}
	return caller, nil
}

func eventIDFromRequest(r *http.Request) (uint64, *RequestError) {
	raw := chi.URLParam(r, "event_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &RequestError{
			http.StatusBadRequest, api.CodeInvalidRequest,
			errors.New("malformed event id: " + raw),
		}
	}
	return id, nil
}

// requestErrorFor maps registry error kinds to HTTP statuses and reason
// codes. Unknown errors are reported as internal without leaking details.
func requestErrorFor(err error) *RequestError {
	switch {
	case errors.Is(err, interfaces.ErrInvalidEventID):
		return &RequestError{http.StatusNotFound, api.CodeInvalidEventID, err}
	case errors.Is(err, interfaces.ErrWrongAsset):
		return &RequestError{http.StatusBadRequest, api.CodeWrongAsset, err}
	case errors.Is(err, interfaces.ErrInsufficientPayment):
		return &RequestError{http.StatusPaymentRequired, api.CodeInsufficientPayment, err}
	case errors.Is(err, interfaces.ErrTransferFailed):
		return &RequestError{http.StatusBadGateway, api.CodeTransferFailed, err}
	case errors.Is(err, interfaces.ErrNameTooLong),
		errors.Is(err, interfaces.ErrInvalidName),
		errors.Is(err, interfaces.ErrInvalidIdentity):
		return &RequestError{http.StatusBadRequest, api.CodeInvalidRequest, err}
	default:
		return &RequestError{http.StatusInternalServerError, api.CodeInternalError, err}
	}
}

func (h *Handler) writeEvent(w http.ResponseWriter, status int, ev *interfaces.Event) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(api.NewEventResponse(ev)); err != nil {
		h.log.Error("Failed to encode event response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, reqErr *RequestError) {
	if reqErr.StatusCode >= http.StatusInternalServerError {
		h.log.Error("Request failed", "err", reqErr.Err, "code", reqErr.Code)
	} else {
		h.log.Debug("Request rejected", "err", reqErr.Err, "code", reqErr.Code)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reqErr.StatusCode)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Code:    reqErr.Code,
		Message: reqErr.Err.Error(),
	})
}
