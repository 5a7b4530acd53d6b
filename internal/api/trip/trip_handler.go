package trip

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type HandlerImpl struct {
	service   Service
	validator *api.Validator
	logger    *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service:   service,
		validator: api.NewValidator(),
		logger:    logger,
	}
}

func (h *HandlerImpl) startSpan(r *http.Request, name, route string) (*http.Request, trace.Span) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return r.WithContext(ctx), span
}

// CreateTrip godoc
// @Summary      Create Trip
// @Description  Creates a trip and generates its itinerary. Falls back to a rule-based itinerary when the AI provider is unavailable.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        trip body types.CreateTripRequest true "Trip parameters"
// @Success      201 {object} types.Trip "Trip Created"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      429 {object} api.Response "Too Many Requests"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /trips [post]
func (h *HandlerImpl) CreateTrip(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "CreateTrip", "/trips")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateTrip"))

	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		l.WarnContext(ctx, "User ID not found in context", slog.Any("error", err))
		api.HandleServiceError(w, r, l, err)
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(userID.String()))

	var req types.CreateTripRequest
	if err = api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err = h.validator.Struct(req); err != nil {
		api.HandleServiceError(w, r, l, err)
		return
	}

	t, err := h.service.CreateTrip(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	w.Header().Set("Location", "/api/v1/trips/"+t.ID.String())
	api.WriteJSONResponse(w, r, http.StatusCreated, t)
}

// ListTrips godoc
// @Summary      List Trips
// @Description  Lists the authenticated user's trips, newest first.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size (max 100)"
// @Success      200 {object} types.PaginatedTrips "Trips"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /trips [get]
func (h *HandlerImpl) ListTrips(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "ListTrips", "/trips")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListTrips"))

	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		api.HandleServiceError(w, r, l, err)
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(userID.String()))

	page, pageSize := api.ParsePagination(r, DefaultPageSize, MaxPageSize)
	trips, err := h.service.ListTrips(ctx, userID, page, pageSize)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, trips)
}

// GetTrip godoc
// @Summary      Get Trip
// @Description  Retrieves one of the authenticated user's trips with its itinerary.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Success      200 {object} types.Trip "Trip"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /trips/{tripID} [get]
func (h *HandlerImpl) GetTrip(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "GetTrip", "/trips/{tripID}")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetTrip"))

	userID, tripID, ok := h.ids(w, r, l)
	if !ok {
		return
	}

	t, err := h.service.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, t)
}

// UpdateTrip godoc
// @Summary      Update Trip
// @Description  Updates the title, notes or status of a trip. The itinerary cannot be edited.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Param        trip body types.UpdateTripRequest true "Fields to update"
// @Success      200 {object} types.Trip "Trip Updated"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /trips/{tripID} [patch]
func (h *HandlerImpl) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "UpdateTrip", "/trips/{tripID}")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateTrip"))

	userID, tripID, ok := h.ids(w, r, l)
	if !ok {
		return
	}

	var req types.UpdateTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.HandleServiceError(w, r, l, err)
		return
	}

	t, err := h.service.UpdateTrip(ctx, userID, tripID, req)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, t)
}

// DeleteTrip godoc
// @Summary      Delete Trip
// @Description  Deletes a trip and removes it from the owner's stats.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Success      204 "No Content"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /trips/{tripID} [delete]
func (h *HandlerImpl) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "DeleteTrip", "/trips/{tripID}")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteTrip"))

	userID, tripID, ok := h.ids(w, r, l)
	if !ok {
		return
	}

	if err := h.service.DeleteTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// RegenerateItinerary godoc
// @Summary      Regenerate Itinerary
// @Description  Replaces a trip's itinerary with a freshly generated one.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        tripID path string true "Trip ID"
// @Success      200 {object} types.Trip "Trip With New Itinerary"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "Not Found"
// @Failure      429 {object} api.Response "Too Many Requests"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /trips/{tripID}/regenerate [post]
func (h *HandlerImpl) RegenerateItinerary(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "RegenerateItinerary", "/trips/{tripID}/regenerate")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "RegenerateItinerary"))

	userID, tripID, ok := h.ids(w, r, l)
	if !ok {
		return
	}

	t, err := h.service.RegenerateItinerary(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, t)
}

// ids reads the caller and the {tripID} path parameter, writing the error
// response itself when either is unusable.
func (h *HandlerImpl) ids(w http.ResponseWriter, r *http.Request, l *slog.Logger) (userID, tripID uuid.UUID, ok bool) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		api.HandleServiceError(w, r, l, err)
		return uuid.Nil, uuid.Nil, false
	}
	trace.SpanFromContext(r.Context()).SetAttributes(semconv.EnduserIDKey.String(userID.String()))

	tripID, err = uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, tripID, true
}
