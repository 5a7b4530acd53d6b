package destination

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListPopular godoc
// @Summary      List Popular Destinations
// @Description  Lists destinations ordered by how many trips were planned for them.
// @Tags         Destinations
// @Accept       json
// @Produce      json
// @Param        limit query int false "Number of destinations (max 50)"
// @Success      200 {array} types.Destination "Destinations"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /destinations/popular [get]
func (h *Handler) ListPopular(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "ListPopular", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/destinations/popular"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListPopular"))

	limit := DefaultPopularLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := h.service.ListPopular(ctx, limit)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, list)
}

// GetDestination godoc
// @Summary      Get Destination
// @Description  Retrieves a destination by ID.
// @Tags         Destinations
// @Accept       json
// @Produce      json
// @Param        destinationID path string true "Destination ID"
// @Success      200 {object} types.Destination "Destination"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /destinations/{destinationID} [get]
func (h *Handler) GetDestination(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "GetDestination", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/destinations/{destinationID}"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetDestination"))

	id, err := uuid.Parse(chi.URLParam(r, "destinationID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid destination ID format")
		return
	}

	dest, err := h.service.GetDestination(ctx, id)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, dest)
}
