package user

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetUserProfile(w http.ResponseWriter, r *http.Request)
	UpdateUserProfile(w http.ResponseWriter, r *http.Request)
	GetUserStats(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService UserService
	validator   *api.Validator
	logger      *slog.Logger
}

// NewHandlerImpl creates a new user HandlerImpl instance.
func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		userService: userService,
		validator:   api.NewValidator(),
		logger:      logger,
	}
}

// GetUserProfile godoc
// @Summary      Get User Profile
// @Description  Retrieves the authenticated user's profile information.
// @Tags         User
// @Accept       json
// @Produce      json
// @Success      200 {object} types.User "User Profile"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "User Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *HandlerImpl) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "GetUserProfile", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/users/me"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetUserProfile"))

	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		l.WarnContext(ctx, "User ID not found in context", slog.Any("error", err))
		api.HandleServiceError(w, r, l, err)
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(userID.String()))

	profile, err := h.userService.GetUserProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// UpdateUserProfile godoc
// @Summary      Update User Profile
// @Description  Updates the authenticated user's profile information.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        profile body types.UpdateProfileRequest true "Profile Update Parameters"
// @Success      200 {object} types.User "Profile Updated"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /users/me [patch]
func (h *HandlerImpl) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "UpdateUserProfile", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/users/me"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateUserProfile"))

	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		api.HandleServiceError(w, r, l, err)
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(userID.String()))

	var params types.UpdateProfileRequest
	if err = api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err = h.validator.Struct(params); err != nil {
		api.HandleServiceError(w, r, l, err)
		return
	}

	profile, err := h.userService.UpdateUserProfile(ctx, userID, params)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// GetUserStats godoc
// @Summary      Get User Stats
// @Description  Returns trip count, days planned and budget planned for the authenticated user.
// @Tags         User
// @Accept       json
// @Produce      json
// @Success      200 {object} types.UserStats "User Stats"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /users/me/stats [get]
func (h *HandlerImpl) GetUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "GetUserStats", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/users/me/stats"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetUserStats"))

	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		api.HandleServiceError(w, r, l, err)
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(userID.String()))

	stats, err := h.userService.GetUserStats(ctx, userID)
	if err != nil {
		span.RecordError(err)
		api.HandleServiceError(w, r, l, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}
