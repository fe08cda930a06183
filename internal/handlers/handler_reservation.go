package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	portssvc "github.com/fleetstack/rental_ledger_app/internal/core/ports/services"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
	"github.com/fleetstack/rental_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reservationHandler handles HTTP requests related to reservations.
type reservationHandler struct {
	bookingService portssvc.BookingSvcFacade
}

// newReservationHandler creates a new reservationHandler.
func newReservationHandler(bs portssvc.BookingSvcFacade) *reservationHandler {
	return &reservationHandler{
		bookingService: bs,
	}
}

// registerReservationRoutes registers routes related to reservations.
func registerReservationRoutes(rg *gin.RouterGroup, bookingService portssvc.BookingSvcFacade) {
	h := newReservationHandler(bookingService)

	reservations := rg.Group("/reservations")
	{
		reservations.POST("", h.createReservation)
		reservations.GET("", h.listReservations)
		reservations.GET("/:id", h.getReservation)
		reservations.POST("/:id/activate", h.activateReservation)
		reservations.POST("/:id/complete", h.completeReservation)
		reservations.POST("/:id/cancel", h.cancelReservation)
	}
}

func (h *reservationHandler) createReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReservation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("asset_id", req.AssetID), slog.String("actor_id", actorID))
	logger.Info("Received request to reserve asset")

	reservation, err := h.bookingService.Reserve(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Info("Reservation period conflict", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error reserving asset", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Asset not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to reserve asset", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reserve asset"})
		}
		return
	}

	logger.Info("Reservation created", slog.String("reservation_id", reservation.ReservationID))
	c.JSON(http.StatusCreated, dto.ToReservationResponse(reservation))
}

func (h *reservationHandler) getReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reservationID := c.Param("id")

	reservation, err := h.bookingService.GetReservationByID(c.Request.Context(), reservationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		} else {
			logger.Error("Failed to retrieve reservation", slog.String("reservation_id", reservationID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservation"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *reservationHandler) listReservations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	assetID := c.Query("assetID")
	if assetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assetID query parameter is required"})
		return
	}

	var params dto.ListReservationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.bookingService.ListReservationsByAsset(c.Request.Context(), assetID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list reservations", slog.String("asset_id", assetID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reservations"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *reservationHandler) activateReservation(c *gin.Context) {
	h.transitionReservation(c, "activate", h.bookingService.Activate)
}

func (h *reservationHandler) completeReservation(c *gin.Context) {
	h.transitionReservation(c, "complete", h.bookingService.Complete)
}

// transitionReservation handles the shared shape of activate and complete: an
// optional observedAt in the body, defaulting to now.
func (h *reservationHandler) transitionReservation(c *gin.Context, action string, transition func(ctx context.Context, reservationID string, observedAt time.Time, actorID string) (*domain.Reservation, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reservationID := c.Param("id")
	actorID := middleware.GetActorFromContext(c)

	var req dto.TransitionReservationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for reservation transition", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}
	observedAt := time.Now().UTC()
	if req.ObservedAt != nil {
		observedAt = *req.ObservedAt
	}

	logger = logger.With(slog.String("reservation_id", reservationID), slog.String("action", action), slog.String("actor_id", actorID))

	reservation, err := transition(c.Request.Context(), reservationID, observedAt, actorID)
	if err != nil {
		h.respondTransitionError(c, logger, action, err)
		return
	}

	logger.Info("Reservation transition applied", slog.String("status", string(reservation.Status)))
	c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *reservationHandler) cancelReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reservationID := c.Param("id")
	actorID := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("reservation_id", reservationID), slog.String("actor_id", actorID))

	reservation, err := h.bookingService.Cancel(c.Request.Context(), reservationID, actorID)
	if err != nil {
		h.respondTransitionError(c, logger, "cancel", err)
		return
	}

	logger.Info("Reservation cancelled")
	c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *reservationHandler) respondTransitionError(c *gin.Context, logger *slog.Logger, action string, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
	} else if errors.Is(err, apperrors.ErrInvalidTransition) {
		logger.Warn("Invalid reservation transition", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else {
		logger.Error("Failed to "+action+" reservation", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " reservation"})
	}
}
