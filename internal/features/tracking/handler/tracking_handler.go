package handler

import (
	"context"
	"errors"

	"shipdesk/internal/core/logger"
	"shipdesk/internal/features/tracking/domain"
	"shipdesk/internal/features/tracking/ports"
	"shipdesk/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PollTrigger starts an out-of-band reconciliation batch.
type PollTrigger interface {
	Trigger(ctx context.Context) error
}

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	shipments ports.ShipmentStore
	events    ports.EventStore
	poller    PollTrigger
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(shipments ports.ShipmentStore, events ports.EventStore, poller PollTrigger) *TrackingHandler {
	return &TrackingHandler{
		shipments: shipments,
		events:    events,
		poller:    poller,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// ShipmentEventsResponse is a shipment with its recorded carrier events.
type ShipmentEventsResponse struct {
	Shipment domain.Shipment        `json:"shipment"`
	Events   []domain.TrackingEvent `json:"events"`
}

// MessageResponse acknowledges an accepted request.
type MessageResponse struct {
	Message string `json:"message"`
}

// GetShipmentEvents godoc
// @Summary Get the recorded tracking events of a shipment
// @Description Returns the shipment's current status and every carrier event recorded for it, most recent first
// @Tags tracking
// @Produce json
// @Param number path string true "Tracking Number"
// @Success 200 {object} ShipmentEventsResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments/{number}/events [get]
func (h *TrackingHandler) GetShipmentEvents(c *fiber.Ctx) error {
	trackingNumber := c.Params("number")
	if trackingNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "tracking number is required",
			RayID:   rayID(c),
		})
	}

	ctx := c.UserContext()
	shipment, err := h.shipments.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, ports.ErrShipmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "shipment not found",
				RayID:   rayID(c),
			})
		}
		return h.internalError(c, "Failed to load shipment", err)
	}

	events, err := h.events.ListEvents(ctx, trackingNumber)
	if err != nil {
		return h.internalError(c, "Failed to list events", err)
	}
	if events == nil {
		events = []domain.TrackingEvent{}
	}

	return c.JSON(ShipmentEventsResponse{Shipment: shipment, Events: events})
}

// TriggerPoll godoc
// @Summary Start a tracking reconciliation batch
// @Description Polls the carrier for every active shipment in the background. Rejected while a batch is running.
// @Tags tracking
// @Produce json
// @Success 202 {object} MessageResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /tracking/poll [post]
func (h *TrackingHandler) TriggerPoll(c *fiber.Ctx) error {
	if err := h.poller.Trigger(c.UserContext()); err != nil {
		if errors.Is(err, service.ErrBatchInFlight) {
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
				Message: "a tracking batch is already running",
				RayID:   rayID(c),
			})
		}
		if errors.Is(err, service.ErrPollerStopped) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
				Message: "tracking poller is shutting down",
				RayID:   rayID(c),
			})
		}
		return h.internalError(c, "Failed to trigger poll", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(MessageResponse{Message: "tracking batch started"})
}

func (h *TrackingHandler) internalError(c *fiber.Ctx, msg string, err error) error {
	logger.Get().Error(msg, zap.Error(err), zap.String("ray_id", rayID(c)))
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Message: "internal server error",
		RayID:   rayID(c),
	})
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
