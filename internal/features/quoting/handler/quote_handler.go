package handler

import (
	"encoding/json"
	"errors"

	"shipdesk/internal/features/quoting/domain"
	"shipdesk/internal/features/quoting/input"
	"shipdesk/internal/features/quoting/ports"

	"github.com/gofiber/fiber/v2"
)

// QuoteHandler handles HTTP requests for rate quotes.
type QuoteHandler struct {
	service ports.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(service ports.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// QuoteRequest accepts exactly one of three equivalent item encodings.
type QuoteRequest struct {
	// Items is "<address> | <LxWxD>" entries separated by ';' or newlines.
	Items string `json:"items,omitempty"`
	// Addresses and Sizes are parallel lists, each a JSON array or a ';' delimited string.
	Addresses json.RawMessage `json:"addresses,omitempty" swaggertype:"array,string"`
	Sizes     json.RawMessage `json:"sizes,omitempty" swaggertype:"array,string"`
	// Destinations carries structured per-address items.
	Destinations []input.Destination `json:"destinations,omitempty"`
	// Mode is "quote" (default, address must end in "ST 12345") or "ship" (tolerant).
	Mode string `json:"mode,omitempty"`
}

// ParseGroups normalizes whichever encoding the request carries.
func (r QuoteRequest) ParseGroups() ([]domain.AddressGroup, error) {
	mode := input.ModeQuote
	switch r.Mode {
	case "", "quote":
	case "ship":
		mode = input.ModeShip
	default:
		return nil, errors.New("mode must be \"quote\" or \"ship\"")
	}

	encodings := 0
	for _, present := range []bool{
		len(r.Destinations) > 0,
		r.Items != "",
		len(r.Addresses) > 0 || len(r.Sizes) > 0,
	} {
		if present {
			encodings++
		}
	}
	if encodings > 1 {
		return nil, errors.New("only one of items, addresses/sizes or destinations may be set")
	}

	switch {
	case len(r.Destinations) > 0:
		return input.ParseStructured(r.Destinations, mode)
	case r.Items != "":
		return input.ParseItemString(r.Items, mode)
	case len(r.Addresses) > 0 || len(r.Sizes) > 0:
		return input.ParseParallel(r.Addresses, r.Sizes, mode)
	default:
		return nil, errors.New("one of items, addresses/sizes or destinations is required")
	}
}

// Quote godoc
// @Summary Quote shipping services for items bound to one or more addresses
// @Description Packs each address's items into boxes, rates every box and totals each service per address and overall. Boxes whose rate lookup failed carry an error and are excluded from totals.
// @Tags quoting
// @Accept json
// @Produce json
// @Param request body QuoteRequest true "Items to quote"
// @Success 200 {object} domain.QuoteSummary
// @Failure 400 {object} ErrorResponse
// @Router /quote [post]
func (h *QuoteHandler) Quote(c *fiber.Ctx) error {
	var req QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	groups, err := req.ParseGroups()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	return c.JSON(h.service.Quote(c.UserContext(), groups))
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
