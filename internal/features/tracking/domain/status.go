package domain

// Status is the internal lifecycle state of a shipment.
type Status string

const (
	StatusCreated           Status = "created"
	StatusInTransit         Status = "in_transit"
	StatusOutForDelivery    Status = "out_for_delivery"
	StatusDelivered         Status = "delivered"
	StatusException         Status = "exception"
	StatusReturned          Status = "returned"
	StatusVoided            Status = "voided"
	StatusExceptionResolved Status = "exception_resolved"
)

// TerminalStatuses are never polled again.
var TerminalStatuses = []Status{
	StatusDelivered,
	StatusVoided,
	StatusReturned,
	StatusExceptionResolved,
}

// IsTerminal reports whether the shipment has left the active set.
func (s Status) IsTerminal() bool {
	for _, t := range TerminalStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusInTransit, StatusOutForDelivery, StatusDelivered,
		StatusException, StatusReturned, StatusVoided, StatusExceptionResolved:
		return true
	}
	return false
}

// MapCarrierStatus maps a carrier activity status type to an internal status.
// ok is false when the type is empty, meaning the activity carries no transition.
// The status code is accepted for future refinement and does not affect the mapping.
func MapCarrierStatus(statusType, statusCode string) (status Status, ok bool) {
	switch statusType {
	case "":
		return "", false
	case "D":
		return StatusDelivered, true
	case "I", "P":
		return StatusInTransit, true
	case "M":
		return StatusCreated, true
	case "X":
		return StatusException, true
	case "RS":
		return StatusReturned, true
	case "O":
		return StatusOutForDelivery, true
	default:
		return StatusInTransit, true
	}
}
