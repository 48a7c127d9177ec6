package domain

// Actor is whoever is asking for a booking status change. Role decides the
// base permission; ID ties a customer to their own bookings and an owner to
// their salon.
type Actor struct {
	ID   int64
	Role string
}

// transitions is the full booking status graph. Anything not listed here is
// invalid, including requesting the current status again. completed and
// cancelled have no outgoing edges.
var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

func transitionAllowed(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RequestTransition validates a status-change request against the transition
// graph and the actor's authority, and returns the status the caller should
// persist. It is a pure function of (booking, requested, actor) and is the
// single authority for status changes: no other code writes status values.
//
// Authorization rules:
//   - the salon's owner (actor owns booking.SalonID) may drive any legal
//     transition;
//   - the booking's customer may only cancel their own booking;
//   - admins act with owner authority.
//
// The caller persists the result with a conditional update keyed on the
// current status; if that update reports no rows, another transition won the
// race and the caller should surface ErrInvalidTransition.
func RequestTransition(b *Booking, requested BookingStatus, actor Actor, salonOwnerID int64) (BookingStatus, error) {
	if !transitionAllowed(b.Status, requested) {
		return "", ErrInvalidTransition
	}

	switch actor.Role {
	case RoleAdmin:
		return requested, nil
	case RoleOwner:
		if actor.ID != salonOwnerID {
			return "", ErrUnauthorized
		}
		return requested, nil
	case RoleCustomer:
		if requested != BookingCancelled || !b.IsCustomerOwner(actor.ID) {
			return "", ErrUnauthorized
		}
		return requested, nil
	default:
		return "", ErrUnauthorized
	}
}
