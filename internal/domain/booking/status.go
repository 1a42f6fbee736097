package booking

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusPaid      BookingStatus = "paid"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// AllStatuses lists every booking status in lifecycle order
func AllStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusConfirmed, StatusPaid, StatusCancelled, StatusCompleted}
}

// ActiveStatuses are the statuses that hold a seat on the tour
func ActiveStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusConfirmed, StatusPaid}
}

// IsValid checks if the status is a known value
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPaid, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsActive reports whether the booking still counts against tour capacity
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusPaid
}

// IsTerminal reports whether no further transitions are possible
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransitionTo checks if the status can transition to the target status
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusPaid || target == StatusCancelled || target == StatusCompleted
	case StatusPaid:
		return target == StatusCompleted || target == StatusCancelled
	}
	return false
}

// String returns the string representation
func (s BookingStatus) String() string {
	return string(s)
}
