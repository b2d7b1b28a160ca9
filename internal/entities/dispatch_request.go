package entities

// DispatchRequest is the payload handed to the notification dispatcher.
// ReservationTime (RFC3339) and PartySize are only set on the submission
// path; the confirmation path carries just phone and message.
type DispatchRequest struct {
	Phone           string `json:"phone"`
	Message         string `json:"message"`
	ReservationTime string `json:"reservation_time,omitempty"`
	PartySize       int    `json:"party_size,omitempty"`
	NotifyStaff     bool   `json:"notify_staff"`
}
