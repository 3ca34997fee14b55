package appointment

import "time"

// AvailabilityInput identifies one vet's bookable day for one service.
type AvailabilityInput struct {
	ClinicID  uint
	VetID     uint
	ServiceID uint
	Date      time.Time
}

// TimeSlot is a free slot in clinic-local wall time.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
