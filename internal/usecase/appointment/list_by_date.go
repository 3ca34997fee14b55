package appointment

import (
	"context"
	"time"

	domain "github.com/pawpoint/vetclinic/internal/domain/appointment"
	"github.com/pawpoint/vetclinic/internal/models"
	"github.com/pawpoint/vetclinic/internal/timezone"
)

// AppointmentListItem is the flattened row the agenda views return.
type AppointmentListItem struct {
	ID           uint      `json:"id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customer_name"`
	PetName      string    `json:"pet_name"`
	ServiceName  string    `json:"service_name"`
}

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	vetID uint,
	clinicID uint,
	date time.Time,
) ([]AppointmentListItem, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(clinic.Timezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.Add(24 * time.Hour)

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, vetID, start, end)
	if err != nil {
		return nil, err
	}

	return toListItems(appointments), nil
}

func toListItems(appointments []models.Appointment) []AppointmentListItem {
	out := make([]AppointmentListItem, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, AppointmentListItem{
			ID:           ap.ID,
			StartTime:    ap.StartTime,
			EndTime:      ap.EndTime,
			Status:       ap.Status,
			CustomerName: ap.Customer.Name,
			PetName:      ap.Pet.Name,
			ServiceName:  ap.Service.Name,
		})
	}
	return out
}
