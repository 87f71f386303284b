package rabbitmq

import (
	"time"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/google/uuid"
)

// JobPostedDTO - тело события JobPostedEvent/1.0.0
type JobPostedDTO struct {
	EventID        uuid.UUID `json:"event_id"`
	JobID          uuid.UUID `json:"job_id"`
	PosterID       uuid.UUID `json:"poster_id"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	Address        string    `json:"address,omitempty"`
	PostalCode     string    `json:"postal_code,omitempty"`
	Latitude       *float64  `json:"latitude"`
	Longitude      *float64  `json:"longitude"`
	IsRemote       bool      `json:"is_remote"`
	NeedsGeocoding bool      `json:"needs_geocoding"`
	CreatedAt      time.Time `json:"created_at"`
}

func toJobPostedDTO(job domain.Job) JobPostedDTO {
	return JobPostedDTO{
		EventID:        uuid.New(),
		JobID:          job.ID,
		PosterID:       job.PosterID,
		Title:          job.Title,
		Category:       job.Category,
		Address:        job.Location.Address(),
		PostalCode:     job.Location.PostalCode,
		Latitude:       job.Location.Latitude,
		Longitude:      job.Location.Longitude,
		IsRemote:       job.IsRemote,
		NeedsGeocoding: job.NeedsGeocoding(),
		CreatedAt:      job.CreatedAt.UTC(),
	}
}

// ApplicationSubmittedDTO - тело события ApplicationSubmittedEvent/1.0.0
type ApplicationSubmittedDTO struct {
	EventID       uuid.UUID `json:"event_id"`
	ApplicationID uuid.UUID `json:"application_id"`
	JobID         uuid.UUID `json:"job_id"`
	ApplicantID   uuid.UUID `json:"applicant_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func toApplicationSubmittedDTO(app domain.Application) ApplicationSubmittedDTO {
	return ApplicationSubmittedDTO{
		EventID:       uuid.New(),
		ApplicationID: app.ID,
		JobID:         app.JobID,
		ApplicantID:   app.ApplicantID,
		CreatedAt:     app.CreatedAt.UTC(),
	}
}
