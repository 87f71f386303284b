package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusOpen   = "Open"
	JobStatusClosed = "Closed"
)

const (
	ApplicationStatusPending = "Pending"
)

// Job - вакансия в момент создания.
type Job struct {
	ID            uuid.UUID
	PosterID      uuid.UUID
	Title         string
	Description   string
	Category      string
	JobType       string
	PaymentType   string
	PaymentAmount *float64
	Location      Location
	IsRemote      bool
	WorkersNeeded int
	Status        string
	CreatedAt     time.Time
}

// Validate проверяет обязательные поля новой вакансии и проставляет значения по умолчанию.
func (j *Job) Validate() error {
	j.Title = strings.TrimSpace(j.Title)
	j.Description = strings.TrimSpace(j.Description)
	if j.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidJob)
	}
	if j.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidJob)
	}
	if !IsActive(j.Category) {
		return fmt.Errorf("%w: category is required", ErrInvalidJob)
	}
	if j.PaymentAmount != nil && *j.PaymentAmount < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeAmount, *j.PaymentAmount)
	}
	if j.WorkersNeeded < 1 {
		j.WorkersNeeded = 1
	}
	if j.Status == "" {
		j.Status = JobStatusOpen
	}
	if _, err := NewLocation(j.Location.Latitude, j.Location.Longitude, j.Location.PlaceName, j.Location.PostalCode); err != nil {
		return err
	}
	if !j.IsRemote && !j.Location.IsResolved() && j.Location.PlaceName == "" && j.Location.PostalCode == "" {
		return fmt.Errorf("%w: location is required for on-site jobs", ErrInvalidJob)
	}
	return nil
}

// NeedsGeocoding - у вакансии есть адрес, но нет координат.
func (j Job) NeedsGeocoding() bool {
	return !j.Location.IsResolved() && (j.Location.PlaceName != "" || j.Location.PostalCode != "")
}

// JobForApplication - срез вакансии, нужный для проверок при отклике.
type JobForApplication struct {
	ID                uuid.UUID
	PosterID          uuid.UUID
	Status            string
	WorkersNeeded     int
	CurrentApplicants int
}

// CheckApplicable проверяет, можно ли откликнуться на вакансию.
// Вызывается хранилищем под блокировкой строки вакансии.
func CheckApplicable(job JobForApplication, applicantID uuid.UUID) error {
	if job.PosterID == applicantID {
		return ErrOwnJob
	}
	if job.Status != JobStatusOpen {
		return ErrJobNotOpen
	}
	c := Candidate{Kind: CandidateJob, WorkersNeeded: job.WorkersNeeded, CurrentApplicants: job.CurrentApplicants}
	if c.IsFullyFilled() {
		return ErrJobFilled
	}
	return nil
}

// Application - отклик соискателя на вакансию.
type Application struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	PosterID    uuid.UUID
	ApplicantID uuid.UUID
	CoverLetter string
	Status      string
	CreatedAt   time.Time
}

// GeocodeResult - ответ геокодера.
type GeocodeResult struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
	PostalCode  string
}

// Location превращает ответ геокодера в проверенную Location.
func (g GeocodeResult) Location() (Location, error) {
	lat, lon := g.Latitude, g.Longitude
	return NewLocation(&lat, &lon, g.DisplayName, g.PostalCode)
}
