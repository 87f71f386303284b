package rest

import (
	"time"

	"github.com/furqan-y-khan/workify/internal/core/domain"
	"github.com/furqan-y-khan/workify/internal/core/proximity"
)

type ErrorResponse struct {
	Error string         `json:"error"`
	Quota *QuotaResponse `json:"quota,omitempty"`
}

// CandidateResponse - карточка вакансии или пользователя в выдаче.
type CandidateResponse struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Title         string    `json:"title"`
	DisplayName   string    `json:"display_name"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	JobType       string    `json:"job_type,omitempty"`
	PaymentType   string    `json:"payment_type,omitempty"`
	PaymentAmount *float64  `json:"payment_amount"`
	PlaceName     string    `json:"place_name,omitempty"`
	PostalCode    string    `json:"postal_code,omitempty"`
	IsRemote      bool      `json:"is_remote"`
	CreatedAt     time.Time `json:"created_at"`
	WorkersNeeded int       `json:"workers_needed,omitempty"`
	OpenPositions int       `json:"open_positions,omitempty"`
	Role          string    `json:"role,omitempty"`
	DistanceKm    *float64  `json:"distance_km"`
	Distance      string    `json:"distance,omitempty"`
}

// SearchResponse - DTO для ответа со списком и пагинацией.
type SearchResponse struct {
	Data                  []CandidateResponse `json:"items"`
	Total                 int                 `json:"total"`
	Page                  int                 `json:"page"`
	PerPage               int                 `json:"per_page"`
	TotalPages            int                 `json:"total_pages"`
	DistanceFilterSkipped bool                `json:"distance_filter_skipped"`
}

type QuotaResponse struct {
	Allowed   bool   `json:"allowed"`
	State     string `json:"state"`
	Action    string `json:"action"`
	Tier      string `json:"tier"`
	Usage     int    `json:"usage"`
	Limit     *int   `json:"limit"`
	Remaining *int   `json:"remaining"`
	Reason    string `json:"reason,omitempty"`
}

type CreateJobRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	JobType       string   `json:"job_type"`
	PaymentType   string   `json:"payment_type"`
	PaymentAmount *float64 `json:"payment_amount"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	PlaceName     string   `json:"place_name"`
	PostalCode    string   `json:"postal_code"`
	IsRemote      bool     `json:"is_remote"`
	WorkersNeeded int      `json:"workers_needed"`
}

type JobResponse struct {
	ID            string    `json:"id"`
	PosterID      string    `json:"poster_id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	JobType       string    `json:"job_type,omitempty"`
	PaymentType   string    `json:"payment_type,omitempty"`
	PaymentAmount *float64  `json:"payment_amount"`
	PlaceName     string    `json:"place_name,omitempty"`
	PostalCode    string    `json:"postal_code,omitempty"`
	IsRemote      bool      `json:"is_remote"`
	WorkersNeeded int       `json:"workers_needed"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateJobResponse struct {
	Job   JobResponse    `json:"job"`
	Quota *QuotaResponse `json:"quota,omitempty"`
}

type SubmitApplicationRequest struct {
	CoverLetter string `json:"cover_letter"`
}

type ApplicationResponse struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	ApplicantID string    `json:"applicant_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type SubmitApplicationResponse struct {
	Application ApplicationResponse `json:"application"`
	Quota       *QuotaResponse      `json:"quota,omitempty"`
}

func toCandidateResponse(rc domain.RankedCandidate) CandidateResponse {
	resp := CandidateResponse{
		ID:            rc.ID.String(),
		Kind:          string(rc.Kind),
		Title:         rc.Title,
		DisplayName:   rc.DisplayName(),
		Description:   rc.Description,
		Category:      rc.Category,
		JobType:       rc.JobType,
		PaymentType:   rc.PaymentType,
		PaymentAmount: rc.PaymentAmount,
		PlaceName:     rc.Location.PlaceName,
		PostalCode:    rc.Location.PostalCode,
		IsRemote:      rc.IsRemote,
		CreatedAt:     rc.CreatedAt,
		Role:          string(rc.Role),
	}
	if rc.Kind == domain.CandidateJob {
		resp.WorkersNeeded = rc.Capacity()
		resp.OpenPositions = rc.OpenPositions()
	}
	if rc.DistanceKm != nil {
		km := proximity.RoundKm(*rc.DistanceKm)
		resp.DistanceKm = &km
		resp.Distance = proximity.FormatDistance(*rc.DistanceKm)
	}
	return resp
}

func toSearchResponse(result *domain.SearchResult) SearchResponse {
	resp := SearchResponse{
		Data:                  make([]CandidateResponse, len(result.Items)),
		Total:                 result.TotalCount,
		Page:                  result.CurrentPage,
		PerPage:               result.ItemsPerPage,
		TotalPages:            result.TotalPages(),
		DistanceFilterSkipped: result.DistanceFilterSkipped,
	}
	for i, item := range result.Items {
		resp.Data[i] = toCandidateResponse(item)
	}
	return resp
}

// toQuotaResponse: отсутствие лимита отдается как null
func toQuotaResponse(d *domain.QuotaDecision) *QuotaResponse {
	if d == nil {
		return nil
	}
	resp := &QuotaResponse{
		Allowed: d.Allowed,
		State:   string(d.State),
		Action:  string(d.Action),
		Tier:    string(d.Tier),
		Usage:   d.Usage,
		Reason:  d.Reason,
	}
	if d.Limit >= 0 {
		limit, remaining := d.Limit, d.Remaining
		resp.Limit = &limit
		resp.Remaining = &remaining
	}
	return resp
}

func (req CreateJobRequest) toDomain() domain.Job {
	return domain.Job{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		JobType:       req.JobType,
		PaymentType:   req.PaymentType,
		PaymentAmount: req.PaymentAmount,
		Location: domain.Location{
			Latitude:   req.Latitude,
			Longitude:  req.Longitude,
			PlaceName:  req.PlaceName,
			PostalCode: req.PostalCode,
		},
		IsRemote:      req.IsRemote,
		WorkersNeeded: req.WorkersNeeded,
	}
}

func toJobResponse(job *domain.Job) JobResponse {
	return JobResponse{
		ID:            job.ID.String(),
		PosterID:      job.PosterID.String(),
		Title:         job.Title,
		Category:      job.Category,
		JobType:       job.JobType,
		PaymentType:   job.PaymentType,
		PaymentAmount: job.PaymentAmount,
		PlaceName:     job.Location.PlaceName,
		PostalCode:    job.Location.PostalCode,
		IsRemote:      job.IsRemote,
		WorkersNeeded: job.WorkersNeeded,
		Status:        job.Status,
		CreatedAt:     job.CreatedAt,
	}
}

func toApplicationResponse(app *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          app.ID.String(),
		JobID:       app.JobID.String(),
		ApplicantID: app.ApplicantID.String(),
		Status:      app.Status,
		CreatedAt:   app.CreatedAt,
	}
}
