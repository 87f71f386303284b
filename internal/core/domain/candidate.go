package domain

import (
	"time"

	"github.com/google/uuid"
)

type CandidateKind string

const (
	CandidateJob  CandidateKind = "job"
	CandidateUser CandidateKind = "user"
)

// Candidate - запись, которую движок фильтрует и ранжирует.
// Движок никогда не изменяет кандидатов.
type Candidate struct {
	ID          uuid.UUID
	Kind        CandidateKind
	Title       string // заголовок вакансии или имя пользователя
	Description string // описание вакансии или навыки/био пользователя
	Category    string // категория работ или специализация
	JobType     string
	PaymentType string
	// PaymentAmount == nil означает "оплата не указана", это не ноль
	PaymentAmount *float64
	Location      Location
	IsRemote      bool
	CreatedAt     time.Time

	WorkersNeeded     int
	CurrentApplicants int

	OwnerID     uuid.UUID
	CompanyName string
	PosterName  string
	Role        Role
}

// Capacity - сколько работников нужно; отсутствующее значение считается как 1.
func (c Candidate) Capacity() int {
	if c.WorkersNeeded < 1 {
		return 1
	}
	return c.WorkersNeeded
}

// IsFullyFilled имеет смысл только для вакансий.
func (c Candidate) IsFullyFilled() bool {
	if c.Kind != CandidateJob {
		return false
	}
	return c.CurrentApplicants >= c.Capacity()
}

// OpenPositions - оставшиеся места, не меньше нуля.
func (c Candidate) OpenPositions() int {
	if c.Kind != CandidateJob {
		return 0
	}
	open := c.Capacity() - c.CurrentApplicants
	if open < 0 {
		return 0
	}
	return open
}

// DisplayName - имя, которое показывается рядом с кандидатом.
func (c Candidate) DisplayName() string {
	if c.Kind == CandidateJob {
		return ResolveDisplayName(JobDisplayFallback, c.CompanyName, c.PosterName)
	}
	return ResolveDisplayName(UserDisplayFallback, c.Title, c.CompanyName)
}

// CandidateHints - подсказки для слоя хранения, позволяющие сузить выборку.
// Хранилище вправе их игнорировать: движок все равно применит полный фильтр.
type CandidateHints struct {
	Category        string
	JobType         string
	PaymentType     string
	GeohashPrefixes []string
	PostalCode      string
	IncludeRemote   bool
	OnlyOpen        bool
	ExcludeUserID   *uuid.UUID
	TargetRole      Role
}
