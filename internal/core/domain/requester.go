package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleJobSeeker     Role = "Job Seeker"
	RoleJobPoster     Role = "Job Poster"
	RoleAdministrator Role = "Administrator"
)

// ParseRole принимает как отображаемые названия ролей, так и snake_case.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", " ")) {
	case "job seeker", "seeker":
		return RoleJobSeeker, nil
	case "job poster", "poster":
		return RoleJobPoster, nil
	case "administrator", "admin":
		return RoleAdministrator, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// CanSearchUsers - поиск людей рядом доступен работодателям и администраторам.
func (r Role) CanSearchUsers() bool {
	return r == RoleJobPoster || r == RoleAdministrator
}

// RequesterContext - снимок пользователя, выполняющего запрос.
// Передается явно в каждый вызов, глобального состояния сессии нет.
type RequesterContext struct {
	UserID   uuid.UUID
	Email    string
	Name     string
	Role     Role
	Tier     Tier
	Location Location
}

// Claims - идентичность из проверенного токена доступа.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}
