package domain

import "strings"

const (
	JobDisplayFallback  = "the employer"
	UserDisplayFallback = "Unknown user"
)

// ResolveDisplayName возвращает первое непустое имя из списка по порядку приоритета,
// иначе fallback.
func ResolveDisplayName(fallback string, names ...string) string {
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
