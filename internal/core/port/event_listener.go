package port

import "context"

// EventListenerPort - входящий адаптер, который слушает внешний источник событий.
// Start блокируется до отмены контекста или фатальной ошибки.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
