package rabbitmq

import (
	"fmt"

	"github.com/furqan-y-khan/workify/internal/core/port"
	"github.com/furqan-y-khan/workify/pkg/rabbitmq/rabbitmq_common"
)

// PkgLoggerBridge адаптирует LoggerPort к логгеру пакетов pkg/rabbitmq.
type PkgLoggerBridge struct {
	logger port.LoggerPort
}

var _ rabbitmq_common.Logger = (*PkgLoggerBridge)(nil)

func NewPkgLoggerBridge(logger port.LoggerPort) *PkgLoggerBridge {
	return &PkgLoggerBridge{logger: logger}
}

// kvToFields превращает пары ключ-значение в Fields; непарный хвост пишется как "extra"
func kvToFields(keysAndValues []interface{}) port.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make(port.Fields, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields[key] = keysAndValues[i+1]
	}
	if len(keysAndValues)%2 == 1 {
		fields["extra"] = keysAndValues[len(keysAndValues)-1]
	}
	return fields
}

func (b *PkgLoggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.logger.Debug(msg, kvToFields(keysAndValues))
}

func (b *PkgLoggerBridge) Info(msg string, keysAndValues ...interface{}) {
	b.logger.Info(msg, kvToFields(keysAndValues))
}

func (b *PkgLoggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	b.logger.Warn(msg, kvToFields(keysAndValues))
}

func (b *PkgLoggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	b.logger.Error(msg, err, kvToFields(keysAndValues))
}
