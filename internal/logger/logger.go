package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log - общий логгер сервиса. До вызова Init пишет в stderr с уровнем info.
var Log = logrus.New()

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON для production, text включается отдельно через SetTextFormatter
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// Silence глушит вывод, используется в тестах.
func Silence() {
	Log.SetOutput(io.Discard)
}

// Endpoint возвращает запись с полем endpoint, как в логах обработчиков.
func Endpoint(path string) *logrus.Entry {
	return Log.WithField("endpoint", path)
}
