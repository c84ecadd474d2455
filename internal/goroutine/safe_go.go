package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/odyssey-backend/internal/logger"
)

// SafeGo запускает фоновую горутину. Паника логируется и отправляется в Sentry,
// процесс продолжает работу.
func SafeGo(name string, fn func()) {
	go func() {
		defer Recover(name)
		fn()
	}()
}

// Recover используется через defer в горутинах, запущенных без SafeGo.
func Recover(name string) {
	r := recover()
	if r == nil {
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"goroutine": name,
		"panic":     fmt.Sprint(r),
		"stack":     string(debug.Stack()),
	}).Error("goroutine: паника в фоновой горутине")
	sentry.CurrentHub().Recover(r)
}
