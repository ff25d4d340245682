package utils

import (
	"runtime/debug"

	"golang-stock-portfolio/pkg/logger"
)

// GoSafe runs fn in a new goroutine and logs instead of crashing when it panics.
func GoSafe(log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Recovered from panic in goroutine",
					logger.Field("panic", r),
					logger.StringField("stack", string(debug.Stack())))
			}
		}()
		fn()
	}()
}
