// Package recovery превращает panic в ошибку, чтобы команда CLI завершалась штатно.
package recovery

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

// Call выполняет fn; panic логируется со стеком и возвращается как INTERNAL_ERROR.
func Call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.L().WithFields(logrus.Fields{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			}).Error("recovery: panic перехвачен")
			err = apperror.Newf(apperror.ErrCodeInternal, "внутренняя ошибка: %v", r)
		}
	}()
	return fn()
}
