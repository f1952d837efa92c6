package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер.
// Логи пишутся в stderr, чтобы не смешиваться с выводом команд.
func Init(level string) {
	Log = logrus.New()
	Log.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// SetOutput перенаправляет логи, например в файл или io.Discard в тестах.
func SetOutput(w io.Writer) {
	L().SetOutput(w)
}

// L возвращает логгер, создавая молчаливый по умолчанию, если Init не вызывался.
func L() *logrus.Logger {
	if Log == nil {
		Log = logrus.New()
		Log.SetOutput(io.Discard)
	}
	return Log
}
