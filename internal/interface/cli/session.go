package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

// sessionState описывает содержимое файла сессии между запусками.
type sessionState struct {
	Token  string                `json:"token"`
	Filter entity.FilterCriteria `json:"filter"`
}

// loadSession читает файл сессии. Отсутствие файла означает, что вход не выполнен.
func loadSession(path string) (*sessionState, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось прочитать файл сессии")
	}

	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil || state.Token == "" {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "файл сессии повреждён, войдите снова")
	}
	return &state, nil
}

func saveSession(path string, state *sessionState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать сессию")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось создать каталог сессии")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось записать файл сессии")
	}
	return nil
}

func clearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось удалить файл сессии")
	}
	return nil
}
