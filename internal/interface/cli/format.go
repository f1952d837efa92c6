package cli

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

func (a *App) printOpportunities(opps []*entity.Opportunity) {
	if len(opps) == 0 {
		_, _ = fmt.Fprintln(a.stdout, "Подходящих стажировок нет.")
		return
	}
	_, _ = fmt.Fprintf(a.stdout, "Стажировки (%d):\n", len(opps))
	for _, o := range opps {
		a.printOpportunity(o)
	}
}

func (a *App) printOpportunity(o *entity.Opportunity) {
	visibility := "скрыта"
	if o.Visible {
		visibility = "видима"
	}
	_, _ = fmt.Fprintf(a.stdout, "\n  %s  %s\n", o.ID, o.Title)
	_, _ = fmt.Fprintf(a.stdout, "    Компания: %s, %s\n", o.CompanyName, o.Department)
	_, _ = fmt.Fprintf(a.stdout, "    Уровень: %s, специальность: %s\n", o.Level, o.PreferredMajor)
	_, _ = fmt.Fprintf(a.stdout, "    Приём заявок: %s\n", o.Window)
	_, _ = fmt.Fprintf(a.stdout, "    Мест: %d (свободно %d)\n", o.Slots, o.RemainingSlots())
	_, _ = fmt.Fprintf(a.stdout, "    Статус: %s, %s\n", o.Status, visibility)
	if o.Description != "" {
		_, _ = fmt.Fprintf(a.stdout, "    Описание: %s\n", o.Description)
	}
}

func (a *App) printFilter(c entity.FilterCriteria) {
	if c == (entity.FilterCriteria{}) {
		_, _ = fmt.Fprintln(a.stdout, "Фильтр: не задан")
		return
	}
	_, _ = fmt.Fprintln(a.stdout, "Фильтр:")
	for _, item := range []struct{ name, value string }{
		{"статус", c.Status},
		{"специальность", c.Major},
		{"уровень", c.Level},
		{"открытие не раньше", c.OpensFrom},
		{"закрытие не позже", c.ClosesBy},
	} {
		if item.value != "" {
			_, _ = fmt.Fprintf(a.stdout, "  %s: %s\n", item.name, item.value)
		}
	}
}

func parseID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperror.Newf(apperror.ErrCodeValidation, "некорректный идентификатор %q", value)
	}
	return id, nil
}
