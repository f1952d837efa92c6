package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/usecase/opportunity"
)

func (a *App) newOpportunitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "opportunities",
		Aliases: []string{"opps"},
		Short:   "Стажировки: просмотр, публикация, модерация",
	}
	cmd.AddCommand(
		a.newOpportunitiesListCmd(),
		a.newOpportunitiesAvailableCmd(),
		a.newOpportunitiesCreateCmd(),
		a.newOpportunitiesEditCmd(),
		a.newOpportunitiesToggleCmd(),
		a.newOpportunitiesReviewCmd("approve", "Одобрить ожидающую стажировку"),
		a.newOpportunitiesReviewCmd("reject", "Отклонить ожидающую стажировку"),
		a.newOpportunitiesFilterCmd(),
	)
	return cmd
}

func (a *App) newOpportunitiesListCmd() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список стажировок с учётом активного фильтра",
		Long: `Список стажировок с учётом активного фильтра сессии.

Выборки (--scope):
  all        все стажировки (сотрудник)
  pending    ожидающие одобрения (сотрудник)
  owned      собственные (представитель)
  eligible   подходящие по курсу и специальности (студент)
  available  подходящие, открытые сегодня и без заявки студента (студент)

По умолчанию: available для студента, owned для представителя, all для сотрудника.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listOpportunities(cmd, opportunity.Scope(scope))
		},
	}
	cmd.Flags().StringVarP(&scope, "scope", "s", "", "Выборка: all, pending, owned, eligible, available")
	return cmd
}

func (a *App) newOpportunitiesAvailableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "available",
		Short: "Стажировки, на которые студент может подать заявку сегодня",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listOpportunities(cmd, opportunity.ScopeAvailable)
		},
	}
}

func (a *App) listOpportunities(cmd *cobra.Command, scope opportunity.Scope) error {
	return a.run(cmd, runOptions{auth: true}, func(ctx context.Context, e *env) error {
		if scope == "" {
			scope = opportunity.DefaultScope(e.session.Role())
		}
		opps, err := e.c.Opportunities.List.Execute(ctx, opportunity.ListOpportunitiesInput{
			Session: e.session,
			Scope:   scope,
			Today:   a.today(),
		})
		if err != nil {
			return err
		}
		a.printOpportunities(opps)
		return nil
	})
}

type createOpportunityOptions struct {
	title       string
	description string
	level       string
	major       string
	opens       string
	closes      string
	department  string
	slots       int
}

func (a *App) newOpportunitiesCreateCmd() *cobra.Command {
	opts := &createOpportunityOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Опубликовать стажировку (представитель)",
		Long: `Создать стажировку в статусе PENDING. Она станет видна студентам
после одобрения сотрудником и включения видимости.

Examples:
  internship opportunities create --title "Backend Intern" --level basic \
    --major ccds --opens 2026-01-01 --closes 2026-03-01 --slots 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true, mutate: true}, func(ctx context.Context, e *env) error {
				details, err := opts.details()
				if err != nil {
					return err
				}
				o, err := e.c.Opportunities.Create.Execute(ctx, opportunity.CreateOpportunityInput{
					RepresentativeID: e.session.UserID(),
					Details:          details,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(a.stdout, "Стажировка создана и ожидает одобрения:")
				a.printOpportunity(o)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "Название (required)")
	cmd.Flags().StringVar(&opts.description, "description", "", "Описание")
	cmd.Flags().StringVar(&opts.level, "level", "", "Уровень: basic, intermediate, advanced (required)")
	cmd.Flags().StringVar(&opts.major, "major", "", "Специальность: ccds, ieee, dsai (required)")
	cmd.Flags().StringVar(&opts.opens, "opens", "", "Дата открытия YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.closes, "closes", "", "Дата закрытия YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.department, "department", "", "Подразделение, по умолчанию подразделение представителя")
	cmd.Flags().IntVar(&opts.slots, "slots", 1, "Количество мест")
	for _, name := range []string{"title", "level", "major", "opens", "closes"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (o *createOpportunityOptions) details() (entity.OpportunityDetails, error) {
	level, err := valueobject.NewLevel(o.level)
	if err != nil {
		return entity.OpportunityDetails{}, err
	}
	major, err := valueobject.NewMajor(o.major)
	if err != nil {
		return entity.OpportunityDetails{}, err
	}
	opens, err := valueobject.ParseDate(o.opens)
	if err != nil {
		return entity.OpportunityDetails{}, err
	}
	closes, err := valueobject.ParseDate(o.closes)
	if err != nil {
		return entity.OpportunityDetails{}, err
	}
	return entity.OpportunityDetails{
		Title:          o.title,
		Description:    o.description,
		Level:          level,
		PreferredMajor: major,
		OpeningDate:    opens,
		ClosingDate:    closes,
		Department:     o.department,
		Slots:          o.slots,
	}, nil
}

func (a *App) newOpportunitiesEditCmd() *cobra.Command {
	var field, value string

	cmd := &cobra.Command{
		Use:   "edit <opportunity-id>",
		Short: "Изменить поле ожидающей стажировки (представитель)",
		Long: `Изменить одно поле стажировки, пока она в статусе PENDING.

Поля: title, description, opening_date, closing_date, major, slots, department, level.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true, mutate: true}, func(ctx context.Context, e *env) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				o, err := e.c.Opportunities.Edit.Execute(ctx, opportunity.EditOpportunityInput{
					RepresentativeID: e.session.UserID(),
					OpportunityID:    id,
					Field:            field,
					Value:            value,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(a.stdout, "Стажировка обновлена:")
				a.printOpportunity(o)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "", "Поле (required)")
	cmd.Flags().StringVarP(&value, "value", "v", "", "Новое значение (required)")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func (a *App) newOpportunitiesToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <opportunity-id>",
		Short: "Переключить видимость собственной стажировки (представитель)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true, mutate: true}, func(ctx context.Context, e *env) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				o, err := e.c.Opportunities.Toggle.Execute(ctx, id, e.session.UserID())
				if err != nil {
					return err
				}
				if o.Visible {
					_, _ = fmt.Fprintf(a.stdout, "Стажировка %q теперь видима\n", o.Title)
				} else {
					_, _ = fmt.Fprintf(a.stdout, "Стажировка %q скрыта\n", o.Title)
				}
				return nil
			})
		},
	}
}

func (a *App) newOpportunitiesReviewCmd(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <opportunity-id>",
		Short: short + " (сотрудник)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true, mutate: true}, func(ctx context.Context, e *env) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				var o *entity.Opportunity
				if verb == "approve" {
					o, err = e.c.Opportunities.Approve.Execute(ctx, id, e.session.UserID())
				} else {
					o, err = e.c.Opportunities.Reject.Execute(ctx, id, e.session.UserID())
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "Стажировка %q: %s\n", o.Title, o.Status)
				return nil
			})
		},
	}
}

type filterOptions struct {
	criteria entity.FilterCriteria
	clear    bool
}

func (a *App) newOpportunitiesFilterCmd() *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Задать или сбросить фильтр сессии",
		Long: `Задать фильтр, который применяется ко всем спискам стажировок до выхода.
Новый фильтр заменяет предыдущий целиком. Без флагов показывает текущий фильтр.

Examples:
  internship opportunities filter --major ccds --level basic
  internship opportunities filter --closes-by 2026-06-30
  internship opportunities filter --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true}, func(ctx context.Context, e *env) error {
				switch {
				case opts.clear:
					e.state.Filter = entity.FilterCriteria{}
				case opts.criteria != (entity.FilterCriteria{}):
					filter, err := entity.NewFilterFromCriteria(opts.criteria)
					if err != nil {
						return err
					}
					e.state.Filter = filter.Criteria()
				default:
					a.printFilter(e.state.Filter)
					return nil
				}
				if err := saveSession(a.cfg.SessionFile, e.state); err != nil {
					return err
				}
				a.printFilter(e.state.Filter)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.criteria.Status, "status", "", "Статус стажировки")
	cmd.Flags().StringVar(&opts.criteria.Major, "major", "", "Специальность")
	cmd.Flags().StringVar(&opts.criteria.Level, "level", "", "Уровень")
	cmd.Flags().StringVar(&opts.criteria.OpensFrom, "opens-from", "", "Открытие не раньше YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.criteria.ClosesBy, "closes-by", "", "Закрытие не позже YYYY-MM-DD")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "Сбросить фильтр")

	return cmd
}
