package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
	"github.com/ignatzorin/internship-backend/internal/report"
	"github.com/ignatzorin/internship-backend/internal/service"
	"github.com/ignatzorin/internship-backend/internal/usecase/opportunity"
)

func (a *App) newReportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Выгрузить отчёт по всем стажировкам (сотрудник)",
		Long: `Записать текстовый отчёт по всем стажировкам с учётом активного фильтра.
По умолчанию отчёт пишется в REPORT_PATH, "-" выводит его в stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true}, func(ctx context.Context, e *env) error {
				if _, ok := e.session.Staff(); !ok {
					return apperror.ErrForbidden
				}
				opps, err := e.c.Opportunities.List.Execute(ctx, opportunity.ListOpportunitiesInput{
					Session: e.session,
					Scope:   opportunity.ScopeAll,
					Today:   a.today(),
				})
				if err != nil {
					return err
				}

				if output == "-" {
					return report.Write(a.stdout, opps, a.now())
				}
				if err := report.WriteFile(output, opps, a.now()); err != nil {
					return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось записать отчёт")
				}
				_, _ = fmt.Fprintf(a.stdout, "Отчёт по %d стажировкам записан в %s\n", len(opps), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", a.cfg.ReportPath, "Файл отчёта или - для stdout")
	return cmd
}

func (a *App) newSeedCmd() *cobra.Command {
	var students, opportunities int
	var seed int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Сгенерировать демонстрационные данные",
		Long: fmt.Sprintf(`Добавить сотрудника, студентов, представителей и стажировки.
У всех созданных аккаунтов пароль %s. В production команда недоступна.`, service.SeedPassword),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.IsProduction() {
				return apperror.New(apperror.ErrCodeForbidden, "генерация демо-данных недоступна в production")
			}
			return a.run(cmd, runOptions{mutate: true}, func(ctx context.Context, e *env) error {
				seeder := e.c.Seeder
				if seed != 0 {
					seeder = seeder.WithSeed(seed)
				}
				result, err := seeder.SeedData(ctx, students, opportunities)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "Создано: сотрудников %d, студентов %d, представителей %d, стажировок %d\n",
					result.Staff, result.Students, result.Representatives, result.Opportunities)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&students, "students", 20, "Количество студентов")
	cmd.Flags().IntVar(&opportunities, "opportunities", 12, "Количество стажировок")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Зерно генератора для воспроизводимых данных")
	return cmd
}

func (a *App) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{}, func(ctx context.Context, e *env) error {
				applied, err := e.c.Migrate(ctx)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					_, _ = fmt.Fprintln(a.stdout, "Новых миграций нет")
					return nil
				}
				for _, name := range applied {
					_, _ = fmt.Fprintf(a.stdout, "Применена миграция %s\n", name)
				}
				return nil
			})
		},
	}
}
