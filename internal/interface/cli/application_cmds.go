package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/usecase/application"
)

func (a *App) newApplicationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Заявки студентов",
	}
	cmd.AddCommand(
		a.newApplicationsListCmd(),
		a.newApplicationsApplyCmd(),
		a.newApplicationsReviewCmd("approve", "Одобрить заявку студента"),
		a.newApplicationsReviewCmd("reject", "Отклонить заявку студента"),
		a.newApplicationsAcceptCmd(),
		a.newApplicationsApplicantsCmd(),
	)
	return cmd
}

func (a *App) newApplicationsListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Мои заявки (студент)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true}, func(ctx context.Context, e *env) error {
				input := application.ListStudentApplicationsInput{StudentID: e.session.UserID()}
				if status != "" {
					s, err := valueobject.NewApplicationStatus(status)
					if err != nil {
						return err
					}
					input.Status = s
				}
				views, err := e.c.Applications.List.Execute(ctx, input)
				if err != nil {
					return err
				}
				if len(views) == 0 {
					_, _ = fmt.Fprintln(a.stdout, "Заявок нет.")
					return nil
				}
				_, _ = fmt.Fprintf(a.stdout, "Заявки (%d):\n", len(views))
				for _, v := range views {
					_, _ = fmt.Fprintf(a.stdout, "  %s  %-40s %-12s подана %s\n",
						v.Opportunity.ID, v.Opportunity.Title+" / "+v.Opportunity.CompanyName,
						v.Application.Status, v.Application.AppliedOn)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Статус: pending, successful, rejected, accepted, withdrawn")
	return cmd
}

func (a *App) newApplicationsApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <opportunity-id>",
		Short: "Подать заявку на стажировку (студент)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true, mutate: true}, func(ctx context.Context, e *env) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				app, err := e.c.Applications.Apply.Execute(ctx, application.ApplyInput{
					StudentID:     e.session.UserID(),
					OpportunityID: id,
					Today:         a.today(),
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "Заявка подана %s, статус %s\n", app.AppliedOn, app.Status)
				return nil
			})
		},
	}
}

func (a *App) newApplicationsReviewCmd(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <opportunity-id> <student-id>",
		Short: short + " (представитель)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true, mutate: true}, func(ctx context.Context, e *env) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				input := application.ReviewApplicationInput{
					RepresentativeID: e.session.UserID(),
					OpportunityID:    id,
					StudentID:        args[1],
				}
				var app *entity.Application
				if verb == "approve" {
					app, err = e.c.Applications.Approve.Execute(ctx, input)
				} else {
					app, err = e.c.Applications.Reject.Execute(ctx, input)
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "Заявка студента %s: %s\n", app.StudentID, app.Status)
				return nil
			})
		},
	}
}

func (a *App) newApplicationsAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <opportunity-id>",
		Short: "Принять одобренное предложение (студент)",
		Long: `Принять предложение по одобренной заявке. Остальные живые заявки
студента автоматически отзываются.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true, mutate: true}, func(ctx context.Context, e *env) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				result, err := e.c.Applications.Accept.Execute(ctx, application.AcceptOfferInput{
					StudentID:     e.session.UserID(),
					OpportunityID: id,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "Предложение принято, статус %s\n", result.Application.Status)
				for _, o := range result.Withdrawn {
					_, _ = fmt.Fprintf(a.stdout, "  отозвана заявка: %s / %s\n", o.Title, o.CompanyName)
				}
				return nil
			})
		},
	}
}

func (a *App) newApplicationsApplicantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "applicants <opportunity-id>",
		Short: "Заявки на собственную стажировку (представитель)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true}, func(ctx context.Context, e *env) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				apps, err := e.c.Applications.Applicants.Execute(ctx, id, e.session.UserID())
				if err != nil {
					return err
				}
				if len(apps) == 0 {
					_, _ = fmt.Fprintln(a.stdout, "Заявок нет.")
					return nil
				}
				_, _ = fmt.Fprintf(a.stdout, "Заявки (%d):\n", len(apps))
				for _, app := range apps {
					_, _ = fmt.Fprintf(a.stdout, "  %-20s %-12s подана %s\n", app.StudentID, app.Status, app.AppliedOn)
				}
				return nil
			})
		},
	}
}
