package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/internship-backend/internal/usecase/account"
)

func (a *App) newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Запросы на создание аккаунтов представителей",
	}
	cmd.AddCommand(
		a.newAccountsRequestCmd(),
		a.newAccountsPendingCmd(),
		a.newAccountsReviewCmd("approve", "Одобрить запрос и создать аккаунт"),
		a.newAccountsReviewCmd("reject", "Отклонить запрос"),
	)
	return cmd
}

func (a *App) newAccountsRequestCmd() *cobra.Command {
	input := account.RequestRepresentativeAccountInput{}

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Запросить аккаунт представителя компании (без входа)",
		Long: `Отправить запрос на создание аккаунта представителя. Войти можно
после одобрения сотрудником с паролем по умолчанию.

Examples:
  internship accounts request --id hr@acme.com --name "Ray Tan" \
    --company Acme --department R&D --position HR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{mutate: true}, func(ctx context.Context, e *env) error {
				req, err := e.c.Accounts.Request.Execute(ctx, input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "Запрос на аккаунт %s отправлен, дождитесь одобрения\n", req.UserID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input.UserID, "id", "", "Идентификатор (email) (required)")
	cmd.Flags().StringVar(&input.Name, "name", "", "Имя (required)")
	cmd.Flags().StringVar(&input.CompanyName, "company", "", "Компания (required)")
	cmd.Flags().StringVar(&input.Department, "department", "", "Подразделение (required)")
	cmd.Flags().StringVar(&input.Position, "position", "", "Должность (required)")
	for _, name := range []string{"id", "name", "company", "department", "position"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (a *App) newAccountsPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Ожидающие запросы на аккаунт (сотрудник)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true}, func(ctx context.Context, e *env) error {
				requests, err := e.c.Accounts.List.Execute(ctx, e.session.UserID())
				if err != nil {
					return err
				}
				if len(requests) == 0 {
					_, _ = fmt.Fprintln(a.stdout, "Ожидающих запросов нет.")
					return nil
				}
				_, _ = fmt.Fprintf(a.stdout, "Запросы на аккаунт (%d):\n", len(requests))
				for _, r := range requests {
					_, _ = fmt.Fprintf(a.stdout, "  %-30s %s, %s, %s / %s\n",
						r.UserID, r.Name, r.CompanyName, r.Department, r.Position)
				}
				return nil
			})
		},
	}
}

func (a *App) newAccountsReviewCmd(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <user-id>",
		Short: short + " (сотрудник)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true, mutate: true}, func(ctx context.Context, e *env) error {
				if verb == "reject" {
					if err := e.c.Accounts.Reject.Execute(ctx, args[0], e.session.UserID()); err != nil {
						return err
					}
					_, _ = fmt.Fprintf(a.stdout, "Запрос %s отклонён\n", args[0])
					return nil
				}
				rep, err := e.c.Accounts.Approve.Execute(ctx, args[0], e.session.UserID())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "Аккаунт %s (%s) создан\n", rep.ID, rep.CompanyName)
				return nil
			})
		},
	}
}
