package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/internship-backend/internal/usecase/withdrawal"
)

func (a *App) newWithdrawalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdrawals",
		Short: "Запросы на отзыв заявок",
	}
	cmd.AddCommand(
		a.newWithdrawalsListCmd(),
		a.newWithdrawalsRequestCmd(),
		a.newWithdrawalsApproveCmd(),
		a.newWithdrawalsRejectCmd(),
	)
	return cmd
}

func (a *App) newWithdrawalsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Ожидающие запросы: свои для студента, все для сотрудника",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true}, func(ctx context.Context, e *env) error {
				requests, err := e.c.Withdrawals.List.Execute(ctx, e.session)
				if err != nil {
					return err
				}
				if len(requests) == 0 {
					_, _ = fmt.Fprintln(a.stdout, "Ожидающих запросов нет.")
					return nil
				}
				_, _ = fmt.Fprintf(a.stdout, "Запросы на отзыв (%d):\n", len(requests))
				for _, r := range requests {
					_, _ = fmt.Fprintf(a.stdout, "\n  %s\n", r.ID)
					_, _ = fmt.Fprintf(a.stdout, "    Студент: %s\n", r.StudentID)
					_, _ = fmt.Fprintf(a.stdout, "    Стажировка: %s / %s\n", r.OpportunityTitle, r.CompanyName)
					_, _ = fmt.Fprintf(a.stdout, "    Причина: %s\n", r.Reason)
				}
				return nil
			})
		},
	}
}

func (a *App) newWithdrawalsRequestCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "request <opportunity-id>",
		Short: "Запросить отзыв своей заявки (студент)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true, mutate: true}, func(ctx context.Context, e *env) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				req, err := e.c.Withdrawals.Request.Execute(ctx, withdrawal.RequestWithdrawalInput{
					StudentID:     e.session.UserID(),
					OpportunityID: id,
					Reason:        reason,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "Запрос %s отправлен на рассмотрение\n", req.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Причина отзыва (required)")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func (a *App) newWithdrawalsApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <request-id>",
		Short: "Одобрить запрос на отзыв (сотрудник)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true, mutate: true}, func(ctx context.Context, e *env) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				o, err := e.c.Withdrawals.Approve.Execute(ctx, id, e.session.UserID())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "Заявка отозвана, стажировка %q: %s, свободно мест %d\n",
					o.Title, o.Status, o.RemainingSlots())
				return nil
			})
		},
	}
}

func (a *App) newWithdrawalsRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <request-id>",
		Short: "Отклонить запрос на отзыв (сотрудник)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true, mutate: true}, func(ctx context.Context, e *env) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := e.c.Withdrawals.Reject.Execute(ctx, id, e.session.UserID()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(a.stdout, "Запрос на отзыв отклонён")
				return nil
			})
		},
	}
}
