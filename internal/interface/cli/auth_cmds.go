package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
)

type loginOptions struct {
	role     string
	userID   string
	password string
}

func (a *App) newLoginCmd() *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Войти под ролью студента, представителя или сотрудника",
		Long: `Войти в систему. Сессия сохраняется в файл и действует до logout
или истечения SESSION_TTL.

Examples:
  internship login --role student --id U2310001A --password password
  internship login --role rep --id hr@acme.com --password password`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{}, func(ctx context.Context, e *env) error {
				role, err := valueobject.NewRole(opts.role)
				if err != nil {
					return err
				}
				session, err := e.c.Auth.Login(ctx, role, opts.userID, opts.password)
				if err != nil {
					return err
				}
				token, err := e.c.Auth.IssueToken(session)
				if err != nil {
					return err
				}
				if err := saveSession(a.cfg.SessionFile, &sessionState{Token: token}); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.stdout, "Добро пожаловать, %s (%s)\n", entity.IdentityOf(session.Account).Name, session.Role())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.role, "role", "r", "", "Роль: student, rep или staff (required)")
	cmd.Flags().StringVarP(&opts.userID, "id", "u", "", "Идентификатор пользователя (required)")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "Пароль")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func (a *App) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Завершить сессию",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clearSession(a.cfg.SessionFile); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, "Сессия завершена")
			return nil
		},
	}
}

func (a *App) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Показать текущего пользователя и активный фильтр",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true}, func(ctx context.Context, e *env) error {
				identity := entity.IdentityOf(e.session.Account)
				_, _ = fmt.Fprintf(a.stdout, "%s (%s), роль %s\n", identity.Name, identity.ID, e.session.Role())

				switch account := e.session.Account.(type) {
				case *entity.Student:
					_, _ = fmt.Fprintf(a.stdout, "Курс %d, специальность %s, запросов на отзыв: %d\n",
						account.Year, account.Major, account.WithdrawalRequestsMade)
				case *entity.Representative:
					_, _ = fmt.Fprintf(a.stdout, "%s, %s, %s\n", account.CompanyName, account.Department, account.Position)
				case *entity.Staff:
					_, _ = fmt.Fprintf(a.stdout, "Подразделение: %s\n", account.Department)
				}

				a.printFilter(e.state.Filter)
				return nil
			})
		},
	}
}

type passwordOptions struct {
	current string
	next    string
}

func (a *App) newPasswordCmd() *cobra.Command {
	opts := &passwordOptions{}

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Сменить пароль",
		Long: `Сменить пароль текущего пользователя. После смены нужно войти заново.
Новый пароль длиннее 4 символов и содержит заглавную, строчную буквы и цифру.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, runOptions{auth: true, mutate: true}, func(ctx context.Context, e *env) error {
				if err := e.c.Auth.ChangePassword(ctx, e.session, opts.current, opts.next); err != nil {
					return err
				}
				if err := clearSession(a.cfg.SessionFile); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(a.stdout, "Пароль изменён, войдите снова")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.current, "old", "", "Текущий пароль (required)")
	cmd.Flags().StringVar(&opts.next, "new", "", "Новый пароль (required)")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}
