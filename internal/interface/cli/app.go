// Package cli реализует интерфейс командной строки, одна команда за запуск.
// Каждая команда загружает снимок, восстанавливает сессию из файла,
// выполняет один сценарий и сохраняет изменения.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/internship-backend/internal/app"
	"github.com/ignatzorin/internship-backend/internal/config"
	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
	"github.com/ignatzorin/internship-backend/internal/pkg/recovery"
)

// Версия проставляется при сборке через -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type App struct {
	root   *cobra.Command
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func New(cfg *config.Config) *App {
	a := &App{
		cfg:    cfg,
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}

	a.root = &cobra.Command{
		Use:   "internship",
		Short: "Управление стажировками: публикация, заявки, отзывы",
		Long: `internship управляет жизненным циклом стажировок.

Представители компаний публикуют стажировки, сотрудники карьерного центра
одобряют их, студенты подают заявки и принимают предложения.
Состояние хранится в CSV-каталоге или PostgreSQL и сохраняется после каждой команды.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	})

	a.root.AddCommand(
		a.newVersionCmd(),
		a.newLoginCmd(),
		a.newLogoutCmd(),
		a.newWhoamiCmd(),
		a.newPasswordCmd(),
		a.newOpportunitiesCmd(),
		a.newApplicationsCmd(),
		a.newWithdrawalsCmd(),
		a.newAccountsCmd(),
		a.newReportCmd(),
		a.newSeedCmd(),
		a.newMigrateCmd(),
	)

	return a
}

// WithOutput подменяет потоки вывода, в основном для тестов.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// Run выполняет команду и печатает ошибку. Возвращает код завершения процесса.
// Ошибки разбора аргументов cobra считаются ошибками ввода.
func (a *App) Run(ctx context.Context) int {
	err := a.Execute(ctx)
	if err == nil {
		return 0
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) && !errors.Is(err, context.Canceled) {
		err = apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	_, _ = fmt.Fprintf(a.stderr, "Ошибка: %s\n", apperror.Message(err))
	return apperror.ExitCode(err)
}

func (a *App) today() valueobject.Date {
	return valueobject.DateOf(a.now())
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(a.stdout, "internship version %s\n", Version)
			_, _ = fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			_, _ = fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}

// env хранит состояние одного запуска команды.
type env struct {
	c       *app.Container
	session *entity.Session
	state   *sessionState
}

// runOptions описывает, что нужно команде от окружения.
type runOptions struct {
	auth   bool
	mutate bool
}

// run загружает данные, при необходимости восстанавливает сессию,
// выполняет fn и сохраняет снимок, если команда меняет состояние.
func (a *App) run(cmd *cobra.Command, opts runOptions, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()

	c, err := app.Bootstrap(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if c.ReadOnly() {
		_, _ = fmt.Fprintln(a.stderr, "Предупреждение: данные не загружены, изменения не будут сохранены")
	}

	e := &env{c: c}
	if opts.auth {
		if err := a.resume(ctx, e); err != nil {
			return err
		}
	}

	if err := recovery.Call(func() error { return fn(ctx, e) }); err != nil {
		return err
	}

	if opts.mutate {
		return c.Save(ctx)
	}
	return nil
}

func (a *App) resume(ctx context.Context, e *env) error {
	state, err := loadSession(a.cfg.SessionFile)
	if err != nil {
		return err
	}
	if state == nil {
		return apperror.New(apperror.ErrCodeUnauthorized, "вы не вошли в систему, выполните login")
	}

	session, err := e.c.Auth.Resume(ctx, state.Token)
	if err != nil {
		return err
	}

	filter, err := entity.NewFilterFromCriteria(state.Filter)
	if err != nil {
		return err
	}
	session.SetFilter(filter)

	e.session = session
	e.state = state
	return nil
}
