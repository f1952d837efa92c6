// Package app собирает зависимости: конфигурацию, хранилище снимков,
// хранилища в памяти, сервисы и сценарии.
package app

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/config"
	"github.com/ignatzorin/internship-backend/internal/db"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/internship-backend/internal/infrastructure/persistence/csvstore"
	"github.com/ignatzorin/internship-backend/internal/infrastructure/persistence/postgres"
	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
	"github.com/ignatzorin/internship-backend/internal/service"
	"github.com/ignatzorin/internship-backend/internal/usecase/account"
	"github.com/ignatzorin/internship-backend/internal/usecase/application"
	"github.com/ignatzorin/internship-backend/internal/usecase/opportunity"
	"github.com/ignatzorin/internship-backend/internal/usecase/withdrawal"
)

// Opportunities группирует сценарии жизненного цикла стажировок.
type Opportunities struct {
	Create  *opportunity.CreateOpportunityUseCase
	Edit    *opportunity.EditPendingOpportunityUseCase
	Toggle  *opportunity.ToggleVisibilityUseCase
	Approve *opportunity.ApproveOpportunityUseCase
	Reject  *opportunity.RejectOpportunityUseCase
	List    *opportunity.ListOpportunitiesUseCase
}

type Applications struct {
	Apply      *application.ApplyUseCase
	Approve    *application.ApproveApplicationUseCase
	Reject     *application.RejectApplicationUseCase
	Accept     *application.AcceptOfferUseCase
	List       *application.ListStudentApplicationsUseCase
	Applicants *application.ListApplicantsUseCase
}

type Withdrawals struct {
	Request *withdrawal.RequestWithdrawalUseCase
	Approve *withdrawal.ApproveWithdrawalUseCase
	Reject  *withdrawal.RejectWithdrawalUseCase
	List    *withdrawal.ListWithdrawalsUseCase
}

type Accounts struct {
	Request *account.RequestRepresentativeAccountUseCase
	Approve *account.ApproveAccountRequestUseCase
	Reject  *account.RejectAccountRequestUseCase
	List    *account.ListAccountRequestsUseCase
}

// Container держит всё состояние одного запуска.
type Container struct {
	Config *config.Config
	Repo   *memory.Repository
	Hasher *service.PasswordHasher
	Auth   *service.AuthService
	Seeder *service.SeedService

	Opportunities Opportunities
	Applications  Applications
	Withdrawals   Withdrawals
	Accounts      Accounts

	store      repository.Snapshotter
	conn       *sqlx.DB
	migrations []string
	readOnly   bool
}

// Bootstrap открывает хранилище и загружает снимок.
// Если снимок не читается, система стартует пустой, а сохранение отключается,
// чтобы не затереть повреждённые данные.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
		Hasher: service.NewPasswordHasher(cfg.PasswordCost),
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	c.store = store

	snap, err := store.Load(ctx)
	if err == nil {
		c.Repo, err = memory.FromSnapshot(snap)
	}
	if err != nil {
		logger.L().WithFields(logrus.Fields{
			"driver": cfg.StorageDriver,
			"error":  err.Error(),
		}).Error("app: не удалось загрузить данные, система запущена пустой")
		c.Repo = memory.NewRepository()
		c.readOnly = true
	}

	c.wire()
	return c, nil
}

// NewWithRepository собирает контейнер поверх готового репозитория и хранилища.
func NewWithRepository(cfg *config.Config, repo *memory.Repository, store repository.Snapshotter) *Container {
	c := &Container{
		Config: cfg,
		Repo:   repo,
		Hasher: service.NewPasswordHasher(cfg.PasswordCost),
		store:  store,
	}
	c.wire()
	return c
}

func (c *Container) openStore(ctx context.Context) (repository.Snapshotter, error) {
	switch c.Config.StorageDriver {
	case config.StoragePostgres:
		conn, err := db.NewPostgres(ctx, c.Config.DatabaseURL)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось подключиться к базе данных")
		}
		applied, err := db.RunMigrations(ctx, conn, c.Config.MigrationsPath)
		if err != nil {
			_ = conn.Close()
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось применить миграции")
		}
		c.conn = conn
		c.migrations = applied
		return postgres.NewSnapshotStore(conn), nil
	default:
		return csvstore.New(c.Config.DataDir, c.Hasher, c.Config.DefaultRepPassword), nil
	}
}

func (c *Container) wire() {
	var (
		opps     = c.Repo.Opportunities
		requests = c.Repo.Requests
		users    = c.Repo.Users
		limits   = c.Config.Limits
	)

	c.Auth = service.NewAuthService(users, c.Hasher, service.NewTokenManager(c.Config.SessionSecret, c.Config.SessionTTL))
	c.Seeder = service.NewSeedService(users, opps, c.Hasher)

	c.Opportunities.Create = opportunity.NewCreateOpportunityUseCase(opps, users, limits)
	c.Opportunities.Edit = opportunity.NewEditPendingOpportunityUseCase(opps, limits)
	c.Opportunities.Toggle = opportunity.NewToggleVisibilityUseCase(opps)
	c.Opportunities.Approve = opportunity.NewApproveOpportunityUseCase(opps, users)
	c.Opportunities.Reject = opportunity.NewRejectOpportunityUseCase(opps, users)
	c.Opportunities.List = opportunity.NewListOpportunitiesUseCase(opps)

	c.Applications.Apply = application.NewApplyUseCase(opps, users, limits)
	c.Applications.Approve = application.NewApproveApplicationUseCase(opps)
	c.Applications.Reject = application.NewRejectApplicationUseCase(opps)
	c.Applications.Accept = application.NewAcceptOfferUseCase(opps, users)
	c.Applications.List = application.NewListStudentApplicationsUseCase(opps)
	c.Applications.Applicants = application.NewListApplicantsUseCase(opps, users)

	c.Withdrawals.Request = withdrawal.NewRequestWithdrawalUseCase(opps, requests, users, limits)
	c.Withdrawals.Approve = withdrawal.NewApproveWithdrawalUseCase(opps, requests, users)
	c.Withdrawals.Reject = withdrawal.NewRejectWithdrawalUseCase(requests, users)
	c.Withdrawals.List = withdrawal.NewListWithdrawalsUseCase(requests)

	c.Accounts.Request = account.NewRequestRepresentativeAccountUseCase(requests, users)
	c.Accounts.Approve = account.NewApproveAccountRequestUseCase(requests, users, c.Hasher, c.Config.DefaultRepPassword)
	c.Accounts.Reject = account.NewRejectAccountRequestUseCase(requests, users)
	c.Accounts.List = account.NewListAccountRequestsUseCase(requests, users)
}

// ReadOnly сообщает, что снимок не загрузился и сохранение отключено.
func (c *Container) ReadOnly() bool {
	return c.readOnly
}

// Save сохраняет текущее состояние через хранилище снимков.
func (c *Container) Save(ctx context.Context) error {
	if c.readOnly {
		return apperror.New(apperror.ErrCodeStorage, "данные не были загружены, сохранение отключено")
	}
	if c.store == nil {
		return nil
	}
	if err := c.store.Save(ctx, c.Repo.Snapshot()); err != nil {
		return err
	}
	logger.L().WithField("driver", c.Config.StorageDriver).Debug("app: данные сохранены")
	return nil
}

// Migrate применяет оставшиеся миграции и возвращает все, применённые за этот запуск.
// Для CSV-хранилища ничего не делает.
func (c *Container) Migrate(ctx context.Context) ([]string, error) {
	if c.conn == nil {
		return nil, nil
	}
	applied, err := db.RunMigrations(ctx, c.conn, c.Config.MigrationsPath)
	c.migrations = append(c.migrations, applied...)
	if err != nil {
		return c.migrations, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось применить миграции")
	}
	return c.migrations, nil
}

func (c *Container) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
