// Package postgres хранит снимок системы в PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
	"github.com/ignatzorin/internship-backend/internal/repository/common"
)

type SnapshotStore struct {
	db *sqlx.DB
}

var _ repository.Snapshotter = (*SnapshotStore)(nil)

func NewSnapshotStore(db *sqlx.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

type userRow struct {
	ID                     string         `db:"id"`
	Role                   string         `db:"role"`
	Seq                    int            `db:"seq"`
	Name                   string         `db:"name"`
	PasswordHash           string         `db:"password_hash"`
	Email                  sql.NullString `db:"email"`
	Major                  sql.NullString `db:"major"`
	Year                   sql.NullInt64  `db:"year"`
	Department             sql.NullString `db:"department"`
	CompanyName            sql.NullString `db:"company_name"`
	Position               sql.NullString `db:"position"`
	WithdrawalRequestsMade int            `db:"withdrawal_requests_made"`
}

type opportunityRow struct {
	ID               uuid.UUID `db:"id"`
	Seq              int       `db:"seq"`
	Title            string    `db:"title"`
	Description      string    `db:"description"`
	Level            string    `db:"level"`
	PreferredMajor   string    `db:"preferred_major"`
	OpeningDate      time.Time `db:"opening_date"`
	ClosingDate      time.Time `db:"closing_date"`
	CompanyName      string    `db:"company_name"`
	Department       string    `db:"department"`
	RepresentativeID string    `db:"representative_id"`
	Slots            int       `db:"slots"`
	Status           string    `db:"status"`
	Visible          bool      `db:"visible"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type applicationRow struct {
	OpportunityID uuid.UUID `db:"opportunity_id"`
	Seq           int       `db:"seq"`
	StudentID     string    `db:"student_id"`
	AppliedOn     time.Time `db:"applied_on"`
	Status        string    `db:"status"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type withdrawalRow struct {
	ID               uuid.UUID `db:"id"`
	Seq              int       `db:"seq"`
	StudentID        string    `db:"student_id"`
	OpportunityID    uuid.UUID `db:"opportunity_id"`
	OpportunityTitle string    `db:"opportunity_title"`
	CompanyName      string    `db:"company_name"`
	Reason           string    `db:"reason"`
	CreatedAt        time.Time `db:"created_at"`
}

type accountRequestRow struct {
	UserID      string    `db:"user_id"`
	Seq         int       `db:"seq"`
	Name        string    `db:"name"`
	CompanyName string    `db:"company_name"`
	Department  string    `db:"department"`
	Position    string    `db:"position"`
	CreatedAt   time.Time `db:"created_at"`
}

// Load читает все таблицы и собирает снимок с заявками внутри стажировок.
func (s *SnapshotStore) Load(ctx context.Context) (*repository.Snapshot, error) {
	var (
		users    []userRow
		opps     []opportunityRow
		apps     []applicationRow
		withdraw []withdrawalRow
		accounts []accountRequestRow
	)

	queries := []struct {
		dest  interface{}
		query string
	}{
		{&users, `SELECT * FROM users ORDER BY role, seq`},
		{&opps, `SELECT * FROM opportunities ORDER BY seq`},
		{&apps, `SELECT * FROM applications ORDER BY opportunity_id, seq`},
		{&withdraw, `SELECT * FROM withdrawal_requests ORDER BY seq`},
		{&accounts, `SELECT * FROM account_requests ORDER BY seq`},
	}
	for _, q := range queries {
		if err := s.db.SelectContext(ctx, q.dest, q.query); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось загрузить данные")
		}
	}

	snap, err := buildSnapshot(users, opps, apps, withdraw, accounts)
	if err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"users":         len(users),
		"opportunities": len(opps),
		"applications":  len(apps),
	}).Debug("postgres: снимок загружен")

	return snap, nil
}

// Save заменяет содержимое всех таблиц снимком в одной транзакции.
func (s *SnapshotStore) Save(ctx context.Context, snap *repository.Snapshot) error {
	if snap == nil {
		return apperror.New(apperror.ErrCodeInternal, "пустой снимок")
	}

	err := common.WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, table := range []string{"applications", "withdrawal_requests", "account_requests", "opportunities", "users"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}

		users := common.NewBatchInserter(tx, `INSERT INTO users (id, role, seq, name, password_hash, email, major, year,
			department, company_name, position, withdrawal_requests_made)`, 12, 100)
		for _, row := range userRows(snap) {
			if err := users.Add(ctx, row.ID, row.Role, row.Seq, row.Name, row.PasswordHash, row.Email, row.Major,
				row.Year, row.Department, row.CompanyName, row.Position, row.WithdrawalRequestsMade); err != nil {
				return err
			}
		}
		if err := users.Flush(ctx); err != nil {
			return err
		}

		opps := common.NewBatchInserter(tx, `INSERT INTO opportunities (id, seq, title, description, level,
			preferred_major, opening_date, closing_date, company_name, department, representative_id, slots,
			status, visible, created_at, updated_at)`, 16, 100)
		apps := common.NewBatchInserter(tx, `INSERT INTO applications (opportunity_id, seq, student_id,
			applied_on, status, updated_at)`, 6, 200)
		for i, o := range snap.Opportunities {
			row := toOpportunityRow(o, i)
			if err := opps.Add(ctx, row.ID, row.Seq, row.Title, row.Description, row.Level, row.PreferredMajor,
				row.OpeningDate, row.ClosingDate, row.CompanyName, row.Department, row.RepresentativeID,
				row.Slots, row.Status, row.Visible, row.CreatedAt, row.UpdatedAt); err != nil {
				return err
			}
		}
		if err := opps.Flush(ctx); err != nil {
			return err
		}
		for _, o := range snap.Opportunities {
			for _, row := range toApplicationRows(o) {
				if err := apps.Add(ctx, row.OpportunityID, row.Seq, row.StudentID, row.AppliedOn,
					row.Status, row.UpdatedAt); err != nil {
					return err
				}
			}
		}
		if err := apps.Flush(ctx); err != nil {
			return err
		}

		withdrawals := common.NewBatchInserter(tx, `INSERT INTO withdrawal_requests (id, seq, student_id,
			opportunity_id, opportunity_title, company_name, reason, created_at)`, 8, 100)
		for i, r := range snap.WithdrawalRequests {
			if err := withdrawals.Add(ctx, r.ID, i, r.StudentID, r.OpportunityID, r.OpportunityTitle,
				r.CompanyName, r.Reason, r.CreatedAt); err != nil {
				return err
			}
		}
		if err := withdrawals.Flush(ctx); err != nil {
			return err
		}

		accounts := common.NewBatchInserter(tx, `INSERT INTO account_requests (user_id, seq, name, company_name,
			department, position, created_at)`, 7, 100)
		for i, r := range snap.AccountRequests {
			if err := accounts.Add(ctx, r.UserID, i, r.Name, r.CompanyName, r.Department, r.Position,
				r.CreatedAt); err != nil {
				return err
			}
		}
		return accounts.Flush(ctx)
	})
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить данные")
	}
	return nil
}

func buildSnapshot(users []userRow, opps []opportunityRow, apps []applicationRow,
	withdraw []withdrawalRow, accounts []accountRequestRow) (*repository.Snapshot, error) {
	snap := &repository.Snapshot{}

	for _, row := range users {
		account, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		switch a := account.(type) {
		case *entity.Student:
			snap.Students = append(snap.Students, a)
		case *entity.Representative:
			snap.Representatives = append(snap.Representatives, a)
		case *entity.Staff:
			snap.Staff = append(snap.Staff, a)
		}
	}

	byID := make(map[uuid.UUID]*entity.Opportunity, len(opps))
	for _, row := range opps {
		o, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		byID[o.ID] = o
		snap.Opportunities = append(snap.Opportunities, o)
	}

	for _, row := range apps {
		o, ok := byID[row.OpportunityID]
		if !ok {
			return nil, apperror.Newf(apperror.ErrCodeDatabaseError, "заявка ссылается на неизвестную стажировку %s", row.OpportunityID)
		}
		app, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		o.Applications = append(o.Applications, app)
	}

	for _, row := range withdraw {
		snap.WithdrawalRequests = append(snap.WithdrawalRequests, row.toEntity())
	}
	for _, row := range accounts {
		snap.AccountRequests = append(snap.AccountRequests, row.toEntity())
	}
	return snap, nil
}

func (r userRow) toEntity() (entity.Account, error) {
	role, err := valueobject.NewRole(r.Role)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "некорректная роль пользователя "+r.ID)
	}
	identity := entity.Identity{ID: r.ID, Name: r.Name, PasswordHash: r.PasswordHash}

	switch role {
	case valueobject.RoleStudent:
		major, err := valueobject.NewMajor(r.Major.String)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "некорректная специальность студента "+r.ID)
		}
		return &entity.Student{
			Identity:               identity,
			Year:                   int(r.Year.Int64),
			Major:                  major,
			Email:                  r.Email.String,
			WithdrawalRequestsMade: r.WithdrawalRequestsMade,
		}, nil
	case valueobject.RoleRepresentative:
		return &entity.Representative{
			Identity:    identity,
			CompanyName: r.CompanyName.String,
			Department:  r.Department.String,
			Position:    r.Position.String,
		}, nil
	default:
		return &entity.Staff{
			Identity:   identity,
			Department: r.Department.String,
			Email:      r.Email.String,
		}, nil
	}
}

func (r opportunityRow) toEntity() (*entity.Opportunity, error) {
	level, err := valueobject.NewLevel(r.Level)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "некорректный уровень стажировки "+r.ID.String())
	}
	major, err := valueobject.NewMajor(r.PreferredMajor)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "некорректная специальность стажировки "+r.ID.String())
	}
	status, err := valueobject.NewOpportunityStatus(r.Status)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "некорректный статус стажировки "+r.ID.String())
	}
	window, err := valueobject.NewDateWindow(valueobject.DateOf(r.OpeningDate), valueobject.DateOf(r.ClosingDate))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "некорректное окно приёма заявок "+r.ID.String())
	}

	return &entity.Opportunity{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Level:            level,
		PreferredMajor:   major,
		Window:           window,
		CompanyName:      r.CompanyName,
		Department:       r.Department,
		RepresentativeID: r.RepresentativeID,
		Slots:            r.Slots,
		Status:           status,
		Visible:          r.Visible,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}, nil
}

func (r applicationRow) toEntity() (*entity.Application, error) {
	status, err := valueobject.NewApplicationStatus(r.Status)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "некорректный статус заявки "+r.StudentID)
	}
	return &entity.Application{
		StudentID: r.StudentID,
		AppliedOn: valueobject.DateOf(r.AppliedOn),
		Status:    status,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func (r withdrawalRow) toEntity() *entity.WithdrawalRequest {
	return &entity.WithdrawalRequest{
		ID:               r.ID,
		StudentID:        r.StudentID,
		OpportunityID:    r.OpportunityID,
		OpportunityTitle: r.OpportunityTitle,
		CompanyName:      r.CompanyName,
		Reason:           r.Reason,
		CreatedAt:        r.CreatedAt,
	}
}

func (r accountRequestRow) toEntity() *entity.AccountCreationRequest {
	return &entity.AccountCreationRequest{
		UserID:      r.UserID,
		Name:        r.Name,
		CompanyName: r.CompanyName,
		Department:  r.Department,
		Position:    r.Position,
		CreatedAt:   r.CreatedAt,
	}
}

func userRows(snap *repository.Snapshot) []userRow {
	rows := make([]userRow, 0, len(snap.Students)+len(snap.Staff)+len(snap.Representatives))
	for i, s := range snap.Students {
		rows = append(rows, userRow{
			ID: s.ID, Role: string(valueobject.RoleStudent), Seq: i, Name: s.Name, PasswordHash: s.PasswordHash,
			Email:                  nullString(s.Email),
			Major:                  nullString(string(s.Major)),
			Year:                   sql.NullInt64{Int64: int64(s.Year), Valid: true},
			WithdrawalRequestsMade: s.WithdrawalRequestsMade,
		})
	}
	for i, r := range snap.Representatives {
		rows = append(rows, userRow{
			ID: r.ID, Role: string(valueobject.RoleRepresentative), Seq: i, Name: r.Name, PasswordHash: r.PasswordHash,
			CompanyName: nullString(r.CompanyName),
			Department:  nullString(r.Department),
			Position:    nullString(r.Position),
		})
	}
	for i, s := range snap.Staff {
		rows = append(rows, userRow{
			ID: s.ID, Role: string(valueobject.RoleStaff), Seq: i, Name: s.Name, PasswordHash: s.PasswordHash,
			Email:      nullString(s.Email),
			Department: nullString(s.Department),
		})
	}
	return rows
}

func toOpportunityRow(o *entity.Opportunity, seq int) opportunityRow {
	return opportunityRow{
		ID:               o.ID,
		Seq:              seq,
		Title:            o.Title,
		Description:      o.Description,
		Level:            string(o.Level),
		PreferredMajor:   string(o.PreferredMajor),
		OpeningDate:      o.Window.Opens.Time(),
		ClosingDate:      o.Window.Closes.Time(),
		CompanyName:      o.CompanyName,
		Department:       o.Department,
		RepresentativeID: o.RepresentativeID,
		Slots:            o.Slots,
		Status:           string(o.Status),
		Visible:          o.Visible,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func toApplicationRows(o *entity.Opportunity) []applicationRow {
	rows := make([]applicationRow, 0, len(o.Applications))
	for i, app := range o.Applications {
		rows = append(rows, applicationRow{
			OpportunityID: o.ID,
			Seq:           i,
			StudentID:     app.StudentID,
			AppliedOn:     app.AppliedOn.Time(),
			Status:        string(app.Status),
			UpdatedAt:     app.UpdatedAt,
		})
	}
	return rows
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
