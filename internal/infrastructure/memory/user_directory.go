package memory

import (
	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

// UserDirectory хранит три коллекции пользователей с общим пространством идентификаторов.
type UserDirectory struct {
	students        []*entity.Student
	representatives []*entity.Representative
	staff           []*entity.Staff
	ids             map[string]entity.Account
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{ids: make(map[string]entity.Account)}
}

func (d *UserDirectory) Students() []*entity.Student {
	return append([]*entity.Student(nil), d.students...)
}

func (d *UserDirectory) Representatives() []*entity.Representative {
	return append([]*entity.Representative(nil), d.representatives...)
}

func (d *UserDirectory) Staff() []*entity.Staff {
	return append([]*entity.Staff(nil), d.staff...)
}

func (d *UserDirectory) FindStudent(id string) (*entity.Student, error) {
	if s, ok := d.ids[id].(*entity.Student); ok {
		return s, nil
	}
	return nil, apperror.ErrUserNotFound
}

func (d *UserDirectory) FindRepresentative(id string) (*entity.Representative, error) {
	if r, ok := d.ids[id].(*entity.Representative); ok {
		return r, nil
	}
	return nil, apperror.ErrUserNotFound
}

func (d *UserDirectory) FindStaff(id string) (*entity.Staff, error) {
	if s, ok := d.ids[id].(*entity.Staff); ok {
		return s, nil
	}
	return nil, apperror.ErrUserNotFound
}

// Find ищет пользователя только среди аккаунтов указанной роли.
func (d *UserDirectory) Find(role valueobject.Role, id string) (entity.Account, error) {
	account, ok := d.ids[id]
	if !ok || entity.RoleOf(account) != role {
		return nil, apperror.ErrUserNotFound
	}
	return account, nil
}

func (d *UserDirectory) Add(account entity.Account) error {
	identity := entity.IdentityOf(account)
	if identity == nil || identity.ID == "" {
		return apperror.New(apperror.ErrCodeValidation, "идентификатор пользователя обязателен")
	}
	if d.Exists(identity.ID) {
		return apperror.Newf(apperror.ErrCodeConflict, "пользователь %s уже существует", identity.ID)
	}

	switch a := account.(type) {
	case *entity.Student:
		d.students = append(d.students, a)
	case *entity.Representative:
		d.representatives = append(d.representatives, a)
	case *entity.Staff:
		d.staff = append(d.staff, a)
	default:
		return apperror.New(apperror.ErrCodeValidation, "неизвестный тип аккаунта")
	}
	d.ids[identity.ID] = account
	return nil
}

func (d *UserDirectory) Exists(id string) bool {
	_, ok := d.ids[id]
	return ok
}
