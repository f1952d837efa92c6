package repository

import (
	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
)

type UserRepository interface {
	Students() []*entity.Student
	Representatives() []*entity.Representative
	Staff() []*entity.Staff
	FindStudent(id string) (*entity.Student, error)
	FindRepresentative(id string) (*entity.Representative, error)
	FindStaff(id string) (*entity.Staff, error)
	Find(role valueobject.Role, id string) (entity.Account, error)
	Add(account entity.Account) error
	Exists(id string) bool
}
