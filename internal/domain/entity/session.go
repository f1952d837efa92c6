package entity

import (
	"time"

	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
)

// Session хранит вошедшего пользователя и его фильтр.
// Сессия принадлежит вызывающей стороне и явно передаётся в запросы.
type Session struct {
	Account   Account
	StartedAt time.Time

	filter Filter
}

func NewSession(account Account) *Session {
	return &Session{Account: account, StartedAt: time.Now()}
}

func (s *Session) UserID() string {
	if id := IdentityOf(s.Account); id != nil {
		return id.ID
	}
	return ""
}

func (s *Session) Role() valueobject.Role {
	return RoleOf(s.Account)
}

func (s *Session) SetFilter(f Filter) {
	s.filter = f
}

func (s *Session) ClearFilter() {
	s.filter = Filter{}
}

func (s *Session) ActiveFilter() Filter {
	return s.filter
}

func (s *Session) Student() (*Student, bool) {
	st, ok := s.Account.(*Student)
	return st, ok
}

func (s *Session) Representative() (*Representative, bool) {
	rep, ok := s.Account.(*Representative)
	return rep, ok
}

func (s *Session) Staff() (*Staff, bool) {
	st, ok := s.Account.(*Staff)
	return st, ok
}
