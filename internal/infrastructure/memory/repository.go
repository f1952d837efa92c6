package memory

import (
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
)

// Repository объединяет хранилища, загруженные из одного снимка.
type Repository struct {
	Opportunities *OpportunityStore
	Requests      *RequestQueue
	Users         *UserDirectory
}

func NewRepository() *Repository {
	return &Repository{
		Opportunities: NewOpportunityStore(),
		Requests:      NewRequestQueue(nil, nil),
		Users:         NewUserDirectory(),
	}
}

// FromSnapshot наполняет хранилища; дубликаты идентификаторов считаются ошибкой данных.
func FromSnapshot(snap *repository.Snapshot) (*Repository, error) {
	repo := NewRepository()
	if snap == nil {
		return repo, nil
	}

	for _, s := range snap.Students {
		if err := repo.Users.Add(s); err != nil {
			return nil, err
		}
	}
	for _, s := range snap.Staff {
		if err := repo.Users.Add(s); err != nil {
			return nil, err
		}
	}
	for _, r := range snap.Representatives {
		if err := repo.Users.Add(r); err != nil {
			return nil, err
		}
	}
	for _, o := range snap.Opportunities {
		if err := repo.Opportunities.Add(o); err != nil {
			return nil, err
		}
	}
	repo.Requests = NewRequestQueue(snap.WithdrawalRequests, snap.AccountRequests)

	return repo, nil
}

func (r *Repository) Snapshot() *repository.Snapshot {
	return &repository.Snapshot{
		Students:           r.Users.Students(),
		Staff:              r.Users.Staff(),
		Representatives:    r.Users.Representatives(),
		Opportunities:      r.Opportunities.All(),
		WithdrawalRequests: r.Requests.Withdrawals(),
		AccountRequests:    r.Requests.AccountRequests(),
	}
}
