package policy

import "github.com/ignatzorin/internship-backend/internal/pkg/apperror"

// Limits задаёт числовые ограничения жизненного цикла стажировок и заявок.
type Limits struct {
	MaxLiveApplications    int
	MaxWithdrawalRequests  int
	MaxSlots               int
	MaxActiveOpportunities int
}

func DefaultLimits() Limits {
	return Limits{
		MaxLiveApplications:    3,
		MaxWithdrawalRequests:  3,
		MaxSlots:               10,
		MaxActiveOpportunities: 5,
	}
}

func (l Limits) Validate() error {
	if l.MaxLiveApplications <= 0 || l.MaxWithdrawalRequests <= 0 || l.MaxSlots <= 0 || l.MaxActiveOpportunities <= 0 {
		return apperror.New(apperror.ErrCodeValidation, "лимиты должны быть положительными")
	}
	return nil
}
