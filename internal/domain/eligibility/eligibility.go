// Package eligibility отбирает стажировки, доступные студенту, и применяет фильтры.
package eligibility

import (
	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
)

// IsEligible: стажировка одобрена, специальность совпадает,
// а уровень выше BASIC доступен только старшим курсам.
func IsEligible(student *entity.Student, o *entity.Opportunity) bool {
	if student == nil || o == nil {
		return false
	}
	if o.Status != valueobject.OpportunityStatusApproved {
		return false
	}
	if o.PreferredMajor != student.Major {
		return false
	}
	return student.AcceptsAdvancedLevels() || o.Level == valueobject.LevelBasic
}

// IsAvailable дополнительно требует видимости, открытого окна и отсутствия заявки студента.
func IsAvailable(student *entity.Student, o *entity.Opportunity, today valueobject.Date) bool {
	if !IsEligible(student, o) {
		return false
	}
	return o.Visible && o.IsOpenOn(today) && !o.HasApplicationFrom(student.ID)
}

func EligibleFor(student *entity.Student, opps []*entity.Opportunity) []*entity.Opportunity {
	return selectWhere(opps, func(o *entity.Opportunity) bool {
		return IsEligible(student, o)
	})
}

func AvailableFor(student *entity.Student, opps []*entity.Opportunity, today valueobject.Date) []*entity.Opportunity {
	return selectWhere(opps, func(o *entity.Opportunity) bool {
		return IsAvailable(student, o, today)
	})
}

func ApplyFilter(opps []*entity.Opportunity, f entity.Filter) []*entity.Opportunity {
	if f.IsEmpty() {
		return append([]*entity.Opportunity(nil), opps...)
	}
	return selectWhere(opps, f.Matches)
}

// AppliedBy возвращает стажировки, на которые студент подавал заявку в любом статусе.
func AppliedBy(studentID string, opps []*entity.Opportunity) []*entity.Opportunity {
	return selectWhere(opps, func(o *entity.Opportunity) bool {
		return o.HasApplicationFrom(studentID)
	})
}

// ByApplicationStatus возвращает стажировки, где последняя заявка студента имеет данный статус.
func ByApplicationStatus(studentID string, status valueobject.ApplicationStatus, opps []*entity.Opportunity) []*entity.Opportunity {
	return selectWhere(opps, func(o *entity.Opportunity) bool {
		app := o.ApplicationOf(studentID)
		return app != nil && app.Status == status
	})
}

// LiveApplicationCount считает заявки студента, которые ещё не отозваны и не отклонены.
func LiveApplicationCount(studentID string, opps []*entity.Opportunity) int {
	count := 0
	for _, o := range opps {
		for _, app := range o.ApplicationsOf(studentID) {
			if app.IsLive() {
				count++
			}
		}
	}
	return count
}

// HasAccepted сообщает, принял ли студент предложение на какой-либо стажировке.
func HasAccepted(studentID string, opps []*entity.Opportunity) bool {
	for _, o := range opps {
		for _, app := range o.ApplicationsOf(studentID) {
			if app.IsAccepted() {
				return true
			}
		}
	}
	return false
}

func selectWhere(opps []*entity.Opportunity, keep func(*entity.Opportunity) bool) []*entity.Opportunity {
	result := make([]*entity.Opportunity, 0, len(opps))
	for _, o := range opps {
		if keep(o) {
			result = append(result, o)
		}
	}
	return result
}
