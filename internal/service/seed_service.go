package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/logger"
)

// SeedPassword задаёт пароль всех сгенерированных аккаунтов.
const SeedPassword = "Password123"

// opportunitiesPerRep не превышает лимит активных стажировок по умолчанию.
const opportunitiesPerRep = 3

// SeedService генерирует демонстрационные аккаунты и стажировки.
type SeedService struct {
	users  repository.UserRepository
	opps   repository.OpportunityRepository
	hasher *PasswordHasher
	rnd    *rand.Rand
}

type SeedResult struct {
	Students        int
	Representatives int
	Staff           int
	Opportunities   int
}

func NewSeedService(users repository.UserRepository, opps repository.OpportunityRepository, hasher *PasswordHasher) *SeedService {
	return &SeedService{
		users:  users,
		opps:   opps,
		hasher: hasher,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithSeed делает генерацию воспроизводимой.
func (s *SeedService) WithSeed(seed int64) *SeedService {
	s.rnd = rand.New(rand.NewSource(seed))
	return s
}

var (
	firstNames = []string{
		"Alex", "Dmitry", "Maxim", "Sergey", "Ivan", "Mikhail", "Nikita", "Roman",
		"Anna", "Maria", "Elena", "Olga", "Daria", "Polina", "Sofia", "Alice",
		"Wei", "Jun", "Mei", "Hui", "Arjun", "Priya", "Farah", "Hakim",
	}
	lastNames = []string{
		"Ivanov", "Petrov", "Smirnov", "Sokolov", "Popov", "Novikov", "Morozov", "Volkov",
		"Tan", "Lim", "Lee", "Ng", "Wong", "Goh", "Kumar", "Rahman",
	}
	companies = []struct {
		name       string
		department string
	}{
		{"Acme Robotics", "R&D"},
		{"Globex", "Data Platform"},
		{"Initech", "Infrastructure"},
		{"Umbrella Labs", "Bioinformatics"},
		{"Stark Systems", "Embedded"},
		{"Wayne Analytics", "Machine Learning"},
	}
	titles = map[valueobject.Major][]string{
		valueobject.MajorCCDS: {"Backend Engineering Intern", "Frontend Intern", "Site Reliability Intern", "Security Intern"},
		valueobject.MajorIEEE: {"Embedded Systems Intern", "Hardware Verification Intern", "Signal Processing Intern"},
		valueobject.MajorDSAI: {"Data Science Intern", "ML Engineering Intern", "Analytics Intern"},
	}
	descriptions = []string{
		"Work with a product team on production services and ship features end to end.",
		"Build internal tooling and automate release workflows.",
		"Prototype models on real datasets and present findings to the team.",
		"Support the platform team with monitoring, testing and incident reviews.",
	}
)

// SeedData добавляет одного сотрудника, numStudents студентов и numOpportunities стажировок.
// Представители создаются по одному на каждые три стажировки.
func (s *SeedService) SeedData(ctx context.Context, numStudents, numOpportunities int) (*SeedResult, error) {
	hash, err := s.hasher.Hash(SeedPassword)
	if err != nil {
		return nil, fmt.Errorf("seed service: failed to hash password: %w", err)
	}

	result := &SeedResult{}

	staffID := s.uniqueID("staff", "")
	staff, err := entity.NewStaff(staffID, s.fullName(), "Career Office", staffID+"@ntu.edu.sg")
	if err != nil {
		return nil, fmt.Errorf("seed service: %w", err)
	}
	staff.PasswordHash = hash
	if err := s.users.Add(staff); err != nil {
		return nil, fmt.Errorf("seed service: failed to add staff: %w", err)
	}
	result.Staff++

	for i := 0; i < numStudents; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		major := valueobject.Majors[s.rnd.Intn(len(valueobject.Majors))]
		studentID := s.uniqueID("U23", "")
		student, err := entity.NewStudent(studentID, s.fullName(), s.rnd.Intn(4)+1, major,
			strings.ToLower(studentID)+"@e.ntu.edu.sg")
		if err != nil {
			return result, fmt.Errorf("seed service: %w", err)
		}
		student.PasswordHash = hash
		if err := s.users.Add(student); err != nil {
			return result, fmt.Errorf("seed service: failed to add student: %w", err)
		}
		result.Students++
	}

	var rep *entity.Representative
	for i := 0; i < numOpportunities; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if i%opportunitiesPerRep == 0 {
			if rep, err = s.addRepresentative(hash); err != nil {
				return result, err
			}
			result.Representatives++
		}

		o, err := s.newOpportunity(rep)
		if err != nil {
			return result, err
		}
		if err := s.opps.Add(o); err != nil {
			return result, fmt.Errorf("seed service: failed to add opportunity: %w", err)
		}
		result.Opportunities++
	}

	logger.L().WithFields(logrus.Fields{
		"students":        result.Students,
		"representatives": result.Representatives,
		"opportunities":   result.Opportunities,
	}).Info("seed service: демо-данные созданы")

	return result, nil
}

func (s *SeedService) addRepresentative(hash string) (*entity.Representative, error) {
	company := companies[s.rnd.Intn(len(companies))]
	name := s.fullName()
	id := s.uniqueID(strings.ToLower(strings.ReplaceAll(name, " ", ".")), "@"+domainOf(company.name))
	rep, err := entity.NewRepresentative(id, name, company.name, company.department, "HR")
	if err != nil {
		return nil, fmt.Errorf("seed service: %w", err)
	}
	rep.PasswordHash = hash
	if err := s.users.Add(rep); err != nil {
		return nil, fmt.Errorf("seed service: failed to add representative: %w", err)
	}
	return rep, nil
}

// newOpportunity создаёт стажировку; примерно половина сразу одобрена и видима.
func (s *SeedService) newOpportunity(rep *entity.Representative) (*entity.Opportunity, error) {
	major := valueobject.Majors[s.rnd.Intn(len(valueobject.Majors))]
	options := titles[major]
	opens := valueobject.DateOf(time.Now()).AddDays(-s.rnd.Intn(30))

	title := options[s.rnd.Intn(len(options))]
	for {
		key := entity.OpportunityKey{Title: title, CompanyName: rep.CompanyName, Department: rep.Department}
		if _, err := s.opps.FindByKey(key); err != nil {
			break
		}
		title = fmt.Sprintf("%s #%d", options[s.rnd.Intn(len(options))], s.rnd.Intn(1000))
	}

	o, err := entity.NewOpportunity(rep, entity.OpportunityDetails{
		Title:          title,
		Description:    descriptions[s.rnd.Intn(len(descriptions))],
		Level:          valueobject.Levels[s.rnd.Intn(len(valueobject.Levels))],
		PreferredMajor: major,
		OpeningDate:    opens,
		ClosingDate:    opens.AddDays(30 + s.rnd.Intn(60)),
		Slots:          s.rnd.Intn(5) + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("seed service: %w", err)
	}

	if s.rnd.Intn(2) == 0 {
		if err := o.Approve(); err != nil {
			return nil, fmt.Errorf("seed service: %w", err)
		}
		o.ToggleVisibility()
	}
	return o, nil
}

func (s *SeedService) fullName() string {
	return firstNames[s.rnd.Intn(len(firstNames))] + " " + lastNames[s.rnd.Intn(len(lastNames))]
}

// uniqueID подбирает идентификатор, ещё не занятый в справочнике пользователей.
func (s *SeedService) uniqueID(prefix, suffix string) string {
	for {
		id := fmt.Sprintf("%s%05d%s", prefix, s.rnd.Intn(100000), suffix)
		if !s.users.Exists(id) {
			return id
		}
	}
}

func domainOf(company string) string {
	return strings.ToLower(strings.Fields(company)[0]) + ".com"
}
