// Package csvstore хранит снимок системы в каталоге CSV-файлов.
// Формат совместим с исходными выгрузками: лишние колонки (ID, счётчики)
// необязательны при чтении и всегда пишутся при сохранении.
package csvstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/internship-backend/internal/domain/entity"
	"github.com/ignatzorin/internship-backend/internal/domain/repository"
	"github.com/ignatzorin/internship-backend/internal/domain/valueobject"
	"github.com/ignatzorin/internship-backend/internal/logger"
	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

const (
	StudentsFile           = "student_list.csv"
	StaffFile              = "staff_list.csv"
	RepresentativesFile    = "company_rep_list.csv"
	AccountRequestsFile    = "company_rep_req_list.csv"
	WithdrawalRequestsFile = "withdrawal_req_list.csv"
	OpportunitiesFile      = "internship_opps.csv"
)

const (
	applicationSeparator = "|"
	applicationFieldSep  = ";"
)

// sniffSize задаёт, сколько байт читается для определения реального типа файла.
const sniffSize = 512

var (
	studentHeader        = []string{"StudentID", "Name", "Major", "Year", "Email", "Password", "WithdrawalRequestsMade"}
	staffHeader          = []string{"StaffID", "Name", "Department", "Email", "Password"}
	representativeHeader = []string{"CompanyRepID", "Name", "CompanyName", "Department", "Position", "Password"}
	accountRequestHeader = []string{"CompanyRepID", "Name", "CompanyName", "Department", "Position"}
	withdrawalHeader     = []string{"StudentID", "InternshipTitle", "CompanyName", "WithdrawalReason", "RequestID", "OpportunityID"}
	opportunityHeader    = []string{
		"Title", "Description", "Level", "PreferredMajor", "OpeningDate", "ClosingDate",
		"CompanyName", "Department", "CompanyRepInCharge", "Slots", "Status", "Visible",
		"ApplicationList", "ID",
	}
)

// Hasher хеширует пароли, импортированные открытым текстом.
type Hasher interface {
	Hash(password string) (string, error)
}

type Store struct {
	dir             string
	hasher          Hasher
	defaultPassword string
}

var _ repository.Snapshotter = (*Store)(nil)

func New(dir string, hasher Hasher, defaultPassword string) *Store {
	return &Store{dir: dir, hasher: hasher, defaultPassword: defaultPassword}
}

func (s *Store) Dir() string {
	return s.dir
}

// Load читает все файлы каталога. Отсутствующий файл означает пустую коллекцию.
func (s *Store) Load(ctx context.Context) (*repository.Snapshot, error) {
	snap := &repository.Snapshot{}
	var err error

	if snap.Students, err = s.loadStudents(); err != nil {
		return nil, err
	}
	if snap.Staff, err = s.loadStaff(); err != nil {
		return nil, err
	}
	if snap.Representatives, err = s.loadRepresentatives(); err != nil {
		return nil, err
	}
	if snap.AccountRequests, err = s.loadAccountRequests(); err != nil {
		return nil, err
	}
	if snap.Opportunities, err = s.loadOpportunities(); err != nil {
		return nil, err
	}
	if snap.WithdrawalRequests, err = s.loadWithdrawals(snap.Opportunities); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"dir":           s.dir,
		"students":      len(snap.Students),
		"staff":         len(snap.Staff),
		"reps":          len(snap.Representatives),
		"opportunities": len(snap.Opportunities),
	}).Debug("csvstore: снимок загружен")

	return snap, nil
}

// Save перезаписывает все файлы. Каждый файл пишется во временный и затем переименовывается.
func (s *Store) Save(ctx context.Context, snap *repository.Snapshot) error {
	if snap == nil {
		return apperror.New(apperror.ErrCodeInternal, "пустой снимок")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось создать каталог данных")
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{StudentsFile, studentHeader, studentRows(snap.Students)},
		{StaffFile, staffHeader, staffRows(snap.Staff)},
		{RepresentativesFile, representativeHeader, representativeRows(snap.Representatives)},
		{AccountRequestsFile, accountRequestHeader, accountRequestRows(snap.AccountRequests)},
		{WithdrawalRequestsFile, withdrawalHeader, withdrawalRows(snap.WithdrawalRequests)},
		{OpportunitiesFile, opportunityHeader, opportunityRows(snap.Opportunities)},
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.writeTable(f.name, f.header, f.rows); err != nil {
			return err
		}
	}
	return nil
}

// table хранит прочитанный CSV-файл с доступом к колонкам по имени заголовка.
type table struct {
	name    string
	columns map[string]int
	rows    [][]string
}

type record struct {
	t    *table
	line int
	cols []string
}

func (r record) get(column string) string {
	idx, ok := r.t.columns[strings.ToLower(column)]
	if !ok || idx >= len(r.cols) {
		return ""
	}
	return strings.TrimSpace(r.cols[idx])
}

func (r record) errorf(err error, format string, args ...any) error {
	msg := fmt.Sprintf("%s, строка %d: %s", r.t.name, r.line, fmt.Sprintf(format, args...))
	if err == nil {
		return apperror.New(apperror.ErrCodeStorage, msg)
	}
	return apperror.Wrap(err, apperror.ErrCodeStorage, msg)
}

func (t *table) records() []record {
	result := make([]record, 0, len(t.rows))
	for i, cols := range t.rows {
		if len(cols) == 1 && strings.TrimSpace(cols[0]) == "" {
			continue
		}
		result = append(result, record{t: t, line: i + 2, cols: cols})
	}
	return result
}

func (t *table) require(columns ...string) error {
	for _, c := range columns {
		if _, ok := t.columns[strings.ToLower(c)]; !ok {
			return apperror.Newf(apperror.ErrCodeStorage, "%s: нет колонки %s", t.name, c)
		}
	}
	return nil
}

func (s *Store) readTable(name string) (*table, error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.L().WithField("file", path).Debug("csvstore: файл отсутствует, коллекция пуста")
		return &table{name: name, columns: map[string]int{}}, nil
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось прочитать "+name)
	}

	if err := sniff(name, data); err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeStorage, "некорректный CSV в "+name)
	}

	t := &table{name: name, columns: map[string]int{}}
	if len(rows) == 0 {
		return t, nil
	}
	for i, col := range rows[0] {
		t.columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}
	t.rows = rows[1:]
	return t, nil
}

// sniff отклоняет файлы, в которых по магическим байтам распознаётся бинарный формат.
func sniff(name string, data []byte) error {
	head := data
	if len(head) > sniffSize {
		head = head[:sniffSize]
	}
	kind, err := filetype.Match(head)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось определить тип файла "+name)
	}
	if kind != filetype.Unknown {
		return apperror.Newf(apperror.ErrCodeValidation,
			"%s не является CSV: обнаружен формат %s", name, kind.MIME.Value)
	}
	return nil
}

func (s *Store) writeTable(name string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "ошибка записи "+name)
	}
	if err := w.WriteAll(rows); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "ошибка записи "+name)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось создать временный файл для "+name)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return apperror.Wrap(err, apperror.ErrCodeStorage, "ошибка записи "+name)
	}
	if err := tmp.Close(); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "ошибка записи "+name)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeStorage, "не удалось сохранить "+name)
	}
	return nil
}

// passwordHash хеширует пароль из файла, если он ещё не bcrypt-хеш.
// Пустой пароль заменяется паролем по умолчанию.
func (s *Store) passwordHash(value string) (string, error) {
	if value == "" {
		value = s.defaultPassword
	}
	if _, err := bcrypt.Cost([]byte(value)); err == nil {
		return value, nil
	}
	if s.hasher == nil {
		return "", apperror.New(apperror.ErrCodeInternal, "не задан хешер паролей для импорта")
	}
	return s.hasher.Hash(value)
}

func (s *Store) loadStudents() ([]*entity.Student, error) {
	t, err := s.readTable(StudentsFile)
	if err != nil {
		return nil, err
	}
	if len(t.rows) > 0 {
		if err := t.require("StudentID", "Name", "Major", "Year"); err != nil {
			return nil, err
		}
	}

	var result []*entity.Student
	for _, r := range t.records() {
		major, err := valueobject.NewMajor(r.get("Major"))
		if err != nil {
			return nil, r.errorf(err, "специальность")
		}
		year, err := strconv.Atoi(r.get("Year"))
		if err != nil {
			return nil, r.errorf(err, "год обучения")
		}
		student, err := entity.NewStudent(r.get("StudentID"), r.get("Name"), year, major, r.get("Email"))
		if err != nil {
			return nil, r.errorf(err, "студент")
		}
		if student.PasswordHash, err = s.passwordHash(r.get("Password")); err != nil {
			return nil, r.errorf(err, "пароль")
		}
		if made := r.get("WithdrawalRequestsMade"); made != "" {
			if student.WithdrawalRequestsMade, err = strconv.Atoi(made); err != nil {
				return nil, r.errorf(err, "счётчик запросов на отзыв")
			}
		}
		result = append(result, student)
	}
	return result, nil
}

func (s *Store) loadStaff() ([]*entity.Staff, error) {
	t, err := s.readTable(StaffFile)
	if err != nil {
		return nil, err
	}
	if len(t.rows) > 0 {
		if err := t.require("StaffID", "Name"); err != nil {
			return nil, err
		}
	}

	var result []*entity.Staff
	for _, r := range t.records() {
		staff, err := entity.NewStaff(r.get("StaffID"), r.get("Name"), r.get("Department"), r.get("Email"))
		if err != nil {
			return nil, r.errorf(err, "сотрудник")
		}
		if staff.PasswordHash, err = s.passwordHash(r.get("Password")); err != nil {
			return nil, r.errorf(err, "пароль")
		}
		result = append(result, staff)
	}
	return result, nil
}

func (s *Store) loadRepresentatives() ([]*entity.Representative, error) {
	t, err := s.readTable(RepresentativesFile)
	if err != nil {
		return nil, err
	}
	if len(t.rows) > 0 {
		if err := t.require("CompanyRepID", "Name", "CompanyName"); err != nil {
			return nil, err
		}
	}

	var result []*entity.Representative
	for _, r := range t.records() {
		rep, err := entity.NewRepresentative(r.get("CompanyRepID"), r.get("Name"),
			r.get("CompanyName"), r.get("Department"), r.get("Position"))
		if err != nil {
			return nil, r.errorf(err, "представитель")
		}
		if rep.PasswordHash, err = s.passwordHash(r.get("Password")); err != nil {
			return nil, r.errorf(err, "пароль")
		}
		result = append(result, rep)
	}
	return result, nil
}

func (s *Store) loadAccountRequests() ([]*entity.AccountCreationRequest, error) {
	t, err := s.readTable(AccountRequestsFile)
	if err != nil {
		return nil, err
	}

	var result []*entity.AccountCreationRequest
	for _, r := range t.records() {
		req, err := entity.NewAccountCreationRequest(r.get("CompanyRepID"), r.get("Name"),
			r.get("CompanyName"), r.get("Department"), r.get("Position"))
		if err != nil {
			return nil, r.errorf(err, "запрос на аккаунт")
		}
		result = append(result, req)
	}
	return result, nil
}

func (s *Store) loadOpportunities() ([]*entity.Opportunity, error) {
	t, err := s.readTable(OpportunitiesFile)
	if err != nil {
		return nil, err
	}
	if len(t.rows) > 0 {
		if err := t.require("Title", "Level", "PreferredMajor", "OpeningDate", "ClosingDate",
			"CompanyName", "CompanyRepInCharge", "Slots", "Status"); err != nil {
			return nil, err
		}
	}

	var result []*entity.Opportunity
	for _, r := range t.records() {
		o, err := parseOpportunity(r)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}

func parseOpportunity(r record) (*entity.Opportunity, error) {
	level, err := valueobject.NewLevel(r.get("Level"))
	if err != nil {
		return nil, r.errorf(err, "уровень")
	}
	major, err := valueobject.NewMajor(r.get("PreferredMajor"))
	if err != nil {
		return nil, r.errorf(err, "специальность")
	}
	opens, err := parseStoredDate(r.get("OpeningDate"))
	if err != nil {
		return nil, r.errorf(err, "дата открытия")
	}
	closes, err := parseStoredDate(r.get("ClosingDate"))
	if err != nil {
		return nil, r.errorf(err, "дата закрытия")
	}
	window, err := valueobject.NewDateWindow(opens, closes)
	if err != nil {
		return nil, r.errorf(err, "окно приёма заявок")
	}
	slots, err := strconv.Atoi(r.get("Slots"))
	if err != nil || slots <= 0 {
		return nil, r.errorf(err, "количество мест %q", r.get("Slots"))
	}
	status, err := valueobject.NewOpportunityStatus(r.get("Status"))
	if err != nil {
		return nil, r.errorf(err, "статус")
	}
	visible := false
	if v := r.get("Visible"); v != "" {
		if visible, err = strconv.ParseBool(v); err != nil {
			return nil, r.errorf(err, "видимость")
		}
	}

	o := &entity.Opportunity{
		Title:            r.get("Title"),
		Description:      r.get("Description"),
		Level:            level,
		PreferredMajor:   major,
		Window:           window,
		CompanyName:      r.get("CompanyName"),
		Department:       r.get("Department"),
		RepresentativeID: r.get("CompanyRepInCharge"),
		Slots:            slots,
		Status:           status,
		Visible:          visible,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if o.Title == "" {
		return nil, r.errorf(nil, "пустое название стажировки")
	}

	if id := r.get("ID"); id != "" {
		if o.ID, err = uuid.Parse(id); err != nil {
			return nil, r.errorf(err, "идентификатор")
		}
	} else {
		o.ID = legacyOpportunityID(o.Key())
	}

	if o.Applications, err = parseApplications(r.get("ApplicationList")); err != nil {
		return nil, r.errorf(err, "список заявок")
	}
	return o, nil
}

// legacyOpportunityID выводит стабильный ID из описательного ключа для файлов без колонки ID.
func legacyOpportunityID(key entity.OpportunityKey) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key.String()))
}

// parseStoredDate принимает и дату, и дату-время (берётся календарная часть).
func parseStoredDate(value string) (valueobject.Date, error) {
	if i := strings.IndexByte(value, 'T'); i > 0 {
		value = value[:i]
	}
	return valueobject.ParseDate(value)
}

// parseApplications разбирает "studentId;appliedDate;STATUS|...".
func parseApplications(value string) ([]*entity.Application, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	var apps []*entity.Application
	for _, entry := range strings.Split(value, applicationSeparator) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, applicationFieldSep)
		if len(parts) != 3 {
			return nil, fmt.Errorf("заявка %q: ожидалось 3 поля", entry)
		}
		applied, err := parseStoredDate(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, err
		}
		status, err := valueobject.NewApplicationStatus(parts[2])
		if err != nil {
			return nil, err
		}
		app, err := entity.NewApplication(strings.TrimSpace(parts[0]), applied)
		if err != nil {
			return nil, err
		}
		app.Status = status
		apps = append(apps, app)
	}
	return apps, nil
}

func formatApplications(apps []*entity.Application) string {
	entries := make([]string, 0, len(apps))
	for _, app := range apps {
		entries = append(entries, strings.Join([]string{
			app.StudentID, app.AppliedOn.String(), string(app.Status),
		}, applicationFieldSep))
	}
	return strings.Join(entries, applicationSeparator)
}

// loadWithdrawals связывает запросы со стажировками по ID, а для старых файлов по названию и компании.
func (s *Store) loadWithdrawals(opps []*entity.Opportunity) ([]*entity.WithdrawalRequest, error) {
	t, err := s.readTable(WithdrawalRequestsFile)
	if err != nil {
		return nil, err
	}

	var result []*entity.WithdrawalRequest
	for _, r := range t.records() {
		req := &entity.WithdrawalRequest{
			StudentID:        r.get("StudentID"),
			OpportunityTitle: r.get("InternshipTitle"),
			CompanyName:      r.get("CompanyName"),
			Reason:           r.get("WithdrawalReason"),
			CreatedAt:        time.Now(),
		}
		if req.StudentID == "" || req.Reason == "" {
			return nil, r.errorf(nil, "неполный запрос на отзыв")
		}

		if id := r.get("RequestID"); id != "" {
			if req.ID, err = uuid.Parse(id); err != nil {
				return nil, r.errorf(err, "идентификатор запроса")
			}
		} else {
			req.ID = uuid.New()
		}

		if id := r.get("OpportunityID"); id != "" {
			if req.OpportunityID, err = uuid.Parse(id); err != nil {
				return nil, r.errorf(err, "идентификатор стажировки")
			}
		} else {
			o := findByTitle(opps, req.OpportunityTitle, req.CompanyName)
			if o == nil {
				return nil, r.errorf(nil, "стажировка %q компании %q не найдена", req.OpportunityTitle, req.CompanyName)
			}
			req.OpportunityID = o.ID
		}
		result = append(result, req)
	}
	return result, nil
}

func findByTitle(opps []*entity.Opportunity, title, company string) *entity.Opportunity {
	for _, o := range opps {
		if strings.EqualFold(o.Title, title) && strings.EqualFold(o.CompanyName, company) {
			return o
		}
	}
	return nil
}

func studentRows(students []*entity.Student) [][]string {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{
			s.ID, s.Name, string(s.Major), strconv.Itoa(s.Year), s.Email, s.PasswordHash,
			strconv.Itoa(s.WithdrawalRequestsMade),
		})
	}
	return rows
}

func staffRows(staff []*entity.Staff) [][]string {
	rows := make([][]string, 0, len(staff))
	for _, s := range staff {
		rows = append(rows, []string{s.ID, s.Name, s.Department, s.Email, s.PasswordHash})
	}
	return rows
}

func representativeRows(reps []*entity.Representative) [][]string {
	rows := make([][]string, 0, len(reps))
	for _, r := range reps {
		rows = append(rows, []string{r.ID, r.Name, r.CompanyName, r.Department, r.Position, r.PasswordHash})
	}
	return rows
}

func accountRequestRows(reqs []*entity.AccountCreationRequest) [][]string {
	rows := make([][]string, 0, len(reqs))
	for _, r := range reqs {
		rows = append(rows, []string{r.UserID, r.Name, r.CompanyName, r.Department, r.Position})
	}
	return rows
}

func withdrawalRows(reqs []*entity.WithdrawalRequest) [][]string {
	rows := make([][]string, 0, len(reqs))
	for _, r := range reqs {
		rows = append(rows, []string{
			r.StudentID, r.OpportunityTitle, r.CompanyName, r.Reason, r.ID.String(), r.OpportunityID.String(),
		})
	}
	return rows
}

func opportunityRows(opps []*entity.Opportunity) [][]string {
	rows := make([][]string, 0, len(opps))
	for _, o := range opps {
		rows = append(rows, []string{
			o.Title, o.Description, string(o.Level), string(o.PreferredMajor),
			o.Window.Opens.String(), o.Window.Closes.String(),
			o.CompanyName, o.Department, o.RepresentativeID,
			strconv.Itoa(o.Slots), string(o.Status), strconv.FormatBool(o.Visible),
			formatApplications(o.Applications), o.ID.String(),
		})
	}
	return rows
}
