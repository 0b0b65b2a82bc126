package services

import (
	"context"
	"sort"
	"time"

	"examhub/models"
	"examhub/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeProfileStore struct {
	rows map[uuid.UUID]*models.Profile
	seq  int
	// stale makes ExistsForUser miss rows, as when a concurrent insert lands
	// between the check and the write.
	stale bool
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{rows: map[uuid.UUID]*models.Profile{}}
}

func (f *fakeProfileStore) Create(_ context.Context, p *models.Profile) error {
	if _, ok := f.rows[p.UserID]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.seq++
	p.ID = uuid.New()
	p.CreatedAt = time.Date(2024, 1, 1, 0, 0, f.seq, 0, time.UTC)
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.rows[p.UserID] = &cp
	return nil
}

func (f *fakeProfileStore) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, ok := f.rows[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) ExistsForUser(_ context.Context, userID uuid.UUID) (bool, error) {
	_, ok := f.rows[userID]
	return ok && !f.stale, nil
}

func (f *fakeProfileStore) List(_ context.Context, filter repository.ProfileFilter, offset, limit int) ([]models.Profile, int64, error) {
	var matched []models.Profile
	for _, p := range f.rows {
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		if filter.Role != nil && p.Role != *filter.Role {
			continue
		}
		if filter.City != nil && (p.City == nil || *p.City != *filter.City) {
			continue
		}
		if filter.Gender != nil && (p.Gender == nil || *p.Gender != *filter.Gender) {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return window(matched, offset, limit), int64(len(matched)), nil
}

func (f *fakeProfileStore) Update(_ context.Context, userID uuid.UUID, fields map[string]interface{}) (int64, error) {
	p, ok := f.rows[userID]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "full_name":
			p.FullName = v.(string)
		case "phone":
			s := v.(string)
			p.Phone = &s
		case "bio":
			s := v.(string)
			p.Bio = &s
		case "city":
			c := models.City(v.(string))
			p.City = &c
		case "gender":
			g := models.Gender(v.(string))
			p.Gender = &g
		case "is_active":
			p.IsActive = v.(bool)
		}
	}
	return 1, nil
}

func (f *fakeProfileStore) CountByRole(_ context.Context, role models.Role) (int64, error) {
	var n int64
	for _, p := range f.rows {
		if p.Role == role {
			n++
		}
	}
	return n, nil
}

func window[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

type fakeTestStore struct {
	tests     map[uuid.UUID]*models.Test
	questions map[uuid.UUID]int64
	stats     map[uuid.UUID]*models.TestStats
	seq       int
}

func newFakeTestStore() *fakeTestStore {
	return &fakeTestStore{
		tests:     map[uuid.UUID]*models.Test{},
		questions: map[uuid.UUID]int64{},
		stats:     map[uuid.UUID]*models.TestStats{},
	}
}

func (f *fakeTestStore) Create(_ context.Context, t *models.Test) error {
	f.seq++
	t.ID = uuid.New()
	t.CreatedAt = time.Date(2024, 1, 1, 0, 0, f.seq, 0, time.UTC)
	t.UpdatedAt = t.CreatedAt
	cp := *t
	f.tests[t.ID] = &cp
	return nil
}

func (f *fakeTestStore) FindByID(_ context.Context, id uuid.UUID) (*models.Test, error) {
	t, ok := f.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTestStore) CountQuestions(_ context.Context, testID uuid.UUID) (int64, error) {
	return f.questions[testID], nil
}

func (f *fakeTestStore) List(_ context.Context, filter repository.TestFilter, offset, limit int) ([]models.Test, int64, error) {
	var matched []models.Test
	for _, t := range f.tests {
		if !t.IsActive {
			continue
		}
		if filter.IsPublished != nil && t.IsPublished != *filter.IsPublished {
			continue
		}
		if filter.CreatedBy != nil && t.CreatedBy != *filter.CreatedBy {
			continue
		}
		matched = append(matched, *t)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return window(matched, offset, limit), int64(len(matched)), nil
}

func (f *fakeTestStore) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	t, ok := f.tests[id]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "title":
			t.Title = v.(string)
		case "difficulty":
			t.Difficulty = models.Difficulty(v.(string))
		case "duration_minutes":
			t.DurationMinutes = v.(int)
		case "is_active":
			t.IsActive = v.(bool)
		case "is_published":
			t.IsPublished = v.(bool)
		case "start_time":
			st := v.(time.Time)
			t.StartTime = &st
		}
	}
	t.UpdatedAt = t.UpdatedAt.Add(time.Second)
	return 1, nil
}

func (f *fakeTestStore) Stats(_ context.Context, testID uuid.UUID) (*models.TestStats, error) {
	if s, ok := f.stats[testID]; ok {
		return s, nil
	}
	return &models.TestStats{}, nil
}

type fakeQuestionStore struct {
	questions map[uuid.UUID]*models.Question
	details   map[uuid.UUID]models.QuestionDetail
	order     []uuid.UUID
	createErr error

	detailUpdates []models.QuestionType
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{
		questions: map[uuid.UUID]*models.Question{},
		details:   map[uuid.UUID]models.QuestionDetail{},
	}
}

func (f *fakeQuestionStore) CreateWithDetail(_ context.Context, q *models.Question, detail models.QuestionDetail) error {
	if f.createErr != nil {
		return f.createErr
	}
	q.ID = uuid.New()
	switch d := detail.(type) {
	case *models.MCQOption:
		d.QuestionID = q.ID
	case *models.TheoryDetail:
		d.QuestionID = q.ID
	case *models.CodingDetail:
		d.QuestionID = q.ID
	}
	cp := *q
	f.questions[q.ID] = &cp
	f.details[q.ID] = detail
	f.order = append(f.order, q.ID)
	return nil
}

func (f *fakeQuestionStore) FindByID(_ context.Context, id uuid.UUID) (*models.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuestionStore) FindDetail(_ context.Context, q *models.Question) (models.QuestionDetail, error) {
	return f.details[q.ID], nil
}

func (f *fakeQuestionStore) FindDetails(_ context.Context, questions []models.Question) (map[uuid.UUID]models.QuestionDetail, error) {
	out := map[uuid.UUID]models.QuestionDetail{}
	for _, q := range questions {
		if d, ok := f.details[q.ID]; ok {
			out[q.ID] = d
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) ListByTest(_ context.Context, testID uuid.UUID, questionType *models.QuestionType) ([]models.Question, error) {
	var out []models.Question
	for _, id := range f.order {
		q := f.questions[id]
		if q.TestID != testID || !q.IsActive {
			continue
		}
		if questionType != nil && q.QuestionType != *questionType {
			continue
		}
		out = append(out, *q)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderNo < out[j].OrderNo })
	return out, nil
}

func (f *fakeQuestionStore) UpdateBase(_ context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	q, ok := f.questions[id]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "question_text":
			q.QuestionText = v.(string)
		case "marks":
			q.Marks = v.(int)
		case "order_no":
			q.OrderNo = v.(int)
		case "is_active":
			q.IsActive = v.(bool)
		}
	}
	return 1, nil
}

func (f *fakeQuestionStore) UpdateDetail(_ context.Context, id uuid.UUID, questionType models.QuestionType, fields map[string]interface{}) (int64, error) {
	f.detailUpdates = append(f.detailUpdates, questionType)
	switch d := f.details[id].(type) {
	case *models.MCQOption:
		if v, ok := fields["correct_option"]; ok {
			d.CorrectOption = models.CorrectOption(v.(string))
		}
		if v, ok := fields["option_a"]; ok {
			d.OptionA = v.(string)
		}
	case *models.TheoryDetail:
		if v, ok := fields["word_limit"]; ok {
			d.WordLimit = v.(int)
		}
	case *models.CodingDetail:
		if v, ok := fields["time_limit_seconds"]; ok {
			d.TimeLimitSeconds = v.(int)
		}
	default:
		return 0, nil
	}
	return 1, nil
}

type fakeUserStore struct {
	byID  map[uuid.UUID]*models.User
	stale bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[uuid.UUID]*models.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) error {
	if _, err := f.FindByEmail(ctx, u.Email); err == nil {
		return gorm.ErrDuplicatedKey
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	return err == nil && !f.stale, nil
}

func (f *fakeUserStore) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	u, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "password_hash":
			u.PasswordHash = v.(string)
		case "last_login":
			t := v.(time.Time)
			u.LastLogin = &t
		case "is_active":
			u.IsActive = v.(bool)
		}
	}
	return nil
}

func (f *fakeUserStore) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]models.User, int64, error) {
	var matched []models.User
	for _, u := range f.byID {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		matched = append(matched, *u)
	}
	return window(matched, offset, limit), int64(len(matched)), nil
}

type fakeRevocations struct {
	revoked map[string]time.Duration
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{revoked: map[string]time.Duration{}}
}

func (f *fakeRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	f.revoked[id] = ttl
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := f.revoked[id]
	return ok, nil
}
