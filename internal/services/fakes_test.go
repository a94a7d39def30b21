package services

import (
	"sort"
	"time"

	"quizarena/internal/models"
)

// Фейки репозиториев в памяти; живут в одном файле, общие для всех тестов
// пакета.

type fakeUserRepo struct {
	seq   int64
	users map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.seq++
	user.ID = r.seq
	if user.LanguagePreference == "" {
		user.LanguagePreference = "en"
	}
	user.Tier = models.UserTierStandard
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByTelegramID(telegramID string) (*models.User, error) {
	for _, u := range r.users {
		if u.TelegramID != nil && *u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) SetTelegramID(id int64, telegramID string) error {
	if u, ok := r.users[id]; ok {
		u.TelegramID = &telegramID
	}
	return nil
}

func (r *fakeUserRepo) UpdateProfile(id int64, req *models.UpdateUserRequest) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if req.Username != nil {
		u.Username = req.Username
	}
	if req.LanguagePreference != nil {
		u.LanguagePreference = *req.LanguagePreference
	}
	if req.WalletAddress != nil {
		u.WalletAddress = req.WalletAddress
	}
	if req.TelegramID != nil {
		u.TelegramID = req.TelegramID
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) AddPoints(id int64, delta int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u.Points += delta
	u.LastActive = time.Now()
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) TouchLastActive(id int64) error {
	if u, ok := r.users[id]; ok {
		u.LastActive = time.Now()
	}
	return nil
}

func (r *fakeUserRepo) sortedByPoints() []*models.User {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *fakeUserRepo) ListByPoints(limit int) ([]*models.User, error) {
	out := r.sortedByPoints()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) CountWithPointsAbove(points int) (int, error) {
	n := 0
	for _, u := range r.users {
		if u.Points > points {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) ListRecent() ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeUserRepo) Count() (int, error) { return len(r.users), nil }

type fakeOtpRepo struct {
	records map[string]*models.Otp
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{records: map[string]*models.Otp{}}
}

func (r *fakeOtpRepo) Upsert(email, codeHash string, sentAt, expiresAt time.Time) error {
	r.records[email] = &models.Otp{Email: email, CodeHash: codeHash, SentAt: sentAt, ExpiresAt: expiresAt}
	return nil
}

func (r *fakeOtpRepo) GetByEmail(email string) (*models.Otp, error) {
	rec, ok := r.records[email]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeOtpRepo) DeleteByEmail(email string) error {
	delete(r.records, email)
	return nil
}

type sentEmail struct {
	to   string
	code string
}

type fakeEmailService struct {
	sent []sentEmail
	err  error
}

func (s *fakeEmailService) SendOtpEmail(email, code string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentEmail{to: email, code: code})
	return nil
}

type fakeAdminRepo struct {
	seq    int64
	admins map[int64]*models.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[int64]*models.Admin{}}
}

func (r *fakeAdminRepo) Create(admin *models.Admin) error {
	r.seq++
	admin.ID = r.seq
	admin.CreatedAt = time.Now()
	cp := *admin
	r.admins[admin.ID] = &cp
	return nil
}

func (r *fakeAdminRepo) GetByID(id int64) (*models.Admin, error) {
	a, ok := r.admins[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdminRepo) GetByEmail(email string) (*models.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) GetByEmailOrUsername(email, username string) (*models.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email || a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) UpdateLastLogin(id int64) error {
	if a, ok := r.admins[id]; ok {
		now := time.Now()
		a.LastLogin = &now
	}
	return nil
}

func (r *fakeAdminRepo) SetTwoFASecret(id int64, secret string) error {
	if a, ok := r.admins[id]; ok {
		a.TwoFAEnabled = true
		a.TwoFASecret = &secret
		a.TwoFAVerified = false
	}
	return nil
}

func (r *fakeAdminRepo) MarkTwoFAVerified(id int64) error {
	if a, ok := r.admins[id]; ok {
		a.TwoFAVerified = true
	}
	return nil
}

func (r *fakeAdminRepo) DisableTwoFA(id int64) error {
	if a, ok := r.admins[id]; ok {
		a.TwoFAEnabled = false
		a.TwoFASecret = nil
		a.TwoFAVerified = false
	}
	return nil
}

func (r *fakeAdminRepo) SetRefreshTokenHash(id int64, hash *string) error {
	if a, ok := r.admins[id]; ok {
		a.RefreshTokenHash = hash
	}
	return nil
}

type fakeCategoryRepo struct {
	seq        int64
	categories map[int64]*models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[int64]*models.Category{}}
}

func (r *fakeCategoryRepo) Create(category *models.Category) error {
	r.seq++
	category.ID = r.seq
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(id int64) (*models.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) GetByRank(orderRank int) (*models.Category, error) {
	for _, c := range r.categories {
		if c.OrderRank == orderRank {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) GetByName(name string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) List() ([]*models.Category, error) {
	out := make([]*models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderRank < out[j].OrderRank })
	return out, nil
}

func (r *fakeCategoryRepo) UpdateByRank(orderRank int, req *models.UpdateCategoryRequest) (*models.Category, error) {
	for _, c := range r.categories {
		if c.OrderRank == orderRank {
			if req.Name != nil {
				c.Name = *req.Name
			}
			if req.Description != nil {
				c.Description = *req.Description
			}
			if req.OrderRank != nil {
				c.OrderRank = *req.OrderRank
			}
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) DeleteByRank(orderRank int) (bool, error) {
	for id, c := range r.categories {
		if c.OrderRank == orderRank {
			delete(r.categories, id)
			return true, nil
		}
	}
	return false, nil
}

type fakeTierRepo struct {
	seq   int64
	tiers map[int64]*models.Tier
}

func newFakeTierRepo() *fakeTierRepo {
	return &fakeTierRepo{tiers: map[int64]*models.Tier{}}
}

func (r *fakeTierRepo) Create(tier *models.Tier) error {
	r.seq++
	tier.ID = r.seq
	cp := *tier
	r.tiers[tier.ID] = &cp
	return nil
}

func (r *fakeTierRepo) GetByID(id int64) (*models.Tier, error) {
	t, ok := r.tiers[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTierRepo) GetByRank(orderRank int) (*models.Tier, error) {
	for _, t := range r.tiers {
		if t.OrderRank == orderRank {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTierRepo) List() ([]*models.Tier, error) {
	out := make([]*models.Tier, 0, len(r.tiers))
	for _, t := range r.tiers {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderRank < out[j].OrderRank })
	return out, nil
}

func (r *fakeTierRepo) UpdateByRank(orderRank int, req *models.UpdateTierRequest) (*models.Tier, error) {
	for _, t := range r.tiers {
		if t.OrderRank == orderRank {
			if req.Name != nil {
				t.Name = *req.Name
			}
			if req.Description != nil {
				t.Description = *req.Description
			}
			if req.IsPaid != nil {
				t.IsPaid = *req.IsPaid
			}
			if req.OrderRank != nil {
				t.OrderRank = *req.OrderRank
			}
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeQuestionRepo struct {
	seq       int64
	tiers     *fakeTierRepo
	questions map[int64]*models.Question
}

func newFakeQuestionRepo(tiers *fakeTierRepo) *fakeQuestionRepo {
	return &fakeQuestionRepo{tiers: tiers, questions: map[int64]*models.Question{}}
}

func (r *fakeQuestionRepo) GetByID(id int64) (*models.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuestionRepo) ListByCategoryAndTier(categoryID, tierID int64) ([]*models.Question, error) {
	var out []*models.Question
	for _, q := range r.questions {
		if q.CategoryID == categoryID && q.TierID == tierID {
			cp := *q
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func (r *fakeQuestionRepo) Update(question *models.Question) error {
	if q, ok := r.questions[question.ID]; ok {
		q.QuestionText = question.QuestionText
		q.Options = append([]string(nil), question.Options...)
		q.CorrectOptionIndex = question.CorrectOptionIndex
	}
	return nil
}

func (r *fakeQuestionRepo) Delete(id int64) (bool, error) {
	if _, ok := r.questions[id]; !ok {
		return false, nil
	}
	delete(r.questions, id)
	return true, nil
}

func (r *fakeQuestionRepo) CreateBatch(categoryID int64, tier *models.CreateTierRequest, items []models.QuestionItem) ([]*models.Question, *models.Tier, error) {
	t, err := r.tiers.GetByRank(tier.OrderRank)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		t = &models.Tier{Name: tier.Name, Description: tier.Description, IsPaid: tier.IsPaid, OrderRank: tier.OrderRank}
		if err := r.tiers.Create(t); err != nil {
			return nil, nil, err
		}
	}

	nextRank := 1
	for _, q := range r.questions {
		if q.CategoryID == categoryID && q.TierID == t.ID && q.Rank >= nextRank {
			nextRank = q.Rank + 1
		}
	}

	created := make([]*models.Question, 0, len(items))
	for i, item := range items {
		r.seq++
		q := &models.Question{
			ID:                 r.seq,
			QuestionText:       item.Question,
			Options:            append([]string(nil), item.Options...),
			CorrectOptionIndex: item.CorrectIndex,
			CategoryID:         categoryID,
			TierID:             t.ID,
			Rank:               nextRank + i,
		}
		cp := *q
		r.questions[q.ID] = &cp
		created = append(created, q)
	}
	return created, t, nil
}

type translationKey struct {
	questionID int64
	language   string
}

type fakeTranslationRepo struct {
	seq     int64
	entries map[translationKey]*models.Translation
}

func newFakeTranslationRepo() *fakeTranslationRepo {
	return &fakeTranslationRepo{entries: map[translationKey]*models.Translation{}}
}

func (r *fakeTranslationRepo) GetByID(id int64) (*models.Translation, error) {
	for _, t := range r.entries {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTranslationRepo) ListByQuestion(questionID int64) ([]*models.Translation, error) {
	var out []*models.Translation
	for _, t := range r.entries {
		if t.QuestionID == questionID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LanguageCode < out[j].LanguageCode })
	return out, nil
}

func (r *fakeTranslationRepo) FindByQuestionAndLanguage(questionID int64, languageCode string) (*models.Translation, error) {
	if t, ok := r.entries[translationKey{questionID, languageCode}]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeTranslationRepo) Update(id int64, req *models.UpdateTranslationRequest) (*models.Translation, error) {
	for _, t := range r.entries {
		if t.ID == id {
			if req.QuestionText != nil {
				t.QuestionText = *req.QuestionText
			}
			if req.Options != nil {
				t.Options = append([]string(nil), req.Options...)
			}
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTranslationRepo) Upsert(questionID int64, languageCode, questionText string, options []string) (bool, error) {
	key := translationKey{questionID, languageCode}
	if t, ok := r.entries[key]; ok {
		t.QuestionText = questionText
		t.Options = append([]string(nil), options...)
		return false, nil
	}
	r.seq++
	r.entries[key] = &models.Translation{
		ID:           r.seq,
		QuestionID:   questionID,
		LanguageCode: languageCode,
		QuestionText: questionText,
		Options:      append([]string(nil), options...),
	}
	return true, nil
}

type fakePaymentRepo struct {
	seq      int64
	payments []*models.UserPayment
}

func newFakePaymentRepo() *fakePaymentRepo { return &fakePaymentRepo{} }

func (r *fakePaymentRepo) Create(payment *models.UserPayment) error {
	r.seq++
	payment.ID = r.seq
	payment.PaymentDate = time.Now()
	payment.IsActive = true
	if payment.Currency == "" {
		payment.Currency = "USD"
	}
	cp := *payment
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *fakePaymentRepo) List() ([]*models.UserPayment, error) {
	out := make([]*models.UserPayment, 0, len(r.payments))
	for _, p := range r.payments {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePaymentRepo) FindActive(userID, tierID int64, now time.Time) (*models.UserPayment, error) {
	for i := len(r.payments) - 1; i >= 0; i-- {
		p := r.payments[i]
		if p.UserID != userID || p.TierID != tierID || !p.IsActive {
			continue
		}
		if p.ExpiryDate != nil && !p.ExpiryDate.After(now) {
			continue
		}
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

type fakeHistoryRepo struct {
	seq     int64
	quizzes []*models.QuizHistoryEntry
	dailies []*models.DailyActivity
}

func newFakeHistoryRepo() *fakeHistoryRepo { return &fakeHistoryRepo{} }

func (r *fakeHistoryRepo) AppendQuiz(entry *models.QuizHistoryEntry) error {
	r.seq++
	entry.ID = r.seq
	entry.CompletedAt = time.Now()
	cp := *entry
	r.quizzes = append(r.quizzes, &cp)
	return nil
}

func (r *fakeHistoryRepo) ListQuiz(userID int64) ([]*models.QuizHistoryEntry, error) {
	var out []*models.QuizHistoryEntry
	for _, e := range r.quizzes {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (r *fakeHistoryRepo) AppendDaily(userID int64, activityID string, completedAt time.Time) error {
	r.seq++
	r.dailies = append(r.dailies, &models.DailyActivity{
		ID:          r.seq,
		UserID:      userID,
		ActivityID:  activityID,
		CompletedAt: completedAt,
	})
	return nil
}

func (r *fakeHistoryRepo) ListDaily(userID int64) ([]*models.DailyActivity, error) {
	var out []*models.DailyActivity
	for _, a := range r.dailies {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (r *fakeHistoryRepo) HasDailyBetween(userID int64, activityID string, from, to time.Time) (bool, error) {
	for _, a := range r.dailies {
		if a.UserID == userID && a.ActivityID == activityID &&
			!a.CompletedAt.Before(from) && a.CompletedAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeHistoryRepo) CountDailyBetween(userID int64, from, to time.Time) (int, error) {
	n := 0
	for _, a := range r.dailies {
		if a.UserID == userID && !a.CompletedAt.Before(from) && a.CompletedAt.Before(to) {
			n++
		}
	}
	return n, nil
}
