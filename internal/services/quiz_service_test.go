package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizarena/internal/models"
)

type notification struct {
	telegramID string
	points     int
	total      int
	reason     string
}

type fakeNotifier struct {
	sent []notification
}

func (n *fakeNotifier) NotifyPoints(telegramID string, points, total int, reason string) {
	n.sent = append(n.sent, notification{telegramID, points, total, reason})
}

type quizFixture struct {
	svc          QuizService
	users        *fakeUserRepo
	categories   *fakeCategoryRepo
	tiers        *fakeTierRepo
	questions    *fakeQuestionRepo
	translations *fakeTranslationRepo
	payments     *fakePaymentRepo
	history      *fakeHistoryRepo
	notifier     *fakeNotifier
}

func newQuizFixture() *quizFixture {
	f := &quizFixture{
		users:        newFakeUserRepo(),
		categories:   newFakeCategoryRepo(),
		tiers:        newFakeTierRepo(),
		translations: newFakeTranslationRepo(),
		payments:     newFakePaymentRepo(),
		history:      newFakeHistoryRepo(),
		notifier:     &fakeNotifier{},
	}
	f.questions = newFakeQuestionRepo(f.tiers)
	f.svc = NewQuizService(f.users, f.categories, f.tiers, f.questions, f.translations, f.payments, f.history, f.notifier)
	return f
}

func (f *quizFixture) seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email}
	require.NoError(t, f.users.Create(u))
	return u
}

func (f *quizFixture) seedContent(t *testing.T, isPaid bool) (*models.Category, *models.Tier, []*models.Question) {
	t.Helper()
	category := &models.Category{Name: "History", OrderRank: 1}
	require.NoError(t, f.categories.Create(category))

	questions, tier, err := f.questions.CreateBatch(category.ID, &models.CreateTierRequest{
		Name:      "Bronze",
		IsPaid:    isPaid,
		OrderRank: 1,
	}, []models.QuestionItem{
		{Question: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 2},
		{Question: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 0},
	})
	require.NoError(t, err)
	return category, tier, questions
}

func TestSubmitAnswerCorrect(t *testing.T) {
	f := newQuizFixture()
	user := f.seedUser(t, "u@example.com")
	tg := "555"
	require.NoError(t, f.users.SetTelegramID(user.ID, tg))
	_, _, questions := f.seedContent(t, false)

	result, err := f.svc.SubmitAnswer(user.ID, questions[0].ID, 2)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 10, result.PointsEarned)
	assert.Equal(t, 10, result.TotalPoints)
	assert.Equal(t, 2, result.CorrectOptionIndex)

	entries, err := f.history.ListQuiz(user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 10, entries[0].Score)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "555", f.notifier.sent[0].telegramID)
	assert.Equal(t, 10, f.notifier.sent[0].points)
}

func TestSubmitAnswerIncorrectStillRecorded(t *testing.T) {
	f := newQuizFixture()
	user := f.seedUser(t, "u@example.com")
	_, _, questions := f.seedContent(t, false)

	result, err := f.svc.SubmitAnswer(user.ID, questions[0].ID, 0)
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, 0, result.PointsEarned)
	assert.Equal(t, 0, result.TotalPoints)
	assert.Equal(t, 2, result.CorrectOptionIndex, "после ответа правильный индекс раскрывается")

	entries, err := f.history.ListQuiz(user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Score)
	assert.Empty(t, f.notifier.sent)

	_, err = f.svc.SubmitAnswer(user.ID, 9999, 0)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestCompleteTierBonusBreakpoints(t *testing.T) {
	cases := []struct {
		name    string
		correct int
		total   int
		bonus   int
	}{
		{"90 percent and above", 9, 10, 100},
		{"exactly 70 percent", 7, 10, 50},
		{"exactly 50 percent", 5, 10, 25},
		{"below 50 percent", 4, 10, 0},
		{"perfect score", 10, 10, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newQuizFixture()
			user := f.seedUser(t, "u@example.com")
			_, tier, _ := f.seedContent(t, false)

			result, err := f.svc.CompleteTier(user.ID, tier.ID, tc.correct, tc.total)
			require.NoError(t, err)
			assert.Equal(t, tc.bonus, result.BonusPoints)
			assert.Equal(t, tc.bonus, result.TotalPoints)
		})
	}
}

func TestCompleteTierValidation(t *testing.T) {
	f := newQuizFixture()
	user := f.seedUser(t, "u@example.com")
	_, tier, _ := f.seedContent(t, false)

	_, err := f.svc.CompleteTier(user.ID, tier.ID, 5, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.CompleteTier(user.ID, tier.ID, 11, 10)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.CompleteTier(user.ID, 9999, 5, 10)
	assert.ErrorIs(t, err, ErrTierNotFound)
}

func TestAddPointsDailyTaskOncePerDay(t *testing.T) {
	f := newQuizFixture()
	user := f.seedUser(t, "u@example.com")
	task := "daily-login"

	updated, err := f.svc.AddPoints(user.ID, 5, &task, "daily login")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Points)

	_, err = f.svc.AddPoints(user.ID, 5, &task, "daily login")
	require.ErrorIs(t, err, ErrDailyTaskDone)

	// очки за повтор не начислены
	stored, err := f.users.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Points)

	// другая задача в тот же день проходит
	other := "daily-share"
	updated, err = f.svc.AddPoints(user.ID, 3, &other, "")
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Points)

	// без task id ограничения нет
	_, err = f.svc.AddPoints(user.ID, 2, nil, "")
	require.NoError(t, err)
	_, err = f.svc.AddPoints(user.ID, 2, nil, "")
	require.NoError(t, err)

	_, err = f.svc.AddPoints(user.ID, 0, nil, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckTierAccess(t *testing.T) {
	f := newQuizFixture()
	user := f.seedUser(t, "u@example.com")
	_, paidTier, _ := f.seedContent(t, true)

	freeTier := &models.Tier{Name: "Free", OrderRank: 2}
	require.NoError(t, f.tiers.Create(freeTier))

	ok, err := f.svc.CheckTierAccess(user.ID, freeTier.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.CheckTierAccess(user.ID, paidTier.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// просроченный платёж доступа не даёт
	expired := time.Now().Add(-time.Hour)
	require.NoError(t, f.payments.Create(&models.UserPayment{UserID: user.ID, TierID: paidTier.ID, ExpiryDate: &expired}))
	ok, err = f.svc.CheckTierAccess(user.ID, paidTier.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// бессрочный платёж открывает уровень
	require.NoError(t, f.payments.Create(&models.UserPayment{UserID: user.ID, TierID: paidTier.ID}))
	ok, err = f.svc.CheckTierAccess(user.ID, paidTier.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.svc.CheckTierAccess(user.ID, 9999)
	assert.ErrorIs(t, err, ErrTierNotFound)
}

func TestGetRandomQuestionHidesAnswerAndTranslates(t *testing.T) {
	f := newQuizFixture()
	user := f.seedUser(t, "u@example.com")
	lang := "ru"
	_, err := f.users.UpdateProfile(user.ID, &models.UpdateUserRequest{LanguagePreference: &lang})
	require.NoError(t, err)

	category, tier, questions := f.seedContent(t, false)
	for _, q := range questions {
		_, err := f.translations.Upsert(q.ID, "ru", "RU: "+q.QuestionText, []string{"а", "б", "в", "г"})
		require.NoError(t, err)
	}

	view, err := f.svc.GetRandomQuestion(user.ID, category.OrderRank, tier.OrderRank)
	require.NoError(t, err)
	assert.Contains(t, view.QuestionText, "RU: ")
	assert.Equal(t, []string{"а", "б", "в", "г"}, view.Options)

	_, err = f.svc.GetRandomQuestion(9999, category.OrderRank, tier.OrderRank)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.svc.GetRandomQuestion(user.ID, 9999, tier.OrderRank)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGetRandomQuestionLockedAndEmpty(t *testing.T) {
	f := newQuizFixture()
	user := f.seedUser(t, "u@example.com")
	category, paidTier, _ := f.seedContent(t, true)

	_, err := f.svc.GetRandomQuestion(user.ID, category.OrderRank, paidTier.OrderRank)
	assert.ErrorIs(t, err, ErrTierLocked)

	emptyTier := &models.Tier{Name: "Empty", OrderRank: 5}
	require.NoError(t, f.tiers.Create(emptyTier))
	_, err = f.svc.GetRandomQuestion(user.ID, category.OrderRank, emptyTier.OrderRank)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestGetUserProgress(t *testing.T) {
	f := newQuizFixture()
	user := f.seedUser(t, "u@example.com")
	_, _, questions := f.seedContent(t, false)

	_, err := f.svc.SubmitAnswer(user.ID, questions[0].ID, 2) // +10
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(user.ID, questions[1].ID, 3) // мимо
	require.NoError(t, err)

	task := "daily-login"
	_, err = f.svc.AddPoints(user.ID, 5, &task, "")
	require.NoError(t, err)

	progress, err := f.svc.GetUserProgress(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.TotalQuizzes)
	assert.Equal(t, 10, progress.TotalScore)
	assert.Equal(t, 5.0, progress.AverageScore)
	assert.Equal(t, 1, progress.TodayActivities)
	assert.Equal(t, 15, progress.User.Points)
}
