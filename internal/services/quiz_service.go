package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"quizarena/internal/models"
	"quizarena/internal/repositories"
)

var (
	ErrTierLocked    = errors.New("tier access denied")
	ErrNoQuestions   = errors.New("no questions available")
	ErrDailyTaskDone = errors.New("daily task already completed")
)

const (
	correctAnswerPoints = 10

	defaultLanguage = "en"
)

// QuestionView — вопрос для выдачи пользователю; правильный индекс наружу
// не отдаётся.
type QuestionView struct {
	ID           int64    `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	CategoryID   int64    `json:"category_id"`
	TierID       int64    `json:"tier_id"`
	Rank         int      `json:"rank"`
}

type AnswerResult struct {
	Correct            bool `json:"correct"`
	CorrectOptionIndex int  `json:"correct_option_index"`
	PointsEarned       int  `json:"points_earned"`
	TotalPoints        int  `json:"total_points"`
}

type TierResult struct {
	Percentage  float64 `json:"percentage"`
	BonusPoints int     `json:"bonus_points"`
	TotalPoints int     `json:"total_points"`
}

type UserProgress struct {
	User            *models.User `json:"user"`
	TotalQuizzes    int          `json:"total_quizzes"`
	TotalScore      int          `json:"total_score"`
	AverageScore    float64      `json:"average_score"`
	TodayActivities int          `json:"today_activities"`
}

// PointsNotifier — необязательный канал уведомлений о начислениях.
type PointsNotifier interface {
	NotifyPoints(telegramID string, points, total int, reason string)
}

type QuizService interface {
	CheckTierAccess(userID, tierID int64) (bool, error)
	GetRandomQuestion(userID int64, categoryRank, tierRank int) (*QuestionView, error)
	SubmitAnswer(userID, questionID int64, selectedIndex int) (*AnswerResult, error)
	CompleteTier(userID, tierID int64, correct, total int) (*TierResult, error)
	AddPoints(userID int64, points int, dailyTaskID *string, reason string) (*models.User, error)
	GetUserProgress(userID int64) (*UserProgress, error)

	ListCategories() ([]*models.Category, error)
	ListTiers() ([]*models.Tier, error)
}

type quizService struct {
	users        repositories.UserRepository
	categories   repositories.CategoryRepository
	tiers        repositories.TierRepository
	questions    repositories.QuestionRepository
	translations repositories.TranslationRepository
	payments     repositories.PaymentRepository
	history      repositories.HistoryRepository
	notifier     PointsNotifier
}

func NewQuizService(
	users repositories.UserRepository,
	categories repositories.CategoryRepository,
	tiers repositories.TierRepository,
	questions repositories.QuestionRepository,
	translations repositories.TranslationRepository,
	payments repositories.PaymentRepository,
	history repositories.HistoryRepository,
	notifier PointsNotifier,
) QuizService {
	return &quizService{
		users:        users,
		categories:   categories,
		tiers:        tiers,
		questions:    questions,
		translations: translations,
		payments:     payments,
		history:      history,
		notifier:     notifier,
	}
}

// CheckTierAccess — бесплатный уровень открыт всем; платный требует живой
// платёж (is_active и срок nil либо в будущем).
func (s *quizService) CheckTierAccess(userID, tierID int64) (bool, error) {
	tier, err := s.tiers.GetByID(tierID)
	if err != nil {
		return false, err
	}
	if tier == nil {
		return false, ErrTierNotFound
	}
	if !tier.IsPaid {
		return true, nil
	}
	payment, err := s.payments.FindActive(userID, tierID, time.Now())
	if err != nil {
		return false, err
	}
	return payment != nil, nil
}

func (s *quizService) GetRandomQuestion(userID int64, categoryRank, tierRank int) (*QuestionView, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	category, err := s.categories.GetByRank(categoryRank)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	tier, err := s.tiers.GetByRank(tierRank)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, ErrTierNotFound
	}

	allowed, err := s.CheckTierAccess(userID, tier.ID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrTierLocked
	}

	questions, err := s.questions.ListByCategoryAndTier(category.ID, tier.ID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	q := questions[rand.Intn(len(questions))]
	view := &QuestionView{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		Options:      q.Options,
		CategoryID:   q.CategoryID,
		TierID:       q.TierID,
		Rank:         q.Rank,
	}

	// подстановка перевода под язык пользователя; отсутствие перевода —
	// тихий откат к языку по умолчанию
	if lang := user.LanguagePreference; lang != "" && lang != defaultLanguage {
		tr, err := s.translations.FindByQuestionAndLanguage(q.ID, lang)
		if err != nil {
			return nil, err
		}
		if tr != nil {
			view.QuestionText = tr.QuestionText
			if len(tr.Options) == len(q.Options) {
				view.Options = tr.Options
			}
		}
	}
	return view, nil
}

func (s *quizService) SubmitAnswer(userID, questionID int64, selectedIndex int) (*AnswerResult, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	question, err := s.questions.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	correct := selectedIndex == question.CorrectOptionIndex
	earned := 0
	if correct {
		earned = correctAnswerPoints
	}

	total := user.Points
	if earned > 0 {
		updated, err := s.users.AddPoints(userID, earned)
		if err != nil {
			return nil, err
		}
		total = updated.Points
		user = updated
	} else {
		if err := s.users.TouchLastActive(userID); err != nil {
			log.Printf("[quiz][submit] last_active touch failed: user=%d err=%v", userID, err)
		}
	}

	// запись в журнал идёт и за неверный ответ, со score=0
	entry := &models.QuizHistoryEntry{
		UserID:     userID,
		QuestionID: question.ID,
		CategoryID: question.CategoryID,
		Score:      earned,
	}
	if err := s.history.AppendQuiz(entry); err != nil {
		return nil, err
	}

	if earned > 0 {
		s.notify(user, earned, total, "quiz answer")
	}

	return &AnswerResult{
		Correct:            correct,
		CorrectOptionIndex: question.CorrectOptionIndex,
		PointsEarned:       earned,
		TotalPoints:        total,
	}, nil
}

// tierBonus — пороги включительно: 90%→100, 70%→50, 50%→25.
func tierBonus(percentage float64) int {
	switch {
	case percentage >= 90:
		return 100
	case percentage >= 70:
		return 50
	case percentage >= 50:
		return 25
	default:
		return 0
	}
}

func (s *quizService) CompleteTier(userID, tierID int64, correct, total int) (*TierResult, error) {
	if total <= 0 || correct < 0 || correct > total {
		return nil, fmt.Errorf("%w: correct/total out of range", ErrValidation)
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	tier, err := s.tiers.GetByID(tierID)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, ErrTierNotFound
	}

	percentage := float64(correct) / float64(total) * 100
	bonus := tierBonus(percentage)

	totalPoints := user.Points
	if bonus > 0 {
		updated, err := s.users.AddPoints(userID, bonus)
		if err != nil {
			return nil, err
		}
		totalPoints = updated.Points
		s.notify(updated, bonus, totalPoints, fmt.Sprintf("tier %q completed", tier.Name))
	}

	log.Printf("[quiz][complete-tier] user=%d tier=%d pct=%.1f bonus=%d", userID, tierID, percentage, bonus)
	return &TierResult{Percentage: percentage, BonusPoints: bonus, TotalPoints: totalPoints}, nil
}

// localDayBounds — границы локального календарного дня, [from, to).
func localDayBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return from, from.Add(24 * time.Hour)
}

// AddPoints — произвольное начисление; с dailyTaskID задача засчитывается не
// чаще раза в локальный календарный день, повтор — Conflict без начисления.
func (s *quizService) AddPoints(userID int64, points int, dailyTaskID *string, reason string) (*models.User, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: points must be positive", ErrValidation)
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := time.Now()
	if dailyTaskID != nil && *dailyTaskID != "" {
		from, to := localDayBounds(now)
		done, err := s.history.HasDailyBetween(userID, *dailyTaskID, from, to)
		if err != nil {
			return nil, err
		}
		if done {
			return nil, ErrDailyTaskDone
		}
	}

	updated, err := s.users.AddPoints(userID, points)
	if err != nil {
		return nil, err
	}

	if dailyTaskID != nil && *dailyTaskID != "" {
		if err := s.history.AppendDaily(userID, *dailyTaskID, now); err != nil {
			return nil, err
		}
	}

	if reason == "" {
		reason = "points awarded"
	}
	s.notify(updated, points, updated.Points, reason)
	return updated, nil
}

func (s *quizService) GetUserProgress(userID int64) (*UserProgress, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	quizzes, err := s.history.ListQuiz(userID)
	if err != nil {
		return nil, err
	}
	totalScore := 0
	for _, e := range quizzes {
		totalScore += e.Score
	}
	average := 0.0
	if len(quizzes) > 0 {
		average = math.Round(float64(totalScore)/float64(len(quizzes))*100) / 100
	}

	from, to := localDayBounds(time.Now())
	today, err := s.history.CountDailyBetween(userID, from, to)
	if err != nil {
		return nil, err
	}

	return &UserProgress{
		User:            user,
		TotalQuizzes:    len(quizzes),
		TotalScore:      totalScore,
		AverageScore:    average,
		TodayActivities: today,
	}, nil
}

func (s *quizService) ListCategories() ([]*models.Category, error) {
	return s.categories.List()
}

func (s *quizService) ListTiers() ([]*models.Tier, error) {
	return s.tiers.List()
}

func (s *quizService) notify(user *models.User, points, total int, reason string) {
	if s.notifier == nil || user.TelegramID == nil {
		return
	}
	s.notifier.NotifyPoints(*user.TelegramID, points, total, reason)
}
