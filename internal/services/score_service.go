package services

import (
	"math"
	"sort"
	"time"

	"quizarena/internal/repositories"
)

const defaultLeaderboardLimit = 10

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
	Tier     string `json:"tier"`
}

type UserRank struct {
	UserID int64 `json:"user_id"`
	Points int   `json:"points"`
	Rank   int   `json:"rank"`
}

// ScoreHistoryItem — объединённая лента квизов и ежедневных задач.
type ScoreHistoryItem struct {
	Type        string    `json:"type"` // "quiz" | "daily"
	QuestionID  int64     `json:"question_id,omitempty"`
	CategoryID  int64     `json:"category_id,omitempty"`
	ActivityID  string    `json:"activity_id,omitempty"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

type ScoreStats struct {
	TotalQuizzes    int     `json:"total_quizzes"`
	TotalScore      int     `json:"total_score"`
	AverageScore    float64 `json:"average_score"`
	HighestScore    int     `json:"highest_score"`
	TodayActivities int     `json:"today_activities"`
	TotalPoints     int     `json:"total_points"`
}

type ScoreService interface {
	GetLeaderboard(limit int) ([]LeaderboardEntry, error)
	GetUserRank(userID int64) (*UserRank, error)
	GetScoreHistory(userID int64) ([]ScoreHistoryItem, error)
	GetScoreStats(userID int64) (*ScoreStats, error)
}

type scoreService struct {
	users   repositories.UserRepository
	history repositories.HistoryRepository
}

func NewScoreService(users repositories.UserRepository, history repositories.HistoryRepository) ScoreService {
	return &scoreService{users: users, history: history}
}

// GetLeaderboard — позиционные ранги: при равных очках соседям достаются
// разные последовательные места.
func (s *scoreService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	users, err := s.users.ListByPoints(limit)
	if err != nil {
		return nil, err
	}

	out := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entry := LeaderboardEntry{
			Rank:   i + 1,
			UserID: u.ID,
			Points: u.Points,
			Tier:   u.Tier,
		}
		if u.Username != nil {
			entry.Username = *u.Username
		}
		out = append(out, entry)
	}
	return out, nil
}

// GetUserRank — соревновательный ранг: 1 + число пользователей со строго
// большими очками; при равенстве очков ранг общий. Это сознательно другое
// определение, чем позиция в GetLeaderboard.
func (s *scoreService) GetUserRank(userID int64) (*UserRank, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	above, err := s.users.CountWithPointsAbove(user.Points)
	if err != nil {
		return nil, err
	}
	return &UserRank{UserID: user.ID, Points: user.Points, Rank: above + 1}, nil
}

func (s *scoreService) GetScoreHistory(userID int64) ([]ScoreHistoryItem, error) {
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
	dailies, err := s.history.ListDaily(userID)
	if err != nil {
		return nil, err
	}

	items := make([]ScoreHistoryItem, 0, len(quizzes)+len(dailies))
	for _, e := range quizzes {
		items = append(items, ScoreHistoryItem{
			Type:        "quiz",
			QuestionID:  e.QuestionID,
			CategoryID:  e.CategoryID,
			Score:       e.Score,
			CompletedAt: e.CompletedAt,
		})
	}
	for _, a := range dailies {
		items = append(items, ScoreHistoryItem{
			Type:        "daily",
			ActivityID:  a.ActivityID,
			CompletedAt: a.CompletedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CompletedAt.After(items[j].CompletedAt)
	})
	return items, nil
}

func (s *scoreService) GetScoreStats(userID int64) (*ScoreStats, error) {
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

	totalScore, highest := 0, 0
	for _, e := range quizzes {
		totalScore += e.Score
		if e.Score > highest {
			highest = e.Score
		}
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

	return &ScoreStats{
		TotalQuizzes:    len(quizzes),
		TotalScore:      totalScore,
		AverageScore:    average,
		HighestScore:    highest,
		TodayActivities: today,
		TotalPoints:     user.Points,
	}, nil
}
