package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizarena/internal/models"
)

func seedScoredUsers(t *testing.T, users *fakeUserRepo, points ...int) []*models.User {
	t.Helper()
	out := make([]*models.User, 0, len(points))
	for i, p := range points {
		u := &models.User{Email: string(rune('a'+i)) + "@example.com"}
		require.NoError(t, users.Create(u))
		if p > 0 {
			updated, err := users.AddPoints(u.ID, p)
			require.NoError(t, err)
			u = updated
		}
		out = append(out, u)
	}
	return out
}

func TestLeaderboardPositionalRanks(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewScoreService(users, newFakeHistoryRepo())

	// двое с 50 очками: позиционные ранги различаются
	seedScoredUsers(t, users, 100, 50, 50, 10)

	entries, err := svc.GetLeaderboard(0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank, entries[3].Rank})
	assert.Equal(t, 100, entries[0].Points)
	assert.Equal(t, 50, entries[1].Points)
	assert.Equal(t, 50, entries[2].Points)

	limited, err := svc.GetLeaderboard(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestUserRankCompetitionSemantics(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewScoreService(users, newFakeHistoryRepo())

	seeded := seedScoredUsers(t, users, 100, 50, 50, 10)

	// оба пользователя с 50 очками делят второе место
	for _, u := range seeded[1:3] {
		rank, err := svc.GetUserRank(u.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, rank.Rank)
		assert.Equal(t, 50, rank.Points)
	}

	rank, err := svc.GetUserRank(seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rank.Rank)

	// следом за парой на втором месте идёт четвёртое, не третье
	rank, err = svc.GetUserRank(seeded[3].ID)
	require.NoError(t, err)
	assert.Equal(t, 4, rank.Rank)

	_, err = svc.GetUserRank(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestScoreHistoryMergedNewestFirst(t *testing.T) {
	users := newFakeUserRepo()
	history := newFakeHistoryRepo()
	svc := NewScoreService(users, history)

	u := &models.User{Email: "h@example.com"}
	require.NoError(t, users.Create(u))

	require.NoError(t, history.AppendQuiz(&models.QuizHistoryEntry{UserID: u.ID, QuestionID: 1, CategoryID: 1, Score: 10}))
	require.NoError(t, history.AppendDaily(u.ID, "daily-login", time.Now().Add(time.Second)))

	items, err := svc.GetScoreHistory(u.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "daily", items[0].Type)
	assert.Equal(t, "quiz", items[1].Type)
	assert.Equal(t, 10, items[1].Score)
}

func TestScoreStats(t *testing.T) {
	users := newFakeUserRepo()
	history := newFakeHistoryRepo()
	svc := NewScoreService(users, history)

	u := &models.User{Email: "s@example.com"}
	require.NoError(t, users.Create(u))
	_, err := users.AddPoints(u.ID, 35)
	require.NoError(t, err)

	require.NoError(t, history.AppendQuiz(&models.QuizHistoryEntry{UserID: u.ID, QuestionID: 1, CategoryID: 1, Score: 10}))
	require.NoError(t, history.AppendQuiz(&models.QuizHistoryEntry{UserID: u.ID, QuestionID: 2, CategoryID: 1, Score: 0}))
	require.NoError(t, history.AppendQuiz(&models.QuizHistoryEntry{UserID: u.ID, QuestionID: 3, CategoryID: 1, Score: 10}))
	require.NoError(t, history.AppendDaily(u.ID, "daily-login", time.Now()))

	stats, err := svc.GetScoreStats(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalQuizzes)
	assert.Equal(t, 20, stats.TotalScore)
	assert.Equal(t, 6.67, stats.AverageScore)
	assert.Equal(t, 10, stats.HighestScore)
	assert.Equal(t, 1, stats.TodayActivities)
	assert.Equal(t, 35, stats.TotalPoints)
}
