package services

import (
	"time"

	"quizarena/internal/models"
	"quizarena/internal/pdf"
	"quizarena/internal/presence"
	"quizarena/internal/repositories"
)

type DashboardStats struct {
	TotalUsers  int `json:"total_users"`
	NewLast24h  int `json:"new_last_24h"`
	ActiveUsers int `json:"active_users"`
}

type DashboardUser struct {
	Rank     int          `json:"rank"`
	User     *models.User `json:"user"`
	IsActive bool         `json:"is_active"`
}

type DashboardService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetActiveUsers() []presence.Info
	GetAllUsers() ([]DashboardUser, error)
	GenerateReport() ([]byte, error)
}

type dashboardService struct {
	users     repositories.UserRepository
	tracker   *presence.Tracker
	generator pdf.Generator
}

func NewDashboardService(users repositories.UserRepository, tracker *presence.Tracker, generator pdf.Generator) DashboardService {
	return &dashboardService{users: users, tracker: tracker, generator: generator}
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	total, err := s.users.Count()
	if err != nil {
		return nil, err
	}

	recent, err := s.users.ListRecent()
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-24 * time.Hour)
	newUsers := 0
	for _, u := range recent {
		if u.CreatedAt.Before(cutoff) {
			break // список отсортирован по created_at DESC
		}
		newUsers++
	}

	return &DashboardStats{
		TotalUsers:  total,
		NewLast24h:  newUsers,
		ActiveUsers: s.tracker.Count(),
	}, nil
}

func (s *dashboardService) GetActiveUsers() []presence.Info {
	return s.tracker.Active()
}

// GetAllUsers — все пользователи по убыванию очков, с позиционным рангом и
// живым флагом активности из трекера.
func (s *dashboardService) GetAllUsers() ([]DashboardUser, error) {
	users, err := s.users.ListByPoints(0)
	if err != nil {
		return nil, err
	}

	out := make([]DashboardUser, 0, len(users))
	for i, u := range users {
		out = append(out, DashboardUser{
			Rank:     i + 1,
			User:     u,
			IsActive: s.tracker.IsActive(u.ID),
		})
	}
	return out, nil
}

func (s *dashboardService) GenerateReport() ([]byte, error) {
	stats, err := s.GetDashboardStats()
	if err != nil {
		return nil, err
	}
	users, err := s.GetAllUsers()
	if err != nil {
		return nil, err
	}

	rows := make([]pdf.ReportRow, 0, len(users))
	for _, du := range users {
		row := pdf.ReportRow{
			Rank:     du.Rank,
			Email:    du.User.Email,
			Points:   du.User.Points,
			Tier:     du.User.Tier,
			IsActive: du.IsActive,
		}
		if du.User.Username != nil {
			row.Username = *du.User.Username
		}
		rows = append(rows, row)
	}

	return s.generator.GenerateLeaderboardReport(pdf.ReportData{
		GeneratedAt: time.Now(),
		TotalUsers:  stats.TotalUsers,
		ActiveUsers: stats.ActiveUsers,
		NewLast24h:  stats.NewLast24h,
		Rows:        rows,
	})
}
