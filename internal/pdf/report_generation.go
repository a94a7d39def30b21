package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateLeaderboardReport(data ReportData) ([]byte, error)
}

// ReportGenerator — реализация
type ReportGenerator struct {
	Title string // заголовок отчёта, например "QuizArena"
}

type ReportRow struct {
	Rank     int
	Username string
	Email    string
	Points   int
	Tier     string
	IsActive bool
}

type ReportData struct {
	GeneratedAt time.Time
	TotalUsers  int
	ActiveUsers int
	NewLast24h  int
	Rows        []ReportRow
}

func NewReportGenerator(title string) *ReportGenerator {
	if title == "" {
		title = "QuizArena"
	}
	return &ReportGenerator{Title: title}
}

func (g *ReportGenerator) GenerateLeaderboardReport(data ReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s — Leaderboard Report", g.Title), false)
	pdf.SetAuthor(g.Title, false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "LEADERBOARD REPORT", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	sub := fmt.Sprintf("Generated at %s", data.GeneratedAt.Format("02.01.2006 15:04"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Сводка
	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Total users", fmt.Sprintf("%d", data.TotalUsers))
	g.kvLine(pdf, "Active now", fmt.Sprintf("%d", data.ActiveUsers))
	g.kvLine(pdf, "New in last 24h", fmt.Sprintf("%d", data.NewLast24h))
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Таблица лидеров
	g.sectionTitle(pdf, "Top users")

	widths := []float64{12, 48, 58, 20, 22, 14}
	headers := []string{"#", "Username", "Email", "Points", "Tier", "Act."}

	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range data.Rows {
		active := ""
		if row.IsActive {
			active = "yes"
		}
		cells := []string{
			fmt.Sprintf("%d", row.Rank),
			truncate(row.Username, 26),
			truncate(row.Email, 32),
			fmt.Sprintf("%d", row.Points),
			row.Tier,
			active,
		}
		for i, c := range cells {
			align := "L"
			if i == 0 || i == 3 || i == 5 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// ===== Нумерация страниц
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render leaderboard report: %w", err)
	}
	return buf.Bytes(), nil
}

// ===== helpers =====

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
