package services

import (
	"math"
	"sort"
	"time"

	"bustracker/internal/repository"
)

// Overview summarizes a user's spending against a monthly budget.
// Field names match what the mobile client renders.
type Overview struct {
	TotalSpent  float64 `json:"totalSpent"`
	TodaySpent  float64 `json:"todaySpent"`
	DailyAvg    float64 `json:"dailyAvg"`
	TopCategory string  `json:"topCategory"`
	BudgetLeft  float64 `json:"budgetLeft"`
}

// WeeklySpending is the last-7-days chart feed: one label and one total
// per day, oldest first, missing days zero-filled.
type WeeklySpending struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type ExpenseService struct {
	expenses repository.ExpenseRepository
	now      func() time.Time
}

func NewExpenseService(expenses repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenses: expenses, now: time.Now}
}

func (s *ExpenseService) Overview(userID uint, budget float64) (*Overview, error) {
	expenses, err := s.expenses.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	today := s.now().Format("2006-01-02")

	var totalSpent, todaySpent float64
	dailyTotals := map[string]float64{}
	categoryTotals := map[string]float64{}

	for _, e := range expenses {
		totalSpent += e.Amount
		dailyTotals[e.Date] += e.Amount
		categoryTotals[e.Category] += e.Amount
		if e.Date == today {
			todaySpent += e.Amount
		}
	}

	var dailyAvg float64
	if len(dailyTotals) > 0 {
		dailyAvg = round2(totalSpent / float64(len(dailyTotals)))
	}

	return &Overview{
		TotalSpent:  totalSpent,
		TodaySpent:  todaySpent,
		DailyAvg:    dailyAvg,
		TopCategory: topCategory(categoryTotals),
		BudgetLeft:  budget - totalSpent,
	}, nil
}

func (s *ExpenseService) Weekly(userID uint) (*WeeklySpending, error) {
	now := s.now()

	// Oldest day first, today last.
	dates := make([]string, 0, 7)
	for i := 6; i >= 0; i-- {
		dates = append(dates, now.AddDate(0, 0, -i).Format("2006-01-02"))
	}

	expenses, err := s.expenses.ListByUserAndDates(userID, dates)
	if err != nil {
		return nil, err
	}

	totals := map[string]float64{}
	for _, e := range expenses {
		totals[e.Date] += e.Amount
	}

	out := &WeeklySpending{
		Labels: make([]string, 0, 7),
		Data:   make([]float64, 0, 7),
	}
	for _, d := range dates {
		t, _ := time.Parse("2006-01-02", d)
		out.Labels = append(out.Labels, t.Format("Mon"))
		out.Data = append(out.Data, totals[d])
	}
	return out, nil
}

// topCategory picks the category with the highest total; ties break by
// name so the result is deterministic.
func topCategory(totals map[string]float64) string {
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestTotal := math.Inf(-1)
	for _, name := range names {
		if totals[name] > bestTotal {
			best = name
			bestTotal = totals[name]
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
