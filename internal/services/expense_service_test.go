package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"bustracker/internal/models"
)

type fakeExpenseRepo struct {
	expenses []models.Expense
}

func (r *fakeExpenseRepo) ListByUserPage(userID uint, page, perPage int) ([]models.Expense, int64, error) {
	all, _ := r.ListByUser(userID)
	return all, int64(len(all)), nil
}

func (r *fakeExpenseRepo) ListByUser(userID uint) ([]models.Expense, error) {
	var out []models.Expense
	for _, e := range r.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExpenseRepo) ListByUserAndDates(userID uint, dates []string) ([]models.Expense, error) {
	allowed := map[string]bool{}
	for _, d := range dates {
		allowed[d] = true
	}
	var out []models.Expense
	for _, e := range r.expenses {
		if e.UserID == userID && allowed[e.Date] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExpenseRepo) FindByID(id uint) (*models.Expense, error) { return nil, nil }
func (r *fakeExpenseRepo) Create(e *models.Expense) error            { return nil }
func (r *fakeExpenseRepo) Save(e *models.Expense) error              { return nil }
func (r *fakeExpenseRepo) Delete(id uint) error                      { return nil }

func expense(userID uint, date, category string, amount float64) models.Expense {
	return models.Expense{
		Model:    gorm.Model{},
		UserID:   userID,
		Date:     date,
		Category: category,
		Amount:   amount,
	}
}

func TestOverview(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	repo := &fakeExpenseRepo{expenses: []models.Expense{
		expense(1, "2026-03-14", "Food", 250),
		expense(1, "2026-03-14", "Transport", 80),
		expense(1, "2026-03-13", "Food", 120),
		expense(1, "2026-03-10", "Bills", 1500),
		expense(2, "2026-03-14", "Food", 9999), // another user, ignored
	}}

	svc := &ExpenseService{expenses: repo, now: func() time.Time { return now }}

	got, err := svc.Overview(1, 5000)
	if err != nil {
		t.Fatal(err)
	}

	if got.TotalSpent != 1950 {
		t.Errorf("totalSpent = %v, want 1950", got.TotalSpent)
	}
	if got.TodaySpent != 330 {
		t.Errorf("todaySpent = %v, want 330", got.TodaySpent)
	}
	// 3 distinct days: 330 + 120 + 1500 over 3 days = 650
	if got.DailyAvg != 650 {
		t.Errorf("dailyAvg = %v, want 650", got.DailyAvg)
	}
	if got.TopCategory != "Bills" {
		t.Errorf("topCategory = %q, want Bills", got.TopCategory)
	}
	if got.BudgetLeft != 3050 {
		t.Errorf("budgetLeft = %v, want 3050", got.BudgetLeft)
	}
}

func TestOverviewEmpty(t *testing.T) {
	svc := &ExpenseService{expenses: &fakeExpenseRepo{}, now: time.Now}

	got, err := svc.Overview(1, 50000)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalSpent != 0 || got.TodaySpent != 0 || got.DailyAvg != 0 {
		t.Errorf("expected zeroed overview, got %+v", got)
	}
	if got.TopCategory != "" {
		t.Errorf("topCategory = %q, want empty", got.TopCategory)
	}
	if got.BudgetLeft != 50000 {
		t.Errorf("budgetLeft = %v, want full budget", got.BudgetLeft)
	}
}

func TestWeekly(t *testing.T) {
	// A Saturday; the window covers Sun..Sat.
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

	repo := &fakeExpenseRepo{expenses: []models.Expense{
		expense(1, "2026-03-14", "Food", 100),
		expense(1, "2026-03-14", "Transport", 50),
		expense(1, "2026-03-12", "Food", 75),
		expense(1, "2026-03-01", "Food", 999), // outside the window
	}}

	svc := &ExpenseService{expenses: repo, now: func() time.Time { return now }}

	got, err := svc.Weekly(1)
	if err != nil {
		t.Fatal(err)
	}

	if len(got.Labels) != 7 || len(got.Data) != 7 {
		t.Fatalf("labels/data lengths = %d/%d, want 7/7", len(got.Labels), len(got.Data))
	}

	wantLabels := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for i, w := range wantLabels {
		if got.Labels[i] != w {
			t.Errorf("labels[%d] = %q, want %q", i, got.Labels[i], w)
		}
	}

	wantData := []float64{0, 0, 0, 0, 75, 0, 150}
	for i, w := range wantData {
		if got.Data[i] != w {
			t.Errorf("data[%d] = %v, want %v", i, got.Data[i], w)
		}
	}
}

func TestTopCategoryTieBreaksByName(t *testing.T) {
	got := topCategory(map[string]float64{"Transport": 100, "Food": 100})
	if got != "Food" {
		t.Errorf("topCategory = %q, want Food", got)
	}
}
