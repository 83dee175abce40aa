package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bustracker/internal/middleware"
	"bustracker/internal/models"
	"bustracker/internal/repository"
	"bustracker/internal/response"
	"bustracker/internal/services"
)

const (
	expensePageSize = 10
	defaultBudget   = 50000
)

type expenseInput struct {
	Title    string   `json:"title" binding:"required,max=255"`
	Category string   `json:"category" binding:"required"`
	Amount   *float64 `json:"amount" binding:"required"`
	Date     string   `json:"date" binding:"required,datetime=2006-01-02"`
}

type ExpenseController struct {
	expenses repository.ExpenseRepository
	service  *services.ExpenseService
}

func NewExpenseController(expenses repository.ExpenseRepository, service *services.ExpenseService) *ExpenseController {
	return &ExpenseController{expenses: expenses, service: service}
}

// List returns one page of the caller's expenses, newest date first.
func (e *ExpenseController) List(c *gin.Context) {
	userID := middleware.UserID(c)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	items, total, err := e.expenses.ListByUserPage(userID, page, expensePageSize)
	if err != nil {
		response.ServerError(c, "Failed to retrieve expenses", err)
		return
	}

	lastPage := int((total + expensePageSize - 1) / expensePageSize)
	if lastPage < 1 {
		lastPage = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"data":         items,
		"current_page": page,
		"per_page":     expensePageSize,
		"total":        total,
		"last_page":    lastPage,
	})
}

func (e *ExpenseController) Create(c *gin.Context) {
	var input expenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	expense := models.Expense{
		UserID:   middleware.UserID(c),
		Title:    input.Title,
		Category: input.Category,
		Amount:   *input.Amount,
		Date:     input.Date,
	}
	if err := e.expenses.Create(&expense); err != nil {
		response.ServerError(c, "Failed to create expense", err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

func (e *ExpenseController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Expense not found")
		return
	}

	expense, err := e.expenses.FindByID(id)
	if err != nil || expense.UserID != middleware.UserID(c) {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			response.ServerError(c, "Failed to update expense", err)
			return
		}
		// Another user's expense looks like a missing one.
		response.NotFound(c, "Expense not found")
		return
	}

	var input expenseInput
	if berr := c.ShouldBindJSON(&input); berr != nil {
		response.ValidationFailed(c, berr)
		return
	}

	expense.Title = input.Title
	expense.Category = input.Category
	expense.Amount = *input.Amount
	expense.Date = input.Date

	if err := e.expenses.Save(expense); err != nil {
		response.ServerError(c, "Failed to update expense", err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

func (e *ExpenseController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c, "Expense not found")
		return
	}

	expense, err := e.expenses.FindByID(id)
	if err != nil || expense.UserID != middleware.UserID(c) {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			response.ServerError(c, "Failed to delete expense", err)
			return
		}
		response.NotFound(c, "Expense not found")
		return
	}

	if err := e.expenses.Delete(expense.ID); err != nil {
		response.ServerError(c, "Failed to delete expense", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

// Overview summarizes the caller's spending against a monthly budget.
func (e *ExpenseController) Overview(c *gin.Context) {
	var input struct {
		Budget *float64 `json:"budget"`
	}
	// Body is optional; a missing/empty body means the default budget.
	_ = c.ShouldBindJSON(&input)

	budget := float64(defaultBudget)
	if input.Budget != nil {
		budget = *input.Budget
	}

	overview, err := e.service.Overview(middleware.UserID(c), budget)
	if err != nil {
		response.ServerError(c, "Failed to compute overview", err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (e *ExpenseController) Weekly(c *gin.Context) {
	weekly, err := e.service.Weekly(middleware.UserID(c))
	if err != nil {
		response.ServerError(c, "Failed to compute weekly spending", err)
		return
	}
	c.JSON(http.StatusOK, weekly)
}
