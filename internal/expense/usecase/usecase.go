package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/accountbook-service/internal/expense"
	"github.com/fekuna/accountbook-service/internal/expense/dto"
	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCategory = "Shipping"

type expenseUseCase struct {
	repo     expense.Repository
	calendar finance.FYCalendar
	cache    cache.Store
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewExpenseUseCase(repo expense.Repository, calendar finance.FYCalendar, store cache.Store, log logger.ZapLogger) expense.UseCase {
	return &expenseUseCase{
		repo:     repo,
		calendar: calendar,
		cache:    store,
		logger:   log,
		now:      time.Now,
	}
}

func validate(input *dto.ExpenseInput) error {
	switch {
	case input.Date.IsZero():
		return apperr.Validation("date is required")
	case strings.TrimSpace(input.Description) == "":
		return apperr.Validation("description is required")
	case input.Amount < 0:
		return apperr.Validation("amount cannot be negative")
	}
	return nil
}

func fill(e *model.Expense, input *dto.ExpenseInput) {
	e.OwnerID = input.OwnerID
	e.Date = input.Date
	e.Category = strings.TrimSpace(input.Category)
	if e.Category == "" {
		e.Category = defaultCategory
	}
	e.Description = strings.TrimSpace(input.Description)
	e.Amount = finance.Round2(input.Amount)
	e.PaymentMethod = input.PaymentMethod
	e.Notes = input.Notes
}

func (uc *expenseUseCase) CreateExpense(ctx context.Context, input *dto.ExpenseInput) (*model.Expense, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	now := uc.now()
	e := &model.Expense{BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}}
	fill(e, input)

	if err := uc.repo.Create(ctx, e); err != nil {
		uc.logger.Error("failed to create expense", zap.String("owner_id", input.OwnerID), zap.Error(err))
		return nil, err
	}

	uc.invalidate(ctx, input.OwnerID)
	return e, nil
}

func (uc *expenseUseCase) GetExpense(ctx context.Context, ownerID, id string) (*model.Expense, error) {
	e, err := uc.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, apperr.NotFound("expense")
	}
	return e, nil
}

func (uc *expenseUseCase) ListExpenses(ctx context.Context, filters *dto.ExpenseFilters) ([]model.Expense, int, *dto.ExpenseSummary, error) {
	r, err := uc.calendar.Resolve(filters.Period, uc.now())
	if err != nil {
		return nil, 0, nil, err
	}
	filters.StartDate, filters.EndDate = r.From, r.To

	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to list expenses", zap.String("owner_id", filters.OwnerID), zap.Error(err))
		return nil, 0, nil, err
	}
	summary, err := uc.repo.Summarize(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to summarize expenses", zap.String("owner_id", filters.OwnerID), zap.Error(err))
		return nil, 0, nil, err
	}
	return items, count, summary, nil
}

func (uc *expenseUseCase) UpdateExpense(ctx context.Context, id string, input *dto.ExpenseInput) (*model.Expense, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	e, err := uc.GetExpense(ctx, input.OwnerID, id)
	if err != nil {
		return nil, err
	}
	fill(e, input)
	e.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, e); err != nil {
		uc.logger.Error("failed to update expense", zap.String("expense_id", id), zap.Error(err))
		return nil, err
	}

	uc.invalidate(ctx, input.OwnerID)
	return e, nil
}

func (uc *expenseUseCase) DeleteExpense(ctx context.Context, ownerID, id string) error {
	if _, err := uc.GetExpense(ctx, ownerID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, ownerID, id); err != nil {
		uc.logger.Error("failed to delete expense", zap.String("expense_id", id), zap.Error(err))
		return err
	}

	uc.invalidate(ctx, ownerID)
	return nil
}

func (uc *expenseUseCase) invalidate(ctx context.Context, ownerID string) {
	if err := uc.cache.DeletePattern(ctx, cache.ReportPattern(ownerID)); err != nil {
		uc.logger.Warn("failed to invalidate report cache", zap.String("owner_id", ownerID), zap.Error(err))
	}
}
