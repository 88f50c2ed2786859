package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/accountbook-service/internal/category"
	"github.com/fekuna/accountbook-service/internal/category/dto"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) checkName(ctx context.Context, ownerID, name, excludeID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("category_name is required")
	}
	unique, err := uc.repo.IsNameUnique(ctx, ownerID, name, excludeID)
	if err != nil {
		uc.logger.Error("failed to check category name", zap.String("owner_id", ownerID), zap.Error(err))
		return err
	}
	if !unique {
		return apperr.Conflict("expense category %q already exists", name)
	}
	return nil
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.ExpenseCategory, error) {
	if err := uc.checkName(ctx, input.OwnerID, input.CategoryName, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	cat := &model.ExpenseCategory{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:          input.OwnerID,
		CategoryName:     strings.TrimSpace(input.CategoryName),
		IsSellingExpense: input.IsSellingExpense,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		uc.logger.Error("failed to create expense category", zap.String("owner_id", input.OwnerID), zap.Error(err))
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, ownerID, id string) (*model.ExpenseCategory, error) {
	cat, err := uc.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.NotFound("expense category")
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.ExpenseCategory, int, error) {
	categories, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to list expense categories", zap.String("owner_id", filters.OwnerID), zap.Error(err))
		return nil, 0, err
	}
	return categories, count, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.ExpenseCategory, error) {
	cat, err := uc.GetCategory(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkName(ctx, input.OwnerID, input.CategoryName, input.ID); err != nil {
		return nil, err
	}

	cat.CategoryName = strings.TrimSpace(input.CategoryName)
	cat.IsSellingExpense = input.IsSellingExpense
	cat.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		uc.logger.Error("failed to update expense category", zap.String("category_id", input.ID), zap.Error(err))
		return nil, err
	}
	return cat, nil
}

// DeleteCategory removes the category only. Expenses and sales keep the name
// they were recorded with.
func (uc *categoryUseCase) DeleteCategory(ctx context.Context, ownerID, id string) error {
	if _, err := uc.GetCategory(ctx, ownerID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, ownerID, id)
}
