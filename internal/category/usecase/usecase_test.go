package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/accountbook-service/internal/category/dto"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/store/memory"
)

const owner = "owner-1"

func TestCategoryLifecycle(t *testing.T) {
	uc := NewCategoryUseCase(memory.NewCategoryRepository(memory.NewStore()), logger.NewNop())
	ctx := context.Background()

	shipping, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{OwnerID: owner, CategoryName: " Shipping ", IsSellingExpense: true})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if shipping.CategoryName != "Shipping" {
		t.Fatalf("name = %q, want trimmed", shipping.CategoryName)
	}
	rent, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{OwnerID: owner, CategoryName: "Rent"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	if _, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{OwnerID: owner, CategoryName: "shipping"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate error = %v, want conflict", err)
	}
	if _, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{OwnerID: owner, CategoryName: "  "}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("blank error = %v, want validation", err)
	}
	if _, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{OwnerID: "owner-2", CategoryName: "Shipping"}); err != nil {
		t.Fatalf("other owner may reuse the name: %v", err)
	}

	items, count, err := uc.ListCategories(ctx, &dto.CategoryFilters{OwnerID: owner})
	if err != nil || count != 2 || items[0].CategoryName != "Rent" {
		t.Fatalf("ListCategories = %+v, %d, %v", items, count, err)
	}
	_, count, _ = uc.ListCategories(ctx, &dto.CategoryFilters{OwnerID: owner, SellingOnly: true})
	if count != 1 {
		t.Fatalf("selling categories = %d, want 1", count)
	}

	// Renaming to its own name in another case is allowed.
	if _, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: rent.ID, OwnerID: owner, CategoryName: "RENT"}); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if _, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: rent.ID, OwnerID: owner, CategoryName: "Shipping"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("rename clash error = %v, want conflict", err)
	}

	if err := uc.DeleteCategory(ctx, owner, shipping.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, err := uc.GetCategory(ctx, owner, shipping.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("get after delete error = %v, want not found", err)
	}
}
