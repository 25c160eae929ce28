package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCartAddMergesSameLine(t *testing.T) {
	f := newServiceFixture(t)
	user := f.createUser(t, "cart@example.com")
	product := f.createProduct(t, "cart-cup", 30000, 10)
	ctx := context.Background()

	if _, err := f.cartService.AddItem(ctx, AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	view, err := f.cartService.AddItem(ctx, AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("add again failed: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 5 || view.Count != 5 {
		t.Fatalf("expected merged line of 5, got %+v", view)
	}
	if !view.Subtotal.Decimal.Equal(decimal.NewFromInt(150000)) {
		t.Fatalf("unexpected subtotal %s", view.Subtotal)
	}

	_, err = f.cartService.AddItem(ctx, AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 6})
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) || stockErr.Requested != 11 {
		t.Fatalf("expected insufficient stock for merged quantity, got %v", err)
	}
}

func TestCartUpdateAndRemove(t *testing.T) {
	f := newServiceFixture(t)
	user := f.createUser(t, "cart-update@example.com")
	other := f.createUser(t, "cart-other@example.com")
	product := f.createProduct(t, "cart-plate", 20000, 10)
	ctx := context.Background()

	view, err := f.cartService.AddItem(ctx, AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	itemID := view.Items[0].ID

	if _, err := f.cartService.UpdateItemQuantity(ctx, other.ID, itemID, 2); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected not found for foreign item, got %v", err)
	}
	view, err = f.cartService.UpdateItemQuantity(ctx, user.ID, itemID, 4)
	if err != nil || view.Count != 4 {
		t.Fatalf("unexpected update result %+v err=%v", view, err)
	}
	view, err = f.cartService.UpdateItemQuantity(ctx, user.ID, itemID, 0)
	if err != nil || len(view.Items) != 0 {
		t.Fatalf("expected removal on zero quantity, got %+v err=%v", view, err)
	}
	if _, err := f.cartService.RemoveItem(ctx, user.ID, itemID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected not found on second removal, got %v", err)
	}
}

func TestCartRejectsInvalidQuantity(t *testing.T) {
	f := newServiceFixture(t)
	user := f.createUser(t, "cart-invalid@example.com")
	product := f.createProduct(t, "cart-fork", 5000, 10)

	if _, err := f.cartService.AddItem(context.Background(), AddCartItemInput{UserID: user.ID, ProductID: product.ID}); !errors.Is(err, ErrCartQuantityInvalid) {
		t.Fatalf("expected quantity invalid, got %v", err)
	}
	if _, err := f.cartService.AddItem(context.Background(), AddCartItemInput{UserID: user.ID, ProductID: 999, Quantity: 1}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
}
