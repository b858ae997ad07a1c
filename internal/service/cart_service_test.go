package service

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vitrine-api/internal/constants"
	"github.com/vitrine-api/internal/models"
)

func TestCartDeltaLifecycle(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)
	p1 := seedProduct(t, db, "keyboard", 1000, nil)
	seedProduct(t, db, "monitor", 2000, nil)

	added, err := svc.AddToCart("default", addInput(int(p1.ID), 2))
	if err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
	if added.Quantity != 2 || added.ProductID != p1.ID || added.Removed {
		t.Fatalf("unexpected add result: %+v", added)
	}

	decremented, err := svc.AddToCart("default", addInput(int(p1.ID), -1))
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if decremented.Quantity != 1 || decremented.ID != added.ID {
		t.Fatalf("decrement want quantity 1 on same line, got %+v", decremented)
	}

	summary, err := svc.GetCart("default")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(summary.Items) != 1 || summary.TotalInCents != 1000 || summary.ItemCount != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.TotalAmount != "10.00" {
		t.Fatalf("total amount want 10.00 got %s", summary.TotalAmount)
	}

	removed, err := svc.AddToCart("default", addInput(int(p1.ID), -1))
	if err != nil {
		t.Fatalf("final decrement failed: %v", err)
	}
	if !removed.Removed || removed.ID != added.ID || removed.Quantity != 1 {
		t.Fatalf("final decrement should report removed pre-delete line, got %+v", removed)
	}

	summary, err = svc.GetCart("default")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(summary.Items) != 0 || summary.TotalInCents != 0 || summary.ItemCount != 0 {
		t.Fatalf("cart should be empty, got %+v", summary)
	}
	if n := countRows(t, db, &models.CartItem{}); n != 0 {
		t.Fatalf("no cart_items rows should remain, got %d", n)
	}
}

func TestAddToCartOvershootingDecrementDeletesLine(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)
	product := seedProduct(t, db, "cable", 500, nil)

	if _, err := svc.AddToCart("default", addInput(int(product.ID), 3)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	result, err := svc.AddToCart("default", addInput(int(product.ID), -10))
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if !result.Removed {
		t.Fatalf("line should be removed when quantity drops below zero, got %+v", result)
	}
	if n := countRows(t, db, &models.CartItem{}); n != 0 {
		t.Fatalf("line should not be stored with non-positive quantity, rows=%d", n)
	}
}

func TestAddToCartUnknownProductTouchesNothing(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)

	_, err := svc.AddToCart("default", addInput(999, 1))
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
	if n := countRows(t, db, &models.Cart{}); n != 0 {
		t.Fatalf("cart must not be created for unknown product, rows=%d", n)
	}
}

func TestAddToCartRejectsZeroQuantity(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)
	product := seedProduct(t, db, "mouse", 800, nil)

	_, err := svc.AddToCart("default", addInput(int(product.ID), 0))
	if !errors.Is(err, ErrQuantityZero) {
		t.Fatalf("want ErrQuantityZero got %v", err)
	}
}

func TestAddToCartRejectsOversizedDelta(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)
	product := seedProduct(t, db, "ssd", 1000, nil)

	_, err := svc.AddToCart("bulk", addInput(int(product.ID), math.MaxInt64/100))
	var inputErr *InputError
	if !errors.As(err, &inputErr) || inputErr.Reason != ReasonQuantityOutOfRange {
		t.Fatalf("want out of range input error got %v", err)
	}
	if n := countRows(t, db, &models.CartItem{}); n != 0 {
		t.Fatalf("rejected delta should not store a line, rows=%d", n)
	}
}

func TestAddToCartAccumulatedQuantityIsCapped(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)
	product := seedProduct(t, db, "ram", 1000, nil)

	first, err := svc.AddToCart("bulk", addInput(int(product.ID), constants.CartItemMaxQuantity))
	if err != nil {
		t.Fatalf("add up to limit failed: %v", err)
	}
	if first.Quantity != constants.CartItemMaxQuantity {
		t.Fatalf("quantity want %d got %d", constants.CartItemMaxQuantity, first.Quantity)
	}

	if _, err := svc.AddToCart("bulk", addInput(int(product.ID), 1)); !errors.Is(err, ErrQuantityLimitExceeded) {
		t.Fatalf("want ErrQuantityLimitExceeded got %v", err)
	}

	summary, err := svc.GetCart("bulk")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	want := models.Cents(1000 * constants.CartItemMaxQuantity)
	if len(summary.Items) != 1 || summary.Items[0].Quantity != constants.CartItemMaxQuantity || summary.TotalInCents != want {
		t.Fatalf("cart should stay at the limit with total %d, got %+v", want, summary)
	}

	decremented, err := svc.AddToCart("bulk", addInput(int(product.ID), -1))
	if err != nil || decremented.Quantity != constants.CartItemMaxQuantity-1 {
		t.Fatalf("decrement below limit want %d got %+v err=%v", constants.CartItemMaxQuantity-1, decremented, err)
	}
}

func TestAddToCartNegativeForNewItemRollsBack(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)
	product := seedProduct(t, db, "webcam", 1500, nil)

	_, err := svc.AddToCart("fresh", addInput(int(product.ID), -1))
	if !errors.Is(err, ErrNegativeQuantityForNewItem) {
		t.Fatalf("want ErrNegativeQuantityForNewItem got %v", err)
	}
	if n := countRows(t, db, &models.Cart{}); n != 0 {
		t.Fatalf("failed mutation should not leave a cart row, rows=%d", n)
	}
}

func TestAddToCartRejectsInvalidCartKey(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)
	product := seedProduct(t, db, "dock", 1500, nil)

	if _, err := svc.AddToCart("bad key", addInput(int(product.ID), 1)); !errors.Is(err, ErrInvalidCartKey) {
		t.Fatalf("want ErrInvalidCartKey got %v", err)
	}
}

func TestGetCartOnEmptyStoreIsReadOnly(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)

	for i := 0; i < 2; i++ {
		summary, err := svc.GetCart("default")
		if err != nil {
			t.Fatalf("get cart failed: %v", err)
		}
		if summary.Items == nil || len(summary.Items) != 0 || summary.TotalInCents != 0 || summary.ItemCount != 0 {
			t.Fatalf("empty cart summary unexpected: %+v", summary)
		}
	}
	if n := countRows(t, db, &models.Cart{}); n != 0 {
		t.Fatalf("reading a cart must not create one, rows=%d", n)
	}
}

func TestGetCartUsesPromotionalPrice(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)
	laptop := seedProduct(t, db, "laptop", 749900, models.CentsPtr(649900))
	mouse := seedProduct(t, db, "mouse", 29900, nil)

	if _, err := svc.AddToCart("default", addInput(int(laptop.ID), 2)); err != nil {
		t.Fatalf("add laptop failed: %v", err)
	}
	if _, err := svc.AddToCart("default", addInput(int(mouse.ID), 1)); err != nil {
		t.Fatalf("add mouse failed: %v", err)
	}

	summary, err := svc.GetCart("default")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if summary.ItemCount != 2 {
		t.Fatalf("item count want 2 got %d", summary.ItemCount)
	}
	line := summary.Items[0]
	if line.UnitPriceInCents != 649900 || line.SubtotalInCents != 1299800 {
		t.Fatalf("promo line priced wrong: %+v", line)
	}
	if line.Product.PromotionalPriceInCents == nil || *line.Product.PromotionalPriceInCents != 649900 {
		t.Fatalf("product summary should carry promo price: %+v", line.Product)
	}
	if summary.TotalInCents != 1299800+29900 {
		t.Fatalf("total want %d got %d", 1299800+29900, summary.TotalInCents)
	}
	if summary.TotalAmount != "13297.00" {
		t.Fatalf("total amount want 13297.00 got %s", summary.TotalAmount)
	}
}

func TestCartKeysAreIsolated(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)
	product := seedProduct(t, db, "headset", 3000, nil)

	item, err := svc.AddToCart("alice", addInput(int(product.ID), 1))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	summary, err := svc.GetCart("bob")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if summary.ItemCount != 0 {
		t.Fatalf("other cart should be empty, got %+v", summary)
	}
	if _, err := svc.AddToCart("bob", addInput(int(product.ID), 1)); err != nil {
		t.Fatalf("add to second cart failed: %v", err)
	}
	if _, err := svc.RemoveCartItem("bob", item.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("removing another cart's line want ErrCartItemNotFound got %v", err)
	}
	if n := countRows(t, db, &models.Cart{}); n != 2 {
		t.Fatalf("want 2 carts got %d", n)
	}
}

func TestRemoveCartItem(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)
	product := seedProduct(t, db, "speaker", 4500, nil)

	if _, err := svc.RemoveCartItem("default", 42); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("remove on missing cart want ErrCartItemNotFound got %v", err)
	}

	item, err := svc.AddToCart("default", addInput(int(product.ID), 3))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.RemoveCartItem("default", item.ID+100); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("remove unknown line want ErrCartItemNotFound got %v", err)
	}

	removed, err := svc.RemoveCartItem("default", item.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if removed.ID != item.ID || removed.Quantity != 3 || !removed.Removed {
		t.Fatalf("remove should return deleted line, got %+v", removed)
	}
	if _, err := svc.RemoveCartItem("default", item.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("second remove want ErrCartItemNotFound got %v", err)
	}
}

func TestConcurrentAddsConvergeOnOneCart(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := newTestCartService(db)
	product := seedProduct(t, db, "charger", 1200, nil)

	const workers = 8
	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddToCart("shared", addInput(int(product.ID), 1))
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("concurrent add failed: %v", err)
		}
	}

	if n := countRows(t, db, &models.Cart{}); n != 1 {
		t.Fatalf("concurrent adds should share one cart, rows=%d", n)
	}
	summary, err := svc.GetCart("shared")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if summary.ItemCount != 1 || summary.Items[0].Quantity != workers {
		t.Fatalf("want one line with quantity %d, got %+v", workers, summary.Items)
	}
}

func TestConcurrentRemovesOnPooledFileDB(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "cart.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := models.OpenDB("sqlite", dsn, "silent", models.DBPoolConfig{MaxOpenConns: 8, MaxIdleConns: 8})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := newTestCartService(db)

	const lines = 20
	itemIDs := make([]uint, 0, lines)
	for i := 0; i < lines; i++ {
		product := seedProduct(t, db, fmt.Sprintf("item-%d", i), 100, nil)
		item, err := svc.AddToCart("pooled", addInput(int(product.ID), 1))
		if err != nil {
			t.Fatalf("add line %d failed: %v", i, err)
		}
		itemIDs = append(itemIDs, item.ID)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, lines)
	for _, id := range itemIDs {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := svc.RemoveCartItem("pooled", id)
			errCh <- err
		}(id)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("concurrent remove failed: %v", err)
		}
	}
	if n := countRows(t, db, &models.CartItem{}); n != 0 {
		t.Fatalf("all lines should be removed, rows=%d", n)
	}
}
