package orders

import (
	"context"
	"sync"
	"testing"

	"souq/errs"
	"souq/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCatalog is an in-memory catalog for exercising buildLines.
type mapCatalog map[string]*models.Product

func (c mapCatalog) ByID(_ context.Context, id string) (*models.Product, error) {
	if p, ok := c[id]; ok {
		return p, nil
	}
	return nil, errs.NotFound("Product not found")
}

func TestUnitPrice(t *testing.T) {
	assert.Equal(t, 10000, UnitPrice(10000, 0))
	assert.Equal(t, 9000, UnitPrice(10000, 10))
	assert.Equal(t, 5000, UnitPrice(10000, 50))
	assert.Equal(t, 0, UnitPrice(10000, 100))

	// half-up rounding: 999 * 0.85 = 849.15 -> 849, 999 * 0.15 = 149.85 -> 150
	assert.Equal(t, 849, UnitPrice(999, 15))
	assert.Equal(t, 150, UnitPrice(999, 85))
}

func TestBuildLinesTotalsMatchItems(t *testing.T) {
	cat := mapCatalog{
		"p1": {ProductID: "p1", Name: "Whey", Price: 10000, Discount: 10, Stock: 10},
		"p2": {ProductID: "p2", Name: "Bench", Price: 2500, Discount: 0, Stock: 3},
	}

	lines, total, err := buildLines(context.Background(), cat, map[string]int{"p1": 2, "p2": 3})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	sum := 0
	for _, line := range lines {
		sum += line.PriceAtPurchase * line.Quantity
		switch line.ProductID {
		case "p1":
			assert.Equal(t, 9000, line.PriceAtPurchase)
			assert.Equal(t, 2, line.Quantity)
		case "p2":
			assert.Equal(t, 2500, line.PriceAtPurchase)
			assert.Equal(t, 3, line.Quantity)
		default:
			t.Fatalf("unexpected product %s", line.ProductID)
		}
	}
	assert.Equal(t, sum, total)
	assert.Equal(t, 9000*2+2500*3, total)
}

func TestBuildLinesEmptyCart(t *testing.T) {
	_, _, err := buildLines(context.Background(), mapCatalog{}, map[string]int{})
	assert.ErrorIs(t, err, errs.ErrEmptyCart)
}

func TestBuildLinesUnknownProduct(t *testing.T) {
	_, _, err := buildLines(context.Background(), mapCatalog{}, map[string]int{"ghost": 1})
	require.Error(t, err)

	var domainErr *errs.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 400, domainErr.Status)
	assert.Contains(t, domainErr.Message, "ghost")
}

func TestBuildLinesInsufficientStock(t *testing.T) {
	cat := mapCatalog{
		"p1": {ProductID: "p1", Name: "Whey", Price: 10000, Stock: 1},
	}

	_, _, err := buildLines(context.Background(), cat, map[string]int{"p1": 2})
	require.Error(t, err)

	var domainErr *errs.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 400, domainErr.Status)
	assert.Contains(t, domainErr.Message, "Whey")
}

func TestBuildLinesExactStockSucceeds(t *testing.T) {
	cat := mapCatalog{
		"p1": {ProductID: "p1", Name: "Whey", Price: 10000, Stock: 2},
	}

	lines, total, err := buildLines(context.Background(), cat, map[string]int{"p1": 2})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 20000, total)
}

func TestBuildLinesRejectsNonPositiveQuantity(t *testing.T) {
	cat := mapCatalog{
		"p1": {ProductID: "p1", Name: "Whey", Price: 10000, Stock: 5},
	}

	_, _, err := buildLines(context.Background(), cat, map[string]int{"p1": 0})
	require.Error(t, err)
}

// fakeCart records how often it is drained.
type fakeCart struct {
	mu     sync.Mutex
	items  map[string]int
	clears int
}

func (f *fakeCart) Items(context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int, len(f.items))
	for id, qty := range f.items {
		out[id] = qty
	}
	return out, nil
}

func (f *fakeCart) Add(_ context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[productID] += quantity
	return nil
}

func (f *fakeCart) Remove(_ context.Context, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, productID)
	return nil
}

func (f *fakeCart) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.items = map[string]int{}
	return nil
}

func testCustomer() CustomerInfo {
	return CustomerInfo{Name: "A", Email: "a@b.c", Phone: "0600", ShippingAddress: "Rue 1"}
}

func TestPlaceOrderClearsCartOnceAfterCommit(t *testing.T) {
	cat := mapCatalog{
		"p1": {ProductID: "p1", Name: "Whey", Price: 1000, Stock: 5},
	}
	fc := &fakeCart{items: map[string]int{"p1": 2}}

	commits := 0
	persist := func(context.Context, *models.Order, []models.OrderItem) error {
		commits++
		return nil
	}

	order, err := placeOrder(context.Background(), testCustomer(), "u1", fc, cat, persist)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 2000, order.TotalAmount)
	assert.Equal(t, 1, commits)
	assert.Equal(t, 1, fc.clears)

	items, err := fc.Items(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPlaceOrderKeepsCartWhenCommitFails(t *testing.T) {
	cat := mapCatalog{
		"p1": {ProductID: "p1", Name: "Whey", Price: 1000, Stock: 5},
	}
	fc := &fakeCart{items: map[string]int{"p1": 2}}

	persist := func(context.Context, *models.Order, []models.OrderItem) error {
		return errors.New("transaction aborted")
	}

	_, err := placeOrder(context.Background(), testCustomer(), "u1", fc, cat, persist)
	require.Error(t, err)
	assert.Equal(t, 0, fc.clears)

	items, err := fc.Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 2}, items)
}

func TestPlaceOrderLastUnitConcurrent(t *testing.T) {
	// The catalog snapshot says one unit is left; both checkouts pass the
	// read-side check, so the commit-side guard has to break the tie.
	cat := mapCatalog{
		"p1": {ProductID: "p1", Name: "Whey", Price: 1000, Stock: 1},
	}

	var mu sync.Mutex
	stock := map[string]int{"p1": 1}
	persist := func(_ context.Context, _ *models.Order, lines []models.OrderItem) error {
		mu.Lock()
		defer mu.Unlock()
		for _, line := range lines {
			if stock[line.ProductID] < line.Quantity {
				return errs.InsufficientStock("Whey")
			}
		}
		for _, line := range lines {
			stock[line.ProductID] -= line.Quantity
		}
		return nil
	}

	carts := [2]*fakeCart{
		{items: map[string]int{"p1": 1}},
		{items: map[string]int{"p1": 1}},
	}
	var results [2]error

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = placeOrder(context.Background(), testCustomer(), "", carts[i], cat, persist)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range results {
		if err == nil {
			winners++
			assert.Equal(t, 1, carts[i].clears)
			continue
		}
		var domainErr *errs.Error
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, 400, domainErr.Status)
		assert.Equal(t, 0, carts[i].clears)
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 0, stock["p1"])
}

func TestValidateTransition(t *testing.T) {
	legal := [][2]string{
		{models.OrderPending, models.OrderShipped},
		{models.OrderPending, models.OrderCancelled},
		{models.OrderShipped, models.OrderDelivered},
		{models.OrderShipped, models.OrderCancelled},
	}
	for _, tr := range legal {
		assert.NoError(t, ValidateTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	illegal := [][2]string{
		{models.OrderPending, models.OrderDelivered},
		{models.OrderShipped, models.OrderPending},
		{models.OrderDelivered, models.OrderCancelled},
		{models.OrderDelivered, models.OrderShipped},
		{models.OrderCancelled, models.OrderPending},
		{models.OrderPending, "archived"},
		{models.OrderPending, models.OrderPending},
	}
	for _, tr := range illegal {
		assert.ErrorIs(t, ValidateTransition(tr[0], tr[1]), errs.ErrInvalidStatus, "%s -> %s", tr[0], tr[1])
	}
}

func TestCustomerInfoValidate(t *testing.T) {
	full := CustomerInfo{Name: "A", Email: "a@b.c", Phone: "0600", ShippingAddress: "Rue 1"}
	assert.NoError(t, full.validate())

	missing := []CustomerInfo{
		{Email: "a@b.c", Phone: "0600", ShippingAddress: "Rue 1"},
		{Name: "A", Phone: "0600", ShippingAddress: "Rue 1"},
		{Name: "A", Email: "a@b.c", ShippingAddress: "Rue 1"},
		{Name: "A", Email: "a@b.c", Phone: "0600"},
	}
	for _, c := range missing {
		assert.Error(t, c.validate())
	}
}
