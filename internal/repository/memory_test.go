package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partshop/internal/domain"
)

func TestMemoryStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := domain.Product{Name: "Brake pads", Price: 10, Quantity: 5, CreatedBy: domain.CreatedByAdmin,
		Images: []domain.Image{{URL: "https://img/1.png"}}}
	require.NoError(t, store.Create(ctx, &p))
	require.NotEmpty(t, p.ID)
	require.Len(t, p.Images, 1)
	assert.Equal(t, p.ID, p.Images[0].ProductID)

	got, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	p.Price = 12
	require.NoError(t, store.Update(ctx, &p))
	got, err = store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.Price)
	assert.Len(t, got.Images, 1, "update keeps images")

	require.NoError(t, store.DeleteImages(ctx, p.ID))
	require.NoError(t, store.Delete(ctx, p.ID))
	_, err = store.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ReplaceImages(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := domain.Product{Name: "Filter", Images: []domain.Image{{URL: "a"}, {URL: "b"}}}
	require.NoError(t, store.Create(ctx, &p))

	imgs, err := store.ReplaceImages(ctx, p.ID, []string{"c"})
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	assert.Equal(t, "c", imgs[0].URL)

	got, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "c", got.Images[0].URL)

	_, err = store.ReplaceImages(ctx, "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTx_TransactionalDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tx := NewMemoryTx(store)

	p := domain.Product{Name: "A", Images: []domain.Image{{URL: "x"}}}
	require.NoError(t, store.Create(ctx, &p))

	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := store.DeleteImages(ctx, p.ID); err != nil {
			return err
		}
		// nested transaction must not deadlock
		return tx.WithTransaction(ctx, func(ctx context.Context) error {
			return store.Delete(ctx, p.ID)
		})
	})
	require.NoError(t, err)
	_, err = store.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_Filtering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	add := func(n, category, owner string, price float64) {
		p := domain.Product{Name: n, Category: category, CreatedBy: owner, Price: price, Quantity: 1}
		require.NoError(t, store.Create(ctx, &p))
	}
	add("Brake disc", "brembo", "admin", 100)
	add("Oil filter", "bosch", "g1", 50)
	add("Brake pads", "brembo", "g1", 150)

	list, err := store.List(ctx, ProductFilter{NameSubstring: "brake"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Brake disc", list[0].Name, "insertion order kept")
	assert.Equal(t, "Brake pads", list[1].Name)

	list, _ = store.List(ctx, ProductFilter{Category: "bosch"})
	assert.Len(t, list, 1)

	list, _ = store.List(ctx, ProductFilter{CreatedBy: "g1"})
	assert.Len(t, list, 2)

	min := 100.0
	list, _ = store.List(ctx, ProductFilter{MinPrice: &min})
	assert.Len(t, list, 2)
	for _, p := range list {
		assert.GreaterOrEqual(t, p.Price, min)
	}

	max := 100.0
	list, _ = store.List(ctx, ProductFilter{MaxPrice: &max})
	assert.Len(t, list, 2)
	for _, p := range list {
		assert.LessOrEqual(t, p.Price, max)
	}
}

func TestMemoryOrders_ListScoping(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	orders := NewMemoryOrders(store)

	created := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	seed := []domain.Order{
		{UserID: "g1", CustomerID: "c1", CreatedAt: created},
		{UserID: "g1"},
		{UserID: "u2", CustomerID: "c9"},
	}
	for i := range seed {
		require.NoError(t, orders.Create(ctx, &seed[i]))
	}
	assert.True(t, seed[0].CreatedAt.Equal(created), "preset createdAt kept")

	all, _ := orders.List(ctx, OrderFilter{})
	assert.Len(t, all, 3)

	mine, _ := orders.List(ctx, OrderFilter{UserID: "g1"})
	require.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, "g1", o.UserID)
	}

	withCustomer, _ := orders.List(ctx, OrderFilter{UserID: "g1", CustomerOnly: true})
	require.Len(t, withCustomer, 1)
	assert.Equal(t, "c1", withCustomer[0].CustomerID)
}

func TestMemoryOrders_SnapshotIsCopied(t *testing.T) {
	ctx := context.Background()
	orders := NewMemoryOrders(NewMemoryStore())

	o := domain.Order{UserID: "u1", Items: domain.RawItems(`[{"productId":"p1","quantity":1}]`)}
	require.NoError(t, orders.Create(ctx, &o))
	o.Items[2] = 'X'

	got, err := orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, `[{"productId":"p1","quantity":1}]`, string(got.Items), "stored snapshot must not change")
}

func TestMemoryUsers_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUsers(NewMemoryStore())

	u := domain.User{FullName: "A", Email: "A@Example.com", Role: domain.RoleCustomer}
	require.NoError(t, users.Create(ctx, &u))

	dup := domain.User{FullName: "B", Email: "a@example.com"}
	assert.ErrorIs(t, users.Create(ctx, &dup), ErrDuplicate)

	got, err := users.GetByEmail(ctx, " a@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestMemoryUsers_PresetID(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUsers(NewMemoryStore())

	u := domain.User{ID: "garage-1", Email: "g@example.com", Role: domain.RoleGarage}
	require.NoError(t, users.Create(ctx, &u))
	assert.Equal(t, "garage-1", u.ID)

	got, err := users.GetByID(ctx, "garage-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGarage, got.Role)

	clash := domain.User{ID: "garage-1", Email: "other@example.com"}
	assert.ErrorIs(t, users.Create(ctx, &clash), ErrDuplicate)

	generated := domain.User{Email: "c@example.com"}
	require.NoError(t, users.Create(ctx, &generated))
	assert.NotEmpty(t, generated.ID)
}

func TestMemoryBrands_CRUD(t *testing.T) {
	ctx := context.Background()
	brands := NewMemoryBrands(NewMemoryStore())
	b := domain.Brand{Name: "Bosch", Slug: "bosch"}
	require.NoError(t, brands.Create(ctx, &b))

	b.Name = "Bosch X"
	require.NoError(t, brands.Update(ctx, &b))
	list, err := brands.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bosch X", list[0].Name)

	require.NoError(t, brands.Delete(ctx, b.ID))
	assert.ErrorIs(t, brands.Delete(ctx, b.ID), ErrNotFound)
}
