package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"partshop/internal/repository"
)

func newBrandService() *BrandService {
	return NewBrandService(repository.NewMemoryBrands(repository.NewMemoryStore()), zap.NewNop())
}

func TestBrandCreate_SlugRoundTrip(t *testing.T) {
	svc := newBrandService()
	ctx := context.Background()

	b, err := svc.Create(ctx, BrandInput{Name: "  Forged   Carbon  ", Image: "https://img/fc.png"})
	require.NoError(t, err)
	assert.Equal(t, "Forged   Carbon", b.Name)
	assert.Equal(t, "forged-carbon", b.Slug)

	got, err := svc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Slug, got.Slug)
}

func TestBrand_DuplicateNameIsConflict(t *testing.T) {
	svc := newBrandService()
	ctx := context.Background()

	toyota, err := svc.Create(ctx, BrandInput{Name: "Toyota"})
	require.NoError(t, err)
	nissan, err := svc.Create(ctx, BrandInput{Name: "Nissan"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, BrandInput{Name: "TOYOTA"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Update(ctx, nissan.ID, BrandInput{Name: "toyota"})
	assert.ErrorIs(t, err, ErrConflict)

	// renaming to itself with different case is allowed
	updated, err := svc.Update(ctx, toyota.ID, BrandInput{Name: "TOYOTA Motors"})
	require.NoError(t, err)
	assert.Equal(t, "toyota-motors", updated.Slug)
}

func TestBrand_UpdateKeepsImageAndDelete(t *testing.T) {
	svc := newBrandService()
	ctx := context.Background()

	b, err := svc.Create(ctx, BrandInput{Name: "Honda", Image: "https://img/h.png"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, b.ID, BrandInput{Name: "Honda JDM"})
	require.NoError(t, err)
	assert.Equal(t, "https://img/h.png", updated.Image)

	_, err = svc.Create(ctx, BrandInput{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, b.ID))
	_, err = svc.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, b.ID, BrandInput{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
