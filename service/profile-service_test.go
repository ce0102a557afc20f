package service

import (
	"context"
	"testing"

	"housecup/app_error"
	"housecup/auth"
	"housecup/registry"
	"housecup/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrefersClaimsOverProfile(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	profiles := NewProfileService(store)
	require.NoError(t, store.SaveProfile(ctx, &repository.Profile{
		Id: "official-a", Name: "Official A", Role: string(auth.SectorOfficial), Sector: registry.CAM,
	}))

	session, err := profiles.Resolve(ctx, &auth.Claims{UserId: "official-a", Sector: string(registry.UPSS)}, auth.ClientMeta{Role: "super-admin"})
	require.NoError(t, err)
	assert.Equal(t, auth.SectorOfficial, session.Role)
	assert.Equal(t, registry.UPSS, session.Sector)
	assert.Equal(t, "Official A", session.Name)
}

func TestResolveWithoutProfile(t *testing.T) {
	profiles := NewProfileService(repository.NewMemoryStore())
	session, err := profiles.Resolve(context.Background(), &auth.Claims{UserId: "nobody"}, auth.ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, auth.Member, session.Role)
	assert.ErrorIs(t, session.Authorize(registry.UPSS), app_error.ErrForbidden)
}

func TestResolveDegradesWhenStoreIsDown(t *testing.T) {
	profiles := NewProfileService(repository.NewMemoryStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	session, err := profiles.Resolve(ctx, &auth.Claims{UserId: "u", Role: string(auth.SuperAdmin)}, auth.ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, auth.SuperAdmin, session.Role)
}

func TestSaveProfile(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	profiles := NewProfileService(store)

	err := profiles.Save(ctx, admin, &repository.Profile{Id: "official-a", Name: "Official A", Role: "sector-official", Sector: "upss"})
	require.NoError(t, err)
	saved, err := profiles.Get(ctx, "official-a")
	require.NoError(t, err)
	assert.Equal(t, registry.UPSS, saved.Sector)
	assert.Equal(t, string(auth.SectorOfficial), saved.Role)

	// renaming keeps the assigned role and sector
	err = profiles.Save(ctx, officialA, &repository.Profile{Id: "official-a", Name: " Ada ", Role: "super-admin"})
	require.NoError(t, err)
	saved, err = profiles.Get(ctx, "official-a")
	require.NoError(t, err)
	assert.Equal(t, "Ada", saved.Name)
	assert.Equal(t, string(auth.SectorOfficial), saved.Role)
	assert.Equal(t, registry.UPSS, saved.Sector)

	err = profiles.Save(ctx, officialB, &repository.Profile{Id: "official-a", Name: "Mallory"})
	assert.ErrorIs(t, err, app_error.ErrForbidden)

	err = profiles.Save(ctx, admin, &repository.Profile{Id: "x", Name: "X", Sector: "Atlantis"})
	assert.ErrorIs(t, err, app_error.ErrValidation)

	err = profiles.Save(ctx, admin, &repository.Profile{Id: "x"})
	assert.ErrorIs(t, err, app_error.ErrValidation)
}
