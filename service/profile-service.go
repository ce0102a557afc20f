package service

import (
	"context"
	"strings"

	"housecup/app_error"
	"housecup/auth"
	"housecup/registry"
	"housecup/repository"
)

type ProfileService struct {
	store repository.Store
}

func NewProfileService(store repository.Store) *ProfileService {
	return &ProfileService{store: store}
}

// Resolve builds the caller session from token claims, the stored profile
// and client metadata. A profile lookup failure degrades to claims and
// client metadata only.
func (s *ProfileService) Resolve(ctx context.Context, claims *auth.Claims, client auth.ClientMeta) (auth.Session, error) {
	var profile *repository.Profile
	if claims != nil && claims.UserId != "" {
		var err error
		profile, err = s.store.GetProfile(ctx, claims.UserId)
		if err != nil && app_error.KindOf(err) != app_error.KindTransport {
			return auth.Session{}, err
		}
	}
	return auth.ResolveSession(claims, profile, client), nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (*repository.Profile, error) {
	return s.store.GetProfile(ctx, id)
}

// Save stores a profile. Only a super-admin may assign roles or sectors;
// anyone may rename themselves.
func (s *ProfileService) Save(ctx context.Context, session auth.Session, profile *repository.Profile) error {
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Id == "" || profile.Name == "" {
		return app_error.Validation("profile id and name are required")
	}
	if session.Role != auth.SuperAdmin {
		if session.UserId != profile.Id {
			return app_error.ErrForbidden
		}
		existing, err := s.store.GetProfile(ctx, profile.Id)
		if err != nil {
			return err
		}
		profile.Role, profile.Sector = string(auth.Member), ""
		if existing != nil {
			profile.Role, profile.Sector = existing.Role, existing.Sector
		}
		return s.store.SaveProfile(ctx, profile)
	}
	profile.Role = string(auth.ParseRole(profile.Role))
	if profile.Sector != "" {
		sector, ok := registry.ParseSector(string(profile.Sector))
		if !ok {
			return app_error.Validation("unknown sector %q", profile.Sector)
		}
		profile.Sector = sector
	}
	return s.store.SaveProfile(ctx, profile)
}
