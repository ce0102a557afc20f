package auth

import (
	"strings"

	"housecup/app_error"
	"housecup/registry"
	"housecup/repository"
)

type Role string

const (
	SuperAdmin     Role = "super-admin"
	SectorOfficial Role = "sector-official"
	Member         Role = "member"
)

// ParseRole maps any unrecognised value to Member.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case SuperAdmin:
		return SuperAdmin
	case SectorOfficial:
		return SectorOfficial
	default:
		return Member
	}
}

// Session is the caller identity passed explicitly into every service call.
type Session struct {
	UserId string          `json:"user_id"`
	Name   string          `json:"name"`
	Role   Role            `json:"role"`
	Sector registry.Sector `json:"sector"`
}

// ClientMeta is what the client claims about itself. It is the least trusted
// source: it may lower the role or place a member in a sector, never more.
type ClientMeta struct {
	Role   string
	Sector string
}

var roleRank = map[Role]int{Member: 0, SectorOfficial: 1, SuperAdmin: 2}

// ResolveSession merges the identity sources field by field: token claims
// first, then the persisted profile. Client metadata only narrows the result.
func ResolveSession(claims *Claims, profile *repository.Profile, client ClientMeta) Session {
	var roles, sectors, names []string
	session := Session{}
	if claims != nil {
		session.UserId = claims.UserId
		roles = append(roles, claims.Role)
		sectors = append(sectors, claims.Sector)
		names = append(names, claims.Name)
	}
	if profile != nil {
		roles = append(roles, profile.Role)
		sectors = append(sectors, string(profile.Sector))
		names = append(names, profile.Name)
	}

	session.Name = firstNonEmpty(names...)
	session.Role = ParseRole(firstNonEmpty(roles...))
	if requested := strings.TrimSpace(client.Role); requested != "" {
		if narrowed := ParseRole(requested); roleRank[narrowed] < roleRank[session.Role] {
			session.Role = narrowed
		}
	}
	trustedSector := firstNonEmpty(sectors...)
	if trustedSector == "" && session.Role == Member {
		trustedSector = client.Sector
	}
	if sector, ok := registry.ParseSector(trustedSector); ok {
		session.Sector = sector
	}
	if session.Role == SuperAdmin {
		session.Sector = registry.Global
	}
	// a sector official without a real sector can act nowhere
	if session.Role == SectorOfficial && (session.Sector == "" || session.Sector == registry.Global) {
		session.Role = Member
	}
	if session.Name == "" {
		session.Name = session.UserId
	}
	return session
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// CanOfficiate reports whether the session may issue commands in sector.
func (s Session) CanOfficiate(sector registry.Sector) bool {
	switch s.Role {
	case SuperAdmin:
		return true
	case SectorOfficial:
		return s.Sector == sector
	default:
		return false
	}
}

// Authorize returns app_error.ErrForbidden if the session cannot officiate
// in sector.
func (s Session) Authorize(sector registry.Sector) error {
	if s.UserId == "" || !s.CanOfficiate(sector) {
		return app_error.ErrForbidden
	}
	return nil
}

// Scope is the standings scope the session follows by default.
func (s Session) Scope() registry.Sector {
	if s.Role == SectorOfficial {
		return s.Sector
	}
	return registry.Global
}
