package controller

import (
	"net/http"
	"strings"
	"time"

	"housecup/app_error"
	"housecup/auth"
	"housecup/service"
	"housecup/utils"

	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
)

type RouteInfo struct {
	Method        string
	Path          string
	HandlerFunc   gin.HandlerFunc
	Authenticated bool
	RoleRequired  []auth.Role
}

// Services bundles what the HTTP layer needs. Everything is built once in
// main and shared.
type Services struct {
	Matches      *service.MatchService
	Ledger       *service.LedgerService
	Provisioning *service.ProvisioningService
	Standings    *service.StandingsService
	Profiles     *service.ProfileService
	Secret       []byte
	Now          func() time.Time
}

func SetRoutes(r *gin.Engine, s *Services, cacheStore persistence.CacheStore) {
	if s.Now == nil {
		s.Now = time.Now
	}
	routes := make([]RouteInfo, 0)
	routes = append(routes, setupMatchController(s)...)
	routes = append(routes, setupStandingsController(s, cacheStore)...)
	routes = append(routes, setupProfileController(s)...)
	group := r.Group("/api")
	for _, route := range routes {
		handlerfuncs := make([]gin.HandlerFunc, 0)
		if route.Authenticated {
			handlerfuncs = append(handlerfuncs, AuthMiddleware(s.Secret, s.Profiles, route.RoleRequired))
		}
		handlerfuncs = append(handlerfuncs, route.HandlerFunc)
		group.Handle(route.Method, route.Path, handlerfuncs...)
	}
}

const sessionKey = "session"

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("auth"); err == nil && cookie != "" {
		return cookie
	}
	// browsers cannot set headers on websocket upgrades
	return c.Query("token")
}

// AuthMiddleware resolves the caller session from the token, the stored
// profile and the client headers. An empty roles list admits any
// authenticated caller.
func AuthMiddleware(secret []byte, profiles *service.ProfileService, roles []auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.ParseToken(secret, bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}
		session, err := profiles.Resolve(c, claims, auth.ClientMeta{
			Role:   c.GetHeader("X-Client-Role"),
			Sector: c.GetHeader("X-Client-Sector"),
		})
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		if len(roles) > 0 && !utils.Contains(roles, session.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// bind decodes the request body and answers 400 on malformed input.
func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		app_error.WithHTTPStatus(c, app_error.WithStatus(app_error.Validation("%s", err.Error()), http.StatusBadRequest))
		return false
	}
	return true
}

func getSession(c *gin.Context) auth.Session {
	if v, ok := c.Get(sessionKey); ok {
		return v.(auth.Session)
	}
	return auth.Session{}
}
