package controller

import (
	"net/http"
	"time"

	"housecup/app_error"
	"housecup/auth"
	"housecup/registry"

	"github.com/gin-contrib/cache"
	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	standingsCacheTTL = 2 * time.Second
	wsWriteTimeout    = 10 * time.Second
)

type StandingsController struct {
	s *Services
}

func setupStandingsController(s *Services, cacheStore persistence.CacheStore) []RouteInfo {
	e := &StandingsController{s: s}
	routes := []RouteInfo{
		{Method: "GET", Path: "/standings", HandlerFunc: cache.CachePage(cacheStore, standingsCacheTTL, e.getStandingsHandler(registry.Global))},
		{Method: "GET", Path: "/sectors/:sector/standings", HandlerFunc: cache.CachePage(cacheStore, standingsCacheTTL, e.getSectorStandingsHandler())},
		{Method: "GET", Path: "/standings/ws", HandlerFunc: e.WebSocketHandler},
		{Method: "GET", Path: "/audit", HandlerFunc: e.getAuditHandler(), Authenticated: true, RoleRequired: []auth.Role{auth.SuperAdmin}},
	}
	return routes
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// allow any host origin to connect to the websocket
		return true
	},
}

// @id GetStandings
// @Description House standings across every sector
// @Tags standings
// @Produce json
// @Success 200 {object} service.Snapshot
// @Router /standings [get]
func (e *StandingsController) getStandingsHandler(scope registry.Sector) gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot, err := e.s.Standings.Current(c, scope)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

// @id GetSectorStandings
// @Description House standings of one sector
// @Tags standings
// @Produce json
// @Param sector path string true "Sector"
// @Success 200 {object} service.Snapshot
// @Router /sectors/{sector}/standings [get]
func (e *StandingsController) getSectorStandingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sector, ok := getSector(c)
		if !ok {
			return
		}
		e.getStandingsHandler(sector)(c)
	}
}

// @id GetLedgerAudit
// @Description Summary of the result ledger: sector leaders, centralized sealing, win streaks and the overall leader
// @Tags standings
// @Produce json
// @Success 200 {object} scoring.LedgerAudit
// @Security BearerAuth
// @Router /audit [get]
func (e *StandingsController) getAuditHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		audit, err := e.s.Standings.Audit(c)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, audit)
	}
}

// @id StandingsWebSocket
// @Description Websocket for standings. The current snapshot is sent on connect, then every recomputed one.
// @Tags standings
// @Param scope query string false "Sector, defaults to all sectors"
// @Success 200 {object} service.Snapshot
// @Router /standings/ws [get]
func (e *StandingsController) WebSocketHandler(c *gin.Context) {
	scope := registry.Global
	if q := c.Query("scope"); q != "" {
		parsed, ok := registry.ParseSector(q)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sector not found"})
			return
		}
		scope = parsed
	}
	current, err := e.s.Standings.Current(c, scope)
	if err != nil {
		app_error.WithHTTPStatus(c, err)
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	updates, unsubscribe := e.s.Standings.Subscribe(scope)
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	snapshot := current
	for {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(snapshot); err != nil {
			log.Debug().Err(err).Str("scope", string(scope)).Msg("standings subscriber gone")
			return
		}
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case snapshot = <-updates:
		}
	}
}
