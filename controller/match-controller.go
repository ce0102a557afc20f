package controller

import (
	"context"
	"net/http"

	"housecup/app_error"
	"housecup/auth"
	"housecup/registry"
	"housecup/repository"
	"housecup/service"
	"housecup/utils"

	"github.com/gin-gonic/gin"
)

type MatchController struct {
	s *Services
}

func setupMatchController(s *Services) []RouteInfo {
	e := &MatchController{s: s}
	routes := []RouteInfo{
		{Method: "GET", Path: "/sectors", HandlerFunc: e.getSectorsHandler()},
		{Method: "GET", Path: "/sectors/:sector/matches", HandlerFunc: e.listMatchesHandler()},
		{Method: "POST", Path: "/sectors/:sector/matches", HandlerFunc: e.provisionMatchHandler(), Authenticated: true},
		{Method: "GET", Path: "/matches/:match_id", HandlerFunc: e.getMatchHandler()},
		{Method: "GET", Path: "/matches/:match_id/clock", HandlerFunc: e.getClockHandler()},
		{Method: "POST", Path: "/matches/:match_id/launch", HandlerFunc: e.versionedHandler(e.s.Matches.Launch), Authenticated: true},
		{Method: "POST", Path: "/matches/:match_id/pause", HandlerFunc: e.versionedHandler(e.s.Matches.Pause), Authenticated: true},
		{Method: "POST", Path: "/matches/:match_id/resume", HandlerFunc: e.versionedHandler(e.s.Matches.Resume), Authenticated: true},
		{Method: "POST", Path: "/matches/:match_id/take-command", HandlerFunc: e.versionedHandler(e.s.Matches.TakeCommand), Authenticated: true},
		{Method: "POST", Path: "/matches/:match_id/score", HandlerFunc: e.adjustScoreHandler(), Authenticated: true},
		{Method: "POST", Path: "/matches/:match_id/cancel", HandlerFunc: e.cancelMatchHandler(), Authenticated: true},
		{Method: "POST", Path: "/matches/:match_id/seal", HandlerFunc: e.sealMatchHandler(), Authenticated: true},
		{Method: "POST", Path: "/buffer/flush", HandlerFunc: e.flushBufferHandler(), Authenticated: true, RoleRequired: []auth.Role{auth.SuperAdmin}},
	}
	return routes
}

func getSector(c *gin.Context) (registry.Sector, bool) {
	sector, ok := registry.ParseSector(c.Param("sector"))
	if !ok || sector == registry.Global {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sector not found"})
		return "", false
	}
	return sector, true
}

// @id GetSectors
// @Description Lists the sectors and their houses
// @Tags sectors
// @Produce json
// @Success 200 {array} SectorResponse
// @Router /sectors [get]
func (e *MatchController) getSectorsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.Map(registry.Sectors(), toSectorResponse))
	}
}

// @id ListMatches
// @Description Lists the matches of a sector, split into active and archived
// @Tags matches
// @Produce json
// @Param sector path string true "Sector"
// @Success 200 {object} MatchListResponse
// @Router /sectors/{sector}/matches [get]
func (e *MatchController) listMatchesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sector, ok := getSector(c)
		if !ok {
			return
		}
		listing, err := e.s.Matches.List(c, sector)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, listing)
	}
}

// @id ProvisionMatch
// @Description Creates a match in a sector. The response mode is "buffered" if the primary store was unavailable.
// @Tags matches
// @Accept json
// @Produce json
// @Param sector path string true "Sector"
// @Param body body service.ProvisionRequest true "Match to create"
// @Success 201 {object} service.ProvisionResult
// @Success 202 {object} service.ProvisionResult
// @Security BearerAuth
// @Router /sectors/{sector}/matches [post]
func (e *MatchController) provisionMatchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sector, ok := getSector(c)
		if !ok {
			return
		}
		var req service.ProvisionRequest
		if !bind(c, &req) {
			return
		}
		result, err := e.s.Provisioning.Provision(c, getSession(c), sector, req)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		status := http.StatusCreated
		if result.Mode == service.ModeBuffered {
			status = http.StatusAccepted
		}
		c.JSON(status, result)
	}
}

// @id GetMatch
// @Description Fetches a match
// @Tags matches
// @Produce json
// @Param match_id path string true "Match Id"
// @Success 200 {object} repository.Match
// @Router /matches/{match_id} [get]
func (e *MatchController) getMatchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		match, err := e.s.Matches.Get(c, c.Param("match_id"))
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, match)
	}
}

// @id GetMatchClock
// @Description Elapsed and remaining time of a match, computed server side
// @Tags matches
// @Produce json
// @Param match_id path string true "Match Id"
// @Success 200 {object} ClockResponse
// @Router /matches/{match_id}/clock [get]
func (e *MatchController) getClockHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		match, err := e.s.Matches.Get(c, c.Param("match_id"))
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, toClockResponse(match, e.s.Now()))
	}
}

type versionedCommand func(ctx context.Context, session auth.Session, id string, version int) (*repository.Match, error)

// @id MatchCommand
// @Description Applies launch, pause, resume or take-command. The version must equal the stored version or the command fails with 409.
// @Tags matches
// @Accept json
// @Produce json
// @Param match_id path string true "Match Id"
// @Param body body VersionRequest true "Version the command is based on"
// @Success 200 {object} repository.Match
// @Security BearerAuth
// @Router /matches/{match_id}/launch [post]
// @Router /matches/{match_id}/pause [post]
// @Router /matches/{match_id}/resume [post]
// @Router /matches/{match_id}/take-command [post]
func (e *MatchController) versionedHandler(command versionedCommand) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VersionRequest
		if !bind(c, &req) {
			return
		}
		match, err := command(c, getSession(c), c.Param("match_id"), req.Version)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, match)
	}
}

// @id AdjustScore
// @Description Adds delta to the running score of a house. Scores never go below zero.
// @Tags matches
// @Accept json
// @Produce json
// @Param match_id path string true "Match Id"
// @Param body body ScoreRequest true "Score change"
// @Success 200 {object} repository.Match
// @Security BearerAuth
// @Router /matches/{match_id}/score [post]
func (e *MatchController) adjustScoreHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScoreRequest
		if !bind(c, &req) {
			return
		}
		match, err := e.s.Matches.AdjustScore(c, getSession(c), c.Param("match_id"), req.Version, req.HouseId, req.Delta)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, match)
	}
}

// @id CancelMatch
// @Description Cancels a match that has not finished
// @Tags matches
// @Produce json
// @Param match_id path string true "Match Id"
// @Success 200 {object} repository.Match
// @Security BearerAuth
// @Router /matches/{match_id}/cancel [post]
func (e *MatchController) cancelMatchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		match, err := e.s.Matches.Cancel(c, getSession(c), c.Param("match_id"))
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, match)
	}
}

// @id SealMatch
// @Description Writes the final placements and finishes the match in one step. A second seal answers 409 with already_sealed set.
// @Tags matches
// @Accept json
// @Produce json
// @Param match_id path string true "Match Id"
// @Param body body service.SealRequest true "Placements"
// @Success 200 {object} service.SealedMatch
// @Security BearerAuth
// @Router /matches/{match_id}/seal [post]
func (e *MatchController) sealMatchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.SealRequest
		if !bind(c, &req) {
			return
		}
		sealed, err := e.s.Ledger.Seal(c, getSession(c), c.Param("match_id"), req)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, sealed)
	}
}

// @id FlushBuffer
// @Description Replays matches buffered while the primary store was down
// @Tags matches
// @Produce json
// @Success 200 {object} FlushResponse
// @Security BearerAuth
// @Router /buffer/flush [post]
func (e *MatchController) flushBufferHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := e.s.Provisioning.FlushBuffer(c)
		if err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, FlushResponse(report))
	}
}
