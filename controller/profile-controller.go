package controller

import (
	"net/http"

	"housecup/app_error"
	"housecup/repository"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	s *Services
}

func setupProfileController(s *Services) []RouteInfo {
	e := &ProfileController{s: s}
	basePath := "/profiles"
	routes := []RouteInfo{
		{Method: "GET", Path: "/me", HandlerFunc: e.getSessionHandler(), Authenticated: true},
		{Method: "PUT", Path: "/:user_id", HandlerFunc: e.saveProfileHandler(), Authenticated: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id GetSession
// @Description The resolved identity of the caller
// @Tags profiles
// @Produce json
// @Success 200 {object} auth.Session
// @Security BearerAuth
// @Router /profiles/me [get]
func (e *ProfileController) getSessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, getSession(c))
	}
}

// @id SaveProfile
// @Description Stores a profile. Only super admins may assign roles and sectors.
// @Tags profiles
// @Accept json
// @Produce json
// @Param user_id path string true "User Id"
// @Param body body repository.Profile true "Profile"
// @Success 200 {object} repository.Profile
// @Security BearerAuth
// @Router /profiles/{user_id} [put]
func (e *ProfileController) saveProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var profile repository.Profile
		if !bind(c, &profile) {
			return
		}
		profile.Id = c.Param("user_id")
		if err := e.s.Profiles.Save(c, getSession(c), &profile); err != nil {
			app_error.WithHTTPStatus(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}
