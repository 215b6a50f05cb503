package handlers

import (
	"conduit-api/helper"
	"conduit-api/middleware"
	"conduit-api/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService services.ProfileService
	Helper         *helper.HTTPHelper
}

func NewProfileHandler(profileService services.ProfileService, h *helper.HTTPHelper) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, Helper: h}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfileByUsername(middleware.DB(c), c.Param("username"), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{"profile": profile})
}

func (h *ProfileHandler) FollowUser(c *gin.Context) {
	profile, err := h.profileService.FollowUser(middleware.DB(c), c.Param("username"), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile followed", gin.H{"profile": profile})
}

func (h *ProfileHandler) UnfollowUser(c *gin.Context) {
	profile, err := h.profileService.UnfollowUser(middleware.DB(c), c.Param("username"), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile unfollowed", gin.H{"profile": profile})
}
