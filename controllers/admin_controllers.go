package controllers

import (
	"net/http"
	"time"

	"github.com/amorty/cafe-admin/services"
	"github.com/amorty/cafe-admin/store"
	"github.com/amorty/cafe-admin/utils"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Store store.Store
	Now   func() time.Time
}

func NewAdminController(s store.Store) *AdminController {
	return &AdminController{Store: s, Now: time.Now}
}

// GetDashboardStats returns the summary cards of the admin dashboard.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	stats, err := services.ComputeStats(c.Request.Context(), ac.Store, ac.Now())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard statistics", stats)
}
