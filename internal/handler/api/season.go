package api

import (
	"errors"
	"net/http"

	"splashboard/internal/domain/season"
	reqdto "splashboard/internal/handler/dto/request"
	"splashboard/internal/handler/httperr"
	"splashboard/internal/usecase/commands"
	"splashboard/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type SeasonHandler struct {
	seasonCommands commands.SeasonCommands
	seasonQueries  queries.SeasonQueries
}

func NewSeasonHandler(seasonCommands commands.SeasonCommands, seasonQueries queries.SeasonQueries) *SeasonHandler {
	return &SeasonHandler{
		seasonCommands: seasonCommands,
		seasonQueries:  seasonQueries,
	}
}

// @Summary Season configuration
// @Description Effective configuration for a season (falls back to defaults when unconfigured)
// @Tags seasons
// @Produce json
// @Param season query string false "Season (defaults to working season)"
// @Success 200 {object} queries.SeasonConfigView
// @Failure 400 {object} map[string]string
// @Router /seasons/config [get]
func (h *SeasonHandler) Config(c *gin.Context) {
	sn, err := reqdto.SeasonQuery(c.Query("season"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid season",
		})
		return
	}

	view, err := h.seasonQueries.Config(c.Request.Context(), sn)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load season config", nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List configured seasons
// @Tags seasons
// @Security BearerAuth
// @Produce json
// @Success 200 {array} queries.SeasonConfigView
// @Failure 403 {object} map[string]string
// @Router /seasons [get]
func (h *SeasonHandler) List(c *gin.Context) {
	views, err := h.seasonQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list seasons", nil)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Update season configuration
// @Description Partially update a season's configuration; omitted fields keep their stored values (admin)
// @Tags seasons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param season path string true "Season (4-digit year)"
// @Param request body reqdto.UpdateSeasonConfigRequest true "Configuration"
// @Success 200 {object} queries.SeasonConfigView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /seasons/{season} [put]
func (h *SeasonHandler) Update(c *gin.Context) {
	id, err := season.NewID(c.Param("season"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid season",
		})
		return
	}

	var req reqdto.UpdateSeasonConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid day format",
		})
		return
	}

	saved, err := h.seasonCommands.UpdateConfig(c.Request.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidSeasonRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Season range end must be on or after start",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to save season config", nil)
		}
		return
	}
	c.JSON(http.StatusOK, queries.NewSeasonConfigView(*saved))
}

// @Summary Set the working season
// @Description Change the season new requests default to (admin)
// @Tags seasons
// @Accept json
// @Security BearerAuth
// @Param request body reqdto.SetWorkingSeasonRequest true "Working season"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /settings/working-season [put]
func (h *SeasonHandler) SetWorking(c *gin.Context) {
	var req reqdto.SetWorkingSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	id, err := season.NewID(req.Season)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid season",
		})
		return
	}

	if err := h.seasonCommands.SetWorkingSeason(c.Request.Context(), id); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to set working season", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
