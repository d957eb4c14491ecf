package api

import (
	"errors"
	"net/http"

	"splashboard/internal/domain/guest"
	"splashboard/internal/domain/season"
	reqdto "splashboard/internal/handler/dto/request"
	resdto "splashboard/internal/handler/dto/response"
	"splashboard/internal/handler/httperr"
	"splashboard/internal/handler/middleware"
	"splashboard/internal/usecase/commands"
	"splashboard/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type GuestHandler struct {
	guestCommands commands.GuestCommands
	guestQueries  queries.GuestQueries
}

func NewGuestHandler(guestCommands commands.GuestCommands, guestQueries queries.GuestQueries) *GuestHandler {
	return &GuestHandler{
		guestCommands: guestCommands,
		guestQueries:  guestQueries,
	}
}

// @Summary Season availability
// @Description Remaining guest capacity for every day of the season
// @Tags guest
// @Security BearerAuth
// @Produce json
// @Param season query string false "Season (defaults to working season)"
// @Success 200 {object} queries.AvailabilityView
// @Failure 400 {object} map[string]string
// @Router /guest/availability [get]
func (h *GuestHandler) Availability(c *gin.Context) {
	sn, err := reqdto.SeasonQuery(c.Query("season"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid season",
		})
		return
	}

	view, err := h.guestQueries.Availability(c.Request.Context(), sn)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load availability", nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary My signups
// @Description The caller's guest signups for the season
// @Tags guest
// @Security BearerAuth
// @Produce json
// @Param season query string false "Season (defaults to working season)"
// @Success 200 {object} queries.MySignupsView
// @Failure 400 {object} map[string]string
// @Router /guest/signups [get]
func (h *GuestHandler) MySignups(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	sn, err := reqdto.SeasonQuery(c.Query("season"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid season",
		})
		return
	}

	view, err := h.guestQueries.MySignups(c.Request.Context(), sn, userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load signups", nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Set desired guest count
// @Description Set the caller's guest count for a day (absolute, not a delta; 0 removes the signup)
// @Tags guest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SetSignupRequest true "Signup request"
// @Success 200 {object} resdto.DaySnapshotResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} map[string]string
// @Router /guest/signups [put]
func (h *GuestHandler) SetSignup(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.SetSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	sn, err := req.SeasonID()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid season",
		})
		return
	}
	day, err := req.DayValue()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid day",
		})
		return
	}

	snapshot, err := h.guestCommands.SetSignup(c.Request.Context(), userID, sn, day, *req.Guests)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidGuestCount):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Guest count must be a non-negative integer",
			})
		case errors.Is(err, commands.ErrDayOutOfRange):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Day is outside the season range",
			})
		case errors.Is(err, commands.ErrSeasonNotOpen):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Season is not open for signups",
			})
		case errors.Is(err, commands.ErrPerUserCapExceeded):
			httperr.AbortWithReason(c, http.StatusConflict, err,
				"Personal guest limit reached", guest.ReasonPerUserCapExceeded)
		case errors.Is(err, commands.ErrDayCapExceeded):
			httperr.AbortWithReason(c, http.StatusConflict, err,
				"Day is at capacity", guest.ReasonDayCapExceeded)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to update signup", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.NewDaySnapshotResponse(snapshot))
}

// @Summary Day roster
// @Description Who is bringing guests on a given day
// @Tags guest
// @Security BearerAuth
// @Produce json
// @Param day path string true "Day (YYYY-MM-DD)"
// @Param season query string false "Season (defaults to working season)"
// @Success 200 {object} queries.DayRosterView
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /guest/roster/{day} [get]
func (h *GuestHandler) DayRoster(c *gin.Context) {
	sn, err := reqdto.SeasonQuery(c.Query("season"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid season",
		})
		return
	}
	day, err := season.NewDay(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid day",
		})
		return
	}

	view, err := h.guestQueries.DayRoster(c.Request.Context(), sn, day)
	if err != nil {
		if errors.Is(err, queries.ErrDayOutOfRange) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Day is outside the season range",
			})
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load day roster", nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Recount season counters
// @Description Rebuild the capacity counters from the signup ledger (admin maintenance)
// @Tags guest
// @Security BearerAuth
// @Produce json
// @Param season query string false "Season (defaults to working season)"
// @Success 200 {object} resdto.RecountResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /guest/recount [post]
func (h *GuestHandler) Recount(c *gin.Context) {
	sn, err := reqdto.SeasonQuery(c.Query("season"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid season",
		})
		return
	}

	updates, err := h.guestCommands.RecountSeason(c.Request.Context(), sn)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to recount season", nil)
		return
	}

	resolved := sn
	if len(updates) > 0 {
		resolved = updates[0].Season
	}
	c.JSON(http.StatusOK, resdto.NewRecountResponse(resolved, updates))
}
