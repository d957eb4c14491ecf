package api

import (
	"context"
	"errors"
	"net/http"

	"splashboard/internal/domain/membership"
	reqdto "splashboard/internal/handler/dto/request"
	resdto "splashboard/internal/handler/dto/response"
	"splashboard/internal/handler/httperr"
	"splashboard/internal/handler/middleware"
	"splashboard/internal/usecase/commands"
	"splashboard/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MembershipHandler struct {
	membershipCommands commands.MembershipCommands
	membershipQueries  queries.MembershipQueries
}

func NewMembershipHandler(membershipCommands commands.MembershipCommands, membershipQueries queries.MembershipQueries) *MembershipHandler {
	return &MembershipHandler{
		membershipCommands: membershipCommands,
		membershipQueries:  membershipQueries,
	}
}

// @Summary Apply for membership
// @Description Submit a membership application for a season
// @Tags membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ApplyMembershipRequest true "Application"
// @Success 201 {object} resdto.MembershipResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /membership/applications [post]
func (h *MembershipHandler) Apply(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ApplyMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	sn, err := reqdto.SeasonQuery(req.Season)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid season",
		})
		return
	}
	mType, err := membership.NewType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid membership type",
		})
		return
	}

	record, err := h.membershipCommands.Apply(c.Request.Context(), userID, sn, mType, req.ToPeople(), req.ToAddress())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrAlreadyApplied):
			c.JSON(http.StatusConflict, gin.H{
				"error": "An application for this season already exists",
			})
		case errors.Is(err, membership.ErrNoPeople), errors.Is(err, membership.ErrInvalidPersonKind):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid application data",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to create application", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.NewMembershipResponse(record))
}

// @Summary My application
// @Description The caller's membership application for the season
// @Tags membership
// @Security BearerAuth
// @Produce json
// @Param season query string false "Season (defaults to working season)"
// @Success 200 {object} queries.MembershipView
// @Failure 404 {object} map[string]string
// @Router /membership/applications/me [get]
func (h *MembershipHandler) Mine(c *gin.Context) {
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

	view, err := h.membershipQueries.Mine(c.Request.Context(), sn, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Application not found",
		})
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List applications
// @Description List membership applications for a season (admin)
// @Tags membership
// @Security BearerAuth
// @Produce json
// @Param season query string false "Season (defaults to working season)"
// @Param status query string false "Filter by status"
// @Success 200 {array} queries.MembershipListItemView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /membership/applications [get]
func (h *MembershipHandler) List(c *gin.Context) {
	sn, err := reqdto.SeasonQuery(c.Query("season"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid season",
		})
		return
	}

	var status membership.Status
	if raw := c.Query("status"); raw != "" {
		status, err = membership.NewStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid status",
			})
			return
		}
	}

	views, err := h.membershipQueries.List(c.Request.Context(), sn, status)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list applications", nil)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Waitlist an application
// @Tags membership
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /membership/applications/{id}/waitlist [post]
func (h *MembershipHandler) Waitlist(c *gin.Context) {
	h.adminTransition(c, h.membershipCommands.Waitlist)
}

// @Summary Extend an offer
// @Tags membership
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /membership/applications/{id}/offer [post]
func (h *MembershipHandler) Offer(c *gin.Context) {
	h.adminTransition(c, h.membershipCommands.Offer)
}

// @Summary Reject an application
// @Tags membership
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /membership/applications/{id}/reject [post]
func (h *MembershipHandler) Reject(c *gin.Context) {
	h.adminTransition(c, h.membershipCommands.Reject)
}

// @Summary Revoke an accepted membership
// @Tags membership
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /membership/applications/{id}/revoke [post]
func (h *MembershipHandler) Revoke(c *gin.Context) {
	h.adminTransition(c, h.membershipCommands.Revoke)
}

// @Summary Accept an offer
// @Description Accept an open membership offer (applicant only)
// @Tags membership
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /membership/applications/{id}/accept [post]
func (h *MembershipHandler) Accept(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid application ID",
		})
		return
	}

	if err := h.membershipCommands.Accept(c.Request.Context(), recordID, userID); err != nil {
		switch {
		case errors.Is(err, commands.ErrMembershipNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Application not found",
			})
		case errors.Is(err, commands.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Application belongs to another user",
			})
		case errors.Is(err, membership.ErrInvalidTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Offer is not open",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to accept offer", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MembershipHandler) adminTransition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) error) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid application ID",
		})
		return
	}

	if err := fn(c.Request.Context(), recordID); err != nil {
		switch {
		case errors.Is(err, commands.ErrMembershipNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Application not found",
			})
		case errors.Is(err, membership.ErrInvalidTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Transition not allowed from current status",
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to update application", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}
