package handlers

import (
	"net/http"
	"strings"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"github.com/bizlink/bizlink-admin/internal/crud"
	"github.com/bizlink/bizlink-admin/internal/matching"
	"github.com/bizlink/bizlink-admin/pkg/middleware"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MatchHandler exposes both matchers.
type MatchHandler struct {
	finder   *matching.Finder
	pageSize int
}

func NewMatchHandler(f *matching.Finder, defaultPageSize int) *MatchHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = matching.DefaultPageSize
	}
	return &MatchHandler{finder: f, pageSize: defaultPageSize}
}

// Register mounts the match routes on an authenticated group.
func (h *MatchHandler) Register(rg gin.IRouter) {
	rg.GET("/myGives/getMyGivesBasedOnMyAsks", h.Grouped)
	rg.GET("/match2/myMatchesByCompanyAndDept", h.ByCompanyAndDept)
}

// memberParam reads `userId`, defaulting to the authenticated member.
func memberParam(c *gin.Context) (primitive.ObjectID, error) {
	raw := strings.TrimSpace(c.Query("userId"))
	if raw == "" {
		raw = middleware.MemberID(c)
	}
	if raw == "" {
		return primitive.NilObjectID, apperr.Validation("userId is required")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("userId must be a valid id")
	}
	return id, nil
}

// Grouped handles GET /myGives/getMyGivesBasedOnMyAsks.
func (h *MatchHandler) Grouped(c *gin.Context) {
	member, err := memberParam(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	page, size := crud.PageParams(c, h.pageSize)
	res, err := h.finder.Grouped(c.Request.Context(), member, page, size)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ByCompanyAndDept handles GET /match2/myMatchesByCompanyAndDept.
func (h *MatchHandler) ByCompanyAndDept(c *gin.Context) {
	member, err := memberParam(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	page, size := crud.PageParams(c, h.pageSize)
	q := matching.DeptQuery{
		CompanyName: c.Query("companyName"),
		Dept:        c.DefaultQuery("dept", c.Query("department")),
	}
	res, err := h.finder.ByCompanyAndDept(c.Request.Context(), member, q, page, size)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
