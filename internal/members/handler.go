package members

import (
	"net/http"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"github.com/bizlink/bizlink-admin/internal/crud"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes mounts the unauthenticated sign-up endpoint.
func RegisterPublicRoutes(rg gin.IRouter, svc *Service) {
	crud.RegisterValidators()
	rg.POST("/member/addMember", func(c *gin.Context) {
		var req Registration
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, crud.BindError(err))
			return
		}
		m, err := svc.Register(c.Request.Context(), req)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "member registered", "data": m})
	})
}

// RegisterRoutes mounts the approval workflow; rg must be authenticated.
func RegisterRoutes(rg gin.IRouter, svc *Service) {
	g := rg.Group("/member")
	admin := middleware.RequireRole(models.RoleAdmin)

	g.PUT("/adminApprove", admin, func(c *gin.Context) {
		m, err := svc.AdminApprove(c.Request.Context(), c.Query("id"))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "member approved", "data": m})
	})

	g.PUT("/memberApprove", func(c *gin.Context) {
		m, err := svc.MemberApprove(c.Request.Context(), c.Query("id"), middleware.MemberID(c), middleware.Role(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "member confirmed", "data": m})
	})

	g.GET("/getPendingMembers", admin, func(c *gin.Context) {
		page, limit := crud.PageParams(c, crud.DefaultLimit)
		skip := crud.Offset(page, limit)
		res, err := svc.Pending(c.Request.Context(), crud.Page{Skip: int64(skip), Limit: int64(limit)})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":        res.Items,
			"total":       res.Total,
			"page":        page,
			"limit":       limit,
			"hasNextPage": crud.HasNext(int(res.Total), page, limit),
		})
	})

	g.GET("/getMemberByReferralCode", func(c *gin.Context) {
		m, err := svc.ByReferralCode(c.Request.Context(), c.Query("code"))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": m})
	})
}
