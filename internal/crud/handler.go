package crud

import (
	"net/http"
	"strings"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/pkg/middleware"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actions names the route segments of a resource, e.g. "addMyAsk".
// An empty name leaves that route unregistered.
type Actions struct {
	Add    string
	List   string
	Get    string
	Update string
	Delete string
	Count  string
}

// Owner binds a resource to the member that owns it. The owner id comes from
// the first non-empty query parameter in Params and falls back to the
// authenticated member.
type Owner struct {
	Params   []string
	Field    string
	Optional bool
	// Unscoped applies the owner on create only; list and count see every document.
	Unscoped bool
}

// Resource describes one CRUD collection exposed over HTTP.
type Resource[T models.Entity] struct {
	Path    string
	Actions Actions
	Service *Service[T]
	Owner   *Owner
	// Filters are query parameters accepted as equality filters on list/count.
	Filters []string
	// IDFilters are like Filters but hold ObjectID references.
	IDFilters []string
	// Guard runs before mutating routes (add/update/delete).
	Guard []gin.HandlerFunc
}

// Creator is a validated create request that builds the document to insert.
type Creator[T models.Entity] interface {
	Model(owner primitive.ObjectID) (T, error)
}

// Patch is a validated update request yielding the fields to overwrite.
type Patch interface {
	Fields() (bson.M, error)
}

// Register mounts the resource routes under rg.
func Register[T models.Entity, C Creator[T], P Patch](rg gin.IRouter, r Resource[T]) {
	RegisterValidators()
	g := rg.Group(r.Path)
	guarded := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, r.Guard...), h)
	}
	if r.Actions.Add != "" {
		g.POST("/"+r.Actions.Add, guarded(createHandler[T, C](r))...)
	}
	if r.Actions.List != "" {
		g.GET("/"+r.Actions.List, listHandler(r))
	}
	if r.Actions.Get != "" {
		g.GET("/"+r.Actions.Get, getHandler(r))
	}
	if r.Actions.Update != "" {
		g.PUT("/"+r.Actions.Update, guarded(updateHandler[T, P](r))...)
	}
	if r.Actions.Delete != "" {
		g.DELETE("/"+r.Actions.Delete, guarded(deleteHandler(r))...)
	}
	if r.Actions.Count != "" {
		g.GET("/"+r.Actions.Count, countHandler(r))
	}
}

// OwnerID resolves the member id from the first non-empty query parameter
// or the authenticated member. ok is false when neither is present.
func OwnerID(c *gin.Context, params ...string) (primitive.ObjectID, bool, error) {
	var raw string
	for _, p := range params {
		if raw = strings.TrimSpace(c.Query(p)); raw != "" {
			break
		}
	}
	if raw == "" {
		raw = middleware.MemberID(c)
	}
	if raw == "" {
		return primitive.NilObjectID, false, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, false, apperr.Validation("invalid member id %q", raw)
	}
	return id, true, nil
}

func (r Resource[T]) filter(c *gin.Context) (Filter, error) {
	f := Filter{}
	if r.Owner != nil && !r.Owner.Unscoped {
		id, ok, err := OwnerID(c, r.Owner.Params...)
		if err != nil {
			return f, err
		}
		if !ok && !r.Owner.Optional {
			return f, apperr.Validation("member id is required")
		}
		if ok {
			f = f.With(r.Owner.Field, id)
		}
	}
	for _, name := range r.Filters {
		if v := strings.TrimSpace(c.Query(name)); v != "" {
			f = f.With(name, v)
		}
	}
	for _, name := range r.IDFilters {
		if v := strings.TrimSpace(c.Query(name)); v != "" {
			id, err := primitive.ObjectIDFromHex(v)
			if err != nil {
				return f, apperr.Validation("invalid %s %q", name, v)
			}
			f = f.With(name, id)
		}
	}
	return f, nil
}

func createHandler[T models.Entity, C Creator[T]](r Resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req C
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, BindError(err))
			return
		}
		var owner primitive.ObjectID
		if r.Owner != nil {
			id, ok, err := OwnerID(c, r.Owner.Params...)
			if err != nil {
				apperr.Respond(c, err)
				return
			}
			if !ok && !r.Owner.Optional {
				apperr.Respond(c, apperr.Validation("member id is required"))
				return
			}
			owner = id
		}
		doc, err := req.Model(owner)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		doc, err = r.Service.Create(c.Request.Context(), doc)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": r.Service.Name() + " created", "data": doc})
	}
}

func listHandler[T models.Entity](r Resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := r.filter(c)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		page, limit := PageParams(c, DefaultLimit)
		skip := Offset(page, limit)
		res, err := r.Service.List(c.Request.Context(), f, Page{Skip: int64(skip), Limit: int64(limit)})
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":        res.Items,
			"total":       res.Total,
			"page":        page,
			"limit":       limit,
			"hasNextPage": HasNext(int(res.Total), page, limit),
		})
	}
}

func getHandler[T models.Entity](r Resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := r.Service.Get(c.Request.Context(), c.Query("id"))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": doc})
	}
}

func updateHandler[T models.Entity, P Patch](r Resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req P
		if err := c.ShouldBindJSON(&req); err != nil {
			apperr.Respond(c, BindError(err))
			return
		}
		set, err := req.Fields()
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		doc, extras, err := r.Service.Update(c.Request.Context(), c.Query("id"), set)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		body := gin.H{"message": r.Service.Name() + " updated", "data": doc}
		for k, v := range extras {
			body[k] = v
		}
		c.JSON(http.StatusOK, body)
	}
}

func deleteHandler[T models.Entity](r Resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := r.Service.Delete(c.Request.Context(), c.Query("id")); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": r.Service.Name() + " deleted"})
	}
}

func countHandler[T models.Entity](r Resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := r.filter(c)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		n, err := r.Service.Count(c.Request.Context(), f)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": n})
	}
}
