// Package api exposes the thin HTTP surface: the seed triggers and the
// category tree admin endpoints.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop/admin/internal/domain"
	"shop/admin/internal/seed"
	"shop/admin/internal/state"
)

type Handler struct {
	seed       *seed.Service
	categories seed.CategoryStore
	runs       state.RunStore
}

func NewHandler(seedService *seed.Service, categories seed.CategoryStore, runs state.RunStore) *Handler {
	return &Handler{
		seed:       seedService,
		categories: categories,
		runs:       runs,
	}
}

// Register mounts every route on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/seed/categories", h.SeedCategories)
	r.POST("/seed/attributes", h.SeedAttributes)
	r.POST("/seed/products", h.SeedProducts)
	r.GET("/seed/lastrun", h.LastRun)
	r.GET("/category/tree", h.CategoryTree)
	r.POST("/category/tree", h.SaveCategoryTree)
}

// (POST /seed/categories)
func (h *Handler) SeedCategories(c *gin.Context) {
	if err := h.seed.SeedCategories(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// (POST /seed/attributes)
func (h *Handler) SeedAttributes(c *gin.Context) {
	if err := h.seed.SeedAttributes(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// (POST /seed/products) regenerates the whole synthetic catalog. The
// response enumerates every failed product job, if any.
func (h *Handler) SeedProducts(c *gin.Context) {
	if err := h.seed.SeedProducts(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// (GET /seed/lastrun)
func (h *Handler) LastRun(c *gin.Context) {
	run, err := h.runs.LastRun(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if run == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, run)
}

// (GET /category/tree)
func (h *Handler) CategoryTree(c *gin.Context) {
	tree, err := h.categories.Tree(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, nonNil(tree))
}

// (POST /category/tree)
func (h *Handler) SaveCategoryTree(c *gin.Context) {
	var nodes []domain.CategoryNode
	if err := c.ShouldBindJSON(&nodes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.categories.SaveTree(c.Request.Context(), nodes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
