package api

import (
	"errors"
	"net/http"

	"pinecone-be/internal/product"
	"pinecone-be/internal/review"
	"pinecone-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) ListProducts(c *gin.Context) {
	opts := product.ListOptions{}
	if category := c.Query("category"); category != "" {
		opts.Category = utils.StrPtr(category)
	}

	products, err := h.products.GetProducts(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.products.GetCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	p, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) ListReviews(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	reviews, err := h.reviews.GetReviews(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reviews"})
		return
	}

	summary, err := h.reviews.GetSummary(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "summary": summary})
}

type addReviewRequest struct {
	UserName string `json:"user_name"`
	Rating   int    `json:"rating" binding:"required"`
	Comment  string `json:"comment" binding:"required"`
}

func (h *Handler) AddReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating and comment are required"})
		return
	}

	rev, err := h.reviews.AddReview(c.Request.Context(), id, nil, req.UserName, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidRating), errors.Is(err, review.ErrMissingComment):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save review"})
		}
		return
	}

	c.JSON(http.StatusCreated, rev)
}
