package api

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Meta carries the status and human-readable message of every response.
type Meta struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Response is the envelope wrapping all API payloads.
type Response struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Current    int   `json:"current"`
}

// PaginatedResponse is the envelope for list endpoints.
type PaginatedResponse struct {
	Meta       Meta        `json:"meta"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func success(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{
		Meta: Meta{Status: status, Message: message},
		Data: data,
	})
}

func failure(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Meta: Meta{Status: status, Message: message},
		Data: nil,
	})
}

func notFound(c *gin.Context, message string) {
	failure(c, http.StatusNotFound, message)
}

func paginated(c *gin.Context, data interface{}, total int64, page, limit int, message string) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Meta: Meta{Status: http.StatusOK, Message: message},
		Data: data,
		Pagination: Pagination{
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
			Current:    page,
		},
	})
}
