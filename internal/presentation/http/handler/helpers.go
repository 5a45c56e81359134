package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopledger-api/pkg/pagination"
)

// parseID reads a UUID path parameter, writing a 400 response when it is malformed
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "Invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

// queryYear reads ?year=, defaulting to the current year
func queryYear(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		response.BadRequest(c, "Invalid year")
		return 0, false
	}
	return year, true
}

func pageParams(page, perPage int) *pagination.Params {
	params := &pagination.Params{Page: page, PerPage: perPage}
	params.Normalize()
	return params
}
