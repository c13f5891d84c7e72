package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kaua3045/ecommerce-users/internal/core/port"
)

// searchQuery reads ?page=&perPage=&search=&sort=&dir=. Unparseable numbers fall back to defaults.
func searchQuery(c *gin.Context, defaultSort string) port.SearchQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", "0"))

	return port.SearchQuery{
		Page:      page,
		PerPage:   perPage,
		Terms:     c.Query("search"),
		Sort:      c.DefaultQuery("sort", defaultSort),
		Direction: c.DefaultQuery("dir", "asc"),
	}.Normalize()
}
