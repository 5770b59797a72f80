package api

import (
	"net/http"

	reqdto "book-locker/internal/handler/dto/request"
	"book-locker/internal/handler/httperr"
	"book-locker/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	catalog shared.Catalog
}

func NewBookHandler(catalog shared.Catalog) *BookHandler {
	return &BookHandler{catalog: catalog}
}

// @Summary Upsert catalog book
// @Description Set the title and point price of a book.
// @Tags books
// @Accept json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body reqdto.PutBookRequest true "Book"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /books/{id} [put]
func (h *BookHandler) Put(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.PutBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	if err := h.catalog.PutBook(c.Request.Context(), id, req.Title, *req.Price); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
