package api

import (
	"net/http"
	"strconv"

	"book-locker/internal/domain/user"
	"book-locker/internal/handler/httperr"
	"book-locker/internal/handler/middleware"
	"book-locker/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errMissingActor = errs.New("authenticated actor missing from context")

func requireActor(c *gin.Context) (user.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
		return user.Actor{}, false
	}
	return actor, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}

// queryLimit returns 0 when the parameter is absent so the query layer applies its default.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		if err == nil {
			err = errs.Newf("negative limit %d", n)
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid limit", nil)
		return 0, false
	}
	return n, true
}
