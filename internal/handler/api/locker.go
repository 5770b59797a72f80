package api

import (
	"net/http"

	"book-locker/internal/domain/locker"
	"book-locker/internal/domain/user"
	reqdto "book-locker/internal/handler/dto/request"
	resdto "book-locker/internal/handler/dto/response"
	"book-locker/internal/handler/httperr"
	"book-locker/internal/usecase/commands"
	"book-locker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LockerHandler struct {
	cmds commands.LockerCommands
	q    queries.LockerQueries
}

func NewLockerHandler(cmds commands.LockerCommands, q queries.LockerQueries) *LockerHandler {
	return &LockerHandler{cmds: cmds, q: q}
}

type lockerAction func(c *gin.Context, actor user.Actor, id uuid.UUID) (*locker.Locker, error)

// run resolves the actor and path id, applies the action and renders the resulting locker.
func (h *LockerHandler) run(c *gin.Context, action lockerAction) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	l, err := action(c, actor, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromLockerView(queries.NewLockerView(l)))
}

// @Summary Provision locker
// @Tags lockers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ProvisionLockerRequest true "Locker"
// @Success 201 {object} resdto.LockerResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /lockers [post]
func (h *LockerHandler) Provision(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req reqdto.ProvisionLockerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	l, err := h.cmds.Provision(c.Request.Context(), actor, req.Number)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromLockerView(queries.NewLockerView(l)))
}

// @Summary List lockers
// @Tags lockers
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} resdto.LockerResponse
// @Failure 400 {object} httperr.Response
// @Router /lockers [get]
func (h *LockerHandler) List(c *gin.Context) {
	views, err := h.q.ListLockers(c.Request.Context(), c.Query("status"))
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	out := make([]*resdto.LockerResponse, 0, len(views))
	for _, v := range views {
		out = append(out, resdto.FromLockerView(v))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Get locker status
// @Tags lockers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Locker ID"
// @Success 200 {object} resdto.LockerResponse
// @Failure 404 {object} httperr.Response
// @Router /lockers/{id} [get]
func (h *LockerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetLocker(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromLockerView(view))
}

// @Summary List locker system log
// @Tags lockers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Locker ID"
// @Param limit query int false "Max entries"
// @Success 200 {array} resdto.LogEntryResponse
// @Failure 403 {object} httperr.Response
// @Router /lockers/{id}/logs [get]
func (h *LockerHandler) Logs(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	views, err := h.q.ListLogs(c.Request.Context(), actor, id, limit)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	out := make([]resdto.LogEntryResponse, 0, len(views))
	for _, v := range views {
		out = append(out, resdto.FromLogEntryView(v))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Open locker door
// @Tags lockers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Locker ID"
// @Success 200 {object} resdto.LockerResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /lockers/{id}/open [post]
func (h *LockerHandler) Open(c *gin.Context) {
	h.run(c, func(c *gin.Context, actor user.Actor, id uuid.UUID) (*locker.Locker, error) {
		return h.cmds.Open(c.Request.Context(), actor, id)
	})
}

// @Summary Close locker door
// @Tags lockers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Locker ID"
// @Param request body reqdto.CloseLockerRequest true "Sensor reading"
// @Success 200 {object} resdto.LockerResponse
// @Failure 409 {object} httperr.Response
// @Router /lockers/{id}/close [post]
func (h *LockerHandler) Close(c *gin.Context) {
	var req reqdto.CloseLockerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	h.run(c, func(c *gin.Context, actor user.Actor, id uuid.UUID) (*locker.Locker, error) {
		return h.cmds.Close(c.Request.Context(), actor, id, *req.BookPresent)
	})
}

// @Summary Emergency open
// @Description Force the door open. The reason is written to the system log first.
// @Tags lockers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Locker ID"
// @Param request body reqdto.EmergencyOpenRequest true "Reason"
// @Success 200 {object} resdto.LockerResponse
// @Failure 403 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /lockers/{id}/emergency-open [post]
func (h *LockerHandler) EmergencyOpen(c *gin.Context) {
	var req reqdto.EmergencyOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	h.run(c, func(c *gin.Context, actor user.Actor, id uuid.UUID) (*locker.Locker, error) {
		return h.cmds.EmergencyOpen(c.Request.Context(), actor, id, req.Reason)
	})
}

// @Summary Disable locker
// @Tags lockers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Locker ID"
// @Success 200 {object} resdto.LockerResponse
// @Router /lockers/{id}/disable [post]
func (h *LockerHandler) Disable(c *gin.Context) {
	h.run(c, func(c *gin.Context, actor user.Actor, id uuid.UUID) (*locker.Locker, error) {
		return h.cmds.Disable(c.Request.Context(), actor, id)
	})
}

// @Summary Acknowledge fault
// @Tags lockers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Locker ID"
// @Success 200 {object} resdto.LockerResponse
// @Failure 409 {object} httperr.Response
// @Router /lockers/{id}/acknowledge [post]
func (h *LockerHandler) Acknowledge(c *gin.Context) {
	h.run(c, func(c *gin.Context, actor user.Actor, id uuid.UUID) (*locker.Locker, error) {
		return h.cmds.AcknowledgeFault(c.Request.Context(), actor, id)
	})
}

// @Summary Reset locker
// @Description Return a repaired locker to service.
// @Tags lockers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Locker ID"
// @Success 200 {object} resdto.LockerResponse
// @Failure 409 {object} httperr.Response
// @Router /lockers/{id}/reset [post]
func (h *LockerHandler) Reset(c *gin.Context) {
	h.run(c, func(c *gin.Context, actor user.Actor, id uuid.UUID) (*locker.Locker, error) {
		return h.cmds.Reset(c.Request.Context(), actor, id)
	})
}

// @Summary Report fault
// @Tags lockers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Locker ID"
// @Param request body reqdto.ReportFaultRequest true "Fault"
// @Success 200 {object} resdto.LockerResponse
// @Failure 409 {object} httperr.Response
// @Router /lockers/{id}/faults [post]
func (h *LockerHandler) ReportFault(c *gin.Context) {
	var req reqdto.ReportFaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	h.run(c, func(c *gin.Context, actor user.Actor, id uuid.UUID) (*locker.Locker, error) {
		return h.cmds.ReportFault(c.Request.Context(), actor, id, req.FaultKind())
	})
}

// @Summary Device heartbeat
// @Tags lockers
// @Security BearerAuth
// @Param id path string true "Locker ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Router /lockers/{id}/heartbeat [post]
func (h *LockerHandler) Heartbeat(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cmds.Heartbeat(c.Request.Context(), actor, id); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
