//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"book-locker/internal/domain/locker"
	"book-locker/internal/domain/user"
	"book-locker/internal/handler/api"
	resdto "book-locker/internal/handler/dto/response"
	"book-locker/internal/pkg/errs"
	"book-locker/internal/usecase/queries"
	"book-locker/tests/common/builder"
	"book-locker/tests/common/httptest"
	commandsmock "book-locker/tests/mock/commands"
	queriesmock "book-locker/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type LockerHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockLockerCommands
	mockQueries  *queriesmock.MockLockerQueries
	actor        user.Actor
}

func (s *LockerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockLockerCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockLockerQueries(s.mockCtrl)
	handler := api.NewLockerHandler(s.mockCommands, s.mockQueries)
	s.actor = user.NewActor(uuid.New(), user.RoleAdmin)

	g := s.router.Group("/lockers", fakeAuth(&s.actor))
	g.POST("", handler.Provision)
	g.GET("", handler.List)
	g.GET("/:id", handler.Get)
	g.GET("/:id/logs", handler.Logs)
	g.POST("/:id/open", handler.Open)
	g.POST("/:id/close", handler.Close)
	g.POST("/:id/faults", handler.ReportFault)
	g.POST("/:id/heartbeat", handler.Heartbeat)
	g.POST("/:id/emergency-open", handler.EmergencyOpen)
	g.POST("/:id/disable", handler.Disable)
	g.POST("/:id/acknowledge", handler.Acknowledge)
	g.POST("/:id/reset", handler.Reset)
}

func (s *LockerHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestLockerHandlerSuite(t *testing.T) {
	suite.Run(t, new(LockerHandlerTestSuite))
}

// ================================================================================
// TestProvision / TestList / TestGet
// ================================================================================

func (s *LockerHandlerTestSuite) TestProvision() {
	s.Run("success: returns 201 with an available locker", func() {
		l := builder.NewLockerBuilder().WithNumber(7).Build()
		s.mockCommands.EXPECT().Provision(gomock.Any(), s.actor, 7).Return(l, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers", map[string]any{"number": 7}, "bearer-token")

		var body resdto.LockerResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(l.ID(), body.ID)
		s.Equal(7, body.Number)
		s.Equal("AVAILABLE", body.Status)
		s.False(body.IsBroken)
		s.Nil(body.ReservationID)
	})

	s.Run("error: 400 on a non-positive number", func() {
		for _, n := range []int{0, -3} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers", map[string]any{"number": n}, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
		}
	})

	s.Run("error: 400 on a duplicate number", func() {
		s.mockCommands.EXPECT().Provision(gomock.Any(), s.actor, 7).
			Return(nil, errs.Kind(errs.ErrInvalidArgument, "locker 7 already exists")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers", map[string]any{"number": 7}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *LockerHandlerTestSuite) TestList() {
	s.Run("success: passes the status filter through", func() {
		faulted := builder.NewLockerBuilder().Faulted(locker.FaultSensor, time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)).
			With(func(snap *locker.Snapshot) { snap.IsBroken = true }).Build()
		s.mockQueries.EXPECT().ListLockers(gomock.Any(), "FAULT").
			Return([]*queries.LockerView{queries.NewLockerView(faulted)}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/lockers?status=FAULT", nil, "bearer-token")

		var body []resdto.LockerResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body, 1)
		s.True(body[0].IsBroken)
		s.Equal("SENSOR", body[0].FaultKind)
		s.NotNil(body[0].FaultedAt)
	})

	s.Run("error: 400 on an unknown status", func() {
		s.mockQueries.EXPECT().ListLockers(gomock.Any(), "BROKEN").
			Return(nil, errs.Kind(errs.ErrInvalidArgument, "unknown status")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/lockers?status=BROKEN", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *LockerHandlerTestSuite) TestGet() {
	s.Run("error: 404 for an unknown locker", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetLocker(gomock.Any(), id).
			Return(nil, errs.Kind(errs.ErrNotFound, "locker not found")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/lockers/"+id.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})
}

// ================================================================================
// TestLogs
// ================================================================================

func (s *LockerHandlerTestSuite) TestLogs() {
	id := uuid.New()
	url := "/lockers/" + id.String() + "/logs"

	s.Run("success: renders entries with the limit applied", func() {
		entry, err := locker.NewEmergencyLogEntry(id, s.actor.ID, "fire drill", "FAULT->OPEN",
			time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC))
		s.Require().NoError(err)
		s.mockQueries.EXPECT().ListLogs(gomock.Any(), s.actor, id, 5).
			Return([]queries.LogEntryView{queries.NewLogEntryView(entry)}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?limit=5", nil, "bearer-token")

		var body []resdto.LogEntryResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body, 1)
		s.Equal("EMERGENCY_OPEN", body[0].EventType)
		s.Equal("SUCCESS", body[0].ResultStatus)
		s.Equal("fire drill", body[0].Reason)
		s.Equal("FAULT->OPEN", body[0].Detail)
	})

	s.Run("error: 400 on a bad limit", func() {
		for _, q := range []string{"?limit=abc", "?limit=-1"} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+q, nil, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid limit")
		}
	})

	s.Run("error: 403 when the query layer refuses", func() {
		s.actor = user.NewActor(uuid.New(), user.RoleMember)
		s.mockQueries.EXPECT().ListLogs(gomock.Any(), s.actor, id, 0).
			Return(nil, errs.Kind(errs.ErrUnauthorized, "logs are admin only")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Operation not permitted")
	})
}

// ================================================================================
// TestDoor
// ================================================================================

func (s *LockerHandlerTestSuite) TestDoor() {
	id := uuid.New()

	s.Run("success: open returns the open locker", func() {
		open := builder.NewLockerBuilder().WithID(id).Open(time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)).Build()
		s.mockCommands.EXPECT().Open(gomock.Any(), s.actor, id).Return(open, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers/"+id.String()+"/open", nil, "bearer-token")

		var body resdto.LockerResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("OPEN", body.Status)
		s.NotNil(body.OpenedAt)
	})

	s.Run("error: 409 when the locker is faulted", func() {
		faultErr := errs.Mark(errs.Kind(errs.ErrInvalidTransition, "locker 3 is FAULT"), errs.ErrLockerFault)
		s.mockCommands.EXPECT().Open(gomock.Any(), s.actor, id).Return(nil, faultErr).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers/"+id.String()+"/open", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Locker out of service")
	})

	s.Run("success: close forwards the sensor reading", func() {
		available := builder.NewLockerBuilder().WithID(id).Build()
		s.mockCommands.EXPECT().Close(gomock.Any(), s.actor, id, false).Return(available, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers/"+id.String()+"/close",
			map[string]any{"book_present": false}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 when book_present is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers/"+id.String()+"/close",
			map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

// ================================================================================
// TestEmergencyOpen
// ================================================================================

func (s *LockerHandlerTestSuite) TestEmergencyOpen() {
	id := uuid.New()
	url := "/lockers/" + id.String() + "/emergency-open"

	s.Run("success: reason reaches the command", func() {
		open := builder.NewLockerBuilder().WithID(id).Open(time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)).Build()
		s.mockCommands.EXPECT().EmergencyOpen(gomock.Any(), s.actor, id, "student trapped book").Return(open, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"reason": "student trapped book"}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 without a reason", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": ""}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 500 when the system log is down", func() {
		s.mockCommands.EXPECT().EmergencyOpen(gomock.Any(), s.actor, id, "drill").
			Return(nil, errs.Kind(errs.ErrLogWriteFailed, "append failed")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "drill"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "System log unavailable")
		s.Contains(rec.Body.String(), `"code":"LOG_WRITE_FAILED"`)
	})
}

// ================================================================================
// TestFaults
// ================================================================================

func (s *LockerHandlerTestSuite) TestFaults() {
	id := uuid.New()
	at := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

	s.Run("success: device reports a fault", func() {
		s.actor = user.NewActor(uuid.New(), user.RoleDevice)
		faulted := builder.NewLockerBuilder().WithID(id).Faulted(locker.FaultDoorStuck, at).Build()
		s.mockCommands.EXPECT().ReportFault(gomock.Any(), s.actor, id, locker.FaultDoorStuck).Return(faulted, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers/"+id.String()+"/faults",
			map[string]any{"kind": "DOOR_STUCK"}, "bearer-token")

		var body resdto.LockerResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("FAULT", body.Status)
		s.Equal("DOOR_STUCK", body.FaultKind)
	})

	s.Run("error: 400 on an unknown kind", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers/"+id.String()+"/faults",
			map[string]any{"kind": "SMOKE"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("success: admin acknowledges then resets", func() {
		s.actor = user.NewActor(uuid.New(), user.RoleAdmin)
		acked := builder.NewLockerBuilder().WithID(id).Faulted(locker.FaultDoorStuck, at).
			With(func(snap *locker.Snapshot) { snap.FaultAcknowledged = true }).Build()
		reset := builder.NewLockerBuilder().WithID(id).Build()
		gomock.InOrder(
			s.mockCommands.EXPECT().AcknowledgeFault(gomock.Any(), s.actor, id).Return(acked, nil),
			s.mockCommands.EXPECT().Reset(gomock.Any(), s.actor, id).Return(reset, nil),
		)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers/"+id.String()+"/acknowledge", nil, "bearer-token")
		var body resdto.LockerResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.FaultAcknowledged)

		rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers/"+id.String()+"/reset", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("AVAILABLE", body.Status)
	})

	s.Run("error: reset of a healthy locker", func() {
		s.mockCommands.EXPECT().Reset(gomock.Any(), s.actor, id).
			Return(nil, errs.Kind(errs.ErrInvalidTransition, "not faulted")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers/"+id.String()+"/reset", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Operation not allowed in current state")
	})

	s.Run("success: disable", func() {
		disabled := builder.NewLockerBuilder().WithID(id).Disabled().Build()
		s.mockCommands.EXPECT().Disable(gomock.Any(), s.actor, id).Return(disabled, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers/"+id.String()+"/disable", nil, "bearer-token")
		var body resdto.LockerResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("DISABLED", body.Status)
	})
}

func (s *LockerHandlerTestSuite) TestHeartbeat() {
	id := uuid.New()

	s.Run("success: 204", func() {
		s.mockCommands.EXPECT().Heartbeat(gomock.Any(), s.actor, id).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers/"+id.String()+"/heartbeat", nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
		s.Empty(rec.Body.String())
	})

	s.Run("error: 400 on a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/lockers/abc/heartbeat", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})
}
