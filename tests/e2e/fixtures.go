//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"testing"

	"book-locker/internal/handler/dto/request"
	"book-locker/internal/handler/dto/response"
	"book-locker/tests/common/authtest"
	"book-locker/tests/common/httptest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type ErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (s *SharedSuite) JWT() *authtest.JWTHelper {
	return authtest.NewJWTHelper(s.Config.JWT)
}

func (s *SharedSuite) ProvisionLocker(t *testing.T, adminToken string, number int) response.LockerResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/lockers",
		request.ProvisionLockerRequest{Number: number}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var l response.LockerResponse
	_ = httptest.DecodeResponseBody(t, w.Body, &l)
	return l
}

func (s *SharedSuite) PutBook(t *testing.T, adminToken string, price int64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	w := httptest.PerformRequest(t, s.Router, http.MethodPut, "/api/books/"+id.String(),
		request.PutBookRequest{Title: "Linear Algebra Done Right", Price: &price}, adminToken)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	return id
}

func (s *SharedSuite) Credit(t *testing.T, adminToken string, userID uuid.UUID, amount int64) {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/points/credit",
		request.CreditPointsRequest{UserID: userID, Amount: amount, Reason: "book donation"}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (s *SharedSuite) Balance(t *testing.T, token string) response.BalanceResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/points/balance", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var b response.BalanceResponse
	_ = httptest.DecodeResponseBody(t, w.Body, &b)
	return b
}

func (s *SharedSuite) Locker(t *testing.T, token string, id uuid.UUID) response.LockerResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/lockers/"+id.String(), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var l response.LockerResponse
	_ = httptest.DecodeResponseBody(t, w.Body, &l)
	return l
}

func (s *SharedSuite) ErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e ErrorBody
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Error.Code
}
