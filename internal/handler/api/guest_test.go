//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"splashboard/internal/domain/guest"
	"splashboard/internal/domain/season"
	"splashboard/internal/handler/api"
	"splashboard/internal/usecase/commands"
	"splashboard/internal/usecase/queries"
)

type MockGuestCommands struct {
	mock.Mock
}

func (m *MockGuestCommands) SetSignup(ctx context.Context, userID uuid.UUID, sn season.ID, d season.Day, guests int) (*guest.DaySnapshot, error) {
	args := m.Called(ctx, userID, sn, d, guests)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*guest.DaySnapshot), args.Error(1)
}

func (m *MockGuestCommands) RecountSeason(ctx context.Context, sn season.ID) ([]guest.DayUpdate, error) {
	args := m.Called(ctx, sn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]guest.DayUpdate), args.Error(1)
}

type MockGuestQueries struct {
	mock.Mock
}

func (m *MockGuestQueries) Availability(ctx context.Context, sn season.ID) (*queries.AvailabilityView, error) {
	args := m.Called(ctx, sn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.AvailabilityView), args.Error(1)
}

func (m *MockGuestQueries) MySignups(ctx context.Context, sn season.ID, userID uuid.UUID) (*queries.MySignupsView, error) {
	args := m.Called(ctx, sn, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.MySignupsView), args.Error(1)
}

func (m *MockGuestQueries) DayRoster(ctx context.Context, sn season.ID, d season.Day) (*queries.DayRosterView, error) {
	args := m.Called(ctx, sn, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.DayRosterView), args.Error(1)
}

type GuestHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCommands *MockGuestCommands
	mockQueries  *MockGuestQueries
	userID       uuid.UUID
}

func (s *GuestHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCommands = new(MockGuestCommands)
	s.mockQueries = new(MockGuestQueries)
	s.userID = uuid.New()
	handler := api.NewGuestHandler(s.mockCommands, s.mockQueries)

	// 認証ミドルウェアの代わりにユーザーIDだけ積む
	withUser := func(c *gin.Context) {
		c.Set("user_id", s.userID)
	}

	s.router.GET("/api/guest/availability", withUser, handler.Availability)
	s.router.GET("/api/guest/signups", withUser, handler.MySignups)
	s.router.PUT("/api/guest/signups", withUser, handler.SetSignup)
	s.router.GET("/api/guest/roster/:day", withUser, handler.DayRoster)
	s.router.POST("/api/guest/recount", withUser, handler.Recount)
}

func TestGuestHandlerSuite(t *testing.T) {
	suite.Run(t, new(GuestHandlerTestSuite))
}

func (s *GuestHandlerTestSuite) putSignup(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/guest/signups", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *GuestHandlerTestSuite) TestSetSignupSuccess() {
	snapshot := &guest.DaySnapshot{
		Season:    season.ID("2025"),
		Day:       season.Day("2025-07-04"),
		Guests:    3,
		Cap:       25,
		Used:      10,
		Remaining: 15,
		Version:   4,
	}
	s.mockCommands.On("SetSignup", mock.Anything, s.userID, season.ID("2025"), season.Day("2025-07-04"), 3).
		Return(snapshot, nil)

	w := s.putSignup(`{"season":"2025","day":"2025-07-04","guests":3}`)

	s.Equal(http.StatusOK, w.Code)
	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(float64(3), body["guests"])
	s.Equal(float64(15), body["remaining"])
	s.mockCommands.AssertExpectations(s.T())
}

func (s *GuestHandlerTestSuite) TestSetSignupZeroIsValid() {
	snapshot := &guest.DaySnapshot{Season: season.ID("2025"), Day: season.Day("2025-07-04")}
	s.mockCommands.On("SetSignup", mock.Anything, s.userID, season.ID(""), season.Day("2025-07-04"), 0).
		Return(snapshot, nil)

	w := s.putSignup(`{"day":"2025-07-04","guests":0}`)
	s.Equal(http.StatusOK, w.Code)
}

func (s *GuestHandlerTestSuite) TestSetSignupConflictCarriesReason() {
	tests := []struct {
		name       string
		err        error
		wantReason string
	}{
		{name: "day cap", err: commands.ErrDayCapExceeded, wantReason: guest.ReasonDayCapExceeded},
		{name: "per user cap", err: commands.ErrPerUserCapExceeded, wantReason: guest.ReasonPerUserCapExceeded},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			s.mockCommands.On("SetSignup", mock.Anything, s.userID, season.ID("2025"), season.Day("2025-07-04"), 5).
				Return(nil, tt.err)

			w := s.putSignup(`{"season":"2025","day":"2025-07-04","guests":5}`)

			s.Equal(http.StatusConflict, w.Code)
			var body map[string]any
			s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
			errObj := body["error"].(map[string]any)
			s.Equal(tt.wantReason, errObj["reason"])
		})
	}
}

func (s *GuestHandlerTestSuite) TestSetSignupBadRequests() {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing guests", body: `{"day":"2025-07-04"}`},
		{name: "missing day", body: `{"guests":2}`},
		{name: "malformed day", body: `{"day":"07/04/2025","guests":2}`},
		{name: "bad season", body: `{"season":"25","day":"2025-07-04","guests":2}`},
		{name: "not json", body: `day=2025-07-04`},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.putSignup(tt.body)
			s.Equal(http.StatusBadRequest, w.Code)
		})
	}
	s.mockCommands.AssertNotCalled(s.T(), "SetSignup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *GuestHandlerTestSuite) TestSetSignupOutOfRange() {
	s.mockCommands.On("SetSignup", mock.Anything, s.userID, season.ID(""), season.Day("2025-10-01"), 2).
		Return(nil, commands.ErrDayOutOfRange)

	w := s.putSignup(`{"day":"2025-10-01","guests":2}`)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *GuestHandlerTestSuite) TestDayRosterOutOfRange() {
	s.mockQueries.On("DayRoster", mock.Anything, season.ID(""), season.Day("2025-10-01")).
		Return(nil, queries.ErrDayOutOfRange)

	req := httptest.NewRequest(http.MethodGet, "/api/guest/roster/2025-10-01", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *GuestHandlerTestSuite) TestAvailability() {
	view := &queries.AvailabilityView{
		Season:     season.ID("2025"),
		Start:      season.Day("2025-06-01"),
		End:        season.Day("2025-09-01"),
		PerDayCap:  25,
		PerUserMax: 5,
		Days: []queries.AvailabilityDayView{
			{Day: season.Day("2025-06-01"), Cap: 25, Used: 3, Remaining: 22},
		},
	}
	s.mockQueries.On("Availability", mock.Anything, season.ID("")).Return(view, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/guest/availability", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	var body queries.AvailabilityView
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(season.ID("2025"), body.Season)
	s.Len(body.Days, 1)
}

func (s *GuestHandlerTestSuite) TestRecount() {
	updates := []guest.DayUpdate{
		{Season: season.ID("2025"), Day: season.Day("2025-06-01"), Used: 4, Version: 2},
	}
	s.mockCommands.On("RecountSeason", mock.Anything, season.ID("2025")).Return(updates, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/guest/recount?season=2025", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("2025", body["season"])
}
