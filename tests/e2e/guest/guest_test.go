//go:build e2e

package guest_test

import (
	"net/http"
	"testing"

	"splashboard/internal/domain/user"
	"splashboard/internal/handler/dto/request"
	"splashboard/tests/common/authtest"
	"splashboard/tests/common/dbtest"
	"splashboard/tests/common/httptest"
	"splashboard/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	availabilityURL = "/api/guest/availability"
	signupsURL      = "/api/guest/signups"
	recountURL      = "/api/guest/recount"
)

type guestSuite struct {
	e2e.SharedSuite
}

func TestGuestSuite(t *testing.T) {
	suite.Run(t, new(guestSuite))
}

func intPtr(v int) *int { return &v }

func signupBody(day string, guests int) request.SetSignupRequest {
	return request.SetSignupRequest{
		Season: dbtest.TestSeason,
		Day:    day,
		Guests: intPtr(guests),
	}
}

type snapshotBody struct {
	Season    string `json:"season"`
	Day       string `json:"day"`
	Guests    int    `json:"guests"`
	Cap       int    `json:"cap"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	Version   int64  `json:"ver"`
}

type conflictBody struct {
	Error struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error"`
}

func (s *guestSuite) TestSetSignup() {
	s.Run("申込と絶対値更新", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 3), token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var snap snapshotBody
		httptest.DecodeResponseBody(t, w.Body, &snap)
		require.Equal(t, 3, snap.Guests)
		require.Equal(t, 3, snap.Used)
		require.Equal(t, 25, snap.Cap)
		require.Equal(t, 22, snap.Remaining)

		// 差分ではなく絶対値で上書きされること
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 2), token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		httptest.DecodeResponseBody(t, w.Body, &snap)
		require.Equal(t, 2, snap.Used)

		var dbGuests int
		err := s.DB.QueryRow(t.Context(),
			"SELECT guests FROM guest_signups WHERE season = $1 AND day = '2025-07-04'", dbtest.TestSeason).Scan(&dbGuests)
		require.NoError(t, err)
		require.Equal(t, 2, dbGuests)
	})

	s.Run("ゼロ指定で申込が消えること", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 3), token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 0), token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var snap snapshotBody
		httptest.DecodeResponseBody(t, w.Body, &snap)
		require.Equal(t, 0, snap.Used)

		var count int
		err := s.DB.QueryRow(t.Context(),
			"SELECT count(*) FROM guest_signups WHERE season = $1", dbtest.TestSeason).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 0, count, "名簿行が残っている")
	})

	s.Run("個人上限の超過", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 6), token)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		var body conflictBody
		httptest.DecodeResponseBody(t, w.Body, &body)
		require.Equal(t, "per_user_cap_exceeded", body.Error.Reason)

		// 拒否後もカウンタは汚れていないこと
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 5), token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("日次上限の超過", func() {
		t := s.T()
		dbtest.SetDayCap(t, s.DB, dbtest.TestSeason, 4)

		tokenA := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", string(user.RoleMember))
		tokenB := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 3), tokenA)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 2), tokenB)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		var body conflictBody
		httptest.DecodeResponseBody(t, w.Body, &body)
		require.Equal(t, "day_cap_exceeded", body.Error.Reason)

		// ちょうど埋まる分は通ること
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 1), tokenB)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var snap snapshotBody
		httptest.DecodeResponseBody(t, w.Body, &snap)
		require.Equal(t, 4, snap.Used)
		require.Equal(t, 0, snap.Remaining)
	})

	s.Run("シーズン範囲外の日付", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-10-01", 2), token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})

	s.Run("認証なしは拒否", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 2), "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("申請者ロールは使えない", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "applicant@example.com", string(user.RoleApplicant))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 2), token)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}

func (s *guestSuite) TestAvailability() {
	s.Run("シーズン全日の残容量", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-06-01", 4), token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, availabilityURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view struct {
			Season string `json:"season"`
			Days   []struct {
				Day       string `json:"day"`
				Used      int    `json:"used"`
				Remaining int    `json:"remaining"`
			} `json:"days"`
		}
		httptest.DecodeResponseBody(t, w.Body, &view)
		require.Equal(t, dbtest.TestSeason, view.Season)
		// 6/1〜9/1 は両端含めて93日
		require.Len(t, view.Days, 93)
		require.Equal(t, "2025-06-01", view.Days[0].Day)
		require.Equal(t, 4, view.Days[0].Used)
		require.Equal(t, 21, view.Days[0].Remaining)
		require.Equal(t, 0, view.Days[1].Used)
	})
}

func (s *guestSuite) TestMySignups() {
	s.Run("自分の申込のみ返ること", func() {
		t := s.T()
		tokenA := authtest.CreateAndLogin(t, s.DB, s.Router, "alice@example.com", string(user.RoleMember))
		tokenB := authtest.CreateAndLogin(t, s.DB, s.Router, "bob@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 2), tokenA)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-08-01", 1), tokenB)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, signupsURL, nil, tokenA)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view struct {
			Signups []struct {
				Day    string `json:"day"`
				Guests int    `json:"guests"`
			} `json:"signups"`
		}
		httptest.DecodeResponseBody(t, w.Body, &view)
		require.Len(t, view.Signups, 1)
		require.Equal(t, "2025-07-04", view.Signups[0].Day)
		require.Equal(t, 2, view.Signups[0].Guests)
	})
}

func (s *guestSuite) TestRosterAndRecount() {
	s.Run("日別名簿", func() {
		t := s.T()
		memberToken := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 3), memberToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/guest/roster/2025-07-04", nil, memberToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var roster struct {
			Used    int `json:"used"`
			Signups []struct {
				Email  string `json:"email"`
				Guests int    `json:"guests"`
			} `json:"signups"`
		}
		httptest.DecodeResponseBody(t, w.Body, &roster)
		require.Equal(t, 3, roster.Used)
		require.Len(t, roster.Signups, 1)
		require.Equal(t, "member@example.com", roster.Signups[0].Email)

		// 範囲外の日付は処理できない
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/guest/roster/2025-10-01", nil, memberToken)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})

	s.Run("再集計は管理者のみ", func() {
		t := s.T()
		memberToken := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", string(user.RoleMember))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, recountURL, nil, memberToken)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("再集計で名簿とカウンタが一致すること", func() {
		t := s.T()
		memberToken := authtest.CreateAndLogin(t, s.DB, s.Router, "member@example.com", string(user.RoleMember))
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, signupsURL, signupBody("2025-07-04", 3), memberToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// カウンタを消して名簿とずらす
		require.NoError(t, s.Redis.FlushAll(t.Context()).Err())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, recountURL, nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result struct {
			Season string `json:"season"`
			Days   []struct {
				Day  string `json:"day"`
				Used int    `json:"used"`
			} `json:"days"`
		}
		httptest.DecodeResponseBody(t, w.Body, &result)
		require.Equal(t, dbtest.TestSeason, result.Season)

		found := false
		for _, d := range result.Days {
			if d.Day == "2025-07-04" {
				require.Equal(t, 3, d.Used, "再集計後の人数が名簿と不一致")
				found = true
			}
		}
		require.True(t, found, "再集計結果に対象日が含まれていない")
	})
}
