//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"enrollment-core/internal/domain/conflict"
	"enrollment-core/internal/handler/api"
	"enrollment-core/internal/handler/middleware"
	"enrollment-core/internal/pkg/errs"
	"enrollment-core/internal/usecase/commands"
	"enrollment-core/internal/usecase/queries"
	"enrollment-core/tests/common/httptest"
	commandsmock "enrollment-core/tests/mock/commands"
	queriesmock "enrollment-core/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ConflictHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockConflictCommands
	mockQueries  *queriesmock.MockConflictQueries
	handler      *api.ConflictHandler

	student  httptest.Identity
	reviewer httptest.Identity
}

func (s *ConflictHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockConflictCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockConflictQueries(s.mockCtrl)
	s.handler = api.NewConflictHandler(s.mockCommands, s.mockQueries)

	s.student = httptest.Identity{ActorID: uuid.NewString(), Role: middleware.RoleStudent}
	s.reviewer = httptest.Identity{ActorID: uuid.NewString(), Role: middleware.RoleReviewer}

	identity := middleware.NewIdentityMiddleware()
	reviewOnly := identity.RequireRole(middleware.RoleReviewer, middleware.RoleRegistrar)
	group := s.router.Group("/conflicts", identity.RequireActor(), reviewOnly)
	group.GET("", s.handler.ListOpen)
	group.POST("/detect", s.handler.Detect)
	group.POST("/:id/investigate", s.handler.Investigate)
	group.POST("/:id/resolve", s.handler.Resolve)
}

func (s *ConflictHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestConflictHandlerSuite(t *testing.T) {
	suite.Run(t, new(ConflictHandlerTestSuite))
}

func (s *ConflictHandlerTestSuite) TestDetect() {
	url := "/conflicts/detect"
	sectionID := uuid.New()
	reqBody := map[string]any{"section_id": sectionID.String()}

	s.Run("success: returns the scan report", func() {
		report := &commands.ScanReport{SectionID: sectionID, Scanned: 12, Found: 2}
		s.mockCommands.EXPECT().
			Detect(gomock.Any(), sectionID).
			Return(report, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.reviewer)

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(float64(12), body["scanned"])
		s.Equal(float64(2), body["found"])
	})

	s.Run("error: 403 Forbidden for students", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("success: omitting the section scans everything", func() {
		report := &commands.ScanReport{Scanned: 40, Found: 3}
		s.mockCommands.EXPECT().
			Detect(gomock.Any(), uuid.Nil).
			Return(report, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, s.reviewer)

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(float64(40), body["scanned"])
		s.Equal(float64(3), body["found"])
	})
}

func (s *ConflictHandlerTestSuite) TestListOpen() {
	sectionID := uuid.New()
	url := "/conflicts?section_id=" + sectionID.String()

	s.Run("success: returns open findings", func() {
		views := []*queries.ConflictView{
			{
				ID:         uuid.New(),
				Kind:       string(conflict.KindScheduleOverlap),
				ActorID:    uuid.New(),
				SectionID:  sectionID,
				Status:     "open",
				Detail:     "meeting overlap",
				DetectedAt: time.Now(),
			},
		}
		s.mockQueries.EXPECT().
			ListOpenBySection(gomock.Any(), sectionID).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.reviewer)

		var body []map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 1)
		s.Equal("schedule-overlap", body[0]["kind"])
	})

	s.Run("error: 400 Bad Request for malformed section ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/conflicts?section_id=junk", nil, s.reviewer)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *ConflictHandlerTestSuite) TestInvestigate() {
	conflictID := uuid.New()
	url := "/conflicts/" + conflictID.String() + "/investigate"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().
			Investigate(gomock.Any(), conflictID, gomock.Any(), gomock.Any()).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.reviewer)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for malformed conflict ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/conflicts/not-a-uuid/investigate", nil, s.reviewer)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 409 Conflict when already resolved", func() {
		s.mockCommands.EXPECT().
			Investigate(gomock.Any(), conflictID, gomock.Any(), gomock.Any()).
			Return(errs.Mark(errs.New("conflict already resolved"), errs.ErrInvalidTransition)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.reviewer)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Operation not allowed")
	})
}

func (s *ConflictHandlerTestSuite) TestResolve() {
	conflictID := uuid.New()
	url := "/conflicts/" + conflictID.String() + "/resolve"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().
			Resolve(gomock.Any(), conflictID, conflict.StrategyManualOverride, gomock.Any(), gomock.Any()).
			Return(nil).Times(1)

		reqBody := map[string]any{"strategy": "manual-override"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.reviewer)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for an unknown strategy", func() {
		reqBody := map[string]any{"strategy": "wish-it-away"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.reviewer)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 409 Conflict when already resolved", func() {
		s.mockCommands.EXPECT().
			Resolve(gomock.Any(), conflictID, conflict.StrategyDenyAndNotify, gomock.Any(), gomock.Any()).
			Return(errs.Mark(errs.New("conflict already resolved"), errs.ErrInvalidTransition)).Times(1)

		reqBody := map[string]any{"strategy": "deny-and-notify"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.reviewer)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Operation not allowed")
	})

	s.Run("error: 404 Not Found for unknown conflict", func() {
		s.mockCommands.EXPECT().
			Resolve(gomock.Any(), conflictID, conflict.StrategyManualOverride, gomock.Any(), gomock.Any()).
			Return(errs.ErrNotFound).Times(1)

		reqBody := map[string]any{"strategy": "manual-override"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.reviewer)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
