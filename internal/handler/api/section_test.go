//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"enrollment-core/internal/domain/section"
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

type SectionHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockSections *commandsmock.MockSectionCommands
	mockWaitlist *commandsmock.MockWaitlistCommands
	mockQueries  *queriesmock.MockSectionQueries
	handler      *api.SectionHandler

	student   httptest.Identity
	registrar httptest.Identity
}

func (s *SectionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockSections = commandsmock.NewMockSectionCommands(s.mockCtrl)
	s.mockWaitlist = commandsmock.NewMockWaitlistCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockSectionQueries(s.mockCtrl)
	s.handler = api.NewSectionHandler(s.mockSections, s.mockWaitlist, s.mockQueries)

	s.student = httptest.Identity{ActorID: uuid.NewString(), Role: middleware.RoleStudent}
	s.registrar = httptest.Identity{ActorID: uuid.NewString(), Role: middleware.RoleRegistrar}

	identity := middleware.NewIdentityMiddleware()
	registrarOnly := identity.RequireRole(middleware.RoleRegistrar)
	s.router.GET("/sections/:id/utilization", identity.RequireActor(), s.handler.Utilization)
	s.router.PATCH("/sections/:id/capacity", identity.RequireActor(), registrarOnly, s.handler.ChangeCapacity)
	s.router.POST("/sections/:id/process-waitlist", identity.RequireActor(), registrarOnly, s.handler.ProcessWaitlist)
}

func (s *SectionHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSectionHandlerSuite(t *testing.T) {
	suite.Run(t, new(SectionHandlerTestSuite))
}

func (s *SectionHandlerTestSuite) TestUtilization() {
	sectionID := uuid.New()
	url := "/sections/" + sectionID.String() + "/utilization"

	s.Run("success: returns the utilization snapshot", func() {
		view := &queries.SectionUtilizationView{
			SectionID:      sectionID,
			Name:           "Distributed Systems",
			Capacity:       30,
			Enrolled:       27,
			AvailableSeats: 3,
			UtilizationPct: 90,
			WaitlistLength: 5,
		}
		s.mockQueries.EXPECT().
			Utilization(gomock.Any(), sectionID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.student)

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(float64(27), body["enrolled"])
		s.Equal(float64(90), body["utilization_pct"])
	})

	s.Run("error: 404 Not Found for unknown section", func() {
		s.mockQueries.EXPECT().
			Utilization(gomock.Any(), sectionID).
			Return(nil, errs.ErrNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.student)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *SectionHandlerTestSuite) TestChangeCapacity() {
	sectionID := uuid.New()
	url := "/sections/" + sectionID.String() + "/capacity"

	s.Run("success: returns 204 No Content", func() {
		s.mockSections.EXPECT().
			ChangeCapacity(gomock.Any(), sectionID, 40, gomock.Any()).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"capacity": 40}, s.registrar)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 403 Forbidden for non-registrar roles", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"capacity": 40}, s.student)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient role")
	})

	s.Run("error: 400 Bad Request for non-positive capacity", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"capacity": 0}, s.registrar)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 422 when shrinking below enrollment", func() {
		s.mockSections.EXPECT().
			ChangeCapacity(gomock.Any(), sectionID, 5, gomock.Any()).
			Return(section.ErrCapacityBelowEnrolled).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"capacity": 5}, s.registrar)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Invalid capacity")
	})
}

func (s *SectionHandlerTestSuite) TestProcessWaitlist() {
	sectionID := uuid.New()
	url := "/sections/" + sectionID.String() + "/process-waitlist"

	s.Run("success: returns the sweep report", func() {
		report := &commands.SweepReport{SectionID: sectionID, Expired: 1, Offered: 1}
		s.mockWaitlist.EXPECT().
			ProcessSection(gomock.Any(), sectionID).
			Return(report, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.registrar)

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(float64(1), body["expired"])
		s.Equal(float64(1), body["offered"])
	})

	s.Run("error: 403 Forbidden for non-registrar roles", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.student)
		s.Equal(http.StatusForbidden, rec.Code)
	})
}
