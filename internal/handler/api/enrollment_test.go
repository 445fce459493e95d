//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"enrollment-core/internal/domain/enrollment"
	"enrollment-core/internal/domain/ratelimit"
	"enrollment-core/internal/handler/api"
	"enrollment-core/internal/handler/middleware"
	"enrollment-core/internal/pkg/errs"
	"enrollment-core/internal/usecase/commands"
	"enrollment-core/internal/usecase/queries"
	"enrollment-core/tests/common/httptest"
	"enrollment-core/tests/common/testutil"
	commandsmock "enrollment-core/tests/mock/commands"
	queriesmock "enrollment-core/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type EnrollmentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockEnrollmentCommands
	mockQueries  *queriesmock.MockEnrollmentQueries
	handler      *api.EnrollmentHandler

	student httptest.Identity
}

func (s *EnrollmentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockEnrollmentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockEnrollmentQueries(s.mockCtrl)
	s.handler = api.NewEnrollmentHandler(s.mockCommands, s.mockQueries)

	s.student = httptest.Identity{ActorID: uuid.NewString(), Role: middleware.RoleStudent}

	identity := middleware.NewIdentityMiddleware()
	s.router.POST("/enrollments", identity.RequireActor(), s.handler.Submit)
	s.router.GET("/enrollments", identity.RequireActor(), s.handler.List)
	s.router.DELETE("/enrollments", identity.RequireActor(), s.handler.Withdraw)
	s.router.POST("/enrollments/:id/approve", identity.RequireActor(), s.handler.Approve)
	s.router.POST("/enrollments/:id/deny", identity.RequireActor(), s.handler.Deny)
}

func (s *EnrollmentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestEnrollmentHandlerSuite(t *testing.T) {
	suite.Run(t, new(EnrollmentHandlerTestSuite))
}

func (s *EnrollmentHandlerTestSuite) TestSubmit() {
	url := "/enrollments"
	sectionID := uuid.New()
	reqBody := map[string]any{"section_id": sectionID.String()}

	s.Run("success: returns 201 Created with the decision", func() {
		result := &commands.EnrollmentResult{EnrollmentID: uuid.New(), Status: enrollment.StatusEnrolled}
		s.mockCommands.EXPECT().
			SubmitRequest(gomock.Any(), gomock.Any(), sectionID, gomock.Any(), gomock.Any()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(result.EnrollmentID.String(), body["enrollment_id"])
		s.Equal("enrolled", body["status"])
	})

	s.Run("success: waitlist placement carries the position", func() {
		result := &commands.EnrollmentResult{EnrollmentID: uuid.New(), Status: enrollment.StatusWaitlisted, Position: 3}
		s.mockCommands.EXPECT().
			SubmitRequest(gomock.Any(), gomock.Any(), sectionID, gomock.Any(), gomock.Any()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal("waitlisted", body["status"])
		s.Equal(float64(3), body["position"])
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing section_id", mutate: testutil.Field("section_id", nil)},
			{name: "malformed section_id", mutate: testutil.Field("section_id", "not-a-uuid")},
			{name: "justification too long", mutate: testutil.Field("justification", strings.Repeat("a", 1001))},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.student)
				s.Equal(http.StatusBadRequest, rec.Code)
			})
		}
	})

	s.Run("error: 401 Unauthorized without identity headers", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, httptest.Identity{})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Actor identity required")
	})

	s.Run("error: 429 with Retry-After when rate limited", func() {
		blocked := time.Now().Add(45 * time.Second)
		rlErr := &commands.RateLimitedError{Decision: ratelimit.Decision{
			Allowed:      false,
			ResetAt:      blocked,
			BlockedUntil: &blocked,
		}}
		s.mockCommands.EXPECT().
			SubmitRequest(gomock.Any(), gomock.Any(), sectionID, gomock.Any(), gomock.Any()).
			Return(nil, rlErr).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)

		httptest.AssertErrorResponse(s.T(), rec, http.StatusTooManyRequests, "Too many requests")
		s.NotEmpty(rec.Header().Get("Retry-After"))
	})

	s.Run("error: taxonomy maps onto statuses", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			// Marked the way the command layer produces them, not bare
			// sentinels, so the mapping is tested on the production shape.
			{name: "duplicate enrollment", err: errs.Mark(errs.New("actor already enrolled in section"), errs.ErrAlreadyEnrolled), expectCode: http.StatusConflict},
			{name: "section and queue full", err: errs.Mark(errs.New("no seat and no queue slot"), errs.ErrAtCapacity), expectCode: http.StatusConflict},
			{name: "prerequisite not met", err: errs.Mark(errs.New("grade below minimum"), errs.ErrPrerequisiteNotMet), expectCode: http.StatusUnprocessableEntity},
			{name: "restriction violated", err: errs.Mark(errs.New("cohort rule"), errs.ErrRestrictionViolated), expectCode: http.StatusUnprocessableEntity},
			{name: "unknown section", err: errs.Mark(errs.New("section row missing"), errs.ErrNotFound), expectCode: http.StatusNotFound},
			{name: "storage down", err: errs.Mark(errs.New("pool closed"), errs.ErrStorageUnavailable), expectCode: http.StatusServiceUnavailable},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().
					SubmitRequest(gomock.Any(), gomock.Any(), sectionID, gomock.Any(), gomock.Any()).
					Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})
}

func (s *EnrollmentHandlerTestSuite) TestApprove() {
	requestID := uuid.New()
	url := "/enrollments/" + requestID.String() + "/approve"

	s.Run("success: returns 200 OK with the decision", func() {
		result := &commands.EnrollmentResult{EnrollmentID: requestID, Status: enrollment.StatusEnrolled}
		s.mockCommands.EXPECT().
			Approve(gomock.Any(), requestID, gomock.Any()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.student)

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("enrolled", body["status"])
	})

	s.Run("error: 400 Bad Request for malformed ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/enrollments/not-a-uuid/approve", nil, s.student)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 409 Conflict when already decided", func() {
		s.mockCommands.EXPECT().
			Approve(gomock.Any(), requestID, gomock.Any()).
			Return(nil, errs.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.student)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Operation not allowed")
	})
}

func (s *EnrollmentHandlerTestSuite) TestDeny() {
	requestID := uuid.New()
	url := "/enrollments/" + requestID.String() + "/deny"
	reqBody := map[string]any{"reason": "prerequisite review failed"}

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().
			Deny(gomock.Any(), requestID, gomock.Any(), "prerequisite review failed").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request when reason missing", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("reason", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.student)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *EnrollmentHandlerTestSuite) TestWithdraw() {
	url := "/enrollments"
	sectionID := uuid.New()
	reqBody := map[string]any{"section_id": sectionID.String()}

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().
			Withdraw(gomock.Any(), gomock.Any(), sectionID, gomock.Any(), gomock.Any()).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, reqBody, s.student)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 Not Found without an active record", func() {
		s.mockCommands.EXPECT().
			Withdraw(gomock.Any(), gomock.Any(), sectionID, gomock.Any(), gomock.Any()).
			Return(errs.ErrNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, reqBody, s.student)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})
}

func (s *EnrollmentHandlerTestSuite) TestList() {
	url := "/enrollments"

	s.Run("success: returns the actor's enrollments", func() {
		items := []*queries.EnrollmentListItem{
			{ID: uuid.New(), SectionID: uuid.New(), SectionName: "Distributed Systems", Status: "enrolled", RequestedAt: time.Now()},
			{ID: uuid.New(), SectionID: uuid.New(), SectionName: "Compilers", Status: "waitlisted", RequestedAt: time.Now()},
		}
		s.mockQueries.EXPECT().
			ListByActor(gomock.Any(), gomock.Any()).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.student)

		var body []map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 2)
		s.Equal("Distributed Systems", body[0]["section_name"])
	})

	s.Run("success: empty list stays a JSON array", func() {
		s.mockQueries.EXPECT().
			ListByActor(gomock.Any(), gomock.Any()).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.student)

		var body []map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body)
	})
}
