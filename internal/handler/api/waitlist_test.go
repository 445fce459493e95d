//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"enrollment-core/internal/domain/enrollment"
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

type WaitlistHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockWaitlistCommands
	mockQueries  *queriesmock.MockWaitlistQueries
	handler      *api.WaitlistHandler

	student   httptest.Identity
	registrar httptest.Identity
}

func (s *WaitlistHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockWaitlistCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockWaitlistQueries(s.mockCtrl)
	s.handler = api.NewWaitlistHandler(s.mockCommands, s.mockQueries)

	s.student = httptest.Identity{ActorID: uuid.NewString(), Role: middleware.RoleStudent}
	s.registrar = httptest.Identity{ActorID: uuid.NewString(), Role: middleware.RoleRegistrar}

	identity := middleware.NewIdentityMiddleware()
	s.router.POST("/waitlist", identity.RequireActor(), s.handler.Join)
	s.router.GET("/waitlist/position", identity.RequireActor(), s.handler.Position)
	s.router.POST("/waitlist/respond", identity.RequireActor(), s.handler.Respond)
}

func (s *WaitlistHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWaitlistHandlerSuite(t *testing.T) {
	suite.Run(t, new(WaitlistHandlerTestSuite))
}

func (s *WaitlistHandlerTestSuite) TestJoin() {
	url := "/waitlist"
	sectionID := uuid.New()
	reqBody := map[string]any{"section_id": sectionID.String()}

	s.Run("success: returns 201 Created with the position", func() {
		result := &commands.JoinResult{EnrollmentID: uuid.New(), EntryID: uuid.New(), Position: 2}
		s.mockCommands.EXPECT().
			Join(gomock.Any(), gomock.Any(), sectionID, 0, gomock.Any()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(float64(2), body["position"])
	})

	s.Run("success: registrar may grant a priority tier", func() {
		result := &commands.JoinResult{EnrollmentID: uuid.New(), EntryID: uuid.New(), Position: 1}
		s.mockCommands.EXPECT().
			Join(gomock.Any(), gomock.Any(), sectionID, 5, gomock.Any()).
			Return(result, nil).Times(1)

		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("priority", 5))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.registrar)
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("error: 403 Forbidden when a student requests priority", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("priority", 5))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.student)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing section_id", mutate: testutil.Field("section_id", nil)},
			{name: "negative priority", mutate: testutil.Field("priority", -1)},
			{name: "priority above cap", mutate: testutil.Field("priority", 101)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.registrar)
				s.Equal(http.StatusBadRequest, rec.Code)
			})
		}
	})

	s.Run("error: 409 Conflict when already queued", func() {
		s.mockCommands.EXPECT().
			Join(gomock.Any(), gomock.Any(), sectionID, 0, gomock.Any()).
			Return(nil, errs.Mark(errs.New("entry already queued"), errs.ErrAlreadyWaitlisted)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Already waitlisted")
	})

	s.Run("error: 409 Conflict when the waitlist is full", func() {
		s.mockCommands.EXPECT().
			Join(gomock.Any(), gomock.Any(), sectionID, 0, gomock.Any()).
			Return(nil, errs.Mark(errs.New("queue is full"), errs.ErrWaitlistAtCapacity)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Waitlist is full")
	})
}

func (s *WaitlistHandlerTestSuite) TestPosition() {
	sectionID := uuid.New()
	url := "/waitlist/position?section_id=" + sectionID.String()

	s.Run("success: returns the standing with probability", func() {
		view := &queries.WaitlistPositionView{
			EntryID:     uuid.New(),
			SectionID:   sectionID,
			Position:    4,
			QueueLength: 9,
			OfferState:  "none",
			Probability: 0.42,
		}
		s.mockQueries.EXPECT().
			Position(gomock.Any(), gomock.Any(), sectionID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.student)

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(float64(4), body["position"])
		s.Equal(0.42, body["probability"])
	})

	s.Run("error: 400 Bad Request for malformed section ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/waitlist/position?section_id=junk", nil, s.student)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 404 Not Found when not queued", func() {
		s.mockQueries.EXPECT().
			Position(gomock.Any(), gomock.Any(), sectionID).
			Return(nil, errs.ErrNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.student)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *WaitlistHandlerTestSuite) TestRespond() {
	url := "/waitlist/respond"
	sectionID := uuid.New()

	s.Run("success: accept returns 200 OK with the enrollment", func() {
		reqBody := map[string]any{"section_id": sectionID.String(), "action": "accept"}
		result := &commands.EnrollmentResult{EnrollmentID: uuid.New(), Status: enrollment.StatusEnrolled}
		s.mockCommands.EXPECT().
			Respond(gomock.Any(), gomock.Any(), sectionID, true, gomock.Any()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("enrolled", body["status"])
	})

	s.Run("success: decline returns 204 No Content", func() {
		reqBody := map[string]any{"section_id": sectionID.String(), "action": "decline"}
		s.mockCommands.EXPECT().
			Respond(gomock.Any(), gomock.Any(), sectionID, false, gomock.Any()).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for an unknown action", func() {
		reqBody := map[string]any{"section_id": sectionID.String(), "action": "maybe"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 409 Conflict without an active offer", func() {
		reqBody := map[string]any{"section_id": sectionID.String(), "action": "accept"}
		s.mockCommands.EXPECT().
			Respond(gomock.Any(), gomock.Any(), sectionID, true, gomock.Any()).
			Return(nil, errs.Mark(errs.New("offer state is none"), errs.ErrNoActiveOffer)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.student)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "No active offer")
	})
}
