package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	portssvc "github.com/fleetstack/rental_ledger_app/internal/core/ports/services"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
	"github.com/fleetstack/rental_ledger_app/internal/handlers"
	"github.com/fleetstack/rental_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock BookingService ---
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Reserve(ctx context.Context, req dto.CreateReservationRequest, actorID string) (*domain.Reservation, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockBookingService) Activate(ctx context.Context, reservationID string, observedAt time.Time, actorID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID, observedAt, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockBookingService) Complete(ctx context.Context, reservationID string, observedAt time.Time, actorID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID, observedAt, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockBookingService) Cancel(ctx context.Context, reservationID string, actorID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockBookingService) GetReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockBookingService) ListReservationsByAsset(ctx context.Context, assetID string, params dto.ListReservationsParams) (*dto.ListReservationsResponse, error) {
	args := m.Called(ctx, assetID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListReservationsResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.BookingSvcFacade = (*MockBookingService)(nil)

// --- Test Suite ---
type ReservationHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockBookingService *MockBookingService
}

func (suite *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockBookingService = new(MockBookingService)

	cfg := &config.Config{} // No rate limit in tests
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Booking: suite.mockBookingService,
	})
}

func (suite *ReservationHandlerTestSuite) newReservation(status domain.ReservationStatus) *domain.Reservation {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Reservation{
		ReservationID: uuid.NewString(),
		AssetID:       uuid.NewString(),
		CustomerRef:   "cust-42",
		StartAt:       now.Add(24 * time.Hour),
		EndAt:         now.Add(72 * time.Hour),
		Status:        status,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: "desk-7",
		},
	}
}

// --- Test Cases ---

func (suite *ReservationHandlerTestSuite) TestCreateReservation_Success() {
	expected := suite.newReservation(domain.Reserved)

	suite.mockBookingService.On("Reserve",
		mock.Anything,
		mock.MatchedBy(func(req dto.CreateReservationRequest) bool {
			return req.AssetID == expected.AssetID && req.CustomerRef == expected.CustomerRef
		}),
		"desk-7",
	).Return(expected, nil).Once()

	body, _ := json.Marshal(dto.CreateReservationRequest{
		AssetID:     expected.AssetID,
		CustomerRef: expected.CustomerRef,
		StartAt:     expected.StartAt,
		EndAt:       expected.EndAt,
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "desk-7")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.ReservationResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.ReservationID, resp.ReservationID)
	suite.Equal(domain.Reserved, resp.Status)

	suite.mockBookingService.AssertExpectations(suite.T())
}

func (suite *ReservationHandlerTestSuite) TestCreateReservation_Conflict() {
	suite.mockBookingService.On("Reserve", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: asset busy", apperrors.ErrConflict)).Once()

	body, _ := json.Marshal(dto.CreateReservationRequest{
		AssetID:     uuid.NewString(),
		CustomerRef: "cust-42",
		StartAt:     time.Now().UTC().Add(24 * time.Hour),
		EndAt:       time.Now().UTC().Add(48 * time.Hour),
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockBookingService.AssertExpectations(suite.T())
}

func (suite *ReservationHandlerTestSuite) TestCreateReservation_MissingFields() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader([]byte(`{"assetID":"a1"}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockBookingService.AssertNotCalled(suite.T(), "Reserve")
}

func (suite *ReservationHandlerTestSuite) TestActivateReservation_Success() {
	expected := suite.newReservation(domain.Active)
	observedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	activated := observedAt
	expected.ActivatedAt = &activated

	suite.mockBookingService.On("Activate", mock.Anything, expected.ReservationID, observedAt, "system").
		Return(expected, nil).Once()

	body, _ := json.Marshal(dto.TransitionReservationRequest{ObservedAt: &observedAt})
	url := fmt.Sprintf("/api/v1/reservations/%s/activate", expected.ReservationID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ReservationResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.Active, resp.Status)
	suite.NotNil(resp.ActivatedAt)

	suite.mockBookingService.AssertExpectations(suite.T())
}

func (suite *ReservationHandlerTestSuite) TestActivateReservation_InvalidTransition() {
	reservationID := uuid.NewString()
	suite.mockBookingService.On("Activate", mock.Anything, reservationID, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: reservation is COMPLETED", apperrors.ErrInvalidTransition)).Once()

	url := fmt.Sprintf("/api/v1/reservations/%s/activate", reservationID)
	req, _ := http.NewRequest(http.MethodPost, url, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockBookingService.AssertExpectations(suite.T())
}

func (suite *ReservationHandlerTestSuite) TestGetReservation_NotFound() {
	reservationID := uuid.NewString()
	suite.mockBookingService.On("GetReservationByID", mock.Anything, reservationID).
		Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/reservations/"+reservationID, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockBookingService.AssertExpectations(suite.T())
}

func (suite *ReservationHandlerTestSuite) TestListReservations_RequiresAssetID() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/reservations", nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockBookingService.AssertNotCalled(suite.T(), "ListReservationsByAsset")
}

// --- Run Test Suite ---
func TestReservationHandler(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}
