package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/ledger_core_app/internal/apperrors"
	"github.com/openbooks/ledger_core_app/internal/dto"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, creatorUserID string) (*dto.CreateLedgerResponse, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CreateLedgerResponse), args.Error(1)
}

func (m *MockLedgerService) GetRootAccount(ctx context.Context) (*dto.AccountResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AccountResponse), args.Error(1)
}

func (m *MockLedgerService) ListCurrencies(ctx context.Context) ([]dto.CurrencyResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.CurrencyResponse), args.Error(1)
}

func (m *MockLedgerService) ListDomains(ctx context.Context) ([]dto.DomainResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.DomainResponse), args.Error(1)
}

func (m *MockLedgerService) ListSubJournals(ctx context.Context) ([]dto.SubJournalResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.SubJournalResponse), args.Error(1)
}

// --- Test Suite ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	mockService *MockLedgerService
	router      *gin.Engine
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	suite.mockService = new(MockLedgerService)
	suite.router = newTestRouter(suite.mockService, nil)
}

func validLedgerBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"currencies": []map[string]any{
			{"code": "CAD", "symbol": "$", "decimals": 2},
		},
		"accounts": []map[string]any{
			{"code": "GL", "isCategory": true},
			{"code": "1000", "parentCode": "GL", "allowsDebit": true},
		},
	})
	return body
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestCreateLedger_Success() {
	expected := &dto.CreateLedgerResponse{
		Root: dto.AccountResponse{Code: "ROOT", Revision: "tok"},
		Accounts: map[string]string{
			"ROOT": "id-root",
			"GL":   "id-gl",
			"1000": "id-1000",
		},
	}
	suite.mockService.On("CreateLedger", mock.Anything, mock.AnythingOfType("dto.CreateLedgerRequest"), "system").
		Return(expected, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/ledger", bytes.NewReader(validLedgerBody()))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.CreateLedgerResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 3)
	suite.Equal("tok", resp.Root.Revision)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestCreateLedger_NonEmptyLedger() {
	suite.mockService.On("CreateLedger", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewDetailed(apperrors.ErrRuleViolation, "ledger already contains 3 accounts")).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/ledger", bytes.NewReader(validLedgerBody()))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestCreateLedger_UnresolvedCodes() {
	suite.mockService.On("CreateLedger", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewDetailed(apperrors.ErrBadRequest,
			"unresolved account code: 1000", "unresolved account code: 1010")).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/ledger", bytes.NewReader(validLedgerBody()))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	details, ok := resp["details"].([]any)
	suite.Require().True(ok)
	suite.Len(details, 2)
}

func (suite *LedgerHandlerTestSuite) TestCreateLedger_BrokenTemplateReportsDetails() {
	suite.mockService.On("CreateLedger", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewDetailed(apperrors.ErrInvalidData,
			"chart template charts/default.json is not well-formed: unexpected end of JSON input")).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/ledger", bytes.NewReader(validLedgerBody()))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	details, ok := resp["details"].([]any)
	suite.Require().True(ok)
	suite.Len(details, 1)
}

func (suite *LedgerHandlerTestSuite) TestCreateLedger_BadCurrencyCodeRejectedByBinding() {
	body, _ := json.Marshal(map[string]any{
		"currencies": []map[string]any{
			{"code": "cad", "decimals": 2}, // lowercase fails the entitycode rule
		},
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/ledger", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateLedger", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestGetRootAccount_Success() {
	expected := &dto.AccountResponse{Code: "ROOT", Revision: "tok"}
	suite.mockService.On("GetRootAccount", mock.Anything).Return(expected, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/ledger/root", nil)
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestGetRootAccount_NotBootstrapped() {
	suite.mockService.On("GetRootAccount", mock.Anything).
		Return(nil, apperrors.NewDetailed(apperrors.ErrBadAccount, "ledger has not been bootstrapped")).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/ledger/root", nil)
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestListCurrencies_Success() {
	suite.mockService.On("ListCurrencies", mock.Anything).
		Return([]dto.CurrencyResponse{{Code: "CAD"}}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/ledger/currencies", nil)
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.CurrencyResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 1)
}

func TestLedgerHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
