package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/ledger_core_app/internal/apperrors"
	"github.com/openbooks/ledger_core_app/internal/core/domain"
	"github.com/openbooks/ledger_core_app/internal/core/services"
	"github.com/openbooks/ledger_core_app/internal/dto"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// --- Test Suite ---
type ChartBuilderTestSuite struct {
	suite.Suite
	mockRepo *MockLedgerRepository
	builder  *services.ChartBuilder

	root domain.Account
	now  time.Time

	savedAccounts map[string]domain.Account // keyed by code
	savedNames    map[string][]domain.Name  // keyed by owner id
}

func (suite *ChartBuilderTestSuite) SetupTest() {
	suite.mockRepo = new(MockLedgerRepository)
	suite.builder = services.NewChartBuilder(suite.mockRepo)
	suite.now = time.Now().UTC()
	suite.root = domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "ROOT",
		IsCategory:   true,
		AllowsDebit:  true,
		AllowsCredit: true,
	}
	suite.savedAccounts = make(map[string]domain.Account)
	suite.savedNames = make(map[string][]domain.Name)
}

// expectSaves wires the mock to record every account and name batch the
// builder persists.
func (suite *ChartBuilderTestSuite) expectSaves() {
	suite.mockRepo.On("SaveAccountInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			a := args.Get(2).(domain.Account)
			suite.savedAccounts[a.Code] = a
		}).Return(nil)
	suite.mockRepo.On("SaveNamesInTx", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.Name")).
		Run(func(args mock.Arguments) {
			names := args.Get(2).([]domain.Name)
			for _, n := range names {
				suite.savedNames[n.OwnerID] = append(suite.savedNames[n.OwnerID], n)
			}
		}).Return(nil)
}

// parentCodeOf resolves a saved account's parent id back to a code.
func (suite *ChartBuilderTestSuite) parentCodeOf(code string) string {
	a, ok := suite.savedAccounts[code]
	suite.Require().True(ok, "account %s was never saved", code)
	if a.ParentAccountID == suite.root.AccountID {
		return suite.root.Code
	}
	for c, other := range suite.savedAccounts {
		if other.AccountID == a.ParentAccountID {
			return c
		}
	}
	suite.Require().Fail("parent of %s not found among saved accounts", code)
	return ""
}

// --- Test Cases ---

func (suite *ChartBuilderTestSuite) TestBuild_ChildrenBeforeParents() {
	ctx := context.Background()
	suite.expectSaves()
	// First pass looks the pending parent up in storage before deferring it.
	suite.mockRepo.On("FindAccountByCodeInTx", mock.Anything, mock.Anything, "GL").
		Return(nil, apperrors.ErrNotFound).Twice()

	// Dependency order reversed on purpose: leaves first, their category last.
	specs := []dto.AccountSpec{
		{Code: "1010", ParentCode: strPtr("GL"), AllowsDebit: boolPtr(true), AllowsCredit: boolPtr(false)},
		{Code: "1000", ParentCode: strPtr("GL"), AllowsDebit: boolPtr(true), AllowsCredit: boolPtr(true)},
		{Code: "GL", IsCategory: boolPtr(true)},
	}

	result, err := suite.builder.Build(ctx, nil, nil, specs, suite.root, uuid.NewString(), suite.now)

	suite.Require().NoError(err)
	suite.Len(result, 4) // root + 3 created
	suite.Equal(suite.root.AccountID, result["ROOT"])
	suite.Equal("ROOT", suite.parentCodeOf("GL"))
	suite.Equal("GL", suite.parentCodeOf("1000"))
	suite.Equal("GL", suite.parentCodeOf("1010"))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChartBuilderTestSuite) TestBuild_OrderIndependent() {
	specs := []dto.AccountSpec{
		{Code: "GL", IsCategory: boolPtr(true)},
		{Code: "1000", ParentCode: strPtr("GL"), AllowsDebit: boolPtr(true)},
		{Code: "EXP", ParentCode: strPtr("GL"), IsCategory: boolPtr(true)},
		{Code: "5000", ParentCode: strPtr("EXP"), AllowsDebit: boolPtr(true)},
	}
	reversed := make([]dto.AccountSpec, len(specs))
	for i, s := range specs {
		reversed[len(specs)-1-i] = s
	}

	type edges map[string]string
	buildEdges := func(input []dto.AccountSpec) edges {
		suite.SetupTest()
		suite.expectSaves()
		suite.mockRepo.On("FindAccountByCodeInTx", mock.Anything, mock.Anything, mock.AnythingOfType("string")).
			Return(nil, apperrors.ErrNotFound)
		_, err := suite.builder.Build(context.Background(), nil, nil, input, suite.root, uuid.NewString(), suite.now)
		suite.Require().NoError(err)
		out := edges{}
		for code := range suite.savedAccounts {
			out[code] = suite.parentCodeOf(code)
		}
		return out
	}

	suite.Equal(buildEdges(specs), buildEdges(reversed))
}

func (suite *ChartBuilderTestSuite) TestBuild_UnresolvedParent() {
	ctx := context.Background()
	suite.expectSaves()
	suite.mockRepo.On("FindAccountByCodeInTx", mock.Anything, mock.Anything, "NOPE").
		Return(nil, apperrors.ErrNotFound)

	specs := []dto.AccountSpec{
		{Code: "1000", ParentCode: strPtr("NOPE"), AllowsDebit: boolPtr(true)},
	}

	result, err := suite.builder.Build(ctx, nil, nil, specs, suite.root, uuid.NewString(), suite.now)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrBadRequest)
	suite.Equal([]string{"unresolved account code: 1000"}, apperrors.DetailsOf(err))
}

func (suite *ChartBuilderTestSuite) TestBuild_CycleReportsAllMembers() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCodeInTx", mock.Anything, mock.Anything, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound)

	specs := []dto.AccountSpec{
		{Code: "B", ParentCode: strPtr("A"), AllowsDebit: boolPtr(true)},
		{Code: "A", ParentCode: strPtr("B"), AllowsDebit: boolPtr(true)},
	}

	_, err := suite.builder.Build(ctx, nil, nil, specs, suite.root, uuid.NewString(), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBadRequest)
	suite.Equal([]string{
		"unresolved account code: A",
		"unresolved account code: B",
	}, apperrors.DetailsOf(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccountInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ChartBuilderTestSuite) TestBuild_ParentFromStorage() {
	ctx := context.Background()
	suite.expectSaves()

	stored := &domain.Account{
		AccountID:       uuid.NewString(),
		Code:            "GL",
		ParentAccountID: suite.root.AccountID,
		IsCategory:      true,
		AllowsDebit:     true,
		AllowsCredit:    true,
	}
	suite.mockRepo.On("FindAccountByCodeInTx", mock.Anything, mock.Anything, "GL").
		Return(stored, nil).Once()

	specs := []dto.AccountSpec{
		{Code: "1000", ParentCode: strPtr("GL")},
	}

	result, err := suite.builder.Build(ctx, nil, nil, specs, suite.root, uuid.NewString(), suite.now)

	suite.Require().NoError(err)
	suite.Equal(stored.AccountID, suite.savedAccounts["1000"].ParentAccountID)
	suite.Contains(result, "1000")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChartBuilderTestSuite) TestBuild_CategoryUnderLeafRejected() {
	ctx := context.Background()
	suite.expectSaves()

	specs := []dto.AccountSpec{
		{Code: "1000", AllowsDebit: boolPtr(true)},
		{Code: "SUB", ParentCode: strPtr("1000"), IsCategory: boolPtr(true)},
	}

	_, err := suite.builder.Build(ctx, nil, nil, specs, suite.root, uuid.NewString(), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRuleViolation)
}

func (suite *ChartBuilderTestSuite) TestBuild_PolarityInheritedFromParent() {
	ctx := context.Background()
	suite.expectSaves()
	suite.mockRepo.On("FindAccountByCodeInTx", mock.Anything, mock.Anything, "EXP").
		Return(nil, apperrors.ErrNotFound).Once()

	specs := []dto.AccountSpec{
		{Code: "EXP", IsCategory: boolPtr(true), AllowsDebit: boolPtr(true), AllowsCredit: boolPtr(false)},
		{Code: "5000", ParentCode: strPtr("EXP")}, // no flags: inherit
	}

	_, err := suite.builder.Build(ctx, nil, nil, specs, suite.root, uuid.NewString(), suite.now)

	suite.Require().NoError(err)
	leaf := suite.savedAccounts["5000"]
	suite.True(leaf.AllowsDebit)
	suite.False(leaf.AllowsCredit)
}

func (suite *ChartBuilderTestSuite) TestBuild_LeafWithNoPolarityRejected() {
	ctx := context.Background()
	suite.expectSaves()

	specs := []dto.AccountSpec{
		{Code: "1000", AllowsDebit: boolPtr(false), AllowsCredit: boolPtr(false)},
	}

	_, err := suite.builder.Build(ctx, nil, nil, specs, suite.root, uuid.NewString(), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRuleViolation)
}

func (suite *ChartBuilderTestSuite) TestBuild_RootCodeReserved() {
	ctx := context.Background()

	specs := []dto.AccountSpec{
		{Code: "ROOT", AllowsDebit: boolPtr(true)},
	}

	_, err := suite.builder.Build(ctx, nil, nil, specs, suite.root, uuid.NewString(), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBadRequest)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccountInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ChartBuilderTestSuite) TestBuild_RequestOverridesTemplate() {
	ctx := context.Background()
	suite.expectSaves()

	template := []dto.AccountSpec{
		{Code: "1000", AllowsDebit: boolPtr(true), AllowsCredit: boolPtr(true),
			Extra: map[string]any{"group": "assets", "tier": "1"},
			Names: []dto.NameSpec{{Language: "en", Text: "Cash"}}},
		{Code: "2000", AllowsCredit: boolPtr(true)},
	}
	request := []dto.AccountSpec{
		{Code: "1000", AllowsCredit: boolPtr(false),
			Extra: map[string]any{"tier": "2"},
			Names: []dto.NameSpec{{Language: "fr", Text: "Caisse"}}},
	}

	result, err := suite.builder.Build(ctx, nil, template, request, suite.root, uuid.NewString(), suite.now)

	suite.Require().NoError(err)
	suite.Len(result, 3) // root, 1000, 2000 (template-only survives)

	merged := suite.savedAccounts["1000"]
	suite.True(merged.AllowsDebit)   // template field survives
	suite.False(merged.AllowsCredit) // request field wins
	suite.Equal("assets", merged.Extra["group"])
	suite.Equal("2", merged.Extra["tier"])

	// Name lists concatenate under the merge rules.
	names := suite.savedNames[merged.AccountID]
	suite.Len(names, 2)
}

func (suite *ChartBuilderTestSuite) TestBuild_NameOnlyOverrideKeepsTemplateCategory() {
	ctx := context.Background()
	suite.expectSaves()

	template := []dto.AccountSpec{
		{Code: "1000", IsCategory: boolPtr(true),
			Names: []dto.NameSpec{{Language: "en", Text: "Assets"}}},
	}
	// The request only adds a label; the template's category flag must hold.
	request := []dto.AccountSpec{
		{Code: "1000", Names: []dto.NameSpec{{Language: "fr", Text: "Actifs"}}},
	}

	_, err := suite.builder.Build(ctx, nil, template, request, suite.root, uuid.NewString(), suite.now)

	suite.Require().NoError(err)
	merged := suite.savedAccounts["1000"]
	suite.True(merged.IsCategory)
	suite.Len(suite.savedNames[merged.AccountID], 2)
}

func (suite *ChartBuilderTestSuite) TestBuild_DuplicateRequestCodesRejected() {
	ctx := context.Background()

	specs := []dto.AccountSpec{
		{Code: "1000", AllowsDebit: boolPtr(true)},
		{Code: "1000", AllowsCredit: boolPtr(true)},
	}

	_, err := suite.builder.Build(ctx, nil, nil, specs, suite.root, uuid.NewString(), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBadRequest)
	suite.Equal([]string{"duplicate account code: 1000"}, apperrors.DetailsOf(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccountInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ChartBuilderTestSuite) TestBuild_SaveErrorPropagates() {
	ctx := context.Background()
	expectedErr := apperrors.ErrDuplicate
	suite.mockRepo.On("SaveAccountInTx", mock.Anything, mock.Anything, mock.Anything).
		Return(expectedErr)

	specs := []dto.AccountSpec{
		{Code: "1000", AllowsDebit: boolPtr(true)},
	}

	_, err := suite.builder.Build(ctx, nil, nil, specs, suite.root, uuid.NewString(), suite.now)

	suite.Require().Error(err)
	suite.ErrorIs(err, expectedErr)
}

func TestChartBuilderTestSuite(t *testing.T) {
	suite.Run(t, new(ChartBuilderTestSuite))
}
