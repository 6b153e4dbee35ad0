package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/sales-objectives-api/internal/engine"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/services"
)

// seedScorecard gives seller 250 of a 1000 company target and one of two
// qualitative objectives completed.
func (suite *APITestSuite) seedScorecard(seller *models.User) {
	objective := suite.createObjective("Revenue", 1000, false)
	assignment := suite.assign(objective.ID, seller.ID, 300)
	_, err := suite.assignmentService.RecordMonthlyProgress(assignment.ID, "01", "250")
	suite.Require().NoError(err)

	done := suite.createQualitative("Workshop", true, nil)
	_, err = suite.qualitativeService.Complete(done.ID, services.CompleteQualitativeInput{})
	suite.Require().NoError(err)
	suite.createQualitative("Account review", false, nil, seller.ID)
}

func (suite *APITestSuite) TestGetMyScorecard() {
	seller := suite.signup("seller")
	suite.seedScorecard(seller)

	w := suite.request(http.MethodGet, "/api/reports/me/scorecard", nil, seller.ID)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var card services.Scorecard
	suite.decode(w, &card)
	suite.Equal(seller.ID, card.ContributorID)
	suite.InDelta(0.25, card.WeightedProgress, 1e-9)
	suite.InDelta(0.5, card.QualitativeCompletionRate, 1e-9)
	suite.Require().Len(card.Numeric, 1)
	suite.Equal("Revenue", card.Numeric[0].ObjectiveName)
	suite.Equal(250.0, card.Numeric[0].CurrentValue)
	suite.Len(card.Qualitative, 2)
}

func (suite *APITestSuite) TestGetContributorScorecard_Access() {
	seller := suite.signup("seller")
	other := suite.signup("other")
	path := fmt.Sprintf("/api/reports/contributors/%d/scorecard", seller.ID)

	suite.Equal(http.StatusOK, suite.request(http.MethodGet, path, nil, seller.ID).Code)
	suite.Equal(http.StatusOK, suite.request(http.MethodGet, path, nil, suite.manager.ID).Code)

	w := suite.request(http.MethodGet, path, nil, other.ID)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodGet, "/api/reports/contributors/9999/scorecard", nil, suite.manager.ID)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestGetContributorScorecard_Empty() {
	seller := suite.signup("seller")

	w := suite.request(http.MethodGet, fmt.Sprintf("/api/reports/contributors/%d/scorecard", seller.ID), nil, suite.manager.ID)

	suite.Require().Equal(http.StatusOK, w.Code)
	var card services.Scorecard
	suite.decode(w, &card)
	suite.Zero(card.WeightedProgress)
	suite.Zero(card.QualitativeCompletionRate)
	suite.Empty(card.Numeric)
}

func (suite *APITestSuite) TestGetCompanyDashboard() {
	seller := suite.signup("seller")
	suite.seedScorecard(seller)

	w := suite.request(http.MethodGet, "/api/reports/company", nil, seller.ID)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodGet, "/api/reports/company", nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var dashboard services.CompanyDashboard
	suite.decode(w, &dashboard)
	suite.Equal(250.0, dashboard.TotalSales)
	suite.Equal(int64(2), dashboard.ActiveContributors)
	suite.InDelta(0.5, dashboard.QualitativeCompletionRate, 1e-9)
	suite.Equal(1, dashboard.StatusCounts[models.StatusInProgress])

	suite.Require().Len(dashboard.Allocations, 1)
	allocation := dashboard.Allocations[0]
	suite.Equal(300.0, allocation.AllocatedTarget)
	suite.Equal(700.0, allocation.Delta)
	suite.Equal(engine.AllocationUnder, allocation.State)
}
