package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/sales-objectives-api/internal/dto"
	"github.com/yukikurage/sales-objectives-api/internal/models"
)

func (suite *APITestSuite) TestListMyObjectives_AssignedThenSuggested() {
	seller := suite.signup("seller")
	local := suite.createObjective("Local", 400, false)
	suite.createObjective("Global", 1000, true)
	suite.assign(local.ID, seller.ID, 150)

	w := suite.request(http.MethodGet, "/api/assignments", nil, seller.ID)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var response struct {
		Objectives []dto.ContributorObjectiveDTO `json:"objectives"`
	}
	suite.decode(w, &response)
	suite.Require().Len(response.Objectives, 2)

	assigned := response.Objectives[0]
	suite.Equal(dto.ContributorObjectiveAssigned, assigned.Kind)
	suite.Require().NotNil(assigned.Assignment)
	suite.Equal(local.ID, assigned.Assignment.ObjectiveID)
	suite.Equal(150.0, assigned.Assignment.IndividualTarget)

	suggested := response.Objectives[1]
	suite.Equal(dto.ContributorObjectiveSuggested, suggested.Kind)
	suite.Require().NotNil(suggested.Objective)
	suite.Equal("Global", suggested.Objective.Name)
	suite.Require().NotNil(suggested.SuggestedTarget)
	suite.Equal(500.0, *suggested.SuggestedTarget)

	// Suggestions are never persisted.
	var count int64
	suite.Require().NoError(suite.db.Model(&models.Assignment{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *APITestSuite) TestRecordProgress() {
	seller := suite.signup("seller")
	objective := suite.createObjective("Revenue", 1000, false)
	assignment := suite.assign(objective.ID, seller.ID, 300)
	base := fmt.Sprintf("/api/assignments/%d/progress/", assignment.ID)

	w := suite.request(http.MethodPut, base+"01", map[string]interface{}{"value": 100}, seller.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var response dto.AssignmentDTO
	suite.decode(w, &response)
	suite.Equal(100.0, response.CurrentValue)
	suite.Equal(models.StatusInProgress, response.Status)

	// Numeric strings are accepted too.
	w = suite.request(http.MethodPut, base+"02", map[string]interface{}{"value": "250"}, seller.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &response)
	suite.Equal(350.0, response.CurrentValue)
	suite.Equal(models.StatusCompleted, response.Status)
	suite.Equal(map[string]float64{"01": 100, "02": 250}, response.MonthlyProgress)

	// Overwriting a month replaces it.
	w = suite.request(http.MethodPut, base+"02", map[string]interface{}{"value": 50}, seller.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &response)
	suite.Equal(150.0, response.CurrentValue)
	suite.Equal(models.StatusInProgress, response.Status)
}

func (suite *APITestSuite) TestRecordProgress_InvalidInput() {
	seller := suite.signup("seller")
	objective := suite.createObjective("Revenue", 1000, false)
	assignment := suite.assign(objective.ID, seller.ID, 300)
	base := fmt.Sprintf("/api/assignments/%d/progress/", assignment.ID)

	cases := []struct {
		name  string
		month string
		body  interface{}
	}{
		{"month out of range", "13", map[string]interface{}{"value": 10}},
		{"single digit month", "3", map[string]interface{}{"value": 10}},
		{"negative value", "03", map[string]interface{}{"value": -1}},
		{"non numeric value", "03", map[string]interface{}{"value": "lots"}},
		{"missing value", "03", map[string]interface{}{}},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			w := suite.request(http.MethodPut, base+tc.month, tc.body, seller.ID)
			suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	stored, err := suite.assignmentService.GetAssignment(assignment.ID)
	suite.Require().NoError(err)
	suite.Empty(stored.Progress())
	suite.Zero(stored.CurrentValue)
}

func (suite *APITestSuite) TestClearProgress() {
	seller := suite.signup("seller")
	objective := suite.createObjective("Revenue", 1000, false)
	assignment := suite.assign(objective.ID, seller.ID, 300)
	base := fmt.Sprintf("/api/assignments/%d/progress/", assignment.ID)

	suite.Require().Equal(http.StatusOK, suite.request(http.MethodPut, base+"04", map[string]interface{}{"value": 120}, seller.ID).Code)

	w := suite.request(http.MethodDelete, base+"04", nil, seller.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var response dto.AssignmentDTO
	suite.decode(w, &response)
	suite.Zero(response.CurrentValue)
	suite.Empty(response.MonthlyProgress)
	suite.Equal(models.StatusPending, response.Status)
}

func (suite *APITestSuite) TestAssignmentAccess() {
	owner := suite.signup("owner")
	other := suite.signup("other")
	objective := suite.createObjective("Revenue", 1000, false)
	assignment := suite.assign(objective.ID, owner.ID, 300)
	path := fmt.Sprintf("/api/assignments/%d", assignment.ID)

	w := suite.request(http.MethodGet, path, nil, owner.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	var response dto.AssignmentDTO
	suite.decode(w, &response)
	suite.Require().NotNil(response.Objective)
	suite.Equal("Revenue", response.Objective.Name)

	// Another salesperson cannot see or write it.
	w = suite.request(http.MethodGet, path, nil, other.ID)
	suite.Equal(http.StatusNotFound, w.Code)
	w = suite.request(http.MethodPut, path+"/progress/01", map[string]interface{}{"value": 1}, other.ID)
	suite.Equal(http.StatusNotFound, w.Code)

	// Managers can.
	w = suite.request(http.MethodPut, path+"/progress/01", map[string]interface{}{"value": 1}, suite.manager.ID)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/assignments/9999", nil, suite.manager.ID)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestDeleteAssignment() {
	seller := suite.signup("seller")
	objective := suite.createObjective("Revenue", 1000, false)
	assignment := suite.assign(objective.ID, seller.ID, 300)
	path := fmt.Sprintf("/api/assignments/%d", assignment.ID)

	w := suite.request(http.MethodDelete, path, nil, seller.ID)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodDelete, path, nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodDelete, path, nil, suite.manager.ID)
	suite.Equal(http.StatusNotFound, w.Code)
}
