package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/sales-objectives-api/internal/dto"
	"github.com/yukikurage/sales-objectives-api/internal/models"
)

func (suite *APITestSuite) TestListContributors() {
	suite.signup("alice")
	bob := suite.signup("bob")
	suite.Require().NoError(suite.db.Model(&models.User{}).Where("id = ?", bob.ID).Update("active", false).Error)

	w := suite.request(http.MethodGet, "/api/contributors", nil, suite.manager.ID)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var response struct {
		Contributors []dto.UserDTO `json:"contributors"`
		ActiveCount  int           `json:"active_count"`
	}
	suite.decode(w, &response)
	suite.Len(response.Contributors, 3)
	suite.Equal(2, response.ActiveCount)
}

func (suite *APITestSuite) TestSetActive_ChangesSuggestedTarget() {
	seller := suite.signup("seller")
	objective := suite.createObjective("Revenue", 1000, true)
	suggestPath := fmt.Sprintf("/api/objectives/%d/suggested-target", objective.ID)
	var suggestion struct {
		SuggestedTarget float64 `json:"suggested_target"`
	}

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/contributors/%d/active", seller.ID), map[string]interface{}{
		"active": false,
	}, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var user dto.UserDTO
	suite.decode(w, &user)
	suite.False(user.Active)

	w = suite.request(http.MethodGet, suggestPath, nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &suggestion)
	suite.Equal(1000.0, suggestion.SuggestedTarget)

	w = suite.request(http.MethodPatch, fmt.Sprintf("/api/contributors/%d/active", seller.ID), map[string]interface{}{}, suite.manager.ID)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPatch, "/api/contributors/9999/active", map[string]interface{}{"active": true}, suite.manager.ID)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestDeleteContributor() {
	seller := suite.signup("seller")
	other := suite.signup("other")
	objective := suite.createObjective("Revenue", 1000, false)
	suite.assign(objective.ID, seller.ID, 500)
	kept := suite.assign(objective.ID, other.ID, 500)
	shared := suite.createQualitative("Shared", false, nil, seller.ID, other.ID)

	w := suite.request(http.MethodDelete, fmt.Sprintf("/api/contributors/%d", seller.ID), nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var assignments []models.Assignment
	suite.Require().NoError(suite.db.Find(&assignments).Error)
	suite.Require().Len(assignments, 1)
	suite.Equal(kept.ID, assignments[0].ID)

	reloaded, err := suite.qualitativeService.Get(shared.ID)
	suite.Require().NoError(err)
	suite.Require().Len(reloaded.Assignees, 1)
	suite.Equal(other.ID, reloaded.Assignees[0].ContributorID)

	w = suite.request(http.MethodDelete, fmt.Sprintf("/api/contributors/%d", seller.ID), nil, suite.manager.ID)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestDeleteContributor_Self() {
	w := suite.request(http.MethodDelete, fmt.Sprintf("/api/contributors/%d", suite.manager.ID), nil, suite.manager.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
}
