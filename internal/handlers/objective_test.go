package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/sales-objectives-api/internal/dto"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/services"
)

func (suite *APITestSuite) TestCreateObjective_Success() {
	w := suite.request(http.MethodPost, "/api/objectives", map[string]interface{}{
		"name":               "Quarterly revenue",
		"kind":               "currency",
		"company_target":     1200,
		"minimum_acceptable": 800,
		"start_date":         "2026-01-01",
		"end_date":           "2026-12-31",
		"is_global":          true,
	}, suite.manager.ID)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var response dto.ObjectiveDTO
	suite.decode(w, &response)
	suite.NotZero(response.ID)
	suite.Equal("Quarterly revenue", response.Name)
	suite.Equal(models.KindCurrency, response.Kind)
	suite.Equal(1200.0, response.CompanyTarget)
	suite.Require().NotNil(response.MinimumAcceptable)
	suite.Equal(800.0, *response.MinimumAcceptable)
	suite.True(response.IsGlobal)
}

func (suite *APITestSuite) TestCreateObjective_InvalidInput() {
	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"minimum above target", map[string]interface{}{
			"name": "Revenue", "kind": "currency", "company_target": 100, "minimum_acceptable": 200,
			"start_date": "2026-01-01", "end_date": "2026-12-31",
		}},
		{"end before start", map[string]interface{}{
			"name": "Revenue", "kind": "currency", "company_target": 100,
			"start_date": "2026-12-31", "end_date": "2026-01-01",
		}},
		{"unknown kind", map[string]interface{}{
			"name": "Revenue", "kind": "bananas", "company_target": 100,
			"start_date": "2026-01-01", "end_date": "2026-12-31",
		}},
		{"malformed date", map[string]interface{}{
			"name": "Revenue", "kind": "currency", "company_target": 100,
			"start_date": "01/01/2026", "end_date": "2026-12-31",
		}},
		{"missing target", map[string]interface{}{
			"name": "Revenue", "kind": "currency",
			"start_date": "2026-01-01", "end_date": "2026-12-31",
		}},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			w := suite.request(http.MethodPost, "/api/objectives", tc.body, suite.manager.ID)
			suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func (suite *APITestSuite) TestListObjectives_FilterGlobal() {
	suite.createObjective("Global", 100, true)
	suite.createObjective("Local", 100, false)
	seller := suite.signup("seller")

	w := suite.request(http.MethodGet, "/api/objectives?is_global=true", nil, seller.ID)

	suite.Require().Equal(http.StatusOK, w.Code)
	var response dto.ObjectiveListResponse
	suite.decode(w, &response)
	suite.Require().Len(response.Objectives, 1)
	suite.Equal("Global", response.Objectives[0].Name)
	suite.Equal(int64(1), response.Pagination.Total)

	w = suite.request(http.MethodGet, "/api/objectives?is_global=maybe", nil, seller.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestGetObjective_NotFound() {
	w := suite.request(http.MethodGet, "/api/objectives/999", nil, suite.manager.ID)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/api/objectives/abc", nil, suite.manager.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestUpdateObjective_PartialUpdate() {
	objective := suite.createObjective("Revenue", 1000, false)
	path := fmt.Sprintf("/api/objectives/%d", objective.ID)

	w := suite.request(http.MethodPatch, path, map[string]interface{}{
		"company_target": 2000,
		"weight":         3,
	}, suite.manager.ID)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var response dto.ObjectiveDTO
	suite.decode(w, &response)
	suite.Equal("Revenue", response.Name)
	suite.Equal(2000.0, response.CompanyTarget)
	suite.Require().NotNil(response.Weight)
	suite.Equal(3.0, *response.Weight)

	w = suite.request(http.MethodPatch, path, map[string]interface{}{"company_target": -5}, suite.manager.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestDeleteObjective_CascadesAssignments() {
	objective := suite.createObjective("Revenue", 1000, false)
	assignment := suite.assign(objective.ID, suite.manager.ID, 500)

	w := suite.request(http.MethodDelete, fmt.Sprintf("/api/objectives/%d", objective.ID), nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/objectives/%d", objective.ID), nil, suite.manager.ID)
	suite.Equal(http.StatusNotFound, w.Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Assignment{}).Where("id = ?", assignment.ID).Count(&count).Error)
	suite.Zero(count)
}

func (suite *APITestSuite) TestGetSuggestedTarget() {
	objective := suite.createObjective("Revenue", 1000, true)
	suite.signup("alice")
	suite.signup("bob")
	suite.signup("carol")
	path := fmt.Sprintf("/api/objectives/%d/suggested-target", objective.ID)

	w := suite.request(http.MethodGet, path, nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	var response struct {
		SuggestedTarget float64 `json:"suggested_target"`
	}
	suite.decode(w, &response)
	suite.Equal(250.0, response.SuggestedTarget)

	w = suite.request(http.MethodGet, path+"?active_count=3", nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &response)
	suite.Equal(333.33, response.SuggestedTarget)

	w = suite.request(http.MethodGet, path+"?active_count=0", nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &response)
	suite.Zero(response.SuggestedTarget)

	w = suite.request(http.MethodGet, path+"?active_count=-1", nil, suite.manager.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestAssignObjective() {
	objective := suite.createObjective("Revenue", 1000, false)
	seller := suite.signup("seller")
	path := fmt.Sprintf("/api/objectives/%d/assignments", objective.ID)

	// Without a target the equal split over two active users is used.
	w := suite.request(http.MethodPost, path, map[string]interface{}{
		"contributor_id": seller.ID,
	}, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var response dto.AssignmentDTO
	suite.decode(w, &response)
	suite.Equal(500.0, response.IndividualTarget)
	suite.Equal(models.StatusPending, response.Status)
	suite.Empty(response.MonthlyProgress)
	firstID := response.ID

	// Assigning again overwrites the target of the same assignment.
	w = suite.request(http.MethodPost, path, map[string]interface{}{
		"contributor_id":    seller.ID,
		"individual_target": 700,
	}, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &response)
	suite.Equal(firstID, response.ID)
	suite.Equal(700.0, response.IndividualTarget)

	w = suite.request(http.MethodGet, path, nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list struct {
		Assignments []dto.AssignmentDTO `json:"assignments"`
	}
	suite.decode(w, &list)
	suite.Len(list.Assignments, 1)
}

func (suite *APITestSuite) TestAssignObjective_Errors() {
	objective := suite.createObjective("Revenue", 1000, false)
	seller := suite.signup("seller")
	path := fmt.Sprintf("/api/objectives/%d/assignments", objective.ID)

	w := suite.request(http.MethodPost, path, map[string]interface{}{
		"contributor_id":    seller.ID,
		"individual_target": -1,
	}, suite.manager.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_TARGET", suite.errorCode(w))

	w = suite.request(http.MethodPost, path, map[string]interface{}{
		"contributor_id":    9999,
		"individual_target": 10,
	}, suite.manager.ID)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodPost, "/api/objectives/9999/assignments", map[string]interface{}{
		"contributor_id":    seller.ID,
		"individual_target": 10,
	}, suite.manager.ID)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestBulkAssignGlobal_Idempotent() {
	suite.createObjective("Global revenue", 900, true)
	suite.createObjective("Local revenue", 900, false)
	suite.signup("alice")
	suite.signup("bob")

	w := suite.request(http.MethodPost, "/api/objectives/bulk-assign-global", nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var manifest services.BulkAssignmentManifest
	suite.decode(w, &manifest)
	suite.NotEmpty(manifest.RunID)
	suite.Equal(3, manifest.Created)
	suite.Zero(manifest.Skipped)
	suite.Empty(manifest.Failures)

	var targets []float64
	suite.Require().NoError(suite.db.Model(&models.Assignment{}).Pluck("individual_target", &targets).Error)
	suite.ElementsMatch([]float64{300, 300, 300}, targets)

	w = suite.request(http.MethodPost, "/api/objectives/bulk-assign-global", nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &manifest)
	suite.Zero(manifest.Created)
	suite.Equal(3, manifest.Skipped)
}
