package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/yukikurage/sales-objectives-api/internal/dto"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/services"
)

func (suite *APITestSuite) createQualitative(name string, global bool, dueDate *time.Time, assignees ...uint64) *models.QualitativeObjective {
	objective, err := suite.qualitativeService.Create(services.CreateQualitativeInput{
		Name:        name,
		IsGlobal:    global,
		DueDate:     dueDate,
		AssigneeIDs: assignees,
	})
	suite.Require().NoError(err)
	return objective
}

func (suite *APITestSuite) TestCreateQualitativeObjective() {
	seller := suite.signup("seller")

	w := suite.request(http.MethodPost, "/api/qualitative-objectives", map[string]interface{}{
		"name":         "Run onboarding workshop",
		"description":  "Train the two new hires on the CRM",
		"weight":       2,
		"due_date":     "2026-06-30",
		"assignee_ids": []uint64{seller.ID, seller.ID},
	}, suite.manager.ID)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var response dto.QualitativeObjectiveDTO
	suite.decode(w, &response)
	suite.Equal("Run onboarding workshop", response.Name)
	suite.Equal(models.StatusPending, response.Status)
	suite.Equal([]uint64{seller.ID}, response.AssigneeIDs)
	suite.Require().NotNil(response.DueDate)
	suite.Equal("2026-06-30", response.DueDate.Format("2006-01-02"))
}

func (suite *APITestSuite) TestCreateQualitativeObjective_Invalid() {
	w := suite.request(http.MethodPost, "/api/qualitative-objectives", map[string]interface{}{
		"name": "   ",
	}, suite.manager.ID)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/qualitative-objectives", map[string]interface{}{
		"name":         "Map buying committee",
		"assignee_ids": []uint64{9999},
	}, suite.manager.ID)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/qualitative-objectives", map[string]interface{}{
		"name":     "Map buying committee",
		"due_date": "next week",
	}, suite.manager.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestListQualitativeObjectives_ByRole() {
	seller := suite.signup("seller")
	other := suite.signup("other")
	suite.createQualitative("Mine", false, nil, seller.ID)
	suite.createQualitative("Theirs", false, nil, other.ID)
	suite.createQualitative("Everyone", true, nil)

	w := suite.request(http.MethodGet, "/api/qualitative-objectives", nil, seller.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	var mine struct {
		Objectives []dto.QualitativeObjectiveDTO `json:"objectives"`
	}
	suite.decode(w, &mine)
	names := make([]string, len(mine.Objectives))
	for i, o := range mine.Objectives {
		names[i] = o.Name
	}
	suite.ElementsMatch([]string{"Mine", "Everyone"}, names)

	w = suite.request(http.MethodGet, "/api/qualitative-objectives", nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	var all dto.QualitativeObjectiveListResponse
	suite.decode(w, &all)
	suite.Len(all.Objectives, 3)
	suite.Equal(int64(3), all.Pagination.Total)

	w = suite.request(http.MethodGet, "/api/qualitative-objectives?mine=true", nil, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &mine)
	suite.Require().Len(mine.Objectives, 1)
	suite.Equal("Everyone", mine.Objectives[0].Name)
}

func (suite *APITestSuite) TestGetQualitativeObjective_Visibility() {
	seller := suite.signup("seller")
	other := suite.signup("other")
	objective := suite.createQualitative("Mine", false, nil, seller.ID)
	path := fmt.Sprintf("/api/qualitative-objectives/%d", objective.ID)

	suite.Equal(http.StatusOK, suite.request(http.MethodGet, path, nil, seller.ID).Code)
	suite.Equal(http.StatusOK, suite.request(http.MethodGet, path, nil, suite.manager.ID).Code)
	suite.Equal(http.StatusNotFound, suite.request(http.MethodGet, path, nil, other.ID).Code)
}

func (suite *APITestSuite) TestUpdateQualitativeObjective() {
	objective := suite.createQualitative("Draft", false, nil)
	path := fmt.Sprintf("/api/qualitative-objectives/%d", objective.ID)

	w := suite.request(http.MethodPatch, path, map[string]interface{}{
		"name":   "Final",
		"status": "in_progress",
	}, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var response dto.QualitativeObjectiveDTO
	suite.decode(w, &response)
	suite.Equal("Final", response.Name)
	suite.Equal(models.StatusInProgress, response.Status)

	w = suite.request(http.MethodPatch, path, map[string]interface{}{"status": "abandoned"}, suite.manager.ID)
	suite.Equal(http.StatusBadRequest, w.Code)

	seller := suite.signup("seller")
	w = suite.request(http.MethodPatch, path, map[string]interface{}{"name": "Hijacked"}, seller.ID)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestSetAssignees() {
	alice := suite.signup("alice")
	bob := suite.signup("bob")
	objective := suite.createQualitative("Shared", false, nil, alice.ID)
	path := fmt.Sprintf("/api/qualitative-objectives/%d/assignees", objective.ID)

	w := suite.request(http.MethodPut, path, map[string]interface{}{
		"contributor_ids": []uint64{bob.ID, alice.ID},
	}, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var response dto.QualitativeObjectiveDTO
	suite.decode(w, &response)
	suite.ElementsMatch([]uint64{alice.ID, bob.ID}, response.AssigneeIDs)

	w = suite.request(http.MethodPut, path, map[string]interface{}{
		"contributor_ids": []uint64{},
	}, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &response)
	suite.Empty(response.AssigneeIDs)
}

func (suite *APITestSuite) TestCompleteQualitativeObjective() {
	due := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	objective := suite.createQualitative("Workshop", true, &due)
	path := fmt.Sprintf("/api/qualitative-objectives/%d/complete", objective.ID)

	w := suite.request(http.MethodPost, path, map[string]interface{}{
		"completion_date": "2026-03-01",
	}, suite.manager.ID)
	suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())

	w = suite.request(http.MethodPost, path, map[string]interface{}{
		"completion_date": "2026-04-02",
		"score":           4.5,
		"supervisor_note": "Well prepared",
	}, suite.manager.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var response dto.QualitativeObjectiveDTO
	suite.decode(w, &response)
	suite.Equal(models.StatusCompleted, response.Status)
	suite.Require().NotNil(response.CompletionDate)
	suite.Equal("2026-04-02", response.CompletionDate.Format("2006-01-02"))
	suite.Require().NotNil(response.Score)
	suite.Equal(4.5, *response.Score)
	suite.Equal("Well prepared", response.SupervisorNote)
}

func (suite *APITestSuite) TestDeleteQualitativeObjective() {
	seller := suite.signup("seller")
	objective := suite.createQualitative("Gone soon", false, nil, seller.ID)
	path := fmt.Sprintf("/api/qualitative-objectives/%d", objective.ID)

	suite.Require().Equal(http.StatusOK, suite.request(http.MethodDelete, path, nil, suite.manager.ID).Code)
	suite.Equal(http.StatusNotFound, suite.request(http.MethodGet, path, nil, suite.manager.ID).Code)

	var links int64
	suite.Require().NoError(suite.db.Model(&models.QualitativeObjectiveAssignee{}).Count(&links).Error)
	suite.Zero(links)
}

func (suite *APITestSuite) TestGenerateDrafts_WithoutAI() {
	w := suite.request(http.MethodPost, "/api/qualitative-objectives/generate", map[string]interface{}{
		"text": "Next quarter we should train new hires and review our top accounts.",
	}, suite.manager.ID)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Equal("SERVICE_UNAVAILABLE", suite.errorCode(w))

	w = suite.request(http.MethodPost, "/api/qualitative-objectives/generate", map[string]interface{}{
		"text": "   ",
	}, suite.manager.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
}
