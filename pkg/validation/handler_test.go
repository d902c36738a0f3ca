package validation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/centava/centava/pkg/budget_item"
	"github.com/stretchr/testify/assert"
)

func setupHandlerTest(t *testing.T) (*Handler, func(*http.Request) *http.Request, func()) {
	service, _, ctx, itemRepo, incomeRepo, teardown := setupService(t)
	handler := NewHandler(service)

	storeSalary(t, ctx, incomeRepo)
	_, err := itemRepo.Store(ctx, 1, item(0, "Savings", budget_item.CalcNetPercent, 150, 1))
	assert.NoError(t, err)

	withUser := func(req *http.Request) *http.Request {
		return req.WithContext(ctx)
	}
	return handler, withUser, teardown
}

func TestHandler_Validate(t *testing.T) {
	handler, withUser, teardown := setupHandlerTest(t)
	defer teardown()

	// when
	req := httptest.NewRequest(http.MethodGet, "/api/validation", nil)
	w := httptest.NewRecorder()
	handler.Validate(w, withUser(req))

	// then
	assert.Equal(t, http.StatusOK, w.Code)

	var result ResultDTO
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.False(t, result.IsValid)
	assert.Equal(t, 1, result.Summary.Errors)

	found := false
	for _, issue := range result.Issues {
		if issue.Kind == string(KindPercentageTooHigh) {
			found = true
			assert.True(t, issue.AutoFixable)
		}
	}
	assert.True(t, found)
}

func TestHandler_Validate_NoUserInContext(t *testing.T) {
	handler, _, teardown := setupHandlerTest(t)
	defer teardown()

	// when
	req := httptest.NewRequest(http.MethodGet, "/api/validation", nil)
	w := httptest.NewRecorder()
	handler.Validate(w, req)

	// then
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_Resolutions(t *testing.T) {
	handler, withUser, teardown := setupHandlerTest(t)
	defer teardown()

	// when
	req := httptest.NewRequest(http.MethodGet, "/api/validation/resolutions", nil)
	w := httptest.NewRecorder()
	handler.Resolutions(w, withUser(req))

	// then
	assert.Equal(t, http.StatusOK, w.Code)

	var resolutions []ResolutionDTO
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resolutions))
	assert.Len(t, resolutions, 1)
	assert.Equal(t, string(ResolutionAdjustValues), resolutions[0].Type)
	assert.Len(t, resolutions[0].Changes, 1)
}

func TestHandler_ApplyResolutions(t *testing.T) {
	handler, withUser, teardown := setupHandlerTest(t)
	defer teardown()

	// given: fetch the proposed resolution first
	req := httptest.NewRequest(http.MethodGet, "/api/validation/resolutions", nil)
	w := httptest.NewRecorder()
	handler.Resolutions(w, withUser(req))
	var resolutions []ResolutionDTO
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resolutions))
	assert.Len(t, resolutions, 1)

	// when
	body, err := json.Marshal(ApplyRequestDTO{IssueIds: []string{resolutions[0].IssueId}})
	assert.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/validation/resolutions/apply", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	handler.ApplyResolutions(w, withUser(req))

	// then
	assert.Equal(t, http.StatusOK, w.Code)

	var result ResultDTO
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	for _, issue := range result.Issues {
		assert.NotEqual(t, string(KindPercentageTooHigh), issue.Kind)
	}
}

func TestHandler_ApplyResolutions_EmptyRequest(t *testing.T) {
	handler, withUser, teardown := setupHandlerTest(t)
	defer teardown()

	// when
	req := httptest.NewRequest(http.MethodPost, "/api/validation/resolutions/apply", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	handler.ApplyResolutions(w, withUser(req))

	// then
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
