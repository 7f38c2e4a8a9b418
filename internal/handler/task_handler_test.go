package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taskman/internal/auth"
	"taskman/internal/errors"
	"taskman/internal/model"
	"taskman/internal/service"
)

// MockTaskService is a mock implementation of service.TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*model.Task, error) {
	args := m.Called(ctx, ownerID, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, in service.UpdateTaskInput) (*model.Task, error) {
	args := m.Called(ctx, ownerID, taskID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	args := m.Called(ctx, ownerID, taskID)
	return args.Error(0)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTaskContext(method, target, body string, user *model.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(auth.UserContextKey, user)
	}
	return c, rec
}

func TestTaskHandler_Create(t *testing.T) {
	user := &model.User{ID: uuid.New()}
	created := &model.Task{
		ID:     uuid.New(),
		UserID: user.ID,
		Title:  "Write tests",
		Status: model.TaskStatusPending,
	}

	svc := new(MockTaskService)
	svc.On("Create", mock.Anything, user.ID, "Write tests", "").Return(created, nil)

	h := NewTaskHandler(svc)
	c, rec := newTaskContext(http.MethodPost, "/api/tasks", `{"title":"Write tests"}`, user)

	err := h.Create(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got model.Task
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Write tests", got.Title)
	assert.Equal(t, model.TaskStatusPending, got.Status)
	svc.AssertExpectations(t)
}

func TestTaskHandler_Create_MissingTitle(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc)
	c, _ := newTaskContext(http.MethodPost, "/api/tasks", `{"description":"no title"}`, &model.User{ID: uuid.New()})

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_List(t *testing.T) {
	user := &model.User{ID: uuid.New()}
	svc := new(MockTaskService)
	svc.On("List", mock.Anything, user.ID).Return([]model.Task{}, nil)

	h := NewTaskHandler(svc)
	c, rec := newTaskContext(http.MethodGet, "/api/tasks", "", user)

	err := h.List(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	svc.AssertExpectations(t)
}

func TestTaskHandler_Update_InvalidID(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc)

	c, _ := newTaskContext(http.MethodPut, "/api/tasks/not-a-uuid", `{"title":"x"}`, &model.User{ID: uuid.New()})
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.Update(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, errors.ErrorResponse{Message: "Invalid task ID"}, httpErr.Message)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_Update_NotOwned(t *testing.T) {
	user := &model.User{ID: uuid.New()}
	taskID := uuid.New()

	svc := new(MockTaskService)
	svc.On("Update", mock.Anything, user.ID, taskID, service.UpdateTaskInput{Status: "completed"}).
		Return(nil, errors.ErrTaskNotFound)

	h := NewTaskHandler(svc)
	c, _ := newTaskContext(http.MethodPut, "/api/tasks/"+taskID.String(), `{"status":"completed"}`, user)
	c.SetParamNames("id")
	c.SetParamValues(taskID.String())

	err := h.Update(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.Equal(t, errors.ErrorResponse{Message: "Task not found or not authorized"}, httpErr.Message)
	svc.AssertExpectations(t)
}

func TestTaskHandler_Delete(t *testing.T) {
	user := &model.User{ID: uuid.New()}
	taskID := uuid.New()

	svc := new(MockTaskService)
	svc.On("Delete", mock.Anything, user.ID, taskID).Return(nil)

	h := NewTaskHandler(svc)
	c, rec := newTaskContext(http.MethodDelete, "/api/tasks/"+taskID.String(), "", user)
	c.SetParamNames("id")
	c.SetParamValues(taskID.String())

	err := h.Delete(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Task deleted successfully"}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestTaskHandler_NoAuthenticatedUser(t *testing.T) {
	svc := new(MockTaskService)
	h := NewTaskHandler(svc)
	c, _ := newTaskContext(http.MethodGet, "/api/tasks", "", nil)

	err := h.List(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
