package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"tasksapi/internal/adapter/database/sqlite"
	"tasksapi/internal/adapter/database/sqlite/repository"
	"tasksapi/internal/adapter/http/handler"
	"tasksapi/internal/adapter/http/routes"
	"tasksapi/internal/core/domain"
	"tasksapi/internal/core/model/response"
	"tasksapi/internal/core/port"
	"tasksapi/internal/core/service"
	"tasksapi/pkg/test"
	factory "tasksapi/pkg/test/factory"
)

var ctx = context.Background()

type TaskHandlerSuite struct {
	suite.Suite
	Repo   port.TaskRepository
	Router *gin.Engine
	DB     *sqlite.DB
}

func (s *TaskHandlerSuite) SetupTest() {
	s.DB = test.InitTestDB()
	s.Repo = repository.NewTaskRepository(s.DB)

	taskService := service.NewTaskService(s.Repo)

	s.Router = routes.SetupRouterForTests(routes.HandlersConfig{
		TaskHandler:   handler.NewTaskHandler(taskService),
		HealthHandler: handler.NewHealthHandler(),
	})
}

func (s *TaskHandlerSuite) TearDownTest() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func TestTaskHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskHandlerSuite))
}

func (s *TaskHandlerSuite) do(method, path string, body string) *httptest.ResponseRecorder {
	var reader io.Reader

	if body != "" {
		reader = strings.NewReader(body)
	}

	req, _ := http.NewRequest(method, path, reader)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func seedTask(s *TaskHandlerSuite, title string) domain.Task {
	now := time.Now().UTC()

	task, _ := s.Repo.Create(ctx, factory.NewTask[domain.Task](map[string]any{
		"Title":     title,
		"Completed": false,
		"CreatedAt": now,
		"UpdatedAt": now,
	}))

	return task
}

func decodeTask(rr *httptest.ResponseRecorder) response.TaskResponse {
	var task response.TaskResponse
	json.Unmarshal(rr.Body.Bytes(), &task)
	return task
}

func (s *TaskHandlerSuite) TestCreateTask() {
	rr := s.do("POST", "/tasks/", `{"title": "Buy milk", "description": "Two liters"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(rr.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

	task := decodeTask(rr)

	Expect(task.ID).To(Equal(1))
	Expect(task.Title).To(Equal("Buy milk"))
	Expect(task.Description).To(Equal("Two liters"))
	Expect(task.Completed).To(BeFalse())
	Expect(task.CreatedAt.Equal(task.UpdatedAt)).To(BeTrue())
}

func (s *TaskHandlerSuite) TestCreateTask_TitleOnly() {
	rr := s.do("POST", "/tasks/", `{"title": "Buy milk"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	task := decodeTask(rr)

	Expect(task.Title).To(Equal("Buy milk"))
	Expect(task.Description).To(Equal(""))
	Expect(task.Completed).To(BeFalse())
}

func (s *TaskHandlerSuite) TestCreateTask_MissingTitle() {
	rr := s.do("POST", "/tasks/", `{"description": "no title"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	var errorResponse response.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &errorResponse)

	Expect(errorResponse.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(len(errorResponse.Error.Errors)).To(BeNumerically(">", 0))
}

func (s *TaskHandlerSuite) TestListTasks_Empty() {
	rr := s.do("GET", "/tasks/?skip=0&limit=100", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(MatchJSON(`{"count": 0, "tasks": []}`))
}

func (s *TaskHandlerSuite) TestListTasks_WithData() {
	seedTask(s, "one")
	seedTask(s, "two")

	rr := s.do("GET", "/tasks/", "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	var list response.TaskListResponse
	json.Unmarshal(rr.Body.Bytes(), &list)

	Expect(list.Count).To(Equal(2))
	Expect(list.Tasks).To(HaveLen(2))
}

func (s *TaskHandlerSuite) TestListTasks_Limit() {
	for i := 0; i < 5; i++ {
		seedTask(s, fmt.Sprintf("task %d", i))
	}

	rr := s.do("GET", "/tasks/?limit=3", "")

	var list response.TaskListResponse
	json.Unmarshal(rr.Body.Bytes(), &list)

	Expect(list.Count).To(Equal(3))
}

func (s *TaskHandlerSuite) TestGetTask_RoundTrip() {
	created := decodeTask(s.do("POST", "/tasks/", `{"title": "Read", "description": "One chapter"}`))

	rr := s.do("GET", fmt.Sprintf("/tasks/%d", created.ID), "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	fetched := decodeTask(rr)

	Expect(fetched).To(Equal(created))
}

func (s *TaskHandlerSuite) TestGetTask_NotFound() {
	rr := s.do("GET", "/tasks/42", "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))

	var errorResponse response.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &errorResponse)

	Expect(errorResponse.Error.Code).To(Equal("NOT_FOUND"))
}

func (s *TaskHandlerSuite) TestGetTask_NonNumericID() {
	rr := s.do("GET", "/tasks/abc", "")

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TaskHandlerSuite) TestPatchTask_CompletedOnly() {
	created := decodeTask(s.do("POST", "/tasks/", `{"title": "Water plants", "description": "Balcony"}`))

	rr := s.do("PATCH", fmt.Sprintf("/tasks/%d", created.ID), `{"completed": true}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	updated := decodeTask(rr)

	Expect(updated.Completed).To(BeTrue())
	Expect(updated.Title).To(Equal("Water plants"))
	Expect(updated.Description).To(Equal("Balcony"))
	Expect(updated.UpdatedAt.Before(created.UpdatedAt)).To(BeFalse())
}

func (s *TaskHandlerSuite) TestPutTask_AppliesOnlySuppliedFields() {
	created := decodeTask(s.do("POST", "/tasks/", `{"title": "Initial", "description": "Keep me"}`))

	rr := s.do("PUT", fmt.Sprintf("/tasks/%d", created.ID), `{"title": "Renamed"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	updated := decodeTask(rr)

	Expect(updated.Title).To(Equal("Renamed"))
	Expect(updated.Description).To(Equal("Keep me"))
}

func (s *TaskHandlerSuite) TestPatchTask_NullDescriptionClears() {
	created := decodeTask(s.do("POST", "/tasks/", `{"title": "Call bank", "description": "Before noon"}`))

	rr := s.do("PATCH", fmt.Sprintf("/tasks/%d", created.ID), `{"description": null}`)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(decodeTask(rr).Description).To(Equal(""))
}

func (s *TaskHandlerSuite) TestPatchTask_NullTitleRejected() {
	created := decodeTask(s.do("POST", "/tasks/", `{"title": "Valid"}`))

	rr := s.do("PATCH", fmt.Sprintf("/tasks/%d", created.ID), `{"title": null}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TaskHandlerSuite) TestUpdateTask_NotFound() {
	rr := s.do("PUT", "/tasks/42", `{"title": "Ghost"}`)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TaskHandlerSuite) TestDeleteTask_Twice() {
	created := decodeTask(s.do("POST", "/tasks/", `{"title": "Trash"}`))

	first := s.do("DELETE", fmt.Sprintf("/tasks/%d", created.ID), "")
	Expect(first.Code).To(Equal(http.StatusNoContent))
	Expect(first.Body.Len()).To(Equal(0))

	second := s.do("DELETE", fmt.Sprintf("/tasks/%d", created.ID), "")
	Expect(second.Code).To(Equal(http.StatusNotFound))
}

func (s *TaskHandlerSuite) TestResetTasks() {
	seedTask(s, "one")
	seedTask(s, "two")

	rr := s.do("DELETE", "/tasks/reset", "")

	Expect(rr.Code).To(Equal(http.StatusNoContent))
	Expect(rr.Body.Len()).To(Equal(0))

	var list response.TaskListResponse
	json.Unmarshal(s.do("GET", "/tasks/", "").Body.Bytes(), &list)
	Expect(list.Count).To(Equal(0))

	created := decodeTask(s.do("POST", "/tasks/", `{"title": "fresh"}`))
	Expect(created.ID).To(Equal(1))
}

func (s *TaskHandlerSuite) TestResetTasks_EmptyStore() {
	rr := s.do("DELETE", "/tasks/reset", "")

	Expect(rr.Code).To(Equal(http.StatusNoContent))
}

func (s *TaskHandlerSuite) TestHealth() {
	rr := s.do("GET", "/health", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(MatchJSON(`{"status": "healthy"}`))
}
