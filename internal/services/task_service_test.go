package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
)

// TaskServiceTestSuite covers the board ordering engine and the activity
// trail it produces.
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *TaskService
	project *models.Project
	user    *models.User
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectRole{},
		&models.Task{},
		&models.Activity{},
	)
	suite.Require().NoError(err)

	taskRepo := repository.NewTaskRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	activityRepo := repository.NewActivityRepository(suite.db)
	suite.service = NewTaskService(taskRepo, projectRepo, NewActivityService(activityRepo))

	suite.user = &models.User{Name: "tester", Email: "tester@example.com", PasswordHash: "x"}
	suite.Require().NoError(suite.db.Create(suite.user).Error)

	suite.project = &models.Project{Name: "Board", Key: "BOARD", CreatedByID: suite.user.ID, IsActive: true}
	suite.Require().NoError(suite.db.Create(suite.project).Error)

	suite.Require().NoError(suite.db.Create(&models.ProjectRole{
		ProjectID: suite.project.ID,
		UserID:    suite.user.ID,
		Role:      models.ProjectRoleAdmin,
	}).Error)
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createTask(title string, status models.TaskStatus) *models.Task {
	task, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID: suite.project.ID,
		CreatorID: suite.user.ID,
		Title:     title,
		Status:    status,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *TaskServiceTestSuite) lastActivity() *models.Activity {
	var activity models.Activity
	suite.Require().NoError(suite.db.Order("id DESC").First(&activity).Error)
	return &activity
}

func (suite *TaskServiceTestSuite) TestCreateTask_OrdersPerPartition() {
	first := suite.createTask("todo one", models.TaskStatusTodo)
	second := suite.createTask("todo two", models.TaskStatusTodo)
	done := suite.createTask("done one", models.TaskStatusDone)

	// Each (project, status) partition numbers independently from zero.
	assert.Equal(suite.T(), 0, first.SortOrder)
	assert.Equal(suite.T(), 1, second.SortOrder)
	assert.Equal(suite.T(), 0, done.SortOrder)
}

func (suite *TaskServiceTestSuite) TestCreateTask_DefaultsAndActivity() {
	task, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID: suite.project.ID,
		CreatorID: suite.user.ID,
		Title:     "Bare minimum",
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.TaskStatusTodo, task.Status)
	assert.Equal(suite.T(), models.TaskPriorityMedium, task.Priority)
	assert.NotNil(suite.T(), task.Subtasks)
	assert.NotNil(suite.T(), task.Tags)

	activity := suite.lastActivity()
	assert.Equal(suite.T(), models.ActionTaskCreated, activity.Action)
	suite.Require().NotNil(activity.EntityID)
	assert.Equal(suite.T(), task.ID, *activity.EntityID)
}

func (suite *TaskServiceTestSuite) TestCreateTask_RejectsNonMemberAssignee() {
	outsider := &models.User{Name: "out", Email: "out@example.com", PasswordHash: "x"}
	suite.Require().NoError(suite.db.Create(outsider).Error)

	_, err := suite.service.CreateTask(CreateTaskInput{
		ProjectID:    suite.project.ID,
		CreatorID:    suite.user.ID,
		Title:        "Bad assignee",
		AssignedToID: &outsider.ID,
	})

	assert.ErrorIs(suite.T(), err, ErrInvalidAssignee)
}

func (suite *TaskServiceTestSuite) TestMoveTask_ShiftExcludesMovedTask() {
	a := suite.createTask("a", models.TaskStatusTodo)
	b := suite.createTask("b", models.TaskStatusTodo)
	c := suite.createTask("c", models.TaskStatusTodo)
	d := suite.createTask("d", models.TaskStatusTodo)

	// Move the head of the column to position 2 within the same column.
	order := 2
	moved, err := suite.service.MoveTask(suite.project.ID, suite.user.ID, a.ID, MoveTaskInput{
		Status: models.TaskStatusTodo,
		Order:  &order,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 2, moved.SortOrder)

	wantOrders := map[uint64]int{
		a.ID: 2,
		b.ID: 1,
		c.ID: 3,
		d.ID: 4,
	}
	for id, want := range wantOrders {
		var task models.Task
		suite.Require().NoError(suite.db.First(&task, id).Error)
		assert.Equal(suite.T(), want, task.SortOrder, "task %d", id)
	}
}

func (suite *TaskServiceTestSuite) TestMoveTask_LogsFromAndToStatus() {
	task := suite.createTask("traveller", models.TaskStatusTodo)

	_, err := suite.service.MoveTask(suite.project.ID, suite.user.ID, task.ID, MoveTaskInput{
		Status: models.TaskStatusInReview,
	})
	suite.Require().NoError(err)

	activity := suite.lastActivity()
	assert.Equal(suite.T(), models.ActionTaskMoved, activity.Action)
	assert.Equal(suite.T(), "todo", activity.Metadata["fromStatus"])
	assert.Equal(suite.T(), "in-review", activity.Metadata["toStatus"])
}

func (suite *TaskServiceTestSuite) TestUpdateTask_StatusChangeWinsOverAssignee() {
	task := suite.createTask("both changes", models.TaskStatusTodo)

	status := models.TaskStatusDone
	_, err := suite.service.UpdateTask(suite.project.ID, suite.user.ID, models.ProjectRoleAdmin, task.ID, UpdateTaskInput{
		Status:       &status,
		AssignedToID: &suite.user.ID,
	})
	suite.Require().NoError(err)

	// One activity per update; a status change outranks the assignment.
	activity := suite.lastActivity()
	assert.Equal(suite.T(), models.ActionTaskStatusChanged, activity.Action)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_AssigneeChangeLogsAssigned() {
	task := suite.createTask("assign me", models.TaskStatusTodo)

	_, err := suite.service.UpdateTask(suite.project.ID, suite.user.ID, models.ProjectRoleAdmin, task.ID, UpdateTaskInput{
		AssignedToID: &suite.user.ID,
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.ActionTaskAssigned, suite.lastActivity().Action)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_PlainEditLogsUpdated() {
	task := suite.createTask("rename me", models.TaskStatusTodo)

	title := "renamed"
	_, err := suite.service.UpdateTask(suite.project.ID, suite.user.ID, models.ProjectRoleAdmin, task.ID, UpdateTaskInput{
		Title: &title,
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.ActionTaskUpdated, suite.lastActivity().Action)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_StatusChangeAppendsToDestination() {
	suite.createTask("done one", models.TaskStatusDone)
	suite.createTask("done two", models.TaskStatusDone)
	task := suite.createTask("mover", models.TaskStatusTodo)

	status := models.TaskStatusDone
	updated, err := suite.service.UpdateTask(suite.project.ID, suite.user.ID, models.ProjectRoleAdmin, task.ID, UpdateTaskInput{
		Status: &status,
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), 2, updated.SortOrder)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_ContributorOwnershipRule() {
	contributor := &models.User{Name: "contrib", Email: "contrib@example.com", PasswordHash: "x"}
	suite.Require().NoError(suite.db.Create(contributor).Error)
	suite.Require().NoError(suite.db.Create(&models.ProjectRole{
		ProjectID: suite.project.ID,
		UserID:    contributor.ID,
		Role:      models.ProjectRoleContributor,
	}).Error)

	task := suite.createTask("owned", models.TaskStatusTodo)

	title := "hijacked"
	_, err := suite.service.UpdateTask(suite.project.ID, contributor.ID, models.ProjectRoleContributor, task.ID, UpdateTaskInput{
		Title: &title,
	})
	assert.ErrorIs(suite.T(), err, ErrNotTaskAssignee)

	suite.Require().NoError(suite.db.Model(task).Update("assigned_to_id", contributor.ID).Error)

	updated, err := suite.service.UpdateTask(suite.project.ID, contributor.ID, models.ProjectRoleContributor, task.ID, UpdateTaskInput{
		Title: &title,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "hijacked", updated.Title)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_LeavesOrderGaps() {
	a := suite.createTask("a", models.TaskStatusTodo)
	b := suite.createTask("b", models.TaskStatusTodo)
	c := suite.createTask("c", models.TaskStatusTodo)

	suite.Require().NoError(suite.service.DeleteTask(suite.project.ID, suite.user.ID, b.ID))

	// Deletion never re-compacts the column.
	var remaining []models.Task
	suite.Require().NoError(suite.db.Order("sort_order ASC").Find(&remaining).Error)
	suite.Require().Len(remaining, 2)
	assert.Equal(suite.T(), a.ID, remaining[0].ID)
	assert.Equal(suite.T(), 0, remaining[0].SortOrder)
	assert.Equal(suite.T(), c.ID, remaining[1].ID)
	assert.Equal(suite.T(), 2, remaining[1].SortOrder)
}

func (suite *TaskServiceTestSuite) TestGetTask_ScopedToProject() {
	other := &models.Project{Name: "Other", Key: "OTHER", CreatedByID: suite.user.ID, IsActive: true}
	suite.Require().NoError(suite.db.Create(other).Error)

	task := suite.createTask("scoped", models.TaskStatusTodo)

	_, err := suite.service.GetTask(other.ID, task.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

// TestSuite runs the test suite
func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
