package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/taskdeck/taskdeck/internal/handlers"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/types"
)

func TestCreateTask(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("admin@test.com", types.RoleAdmin)
	member := env.createUser("member@test.com", types.RoleMember)
	project := env.createProject("X")
	env.addMember(project, member)
	token := env.tokenFor(admin)

	body := fmt.Sprintf(`{"title": "Y", "priority": "HIGH", "project_id": %d, "assigned_to_id": %d}`, project.ID, member.ID)
	rr := env.request(http.MethodPost, "/api/tasks", body, token)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}

	var task handlers.TaskResponse

	if err := json.Unmarshal(rr.Body.Bytes(), &task); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if task.Title != "Y" || task.Priority != types.PriorityHigh || task.Status != types.TaskTodo {
		t.Errorf("unexpected task: %+v", task)
	}

	if task.AssignedToID != member.ID || task.ProjectID != project.ID {
		t.Errorf("unexpected task references: %+v", task)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("admin@test.com", types.RoleAdmin)
	member := env.createUser("member@test.com", types.RoleMember)
	outsider := env.createUser("outsider@test.com", types.RoleMember)
	project := env.createProject("X")
	env.addMember(project, member)
	token := env.tokenFor(admin)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", fmt.Sprintf(`{"project_id": %d, "assigned_to_id": %d}`, project.ID, member.ID)},
		{"missing project", fmt.Sprintf(`{"title": "Y", "assigned_to_id": %d}`, member.ID)},
		{"missing assignee", fmt.Sprintf(`{"title": "Y", "project_id": %d}`, project.ID)},
		{"assignee not a member", fmt.Sprintf(`{"title": "Y", "project_id": %d, "assigned_to_id": %d}`, project.ID, outsider.ID)},
		{"invalid priority", fmt.Sprintf(`{"title": "Y", "priority": "URGENT", "project_id": %d, "assigned_to_id": %d}`, project.ID, member.ID)},
		{"invalid status", fmt.Sprintf(`{"title": "Y", "status": "BLOCKED", "project_id": %d, "assigned_to_id": %d}`, project.ID, member.ID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.request(http.MethodPost, "/api/tasks", tt.body, token)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d (%s)", rr.Code, rr.Body.String())
			}
		})
	}

	if n := env.count(&models.Task{}, ""); n != 0 {
		t.Errorf("failed creations must not leave rows, got %d", n)
	}
}

func TestCreateTaskForbiddenForMembers(t *testing.T) {
	env := newTestEnv(t)
	member := env.createUser("member@test.com", types.RoleMember)
	project := env.createProject("X")
	env.addMember(project, member)

	body := fmt.Sprintf(`{"title": "Y", "project_id": %d, "assigned_to_id": %d}`, project.ID, member.ID)
	rr := env.request(http.MethodPost, "/api/tasks", body, env.tokenFor(member))

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d (%s)", rr.Code, rr.Body.String())
	}

	if n := env.count(&models.Task{}, ""); n != 0 {
		t.Errorf("expected no task rows, got %d", n)
	}
}

func TestListTasksRoleFiltered(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("admin@test.com", types.RoleAdmin)
	assignee := env.createUser("assignee@test.com", types.RoleMember)
	other := env.createUser("other@test.com", types.RoleMember)
	project := env.createProject("X")
	env.addMember(project, assignee)
	env.addMember(project, other)
	task := env.createTask(project, assignee, "Y")

	// The assignee sees exactly their task.
	rr := env.request(http.MethodGet, "/api/tasks", "", env.tokenFor(assignee))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}

	var tasks []handlers.TaskResponse

	if err := json.Unmarshal(rr.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Fatalf("expected exactly the assigned task, got %+v", tasks)
	}

	if tasks[0].Project == nil || tasks[0].Project.Name != "X" {
		t.Errorf("expected project included for member listing, got %+v", tasks[0].Project)
	}

	// Another member sees nothing.
	rr = env.request(http.MethodGet, "/api/tasks", "", env.tokenFor(other))

	if err := json.Unmarshal(rr.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(tasks) != 0 {
		t.Errorf("expected empty list for non-assignee, got %+v", tasks)
	}

	// The admin sees everything with the assignee included.
	rr = env.request(http.MethodGet, "/api/tasks", "", env.tokenFor(admin))

	if err := json.Unmarshal(rr.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(tasks) != 1 {
		t.Fatalf("expected 1 task for admin, got %d", len(tasks))
	}

	if tasks[0].AssignedTo == nil || tasks[0].AssignedTo.ID != assignee.ID {
		t.Errorf("expected assignee included for admin listing, got %+v", tasks[0].AssignedTo)
	}
}

func TestMemberUpdatesOwnTaskStatusOnly(t *testing.T) {
	env := newTestEnv(t)
	assignee := env.createUser("assignee@test.com", types.RoleMember)
	project := env.createProject("X")
	env.addMember(project, assignee)
	task := env.createTask(project, assignee, "Y")
	path := fmt.Sprintf("/api/tasks/%d", task.ID)
	token := env.tokenFor(assignee)

	rr := env.request(http.MethodPatch, path, `{"status": "DONE"}`, token)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}

	var reloaded models.Task
	if err := env.db.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if reloaded.Status != types.TaskDone {
		t.Errorf("expected status DONE, got %s", reloaded.Status)
	}

	// Non-status fields from a member are ignored.
	rr = env.request(http.MethodPatch, path, `{"title": "Z", "priority": "LOW"}`, token)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}

	if err := env.db.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if reloaded.Title != "Y" || reloaded.Priority != types.PriorityMedium {
		t.Errorf("member must not change title/priority, got %q/%s", reloaded.Title, reloaded.Priority)
	}
}

func TestMemberCannotTouchOthersTask(t *testing.T) {
	env := newTestEnv(t)
	assignee := env.createUser("assignee@test.com", types.RoleMember)
	other := env.createUser("other@test.com", types.RoleMember)
	project := env.createProject("X")
	env.addMember(project, assignee)
	env.addMember(project, other)
	task := env.createTask(project, assignee, "Y")

	rr := env.request(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), `{"status": "DONE"}`, env.tokenFor(other))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (%s)", rr.Code, rr.Body.String())
	}

	var reloaded models.Task
	if err := env.db.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if reloaded.Status != types.TaskTodo {
		t.Errorf("task must be unchanged, got status %s", reloaded.Status)
	}
}

func TestAdminUpdatesAnyTaskField(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("admin@test.com", types.RoleAdmin)
	assignee := env.createUser("assignee@test.com", types.RoleMember)
	outsider := env.createUser("outsider@test.com", types.RoleMember)
	project := env.createProject("X")
	env.addMember(project, assignee)
	task := env.createTask(project, assignee, "Y")
	path := fmt.Sprintf("/api/tasks/%d", task.ID)
	token := env.tokenFor(admin)

	rr := env.request(http.MethodPatch, path, `{"title": "Z", "priority": "HIGH", "status": "IN_PROGRESS"}`, token)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}

	var reloaded models.Task
	if err := env.db.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if reloaded.Title != "Z" || reloaded.Priority != types.PriorityHigh || reloaded.Status != types.TaskInProgress {
		t.Errorf("unexpected task after admin update: %+v", reloaded)
	}

	// Reassignment is not re-validated against membership; the admin
	// may point the task at a non-member.
	rr = env.request(http.MethodPatch, path, fmt.Sprintf(`{"assigned_to_id": %d}`, outsider.ID), token)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}

	if err := env.db.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if reloaded.AssignedToID != outsider.ID {
		t.Errorf("expected reassignment to %d, got %d", outsider.ID, reloaded.AssignedToID)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	env := newTestEnv(t)
	member := env.createUser("member@test.com", types.RoleMember)

	// 404 takes precedence over the role branch.
	rr := env.request(http.MethodPatch, "/api/tasks/9999", `{"status": "DONE"}`, env.tokenFor(member))

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d (%s)", rr.Code, rr.Body.String())
	}
}

func TestDeleteTask(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("admin@test.com", types.RoleAdmin)
	assignee := env.createUser("assignee@test.com", types.RoleMember)
	project := env.createProject("X")
	env.addMember(project, assignee)
	task := env.createTask(project, assignee, "Y")

	// The assignee may not delete their own task.
	rr := env.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), "", env.tokenFor(assignee))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (%s)", rr.Code, rr.Body.String())
	}

	rr = env.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), "", env.tokenFor(admin))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}

	if n := env.count(&models.Task{}, "id = ?", task.ID); n != 0 {
		t.Errorf("expected task removed, got %d rows", n)
	}

	rr = env.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), "", env.tokenFor(admin))

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for repeated delete, got %d", rr.Code)
	}
}
