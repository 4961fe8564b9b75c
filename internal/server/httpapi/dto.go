// Package httpapi is the JSON/HTTP transport over the validation services.
// It owns routing, DTO translation, status-code mapping, and the middleware
// chain; no domain rule lives here.
package httpapi

import (
	"time"

	"github.com/vibbra/hourglass/internal/server/models"
)

type authRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Login string `json:"login"`
}

type projectRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Users       []int64 `json:"users"`
}

type projectResponse struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Users       []userResponse `json:"users"`
}

type timeRequest struct {
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	UserID    int64     `json:"user_id"`
	ProjectID int64     `json:"project_id"`
}

type timeResponse struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	UserID    int64     `json:"user_id"`
	ProjectID int64     `json:"project_id"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Login: u.Login}
}

func toProjectResponse(p *models.Project) projectResponse {
	resp := projectResponse{ID: p.ID, Title: p.Title, Description: p.Description, Users: []userResponse{}}
	for _, u := range p.Users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}
	return resp
}

func toTimeResponse(e *models.TimeEntry) timeResponse {
	return timeResponse{ID: e.ID, StartedAt: e.StartedAt, EndedAt: e.EndedAt, UserID: e.UserID, ProjectID: e.ProjectID}
}

func (r userRequest) toModel(id int64) *models.User {
	return &models.User{ID: id, Name: r.Name, Email: r.Email, Login: r.Login, Password: r.Password}
}

func (r projectRequest) toModel(id int64) *models.Project {
	p := &models.Project{ID: id, Title: r.Title, Description: r.Description}
	for _, userID := range r.Users {
		p.Users = append(p.Users, &models.User{ID: userID})
	}
	return p
}

func (r timeRequest) toModel(id int64) *models.TimeEntry {
	return &models.TimeEntry{ID: id, StartedAt: r.StartedAt, EndedAt: r.EndedAt, UserID: r.UserID, ProjectID: r.ProjectID}
}
