// Package models defines the persisted entities. Every entity embeds Meta:
// a record whose DeletedAt is set is invisible to all normal repository
// reads, and there is no undelete.
package models

import "time"

// Meta carries the lifecycle timestamps stamped by the repositories.
type Meta struct {
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

// Stamps exposes the timestamps to the repository layer.
func (m *Meta) Stamps() *Meta { return m }

// Deleted reports whether the record is soft-deleted.
func (m *Meta) Deleted() bool { return m.DeletedAt != nil }

// User is an account that can belong to projects and own time entries.
// Email and login are unique among non-deleted users.
type User struct {
	Meta
	ID       int64
	Name     string
	Email    string
	Login    string
	Password string
	Projects []*Project
}

func (u *User) EntityID() int64 { return u.ID }
func (u *User) SetEntityID(id int64) { u.ID = id }

// Clone returns a copy whose association slices are detached from the
// original.
func (u *User) Clone() *User {
	c := *u
	if u.Projects != nil {
		c.Projects = make([]*Project, len(u.Projects))
		for i, p := range u.Projects {
			cp := *p
			c.Projects[i] = &cp
		}
	}
	return &c
}

// Project groups users and their time entries. Title is unique among
// non-deleted projects.
type Project struct {
	Meta
	ID          int64
	Title       string
	Description string
	Users       []*User
	Times       []*TimeEntry
}

func (p *Project) EntityID() int64 { return p.ID }
func (p *Project) SetEntityID(id int64) { p.ID = id }

// Clone returns a copy whose association slices are detached from the
// original.
func (p *Project) Clone() *Project {
	c := *p
	if p.Users != nil {
		c.Users = make([]*User, len(p.Users))
		for i, u := range p.Users {
			cu := *u
			c.Users[i] = &cu
		}
	}
	if p.Times != nil {
		c.Times = make([]*TimeEntry, len(p.Times))
		for i, t := range p.Times {
			ct := *t
			c.Times[i] = &ct
		}
	}
	return &c
}

// TimeEntry is a closed [StartedAt, EndedAt] interval a user logged against
// a project. Entries of the same user never overlap, boundaries included.
type TimeEntry struct {
	Meta
	ID        int64
	StartedAt time.Time
	EndedAt   time.Time
	UserID    int64
	ProjectID int64
}

func (t *TimeEntry) EntityID() int64 { return t.ID }
func (t *TimeEntry) SetEntityID(id int64) { t.ID = id }

// Clone returns a copy of the entry.
func (t *TimeEntry) Clone() *TimeEntry {
	c := *t
	return &c
}
