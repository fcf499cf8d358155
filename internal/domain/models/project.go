package models

import (
	"slices"
	"time"
)

// ProjectStatus is the lifecycle state of a project. Projects are never
// physically removed; deleting one archives it.
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	return s == ProjectStatusActive || s == ProjectStatusArchived
}

type Project struct {
	ID          string        `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description *string       `json:"description,omitempty" db:"description"`
	Status      ProjectStatus `json:"status" db:"status"`
	ImageIDs    []string      `json:"imageIds" db:"image_ids"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`
}

// AddImage appends imageID to the ordered image list unless already present.
func (p *Project) AddImage(imageID string, at time.Time) {
	if !slices.Contains(p.ImageIDs, imageID) {
		p.ImageIDs = append(p.ImageIDs, imageID)
	}
	p.UpdatedAt = at
}

// RemoveImage drops imageID from the image list, keeping the order of the rest.
func (p *Project) RemoveImage(imageID string, at time.Time) {
	p.ImageIDs = slices.DeleteFunc(p.ImageIDs, func(id string) bool { return id == imageID })
	p.UpdatedAt = at
}
