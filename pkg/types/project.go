// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Project groups papers around a research goal and holds free-form notes.
type Project struct {
	// ID is a UUID assigned at creation.
	ID string `json:"id" yaml:"id"`

	Title        string `json:"title" yaml:"title"`
	Goal         string `json:"goal,omitempty" yaml:"goal,omitempty"`
	Abstract     string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Theme        string `json:"theme" yaml:"theme"`
	Contributors string `json:"contributors" yaml:"contributors"`

	Ideas   string `json:"ideas,omitempty" yaml:"ideas,omitempty"`
	Notes   string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Related string `json:"related,omitempty" yaml:"related,omitempty"`
	Queue   string `json:"queue,omitempty" yaml:"queue,omitempty"`

	// PaperIDs lists the pinned papers, oldest pin first.
	PaperIDs []int64 `json:"papers" yaml:"papers"`

	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// ProjectPatch carries a partial update. Nil fields are left unchanged.
type ProjectPatch struct {
	Title        *string `json:"title,omitempty"`
	Goal         *string `json:"goal,omitempty"`
	Contributors *string `json:"contributors,omitempty"`
	Ideas        *string `json:"ideas,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	Related      *string `json:"related,omitempty"`
	Queue        *string `json:"queue,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ProjectPatch) IsEmpty() bool {
	return p.Title == nil && p.Goal == nil && p.Contributors == nil &&
		p.Ideas == nil && p.Notes == nil && p.Related == nil && p.Queue == nil
}
