package project

import "time"

type StageInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DaysPlanned int    `json:"days_planned" binding:"required,min=1"`
}

type CreateProjectDTO struct {
	Title     string       `json:"title" binding:"required"`
	Design    string       `json:"design"`
	Remark    string       `json:"remark"`
	ClientID  uint         `json:"client_id" binding:"required"`
	CreatorID uint         `json:"creator_id" binding:"required"`
	Stages    []StageInput `json:"stages" binding:"required,min=1,dive"`
	Tags      []string     `json:"tags"`
	Files     []uint       `json:"files"`
}

type UpdateProjectDTO struct {
	Title     *string  `json:"title,omitempty"`
	Design    *string  `json:"design,omitempty"`
	Remark    *string  `json:"remark,omitempty"`
	ClientID  *uint    `json:"client_id,omitempty"`
	CreatorID *uint    `json:"creator_id,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Files     []uint   `json:"files,omitempty"`
}

type UploadDTO struct {
	Content string `json:"content"`
	Files   []uint `json:"files"`
	Confirm bool   `json:"confirm"`
}

type FeedbackDTO struct {
	Content string `json:"content"`
	Pass    bool   `json:"pass"`
	Confirm bool   `json:"confirm"`
}

type ChangeStageDTO struct {
	// TargetProgress: 0 back to await, -1 straight to finish, 1..N jump
	// to that stage.
	TargetProgress *int `json:"target_progress" binding:"required"`
}

type PauseDTO struct {
	Reason string `json:"reason"`
}

type ChangeDeadlineDTO struct {
	Deadline time.Time `json:"deadline" binding:"required"`
}

// ListQuery filters and paginates project listings.
type ListQuery struct {
	ClientID  *uint    `form:"client_id"`
	CreatorID *uint    `form:"creator_id"`
	Status    []string `form:"status"`
	Search    string   `form:"search"`
	Page      int      `form:"page,default=1"`
	PerPage   int      `form:"per_page,default=10"`
	Order     string   `form:"order,default=asc"`
	OrderBy   string   `form:"order_by,default=id"`
}
