package project

import (
	"math"
	"time"

	"github.com/atelier-studio/atelier-go/internal/domain/file"
)

// Status is the review-cycle position of a project, orthogonal to Progress
// (the structural stage cursor) and to the Pause/Discard/Delay flags.
type Status string

const (
	StatusAwait    Status = "await"    // created, not started
	StatusProgress Status = "progress" // creator working on first round of a stage
	StatusModify   Status = "modify"   // creator working on a revision round
	StatusPending  Status = "pending"  // submitted, waiting for client review
	StatusFinish   Status = "finish"   // all stages passed
)

// Progress sentinel values. 1..N is the 1-based index of the active stage.
const (
	ProgressNotStarted = 0
	ProgressFinished   = -1
)

type LogType string

const (
	LogCreate   LogType = "create"
	LogStart    LogType = "start"
	LogUpload   LogType = "upload"
	LogPass     LogType = "pass"
	LogModify   LogType = "modify"
	LogDiscard  LogType = "discard"
	LogRecover  LogType = "recover"
	LogPause    LogType = "pause"
	LogResume   LogType = "resume"
	LogDeadline LogType = "deadline"
	LogStage    LogType = "stage"
)

// Project is a client–creator production engagement. It exclusively owns
// its stages, phases, pauses and logs.
type Project struct {
	PID    uint   `gorm:"primaryKey;column:p_id;autoIncrement"`
	Title  string `gorm:"size:256;not null"`
	Design string `gorm:"type:text"`
	Remark string `gorm:"type:text"`

	ClientID  uint `gorm:"column:client_id;not null;index"`
	CreatorID uint `gorm:"column:creator_id;not null;index"`

	Status   Status `gorm:"size:20;default:'await';not null"`
	Progress int    `gorm:"default:0;not null"`
	Discard  bool   `gorm:"default:false;not null"`
	Pause    bool   `gorm:"default:false;not null"`
	Delay    bool   `gorm:"default:false;not null"`

	StartDate    *time.Time
	FinishDate   *time.Time
	DeadlineDate *time.Time

	Stages []Stage     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Tags   []Tag       `gorm:"many2many:project_tags"`
	Files  []file.File `gorm:"many2many:project_files"`

	CreatedAt time.Time `gorm:"column:create_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:update_at;autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}

// Stage is a planned unit of work with a fixed duration budget, set at
// project creation and immutable thereafter. Sort fixes the ladder order.
type Stage struct {
	SID         uint   `gorm:"primaryKey;column:s_id;autoIncrement"`
	ProjectID   uint   `gorm:"not null;index"`
	Name        string `gorm:"size:64;not null"`
	Description string `gorm:"size:512"`
	DaysPlanned int    `gorm:"not null"`
	Sort        int    `gorm:"not null"`

	// CurrentPhaseID points at the open round. It is updated in the same
	// transaction as every phase append or delete so "current phase" never
	// depends on read-order stability of the phase list.
	CurrentPhaseID *uint

	Phases []Phase `gorm:"foreignKey:StageID;constraint:OnDelete:CASCADE"`
}

func (Stage) TableName() string {
	return "stages"
}

// Phase is one production round inside a stage. A new one is opened when
// a stage starts and on every revision request.
type Phase struct {
	PhID      uint `gorm:"primaryKey;column:ph_id;autoIncrement"`
	ProjectID uint `gorm:"not null;index"`
	StageID   uint `gorm:"not null;index"`
	Sort      int  `gorm:"not null"`

	CreatorID     *uint
	UploadContent string      `gorm:"type:text"`
	UploadDate    *time.Time
	UploadFiles   []file.File `gorm:"many2many:phase_upload_files"`

	ClientID        *uint
	FeedbackContent string `gorm:"type:text"`
	FeedbackDate    *time.Time

	StartDate    *time.Time
	DeadlineDate *time.Time
}

func (Phase) TableName() string {
	return "phases"
}

// ProjectPause is one suspension interval of deadline tracking. ResumeDate
// stays nil while the pause is open; a phase has at most one open pause.
type ProjectPause struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"`
	ProjectID  uint       `gorm:"not null;index"`
	PhaseID    uint       `gorm:"not null;index"`
	PauseDate  time.Time  `gorm:"not null"`
	ResumeDate *time.Time
	Reason     string `gorm:"size:256"`
}

func (ProjectPause) TableName() string {
	return "project_pauses"
}

// ProjectLog is the append-only transition history. The engine writes it
// and never reads it back for decisions.
type ProjectLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	ProjectID  uint      `gorm:"not null;index"`
	PhaseID    *uint
	Type       LogType   `gorm:"column:log_type;size:20;not null"`
	Content    string    `gorm:"type:text"`
	OperatorID uint      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"column:create_at;autoCreateTime"`
}

func (ProjectLog) TableName() string {
	return "project_logs"
}

type Tag struct {
	TID  uint   `gorm:"primaryKey;column:t_id;autoIncrement"`
	Name string `gorm:"size:64;not null;unique"`
}

func (Tag) TableName() string {
	return "tags"
}

// IsActive reports whether the progress cursor sits on a real stage.
func (p *Project) IsActive() bool {
	return p.Progress >= 1 && p.Progress <= len(p.Stages)
}

// CurrentStage returns the stage the progress cursor points at, or nil
// when the project has not started or is finished.
func (p *Project) CurrentStage() *Stage {
	if !p.IsActive() {
		return nil
	}
	return &p.Stages[p.Progress-1]
}

// CurrentPhase returns the open round of the current stage via the
// stage's explicit current-phase reference.
func (p *Project) CurrentPhase() *Phase {
	st := p.CurrentStage()
	if st == nil || st.CurrentPhaseID == nil {
		return nil
	}
	for i := range st.Phases {
		if st.Phases[i].PhID == *st.CurrentPhaseID {
			return &st.Phases[i]
		}
	}
	return nil
}

// RevisionDays is the duration budget of a revision round: a fifth of the
// stage budget, rounded down, plus one day.
func RevisionDays(daysPlanned int) int {
	return int(math.Floor(float64(daysPlanned)*0.2)) + 1
}

// Days converts a whole-day budget to a duration.
func Days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
