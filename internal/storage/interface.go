package storage

import "github.com/julianstephens/weekplan/internal/models"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Profile
	GetProfile() (models.WorkProfile, error)
	SaveProfile(models.WorkProfile) error

	// Work items
	AddItem(models.WorkItem) error
	GetItem(id string) (models.WorkItem, error)
	GetAllItems() ([]models.WorkItem, error)
	UpdateItem(models.WorkItem) error
	DeleteItem(id string) error

	// Subtasks
	AddSubtask(models.Subtask) error
	GetSubtask(id string) (models.Subtask, error)
	GetAllSubtasks() ([]models.Subtask, error)
	GetSubtasksForItem(itemID string) ([]models.Subtask, error)
	UpdateSubtask(models.Subtask) error
	DeleteSubtask(id string) error

	// Time blocks
	AddBlock(models.TimeBlock) error
	GetBlock(id string) (models.TimeBlock, error)
	GetBlocksInRange(startDate, endDate string) ([]models.TimeBlock, error)
	UpdateBlock(models.TimeBlock) error
	DeleteBlock(id string) error

	// External commitments
	AddCommitment(models.ExternalCommitment) error
	GetCommitmentsInRange(startDate, endDate string) ([]models.ExternalCommitment, error)
	DeleteCommitment(id string) error

	// Weekly plans. GetWeeklyPlan creates the plan lazily on first access.
	GetWeeklyPlan(weekStart string) (models.WeeklyPlan, error)
	SaveWeeklyPlan(models.WeeklyPlan) error

	// Utils
	GetConfigPath() string
}
