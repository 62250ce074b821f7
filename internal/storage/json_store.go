package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/weekplan/internal/models"
)

// Store is the JSON document layout persisted to disk.
type Store struct {
	Version     int                                  `json:"version"`
	Profile     models.WorkProfile                   `json:"profile"`
	Items       map[string]models.WorkItem           `json:"items"`
	Subtasks    map[string]models.Subtask            `json:"subtasks"`
	Blocks      map[string]models.TimeBlock          `json:"blocks"`
	Commitments map[string]models.ExternalCommitment `json:"commitments"`
	Plans       map[string]models.WeeklyPlan         `json:"plans"` // keyed by week start date
}

// JSONStore keeps everything in one pretty-printed JSON file. It exists for
// easy inspection and as a test backend; SQLite is the default.
type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version:     1,
		Profile:     defaultProfile(),
		Items:       make(map[string]models.WorkItem),
		Subtasks:    make(map[string]models.Subtask),
		Blocks:      make(map[string]models.TimeBlock),
		Commitments: make(map[string]models.ExternalCommitment),
		Plans:       make(map[string]models.WeeklyPlan),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'weekplan init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure maps are initialized
	if s.store.Items == nil {
		s.store.Items = make(map[string]models.WorkItem)
	}
	if s.store.Subtasks == nil {
		s.store.Subtasks = make(map[string]models.Subtask)
	}
	if s.store.Blocks == nil {
		s.store.Blocks = make(map[string]models.TimeBlock)
	}
	if s.store.Commitments == nil {
		s.store.Commitments = make(map[string]models.ExternalCommitment)
	}
	if s.store.Plans == nil {
		s.store.Plans = make(map[string]models.WeeklyPlan)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) loaded() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetProfile() (models.WorkProfile, error) {
	if err := s.loaded(); err != nil {
		return models.WorkProfile{}, err
	}
	return s.store.Profile, nil
}

func (s *JSONStore) SaveProfile(profile models.WorkProfile) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Profile = profile
	return s.save()
}

func (s *JSONStore) AddItem(item models.WorkItem) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Items[item.ID] = item
	return s.save()
}

func (s *JSONStore) GetItem(id string) (models.WorkItem, error) {
	if err := s.loaded(); err != nil {
		return models.WorkItem{}, err
	}
	item, ok := s.store.Items[id]
	if !ok {
		return models.WorkItem{}, fmt.Errorf("work item not found: %s", id)
	}
	return item, nil
}

func (s *JSONStore) GetAllItems() ([]models.WorkItem, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	items := make([]models.WorkItem, 0, len(s.store.Items))
	for _, item := range s.store.Items {
		items = append(items, item)
	}
	return items, nil
}

func (s *JSONStore) UpdateItem(item models.WorkItem) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Items[item.ID]; !ok {
		return fmt.Errorf("work item not found: %s", item.ID)
	}
	s.store.Items[item.ID] = item
	return s.save()
}

func (s *JSONStore) DeleteItem(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Items[id]; !ok {
		return fmt.Errorf("work item not found: %s", id)
	}
	delete(s.store.Items, id)
	return s.save()
}

func (s *JSONStore) AddSubtask(sub models.Subtask) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Subtasks[sub.ID] = sub
	return s.save()
}

func (s *JSONStore) GetSubtask(id string) (models.Subtask, error) {
	if err := s.loaded(); err != nil {
		return models.Subtask{}, err
	}
	sub, ok := s.store.Subtasks[id]
	if !ok {
		return models.Subtask{}, fmt.Errorf("subtask not found: %s", id)
	}
	return sub, nil
}

func (s *JSONStore) GetAllSubtasks() ([]models.Subtask, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	subs := make([]models.Subtask, 0, len(s.store.Subtasks))
	for _, sub := range s.store.Subtasks {
		subs = append(subs, sub)
	}
	return subs, nil
}

func (s *JSONStore) GetSubtasksForItem(itemID string) ([]models.Subtask, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var subs []models.Subtask
	for _, sub := range s.store.Subtasks {
		if sub.WorkItemID == itemID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (s *JSONStore) UpdateSubtask(sub models.Subtask) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Subtasks[sub.ID]; !ok {
		return fmt.Errorf("subtask not found: %s", sub.ID)
	}
	s.store.Subtasks[sub.ID] = sub
	return s.save()
}

func (s *JSONStore) DeleteSubtask(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Subtasks[id]; !ok {
		return fmt.Errorf("subtask not found: %s", id)
	}
	delete(s.store.Subtasks, id)
	return s.save()
}

func (s *JSONStore) AddBlock(block models.TimeBlock) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Blocks[block.ID] = block
	return s.save()
}

func (s *JSONStore) GetBlock(id string) (models.TimeBlock, error) {
	if err := s.loaded(); err != nil {
		return models.TimeBlock{}, err
	}
	block, ok := s.store.Blocks[id]
	if !ok {
		return models.TimeBlock{}, fmt.Errorf("time block not found: %s", id)
	}
	return block, nil
}

func (s *JSONStore) GetBlocksInRange(startDate, endDate string) ([]models.TimeBlock, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var blocks []models.TimeBlock
	for _, block := range s.store.Blocks {
		if block.Date >= startDate && block.Date <= endDate {
			blocks = append(blocks, block)
		}
	}
	return blocks, nil
}

func (s *JSONStore) UpdateBlock(block models.TimeBlock) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Blocks[block.ID]; !ok {
		return fmt.Errorf("time block not found: %s", block.ID)
	}
	s.store.Blocks[block.ID] = block
	return s.save()
}

func (s *JSONStore) DeleteBlock(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Blocks[id]; !ok {
		return fmt.Errorf("time block not found: %s", id)
	}
	delete(s.store.Blocks, id)
	return s.save()
}

func (s *JSONStore) AddCommitment(c models.ExternalCommitment) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Commitments[c.ID] = c
	return s.save()
}

func (s *JSONStore) GetCommitmentsInRange(startDate, endDate string) ([]models.ExternalCommitment, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var commitments []models.ExternalCommitment
	for _, c := range s.store.Commitments {
		if c.Date >= startDate && c.Date <= endDate {
			commitments = append(commitments, c)
		}
	}
	return commitments, nil
}

func (s *JSONStore) DeleteCommitment(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Commitments[id]; !ok {
		return fmt.Errorf("commitment not found: %s", id)
	}
	delete(s.store.Commitments, id)
	return s.save()
}

func (s *JSONStore) GetWeeklyPlan(weekStart string) (models.WeeklyPlan, error) {
	if err := s.loaded(); err != nil {
		return models.WeeklyPlan{}, err
	}
	plan, ok := s.store.Plans[weekStart]
	if !ok {
		// Plans are created lazily on first view of a week.
		plan = newWeeklyPlan(weekStart)
		s.store.Plans[weekStart] = plan
		if err := s.save(); err != nil {
			return models.WeeklyPlan{}, err
		}
	}
	return plan, nil
}

func (s *JSONStore) SaveWeeklyPlan(plan models.WeeklyPlan) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Plans[plan.WeekStart] = plan
	return s.save()
}

// GetConfigPath returns the path to the underlying storage file.
//
// Concurrency note:
//   - JSONStore is not safe for concurrent use by multiple goroutines
//     without external synchronization.
//   - Running multiple weekplan processes against the same storage path is
//     not supported and may lead to data loss.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
