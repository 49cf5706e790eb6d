// Package memory provides an in-memory implementation of storage.Store.
// It backs tests and single-process deployments that do not need durability.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/wildpay/internal/models"
	"github.com/mmynk/wildpay/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type groupRecord struct {
	group   models.Group
	members []string
}

// Store keeps every record in maps guarded by a single RWMutex.
// Values are copied on the way in and out so callers cannot alias internal state.
type Store struct {
	mu sync.RWMutex

	users        map[string]models.User
	emails       map[string]string
	groups       map[string]*groupRecord
	expenditures map[string]models.Expenditure
	// seq orders expenditures created within the same second.
	seq   map[string]int
	nextN int
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:        make(map[string]models.User),
		emails:       make(map[string]string),
		groups:       make(map[string]*groupRecord),
		expenditures: make(map[string]models.Expenditure),
		seq:          make(map[string]int),
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = storage.NormalizeEmail(user.Email)
	if _, exists := s.users[user.ID]; exists {
		return storage.ErrDuplicateUser
	}
	if _, exists := s.emails[user.Email]; exists {
		return storage.ErrDuplicateEmail
	}
	s.users[user.ID] = *user
	s.emails[user.Email] = user.ID
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[storage.NormalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
	}
	user := s.users[id]
	return &user, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return &user, nil
}

func (s *Store) CreateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if _, exists := s.groups[group.ID]; exists {
		return fmt.Errorf("group with ID %s already exists", group.ID)
	}

	rec := &groupRecord{group: models.Group{
		ID:        group.ID,
		Name:      group.Name,
		Image:     group.Image,
		CreatedAt: group.CreatedAt,
	}}
	for _, m := range group.Members {
		rec.members = append(rec.members, m.ID)
	}
	s.groups[group.ID] = rec
	return nil
}

func (s *Store) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return s.snapshot(rec), nil
}

func (s *Store) ListGroupsForUser(_ context.Context, userID string) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var groups []*models.Group
	for _, rec := range s.groups {
		for _, id := range rec.members {
			if id == userID {
				groups = append(groups, s.snapshot(rec))
				break
			}
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CreatedAt == groups[j].CreatedAt {
			return groups[i].ID < groups[j].ID
		}
		return groups[i].CreatedAt > groups[j].CreatedAt
	})
	return groups, nil
}

func (s *Store) UpdateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[group.ID]
	if !ok {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
	}
	rec.group.Name = group.Name
	rec.group.Image = group.Image
	return nil
}

func (s *Store) DeleteGroup(_ context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	delete(s.groups, groupID)
	for id, exp := range s.expenditures {
		if exp.GroupID == groupID {
			delete(s.expenditures, id)
			delete(s.seq, id)
		}
	}
	return nil
}

func (s *Store) AddGroupMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	for _, id := range rec.members {
		if id == userID {
			return storage.ErrAlreadyMember
		}
	}
	rec.members = append(rec.members, userID)
	return nil
}

func (s *Store) RemoveGroupMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	for i, id := range rec.members {
		if id == userID {
			rec.members = append(rec.members[:i:i], rec.members[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("member %s: %w", userID, storage.ErrNotFound)
}

func (s *Store) ListGroupMembers(_ context.Context, groupID string) ([]models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return s.members(rec), nil
}

func (s *Store) CreateExpenditure(_ context.Context, exp *models.Expenditure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[exp.GroupID]; !ok {
		return fmt.Errorf("group %s: %w", exp.GroupID, storage.ErrNotFound)
	}
	if exp.ID == "" {
		exp.ID = uuid.New().String()
	}
	if exp.CreatedAt == 0 {
		exp.CreatedAt = time.Now().Unix()
	}
	s.expenditures[exp.ID] = copyExpenditure(*exp)
	s.nextN++
	s.seq[exp.ID] = s.nextN
	return nil
}

func (s *Store) GetExpenditure(_ context.Context, expenditureID string) (*models.Expenditure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exp, ok := s.expenditures[expenditureID]
	if !ok {
		return nil, fmt.Errorf("expenditure %s: %w", expenditureID, storage.ErrNotFound)
	}
	out := copyExpenditure(exp)
	return &out, nil
}

func (s *Store) ListExpendituresByGroup(_ context.Context, groupID string) ([]models.Expenditure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Expenditure
	for _, exp := range s.expenditures {
		if exp.GroupID == groupID {
			out = append(out, copyExpenditure(exp))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt == out[j].CreatedAt {
			return s.seq[out[i].ID] < s.seq[out[j].ID]
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}

func (s *Store) UpdateExpenditure(_ context.Context, exp *models.Expenditure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.expenditures[exp.ID]
	if !ok {
		return fmt.Errorf("expenditure %s: %w", exp.ID, storage.ErrNotFound)
	}
	current.Title = exp.Title
	current.Amount = exp.Amount
	current.Payer = exp.Payer
	current.Contributors = append([]string(nil), exp.Contributors...)
	s.expenditures[exp.ID] = current
	return nil
}

func (s *Store) DeleteExpenditure(_ context.Context, expenditureID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenditures[expenditureID]; !ok {
		return fmt.Errorf("expenditure %s: %w", expenditureID, storage.ErrNotFound)
	}
	delete(s.expenditures, expenditureID)
	delete(s.seq, expenditureID)
	return nil
}

// snapshot copies a group record. Caller holds the lock.
func (s *Store) snapshot(rec *groupRecord) *models.Group {
	g := rec.group
	g.Members = s.members(rec)
	return &g
}

// members resolves member IDs to display names. Caller holds the lock.
func (s *Store) members(rec *groupRecord) []models.Member {
	out := make([]models.Member, 0, len(rec.members))
	for _, id := range rec.members {
		m := models.Member{ID: id}
		if u, ok := s.users[id]; ok {
			m.DisplayName = u.DisplayName
		}
		out = append(out, m)
	}
	return out
}

func copyExpenditure(exp models.Expenditure) models.Expenditure {
	exp.Contributors = append([]string(nil), exp.Contributors...)
	return exp
}
