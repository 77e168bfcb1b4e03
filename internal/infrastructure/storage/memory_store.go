package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/telegram-gemini-bot/internal/domain/entity"
	"github.com/yourusername/telegram-gemini-bot/internal/domain/repository"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]entity.User
}

// NewMemoryUserRepository creates an in-memory user registry.
func NewMemoryUserRepository() repository.UserRepository {
	return &memoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// RegisterIfAbsent records the user unless the chat is already known.
func (m *memoryUserRepository) RegisterIfAbsent(ctx context.Context, user entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.ChatID]; exists {
		return nil
	}
	if user.FirstSeen.IsZero() {
		user.FirstSeen = time.Now()
	}
	m.users[user.ChatID] = user
	return nil
}

// GetAll returns every registered user, oldest first.
func (m *memoryUserRepository) GetAll(ctx context.Context) ([]entity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]entity.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].FirstSeen.Before(users[j].FirstSeen)
	})
	return users, nil
}

// Count returns the number of registered users.
func (m *memoryUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.users), nil
}

type memoryMessageRepository struct {
	mu   sync.RWMutex
	msgs []entity.Message
}

// NewMemoryMessageRepository creates an in-memory interaction log.
func NewMemoryMessageRepository() repository.MessageRepository {
	return &memoryMessageRepository{}
}

// SaveMessage appends one exchange to the log.
func (m *memoryMessageRepository) SaveMessage(ctx context.Context, message entity.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.msgs = append(m.msgs, message)
	return nil
}

// GetAllMessages returns the most recent exchanges, newest first.
func (m *memoryMessageRepository) GetAllMessages(ctx context.Context, limit int) ([]entity.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]entity.Message, len(m.msgs))
	copy(all, m.msgs)

	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// CountMessages returns the number of logged exchanges.
func (m *memoryMessageRepository) CountMessages(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.msgs), nil
}
