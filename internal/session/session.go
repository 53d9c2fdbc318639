// Package session is an in-memory account and session token store. It is a
// stand-in for a real identity provider and keeps nothing across restarts.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/talent"
)

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidSession  = errors.New("invalid session")
)

// User is the identity a session token resolves to.
type User struct {
	ID    string      `json:"user_id"`
	Email string      `json:"email"`
	Role  talent.Role `json:"role"`
}

// Session is an issued token with its user.
type Session struct {
	Token string `json:"session_token"`
	User  User   `json:"user"`
}

type account struct {
	user User
	hash []byte
}

type Manager struct {
	mu       sync.RWMutex
	accounts map[string]account
	sessions map[string]User
	logger   *zap.Logger
}

func NewManager(log *zap.Logger) *Manager {
	return &Manager{
		accounts: make(map[string]account),
		sessions: make(map[string]User),
		logger:   logger.Component(log, "session"),
	}
}

// Register creates an account and returns its user id.
func (m *Manager) Register(email, password string, role talent.Role) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", fmt.Errorf("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[email]; ok {
		return "", ErrUserExists
	}

	u := User{ID: fmt.Sprintf("user_%d", len(m.accounts)+1), Email: email, Role: role}
	m.accounts[email] = account{user: u, hash: hash}

	m.logger.Info("user registered", logger.RequestFields(u.ID, string(role))...)
	return u.ID, nil
}

// Login checks the password and issues a new session token.
func (m *Manager) Login(email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	m.mu.RLock()
	acc, ok := m.accounts[email]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	s := &Session{Token: "session_" + uuid.NewString(), User: acc.user}

	m.mu.Lock()
	m.sessions[s.Token] = acc.user
	m.mu.Unlock()

	return s, nil
}

// Validate resolves a session token to its user.
func (m *Manager) Validate(token string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.sessions[token]
	if !ok {
		return nil, ErrInvalidSession
	}
	return &u, nil
}
