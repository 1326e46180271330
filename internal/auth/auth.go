// Package auth implements the demo sign-in. There is one mock account; the
// PIN is checked against a bcrypt hash and the session is kept in the store
// so that it survives a restart, like a browser session in local storage.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/store"
)

// SessionKey is the store key holding the current session.
const SessionKey = "auth_session"

// Demo credentials shown on the sign-in screen.
const (
	DemoPhone = "0901234567"
	DemoPIN   = "123456"
)

var (
	// ErrInvalidCredentials is returned for an unknown phone or wrong PIN.
	ErrInvalidCredentials = errors.New("invalid phone number or PIN")
	// ErrInvalidPIN is returned when the PIN is not six digits.
	ErrInvalidPIN = errors.New("PIN must be 6 digits")
)

// Session is a signed-in user.
type Session struct {
	Token     string    `json:"token"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service authenticates against the demo account.
type Service struct {
	store   store.Store
	phone   string
	pinHash []byte
	account model.Account

	mu      sync.RWMutex
	session *Session
}

// NewService returns a Service for the demo account and restores a saved
// session from s, if any.
func NewService(ctx context.Context, s store.Store) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPIN), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo pin: %w", err)
	}
	svc := &Service{
		store:   s,
		phone:   DemoPhone,
		pinHash: hash,
		account: model.DemoAccount(),
	}

	raw, ok, err := s.Get(ctx, SessionKey)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if ok && raw != "" {
		var sess Session
		if err := json.Unmarshal([]byte(raw), &sess); err == nil && sess.Token != "" {
			svc.session = &sess
		}
	}
	return svc, nil
}

// Login checks the credentials and starts a session.
func (s *Service) Login(ctx context.Context, phone, pin string) (*Session, error) {
	phone = strings.TrimSpace(phone)
	if !validPIN(pin) {
		return nil, ErrInvalidPIN
	}
	if phone != s.phone {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sess := &Session{
		Token:     uuid.NewString(),
		Phone:     phone,
		Name:      s.account.Name,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, SessionKey, string(data)); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	return sess, nil
}

// Logout ends the session.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	if err := s.store.Set(ctx, SessionKey, ""); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Authenticated reports whether a session is active.
func (s *Service) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil
}

// Current returns the active session, or nil.
func (s *Service) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// Account returns the demo wallet.
func (s *Service) Account() model.Account {
	return s.account
}

func validPIN(pin string) bool {
	if len(pin) != 6 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
