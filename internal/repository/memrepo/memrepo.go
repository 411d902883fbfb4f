// Package memrepo holds in-memory versions of the Postgres repositories with
// the same ordering and error semantics. It backs service and handler tests.
package memrepo

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"jhs/backend/internal/models"
	"jhs/backend/internal/repository"
)

// DB is a shared in-memory database. The typed views returned by its methods
// all lock the same mutex, so cross-table operations are atomic.
type DB struct {
	mu  sync.Mutex
	seq int64

	users     map[string]models.User
	sessions  map[string]models.Session
	tokens    map[string]models.ResetToken
	inquiries map[string]seqInquiry
	services  map[string]seqService
	projects  map[string]seqProject
	config    *models.SiteConfig

	Now func() time.Time
}

type seqInquiry struct {
	seq int64
	models.Inquiry
}

type seqService struct {
	seq int64
	models.Service
}

type seqProject struct {
	seq int64
	models.Project
}

func New() *DB {
	return &DB{
		users:     make(map[string]models.User),
		sessions:  make(map[string]models.Session),
		tokens:    make(map[string]models.ResetToken),
		inquiries: make(map[string]seqInquiry),
		services:  make(map[string]seqService),
		projects:  make(map[string]seqProject),
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func (db *DB) next() int64 {
	db.seq++
	return db.seq
}

type Users struct{ db *DB }

func (db *DB) Users() *Users { return &Users{db: db} }

func (r *Users) Create(_ context.Context, user models.User) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Email == user.Email {
			return models.User{}, repository.ErrEmailTaken
		}
	}
	now := r.db.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.db.users[user.ID] = user
	return user, nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, user := range r.db.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (r *Users) GetByID(_ context.Context, id string) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	user, ok := r.db.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (r *Users) List(context.Context) ([]models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	users := make([]models.User, 0, len(r.db.users))
	for _, user := range r.db.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *Users) Update(_ context.Context, user models.User) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	current, ok := r.db.users[user.ID]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	for id, existing := range r.db.users {
		if id != user.ID && existing.Email == user.Email {
			return models.User{}, repository.ErrEmailTaken
		}
	}
	current.Email = user.Email
	current.Role = user.Role
	current.Name = user.Name
	if len(user.PasswordHash) > 0 {
		current.PasswordHash = user.PasswordHash
	}
	current.UpdatedAt = r.db.Now()
	r.db.users[user.ID] = current
	return current, nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.db.users, id)
	for sid, session := range r.db.sessions {
		if session.UserID == id {
			delete(r.db.sessions, sid)
		}
	}
	for tid, token := range r.db.tokens {
		if token.UserID == id {
			delete(r.db.tokens, tid)
		}
	}
	return nil
}

type ResetTokens struct{ db *DB }

func (db *DB) ResetTokens() *ResetTokens { return &ResetTokens{db: db} }

func (r *ResetTokens) Replace(_ context.Context, token models.ResetToken) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, existing := range r.db.tokens {
		if existing.UserID == token.UserID {
			delete(r.db.tokens, id)
		}
	}
	r.db.tokens[token.ID] = token
	return nil
}

func (r *ResetTokens) Consume(_ context.Context, tokenHash []byte, notBefore time.Time, passwordHash []byte) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var claimed *models.ResetToken
	for id, token := range r.db.tokens {
		if bytes.Equal(token.TokenHash, tokenHash) && token.CreatedAt.After(notBefore) {
			token := token
			claimed = &token
			delete(r.db.tokens, id)
			break
		}
	}
	if claimed == nil {
		return "", repository.ErrResetTokenNotFound
	}

	user, ok := r.db.users[claimed.UserID]
	if !ok {
		return "", repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = r.db.Now()
	r.db.users[user.ID] = user

	for id, session := range r.db.sessions {
		if session.UserID == user.ID {
			delete(r.db.sessions, id)
		}
	}
	return user.ID, nil
}

func (r *ResetTokens) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for id, token := range r.db.tokens {
		if !token.CreatedAt.After(cutoff) {
			delete(r.db.tokens, id)
			n++
		}
	}
	return n, nil
}

// All returns every stored token.
func (r *ResetTokens) All() []models.ResetToken {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	tokens := make([]models.ResetToken, 0, len(r.db.tokens))
	for _, token := range r.db.tokens {
		tokens = append(tokens, token)
	}
	return tokens
}

type Sessions struct{ db *DB }

func (db *DB) Sessions() *Sessions { return &Sessions{db: db} }

func (r *Sessions) Upsert(_ context.Context, session models.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := r.db.Now()
	for id, existing := range r.db.sessions {
		if existing.UserID == session.UserID && existing.DeviceID == session.DeviceID {
			session.CreatedAt = existing.CreatedAt
			delete(r.db.sessions, id)
		}
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.LastSeenAt = now
	r.db.sessions[session.ID] = session
	return nil
}

func (r *Sessions) CountByUser(_ context.Context, userID string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.byUser(userID)), nil
}

func (r *Sessions) byUser(userID string) []models.Session {
	sessions := make([]models.Session, 0)
	for _, session := range r.db.sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].LastSeenAt.After(sessions[j].LastSeenAt) })
	return sessions
}

func (r *Sessions) DeleteOldestSessions(_ context.Context, userID string, keepLatest int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	sessions := r.byUser(userID)
	for i := keepLatest; i < len(sessions); i++ {
		delete(r.db.sessions, sessions[i].ID)
	}
	return nil
}

func (r *Sessions) GetByID(_ context.Context, id string) (models.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	session, ok := r.db.sessions[id]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (r *Sessions) FindByRefreshHash(_ context.Context, refreshHash []byte) (models.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, session := range r.db.sessions {
		if bytes.Equal(session.RefreshTokenHash, refreshHash) {
			return session, nil
		}
	}
	return models.Session{}, repository.ErrSessionNotFound
}

func (r *Sessions) DeleteByID(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.sessions[id]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(r.db.sessions, id)
	return nil
}

func (r *Sessions) DeleteByDevice(_ context.Context, userID string, deviceID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, session := range r.db.sessions {
		if session.UserID == userID && session.DeviceID == deviceID {
			delete(r.db.sessions, id)
		}
	}
	return nil
}

func (r *Sessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for id, session := range r.db.sessions {
		if session.ExpiresAt.Before(now) {
			delete(r.db.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r *Sessions) Touch(_ context.Context, sessionID string, ip string, userAgent string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	session, ok := r.db.sessions[sessionID]
	if !ok {
		return nil
	}
	session.LastSeenAt = r.db.Now()
	if ip != "" {
		session.IPAddress = ip
	}
	if userAgent != "" {
		session.UserAgent = userAgent
	}
	r.db.sessions[sessionID] = session
	return nil
}
