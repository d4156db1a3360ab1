package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sayanlabs/auth-service/internal/config"
	"github.com/sayanlabs/auth-service/internal/models"
)

// In-memory repository doubles. They honor the same contracts as the
// Postgres implementations (upsert-by-jti, last-create-wins, bounded
// attempt spending) so service tests exercise real semantics without a
// database.

func testConfig() *config.Config {
	return &config.Config{
		AppName:            "auth-service",
		StudentSecretKey:   []byte("student-secret-key-for-tests-000"),
		AcademySecretKey:   []byte("academy-secret-key-for-tests-000"),
		AdminSecretKey:     []byte("admin-secret-key-for-tests-00000"),
		DefaultSecretKey:   []byte("default-secret-key-for-tests-000"),
		AccessTokenExpiry:  30 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
}

// ----------------------------------------------------------------------
// blacklist
// ----------------------------------------------------------------------

type memBlacklistRepo struct {
	mu      sync.Mutex
	entries map[string]*models.BlacklistedToken // keyed by jti
	failing bool
}

func newMemBlacklistRepo() *memBlacklistRepo {
	return &memBlacklistRepo{entries: make(map[string]*models.BlacklistedToken)}
}

func (r *memBlacklistRepo) Add(ctx context.Context, entry *models.BlacklistedToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("connection refused")
	}
	cp := *entry
	r.entries[entry.TokenID] = &cp
	return nil
}

func (r *memBlacklistRepo) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return false, errors.New("connection refused")
	}
	e, ok := r.entries[tokenID]
	if !ok {
		return false, nil
	}
	return e.IsActive && !e.Expired(time.Now()), nil
}

func (r *memBlacklistRepo) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return 0, errors.New("connection refused")
	}
	var n int64
	for jti, e := range r.entries {
		if e.Expired(now) {
			delete(r.entries, jti)
			n++
		}
	}
	return n, nil
}

// ----------------------------------------------------------------------
// otp
// ----------------------------------------------------------------------

type memOTPRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*models.OTP
	failing bool
}

func newMemOTPRepo() *memOTPRepo {
	return &memOTPRepo{rows: make(map[uuid.UUID]*models.OTP)}
}

func (r *memOTPRepo) Create(ctx context.Context, otp *models.OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("connection refused")
	}
	for id, row := range r.rows {
		if row.UserID == otp.UserID && row.Purpose == otp.Purpose && !row.IsUsed {
			delete(r.rows, id)
		}
	}
	cp := *otp
	r.rows[otp.ID] = &cp
	return nil
}

func (r *memOTPRepo) GetActive(ctx context.Context, userID string, purpose models.Purpose) (*models.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return nil, errors.New("connection refused")
	}
	return r.latest(func(o *models.OTP) bool {
		return o.UserID == userID && o.Purpose == purpose && !o.IsUsed
	}), nil
}

func (r *memOTPRepo) GetActiveByUser(ctx context.Context, userID string) (*models.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return nil, errors.New("connection refused")
	}
	return r.latest(func(o *models.OTP) bool {
		return o.UserID == userID && !o.IsUsed
	}), nil
}

func (r *memOTPRepo) latest(match func(*models.OTP) bool) *models.OTP {
	var candidates []*models.OTP
	for _, row := range r.rows {
		if match(row) {
			candidates = append(candidates, row)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	cp := *candidates[0]
	return &cp
}

func (r *memOTPRepo) SpendAttempt(ctx context.Context, id uuid.UUID, maxAttempts int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return 0, false, errors.New("connection refused")
	}
	row, ok := r.rows[id]
	if !ok || row.IsUsed || row.Attempts >= maxAttempts {
		return maxAttempts, false, nil
	}
	row.Attempts++
	return row.Attempts, true, nil
}

func (r *memOTPRepo) MarkUsed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("connection refused")
	}
	if row, ok := r.rows[id]; ok {
		row.IsUsed = true
	}
	return nil
}

func (r *memOTPRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("connection refused")
	}
	delete(r.rows, id)
	return nil
}

func (r *memOTPRepo) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return 0, errors.New("connection refused")
	}
	var n int64
	for id, row := range r.rows {
		if row.IsExpired(now) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// get returns a copy of the stored row, for assertions.
func (r *memOTPRepo) get(id uuid.UUID) *models.OTP {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil
	}
	cp := *row
	return &cp
}

func (r *memOTPRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// ----------------------------------------------------------------------
// users
// ----------------------------------------------------------------------

type memUserRepo struct {
	mu    sync.Mutex
	users []*models.User
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	return &memUserRepo{users: users}
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email }), nil
}

func (r *memUserRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Phone == phone }), nil
}

func (r *memUserRepo) GetByID(ctx context.Context, role models.Role, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Role == role && u.ID == id }), nil
}

func (r *memUserRepo) find(match func(*models.User) bool) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

// ----------------------------------------------------------------------
// notifier
// ----------------------------------------------------------------------

type memNotifier struct {
	mu      sync.Mutex
	sent    []Destination
	lastOTP string
	err     error
}

func (n *memNotifier) SendOTP(ctx context.Context, dest Destination, code string, purpose models.Purpose, displayName string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, dest)
	n.lastOTP = code
	return nil
}
