package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Error contract: Verify returns exactly one of these per failure kind.
// Expired and exhausted entries are purged as a side effect of the failing
// call, so a retry after either reports ErrNotFound.
var (
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrNotFound        = errors.New("otp not found")
	ErrExpired         = errors.New("otp expired")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrInvalidCode     = errors.New("invalid otp code")
)

type entry struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// Store keeps at most one live OTP per normalized phone number. All
// read-modify-write of attempt counters happens under the store mutex, so
// concurrent verifies for the same phone cannot lose updates.
type Store struct {
	mu          sync.Mutex
	entries     map[string]*entry
	ttl         time.Duration
	maxAttempts int
	clock       clockwork.Clock
}

func NewStore(ttl time.Duration, maxAttempts int, clock clockwork.Clock) *Store {
	return &Store{
		entries:     make(map[string]*entry),
		ttl:         ttl,
		maxAttempts: maxAttempts,
		clock:       clock,
	}
}

// NormalizePhone reduces a phone number to its last ten digits.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 10 {
		return "", fmt.Errorf("%q: %w", phone, ErrInvalidPhone)
	}
	return digits[len(digits)-10:], nil
}

// Issue generates a fresh six-digit code for the phone, overwriting any prior
// entry. Expired entries across the whole store are swept on each issue; the
// sweep is amortized here rather than run on a background timer.
func (s *Store) Issue(phone string) (string, error) {
	key, err := NormalizePhone(phone)
	if err != nil {
		return "", err
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, e := range s.entries {
		if !e.expiresAt.After(now) {
			delete(s.entries, k)
		}
	}

	s.entries[key] = &entry{
		code:      code,
		expiresAt: now.Add(s.ttl),
	}

	return code, nil
}

// Verify checks a submitted code. A match consumes the entry; a mismatch
// increments the attempt counter; expiry and attempt exhaustion purge it.
func (s *Store) Verify(phone, submitted string) error {
	key, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return ErrNotFound
	}

	if !e.expiresAt.After(s.clock.Now()) {
		delete(s.entries, key)
		return ErrExpired
	}

	if e.attempts >= s.maxAttempts {
		delete(s.entries, key)
		return ErrTooManyAttempts
	}

	if e.code != submitted {
		e.attempts++
		return ErrInvalidCode
	}

	delete(s.entries, key)
	return nil
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// generateCode draws a uniformly random six-digit code, zero padded.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
