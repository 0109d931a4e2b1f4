package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/crewclock/apiserver/internal/store"
	"github.com/crewclock/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials hides whether the username or the password failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// EmployeeRepository defines persistence operations for employees.
type EmployeeRepository interface {
	GetByUsername(ctx context.Context, username string) (types.Employee, error)
	List(ctx context.Context) ([]types.Employee, error)
	SetOnboardingCompleted(ctx context.Context, username string, completed bool) error
}

// EmployeeService encapsulates employee use-cases.
type EmployeeService struct {
	repo EmployeeRepository
}

func NewEmployeeService(repo EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

// Authenticate checks the password against the stored credential.
func (s *EmployeeService) Authenticate(ctx context.Context, username, password string) (types.Employee, error) {
	employee, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Employee{}, ErrInvalidCredentials
		}
		return types.Employee{}, err
	}
	if !checkPassword(employee.Password, password) {
		return types.Employee{}, ErrInvalidCredentials
	}
	return employee, nil
}

func (s *EmployeeService) GetByUsername(ctx context.Context, username string) (types.Employee, error) {
	return s.repo.GetByUsername(ctx, username)
}

// List returns employees whose username or name contains query,
// case-insensitively. An empty query matches everyone.
func (s *EmployeeService) List(ctx context.Context, query string) ([]types.Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	query = normalizeQuery(query)
	if query == "" {
		return employees, nil
	}
	matched := make([]types.Employee, 0, len(employees))
	for _, employee := range employees {
		if matchesQuery(query, employee.Username, employee.Name) {
			matched = append(matched, employee)
		}
	}
	return matched, nil
}

// checkPassword accepts bcrypt hashes and, for sheets maintained by hand,
// plain stored values.
func checkPassword(stored, password string) bool {
	if stored == "" || password == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func matchesQuery(query string, candidates ...string) bool {
	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate), query) {
			return true
		}
	}
	return false
}
