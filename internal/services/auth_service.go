package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/shreyannandanwar/CrewAI/internal/models"
	"github.com/shreyannandanwar/CrewAI/internal/validation"
)

// AuthServiceProvider defines the interface for authentication services.
type AuthServiceProvider interface {
	Register(req validation.RegisterRequest) (models.User, error)
	Authenticate(req validation.LoginRequest) (models.User, error)
	GetUserByID(id string) (models.User, error)
	UpdateProfile(userID string, req validation.ProfileUpdateRequest) (models.User, error)
}

// AuthService provides registration, login and profile logic on top of
// the user store.
type AuthService struct {
	db *sql.DB
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{db: db}
}

// NormalizeEmail lowercases and trims an email address to its stored form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the payload, persists a new user and returns it
// without the password hash. A duplicate email fails with ConflictError,
// whether caught by the fast-path lookup or by the unique index when two
// registrations race.
func (s *AuthService) Register(req validation.RegisterRequest) (models.User, error) {
	if errs := validation.ValidateRegistration(req); len(errs) > 0 {
		return models.User{}, &ValidationError{Fields: errs}
	}

	email := NormalizeEmail(req.Email)

	var existingID string
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ?", email).Scan(&existingID)
	if err == nil {
		return models.User{}, &ConflictError{
			Message: "User already exists with this email",
			Field:   "email",
			Reason:  "Email already registered",
		}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         req.Role,
		Skills:       req.Skills,
		Availability: req.Availability,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Skills == nil {
		user.Skills = []string{}
	}
	if user.Availability == "" {
		user.Availability = models.AvailabilityAvailable
	}

	skillsJSON, err := json.Marshal(user.Skills)
	if err != nil {
		return models.User{}, err
	}

	_, err = s.db.Exec(
		"INSERT INTO users(id, name, email, password_hash, role, skills_json, availability, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, string(skillsJSON), user.Availability, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		// The unique index is the source of truth; the lookup above is
		// only a fast path, so a racing duplicate lands here.
		if isUniqueViolation(err) {
			return models.User{}, &ConflictError{
				Message: "User already exists with this email",
				Field:   "email",
				Reason:  "Email already registered",
			}
		}
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Authenticate validates the payload and verifies the credentials,
// returning the user without the password hash. Unknown email and wrong
// password both fail with CredentialsError, attributed to the field that
// failed.
func (s *AuthService) Authenticate(req validation.LoginRequest) (models.User, error) {
	if errs := validation.ValidateLogin(req); len(errs) > 0 {
		return models.User{}, &ValidationError{Fields: errs}
	}

	user, err := s.getUserByEmail(NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, &CredentialsError{Field: "email", Reason: "No user found with this email"}
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return models.User{}, &CredentialsError{Field: "password", Reason: "Incorrect password"}
	}

	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID, without the password
// hash.
func (s *AuthService) GetUserByID(id string) (models.User, error) {
	row := s.db.QueryRow(
		"SELECT id, name, email, role, skills_json, availability, created_at, updated_at FROM users WHERE id = ?", id)

	var user models.User
	var skillsJSON string
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &skillsJSON, &user.Availability, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	if err := json.Unmarshal([]byte(skillsJSON), &user.Skills); err != nil {
		return models.User{}, fmt.Errorf("decode skills for user %s: %w", id, err)
	}
	return user, nil
}

// getUserByEmail retrieves a user by their normalized email, including
// the password hash for credential comparison.
func (s *AuthService) getUserByEmail(email string) (models.User, error) {
	row := s.db.QueryRow(
		"SELECT id, name, email, password_hash, role, skills_json, availability, created_at, updated_at FROM users WHERE email = ?", email)

	var user models.User
	var skillsJSON string
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &skillsJSON, &user.Availability, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	if err := json.Unmarshal([]byte(skillsJSON), &user.Skills); err != nil {
		return models.User{}, fmt.Errorf("decode skills for user %s: %w", user.ID, err)
	}
	return user, nil
}

// UpdateProfile validates and applies a partial update, touching only the
// provided fields. Changing the email to one held by another user fails
// with ConflictError.
func (s *AuthService) UpdateProfile(userID string, req validation.ProfileUpdateRequest) (models.User, error) {
	if errs := validation.ValidateProfileUpdate(req); len(errs) > 0 {
		return models.User{}, &ValidationError{Fields: errs}
	}

	current, err := s.GetUserByID(userID)
	if err != nil {
		return models.User{}, err
	}

	if req.Email != nil {
		newEmail := NormalizeEmail(*req.Email)
		if newEmail != current.Email {
			var otherID string
			err := s.db.QueryRow("SELECT id FROM users WHERE email = ? AND id != ?", newEmail, userID).Scan(&otherID)
			if err == nil {
				return models.User{}, &ConflictError{
					Message: "Email already taken by another user",
					Field:   "email",
					Reason:  "Email already registered",
				}
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return models.User{}, err
			}
		}
	}

	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	if req.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, NormalizeEmail(*req.Email))
	}
	if req.Skills != nil {
		skillsJSON, err := json.Marshal(*req.Skills)
		if err != nil {
			return models.User{}, err
		}
		sets = append(sets, "skills_json = ?")
		args = append(args, string(skillsJSON))
	}
	if req.Availability != nil {
		sets = append(sets, "availability = ?")
		args = append(args, *req.Availability)
	}
	if len(sets) == 0 {
		return current, nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), userID)

	_, err = s.db.Exec("UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, &ConflictError{
				Message: "Email already taken by another user",
				Field:   "email",
				Reason:  "Email already registered",
			}
		}
		return models.User{}, err
	}

	return s.GetUserByID(userID)
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
