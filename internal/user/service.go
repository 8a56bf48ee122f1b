package user

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo   Repository
	mailer Mailer
}

func NewService(repo Repository, mailer Mailer) *Service {
	return &Service{repo: repo, mailer: mailer}
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

// Register creates an unverified account and emails a 6-digit code.
func (s *Service) Register(u User) (User, error) {
	u.Email = strings.TrimSpace(u.Email)
	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u.Password = string(hashed)

	code := generateCode()
	u.IsVerified = false
	u.VerificationCode = &code

	created, err := s.repo.Create(u)
	if err != nil {
		return User{}, err
	}

	if err := s.mailer.SendVerificationCode(created.Email, code); err != nil {
		return User{}, err
	}
	return created, nil
}

// VerifyEmail confirms the code sent at registration. On success the code
// is cleared so it cannot be replayed.
func (s *Service) VerifyEmail(userID int, code string) (User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return User{}, err
	}
	if u.VerificationCode == nil || *u.VerificationCode != code {
		return User{}, ErrInvalidCode
	}

	u.IsVerified = true
	u.VerificationCode = nil
	return s.repo.Update(u)
}

// Authenticate checks credentials and requires a verified address.
func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	if !u.IsVerified {
		return User{}, ErrNotVerified
	}
	return u, nil
}

func generateCode() string {
	return fmt.Sprintf("%06d", rand.Intn(900000)+100000)
}
