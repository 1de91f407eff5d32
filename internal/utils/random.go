package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/jobportal-dev/job-portal/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi",
	"ivan", "judy", "mallory", "oscar", "peggy", "trent", "victor", "wendy",
}

var commonLastNames = []string{
	"smith", "jones", "brown", "taylor", "wilson", "davies", "evans",
	"thomas", "johnson", "roberts", "walker", "wright", "green", "hall",
}

var digits = "0123456789"

func GenerateRandomUsername() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	last := commonLastNames[rand.Intn(len(commonLastNames))]

	username := first + last
	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var registrableRoles = []domain.Role{
	domain.RoleSeeker,
	domain.RoleEmployer,
}

func GenerateRandomRole() domain.Role {
	return registrableRoles[rand.Intn(len(registrableRoles))]
}

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateRandomPassword(length int) string {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		sb.WriteByte(passwordCharset[rand.Intn(len(passwordCharset))])
	}
	return sb.String()
}

// GenerateRandomUser builds a user with a random username, role and a
// hashed copy of the given password, suitable for seeding.
func GenerateRandomUser(password string) (*domain.User, error) {
	username := GenerateRandomUsername()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: string(passwordHash),
		Role:         GenerateRandomRole(),
	}, nil
}
