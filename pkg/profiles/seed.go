package profiles

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Seed is one account in a YAML fixture file:
//
//	profiles:
//	  - email: anna@example.se
//	    name: Anna
//	    role: admin
//	    password: hemligt
type Seed struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

type seedFile struct {
	Profiles []Seed `yaml:"profiles"`
}

// ReadSeeds decodes a YAML fixture.
func ReadSeeds(r io.Reader) ([]Seed, error) {
	var f seedFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seeds: %w", err)
	}
	return f.Profiles, nil
}

// Import creates every seed that does not exist yet and returns how many
// were created.
func Import(ctx context.Context, store Store, seeds []Seed) (int, error) {
	created := 0
	for _, s := range seeds {
		if s.Email == "" || s.Password == "" {
			return created, fmt.Errorf("seed %q: email and password are required", s.Email)
		}
		hash, err := HashPassword(s.Password)
		if err != nil {
			return created, err
		}
		name := s.Name
		if name == "" {
			name = s.Email
		}
		_, err = store.Create(ctx, Profile{
			Email:        s.Email,
			DisplayName:  name,
			Role:         s.Role,
			PasswordHash: hash,
		})
		if errors.Is(err, ErrExists) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
