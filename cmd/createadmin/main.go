// Command createadmin seeds an admin account. The password is read from the
// terminal without echo, or from stdin when piped.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/skripsit/backend/internal/config"
	"github.com/skripsit/backend/internal/crypto"
	"github.com/skripsit/backend/internal/models"
	"github.com/skripsit/backend/internal/server/storage/sqlite"
	"github.com/skripsit/backend/internal/validation"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	name := flag.String("name", "", "Admin display name")
	email := flag.String("email", "", "Admin email")
	flag.Parse()

	if err := run(*configPath, *name, *email); err != nil {
		fmt.Fprintf(os.Stderr, "createadmin failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, name, email string) error {
	if name == "" || email == "" {
		return fmt.Errorf("-name and -email are required")
	}

	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	salt, err := crypto.NewSalt()
	if err != nil {
		return err
	}
	hash, err := crypto.HashPassword(password, salt)
	if err != nil {
		return err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hex.EncodeToString(hash),
		PasswordSalt: hex.EncodeToString(salt),
		Role:         models.RoleAdmin,
		Status:       models.StatusVerified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("admin account created: %s (%s)\n", email, user.ID)
	return nil
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
