package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/auth"
	"github.com/antonk9218/gomarket/internal/server/storage"
	"github.com/antonk9218/gomarket/internal/server/storage/sqlite"
	"github.com/antonk9218/gomarket/internal/validation"
)

// admin - служебная утилита для управления администраторами
// Работает напрямую с БД, минуя HTTP API: через API роль поднять нельзя
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	dbPath := flag.String("db", envOr("DB_PATH", "gomarket.db"), "path to SQLite database")
	create := flag.String("create", "", "create administrator with given email")
	promote := flag.String("promote", "", "promote existing user to administrator")
	firstName := flag.String("first-name", "Admin", "first name for created administrator")
	lastName := flag.String("last-name", "Admin", "last name for created administrator")
	flag.Parse()

	if (*create == "") == (*promote == "") {
		return fmt.Errorf("exactly one of -create or -promote is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := sqlite.New(ctx, *dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	if *promote != "" {
		return promoteUser(ctx, store, *promote)
	}

	return createAdmin(ctx, store, *create, *firstName, *lastName)
}

// createAdmin регистрирует нового пользователя сразу с ролью ADMINISTRATOR
func createAdmin(ctx context.Context, store *sqlite.Storage, email, firstName, lastName string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         models.RoleAdministrator,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return fmt.Errorf("user %s already exists, use -promote instead", email)
		}
		return fmt.Errorf("failed to create administrator: %w", err)
	}

	fmt.Printf("administrator %s created\n", email)

	return nil
}

// promoteUser повышает существующего пользователя до ADMINISTRATOR
func promoteUser(ctx context.Context, store *sqlite.Storage, email string) error {
	user, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("user %s not found", email)
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.Role == models.RoleAdministrator {
		fmt.Printf("%s is already an administrator\n", email)
		return nil
	}

	user.Role = models.RoleAdministrator
	user.UpdatedAt = time.Now()

	if err := store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	fmt.Printf("%s promoted to administrator\n", email)

	return nil
}

// readPassword читает пароль без отображения на экране
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Переход на новую строку после ввода пароля
	if err != nil {
		return "", err
	}
	return string(passwordBytes), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
