package model

import (
	"errors"
	"testing"
)

func TestAPIError_ImplementsError(t *testing.T) {
	var err error = NewValidationError("Username is required")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("APIError should satisfy errors.As")
	}
	if apiErr.Code != ErrCodeValidation {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeValidation)
	}
	if got := err.Error(); got != "[VALIDATION_FAILED] Username is required" {
		t.Errorf("Error() = %q", got)
	}
}

func TestNewDuplicateUserError_SingleMessage(t *testing.T) {
	err := NewDuplicateUserError()
	// ユーザー名重複かemail重複かを区別しない
	if err.Message != "Username or email already exists" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != "conflict" {
		t.Errorf("Category = %q, want conflict", err.Category)
	}
}

func TestNewInvalidCredentialsError_SingleMessage(t *testing.T) {
	err := NewInvalidCredentialsError()
	if err.Message != "Invalid username or password" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != "auth" {
		t.Errorf("Category = %q, want auth", err.Category)
	}
}

func TestValidators(t *testing.T) {
	if !ValidExerciseType("cardio") || ValidExerciseType("dancing") {
		t.Error("ValidExerciseType")
	}
	if !ValidMealType("breakfast") || ValidMealType("brunch") {
		t.Error("ValidMealType")
	}
	if !ValidGoalType("weight_loss") || ValidGoalType("world_domination") {
		t.Error("ValidGoalType")
	}
	if !ValidGoalStatus("active") || ValidGoalStatus("paused") {
		t.Error("ValidGoalStatus")
	}
}

func TestSnapshotOf_ExcludesPasswordHash(t *testing.T) {
	u := &User{
		ID:             9,
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$hash",
		FirstName:      "Alice",
		LastName:       "Smith",
	}

	snap := SnapshotOf(u)

	if snap.ID != 9 || snap.Username != "alice" || snap.Email != "alice@example.com" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.FirstName != "Alice" || snap.LastName != "Smith" {
		t.Errorf("snapshot names = %+v", snap)
	}
}
