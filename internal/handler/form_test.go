package handler

import (
	"errors"
	"testing"
)

func TestParseOptionalInt(t *testing.T) {
	got, err := parseOptionalInt("")
	if err != nil || got != nil {
		t.Errorf("parseOptionalInt(\"\") = (%v, %v), want (nil, nil)", got, err)
	}

	got, err = parseOptionalInt("250")
	if err != nil || got == nil || *got != 250 {
		t.Errorf("parseOptionalInt(250) = (%v, %v), want 250", got, err)
	}

	if _, err := parseOptionalInt("abc"); err == nil {
		t.Error("parseOptionalInt(abc) should fail")
	}
}

func TestParseOptionalFloat(t *testing.T) {
	got, err := parseOptionalFloat("")
	if err != nil || got != nil {
		t.Errorf("parseOptionalFloat(\"\") = (%v, %v), want (nil, nil)", got, err)
	}

	got, err = parseOptionalFloat("12.5")
	if err != nil || got == nil || *got != 12.5 {
		t.Errorf("parseOptionalFloat(12.5) = (%v, %v), want 12.5", got, err)
	}

	if _, err := parseOptionalFloat("abc"); err == nil {
		t.Error("parseOptionalFloat(abc) should fail")
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-08-20")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if d.Year() != 2026 || d.Month() != 8 || d.Day() != 20 {
		t.Errorf("date = %v", d)
	}

	if _, err := parseDate("20/08/2026"); err == nil {
		t.Error("non-ISO date should fail")
	}
	if _, err := parseDate(""); err == nil {
		t.Error("empty date should fail")
	}
}

func TestValidationMessages_MapsFieldAndTag(t *testing.T) {
	form := registerForm{
		Username:        "ab", // min=3違反
		Email:           "not-an-email",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FirstName:       "Alice",
		LastName:        "Smith",
	}

	err := validate.Struct(form)
	if err == nil {
		t.Fatal("expected validation error")
	}

	msgs := validationMessages(err, registerMessages)
	wantMsgs := map[string]bool{
		"Username must be between 3 and 50 characters": false,
		"Please enter a valid email address":           false,
	}
	for _, msg := range msgs {
		if _, ok := wantMsgs[msg]; ok {
			wantMsgs[msg] = true
		}
	}
	for msg, seen := range wantMsgs {
		if !seen {
			t.Errorf("messages %v should contain %q", msgs, msg)
		}
	}
}

func TestValidationMessages_UnknownViolation_FallsBack(t *testing.T) {
	form := loginForm{Username: "", Password: "x"}

	err := validate.Struct(form)
	if err == nil {
		t.Fatal("expected validation error")
	}

	// メッセージ未定義の違反は汎用メッセージになる
	msgs := validationMessages(err, map[string]string{})
	if len(msgs) != 1 || msgs[0] != "Invalid value for Username" {
		t.Errorf("messages = %v", msgs)
	}
}

func TestValidationMessages_NonValidatorError(t *testing.T) {
	msgs := validationMessages(errors.New("boom"), registerMessages)
	if len(msgs) != 1 || msgs[0] != "Invalid input. Please check the form and try again." {
		t.Errorf("messages = %v", msgs)
	}
}
