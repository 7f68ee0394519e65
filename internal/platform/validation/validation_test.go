package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name   string `json:"name" validate:"required"`
	From   string `json:"from_time" validate:"required,timeofday"`
	Day    int    `json:"week_day" validate:"weekday"`
	Avatar string `json:"avatar_url" validate:"avatar_url"`
	Sex    string `json:"sex" validate:"omitempty,oneof=male female"`
}

func TestStruct_Valid(t *testing.T) {
	s := sample{Name: "Ana", From: "09:00", Day: 3, Avatar: "https://cdn.example.com/a.png", Sex: "female"}
	if err := Struct(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStruct_Invalid(t *testing.T) {
	s := sample{From: "9h", Day: 7, Avatar: "ftp://x/y", Sex: "other"}
	err := Struct(s)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	msg := Message(err)
	for _, want := range []string{
		"name is required",
		"from_time must be a time",
		"week_day must be a week day",
		"avatar_url must be",
		"sex must be one of: male, female",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q, got %q", want, msg)
		}
	}
}

func TestAvatarURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"/uploads/doctor.png", true},
		{"/", false},
		{"http://example.com/a.png", true},
		{"https://example.com/a.png", true},
		{"example.com/a.png", false},
		{"javascript:alert(1)", false},
	}
	for _, tt := range tests {
		s := sample{Name: "x", From: "09:00", Avatar: tt.in}
		err := Struct(s)
		if (err == nil) != tt.want {
			t.Errorf("avatar %q: expected valid=%v, got err=%v", tt.in, tt.want, err)
		}
	}
}
