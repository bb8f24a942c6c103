package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNewCategoryNormalizes(t *testing.T) {
	category, err := NewCategory(CategoryInput{
		Name:        "  Finance  ",
		Description: " bills and budgets ",
	}, "cat-1")
	if err != nil {
		t.Fatalf("NewCategory failed: %v", err)
	}
	if category.Name != "Finance" {
		t.Errorf("Name: got %q", category.Name)
	}
	if category.Description != "bills and budgets" {
		t.Errorf("Description: got %q", category.Description)
	}
	if category.ID != "cat-1" {
		t.Errorf("ID: got %q", category.ID)
	}
}

func TestNewCategoryValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   CategoryInput
		wantMsg string
	}{
		{
			name:    "missing name",
			input:   CategoryInput{},
			wantMsg: "category name is required",
		},
		{
			name:    "blank name",
			input:   CategoryInput{Name: "  "},
			wantMsg: "category name cannot be empty",
		},
		{
			name:    "name too long",
			input:   CategoryInput{Name: strings.Repeat("x", 51)},
			wantMsg: "category name must be between 1 and 50 characters",
		},
		{
			name:    "description too long",
			input:   CategoryInput{Name: "ok", Description: strings.Repeat("y", 201)},
			wantMsg: "category description must be 200 characters or less",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCategory(tt.input, "id")
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if verr.Msg != tt.wantMsg {
				t.Errorf("message: got %q, want %q", verr.Msg, tt.wantMsg)
			}
		})
	}
}

func TestNewCategoryCountsCharactersNotBytes(t *testing.T) {
	if _, err := NewCategory(CategoryInput{Name: strings.Repeat("я", 50)}, "id"); err != nil {
		t.Errorf("50-rune name should pass: %v", err)
	}
	_, err := NewCategory(CategoryInput{Name: strings.Repeat("я", 51)}, "id")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("51-rune name should fail with ValidationError, got %v", err)
	}

	if _, err := NewCategory(CategoryInput{Name: "ok", Description: strings.Repeat("日", 200)}, "id"); err != nil {
		t.Errorf("200-rune description should pass: %v", err)
	}
	if err := ValidateCategory(Category{Name: "ok", Description: strings.Repeat("日", 201)}); err == nil {
		t.Error("201-rune description should fail")
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	original, err := NewCategory(CategoryInput{Name: "Work", Description: "office things"}, "cat-3")
	if err != nil {
		t.Fatalf("NewCategory failed: %v", err)
	}

	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored Category
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(original, restored) {
		t.Errorf("round trip changed the category:\n got %+v\nwant %+v", restored, original)
	}
}
