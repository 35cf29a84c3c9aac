package core

import (
	"strings"
	"testing"
)

func validInput() CreateInput {
	return CreateInput{
		Amount:      "150.50",
		Category:    "Food",
		Description: "Lunch",
		Date:        "2024-02-15",
	}
}

func TestValidateCreateInput_Valid(t *testing.T) {
	if details := ValidateCreateInput(validInput()); len(details) != 0 {
		t.Fatalf("expected no violations, got %v", details)
	}
}

func TestValidateCreateInput_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateInput)
		want   string
	}{
		{"zero amount", func(in *CreateInput) { in.Amount = "0" }, "amount must be a positive number"},
		{"negative amount", func(in *CreateInput) { in.Amount = "-5" }, "amount must be a positive number"},
		{"missing amount", func(in *CreateInput) { in.Amount = "" }, "amount must be a positive number"},
		{"huge amount", func(in *CreateInput) { in.Amount = "20000000" }, "amount seems unreasonably large"},
		{"empty category", func(in *CreateInput) { in.Category = "" }, "category is required"},
		{"blank category", func(in *CreateInput) { in.Category = "   " }, "category is required"},
		{"empty description", func(in *CreateInput) { in.Description = "" }, "description is required"},
		{"long description", func(in *CreateInput) { in.Description = strings.Repeat("x", 501) }, "description must be 500 characters or less"},
		{"missing date", func(in *CreateInput) { in.Date = "" }, "date is required"},
		{"malformed date", func(in *CreateInput) { in.Date = "15-02-2024" }, "date must be a valid YYYY-MM-DD"},
		{"impossible date", func(in *CreateInput) { in.Date = "2024-13-40" }, "date must be a valid YYYY-MM-DD"},
		{"non-calendar date", func(in *CreateInput) { in.Date = "2024-02-30" }, "date must be a valid YYYY-MM-DD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			details := ValidateCreateInput(in)
			if len(details) == 0 {
				t.Fatal("expected at least one violation")
			}
			found := false
			for _, d := range details {
				if d == tt.want {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %q among %v", tt.want, details)
			}
		})
	}
}

func TestValidateCreateInput_CollectsAllViolations(t *testing.T) {
	details := ValidateCreateInput(CreateInput{})
	if len(details) != 4 {
		t.Fatalf("expected one violation per field, got %v", details)
	}
}

func TestValidateCreateInput_LongDescriptionAtBoundary(t *testing.T) {
	in := validInput()
	in.Description = strings.Repeat("x", 500)
	if details := ValidateCreateInput(in); len(details) != 0 {
		t.Fatalf("500-character description should pass, got %v", details)
	}
}

func TestParseSortOrder(t *testing.T) {
	cases := []struct {
		in   string
		want SortOrder
	}{
		{"date_asc", SortDateAsc},
		{"date_desc", SortDateDesc},
		{"", SortDateDesc},
		{"garbage", SortDateDesc},
	}
	for _, tc := range cases {
		if got := ParseSortOrder(tc.in); got != tc.want {
			t.Fatalf("ParseSortOrder(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
