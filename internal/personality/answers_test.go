// ABOUTME: Tests for compact answer parsing
// ABOUTME: Covers letter strings, id pairs and malformed input
package personality

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/2jang/Pawsonality/internal/models"
)

func TestParseAnswers(t *testing.T) {
	c := mustDefault(t)
	qs := c.Questions()

	tests := []struct {
		name     string
		input    string
		wantCode string
		wantErr  bool
	}{
		{"letters", "AAAAAAAAAAAA", "WTIL", false},
		{"letters lower with spaces", "bbb bbb bbb bbb", "DILP", false},
		{"too few letters", "AAAA", "", true},
		{"empty", "  ", "", true},
		{"bad pair", "1=A,2", "", true},
		{"bad id", "x=A", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := ParseAnswers(tt.input, qs)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseAnswers() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAnswers() error = %v", err)
			}
			got, err := c.Classify(sub)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != tt.wantCode {
				t.Errorf("Classify() = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestParseAnswers_CountsLettersNotBytes(t *testing.T) {
	c := mustDefault(t)
	qs := c.Questions()

	_, err := ParseAnswers(strings.Repeat("é", len(qs)-1), qs)
	if !errors.Is(err, models.ErrIncompleteSubmission) {
		t.Fatalf("ParseAnswers() error = %v, want ErrIncompleteSubmission", err)
	}
	if want := fmt.Sprintf("got %d letters", len(qs)-1); !strings.Contains(err.Error(), want) {
		t.Errorf("error %q should contain %q", err, want)
	}

	sub, err := ParseAnswers(strings.Repeat("é", len(qs)), qs)
	if err != nil {
		t.Fatalf("ParseAnswers() error = %v", err)
	}
	if len(sub.Answers) != len(qs) || sub.Answers[0].Selected != "é" {
		t.Fatalf("answers = %+v, want one é per question", sub.Answers)
	}
	if _, err := c.Classify(sub); !errors.Is(err, models.ErrInvalidSelection) {
		t.Errorf("Classify() error = %v, want ErrInvalidSelection", err)
	}
}

func TestParseAnswers_Pairs(t *testing.T) {
	c := mustDefault(t)
	qs := c.Questions()

	input := ""
	for i, q := range qs {
		if i > 0 {
			input += ","
		}
		input += strconv.Itoa(q.ID) + "=B"
	}
	sub, err := ParseAnswers(input, qs)
	if err != nil {
		t.Fatalf("ParseAnswers() error = %v", err)
	}
	got, err := c.Classify(sub)
	if err != nil || got != "DILP" {
		t.Errorf("Classify() = %s, %v, want DILP", got, err)
	}

	sub, err = ParseAnswers("1=A, 2:B", qs)
	if err != nil {
		t.Fatalf("ParseAnswers() error = %v", err)
	}
	if _, err := c.Classify(sub); !errors.Is(err, models.ErrIncompleteSubmission) {
		t.Errorf("Classify() error = %v, want ErrIncompleteSubmission", err)
	}
}
