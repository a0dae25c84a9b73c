// ABOUTME: Quiz and personality type data structures
// ABOUTME: Questions, axes, answers and the type table entries
package models

import (
	"strings"
	"time"
)

// Option labels a question can be answered with
const (
	OptionA = "A"
	OptionB = "B"
)

// Question is one quiz item contributing to a single axis
type Question struct {
	ID      int    `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	OptionA string `json:"option_a" yaml:"option_a"`
	OptionB string `json:"option_b" yaml:"option_b"`
	Axis    string `json:"axis" yaml:"axis"`
}

// Axis is one binary dimension of a personality code.
// ALetter wins an A-majority, BLetter a B-majority, Tie an exact tie.
type Axis struct {
	Key     string `json:"key" yaml:"key"`
	Name    string `json:"name" yaml:"name"`
	ALetter string `json:"a_letter" yaml:"a_letter"`
	BLetter string `json:"b_letter" yaml:"b_letter"`
	Tie     string `json:"tie,omitempty" yaml:"tie"`
}

// TieLetter returns the configured tie letter, or the first alphabet letter
func (a Axis) TieLetter() string {
	if a.Tie == "" {
		return a.ALetter
	}
	return a.Tie
}

// Answer is the option selected for one question
type Answer struct {
	QuestionID int    `json:"question_id"`
	Selected   string `json:"selected"`
}

// Submission is an ordered set of answers
type Submission struct {
	Answers []Answer `json:"answers"`
}

// Selections collapses the submission into one selection per question id.
// Later answers for the same id overwrite earlier ones.
func (s Submission) Selections() map[int]string {
	out := make(map[int]string, len(s.Answers))
	for _, a := range s.Answers {
		out[a.QuestionID] = strings.ToUpper(strings.TrimSpace(a.Selected))
	}
	return out
}

// PersonalityType describes one 4-letter code
type PersonalityType struct {
	Code        string   `json:"code" yaml:"code"`
	MBTI        string   `json:"mbti" yaml:"mbti"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Solution    string   `json:"solution" yaml:"solution"`
	Traits      []string `json:"traits" yaml:"traits"`
	CareTips    []string `json:"care_tips" yaml:"care_tips"`
	BestMatches []string `json:"best_matches" yaml:"best_matches"`
	GoodMatches []string `json:"good_matches" yaml:"good_matches"`
}

// Result is a classified submission with the resolved type details
type Result struct {
	Code        string    `json:"pawna_code"`
	MBTI        string    `json:"mbti_type"`
	Name        string    `json:"type_name"`
	Description string    `json:"description"`
	Solution    string    `json:"solution"`
	Traits      []string  `json:"personality_traits"`
	CareTips    []string  `json:"care_tips"`
	BestMatches []string  `json:"best_matches"`
	GoodMatches []string  `json:"good_matches"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewResult builds a Result from a resolved type
func NewResult(pt PersonalityType) Result {
	return Result{
		Code:        pt.Code,
		MBTI:        pt.MBTI,
		Name:        pt.Name,
		Description: pt.Description,
		Solution:    pt.Solution,
		Traits:      pt.Traits,
		CareTips:    pt.CareTips,
		BestMatches: pt.BestMatches,
		GoodMatches: pt.GoodMatches,
		Timestamp:   time.Now(),
	}
}
