package types

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStringListUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected []string
	}{
		{
			name:     "plain array",
			payload:  `["Go", "Python", "SQL"]`,
			expected: []string{"Go", "Python", "SQL"},
		},
		{
			name:     "array serialized inside a string",
			payload:  `"[\"Go\", \"Python\"]"`,
			expected: []string{"Go", "Python"},
		},
		{
			name:     "comma separated plain text",
			payload:  `"Go, Python, SQL"`,
			expected: []string{"Go", "Python", "SQL"},
		},
		{
			name:     "empty string",
			payload:  `""`,
			expected: nil,
		},
		{
			name:     "empty array",
			payload:  `[]`,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list StringList
			if err := json.Unmarshal([]byte(tt.payload), &list); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual([]string(list), tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, list)
			}
		})
	}
}

func TestStringListUnmarshalWithinStruct(t *testing.T) {
	// Skills arrive as a serialized list on some evaluation payloads.
	payload := `{"id": 1, "file_name": "cv.pdf", "skills": "[\"Go\", \"Docker\"]", "processing_status": "processed", "created_at": "2025-01-02T10:00:00Z"}`
	var resume Resume
	if err := json.Unmarshal([]byte(payload), &resume); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual([]string(resume.Skills), []string{"Go", "Docker"}) {
		t.Errorf("Expected parsed skills, got %v", resume.Skills)
	}
}

func TestUserProfileFullName(t *testing.T) {
	tests := []struct {
		name     string
		user     UserProfile
		expected string
	}{
		{name: "both names", user: UserProfile{FirstName: "Alice", LastName: "Smith"}, expected: "Alice Smith"},
		{name: "first only", user: UserProfile{FirstName: "Alice"}, expected: "Alice"},
		{name: "last only", user: UserProfile{LastName: "Smith"}, expected: "Smith"},
		{name: "neither", user: UserProfile{Username: "asmith"}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.FullName(); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestEvaluationCandidateName(t *testing.T) {
	withUser := Evaluation{Resume: Resume{
		FileName: "cv.pdf",
		User:     &UserProfile{FirstName: "Alice", LastName: "Smith"},
	}}
	if got := withUser.CandidateName(); got != "Alice Smith" {
		t.Errorf("Expected owner name, got '%s'", got)
	}

	withoutUser := Evaluation{Resume: Resume{FileName: "cv.pdf"}}
	if got := withoutUser.CandidateName(); got != "cv.pdf" {
		t.Errorf("Expected file name fallback, got '%s'", got)
	}

	emptyName := Evaluation{Resume: Resume{FileName: "cv.pdf", User: &UserProfile{}}}
	if got := emptyName.CandidateName(); got != "cv.pdf" {
		t.Errorf("Expected fallback when the owner has no name, got '%s'", got)
	}
}
