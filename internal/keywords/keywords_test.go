package keywords

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	e := Default()

	cases := []struct {
		name         string
		text         string
		requirements []string
		want         []string
	}{
		{
			name: "vocabulary order and display form",
			text: "We run Docker on AWS and write Python.",
			want: []string{"Python", "AWS", "Docker"},
		},
		{
			name:         "requirements are scanned too",
			text:         "Backend role",
			requirements: []string{"Kubernetes", "strong COMMUNICATION"},
			want:         []string{"Kubernetes", "Communication"},
		},
		{
			name: "duplicates collapse",
			text: "python python PYTHON",
			want: []string{"Python"},
		},
		{
			name: "multi word terms",
			text: "machine learning and project management",
			want: []string{"Machine Learning", "Project Management"},
		},
		{
			name: "substring match",
			text: "javascript",
			want: []string{"Java", "JavaScript"},
		},
		{
			name: "nothing known",
			text: "Cobol mainframe",
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Extract(tc.text, tc.requirements...)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestNewSkipsBlankAndDuplicateTerms(t *testing.T) {
	e := New([]Term{
		{Match: "  GoLang ", Display: "Go"},
		{Match: "", Display: "Empty"},
		{Match: "go ", Display: "Go"},
		{Match: "rust"},
	})

	got := e.Extract("golang and rust")
	want := []string{"Go", "rust"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
