package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"https URL", "https://example.com/path", true},
		{"http URL", "http://example.com", true},
		{"with port", "http://localhost:8080/x", true},
		{"ftp scheme", "ftp://example.com", false},
		{"javascript", "javascript:void(0)", false},
		{"fragment only", "#section", false},
		{"relative path", "/docs/intro", false},
		{"empty", "", false},
		{"missing host", "https://", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidURL(tt.input))
		})
	}
}

func TestDomainFromURL(t *testing.T) {
	assert.Equal(t, "github.com", DomainFromURL("https://github.com/golang/go"))
	assert.Equal(t, "localhost:3000", DomainFromURL("http://localhost:3000/app"))
	assert.Equal(t, "", DomainFromURL("://bad"))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hello world", CleanText("  hello \n\t world  ", 0))
	assert.Equal(t, "hello...", CleanText("hello world", 5))
	assert.Equal(t, "", CleanText("", 10))
}

func TestShouldSkipURL(t *testing.T) {
	assert.True(t, ShouldSkipURL("https://twitter.com/intent/tweet?url=x"))
	assert.True(t, ShouldSkipURL("https://cdn.example.com/logo.PNG"))
	assert.False(t, ShouldSkipURL("https://go.dev/blog"))
}
