package transcription

import (
	"testing"

	"github.com/ladlehq/ladle/internal/config"
)

func TestNewProvider_DefaultsToWhisperCpp(t *testing.T) {
	p := NewProvider(config.TranscriptionConfig{Provider: ""})
	if _, ok := p.(*WhisperCppProvider); !ok {
		t.Errorf("Expected WhisperCppProvider, got %T", p)
	}
}

func TestNewProvider_Remote(t *testing.T) {
	p := NewProvider(config.TranscriptionConfig{Provider: "remote", RemoteURL: "https://api.example.com"})
	if _, ok := p.(*RemoteProvider); !ok {
		t.Errorf("Expected RemoteProvider, got %T", p)
	}
}

func TestNewProvider_FallbackWrapped(t *testing.T) {
	p := NewProvider(config.TranscriptionConfig{
		Provider:         "whispercpp",
		FallbackEnabled:  true,
		FallbackProvider: "remote",
		RemoteURL:        "https://api.example.com",
	})

	fb, ok := p.(*FallbackProvider)
	if !ok {
		t.Fatalf("Expected FallbackProvider, got %T", p)
	}
	if _, ok := fb.primary.(*WhisperCppProvider); !ok {
		t.Errorf("Expected whispercpp primary, got %T", fb.primary)
	}
	if _, ok := fb.secondary.(*RemoteProvider); !ok {
		t.Errorf("Expected remote secondary, got %T", fb.secondary)
	}
}
