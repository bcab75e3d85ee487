package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Groq.ModelID != "llama-3.2-1b-preview" {
		t.Errorf("ModelID = %q, want llama-3.2-1b-preview", cfg.Groq.ModelID)
	}
	if cfg.Groq.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("BaseURL = %q", cfg.Groq.BaseURL)
	}
	if cfg.SessionTTL != 60*time.Minute {
		t.Errorf("SessionTTL = %v, want 60m", cfg.SessionTTL)
	}
	if !cfg.Agent.Streaming || !cfg.Agent.ShowToolCalls {
		t.Errorf("agent streaming/tool-call display should default on: %+v", cfg.Agent)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("PORT", "9090")
	t.Setenv("MODEL_ID", "llama-3.3-70b-versatile")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("AGENT_STREAMING", "off")
	t.Setenv("AGENT_MAX_TOOL_ROUNDS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.Groq.ModelID != "llama-3.3-70b-versatile" {
		t.Errorf("ModelID = %q", cfg.Groq.ModelID)
	}
	if cfg.SessionTTL != 10*time.Minute {
		t.Errorf("SessionTTL = %v, want 10m", cfg.SessionTTL)
	}
	if cfg.Agent.Streaming {
		t.Error("AGENT_STREAMING=off should disable streaming")
	}
	if cfg.Agent.MaxToolRounds != 2 {
		t.Errorf("MaxToolRounds = %d, want 2", cfg.Agent.MaxToolRounds)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when GROQ_API_KEY is empty")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("AGENT_MAX_TOOL_ROUNDS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero tool rounds")
	}
}
