package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate checks every required field and reports all problems at
// once rather than stopping at the first.
func Validate(cfg Config) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	requireURL(add, "auth.url", cfg.Auth.URL)
	if cfg.Auth.ClientID == "" {
		add("auth.client_id", "is required")
	}
	if cfg.Auth.ClientSecret == "" {
		add("auth.client_secret", "is required")
	}

	requireURL(add, "llm.url", cfg.LLM.URL)
	if cfg.LLM.Model == "" {
		add("llm.model", "is required")
	}
	if cfg.LLM.Temperature != nil && (*cfg.LLM.Temperature < 0 || *cfg.LLM.Temperature > 2) {
		add("llm.temperature", "must be between 0 and 2")
	}

	if len(cfg.MCP.Servers) == 0 {
		add("mcp.servers", "at least one server is required")
	}
	names := make([]string, 0, len(cfg.MCP.Servers))
	for name := range cfg.MCP.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		requireURL(add, fmt.Sprintf("mcp.servers.%s.url", name), cfg.MCP.Servers[name].URL)
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func requireURL(add func(field, message string), field, value string) {
	if value == "" {
		add(field, "is required")
		return
	}
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		add(field, "must be an absolute URL")
	}
}
