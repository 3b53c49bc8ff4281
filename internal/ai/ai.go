// Package ai describes the language model backends the analyzer and the scorer
// can delegate to and how one of them is selected from configuration.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyResponse is returned by backends that answered without content.
	ErrEmptyResponse = errors.New("ai backend returned empty response")
	// ErrNoProvider is returned when a model call is attempted without a backend.
	ErrNoProvider = errors.New("no ai provider configured")
	// ErrUnknownProvider is returned by CheckProvider for names Resolve does not know.
	ErrUnknownProvider = errors.New("unknown ai provider")
)

// Provider is the kind of backend resolved from configuration.
type Provider int

const (
	ProviderNone Provider = iota
	ProviderHosted
	ProviderSelfHosted
)

func (p Provider) String() string {
	switch p {
	case ProviderNone:
		return "none"
	case ProviderHosted:
		return "hosted"
	case ProviderSelfHosted:
		return "self-hosted"
	default:
		return "unknown"
	}
}

// Vendor names the concrete API behind a provider.
type Vendor string

const (
	VendorNone   Vendor = ""
	VendorOpenAI Vendor = "openai"
	VendorGemini Vendor = "gemini"
	VendorOllama Vendor = "ollama"
)

// Settings are the raw configuration values that drive provider selection.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
}

// Selection is the provider resolved once from Settings.
type Selection struct {
	Provider Provider
	Vendor   Vendor
	Model    string
}

// CheckProvider reports whether name is a provider Resolve understands. An
// empty name is valid and lets the API key decide.
func CheckProvider(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "off", "local",
		string(VendorOllama), "self-hosted", "selfhosted",
		string(VendorOpenAI), string(VendorGemini):
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownProvider, name)
}

// Resolve picks the backend: an explicit self-hosted provider wins, then a
// hosted backend when an API key is present, otherwise none.
func Resolve(s Settings) Selection {
	name := strings.ToLower(strings.TrimSpace(s.Provider))
	model := strings.TrimSpace(s.Model)

	switch name {
	case "none", "off", "local":
		return Selection{Provider: ProviderNone}
	case string(VendorOllama), "self-hosted", "selfhosted":
		return Selection{Provider: ProviderSelfHosted, Vendor: VendorOllama, Model: model}
	}

	if strings.TrimSpace(s.APIKey) == "" {
		return Selection{Provider: ProviderNone}
	}

	vendor := VendorOpenAI
	if name == string(VendorGemini) {
		vendor = VendorGemini
	}

	return Selection{Provider: ProviderHosted, Vendor: vendor, Model: model}
}

// Chatter sends one system instruction and one user prompt to a model and
// returns the raw text of its answer.
type Chatter interface {
	Chat(ctx context.Context, system, prompt string) (string, error)
	Model() string
}
