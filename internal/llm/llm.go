// Package llm defines the generative-model collaborator: a message sequence
// and an expected output shape go in, a decoded structured object comes out.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("model returned an empty response")

	// ErrMalformedResponse is returned when the model's text is not valid JSON
	// for the requested shape.
	ErrMalformedResponse = errors.New("model returned malformed JSON")
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a prompt.
type Message struct {
	Role    Role
	Content string
}

// FieldType is the JSON type of a Shape node.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
)

// Shape describes the structure a model reply must have.
type Shape struct {
	Type        FieldType
	Description string
	Properties  map[string]*Shape
	Items       *Shape
	Required    []string
}

// Generator invokes a generative model and decodes its structured reply into out.
type Generator interface {
	Generate(ctx context.Context, messages []Message, shape *Shape, out any) error
}

// DecodeJSON unmarshals a model reply into out, tolerating a surrounding
// markdown code fence.
func DecodeJSON(text string, out any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyResponse
	}
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
