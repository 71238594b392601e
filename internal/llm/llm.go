// Package llm describes the language-model capability used by the assistant:
// send a system prompt, tool schema and conversation, receive text and/or
// tool-call requests. Provider adapters live alongside.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// FunctionCall is a tool invocation requested by the model.
type FunctionCall struct {
	ID   string
	Name string
	Args map[string]any
}

// FunctionResult is the local outcome of a FunctionCall, sent back to the model.
type FunctionResult struct {
	ID       string
	Name     string
	Response map[string]any
}

// Part is one segment of a turn. Exactly one field is set.
type Part struct {
	Text   string
	Call   *FunctionCall
	Result *FunctionResult
}

// Turn is one message in the conversation.
type Turn struct {
	Role  Role
	Parts []Part
}

// UserText builds a user turn holding a single text part.
func UserText(text string) Turn {
	return Turn{Role: RoleUser, Parts: []Part{{Text: text}}}
}

// ModelText builds a model turn holding a single text part.
func ModelText(text string) Turn {
	return Turn{Role: RoleModel, Parts: []Part{{Text: text}}}
}

// ParamType is the JSON type of a tool parameter.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeNumber ParamType = "number"
)

// Param describes one tool parameter.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

// ToolSpec is the schema of a callable capability as shown to the model.
// Params keeps declaration order.
type ToolSpec struct {
	Name        string
	Description string
	Params      []Param
}

// RequiredParams returns the names of the required parameters in order.
func (s ToolSpec) RequiredParams() []string {
	var names []string
	for _, p := range s.Params {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Request is a single generation call.
type Request struct {
	System string
	Turns  []Turn
	Tools  []ToolSpec
}

// Response is the model output for one Request.
type Response struct {
	Parts []Part
}

// Calls returns the tool-call requests in response order.
func (r *Response) Calls() []FunctionCall {
	if r == nil {
		return nil
	}
	var calls []FunctionCall
	for _, p := range r.Parts {
		if p.Call != nil {
			calls = append(calls, *p.Call)
		}
	}
	return calls
}

// Text concatenates the text parts, skipping tool_code blocks some models
// echo alongside function calls.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Parts {
		if p.Call != nil || p.Text == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(p.Text), "```tool_code") {
			continue
		}
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

// Model generates a response for a request.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Category classifies a model failure for user-facing messages.
type Category string

const (
	CategoryAuth        Category = "auth"
	CategoryQuota       Category = "quota"
	CategoryInvalid     Category = "invalid_request"
	CategoryBlocked     Category = "blocked"
	CategoryUnavailable Category = "unavailable"
	CategoryUnknown     Category = "unknown"
)

// Error is a failure of the model capability.
type Error struct {
	Category Category
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model %s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("model %s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// CategoryOf returns the category of err, or CategoryUnknown when err is not
// an *Error.
func CategoryOf(err error) Category {
	var mErr *Error
	if errors.As(err, &mErr) {
		return mErr.Category
	}
	return CategoryUnknown
}
