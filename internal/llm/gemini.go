package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"finassist/internal/logger"
)

// Gemini adapts the Gemini API to Model.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini creates a Gemini-backed Model using an API key.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model, timeout: timeout}, nil
}

// Generate sends req to the configured model.
func (g *Gemini) Generate(ctx context.Context, req Request) (*Response, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, toContents(req.Turns), generationConfig(req))
	if err != nil {
		return nil, classify(err)
	}
	return fromResponse(resp)
}

func generationConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.1),
		TopP:        genai.Ptr[float32](0.8),
		TopK:        genai.Ptr[float32](40),
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if len(req.Tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: toDeclarations(req.Tools)}}
	}
	return cfg
}

func toContents(turns []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		c := &genai.Content{Role: string(t.Role)}
		for _, p := range t.Parts {
			switch {
			case p.Call != nil:
				c.Parts = append(c.Parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   p.Call.ID,
					Name: p.Call.Name,
					Args: p.Call.Args,
				}})
			case p.Result != nil:
				c.Parts = append(c.Parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       p.Result.ID,
					Name:     p.Result.Name,
					Response: p.Result.Response,
				}})
			case p.Text != "":
				c.Parts = append(c.Parts, &genai.Part{Text: p.Text})
			}
		}
		if len(c.Parts) > 0 {
			contents = append(contents, c)
		}
	}
	return contents
}

func toDeclarations(tools []ToolSpec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		schema := &genai.Schema{
			Type:       genai.TypeObject,
			Properties: make(map[string]*genai.Schema, len(t.Params)),
		}
		for _, p := range t.Params {
			prop := &genai.Schema{Type: schemaType(p.Type), Description: p.Description, Enum: p.Enum}
			schema.Properties[p.Name] = prop
			schema.PropertyOrdering = append(schema.PropertyOrdering, p.Name)
			if p.Required {
				schema.Required = append(schema.Required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  schema,
		})
	}
	return decls
}

func schemaType(t ParamType) genai.Type {
	if t == TypeNumber {
		return genai.TypeNumber
	}
	return genai.TypeString
}

func fromResponse(resp *genai.GenerateContentResponse) (*Response, error) {
	if resp == nil {
		return &Response{}, nil
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return nil, &Error{Category: CategoryBlocked, Message: string(fb.BlockReason)}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return &Response{}, nil
	}

	cand := resp.Candidates[0]
	out := &Response{}
	for _, p := range cand.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		switch {
		case p.FunctionCall != nil:
			args := p.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			out.Parts = append(out.Parts, Part{Call: &FunctionCall{
				ID:   p.FunctionCall.ID,
				Name: p.FunctionCall.Name,
				Args: args,
			}})
		case p.Text != "":
			out.Parts = append(out.Parts, Part{Text: p.Text})
		}
	}
	if len(out.Parts) == 0 && cand.FinishReason == genai.FinishReasonSafety {
		return nil, &Error{Category: CategoryBlocked, Message: string(cand.FinishReason)}
	}
	return out, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Category: CategoryUnavailable, Message: "request timed out", Err: err}
	}

	code, status, msg := 0, "", ""
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code, status, msg = apiErr.Code, apiErr.Status, apiErr.Message
	case errors.As(err, &apiErrPtr):
		code, status, msg = apiErrPtr.Code, apiErrPtr.Status, apiErrPtr.Message
	default:
		return &Error{Category: CategoryUnknown, Message: "request failed", Err: err}
	}

	logger.Named("llm").Warnw("gemini api error", "code", code, "status", status, "message", msg)

	category := CategoryUnknown
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		category = CategoryAuth
	case code == http.StatusTooManyRequests:
		category = CategoryQuota
	case code == http.StatusBadRequest && strings.Contains(msg, "API key"):
		category = CategoryAuth
	case code == http.StatusBadRequest:
		category = CategoryInvalid
	case code >= 500:
		category = CategoryUnavailable
	}
	return &Error{Category: category, Message: msg, Err: err}
}
