package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "finassist/internal/errors"
	"finassist/internal/exchange"
	"finassist/internal/llm"
	"finassist/internal/logger"
	"finassist/internal/metrics"
	"finassist/internal/services"
)

// Options tune the conversation loop.
type Options struct {
	// ContextTurns is how many earlier exchanges are replayed to the model.
	ContextTurns int
	// MaxToolRounds bounds how many times tool results are fed back per message.
	MaxToolRounds   int
	DefaultCurrency string
	AllTimeStart    time.Time
	Location        *time.Location
}

// Assistant answers chat messages by letting the model call registered tools.
// It keeps no per-user state; earlier context is read back from chat history.
type Assistant struct {
	model    llm.Model
	registry *Registry
	history  services.ChatHistoryServicer
	opts     Options
	now      func() time.Time
	log      *zap.SugaredLogger
}

// New creates an Assistant. A nil model yields an assistant that always
// reports itself unavailable.
func New(model llm.Model, registry *Registry, history services.ChatHistoryServicer, opts Options) *Assistant {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxToolRounds < 1 {
		opts.MaxToolRounds = 1
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	if opts.AllTimeStart.IsZero() {
		opts.AllTimeStart = time.Date(2000, 1, 1, 0, 0, 0, 0, opts.Location)
	}
	return &Assistant{
		model:    model,
		registry: registry,
		history:  history,
		opts:     opts,
		now:      time.Now,
		log:      logger.Named("assistant"),
	}
}

// Respond runs one conversation cycle and records it in chat history. The
// reply is never empty.
func (a *Assistant) Respond(ctx context.Context, userID, message string) string {
	reply := a.converse(ctx, userID, message)
	a.history.AppendChatEntry(userID, message, reply)
	return reply
}

func (a *Assistant) converse(ctx context.Context, userID, message string) string {
	if a.model == nil {
		a.log.Warnw("model not configured", "user_id", userID)
		return MsgUnavailable
	}

	req := llm.Request{
		System: SystemInstruction(PromptContext{
			Now:             a.now().In(a.opts.Location),
			AllTimeStart:    a.opts.AllTimeStart,
			DefaultCurrency: a.opts.DefaultCurrency,
		}),
		Tools: a.registry.Specs(),
		Turns: append(a.priorTurns(userID), llm.UserText(message)),
	}

	var (
		attempted []string
		pending   []missingFields
	)
	for round := 0; ; round++ {
		resp, err := a.generate(ctx, req)
		if err != nil {
			a.log.Errorw("model request failed", "user_id", userID, "round", round, "error", err)
			return apology(llm.CategoryOf(err))
		}

		text := resp.Text()
		calls := resp.Calls()
		if len(calls) == 0 || round >= a.opts.MaxToolRounds {
			if len(calls) > 0 {
				a.log.Warnw("tool round limit reached", "user_id", userID, "rounds", round)
			}
			if text != "" {
				return text
			}
			if len(pending) > 0 {
				return clarification(pending)
			}
			return emptyReply(message, attempted)
		}

		results, missing := a.dispatch(ctx, userID, calls)
		if len(missing) == len(calls) {
			return followUp(attempted, missing)
		}
		pending = missing
		for _, c := range calls {
			attempted = append(attempted, c.Name)
		}

		req.Turns = append(req.Turns,
			llm.Turn{Role: llm.RoleModel, Parts: resp.Parts},
			llm.Turn{Role: llm.RoleUser, Parts: results},
		)
	}
}

func (a *Assistant) generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	resp, err := a.model.Generate(ctx, req)
	outcome := "ok"
	if err != nil {
		outcome = string(llm.CategoryOf(err))
	}
	metrics.ModelCalls.WithLabelValues(outcome).Inc()
	return resp, err
}

// priorTurns replays the most recent exchanges oldest first.
func (a *Assistant) priorTurns(userID string) []llm.Turn {
	if a.opts.ContextTurns <= 0 {
		return nil
	}
	entries, err := a.history.RecentChatEntries(userID, a.opts.ContextTurns)
	if err != nil {
		a.log.Warnw("could not load chat context", "user_id", userID, "error", err)
		return nil
	}
	turns := make([]llm.Turn, 0, 2*len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		turns = append(turns, llm.UserText(entries[i].Message), llm.ModelText(entries[i].Response))
	}
	return turns
}

// dispatch runs every call of one model response. Calls lacking required
// parameters are not executed and are reported in missing.
func (a *Assistant) dispatch(ctx context.Context, userID string, calls []llm.FunctionCall) ([]llm.Part, []missingFields) {
	results := make([]llm.Part, 0, len(calls))
	var missing []missingFields

	for _, call := range calls {
		var payload map[string]any
		if tool, ok := a.registry.Lookup(call.Name); ok {
			if fields := MissingRequired(tool.Spec, call.Args); len(fields) > 0 {
				missing = append(missing, missingFields{tool: call.Name, fields: fields})
				metrics.ToolCalls.WithLabelValues(call.Name, "missing_params").Inc()
				payload = map[string]any{"error": fmt.Sprintf("Missing required parameters: %s. Ask the user for them.", joinAnd(fields))}
			} else {
				payload = a.invoke(ctx, userID, tool, call)
			}
		} else {
			a.log.Warnw("model requested unknown tool", "user_id", userID, "tool", call.Name)
			metrics.ToolCalls.WithLabelValues("unknown", "unknown_tool").Inc()
			payload = map[string]any{"error": "Unknown function: " + call.Name}
		}
		results = append(results, llm.Part{Result: &llm.FunctionResult{ID: call.ID, Name: call.Name, Response: payload}})
	}
	return results, missing
}

// invoke runs a single handler, turning errors and panics into an error payload.
func (a *Assistant) invoke(ctx context.Context, userID string, tool Tool, call llm.FunctionCall) (payload map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Errorw("tool panicked", "user_id", userID, "tool", call.Name, "panic", r)
			metrics.ToolCalls.WithLabelValues(call.Name, "panic").Inc()
			payload = map[string]any{"error": "Execution error: the tool failed unexpectedly."}
		}
	}()

	a.log.Infow("executing tool", "user_id", userID, "tool", call.Name, "args", call.Args)
	result, err := tool.Handler(ctx, Invocation{UserID: userID, Args: call.Args})
	if err != nil {
		a.log.Warnw("tool returned error", "user_id", userID, "tool", call.Name, "error", err)
		metrics.ToolCalls.WithLabelValues(call.Name, "error").Inc()
		return map[string]any{"error": toolErrorMessage(err)}
	}
	metrics.ToolCalls.WithLabelValues(call.Name, "ok").Inc()
	if result == nil {
		result = map[string]any{}
	}
	return result
}

// toolErrorMessage keeps readable validation and gateway messages and hides
// anything else.
func toolErrorMessage(err error) string {
	var appErr *apperrors.AppError
	var gwErr *exchange.Error
	var nanErr errNotANumber
	switch {
	case errors.As(err, &appErr):
		return appErr.Message
	case errors.As(err, &gwErr):
		return gwErr.Message
	case errors.As(err, &nanErr):
		return nanErr.Error()
	default:
		return "Execution error: the operation could not be completed."
	}
}
