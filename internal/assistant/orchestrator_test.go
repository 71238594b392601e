package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finassist/internal/llm"
	"finassist/internal/models"
	"finassist/internal/services"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

type testDeps struct {
	model   *scriptedModel
	history *mockHistory
	txSvc   *mockTransactionService
}

func newTestAssistant(t *testing.T, model llm.Model, extra ...Tool) (*Assistant, *testDeps) {
	t.Helper()
	deps := &testDeps{history: &mockHistory{}, txSvc: &mockTransactionService{}}
	if sm, ok := model.(*scriptedModel); ok {
		deps.model = sm
	}

	tools := append(DefaultTools(ToolDeps{
		Transactions:    deps.txSvc,
		Aggregation:     &mockAggregationService{},
		Reports:         &mockReportService{},
		Rates:           &mockRates{},
		DefaultCurrency: "USD",
		Location:        time.UTC,
		Now:             func() time.Time { return fixedNow },
	}), extra...)
	registry, err := NewRegistry(tools...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	a := New(model, registry, deps.history, Options{ContextTurns: 5, MaxToolRounds: 2, DefaultCurrency: "USD"})
	a.now = func() time.Time { return fixedNow }
	return a, deps
}

func TestAssistant_Respond(t *testing.T) {
	ctx := context.Background()

	t.Run("greeting without tool calls gets templated reply", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{{resp: &llm.Response{}}}}
		a, deps := newTestAssistant(t, model)

		reply := a.Respond(ctx, "user-1", "hello")
		if reply != MsgGreeting {
			t.Errorf("expected greeting, got %q", reply)
		}
		if len(model.requests) != 1 {
			t.Errorf("expected a single model call, got %d", len(model.requests))
		}
		if len(deps.history.entries) != 1 || deps.history.entries[0].response != MsgGreeting {
			t.Errorf("expected greeting persisted, got %+v", deps.history.entries)
		}
	})

	t.Run("plain text answer is returned", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{textResponse("You spent 205.00 USD.")}}
		a, _ := newTestAssistant(t, model)

		if reply := a.Respond(ctx, "user-1", "how much did I spend?"); reply != "You spent 205.00 USD." {
			t.Errorf("unexpected reply %q", reply)
		}
	})

	t.Run("empty reply to unknown request asks to rephrase", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{{resp: &llm.Response{}}}}
		a, _ := newTestAssistant(t, model)

		if reply := a.Respond(ctx, "user-1", "qwerty"); reply != MsgRephrase {
			t.Errorf("unexpected reply %q", reply)
		}
	})

	t.Run("missing required fields ask the user without calling the handler", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{callResponse(llm.FunctionCall{
			Name: ToolAddTransaction,
			Args: map[string]any{"amount": 20.0, "currency": "USD", "type": "expense"},
		})}}
		a, deps := newTestAssistant(t, model)

		reply := a.Respond(ctx, "user-1", "I spent 20 dollars")
		if deps.txSvc.addCalls != 0 {
			t.Errorf("handler must not run, ran %d times", deps.txSvc.addCalls)
		}
		if !strings.Contains(reply, "category and description") {
			t.Errorf("expected request for category and description, got %q", reply)
		}
		for _, present := range []string{"amount", "currency", "type"} {
			if strings.Contains(reply, present) {
				t.Errorf("reply must not ask for %q: %q", present, reply)
			}
		}
		if len(model.requests) != 1 {
			t.Errorf("expected no follow-up model call, got %d calls", len(model.requests))
		}
		if len(deps.history.entries) != 1 || deps.history.entries[0].response != reply {
			t.Error("expected clarification persisted")
		}
	})

	t.Run("blank string arguments count as missing", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{callResponse(llm.FunctionCall{
			Name: ToolFinancialSummary,
			Args: map[string]any{"transaction_type": "income", "start_date": " ", "end_date": nil},
		})}}
		a, _ := newTestAssistant(t, model)

		reply := a.Respond(ctx, "user-1", "income?")
		if !strings.Contains(reply, "start date and end date") {
			t.Errorf("unexpected reply %q", reply)
		}
	})

	t.Run("tool results are fed back for a final answer", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{
			callResponse(llm.FunctionCall{ID: "c1", Name: ToolAddTransaction, Args: map[string]any{
				"amount": "12.5", "currency": "usd", "category": "Food", "type": "expense", "description": "Lunch",
			}}),
			textResponse("Added your lunch."),
		}}
		a, deps := newTestAssistant(t, model)
		deps.txSvc.addTransactionFn = func(userID string, in services.NewTransaction) (*models.Transaction, error) {
			if userID != "user-1" {
				t.Errorf("expected injected user id, got %q", userID)
			}
			if in.Amount != 12.5 {
				t.Errorf("expected amount 12.5, got %v", in.Amount)
			}
			return &models.Transaction{Amount: 12.5, Currency: "USD", Kind: models.TransactionKindExpense, Description: "Lunch", OccurredAt: fixedNow}, nil
		}

		reply := a.Respond(ctx, "user-1", "lunch 12.5 dollars")
		if reply != "Added your lunch." {
			t.Errorf("unexpected reply %q", reply)
		}
		if len(model.requests) != 2 {
			t.Fatalf("expected 2 model calls, got %d", len(model.requests))
		}
		results := lastResults(model.requests[1])
		if len(results) != 1 || results[0].ID != "c1" {
			t.Fatalf("unexpected results %+v", results)
		}
		want := "Expense of 12.50 USD for 'Lunch' added successfully at 2024-03-15 09:30."
		if results[0].Response["result"] != want {
			t.Errorf("unexpected tool result %v", results[0].Response["result"])
		}
	})

	t.Run("clarification in a later round names the earlier steps", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{
			callResponse(llm.FunctionCall{ID: "c1", Name: ToolAddTransaction, Args: map[string]any{
				"amount": 12.5, "currency": "USD", "category": "Food", "type": "expense", "description": "Lunch",
			}}),
			callResponse(llm.FunctionCall{ID: "c2", Name: ToolFinancialSummary, Args: map[string]any{"transaction_type": "expense"}}),
		}}
		a, deps := newTestAssistant(t, model)

		reply := a.Respond(ctx, "user-1", "add lunch and tell me my spending")
		if deps.txSvc.addCalls != 1 {
			t.Fatalf("expected the first round to add the transaction, ran %d times", deps.txSvc.addCalls)
		}
		if !strings.HasPrefix(reply, "I completed the earlier steps ("+ToolAddTransaction+").") {
			t.Errorf("expected earlier step to be mentioned, got %q", reply)
		}
		if !strings.Contains(reply, "start date and end date") {
			t.Errorf("expected request for the missing dates, got %q", reply)
		}
		if len(model.requests) != 2 {
			t.Errorf("expected 2 model calls, got %d", len(model.requests))
		}
	})

	t.Run("unknown tool becomes an error payload", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{
			callResponse(llm.FunctionCall{Name: "delete_all_data"}),
			textResponse("Sorry, I can't do that."),
		}}
		a, _ := newTestAssistant(t, model)

		reply := a.Respond(ctx, "user-1", "wipe everything")
		if reply != "Sorry, I can't do that." {
			t.Errorf("unexpected reply %q", reply)
		}
		results := lastResults(model.requests[1])
		if len(results) != 1 || results[0].Response["error"] != "Unknown function: delete_all_data" {
			t.Errorf("unexpected results %+v", results)
		}
	})

	t.Run("panicking tool does not abort sibling calls", func(t *testing.T) {
		boom := Tool{
			Spec:    llm.ToolSpec{Name: "explode"},
			Handler: func(context.Context, Invocation) (map[string]any, error) { panic("boom") },
		}
		model := &scriptedModel{steps: []scriptedStep{
			callResponse(llm.FunctionCall{Name: "explode"}, llm.FunctionCall{Name: ToolCurrentDateTime}),
			{resp: &llm.Response{}},
		}}
		a, _ := newTestAssistant(t, model, boom)

		reply := a.Respond(ctx, "user-1", "what day is it")
		results := lastResults(model.requests[1])
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if _, ok := results[0].Response["error"]; !ok {
			t.Errorf("expected error payload for panicking tool, got %v", results[0].Response)
		}
		if results[1].Response["date"] != "2024-03-15" {
			t.Errorf("expected sibling result, got %v", results[1].Response)
		}
		if !strings.Contains(reply, "explode, get_current_datetime") {
			t.Errorf("expected attempted-actions summary, got %q", reply)
		}
	})

	t.Run("model supplied user_id is ignored", func(t *testing.T) {
		var seen string
		spy := Tool{
			Spec: llm.ToolSpec{Name: "whoami"},
			Handler: func(_ context.Context, inv Invocation) (map[string]any, error) {
				seen = inv.UserID
				return map[string]any{}, nil
			},
		}
		model := &scriptedModel{steps: []scriptedStep{
			callResponse(llm.FunctionCall{Name: "whoami", Args: map[string]any{"user_id": "someone-else"}}),
			textResponse("done"),
		}}
		a, _ := newTestAssistant(t, model, spy)

		a.Respond(ctx, "user-1", "who am I")
		if seen != "user-1" {
			t.Errorf("expected injected user-1, got %q", seen)
		}
	})

	t.Run("tool rounds are capped", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{
			callResponse(llm.FunctionCall{Name: ToolCurrentDateTime}),
		}}
		a, _ := newTestAssistant(t, model)

		reply := a.Respond(ctx, "user-1", "loop forever")
		if len(model.requests) != 3 {
			t.Errorf("expected 3 model calls with 2 tool rounds, got %d", len(model.requests))
		}
		if !strings.HasPrefix(reply, "I attempted to execute the requested actions (get_current_datetime)") {
			t.Errorf("unexpected reply %q", reply)
		}
	})

	t.Run("auth failure yields apology and is persisted", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{{err: &llm.Error{Category: llm.CategoryAuth, Message: "API key not valid"}}}}
		a, deps := newTestAssistant(t, model)

		reply := a.Respond(ctx, "user-1", "hello")
		if reply != apology(llm.CategoryAuth) || !strings.Contains(reply, "API key") {
			t.Errorf("expected auth apology, got %q", reply)
		}
		if strings.Contains(reply, "not valid") {
			t.Errorf("raw provider message leaked: %q", reply)
		}
		if len(deps.history.entries) != 1 || deps.history.entries[0].response != reply {
			t.Errorf("expected apology persisted, got %+v", deps.history.entries)
		}
	})

	t.Run("quota failure after a tool round", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{
			callResponse(llm.FunctionCall{Name: ToolCurrentDateTime}),
			{err: &llm.Error{Category: llm.CategoryQuota}},
		}}
		a, _ := newTestAssistant(t, model)

		if reply := a.Respond(ctx, "user-1", "what time is it"); reply != apology(llm.CategoryQuota) {
			t.Errorf("unexpected reply %q", reply)
		}
	})

	t.Run("unclassified error gets generic apology", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{{err: errors.New("connection reset")}}}
		a, _ := newTestAssistant(t, model)

		reply := a.Respond(ctx, "user-1", "hi")
		if reply != apology(llm.CategoryUnknown) {
			t.Errorf("unexpected reply %q", reply)
		}
	})

	t.Run("missing model reports unavailable without calling anything", func(t *testing.T) {
		a, deps := newTestAssistant(t, nil)

		reply := a.Respond(ctx, "user-1", "hello")
		if reply != MsgUnavailable {
			t.Errorf("unexpected reply %q", reply)
		}
		if len(deps.history.entries) != 1 {
			t.Error("expected the unavailable reply to be persisted")
		}
	})

	t.Run("recent history is replayed oldest first", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{textResponse("ok")}}
		a, deps := newTestAssistant(t, model)
		deps.history.recent = []models.ChatHistory{
			{Message: "second", Response: "r2"},
			{Message: "first", Response: "r1"},
		}

		a.Respond(ctx, "user-1", "third")
		turns := model.requests[0].Turns
		if len(turns) != 5 {
			t.Fatalf("expected 5 turns, got %d", len(turns))
		}
		got := []string{turns[0].Parts[0].Text, turns[1].Parts[0].Text, turns[2].Parts[0].Text, turns[4].Parts[0].Text}
		if strings.Join(got, ",") != "first,r1,second,third" {
			t.Errorf("unexpected turn order %v", got)
		}
		if turns[1].Role != llm.RoleModel {
			t.Errorf("expected model role for stored response, got %s", turns[1].Role)
		}
	})

	t.Run("request carries instruction and tool schema", func(t *testing.T) {
		model := &scriptedModel{steps: []scriptedStep{textResponse("ok")}}
		a, _ := newTestAssistant(t, model)

		a.Respond(ctx, "user-1", "hi")
		req := model.requests[0]
		if !strings.Contains(req.System, "2024-03-15") || !strings.Contains(req.System, "2000-01-01") {
			t.Errorf("system instruction missing dates: %q", req.System)
		}
		if len(req.Tools) != 5 || req.Tools[0].Name != ToolExchangeRate {
			t.Errorf("unexpected tools %+v", req.Tools)
		}
	})
}
