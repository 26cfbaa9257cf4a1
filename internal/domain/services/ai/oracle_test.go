package ai

import (
	"context"
	"errors"
	"testing"

	"honeynet-lab/pkg/logger"
)

func TestFallback_UsesFirstHealthyBackend(t *testing.T) {
	first := func(ctx context.Context, req ReplyRequest) (string, error) {
		return "hello ji", nil
	}
	second := func(ctx context.Context, req ReplyRequest) (string, error) {
		t.Fatal("second backend should not be called")
		return "", nil
	}

	oracle := Fallback(logger.NewDefault(), first, second)

	reply, err := oracle(context.Background(), ReplyRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "hello ji" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestFallback_QuotaErrorDisablesBackend(t *testing.T) {
	firstCalls := 0
	first := func(ctx context.Context, req ReplyRequest) (string, error) {
		firstCalls++
		return "", errors.New("API error 429: daily quota exceeded, check your plan")
	}
	second := func(ctx context.Context, req ReplyRequest) (string, error) {
		return "backup reply", nil
	}

	oracle := Fallback(logger.NewDefault(), first, second)

	for i := 0; i < 3; i++ {
		reply, err := oracle(context.Background(), ReplyRequest{})
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if reply != "backup reply" {
			t.Fatalf("call %d: unexpected reply: %q", i, reply)
		}
	}
	if firstCalls != 1 {
		t.Fatalf("dead backend called %d times, want 1", firstCalls)
	}
}

func TestFallback_TransientErrorRetriedNextCall(t *testing.T) {
	firstCalls := 0
	first := func(ctx context.Context, req ReplyRequest) (string, error) {
		firstCalls++
		if firstCalls == 1 {
			return "", errors.New("connection reset")
		}
		return "recovered", nil
	}
	second := func(ctx context.Context, req ReplyRequest) (string, error) {
		return "backup reply", nil
	}

	oracle := Fallback(logger.NewDefault(), first, second)

	if reply, _ := oracle(context.Background(), ReplyRequest{}); reply != "backup reply" {
		t.Fatalf("first call: unexpected reply %q", reply)
	}
	if reply, _ := oracle(context.Background(), ReplyRequest{}); reply != "recovered" {
		t.Fatalf("second call: unexpected reply %q", reply)
	}
}

func TestFallback_AllBackendsFail(t *testing.T) {
	failing := func(ctx context.Context, req ReplyRequest) (string, error) {
		return "", errors.New("boom")
	}

	oracle := Fallback(logger.NewDefault(), failing)

	if _, err := oracle(context.Background(), ReplyRequest{}); err == nil {
		t.Fatal("expected an error when every backend fails")
	}
}

func TestExtractJSON_MarkdownFences(t *testing.T) {
	raw := "```json\n{\"phoneNumbers\": [\"9876543210\"]}\n```"

	got := extractJSON(raw)
	if got != `{"phoneNumbers": ["9876543210"]}` {
		t.Fatalf("unexpected result: %q", got)
	}
}
