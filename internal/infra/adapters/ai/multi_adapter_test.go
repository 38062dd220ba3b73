//go:build !integration

package ai_test

import (
	"context"
	"testing"

	"tripreel/internal/domain/ports/adapter"
	ai "tripreel/internal/infra/adapters/ai"
)

type stubAI struct {
	name  string
	calls int
}

func (s *stubAI) ListModels(ctx context.Context) ([]string, error) {
	return []string{s.name + "-model"}, nil
}

func (s *stubAI) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{Name: model}, nil
}

func (s *stubAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	s.calls++
	return 1, nil
}

func (s *stubAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	s.calls++
	return "ok from " + s.name, nil
}

func (s *stubAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	s.calls++
	return "ok from " + s.name, adapter.Usage{PromptTokens: 1, CompletionTokens: 1}, nil
}

func TestMultiAIAdapter_Routing(t *testing.T) {
	ctx := context.Background()

	newMux := func(open, gem *stubAI) *ai.MultiAIAdapter {
		return ai.NewMultiAIAdapter(
			"openai",
			map[string]adapter.AIServiceAdapter{"openai": open, "gemini": gem},
			map[string]string{"travel-planner-x": "gemini"},
		)
	}

	t.Run("should honor the explicit model map first", func(t *testing.T) {
		open, gem := &stubAI{name: "openai"}, &stubAI{name: "gemini"}
		if _, err := newMux(open, gem).CountTokens(ctx, "travel-planner-x", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gem.calls != 1 || open.calls != 0 {
			t.Errorf("expected the mapped provider, got openai:%d gemini:%d", open.calls, gem.calls)
		}
	})

	t.Run("should route by model-name prefix", func(t *testing.T) {
		open, gem := &stubAI{name: "openai"}, &stubAI{name: "gemini"}
		m := newMux(open, gem)

		if _, _, err := m.ChatWithUsage(ctx, "gpt-4o-mini", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if open.calls != 1 || gem.calls != 0 {
			t.Errorf("expected gpt-* on openai, got openai:%d gemini:%d", open.calls, gem.calls)
		}
		if _, _, err := m.ChatWithUsage(ctx, "gemini-2.0-flash", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gem.calls != 1 {
			t.Errorf("expected gemini-* on gemini, got %d calls", gem.calls)
		}
	})

	t.Run("should fall back to the default provider for unknown models", func(t *testing.T) {
		open, gem := &stubAI{name: "openai"}, &stubAI{name: "gemini"}
		if _, err := newMux(open, gem).Chat(ctx, "unknown-model", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if open.calls != 1 || gem.calls != 0 {
			t.Errorf("expected the default provider, got openai:%d gemini:%d", open.calls, gem.calls)
		}
	})

	t.Run("should report an error when no provider is configured", func(t *testing.T) {
		m := ai.NewMultiAIAdapter("openai", map[string]adapter.AIServiceAdapter{}, nil)
		if _, err := m.Chat(ctx, "gpt-4o-mini", nil); err == nil {
			t.Fatalf("expected a routing error, got a silent empty reply")
		}
	})

	t.Run("should union model lists without duplicates", func(t *testing.T) {
		open, gem := &stubAI{name: "openai"}, &stubAI{name: "gemini"}
		models, err := newMux(open, gem).ListModels(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		seen := map[string]int{}
		for _, name := range models {
			seen[name]++
		}
		for _, want := range []string{"travel-planner-x", "openai-model", "gemini-model"} {
			if seen[want] != 1 {
				t.Errorf("expected %q exactly once, got %d", want, seen[want])
			}
		}
	})
}

type blockingAI struct {
	stubAI
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.stubAI.Chat(ctx, model, messages)
}

func TestLimitedAI(t *testing.T) {
	t.Run("should refuse to wait on a cancelled context", func(t *testing.T) {
		inner := &blockingAI{
			stubAI:  stubAI{name: "openai"},
			entered: make(chan struct{}),
			release: make(chan struct{}),
		}
		limited := ai.NewLimitedAI(inner, 1)

		go func() {
			_, _ = limited.Chat(context.Background(), "gpt-4o-mini", nil)
		}()
		<-inner.entered // the only slot is now held

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := limited.Chat(ctx, "gpt-4o-mini", nil); err == nil {
			t.Errorf("expected the cancelled caller to give up, got a reply")
		}
		close(inner.release)
	})

	t.Run("should pass through when the limit is disabled", func(t *testing.T) {
		inner := &stubAI{name: "openai"}
		if got := ai.NewLimitedAI(inner, 0); got != adapter.AIServiceAdapter(inner) {
			t.Errorf("expected the inner adapter unwrapped")
		}
	})
}
