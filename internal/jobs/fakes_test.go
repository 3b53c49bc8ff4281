package jobs

import (
	"context"
	"sync"
)

type fakeChatter struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	system   string
	prompt   string
}

func (f *fakeChatter) Chat(ctx context.Context, system, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.system = system
	f.prompt = prompt

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.response, f.err
}

func (f *fakeChatter) Model() string {
	return "fake-model"
}

type fakeFetcher struct {
	text string
	urls []string
}

func (f *fakeFetcher) FetchText(_ context.Context, rawURL string) string {
	f.urls = append(f.urls, rawURL)
	return f.text
}
