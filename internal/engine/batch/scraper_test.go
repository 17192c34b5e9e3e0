package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/law-makers/scraper/pkg/models"
)

type mockScraper struct {
	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	mu    sync.Mutex
	order []string
}

func (m *mockScraper) Scrape(ctx context.Context, req *models.ScrapeRequest) *models.ScrapeResponse {
	m.mu.Lock()
	m.order = append(m.order, req.URL)
	m.mu.Unlock()

	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	// Earlier URLs take longer so completion order differs from input order.
	var idx int
	fmt.Sscanf(req.URL[strings.LastIndex(req.URL, "/")+1:], "%d", &idx)
	time.Sleep(time.Duration(20-idx) * time.Millisecond)

	switch {
	case strings.Contains(req.URL, "unreachable"):
		return models.NewFailedResponse(req, errors.New("dial tcp: connection refused"), time.Millisecond)
	case strings.Contains(req.URL, "panic"):
		panic("boom")
	}
	return &models.ScrapeResponse{
		URL:          req.URL,
		Success:      true,
		Data:         models.NewExtractedData(),
		StrategyUsed: models.StrategyHTTP,
	}
}

func urls(n int, bad map[int]string) []string {
	out := make([]string, n)
	for i := range out {
		host := "shop.example"
		if kind, ok := bad[i]; ok {
			host = kind + ".example"
		}
		out[i] = fmt.Sprintf("https://%s/item/%d", host, i)
	}
	return out
}

func TestScrapeMany_CountsAndOrder(t *testing.T) {
	mock := &mockScraper{}
	batch := New(mock, 3, 0)

	input := urls(10, map[int]string{1: "unreachable", 4: "unreachable", 8: "unreachable"})
	resp := batch.ScrapeMany(context.Background(), input, Options{Strategy: models.StrategyHTTP})

	if resp.TotalURLs != 10 || len(resp.Results) != 10 {
		t.Fatalf("expected 10 results, got total=%d len=%d", resp.TotalURLs, len(resp.Results))
	}
	if resp.Successful != 7 || resp.Failed != 3 {
		t.Errorf("expected 7/3, got %d/%d", resp.Successful, resp.Failed)
	}
	if resp.Successful+resp.Failed != resp.TotalURLs {
		t.Errorf("counts do not add up: %+v", resp)
	}
	for i, r := range resp.Results {
		if r == nil {
			t.Fatalf("result %d is nil", i)
		}
		if r.URL != input[i] {
			t.Errorf("result %d: got URL %s, want %s", i, r.URL, input[i])
		}
		wantSuccess := !strings.Contains(input[i], "unreachable")
		if r.Success != wantSuccess {
			t.Errorf("result %d: success=%v, want %v", i, r.Success, wantSuccess)
		}
		if !r.Success && (r.Error == "" || r.Data != nil) {
			t.Errorf("result %d: failed response must carry an error and no data: %+v", i, r)
		}
	}
}

func TestScrapeMany_RespectsConcurrencyCap(t *testing.T) {
	mock := &mockScraper{}
	batch := New(mock, 2, 0)

	batch.ScrapeMany(context.Background(), urls(8, nil), Options{})

	if got := mock.maxInFlight.Load(); got > 2 {
		t.Errorf("expected at most 2 in-flight scrapes, saw %d", got)
	}
}

func TestScrapeMany_DispatchFollowsInputOrder(t *testing.T) {
	mock := &mockScraper{}
	batch := New(mock, 1, 0)

	input := urls(5, nil)
	batch.ScrapeMany(context.Background(), input, Options{})

	for i, u := range mock.order {
		if u != input[i] {
			t.Errorf("dispatch %d: got %s, want %s", i, u, input[i])
		}
	}
}

func TestScrapeMany_PanicBecomesFailure(t *testing.T) {
	batch := New(&mockScraper{}, 4, 0)

	input := urls(4, map[int]string{2: "panic"})
	resp := batch.ScrapeMany(context.Background(), input, Options{})

	if resp.Failed != 1 || resp.Successful != 3 {
		t.Fatalf("expected 3/1, got %d/%d", resp.Successful, resp.Failed)
	}
	if r := resp.Results[2]; r.Success || !strings.Contains(r.Error, "panicked") {
		t.Errorf("expected panic failure at index 2, got %+v", r)
	}
}

func TestScrapeMany_DelayPacesDispatch(t *testing.T) {
	batch := New(&mockScraper{}, 1, 0)

	start := time.Now()
	batch.ScrapeMany(context.Background(), urls(3, nil), Options{Delay: 50 * time.Millisecond})
	elapsed := time.Since(start)

	// With one slot, the second and third dispatch each wait out a delay.
	if elapsed < 100*time.Millisecond {
		t.Errorf("expected pacing delay between tasks, finished in %s", elapsed)
	}
}

func TestScrapeMany_NoDelayOverridesDefault(t *testing.T) {
	batch := New(&mockScraper{}, 1, time.Second)

	start := time.Now()
	resp := batch.ScrapeMany(context.Background(), urls(3, nil), Options{Delay: NoDelay})
	elapsed := time.Since(start)

	if resp.Successful != 3 {
		t.Errorf("expected 3 successes, got %d", resp.Successful)
	}
	if elapsed >= time.Second {
		t.Errorf("expected no pacing with NoDelay, took %s", elapsed)
	}
}

func TestScrapeMany_OnResultAndCancelledContext(t *testing.T) {
	var calls atomic.Int32
	batch := New(&mockScraper{}, 1, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := batch.ScrapeMany(ctx, urls(3, nil), Options{
		OnResult: func(int, *models.ScrapeResponse) { calls.Add(1) },
	})

	if int(calls.Load()) != 3 {
		t.Errorf("expected OnResult for every URL, got %d", calls.Load())
	}
	if len(resp.Results) != 3 || resp.Successful+resp.Failed != 3 {
		t.Errorf("expected every position populated, got %+v", resp)
	}
}

func TestScrapeMany_Empty(t *testing.T) {
	resp := New(&mockScraper{}, 2, 0).ScrapeMany(context.Background(), nil, Options{})
	if resp.TotalURLs != 0 || len(resp.Results) != 0 || resp.Successful != 0 || resp.Failed != 0 {
		t.Errorf("unexpected response for empty input: %+v", resp)
	}
}
