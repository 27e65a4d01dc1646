package fx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mmynk/wesplit/internal/cache"
	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/internal/storage"
)

type memoryStore struct {
	mu    sync.Mutex
	saved []models.FxRates
	reads int
}

func (m *memoryStore) SaveFxRates(_ context.Context, r models.FxRates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, r)
	return nil
}

func (m *memoryStore) LatestFxRates(_ context.Context) (*models.FxRates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if len(m.saved) == 0 {
		return nil, storage.ErrNotFound
	}
	r := m.saved[len(m.saved)-1]
	return &r, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.New(client, time.Hour)
}

func TestProviderReadsThroughCache(t *testing.T) {
	store := &memoryStore{}
	p := NewProvider(store, newTestCache(t), discardLogger())
	ctx := context.Background()

	if _, err := p.Rates(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Rates on empty store error = %v, want ErrNotFound", err)
	}

	store.saved = append(store.saved, models.FxRates{Base: "USD", Rates: map[string]float64{"EUR": 0.9}})
	for i := 0; i < 3; i++ {
		r, err := p.Rates(ctx)
		if err != nil {
			t.Fatalf("Rates failed: %v", err)
		}
		if r.Rates["EUR"] != 0.9 {
			t.Errorf("Rates = %+v", r)
		}
	}
	if store.reads != 2 {
		t.Errorf("store read %d times, want 2 (one miss, one fill)", store.reads)
	}
}

func TestProviderWithoutCache(t *testing.T) {
	store := &memoryStore{saved: []models.FxRates{{Base: "EUR", Rates: map[string]float64{"USD": 1.1}}}}
	p := NewProvider(store, nil, discardLogger())

	r, err := p.Rates(context.Background())
	if err != nil || r.Base != "EUR" {
		t.Fatalf("Rates = %+v, %v", r, err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      models.FxRates
		wantErr bool
		want    map[string]float64
	}{
		{
			name: "upper-cases codes and drops the base",
			in:   models.FxRates{Base: "usd", Rates: map[string]float64{"eur": 0.9, "USD": 1}},
			want: map[string]float64{"EUR": 0.9},
		},
		{
			name:    "requires a base",
			in:      models.FxRates{Rates: map[string]float64{"EUR": 0.9}},
			wantErr: true,
		},
		{
			name:    "rejects non-positive rates",
			in:      models.FxRates{Base: "USD", Rates: map[string]float64{"EUR": 0}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got.Rates) != len(tt.want) {
				t.Fatalf("Rates = %v, want %v", got.Rates, tt.want)
			}
			for code, rate := range tt.want {
				if got.Rates[code] != rate {
					t.Errorf("Rates[%s] = %v, want %v", code, got.Rates[code], rate)
				}
			}
			if got.UpdatedAt.IsZero() {
				t.Error("UpdatedAt should be stamped")
			}
		})
	}
}

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/latest":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"base_code":"USD","conversion_rates":{"EUR":0.92,"GEL":2.7},"time_last_update_unix":1700000000}`)
		case "/nobase":
			io.WriteString(w, `{"rates":{"USD":1.09}}`)
		default:
			http.Error(w, "nope", http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	rates, err := NewHTTPSource(server.URL+"/latest", nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if rates.Base != "USD" || rates.Rates["GEL"] != 2.7 {
		t.Errorf("Fetch = %+v", rates)
	}
	if !rates.UpdatedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("UpdatedAt = %v", rates.UpdatedAt)
	}

	rates, err = NewHTTPSource(server.URL+"/nobase", nil).WithBase("EUR").Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if rates.Base != "EUR" || rates.Rates["USD"] != 1.09 {
		t.Errorf("Fetch without base = %+v", rates)
	}

	if _, err := NewHTTPSource(server.URL+"/down", nil).Fetch(context.Background()); err == nil {
		t.Error("expected an error for a failing source")
	}
}

type stubSource struct {
	rates models.FxRates
	err   error
}

func (s stubSource) Fetch(context.Context) (models.FxRates, error) {
	return s.rates, s.err
}

func TestRefresher(t *testing.T) {
	store := &memoryStore{}
	provider := NewProvider(store, nil, discardLogger())

	ok := NewRefresher(stubSource{rates: models.FxRates{Base: "USD", Rates: map[string]float64{"EUR": 0.9}}}, provider, time.Hour, discardLogger())
	if !ok.Refresh(context.Background()) {
		t.Fatal("Refresh should succeed")
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d snapshots, want 1", len(store.saved))
	}

	failing := NewRefresher(stubSource{err: errors.New("boom")}, provider, time.Hour, discardLogger())
	if failing.Refresh(context.Background()) {
		t.Error("Refresh should report the failure")
	}
	if len(store.saved) != 1 {
		t.Errorf("a failed refresh must keep the previous snapshot")
	}
}

func TestRefresherStopsOnCancel(t *testing.T) {
	store := &memoryStore{}
	provider := NewProvider(store, nil, discardLogger())
	r := NewRefresher(stubSource{rates: models.FxRates{Base: "USD"}}, provider, time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after cancel")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.saved) == 0 {
		t.Error("refresher never stored a snapshot")
	}
}
