package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mmynk/wesplit/internal/models"
)

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, time.Minute), mr
}

func TestBalanceCache(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	alice := models.Participant{ID: "p1", Name: "Alice"}
	balance := models.Balance{
		ParticipantsBalance: []models.ParticipantBalance{
			{Participant: alice, Amounts: []models.Amount{models.NewAmount(12.34, "EUR")}},
		},
		Undistributed: []models.Amount{models.NewAmount(12.34, "EUR")},
	}

	if _, ok, err := c.Balance(ctx, "g1", 3); ok || err != nil {
		t.Fatalf("Balance on empty cache = %v, %v; want miss", ok, err)
	}

	if err := c.SetBalance(ctx, "g1", 3, balance); err != nil {
		t.Fatalf("SetBalance failed: %v", err)
	}

	got, ok, err := c.Balance(ctx, "g1", 3)
	if err != nil || !ok {
		t.Fatalf("Balance = %v, %v; want hit", ok, err)
	}
	pb, found := got.Of(alice)
	if !found || !pb.Amounts[0].Equal(models.NewAmount(12.34, "EUR")) {
		t.Errorf("cached balance = %+v", got)
	}

	if _, ok, _ := c.Balance(ctx, "g1", 4); ok {
		t.Error("a newer revision must not hit the old entry")
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.Balance(ctx, "g1", 3); ok {
		t.Error("entry should expire after the ttl")
	}
}

func TestFxRatesCache(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	rates := models.FxRates{Base: "USD", Rates: map[string]float64{"EUR": 0.92}, UpdatedAt: time.Unix(1_700_000_000, 0).UTC()}
	if err := c.SetFxRates(ctx, rates); err != nil {
		t.Fatalf("SetFxRates failed: %v", err)
	}

	got, ok, err := c.FxRates(ctx)
	if err != nil || !ok {
		t.Fatalf("FxRates = %v, %v; want hit", ok, err)
	}
	if got.Base != "USD" || got.Rates["EUR"] != 0.92 || !got.UpdatedAt.Equal(rates.UpdatedAt) {
		t.Errorf("cached rates = %+v", got)
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if err := c.SetBalance(ctx, "g1", 1, models.Balance{}); err != nil {
		t.Errorf("SetBalance on nil cache: %v", err)
	}
	if _, ok, err := c.Balance(ctx, "g1", 1); ok || err != nil {
		t.Errorf("Balance on nil cache = %v, %v", ok, err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on nil cache: %v", err)
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	client.Close()

	if _, err := Connect(context.Background(), "not a url"); err == nil {
		t.Error("expected an error for an invalid url")
	}
}
