package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/mmynk/wesplit/internal/auth"
	"github.com/mmynk/wesplit/internal/cache"
	"github.com/mmynk/wesplit/internal/fx"
	"github.com/mmynk/wesplit/internal/middleware"
	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/internal/storage/sqlstore"
	"github.com/mmynk/wesplit/pkg/api"
)

var (
	alice = models.User{ID: "user-alice", Name: "Alice", Email: "alice@example.com"}
	bob   = models.User{ID: "user-bob", Name: "Bob"}
	eve   = models.User{ID: "user-eve", Name: "Eve"}
)

// testServer runs every service behind the real auth interceptor.
type testServer struct {
	url   string
	store *sqlstore.SQLStore
	jwt   *auth.JWTManager
}

// testClient calls the services as one user.
type testClient struct {
	user     models.User
	groups   *api.GroupServiceClient
	expenses *api.ExpenseServiceClient
	balances *api.BalanceServiceClient
	currency *api.CurrencyServiceClient
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	store, err := sqlstore.New(tmpFile.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	mr := miniredis.RunT(t)
	balanceCache := cache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	t.Cleanup(func() { balanceCache.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rates := fx.NewProvider(store, balanceCache, logger)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	opts := connect.WithInterceptors(middleware.RequireAuth(jwtManager, api.PublicProcedures...))
	mux := http.NewServeMux()
	mux.Handle(api.NewGroupServiceHandler(NewGroupService(store, logger), opts))
	mux.Handle(api.NewExpenseServiceHandler(NewExpenseService(store, logger), opts))
	mux.Handle(api.NewBalanceServiceHandler(NewBalanceService(store, balanceCache, rates, logger), opts))
	mux.Handle(api.NewCurrencyServiceHandler(NewCurrencyService(store, rates, logger), opts))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{url: server.URL, store: store, jwt: jwtManager}
}

// bearer attaches a token to every outgoing request.
func bearer(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token != "" {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

// as returns clients authenticated as user. The zero user is anonymous.
func (s *testServer) as(t *testing.T, user models.User) *testClient {
	t.Helper()

	token := ""
	if user.ID != "" {
		var err error
		if token, err = s.jwt.Generate(user); err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
	}

	opts := connect.WithInterceptors(bearer(token))
	return &testClient{
		user:     user,
		groups:   api.NewGroupServiceClient(http.DefaultClient, s.url, opts),
		expenses: api.NewExpenseServiceClient(http.DefaultClient, s.url, opts),
		balances: api.NewBalanceServiceClient(http.DefaultClient, s.url, opts),
		currency: api.NewCurrencyServiceClient(http.DefaultClient, s.url, opts),
	}
}

// createGroup creates a group of the caller plus the given members.
func (c *testClient) createGroup(t *testing.T, members ...models.Participant) models.Group {
	t.Helper()

	participants := append([]models.Participant{{Name: c.user.Name, IsMe: true}}, members...)
	resp, err := c.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Title:        "Trip",
		Participants: participants,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

// createExpense adds an expense split equally between everyone in the group.
func (c *testClient) createExpense(t *testing.T, group models.Group, payer string, total float64, currency string) models.Expense {
	t.Helper()

	resp, err := c.expenses.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{
		GroupID: group.ID,
		Expense: api.ExpenseInput{
			Title:   "Dinner",
			PayerID: named(t, group, payer).ID,
			Total:   models.NewAmount(total, currency),
		},
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func named(t *testing.T, group models.Group, name string) models.Participant {
	t.Helper()
	for _, p := range group.Participants {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("no participant named %s in %v", name, group.Participants)
	return models.Participant{}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}

func assertAmount(t *testing.T, what string, got models.Amount, want string, currency string) {
	t.Helper()
	if !got.Equal(models.Amount{Value: dec(want), CurrencyCode: currency}) {
		t.Errorf("%s: expected %s %s, got %s", what, want, currency, got)
	}
}

func TestUnauthenticated(t *testing.T) {
	server := setupTestServer(t)
	anonymous := server.as(t, models.User{})

	_, err := anonymous.groups.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{invalidf("title required"), connect.CodeInvalidArgument},
		{errNotMember, connect.CodePermissionDenied},
		{io.EOF, connect.CodeInternal},
	}
	for _, tt := range tests {
		if got := codeOf(tt.err); got != tt.want {
			t.Errorf("codeOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
