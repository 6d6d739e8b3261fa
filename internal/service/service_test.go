package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/mintsense/internal/middleware"
	"github.com/mmynk/mintsense/internal/models"
	"github.com/mmynk/mintsense/internal/storage/sqlite"
	"github.com/mmynk/mintsense/pkg/api"
	"github.com/mmynk/mintsense/pkg/api/apiconnect"
)

const testMaxParticipants = 4

// testEnv bundles clients for every service backed by one temp database.
type testEnv struct {
	groups   *apiconnect.GroupServiceClient
	expenses *apiconnect.ExpenseServiceClient
	balances *apiconnect.BalanceServiceClient
	store    *sqlite.SQLiteStore
	owner    *models.User
}

// testAuthInterceptor returns a Connect interceptor that authenticates every
// request as userID, or as the user named in the X-Test-User header.
func testAuthInterceptor(userID string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			id := userID
			if h := req.Header().Get("X-Test-User"); h != "" {
				id = h
			}
			return next(middleware.WithUser(ctx, id, ""), req)
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestServer creates a test server with a temp SQLite database and a
// registered owner that every request is authenticated as.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	owner := models.NewUser("owner@example.com", "Olivia", "hash")
	if err := store.CreateUser(context.Background(), owner); err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}

	logger := discardLogger()
	authInterceptor := connect.WithInterceptors(testAuthInterceptor(owner.ID))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, logger, testMaxParticipants), authInterceptor))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, logger), authInterceptor))
	mux.Handle(apiconnect.NewBalanceServiceHandler(NewBalanceService(store, logger, nil), authInterceptor))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})

	return &testEnv{
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		balances: apiconnect.NewBalanceServiceClient(http.DefaultClient, server.URL),
		store:    store,
		owner:    owner,
	}
}

// createGroup makes a group owned by the test owner with extra participants
// and returns it. The owner's participant is always first.
func (e *testEnv) createGroup(t *testing.T, names ...string) api.Group {
	t.Helper()

	inputs := make([]api.ParticipantInput, len(names))
	for i, n := range names {
		inputs[i] = api.ParticipantInput{Name: n}
	}
	resp, err := e.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:         "Test Group",
		Participants: inputs,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func (e *testEnv) addExpense(t *testing.T, groupID, payerID string, amount float64, split api.Split) api.Expense {
	t.Helper()

	resp, err := e.expenses.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{
		GroupID:     groupID,
		Description: "Expense",
		Amount:      amount,
		PayerID:     payerID,
		Split:       split,
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func equalSplit(ids ...string) api.Split {
	return api.Split{Mode: "EQUAL", ParticipantIDs: ids}
}

func ids(g api.Group) []string {
	out := make([]string, len(g.Participants))
	for i, p := range g.Participants {
		out[i] = p.ID
	}
	return out
}

// requireCode fails the test unless err is a Connect error with the given code.
func requireCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}
