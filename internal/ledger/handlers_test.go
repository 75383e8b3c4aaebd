package ledger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack-backend/internal/domain"
	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/snapshot"
	"fintrack-backend/internal/state"
	"fintrack-backend/internal/store"
	"fintrack-backend/internal/syncsched"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLedgerApp(t *testing.T) (*fiber.App, *store.Cache) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	cache := &store.Cache{Rdb: rdb}
	gateway := store.NewGateway(nil, cache)
	sched := syncsched.New(gateway, 10*time.Millisecond)
	t.Cleanup(sched.Close)
	snapshots := &snapshot.Service{Gateway: gateway, State: state.NewManager(), Sched: sched}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &domain.User{ID: "u1", Username: "Amy"})
		return c.Next()
	})
	h := &Handlers{Snapshots: snapshots}
	app.Post("/api/v1/transactions/record", h.Record)
	app.Post("/api/v1/accounts/", h.CreateAccount)
	app.Delete("/api/v1/accounts/:id", h.RemoveAccount)
	return app, cache
}

func recordReq(body string) *http.Request {
	req := httptest.NewRequest("POST", "/api/v1/transactions/record", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRecord_AdjustsBalanceAndPrepends(t *testing.T) {
	app, _ := setupLedgerApp(t)

	resp, err := app.Test(recordReq(`{"accountId":"a1","date":"2024-04-01","amount":50000,"type":"income","category":"薪資","note":"四月薪水"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	data := out["data"].(map[string]interface{})

	accounts := data["accounts"].([]interface{})
	first := accounts[0].(map[string]interface{})
	require.Equal(t, "a1", first["id"])
	assert.Equal(t, "200000", first["balance"])

	transactions := data["transactions"].([]interface{})
	require.Len(t, transactions, 5, "new transaction is prepended to the seeded four")
	newest := transactions[0].(map[string]interface{})
	assert.Equal(t, "2024-04-01", newest["date"])
	assert.NotEmpty(t, newest["id"])
	assert.Equal(t, "u1", newest["userId"])
}

func TestRecordHandler_RejectsNonPositiveAmount(t *testing.T) {
	app, _ := setupLedgerApp(t)

	resp, err := app.Test(recordReq(`{"accountId":"a1","amount":0,"type":"expense","category":"飲食"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecordHandler_RejectsUnknownAccount(t *testing.T) {
	app, _ := setupLedgerApp(t)

	resp, err := app.Test(recordReq(`{"accountId":"nope","amount":100,"type":"expense","category":"飲食"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecord_RejectsUnknownType(t *testing.T) {
	app, _ := setupLedgerApp(t)

	resp, err := app.Test(recordReq(`{"accountId":"a1","amount":100,"type":"transfer","category":"其他"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecord_DefaultsDateToToday(t *testing.T) {
	app, _ := setupLedgerApp(t)

	resp, err := app.Test(recordReq(`{"accountId":"a2","amount":80,"type":"expense","category":"飲食"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	tx := out["data"].(map[string]interface{})["transaction"].(map[string]interface{})
	assert.Equal(t, time.Now().Format("2006-01-02"), tx["date"])
}

func TestRecord_PersistsToCacheAfterQuietPeriod(t *testing.T) {
	app, cache := setupLedgerApp(t)

	resp, err := app.Test(recordReq(`{"accountId":"a1","date":"2024-04-01","amount":2500,"type":"expense","category":"購物","note":"鞋子"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.Eventually(t, func() bool {
		snap, err := cache.GetSnapshot(context.Background(), "u1")
		if err != nil {
			return false
		}
		return len(snap.Transactions) == 5
	}, time.Second, 10*time.Millisecond, "debounced save lands in the cache")
}

func TestCreateAccount_ThenRecordAgainstIt(t *testing.T) {
	app, _ := setupLedgerApp(t)

	req := httptest.NewRequest("POST", "/api/v1/accounts/", strings.NewReader(`{"name":"旅遊基金","type":"cash","balance":20000}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	data := out["data"].(map[string]interface{})
	acct := data["account"].(map[string]interface{})
	assert.Equal(t, "旅遊基金", acct["name"])
	assert.Equal(t, "TWD", acct["currency"], "currency defaults to TWD")
	require.Len(t, data["accounts"].([]interface{}), 4)

	id := acct["id"].(string)
	resp2, err := app.Test(recordReq(`{"accountId":"` + id + `","amount":5000,"type":"expense","category":"娛樂"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp2.StatusCode)

	b2, err := io.ReadAll(resp2.Body)
	require.NoError(t, err)
	var out2 map[string]interface{}
	require.NoError(t, json.Unmarshal(b2, &out2))
	accounts := out2["data"].(map[string]interface{})["accounts"].([]interface{})
	last := accounts[3].(map[string]interface{})
	require.Equal(t, id, last["id"])
	assert.Equal(t, "15000", last["balance"])
}

func TestCreateAccount_NameRequired(t *testing.T) {
	app, _ := setupLedgerApp(t)

	req := httptest.NewRequest("POST", "/api/v1/accounts/", strings.NewReader(`{"type":"bank"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRemoveAccount_KeepsTransactions(t *testing.T) {
	app, _ := setupLedgerApp(t)

	// a2 carries two seeded transactions (t2, t3).
	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/accounts/a2", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	data := out["data"].(map[string]interface{})
	require.Len(t, data["accounts"].([]interface{}), 2)
	assert.Len(t, data["transactions"].([]interface{}), 4, "history survives the account")
}

func TestRemoveAccount_Unknown(t *testing.T) {
	app, _ := setupLedgerApp(t)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/accounts/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
