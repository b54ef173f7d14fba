package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/somnuslabs/somnus/internal/auralink"
	"github.com/somnuslabs/somnus/internal/coach"
	"github.com/somnuslabs/somnus/internal/config"
	"github.com/somnuslabs/somnus/internal/conversation"
	"github.com/somnuslabs/somnus/internal/observability"
	"github.com/somnuslabs/somnus/internal/points"
	"github.com/somnuslabs/somnus/internal/sleep"
	"github.com/somnuslabs/somnus/internal/users"
)

var metricsSeq atomic.Int64

type stubGenerator struct {
	reply string
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	return g.reply, nil
}

func newTestServer(t *testing.T, cfg config.Config, reply string) (*httptest.Server, sleep.Store) {
	t.Helper()

	metrics := observability.NewMetrics(fmt.Sprintf("test_httpapi_%d", metricsSeq.Add(1)))
	summaries := sleep.NewInMemoryStore()
	gen := &stubGenerator{reply: reply}

	srv := New(
		cfg,
		coach.NewReportService(summaries, gen, metrics),
		coach.NewChatService(conversation.NewStore(0), gen, metrics),
		summaries,
		points.NewService(points.NewInMemoryStore(), summaries),
		users.NewInMemoryStore(),
		auralink.NewService(""),
		metrics,
	)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, summaries
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	return res
}

func decodeBody(t *testing.T, res *http.Response, out any) {
	t.Helper()
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthAndReady(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{}, "ok")

	for _, path := range []string{"/healthz", "/readyz"} {
		res, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d, want %d", path, res.StatusCode, http.StatusOK)
		}
	}
}

func TestSummaryLifecycle(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{}, "ok")

	res := postJSON(t, ts.URL+"/v1/sleep/summaries", map[string]any{
		"user_id":             "u1",
		"date":                "2024-05-01",
		"total_sleep_minutes": 450,
		"deep_sleep_minutes":  110,
		"rem_sleep_minutes":   95,
		"sleep_score":         85,
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create summary status = %d, want %d", res.StatusCode, http.StatusCreated)
	}
	var created sleep.Summary
	decodeBody(t, res, &created)
	if created.ID == "" {
		t.Fatalf("created summary has no id: %+v", created)
	}

	getRes, err := http.Get(ts.URL + "/v1/sleep/summaries?user_id=u1&date=2024-05-01")
	if err != nil {
		t.Fatalf("get summary error = %v", err)
	}
	if getRes.StatusCode != http.StatusOK {
		t.Fatalf("get summary status = %d, want %d", getRes.StatusCode, http.StatusOK)
	}
	var fetched sleep.Summary
	decodeBody(t, getRes, &fetched)
	if fetched.Score != 85 || fetched.DeepSleepMins != 110 {
		t.Fatalf("unexpected summary: %+v", fetched)
	}

	missRes, err := http.Get(ts.URL + "/v1/sleep/summaries?user_id=u1&date=2024-05-02")
	if err != nil {
		t.Fatalf("get missing summary error = %v", err)
	}
	missRes.Body.Close()
	if missRes.StatusCode != http.StatusNotFound {
		t.Fatalf("missing summary status = %d, want %d", missRes.StatusCode, http.StatusNotFound)
	}
}

func TestSummaryValidation(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{}, "ok")

	cases := []map[string]any{
		{"user_id": "", "date": "2024-05-01", "sleep_score": 80},
		{"user_id": "u1", "date": "05/01/2024", "sleep_score": 80},
		{"user_id": "u1", "date": "2024-05-01", "sleep_score": 180},
		{"user_id": "u1", "date": "2024-05-01", "sleep_score": 80, "total_sleep_minutes": 100, "deep_sleep_minutes": 200},
	}
	for i, body := range cases {
		res := postJSON(t, ts.URL+"/v1/sleep/summaries", body)
		res.Body.Close()
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("case %d: status = %d, want %d", i, res.StatusCode, http.StatusBadRequest)
		}
	}
}

func TestSeedGatedByConfig(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{}, "ok")
	res := postJSON(t, ts.URL+"/v1/sleep/summaries/seed", map[string]any{})
	res.Body.Close()
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("seed status = %d, want %d when disabled", res.StatusCode, http.StatusForbidden)
	}

	tsOn, _ := newTestServer(t, config.Config{DemoSeedEnabled: true}, "ok")
	onRes := postJSON(t, tsOn.URL+"/v1/sleep/summaries/seed", map[string]any{})
	if onRes.StatusCode != http.StatusOK {
		t.Fatalf("seed status = %d, want %d when enabled", onRes.StatusCode, http.StatusOK)
	}
	var seeded map[string]any
	decodeBody(t, onRes, &seeded)
	if n, _ := seeded["seeded"].(float64); n != 5 {
		t.Fatalf("seeded = %v, want 5", seeded["seeded"])
	}
}

func TestReportEndpoint(t *testing.T) {
	ts, summaries := newTestServer(t, config.Config{}, "A narrative sleep report.")
	if _, err := summaries.Add(context.Background(), sleep.Summary{UserID: "u1", Date: "2024-05-01", Score: 85, DeepSleepMins: 110, TotalSleepMins: 450}); err != nil {
		t.Fatalf("seed summary: %v", err)
	}

	res := postJSON(t, ts.URL+"/v1/ai/report", map[string]string{"user_id": "u1", "date": "2024-05-01"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("report status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	var body textResponse
	decodeBody(t, res, &body)
	if body.Text != "A narrative sleep report." {
		t.Fatalf("report text = %q, want upstream text", body.Text)
	}

	// A date with no data still answers 200 with the default report.
	missing := postJSON(t, ts.URL+"/v1/ai/report", map[string]string{"user_id": "u1", "date": "2024-05-02"})
	if missing.StatusCode != http.StatusOK {
		t.Fatalf("report without data status = %d, want %d", missing.StatusCode, http.StatusOK)
	}
	var fallback textResponse
	decodeBody(t, missing, &fallback)
	if fallback.Text == "" || fallback.Text == "A narrative sleep report." {
		t.Fatalf("report without data should be the default report, got %q", fallback.Text)
	}

	badDate := postJSON(t, ts.URL+"/v1/ai/report", map[string]string{"user_id": "u1", "date": "yesterday"})
	badDate.Body.Close()
	if badDate.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, want %d", badDate.StatusCode, http.StatusBadRequest)
	}
}

func TestChatEndpoints(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{}, "Try a wind-down routine.")

	res := postJSON(t, ts.URL+"/v1/ai/chat", map[string]string{"user_id": "u1", "message": "I wake up at 3am"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("chat status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	var reply chatResponse
	decodeBody(t, res, &reply)
	if reply.Reply != "Try a wind-down routine." {
		t.Fatalf("chat reply = %q, want upstream text", reply.Reply)
	}

	statsRes, err := http.Get(ts.URL + "/v1/ai/chat/stats?user_id=u1")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	var stats textResponse
	decodeBody(t, statsRes, &stats)
	if !strings.Contains(stats.Text, "1 exchange") {
		t.Fatalf("stats = %q, want the exchange count in it", stats.Text)
	}

	clearRes := postJSON(t, ts.URL+"/v1/ai/chat/clear", map[string]string{"user_id": "u1"})
	if clearRes.StatusCode != http.StatusOK {
		t.Fatalf("clear status = %d, want %d", clearRes.StatusCode, http.StatusOK)
	}
	clearRes.Body.Close()

	helpRes, err := http.Get(ts.URL + "/v1/ai/help")
	if err != nil {
		t.Fatalf("help error = %v", err)
	}
	var help textResponse
	decodeBody(t, helpRes, &help)
	if help.Text == "" {
		t.Fatalf("help text is empty")
	}
}

func TestChatWebSocket(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{}, "Keep the room dark.")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ai/chat/ws?user_id=u1"
	conn, res, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	if res != nil {
		res.Body.Close()
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsChatRequest{Message: "lights on while sleeping?"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	var reply wsChatReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if reply.Reply != "Keep the room dark." {
		t.Fatalf("ws reply = %q, want upstream text", reply.Reply)
	}
}

func TestChatWebSocketRequiresUserID(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{}, "ok")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ai/chat/ws"
	_, res, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatalf("dial without user_id should fail")
	}
	if res != nil {
		res.Body.Close()
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("handshake status = %d, want %d", res.StatusCode, http.StatusBadRequest)
		}
	}
}

func TestPointsFlow(t *testing.T) {
	ts, summaries := newTestServer(t, config.Config{}, "ok")
	if _, err := summaries.Add(context.Background(), sleep.Summary{UserID: "u1", Date: "2024-05-01", Score: 85, DeepSleepMins: 90, TotalSleepMins: 450}); err != nil {
		t.Fatalf("seed summary: %v", err)
	}

	res := postJSON(t, ts.URL+"/v1/points/generate", map[string]string{"user_id": "u1", "date": "2024-05-01"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	var record points.Record
	decodeBody(t, res, &record)
	if record.Points != 35 {
		t.Fatalf("points = %d, want 35 for score 85 with 90 deep minutes", record.Points)
	}

	noData := postJSON(t, ts.URL+"/v1/points/generate", map[string]string{"user_id": "u1", "date": "2024-05-02"})
	noData.Body.Close()
	if noData.StatusCode != http.StatusNotFound {
		t.Fatalf("generate without data status = %d, want %d", noData.StatusCode, http.StatusNotFound)
	}

	totalRes, err := http.Get(ts.URL + "/v1/points/total?user_id=u1")
	if err != nil {
		t.Fatalf("total error = %v", err)
	}
	var total map[string]any
	decodeBody(t, totalRes, &total)
	if got, _ := total["total"].(float64); got != 35 {
		t.Fatalf("total = %v, want 35", total["total"])
	}

	historyRes, err := http.Get(ts.URL + "/v1/points/history?user_id=u1")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	var history map[string][]points.Record
	decodeBody(t, historyRes, &history)
	if len(history["records"]) != 1 {
		t.Fatalf("history length = %d, want 1", len(history["records"]))
	}
}

func TestUserLifecycle(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{}, "ok")

	res := postJSON(t, ts.URL+"/v1/users", map[string]string{"wallet_address": "0xabc", "username": "nora"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create user status = %d, want %d", res.StatusCode, http.StatusCreated)
	}
	var created users.User
	decodeBody(t, res, &created)
	if created.ID == "" || created.WalletAddress != "0xabc" {
		t.Fatalf("unexpected created user: %+v", created)
	}

	dup := postJSON(t, ts.URL+"/v1/users", map[string]string{"wallet_address": "0xabc"})
	dup.Body.Close()
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate wallet status = %d, want %d", dup.StatusCode, http.StatusConflict)
	}

	byWallet, err := http.Get(ts.URL + "/v1/users/wallet/0xabc")
	if err != nil {
		t.Fatalf("get by wallet error = %v", err)
	}
	var fetched users.User
	decodeBody(t, byWallet, &fetched)
	if fetched.ID != created.ID {
		t.Fatalf("get by wallet returned id %q, want %q", fetched.ID, created.ID)
	}

	updateReq, err := http.NewRequest(http.MethodPut, ts.URL+"/v1/users/"+created.ID, bytes.NewReader([]byte(`{"username":"nora-v2"}`)))
	if err != nil {
		t.Fatalf("build update request: %v", err)
	}
	updateReq.Header.Set("Content-Type", "application/json")
	updateRes, err := http.DefaultClient.Do(updateReq)
	if err != nil {
		t.Fatalf("update error = %v", err)
	}
	var updated users.User
	decodeBody(t, updateRes, &updated)
	if updated.Username != "nora-v2" {
		t.Fatalf("updated username = %q, want %q", updated.Username, "nora-v2")
	}

	missing, err := http.Get(ts.URL + "/v1/users/ghost")
	if err != nil {
		t.Fatalf("get missing user error = %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("missing user status = %d, want %d", missing.StatusCode, http.StatusNotFound)
	}
}

func TestBurnPointsBridgeDisabled(t *testing.T) {
	ts, _ := newTestServer(t, config.Config{}, "ok")

	res := postJSON(t, ts.URL+"/v1/auralink/burn", map[string]any{"wallet_address": "0xabc", "amount": 10})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("burn status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	var result auralink.BurnResult
	decodeBody(t, res, &result)
	if result.Accepted {
		t.Fatalf("burn accepted with no bridge configured")
	}

	badAmount := postJSON(t, ts.URL+"/v1/auralink/burn", map[string]any{"wallet_address": "0xabc", "amount": 0})
	badAmount.Body.Close()
	if badAmount.StatusCode != http.StatusBadRequest {
		t.Fatalf("burn with zero amount status = %d, want %d", badAmount.StatusCode, http.StatusBadRequest)
	}
}
