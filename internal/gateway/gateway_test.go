package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tripwise/gateway/internal/artifact"
	"github.com/tripwise/gateway/internal/capability"
	"github.com/tripwise/gateway/internal/config"
	"github.com/tripwise/gateway/internal/domain"
	"github.com/tripwise/gateway/internal/reasoning"
	"github.com/tripwise/gateway/internal/router"
	"github.com/tripwise/gateway/internal/store"
	"github.com/tripwise/gateway/internal/synthesizer"
	"github.com/tripwise/gateway/policy"
	"github.com/tripwise/gateway/tests/helpers"
)

func newTestConfig() *config.Config {
	return &config.Config{
		ReasoningModel:      "test-model",
		HandlerTimeout:      time.Second,
		HistoryWindow:       10,
		ImageSearchTemplate: "https://www.tripadvisor.com/Search?q=%s&searchType=attractions",
		ThumbnailTemplate:   "https://www.google.com/search?tbm=isch&q=%s&tbs=isz:m",
	}
}

func newTestGateway(t *testing.T, db store.Store) *Gateway {
	t.Helper()
	cfg := newTestConfig()
	client := reasoning.NewMockClient()

	registry := capability.NewRegistry()
	for _, intent := range []domain.Intent{
		domain.IntentWeather,
		domain.IntentTouristSpots,
		domain.IntentRestaurant,
		domain.IntentBlog,
		domain.IntentPhotoStory,
		domain.IntentGeneral,
	} {
		registry.Register(capability.NewReasoningHandler(intent, client, cfg.ReasoningModel))
	}
	registry.Register(capability.NewTimeHandler())
	registry.Register(capability.NewWalkingRoutesHandler())
	registry.Register(capability.NewImageSearchHandler())

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	rt := router.New(router.NewRuleClassifier(), registry, engine, cfg.HandlerTimeout)
	synth := synthesizer.New(cfg.HistoryWindow)
	extractor := artifact.NewExtractor(cfg.ImageSearchTemplate, cfg.ThumbnailTemplate)

	return New(db, synth, rt, extractor, client, cfg)
}

func startTestSession(t *testing.T, gw *Gateway) *domain.Session {
	t.Helper()
	session, err := gw.StartSession(context.Background(), "traveler-1")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	return session
}

func TestStartSessionValidation(t *testing.T) {
	gw := newTestGateway(t, store.NewMemoryStore())

	if _, err := gw.StartSession(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	session := startTestSession(t, gw)
	if session.SessionID == "" || session.OwnerID != "traveler-1" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestSendMessageWeather(t *testing.T) {
	gw := newTestGateway(t, store.NewMemoryStore())
	session := startTestSession(t, gw)

	envelope, err := gw.SendMessage(context.Background(), session.SessionID, session.OwnerID, "What's the weather in Paris?", nil)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("expected success, got %+v", envelope)
	}
	if envelope.Intent != domain.IntentWeather {
		t.Fatalf("expected weather intent, got %s", envelope.Intent)
	}
	if !strings.Contains(envelope.Text, "°C") || !strings.Contains(envelope.Text, "Paris") {
		t.Fatalf("unexpected response text: %q", envelope.Text)
	}
	if len(envelope.Artifacts) != 0 {
		t.Fatalf("weather response must carry no artifacts: %+v", envelope.Artifacts)
	}

	turns, err := gw.Turns(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("Turns failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected a user/assistant turn pair, got %d turns", len(turns))
	}
	if turns[0].Role != domain.RoleUser || turns[1].Role != domain.RoleAssistant {
		t.Fatalf("unexpected turn roles: %+v", turns)
	}
}

func TestSendMessageTouristSpotsProducesArtifacts(t *testing.T) {
	gw := newTestGateway(t, store.NewMemoryStore())
	session := startTestSession(t, gw)

	envelope, err := gw.SendMessage(context.Background(), session.SessionID, session.OwnerID, "Top tourist attractions in Rome", nil)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if envelope.Intent != domain.IntentTouristSpots {
		t.Fatalf("expected tourist_spots intent, got %s", envelope.Intent)
	}
	if len(envelope.Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(envelope.Artifacts))
	}
	if strings.Contains(envelope.Text, "[IMAGE:") {
		t.Fatalf("markers survived extraction: %q", envelope.Text)
	}
	for _, a := range envelope.Artifacts {
		if a.Label == "" || a.LocationHint != "Rome" {
			t.Fatalf("unexpected artifact: %+v", a)
		}
		if !strings.Contains(a.PrimaryURL, "tripadvisor.com") || !strings.Contains(a.ThumbnailURL, "tbm=isch") {
			t.Fatalf("unexpected artifact urls: %+v", a)
		}
	}
}

func TestSendMessageContextCarryOver(t *testing.T) {
	gw := newTestGateway(t, store.NewMemoryStore())
	session := startTestSession(t, gw)
	ctx := context.Background()

	if _, err := gw.SendMessage(ctx, session.SessionID, session.OwnerID, "Top tourist attractions in Rome", nil); err != nil {
		t.Fatalf("first SendMessage failed: %v", err)
	}

	envelope, err := gw.SendMessage(ctx, session.SessionID, session.OwnerID, "Plan a walking route between those", nil)
	if err != nil {
		t.Fatalf("second SendMessage failed: %v", err)
	}
	if envelope.Intent != domain.IntentWalkingRoute {
		t.Fatalf("expected walking_route intent, got %s", envelope.Intent)
	}
	// The referents come from the previous turn's artifact labels.
	if !strings.Contains(envelope.Text, "Grand Museum to Old Town Square") {
		t.Fatalf("prior-turn referents not resolved: %q", envelope.Text)
	}
	if !strings.Contains(envelope.Text, "/data=!4m2!4m1!3e2") {
		t.Fatalf("walking directions url missing: %q", envelope.Text)
	}
}

func TestSendMessageTopicChangeAfterArtifacts(t *testing.T) {
	gw := newTestGateway(t, store.NewMemoryStore())
	session := startTestSession(t, gw)
	ctx := context.Background()

	if _, err := gw.SendMessage(ctx, session.SessionID, session.OwnerID, "What are the top attractions in Paris?", nil); err != nil {
		t.Fatalf("first SendMessage failed: %v", err)
	}

	// A fresh question with a dummy "it" must not inherit the previous
	// turn's attraction names.
	envelope, err := gw.SendMessage(ctx, session.SessionID, session.OwnerID, "What time is it in Tokyo?", nil)
	if err != nil {
		t.Fatalf("second SendMessage failed: %v", err)
	}
	if envelope.Intent != domain.IntentTime {
		t.Fatalf("expected time intent, got %s", envelope.Intent)
	}
	if !strings.Contains(envelope.Text, "Current time in Tokyo") {
		t.Fatalf("prior-turn entities leaked into the prompt: %q", envelope.Text)
	}
}

func TestSendMessageImageRelevance(t *testing.T) {
	gw := newTestGateway(t, store.NewMemoryStore())
	session := startTestSession(t, gw)
	ctx := context.Background()
	image := []byte{0xFF, 0xD8, 0xFF}

	// Unrelated text: the image must not hijack the route.
	envelope, err := gw.SendMessage(ctx, session.SessionID, session.OwnerID, "Any good restaurants in Rome?", image)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if envelope.Intent != domain.IntentRestaurant {
		t.Fatalf("expected restaurant intent, got %s", envelope.Intent)
	}

	// Text about the image routes to the photo story handler.
	envelope, err = gw.SendMessage(ctx, session.SessionID, session.OwnerID, "What is this place?", image)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if envelope.Intent != domain.IntentPhotoStory {
		t.Fatalf("expected photo_story intent, got %s", envelope.Intent)
	}
	if !strings.Contains(envelope.Text, "landmark") {
		t.Fatalf("unexpected photo story: %q", envelope.Text)
	}
}

func TestSendMessageWalkingRouteClarification(t *testing.T) {
	gw := newTestGateway(t, store.NewMemoryStore())
	session := startTestSession(t, gw)

	envelope, err := gw.SendMessage(context.Background(), session.SessionID, session.OwnerID, "Give me a walking route", nil)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("clarification must be a success envelope: %+v", envelope)
	}
	if !strings.Contains(envelope.Text, "at least 2 locations") {
		t.Fatalf("expected clarification, got %q", envelope.Text)
	}

	turns, err := gw.Turns(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("Turns failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("clarification must still record the turn pair, got %d", len(turns))
	}
}

func TestSendMessageUnknownSession(t *testing.T) {
	db := store.NewMemoryStore()
	gw := newTestGateway(t, db)

	_, err := gw.SendMessage(context.Background(), "sess_missing", "traveler-1", "hello", nil)
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	// The failed call must not create state.
	if _, err := db.Turns(context.Background(), "sess_missing", 0); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("unknown session gained state: %v", err)
	}
}

func TestSendMessageValidation(t *testing.T) {
	gw := newTestGateway(t, store.NewMemoryStore())
	session := startTestSession(t, gw)

	if _, err := gw.SendMessage(context.Background(), session.SessionID, session.OwnerID, "", nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty message, got %v", err)
	}
}

func TestSendMessageOwnerMismatch(t *testing.T) {
	gw := newTestGateway(t, store.NewMemoryStore())
	session := startTestSession(t, gw)

	_, err := gw.SendMessage(context.Background(), session.SessionID, "someone-else", "hello", nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for owner mismatch, got %v", err)
	}

	// The rejected call must not record a turn.
	turns, err := gw.Turns(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("Turns failed: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("rejected message recorded turns: %+v", turns)
	}
}

func TestSendMessageDegradedPathRecordsApology(t *testing.T) {
	// An empty registry makes every dispatch degrade.
	cfg := newTestConfig()
	client := reasoning.NewMockClient()
	rt := router.New(router.NewRuleClassifier(), capability.NewRegistry(), nil, cfg.HandlerTimeout)
	gw := New(store.NewMemoryStore(), synthesizer.New(cfg.HistoryWindow), rt,
		artifact.NewExtractor(cfg.ImageSearchTemplate, cfg.ThumbnailTemplate), client, cfg)

	session := startTestSession(t, gw)
	envelope, err := gw.SendMessage(context.Background(), session.SessionID, session.OwnerID, "hello", nil)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if envelope.Success {
		t.Fatalf("expected a degraded envelope: %+v", envelope)
	}
	if envelope.Text == "" {
		t.Fatalf("degraded envelope must carry apology text")
	}

	turns, err := gw.Turns(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("Turns failed: %v", err)
	}
	if len(turns) != 2 || turns[1].Content != envelope.Text {
		t.Fatalf("apology turn not recorded: %+v", turns)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	gw := newTestGateway(t, store.NewMemoryStore())
	ctx := context.Background()

	s1 := startTestSession(t, gw)
	s2 := startTestSession(t, gw)

	if _, err := gw.SendMessage(ctx, s1.SessionID, s1.OwnerID, "What's the weather in Paris?", nil); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	turns, err := gw.Turns(ctx, s2.SessionID)
	if err != nil {
		t.Fatalf("Turns failed: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("session state leaked across sessions: %+v", turns)
	}
}

func TestConcurrentSessionsKeepTurnPairs(t *testing.T) {
	gw := newTestGateway(t, store.NewMemoryStore())
	ctx := context.Background()

	const sessions = 3
	const messages = 5

	ids := make([]string, sessions)
	for i := range ids {
		ids[i] = startTestSession(t, gw).SessionID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for m := 0; m < messages; m++ {
			wg.Add(1)
			go func(sessionID string, n int) {
				defer wg.Done()
				msg := fmt.Sprintf("What's the weather in Paris? (%d)", n)
				if _, err := gw.SendMessage(ctx, sessionID, "traveler-1", msg, nil); err != nil {
					t.Errorf("SendMessage failed: %v", err)
				}
			}(id, m)
		}
	}
	wg.Wait()

	for _, id := range ids {
		turns, err := gw.Turns(ctx, id)
		if err != nil {
			t.Fatalf("Turns failed: %v", err)
		}
		if len(turns) != messages*2 {
			t.Fatalf("session %s: expected %d turns, got %d", id, messages*2, len(turns))
		}
		// Serialized turns alternate user/assistant.
		for i, turn := range turns {
			want := domain.RoleUser
			if i%2 == 1 {
				want = domain.RoleAssistant
			}
			if turn.Role != want {
				t.Fatalf("session %s: turn %d has role %s, want %s", id, i, turn.Role, want)
			}
		}
	}
}

func TestGatewayWithSQLiteStore(t *testing.T) {
	db := helpers.NewTestSQLiteStore(t)
	gw := newTestGateway(t, db)
	session := startTestSession(t, gw)

	envelope, err := gw.SendMessage(context.Background(), session.SessionID, session.OwnerID, "Top tourist attractions in Rome", nil)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("expected success: %+v", envelope)
	}

	turns, err := gw.Turns(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("Turns failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if len(turns[1].Artifacts) != 2 {
		t.Fatalf("artifacts not persisted: %+v", turns[1])
	}
}

func TestHealth(t *testing.T) {
	gw := newTestGateway(t, store.NewMemoryStore())

	status, dependency := gw.Health(context.Background())
	if status != "healthy" || dependency != "online" {
		t.Fatalf("unexpected health: %s, %s", status, dependency)
	}
}
