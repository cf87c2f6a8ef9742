package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/alexbotov/rgs/internal/apperr"
	"github.com/alexbotov/rgs/internal/auth"
	"github.com/alexbotov/rgs/internal/domain"
	"github.com/alexbotov/rgs/internal/ipguard"
	"github.com/alexbotov/rgs/internal/metrics"
	"github.com/alexbotov/rgs/internal/ratelimit"
	"github.com/alexbotov/rgs/internal/reward"
	"github.com/alexbotov/rgs/internal/sessionmgr"
	"github.com/alexbotov/rgs/internal/stateengine"
	"github.com/alexbotov/rgs/internal/store"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handler holds every collaborator the HTTP surface composes into responses.
type Handler struct {
	sessions       *sessionmgr.Manager
	wallets        store.WalletStore
	events         store.EventStore
	experiences    store.ExperienceStore
	fingerprints   store.FingerprintStore
	tokens         auth.TokenChecker
	limiter        *ratelimit.Limiter
	ipGuard        *ipguard.Guard
	counters       *metrics.Counters
	costPerSpin    float64
	likenessWeight float64
	log            *logrus.Entry
}

// Dependencies bundles everything New needs; avoids a 12-argument constructor.
type Dependencies struct {
	Sessions       *sessionmgr.Manager
	Wallets        store.WalletStore
	Events         store.EventStore
	Experiences    store.ExperienceStore
	Fingerprints   store.FingerprintStore
	Tokens         auth.TokenChecker
	Limiter        *ratelimit.Limiter
	IPGuard        *ipguard.Guard
	Counters       *metrics.Counters
	CostPerSpin    float64
	LikenessWeight float64
	Log            *logrus.Entry
}

func New(d Dependencies) *Handler {
	log := d.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Handler{
		sessions:       d.Sessions,
		wallets:        d.Wallets,
		events:         d.Events,
		experiences:    d.Experiences,
		fingerprints:   d.Fingerprints,
		tokens:         d.Tokens,
		limiter:        d.Limiter,
		ipGuard:        d.IPGuard,
		counters:       d.Counters,
		costPerSpin:    d.CostPerSpin,
		likenessWeight: d.LikenessWeight,
		log:            log,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.NewInvalidInput("malformed request body"))
		return
	}
	if req.PlayerProfile.BehaviorType == "" {
		writeError(w, apperr.NewInvalidInput("playerProfile.behaviorType is required"))
		return
	}

	session, err := h.sessions.CreateSession(r.Context(), sessionmgr.CreateSessionRequest{
		GameId:        req.GameId,
		PlayerProfile: req.PlayerProfile,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.counters.IncSessionsCreated()
	writeJSON(w, http.StatusCreated, CreateSessionResponse{SessionId: session.SessionId, State: session.State})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	session, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// PlayAction implements the 9-step play-action composition.
func (h *Handler) PlayAction(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req PlayActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.NewInvalidInput("malformed request body"))
		return
	}

	targetState, ok := stateengine.TargetForAction(req.Action.Type)
	if !ok {
		writeError(w, apperr.NewInvalidInput("unsupported action type"))
		return
	}

	prev, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	prevState := prev.State

	updated, err := h.sessions.TransitionSession(r.Context(), id, targetState)
	if err != nil {
		writeError(w, err)
		return
	}

	switch updated.State {
	case domain.Playing:
		h.counters.IncSessionsPlaying()
	case domain.Completed:
		h.counters.IncSessionsCompleted()
	}

	result := simulateResult(req.Action)

	payout := 0.0
	if result.Payout != nil {
		payout = result.Payout.Amount
	}
	stake := 0.0
	if req.Action.Amount != nil {
		stake = req.Action.Amount.Amount
	}
	likeness := 0.5
	if req.HumanLikeness != nil {
		likeness = *req.HumanLikeness
	}
	done := updated.State == domain.Completed
	rewardValue := reward.ComputeComponents(payout, stake, h.costPerSpin, likeness, h.likenessWeight, done).Sum()

	eventTimestamp := unixNow()
	event := domain.GameplayEvent{
		EventId:   uuid.New(),
		SessionId: id,
		Action:    req.Action.Type,
		Result:    result,
		Timestamp: &eventTimestamp,
		Reward:    &rewardValue,
	}
	if err := h.events.Insert(r.Context(), event); err != nil {
		h.log.WithError(err).Warn("failed to persist gameplay event")
	}

	prevStateJSON, _ := json.Marshal(map[string]domain.GameState{"state": prevState})
	nextStateJSON, _ := json.Marshal(map[string]domain.GameState{"state": updated.State})
	exp := domain.Experience{
		Id:        uuid.New(),
		SessionId: id,
		State:     prevStateJSON,
		Action:    mustMarshal(req.Action),
		Reward:    rewardValue,
		NextState: nextStateJSON,
		Done:      done,
		CreatedAt: &eventTimestamp,
	}
	if err := h.experiences.Insert(r.Context(), exp); err != nil {
		h.log.WithError(err).Warn("failed to persist experience")
	}

	writeJSON(w, http.StatusOK, PlayActionResponse{Session: *updated, Result: result})
}

func (h *Handler) SessionEvents(w http.ResponseWriter, r *http.Request) {
	id, err := parseSessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.sessions.GetSession(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	events, err := h.events.ListBySession(r.Context(), id)
	if err != nil {
		writeError(w, apperr.NewInternal("failed to list events", err))
		return
	}
	writeJSON(w, http.StatusOK, SessionEventsResponse{Events: events})
}

func (h *Handler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.NewInvalidInput("malformed request body"))
		return
	}
	if req.DailyLimit.Currency == "" {
		writeError(w, apperr.NewInvalidInput("dailyLimit.currency is required"))
		return
	}

	balance := domain.Money{Amount: 0, Currency: req.DailyLimit.Currency}
	if req.InitialBalance != nil {
		balance = *req.InitialBalance
	}
	wallet := domain.Wallet{
		WalletId:   domain.NewWalletId(),
		Balance:    balance,
		DailyLimit: req.DailyLimit,
		DailySpent: domain.Money{Amount: 0, Currency: req.DailyLimit.Currency},
	}
	if err := h.wallets.Create(r.Context(), wallet); err != nil {
		writeError(w, apperr.NewInternal("failed to persist wallet", err))
		return
	}
	writeJSON(w, http.StatusCreated, wallet)
}

func (h *Handler) WalletOperation(w http.ResponseWriter, r *http.Request) {
	idStr, ok := mux.Vars(r)["id"]
	if !ok {
		writeError(w, apperr.NewInvalidInput("missing wallet id"))
		return
	}
	rawID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, apperr.NewInvalidInput("malformed wallet id"))
		return
	}
	id := domain.WalletId(rawID)

	var req WalletOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.NewInvalidInput("malformed request body"))
		return
	}

	wallet, err := h.wallets.ApplyOperation(r.Context(), id, req.Operation, req.Amount)
	if err == store.ErrNotFound {
		writeError(w, apperr.NewNotFound(id))
		return
	}
	if err == store.ErrWalletLimitExceeded {
		writeError(w, apperr.NewWalletLimitExceeded())
		return
	}
	if err != nil {
		writeError(w, apperr.NewInternal("failed to apply wallet operation", err))
		return
	}
	writeJSON(w, http.StatusOK, WalletOperationResponse{Wallet: *wallet})
}

func (h *Handler) GetFingerprint(w http.ResponseWriter, r *http.Request) {
	idStr, ok := mux.Vars(r)["id"]
	if !ok {
		writeError(w, apperr.NewInvalidInput("missing game id"))
		return
	}
	gameID, err := domain.ParseGameId(idStr)
	if err != nil {
		writeError(w, apperr.NewInvalidInput("malformed game id"))
		return
	}

	fp, err := h.fingerprints.Get(r.Context(), gameID)
	if err == store.ErrNotFound {
		writeError(w, apperr.NewNotFound(gameID))
		return
	}
	if err != nil {
		writeError(w, apperr.NewInternal("failed to load fingerprint", err))
		return
	}
	writeJSON(w, http.StatusOK, GameFingerprintResponse{Fingerprint: *fp})
}

func (h *Handler) RLExport(w http.ResponseWriter, r *http.Request) {
	sessionIDStr := r.URL.Query().Get("sessionId")
	sessionID, err := domain.ParseSessionId(sessionIDStr)
	if err != nil {
		writeError(w, apperr.NewInvalidInput("sessionId is required and must be a UUID"))
		return
	}

	limit := clampInt(queryInt(r, "limit", 100), 1, 10000)
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	experiences, err := h.experiences.ListBySession(r.Context(), sessionID)
	if err != nil {
		writeError(w, apperr.NewInternal("failed to list experiences", err))
		return
	}
	if offset > len(experiences) {
		offset = len(experiences)
	}
	end := offset + limit
	if end > len(experiences) {
		end = len(experiences)
	}
	writeJSON(w, http.StatusOK, RLExportResponse{Experiences: experiences[offset:end]})
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.counters.Snapshot())
}

func parseSessionID(r *http.Request) (domain.SessionId, error) {
	idStr, ok := mux.Vars(r)["id"]
	if !ok {
		return domain.SessionId{}, apperr.NewInvalidInput("missing session id")
	}
	id, err := domain.ParseSessionId(idStr)
	if err != nil {
		return domain.SessionId{}, apperr.NewInvalidInput("malformed session id")
	}
	return id, nil
}

func simulateResult(action domain.GameplayAction) domain.GameplayResult {
	if action.Type != domain.Spin {
		return domain.GameplayResult{}
	}
	currency := domain.AUD
	if action.Amount != nil {
		currency = action.Amount.Currency
	}
	return domain.GameplayResult{
		Symbols: []string{"A", "B", "C"},
		Payout:  &domain.Money{Amount: 0, Currency: currency},
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return b
}

func unixNow() int64 {
	return time.Now().Unix()
}
