package sessions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jmolinera/go-session-center/internal/errors"
)

// RequestMeta carries the request-scoped inputs for CreateOrGet: the party
// id header, an optional session id header, and provenance metadata.
type RequestMeta struct {
	PartyID   string
	SessionID string
	IPAddress string
	UserAgent string
	Metadata  SessionMetadata
}

// Deps holds the Manager's collaborators.
type Deps struct {
	Cache      Cache
	Aggregator Aggregator
	Codec      *IDCodec
}

// Manager decides cache-hit vs. rebuild, derives and validates session
// identifiers, and evaluates the authorization predicates over cached
// sessions.
type Manager struct {
	deps    Deps
	ttl     time.Duration
	logger  zerolog.Logger
	nowTime func() time.Time
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithLogger sets the Manager's logger.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager initializes a Manager with required dependencies. Optional
// configuration can be provided via options (e.g. WithNowTime for testing).
func NewManager(deps Deps, ttl time.Duration, options ...ManagerOption) (*Manager, error) {
	if deps.Cache == nil {
		return nil, pkgerrors.New("[NewManager] Cache is required")
	}
	if deps.Aggregator == nil {
		return nil, pkgerrors.New("[NewManager] Aggregator is required")
	}
	if deps.Codec == nil {
		return nil, pkgerrors.New("[NewManager] Codec is required")
	}
	if ttl <= 0 {
		return nil, pkgerrors.New("[NewManager] ttl must be positive")
	}

	m := &Manager{
		deps:    deps,
		ttl:     ttl,
		logger:  zerolog.Nop(),
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// CreateOrGet returns the cached session for the request's party, building
// and storing a fresh one on a miss. The party id header is required; a
// session id header is honored only if it verifies and matches the party.
func (m *Manager) CreateOrGet(ctx context.Context, meta RequestMeta) (*SessionContext, error) {
	if strings.TrimSpace(meta.PartyID) == "" {
		return nil, errors.ErrMissingPartyID
	}
	partyID, err := uuid.Parse(meta.PartyID)
	if err != nil {
		return nil, pkgerrors.Wrap(errors.ErrInvalidPartyID, meta.PartyID)
	}

	sessionID := m.deps.Codec.SessionID(partyID)
	if meta.SessionID != "" {
		claimed, err := m.deps.Codec.PartyIDFromSessionID(meta.SessionID)
		if err == nil && claimed == partyID {
			sessionID = meta.SessionID
		}
	}

	return m.getOrBuild(ctx, sessionID, partyID, &meta)
}

// GetByPartyID derives the party's deterministic session id and behaves as
// CreateOrGet without request metadata. Repeated calls for one party address
// the same cache slot.
func (m *Manager) GetByPartyID(ctx context.Context, partyID uuid.UUID) (*SessionContext, error) {
	if partyID == uuid.Nil {
		return nil, errors.ErrMissingPartyID
	}
	return m.getOrBuild(ctx, m.deps.Codec.SessionID(partyID), partyID, nil)
}

// GetBySessionID returns the cached session for sessionID, rebuilding from
// the embedded party id on a miss. Ids that fail signature verification are
// reported as not found; a caller cannot force a rebuild for an arbitrary
// party by constructing an id.
func (m *Manager) GetBySessionID(ctx context.Context, sessionID string) (*SessionContext, error) {
	partyID, err := m.deps.Codec.PartyIDFromSessionID(sessionID)
	if err != nil {
		return nil, errors.ErrSessionNotFound
	}
	return m.getOrBuild(ctx, sessionID, partyID, nil)
}

// InvalidateSession evicts the session from the cache. Absent sessions are
// not an error.
func (m *Manager) InvalidateSession(ctx context.Context, sessionID string) error {
	if err := m.deps.Cache.Evict(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(err, "[InvalidateSession] cache evict")
	}
	return nil
}

// InvalidateSessionsByPartyID removes the target party's sessions by
// clearing the ENTIRE cache namespace. Every party's sessions are evicted,
// not just the target's. Callers must treat this as a global logout.
func (m *Manager) InvalidateSessionsByPartyID(ctx context.Context, partyID uuid.UUID) error {
	m.logger.Warn().Str("partyId", partyID.String()).Msg("invalidating sessions via full cache clear")
	if err := m.deps.Cache.Clear(ctx); err != nil {
		return pkgerrors.Wrap(err, "[InvalidateSessionsByPartyID] cache clear")
	}
	return nil
}

// RefreshSession evicts the session and rebuilds it from the id's embedded
// party id.
func (m *Manager) RefreshSession(ctx context.Context, sessionID string) (*SessionContext, error) {
	partyID, err := m.deps.Codec.PartyIDFromSessionID(sessionID)
	if err != nil {
		return nil, errors.ErrSessionNotFound
	}
	if err := m.deps.Cache.Evict(ctx, sessionID); err != nil {
		m.logger.Warn().Err(err).Str("sessionId", sessionID).Msg("evict before refresh failed")
	}
	return m.getOrBuild(ctx, sessionID, partyID, nil)
}

// IsSessionValid reports whether the session is ACTIVE and not past its
// expiry. A nil session is never valid. Expiry is checked on every call,
// not via active eviction.
func (m *Manager) IsSessionValid(session *SessionContext) bool {
	if session == nil {
		return false
	}
	return session.Status == StatusActive && session.ExpiresAt.After(m.nowTime())
}

// HasAccessToProduct reports whether the party holds an active contract
// linked to productID. Lookup failures degrade to deny, never to an error.
func (m *Manager) HasAccessToProduct(ctx context.Context, partyID, productID uuid.UUID) bool {
	session, err := m.GetByPartyID(ctx, partyID)
	if err != nil {
		m.logger.Debug().Err(err).Str("partyId", partyID.String()).Msg("access check denied")
		return false
	}
	for _, contract := range session.ActiveContracts {
		if contract.IsActive && contract.Product != nil && contract.Product.ProductID == productID {
			return true
		}
	}
	return false
}

// HasPermission reports whether the party holds, on an active contract
// linked to productID, an active role scope matching actionType and
// resourceType. Action and resource matching is case-insensitive; an empty
// resourceType matches any scope resource. Same deny-on-failure policy as
// HasAccessToProduct.
func (m *Manager) HasPermission(ctx context.Context, partyID, productID uuid.UUID, actionType, resourceType string) bool {
	session, err := m.GetByPartyID(ctx, partyID)
	if err != nil {
		m.logger.Debug().Err(err).Str("partyId", partyID.String()).Msg("permission check denied")
		return false
	}
	for _, contract := range session.ActiveContracts {
		if !contract.IsActive || contract.Product == nil || contract.Product.ProductID != productID {
			continue
		}
		for _, scope := range contract.RoleInContract.Scopes {
			if !scope.IsActive {
				continue
			}
			if !strings.EqualFold(scope.ActionType, actionType) {
				continue
			}
			if resourceType != "" && !strings.EqualFold(scope.ResourceType, resourceType) {
				continue
			}
			return true
		}
	}
	return false
}

// getOrBuild is the cache-or-build decision. A cache read error is treated
// as a miss so a cache outage never blocks session issuance. The hit path
// bumps lastAccessedAt and re-stores with a fresh TTL.
func (m *Manager) getOrBuild(ctx context.Context, sessionID string, partyID uuid.UUID, meta *RequestMeta) (*SessionContext, error) {
	cached, err := m.deps.Cache.Get(ctx, sessionID)
	if err != nil {
		m.logger.Warn().Err(err).Str("sessionId", sessionID).Msg("cache read failed, rebuilding")
		cached = nil
	}
	now := m.nowTime()

	if cached != nil {
		cached.LastAccessedAt = now
		cached.ExpiresAt = now.Add(m.ttl)
		if err := m.deps.Cache.Put(ctx, sessionID, cached, m.ttl); err != nil {
			m.logger.Warn().Err(err).Str("sessionId", sessionID).Msg("cache write failed on hit refresh")
		}
		return cached, nil
	}

	session, err := m.deps.Aggregator.Aggregate(ctx, partyID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[getOrBuild] aggregate")
	}

	session.SessionID = sessionID
	session.PartyID = partyID
	session.CreatedAt = now
	session.LastAccessedAt = now
	session.ExpiresAt = now.Add(m.ttl)
	session.Status = StatusActive
	if meta != nil {
		session.IPAddress = meta.IPAddress
		session.UserAgent = meta.UserAgent
		session.Metadata = meta.Metadata
	}

	if err := m.deps.Cache.Put(ctx, sessionID, session, m.ttl); err != nil {
		m.logger.Warn().Err(err).Str("sessionId", sessionID).Msg("cache write failed on build")
	}
	return session, nil
}
