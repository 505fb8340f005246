package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/wowlabz/accounts-api/internal/api/metrics"
	"github.com/wowlabz/accounts-api/internal/core/domain"
	"github.com/wowlabz/accounts-api/internal/core/ports"
	"github.com/wowlabz/accounts-api/internal/jobs"
	"github.com/wowlabz/accounts-api/internal/pkg/dateutil"
)

const (
	tempPasswordTTL    = time.Hour
	tempPasswordLength = 8
)

// AuthService implements registration, login, session maintenance and the
// per-route authorization check on top of the generic data store.
type AuthService struct {
	store    ports.DataStore
	tokens   *TokenManager
	notifier ports.Notifier
	throttle ports.Throttle
	queue    jobs.Queue
	log      zerolog.Logger
}

func NewAuthService(store ports.DataStore, tokens *TokenManager, notifier ports.Notifier, throttle ports.Throttle, queue jobs.Queue, log zerolog.Logger) *AuthService {
	return &AuthService{
		store:    store,
		tokens:   tokens,
		notifier: notifier,
		throttle: throttle,
		queue:    queue,
		log:      log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// decodeDocument converts a raw store document into its typed model via a
// bson round trip.
func decodeDocument(doc ports.Document, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// toDocument flattens a typed model into the store's document form.
func toDocument(model interface{}) (ports.Document, error) {
	raw, err := bson.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	var doc ports.Document
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return doc, nil
}

// CreateUser registers a new TALENT account. The user upsert and the
// temporary credential upsert are atomic as a pair; the credentials
// notification goes out in the background afterwards.
func (s *AuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (string, error) {
	email := normalizeEmail(in.Email)

	existing, err := s.store.ReadOne(ctx, domain.CollectionUsers, ports.Document{"email": email}, nil)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		return "", domain.ErrEmailInUse
	}

	password, err := RandomPassword(tempPasswordLength)
	if err != nil {
		return "", err
	}
	digest := StorageDigest(password)

	err = s.store.WithTransaction(ctx, func(txCtx context.Context) error {
		userDoc := ports.Document{
			"first_name":     in.FirstName,
			"last_name":      in.LastName,
			"email":          email,
			"country_code":   in.CountryCode,
			"phone":          in.Phone,
			"user_type":      domain.RoleTalent,
			"account_status": domain.AccountActive,
		}
		created, err := s.store.UpdateOne(txCtx, domain.CollectionUsers, ports.UpdateOp{
			Filter: ports.Document{"email": email},
			Update: ports.Document{"$set": userDoc},
			Upsert: true,
		}, nil)
		if err != nil {
			return err
		}

		passportDoc := ports.Document{
			"user_id":   asString(created["_id"]),
			"user_type": domain.RoleTalent,
			"password":  digest,
			"is_used":   false,
			"expiry":    dateutil.Millis(tempPasswordTTL),
		}
		_, err = s.store.UpdateOne(txCtx, domain.CollectionTempPassport, ports.UpdateOp{
			Filter: ports.Document{"user_id": asString(created["_id"])},
			Update: ports.Document{"$set": passportDoc},
			Upsert: true,
		}, nil)
		return err
	})
	if err != nil {
		return "", err
	}

	s.notifyCredentials(email, password)
	return "User created successfully", nil
}

// Login authenticates by email and password digest. A matching unexpired,
// unused temporary credential wins and is consumed atomically; otherwise
// the permanent credential is checked.
func (s *AuthService) Login(ctx context.Context, email, password string, meta domain.ClientMetadata) (*domain.TokenData, error) {
	user, err := s.store.ReadOne(ctx, domain.CollectionUsers, ports.Document{
		"email":      normalizeEmail(email),
		"is_deleted": false,
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(user) == 0 {
		metrics.LoginsTotal.WithLabelValues("not_found").Inc()
		return nil, domain.ErrUserNotFound
	}

	userID := asString(user["_id"])
	userType := domain.Role(asString(user["user_type"]))
	digest := LoginDigest(password)

	tempDoc, err := s.store.ReadOne(ctx, domain.CollectionTempPassport, ports.Document{"user_id": userID}, nil)
	if err != nil {
		return nil, err
	}
	var temp domain.TempPassport
	if len(tempDoc) > 0 {
		if err := decodeDocument(tempDoc, &temp); err != nil {
			return nil, err
		}
	}

	if temp.Password == digest && !temp.IsUsed && !dateutil.HasExpired(temp.Expiry) {
		// Consume the temporary credential; it never authenticates twice.
		if _, err := s.store.UpdateOne(ctx, domain.CollectionTempPassport, ports.UpdateOp{
			Filter: ports.Document{"user_id": userID},
			Update: ports.Document{"$set": bson.M{"is_used": true}},
		}, nil); err != nil {
			return nil, err
		}
		metrics.LoginsTotal.WithLabelValues("temp_credential").Inc()
	} else {
		passportDoc, err := s.store.ReadOne(ctx, domain.CollectionPassport, ports.Document{"user_id": userID}, nil)
		if err != nil {
			return nil, err
		}
		if len(passportDoc) == 0 {
			metrics.LoginsTotal.WithLabelValues("no_credential").Inc()
			return nil, domain.ErrPasswordMissing
		}
		var passport domain.Passport
		if err := decodeDocument(passportDoc, &passport); err != nil {
			return nil, err
		}
		if passport.Password != digest {
			metrics.LoginsTotal.WithLabelValues("invalid_password").Inc()
			return nil, domain.ErrPasswordInvalid
		}
		metrics.LoginsTotal.WithLabelValues("success").Inc()
	}

	tokenData, err := s.createLoginToken(ctx, userID, userType, meta)
	if err != nil {
		return nil, err
	}

	s.stampUser(userID, "last_login")

	tokenData.UserID = userID
	tokenData.UserType = userType
	return tokenData, nil
}

// createLoginToken issues an access/refresh pair and persists the session
// row binding both tokens and the client fingerprint to the user.
func (s *AuthService) createLoginToken(ctx context.Context, userID string, userType domain.Role, meta domain.ClientMetadata) (*domain.TokenData, error) {
	access, accessExpiry, err := s.tokens.Create(userID, userType, domain.TokenBearer, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.Create(userID, userType, domain.TokenRefresh, RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	row, err := toDocument(domain.SessionToken{
		UserID:       userID,
		UserType:     userType,
		AccessToken:  access,
		RefreshToken: refresh,
		Metadata:     meta,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.store.CreateOne(ctx, domain.CollectionAccessTokens, row, nil); err != nil {
		return nil, err
	}

	metrics.TokensIssuedTotal.WithLabelValues(string(domain.TokenBearer)).Inc()
	metrics.TokensIssuedTotal.WithLabelValues(string(domain.TokenRefresh)).Inc()

	return &domain.TokenData{
		AccessToken:       access,
		AccessTokenExpiry: accessExpiry,
		RefreshToken:      refresh,
	}, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access
// token. The refresh token is not rotated; a new session row is appended.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.TokenData, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, domain.ErrRefreshInvalid
	}
	if claims.TokenType != domain.TokenRefresh {
		return nil, domain.ErrRefreshInvalid
	}

	row, err := s.store.ReadOne(ctx, domain.CollectionAccessTokens, ports.Document{
		"user_id":       claims.UserID,
		"refresh_token": refreshToken,
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(row) == 0 {
		return nil, domain.ErrRefreshInvalid
	}

	access, accessExpiry, err := s.tokens.Create(claims.UserID, claims.UserType, domain.TokenBearer, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	newRow, err := toDocument(domain.SessionToken{
		UserID:       claims.UserID,
		UserType:     claims.UserType,
		AccessToken:  access,
		RefreshToken: refreshToken,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.store.CreateOne(ctx, domain.CollectionAccessTokens, newRow, nil); err != nil {
		return nil, err
	}

	metrics.TokensIssuedTotal.WithLabelValues(string(domain.TokenBearer)).Inc()
	return &domain.TokenData{AccessToken: access, AccessTokenExpiry: accessExpiry}, nil
}

// SendDefaultPassword provisions a fresh temporary credential for a user
// and notifies the registered (or overridden) email.
func (s *AuthService) SendDefaultPassword(ctx context.Context, userID, email string) (string, error) {
	user, err := s.store.ReadOne(ctx, domain.CollectionUsers, ports.Document{
		"_id":       userID,
		"user_type": bson.M{"$in": domain.AllRoles},
	}, nil)
	if err != nil {
		return "", err
	}
	if len(user) == 0 {
		return "", domain.ErrUserNotFound
	}

	recipient := normalizeEmail(email)
	if recipient == "" {
		recipient = asString(user["email"])
	}
	if recipient == "" {
		return "", domain.ErrEmailMissing
	}

	if err := s.checkThrottle(ctx, recipient); err != nil {
		return "", err
	}
	if err := s.issueTempPassword(ctx, userID, domain.Role(asString(user["user_type"])), recipient); err != nil {
		return "", err
	}
	return "Password successfully sent", nil
}

// ForgotPassword is the self-service variant of SendDefaultPassword.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	recipient := normalizeEmail(email)
	user, err := s.store.ReadOne(ctx, domain.CollectionUsers, ports.Document{
		"email":     recipient,
		"user_type": bson.M{"$in": domain.AllRoles},
	}, nil)
	if err != nil {
		return "", err
	}
	if len(user) == 0 {
		return "", domain.ErrUserNotFound
	}

	if err := s.checkThrottle(ctx, recipient); err != nil {
		return "", err
	}
	if err := s.issueTempPassword(ctx, asString(user["_id"]), domain.Role(asString(user["user_type"])), recipient); err != nil {
		return "", err
	}
	return "Password successfully sent", nil
}

func (s *AuthService) checkThrottle(ctx context.Context, key string) error {
	allowed, err := s.throttle.Allow(ctx, key)
	if err != nil {
		// Throttle backend failure must not lock every user out.
		s.log.Warn().Err(err).Msg("password throttle unavailable, allowing request")
		return nil
	}
	if !allowed {
		return domain.ErrThrottled
	}
	return nil
}

func (s *AuthService) issueTempPassword(ctx context.Context, userID string, userType domain.Role, recipient string) error {
	password, err := RandomPassword(tempPasswordLength)
	if err != nil {
		return err
	}

	passportDoc := ports.Document{
		"user_id":   userID,
		"user_type": userType,
		"password":  StorageDigest(password),
		"is_used":   false,
		"expiry":    dateutil.Millis(tempPasswordTTL),
	}
	if _, err := s.store.UpdateOne(ctx, domain.CollectionTempPassport, ports.UpdateOp{
		Filter: ports.Document{"user_id": userID},
		Update: ports.Document{"$set": passportDoc},
		Upsert: true,
	}, nil); err != nil {
		return err
	}

	s.notifyCredentials(recipient, password)
	return nil
}

// UsersPaginated returns one metadata-wrapped page of users, optionally
// filtered by a case-insensitive name search.
func (s *AuthService) UsersPaginated(ctx context.Context, page, pageSize int64, searchQuery string) (*ports.PagedResult, error) {
	pipeline := []ports.Document{}
	if searchQuery != "" {
		regex := bson.M{"$regex": searchQuery, "$options": "i"}
		pipeline = append(pipeline, ports.Document{
			"$match": bson.M{"$or": []bson.M{{"first_name": regex}, {"last_name": regex}}},
		})
	}
	pipeline = append(pipeline, ports.Document{
		"$sort": bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}},
	})
	return s.store.QueryReadPaged(ctx, domain.CollectionUsers, pipeline, page, pageSize)
}

// Authorize validates a bearer token end to end. Cryptographic validity is
// necessary but not sufficient: the token must also join to a live,
// non-deleted, active user through its persisted session row.
func (s *AuthService) Authorize(ctx context.Context, token string, allowedRoles []domain.Role, tokenType domain.TokenType) (*domain.SessionClaims, error) {
	token = strings.TrimSpace(token)

	claims, err := s.tokens.Verify(token)
	if err != nil {
		metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
		return nil, domain.ErrTokenInvalid
	}
	if claims.TokenType != tokenType {
		metrics.AuthRejectionsTotal.WithLabelValues("wrong_type").Inc()
		return nil, domain.ErrTokenInvalid
	}
	if !claims.UserType.Valid() {
		metrics.AuthRejectionsTotal.WithLabelValues("invalid_role").Inc()
		return nil, domain.ErrTokenInvalid
	}

	userDoc, err := s.resolveSession(ctx, claims, token)
	if err != nil {
		return nil, err
	}
	if len(userDoc) == 0 {
		metrics.AuthRejectionsTotal.WithLabelValues("no_session").Inc()
		return nil, domain.ErrTokenInvalid
	}
	var user domain.User
	if err := decodeDocument(userDoc, &user); err != nil {
		return nil, err
	}
	if user.AccountStatus != domain.AccountActive {
		metrics.AuthRejectionsTotal.WithLabelValues("inactive").Inc()
		return nil, domain.ErrAccountInactive
	}
	if !roleAllowed(claims.UserType, allowedRoles) {
		metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
		return nil, domain.ErrForbidden
	}

	s.stampUser(claims.UserID, "last_active")
	return claims, nil
}

// resolveSession joins the session-token store to the user collection on
// (user_id, user_type, access_token), keeping only non-deleted users.
func (s *AuthService) resolveSession(ctx context.Context, claims *domain.SessionClaims, token string) (ports.Document, error) {
	pipeline := []ports.Document{
		{"$match": bson.M{
			"user_id":      claims.UserID,
			"user_type":    claims.UserType,
			"access_token": token,
		}},
		{"$lookup": bson.M{
			"from": domain.CollectionUsers,
			"let":  bson.M{"user_id": "$user_id", "user_type": "$user_type"},
			"pipeline": []bson.M{{"$match": bson.M{"$expr": bson.M{"$and": []bson.M{
				{"$eq": []interface{}{"$_id", "$$user_id"}},
				{"$eq": []interface{}{"$user_type", "$$user_type"}},
				{"$eq": []interface{}{"$is_deleted", false}},
			}}}}},
			"as": "user",
		}},
		{"$unwind": "$user"},
		{"$replaceRoot": bson.M{"newRoot": "$user"}},
	}

	users, err := s.store.QueryRead(ctx, domain.CollectionAccessTokens, pipeline, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return ports.Document{}, nil
	}
	return users[0], nil
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// stampUser updates an observational timestamp (last_login/last_active) in
// the background. The request never waits on it and never sees a failure;
// the write may be lost on crash.
func (s *AuthService) stampUser(userID, field string) {
	s.queue.Enqueue(jobs.Job{
		Key:  userID,
		Name: field,
		Fn: func(ctx context.Context) error {
			_, err := s.store.UpdateOne(ctx, domain.CollectionUsers, ports.UpdateOp{
				RecordID: userID,
				Update:   ports.Document{"$set": bson.M{field: dateutil.NowMillis()}},
			}, nil)
			if err != nil {
				return fmt.Errorf("stamp %s: %w", field, err)
			}
			return nil
		},
	})
}

func (s *AuthService) notifyCredentials(email, password string) {
	s.queue.Enqueue(jobs.Job{
		Key:  email,
		Name: "send_credentials",
		Fn: func(ctx context.Context) error {
			return s.notifier.SendCredentials(ctx, email, password)
		},
	})
}
