package security

import (
	"errors"
	"fmt"
	"time"

	"gatepass/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT service
type JWTService struct {
	secretKey       []byte
	tokenExpiration time.Duration
}

// Constant defined
const (
	Issuer   = "gatepass"
	Audience = "gatepass-admin"
)

var ErrInvalidToken = errors.New("invalid access token")

// Custom claim definition. An admin without event key sees every ticket
type CustomClaims struct {
	AdminID              uuid.UUID `json:"admin_id"`
	Username             string    `json:"username"`
	EventKey             string    `json:"event_key,omitempty"`
	jwt.RegisteredClaims           // Embed the JWT Registered claims
}

// Constructor for JWT service
func NewJWTService(secretKey []byte, tokenExpiration time.Duration) *JWTService {
	return &JWTService{
		secretKey:       secretKey,
		tokenExpiration: tokenExpiration,
	}
}

// Create an access token for an admin. Returns the signed token and its expiry
func (service *JWTService) CreateToken(admin *db.Admin) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(service.tokenExpiration)

	claims := CustomClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		EventKey: admin.EventKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,                        // Who issue this token
			Subject:   admin.ID.String(),             // Whom the token is about
			Audience:  jwt.ClaimStrings{Audience},    // Who the token is for
			IssuedAt:  jwt.NewNumericDate(now),       // When the token is created
			ExpiresAt: jwt.NewNumericDate(expiresAt), // When the token is expired
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(service.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenStr, expiresAt, nil
}

// Verify token
func (service *JWTService) VerifyToken(signedToken string) (*CustomClaims, error) {
	// Use custom parser with delay to 30 secs
	parser := jwt.NewParser(
		jwt.WithLeeway(30*time.Second),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	parsedToken, err := parser.ParseWithClaims(signedToken, &CustomClaims{}, func(token *jwt.Token) (any, error) {
		// Check for signing method to avoid [alg: none] trick
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return service.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsedToken.Claims.(*CustomClaims)
	if !(ok && parsedToken.Valid) {
		return nil, ErrInvalidToken
	}

	if claims.AdminID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing admin id", ErrInvalidToken)
	}

	return claims, nil
}
