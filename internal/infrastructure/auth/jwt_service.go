package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/you/investorportal/domain"
)

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	secretKey  []byte
	issuer     string
	sessionTTL time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey, issuer string, sessionTTL time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		secretKey:  []byte(secretKey),
		issuer:     issuer,
		sessionTTL: sessionTTL,
	}
}

// Generate implements domain.TokenService. The jti is minted by the caller
// so its hash can be persisted to the session registry before the token is
// handed out.
func (j *JWTServiceImpl) Generate(inv *domain.Investor, jti string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"jti":     jti,
		"phone":   inv.Phone,
		"name":    inv.Name,
		"company": inv.Company,
		"role":    inv.Role,
		"iss":     j.issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(j.sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// Validate implements domain.TokenService
func (j *JWTServiceImpl) Validate(tokenString string) (*domain.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return j.secretKey, nil
	})

	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return nil, domain.ErrTokenMalformed
	}

	phone, ok := claims["phone"].(string)
	if !ok || phone == "" {
		return nil, domain.ErrTokenMalformed
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, domain.ErrTokenExpired
	}

	sessionClaims := &domain.SessionClaims{
		JTI:       jti,
		Phone:     phone,
		Role:      role,
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}

	if name, ok := claims["name"].(string); ok {
		sessionClaims.Name = name
	}
	if company, ok := claims["company"].(string); ok {
		sessionClaims.Company = company
	}

	return sessionClaims, nil
}
