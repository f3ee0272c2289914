package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims transportadas no token de acesso
type Claims struct {
	UserID uint   `json:"user_id"`
	Perfil string `json:"perfil"`
	jwt.RegisteredClaims
}

var (
	ErrTokenExpirado = errors.New("token expirado")
	ErrTokenInvalido = errors.New("token inválido")
)

// KeyManager assina e valida tokens de acesso
type KeyManager struct {
	secretKey []byte
	logger    *zap.Logger
}

func NewKeyManager(logger *zap.Logger) (*KeyManager, error) {
	secretKey := GetJWTSecret()

	if len(secretKey) < 32 {
		return nil, errors.New("jwt secret key muito curta")
	}

	return &KeyManager{
		secretKey: secretKey,
		logger:    logger,
	}, nil
}

// GenerateToken emite um token HS256 com o id e o perfil do usuário
func (km *KeyManager) GenerateToken(userID uint, perfil string, duration time.Duration) (string, error) {
	expireTime := time.Now().Add(duration)

	claims := &Claims{
		UserID: userID,
		Perfil: perfil,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(km.secretKey)
	if err != nil {
		km.logger.Error("falha ao gerar token JWT", zap.Error(err))
		return "", err
	}

	return tokenString, nil
}

// VerifyToken valida a assinatura e a validade do token e retorna as claims
func (km *KeyManager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verificar o método de assinatura
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return km.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpirado
		}
		km.logger.Debug("falha ao validar token JWT", zap.Error(err))
		return nil, ErrTokenInvalido
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalido
}
