package security

import (
	"os"

	"github.com/juscash/publicacoes-api/pkg/config"
)

// GetJWTSecret obtém o segredo JWT de diferentes fontes na seguinte ordem:
// 1. Variável de ambiente JWT_SECRET_KEY
// 2. Variável de ambiente PUB_AUTH_JWTSECRET
// 3. Arquivo de configuração
func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret != "" {
		return []byte(secret)
	}

	secret = os.Getenv("PUB_AUTH_JWTSECRET")
	if secret != "" {
		return []byte(secret)
	}

	cfg, err := config.LoadConfig("./config")
	if err == nil && cfg.Auth.JWTSecret != "" {
		return []byte(cfg.Auth.JWTSecret)
	}

	return nil
}
