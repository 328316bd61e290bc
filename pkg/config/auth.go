package config

import "time"

type AuthConfig struct {
	JWT      JWTConfig
	Session  SessionConfig
	Password PasswordConfig
	Cookie   CookieConfig
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
	Audience        []string
}

type SessionConfig struct {
	ExpirationTime time.Duration
	MaxSessions    int
}

type PasswordConfig struct {
	BcryptCost int
}

type CookieConfig struct {
	AccessTokenName  string
	RefreshTokenName string
	Domain           string
	Path             string
	Secure           bool
	HTTPOnly         bool
	SameSite         string
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET_KEY", ""),
			AccessTokenTTL:  getEnvDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTokenTTL: getEnvDuration("JWT_REFRESH_TOKEN_TTL", 7*24*time.Hour),
			Issuer:          getEnv("JWT_ISSUER", "tkbm-coop"),
			Audience:        getEnvStringSlice("JWT_AUDIENCE", []string{"tkbm-coop-api"}),
		},
		Session: SessionConfig{
			ExpirationTime: getEnvDuration("SESSION_EXPIRATION_TIME", 7*24*time.Hour),
			MaxSessions:    getEnvInt("SESSION_MAX_PER_USER", 10),
		},
		Password: PasswordConfig{
			BcryptCost: getEnvInt("BCRYPT_COST", 10),
		},
		Cookie: CookieConfig{
			AccessTokenName:  getEnv("COOKIE_ACCESS_TOKEN_NAME", "access_token"),
			RefreshTokenName: getEnv("COOKIE_REFRESH_TOKEN_NAME", "refresh_token"),
			Domain:           getEnv("COOKIE_DOMAIN", ""),
			Path:             getEnv("COOKIE_PATH", "/"),
			Secure:           getEnvBool("COOKIE_SECURE", false),
			HTTPOnly:         getEnvBool("COOKIE_HTTP_ONLY", true),
			SameSite:         getEnv("COOKIE_SAME_SITE", "Lax"),
		},
	}
}
