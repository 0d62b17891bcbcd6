package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"expert-hand/store"
)

// ErrInvalidToken deckt alle Token-Fehler ab (abgelaufen, falsche Signatur,
// falscher Algorithmus, fehlendes Subject).
var ErrInvalidToken = errors.New("invalid token")

// ContextUserKey ist der gin-Context-Schlüssel, unter dem die Middleware
// den geladenen User ablegt.
const ContextUserKey = "currentUser"

// HashPassword hasht ein Klartext-Passwort mit bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword prüft ein Klartext-Passwort gegen den gespeicherten Hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CreateAccessToken stellt ein HS256-signiertes JWT mit sub=username aus.
// Kein Refresh, keine Revocation: das Token läuft einfach ab.
func CreateAccessToken(username, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken validiert ein Token und gibt das Subject (Username) zurück.
func ParseAccessToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}

// RequireUser ist die gin-Middleware für Bearer-geschützte Endpoints.
// Sie validiert das Token, lädt den User und legt ihn im Context ab.
func RequireUser(st *store.Store, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		username, err := ParseAccessToken(tokenString, secret)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		user, err := st.UserByUsername(username)
		if err != nil || user == nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}
