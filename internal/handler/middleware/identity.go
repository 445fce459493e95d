package middleware

import (
	"net/http"

	"enrollment-core/internal/handler/httperr"
	"enrollment-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is resolved upstream (gateway or SSO proxy) and forwarded via
// trusted headers; this service only reads them.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"

	ctxActorIDKey   = "actor_id"
	ctxActorRoleKey = "actor_role"
)

const (
	RoleStudent   = "student"
	RoleReviewer  = "reviewer"
	RoleRegistrar = "registrar"
)

var errMissingIdentity = errs.New("identity headers missing or malformed")

type IdentityMiddleware struct{}

func NewIdentityMiddleware() *IdentityMiddleware {
	return &IdentityMiddleware{}
}

// RequireActor parses the identity headers into the request context. Every
// route below /api runs behind it.
func (m *IdentityMiddleware) RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, err := uuid.Parse(c.GetHeader(HeaderActorID))
		if err != nil {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingIdentity, "Actor identity required", nil)
			return
		}
		role := c.GetHeader(HeaderActorRole)
		if role == "" {
			role = RoleStudent
		}

		c.Set(ctxActorIDKey, actorID)
		c.Set(ctxActorRoleKey, role)
		c.Next()
	}
}

// RequireRole gates administrative routes on the forwarded role.
func (m *IdentityMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetActorRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		httperr.AbortWithError(c, http.StatusForbidden, errs.New("role not permitted"), "Insufficient role", nil)
	}
}

func GetActorID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxActorIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetActorRole(c *gin.Context) string {
	v, exists := c.Get(ctxActorRoleKey)
	if !exists {
		return ""
	}
	role, _ := v.(string)
	return role
}
