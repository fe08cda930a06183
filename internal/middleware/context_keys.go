package middleware

import "github.com/gin-gonic/gin"

// actorIDKey is the key used to store the calling actor's reference in the
// Gin context. Authentication itself is the outer layer's job; this service
// only records the actor reference it is handed for audit fields.
const actorIDKey = contextKey("actorID")

// actorHeader is the header the outer application layer forwards the
// authenticated principal in.
const actorHeader = "X-Actor-ID"

// systemActor is recorded when no actor reference was supplied.
const systemActor = "system"

// ActorRef extracts the actor reference forwarded by the outer layer and
// stores it in the Gin context for handlers.
func ActorRef() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(actorHeader)
		if actor == "" {
			actor = systemActor
		}
		c.Set(string(actorIDKey), actor)
		c.Next()
	}
}

// GetActorFromContext retrieves the actor reference from the Gin context.
func GetActorFromContext(c *gin.Context) string {
	actorVal, exists := c.Get(string(actorIDKey))
	if !exists {
		return systemActor
	}
	actor, ok := actorVal.(string)
	if !ok || actor == "" {
		return systemActor
	}
	return actor
}
