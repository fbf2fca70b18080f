package auth

import "github.com/gin-gonic/gin"

const identityKey = "identity"

// SetIdentity attaches the verified identity to the request context.
func SetIdentity(c *gin.Context, id *Identity) {
	c.Set(identityKey, id)
}

// FromContext returns the identity attached by the auth middleware, or nil
// on an unauthenticated request.
func FromContext(c *gin.Context) *Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}
