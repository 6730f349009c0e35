package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rohithwtcrofficial/roastery-backoffice/internal/adminusers"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/validation"
)

// actorRole resolves the acting admin's role. Authentication itself lives
// at the gateway; by the time a request reaches us the actor's user id is
// trusted and arrives in X-Admin-Id.
func actorRole(c *gin.Context, store *adminusers.Store) (string, bool) {
	actorID := c.GetHeader("X-Admin-Id")
	if actorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_actor"})
		return "", false
	}
	actor, err := store.Get(c.Request.Context(), actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "actor_lookup_failed", "detail": err.Error()})
		return "", false
	}
	if actor == nil || !actor.Active {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown_actor"})
		return "", false
	}
	return actor.Role, true
}

// RegisterAdminUserRoutes registers the role-gated account management
// endpoints: an actor only ever manages roles strictly below their own,
// and admins may only instantiate manager and staff accounts.
func RegisterAdminUserRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	store := adminusers.NewStore(cfg.DynamoDBClient, cfg.AdminUsersTable)

	r.POST("/admin-users", func(c *gin.Context) {
		role, ok := actorRole(c, store)
		if !ok {
			return
		}

		var req validation.CreateAdminUserRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		if err := adminusers.AuthorizeCreate(role, req.Role); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "detail": err.Error()})
			return
		}

		u := adminusers.AdminUser{
			UserID:   uuid.NewString(),
			Username: req.Username,
			Email:    req.Email,
			Role:     req.Role,
			Active:   true,
		}
		if err := store.Create(c.Request.Context(), u); err != nil {
			if errors.Is(err, adminusers.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "user_exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user_id": u.UserID, "role": u.Role})
	})

	r.PATCH("/admin-users/:id/role", func(c *gin.Context) {
		role, ok := actorRole(c, store)
		if !ok {
			return
		}

		var req validation.UpdateAdminRoleRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		target, err := store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch_failed", "detail": err.Error()})
			return
		}
		if target == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
			return
		}

		// Both the current role of the target and the role being assigned
		// must sit strictly below the actor.
		if err := adminusers.AuthorizeManage(role, target.Role); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "detail": err.Error()})
			return
		}
		if err := adminusers.AuthorizeCreate(role, req.Role); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "detail": err.Error()})
			return
		}

		if err := store.UpdateRole(c.Request.Context(), target.UserID, req.Role); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": target.UserID, "role": req.Role})
	})

	r.DELETE("/admin-users/:id", func(c *gin.Context) {
		role, ok := actorRole(c, store)
		if !ok {
			return
		}

		target, err := store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch_failed", "detail": err.Error()})
			return
		}
		if target == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
			return
		}

		if err := adminusers.AuthorizeManage(role, target.Role); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "detail": err.Error()})
			return
		}

		if err := store.Deactivate(c.Request.Context(), target.UserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed", "detail": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})
}
