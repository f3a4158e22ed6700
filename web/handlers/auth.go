package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timeclock.app/timeclock/core"
	"timeclock.app/timeclock/security"
	"timeclock.app/timeclock/store"
	"timeclock.app/timeclock/web/common"
	"timeclock.app/timeclock/web/middlewares"
)

const tokenTTL = time.Hour

type AuthEndpoint struct {
	users  store.UserStore
	secret []byte
	log    *zap.Logger
}

func RegisterAuth(r *gin.RouterGroup, users store.UserStore, secret []byte, log *zap.Logger) {
	ep := &AuthEndpoint{users: users, secret: secret, log: log}
	auth := middlewares.Authentication(secret)

	r.POST("/login", ep.Login)
	r.POST("/logout", auth, ep.Logout)
	r.GET("/me", auth, ep.Me)
	r.PUT("/update-password", auth, ep.UpdatePassword)
	r.GET("/users", auth, ep.Users)

	r.POST("/create", auth, middlewares.RequireAdmin(), ep.Create)
	r.DELETE("/delete/:id", auth, middlewares.RequireAdmin(), ep.Delete)
}

// UserInfo is a user record with the credential stripped.
type UserInfo struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      core.Role `json:"role"`
}

func userInfo(u store.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ep *AuthEndpoint) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	users, err := ep.users.LoadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	user, found := users[req.Username]
	if !found || !security.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Invalid username or password"))
		return
	}

	token, err := security.CreateIdentityToken(security.Identity{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, ep.secret, tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	ep.log.Info("user logged in", zap.String("username", user.Username))
	c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role})
}

func (ep *AuthEndpoint) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (ep *AuthEndpoint) Me(c *gin.Context) {
	current, _ := middlewares.CurrentUser(c)

	users, err := ep.users.LoadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	user, found := users[current.Username]
	if !found {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("User not found"))
		return
	}

	c.JSON(http.StatusOK, userInfo(user))
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (ep *AuthEndpoint) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Current and new password are required."))
		return
	}

	current, _ := middlewares.CurrentUser(c)

	users, err := ep.users.LoadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	user, found := users[current.Username]
	if !found {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("User not found."))
		return
	}

	if !security.CheckPassword(user.Password, req.CurrentPassword) {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("Current password is incorrect."))
		return
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	user.Password = hash
	users[current.Username] = user
	if err := ep.users.SaveAll(users); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully."})
}

type createUserRequest struct {
	ID        string `json:"id" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Role      string `json:"role" binding:"required"`
}

func (ep *AuthEndpoint) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	role := core.Role(req.Role)
	if role != core.RoleUser && role != core.RoleAdmin {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid role"))
		return
	}

	users, err := ep.users.LoadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	for _, u := range users {
		if u.Username == req.Username || u.ID == req.ID {
			c.JSON(http.StatusConflict, common.NewErrorResponse("Username or ID already exists"))
			return
		}
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	user := store.User{
		ID:        req.ID,
		Username:  req.Username,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      role,
	}
	users[user.Username] = user

	if err := ep.users.SaveAll(users); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	ep.log.Info("user created", zap.String("username", user.Username), zap.String("role", string(role)))
	c.JSON(http.StatusCreated, common.NewMessageResponse("User created successfully", userInfo(user)))
}

func (ep *AuthEndpoint) Users(c *gin.Context) {
	users, err := ep.users.LoadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	list := make([]UserInfo, 0, len(users))
	for _, u := range users {
		list = append(list, userInfo(u))
	}
	c.JSON(http.StatusOK, list)
}

func (ep *AuthEndpoint) Delete(c *gin.Context) {
	id := c.Param("id")

	users, err := ep.users.LoadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	for username, u := range users {
		if u.ID == id {
			delete(users, username)
			if err := ep.users.SaveAll(users); err != nil {
				c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
				return
			}
			ep.log.Info("user deleted", zap.String("userId", id))
			c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
			return
		}
	}

	c.JSON(http.StatusNotFound, common.NewErrorResponse("User not found"))
}
