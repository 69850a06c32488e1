package handler

import (
	"net/http"

	"leadmart/config"
	"leadmart/internal/domain"
	"leadmart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	cfg *config.Config
	svc *service.AuthService
	log *logrus.Logger
}

func NewAuthHandler(cfg *config.Config, svc *service.AuthService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, svc: svc, log: log}
}

type RegisterRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=128"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role" binding:"required,oneof=BUYER VENDOR"`
	CompanyName  string `json:"company_name"`
	ReferralCode string `json:"referral_code"` // optional: referrer's code
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, access, refresh, err := h.svc.Register(req.Name, req.Email, req.Password, req.Role, req.CompanyName, req.ReferralCode)
	if err != nil {
		if err == service.ErrEmailExists {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.log.WithFields(logrus.Fields{"email": req.Email, "role": req.Role, "error": err}).Error("register failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	h.setSessionCookie(c, access)
	c.JSON(http.StatusCreated, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, access, refresh, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCreds {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.log.WithFields(logrus.Fields{"email": req.Email, "error": err}).Error("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	h.setSessionCookie(c, access)
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	access, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	h.setSessionCookie(c, access)
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cfg.JWT.SessionCookie, "", -1, "/", "", h.secureCookies(), true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// setSessionCookie mirrors the access token into an HttpOnly cookie so
// browser clients do not have to manage the Authorization header.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.cfg.JWT.AccessExpiry.Seconds())
	c.SetCookie(h.cfg.JWT.SessionCookie, token, maxAge, "/", "", h.secureCookies(), true)
}

func (h *AuthHandler) secureCookies() bool {
	return h.cfg.Server.Env == domain.EnvProduction
}
