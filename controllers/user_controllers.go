package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/amorty/cafe-admin/middlewares"
	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
	"github.com/amorty/cafe-admin/store"
	"github.com/amorty/cafe-admin/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB     *gorm.DB
	Store  store.Store
	Tokens *utils.TokenManager
}

func NewUserController(db *gorm.DB, s store.Store, tokens *utils.TokenManager) *UserController {
	return &UserController{DB: db, Store: s, Tokens: tokens}
}

// LoginAdmin checks username and password against the users table.
func (uc *UserController) LoginAdmin(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.WithContext(c.Request.Context()).
		Where("username = ?", strings.TrimSpace(input.Username)).
		First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("Error loading user: %v", err)
		}
		utils.RespondError(c, http.StatusUnauthorized, models.ErrInvalidLogin)
		return
	}
	if user.Role != models.RoleAdmin {
		utils.RespondError(c, http.StatusUnauthorized, models.ErrInvalidLogin)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, models.ErrInvalidLogin)
		return
	}

	uc.issue(c, models.Actor{Role: models.RoleAdmin, Subject: user.Username})
}

// LoginCustomer signs a customer in by their customer key.
func (uc *UserController) LoginCustomer(c *gin.Context) {
	var input struct {
		CustomerID string `json:"customer_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	id := strings.ToUpper(strings.TrimSpace(input.CustomerID))
	if id == "" {
		utils.RespondError(c, http.StatusBadRequest, models.ErrEmptyCustomer)
		return
	}

	if _, err := uc.Store.Get(c.Request.Context(), schema.Customer, id); err != nil {
		if store.IsNotFound(err) {
			utils.RespondError(c, http.StatusUnauthorized, models.ErrInvalidLogin)
			return
		}
		utils.RespondAppError(c, err)
		return
	}

	uc.issue(c, models.Actor{Role: models.RoleCustomer, Subject: id, CustomerID: id})
}

func (uc *UserController) issue(c *gin.Context, actor models.Actor) {
	token, err := uc.Tokens.GenerateToken(actor)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful: role=%s subject=%s", actor.Role, actor.Subject)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": actor.Role,
		"subject":   actor.Subject,
	})
}

// Logout revokes the token used for the request.
func (uc *UserController) Logout(c *gin.Context) {
	claims, ok := middlewares.CurrentClaims(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, models.ErrMissingToken)
		return
	}
	uc.Tokens.Revoke(claims)
	utils.InfoLogger.Printf("Logout: role=%s subject=%s", claims.Role, claims.Subject)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile returns the identity behind the token.
func (uc *UserController) GetProfile(c *gin.Context) {
	actor, ok := middlewares.CurrentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, models.ErrMissingToken)
		return
	}

	data := gin.H{"role": actor.Role, "subject": actor.Subject}
	if !actor.IsAdmin() {
		rec, err := uc.Store.Get(c.Request.Context(), schema.Customer, actor.CustomerID)
		if err != nil {
			utils.RespondAppError(c, err)
			return
		}
		data["customer"] = rec
	}
	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", data)
}
