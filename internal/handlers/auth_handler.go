package handlers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
	"github.com/Sannikov1993/PosResto-sub000/internal/utils"
)

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

// =========================
// REGISTER OWNER
// =========================
type registerOwnerReq struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`

	RestaurantName string `json:"restaurant_name" binding:"required"`
	Timezone       string `json:"timezone"`
	Address        string `json:"restaurant_address"`
}

// RegisterOwner creates a restaurant and its owner account in one step. The
// restaurant's QR clock secret is generated here.
func (h *AuthHandler) RegisterOwner(c *gin.Context) {
	var req registerOwnerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "full_name, email, password and restaurant_name are required")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	if err := utils.ValidatePasswordStrong(req.Password); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			badRequest(c, "timezone must be an IANA zone name")
			return
		}
	} else {
		req.Timezone = "UTC"
	}

	var exists models.User
	if err := h.DB.Where("email = ?", req.Email).First(&exists).Error; err == nil {
		badRequest(c, "email already used")
		return
	}

	pwHash, err := utils.HashPassword(req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	qrSecret, _, err := utils.GenerateQRSecret(req.RestaurantName)
	if err != nil {
		fail(c, err)
		return
	}

	var restaurant models.Restaurant
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		restaurant = models.Restaurant{
			Name:           strings.TrimSpace(req.RestaurantName),
			Address:        strings.TrimSpace(req.Address),
			Timezone:       req.Timezone,
			AttendanceMode: models.AttendanceDeviceOrQR,
			QRSecret:       qrSecret,
		}
		if err := tx.Create(&restaurant).Error; err != nil {
			return err
		}
		owner := models.User{
			RestaurantID: restaurant.ID,
			Role:         models.RoleOwner,
			Status:       models.StatusActive,
			FullName:     req.FullName,
			Email:        req.Email,
			Phone:        strings.TrimSpace(req.Phone),
			PasswordHash: pwHash,
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "restaurant registered",
		"restaurant_id": restaurant.ID,
	})
}

// =========================
// LOGIN
// =========================
type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func lockMinutes(level int) int {
	if level <= 0 {
		return 5
	}
	return 5 * (level + 1)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var u models.User
	if err := h.DB.Where("email = ?", email).First(&u).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid_credentials", "message": "invalid credentials"})
		return
	}
	if u.Status != models.StatusActive {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "account_inactive", "message": "account is not active"})
		return
	}
	if u.LockoutUntil != nil && time.Now().Before(*u.LockoutUntil) {
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "locked", "until": u.LockoutUntil})
		return
	}

	if !utils.CheckPassword(u.PasswordHash, req.Password) {
		u.FailedLoginCount++
		if u.FailedLoginCount >= 5 {
			u.LockoutLevel++
			mins := lockMinutes(u.LockoutLevel - 1)
			t := time.Now().Add(time.Duration(mins) * time.Minute)
			u.LockoutUntil = &t
			u.FailedLoginCount = 0
		}
		_ = h.DB.Save(&u).Error
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid_credentials", "message": "invalid credentials"})
		return
	}

	u.FailedLoginCount = 0
	u.LockoutUntil = nil
	_ = h.DB.Save(&u).Error

	secret := os.Getenv("JWT_SECRET")
	claims := jwt.MapClaims{
		"user_id":       u.ID,
		"restaurant_id": u.RestaurantID,
		"role":          string(u.Role),
		"exp":           time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   signed,
		"user": gin.H{
			"id":            u.ID,
			"restaurant_id": u.RestaurantID,
			"role":          u.Role,
			"full_name":     u.FullName,
			"email":         u.Email,
		},
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	var u models.User
	if err := h.DB.Where("id = ? AND restaurant_id = ?", c.GetUint("user_id"), restaurantID(c)).
		First(&u).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "user_not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}
