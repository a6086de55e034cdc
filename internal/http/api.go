package http

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sales-tracker/internal/auth"
	"sales-tracker/internal/domain"
	"sales-tracker/internal/service"
)

const claimsContextKey = "authClaims"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	sales     service.SaleService
	tokens    *auth.TokenService
	uploadDir string
	logger    *logrus.Logger
}

func NewHandler(users service.UserService, sales service.SaleService, tokens *auth.TokenService, uploadDir string, logger *logrus.Logger) *Handler {
	return &Handler{
		users:     users,
		sales:     sales,
		tokens:    tokens,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.POST("/signup", h.signup)
	router.POST("/login", h.login)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "OK"})
	})

	authorized := router.Group("/")
	authorized.Use(h.requireToken())
	authorized.POST("/createSale", h.createSale)
	authorized.GET("/getSales", h.getSales)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireToken extracts and verifies the bearer token, attaching its claims to
// the request context. Both failure bodies are fixed strings; neither says
// anything about why verification failed.
func (h *Handler) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := h.verifyBearer(c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

func (h *Handler) verifyBearer(header string) (*auth.Claims, error) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return nil, auth.ErrMissingToken
	}
	return h.tokens.Verify(header[len(prefix):])
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, _ := c.Get(claimsContextKey)
	claims, _ := v.(*auth.Claims)
	return claims
}

type signupRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username, full name, and password are required"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.FullName, req.Password)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		default:
			h.logger.Errorf("signup: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Errorf("signup issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    userToResponse(user),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	// A body that fails to bind is treated as empty credentials rather than
	// rejected here: every login attempt, however malformed, must still pass
	// through Authenticate so it lands in the audit trail.
	var req loginRequest
	_ = c.ShouldBindJSON(&req)

	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password, ip)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			h.logger.Errorf("login: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Errorf("login issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userToResponse(user),
	})
}

type createSaleRequest struct {
	ItemDescription string `json:"item_description"`
	Amount          any    `json:"amount"`
}

func (h *Handler) createSale(c *gin.Context) {
	claims := claimsFrom(c)

	itemDescription, amount, receiptPath := h.readSaleInput(c)
	if receiptPath != "" {
		defer os.Remove(receiptPath)
	}

	sale, err := h.sales.CreateSale(c.Request.Context(), claims.UserID, itemDescription, amount, receiptPath)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		case errors.Is(err, service.ErrOutsideBusinessHours):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Sales can only be submitted between 07:00 and 21:00 UTC"})
		default:
			h.logger.Errorf("create sale: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	h.logger.Infof("sale %d created by %s", sale.ID, claims.Username)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sale created successfully",
		"sale":    saleToResponse(*sale, false),
	})
}

// readSaleInput accepts either a multipart form (with an optional receipt
// image) or a JSON body. A receipt that cannot even be spooled to disk is
// dropped here; a missing photo never blocks the sale.
func (h *Handler) readSaleInput(c *gin.Context) (itemDescription, amount, receiptPath string) {
	if c.ContentType() == "multipart/form-data" {
		itemDescription = c.PostForm("item_description")
		amount = c.PostForm("amount")

		file, err := c.FormFile("receipt")
		if err != nil || file == nil {
			return itemDescription, amount, ""
		}
		dst := filepath.Join(h.uploadDir, uuid.NewString()+filepath.Ext(file.Filename))
		if err := c.SaveUploadedFile(file, dst); err != nil {
			h.logger.Warnf("save uploaded receipt: %v", err)
			return itemDescription, amount, ""
		}
		return itemDescription, amount, dst
	}

	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", "", ""
	}
	return req.ItemDescription, amountToString(req.Amount), ""
}

// amountToString normalizes the amount field, which clients send either as a
// JSON number or as a string (form fields are always strings).
func amountToString(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return ""
	}
}

func (h *Handler) getSales(c *gin.Context) {
	claims := claimsFrom(c)

	sales, err := h.sales.ListSales(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Errorf("list sales: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	resp := make([]SaleResponse, len(sales))
	for i := range sales {
		resp[i] = saleToResponse(sales[i], true)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales retrieved successfully",
		"sales":   resp,
	})
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type SaleResponse struct {
	ID              int64   `json:"id"`
	ItemDescription string  `json:"item_description"`
	AmountCents     int64   `json:"amount_cents"`
	CommissionCents int64   `json:"commission_cents"`
	Timestamp       string  `json:"timestamp"`
	PhotoPath       *string `json:"photo_path"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at,omitempty"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     domain.RoleEmployee,
	}
}

func saleToResponse(sale domain.Sale, includeCreatedAt bool) SaleResponse {
	resp := SaleResponse{
		ID:              sale.ID,
		ItemDescription: sale.ItemDescription,
		AmountCents:     sale.AmountCents,
		CommissionCents: sale.CommissionCents,
		Timestamp:       sale.Timestamp.UTC().Format(time.RFC3339),
		Status:          domain.SaleStatusPending,
	}
	if sale.PhotoPath != "" {
		v := sale.PhotoPath
		resp.PhotoPath = &v
	}
	if includeCreatedAt {
		resp.CreatedAt = sale.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
