package http

import (
	"net/http"
	"strconv"

	"cake-shop/internal/domain"
	"cake-shop/internal/infra"
	"cake-shop/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog   *services.CatalogService
	carts     *services.CartService
	auth      *services.AuthService
	orders    *services.OrderService
	lifecycle *services.LifecycleService
	profiles  *services.ProfileService
	cakes     *services.CakeService
	mailer    infra.EmailSender
	limiter   *RateLimiter
}

type Services struct {
	Catalog   *services.CatalogService
	Carts     *services.CartService
	Auth      *services.AuthService
	Orders    *services.OrderService
	Lifecycle *services.LifecycleService
	Profiles  *services.ProfileService
	Cakes     *services.CakeService
	Mailer    infra.EmailSender
}

func NewHandler(s Services, limiter *RateLimiter) *Handler {
	return &Handler{
		catalog:   s.Catalog,
		carts:     s.Carts,
		auth:      s.Auth,
		orders:    s.Orders,
		lifecycle: s.Lifecycle,
		profiles:  s.Profiles,
		cakes:     s.Cakes,
		mailer:    s.Mailer,
		limiter:   limiter,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(CORS())

	api := r.Group("/api")
	api.GET("/categories", h.ListCategories)
	api.GET("/products", h.ListProducts)

	api.GET("/cart", h.GetCart)
	api.POST("/cart/items", h.AddCartItem)
	api.POST("/cart/items/:id/increment", h.IncrementCartItem)
	api.POST("/cart/items/:id/decrement", h.DecrementCartItem)
	api.DELETE("/cart", h.ClearCart)

	authGroup := api.Group("/auth", h.limiter.Middleware())
	authGroup.POST("/signup", h.Signup)
	authGroup.POST("/verify", h.Verify)
	authGroup.POST("/resend", h.Resend)
	authGroup.POST("/login", h.Login)

	private := api.Group("", RequireAuth(h.auth))
	private.POST("/orders", h.CreateOrder)
	private.GET("/orders/:id", h.GetOrder)
	private.GET("/profile", h.GetProfile)
	private.PUT("/profile/avatar", h.UpdateAvatar)
	private.GET("/cakes", h.ListCakes)
	private.POST("/cakes", h.SaveCake)
	private.POST("/cakes/:id/cart", h.AddCakeToCart)

	fn := r.Group("/functions")
	fn.POST("/telegram-bot-webhook", h.TelegramWebhook)
	fn.OPTIONS("/telegram-bot-webhook", preflight)
	fn.POST("/send-verification-code", h.limiter.Middleware(), h.SendVerificationCode)
	fn.OPTIONS("/send-verification-code", preflight)
}

func preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories(), "all": domain.AllCategories})
}

func (h *Handler) ListProducts(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			respondError(c, domain.NewValidationError("page", "page must be a positive integer"))
			return
		}
		page = n
	}

	res, err := h.catalog.Query(c.Request.Context(), c.Query("category"), c.Query("q"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      res.Items,
		"total":      res.Total,
		"page":       res.Page,
		"pageSize":   res.PageSize,
		"totalPages": res.TotalPages(),
	})
}

func cartSession(c *gin.Context) string {
	return c.GetHeader(cartHeader)
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), cartSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.carts.Add(c.Request.Context(), cartSession(c), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) IncrementCartItem(c *gin.Context) {
	cart, err := h.carts.Increment(c.Request.Context(), cartSession(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) DecrementCartItem(c *gin.Context) {
	cart, err := h.carts.Decrement(c.Request.Context(), cartSession(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), cartSession(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(domain.Cart{}))
}

func (h *Handler) Signup(c *gin.Context) {
	var req services.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.auth.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, res)
}

func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.auth.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Resend(c *gin.Context) {
	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.auth.Resend(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, res)
}

func (h *Handler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req services.ContactInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.orders.Submit(c.Request.Context(), c.GetString(ctxUserID), cartSession(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreateOrderResponse{
		ID:          order.ID,
		TrackNumber: order.TrackNumber,
		TotalPrice:  order.TotalPrice,
		Status:      string(order.Status),
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if order.UserID != c.GetString(ctxUserID) {
		respondError(c, domain.ErrOrderNotFound)
		return
	}
	c.JSON(http.StatusOK, services.OrderView{Order: order, StatusLabel: domain.StatusLabel(string(order.Status))})
}

func (h *Handler) GetProfile(c *gin.Context) {
	view, err := h.profiles.View(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) UpdateAvatar(c *gin.Context) {
	var req UpdateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.profiles.UpdateAvatar(c.Request.Context(), c.GetString(ctxUserID), req.AvatarURL); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListCakes(c *gin.Context) {
	cakes, err := h.cakes.List(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cakes)
}

func (h *Handler) SaveCake(c *gin.Context) {
	var req SaveCakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cake, err := h.cakes.Save(c.Request.Context(), c.GetString(ctxUserID), req.Name, req.Layers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cake)
}

func (h *Handler) AddCakeToCart(c *gin.Context) {
	cart, err := h.cakes.AddToCart(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"), cartSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}
