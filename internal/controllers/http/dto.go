package http

import "cake-shop/internal/domain"

type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type CartResponse struct {
	Lines []domain.CartLine `json:"lines"`
	Total int64             `json:"total"`
	Count int               `json:"count"`
}

func newCartResponse(c domain.Cart) CartResponse {
	lines := c.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return CartResponse{Lines: lines, Total: c.Total(), Count: count}
}

type VerifyRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type ResendRequest struct {
	Email string `json:"email" binding:"required"`
}

type CreateOrderResponse struct {
	ID          string `json:"id"`
	TrackNumber string `json:"trackNumber"`
	TotalPrice  int64  `json:"totalPrice"`
	Status      string `json:"status"`
}

type UpdateAvatarRequest struct {
	AvatarURL string `json:"avatarUrl" binding:"required,url"`
}

type SaveCakeRequest struct {
	Name   string            `json:"name" binding:"required,max=100"`
	Layers domain.CakeDesign `json:"layers"`
}

type DispatchCodeRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}
