package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-eshop-core.git/internal/app"
	"github.com/ariefcatur/go-eshop-core.git/internal/customers"
)

// Thin request shell over the application services; all real behavior lives
// behind them.
type Handler struct {
	Auth      *app.AuthService
	Orders    *app.OrderService
	Customers *app.CustomerService
}

func (h *Handler) Register(r *chi.Mux) {
	r.Post("/auth/login", h.login)
	r.Post("/auth/refresh", h.refresh)
	r.Post("/auth/logout", h.logout)
	r.Post("/orders", h.checkout)
	r.Patch("/orders/{id}/status", h.updateStatus)
	r.Post("/customers/{id}/addresses", h.addAddress)
	r.Delete("/customers/{id}/addresses/{addressID}", h.removeAddress)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type loginReq struct {
	Email string `json:"email"`
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	pair, err := h.Auth.Login(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, app.ErrUnknownAccount) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	writeJSON(w, http.StatusOK, tokenResp{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	pair, err := h.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, app.ErrInvalidToken) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "refresh failed"})
		return
	}
	writeJSON(w, http.StatusOK, tokenResp{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := h.Auth.Logout(r.Context(), req.RefreshToken); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "logout failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

type checkoutReq struct {
	CustomerID        string `json:"customer_id"`
	ShippingAddressID string `json:"shipping_address_id,omitempty"`
	BillingAddressID  string `json:"billing_address_id,omitempty"`
	CardNumber        string `json:"card_number,omitempty"`
	CardType          string `json:"card_type,omitempty"`
	Items             []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CustomerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	in := app.CheckoutInput{
		CustomerID:        req.CustomerID,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		CardNumber:        req.CardNumber,
		CardType:          req.CardType,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, app.CheckoutItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	order, err := h.Orders.Checkout(r.Context(), in)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"order_id":        order.ID,
		"status":          order.Status,
		"tracking_number": order.TrackingNumber.Value(),
		"total":           order.Total.String(),
	})
}

type addAddressReq struct {
	Line1   string `json:"line1"`
	City    string `json:"city"`
	Country string `json:"country"`
	Type    string `json:"type"`
}

func (h *Handler) addAddress(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	var req addAddressReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Line1 == "" || req.City == "" || req.Country == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	typ := customers.AddressType(req.Type)
	switch typ {
	case customers.AddressShipping, customers.AddressBilling, customers.AddressBoth:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid address type"})
		return
	}
	addr, err := h.Customers.AddAddress(r.Context(), app.AddAddressInput{
		CustomerID: customerID,
		Line1:      req.Line1,
		City:       req.City,
		Country:    req.Country,
		Type:       typ,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"address_id": addr.ID})
}

func (h *Handler) removeAddress(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	addressID := chi.URLParam(r, "addressID")
	if err := h.Customers.RemoveAddress(r.Context(), customerID, addressID); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, app.ErrAddressInUse) {
			code = http.StatusConflict
		}
		writeJSON(w, code, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := h.Orders.UpdateStatus(r.Context(), orderID, req.Status); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
