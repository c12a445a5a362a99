package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/case-market/internal/api/httpx"
	"github.com/baharkarakas/case-market/internal/services"
)

type MarketHandler struct {
	market *services.MarketService
	chat   *services.ChatService
}

func NewMarketHandler(market *services.MarketService, chat *services.ChatService) *MarketHandler {
	return &MarketHandler{market: market, chat: chat}
}

func (h *MarketHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	listings, err := h.market.ListOpen(r.Context(), limit, offset)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listings)
}

type createListingReq struct {
	UserID      string `json:"user_id" validate:"required"`
	ItemID      string `json:"item_id" validate:"required"`
	Price       int64  `json:"price" validate:"gt=0"`
	Description string `json:"description" validate:"max=500"`
}

func (h *MarketHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req createListingReq
	if !decode(w, r, &req, func() { req.UserID = callerID(r, req.UserID) }) {
		return
	}
	id, err := h.market.CreateListing(r.Context(), req.UserID, req.ItemID, req.Price, req.Description)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"listingId": id})
}

type buyReq struct {
	UserID string `json:"user_id" validate:"required"`
}

func (h *MarketHandler) Buy(w http.ResponseWriter, r *http.Request) {
	var req buyReq
	if !decode(w, r, &req, func() { req.UserID = callerID(r, req.UserID) }) {
		return
	}
	res, err := h.market.PurchaseListing(r.Context(), req.UserID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *MarketHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chat.ListMessages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, msgs)
}

type sendMessageReq struct {
	SenderID string `json:"sender_id" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

func (h *MarketHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageReq
	if !decode(w, r, &req, func() { req.SenderID = callerID(r, req.SenderID) }) {
		return
	}
	msg, err := h.chat.SendMessage(r.Context(), chi.URLParam(r, "id"), req.SenderID, req.Message)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, msg)
}
