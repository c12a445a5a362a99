package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/baharkarakas/case-market/internal/api/httpx"
	"github.com/baharkarakas/case-market/internal/services"
)

type CaseHandler struct {
	svc *services.CaseService
}

func NewCaseHandler(svc *services.CaseService) *CaseHandler { return &CaseHandler{svc: svc} }

type openCaseReq struct {
	UserID string `json:"user_id" validate:"required"`
	CaseID string `json:"case_id" validate:"required"`
}

func (h *CaseHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openCaseReq
	if !decode(w, r, &req, func() { req.UserID = callerID(r, req.UserID) }) {
		return
	}
	res, err := h.svc.OpenCase(r.Context(), req.UserID, req.CaseID)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	cases, err := h.svc.ListCases(r.Context())
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cases)
}

type createCaseReq struct {
	Name  string `json:"name" validate:"required,max=100"`
	Price int64  `json:"price" validate:"gt=0"`
	// IsActive defaults to true when omitted.
	IsActive    *bool           `json:"is_active"`
	RewardTable json.RawMessage `json:"reward_table"`
}

func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCaseReq
	if !decode(w, r, &req, nil) {
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	c, err := h.svc.CreateCase(r.Context(), req.Name, req.Price, active, req.RewardTable)
	if err != nil {
		httpx.WriteServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}
