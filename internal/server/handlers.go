package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Shravanik22/MediLink/internal/complaint"
	"github.com/Shravanik22/MediLink/internal/health"
	"github.com/Shravanik22/MediLink/internal/order"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrValidation),
		errors.Is(err, complaint.ErrValidation),
		errors.Is(err, health.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		respondError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, complaint.ErrNotFound):
		respondError(w, http.StatusNotFound, "Complaint not found")
	case errors.Is(err, order.ErrPermission):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, order.ErrInvalidState):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrVersionConflict):
		respondError(w, http.StatusConflict, "Order was modified concurrently, please retry")
	default:
		s.logger.Error("internal error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

type createOrderRequest struct {
	PatientDetails struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Age     *int   `json:"age"`
		Email   string `json:"email"`
		Address string `json:"address"`
	} `json:"patientDetails"`
	Medicines []struct {
		MedicineID string `json:"medicineId"`
		Quantity   int    `json:"quantity"`
	} `json:"medicines"`
	PaymentMode      string `json:"paymentMode"`
	IsEmergency      bool   `json:"isEmergency"`
	PrescriptionPath string `json:"prescriptionPath"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in := order.CreateInput{
		PatientName:      req.PatientDetails.Name,
		PatientPhone:     req.PatientDetails.Phone,
		PatientAge:       req.PatientDetails.Age,
		PatientEmail:     req.PatientDetails.Email,
		PatientAddress:   req.PatientDetails.Address,
		PrescriptionPath: req.PrescriptionPath,
		PaymentMode:      req.PaymentMode,
		IsEmergency:      req.IsEmergency,
	}
	for _, m := range req.Medicines {
		in.Items = append(in.Items, order.CreateItemInput{
			MedicineID: m.MedicineID,
			Quantity:   m.Quantity,
		})
	}

	details, err := s.orders.Create(r.Context(), actor.ID, in)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, details)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	details, err := s.orders.Get(r.Context(), orderID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	// A kiosk only sees its own orders; chemists and admins see everything.
	if actor.Role == order.RoleKiosk && details.Order.KioskID != actor.ID {
		respondError(w, http.StatusForbidden, "Forbidden: order belongs to another kiosk")
		return
	}

	respondJSON(w, http.StatusOK, details)
}

func (s *Server) handleKioskOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())

	orders, err := s.orders.ListForKiosk(r.Context(), actor.ID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleChemistOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())

	orders, err := s.orders.ListForChemist(r.Context(), actor.ID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleAcceptOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	updated, err := s.orders.Accept(r.Context(), actor.ID, orderID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

type updateStatusRequest struct {
	Status          string `json:"status"`
	Comment         string `json:"comment"`
	DeliveryDetails *struct {
		EstimatedTime *string `json:"estimatedTime"`
		TrackingID    *string `json:"trackingId"`
		OTP           *string `json:"otp"`
	} `json:"deliveryDetails"`
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch *order.DeliveryPatch
	if req.DeliveryDetails != nil {
		patch = &order.DeliveryPatch{
			EstimatedTime: req.DeliveryDetails.EstimatedTime,
			TrackingID:    req.DeliveryDetails.TrackingID,
			OTP:           req.DeliveryDetails.OTP,
		}
	}

	updated, err := s.orders.Transition(r.Context(), actor, orderID, target, req.Comment, patch)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	if err := s.orders.Cancel(r.Context(), actor, orderID); err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Order cancelled successfully",
	})
}

type rateOrderRequest struct {
	Score  int    `json:"score"`
	Review string `json:"review"`
}

func (s *Server) handleRateOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	var req rateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.orders.Rate(r.Context(), actor.ID, orderID, req.Score, req.Review); err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Rating recorded",
	})
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	if err := s.orders.MarkPaid(r.Context(), actor, orderID); err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Payment recorded",
	})
}

func (s *Server) handleLowStock(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())

	medicines, err := s.inventory.GetLowStock(r.Context(), actor.ID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, medicines)
}
