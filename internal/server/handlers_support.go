package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Shravanik22/MediLink/internal/complaint"
	"github.com/Shravanik22/MediLink/internal/health"
)

type createComplaintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderID     string `json:"orderId"`
	Priority    string `json:"priority"`
}

func (s *Server) handleCreateComplaint(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())

	var req createComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ticket, err := s.complaints.Create(r.Context(), actor.ID, complaint.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		OrderID:     req.OrderID,
		Priority:    req.Priority,
	})
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, ticket)
}

func (s *Server) handleListComplaints(w http.ResponseWriter, r *http.Request) {
	complaints, err := s.complaints.List(r.Context())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, complaints)
}

type resolveComplaintRequest struct {
	Status     string `json:"status"`
	Resolution string `json:"resolution"`
}

func (s *Server) handleResolveComplaint(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	complaintID := mux.Vars(r)["id"]

	var req resolveComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ticket, err := s.complaints.Resolve(r.Context(), actor.ID, complaintID, complaint.ResolveInput{
		Status:     req.Status,
		Resolution: req.Resolution,
	})
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ticket)
}

type recordHealthMetricRequest struct {
	PatientName string  `json:"patientName"`
	Age         *int    `json:"age"`
	Height      float64 `json:"height"`
	Weight      float64 `json:"weight"`
	BPSystolic  int     `json:"bpSystolic"`
	BPDiastolic int     `json:"bpDiastolic"`
	SugarLevel  int     `json:"sugarLevel"`
	HeartRate   int     `json:"heartRate"`
}

func (s *Server) handleRecordHealthMetric(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())

	var req recordHealthMetricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	metric, err := s.health.Record(r.Context(), actor.ID, health.RecordInput{
		PatientName: req.PatientName,
		PatientAge:  req.Age,
		HeightCM:    req.Height,
		WeightKG:    req.Weight,
		BPSystolic:  req.BPSystolic,
		BPDiastolic: req.BPDiastolic,
		SugarLevel:  req.SugarLevel,
		HeartRate:   req.HeartRate,
	})
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, metric)
}

// Screening history is keyed by the recording actor, so every caller only
// ever sees their own readings.
func (s *Server) handleHealthHistory(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())

	records, err := s.health.History(r.Context(), actor.ID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

func (s *Server) handleHealthAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.health.Analytics(r.Context())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
