package repository

import (
	"errors"
	"time"
)

var (
	ErrObjectNotFound  = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")
)

// Order is the persisted order document. Status always mirrors the latest
// order_history row; both are written in the same transaction.
type Order struct {
	ID               string     `db:"id" json:"id"`
	KioskID          string     `db:"kiosk_id" json:"kioskId"`
	ChemistID        *string    `db:"chemist_id" json:"chemistId,omitempty"`
	PatientName      string     `db:"patient_name" json:"patientName"`
	PatientPhone     string     `db:"patient_phone" json:"patientPhone"`
	PatientAge       *int       `db:"patient_age" json:"patientAge,omitempty"`
	PatientEmail     *string    `db:"patient_email" json:"patientEmail,omitempty"`
	PatientAddress   *string    `db:"patient_address" json:"patientAddress,omitempty"`
	PrescriptionPath *string    `db:"prescription_path" json:"prescriptionPath,omitempty"`
	TotalAmount      int        `db:"total_amount" json:"totalAmount"`
	PaymentMode      string     `db:"payment_mode" json:"paymentMode"`
	PaymentStatus    string     `db:"payment_status" json:"paymentStatus"`
	Status           string     `db:"status" json:"status"`
	IsEmergency      bool       `db:"is_emergency" json:"isEmergency"`
	EstimatedTime    *string    `db:"estimated_time" json:"estimatedTime,omitempty"`
	TrackingID       *string    `db:"tracking_id" json:"trackingId,omitempty"`
	OTP              *string    `db:"otp" json:"otp,omitempty"`
	DeliveryUpdated  *time.Time `db:"delivery_updated_at" json:"deliveryUpdatedAt,omitempty"`
	RatingScore      *int       `db:"rating_score" json:"ratingScore,omitempty"`
	RatingReview     *string    `db:"rating_review" json:"ratingReview,omitempty"`
	Version          int64      `db:"version" json:"version"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`
}

// OrderItem is a medicine line item denormalized at order creation.
type OrderItem struct {
	ID         int64  `db:"id" json:"-"`
	OrderID    string `db:"order_id" json:"orderId"`
	MedicineID string `db:"medicine_id" json:"medicineId"`
	Name       string `db:"name" json:"name"`
	Quantity   int    `db:"quantity" json:"quantity"`
	UnitPrice  int    `db:"unit_price" json:"unitPrice"`
}

type HistoryEntry struct {
	ID        int64     `db:"id" json:"-"`
	OrderID   string    `db:"order_id" json:"orderId"`
	Status    string    `db:"status" json:"status"`
	Comment   string    `db:"comment" json:"comment"`
	ChangedAt time.Time `db:"changed_at" json:"changedAt"`
}

type User struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	Password      string    `db:"password" json:"-"`
	Role          string    `db:"role" json:"role"`
	Verified      bool      `db:"verified" json:"verified"`
	AccountStatus string    `db:"account_status" json:"accountStatus"`
	Rating        float64   `db:"rating" json:"rating"`
	ReviewCount   int       `db:"review_count" json:"reviewCount"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Complaint is a support ticket raised by any authenticated actor,
// optionally tied to an order. Admins move it through its own small
// lifecycle (open, in-progress, resolved, closed).
type Complaint struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	UserID      string     `db:"user_id" json:"userId"`
	OrderID     *string    `db:"order_id" json:"orderId,omitempty"`
	Status      string     `db:"status" json:"status"`
	Priority    string     `db:"priority" json:"priority"`
	Resolution  *string    `db:"resolution" json:"resolution,omitempty"`
	ResolvedBy  *string    `db:"resolved_by" json:"resolvedBy,omitempty"`
	ResolvedAt  *time.Time `db:"resolved_at" json:"resolvedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// HealthMetric is a single kiosk screening reading. BMI, its category and the
// risk flag are derived server-side at recording time and stored as read.
type HealthMetric struct {
	ID          int64     `db:"id" json:"-"`
	KioskID     string    `db:"kiosk_id" json:"kioskId"`
	PatientName string    `db:"patient_name" json:"patientName"`
	PatientAge  *int      `db:"patient_age" json:"patientAge,omitempty"`
	HeightCM    float64   `db:"height_cm" json:"heightCm"`
	WeightKG    float64   `db:"weight_kg" json:"weightKg"`
	BMI         float64   `db:"bmi" json:"bmi"`
	BMICategory string    `db:"bmi_category" json:"bmiCategory"`
	BPSystolic  int       `db:"bp_systolic" json:"bpSystolic"`
	BPDiastolic int       `db:"bp_diastolic" json:"bpDiastolic"`
	SugarLevel  int       `db:"sugar_level" json:"sugarLevel"`
	HeartRate   int       `db:"heart_rate" json:"heartRate"`
	RiskFlag    string    `db:"risk_flag" json:"riskFlag"`
	RecordedAt  time.Time `db:"recorded_at" json:"recordedAt"`
}

// BMICategoryStat is one aggregate row of the screening analytics view.
type BMICategoryStat struct {
	BMICategory string  `db:"bmi_category" json:"bmiCategory"`
	Count       int64   `db:"count" json:"count"`
	AvgSugar    float64 `db:"avg_sugar" json:"avgSugar"`
}

type Medicine struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	GenericName       string    `db:"generic_name" json:"genericName"`
	Category          *string   `db:"category" json:"category,omitempty"`
	Price             int       `db:"price" json:"price"`
	StockQuantity     int       `db:"stock_quantity" json:"stockQuantity"`
	LowStockThreshold int       `db:"low_stock_threshold" json:"lowStockThreshold"`
	ChemistID         string    `db:"chemist_id" json:"chemistId"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
}
