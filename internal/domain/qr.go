package domain

import "time"

const (
	QRMenuItem     = "menu_item"
	QRTable        = "table"
	QRMenuCategory = "menu_category"
)

type QRCode struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	Type       string    `json:"type"`
	TargetID   string    `json:"target_id"`
	Payload    string    `json:"payload"` // encoded URL
	Size       int       `json:"size"`
	ScanCount  int       `json:"scan_count"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

type GenerateQRRequest struct {
	BusinessID string `json:"business_id" binding:"required,uuid"`
	Type       string `json:"type" binding:"required,oneof=menu_item table menu_category"`
	TargetID   string `json:"target_id" binding:"required,uuid"`
	Size       int    `json:"size" binding:"omitempty,gte=64,lte=1024"`
}

type BulkGenerateQRRequest struct {
	BusinessID string   `json:"business_id" binding:"required,uuid"`
	Type       string   `json:"type" binding:"required,oneof=menu_item table menu_category"`
	TargetIDs  []string `json:"target_ids" binding:"required,min=1,dive,uuid"`
	Size       int      `json:"size" binding:"omitempty,gte=64,lte=1024"`
}

type QRCodeResponse struct {
	QRCode
	ImageBase64 string `json:"image_base64"`
	ImageURL    string `json:"image_url"`
}

type QRScanResult struct {
	QRID      string `json:"qr_id"`
	Type      string `json:"type"`
	TargetID  string `json:"target_id"`
	Payload   string `json:"payload"`
	ScanCount int    `json:"scan_count"`
}
