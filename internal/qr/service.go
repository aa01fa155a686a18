package qr

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"dashpos/internal/domain"
)

const defaultSize = 256

type Service struct {
	repo    RepositoryInterface
	baseURL string
}

func NewService(repo RepositoryInterface, baseURL string) *Service {
	return &Service{repo: repo, baseURL: baseURL}
}

// Payload is the URL a scanner lands on. The frontend routes /food/<type>/<id>
// to the right view.
func (s *Service) Payload(qrType, targetID string) string {
	return fmt.Sprintf("%s/food/%s/%s", s.baseURL, qrType, targetID)
}

func (s *Service) imageURL(id string) string {
	return fmt.Sprintf("%s/api/v1/qr/%s/image", s.baseURL, id)
}

func (s *Service) Generate(ctx context.Context, req domain.GenerateQRRequest) (*domain.QRCodeResponse, error) {
	size := req.Size
	if size == 0 {
		size = defaultSize
	}
	code := domain.QRCode{
		ID:         uuid.New().String(),
		BusinessID: req.BusinessID,
		Type:       req.Type,
		TargetID:   req.TargetID,
		Payload:    s.Payload(req.Type, req.TargetID),
		Size:       size,
		IsActive:   true,
	}
	png, err := qrcode.Encode(code.Payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	if err := s.repo.Create(ctx, code); err != nil {
		return nil, err
	}
	created, err := s.repo.Get(ctx, code.ID)
	if err != nil {
		return nil, err
	}
	return &domain.QRCodeResponse{
		QRCode:      *created,
		ImageBase64: base64.StdEncoding.EncodeToString(png),
		ImageURL:    s.imageURL(created.ID),
	}, nil
}

func (s *Service) BulkGenerate(ctx context.Context, req domain.BulkGenerateQRRequest) ([]domain.QRCodeResponse, error) {
	out := make([]domain.QRCodeResponse, 0, len(req.TargetIDs))
	for _, targetID := range req.TargetIDs {
		resp, err := s.Generate(ctx, domain.GenerateQRRequest{
			BusinessID: req.BusinessID,
			Type:       req.Type,
			TargetID:   targetID,
			Size:       req.Size,
		})
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", targetID, err)
		}
		out = append(out, *resp)
	}
	return out, nil
}

// code loads a QR code and hides rows belonging to other businesses.
func (s *Service) code(ctx context.Context, businessID, id string) (*domain.QRCode, error) {
	code, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if code.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return code, nil
}

func (s *Service) Get(ctx context.Context, businessID, id string) (*domain.QRCodeResponse, error) {
	code, err := s.code(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(code.Payload, qrcode.Medium, code.Size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return &domain.QRCodeResponse{
		QRCode:      *code,
		ImageBase64: base64.StdEncoding.EncodeToString(png),
		ImageURL:    s.imageURL(code.ID),
	}, nil
}

// Image renders the PNG bytes for direct embedding in <img> tags.
func (s *Service) Image(ctx context.Context, id string) ([]byte, error) {
	code, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(code.Payload, qrcode.Medium, code.Size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

func (s *Service) List(ctx context.Context, businessID, qrType string, isActive *bool) ([]domain.QRCode, error) {
	return s.repo.List(ctx, businessID, qrType, isActive)
}

// Scan bumps the counter and tells the caller where to go. Revoked codes scan
// as not found.
func (s *Service) Scan(ctx context.Context, id string) (*domain.QRScanResult, error) {
	code, err := s.repo.IncrementScanCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.QRScanResult{
		QRID:      code.ID,
		Type:      code.Type,
		TargetID:  code.TargetID,
		Payload:   code.Payload,
		ScanCount: code.ScanCount,
	}, nil
}

func (s *Service) Revoke(ctx context.Context, businessID, id string) error {
	if _, err := s.code(ctx, businessID, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, false)
}
