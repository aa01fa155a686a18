package qr

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashpos/internal/domain"
)

type fakeRepo struct {
	codes map[string]domain.QRCode
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{codes: map[string]domain.QRCode{}}
}

func (f *fakeRepo) Create(_ context.Context, code domain.QRCode) error {
	f.codes[code.ID] = code
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*domain.QRCode, error) {
	code, ok := f.codes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &code, nil
}

func (f *fakeRepo) List(_ context.Context, businessID, qrType string, isActive *bool) ([]domain.QRCode, error) {
	var out []domain.QRCode
	for _, c := range f.codes {
		if c.BusinessID == businessID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) IncrementScanCount(_ context.Context, id string) (*domain.QRCode, error) {
	code, ok := f.codes[id]
	if !ok || !code.IsActive {
		return nil, domain.ErrNotFound
	}
	code.ScanCount++
	f.codes[id] = code
	return &code, nil
}

func (f *fakeRepo) SetActive(_ context.Context, id string, active bool) error {
	code, ok := f.codes[id]
	if !ok {
		return domain.ErrNotFound
	}
	code.IsActive = active
	f.codes[id] = code
	return nil
}

func TestPayload(t *testing.T) {
	svc := NewService(newFakeRepo(), "https://pos.example.com")
	got := svc.Payload(domain.QRTable, "abc-123")
	assert.Equal(t, "https://pos.example.com/food/table/abc-123", got)
}

func TestGenerate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, "https://pos.example.com")

	resp, err := svc.Generate(context.Background(), domain.GenerateQRRequest{
		BusinessID: "biz",
		Type:       domain.QRMenuItem,
		TargetID:   "item-1",
	})
	require.NoError(t, err)

	assert.Equal(t, defaultSize, resp.Size)
	assert.Equal(t, "https://pos.example.com/food/menu_item/item-1", resp.Payload)
	assert.Contains(t, resp.ImageURL, resp.ID)

	png, err := base64.StdEncoding.DecodeString(resp.ImageBase64)
	require.NoError(t, err)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestBulkGenerate(t *testing.T) {
	svc := NewService(newFakeRepo(), "http://localhost:8080")
	resps, err := svc.BulkGenerate(context.Background(), domain.BulkGenerateQRRequest{
		BusinessID: "biz",
		Type:       domain.QRTable,
		TargetIDs:  []string{"t1", "t2", "t3"},
		Size:       128,
	})
	require.NoError(t, err)
	require.Len(t, resps, 3)
	for _, r := range resps {
		assert.Equal(t, 128, r.Size)
	}
}

func TestScanCountsAndRevoke(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, "http://localhost:8080")

	resp, err := svc.Generate(context.Background(), domain.GenerateQRRequest{
		BusinessID: "biz", Type: domain.QRTable, TargetID: "t1",
	})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		res, err := svc.Scan(context.Background(), resp.ID)
		require.NoError(t, err)
		assert.Equal(t, i, res.ScanCount)
	}

	require.NoError(t, svc.Revoke(context.Background(), "biz", resp.ID))
	_, err = svc.Scan(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetAndRevokeOtherBusiness(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, "http://localhost:8080")

	resp, err := svc.Generate(context.Background(), domain.GenerateQRRequest{
		BusinessID: "biz-a", Type: domain.QRTable, TargetID: "t1",
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "biz-b", resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Revoke(context.Background(), "biz-b", resp.ID), domain.ErrNotFound)

	got, err := svc.Get(context.Background(), "biz-a", resp.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}
