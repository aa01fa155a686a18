package qr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dashpos/internal/domain"
)

// The PNG endpoint is registered on the public group so image_url can be
// dropped straight into an <img> tag without a bearer token.
func TestImageServedWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := newFakeRepo()
	svc := NewService(repo, "http://localhost:8080")
	resp, err := svc.Generate(context.Background(), domain.GenerateQRRequest{
		BusinessID: "biz", Type: domain.QRTable, TargetID: "t1",
	})
	require.NoError(t, err)

	h := NewHandler(svc, zap.NewNop())
	r := gin.New()
	h.RegisterPublic(r.Group("/qr"))

	req := httptest.NewRequest(http.MethodGet, "/qr/"+resp.ID+"/image", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	png := w.Body.Bytes()
	require.Greater(t, len(png), 4)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
