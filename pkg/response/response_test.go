package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErrors "github.com/kidzstudio/examportal/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Success(ctx, http.StatusCreated, gin.H{"message": "ok"})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Nil(t, resp.Error)
}

func TestSuccessWithMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	SuccessWithMeta(ctx, http.StatusOK, []string{"a", "b"}, &Meta{Total: 2, Sort: "order", Direction: "asc"})

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	require.Equal(t, 2, resp.Meta.Total)
	require.Equal(t, "order", resp.Meta.Sort)
}

func TestFragment(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Fragment(ctx, http.StatusOK, []byte("<nav></nav>"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, "<nav></nav>", rec.Body.String())
	require.Equal(t, bodyETag([]byte("<nav></nav>")), rec.Header().Get("ETag"))
}

func TestFragmentNotModified(t *testing.T) {
	r := gin.New()
	r.GET("/nav", func(c *gin.Context) {
		Fragment(c, http.StatusOK, []byte("<nav>exams</nav>"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nav", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.Len(t, etag, 18)

	for _, header := range []string{etag, `"other", W/` + etag, "*"} {
		req := httptest.NewRequest(http.MethodGet, "/nav", nil)
		req.Header.Set("If-None-Match", header)
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotModified, rec.Code, header)
		require.Empty(t, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/nav", nil)
	req.Header.Set("If-None-Match", `"stale"`)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "<nav>exams</nav>", rec.Body.String())
}

func TestErrorWithAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Error(ctx, fmt.Errorf("lookup: %w", appErrors.ErrMenuNotFound))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	require.Equal(t, appErrors.ErrMenuNotFound.Code, resp.Error.Code)
}

func TestErrorWithGenericError(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Error(ctx, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
