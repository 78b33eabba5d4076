package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lenormand-api/internal/adapter/http/dto"
	"lenormand-api/internal/adapter/http/middleware"
	"lenormand-api/internal/core/domain"
	"lenormand-api/internal/core/ports"
	"lenormand-api/internal/core/ports/mocks"
	"lenormand-api/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(t *testing.T, method, path string, payload any) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func asAuthenticated(c *gin.Context, user *domain.User, token string) {
	c.Set(middleware.CtxUserID, user.ID)
	c.Set(middleware.CtxUserKey, user)
	c.Set(middleware.CtxSessionToken, token)
}

// --- Auth handler tests ---

func TestSendCode_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().SendCode(gomock.Any(), "+8613800001111").
		Return(&ports.SendCodeResult{Delivered: true}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/send-code", dto.SendCodeRequest{Phone: "+8613800001111"})
	h.SendCode(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Verification code sent", resp["message"])
	assert.NotContains(t, resp, "demoCode")
}

func TestSendCode_DemoCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().SendCode(gomock.Any(), "+8613800001111").
		Return(&ports.SendCodeResult{DemoCode: "123456"}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/send-code", dto.SendCodeRequest{Phone: "+8613800001111"})
	h.SendCode(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "123456", resp["demoCode"])
}

func TestSendCode_InvalidPhone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/send-code", dto.SendCodeRequest{Phone: "not-a-phone"})
	h.SendCode(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestSendCode_VendorTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().SendCode(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrSMSTimeout(context.DeadlineExceeded))

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/send-code", dto.SendCodeRequest{Phone: "+8613800001111"})
	h.SendCode(c)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	user := domain.NewUser("+8613800001111")
	mockAuth.EXPECT().Login(gomock.Any(), "+8613800001111", "123456").
		Return(&ports.LoginResult{User: user, Token: "tok_abc"}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Phone: "+8613800001111",
		Code:  "123456",
	})
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tok_abc", resp["token"])
	assert.Equal(t, "Login successful", resp["message"])
	userBody := resp["user"].(map[string]any)
	assert.Equal(t, user.Phone, userBody["phone"])
}

func TestLogin_WrongCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInvalidCode())

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Phone: "+8613800001111",
		Code:  "999999",
	})
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestLogin_ShortCodeRejectedBeforeService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Phone: "+8613800001111",
		Code:  "123",
	})
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockAuthService(ctrl))
	user := domain.NewUser("+8613800001111")

	w, c := jsonRequest(t, http.MethodGet, "/api/auth/me", nil)
	asAuthenticated(c, user, "tok_abc")
	h.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	me := resp["user"].(map[string]any)
	assert.Equal(t, user.ID.String(), me["id"])
	assert.Equal(t, user.Username, me["username"])
}

func TestLogout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Logout(gomock.Any(), "tok_abc").Return(nil)

	user := domain.NewUser("+8613800001111")
	w, c := jsonRequest(t, http.MethodPost, "/api/auth/logout", nil)
	asAuthenticated(c, user, "tok_abc")
	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, w.Body.String())
}

func TestUpdateProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	user := domain.NewUser("+8613800001111")
	updated := *user
	updated.Username = "Night Owl"

	mockAuth.EXPECT().UpdateProfile(gomock.Any(), user.ID, gomock.Any()).
		DoAndReturn(func(_ any, _ uuid.UUID, update ports.ProfileUpdate) (*domain.User, error) {
			require.NotNil(t, update.Username)
			assert.Equal(t, "Night Owl", *update.Username)
			assert.Nil(t, update.Avatar)
			return &updated, nil
		})

	name := "Night Owl"
	w, c := jsonRequest(t, http.MethodPut, "/api/auth/profile", dto.UpdateProfileRequest{Username: &name})
	asAuthenticated(c, user, "tok_abc")
	h.UpdateProfile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Night Owl")
}

// --- Reading handler tests ---

func newTestReading(userID uuid.UUID) *domain.Reading {
	return &domain.Reading{
		ID:     uuid.New(),
		UserID: userID,
		Date:   "2026-08-28",
		Title:  "Morning draw",
		Cards: []domain.Card{
			{ID: 1, Name: "Rider"},
			{ID: 17, Name: "Stork"},
			{ID: 28, Name: "Man"},
		},
		Interpretation: "Change arrives with news.",
		SpreadType:     3,
	}
}

func TestReadingList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockReadingService(ctrl)
	h := NewReadingHandler(mockSvc)

	user := domain.NewUser("+8613800001111")
	mockSvc.EXPECT().List(gomock.Any(), user.ID).Return([]domain.Reading{*newTestReading(user.ID)}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/api/readings", nil)
	asAuthenticated(c, user, "tok_abc")
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Morning draw", resp[0]["title"])
}

func TestReadingList_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockReadingService(ctrl)
	h := NewReadingHandler(mockSvc)

	user := domain.NewUser("+8613800001111")
	mockSvc.EXPECT().List(gomock.Any(), user.ID).Return([]domain.Reading{}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/api/readings", nil)
	asAuthenticated(c, user, "tok_abc")
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestReadingCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockReadingService(ctrl)
	h := NewReadingHandler(mockSvc)

	user := domain.NewUser("+8613800001111")
	stored := newTestReading(user.ID)

	mockSvc.EXPECT().Create(gomock.Any(), user.ID, gomock.Any()).
		DoAndReturn(func(_ any, _ uuid.UUID, draft *domain.Reading) (*domain.Reading, error) {
			assert.Equal(t, "Morning draw", draft.Title)
			assert.Len(t, draft.Cards, 3)
			return stored, nil
		})

	w, c := jsonRequest(t, http.MethodPost, "/api/readings", dto.CreateReadingRequest{
		Date:  "2026-08-28",
		Title: "Morning draw",
		Cards: []dto.CardPayload{
			{ID: 1, Name: "Rider"},
			{ID: 17, Name: "Stork"},
			{ID: 28, Name: "Man"},
		},
		Interpretation: "Change arrives with news.",
		SpreadType:     3,
	})
	asAuthenticated(c, user, "tok_abc")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), stored.ID.String())
}

func TestReadingCreate_MissingCards(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockReadingService(ctrl)
	h := NewReadingHandler(mockSvc)

	user := domain.NewUser("+8613800001111")
	w, c := jsonRequest(t, http.MethodPost, "/api/readings", dto.CreateReadingRequest{
		Date:           "2026-08-28",
		Title:          "Morning draw",
		Interpretation: "text",
		SpreadType:     3,
	})
	asAuthenticated(c, user, "tok_abc")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReadingGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockReadingService(ctrl)
	h := NewReadingHandler(mockSvc)

	user := domain.NewUser("+8613800001111")
	id := uuid.New()
	mockSvc.EXPECT().Get(gomock.Any(), user.ID, id).Return(nil, apperror.ErrNotFound("Reading"))

	w, c := jsonRequest(t, http.MethodGet, "/api/readings/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	asAuthenticated(c, user, "tok_abc")
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadingGet_MalformedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewReadingHandler(mocks.NewMockReadingService(ctrl))

	user := domain.NewUser("+8613800001111")
	w, c := jsonRequest(t, http.MethodGet, "/api/readings/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	asAuthenticated(c, user, "tok_abc")
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadingUpdateReflection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockReadingService(ctrl)
	h := NewReadingHandler(mockSvc)

	user := domain.NewUser("+8613800001111")
	stored := newTestReading(user.ID)
	reflection := "it came true"
	stored.Reflection = &reflection

	mockSvc.EXPECT().UpdateReflection(gomock.Any(), user.ID, stored.ID, "it came true").
		Return(stored, nil)

	w, c := jsonRequest(t, http.MethodPatch, "/api/readings/"+stored.ID.String(), dto.UpdateReflectionRequest{
		Reflection: "it came true",
	})
	c.Params = gin.Params{{Key: "id", Value: stored.ID.String()}}
	asAuthenticated(c, user, "tok_abc")
	h.UpdateReflection(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "it came true")
}

func TestReadingDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockReadingService(ctrl)
	h := NewReadingHandler(mockSvc)

	user := domain.NewUser("+8613800001111")
	id := uuid.New()
	mockSvc.EXPECT().Delete(gomock.Any(), user.ID, id).Return(nil)

	w, c := jsonRequest(t, http.MethodDelete, "/api/readings/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	asAuthenticated(c, user, "tok_abc")
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Reading deleted"}`, w.Body.String())
}

// --- Health check ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(_ context.Context) error { return s.err }
func (s stubChecker) Name() string                 { return s.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	router := gin.New()
	router.GET("/api/health", HealthCheck(stubChecker{name: "postgresql"}, stubChecker{name: "redis"}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "All systems operational", resp["message"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	router := gin.New()
	router.GET("/api/health", HealthCheck(
		stubChecker{name: "postgresql"},
		stubChecker{name: "redis", err: errors.New("connection refused")},
	))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]any)
	redisDep := deps["redis"].(map[string]any)
	assert.Equal(t, "unhealthy", redisDep["status"])
}
