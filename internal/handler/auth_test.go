package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"reistoq/internal/config"
	"reistoq/internal/dto"
	"reistoq/internal/handler"
	"reistoq/internal/middleware"
	"reistoq/internal/model"
	"reistoq/internal/repository"
	"reistoq/internal/service"
	"reistoq/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "segredo-de-teste"

func authRouter(t *testing.T) (*gin.Engine, service.AuthService) {
	t.Helper()
	svc := service.NewAuthService(
		repository.NewUsuarioRepository(testutil.NewSQLiteDB(t)),
		&config.Config{JWTSecret: testSecret, JWTExpirationHours: 1, JWTRefreshHours: 24},
	)
	authH := handler.NewAuthHandler(svc)
	usuariosH := handler.NewUsuariosHandler(svc)

	r := gin.New()
	r.POST("/login", authH.Login)
	r.POST("/refresh", authH.Refresh)
	u := r.Group("/usuarios", middleware.JWTAuth(testSecret), middleware.RequireRole(model.RolAdministrador))
	u.GET("", usuariosH.Listar)
	u.DELETE("/:id", usuariosH.Desativar)
	return r, svc
}

func TestAuthLoginHTTP(t *testing.T) {
	r, svc := authRouter(t)
	admin, err := svc.CriarUsuario(t.Context(), dto.CriarUsuarioRequest{
		Username: "admin", Nome: "Admin", Password: "senha-forte", Rol: model.RolAdministrador,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodPost, "/login", dto.LoginRequest{Username: "admin", Password: "errada"}).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, doJSON(r, http.MethodPost, "/login", dto.LoginRequest{Username: "admin"}).Code)

	w := doJSON(r, http.MethodPost, "/login", dto.LoginRequest{Username: "admin", Password: "senha-forte"})
	require.Equal(t, http.StatusOK, w.Code)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = doJSON(r, http.MethodPost, "/refresh", dto.RefreshRequest{RefreshToken: login.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(r, http.MethodPost, "/refresh", dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, http.StatusOK, w.Code)

	req := func(method, path, token string) int {
		rq, _ := http.NewRequest(method, path, nil)
		rq.Header.Set("Authorization", "Bearer "+token)
		rw := doRaw(r, rq)
		return rw.Code
	}
	assert.Equal(t, http.StatusOK, req(http.MethodGet, "/usuarios", login.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, req(http.MethodGet, "/usuarios", login.RefreshToken))
	assert.Equal(t, http.StatusBadRequest, req(http.MethodDelete, "/usuarios/"+admin.ID, login.AccessToken),
		"admins cannot deactivate themselves")
}
