package handler

import (
	"net/http"

	"reistoq/internal/dto"
	"reistoq/internal/middleware"
	"reistoq/internal/service"

	"github.com/gin-gonic/gin"
)

type EstoqueHandler struct{ svc service.EstoqueService }

func NewEstoqueHandler(svc service.EstoqueService) *EstoqueHandler {
	return &EstoqueHandler{svc: svc}
}

// Hierarquia godoc
// @Summary      Visão hierárquica do estoque
// @Description  Produtos agrupados por pai, com totais, mínimo efetivo e resumo.
// @Tags         estoque
// @Security     BearerAuth
// @Param        categoria     query string false "Categoria"
// @Param        local         query string false "Local de estoque"
// @Param        incluir_todos query bool   false "Incluir inativos"
// @Param        busca         query string false "SKU ou nome"
// @Param        status        query string false "todos|em_estoque|estoque_baixo|sem_estoque|excesso"
// @Param        tipo          query string false "todos|pai|filho|avulso|orfao"
// @Success      200 {object} dto.HierarquiaResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/estoque/hierarquia [get]
func (h *EstoqueHandler) Hierarquia(c *gin.Context) {
	var q dto.ConsultaEstoque
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Hierarquia(c.Request.Context(), q)
	if err != nil {
		falhaInterna(c, err, "Erro ao montar a visão de estoque")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pagina godoc
// @Summary      Página do estoque sem quebrar grupos
// @Description  Grupos que começam na página são exibidos inteiros; linhas puxadas de fora vêm com transbordo=true.
// @Tags         estoque
// @Security     BearerAuth
// @Param        page  query int false "Página (padrão 1)"
// @Param        limit query int false "Itens por página"
// @Success      200 {object} dto.PaginaEstoqueResponse
// @Router       /v1/estoque/pagina [get]
func (h *EstoqueHandler) Pagina(c *gin.Context) {
	var q dto.ConsultaEstoque
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Pagina(c.Request.Context(), q)
	if err != nil {
		falhaInterna(c, err, "Erro ao paginar o estoque")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) Alertas(c *gin.Context) {
	var q dto.ConsultaEstoque
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Alertas(c.Request.Context(), q)
	if err != nil {
		falhaInterna(c, err, "Erro ao obter alertas")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarEstoque PATCH /v1/produtos/:id/estoque
func (h *EstoqueHandler) AjustarEstoque(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AjustarEstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarEstoque(c.Request.Context(), id, middleware.UsuarioID(c), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EstoqueHandler) ListarMovimentos(c *gin.Context) {
	var filter dto.MovimentoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimentos(c.Request.Context(), filter)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Vincular POST /v1/estoque/vinculos
func (h *EstoqueHandler) Vincular(c *gin.Context) {
	var req dto.VincularRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Vincular(c.Request.Context(), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desvincular DELETE /v1/estoque/vinculos/:sku
func (h *EstoqueHandler) Desvincular(c *gin.Context) {
	resp, err := h.svc.Desvincular(c.Request.Context(), c.Param("sku"))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
