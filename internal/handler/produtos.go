package handler

import (
	"net/http"

	"reistoq/internal/apierror"
	"reistoq/internal/dto"
	"reistoq/internal/service"

	"github.com/gin-gonic/gin"
)

type ProdutosHandler struct{ svc service.ProdutoService }

func NewProdutosHandler(svc service.ProdutoService) *ProdutosHandler {
	return &ProdutosHandler{svc: svc}
}

// Criar godoc
// @Summary      Cadastrar produto
// @Tags         produtos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body     dto.CriarProdutoRequest true "Produto"
// @Success      201  {object} dto.ProdutoResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/produtos [post]
func (h *ProdutosHandler) Criar(c *gin.Context) {
	var req dto.CriarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProdutosHandler) Listar(c *gin.Context) {
	var filter dto.ProdutoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		falhaInterna(c, err, "Erro ao listar produtos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) ObterPorID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) ObterPorSKU(c *gin.Context) {
	resp, err := h.svc.ObterPorSKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AtualizarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) Desativar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Desativar(c.Request.Context(), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProdutosHandler) Reativar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Reativar(c.Request.Context(), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type historicoQuery struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

// HistoricoPrecos godoc
// @Summary      Histórico de preços de um produto
// @Description  Alterações de custo e venda, mais recentes primeiro.
// @Tags         produtos
// @Security     BearerAuth
// @Param        id    path     string  true  "UUID do produto"
// @Param        page  query    int     false "Página (padrão 1)"
// @Param        limit query    int     false "Registros por página (padrão 50, máx. 200)"
// @Success      200   {object} dto.HistoricoPrecoListResponse
// @Failure      404   {object} apierror.APIError
// @Router       /v1/produtos/{id}/historico-precos [get]
func (h *ProdutosHandler) HistoricoPrecos(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var q historicoQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.ListarHistoricoPrecos(c.Request.Context(), id, q.Page, q.Limit)
	if err != nil {
		if statusDe(err) == http.StatusNotFound {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		falhaInterna(c, err, "Erro ao obter histórico de preços")
		return
	}
	c.JSON(http.StatusOK, resp)
}
