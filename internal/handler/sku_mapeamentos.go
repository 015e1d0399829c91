package handler

import (
	"net/http"

	"reistoq/internal/apierror"
	"reistoq/internal/dto"
	"reistoq/internal/service"

	"github.com/gin-gonic/gin"
)

// maxPlanilha caps the uploaded mapping spreadsheet.
const maxPlanilha = 10 << 20

type SkuMapeamentosHandler struct{ svc service.SkuMapeamentoService }

func NewSkuMapeamentosHandler(svc service.SkuMapeamentoService) *SkuMapeamentosHandler {
	return &SkuMapeamentosHandler{svc: svc}
}

func (h *SkuMapeamentosHandler) Criar(c *gin.Context) {
	var req dto.CriarSkuMapeamentoRequest
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

func (h *SkuMapeamentosHandler) Listar(c *gin.Context) {
	var filter dto.SkuMapeamentoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		falhaInterna(c, err, "Erro ao listar mapeamentos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SkuMapeamentosHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AtualizarSkuMapeamentoRequest
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

func (h *SkuMapeamentosHandler) Excluir(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Resolver godoc
// @Summary      Resolver SKU de marketplace
// @Tags         sku-mapeamentos
// @Security     BearerAuth
// @Param        marketplace     query string true "mercadolivre|shopee|amazon"
// @Param        sku_marketplace query string true "SKU do anúncio"
// @Success      200 {object} dto.ResolucaoSkuResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sku-mapeamentos/resolver [get]
func (h *SkuMapeamentosHandler) Resolver(c *gin.Context) {
	var q dto.ResolverSkuQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Resolver(c.Request.Context(), q)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Importar POST /v1/sku-mapeamentos/importar (multipart, field "arquivo")
func (h *SkuMapeamentosHandler) Importar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPlanilha)
	fh, err := c.FormFile("arquivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("arquivo .xlsx é obrigatório no campo 'arquivo'"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("não foi possível ler o arquivo"))
		return
	}
	defer f.Close()

	resp, err := h.svc.ImportarXLSX(c.Request.Context(), f)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
