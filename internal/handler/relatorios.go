package handler

import (
	"fmt"
	"net/http"
	"time"

	"reistoq/internal/dto"
	"reistoq/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

type RelatoriosHandler struct {
	svc service.RelatorioService
	now func() time.Time
}

func NewRelatoriosHandler(svc service.RelatorioService) *RelatoriosHandler {
	return &RelatoriosHandler{svc: svc, now: time.Now}
}

func (h *RelatoriosHandler) anexo(c *gin.Context, ext, mime string, data []byte) {
	nome := fmt.Sprintf("estoque-%s.%s", h.now().Format("20060102-1504"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nome))
	c.Data(http.StatusOK, mime, data)
}

// XLSX godoc
// @Summary      Relatório de estoque em planilha
// @Tags         estoque
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /v1/estoque/relatorio.xlsx [get]
func (h *RelatoriosHandler) XLSX(c *gin.Context) {
	var q dto.ConsultaEstoque
	if !bindQuery(c, &q) {
		return
	}
	data, err := h.svc.ExportarXLSX(c.Request.Context(), q)
	if err != nil {
		falhaInterna(c, err, "Erro ao gerar planilha")
		return
	}
	h.anexo(c, "xlsx", mimeXLSX, data)
}

func (h *RelatoriosHandler) PDF(c *gin.Context) {
	var q dto.ConsultaEstoque
	if !bindQuery(c, &q) {
		return
	}
	data, err := h.svc.ExportarPDF(c.Request.Context(), q)
	if err != nil {
		falhaInterna(c, err, "Erro ao gerar PDF")
		return
	}
	h.anexo(c, "pdf", mimePDF, data)
}
