package estoque

import (
	"strconv"
	"sync"

	"reistoq/internal/model"

	"github.com/cespare/xxhash/v2"
)

// Impressao hashes every field that can change the grouped output. Two
// lists with the same contents in the same order hash equally.
func Impressao(produtos []model.Produto) uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)
	campo := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	inteiro := func(v int64) {
		buf = strconv.AppendInt(buf[:0], v, 10)
		buf = append(buf, 0)
		_, _ = d.Write(buf)
	}

	inteiro(int64(len(produtos)))
	for i := range produtos {
		p := &produtos[i]
		campo(p.ID.String())
		campo(p.SkuInterno)
		campo(p.Nome)
		campo(p.ReferenciaPai())
		campo(p.Categoria)
		campo(p.LocalEstoque)
		campo(p.PrecoCusto.String())
		campo(p.PrecoVenda.String())
		campo(strconv.FormatBool(p.EhProdutoPai))
		campo(strconv.FormatBool(p.Ativo))
		inteiro(int64(p.QuantidadeAtual))
		inteiro(int64(p.EstoqueMinimo))
		inteiro(int64(p.EstoqueMaximo))
		inteiro(p.UpdatedAt.UnixNano())
	}
	return d.Sum64()
}

// Memo keeps the last grouping and recomputes it only when the input hash
// changes. The returned slice is shared between callers and must not be
// modified. Safe for concurrent use.
type Memo struct {
	mu         sync.Mutex
	chave      uint64
	valido     bool
	grupos     []Grupo
	recalculos int
}

// Agrupar returns Agrupar(produtos), reusing the cached result when the
// input hashes to the same value as last time.
func (m *Memo) Agrupar(produtos []model.Produto) []Grupo {
	chave := Impressao(produtos)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valido && m.chave == chave {
		return m.grupos
	}
	m.grupos = Agrupar(produtos)
	m.chave = chave
	m.valido = true
	m.recalculos++
	return m.grupos
}

// Invalidar drops the cached grouping.
func (m *Memo) Invalidar() {
	m.mu.Lock()
	m.valido = false
	m.grupos = nil
	m.mu.Unlock()
}

// Recalculos reports how many times the grouping was actually computed.
func (m *Memo) Recalculos() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recalculos
}
