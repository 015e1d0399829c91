// Fills the database with a fake catalogue: parents with variant children,
// standalone products and a few orphans whose parent SKU does not exist.
// Usage: go run ./cmd/seedcatalogo -grupos 40 -seed 7
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"reistoq/internal/config"
	"reistoq/internal/infra"
	"reistoq/internal/model"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

var (
	categorias = []string{"Canecas", "Camisetas", "Velas", "Cadernos", "Chaveiros"}
	locais     = []string{"A1", "A2", "B1", "B2", "C1"}
	variacoes  = []string{"P", "M", "G", "GG", "AZUL", "PRETO", "BRANCO"}
)

// gerarCatalogo builds grupos parent groups, as many standalone products and
// a handful of orphans. SKUs are unique within one call.
func gerarCatalogo(f *gofakeit.Faker, grupos int) ([]model.Categoria, []model.Produto) {
	cats := make([]model.Categoria, 0, len(categorias))
	for _, nome := range categorias {
		cats = append(cats, model.Categoria{Nome: nome, Ativo: true})
	}

	var out []model.Produto
	novo := func(sku string) model.Produto {
		custo := decimal.NewFromFloat(f.Price(2, 80)).Round(2)
		margem := decimal.NewFromFloat(1 + float64(f.Number(20, 120))/100)
		return model.Produto{
			SkuInterno:      sku,
			Nome:            f.ProductName(),
			Categoria:       f.RandomString(categorias),
			LocalEstoque:    f.RandomString(locais),
			PrecoCusto:      custo,
			PrecoVenda:      custo.Mul(margem).Round(2),
			QuantidadeAtual: f.Number(0, 60),
			EstoqueMinimo:   f.Number(0, 10),
			UnidadeMedida:   "un",
			Ativo:           true,
		}
	}

	for i := range grupos {
		base := fmt.Sprintf("%s-%03d", prefixo(f), i+1)

		pai := novo(base)
		pai.EhProdutoPai = true
		pai.QuantidadeAtual = 0
		if f.Bool() {
			pai.EstoqueMinimo = 0 // fall back to the children's minimums
		}
		out = append(out, pai)

		vs := append([]string(nil), variacoes...)
		f.ShuffleStrings(vs)
		for _, v := range vs[:f.Number(1, 4)] {
			filho := novo(base + "-" + v)
			filho.Nome = pai.Nome + " " + v
			filho.Categoria = pai.Categoria
			filho.SkuPai = &pai.SkuInterno
			out = append(out, filho)
		}

		out = append(out, novo(fmt.Sprintf("AV-%04d", i+1)))
	}

	for i := range max(1, grupos/10) {
		orfao := novo(fmt.Sprintf("OR-%03d-U", i+1))
		ausente := fmt.Sprintf("SEM-PAI-%03d", i+1)
		orfao.SkuPai = &ausente
		out = append(out, orfao)
	}
	return cats, out
}

func prefixo(f *gofakeit.Faker) string {
	return strings.ToUpper(f.LetterN(3))
}

func main() {
	grupos := flag.Int("grupos", 40, "number of parent groups")
	seed := flag.Uint64("seed", 0, "random seed (0 = random)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg.Env, cfg.LogLevel)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}

	cats, produtos := gerarCatalogo(gofakeit.New(*seed), *grupos)

	ctx := context.Background()
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&cats).Error; err != nil {
		log.Fatal().Err(err).Msg("categorias insert error")
	}
	res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&produtos, 200)
	if res.Error != nil {
		log.Fatal().Err(res.Error).Msg("produtos insert error")
	}
	log.Info().Int64("inseridos", res.RowsAffected).Int("gerados", len(produtos)).Msg("catalogue seeded")
}
