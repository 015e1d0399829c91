package router

import (
	"context"
	"time"

	"reistoq/internal/config"
	"reistoq/internal/handler"
	"reistoq/internal/infra"
	"reistoq/internal/middleware"
	"reistoq/internal/model"
	"reistoq/internal/repository"
	"reistoq/internal/service"
	"reistoq/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// NewEstoqueService builds the stock service shared by the HTTP layer and the
// alert cron. A nil rdb disables both the cache and the alert queue.
func NewEstoqueService(cfg *config.Config, db *gorm.DB, rdb *redis.Client) service.EstoqueService {
	var notifier service.AlertaNotifier
	if rdb != nil {
		notifier = worker.NewDispatcher(rdb)
	}
	return service.NewEstoqueService(
		repository.NewProdutoRepository(db),
		repository.NewMovimentoEstoqueRepository(db),
		infra.NewCache(rdb, cfg.CacheTTL()),
		notifier,
		service.EstoqueConfig{
			TamanhoPagina: cfg.PaginaTamanhoPadrao,
			Destinatarios: cfg.DestinatariosAlerta(),
		},
	)
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, estoqueSvc service.EstoqueService) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	metrics := middleware.NewMetrics()
	registrarDLQ(metrics.Registry(), rdb)

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPorMinuto))

	cache := infra.NewCache(rdb, cfg.CacheTTL())

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	historicoRepo := repository.NewHistoricoPrecoRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	mapeamentoRepo := repository.NewSkuMapeamentoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	produtoSvc := service.NewProdutoService(produtoRepo, historicoRepo, cache)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	mapeamentoSvc := service.NewSkuMapeamentoService(mapeamentoRepo, produtoRepo)
	relatorioSvc := service.NewRelatorioService(produtoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	estoqueH := handler.NewEstoqueHandler(estoqueSvc)
	relatoriosH := handler.NewRelatoriosHandler(relatorioSvc)
	mapeamentosH := handler.NewSkuMapeamentosHandler(mapeamentoSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", metrics.Handler())

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	todos := middleware.RequireRole(model.RolOperador, model.RolGestor, model.RolAdministrador)
	gestao := middleware.RequireRole(model.RolGestor, model.RolAdministrador)
	admin := middleware.RequireRole(model.RolAdministrador)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/produtos", todos, produtosH.Listar)
		v1.GET("/produtos/:id", todos, produtosH.ObterPorID)
		v1.GET("/produtos/sku/:sku", todos, produtosH.ObterPorSKU)
		v1.GET("/produtos/:id/historico-precos", todos, produtosH.HistoricoPrecos)
		v1.PATCH("/produtos/:id/estoque", gestao, estoqueH.AjustarEstoque)
		prods := v1.Group("/produtos", admin)
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Desativar)
			prods.PATCH("/:id/reativar", produtosH.Reativar)
		}

		est := v1.Group("/estoque")
		{
			est.GET("/hierarquia", todos, estoqueH.Hierarquia)
			est.GET("/pagina", todos, estoqueH.Pagina)
			est.GET("/alertas", todos, estoqueH.Alertas)
			est.GET("/movimentos", todos, estoqueH.ListarMovimentos)
			est.GET("/relatorio.xlsx", gestao, relatoriosH.XLSX)
			est.GET("/relatorio.pdf", gestao, relatoriosH.PDF)
			est.POST("/vinculos", gestao, estoqueH.Vincular)
			est.DELETE("/vinculos/:sku", gestao, estoqueH.Desvincular)
		}

		mapas := v1.Group("/sku-mapeamentos", gestao)
		{
			mapas.POST("", mapeamentosH.Criar)
			mapas.GET("", mapeamentosH.Listar)
			mapas.GET("/resolver", mapeamentosH.Resolver)
			mapas.POST("/importar", mapeamentosH.Importar)
			mapas.PUT("/:id", mapeamentosH.Atualizar)
			mapas.DELETE("/:id", mapeamentosH.Excluir)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
			usuarios.PATCH("/:id/reativar", usuariosH.Reativar)
		}

		// Categorias: administrador writes, every role reads
		v1.GET("/categorias", todos, categoriasH.Listar)
		categorias := v1.Group("/categorias", admin)
		{
			categorias.POST("", categoriasH.Criar)
			categorias.PUT("/:id", categoriasH.Atualizar)
			categorias.DELETE("/:id", categoriasH.Desativar)
		}
	}

	// Swagger UI: only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// registrarDLQ exposes the alert DLQ depth as a gauge read on each scrape.
func registrarDLQ(reg *prometheus.Registry, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "reistoq_dlq_jobs",
		Help: "Jobs parked in the low-stock alert dead letter queue.",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		n, err := worker.DLQLength(ctx, rdb, worker.QueueAlertaEstoque)
		if err != nil {
			log.Warn().Err(err).Msg("metrics: failed to read DLQ length")
			return 0
		}
		return float64(n)
	}))
}
