package infra

import (
	"fmt"

	"reistoq/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&model.Categoria{},
		&model.Usuario{},
		&model.Produto{},
		&model.MovimentoEstoque{},
		&model.HistoricoPreco{},
		&model.SkuMapeamento{},
	}
}

// NewDatabase opens a GORM connection backed by pgx, runs AutoMigrate and
// then applies the idempotent SQL patches GORM cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}
	return db, nil
}

// RunMigrations creates or updates every table. It is dialect-neutral so the
// SQLite test databases share it.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return nil
}

// applySchemaPatches runs Postgres-only DDL: partial and expression indexes
// backing the stock view queries. Every statement is safe to re-run.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// children lookup by parent SKU, only rows that actually reference one
		`CREATE INDEX IF NOT EXISTS idx_produtos_sku_pai_ativos
		    ON produtos (sku_pai)
		    WHERE sku_pai IS NOT NULL AND ativo = true`,
		// case-insensitive search on the stock table
		`CREATE INDEX IF NOT EXISTS idx_produtos_nome_lower
		    ON produtos (LOWER(nome))`,
		// unmapped marketplace SKUs
		`CREATE INDEX IF NOT EXISTS idx_sku_mapeamentos_pendentes
		    ON sku_mapeamentos (marketplace)
		    WHERE sku_interno IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_movimentos_estoque_produto_data
		    ON movimentos_estoque (produto_id, created_at DESC)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
