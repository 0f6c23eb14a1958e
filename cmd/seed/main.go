// Command seed loads catalog products from a YAML file into the products table.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"cake-shop/internal/config"
	"cake-shop/internal/domain"
	mmysql "cake-shop/internal/infra/mysql"
	"cake-shop/internal/logger"
	mysqlrepo "cake-shop/internal/repository/mysql"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type productFile struct {
	Products []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Price       int64  `yaml:"price"`
		ImageURL    string `yaml:"image_url"`
		Category    string `yaml:"category"`
	} `yaml:"products"`
}

func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("CAKESHOP_CONFIG"), "path to a YAML config file")
	file := pflag.StringP("file", "f", "products.yaml", "product list to load")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if _, err := logger.Init(cfg.Log.Level); err != nil {
		log.Fatalf("logger: %v", err)
	}

	products, err := readProducts(*file)
	if err != nil {
		zap.L().Fatal("read products", zap.String("file", *file), zap.Error(err))
	}

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		zap.L().Fatal("db: connect", zap.Error(err))
	}
	repo := mysqlrepo.NewProductRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	for i := range products {
		if err := repo.Save(ctx, &products[i]); err != nil {
			zap.L().Fatal("save product", zap.String("name", products[i].Name), zap.Error(err))
		}
	}
	zap.L().Info("catalog seeded", zap.Int("products", len(products)))
}

func readProducts(path string) ([]domain.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f productFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(f.Products))
	for i, p := range f.Products {
		if p.Name == "" || p.Price <= 0 {
			return nil, fmt.Errorf("product #%d: name and a positive price are required", i+1)
		}
		if !domain.IsKnownCategory(p.Category) || p.Category == domain.AllCategories {
			return nil, fmt.Errorf("product %q: unknown category %q", p.Name, p.Category)
		}
		out = append(out, domain.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
			Category:    p.Category,
		})
	}
	return out, nil
}
