package handlers

import (
	"github.com/jmoiron/sqlx"

	"salepoint/internal/repos"
	"salepoint/internal/services"
)

type Deps struct {
	DashboardHandler *DashboardHandler
	ProductHandler   *ProductHandler
	SupplierHandler  *SupplierHandler
	SaleHandler      *SaleHandler
	ReportHandler    *ReportHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	prodRepo := repos.NewProductRepo(db)
	supRepo := repos.NewSupplierRepo(db)
	saleRepo := repos.NewSaleRepo(db)
	reportRepo := repos.NewReportRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, supRepo)
	supplierSvc := services.NewSupplierService(supRepo)
	saleSvc := services.NewSaleService(db, saleRepo, prodRepo)
	reportSvc := services.NewReportService(reportRepo)

	return &Deps{
		DashboardHandler: &DashboardHandler{Reports: reportSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc, Suppliers: supplierSvc},
		SupplierHandler:  &SupplierHandler{Suppliers: supplierSvc},
		SaleHandler:      &SaleHandler{Sales: saleSvc, Catalog: catalogSvc},
		ReportHandler:    &ReportHandler{Reports: reportSvc},
	}
}
