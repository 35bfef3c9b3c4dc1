package services

import "salepoint/internal/repos"

const lowStockThreshold = 10

type ReportService struct {
	Reports *repos.ReportRepo
}

func NewReportService(reports *repos.ReportRepo) *ReportService {
	return &ReportService{Reports: reports}
}

// Dashboard aggregates for the landing page. Low-stock and top-product
// panels are manager-only; callers pass the role decision in.
type Dashboard struct {
	LowStock    []repos.LowStockRow
	Today       repos.SalesSummary
	Month       repos.SalesSummary
	TopProducts []repos.ProductTotal
}

func (s *ReportService) Dashboard(manager bool) (Dashboard, error) {
	var d Dashboard
	var err error

	if manager {
		if d.LowStock, err = s.Reports.LowStock(lowStockThreshold); err != nil {
			return Dashboard{}, err
		}
		if d.TopProducts, err = s.Reports.TopProducts(5); err != nil {
			return Dashboard{}, err
		}
	}
	if d.Today, err = s.Reports.TodaySales(); err != nil {
		return Dashboard{}, err
	}
	if d.Month, err = s.Reports.MonthSales(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

type SalesReport struct {
	Overall     repos.RevenueSummary
	Today       repos.RevenueSummary
	Month       repos.RevenueSummary
	TopProducts []repos.ProductTotal
}

func (s *ReportService) SalesReport() (SalesReport, error) {
	var r SalesReport
	var err error

	if r.Overall, err = s.Reports.OverallRevenue(); err != nil {
		return SalesReport{}, err
	}
	if r.Today, err = s.Reports.TodayRevenue(); err != nil {
		return SalesReport{}, err
	}
	if r.Month, err = s.Reports.MonthRevenue(); err != nil {
		return SalesReport{}, err
	}
	if r.TopProducts, err = s.Reports.TopProducts(10); err != nil {
		return SalesReport{}, err
	}
	return r, nil
}
