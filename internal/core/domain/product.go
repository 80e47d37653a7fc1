package domain

type Product struct {
	ProductID      string
	Name           string
	Category       string
	UnitPriceCents int64
	StockCount     int
	WeightOz       float64
}

// A ProductIndex is a point-in-time catalog snapshot keyed by product id.
type ProductIndex map[string]Product

func IndexProducts(ps []Product) ProductIndex {
	idx := make(ProductIndex, len(ps))
	for _, p := range ps {
		idx[p.ProductID] = p
	}
	return idx
}
