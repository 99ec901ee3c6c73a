package services

// Product is one purchasable item. CourseIDs lists every course the
// buyer gets access to, so a bundle is just a product with more than
// one id.
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price"`
	ProductType   int     `json:"product_type"` // 1 = digital, per Shopier
	CourseIDs     []uint  `json:"course_ids"`
}

// Products is the read-only in-process catalog.
var Products = map[string]Product{
	"ustalik-sinifi": {
		ID:            "ustalik-sinifi",
		Name:          "Video Editörlüğü Ustalık Sınıfı",
		Price:         999.00,
		OriginalPrice: 5000.00,
		ProductType:   1,
		CourseIDs:     []uint{1},
	},
	"bundle": {
		ID:            "bundle",
		Name:          "Video Editörlüğü Tam Paket",
		Price:         899.00,
		OriginalPrice: 5999.00,
		ProductType:   1,
		CourseIDs:     []uint{1, 2},
	},
}

func GetProduct(id string) (Product, bool) {
	p, ok := Products[id]
	return p, ok
}

// GetProductByName resolves the product behind a persisted order,
// which only carries the display name.
func GetProductByName(name string) (Product, bool) {
	for _, p := range Products {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}
