package order

import "github.com/shopspring/decimal"

// Assembler joins stored orders with catalog display data into the response
// shape. Name and image prefer the snapshot taken at purchase time; price
// and presentation always reflect the catalog as it is now, and rows written
// before snapshotting existed fall back to the live catalog entirely.
type Assembler struct {
	catalog ProductCatalog
}

func NewAssembler(catalog ProductCatalog) *Assembler {
	return &Assembler{catalog: catalog}
}

// Assemble fills the display fields of a single order.
func (a *Assembler) Assemble(ord Order) Order {
	out := a.AssembleAll([]Order{ord})
	return out[0]
}

// AssembleAll fills display fields for a batch of orders with one catalog
// lookup across all of them.
func (a *Assembler) AssembleAll(orders []Order) []Order {
	ids := make([]int, 0)
	seen := make(map[int]struct{})
	for _, ord := range orders {
		for _, item := range ord.Items {
			if _, ok := seen[item.ProductID]; !ok {
				seen[item.ProductID] = struct{}{}
				ids = append(ids, item.ProductID)
			}
		}
	}

	live := a.lookup(ids)
	for oi := range orders {
		orders[oi].StatusLabel = orders[oi].Status.Label()
		for ii := range orders[oi].Items {
			item := &orders[oi].Items[ii]
			item.Product = buildSnapshot(item, live)
		}
	}
	return orders
}

func (a *Assembler) lookup(ids []int) map[int]productInfo {
	out := make(map[int]productInfo)
	if a.catalog == nil || len(ids) == 0 {
		return out
	}
	prods, err := a.catalog.ListByIDs(ids)
	if err != nil {
		// display-only data; the order itself is served regardless
		logger.Warn().Err(err).Msg("catalog lookup failed during order assembly")
		return out
	}
	for _, p := range prods {
		out[p.ID] = productInfo{
			name:         p.Name,
			price:        p.Price,
			imageURL:     p.ImageURL,
			presentation: p.Presentation,
		}
	}
	return out
}

type productInfo struct {
	name         string
	imageURL     string
	presentation string
	price        decimal.Decimal
}

func buildSnapshot(item *OrderItem, live map[int]productInfo) *ProductSnapshot {
	info, inCatalog := live[item.ProductID]

	snap := &ProductSnapshot{
		ID:    item.ProductID,
		Name:  item.ProductName,
		Price: item.UnitPrice,
	}
	snap.ImageURL = item.ProductImage
	if inCatalog {
		snap.Price = info.price
		snap.Presentation = info.presentation
		if snap.Name == "" {
			snap.Name = info.name
		}
		if snap.ImageURL == "" {
			snap.ImageURL = info.imageURL
		}
	}
	if snap.Name == "" && !inCatalog {
		// neither snapshot nor catalog knows this product anymore
		return nil
	}
	return snap
}
