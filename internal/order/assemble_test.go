package order

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tiendaviva/storefront-backend/internal/product"
)

// assembleCatalog prices product 1 differently from the fixture's stored
// unit price so snapshot and live values are distinguishable.
func assembleCatalog() *stubCatalog {
	return &stubCatalog{products: map[int]product.Product{
		1: {ID: 1, Name: "Arroz Extra", Price: decimal.RequireFromString("11.50"), ImageURL: "/img/arroz.jpg", Presentation: "Bolsa 1kg"},
	}}
}

func assembledFixture() Order {
	return Order{
		ID:     "ORD-1-AAAAA",
		Status: StatusProcessing,
		Items: []OrderItem{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00"), ProductName: "Arroz Extra (oferta)", ProductImage: "/img/arroz-oferta.jpg"},
		},
	}
}

func TestAssemble_SnapshotWinsForNameAndImage(t *testing.T) {
	asm := NewAssembler(assembleCatalog())

	ord := asm.Assemble(assembledFixture())
	snap := ord.Items[0].Product
	if snap == nil {
		t.Fatal("expected a product snapshot")
	}

	// the name and image the buyer saw at checkout, even though the
	// catalog has since changed them
	if snap.Name != "Arroz Extra (oferta)" {
		t.Errorf("name = %q, want the purchase-time snapshot", snap.Name)
	}
	if snap.ImageURL != "/img/arroz-oferta.jpg" {
		t.Errorf("imageUrl = %q, want the purchase-time snapshot", snap.ImageURL)
	}

	// price and presentation always come from the live catalog, even
	// though the item was bought at 10.00
	if !snap.Price.Equal(decimal.RequireFromString("11.50")) {
		t.Errorf("price = %s, want live catalog price 11.50", snap.Price)
	}
	if snap.Presentation != "Bolsa 1kg" {
		t.Errorf("presentation = %q, want live catalog value", snap.Presentation)
	}
}

func TestAssemble_LegacyRowFallsBackToCatalog(t *testing.T) {
	asm := NewAssembler(assembleCatalog())

	ord := assembledFixture()
	ord.Items[0].ProductName = ""
	ord.Items[0].ProductImage = ""

	snap := asm.Assemble(ord).Items[0].Product
	if snap == nil {
		t.Fatal("expected a product snapshot")
	}
	if snap.Name != "Arroz Extra" || snap.ImageURL != "/img/arroz.jpg" {
		t.Errorf("rows without snapshots should use the live catalog, got %+v", snap)
	}
}

func TestAssemble_UnknownProductYieldsNilSnapshot(t *testing.T) {
	asm := NewAssembler(testCatalog())

	ord := assembledFixture()
	ord.Items[0].ProductID = 99
	ord.Items[0].ProductName = ""
	ord.Items[0].ProductImage = ""

	if snap := asm.Assemble(ord).Items[0].Product; snap != nil {
		t.Errorf("product removed from catalog with no snapshot should assemble to nil, got %+v", snap)
	}
}

func TestAssemble_SetsStatusLabel(t *testing.T) {
	asm := NewAssembler(testCatalog())

	ord := assembledFixture()
	ord.Status = StatusShipped

	if got := asm.Assemble(ord).StatusLabel; got != "Enviado" {
		t.Errorf("statusLabel = %q, want Enviado", got)
	}
}

func TestAssembleAll_SurvivesCatalogOutage(t *testing.T) {
	asm := NewAssembler(&stubCatalog{err: errors.New("catalog unavailable")})

	orders := asm.AssembleAll([]Order{assembledFixture()})
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	// the snapshot still renders from stored data alone
	snap := orders[0].Items[0].Product
	if snap == nil || snap.Name != "Arroz Extra (oferta)" {
		t.Errorf("snapshot should render without the catalog, got %+v", snap)
	}
	if orders[0].StatusLabel != "Procesando" {
		t.Errorf("statusLabel = %q", orders[0].StatusLabel)
	}
}
