// Package apptest provee dobles en memoria de los puertos de persistencia
// para las pruebas de casos de uso. El runner de transacciones simula
// commit/rollback con copia y restauración del estado, y el repositorio de
// stock replica la semántica condicional del store real: un ajuste que
// dejaría un saldo negativo no se aplica.
package apptest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

// Store estado compartido de todos los repos fake.
type Store struct {
	Products      map[string]*entity.Product
	Stock         map[string]*entity.StockTier // clave productID|tier
	Movements     []*entity.Movement
	Demandes      map[string]*entity.Demande
	Recipes       map[string]*entity.Recipe // clave finished product id
	Sales         map[string]*entity.Sale
	SaleItems     map[string][]*entity.SaleItem
	Cancellations map[string]*entity.SaleCancellation
	TicketSeq     map[string]int64 // clave YYYYMMDD
	Users         map[string]*entity.User
}

// NewStore construye un estado vacío.
func NewStore() *Store {
	return &Store{
		Products:      map[string]*entity.Product{},
		Stock:         map[string]*entity.StockTier{},
		Demandes:      map[string]*entity.Demande{},
		Recipes:       map[string]*entity.Recipe{},
		Sales:         map[string]*entity.Sale{},
		SaleItems:     map[string][]*entity.SaleItem{},
		Cancellations: map[string]*entity.SaleCancellation{},
		TicketSeq:     map[string]int64{},
		Users:         map[string]*entity.User{},
	}
}

func stockKey(productID, tier string) string { return productID + "|" + tier }

// SeedProduct agrega un producto.
func (s *Store) SeedProduct(p *entity.Product) { s.Products[p.ID] = p }

// SeedStock fija el saldo disponible de un producto en un nivel.
func (s *Store) SeedStock(productID, tier string, available, consumed decimal.Decimal) {
	s.Stock[stockKey(productID, tier)] = &entity.StockTier{
		ProductID: productID, Tier: tier, Available: available, Consumed: consumed,
	}
}

// Available devuelve el saldo disponible actual (cero si no hay registro).
func (s *Store) Available(productID, tier string) decimal.Decimal {
	if st, ok := s.Stock[stockKey(productID, tier)]; ok {
		return st.Available
	}
	return decimal.Zero
}

// MovementsByKind cuenta movimientos por tipo.
func (s *Store) MovementsByKind(kind string) []*entity.Movement {
	var out []*entity.Movement
	for _, m := range s.Movements {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// snapshot copia profunda del estado mutable para simular rollback.
func (s *Store) snapshot() *Store {
	c := NewStore()
	for k, v := range s.Products {
		p := *v
		c.Products[k] = &p
	}
	for k, v := range s.Stock {
		st := *v
		c.Stock[k] = &st
	}
	c.Movements = append(c.Movements, s.Movements...)
	for k, v := range s.Demandes {
		d := *v
		c.Demandes[k] = &d
	}
	for k, v := range s.Recipes {
		r := *v
		r.Lines = append([]entity.RecipeLine(nil), v.Lines...)
		c.Recipes[k] = &r
	}
	for k, v := range s.Sales {
		sa := *v
		c.Sales[k] = &sa
	}
	for k, v := range s.SaleItems {
		c.SaleItems[k] = append([]*entity.SaleItem(nil), v...)
	}
	for k, v := range s.Cancellations {
		a := *v
		c.Cancellations[k] = &a
	}
	for k, v := range s.TicketSeq {
		c.TicketSeq[k] = v
	}
	for k, v := range s.Users {
		u := *v
		c.Users[k] = &u
	}
	return c
}

func (s *Store) restore(from *Store) { *s = *from }

// ─── ProductRepo ─────────────────────────────────────────────────────────────

type ProductRepo struct{ S *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(p *entity.Product) error {
	for _, existing := range r.S.Products {
		if existing.Name == p.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.S.Products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.S.Products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *ProductRepo) GetByName(name string) (*entity.Product, error) {
	for _, p := range r.S.Products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.S.Products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	if p, ok := r.S.Products[productID]; ok {
		p.Cost = cost
	}
	return nil
}

func (r *ProductRepo) UpdatePrice(productID string, priceCents int64) error {
	if p, ok := r.S.Products[productID]; ok {
		p.PriceCents = priceCents
	}
	return nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.S.Products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ─── StockRepo ───────────────────────────────────────────────────────────────

type StockRepo struct{ S *Store }

var _ repository.StockRepository = (*StockRepo)(nil)

func (r *StockRepo) Get(productID, tier string) (*entity.StockTier, error) {
	if st, ok := r.S.Stock[stockKey(productID, tier)]; ok {
		cp := *st
		return &cp, nil
	}
	return &entity.StockTier{ProductID: productID, Tier: tier, Available: decimal.Zero, Consumed: decimal.Zero}, nil
}

// Adjust replica la escritura condicional: crea el registro solo con deltas
// no negativos, y nunca deja Available ni Consumed por debajo de cero.
func (r *StockRepo) Adjust(productID, tier string, delta, consumedDelta decimal.Decimal) (bool, error) {
	key := stockKey(productID, tier)
	st, ok := r.S.Stock[key]
	if !ok {
		if delta.IsNegative() || consumedDelta.IsNegative() {
			return false, nil
		}
		r.S.Stock[key] = &entity.StockTier{
			ProductID: productID, Tier: tier,
			Available: delta, Consumed: consumedDelta, UpdatedAt: time.Now(),
		}
		return true, nil
	}
	newAvail := st.Available.Add(delta)
	newCons := st.Consumed.Add(consumedDelta)
	if newAvail.IsNegative() || newCons.IsNegative() {
		return false, nil
	}
	st.Available = newAvail
	st.Consumed = newCons
	st.UpdatedAt = time.Now()
	return true, nil
}

func (r *StockRepo) ListByProduct(productID string) ([]*entity.StockTier, error) {
	var out []*entity.StockTier
	for _, st := range r.S.Stock {
		if st.ProductID == productID {
			cp := *st
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ─── MovementRepo ────────────────────────────────────────────────────────────

type MovementRepo struct{ S *Store }

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(m *entity.Movement) error {
	cp := *m
	r.S.Movements = append(r.S.Movements, &cp)
	return nil
}

func (r *MovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.S.Movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MovementRepo) ListByReference(reference string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.S.Movements {
		if m.Reference == reference {
			out = append(out, m)
		}
	}
	return out, nil
}

// ─── DemandeRepo ─────────────────────────────────────────────────────────────

type DemandeRepo struct{ S *Store }

var _ repository.DemandeRepository = (*DemandeRepo)(nil)

func (r *DemandeRepo) Create(d *entity.Demande) error {
	cp := *d
	r.S.Demandes[d.ID] = &cp
	return nil
}

func (r *DemandeRepo) GetByID(id string) (*entity.Demande, error) {
	if d, ok := r.S.Demandes[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *DemandeRepo) GetByIDForUpdate(id string) (*entity.Demande, error) {
	return r.GetByID(id)
}

func (r *DemandeRepo) SetStatus(id, status, validator string, processedAt time.Time) error {
	d, ok := r.S.Demandes[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.Status = status
	d.Validator = validator
	at := processedAt
	d.ProcessedAt = &at
	return nil
}

func (r *DemandeRepo) ListByStatus(status string, limit, offset int) ([]*entity.Demande, error) {
	var out []*entity.Demande
	for _, d := range r.S.Demandes {
		if status == "" || d.Status == status {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ─── RecipeRepo ──────────────────────────────────────────────────────────────

type RecipeRepo struct{ S *Store }

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

func (r *RecipeRepo) Upsert(rec *entity.Recipe) error {
	cp := *rec
	cp.Lines = append([]entity.RecipeLine(nil), rec.Lines...)
	r.S.Recipes[rec.FinishedProductID] = &cp
	return nil
}

func (r *RecipeRepo) GetByFinishedProductID(productID string) (*entity.Recipe, error) {
	if rec, ok := r.S.Recipes[productID]; ok {
		cp := *rec
		cp.Lines = append([]entity.RecipeLine(nil), rec.Lines...)
		return &cp, nil
	}
	return nil, nil
}

func (r *RecipeRepo) List(limit, offset int) ([]*entity.Recipe, error) {
	var out []*entity.Recipe
	for _, rec := range r.S.Recipes {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

// ─── SaleRepo ────────────────────────────────────────────────────────────────

type SaleRepo struct{ S *Store }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	cp.Items = nil
	r.S.Sales[sale.ID] = &cp
	return nil
}

func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	cp := *item
	r.S.SaleItems[item.SaleID] = append(r.S.SaleItems[item.SaleID], &cp)
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	if s, ok := r.S.Sales[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *SaleRepo) GetByIDForUpdate(id string) (*entity.Sale, error) {
	return r.GetByID(id)
}

func (r *SaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	items := r.S.SaleItems[saleID]
	out := make([]*entity.SaleItem, 0, len(items))
	for _, it := range items {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *SaleRepo) MarkCancelled(saleID string, cancelledAt time.Time) error {
	s, ok := r.S.Sales[saleID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = entity.SaleStatusCancelled
	at := cancelledAt
	s.CancelledAt = &at
	return nil
}

func (r *SaleRepo) CreateCancellation(audit *entity.SaleCancellation) error {
	if _, ok := r.S.Cancellations[audit.SaleID]; ok {
		return domain.ErrDuplicate
	}
	cp := *audit
	r.S.Cancellations[audit.SaleID] = &cp
	return nil
}

func (r *SaleRepo) GetCancellation(saleID string) (*entity.SaleCancellation, error) {
	if a, ok := r.S.Cancellations[saleID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *SaleRepo) NextTicketSeq(day time.Time) (int64, error) {
	key := day.Format("20060102")
	r.S.TicketSeq[key]++
	return r.S.TicketSeq[key], nil
}

func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.S.Sales {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

// ─── UserRepo ────────────────────────────────────────────────────────────────

type UserRepo struct{ S *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(u *entity.User) error {
	for _, existing := range r.S.Users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.S.Users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := r.S.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.S.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(u *entity.User) error {
	cp := *u
	r.S.Users[u.ID] = &cp
	return nil
}

func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.S.Users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// ─── TxRunner ────────────────────────────────────────────────────────────────

// TxRunner fake: copia el estado antes de ejecutar fn y lo restaura si fn
// devuelve error, imitando el rollback de PostgreSQL.
type TxRunner struct{ S *Store }

func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	before := r.S.snapshot()
	err := fn(&MovementRepo{S: r.S}, &StockRepo{S: r.S}, &ProductRepo{S: r.S})
	if err != nil {
		r.S.restore(before)
	}
	return err
}

func (r *TxRunner) RunDemande(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	demandeRepo repository.DemandeRepository,
) error) error {
	before := r.S.snapshot()
	err := fn(&MovementRepo{S: r.S}, &StockRepo{S: r.S}, &ProductRepo{S: r.S}, &DemandeRepo{S: r.S})
	if err != nil {
		r.S.restore(before)
	}
	return err
}

func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	before := r.S.snapshot()
	err := fn(&MovementRepo{S: r.S}, &StockRepo{S: r.S}, &ProductRepo{S: r.S}, &SaleRepo{S: r.S})
	if err != nil {
		r.S.restore(before)
	}
	return err
}
