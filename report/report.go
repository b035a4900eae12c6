// Package report aggregates stored orders into the figures behind the
// analysis charts: the busiest clients, orders per day and which clients buy
// which products.
package report

import (
	"context"
	"sort"

	"github.com/kendall-kelly/shopstore/models"
	"github.com/kendall-kelly/shopstore/store"
)

// DefaultTopClients is how many clients TopClients returns when asked for 0
const DefaultTopClients = 5

// ClientOrders is one row of the top clients ranking
type ClientOrders struct {
	ClientID uint   `json:"client_id"`
	Name     string `json:"name"`
	Orders   int    `json:"orders"`
}

// DayOrders is the number of orders placed on one date
type DayOrders struct {
	Date   models.Date `json:"date"`
	Orders int         `json:"orders"`
}

// Node is a client or product vertex of the purchase graph
type Node struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Edge links a client to a product it has ordered at least once
type Edge struct {
	ClientID  uint `json:"client_id"`
	ProductID uint `json:"product_id"`
}

// Graph is the bipartite client/product purchase graph
type Graph struct {
	Clients  []Node `json:"clients"`
	Products []Node `json:"products"`
	Edges    []Edge `json:"edges"`
}

// Reporter computes reports from a store
type Reporter struct {
	store *store.Store
}

// New creates a Reporter over s
func New(s *store.Store) *Reporter {
	return &Reporter{store: s}
}

// TopClients ranks clients by number of orders, most first, ties broken by
// id. Orders whose client no longer exists are not counted.
func (r *Reporter) TopClients(ctx context.Context, limit int) ([]ClientOrders, error) {
	if limit <= 0 {
		limit = DefaultTopClients
	}
	orders, err := r.store.Orders.All(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]*ClientOrders)
	for _, o := range orders {
		if o.Client == nil {
			continue
		}
		row, ok := counts[o.Client.ID]
		if !ok {
			row = &ClientOrders{ClientID: o.Client.ID, Name: o.Client.Name}
			counts[o.Client.ID] = row
		}
		row.Orders++
	}

	ranking := make([]ClientOrders, 0, len(counts))
	for _, row := range counts {
		ranking = append(ranking, *row)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Orders != ranking[j].Orders {
			return ranking[i].Orders > ranking[j].Orders
		}
		return ranking[i].ClientID < ranking[j].ClientID
	})
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking, nil
}

// OrderDynamics counts orders per date in ascending date order
func (r *Reporter) OrderDynamics(ctx context.Context) ([]DayOrders, error) {
	orders, err := r.store.Orders.All(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]*DayOrders)
	for _, o := range orders {
		key := o.Date.String()
		if row, ok := counts[key]; ok {
			row.Orders++
			continue
		}
		counts[key] = &DayOrders{Date: o.Date, Orders: 1}
	}

	days := make([]DayOrders, 0, len(counts))
	for _, row := range counts {
		days = append(days, *row)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date.Time)
	})
	return days, nil
}

// ClientProductGraph returns every client and product as a node and one edge
// per distinct client/product pair found in resolvable orders.
func (r *Reporter) ClientProductGraph(ctx context.Context) (Graph, error) {
	clients, err := r.store.Clients.All(ctx)
	if err != nil {
		return Graph{}, err
	}
	products, err := r.store.Products.All(ctx)
	if err != nil {
		return Graph{}, err
	}
	orders, err := r.store.Orders.All(ctx)
	if err != nil {
		return Graph{}, err
	}

	g := Graph{
		Clients:  make([]Node, len(clients)),
		Products: make([]Node, len(products)),
		Edges:    []Edge{},
	}
	for i, c := range clients {
		g.Clients[i] = Node{ID: c.ID, Name: c.Name}
	}
	for i, p := range products {
		g.Products[i] = Node{ID: p.ID, Name: p.Name}
	}

	seen := make(map[Edge]bool)
	for _, o := range orders {
		if o.Client == nil {
			continue
		}
		for _, item := range o.Items {
			e := Edge{ClientID: o.Client.ID, ProductID: item.ProductID}
			if seen[e] {
				continue
			}
			seen[e] = true
			g.Edges = append(g.Edges, e)
		}
	}
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].ClientID != g.Edges[j].ClientID {
			return g.Edges[i].ClientID < g.Edges[j].ClientID
		}
		return g.Edges[i].ProductID < g.Edges[j].ProductID
	})
	return g, nil
}
