package dashboard

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/rajithaprasad/hardwareProject/internal/client"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
)

// Store owns every collection the dashboard shows.
type Store struct {
	Categories    *EntityList[entity.Category]
	Subcategories *EntityList[entity.Subcategory]
	Materials     *EntityList[entity.Material]
	Sites         *EntityList[entity.ConstructionSite]
	Staff         *EntityList[entity.User]
	Employees     *EntityList[entity.User]
	Tools         *EntityList[entity.Tool]
	Notes         *EntityList[entity.Note]
	Transactions  *EntityList[entity.Transaction]
}

func NewStore(api *client.Client, notifier Notifier) *Store {
	s := &Store{
		Categories: NewEntityList[entity.Category](api.Categories(), Describer[entity.Category]{
			Kind:   "Category",
			ID:     func(c entity.Category) string { return c.ID },
			Name:   func(c entity.Category) string { return c.Name },
			Search: func(c entity.Category) []string { return []string{c.Name, c.Description} },
		}, notifier),
		Subcategories: NewEntityList[entity.Subcategory](api.Subcategories(), Describer[entity.Subcategory]{
			Kind:   "Subcategory",
			ID:     func(s entity.Subcategory) string { return s.ID },
			Name:   func(s entity.Subcategory) string { return s.Name },
			Search: func(s entity.Subcategory) []string { return []string{s.Name, s.Description} },
		}, notifier),
		Materials: NewEntityList[entity.Material](api.Materials(), Describer[entity.Material]{
			Kind:   "Material",
			ID:     func(m entity.Material) string { return m.ID },
			Name:   func(m entity.Material) string { return m.Name },
			Search: func(m entity.Material) []string { return []string{m.Name, m.Description} },
		}, notifier),
		Sites: NewEntityList[entity.ConstructionSite](api.Sites(), Describer[entity.ConstructionSite]{
			Kind:   "Construction site",
			ID:     func(s entity.ConstructionSite) string { return s.ID },
			Name:   func(s entity.ConstructionSite) string { return s.Name },
			Search: func(s entity.ConstructionSite) []string { return []string{s.Name, s.Location, s.Address} },
		}, notifier),
		Staff:     NewEntityList[entity.User](api.Users(), userDescriber("Staff member"), notifier),
		Employees: NewEntityList[entity.User](api.Users(), userDescriber("Employee"), notifier),
		Tools: NewEntityList[entity.Tool](api.Tools(), Describer[entity.Tool]{
			Kind:   "Tool",
			ID:     func(t entity.Tool) string { return t.ID },
			Name:   func(t entity.Tool) string { return t.ToolBrand + " " + t.SerialNumber },
			Search: func(t entity.Tool) []string { return []string{t.ToolBrand, t.SerialNumber, t.AssignedEmployeeName} },
		}, notifier),
		Notes: NewEntityList[entity.Note](api.Notes(), Describer[entity.Note]{
			Kind:   "Note",
			ID:     func(n entity.Note) string { return n.ID },
			Name:   func(n entity.Note) string { return n.Title },
			Search: func(n entity.Note) []string { return []string{n.Title, n.Content} },
		}, notifier),
		Transactions: NewEntityList[entity.Transaction](api.Transactions(), Describer[entity.Transaction]{
			Kind:   "Transaction",
			ID:     func(t entity.Transaction) string { return t.ID },
			Name:   func(t entity.Transaction) string { return t.Type + " " + t.Reason },
			Search: func(t entity.Transaction) []string { return []string{t.Reason, t.ConstructionSite, t.User} },
		}, notifier),
	}

	// Staff and Employees are two views of users.php
	s.Staff.mirrorTo(s.Employees, func(u entity.User) bool { return u.Role == entity.RoleEmployee })
	s.Employees.mirrorTo(s.Staff, nil)
	return s
}

func userDescriber(kind string) Describer[entity.User] {
	return Describer[entity.User]{
		Kind:   kind,
		ID:     func(u entity.User) string { return u.ID },
		Name:   func(u entity.User) string { return u.FullName },
		Search: func(u entity.User) []string { return []string{u.FullName, u.Username} },
	}
}

// LoadAll fetches every collection. Failures are joined; the lists that loaded stay loaded.
func (s *Store) LoadAll(ctx context.Context) error {
	return errors.Join(
		s.Categories.Load(ctx, nil),
		s.Subcategories.Load(ctx, nil),
		s.Materials.Load(ctx, nil),
		s.Sites.Load(ctx, nil),
		s.Staff.Load(ctx, nil),
		s.Employees.Load(ctx, url.Values{"role": {entity.RoleEmployee}}),
		s.Tools.Load(ctx, nil),
		s.Notes.Load(ctx, nil),
		s.Transactions.Load(ctx, nil),
	)
}

// ApplyTransaction patches local state after the server accepted a movement:
// the material takes the server's stock and the row goes first in the history.
func (s *Store) ApplyTransaction(tx entity.Transaction, result client.TransactionResult, at time.Time) {
	s.Materials.update(tx.MaterialID, func(m *entity.Material) {
		m.ApplyStock(result.NewStock, at)
	})
	s.Transactions.prepend(tx)
}

// RefreshMaterial replaces the loaded copy of m with the server's row, so stock
// checks and the post-transaction patch work on what the user was shown.
func (s *Store) RefreshMaterial(m entity.Material) bool {
	return s.Materials.update(m.ID, func(cur *entity.Material) {
		*cur = m
	})
}

// Clear drops every list, used on logout.
func (s *Store) Clear() {
	s.Categories.clear()
	s.Subcategories.clear()
	s.Materials.clear()
	s.Sites.clear()
	s.Staff.clear()
	s.Employees.clear()
	s.Tools.clear()
	s.Notes.clear()
	s.Transactions.clear()
}
