package sqlite

import (
	"context"
	"fmt"

	"github.com/JakTech215/crm-app-sub000/internal/domain"
)

// Employees, projects and contacts are owned by other parts of the CRM.
// The Create helpers exist for seeding and fixtures.

func (s *Store) CreateEmployee(ctx context.Context, e domain.Employee) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (id, first_name, last_name) VALUES (?, ?, ?)`, e.ID, e.FirstName, e.LastName)
	if err != nil {
		return fmt.Errorf("inserting employee: %w", err)
	}
	return nil
}

func (s *Store) CreateProject(ctx context.Context, p domain.Project) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO projects (id, name) VALUES (?, ?)`, p.ID, p.Name)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (s *Store) CreateContact(ctx context.Context, c domain.Contact) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, first_name, last_name) VALUES (?, ?, ?)`, c.ID, c.FirstName, c.LastName)
	if err != nil {
		return fmt.Errorf("inserting contact: %w", err)
	}
	return nil
}

// FindNames loads the named rows. Unknown ids are simply absent.
func (s *Store) FindNames(ctx context.Context, employeeIDs, projectIDs, contactIDs []string) (domain.Names, error) {
	names := domain.Names{
		Employees: map[string]domain.Employee{},
		Projects:  map[string]domain.Project{},
		Contacts:  map[string]domain.Contact{},
	}

	if len(employeeIDs) > 0 {
		rows, err := s.queryTriples(ctx,
			`SELECT id, first_name, last_name FROM employees WHERE id IN (`+placeholders(len(employeeIDs))+`)`, employeeIDs)
		if err != nil {
			return domain.Names{}, fmt.Errorf("loading employees: %w", err)
		}
		for _, r := range rows {
			names.Employees[r[0]] = domain.Employee{ID: r[0], FirstName: r[1], LastName: r[2]}
		}
	}

	if len(projectIDs) > 0 {
		rows, err := s.queryPairs(ctx,
			`SELECT id, name FROM projects WHERE id IN (`+placeholders(len(projectIDs))+`)`, projectIDs)
		if err != nil {
			return domain.Names{}, fmt.Errorf("loading projects: %w", err)
		}
		for _, r := range rows {
			names.Projects[r[0]] = domain.Project{ID: r[0], Name: r[1]}
		}
	}

	if len(contactIDs) > 0 {
		rows, err := s.queryTriples(ctx,
			`SELECT id, first_name, last_name FROM contacts WHERE id IN (`+placeholders(len(contactIDs))+`)`, contactIDs)
		if err != nil {
			return domain.Names{}, fmt.Errorf("loading contacts: %w", err)
		}
		for _, r := range rows {
			names.Contacts[r[0]] = domain.Contact{ID: r[0], FirstName: r[1], LastName: r[2]}
		}
	}

	return names, nil
}

func (s *Store) queryTriples(ctx context.Context, query string, ids []string) ([][3]string, error) {
	rows, err := s.db.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][3]string
	for rows.Next() {
		var r [3]string
		if err := rows.Scan(&r[0], &r[1], &r[2]); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
