package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

// seedDemoData loads a small fixture set so the memory-backed process is
// usable right after start: one account per role, two products, one station.
// Every demo password is "password".
func seedDemoData(ctx context.Context, repos repositories) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	now := time.Now().UTC()
	gerantID := uuid.NewString()

	users := []domain.User{
		{ID: uuid.NewString(), Email: "admin@agil.tn", FirstName: "Amine", LastName: "Ben Salah", Role: domain.RoleAdmin},
		{ID: uuid.NewString(), Email: "depot@agil.tn", FirstName: "Sonia", LastName: "Trabelsi", Role: domain.RoleDepot},
		{ID: uuid.NewString(), Email: "commercial@agil.tn", FirstName: "Karim", LastName: "Haddad", Role: domain.RoleCommercial},
		{ID: gerantID, Email: "gerant@agil.tn", FirstName: "Leila", LastName: "Mansour", Role: domain.RoleGerant},
	}
	for _, u := range users {
		u.PasswordHash = string(hash)
		u.CreatedAt = now
		if err := repos.users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	products := []domain.Product{
		{ID: uuid.NewString(), Name: "Gasoil 50", UnitPrice: 2205, Quantity: 10000},
		{ID: uuid.NewString(), Name: "Sans Plomb 95", UnitPrice: 2525, Quantity: 8000},
	}
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := repos.products.Create(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}

	station := domain.Station{
		ID:        uuid.NewString(),
		Name:      "Agil El Menzah",
		Address:   "Avenue Hedi Nouira, Tunis",
		ManagerID: gerantID,
		CreatedAt: now,
	}
	if err := repos.stations.Create(ctx, station); err != nil {
		return fmt.Errorf("seed station: %w", err)
	}

	return nil
}
