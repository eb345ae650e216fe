package service

import (
	"context"
	"fmt"

	"github.com/eduforum/discussions-service/pkg/log"

	"github.com/eduforum/discussions-service/internal/models"
)

// sampleUsers — демо-набор для пустого справочника (dev/local окружения).
var sampleUsers = []models.User{
	{Username: "amartin", FirstName: "Alice", LastName: "Martin", Role: models.RoleInstructor},
	{Username: "jchen", FirstName: "Jun", LastName: "Chen", Role: models.RoleInstructor},
	{Username: "bkowalski", FirstName: "Beata", LastName: "Kowalski", Role: models.RoleStudent},
	{Username: "dokafor", FirstName: "Daniel", LastName: "Okafor", Role: models.RoleStudent},
	{Username: "msilva", FirstName: "Marina", LastName: "Silva", Role: models.RoleStudent},
}

// SeedUsers заполняет пустой справочник демо-пользователями.
// Повторные вызовы ничего не делают (идемпотентность гарантирует сторадж).
func (s *Service) SeedUsers(ctx context.Context) error {
	const op = "service/seed/SeedUsers"

	if err := s.storage.SeedUsers(ctx, sampleUsers); err != nil {
		log.From(ctx).Error("seed users failed", "op", op, "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return nil
}
