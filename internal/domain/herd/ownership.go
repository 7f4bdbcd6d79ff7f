package herd

import "context"

// FarmOf expone el farmID dueño de un animal.
// Lo usa el ledger de leche para validar ownership transitivo sin crear
// ciclos de imports entre módulos (herd <-> milk).
func (s *Service) FarmOf(ctx context.Context, animalID string) (string, error) {
	a, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return "", err
	}
	return a.FarmID, nil
}
