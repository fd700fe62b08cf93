package doctor

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/repository"
)

type Service interface {
	ListDoctors(ctx context.Context) ([]model.Doctor, error)
	// GetDoctor returns the doctor with their full appointment list.
	GetDoctor(ctx context.Context, name string) (model.Doctor, error)
}

type service struct {
	repo repository.DoctorRepository
}

func NewService(repo repository.DoctorRepository) Service {
	return &service{repo: repo}
}

func (s *service) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	return s.repo.Doctors(), nil
}

func (s *service) GetDoctor(ctx context.Context, name string) (model.Doctor, error) {
	d, err := s.repo.FindDoctorByName(name)
	if err != nil {
		return model.Doctor{}, fmt.Errorf("failed to get doctor: %w", err)
	}
	return d, nil
}
