package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/repository"
)

var ErrCannotRemoveYourself = errors.New("you cannot remove yourself")

// ContributorService manages the contributor directory.
type ContributorService struct {
	uow repository.UnitOfWork
}

// NewContributorService creates a new ContributorService
func NewContributorService(uow repository.UnitOfWork) *ContributorService {
	return &ContributorService{uow: uow}
}

// List lists every contributor
func (s *ContributorService) List() ([]models.User, error) {
	users, err := s.uow.Users().List()
	if err != nil {
		return nil, fmt.Errorf("failed to list contributors: %w", err)
	}
	return users, nil
}

// ActiveCount counts contributors that take part in target distribution
func (s *ContributorService) ActiveCount() (int, error) {
	count, err := s.uow.Users().CountActive()
	if err != nil {
		return 0, fmt.Errorf("failed to count active contributors: %w", err)
	}
	return int(count), nil
}

// SetActive includes or excludes a contributor from target distribution.
// Existing assignments are kept either way.
func (s *ContributorService) SetActive(id uint64, active bool) (*models.User, error) {
	user, err := s.uow.Users().FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrContributorNotFound, "find contributor")
	}

	user.Active = active
	if err := s.uow.Users().Update(user); err != nil {
		return nil, fmt.Errorf("failed to update contributor: %w", err)
	}
	return user, nil
}

// Delete removes a contributor together with their assignments and
// qualitative assignee links. Other contributors' records are untouched.
func (s *ContributorService) Delete(id, actorID uint64) error {
	if id == actorID {
		return ErrCannotRemoveYourself
	}

	return s.uow.Transaction(func(tx repository.UnitOfWork) error {
		if _, err := tx.Users().FindByID(id); err != nil {
			return notFound(err, ErrContributorNotFound, "find contributor")
		}
		if err := tx.Assignments().DeleteByContributor(id); err != nil {
			return fmt.Errorf("failed to delete assignments: %w", err)
		}
		if err := tx.QualitativeObjectives().RemoveContributor(id); err != nil {
			return fmt.Errorf("failed to remove qualitative assignee links: %w", err)
		}
		if err := tx.Users().Delete(id); err != nil {
			return fmt.Errorf("failed to delete contributor: %w", err)
		}
		return nil
	})
}
