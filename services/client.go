package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"licensing-backend/apperrors"
	"licensing-backend/models"
	"licensing-backend/repositories"
)

// ClientService manages the two client directories. Physical clients are
// keyed by Pesel and soft-deleted; company clients are keyed by KRS number
// and never deleted.
type ClientService struct {
	store repositories.Store
	log   *zap.Logger
}

// NewClientService builds a ClientService.
func NewClientService(store repositories.Store, log *zap.Logger) *ClientService {
	return &ClientService{store: store, log: log.Named("clients")}
}

// PhysicalClientInput carries physical client attributes for add/modify.
type PhysicalClientInput struct {
	Pesel       string
	Name        string
	Surname     string
	Email       string
	PhoneNumber string
}

// AddPhysicalClient validates and inserts a new physical client.
func (s *ClientService) AddPhysicalClient(ctx context.Context, in PhysicalClientInput) (*models.PhysicalClient, error) {
	if err := validatePhysicalClient(in); err != nil {
		return nil, err
	}

	var created *models.PhysicalClient
	err := s.store.Transact(ctx, func(repos repositories.Repos) error {
		existing, err := repos.Clients.PhysicalByPesel(ctx, in.Pesel)
		if err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "client lookup", err)
		}
		if existing != nil {
			return apperrors.Validation(apperrors.CodeClientExists,
				"a physical client with the provided Pesel already exists")
		}

		client := &models.PhysicalClient{
			Pesel:       in.Pesel,
			Name:        in.Name,
			Surname:     in.Surname,
			Email:       in.Email,
			PhoneNumber: in.PhoneNumber,
			IsDeleted:   false,
		}
		if err := repos.Clients.CreatePhysical(ctx, client); err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "client insert", err)
		}
		created = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("physical client added", zap.Uint("client_id", created.Id))
	return created, nil
}

// ModifyPhysicalClient replaces the mutable attributes of the client with
// the given Pesel.
func (s *ClientService) ModifyPhysicalClient(ctx context.Context, pesel string, in PhysicalClientInput) (*models.PhysicalClient, error) {
	in.Pesel = pesel
	if err := validatePhysicalClient(in); err != nil {
		return nil, err
	}

	var updated *models.PhysicalClient
	err := s.store.Transact(ctx, func(repos repositories.Repos) error {
		client, err := repos.Clients.PhysicalByPesel(ctx, pesel)
		if err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "client lookup", err)
		}
		if client == nil {
			return apperrors.Validation(apperrors.CodeClientNotFound,
				"a physical client with the provided Pesel does not exist")
		}

		client.Name = in.Name
		client.Surname = in.Surname
		client.Email = in.Email
		client.PhoneNumber = in.PhoneNumber
		if err := repos.Clients.SavePhysical(ctx, client); err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "client update", err)
		}
		updated = client
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePhysicalClient soft-deletes the client with the given Pesel: the
// row stays (agreements may still reference it) with IsDeleted set.
func (s *ClientService) DeletePhysicalClient(ctx context.Context, pesel string) error {
	if !isPeselCorrect(pesel) {
		return apperrors.Validation(apperrors.CodePeselInvalid, "Pesel needs to be exactly 11 digits")
	}

	err := s.store.Transact(ctx, func(repos repositories.Repos) error {
		client, err := repos.Clients.PhysicalByPesel(ctx, pesel)
		if err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "client lookup", err)
		}
		if client == nil {
			return apperrors.Validation(apperrors.CodeClientNotFound,
				"a physical client with the provided Pesel does not exist")
		}
		client.IsDeleted = true
		if err := repos.Clients.SavePhysical(ctx, client); err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "client update", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("physical client soft-deleted", zap.String("pesel", pesel))
	return nil
}

// CompanyClientInput carries company client attributes for add/modify.
type CompanyClientInput struct {
	KrsNumber   string
	Address     string
	Email       string
	PhoneNumber string
}

// AddCompanyClient validates and inserts a new company client.
func (s *ClientService) AddCompanyClient(ctx context.Context, in CompanyClientInput) (*models.CompanyClient, error) {
	if err := validateCompanyClient(in); err != nil {
		return nil, err
	}

	var created *models.CompanyClient
	err := s.store.Transact(ctx, func(repos repositories.Repos) error {
		existing, err := repos.Clients.CompanyByKrs(ctx, in.KrsNumber)
		if err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "client lookup", err)
		}
		if existing != nil {
			return apperrors.Validation(apperrors.CodeClientExists,
				"a company client with the provided KRS number already exists")
		}

		client := &models.CompanyClient{
			KrsNumber:   in.KrsNumber,
			Address:     in.Address,
			Email:       in.Email,
			PhoneNumber: in.PhoneNumber,
		}
		if err := repos.Clients.CreateCompany(ctx, client); err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "client insert", err)
		}
		created = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("company client added", zap.Uint("client_id", created.Id))
	return created, nil
}

// ModifyCompanyClient replaces the mutable attributes of the client with
// the given KRS number.
func (s *ClientService) ModifyCompanyClient(ctx context.Context, krsNumber string, in CompanyClientInput) (*models.CompanyClient, error) {
	in.KrsNumber = krsNumber
	if err := validateCompanyClient(in); err != nil {
		return nil, err
	}

	var updated *models.CompanyClient
	err := s.store.Transact(ctx, func(repos repositories.Repos) error {
		client, err := repos.Clients.CompanyByKrs(ctx, krsNumber)
		if err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "client lookup", err)
		}
		if client == nil {
			return apperrors.Validation(apperrors.CodeClientNotFound,
				"a company client with the provided KRS number does not exist")
		}

		client.Address = in.Address
		client.Email = in.Email
		client.PhoneNumber = in.PhoneNumber
		if err := repos.Clients.SaveCompany(ctx, client); err != nil {
			return apperrors.Infrastructure(apperrors.CodeStorageUnavailable, "client update", err)
		}
		updated = client
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func validatePhysicalClient(in PhysicalClientInput) error {
	if !isPeselCorrect(in.Pesel) {
		return apperrors.Validation(apperrors.CodePeselInvalid, "Pesel needs to be exactly 11 digits")
	}
	if !isPhoneNumberCorrect(in.PhoneNumber) {
		return apperrors.Validation(apperrors.CodePhoneInvalid, "phone number needs to be exactly 9 digits")
	}
	if !isEmailCorrect(in.Email) {
		return apperrors.Validation(apperrors.CodeEmailInvalid, "incorrect email provided")
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Surname) == "" {
		return apperrors.Validation(apperrors.CodeNameInvalid, "name and/or surname are incorrect")
	}
	return nil
}

func validateCompanyClient(in CompanyClientInput) error {
	if !isKrsCorrect(in.KrsNumber) {
		return apperrors.Validation(apperrors.CodeKrsInvalid, "KRS number has to be either 9 or 14 digits")
	}
	if !isEmailCorrect(in.Email) {
		return apperrors.Validation(apperrors.CodeEmailInvalid, "incorrect email provided")
	}
	if !isPhoneNumberCorrect(in.PhoneNumber) {
		return apperrors.Validation(apperrors.CodePhoneInvalid, "phone number needs to be exactly 9 digits")
	}
	if strings.TrimSpace(in.Address) == "" {
		return apperrors.Validation(apperrors.CodeAddressInvalid, "provided address is incorrect")
	}
	return nil
}

func isPeselCorrect(pesel string) bool {
	return len(pesel) == 11 && isAllDigits(pesel)
}

func isKrsCorrect(krs string) bool {
	return (len(krs) == 9 || len(krs) == 14) && isAllDigits(krs)
}

func isPhoneNumberCorrect(phone string) bool {
	return len(phone) == 9 && isAllDigits(phone)
}

func isEmailCorrect(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
