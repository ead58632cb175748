package clients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ms-boxoffice/internal/clock"
	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/models"
	"ms-boxoffice/internal/utils"
)

type ClientDBLayer interface {
	CreateClient(ctx context.Context, client *models.Client) error
	GetClient(ctx context.Context, id int64) (*models.Client, error)
	DeleteClient(ctx context.Context, id int64) error
}

type ClientService struct {
	DB     ClientDBLayer
	Clock  clock.Clock
	Logger *logger.Logger
}

func NewClientService(db ClientDBLayer, clk clock.Clock, log *logger.Logger) *ClientService {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &ClientService{DB: db, Clock: clk, Logger: log}
}

// ValidateBuyer checks the mandatory contact fields. Duplicated buyers are
// accepted: every sale registers its own client.
func ValidateBuyer(buyer models.Buyer) error {
	if strings.TrimSpace(buyer.FirstNames) == "" {
		return models.NewValidationError("first_names", "is required")
	}
	if strings.TrimSpace(buyer.Phone) == "" {
		return models.NewValidationError("phone", "is required")
	}
	return nil
}

func (s *ClientService) CreateClient(ctx context.Context, buyer models.Buyer) (int64, error) {
	if err := ValidateBuyer(buyer); err != nil {
		return 0, err
	}

	client := models.Client{
		FirstNames: strings.TrimSpace(buyer.FirstNames),
		LastNames:  utils.OptionalString(buyer.LastNames),
		Email:      utils.OptionalString(buyer.Email),
		Phone:      strings.TrimSpace(buyer.Phone),
		CreatedAt:  s.Clock.Now().Truncate(time.Second),
	}
	if err := s.DB.CreateClient(ctx, &client); err != nil {
		return 0, err
	}
	s.Logger.Debug("CLIENT", "Registered client "+client.FirstNames)
	return client.ID, nil
}

func (s *ClientService) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	return s.DB.GetClient(ctx, id)
}

// DeleteClient removes the buyer record. Its tickets stay sold with no
// holder.
func (s *ClientService) DeleteClient(ctx context.Context, id int64) error {
	if err := s.DB.DeleteClient(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("CLIENT", fmt.Sprintf("Deleted client %d", id))
	return nil
}
