package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kash05/court-connect/internal/contract"
	"github.com/kash05/court-connect/internal/courtconnect"
	"github.com/kash05/court-connect/internal/wizard"
)

var errNotOwner = errors.New("property belongs to another owner")

// PropertyService is the property submission service: every write is
// validated field by field, checked against the document contract, stored
// and announced to the owner's event stream.
type PropertyService struct {
	store  PropertyStore
	broker *Broker
	logger *slog.Logger
}

func NewPropertyService(store PropertyStore, broker *Broker, logger *slog.Logger) *PropertyService {
	return &PropertyService{store: store, broker: broker, logger: logger}
}

func (s *PropertyService) Create(ctx context.Context, ownerID string, form courtconnect.PropertyForm) (Property, error) {
	form, err := prepareForm(form)
	if err != nil {
		return Property{}, err
	}
	p, err := s.store.CreateProperty(ctx, ownerID, form)
	if err != nil {
		return Property{}, err
	}
	s.logger.Info("property created", "property_id", p.ID, "owner_id", ownerID)
	s.broker.Publish(ownerID, PropertyEvent{Type: EventPropertyCreated, PropertyID: p.ID, Name: propertyName(p), At: p.CreatedAt})
	return p, nil
}

func (s *PropertyService) Update(ctx context.Context, ownerID, id string, form courtconnect.PropertyForm) (Property, error) {
	existing, err := s.store.GetProperty(ctx, id)
	if err != nil {
		return Property{}, err
	}
	if existing.OwnerID != ownerID {
		return Property{}, errNotOwner
	}
	form, err = prepareForm(form)
	if err != nil {
		return Property{}, err
	}
	p, err := s.store.UpdateProperty(ctx, id, form)
	if err != nil {
		return Property{}, err
	}
	s.logger.Info("property updated", "property_id", p.ID, "owner_id", ownerID)
	s.broker.Publish(ownerID, PropertyEvent{Type: EventPropertyUpdated, PropertyID: p.ID, Name: propertyName(p), At: p.UpdatedAt})
	return p, nil
}

// SubmitterFor adapts Create to the wizard of one owner.
func (s *PropertyService) SubmitterFor(ownerID string) wizard.Submitter {
	return wizard.SubmitFunc(func(ctx context.Context, form courtconnect.PropertyForm) (string, error) {
		p, err := s.Create(ctx, ownerID, form)
		if err != nil {
			return "", err
		}
		return p.ID, nil
	})
}

// prepareForm normalizes the form the way the wizard does, then validates
// the result.
func prepareForm(form courtconnect.PropertyForm) (courtconnect.PropertyForm, error) {
	form = wizard.Normalize(form)
	if err := wizard.ValidateForm(form); err != nil {
		return form, err
	}
	if err := contract.Validate(form); err != nil {
		return form, err
	}
	return form, nil
}
