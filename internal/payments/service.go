package payments

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/592Darkness/ride-dispatch/pkg/common"
	"github.com/592Darkness/ride-dispatch/pkg/logger"
)

// Service implements payment reconciliation business logic
type Service struct {
	repo     RepositoryInterface
	notifier Notifier
}

// NewService creates a new payment service
func NewService(repo RepositoryInterface, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// RecordPaymentAction records one party's confirm or dispute on a completed
// ride's payment. Preconditions are checked here for fast failure; the
// repository re-validates under the row lock, which is authoritative.
func (s *Service) RecordPaymentAction(ctx context.Context, rideID, actorID uuid.UUID, party, action string) (*PaymentResult, error) {
	if party != PartyRider && party != PartyDriver {
		return nil, common.NewBadRequestError("acting party must be rider or driver", nil)
	}
	if action != ActionConfirm && action != ActionDispute {
		return nil, common.NewBadRequestError("action must be confirm or dispute", nil)
	}

	view, err := s.repo.GetPaymentView(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if party == PartyRider && view.RiderID != actorID {
		return nil, common.NewForbiddenError("you are not the rider on this ride")
	}
	if party == PartyDriver && (view.DriverID == nil || *view.DriverID != actorID) {
		return nil, common.NewForbiddenError("you are not the driver on this ride")
	}
	if view.RideStatus != "completed" {
		return nil, common.NewInvalidStateError("payment actions require a completed ride")
	}

	result, err := s.repo.ApplyPaymentAction(ctx, rideID, actorID, party, action)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("payment action recorded",
		zap.String("ride_id", rideID.String()),
		zap.String("party", party),
		zap.String("action", action),
		zap.String("from_status", result.PreviousStatus),
		zap.String("to_status", result.NewStatus))

	if result.Changed {
		s.notifyCounterparty(ctx, view, party, result)
	}
	return result, nil
}

// GetPaymentStatus returns the current payment status for a party to the ride
func (s *Service) GetPaymentStatus(ctx context.Context, rideID, actorID uuid.UUID) (*PaymentView, error) {
	view, err := s.repo.GetPaymentView(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if view.RiderID != actorID && (view.DriverID == nil || *view.DriverID != actorID) {
		return nil, common.NewForbiddenError("you are not a party to this ride")
	}
	return view, nil
}

func (s *Service) notifyCounterparty(ctx context.Context, view *PaymentView, party string, result *PaymentResult) {
	if s.notifier == nil {
		return
	}

	var target uuid.UUID
	if party == PartyRider {
		if view.DriverID == nil {
			return
		}
		target = *view.DriverID
	} else {
		target = view.RiderID
	}

	eventType := "payment_updated"
	if result.Settled {
		eventType = "payment_settled"
	}
	payload := map[string]interface{}{
		"ride_id":        result.RideID.String(),
		"payment_status": result.NewStatus,
	}
	if err := s.notifier.Notify(ctx, target, eventType, payload); err != nil {
		logger.WithContext(ctx).Warn("failed to notify counterparty of payment change",
			zap.String("ride_id", result.RideID.String()),
			zap.Error(err))
	}
}
