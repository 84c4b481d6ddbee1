package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"settle/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationRideRequested  NotificationType = "RIDE_REQUESTED"
	NotificationDriverAssigned NotificationType = "DRIVER_ASSIGNED"
	NotificationRideCompleted  NotificationType = "RIDE_COMPLETED"
	NotificationRideCancelled  NotificationType = "RIDE_CANCELLED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would hold push/SMS/email clients.
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyRideRequested acknowledges the rider's prepaid ride request.
func (s *NotificationService) NotifyRideRequested(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideRequested,
		RecipientID: ride.RiderID,
		Title:       "Ride Requested",
		Message:     fmt.Sprintf("Your %s ride is waiting for a driver. Fare: %.0f", ride.VehicleClass, ride.Fare),
		Data: map[string]interface{}{
			"ride_id": ride.ID,
			"fare":    ride.Fare,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyDriverAssigned notifies the rider that a driver has been assigned.
func (s *NotificationService) NotifyDriverAssigned(ctx context.Context, ride *domain.Ride, driver *domain.Account) error {
	return s.send(ctx, Notification{
		Type:        NotificationDriverAssigned,
		RecipientID: ride.RiderID,
		Title:       "Driver Assigned",
		Message:     fmt.Sprintf("Driver %s has been assigned to your ride", driver.Name),
		Data: map[string]interface{}{
			"ride_id":   ride.ID,
			"driver_id": driver.ID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideCompleted notifies both parties of completion and the payout.
func (s *NotificationService) NotifyRideCompleted(ctx context.Context, ride *domain.Ride, settlement *domain.Settlement) error {
	if err := s.send(ctx, Notification{
		Type:        NotificationRideCompleted,
		RecipientID: ride.RiderID,
		Title:       "Ride Completed",
		Message:     fmt.Sprintf("Your ride is complete. Fare: %.0f", ride.Fare),
		Data: map[string]interface{}{
			"ride_id": ride.ID,
			"fare":    ride.Fare,
		},
		CreatedAt: time.Now(),
	}); err != nil {
		return err
	}

	return s.send(ctx, Notification{
		Type:        NotificationRideCompleted,
		RecipientID: ride.DriverID,
		Title:       "Ride Completed",
		Message:     fmt.Sprintf("You earned %.0f for this ride", settlement.DriverShare),
		Data: map[string]interface{}{
			"ride_id":      ride.ID,
			"driver_share": settlement.DriverShare,
			"commission":   settlement.Commission,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideCancelled notifies the affected parties about cancellation.
func (s *NotificationService) NotifyRideCancelled(ctx context.Context, ride *domain.Ride, reason string) error {
	recipients := []string{ride.RiderID}
	if ride.DriverID != "" {
		recipients = append(recipients, ride.DriverID)
	}

	for _, recipientID := range recipients {
		if err := s.send(ctx, Notification{
			Type:        NotificationRideCancelled,
			RecipientID: recipientID,
			Title:       "Ride Cancelled",
			Message:     "The ride has been cancelled",
			Data: map[string]interface{}{
				"ride_id": ride.ID,
				"reason":  reason,
			},
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
	}
	return nil
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)
	return nil
}
