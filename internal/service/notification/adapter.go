package notification

import (
	"context"
	"fmt"

	"acgl-management-api/internal/notification"
	"acgl-management-api/internal/service"
)

// ServiceAdapter adapts the notification client to the service layer interface
type ServiceAdapter struct {
	client notification.Notifier
}

// NewServiceAdapter creates a new notification service adapter
func NewServiceAdapter(client notification.Notifier) *ServiceAdapter {
	return &ServiceAdapter{client: client}
}

// SendInventoryNotification sends an inventory-change notification
func (a *ServiceAdapter) SendInventoryNotification(ctx context.Context, n service.InventoryNotification) error {
	clientNotification := notification.Notification{
		Level:    mapNotificationLevel(n.Type),
		Entity:   n.Entity,
		Action:   string(n.Type),
		Message:  n.Message,
		Count:    n.Count,
		Metadata: n.Metadata,
	}

	if clientNotification.Metadata == nil {
		clientNotification.Metadata = make(map[string]string)
	}
	if n.RecordID != 0 {
		clientNotification.Metadata["record_id"] = fmt.Sprintf("%d", n.RecordID)
	}
	clientNotification.Metadata["collection_count"] = fmt.Sprintf("%d", n.Count)

	return a.client.SendNotificationWithContext(ctx, clientNotification)
}

// mapNotificationLevel maps change types to client notification levels
func mapNotificationLevel(t service.NotificationType) notification.NotificationLevel {
	switch t {
	case service.NotificationTypeRecordDeleted:
		return notification.LevelWarning
	default:
		return notification.LevelInfo
	}
}
