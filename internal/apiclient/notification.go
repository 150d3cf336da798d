package apiclient

import (
	"context"
	"fmt"

	"github.com/lankaspa/portal/internal/model"
)

// ListNotifications fetches the notification feed for a console. audience is
// "lsa" or a spa ID.
func (c *Client) ListNotifications(ctx context.Context, audience string) ([]model.Notification, error) {
	var notifications []model.Notification
	query := map[string]string{"audience": audience}
	if err := c.getJSON(ctx, "list_notifications", "/notifications", query, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flags one feed item as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := fmt.Sprintf("/notifications/%s/read", id)
	return c.postJSON(ctx, "notification_read", path, nil, nil)
}
